package git

// Field names a value that can be requested from git log.
type Field string

const (
	FieldHash               Field = "hash"
	FieldAbbrevHash         Field = "abbrevHash"
	FieldTreeHash           Field = "treeHash"
	FieldAbbrevTreeHash     Field = "abbrevTreeHash"
	FieldParentHashes       Field = "parentHashes"
	FieldAbbrevParentHashes Field = "abbrevParentHashes"
	FieldAuthorName         Field = "authorName"
	FieldAuthorEmail        Field = "authorEmail"
	FieldAuthorDate         Field = "authorDate"
	FieldAuthorDateRel      Field = "authorDateRel"
	FieldCommitterName      Field = "committerName"
	FieldCommitterEmail     Field = "committerEmail"
	FieldCommitterDate      Field = "committerDate"
	FieldCommitterDateRel   Field = "committerDateRel"
	FieldSubject            Field = "subject"
	FieldBody               Field = "body"

	// FieldStatus and FieldFiles are markers for the name-status table.
	// They have no placeholder and never consume a template slot.
	FieldStatus Field = "status"
	FieldFiles  Field = "files"
)

type fieldDef struct {
	field       Field
	placeholder string
}

// fieldTable is the closed set of requestable fields, in display order.
var fieldTable = []fieldDef{
	{FieldHash, "%H"},
	{FieldAbbrevHash, "%h"},
	{FieldTreeHash, "%T"},
	{FieldAbbrevTreeHash, "%t"},
	{FieldParentHashes, "%P"},
	{FieldAbbrevParentHashes, "%p"},
	{FieldAuthorName, "%an"},
	{FieldAuthorEmail, "%ae"},
	{FieldAuthorDate, "%ai"},
	{FieldAuthorDateRel, "%ar"},
	{FieldCommitterName, "%cn"},
	{FieldCommitterEmail, "%ce"},
	{FieldCommitterDate, "%cd"},
	{FieldCommitterDateRel, "%cr"},
	{FieldSubject, "%s"},
	{FieldBody, "%B"},
}

var placeholders = func() map[Field]string {
	m := make(map[Field]string, len(fieldTable))
	for _, def := range fieldTable {
		m[def.field] = def.placeholder
	}
	return m
}()

// DefaultFields is the field list used when a query does not name any.
var DefaultFields = []Field{FieldAbbrevHash, FieldHash, FieldSubject, FieldAuthorName}

// KnownFields returns every requestable field in table order.
func KnownFields() []Field {
	out := make([]Field, len(fieldTable))
	for i, def := range fieldTable {
		out[i] = def.field
	}
	return out
}

// Placeholder returns the pretty-format token for f, or "" for reserved and unknown fields.
func (f Field) Placeholder() string {
	return placeholders[f]
}

// IsReserved reports whether f is one of the name-status markers.
func (f Field) IsReserved() bool {
	return f == FieldStatus || f == FieldFiles
}

// IsKnown reports whether f may appear in a query's field list.
func (f Field) IsKnown() bool {
	if f.IsReserved() {
		return true
	}
	_, ok := placeholders[f]
	return ok
}

// LookupField resolves a field name as typed by a user.
func LookupField(name string) (Field, bool) {
	f := Field(name)
	return f, f.IsKnown()
}

// ParseFields resolves a list of field names, failing on the first unknown one.
func ParseFields(names []string) ([]Field, error) {
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		f, ok := LookupField(name)
		if !ok {
			return nil, &UnknownFieldError{Field: name}
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// ScalarFields drops the reserved markers, leaving the fields that own a template slot.
func ScalarFields(fields []Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if !f.IsReserved() {
			out = append(out, f)
		}
	}
	return out
}
