package git

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FieldValue is one decoded scalar field of a commit.
type FieldValue struct {
	Field Field
	Value string
}

// Record is one decoded commit.
//
// Values follow the order the fields were requested in. Status and Files are
// parallel slices and are nil unless the query enabled name-status, in which
// case they are non-nil even for commits without file changes.
type Record struct {
	Values []FieldValue
	Status []string
	Files  []string

	// order keeps the requested field list, reserved markers included, for rendering.
	order []Field
}

// HasNameStatus reports whether the record carries the name-status table.
func (r Record) HasNameStatus() bool {
	return r.Status != nil
}

// Get returns the value of field f.
func (r Record) Get(f Field) (string, bool) {
	for _, v := range r.Values {
		if v.Field == f {
			return v.Value, true
		}
	}
	return "", false
}

// Fields returns the scalar fields present in the record, in order.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.Values))
	for i, v := range r.Values {
		out[i] = v.Field
	}
	return out
}

// Changes pairs the name-status slices into FileChange values.
func (r Record) Changes() []FileChange {
	n := min(len(r.Status), len(r.Files))
	changes := make([]FileChange, 0, n)
	for i := 0; i < n; i++ {
		changes = append(changes, FileChange{
			Status: r.Status[i],
			Path:   r.Files[i],
			Kind:   kindFromGitStatus(r.Status[i]),
		})
	}
	return changes
}

// Map returns the record as a plain map, matching its JSON form.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.Values)+2)
	for _, v := range r.Values {
		m[string(v.Field)] = v.Value
	}
	if r.HasNameStatus() {
		m[string(FieldStatus)] = r.Status
		m[string(FieldFiles)] = r.Files
	}
	return m
}

// MarshalJSON writes an object whose keys follow the requested field order.
// status and files are emitted only when name-status was enabled; a reserved
// marker in the field list decides where they appear, otherwise they come last.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	writeKey := func(key string, value any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	written := map[Field]bool{}
	emit := func(f Field) error {
		if written[f] {
			return nil
		}
		written[f] = true
		switch f {
		case FieldStatus:
			if r.HasNameStatus() {
				return writeKey(string(f), r.Status)
			}
		case FieldFiles:
			if r.HasNameStatus() {
				return writeKey(string(f), r.Files)
			}
		default:
			if v, ok := r.Get(f); ok {
				return writeKey(string(f), v)
			}
		}
		return nil
	}

	order := r.order
	if len(order) == 0 {
		order = r.Fields()
	}
	for _, f := range order {
		if err := emit(f); err != nil {
			return nil, err
		}
	}
	for _, v := range r.Values {
		if err := emit(v.Field); err != nil {
			return nil, err
		}
	}
	if err := emit(FieldStatus); err != nil {
		return nil, err
	}
	if err := emit(FieldFiles); err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FileChange is one row of a commit's name-status table.
type FileChange struct {
	Status string // e.g. "M", "A", "D", "R100"
	Path   string
	Kind   ChangeKind
}

// ChangeKind represents the type of change.
type ChangeKind int

const (
	ChangeKindAdded ChangeKind = iota
	ChangeKindModified
	ChangeKindDeleted
	ChangeKindRenamed
	ChangeKindCopied
	ChangeKindTypeChanged
	ChangeKindUnknown
)

// String returns a string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeKindAdded:
		return "added"
	case ChangeKindModified:
		return "modified"
	case ChangeKindDeleted:
		return "deleted"
	case ChangeKindRenamed:
		return "renamed"
	case ChangeKindCopied:
		return "copied"
	case ChangeKindTypeChanged:
		return "type-changed"
	default:
		return "unknown"
	}
}

func kindFromGitStatus(status string) ChangeKind {
	if status == "" {
		return ChangeKindUnknown
	}
	switch status[0] {
	case 'A':
		return ChangeKindAdded
	case 'M':
		return ChangeKindModified
	case 'D':
		return ChangeKindDeleted
	case 'R':
		return ChangeKindRenamed
	case 'C':
		return ChangeKindCopied
	case 'T':
		return ChangeKindTypeChanged
	default:
		return ChangeKindUnknown
	}
}

// isRename reports whether a name-status code describes a rename.
func isRename(status string) bool {
	return strings.HasPrefix(status, "R")
}
