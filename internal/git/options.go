package git

// DefaultNumber is the commit limit used when a query does not set one.
const DefaultNumber = 10

// ExecOptions is passed through to the process runner.
type ExecOptions struct {
	GitPath string   // git executable, "git" when empty
	Env     []string // appended to the inherited environment
}

// QueryOptions configures a single history query.
//
// Author, Since, After, Until, Before and Committer are forwarded to git
// verbatim. They are not escaped; callers must not pass untrusted values.
type QueryOptions struct {
	Repo             string
	Number           int
	Fields           []Field
	NameStatus       *bool // nil means enabled
	FindCopiesHarder bool
	All              bool
	Branch           string
	File             string

	Author    string
	Since     string
	After     string
	Until     string
	Before    string
	Committer string

	Include []string // Glob patterns applied to name-status paths
	Exclude []string // Glob patterns applied to name-status paths
	Strict  bool     // Fail on malformed chunks instead of recovering

	Exec ExecOptions
}

// Bool returns a pointer to v, for optional settings such as NameStatus.
func Bool(v bool) *bool {
	return &v
}

// NameStatusEnabled reports whether the name-status table is requested.
func (o QueryOptions) NameStatusEnabled() bool {
	return o.NameStatus == nil || *o.NameStatus
}

// WithDefaults returns a copy of o with unset values replaced by their defaults.
func (o QueryOptions) WithDefaults() QueryOptions {
	if o.Number <= 0 {
		o.Number = DefaultNumber
	}
	if len(o.Fields) == 0 {
		o.Fields = append([]Field(nil), DefaultFields...)
	} else {
		o.Fields = append([]Field(nil), o.Fields...)
	}
	if o.NameStatus == nil {
		o.NameStatus = Bool(true)
	}
	if o.Exec.GitPath == "" {
		o.Exec.GitPath = "git"
	}
	return o
}

// optionalFilters lists the pass-through filters in the order they are emitted.
func (o QueryOptions) optionalFilters() []struct{ name, value string } {
	return []struct{ name, value string }{
		{"author", o.Author},
		{"since", o.Since},
		{"after", o.After},
		{"until", o.Until},
		{"before", o.Before},
		{"committer", o.Committer},
	}
}
