package git

import (
	"strconv"
	"strings"
)

// Sentinels framing each commit in the log stream. The begin marker starts
// every commit's header and the end marker closes its scalar fields; neither
// is expected in ordinary commit metadata. Fields are separated by a tab.
const (
	BeginSentinel = "@begin@"
	EndSentinel   = "@end@"
	Delimiter     = "\t"
)

// Command is a compiled git log invocation.
type Command struct {
	// Dir is the working directory for the process. The caller's own
	// working directory is never changed.
	Dir        string
	Args       []string // argv after the git executable
	Template   string   // value passed to --pretty
	Fields     []Field  // requested fields, reserved markers included
	NameStatus bool
	Options    QueryOptions // resolved options the command was built from
}

// Compile builds the git log command for opts. It performs no I/O.
func Compile(opts QueryOptions) (*Command, error) {
	opts = opts.WithDefaults()

	template, err := buildTemplate(opts.Fields)
	if err != nil {
		return nil, err
	}

	args := []string{"log"}
	if opts.FindCopiesHarder {
		args = append(args, "--find-copies-harder")
	}
	if opts.All {
		args = append(args, "--all")
	}
	args = append(args, "-n", strconv.Itoa(opts.Number))

	for _, f := range opts.optionalFilters() {
		if f.value != "" {
			args = append(args, "--"+f.name+"="+f.value)
		}
	}

	args = append(args, "--no-color", "--pretty=tformat:"+template)

	// Options after "--" are read as paths, so --name-status goes before the ref and path arguments.
	nameStatus := opts.NameStatusEnabled()
	if nameStatus {
		args = append(args, "--name-status")
	}
	if opts.Branch != "" {
		args = append(args, opts.Branch)
	}
	if opts.File != "" {
		args = append(args, "--", opts.File)
	}

	return &Command{
		Dir:        opts.Repo,
		Args:       args,
		Template:   template,
		Fields:     opts.Fields,
		NameStatus: nameStatus,
		Options:    opts,
	}, nil
}

func buildTemplate(fields []Field) (string, error) {
	var b strings.Builder
	b.WriteString(BeginSentinel)
	for _, f := range fields {
		if f.IsReserved() {
			continue
		}
		placeholder := f.Placeholder()
		if placeholder == "" {
			return "", &UnknownFieldError{Field: string(f)}
		}
		b.WriteString(Delimiter)
		b.WriteString(placeholder)
	}
	b.WriteString(EndSentinel)
	return b.String(), nil
}

// String renders the command as a shell-style line, for logs and diagnostics.
// It is not meant to be passed to a shell.
func (c *Command) String() string {
	git := c.Options.Exec.GitPath
	if git == "" {
		git = "git"
	}
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, git)
	for _, arg := range c.Args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	name, value, ok := strings.Cut(arg, "=")
	if ok && strings.HasPrefix(name, "--") {
		return name + `="` + value + `"`
	}
	if strings.ContainsAny(arg, " \t\"") {
		return `"` + arg + `"`
	}
	return arg
}
