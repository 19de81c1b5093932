package git

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingRepo is returned when a query does not name a repository.
var ErrMissingRepo = errors.New("repo required")

// RepoNotFoundError reports a repository location that cannot be used as a working directory.
type RepoNotFoundError struct {
	Path string
	Err  error
}

func (e *RepoNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("repo location does not exist: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("repo location does not exist: %s", e.Path)
}

func (e *RepoNotFoundError) Unwrap() error { return e.Err }

// UnknownFieldError reports a requested field that has no placeholder.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return "unknown field: " + e.Field
}

// ExternalCommandError carries a failed git invocation. Stderr is passed through uninterpreted.
type ExternalCommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExternalCommandError) Error() string {
	msg := "git " + strings.Join(e.Args, " ")
	if len(msg) > 120 {
		msg = msg[:117] + "..."
	}
	stderr := strings.TrimSpace(e.Stderr)
	switch {
	case stderr != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v: %s", msg, e.Err, stderr)
	case stderr != "":
		return fmt.Sprintf("%s: %s", msg, stderr)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	default:
		return msg + ": failed"
	}
}

func (e *ExternalCommandError) Unwrap() error { return e.Err }

// DecodeError is returned by strict decoding when a chunk does not match the template.
type DecodeError struct {
	Index  int // zero-based commit position in the stream
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode commit %d: %s", e.Index, e.Reason)
}
