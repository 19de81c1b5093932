package git

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
)

// ExecRunner runs the git executable.
type ExecRunner struct {
	Logger *slog.Logger
}

// NewExecRunner creates a runner that logs through logger, or slog.Default when nil.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{Logger: logger}
}

// Run starts git in cmd.Dir and waits for it. The process working directory is
// set on the child only, so concurrent runs against different repositories do
// not interfere.
func (r *ExecRunner) Run(ctx context.Context, cmd *Command) ([]byte, error) {
	git := cmd.Options.Exec.GitPath
	if git == "" {
		git = "git"
	}

	c := exec.CommandContext(ctx, git, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Options.Exec.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Options.Exec.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	r.logger().Debug("running git", slog.String("dir", cmd.Dir), slog.String("command", cmd.String()))

	if err := c.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return stdout.Bytes(), &ExternalCommandError{
			Args:     cmd.Args,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}
	return stdout.Bytes(), nil
}

func (r *ExecRunner) logger() *slog.Logger {
	if r == nil || r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
