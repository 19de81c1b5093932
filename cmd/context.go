package cmd

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitlog-go/config"
	"github.com/masmgr/gitlog-go/internal/git"
	"github.com/masmgr/gitlog-go/internal/logging"
	"github.com/masmgr/gitlog-go/internal/output"
)

// CommandContext holds common state for command execution.
type CommandContext struct {
	Config *config.Config
	Logger *slog.Logger
	Query  git.QueryOptions
	Runner git.Runner
}

// NewCommandContext loads configuration, sets up logging and merges the
// query flags over the configured defaults.
func NewCommandContext(c *cli.Context, repo string) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	if backend := c.String("backend"); backend != "" {
		cfg.Backend.Kind = backend
	}
	if gitPath := c.String("git-path"); gitPath != "" {
		cfg.Backend.GitPath = gitPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.Setup(cfg.Log, c.App.ErrWriter)

	query, err := cfg.QueryOptions(repo)
	if err != nil {
		return nil, err
	}
	if err := applyQueryFlags(c, &query); err != nil {
		return nil, err
	}

	return &CommandContext{
		Config: cfg,
		Logger: logger,
		Query:  query,
		Runner: newRunner(cfg.Backend, logger),
	}, nil
}

// applyQueryFlags overrides query options with the flags set on the command line.
func applyQueryFlags(c *cli.Context, q *git.QueryOptions) error {
	if c.IsSet("number") {
		if n := c.Int("number"); n > 0 {
			q.Number = n
		} else {
			return fmt.Errorf("--number must be positive, got %d", n)
		}
	}
	if c.IsSet("fields") {
		fields, err := parseFieldList(c.StringSlice("fields"))
		if err != nil {
			return err
		}
		q.Fields = fields
	}
	if c.IsSet("name-status") {
		q.NameStatus = git.Bool(c.Bool("name-status"))
	}
	if c.IsSet("find-copies-harder") {
		q.FindCopiesHarder = c.Bool("find-copies-harder")
	}
	if c.IsSet("all") {
		q.All = c.Bool("all")
	}
	if c.IsSet("strict") {
		q.Strict = c.Bool("strict")
	}

	for name, dst := range map[string]*string{
		"branch":    &q.Branch,
		"file":      &q.File,
		"author":    &q.Author,
		"committer": &q.Committer,
		"since":     &q.Since,
		"after":     &q.After,
		"until":     &q.Until,
		"before":    &q.Before,
	} {
		if v := c.String(name); v != "" {
			*dst = v
		}
	}
	return nil
}

func newRunner(backend config.BackendConfig, logger *slog.Logger) git.Runner {
	if backend.Kind == config.BackendNative {
		runner := git.NewNativeRunner(logger)
		if backend.RenameScore > 0 {
			runner.RenameScore = backend.RenameScore
		}
		return runner
	}
	return git.NewExecRunner(logger)
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context) output.OutputOptions {
	return output.OutputOptions{
		Format:     getOutputFormat(c.String("format")),
		OutputPath: c.String("output"),
	}
}
