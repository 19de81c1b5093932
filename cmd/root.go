package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitlog-go/config"
	"github.com/masmgr/gitlog-go/internal/git"
	"github.com/masmgr/gitlog-go/internal/output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "gitlog",
		Usage:     "Query git history with a custom format and decode it into records",
		Version:   "1.0.0",
		ArgsUsage: "[repository path]",
		Commands: []*cli.Command{
			LogCmd(),
			FieldsCmd(),
			ConfigCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Action: defaultAction,
	}
}

// Query flags shared by the log command.
func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.IntFlag{
			Name:    "number",
			Aliases: []string{"n"},
			Usage:   "Maximum number of commits",
		},
		&cli.StringSliceFlag{
			Name:    "fields",
			Aliases: []string{"F"},
			Usage:   "Fields to request, in order (see the fields command)",
		},
		&cli.BoolFlag{
			Name:  "name-status",
			Usage: "Include changed files with their status (use --name-status=false to disable)",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "find-copies-harder",
			Usage: "Detect copies from unmodified files as well",
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "Walk all refs instead of a single branch",
		},
		&cli.StringFlag{
			Name:    "branch",
			Aliases: []string{"b"},
			Usage:   "Revision or range to log",
		},
		&cli.StringFlag{
			Name:  "file",
			Usage: "Limit history to a path",
		},
		&cli.StringFlag{Name: "author", Usage: "Limit to commits by author (regex)"},
		&cli.StringFlag{Name: "committer", Usage: "Limit to commits by committer (regex)"},
		&cli.StringFlag{Name: "since", Usage: "Show commits more recent than a date"},
		&cli.StringFlag{Name: "after", Usage: "Synonym of --since"},
		&cli.StringFlag{Name: "until", Usage: "Show commits older than a date"},
		&cli.StringFlag{Name: "before", Usage: "Synonym of --until"},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns of changed files to keep (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns of changed files to drop (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "History backend (gitcli, native)",
		},
		&cli.StringFlag{
			Name:  "git-path",
			Usage: "git executable used by the gitcli backend",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Fail on output that does not match the requested fields",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ci)",
			Value:   "console",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	}
}

// loadConfig loads configuration from file or defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Apply filter overrides from CLI
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}
	if level := c.String("log-level"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

// parseFieldList accepts repeated and comma-separated field names.
func parseFieldList(values []string) ([]git.Field, error) {
	var names []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return git.ParseFields(names)
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	return output.ParseFormat(s)
}

// defaultAction runs the log command against the repository given as the first argument.
func defaultAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowAppHelp(c)
	}
	return runLog(c, c.Args().Get(0))
}

// Run executes the CLI application.
func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := App().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode passes git's exit status through when it failed.
func exitCode(err error) int {
	var cmdErr *git.ExternalCommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
		return cmdErr.ExitCode
	}
	return 1
}
