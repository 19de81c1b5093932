package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitlog-go/internal/git"
	"github.com/masmgr/gitlog-go/internal/output"
)

// LogCmd returns the log command.
func LogCmd() *cli.Command {
	return &cli.Command{
		Name:    "log",
		Aliases: []string{"l"},
		Usage:   "Run git log with the requested fields and print the decoded commits",
		Flags:   queryFlags(),
		Action: func(c *cli.Context) error {
			return runLog(c, c.String("repo"))
		},
	}
}

func runLog(c *cli.Context, repo string) error {
	cmdCtx, err := NewCommandContext(c, repo)
	if err != nil {
		return err
	}

	client := git.NewClient(git.WithRunner(cmdCtx.Runner), git.WithLogger(cmdCtx.Logger))
	compiled, err := client.Prepare(cmdCtx.Query)
	if err != nil {
		return err
	}
	records, err := client.Run(c.Context, compiled)
	if err != nil {
		return err
	}

	report := &output.RecordReport{
		RepoPath:    repo,
		Command:     compiled.String(),
		GeneratedAt: time.Now(),
		Fields:      compiled.Fields,
		NameStatus:  compiled.NameStatus,
		Records:     records,
	}
	return writeRecordReport(c, report)
}
