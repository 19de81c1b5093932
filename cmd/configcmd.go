package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitlog-go/config"
)

// ConfigCmd returns the command group for the configuration file.
func ConfigCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the configuration file",
		Subcommands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Write a configuration file with the default settings",
				ArgsUsage: "[path]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: configInitAction,
			},
		},
	}
}

func configInitAction(c *cli.Context) error {
	path := config.FileName
	if c.NArg() > 0 {
		path = c.Args().Get(0)
	}

	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	color.New(color.FgGreen).Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}
