package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitlog-go/internal/git"
)

// FieldsCmd returns the command listing the fields a query can request.
func FieldsCmd() *cli.Command {
	return &cli.Command{
		Name:   "fields",
		Usage:  "List the fields accepted by --fields",
		Action: fieldsAction,
	}
}

func fieldsAction(c *cli.Context) error {
	out := c.App.Writer

	color.New(color.FgGreen).Fprintln(out, "Fields")
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Name\tPlaceholder\tDefault")
	defaults := map[git.Field]bool{}
	for _, f := range git.DefaultFields {
		defaults[f] = true
	}
	for _, f := range git.KnownFields() {
		mark := ""
		if defaults[f] {
			mark = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f, f.Placeholder(), mark)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%q and %q are markers: they place the name-status lists in JSON output and take no placeholder.\n",
		git.FieldStatus, git.FieldFiles)
	return nil
}
