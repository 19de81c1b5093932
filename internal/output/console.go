package output

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/masmgr/gitlog-go/internal/git"
)

// ConsoleRecordWriter writes commits in a compact, colored listing.
type ConsoleRecordWriter struct{}

// Write outputs the report to the console.
func (w *ConsoleRecordWriter) Write(report *RecordReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	title := color.New(color.FgGreen, color.Bold)
	hash := color.New(color.FgYellow)

	title.Fprintln(out, "Git Log")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	if report.Command != "" {
		fmt.Fprintf(out, "Command: %s\n", report.Command)
	}
	summary := Summarize(report.Records)
	fmt.Fprintf(out, "Commits: %s", humanize.Comma(int64(summary.Commits)))
	if report.NameStatus {
		fmt.Fprintf(out, ", file changes: %s", humanize.Comma(int64(summary.Files)))
	}
	fmt.Fprint(out, "\n\n")

	if len(report.Records) == 0 {
		fmt.Fprintln(out, "No commits found.")
		return nil
	}

	columns := report.Columns()
	for i, rec := range report.Records {
		if i > 0 {
			fmt.Fprintln(out)
		}
		values := make([]string, 0, len(columns))
		for _, f := range columns {
			values = append(values, truncateMessage(oneLine(value(rec, f)), 72))
		}
		if len(values) > 0 {
			hash.Fprint(out, values[0])
			if rest := values[1:]; len(rest) > 0 {
				fmt.Fprint(out, "  "+strings.Join(rest, "  "))
			}
			fmt.Fprintln(out)
		}

		if !report.NameStatus {
			continue
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, change := range rec.Changes() {
			fmt.Fprintf(tw, "    %s\t%s\n", changeColor(change.Kind)(change.Status), change.Path)
		}
		tw.Flush()
	}

	return nil
}

func changeColor(kind git.ChangeKind) func(string, ...interface{}) string {
	switch kind {
	case git.ChangeKindAdded:
		return color.GreenString
	case git.ChangeKindDeleted:
		return color.RedString
	case git.ChangeKindRenamed, git.ChangeKindCopied:
		return color.CyanString
	case git.ChangeKindModified:
		return color.YellowString
	default:
		return color.WhiteString
	}
}
