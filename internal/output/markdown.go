package output

import (
	"fmt"
	"strings"
)

// MarkdownRecordWriter writes the report as a Markdown table.
type MarkdownRecordWriter struct{}

// Write outputs the report as Markdown.
func (w *MarkdownRecordWriter) Write(report *RecordReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	// Header
	fmt.Fprintln(out, "# Git Log")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	if report.Command != "" {
		fmt.Fprintf(out, "**Command:** `%s`\n\n", strings.ReplaceAll(report.Command, "`", "'"))
	}
	fmt.Fprintf(out, "**Total Commits:** %d\n\n", len(report.Records))

	if len(report.Records) == 0 {
		fmt.Fprintln(out, "No commits found.")
		return nil
	}

	columns := report.Columns()

	// Table header
	headers := make([]string, 0, len(columns)+1)
	for _, f := range columns {
		headers = append(headers, string(f))
	}
	if report.NameStatus {
		headers = append(headers, "changes")
	}
	fmt.Fprintf(out, "| %s |\n", strings.Join(headers, " | "))
	fmt.Fprintf(out, "|%s\n", strings.Repeat("---|", len(headers)))

	// Table rows
	for _, rec := range report.Records {
		cells := make([]string, 0, len(headers))
		for _, f := range columns {
			cells = append(cells, markdownCell(value(rec, f)))
		}
		if report.NameStatus {
			changes := make([]string, 0, len(rec.Files))
			for _, change := range rec.Changes() {
				changes = append(changes, fmt.Sprintf("%s `%s`", change.Status, codeSpanPath(change.Path)))
			}
			cells = append(cells, strings.Join(changes, "<br>"))
		}
		fmt.Fprintf(out, "| %s |\n", strings.Join(cells, " | "))
	}

	return nil
}

// markdownCell escapes a value for a table cell, keeping line breaks.
func markdownCell(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = escapeMarkdown(line)
	}
	return strings.Join(lines, "<br>")
}

// codeSpanPath prepares a path for a code span inside a table cell.
func codeSpanPath(path string) string {
	return strings.NewReplacer("`", "'", "|", "\\|").Replace(path)
}
