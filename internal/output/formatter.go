package output

import (
	"time"

	"github.com/masmgr/gitlog-go/internal/git"
)

// Compile-time interface conformance checks.
var (
	_ RecordReportWriter = (*ConsoleRecordWriter)(nil)
	_ RecordReportWriter = (*JSONRecordWriter)(nil)
	_ RecordReportWriter = (*CSVRecordWriter)(nil)
	_ RecordReportWriter = (*MarkdownRecordWriter)(nil)
	_ RecordReportWriter = (*CIRecordWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
)

// ParseFormat maps a format name to an OutputFormat. Unknown names give the console format.
func ParseFormat(s string) OutputFormat {
	switch s {
	case "json":
		return FormatJSON
	case "csv":
		return FormatCSV
	case "markdown", "md":
		return FormatMarkdown
	case "ci", "ndjson":
		return FormatCI
	default:
		return FormatConsole
	}
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string
}

// RecordReport holds the commits returned by one query.
type RecordReport struct {
	RepoPath    string
	Command     string
	GeneratedAt time.Time
	Fields      []git.Field
	NameStatus  bool
	Records     []git.Record
}

// Columns returns the scalar fields shown for each commit.
func (r *RecordReport) Columns() []git.Field {
	return git.ScalarFields(r.Fields)
}

// RecordReportWriter writes query results.
type RecordReportWriter interface {
	Write(report *RecordReport, options OutputOptions) error
}

// NewRecordReportWriter creates a report writer for the specified format.
func NewRecordReportWriter(format OutputFormat) RecordReportWriter {
	switch format {
	case FormatJSON:
		return &JSONRecordWriter{}
	case FormatCSV:
		return &CSVRecordWriter{}
	case FormatMarkdown:
		return &MarkdownRecordWriter{}
	case FormatCI:
		return &CIRecordWriter{}
	default:
		return &ConsoleRecordWriter{}
	}
}
