package output

import (
	"encoding/json"
	"fmt"

	"github.com/masmgr/gitlog-go/internal/git"
)

// JSONRecordWriter writes the report as a single JSON document.
type JSONRecordWriter struct{}

// JSONRecordReport is the JSON output structure.
type JSONRecordReport struct {
	RepoPath     string         `json:"repo"`
	Command      string         `json:"command,omitempty"`
	GeneratedAt  string         `json:"generatedAt"`
	Fields       []string       `json:"fields"`
	NameStatus   bool           `json:"nameStatus"`
	TotalCommits int            `json:"totalCommits"`
	Summary      *ChangeSummary `json:"summary,omitempty"`
	Commits      []git.Record   `json:"commits"`
}

// Write outputs the report as JSON.
func (w *JSONRecordWriter) Write(report *RecordReport, options OutputOptions) error {
	fields := make([]string, len(report.Fields))
	for i, f := range report.Fields {
		fields[i] = string(f)
	}
	commits := report.Records
	if commits == nil {
		commits = []git.Record{}
	}

	doc := JSONRecordReport{
		RepoPath:     report.RepoPath,
		Command:      report.Command,
		GeneratedAt:  report.GeneratedAt.Format(reportDateTimeLayout),
		Fields:       fields,
		NameStatus:   report.NameStatus,
		TotalCommits: len(report.Records),
		Commits:      commits,
	}
	if report.NameStatus {
		summary := Summarize(report.Records)
		doc.Summary = &summary
	}

	return writeJSON(doc, options.OutputPath)
}

func writeJSON(v interface{}, outputPath string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	out, file, err := openOutputWriter(outputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}
