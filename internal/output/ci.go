package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// CIRecordWriter writes the report as NDJSON (one JSON object per line) for CI pipelines.
type CIRecordWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type string `json:"type"`
	Repo string `json:"repo"`
	ChangeSummary
}

// Write outputs a summary line followed by one line per commit.
func (w *CIRecordWriter) Write(report *RecordReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	summary := CISummary{
		Type:          "summary",
		Repo:          report.RepoPath,
		ChangeSummary: Summarize(report.Records),
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, rec := range report.Records {
		entry := rec.Map()
		entry["type"] = "commit"
		if err := writeNDJSONLine(out, entry); err != nil {
			return err
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
