package output

import (
	"encoding/csv"
	"os"
	"strings"
)

// CSVRecordWriter writes one row per commit. Name-status entries are joined
// with ";" so the status and files columns stay aligned.
type CSVRecordWriter struct{}

// Write outputs the report as CSV.
func (w *CSVRecordWriter) Write(report *RecordReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	columns := report.Columns()

	// Write header
	headers := make([]string, 0, len(columns)+2)
	for _, f := range columns {
		headers = append(headers, string(f))
	}
	if report.NameStatus {
		headers = append(headers, "status", "files")
	}
	if err := writer.Write(headers); err != nil {
		return err
	}

	// Write data
	for _, rec := range report.Records {
		row := make([]string, 0, len(headers))
		for _, f := range columns {
			row = append(row, value(rec, f))
		}
		if report.NameStatus {
			row = append(row, strings.Join(rec.Status, ";"), strings.Join(rec.Files, ";"))
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, *os.File, error) {
	out, file, err := openOutputWriter(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return csv.NewWriter(out), file, nil
}
