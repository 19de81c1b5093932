package output

import (
	"testing"

	"github.com/masmgr/gitlog-go/internal/git"
)

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleReport(true).Records)

	want := ChangeSummary{
		Commits:  2,
		Files:    5,
		Added:    2,
		Modified: 1,
		Deleted:  1,
		Renamed:  1,
	}
	if summary != want {
		t.Errorf("Summarize = %+v, expected %+v", summary, want)
	}
}

func TestSummarize_WithoutNameStatus(t *testing.T) {
	summary := Summarize(sampleReport(false).Records)
	if summary != (ChangeSummary{Commits: 2}) {
		t.Errorf("Summarize = %+v", summary)
	}
}

func TestRecordReport_Columns(t *testing.T) {
	report := &RecordReport{Fields: []git.Field{git.FieldStatus, git.FieldHash, git.FieldFiles, git.FieldSubject}}
	columns := report.Columns()
	if len(columns) != 2 || columns[0] != git.FieldHash || columns[1] != git.FieldSubject {
		t.Errorf("Columns() = %v", columns)
	}
}
