package output

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONRecordWriter_Write(t *testing.T) {
	data := writeReport(t, &JSONRecordWriter{}, sampleReport(true))

	var doc struct {
		Repo         string           `json:"repo"`
		GeneratedAt  string           `json:"generatedAt"`
		Fields       []string         `json:"fields"`
		TotalCommits int              `json:"totalCommits"`
		Summary      *ChangeSummary   `json:"summary"`
		Commits      []map[string]any `json:"commits"`
	}
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, data)
	}

	if doc.Repo != "/test/repo" || doc.TotalCommits != 2 {
		t.Errorf("doc = %+v", doc)
	}
	if doc.GeneratedAt != "2024-03-01T09:30:00" {
		t.Errorf("generatedAt = %q", doc.GeneratedAt)
	}
	if doc.Summary == nil || doc.Summary.Files != 5 {
		t.Errorf("summary = %+v", doc.Summary)
	}
	if len(doc.Commits) != 2 || doc.Commits[1]["subject"] != "First commit" {
		t.Errorf("commits = %v", doc.Commits)
	}

	// Commit keys keep the requested field order.
	first := data[strings.Index(data, `"commits"`):]
	if strings.Index(first, `"abbrevHash"`) > strings.Index(first, `"subject"`) ||
		strings.Index(first, `"subject"`) > strings.Index(first, `"authorName"`) ||
		strings.Index(first, `"authorName"`) > strings.Index(first, `"status"`) {
		t.Errorf("commit keys out of order:\n%s", first)
	}
}

func TestJSONRecordWriter_WithoutNameStatus(t *testing.T) {
	data := writeReport(t, &JSONRecordWriter{}, sampleReport(false))

	if strings.Contains(data, `"status"`) || strings.Contains(data, `"files"`) {
		t.Errorf("name-status keys present:\n%s", data)
	}
	if strings.Contains(data, `"summary"`) {
		t.Errorf("summary present without name-status:\n%s", data)
	}
}

func TestJSONRecordWriter_EmptyCommitsIsArray(t *testing.T) {
	report := sampleReport(true)
	report.Records = nil

	data := writeReport(t, &JSONRecordWriter{}, report)
	if !strings.Contains(data, `"commits": []`) {
		t.Errorf("expected empty commits array:\n%s", data)
	}
}
