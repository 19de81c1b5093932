package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/masmgr/gitlog-go/internal/git"
	"github.com/masmgr/gitlog-go/internal/output"
)

func TestParseFieldList(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []git.Field
		wantErr bool
	}{
		{name: "Repeated", input: []string{"hash", "subject"}, want: []git.Field{git.FieldHash, git.FieldSubject}},
		{name: "CommaSeparated", input: []string{"hash, subject,authorName"}, want: []git.Field{git.FieldHash, git.FieldSubject, git.FieldAuthorName}},
		{name: "Markers", input: []string{"status,hash"}, want: []git.Field{git.FieldStatus, git.FieldHash}},
		{name: "Unknown", input: []string{"hash,bogus"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFieldList(tt.input)
			if tt.wantErr {
				var unknown *git.UnknownFieldError
				if !errors.As(err, &unknown) {
					t.Fatalf("expected *git.UnknownFieldError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("parseFieldList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetOutputFormat(t *testing.T) {
	tests := []struct {
		input string
		want  output.OutputFormat
	}{
		{input: "json", want: output.FormatJSON},
		{input: "csv", want: output.FormatCSV},
		{input: "markdown", want: output.FormatMarkdown},
		{input: "md", want: output.FormatMarkdown},
		{input: "ci", want: output.FormatCI},
		{input: "ndjson", want: output.FormatCI},
		{input: "unknown", want: output.FormatConsole},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := getOutputFormat(tt.input); got != tt.want {
				t.Fatalf("getOutputFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(errors.New("boom")); got != 1 {
		t.Errorf("exitCode(plain) = %d, want 1", got)
	}
	if got := exitCode(&git.ExternalCommandError{ExitCode: 128}); got != 128 {
		t.Errorf("exitCode(git 128) = %d, want 128", got)
	}
	if got := exitCode(&git.ExternalCommandError{ExitCode: -1}); got != 1 {
		t.Errorf("exitCode(git -1) = %d, want 1", got)
	}
}

// runApp runs the CLI with an isolated configuration file.
func runApp(t *testing.T, args ...string) error {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "gitlog.json")
	if err := os.WriteFile(cfgPath, []byte(`{"backend": {"kind": "native"}}`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	app := App()
	app.ErrWriter = &bytes.Buffer{}
	var err error
	discardOutput(t, func() {
		err = app.Run(append([]string{"gitlog", "--config", cfgPath}, args...))
	})
	return err
}

func TestLogCmd_JSON(t *testing.T) {
	repo := sampleRepo(t)
	outPath := filepath.Join(t.TempDir(), "log.json")

	err := runApp(t, "log", "--repo", repo, "--fields", "abbrevHash,subject", "--exclude", "docs/**", "--format", "json", "--output", outPath)
	if err != nil {
		t.Fatalf("log failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	var doc struct {
		TotalCommits int              `json:"totalCommits"`
		Fields       []string         `json:"fields"`
		Command      string           `json:"command"`
		Commits      []map[string]any `json:"commits"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, data)
	}

	if doc.TotalCommits != 3 {
		t.Fatalf("totalCommits = %d, expected 3", doc.TotalCommits)
	}
	if !reflect.DeepEqual(doc.Fields, []string{"abbrevHash", "subject"}) {
		t.Errorf("fields = %v", doc.Fields)
	}
	if !strings.Contains(doc.Command, "--name-status") {
		t.Errorf("command = %q", doc.Command)
	}
	if doc.Commits[0]["subject"] != "Update docs" {
		t.Errorf("first subject = %v", doc.Commits[0]["subject"])
	}
	if files, _ := doc.Commits[0]["files"].([]any); len(files) != 0 {
		t.Errorf("excluded docs file still listed: %v", files)
	}
	if files, _ := doc.Commits[1]["files"].([]any); len(files) != 1 || files[0] != "src/main.go" {
		t.Errorf("files = %v", doc.Commits[1]["files"])
	}
}

func TestLogCmd_NumberAndNoNameStatus(t *testing.T) {
	repo := sampleRepo(t)
	outPath := filepath.Join(t.TempDir(), "log.csv")

	err := runApp(t, "log", "-r", repo, "-n", "2", "--name-status=false", "-F", "subject", "-f", "csv", "-o", outPath)
	if err != nil {
		t.Fatalf("log failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	want := "subject\nUpdate docs\nFix parser\n"
	if string(data) != want {
		t.Errorf("csv = %q, expected %q", data, want)
	}
}

func TestLogCmd_Errors(t *testing.T) {
	repo := sampleRepo(t)

	tests := []struct {
		name  string
		args  []string
		check func(error) bool
	}{
		{
			name:  "Unknown field",
			args:  []string{"log", "--repo", repo, "--fields", "bogus"},
			check: func(err error) bool { var e *git.UnknownFieldError; return errors.As(err, &e) },
		},
		{
			name:  "Missing repository",
			args:  []string{"log", "--repo", filepath.Join(repo, "missing")},
			check: func(err error) bool { var e *git.RepoNotFoundError; return errors.As(err, &e) },
		},
		{
			name:  "Empty repository",
			args:  []string{"log", "--repo", "   "},
			check: func(err error) bool { return errors.Is(err, git.ErrMissingRepo) },
		},
		{
			name:  "Unknown backend",
			args:  []string{"log", "--repo", repo, "--backend", "svn"},
			check: func(err error) bool { return err != nil && strings.Contains(err.Error(), "backend.kind") },
		},
		{
			name:  "Non-positive number",
			args:  []string{"log", "--repo", repo, "--number", "0"},
			check: func(err error) bool { return err != nil && strings.Contains(err.Error(), "--number") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runApp(t, tt.args...); !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultAction_RunsLogOnRepository(t *testing.T) {
	repo := sampleRepo(t)
	if err := runApp(t, repo); err != nil {
		t.Fatalf("default action failed: %v", err)
	}
}

func TestFieldsCmd(t *testing.T) {
	app := App()
	var buf bytes.Buffer
	app.Writer = &buf

	if err := app.Run([]string{"gitlog", "fields"}); err != nil {
		t.Fatalf("fields failed: %v", err)
	}

	out := buf.String()
	for _, f := range git.KnownFields() {
		if !strings.Contains(out, string(f)) || !strings.Contains(out, f.Placeholder()) {
			t.Errorf("field %s missing from output", f)
		}
	}
}
