package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// createTestRepo creates a temporary git repository with test commits
func createTestRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	tmpDir := t.TempDir()

	repo, err := git.PlainInit(tmpDir, false)
	if err != nil {
		t.Fatalf("Failed to initialize git repo: %v", err)
	}

	return tmpDir, repo
}

// addCommitToRepo writes the files and commits them.
func addCommitToRepo(t *testing.T, repo *git.Repository, message string, filenames []string, commitTime time.Time) {
	t.Helper()
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	for _, filename := range filenames {
		filePath := filepath.Join(w.Filesystem.Root(), filename)
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}

		// Content carries the timestamp so every commit changes the file
		content := fmt.Sprintf("Content for %s at %s\n", filename, commitTime.String())
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		if _, err := w.Add(filename); err != nil {
			t.Fatalf("Failed to add file: %v", err)
		}
	}

	sig := &object.Signature{
		Name:  "Test Author",
		Email: "test@example.com",
		When:  commitTime,
	}
	if _, err := w.Commit(message, &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
}

// discardOutput runs fn with stdout redirected to a pipe that is drained and dropped.
func discardOutput(t *testing.T, fn func()) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	oldStdout := os.Stdout
	os.Stdout = w

	done := make(chan struct{})
	go func() {
		io.Copy(io.Discard, r)
		close(done)
	}()

	fn()

	w.Close()
	<-done
	os.Stdout = oldStdout
}

// sampleRepo creates a repository with three commits touching src/ and docs/.
func sampleRepo(t *testing.T) string {
	t.Helper()
	dir, repo := createTestRepo(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	addCommitToRepo(t, repo, "Initial import", []string{"src/main.go", "docs/README.md"}, base)
	addCommitToRepo(t, repo, "Fix parser", []string{"src/main.go"}, base.Add(time.Hour))
	addCommitToRepo(t, repo, "Update docs", []string{"docs/README.md"}, base.Add(2*time.Hour))
	return dir
}
