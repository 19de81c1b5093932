package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// baseTime is the commit time of the first commit in test repositories.
var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// createTestRepo creates an empty repository in a temporary directory.
func createTestRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to initialize git repo: %v", err)
	}
	return dir, repo
}

type testAuthor struct {
	Name  string
	Email string
}

var (
	alice = testAuthor{Name: "Alice", Email: "alice@example.com"}
	bob   = testAuthor{Name: "Bob", Email: "bob@example.com"}
)

// writeFiles writes the given contents into the worktree and stages them.
func writeFiles(t *testing.T, repo *git.Repository, files map[string]string) {
	t.Helper()
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	for name, content := range files {
		path := filepath.Join(w.Filesystem.Root(), name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		if _, err := w.Add(name); err != nil {
			t.Fatalf("Failed to add file: %v", err)
		}
	}
}

// commitAll commits the staged changes.
func commitAll(t *testing.T, repo *git.Repository, who testAuthor, message string, when time.Time) plumbing.Hash {
	t.Helper()
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	sig := &object.Signature{Name: who.Name, Email: who.Email, When: when}
	hash, err := w.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	return hash
}

// historyRepo builds a four-commit history:
//
//	1. Alice adds a.txt and b.txt
//	2. Alice modifies a.txt
//	3. Bob renames b.txt to docs/c.txt
//	4. Bob deletes a.txt
//
// It returns the directory and the commit hashes, oldest first.
func historyRepo(t *testing.T) (string, []plumbing.Hash) {
	t.Helper()
	dir, repo := createTestRepo(t)

	var hashes []plumbing.Hash

	writeFiles(t, repo, map[string]string{
		"a.txt": "alpha\n",
		"b.txt": "bravo\nbravo\nbravo\n",
	})
	hashes = append(hashes, commitAll(t, repo, alice, "Add files", baseTime))

	writeFiles(t, repo, map[string]string{"a.txt": "alpha\nalpha\n"})
	hashes = append(hashes, commitAll(t, repo, alice, "Modify a\n\nLonger explanation.\n", baseTime.Add(time.Hour)))

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "docs"), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if _, err := w.Move("b.txt", "docs/c.txt"); err != nil {
		t.Fatalf("Failed to move file: %v", err)
	}
	hashes = append(hashes, commitAll(t, repo, bob, "Rename b", baseTime.Add(2*time.Hour)))

	if _, err := w.Remove("a.txt"); err != nil {
		t.Fatalf("Failed to remove file: %v", err)
	}
	hashes = append(hashes, commitAll(t, repo, bob, "Delete a", baseTime.Add(3*time.Hour)))

	return dir, hashes
}
