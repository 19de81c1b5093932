package output

import (
	"io"
	"os"
	"strings"

	"github.com/masmgr/gitlog-go/internal/git"
)

const reportDateTimeLayout = "2006-01-02T15:04:05"

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

// ChangeSummary counts name-status entries by kind.
type ChangeSummary struct {
	Commits  int `json:"commits"`
	Files    int `json:"files"`
	Added    int `json:"added"`
	Modified int `json:"modified"`
	Deleted  int `json:"deleted"`
	Renamed  int `json:"renamed"`
	Copied   int `json:"copied"`
	Other    int `json:"other"`
}

// Summarize counts commits and their file changes. Synthetic deletions
// produced for renames are counted as deletions.
func Summarize(records []git.Record) ChangeSummary {
	s := ChangeSummary{Commits: len(records)}
	for _, rec := range records {
		for _, change := range rec.Changes() {
			s.Files++
			switch change.Kind {
			case git.ChangeKindAdded:
				s.Added++
			case git.ChangeKindModified:
				s.Modified++
			case git.ChangeKindDeleted:
				s.Deleted++
			case git.ChangeKindRenamed:
				s.Renamed++
			case git.ChangeKindCopied:
				s.Copied++
			default:
				s.Other++
			}
		}
	}
	return s
}

// truncateMessage shortens msg to maxLen runes, ending in "...".
func truncateMessage(msg string, maxLen int) string {
	runes := []rune(msg)
	if len(runes) <= maxLen {
		return msg
	}
	return string(runes[:maxLen-3]) + "..."
}

// oneLine folds a multi-line value onto a single line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}

func value(rec git.Record, f git.Field) string {
	v, _ := rec.Get(f)
	return v
}
