package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

const (
	abbrevLen = 7

	// gitDefaultDateLayout is git's "default" date format, used by %cd.
	gitDefaultDateLayout = "Mon Jan 2 15:04:05 2006 -0700"
	// gitISODateLayout is git's "iso" date format, used by %ai.
	gitISODateLayout = "2006-01-02 15:04:05 -0700"

	// defaultRenameScore matches go-git's default similarity threshold.
	defaultRenameScore = 60
)

// NativeRunner produces git log output with go-git instead of the git
// executable. The output has the same framing as the git CLI, so it decodes
// with the same Decode call.
//
// Copy detection (--find-copies-harder) has no go-git equivalent and is ignored.
// Inexact renames are reported with RenameScore since go-git does not expose
// the measured similarity.
type NativeRunner struct {
	Logger      *slog.Logger
	RenameScore int
	Now         func() time.Time // reference time for relative dates
}

// NewNativeRunner creates a go-git backed runner.
func NewNativeRunner(logger *slog.Logger) *NativeRunner {
	return &NativeRunner{Logger: logger, RenameScore: defaultRenameScore}
}

// Run walks the history selected by cmd and renders it.
func (r *NativeRunner) Run(ctx context.Context, cmd *Command) ([]byte, error) {
	out, err := r.run(ctx, cmd)
	if err != nil {
		var cmdErr *ExternalCommandError
		if errors.As(err, &cmdErr) {
			return out, err
		}
		return out, &ExternalCommandError{Args: cmd.Args, ExitCode: -1, Err: err}
	}
	return out, nil
}

func (r *NativeRunner) run(ctx context.Context, cmd *Command) ([]byte, error) {
	opts := cmd.Options
	repo, err := git.PlainOpenWithOptions(cmd.Dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	filter, err := newCommitFilter(opts, r.now())
	if err != nil {
		return nil, err
	}

	logOpts := &git.LogOptions{
		Order: git.LogOrderCommitterTime,
		All:   opts.All,
	}
	if opts.File != "" {
		logOpts.PathFilter = filter.matchesPath
	}

	var excluded map[plumbing.Hash]bool
	if !opts.All {
		from, exclude, err := resolveRange(repo, opts.Branch)
		if err != nil {
			if errors.Is(err, plumbing.ErrReferenceNotFound) && opts.Branch == "" {
				return nil, &ExternalCommandError{
					Args:     cmd.Args,
					ExitCode: 128,
					Stderr:   "fatal: your current branch does not have any commits yet",
					Err:      err,
				}
			}
			return nil, err
		}
		logOpts.From = from
		if !exclude.IsZero() {
			excluded, err = ancestors(repo, exclude)
			if err != nil {
				return nil, err
			}
		}
	}

	iter, err := repo.Log(logOpts)
	if err != nil {
		return nil, fmt.Errorf("walk history: %w", err)
	}
	defer iter.Close()

	r.logger().Debug("walking history with go-git", slog.String("dir", cmd.Dir), slog.String("command", cmd.String()))

	var buf bytes.Buffer
	count := 0
	// git separates a name-status block from the next header with a blank line.
	blankPending := false
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if count >= opts.Number {
			return storer.ErrStop
		}
		if excluded[c.Hash] || !filter.matchesCommit(c) {
			return nil
		}

		if blankPending {
			buf.WriteByte('\n')
			blankPending = false
		}
		r.writeHeader(&buf, c, cmd.Fields)
		if cmd.NameStatus {
			rows, err := r.nameStatusRows(ctx, c, filter)
			if err != nil {
				return err
			}
			if len(rows) > 0 {
				buf.WriteByte('\n')
				for _, row := range rows {
					buf.WriteString(row)
					buf.WriteByte('\n')
				}
				blankPending = true
			}
		}
		count++
		return nil
	})
	if err != nil {
		return buf.Bytes(), err
	}
	return buf.Bytes(), nil
}

func (r *NativeRunner) writeHeader(buf *bytes.Buffer, c *object.Commit, fields []Field) {
	buf.WriteString(BeginSentinel)
	for _, f := range ScalarFields(fields) {
		buf.WriteString(Delimiter)
		buf.WriteString(r.renderField(c, f))
	}
	buf.WriteString(EndSentinel)
	buf.WriteByte('\n')
}

func (r *NativeRunner) renderField(c *object.Commit, f Field) string {
	switch f {
	case FieldHash:
		return c.Hash.String()
	case FieldAbbrevHash:
		return abbrev(c.Hash)
	case FieldTreeHash:
		return c.TreeHash.String()
	case FieldAbbrevTreeHash:
		return abbrev(c.TreeHash)
	case FieldParentHashes:
		parents := make([]string, len(c.ParentHashes))
		for i, h := range c.ParentHashes {
			parents[i] = h.String()
		}
		return strings.Join(parents, " ")
	case FieldAbbrevParentHashes:
		parents := make([]string, len(c.ParentHashes))
		for i, h := range c.ParentHashes {
			parents[i] = abbrev(h)
		}
		return strings.Join(parents, " ")
	case FieldAuthorName:
		return c.Author.Name
	case FieldAuthorEmail:
		return c.Author.Email
	case FieldAuthorDate:
		return c.Author.When.Format(gitISODateLayout)
	case FieldAuthorDateRel:
		return humanize.RelTime(c.Author.When, r.now(), "ago", "from now")
	case FieldCommitterName:
		return c.Committer.Name
	case FieldCommitterEmail:
		return c.Committer.Email
	case FieldCommitterDate:
		return c.Committer.When.Format(gitDefaultDateLayout)
	case FieldCommitterDateRel:
		return humanize.RelTime(c.Committer.When, r.now(), "ago", "from now")
	case FieldSubject:
		return subjectOf(c.Message)
	case FieldBody:
		return c.Message
	default:
		return ""
	}
}

// nameStatusRows lists the commit's changes against its first parent.
// Merge commits have no rows, as with plain git log.
func (r *NativeRunner) nameStatusRows(ctx context.Context, c *object.Commit, filter *commitFilter) ([]string, error) {
	if c.NumParents() > 1 {
		return nil, nil
	}

	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	var parentTree *object.Tree
	if c.NumParents() == 1 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, err
		}
		if parentTree, err = parent.Tree(); err != nil {
			return nil, err
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, err
	}

	type row struct {
		path string
		line string
	}
	rows := make([]row, 0, len(changes))
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			return nil, err
		}

		var line, path string
		switch {
		case action == merkletrie.Insert:
			path = change.To.Name
			line = "A" + Delimiter + path
		case action == merkletrie.Delete:
			path = change.From.Name
			line = "D" + Delimiter + path
		case change.From.Name != change.To.Name:
			path = change.To.Name
			score := r.renameScore()
			if change.From.TreeEntry.Hash == change.To.TreeEntry.Hash {
				score = 100
			}
			line = fmt.Sprintf("R%03d%s%s%s%s", score, Delimiter, change.From.Name, Delimiter, path)
		case change.From.TreeEntry.Mode != change.To.TreeEntry.Mode:
			path = change.To.Name
			line = "T" + Delimiter + path
		default:
			path = change.To.Name
			line = "M" + Delimiter + path
		}

		if filter.file != "" && !filter.matchesPath(path) && !filter.matchesPath(change.From.Name) {
			continue
		}
		rows = append(rows, row{path: path, line: line})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].path < rows[j].path })
	lines := make([]string, len(rows))
	for i, rw := range rows {
		lines[i] = rw.line
	}
	return lines, nil
}

func (r *NativeRunner) renameScore() int {
	if r == nil || r.RenameScore <= 0 || r.RenameScore > 100 {
		return defaultRenameScore
	}
	return r.RenameScore
}

func (r *NativeRunner) now() time.Time {
	if r != nil && r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *NativeRunner) logger() *slog.Logger {
	if r == nil || r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// resolveRange resolves a revision or an "A..B" range to the commit to start
// from and, for ranges, the commit whose ancestors are excluded.
func resolveRange(repo *git.Repository, rev string) (from, exclude plumbing.Hash, err error) {
	rev = strings.TrimSpace(rev)
	if rev == "" || strings.EqualFold(rev, "HEAD") {
		ref, err := repo.Head()
		if err != nil {
			return plumbing.ZeroHash, plumbing.ZeroHash, err
		}
		return ref.Hash(), plumbing.ZeroHash, nil
	}

	if left, right, ok := strings.Cut(rev, ".."); ok {
		if right == "" {
			right = "HEAD"
		}
		to, err := repo.ResolveRevision(plumbing.Revision(right))
		if err != nil {
			return plumbing.ZeroHash, plumbing.ZeroHash, fmt.Errorf("resolve %q: %w", right, err)
		}
		if left == "" {
			return *to, plumbing.ZeroHash, nil
		}
		base, err := repo.ResolveRevision(plumbing.Revision(left))
		if err != nil {
			return plumbing.ZeroHash, plumbing.ZeroHash, fmt.Errorf("resolve %q: %w", left, err)
		}
		return *to, *base, nil
	}

	h, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, plumbing.ZeroHash, fmt.Errorf("resolve %q: %w", rev, err)
	}
	return *h, plumbing.ZeroHash, nil
}

func ancestors(repo *git.Repository, from plumbing.Hash) (map[plumbing.Hash]bool, error) {
	iter, err := repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	seen := map[plumbing.Hash]bool{}
	err = iter.ForEach(func(c *object.Commit) error {
		seen[c.Hash] = true
		return nil
	})
	return seen, err
}

// commitFilter applies the author, committer, date and path options to commits.
type commitFilter struct {
	author    *regexp.Regexp
	committer *regexp.Regexp
	since     *time.Time
	until     *time.Time
	file      string
}

func newCommitFilter(opts QueryOptions, now time.Time) (*commitFilter, error) {
	f := &commitFilter{file: strings.Trim(opts.File, "/")}
	var err error
	if opts.Author != "" {
		if f.author, err = regexp.Compile(opts.Author); err != nil {
			return nil, fmt.Errorf("invalid --author pattern: %w", err)
		}
	}
	if opts.Committer != "" {
		if f.committer, err = regexp.Compile(opts.Committer); err != nil {
			return nil, fmt.Errorf("invalid --committer pattern: %w", err)
		}
	}
	// --after is a synonym of --since and --before of --until; the later option wins like in git.
	for _, v := range []string{opts.Since, opts.After} {
		if v == "" {
			continue
		}
		t, err := parseApproxDate(v, now)
		if err != nil {
			return nil, err
		}
		f.since = &t
	}
	for _, v := range []string{opts.Until, opts.Before} {
		if v == "" {
			continue
		}
		t, err := parseApproxDate(v, now)
		if err != nil {
			return nil, err
		}
		f.until = &t
	}
	return f, nil
}

func (f *commitFilter) matchesCommit(c *object.Commit) bool {
	if f.author != nil && !f.author.MatchString(signatureLine(c.Author)) {
		return false
	}
	if f.committer != nil && !f.committer.MatchString(signatureLine(c.Committer)) {
		return false
	}
	when := c.Committer.When
	if f.since != nil && when.Before(*f.since) {
		return false
	}
	if f.until != nil && when.After(*f.until) {
		return false
	}
	return true
}

func (f *commitFilter) matchesPath(path string) bool {
	if f.file == "" || f.file == "." {
		return true
	}
	return path == f.file || strings.HasPrefix(path, f.file+"/")
}

func signatureLine(s object.Signature) string {
	return s.Name + " <" + s.Email + ">"
}

func abbrev(h plumbing.Hash) string {
	return h.String()[:abbrevLen]
}

// subjectOf returns the message's first paragraph folded onto one line.
func subjectOf(message string) string {
	message = strings.TrimLeft(message, "\n")
	paragraph, _, _ := strings.Cut(message, "\n\n")
	lines := strings.Split(paragraph, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, " ")
}

var relativeDatePattern = regexp.MustCompile(`^(\d+)[ .]+(second|minute|hour|day|week|month|year)s?([ .]+ago)?$`)

// parseApproxDate understands the date forms git users pass most often:
// absolute dates, "@<unix>", "now", "yesterday" and "<n> <unit>s ago".
func parseApproxDate(value string, now time.Time) (time.Time, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "now":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}

	if strings.HasPrefix(v, "@") {
		var unix int64
		if _, err := fmt.Sscanf(v[1:], "%d", &unix); err == nil {
			return time.Unix(unix, 0), nil
		}
	}

	if m := relativeDatePattern.FindStringSubmatch(v); m != nil {
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		switch m[2] {
		case "second":
			return now.Add(-time.Duration(n) * time.Second), nil
		case "minute":
			return now.Add(-time.Duration(n) * time.Minute), nil
		case "hour":
			return now.Add(-time.Duration(n) * time.Hour), nil
		case "day":
			return now.AddDate(0, 0, -n), nil
		case "week":
			return now.AddDate(0, 0, -7*n), nil
		case "month":
			return now.AddDate(0, -n, 0), nil
		case "year":
			return now.AddDate(-n, 0, 0), nil
		}
	}

	layouts := []string{
		time.RFC3339,
		gitISODateLayout,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
		gitDefaultDateLayout,
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(value), now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date %q", value)
}
