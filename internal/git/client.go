package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Client runs history queries: compile, run, decode.
type Client struct {
	runner Runner
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRunner sets the process runner. The default runs the git executable.
func WithRunner(r Runner) ClientOption {
	return func(c *Client) { c.runner = r }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.runner == nil {
		c.runner = NewExecRunner(c.logger)
	}
	return c
}

var defaultClient = NewClient()

// Log runs a query with the default client.
func Log(ctx context.Context, opts QueryOptions) ([]Record, error) {
	return defaultClient.Log(ctx, opts)
}

// LogAsync runs a query with the default client in the background.
func LogAsync(ctx context.Context, opts QueryOptions, done func(error, []Record)) error {
	return defaultClient.LogAsync(ctx, opts, done)
}

// Log runs the query and waits for the decoded records.
// A failed git invocation is returned as *ExternalCommandError.
func (c *Client) Log(ctx context.Context, opts QueryOptions) ([]Record, error) {
	query, err := c.Prepare(opts)
	if err != nil {
		return nil, err
	}
	return c.Run(ctx, query)
}

// Run executes a command returned by Prepare and waits for the decoded records.
func (c *Client) Run(ctx context.Context, cmd *Command) ([]Record, error) {
	records, err := c.execute(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// LogAsync validates and compiles the query, then runs it in a new goroutine
// and calls done exactly once when it finishes. Validation and compile
// errors are returned directly and done is not called.
//
// done receives the records decoded from whatever output was captured, even
// when err is non-nil.
func (c *Client) LogAsync(ctx context.Context, opts QueryOptions, done func(err error, records []Record)) error {
	if done == nil {
		return fmt.Errorf("LogAsync: nil callback")
	}
	query, err := c.Prepare(opts)
	if err != nil {
		return err
	}
	go func() {
		records, err := c.execute(ctx, query)
		done(err, records)
	}()
	return nil
}

// Pending is a query running in the background.
type Pending struct {
	done    chan struct{}
	records []Record
	err     error
}

// Start is LogAsync returning a handle to wait on instead of taking a callback.
func (c *Client) Start(ctx context.Context, opts QueryOptions) (*Pending, error) {
	p := &Pending{done: make(chan struct{})}
	err := c.LogAsync(ctx, opts, func(err error, records []Record) {
		p.records, p.err = records, err
		close(p.done)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Done is closed when the query has finished.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the query finishes. Records are returned alongside a
// non-nil error when output was captured before the failure.
func (p *Pending) Wait() ([]Record, error) {
	<-p.done
	return p.records, p.err
}

// Prepare validates the repository location and filters and compiles the
// command. Nothing is started before it succeeds.
func (c *Client) Prepare(opts QueryOptions) (*Command, error) {
	if strings.TrimSpace(opts.Repo) == "" {
		return nil, ErrMissingRepo
	}
	info, err := os.Stat(opts.Repo)
	if err != nil {
		return nil, &RepoNotFoundError{Path: opts.Repo, Err: err}
	}
	if !info.IsDir() {
		return nil, &RepoNotFoundError{Path: opts.Repo, Err: fmt.Errorf("not a directory")}
	}
	if err := checkTraversable(opts.Repo); err != nil {
		return nil, &RepoNotFoundError{Path: opts.Repo, Err: err}
	}
	if err := validateGlobs(opts.Include, opts.Exclude); err != nil {
		return nil, err
	}
	return Compile(opts)
}

// execute runs the command and decodes its output. The records are decoded
// even when the runner fails so callback callers can inspect partial output.
func (c *Client) execute(ctx context.Context, cmd *Command) ([]Record, error) {
	c.logger.Debug("git log", slog.String("command", cmd.String()), slog.String("dir", cmd.Dir))

	out, runErr := c.runner.Run(ctx, cmd)

	var records []Record
	if cmd.Options.Strict {
		var err error
		records, err = DecodeStrict(string(out), cmd.Fields, cmd.NameStatus)
		if err != nil && runErr == nil {
			return nil, err
		}
	} else {
		records = Decode(string(out), cmd.Fields, cmd.NameStatus)
	}

	if cmd.NameStatus {
		records = filterRecords(records, cmd.Options.Include, cmd.Options.Exclude)
	}

	c.logger.Debug("git log decoded", slog.Int("commits", len(records)), slog.Int("bytes", len(out)))
	return records, runErr
}

// checkTraversable fails when dir exists but cannot be entered or listed,
// which git would only report once the process is started inside it.
func checkTraversable(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func validateGlobs(include, exclude []string) error {
	for _, pattern := range append(append([]string(nil), include...), exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}
	return nil
}

// filterRecords drops name-status entries whose path does not pass the
// include/exclude globs. Status and Files stay the same length.
func filterRecords(records []Record, include, exclude []string) []Record {
	if len(include) == 0 && len(exclude) == 0 {
		return records
	}
	for i := range records {
		rec := &records[i]
		status := make([]string, 0, len(rec.Status))
		files := make([]string, 0, len(rec.Files))
		for j := range rec.Files {
			if !matchesFilters(rec.Files[j], include, exclude) {
				continue
			}
			status = append(status, rec.Status[j])
			files = append(files, rec.Files[j])
		}
		rec.Status = status
		rec.Files = files
	}
	return records
}

// matchesFilters checks if a path matches the include/exclude filters.
func matchesFilters(path string, include, exclude []string) bool {
	path = strings.ReplaceAll(path, "\\", "/")

	for _, pattern := range exclude {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return false
		}
	}

	if len(include) == 0 {
		return true
	}

	for _, pattern := range include {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}
