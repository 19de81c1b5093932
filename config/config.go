package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/masmgr/gitlog-go/internal/git"
	"github.com/masmgr/gitlog-go/internal/logging"
)

// FileName is the configuration file looked up in the working directory and home.
const FileName = ".gitlog.json"

// Config is the root configuration structure.
type Config struct {
	Query   QueryConfig    `json:"query"`
	Filters FilterConfig   `json:"filters"`
	Backend BackendConfig  `json:"backend"`
	Log     logging.Config `json:"log"`
}

// QueryConfig holds defaults for the git log query.
type QueryConfig struct {
	Number           int      `json:"number"`     // Default: 10
	Fields           []string `json:"fields"`     // Default: abbrevHash, hash, subject, authorName
	NameStatus       bool     `json:"nameStatus"` // Default: true
	FindCopiesHarder bool     `json:"findCopiesHarder"`
	All              bool     `json:"all"`
	Branch           string   `json:"branch"`
}

// FilterConfig holds file path filtering options.
type FilterConfig struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// Backend names.
const (
	BackendGitCLI = "gitcli"
	BackendNative = "native"
)

// BackendConfig selects how history is read.
type BackendConfig struct {
	Kind        string   `json:"kind"`        // gitcli or native
	GitPath     string   `json:"gitPath"`     // Default: "git"
	Env         []string `json:"env"`         // Extra KEY=VALUE pairs for the git process
	Strict      bool     `json:"strict"`      // Fail on malformed output
	RenameScore int      `json:"renameScore"` // Score reported for inexact renames by the native backend
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	fields := make([]string, len(git.DefaultFields))
	for i, f := range git.DefaultFields {
		fields[i] = string(f)
	}
	return &Config{
		Query: QueryConfig{
			Number:     git.DefaultNumber,
			Fields:     fields,
			NameStatus: true,
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Backend: BackendConfig{
			Kind:        BackendGitCLI,
			GitPath:     "git",
			RenameScore: 60,
		},
		Log: logging.DefaultConfig(),
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{FileName}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, FileName))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, FileName))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks values that would otherwise only fail once a query runs.
func (c *Config) Validate() error {
	if c.Query.Number < 0 {
		return fmt.Errorf("query.number must not be negative, got %d", c.Query.Number)
	}
	if _, err := git.ParseFields(c.Query.Fields); err != nil {
		return fmt.Errorf("query.fields: %w", err)
	}
	switch c.Backend.Kind {
	case "", BackendGitCLI, BackendNative:
	default:
		return fmt.Errorf("backend.kind must be %q or %q, got %q", BackendGitCLI, BackendNative, c.Backend.Kind)
	}
	if c.Backend.RenameScore < 0 || c.Backend.RenameScore > 100 {
		return fmt.Errorf("backend.renameScore must be between 0 and 100, got %d", c.Backend.RenameScore)
	}
	for _, pattern := range append(append([]string(nil), c.Filters.Include...), c.Filters.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("filters: invalid glob pattern %q", pattern)
		}
	}
	if c.Log.Level != "" && !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	return nil
}

// QueryOptions builds query options for repo from the configured defaults.
func (c *Config) QueryOptions(repo string) (git.QueryOptions, error) {
	fields, err := git.ParseFields(c.Query.Fields)
	if err != nil {
		return git.QueryOptions{}, err
	}
	return git.QueryOptions{
		Repo:             repo,
		Number:           c.Query.Number,
		Fields:           fields,
		NameStatus:       git.Bool(c.Query.NameStatus),
		FindCopiesHarder: c.Query.FindCopiesHarder,
		All:              c.Query.All,
		Branch:           c.Query.Branch,
		Include:          c.Filters.Include,
		Exclude:          c.Filters.Exclude,
		Strict:           c.Backend.Strict,
		Exec: git.ExecOptions{
			GitPath: c.Backend.GitPath,
			Env:     c.Backend.Env,
		},
	}, nil
}
