// Package file holds the TOML-based configuration store.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk configuration.
type Config struct {
	// Corpora maps a corpus tag to the glob pattern locating its
	// document files.
	Corpora map[string]string `toml:"corpora"`

	Database struct {
		// Path of the SQLite database file.
		Path string `toml:"path"`
	} `toml:"database"`

	Dewey struct {
		// Path of the tab-separated ARK-to-Dewey lookup file.
		Path string `toml:"path"`
	} `toml:"dewey"`

	Enrich struct {
		// OutputDir receives amended copies of the source documents.
		OutputDir string `toml:"output_dir"`
	} `toml:"enrich"`
}

// ConfigStore loads and persists the configuration file.
type ConfigStore struct {
	filePath string
	config   Config
}

// NewConfigStore reads the configuration under configDir. If configDir
// is empty, defaults to ~/.teiscope. A missing file yields an empty
// configuration, not an error.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(home, ".teiscope")
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns the loaded configuration.
func (s *ConfigStore) Config() Config {
	return s.config
}

// CorpusPattern returns the glob pattern registered for tag.
func (s *ConfigStore) CorpusPattern(tag string) (string, bool) {
	pattern, ok := s.config.Corpora[tag]
	return pattern, ok
}

// SetCorpus registers (or replaces) a corpus pattern and persists.
func (s *ConfigStore) SetCorpus(tag, pattern string) error {
	if s.config.Corpora == nil {
		s.config.Corpora = make(map[string]string)
	}
	s.config.Corpora[tag] = pattern
	return s.Save()
}

// Load reads the configuration from disk.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.config = Config{}
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	s.config = cfg
	return nil
}

// Save persists the configuration to disk.
func (s *ConfigStore) Save() error {
	data, err := toml.Marshal(s.config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
