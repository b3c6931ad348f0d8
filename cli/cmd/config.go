package cmd

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the settings recsel/recfix read from .recutilsrc, so a
// passphrase or a default case-sensitivity doesn't have to be repeated on
// every invocation.
type Config struct {
	Passphrase      string `yaml:"passphrase"`
	CaseInsensitive bool   `yaml:"case_insensitive"`
}

var cfg Config

// loadConfig reads path (or $HOME/.recutilsrc if path is empty) into cfg.
// A missing file is not an error; everything else is.
func loadConfig(path string) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".recutilsrc")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cfg = Config{}
	return yaml.Unmarshal(data, &cfg)
}
