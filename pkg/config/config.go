package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFilename = ".remotehand.yaml"

// File holds defaults that would otherwise be given as flags. Flags
// always win over file values.
type File struct {
	URL        string `yaml:"url,omitempty"`
	LogFile    string `yaml:"log_file,omitempty"`
	Transcript string `yaml:"transcript,omitempty"`
	NoConfirm  bool   `yaml:"no_confirm,omitempty"`
}

// DefaultPath is ~/.remotehand.yaml; an empty string when no home
// directory can be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultConfigFilename)
}

func LoadFromFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var cfg File
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config yaml")
	}
	return &cfg, nil
}

// LoadOptional returns an empty config when the file does not exist.
func LoadOptional(path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, errors.Wrap(err, "stat config")
	}
	return LoadFromFile(path)
}
