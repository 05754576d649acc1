package config

import (
	"errors"
	"os"
	"path/filepath"
)

// FileNames lists the config file names searched for, in order of
// preference.
var FileNames = []string{
	".testrelay.yaml",
	".testrelay.yml",
	".testrelay.toml",
	".testrelay.json",
}

// ErrNoConfig is returned when no config file is found.
var ErrNoConfig = errors.New("no .testrelay config file found in the current directory or any parent")

// Find walks up from the current working directory looking for a config file.
func Find() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindFrom(cwd)
}

// FindFrom walks up from startDir looking for a config file and returns
// its path.
func FindFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", ErrNoConfig
		}
		dir = parent
	}
}
