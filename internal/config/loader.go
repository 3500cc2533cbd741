package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"ccline/internal/theme"
)

// Sources lists where Load looks. Empty paths are skipped.
type Sources struct {
	Global  string
	Project string
	Getenv  func(string) string
}

// DefaultSources returns the global config path and, when projectDir is
// set, the project override next to it.
func DefaultSources(projectDir string) Sources {
	src := Sources{
		Global: filepath.Join(Dir(), ConfigFileName),
		Getenv: os.Getenv,
	}
	if projectDir != "" {
		src.Project = filepath.Join(projectDir, ProjectFileName)
	}
	return src
}

// Load layers defaults, the global file, the project file and the
// environment. It always returns a usable config; file errors are joined
// into err so the caller can log them. Call Validate after applying any
// flag overrides.
func Load(src Sources) (*Config, error) {
	cfg := Default()
	var errs []error
	for _, path := range []string{src.Global, src.Project} {
		if path == "" {
			continue
		}
		if err := cfg.Merge(path); err != nil {
			errs = append(errs, err)
		}
	}
	if src.Getenv != nil {
		cfg.ApplyEnv(src.Getenv)
	}
	return cfg, errors.Join(errs...)
}

// InitResult reports one file written (or found) by Init.
type InitResult struct {
	Path    string
	Created bool
}

// Init creates dir with a default config.toml, a commented models.toml and
// one file per built-in theme. Existing files are left alone.
func Init(dir string) ([]InitResult, error) {
	themesDir := filepath.Join(dir, ThemesDirName)
	if err := os.MkdirAll(themesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", themesDir, err)
	}

	var results []InitResult
	write := func(path string, content func() ([]byte, error)) error {
		if _, err := os.Stat(path); err == nil {
			results = append(results, InitResult{Path: path})
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		raw, err := content()
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		results = append(results, InitResult{Path: path, Created: true})
		return nil
	}

	if err := write(filepath.Join(dir, ConfigFileName), Default().Marshal); err != nil {
		return results, err
	}
	if err := write(filepath.Join(dir, ModelsFileName), func() ([]byte, error) {
		return []byte(modelsTemplate), nil
	}); err != nil {
		return results, err
	}
	for _, name := range theme.Names() {
		th, _ := theme.Preset(name)
		if err := write(filepath.Join(themesDir, name+".toml"), func() ([]byte, error) {
			return theme.Marshal(th)
		}); err != nil {
			return results, err
		}
	}
	return results, nil
}
