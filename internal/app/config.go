package app

import (
	"path/filepath"

	"ccline/internal/config"
)

// AppConfig holds what the entrypoint decided before the pipeline runs.
type AppConfig struct {
	// ConfigFile replaces the global config.toml when set.
	ConfigFile string
	// ConfigDir holds models.toml and themes/. Defaults to config.Dir().
	ConfigDir string
	Overrides Overrides
}

// Overrides are command-line values. Nil fields were not given.
type Overrides struct {
	Theme     *string
	Width     *int
	NerdFont  *bool
	Separator *string
	Color     *string
	LogLevel  *string
}

// Apply writes the given overrides over cfg.
func (o Overrides) Apply(cfg *config.Config) {
	if o.Theme != nil {
		cfg.Theme = *o.Theme
	}
	if o.Width != nil {
		cfg.Width = *o.Width
	}
	if o.NerdFont != nil {
		cfg.NerdFont = *o.NerdFont
	}
	if o.Separator != nil {
		cfg.Separator = *o.Separator
	}
	if o.Color != nil {
		cfg.Color = *o.Color
	}
	if o.LogLevel != nil {
		cfg.Log.Level = *o.LogLevel
	}
}

func (c *AppConfig) dir() string {
	if c.ConfigDir != "" {
		return c.ConfigDir
	}
	return config.Dir()
}

func (c *AppConfig) modelsPath() string {
	return filepath.Join(c.dir(), config.ModelsFileName)
}

func (c *AppConfig) themesDir() string {
	return filepath.Join(c.dir(), config.ThemesDirName)
}

// sources returns the config files to layer for projectDir.
func (c *AppConfig) sources(projectDir string, getenv func(string) string) config.Sources {
	src := config.DefaultSources(projectDir)
	if c.ConfigDir != "" {
		src.Global = filepath.Join(c.ConfigDir, config.ConfigFileName)
	}
	if c.ConfigFile != "" {
		src.Global = c.ConfigFile
	}
	src.Getenv = getenv
	return src
}
