package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const manifestName = "semdoc.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Project packageConfig `toml:"project" json:"project"`
	Render  renderConfig  `toml:"render" json:"render"`
}

type packageConfig struct {
	Name string `toml:"name" json:"name"`
}

type renderConfig struct {
	Format   string   `toml:"format" json:"format"`
	Registry string   `toml:"registry" json:"registry"`
	Formats  []string `toml:"formats" json:"formats"`
	Jobs     int      `toml:"jobs" json:"jobs"`
	Cache    *bool    `toml:"cache" json:"cache"`
	Golden   string   `toml:"golden" json:"golden"`
}

func (c projectConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Project),
		validation.Field(&c.Render),
	)
}

func (c packageConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
	)
}

func (c renderConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Format, validation.Required),
		validation.Field(&c.Jobs, validation.Min(0)),
		validation.Field(&c.Formats, validation.Each(validation.Required)),
	)
}

// cacheEnabled defaults to true when the manifest says nothing.
func (c renderConfig) cacheEnabled() bool {
	return c.Cache == nil || *c.Cache
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest finds semdoc.toml at or above startDir. Not finding one
// is not an error.
func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	path, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return projectConfig{}, fmt.Errorf("%s: missing [project]", path)
	}
	if !meta.IsDefined("render") {
		return projectConfig{}, fmt.Errorf("%s: missing [render]", path)
	}
	if err := cfg.Validate(); err != nil {
		return projectConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// resolve makes a manifest-relative path absolute.
func (m *projectManifest) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}
