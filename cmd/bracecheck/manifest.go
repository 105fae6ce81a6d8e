package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"bracecheck/internal/balance"
)

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Scan scanConfig `toml:"scan"`
}

// scanConfig carries per-project defaults for the scan command. Every field
// is optional; flags given on the command line always win.
type scanConfig struct {
	Pair         string   `toml:"pair"`
	Context      int      `toml:"context"`
	MaxNegatives int      `toml:"max_negatives"`
	MaxOpeners   int      `toml:"max_openers"`
	Ext          []string `toml:"ext"`
}

// findBracecheckToml ищет bracecheck.toml вверх по дереву каталогов.
func findBracecheckToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "bracecheck.toml")
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

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findBracecheckToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("scan", "pair") {
		if _, perr := balance.ParsePair(cfg.Scan.Pair); perr != nil {
			return projectConfig{}, fmt.Errorf("%s: [scan].pair: %w", path, perr)
		}
	}
	if meta.IsDefined("scan", "context") && cfg.Scan.Context < 0 {
		return projectConfig{}, fmt.Errorf("%s: [scan].context must not be negative", path)
	}
	if meta.IsDefined("scan", "max_negatives") && cfg.Scan.MaxNegatives < 0 {
		return projectConfig{}, fmt.Errorf("%s: [scan].max_negatives must not be negative", path)
	}
	if meta.IsDefined("scan", "max_openers") && cfg.Scan.MaxOpeners < 0 {
		return projectConfig{}, fmt.Errorf("%s: [scan].max_openers must not be negative", path)
	}
	return cfg, nil
}
