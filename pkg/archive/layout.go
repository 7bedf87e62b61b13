// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package archive retrieves observation data bundles from a remote
// repository and normalizes them into the fixed on-disk layout
// data_dir/<obsid>/{ODF,PPS,work}.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Level selects which data products to retrieve.
type Level string

const (
	// LevelODF retrieves the raw observation data files.
	LevelODF Level = "ODF"

	// LevelPPS retrieves the pipeline processing products.
	LevelPPS Level = "PPS"

	// LevelAll retrieves both.
	LevelAll Level = "ALL"
)

// ParseLevel validates a level string (case-insensitive).
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(s)) {
	case LevelODF:
		return LevelODF, nil
	case LevelPPS:
		return LevelPPS, nil
	case LevelAll:
		return LevelAll, nil
	}
	return "", fmt.Errorf("level must be ODF, PPS, or ALL, got %q", s)
}

// expand resolves ALL into its concrete levels.
func (l Level) expand() []Level {
	if l == LevelAll {
		return []Level{LevelODF, LevelPPS}
	}
	return []Level{l}
}

// Layout addresses the directories of a single observation under a
// data directory.
type Layout struct {
	DataDir string
	ObsID   string
}

// ObsDir is data_dir/<obsid>.
func (l Layout) ObsDir() string { return filepath.Join(l.DataDir, l.ObsID) }

// ODFDir holds the raw observation data files.
func (l Layout) ODFDir() string { return filepath.Join(l.ObsDir(), "ODF") }

// PPSDir holds the pipeline products.
func (l Layout) PPSDir() string { return filepath.Join(l.ObsDir(), "PPS") }

// WorkDir is where cifbuild and odfingest run and leave their outputs.
func (l Layout) WorkDir() string { return filepath.Join(l.ObsDir(), "work") }

// LevelDir returns the directory a level unpacks into.
func (l Layout) LevelDir(lvl Level) string {
	if lvl == LevelPPS {
		return l.PPSDir()
	}
	return l.ODFDir()
}

// Create makes the observation and work directories.
func (l Layout) Create() error {
	if l.ObsID == "" {
		return fmt.Errorf("observation ID is required")
	}
	for _, dir := range []string{l.ObsDir(), l.WorkDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
