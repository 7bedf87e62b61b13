// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sastools/gosas/pkg/config"
	"github.com/sastools/gosas/pkg/sasenv"
)

// resolveDataDir picks the observation data directory: the --data-dir
// flag wins, then the configured data_dir, then the current directory.
// Relative paths are resolved against the current directory.
func resolveDataDir(cfg config.Config) (string, error) {
	dir := dataDir
	if dir == "" {
		dir = cfg.DataDir
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving current directory: %w", err)
		}
		dir = cwd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving data directory: %w", err)
	}
	return abs, nil
}

// initEnvFromConfig initializes the SAS environment from the persisted
// defaults. It is what every command that shells out to a task runs
// first.
func initEnvFromConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if cfg.SASDir == "" || cfg.CCFPath == "" {
		return config.Config{}, fmt.Errorf("SAS is not configured: run \"gosas setup\" first")
	}
	if err := sasenv.Initialize(sasenv.Settings{
		SASDir:          cfg.SASDir,
		CCFPath:         cfg.CCFPath,
		Verbosity:       cfg.Verbosity,
		SuppressWarning: cfg.SuppressWarning,
	}, logger); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
