// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config persists user defaults for the SAS orchestration layer
// in a yaml file under the XDG config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the defaults file inside Dir().
const ConfigFile = "sas.yaml"

// sciServerHome marks a SciServer session, where the shared filesystem
// makes a per-user config directory useless.
const sciServerHome = "/home/idies"

// Config holds the persisted SAS defaults. Zero values mean "not set";
// applyDefaults fills the numeric knobs.
type Config struct {
	// SASDir is the SAS installation root.
	SASDir string `yaml:"sas_dir"`

	// CCFPath is the calibration file directory.
	CCFPath string `yaml:"ccf_path"`

	// DataDir is the default download location for observation data.
	DataDir string `yaml:"data_dir"`

	// Verbosity is the default SAS_VERBOSITY (default 4).
	Verbosity int `yaml:"verbosity"`

	// SuppressWarning is the default SAS_SUPPRESS_WARNING (default 1).
	SuppressWarning int `yaml:"suppress_warning"`
}

func (c *Config) applyDefaults() {
	if c.Verbosity == 0 {
		c.Verbosity = 4
	}
	if c.SuppressWarning == 0 {
		c.SuppressWarning = 1
	}
}

// OnSciServer reports whether we are running inside a SciServer session.
func OnSciServer() bool {
	home, err := os.UserHomeDir()
	return err == nil && home == sciServerHome
}

// Dir returns the config directory ($XDG_CONFIG_HOME/sas, falling back
// to ~/.config/sas), creating it if needed.
func Dir() (string, error) {
	root := os.Getenv("XDG_CONFIG_HOME")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		root = filepath.Join(home, ".config")
	}
	dir := filepath.Join(root, "sas")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return dir, nil
}

// Path returns the full path of the defaults file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFile), nil
}

// Load reads the defaults file. A missing file yields a default Config.
func Load() (Config, error) {
	var cfg Config
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.applyDefaults()
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the defaults file.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Set updates a single option in the defaults file. Known options are
// sas_dir, ccf_path, data_dir, verbosity, and suppress_warning.
func Set(option, value string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	switch option {
	case "sas_dir":
		cfg.SASDir = value
	case "ccf_path":
		cfg.CCFPath = value
	case "data_dir":
		cfg.DataDir = value
	case "verbosity":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("verbosity must be an integer: %w", err)
		}
		cfg.Verbosity = n
	case "suppress_warning":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("suppress_warning must be an integer: %w", err)
		}
		cfg.SuppressWarning = n
	default:
		return fmt.Errorf("unknown config option %q", option)
	}
	return Save(cfg)
}

// Clear removes the defaults file. The user will have to run setup again.
func Clear() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing config file: %w", err)
	}
	return nil
}
