// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.SASDir)
	assert.Equal(t, 4, cfg.Verbosity)
	assert.Equal(t, 1, cfg.SuppressWarning)
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	want := Config{
		SASDir:          "/opt/sas/xmmsas_20260101_1234",
		CCFPath:         "/data/ccf",
		DataDir:         "/data/xmm",
		Verbosity:       2,
		SuppressWarning: 1,
	}
	require.NoError(t, Save(want))

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSet_KnownOptions(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.NoError(t, Set("data_dir", "/data/xmm"))
	require.NoError(t, Set("verbosity", "6"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/xmm", cfg.DataDir)
	assert.Equal(t, 6, cfg.Verbosity)
}

func TestSet_RejectsUnknownOption(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	assert.Error(t, Set("no_such_option", "x"))
	assert.Error(t, Set("verbosity", "high"))
}

func TestClear(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.NoError(t, Save(Config{DataDir: "/data"}))
	require.NoError(t, Clear())

	path, err := Path()
	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Clearing twice is fine.
	assert.NoError(t, Clear())
}

func TestDir_UsesXDGConfigHome(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)

	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sas"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestParseError(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	dir := filepath.Join(root, "sas")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("sas_dir: [broken"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}
