// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWizard_DetectedInstallAccepted(t *testing.T) {
	root := t.TempDir()
	install := filepath.Join(root, "xmmsas_20260101_1234")
	require.NoError(t, os.MkdirAll(filepath.Join(install, "bin"), 0o755))
	ccf := filepath.Join(root, "ccf")
	require.NoError(t, os.MkdirAll(ccf, 0o755))

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LHEASOFT", "/opt/heasoft")

	var out bytes.Buffer
	w := &Wizard{
		In:          strings.NewReader("yes\n" + ccf + "\n\n"),
		Out:         &out,
		DetectStart: filepath.Join(install, "bin"),
		SyncCCF: func(string) error {
			t.Fatal("SyncCCF should not run for an existing directory")
			return nil
		},
		log: zap.NewNop(),
	}
	require.NoError(t, w.Run())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, install, cfg.SASDir)
	assert.Equal(t, ccf, cfg.CCFPath)
	assert.Empty(t, cfg.DataDir)
	assert.Contains(t, out.String(), install)
}

func TestWizard_CreatesCCFDirAndSyncs(t *testing.T) {
	root := t.TempDir()
	install := filepath.Join(root, "xmmsas_20260101_1234")
	require.NoError(t, os.MkdirAll(install, 0o755))
	ccf := filepath.Join(root, "ccf")
	data := filepath.Join(root, "data")

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LHEASOFT", "/opt/heasoft")

	synced := ""
	input := strings.Join([]string{install, ccf, "y", "y", data}, "\n") + "\n"
	w := &Wizard{
		In:          strings.NewReader(input),
		Out:         &bytes.Buffer{},
		DetectStart: root, // no install detectable here
		SyncCCF: func(dest string) error {
			synced = dest
			return nil
		},
		log: zap.NewNop(),
	}
	require.NoError(t, w.Run())

	assert.Equal(t, ccf, synced)
	assert.DirExists(t, ccf)
	assert.DirExists(t, data)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, data, cfg.DataDir)
}

func TestWizard_UnrecognizedAnswer(t *testing.T) {
	root := t.TempDir()
	install := filepath.Join(root, "xmmsas_20260101_1234")
	require.NoError(t, os.MkdirAll(install, 0o755))

	w := &Wizard{
		In:          strings.NewReader("xyzzy\n"),
		Out:         &bytes.Buffer{},
		DetectStart: install,
		SyncCCF:     func(string) error { return nil },
		log:         zap.NewNop(),
	}
	err := w.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not recognized")
}

func TestWizard_MissingSASDir(t *testing.T) {
	w := &Wizard{
		In:          strings.NewReader("/no/such/sas\n"),
		Out:         &bytes.Buffer{},
		DetectStart: t.TempDir(),
		SyncCCF:     func(string) error { return nil },
		log:         zap.NewNop(),
	}
	assert.Error(t, w.Run())
}
