// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package sasenv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pathList(parts ...string) string {
	return strings.Join(parts, string(os.PathListSeparator))
}

func TestAddVar_CreatesWhenUnset(t *testing.T) {
	t.Setenv("GOSAS_TEST_VAR", "")
	os.Unsetenv("GOSAS_TEST_VAR")

	AddVar("GOSAS_TEST_VAR", []string{"/a"}, true)
	assert.Equal(t, "/a", os.Getenv("GOSAS_TEST_VAR"))
}

func TestAddVar_PrependAndAppend(t *testing.T) {
	t.Setenv("GOSAS_TEST_VAR", "/mid")

	AddVar("GOSAS_TEST_VAR", []string{"/front"}, true)
	AddVar("GOSAS_TEST_VAR", []string{"/back"}, false)
	assert.Equal(t, pathList("/front", "/mid", "/back"), os.Getenv("GOSAS_TEST_VAR"))
}

func TestAddVar_NeverDuplicates(t *testing.T) {
	t.Setenv("GOSAS_TEST_VAR", pathList("/a", "/b"))

	AddVar("GOSAS_TEST_VAR", []string{"/a", "/b"}, true)
	AddVar("GOSAS_TEST_VAR", []string{"/b"}, false)
	assert.Equal(t, pathList("/a", "/b"), os.Getenv("GOSAS_TEST_VAR"))
}

func TestInitialize_RequiresHeasoft(t *testing.T) {
	t.Setenv(EnvLheasoft, "")
	os.Unsetenv(EnvLheasoft)

	err := Initialize(Settings{SASDir: t.TempDir(), CCFPath: t.TempDir()}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvLheasoft)
}

func TestInitialize_RequiresExistingDirs(t *testing.T) {
	t.Setenv(EnvLheasoft, "/opt/heasoft")

	err := Initialize(Settings{SASDir: "/no/such/dir", CCFPath: t.TempDir()}, zap.NewNop())
	assert.Error(t, err)

	err = Initialize(Settings{SASDir: t.TempDir(), CCFPath: "/no/such/dir"}, zap.NewNop())
	assert.Error(t, err)
}

func TestInitialize_ExportsVariables(t *testing.T) {
	sasDir := t.TempDir()
	ccfPath := t.TempDir()
	t.Setenv(EnvLheasoft, "/opt/heasoft")
	t.Setenv(EnvSASDir, "")
	os.Unsetenv(EnvSASDir)
	t.Setenv(EnvCCFPath, "")
	os.Unsetenv(EnvCCFPath)
	t.Setenv(EnvSASPath, "")
	os.Unsetenv(EnvSASPath)
	t.Setenv("PATH", "/usr/bin")
	t.Setenv("PERLLIB", "/old/perllib")
	t.Setenv("PERL5LIB", "")
	os.Unsetenv("PERL5LIB")

	require.NoError(t, Initialize(Settings{SASDir: sasDir, CCFPath: ccfPath}, zap.NewNop()))

	assert.Equal(t, sasDir, os.Getenv(EnvSASDir))
	assert.Equal(t, ccfPath, os.Getenv(EnvCCFPath))
	assert.Equal(t, "4", os.Getenv(EnvVerbosity))
	assert.Equal(t, "1", os.Getenv(EnvSuppressWarning))

	path := strings.Split(os.Getenv("PATH"), string(os.PathListSeparator))
	assert.Equal(t, filepath.Join(sasDir, "bin"), path[0])
	assert.Contains(t, path, "/usr/bin")

	sasPath := strings.Split(os.Getenv(EnvSASPath), string(os.PathListSeparator))
	assert.Equal(t, sasDir, sasPath[0])
	assert.Contains(t, sasPath, filepath.Join(sasDir, "lib", "python"))

	// PERLLIB folds into PERL5LIB behind the SAS entries.
	perl5 := strings.Split(os.Getenv("PERL5LIB"), string(os.PathListSeparator))
	assert.Equal(t, filepath.Join(sasDir, "lib", "perl5"), perl5[0])
	assert.Contains(t, perl5, "/old/perllib")
}

func TestInitialize_Idempotent(t *testing.T) {
	sasDir := t.TempDir()
	ccfPath := t.TempDir()
	t.Setenv(EnvLheasoft, "/opt/heasoft")
	t.Setenv("PATH", "/usr/bin")

	require.NoError(t, Initialize(Settings{SASDir: sasDir, CCFPath: ccfPath}, zap.NewNop()))
	first := os.Getenv("PATH")
	require.NoError(t, Initialize(Settings{SASDir: sasDir, CCFPath: ccfPath}, zap.NewNop()))
	assert.Equal(t, first, os.Getenv("PATH"))
}

func TestCheckRuntime(t *testing.T) {
	t.Setenv(EnvLheasoft, "/opt/heasoft")
	t.Setenv(EnvSASDir, "/opt/sas")
	t.Setenv(EnvCCFPath, "/opt/ccf")
	assert.NoError(t, CheckRuntime())

	os.Unsetenv(EnvCCFPath)
	err := CheckRuntime()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvCCFPath)
}

func TestDetectInstall(t *testing.T) {
	root := t.TempDir()
	install := filepath.Join(root, "xmmsas_20260101_1234")
	deep := filepath.Join(install, "lib", "python")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	got, ok := DetectInstall(deep)
	require.True(t, ok)
	assert.Equal(t, install, got)

	_, ok = DetectInstall(root)
	assert.False(t, ok)
}

func TestExportLines(t *testing.T) {
	t.Setenv(EnvSASDir, "/opt/sas")
	t.Setenv(EnvCCF, "")
	os.Unsetenv(EnvCCF)

	lines := ExportLines()
	assert.Contains(t, lines, `export SAS_DIR="/opt/sas"`)
	for _, l := range lines {
		assert.NotContains(t, l, "SAS_CCF=")
	}
}
