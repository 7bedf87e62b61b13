// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSciServerFetch(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "0122700101", "ODF")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "MANIFEST.000001"), []byte("files\n"), 0o644))

	s := NewSciServer(zap.NewNop())
	s.Root = root

	lay := Layout{DataDir: t.TempDir(), ObsID: "0122700101"}
	require.NoError(t, lay.Create())
	require.NoError(t, s.Fetch(context.Background(), lay, LevelODF))

	data, err := os.ReadFile(filepath.Join(lay.ODFDir(), "MANIFEST.000001"))
	require.NoError(t, err)
	assert.Equal(t, "files\n", string(data))
}

func TestSciServerFetch_MissingObservation(t *testing.T) {
	s := NewSciServer(zap.NewNop())
	s.Root = t.TempDir()

	lay := Layout{DataDir: t.TempDir(), ObsID: "0122700101"}
	require.NoError(t, lay.Create())
	err := s.Fetch(context.Background(), lay, LevelODF)
	assert.Error(t, err)
}
