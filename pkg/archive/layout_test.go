// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package archive

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"ODF", LevelODF, false},
		{"pps", LevelPPS, false},
		{"All", LevelAll, false},
		{"RAW", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestLevelExpand(t *testing.T) {
	assert.Equal(t, []Level{LevelODF}, LevelODF.expand())
	assert.Equal(t, []Level{LevelPPS}, LevelPPS.expand())
	assert.Equal(t, []Level{LevelODF, LevelPPS}, LevelAll.expand())
}

func TestLayoutDirs(t *testing.T) {
	lay := Layout{DataDir: "/data", ObsID: "0122700101"}
	assert.Equal(t, filepath.Join("/data", "0122700101"), lay.ObsDir())
	assert.Equal(t, filepath.Join("/data", "0122700101", "ODF"), lay.ODFDir())
	assert.Equal(t, filepath.Join("/data", "0122700101", "PPS"), lay.PPSDir())
	assert.Equal(t, filepath.Join("/data", "0122700101", "work"), lay.WorkDir())
	assert.Equal(t, lay.ODFDir(), lay.LevelDir(LevelODF))
	assert.Equal(t, lay.PPSDir(), lay.LevelDir(LevelPPS))
}

func TestLayoutCreate(t *testing.T) {
	lay := Layout{DataDir: t.TempDir(), ObsID: "0122700101"}
	require.NoError(t, lay.Create())
	assert.DirExists(t, lay.ObsDir())
	assert.DirExists(t, lay.WorkDir())

	// Creating twice is fine.
	assert.NoError(t, lay.Create())

	assert.Error(t, Layout{DataDir: t.TempDir()}.Create())
}
