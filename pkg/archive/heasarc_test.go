// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package archive

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// indexPage renders a minimal Apache-style directory listing.
func indexPage(entries ...string) string {
	page := "<html><body><a href=\"/FTP/xmm/\">Parent Directory</a>\n"
	for _, e := range entries {
		page += fmt.Sprintf("<a href=%q>%s</a>\n", e, e)
	}
	return page + "</body></html>"
}

func TestHEASARCFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/0122700101/ODF/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(indexPage("MANIFEST.000001", "sub/", "index.html?C=N;O=D", "4XMM/")))
	})
	mux.HandleFunc("/0122700101/ODF/sub/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(indexPage("0001.FIT.gz")))
	})
	mux.HandleFunc("/0122700101/ODF/MANIFEST.000001", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("files\n"))
	})
	mux.HandleFunc("/0122700101/ODF/sub/0001.FIT.gz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("gzdata"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	h := NewHEASARC(zap.NewNop())
	h.BaseURL = srv.URL
	h.HTTP = srv.Client()

	lay := Layout{DataDir: t.TempDir(), ObsID: "0122700101"}
	require.NoError(t, lay.Create())
	require.NoError(t, h.Fetch(context.Background(), lay, LevelODF))

	data, err := os.ReadFile(filepath.Join(lay.ODFDir(), "MANIFEST.000001"))
	require.NoError(t, err)
	assert.Equal(t, "files\n", string(data))
	assert.FileExists(t, filepath.Join(lay.ODFDir(), "sub", "0001.FIT.gz"))
	assert.NoDirExists(t, filepath.Join(lay.ODFDir(), "4XMM"))
}

func TestHEASARCFetch_EmptyListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(indexPage()))
	}))
	defer srv.Close()

	h := NewHEASARC(zap.NewNop())
	h.BaseURL = srv.URL
	h.HTTP = srv.Client()

	lay := Layout{DataDir: t.TempDir(), ObsID: "0122700101"}
	require.NoError(t, lay.Create())
	err := h.Fetch(context.Background(), lay, LevelODF)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files found")
}

func TestChildLink(t *testing.T) {
	cases := []struct {
		href string
		want string
		ok   bool
	}{
		{"0001.FIT", "0001.FIT", true},
		{"sub/", "sub/", true},
		{"/FTP/xmm/", "", false},
		{"http://example.com/x", "", false},
		{"../", "", false},
		{"?C=N;O=D", "", false},
		{"#top", "", false},
		{"a/b", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := childLink(tc.href)
		assert.Equal(t, tc.ok, ok, tc.href)
		assert.Equal(t, tc.want, got, tc.href)
	}
}

func TestSkipEntry(t *testing.T) {
	assert.True(t, skipEntry("index.html"))
	assert.True(t, skipEntry("index.html?C=N;O=D"))
	assert.True(t, skipEntry("4XMM"))
	assert.False(t, skipEntry("MANIFEST.000001"))
	assert.False(t, skipEntry("sub"))
}
