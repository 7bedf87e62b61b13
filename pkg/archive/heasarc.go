// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package archive

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// defaultHEASARCBaseURL is the HEASARC https mirror of the XMM archive.
const defaultHEASARCBaseURL = "https://heasarc.gsfc.nasa.gov/FTP/xmm/data/rev0"

// defaultHEASARCWorkers bounds the parallel file downloads.
const defaultHEASARCWorkers = 4

// HEASARC mirrors an observation from the HEASARC directory tree. The
// server exposes plain directory index pages which are walked
// recursively; files are downloaded in parallel.
type HEASARC struct {
	BaseURL string
	HTTP    *http.Client
	Workers int

	log *zap.Logger
}

// NewHEASARC returns a HEASARC downloader against the production mirror.
func NewHEASARC(log *zap.Logger) *HEASARC {
	if log == nil {
		log = zap.NewNop()
	}
	return &HEASARC{
		BaseURL: defaultHEASARCBaseURL,
		HTTP:    http.DefaultClient,
		Workers: defaultHEASARCWorkers,
		log:     log,
	}
}

// Fetch walks <base>/<obsid>/<level>/ and downloads every file into the
// level directory, preserving the relative structure. Index pages,
// catalog cross-reference directories (4XMM*), and the level not asked
// for are skipped.
func (h *HEASARC) Fetch(ctx context.Context, lay Layout, lvl Level) error {
	root := strings.TrimSuffix(h.BaseURL, "/") + "/" + lay.ObsID + "/" + string(lvl) + "/"
	h.log.Info("mirroring from HEASARC",
		zap.String("obsid", lay.ObsID), zap.String("level", string(lvl)),
		zap.String("url", root))

	files, err := h.listRecursive(ctx, root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found under %s", root)
	}
	h.log.Info("downloading files", zap.Int("count", len(files)))

	destRoot := lay.LevelDir(lvl)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.Workers)
	for _, rel := range files {
		rel := rel
		g.Go(func() error {
			dest := filepath.Join(destRoot, filepath.FromSlash(rel))
			h.log.Debug("downloading", zap.String("file", rel))
			return downloadFile(gctx, h.HTTP, root+rel, dest)
		})
	}
	return g.Wait()
}

// listRecursive walks the index pages under root and returns the
// root-relative paths of every file to download.
func (h *HEASARC) listRecursive(ctx context.Context, root string) ([]string, error) {
	var files []string
	var walk func(prefix string) error
	walk = func(prefix string) error {
		links, err := h.listIndex(ctx, root+prefix)
		if err != nil {
			return err
		}
		for _, link := range links {
			name := strings.TrimSuffix(link, "/")
			if skipEntry(name) {
				continue
			}
			if strings.HasSuffix(link, "/") {
				if err := walk(prefix + name + "/"); err != nil {
					return err
				}
				continue
			}
			files = append(files, prefix+name)
		}
		return nil
	}
	if err := walk(""); err != nil {
		return nil, err
	}
	return files, nil
}

// skipEntry filters index entries the mirror walk must not follow:
// index pages themselves and the 4XMM catalog cross-reference trees.
func skipEntry(name string) bool {
	if strings.HasPrefix(name, "index.html") {
		return true
	}
	return strings.Contains(name, "4XMM")
}

// listIndex fetches one directory index page and extracts the child
// links. Parent and absolute links are dropped.
func (h *HEASARC) listIndex(ctx context.Context, dirURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dirURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", dirURL, err)
	}
	resp, err := h.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", dirURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("requesting %s: unexpected status %s", dirURL, resp.Status)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing index %s: %w", dirURL, err)
	}

	var links []string
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					if link, ok := childLink(attr.Val); ok {
						links = append(links, link)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	return links, nil
}

// childLink reports whether href points at a direct child of the index
// page and returns it normalized (directories keep a trailing slash).
func childLink(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.IsAbs() || strings.HasPrefix(href, "/") {
		return "", false
	}
	if href == "" || strings.HasPrefix(href, "?") || strings.HasPrefix(href, "#") {
		return "", false
	}
	clean := path.Clean(u.Path)
	if clean == "." || clean == ".." || strings.Contains(clean, "/") {
		return "", false
	}
	if strings.HasSuffix(u.Path, "/") {
		return clean + "/", true
	}
	return clean, true
}
