// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// defaultESABaseURL is the XSA archive interaction servlet.
const defaultESABaseURL = "https://nxsa.esac.esa.int/nxsa-sl/servlet/data-action-aio"

// ESA downloads observation bundles from the XMM-Newton Science Archive.
// The servlet returns a single <obsid>.tar.gz per level.
type ESA struct {
	BaseURL string
	HTTP    *http.Client

	log *zap.Logger
}

// NewESA returns an ESA downloader against the production archive.
func NewESA(log *zap.Logger) *ESA {
	if log == nil {
		log = zap.NewNop()
	}
	return &ESA{BaseURL: defaultESABaseURL, HTTP: http.DefaultClient, log: log}
}

// Fetch downloads <obsid>.tar.gz for one level and unpacks it into the
// level directory.
func (e *ESA) Fetch(ctx context.Context, lay Layout, lvl Level) error {
	tarPath := filepath.Join(lay.ObsDir(), lay.ObsID+".tar.gz")
	// A stale tarball from an interrupted run must not survive.
	if err := os.Remove(tarPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale %s: %w", tarPath, err)
	}

	query := url.Values{}
	query.Set("obsno", lay.ObsID)
	query.Set("level", string(lvl))
	reqURL := e.BaseURL + "?" + query.Encode()

	e.log.Info("downloading from ESA archive",
		zap.String("obsid", lay.ObsID), zap.String("level", string(lvl)),
		zap.String("url", reqURL))

	if err := downloadFile(ctx, e.HTTP, reqURL, tarPath); err != nil {
		return err
	}
	if _, err := os.Stat(tarPath); err != nil {
		return fmt.Errorf("%s is not present, not downloaded?: %w", tarPath, err)
	}

	dest := lay.LevelDir(lvl)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	e.log.Info("unpacking", zap.String("file", tarPath), zap.String("dest", dest))
	if err := untar(tarPath, dest, true); err != nil {
		return err
	}
	return os.Remove(tarPath)
}

// downloadFile GETs a URL into a local file. Non-2xx responses are errors.
func downloadFile(ctx context.Context, client *http.Client, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("requesting %s: unexpected status %s", rawURL, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return out.Close()
}
