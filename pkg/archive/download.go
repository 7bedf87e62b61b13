// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package archive

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Downloader fetches the data for one level of an observation into the
// layout. Implementations exist for the ESA archive, the HEASARC
// mirror, and the SciServer local copy.
type Downloader interface {
	Fetch(ctx context.Context, lay Layout, lvl Level) error
}

// NewDownloader maps a repository name to its Downloader.
func NewDownloader(repo string, log *zap.Logger) (Downloader, error) {
	switch repo {
	case "", "esa":
		return NewESA(log), nil
	case "heasarc":
		return NewHEASARC(log), nil
	case "sciserver":
		return NewSciServer(log), nil
	}
	return nil, fmt.Errorf("repository must be esa, heasarc, or sciserver, got %q", repo)
}

// Client drives a download: it rebuilds the observation directory,
// dispatches to the Downloader, and post-processes the tree (decrypt,
// gunzip, untar).
type Client struct {
	dl  Downloader
	gpg gpgRunner
	log *zap.Logger
}

// NewClient returns a Client for the given Downloader.
func NewClient(dl Downloader, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{dl: dl, gpg: runGPG, log: log}
}

// Download retrieves an observation at the given level. Any preexisting
// observation directory is removed first; deciding whether that is
// acceptable is the caller's job.
func (c *Client) Download(ctx context.Context, lay Layout, lvl Level, encryptionKey string) error {
	if _, err := os.Stat(lay.ObsDir()); err == nil {
		c.log.Info("removing existing observation directory",
			zap.String("dir", lay.ObsDir()))
		if err := os.RemoveAll(lay.ObsDir()); err != nil {
			return fmt.Errorf("removing %s: %w", lay.ObsDir(), err)
		}
	}
	if err := lay.Create(); err != nil {
		return err
	}

	c.log.Info("requesting observation from archive",
		zap.String("obsid", lay.ObsID), zap.String("level", string(lvl)))

	for _, l := range lvl.expand() {
		if err := c.dl.Fetch(ctx, lay, l); err != nil {
			return fmt.Errorf("fetching %s level %s: %w", lay.ObsID, l, err)
		}
	}

	return c.postProcess(ctx, lay, encryptionKey)
}

// postProcess normalizes the downloaded tree: decrypt *.gpg, gunzip
// *.gz, and untar *.TAR into the ODF directory, removing each container
// after extraction.
func (c *Client) postProcess(ctx context.Context, lay Layout, encryptionKey string) error {
	if err := c.decryptAll(ctx, lay, encryptionKey); err != nil {
		return err
	}

	gzipped, err := findFiles(lay.ObsDir(), ".gz")
	if err != nil {
		return err
	}
	for _, file := range gzipped {
		c.log.Debug("unpacking", zap.String("file", file))
		if err := gunzipFile(file); err != nil {
			return err
		}
	}

	tars, err := findFiles(lay.ObsDir(), ".TAR")
	if err != nil {
		return err
	}
	for _, file := range tars {
		c.log.Debug("unpacking", zap.String("file", file))
		if err := untar(file, lay.ODFDir(), false); err != nil {
			return err
		}
		if err := os.Remove(file); err != nil {
			return fmt.Errorf("removing %s: %w", file, err)
		}
	}
	return nil
}
