// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// defaultSciServerRoot is where the HEASARC archive is mounted inside a
// SciServer session.
const defaultSciServerRoot = "/home/idies/workspace/headata/FTP/xmm/data/rev0"

// SciServer copies observation data from the locally mounted archive
// instead of going over the network.
type SciServer struct {
	Root string

	log *zap.Logger
}

// NewSciServer returns a SciServer downloader against the standard mount.
func NewSciServer(log *zap.Logger) *SciServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &SciServer{Root: defaultSciServerRoot, log: log}
}

// Fetch copies <root>/<obsid>/<level> into the level directory.
func (s *SciServer) Fetch(ctx context.Context, lay Layout, lvl Level) error {
	src := filepath.Join(s.Root, lay.ObsID, string(lvl))
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("archive data %s: %w", src, err)
	}
	dest := lay.LevelDir(lvl)
	s.log.Info("copying from mounted archive",
		zap.String("src", src), zap.String("dest", dest))
	if err := copyDir(src, dest); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return nil
}
