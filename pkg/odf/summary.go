// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package odf prepares XMM-Newton observation data files for analysis:
// it obtains the raw data, runs the calibration chain, and exports the
// environment the SAS tasks read.
package odf

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// VerifySummary checks that sumFile is a usable odfingest summary: it
// must carry a PATH keyword pointing at an existing directory that
// holds a MANIFEST file. A non-empty odfDir additionally requires the
// keyword to point at that directory.
func VerifySummary(sumFile, odfDir string) error {
	f, err := os.Open(sumFile)
	if err != nil {
		return fmt.Errorf("opening summary file: %w", err)
	}
	defer f.Close()

	var path string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 2 && fields[0] == "PATH" {
			path = fields[1]
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading summary file: %w", err)
	}
	if path == "" {
		return fmt.Errorf("summary file %s has no PATH keyword", sumFile)
	}

	if odfDir != "" && filepath.Clean(path) != filepath.Clean(odfDir) {
		return fmt.Errorf("summary file %s points at %s, not %s: rerun odfingest",
			sumFile, path, odfDir)
	}
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return fmt.Errorf("summary file %s points at %s, which is not an existing directory",
			sumFile, path)
	}
	manifests, err := filepath.Glob(filepath.Join(path, "MANIFEST*"))
	if err != nil {
		return fmt.Errorf("searching for manifest: %w", err)
	}
	if len(manifests) == 0 {
		return fmt.Errorf("no MANIFEST file in %s: not an unpacked ODF directory", path)
	}
	return nil
}
