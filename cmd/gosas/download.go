// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/sastools/gosas/pkg/archive"
	"github.com/sastools/gosas/pkg/config"
)

var (
	downloadLevel         string
	downloadRepo          string
	downloadEncryptionKey string
)

// downloadCmd fetches observation data without running any tasks
var downloadCmd = &cobra.Command{
	Use:   "download <obsid>",
	Short: "Download and unpack observation data without calibrating it",
	Long: `Fetches one observation from the selected archive into the data
directory and normalizes it: encrypted files are decrypted, compressed
files unpacked, and the raw bundles extracted into the ODF directory.
An existing observation directory is replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dir, err := resolveDataDir(cfg)
		if err != nil {
			return err
		}
		lvl, err := archive.ParseLevel(downloadLevel)
		if err != nil {
			return err
		}
		client, err := newArchiveClient(downloadRepo)
		if err != nil {
			return err
		}
		lay := archive.Layout{DataDir: dir, ObsID: args[0]}
		return client.Download(cmd.Context(), lay, lvl, downloadEncryptionKey)
	},
}

func init() {
	downloadCmd.Flags().StringVar(&downloadLevel, "level", "ODF", "Data level to obtain: ODF, PPS, or ALL")
	downloadCmd.Flags().StringVar(&downloadRepo, "repo", "", "Archive to download from: esa, heasarc, or sciserver (default: esa, or sciserver inside a SciServer session)")
	downloadCmd.Flags().StringVar(&downloadEncryptionKey, "encryption-key", "", "Key (or key file) for proprietary data")
}
