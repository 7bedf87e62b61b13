// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sastools/gosas/pkg/archive"
	"github.com/sastools/gosas/pkg/config"
	"github.com/sastools/gosas/pkg/odf"
	"github.com/sastools/gosas/pkg/sastask"
)

var (
	startObsID         string
	startCCFFile       string
	startSumFile       string
	startLevel         string
	startRepo          string
	startOverwrite     bool
	startEncryptionKey string
	startCifbuildArgs  []string
	startOdfingestArgs []string
)

// startCmd prepares an observation for analysis
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Prepare an observation: download, calibrate, and export the environment",
	Long: `Brings one observation to the analysis-ready state. With --odfid the
data is downloaded (or reused when already present), cifbuild and
odfingest are run, and SAS_CCF/SAS_ODF are exported. With --sas-ccf and
--sas-odf an existing calibration index and summary file are used
directly and nothing is downloaded, with or without an --odfid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := initEnvFromConfig()
		if err != nil {
			return err
		}

		runner := sastask.NewRunner(logger)
		client, err := newArchiveClient(startRepo)
		if err != nil {
			return err
		}
		dir, err := resolveDataDir(cfg)
		if err != nil {
			return err
		}
		obs := odf.NewObservation(startObsID, dir, client, runner, logger)

		if (startCCFFile == "") != (startSumFile == "") {
			return fmt.Errorf("--sas-ccf and --sas-odf must be given together")
		}
		if startCCFFile != "" && startObsID == "" {
			return obs.UseFiles(startCCFFile, startSumFile)
		}
		if startObsID == "" {
			return fmt.Errorf("either --odfid or --sas-ccf/--sas-odf is required")
		}
		obs.CCFFile = startCCFFile
		obs.SummaryFile = startSumFile

		lvl, err := archive.ParseLevel(startLevel)
		if err != nil {
			return err
		}
		obs.Level = lvl
		obs.Overwrite = startOverwrite
		obs.EncryptionKey = startEncryptionKey
		obs.CifbuildArgs = startCifbuildArgs
		obs.OdfingestArgs = startOdfingestArgs
		return obs.Setup(cmd.Context())
	},
}

// newArchiveClient builds an archive client for the named repository.
// With no repository given, SciServer sessions use the local archive
// copy and everything else goes to ESA.
func newArchiveClient(repo string) (*archive.Client, error) {
	if repo == "" && config.OnSciServer() {
		repo = "sciserver"
	}
	dl, err := archive.NewDownloader(repo, logger)
	if err != nil {
		return nil, err
	}
	return archive.NewClient(dl, logger), nil
}

func init() {
	startCmd.Flags().StringVar(&startObsID, "odfid", "", "Observation identifier to prepare")
	startCmd.Flags().StringVar(&startCCFFile, "sas-ccf", "", "Existing calibration index (ccf.cif) to use")
	startCmd.Flags().StringVar(&startSumFile, "sas-odf", "", "Existing summary file (*SUM.SAS) to use")
	startCmd.Flags().StringVar(&startLevel, "level", "ODF", "Data level to obtain: ODF, PPS, or ALL")
	startCmd.Flags().StringVar(&startRepo, "repo", "", "Archive to download from: esa, heasarc, or sciserver (default: esa, or sciserver inside a SciServer session)")
	startCmd.Flags().BoolVar(&startOverwrite, "overwrite", false, "Discard existing data and download fresh")
	startCmd.Flags().StringVar(&startEncryptionKey, "encryption-key", "", "Key (or key file) for proprietary data")
	startCmd.Flags().StringArrayVar(&startCifbuildArgs, "cifbuild-args", nil, "Extra arguments for cifbuild")
	startCmd.Flags().StringArrayVar(&startOdfingestArgs, "odfingest-args", nil, "Extra arguments for odfingest")
}
