// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

// gosas is the command line front end for the SAS orchestration layer:
// it configures the toolkit environment, obtains observation data, and
// drives the calibration and reduction tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool
	dataDir string

	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gosas",
	Short: "Orchestration layer for the XMM-Newton Science Analysis System",
	Long: `gosas wraps the SAS toolkit: it sets up the environment the task
binaries need, downloads observation data from the ESA and HEASARC
archives, runs the cifbuild/odfingest calibration chain, and replays
reduction pipelines.

Run "gosas setup" once to record where SAS and the calibration files
live, then "gosas start --odfid <id>" to prepare an observation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Observation data directory (default: configured data_dir, else current directory)")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(pipelineCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
