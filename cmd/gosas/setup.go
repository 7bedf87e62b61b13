// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sastools/gosas/pkg/config"
	"github.com/sastools/gosas/pkg/sasenv"
)

// setupCmd runs the interactive first-time configuration
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively configure the SAS install and calibration directories",
	Long: `Walks through the first-time setup: locate the SAS install directory,
point at (or create and populate) the calibration file directory, and
optionally pick a default data directory. The answers are saved as
defaults for later runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		wizard := config.NewWizard(logger)
		wizard.In = cmd.InOrStdin()
		wizard.Out = cmd.OutOrStdout()
		return wizard.Run()
	},
}

// configCmd manages the persisted defaults
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or edit the persisted SAS defaults",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the persisted defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path, err := config.Path()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", path)
		fmt.Fprintf(out, "sas_dir: %s\n", cfg.SASDir)
		fmt.Fprintf(out, "ccf_path: %s\n", cfg.CCFPath)
		fmt.Fprintf(out, "data_dir: %s\n", cfg.DataDir)
		fmt.Fprintf(out, "verbosity: %d\n", cfg.Verbosity)
		fmt.Fprintf(out, "suppress_warning: %d\n", cfg.SuppressWarning)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <option> <value>",
	Short: "Set one default (sas_dir, ccf_path, data_dir, verbosity, suppress_warning)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.Set(args[0], args[1])
	},
}

var configClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the persisted defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.Clear()
	},
}

// initCmd initializes the environment and prints it for the shell
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the SAS environment from the persisted defaults",
	Long: `Initializes the SAS environment variables from the persisted defaults
and prints them as shell export statements, so they can be picked up
with eval "$(gosas init)".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := initEnvFromConfig(); err != nil {
			return err
		}
		for _, line := range sasenv.ExportLines() {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configClearCmd)
}
