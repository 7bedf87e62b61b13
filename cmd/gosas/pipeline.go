// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sastools/gosas/pkg/pipeline"
	"github.com/sastools/gosas/pkg/sastask"
)

var pipelineRunDir string

// pipelineCmd groups the reduction pipeline commands
var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Edit and replay reduction pipelines",
}

var pipelineShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the steps of a pipeline file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := pipeline.Read(args[0])
		if err != nil {
			return err
		}
		p.Show(cmd.OutOrStdout())
		return nil
	},
}

var pipelineAddCmd = &cobra.Command{
	Use:   "add <file> <task> [arg...]",
	Short: "Append a task invocation to a pipeline file",
	Long: `Appends a step to the pipeline file, creating the file when it does
not exist yet.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := &pipeline.Pipeline{}
		if _, err := os.Stat(args[0]); err == nil {
			p, err = pipeline.Read(args[0])
			if err != nil {
				return err
			}
		}
		if err := p.Add(args[1], args[2:]); err != nil {
			return err
		}
		return p.Write(args[0])
	},
}

var pipelineRunCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run every step of a pipeline file in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := initEnvFromConfig(); err != nil {
			return err
		}
		p, err := pipeline.Read(args[0])
		if err != nil {
			return err
		}
		runner := sastask.NewRunner(logger)
		return p.Run(cmd.Context(), runner, pipelineRunDir, logger)
	},
}

func init() {
	pipelineRunCmd.Flags().StringVar(&pipelineRunDir, "dir", "", "Directory to run the steps in (default: current)")
	pipelineCmd.AddCommand(pipelineShowCmd)
	pipelineCmd.AddCommand(pipelineAddCmd)
	pipelineCmd.AddCommand(pipelineRunCmd)
}
