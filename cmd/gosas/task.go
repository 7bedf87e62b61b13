// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sastools/gosas/pkg/sastask"
)

var taskRunDir string

// taskCmd groups the task introspection and invocation commands
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Introspect or run individual SAS tasks",
}

var taskInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show the parameters a task accepts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := initEnvFromConfig(); err != nil {
			return err
		}
		task, err := sastask.Load(args[0])
		if err != nil {
			return fmt.Errorf("loading task description: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "task %s", task.Name)
		if task.Version != "" {
			fmt.Fprintf(out, " (version %s)", task.Version)
		}
		fmt.Fprintln(out)
		for _, p := range task.Params {
			fmt.Fprintf(out, "  %s", p.Name)
			if p.Type != "" {
				fmt.Fprintf(out, " <%s>", p.Type)
			}
			if p.Mandatory {
				fmt.Fprint(out, " (mandatory)")
			}
			if p.Default != "" {
				fmt.Fprintf(out, " [default: %s]", p.Default)
			}
			fmt.Fprintln(out)
			if len(p.Values) > 0 {
				fmt.Fprintf(out, "      one of: %s\n", strings.Join(p.Values, ", "))
			}
			if p.Description != "" {
				fmt.Fprintf(out, "      %s\n", p.Description)
			}
		}
		return nil
	},
}

var taskRunCmd = &cobra.Command{
	Use:   "run <name> [arg...]",
	Short: "Run a single SAS task with key=value arguments",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := initEnvFromConfig(); err != nil {
			return err
		}
		runner := sastask.NewRunner(logger)
		return runner.Run(cmd.Context(), args[0], args[1:], taskRunDir)
	},
}

func init() {
	taskRunCmd.Flags().StringVar(&taskRunDir, "dir", "", "Directory to run the task in (default: current)")
	taskCmd.AddCommand(taskInfoCmd)
	taskCmd.AddCommand(taskRunCmd)
}
