// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package sastask

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/sastools/gosas/pkg/sasenv"
)

// Runner executes SAS task binaries with the inherited environment.
// Output is streamed to Stdout/Stderr (defaulting to the process ones).
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer

	log *zap.Logger
}

// NewRunner returns a Runner logging through log.
func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{Stdout: os.Stdout, Stderr: os.Stderr, log: log}
}

// Run validates args against the task's parameter file (when one exists)
// and executes the task binary in dir. A non-zero exit status is an error.
func (r *Runner) Run(ctx context.Context, name string, args []string, dir string) error {
	if err := sasenv.CheckRuntime(); err != nil {
		return fmt.Errorf("SAS runtime check: %w", err)
	}

	// Introspection is best-effort: tasks without a readable parameter
	// file still run, but a parseable file is enforced.
	task, err := Load(name)
	switch {
	case err == nil:
		if err := task.Validate(args); err != nil {
			return fmt.Errorf("validating %s arguments: %w", name, err)
		}
	case os.IsNotExist(err):
		r.log.Debug("no parameter file for task, skipping validation",
			zap.String("task", name))
	default:
		return err
	}

	r.log.Info("running SAS task",
		zap.String("task", name),
		zap.Strings("args", args),
		zap.String("dir", dir))

	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed to complete: %w", name, err)
	}
	r.log.Info("SAS task completed", zap.String("task", name))
	return nil
}
