// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pipeline chains SAS task invocations described in a yaml
// file, so a reduction recipe can be stored alongside the data and
// replayed.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sastools/gosas/pkg/sastask"
)

// Step is one task invocation in a pipeline.
type Step struct {
	Task string   `yaml:"task"`
	Args []string `yaml:"args,omitempty"`
}

// Pipeline is an ordered list of task invocations for one observation.
type Pipeline struct {
	ObsID string `yaml:"obsid,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Read loads a pipeline file.
func Read(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline file: %w", err)
	}
	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing pipeline file %s: %w", path, err)
	}
	return &p, nil
}

// Write saves the pipeline to path.
func (p *Pipeline) Write(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshalling pipeline: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing pipeline file: %w", err)
	}
	return nil
}

// Add appends a step.
func (p *Pipeline) Add(task string, args []string) error {
	if task == "" {
		return fmt.Errorf("task name is required")
	}
	p.Steps = append(p.Steps, Step{Task: task, Args: args})
	return nil
}

// Remove deletes the step at index (zero based).
func (p *Pipeline) Remove(index int) error {
	if index < 0 || index >= len(p.Steps) {
		return fmt.Errorf("no step %d: pipeline has %d steps", index, len(p.Steps))
	}
	p.Steps = append(p.Steps[:index], p.Steps[index+1:]...)
	return nil
}

// SetArgs replaces the arguments of the step at index.
func (p *Pipeline) SetArgs(index int, args []string) error {
	if index < 0 || index >= len(p.Steps) {
		return fmt.Errorf("no step %d: pipeline has %d steps", index, len(p.Steps))
	}
	p.Steps[index].Args = args
	return nil
}

// Show renders the pipeline for the terminal.
func (p *Pipeline) Show(w io.Writer) {
	if p.ObsID != "" {
		fmt.Fprintf(w, "observation: %s\n", p.ObsID)
	}
	for i, step := range p.Steps {
		fmt.Fprintf(w, "%3d  %s %s\n", i, step.Task, strings.Join(step.Args, " "))
	}
}

// Run executes the steps in order with the given runner, in dir. The
// first failing step stops the pipeline.
func (p *Pipeline) Run(ctx context.Context, runner *sastask.Runner, dir string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if len(p.Steps) == 0 {
		return fmt.Errorf("pipeline has no steps")
	}
	for i, step := range p.Steps {
		log.Info("running pipeline step",
			zap.Int("step", i), zap.String("task", step.Task))
		if err := runner.Run(ctx, step.Task, step.Args, dir); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Task, err)
		}
	}
	return nil
}
