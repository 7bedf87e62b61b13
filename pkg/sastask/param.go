// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package sastask introspects and invokes SAS tasks. Each task ships a
// parameter description file under $SAS_DIR/config which is parsed here
// to validate arguments before the task binary is executed.
package sastask

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sastools/gosas/pkg/sasenv"
)

// Param describes a single task parameter from a parameter file block.
type Param struct {
	Name        string
	Type        string
	Default     string
	Description string
	Mandatory   bool

	// Values lists the accepted values for enumerated parameters.
	Values []string
}

// Task is the parsed description of a SAS task.
type Task struct {
	Name    string
	Version string
	Params  []Param
}

// Param returns the named parameter, if the task declares it.
func (t *Task) Param(name string) (Param, bool) {
	for _, p := range t.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// ParseParamFile parses the key/value-block parameter format:
//
//	task cifbuild
//	version 4.11
//
//	parameter withccfpath
//	  type = bool
//	  default = no
//	  mandatory = no
//	  description = "Use SAS_CCFPATH to locate calibration files"
//
// Blocks are introduced by a "parameter <name>" line and hold "key = value"
// lines. Lines starting with # are comments. Unknown keys are ignored so
// newer toolkit releases stay readable.
func ParseParamFile(r io.Reader) (*Task, error) {
	task := &Task{}
	var current *Param

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if name, ok := strings.CutPrefix(line, "parameter "); ok {
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, fmt.Errorf("line %d: parameter block without a name", lineNo)
			}
			if _, exists := task.Param(name); exists {
				return nil, fmt.Errorf("line %d: duplicate parameter %q", lineNo, name)
			}
			task.Params = append(task.Params, Param{Name: name})
			current = &task.Params[len(task.Params)-1]
			continue
		}

		if current == nil {
			// Header keys before the first block.
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: malformed header line %q", lineNo, line)
			}
			switch fields[0] {
			case "task":
				task.Name = fields[1]
			case "version":
				task.Version = fields[1]
			}
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("line %d: expected key = value, got %q", lineNo, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)
		switch key {
		case "type":
			current.Type = value
		case "default":
			current.Default = value
		case "description":
			current.Description = value
		case "mandatory":
			current.Mandatory = isTrue(value)
		case "values":
			for _, v := range strings.Split(value, "|") {
				if v = strings.TrimSpace(v); v != "" {
					current.Values = append(current.Values, v)
				}
			}
		}
		// Unknown keys are ignored.
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading parameter file: %w", err)
	}
	return task, nil
}

func isTrue(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "true", "1", "y":
		return true
	}
	return false
}

// ParamFilePath returns the parameter file location for a task name.
func ParamFilePath(name string) string {
	return filepath.Join(os.Getenv(sasenv.EnvSASDir), "config", name+".par")
}

// Load reads the parameter file for the named task from the SAS install.
// A missing file is reported with os.IsNotExist semantics so callers can
// treat introspection as best-effort.
func Load(name string) (*Task, error) {
	path := ParamFilePath(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	task, err := ParseParamFile(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if task.Name == "" {
		task.Name = name
	}
	return task, nil
}

// Validate checks key=value arguments against the task description.
// Flag-style arguments (leading -) are passed through untouched.
func (t *Task) Validate(args []string) error {
	seen := make(map[string]bool)
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return fmt.Errorf("argument %q is not of the form key=value", arg)
		}
		p, ok := t.Param(key)
		if !ok {
			return fmt.Errorf("task %s has no parameter %q", t.Name, key)
		}
		if len(p.Values) > 0 && !contains(p.Values, value) {
			return fmt.Errorf("parameter %q must be one of %s, got %q",
				key, strings.Join(p.Values, "|"), value)
		}
		seen[key] = true
	}
	for _, p := range t.Params {
		if p.Mandatory && p.Default == "" && !seen[p.Name] {
			return fmt.Errorf("mandatory parameter %q not supplied", p.Name)
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
