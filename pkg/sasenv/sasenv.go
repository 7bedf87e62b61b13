// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package sasenv initializes the process environment for the SAS toolkit.
// HEASOFT must be initialized separately before any of this is useful.
package sasenv

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Environment variable names used by the SAS binaries.
const (
	EnvLheasoft        = "LHEASOFT"
	EnvSASDir          = "SAS_DIR"
	EnvCCFPath         = "SAS_CCFPATH"
	EnvSASPath         = "SAS_PATH"
	EnvCCF             = "SAS_CCF"
	EnvODF             = "SAS_ODF"
	EnvVerbosity       = "SAS_VERBOSITY"
	EnvSuppressWarning = "SAS_SUPPRESS_WARNING"
)

// Settings holds the directories and knobs needed to initialize SAS.
type Settings struct {
	// SASDir is the SAS installation root (xmmsas_* directory).
	SASDir string

	// CCFPath is the directory holding the calibration files.
	CCFPath string

	// Verbosity is exported as SAS_VERBOSITY (default 4).
	Verbosity int

	// SuppressWarning is exported as SAS_SUPPRESS_WARNING (default 1).
	SuppressWarning int
}

func (s *Settings) applyDefaults() {
	if s.Verbosity == 0 {
		s.Verbosity = 4
	}
	if s.SuppressWarning == 0 {
		s.SuppressWarning = 1
	}
}

// AddVar creates or extends a pathsep-joined list variable in the process
// environment. Values already present are never duplicated. With prepend
// true new values go to the front, otherwise to the back.
func AddVar(name string, values []string, prepend bool) {
	for _, value := range values {
		current := os.Getenv(name)
		if current == "" {
			os.Setenv(name, value)
			continue
		}
		parts := strings.Split(current, string(os.PathListSeparator))
		if contains(parts, value) {
			continue
		}
		if prepend {
			parts = append([]string{value}, parts...)
		} else {
			parts = append(parts, value)
		}
		os.Setenv(name, strings.Join(parts, string(os.PathListSeparator)))
	}
}

func contains(parts []string, value string) bool {
	for _, p := range parts {
		if p == value {
			return true
		}
	}
	return false
}

// Initialize exports the full set of SAS environment variables for the
// given settings. Relative directories are resolved against the current
// working directory. Repeated calls never duplicate path entries.
func Initialize(set Settings, log *zap.Logger) error {
	set.applyDefaults()

	if os.Getenv(EnvLheasoft) == "" {
		return fmt.Errorf("%s is not set: initialize HEASOFT first", EnvLheasoft)
	}
	if set.SASDir == "" {
		return fmt.Errorf("SAS installation directory is required")
	}
	if set.CCFPath == "" {
		return fmt.Errorf("calibration file directory is required")
	}

	sasDir, err := filepath.Abs(set.SASDir)
	if err != nil {
		return fmt.Errorf("resolving SAS directory: %w", err)
	}
	ccfPath, err := filepath.Abs(set.CCFPath)
	if err != nil {
		return fmt.Errorf("resolving calibration directory: %w", err)
	}
	if _, err := os.Stat(sasDir); err != nil {
		return fmt.Errorf("SAS directory %s: %w", sasDir, err)
	}
	if _, err := os.Stat(ccfPath); err != nil {
		return fmt.Errorf("calibration directory %s: %w", ccfPath, err)
	}

	AddVar(EnvSASDir, []string{sasDir}, true)
	AddVar(EnvCCFPath, []string{ccfPath}, true)
	AddVar(EnvSASPath, []string{sasDir}, true)

	binPath := []string{
		filepath.Join(sasDir, "bin"),
		filepath.Join(sasDir, "bin", "devel"),
	}
	libPath := []string{
		filepath.Join(sasDir, "lib"),
		filepath.Join(sasDir, "libextra"),
		filepath.Join(sasDir, "libsys"),
	}
	perlPath := []string{filepath.Join(sasDir, "lib", "perl5")}
	pythonPath := []string{filepath.Join(sasDir, "lib", "python")}

	sasPath := append(append(append(append([]string{}, binPath...), libPath...), perlPath...), pythonPath...)
	AddVar(EnvSASPath, sasPath, false)
	AddVar("PATH", binPath, true)
	AddVar("LIBRARY_PATH", libPath, false)
	AddVar("LD_LIBRARY_PATH", libPath, false)
	AddVar("PERL5LIB", perlPath, true)
	AddVar("PYTHONPATH", pythonPath, true)

	// Fold a preexisting PERLLIB into PERL5LIB; SAS perl tasks only read
	// the latter.
	if perllib := os.Getenv("PERLLIB"); perllib != "" {
		AddVar("PERL5LIB", strings.Split(perllib, string(os.PathListSeparator)), false)
	}

	os.Setenv(EnvVerbosity, strconv.Itoa(set.Verbosity))
	os.Setenv(EnvSuppressWarning, strconv.Itoa(set.SuppressWarning))

	log.Info("SAS environment initialized",
		zap.String("sas_dir", sasDir),
		zap.String("ccf_path", ccfPath),
		zap.Int("verbosity", set.Verbosity),
		zap.Int("suppress_warning", set.SuppressWarning))
	return nil
}

// CheckRuntime verifies the variables every SAS task invocation depends on.
func CheckRuntime() error {
	for _, name := range []string{EnvLheasoft, EnvSASDir, EnvCCFPath} {
		if os.Getenv(name) == "" {
			return fmt.Errorf("%s is not set", name)
		}
	}
	return nil
}

// DetectInstall walks up from start looking for an xmmsas_* directory and
// returns the install root if one is found.
func DetectInstall(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if strings.HasPrefix(filepath.Base(dir), "xmmsas_") {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ExportLines renders the currently exported SAS variables as shell export
// statements, for users who want them in an interactive shell.
func ExportLines() []string {
	names := []string{
		EnvSASDir, EnvCCFPath, EnvSASPath,
		EnvCCF, EnvODF,
		EnvVerbosity, EnvSuppressWarning,
		"PATH", "LIBRARY_PATH", "LD_LIBRARY_PATH", "PERL5LIB", "PYTHONPATH",
	}
	var lines []string
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			lines = append(lines, fmt.Sprintf("export %s=%q", name, v))
		}
	}
	return lines
}
