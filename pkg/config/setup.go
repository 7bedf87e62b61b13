// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sastools/gosas/pkg/sasenv"
)

// Liberal yes/no vocabularies for the setup prompts.
var (
	positive = []string{"y", "yes", "ye", "yeah", "yea", "ys", "aye", "yup", "totally", "si", "oui"}
	negative = []string{"n", "no", "not", "nay", "no way", "nein", "non"}
)

// ccfSyncSource is the rsync module holding the current valid CCF set.
const ccfSyncSource = "sasdev-xmm.esac.esa.int::XMM_VALID_CCF"

// Wizard runs the interactive first-time setup: it asks for the SAS
// install directory, the calibration directory, and an optional data
// directory, persists them as defaults, and initializes the environment.
type Wizard struct {
	In  io.Reader
	Out io.Writer

	// DetectStart is where install auto-detection begins (default: the
	// executable's directory).
	DetectStart string

	// SyncCCF downloads the current valid calibration set into dest.
	// Defaults to an rsync against the ESA server.
	SyncCCF func(dest string) error

	log *zap.Logger
}

// NewWizard returns a Wizard wired to stdin/stdout.
func NewWizard(log *zap.Logger) *Wizard {
	return &Wizard{In: os.Stdin, Out: os.Stdout, SyncCCF: syncCCF, log: log}
}

// Run walks the user through the prompts. On success the defaults are
// saved and the SAS environment is initialized.
func (w *Wizard) Run() error {
	if w.SyncCCF == nil {
		w.SyncCCF = syncCCF
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}
	in := bufio.NewScanner(w.In)

	sasDir, err := w.askSASDir(in)
	if err != nil {
		return err
	}
	ccfPath, err := w.askCCFPath(in)
	if err != nil {
		return err
	}
	dataDir, err := w.askDataDir(in)
	if err != nil {
		return err
	}

	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.SASDir = sasDir
	cfg.CCFPath = ccfPath
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if err := Save(cfg); err != nil {
		return err
	}

	if err := sasenv.Initialize(sasenv.Settings{
		SASDir:          sasDir,
		CCFPath:         ccfPath,
		Verbosity:       cfg.Verbosity,
		SuppressWarning: cfg.SuppressWarning,
	}, w.log); err != nil {
		return fmt.Errorf("initializing SAS: %w", err)
	}

	fmt.Fprintf(w.Out, "\nSAS_DIR set to %s\nSAS_CCFPATH set to %s\n", sasDir, ccfPath)
	if dataDir != "" {
		fmt.Fprintf(w.Out, "data_dir set to %s\n", dataDir)
	}
	return nil
}

func (w *Wizard) askSASDir(in *bufio.Scanner) (string, error) {
	start := w.DetectStart
	if start == "" {
		if exe, err := os.Executable(); err == nil {
			start = filepath.Dir(exe)
		}
	}
	if detected, ok := sasenv.DetectInstall(start); ok {
		fmt.Fprintf(w.Out, "Is this the correct SAS directory?\n\n    %s\n\n", detected)
		answer, err := w.askYesNo(in, "y/n: ")
		if err != nil {
			return "", err
		}
		if answer {
			return detected, nil
		}
	}
	dir, err := w.prompt(in, "\nFull path to the SAS install directory: ")
	if err != nil {
		return "", err
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving SAS directory: %w", err)
	}
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("SAS directory %s does not exist", dir)
	}
	return dir, nil
}

func (w *Wizard) askCCFPath(in *bufio.Scanner) (string, error) {
	dir, err := w.prompt(in, "\nFull path to the calibration file directory: ")
	if err != nil {
		return "", err
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving calibration directory: %w", err)
	}
	if _, statErr := os.Stat(dir); statErr == nil {
		return dir, nil
	}

	fmt.Fprintf(w.Out, "The directory %s was not found.\n", dir)
	create, err := w.askYesNo(in, "Should I create it? (y/n): ")
	if err != nil {
		return "", err
	}
	if !create {
		return "", fmt.Errorf("calibration directory %s does not exist", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating calibration directory: %w", err)
	}

	fmt.Fprintln(w.Out, "Download the current valid calibration set? This will take some time.")
	sync, err := w.askYesNo(in, "(y/n): ")
	if err != nil {
		return "", err
	}
	if sync {
		if err := w.SyncCCF(dir); err != nil {
			return "", fmt.Errorf("downloading calibration files: %w", err)
		}
	}
	return dir, nil
}

func (w *Wizard) askDataDir(in *bufio.Scanner) (string, error) {
	dir, err := w.prompt(in, "\nFull path to the data directory (optional): ")
	if err != nil {
		return "", err
	}
	if dir == "" {
		return "", nil
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving data directory: %w", err)
	}
	if _, statErr := os.Stat(dir); statErr != nil {
		fmt.Fprintf(w.Out, "%s does not exist. Creating it.\n", dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating data directory: %w", err)
		}
	}
	return dir, nil
}

func (w *Wizard) prompt(in *bufio.Scanner, msg string) (string, error) {
	fmt.Fprint(w.Out, msg)
	if !in.Scan() {
		if err := in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(in.Text()), nil
}

func (w *Wizard) askYesNo(in *bufio.Scanner, msg string) (bool, error) {
	answer, err := w.prompt(in, msg)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	for _, p := range positive {
		if answer == p {
			return true, nil
		}
	}
	for _, n := range negative {
		if answer == n {
			return false, nil
		}
	}
	return false, fmt.Errorf("response %q not recognized", answer)
}

// syncCCF mirrors the current valid CCF set from the ESA server.
func syncCCF(dest string) error {
	cmd := exec.Command("rsync", "-v", "-a",
		"--delete", "--delete-after", "--force",
		"--include=*.CCF", "--exclude=*/",
		ccfSyncSource, dest+string(os.PathSeparator))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("rsync: %w", err)
	}
	return nil
}
