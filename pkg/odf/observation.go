// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package odf

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sastools/gosas/pkg/archive"
	"github.com/sastools/gosas/pkg/sasenv"
	"github.com/sastools/gosas/pkg/sastask"
)

// ccfFileName is the calibration index cifbuild produces.
const ccfFileName = "ccf.cif"

// summarySuffix marks the file odfingest produces.
const summarySuffix = "SUM.SAS"

// Observation drives the preparation of a single observation: download
// (or reuse) the data, run cifbuild and odfingest, and export SAS_CCF
// and SAS_ODF for the analysis tasks that follow.
type Observation struct {
	// ObsID is the ten digit observation identifier.
	ObsID string

	// DataDir is where observation directories live.
	DataDir string

	// Level selects which data to obtain (default ODF).
	Level archive.Level

	// Overwrite forces a fresh download even when usable data exists.
	Overwrite bool

	// EncryptionKey decrypts proprietary data; empty means look for a
	// key file next to the observation directory.
	EncryptionKey string

	// CCFFile and SummaryFile, when set together, are used instead of
	// searching the observation directory; both must exist.
	CCFFile     string
	SummaryFile string

	// CifbuildArgs and OdfingestArgs are passed through to the tasks.
	CifbuildArgs  []string
	OdfingestArgs []string

	client *archive.Client
	runner *sastask.Runner
	log    *zap.Logger
}

// NewObservation wires an Observation to its archive client and task
// runner.
func NewObservation(obsID, dataDir string, client *archive.Client, runner *sastask.Runner, log *zap.Logger) *Observation {
	if log == nil {
		log = zap.NewNop()
	}
	return &Observation{
		ObsID:   obsID,
		DataDir: dataDir,
		client:  client,
		runner:  runner,
		log:     log,
	}
}

// obsState classifies what is already on disk for an observation.
type obsState int

const (
	stateMissing    obsState = iota // nothing usable, download needed
	stateDownloaded                 // raw ODF present, calibration needed
	stateComplete                   // calibration index and summary present
)

// Setup brings the observation to the analysis-ready state: SAS_CCF
// pointing at a calibration index and SAS_ODF at an ingested summary
// file. Work already done in a previous run is reused unless Overwrite
// is set.
func (o *Observation) Setup(ctx context.Context) error {
	if o.ObsID == "" {
		return fmt.Errorf("observation id is required")
	}
	if o.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	lay := o.layout()
	lvl := o.Level
	if lvl == "" {
		lvl = archive.LevelODF
	}

	if o.CCFFile != "" || o.SummaryFile != "" {
		if o.CCFFile == "" || o.SummaryFile == "" {
			return fmt.Errorf("calibration index and summary file must be given together")
		}
		if err := o.UseFiles(o.CCFFile, o.SummaryFile); err != nil {
			return err
		}
		if err := os.MkdirAll(lay.WorkDir(), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", lay.WorkDir(), err)
		}
		return nil
	}

	if !o.Overwrite {
		switch o.inspect(lay) {
		case stateComplete:
			o.log.Info("existing calibrated data found, reusing",
				zap.String("obsid", o.ObsID), zap.String("dir", lay.ObsDir()))
			return o.attach(lay)
		case stateDownloaded:
			o.log.Info("existing raw data found, skipping download",
				zap.String("obsid", o.ObsID), zap.String("dir", lay.ObsDir()))
			return o.calibrate(ctx, lay)
		case stateMissing:
			// An existing directory we cannot classify may hold the
			// user's own products; never delete it implicitly.
			if _, err := os.Stat(lay.ObsDir()); err == nil {
				return fmt.Errorf("directory %s exists but holds no recognizable observation data, will not overwrite", lay.ObsDir())
			}
		}
	}

	if err := o.client.Download(ctx, lay, lvl, o.EncryptionKey); err != nil {
		return err
	}

	if lvl == archive.LevelPPS {
		// Pipeline products need no calibration run; point the user at
		// the observation summary page instead.
		o.log.Info("PPS products downloaded",
			zap.String("dir", lay.PPSDir()),
			zap.String("summary", filepath.Join(lay.PPSDir(),
				"P"+o.ObsID+"OBX000SUMMAR0000.HTM")))
		return nil
	}
	return o.calibrate(ctx, lay)
}

// UseFiles skips download and calibration entirely and points the
// environment at an existing calibration index and summary file.
func (o *Observation) UseFiles(ccfFile, sumFile string) error {
	for _, path := range []string{ccfFile, sumFile} {
		if !filepath.IsAbs(path) {
			return fmt.Errorf("%s must be an absolute path", path)
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}
	if !strings.HasSuffix(sumFile, summarySuffix) {
		return fmt.Errorf("%s is not a %s file", sumFile, summarySuffix)
	}
	if err := VerifySummary(sumFile, ""); err != nil {
		return err
	}
	os.Setenv(sasenv.EnvCCF, ccfFile)
	os.Setenv(sasenv.EnvODF, sumFile)
	o.log.Info("using existing calibration files",
		zap.String("sas_ccf", ccfFile), zap.String("sas_odf", sumFile))
	return nil
}

func (o *Observation) layout() archive.Layout {
	return archive.Layout{DataDir: o.DataDir, ObsID: o.ObsID}
}

// inspect looks at the observation directory and decides how much of
// the preparation can be skipped.
func (o *Observation) inspect(lay archive.Layout) obsState {
	if _, err := os.Stat(lay.ObsDir()); err != nil {
		return stateMissing
	}
	ccf, sum := findCalibration(lay.ObsDir())
	if ccf != "" && sum != "" {
		return stateComplete
	}
	manifests, err := filepath.Glob(filepath.Join(lay.ODFDir(), "MANIFEST*"))
	if err == nil && len(manifests) > 0 {
		return stateDownloaded
	}
	return stateMissing
}

// attach exports the environment for an observation that was fully
// prepared in a previous run.
func (o *Observation) attach(lay archive.Layout) error {
	ccf, sum := findCalibration(lay.ObsDir())
	if err := VerifySummary(sum, lay.ODFDir()); err != nil {
		return err
	}
	if err := os.MkdirAll(lay.WorkDir(), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", lay.WorkDir(), err)
	}
	os.Setenv(sasenv.EnvCCF, ccf)
	os.Setenv(sasenv.EnvODF, sum)
	o.log.Info("observation ready",
		zap.String("sas_ccf", ccf), zap.String("sas_odf", sum))
	return nil
}

// calibrate runs the cifbuild/odfingest chain in the work directory and
// checks each task delivered the file it is contracted to produce.
func (o *Observation) calibrate(ctx context.Context, lay archive.Layout) error {
	manifests, err := filepath.Glob(filepath.Join(lay.ODFDir(), "MANIFEST*"))
	if err != nil {
		return fmt.Errorf("searching for manifest: %w", err)
	}
	if len(manifests) == 0 {
		return fmt.Errorf("no MANIFEST file in %s: not an unpacked ODF directory", lay.ODFDir())
	}
	if err := os.MkdirAll(lay.WorkDir(), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", lay.WorkDir(), err)
	}

	os.Setenv(sasenv.EnvODF, lay.ODFDir())

	if err := o.runner.Run(ctx, "cifbuild", o.CifbuildArgs, lay.WorkDir()); err != nil {
		return err
	}
	ccf := filepath.Join(lay.WorkDir(), ccfFileName)
	if _, err := os.Stat(ccf); err != nil {
		return fmt.Errorf("cifbuild did not produce %s: %w", ccf, err)
	}
	os.Setenv(sasenv.EnvCCF, ccf)

	if err := o.runner.Run(ctx, "odfingest", o.OdfingestArgs, lay.WorkDir()); err != nil {
		return err
	}
	sums, err := filepath.Glob(filepath.Join(lay.WorkDir(), "*"+summarySuffix))
	if err != nil {
		return fmt.Errorf("searching for summary file: %w", err)
	}
	if len(sums) == 0 {
		return fmt.Errorf("odfingest did not produce a summary file in %s", lay.WorkDir())
	}
	sum := sums[0]
	if err := VerifySummary(sum, lay.ODFDir()); err != nil {
		return err
	}
	os.Setenv(sasenv.EnvODF, sum)

	o.log.Info("observation ready",
		zap.String("sas_ccf", ccf), zap.String("sas_odf", sum))
	return nil
}

// findCalibration walks the observation directory for the calibration
// index and the ingested summary file.
func findCalibration(root string) (ccf, sum string) {
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		switch {
		case d.Name() == ccfFileName && ccf == "":
			ccf = path
		case strings.HasSuffix(d.Name(), summarySuffix) && sum == "":
			sum = path
		}
		return nil
	})
	return ccf, sum
}
