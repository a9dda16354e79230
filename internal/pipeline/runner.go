package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/gdevine/face-neutronprobe-hiev/internal/config"
	"github.com/gdevine/face-neutronprobe-hiev/internal/convert"
	"github.com/gdevine/face-neutronprobe-hiev/internal/files"
	"github.com/gdevine/face-neutronprobe-hiev/internal/hiev"
	"github.com/gdevine/face-neutronprobe-hiev/internal/infrastructure"
	"github.com/gdevine/face-neutronprobe-hiev/internal/naming"
	"github.com/gdevine/face-neutronprobe-hiev/internal/validation"
)

// Runner drives every discovered candidate through the pipeline stages in
// sequence: validate, backup, stage, convert, upload, cleanup. Candidates
// are processed one at a time; a per-file failure is logged and the run
// moves on to the next file.
type Runner struct {
	paths     *config.Paths
	discovery *files.Discovery
	stager    *files.Stager
	validator *validation.FileValidator
	converter convert.Converter
	uploader  hiev.Uploader
}

// NewRunner wires a runner over the configured directories. The converter
// and uploader are the run's two external collaborators.
func NewRunner(paths *config.Paths, converter convert.Converter, uploader hiev.Uploader) *Runner {
	return &Runner{
		paths:     paths,
		discovery: files.NewDiscovery(paths.DataDir),
		stager:    files.NewStager(paths),
		validator: validation.NewFileValidator(infrastructure.WithComponent(infrastructure.GetLogger(), "validation")),
		converter: converter,
		uploader:  uploader,
	}
}

// FileResult records the terminal status of one candidate
type FileResult struct {
	RawName string
	Status  Status
	Detail  string
}

// Summary aggregates one run. Uploaded counts candidates whose raw and L1
// artifacts both reached HIEv (the original's "successful file pairs").
type Summary struct {
	RunID    string
	Started  time.Time
	Finished time.Time

	Candidates int
	Ignored    int
	Uploaded   int
	Skipped    int
	Failed     int

	Results []FileResult
}

// Duration returns the wall-clock length of the run
func (s *Summary) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

// Run processes the full candidate set once. The returned error is
// non-nil only for fatal startup problems; per-file failures are recorded
// in the summary and the run still completes.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	logger := infrastructure.LoggerFromContext(ctx)

	summary := &Summary{
		RunID:   infrastructure.GetRunID(ctx),
		Started: time.Now(),
	}

	logger.Info("Run started",
		"data_dir", r.paths.DataDir,
		"renamed_dir", r.paths.RenamedDir,
		"backups_dir", r.paths.BackupsDir)

	if err := r.preflight(); err != nil {
		return nil, err
	}

	candidates, others, err := r.discovery.FindCandidates("")
	if err != nil {
		return nil, NewFatalConfigError("failed to enumerate Data folder", err)
	}

	for _, other := range others {
		logger.Warn("File does not match FA naming convention - ignoring",
			"file", other.Name)
	}
	summary.Ignored = len(others)
	summary.Candidates = len(candidates)

	logger.Info("Looping over files in Data folder",
		"candidates", len(candidates))

	for _, fi := range candidates {
		result := r.processFile(ctx, fi)
		summary.Results = append(summary.Results, result)

		switch result.Status {
		case StatusCleaned:
			summary.Uploaded++
		case StatusSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	summary.Finished = time.Now()
	logger.Info("Run Complete",
		"uploaded_pairs", summary.Uploaded,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"ignored", summary.Ignored,
		"duration", summary.Duration().String())

	return summary, nil
}

// preflight verifies the directories the run depends on. Failures here
// abort the run before any file is touched.
func (r *Runner) preflight() error {
	pattern := naming.RawPrefix + "*" + naming.RawExtension
	if err := r.validator.ValidateInputDirectory(r.paths.DataDir, pattern); err != nil {
		return NewFatalConfigError("Data folder unavailable", err)
	}

	for _, dir := range []string{r.paths.RenamedDir, r.paths.BackupsDir} {
		if err := r.validator.ValidateOutputDirectory(dir); err != nil {
			return NewFatalConfigError("required directory not writable", err)
		}
	}

	return nil
}

// processFile drives a single candidate to a terminal status. Failures
// leave every local artifact in place for the next run or manual review.
func (r *Runner) processFile(ctx context.Context, fi files.FileInfo) FileResult {
	logger := infrastructure.LoggerFromContext(ctx)
	logger.Info("Match found",
		"file", fi.Name,
		"size", fi.Size,
		"modified", fi.ModTime.Format(time.RFC3339))

	rawName := fi.Name
	cand, err := NewCandidate(rawName)
	if err != nil {
		return FileResult{RawName: rawName, Status: StatusFailed, Detail: err.Error()}
	}

	// Validate and back up the original before anything else touches it.
	if err := r.validator.ValidateFile(fi.Path); err != nil {
		return r.failResult(ctx, cand, NewIOError("validate", rawName, err))
	}

	if _, err := r.stager.Backup(ctx, rawName); err != nil {
		return r.failResult(ctx, cand, NewIOError("backup", rawName, err))
	}

	stagedPath, err := r.stager.Stage(ctx, rawName, cand.CanonicalName)
	if err != nil {
		if errors.Is(err, files.ErrAlreadyStaged) {
			return r.skipResult(ctx, cand, err)
		}
		return r.failResult(ctx, cand, NewIOError("stage", rawName, err))
	}
	if err := cand.Apply(EventStage); err != nil {
		return r.failResult(ctx, cand, NewIOError("stage", rawName, err))
	}

	derivedPath, err := r.stager.SeedDerived(ctx, cand.CanonicalName, cand.DerivedName)
	if err != nil {
		if errors.Is(err, files.ErrAlreadyConverted) {
			return r.skipResult(ctx, cand, err)
		}
		return r.failResult(ctx, cand, NewIOError("convert", rawName, err))
	}

	if err := r.converter.Convert(ctx, derivedPath); err != nil {
		return r.failResult(ctx, cand, NewConversionError(rawName, err))
	}
	if err := cand.Apply(EventConvert); err != nil {
		return r.failResult(ctx, cand, NewConversionError(rawName, err))
	}

	// Raw artifact first; its record must exist before the derived file
	// references it through parent_filenames.
	if err := r.uploader.Upload(ctx, stagedPath, hiev.RawMetadata(cand.Window)); err != nil {
		return r.failResult(ctx, cand, NewUploadError(cand.CanonicalName, err))
	}
	if err := r.uploader.Upload(ctx, derivedPath, hiev.DerivedMetadata(cand.Window, cand.CanonicalName)); err != nil {
		return r.failResult(ctx, cand, NewUploadError(cand.DerivedName, err))
	}
	if err := cand.Apply(EventUpload); err != nil {
		return r.failResult(ctx, cand, NewUploadError(rawName, err))
	}

	// Both uploads are confirmed. Deletion problems are logged but do not
	// fail the candidate; the idempotency guards cover the leftovers.
	if err := r.stager.Cleanup(ctx, rawName, cand.CanonicalName, cand.DerivedName); err != nil {
		cleanupErr := NewCleanupError(rawName, err)
		logger.Error("Cleanup left local artifacts behind",
			"file", rawName,
			"error", cleanupErr.Error())
	}
	if err := cand.Apply(EventCleanup); err != nil {
		return FileResult{RawName: rawName, Status: cand.Status, Detail: err.Error()}
	}

	return FileResult{RawName: rawName, Status: cand.Status}
}

func (r *Runner) skipResult(ctx context.Context, cand *Candidate, reason error) FileResult {
	_ = cand.Skip(reason)
	infrastructure.LoggerFromContext(ctx).Warn("File already processed - skipping",
		"file", cand.RawName,
		"reason", reason.Error())
	return FileResult{RawName: cand.RawName, Status: cand.Status, Detail: reason.Error()}
}

func (r *Runner) failResult(ctx context.Context, cand *Candidate, perr *PipelineError) FileResult {
	_ = cand.Fail(perr)
	infrastructure.LoggerFromContext(ctx).Error("Could not process file",
		"file", cand.RawName,
		"stage", perr.Stage,
		"error_type", string(perr.Type),
		"error", perr.Error())
	return FileResult{RawName: cand.RawName, Status: cand.Status, Detail: perr.Error()}
}
