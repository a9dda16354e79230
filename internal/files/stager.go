package files

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gdevine/face-neutronprobe-hiev/internal/config"
	"github.com/gdevine/face-neutronprobe-hiev/internal/infrastructure"
)

var (
	// ErrAlreadyStaged reports that the canonical file already exists in
	// the Renamed folder, usually left by an interrupted earlier run. The
	// candidate is skipped without touching the staged copy.
	ErrAlreadyStaged = errors.New("file already staged in Renamed folder")

	// ErrAlreadyConverted reports that the derived CSV already exists in
	// the Renamed folder.
	ErrAlreadyConverted = errors.New("derived file already exists in Renamed folder")
)

// Stager performs the pipeline's file movements: backup, staging under the
// canonical name, seeding the derived CSV, and post-upload cleanup.
type Stager struct {
	paths   *config.Paths
	manager *Manager
}

// NewStager creates a stager rooted at the configured directories
func NewStager(paths *config.Paths) *Stager {
	return &Stager{
		paths:   paths,
		manager: NewManager(paths),
	}
}

// Backup copies the original inbox file verbatim into the Backups folder
// under its original name. An existing backup from an earlier attempt is
// overwritten; the inbox content is the fresher copy.
func (s *Stager) Backup(ctx context.Context, rawName string) (string, error) {
	src := s.paths.DataPath(rawName)
	dst := s.paths.BackupPath(rawName)

	if err := s.manager.CopyFile(src, dst); err != nil {
		return "", fmt.Errorf("backup of %s failed: %w", rawName, err)
	}

	infrastructure.LoggerFromContext(ctx).Info("Initial backup made",
		"file", rawName,
		"backup_path", dst)

	return dst, nil
}

// Stage copies the inbox file into the Renamed folder under its canonical
// name. If the canonical file already exists the candidate was handled by
// an earlier run and Stage returns ErrAlreadyStaged without writing.
func (s *Stager) Stage(ctx context.Context, rawName, canonicalName string) (string, error) {
	src := s.paths.DataPath(rawName)
	dst := s.paths.RenamedPath(canonicalName)

	if s.manager.FileExists(dst) {
		return dst, fmt.Errorf("%w: %s", ErrAlreadyStaged, canonicalName)
	}

	if err := s.manager.CopyFile(src, dst); err != nil {
		return "", fmt.Errorf("staging of %s failed: %w", rawName, err)
	}

	infrastructure.LoggerFromContext(ctx).Info("File staged under canonical name",
		"file", rawName,
		"canonical", canonicalName)

	return dst, nil
}

// SeedDerived creates the derived CSV path by copying the staged raw file
// to it; the external converter then rewrites that file in place. If the
// derived file already exists SeedDerived returns ErrAlreadyConverted.
func (s *Stager) SeedDerived(ctx context.Context, canonicalName, derivedName string) (string, error) {
	src := s.paths.RenamedPath(canonicalName)
	dst := s.paths.RenamedPath(derivedName)

	if s.manager.FileExists(dst) {
		return dst, fmt.Errorf("%w: %s", ErrAlreadyConverted, derivedName)
	}

	if err := s.manager.CopyFile(src, dst); err != nil {
		return "", fmt.Errorf("seeding of %s failed: %w", derivedName, err)
	}

	return dst, nil
}

// Cleanup removes the inbox original and both staged artifacts after a
// successful upload. Every removal is attempted even when an earlier one
// fails; the combined error reports whatever was left behind.
func (s *Stager) Cleanup(ctx context.Context, rawName, canonicalName, derivedName string) error {
	targets := []string{
		s.paths.DataPath(rawName),
		s.paths.RenamedPath(canonicalName),
		s.paths.RenamedPath(derivedName),
	}

	var errs []error
	for _, target := range targets {
		if err := s.manager.DeleteFile(target); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", target, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	infrastructure.LoggerFromContext(ctx).Info("File cleaned out of Data and Renamed folders",
		"file", rawName)

	return nil
}
