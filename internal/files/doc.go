// Package files provides file system operations for the neutron probe
// upload pipeline.
//
// This package contains three main components:
//
// Discovery: Enumerates the Data inbox and returns the candidates that
// match the instrument's FADDMMYY.TXT naming convention, in deterministic
// name order. Non-matching files are reported separately so the run log
// can account for every inbox entry.
//
// Manager: Provides the basic file operations the stager builds on:
// existence checks, copying, and deleting, resolving relative paths
// against the configured working root.
//
// Stager: Implements the pipeline's file movements on top of Manager:
// backup copies into Backups, staging under the canonical name into
// Renamed, seeding the derived CSV, and the post-upload cleanup. Staging
// and seeding refuse to overwrite, which is what makes interrupted runs
// safe to repeat.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.DataDir)
//	candidates, others, err := discovery.FindCandidates("")
//
//	stager := files.NewStager(paths)
//	if _, err := stager.Stage(ctx, "FA150518.TXT", "FACE_AUTO_RA_NEUTRON_R_20180515.txt"); err != nil {
//	    // errors.Is(err, files.ErrAlreadyStaged) means a previous run got here first
//	}
package files
