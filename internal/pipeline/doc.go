// Package pipeline orchestrates the neutron probe upload run: it walks
// the Data folder, and drives every matching file through backup,
// canonical renaming, CSV conversion, HIEv upload and local cleanup.
//
// # Candidate Lifecycle
//
// Each file is tracked as a Candidate with an explicit status. Statuses
// advance through a fixed transition table:
//
//	pending -> staged -> converted -> uploaded -> cleaned
//
// with two terminal side exits: skipped (an artifact from an earlier run
// already exists) and failed (a stage reported an error). Once a
// candidate reaches uploaded, both remote records exist; cleanup
// problems are logged but no longer fail the candidate.
//
// # Failure Isolation
//
// A failing candidate never aborts the run. Its local files are left in
// place so the next run can resume: the staged copy triggers a skip, the
// backup preserves the original. Only startup problems (missing Data
// folder, unwritable Renamed or Backups folder) abort the run as a
// whole, reported as an ErrorTypeFatalConfig error.
//
// # Usage
//
//	runner := pipeline.NewRunner(paths, converter, uploader)
//	summary, err := runner.Run(ctx)
//	if err != nil {
//		// fatal startup problem, nothing was processed
//	}
//	fmt.Printf("%d pairs uploaded\n", summary.Uploaded)
package pipeline
