// Package output renders operator-facing console feedback for the upload
// run. The structured JSON log is the authoritative record; this is the
// short version for whoever is watching the terminal.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/gdevine/face-neutronprobe-hiev/internal/pipeline"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow, color.Bold)
	red    = color.New(color.FgRed)
)

// Header prints the run banner
func Header(title string) {
	line := strings.Repeat("=", 64)
	green.Printf("\n%s\n", line)
	green.Printf("%s\n", title)
	green.Printf("%s\n\n", line)
}

// Result prints one candidate's outcome line
func Result(res pipeline.FileResult) {
	switch res.Status {
	case pipeline.StatusCleaned:
		green.Printf("  + %s: pair uploaded to HIEv\n", res.RawName)
	case pipeline.StatusSkipped:
		yellow.Printf("  - %s: skipped (%s)\n", res.RawName, res.Detail)
	default:
		red.Printf("  x %s: %s\n", res.RawName, res.Detail)
	}
}

// Summary prints the closing totals for the run
func Summary(s *pipeline.Summary) {
	fmt.Println()
	green.Printf("Run Complete. %d successful file pairs (Raw and L1) uploaded to HIEv\n", s.Uploaded)
	if s.Skipped > 0 {
		yellow.Printf("%d file(s) skipped, artifacts from an earlier run are still present\n", s.Skipped)
	}
	if s.Failed > 0 {
		red.Printf("%d file(s) failed, local copies were kept for the next run\n", s.Failed)
	}
	fmt.Printf("run_id=%s duration=%s\n", s.RunID, s.Duration().Round(time.Millisecond))
}

// Warning prints a non-fatal startup problem
func Warning(text string) {
	yellow.Printf("Warning: %s\n", text)
}

// Errorf prints a fatal error to stderr
func Errorf(format string, args ...any) {
	red.Fprintf(color.Error, "Error: "+format+"\n", args...)
}
