// Package convert runs the external R script that rewrites a seeded
// neutron probe text file into its level 1 CSV form. The pipeline owns the
// seeding and path bookkeeping; this package only executes the tool and
// interprets its exit status.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/gdevine/face-neutronprobe-hiev/internal/config"
	"github.com/gdevine/face-neutronprobe-hiev/internal/infrastructure"
)

// Converter rewrites a seeded derived file in place. The file at
// derivedPath starts as a byte copy of the staged raw file and holds CSV
// content if and only if Convert returns nil.
type Converter interface {
	Convert(ctx context.Context, derivedPath string) error
}

// Result holds the outcome of a converter invocation
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// RscriptConverter invokes the FACE neutron probe R script via the
// configured interpreter, passing the derived file path as the script's
// single argument.
type RscriptConverter struct {
	command    string
	scriptPath string
	timeout    time.Duration
}

// NewRscriptConverter creates a converter for the configured interpreter
// and script location
func NewRscriptConverter(cfg config.ConverterConfig, scriptPath string) *RscriptConverter {
	return &RscriptConverter{
		command:    cfg.Command,
		scriptPath: scriptPath,
		timeout:    cfg.Timeout,
	}
}

// Available reports whether the converter interpreter can be found in PATH
func (c *RscriptConverter) Available() error {
	if _, err := exec.LookPath(c.command); err != nil {
		return fmt.Errorf("converter command %q not found: %w", c.command, err)
	}
	return nil
}

// Convert runs the R script against the seeded derived file. The script
// rewrites the file in place; on a non-zero exit the seed is left behind
// exactly as the script abandoned it.
func (c *RscriptConverter) Convert(ctx context.Context, derivedPath string) error {
	res, err := c.run(ctx, derivedPath)

	logger := infrastructure.LoggerFromContext(ctx)
	if err != nil {
		logger.Error("Conversion tool failed",
			"command", c.command,
			"script", c.scriptPath,
			"file", derivedPath,
			"error", err.Error())
		return err
	}

	logger.Info("Converted text file to CSV",
		"file", derivedPath,
		"duration", res.Duration.String())
	return nil
}

func (c *RscriptConverter) run(ctx context.Context, derivedPath string) (*Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.command, c.scriptPath, derivedPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("conversion of %s aborted: %w", derivedPath, ctxErr)
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
			return res, fmt.Errorf("conversion of %s failed with exit code %d: %s",
				derivedPath, res.ExitCode, firstLine(res.Stderr))
		}
		return res, fmt.Errorf("failed to execute converter: %w", err)
	}

	return res, nil
}

// firstLine trims tool output down to something that fits in a log field
func firstLine(s string) string {
	if s == "" {
		return "(no output)"
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
