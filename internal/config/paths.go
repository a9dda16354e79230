package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	ExecutableDir string
	WorkingRoot   string
	DataDir       string
	RenamedDir    string
	BackupsDir    string
	LogsDir       string

	// ConverterScript is the R script invoked to derive the L1 CSV.
	ConverterScript string

	// LogFile is the run log appended to on every invocation.
	LogFile string
}

// GetPaths resolves the application paths. The root is the directory
// containing the executable unless the configuration overrides it; the
// instrument drops files next to the deployed binary, so paths are never
// relative to the current working directory.
//
// Layout under the root:
//
//	root/
//	  ├── Data/        (inbox written by the neutron probe logger)
//	  ├── Renamed/     (canonical raw files and derived CSVs)
//	  ├── Backups/     (verbatim copies of ingested originals)
//	  ├── logs/        (run logs)
//	  └── FACE_SCRIPT_NEUTRON_TXT-2-CSV.r
func GetPaths(cfg *Config) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	root := cfg.Paths.WorkingRoot
	if root == "" {
		root = exeDir
	}

	paths := &Paths{
		ExecutableDir:   exeDir,
		WorkingRoot:     root,
		DataDir:         filepath.Join(root, cfg.Paths.DataDir),
		RenamedDir:      filepath.Join(root, cfg.Paths.RenamedDir),
		BackupsDir:      filepath.Join(root, cfg.Paths.BackupsDir),
		LogsDir:         filepath.Join(root, cfg.Paths.LogsDir),
		ConverterScript: filepath.Join(root, cfg.Converter.Script),
		LogFile:         filepath.Join(root, cfg.Logging.FilePath),
	}
	if filepath.IsAbs(cfg.Converter.Script) {
		paths.ConverterScript = cfg.Converter.Script
	}
	if filepath.IsAbs(cfg.Logging.FilePath) {
		paths.LogFile = cfg.Logging.FilePath
	}

	return paths, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.RenamedDir,
		p.BackupsDir,
		p.LogsDir,
		filepath.Dir(p.LogFile),
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// DataPath returns the inbox path for a raw instrument file
func (p *Paths) DataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// RenamedPath returns the staging path for a canonical or derived file
func (p *Paths) RenamedPath(filename string) string {
	return filepath.Join(p.RenamedDir, filename)
}

// BackupPath returns the backup path for an original file
func (p *Paths) BackupPath(filename string) string {
	return filepath.Join(p.BackupsDir, filename)
}

// LogPath returns the path for a log file
func (p *Paths) LogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("working_root", p.WorkingRoot),
			slog.String("data", p.DataDir),
			slog.String("renamed", p.RenamedDir),
			slog.String("backups", p.BackupsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("files",
			slog.String("converter_script", p.ConverterScript),
			slog.String("log_file", p.LogFile),
		))
}
