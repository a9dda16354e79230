package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileValidator_ValidateInputDirectory(t *testing.T) {
	tests := []struct {
		name            string
		setupFunc       func(t *testing.T) string
		requiredPattern string
		wantErr         bool
		errorContains   string
	}{
		{
			name: "valid directory with candidates",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "FA150518.TXT")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return dir
			},
			requiredPattern: "FA*.TXT",
			wantErr:         false,
		},
		{
			name: "valid directory without candidates",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			requiredPattern: "FA*.TXT",
			wantErr:         false, // Empty inbox is not an error
		},
		{
			name: "non-existent directory",
			setupFunc: func(t *testing.T) string {
				return "/non/existent/path"
			},
			requiredPattern: "",
			wantErr:         true,
			errorContains:   "does not exist",
		},
		{
			name: "path is file not directory",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "test.txt")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
			requiredPattern: "",
			wantErr:         true,
			errorContains:   "not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			dir := tt.setupFunc(t)

			err := validator.ValidateInputDirectory(dir, tt.requiredPattern)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "existing directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: false,
		},
		{
			name: "non-existent directory is created",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "Renamed")
			},
			wantErr: false,
		},
		{
			name: "nested directory is created",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "a", "b", "Backups")
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			dir := tt.setupFunc(t)

			err := validator.ValidateOutputDirectory(dir)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				assert.NoError(t, err)
				info, statErr := os.Stat(dir)
				require.NoError(t, statErr)
				assert.True(t, info.IsDir())

				// The write probe must not leave artifacts behind.
				_, statErr = os.Stat(filepath.Join(dir, ".write_test"))
				assert.True(t, os.IsNotExist(statErr))
			}
		})
	}
}

func TestFileValidator_ValidateFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "readable file",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "FA150518.TXT")
				require.NoError(t, os.WriteFile(file, []byte("probe data"), 0644))
				return file
			},
			wantErr: false,
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.TXT")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "path is a directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr:       true,
			errorContains: "is a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			path := tt.setupFunc(t)

			err := validator.ValidateFile(path)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateConverterScript(t *testing.T) {
	validator := NewFileValidator(slog.Default())

	t.Run("present script", func(t *testing.T) {
		dir := t.TempDir()
		script := filepath.Join(dir, "FACE_SCRIPT_NEUTRON_TXT-2-CSV.r")
		require.NoError(t, os.WriteFile(script, []byte("# converter"), 0644))

		assert.NoError(t, validator.ValidateConverterScript(script))
	})

	t.Run("missing script", func(t *testing.T) {
		err := validator.ValidateConverterScript(filepath.Join(t.TempDir(), "absent.r"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "converter script unavailable")
	})
}

func TestNewFileValidator_NilLogger(t *testing.T) {
	validator := NewFileValidator(nil)
	assert.NotNil(t, validator)
	assert.NoError(t, validator.ValidateOutputDirectory(t.TempDir()))
}
