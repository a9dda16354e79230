package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gdevine/face-neutronprobe-hiev/internal/naming"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindCandidates scans the inbox directory and splits its regular files
// into pipeline candidates (names matching the FADDMMYY.TXT convention)
// and everything else. Candidates come back sorted by name so successive
// runs process the inbox in the same order. Subdirectories are ignored.
func (d *Discovery) FindCandidates(dir string) (candidates, others []FileInfo, err error) {
	fullPath := dir
	if fullPath == "" {
		fullPath = d.basePath
	} else if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		info, err := entry.Info()
		if err != nil {
			continue
		}

		fi := FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}

		if naming.Match(name) {
			candidates = append(candidates, fi)
		} else {
			others = append(others, fi)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Name < candidates[j].Name
	})
	sort.Slice(others, func(i, j int) bool {
		return others[i].Name < others[j].Name
	})

	return candidates, others, nil
}
