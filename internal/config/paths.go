package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the single source of truth for every file the pipeline
// writes. All outputs live under one run-owned output directory.
type Paths struct {
	OutputDir   string
	SubjectsDir string
	LogsDir     string

	// Well-known output files
	CompositeCSV   string
	CompositeXLSX  string
	QuarantineJSON string
	DuplicatesJSON string
	ErrorLog       string
}

// NewPaths builds the path set for one run rooted at outputDir.
func NewPaths(outputDir string, out OutputConfig) *Paths {
	return &Paths{
		OutputDir:      outputDir,
		SubjectsDir:    filepath.Join(outputDir, out.SubjectsSubdir),
		LogsDir:        filepath.Join(outputDir, "logs"),
		CompositeCSV:   filepath.Join(outputDir, out.CompositeCSV),
		CompositeXLSX:  filepath.Join(outputDir, out.CompositeXLSX),
		QuarantineJSON: filepath.Join(outputDir, out.QuarantineJSON),
		DuplicatesJSON: filepath.Join(outputDir, out.DuplicatesJSON),
		ErrorLog:       filepath.Join(outputDir, out.ErrorLog),
	}
}

// EnsureDirectories creates all required directories
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.OutputDir, p.SubjectsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetSubjectCSVPath returns the per-subject CSV location for a
// filesystem-safe file name.
func (p *Paths) GetSubjectCSVPath(filename string) string {
	return filepath.Join(p.SubjectsDir, filename)
}

// GetLogPath returns a path inside the run's logs directory.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetArchivePath returns the location for the bundled output archive.
func (p *Paths) GetArchivePath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}
