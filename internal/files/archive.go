// Package files handles filesystem-level concerns around the output
// directory, currently the tar.gz bundling of a finished run for
// download by end users.
package files

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ArchiveName returns the dated bundle name for a run, e.g.
// "EMA_Responses_Aug_26_2026.tar.gz".
func ArchiveName(now time.Time) string {
	return fmt.Sprintf("EMA_Responses_%s.tar.gz", now.Format("Jan_02_2006"))
}

// CreateArchive bundles everything under sourceDir into a gzipped tar
// at archivePath. The archive file itself is skipped when it lives
// inside sourceDir. Entries are stored under arcRoot so the bundle
// unpacks into a single directory.
func CreateArchive(sourceDir, archivePath, arcRoot string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		return fmt.Errorf("failed to resolve archive path: %w", err)
	}

	err = filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if abs, err := filepath.Abs(path); err == nil && abs == absArchive {
			return nil
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(filepath.Join(arcRoot, rel))

		if err := tw.WriteHeader(header); err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(tw, file)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", sourceDir, err)
	}

	slog.Info("Created output archive",
		slog.String("source_dir", sourceDir),
		slog.String("archive_path", archivePath))
	return nil
}
