package files

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// IsArchive reports whether the path looks like a supported archive format.
func IsArchive(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".zip") ||
		strings.HasSuffix(lower, ".tar.gz") ||
		strings.HasSuffix(lower, ".tgz") ||
		strings.HasSuffix(lower, ".tar")
}

// ExtractArchive extracts a zip or tar archive into the destination folder.
// Entries that would escape the destination are rejected.
func ExtractArchive(archivePath, dest string) error {
	lower := strings.ToLower(archivePath)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return extractZip(archivePath, dest)
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return extractTar(archivePath, dest, true)
	case strings.HasSuffix(lower, ".tar"):
		return extractTar(archivePath, dest, false)
	default:
		return fmt.Errorf("unsupported archive format: %q", archivePath)
	}
}

// securePath joins name below dest and rejects traversal outside of it.
func securePath(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) && target != filepath.Clean(dest) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return target, nil
}

func extractZip(archivePath, dest string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open zip archive %q: %w", archivePath, err)
	}
	defer reader.Close()

	for _, entry := range reader.File {
		target, err := securePath(dest, entry.Name)
		if err != nil {
			return err
		}
		if entry.FileInfo().IsDir() {
			if err := CreateFolderIfNotExists(target); err != nil {
				return err
			}
			continue
		}
		if err := CreateFolderIfNotExists(filepath.Dir(target)); err != nil {
			return err
		}
		if err := writeZipEntry(entry, target); err != nil {
			return err
		}
	}
	return nil
}

func writeZipEntry(entry *zip.File, target string) error {
	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open zip entry %q: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, entry.Mode())
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write file %q: %w", target, err)
	}
	return nil
}

func extractTar(archivePath, dest string, gzipped bool) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open tar archive %q: %w", archivePath, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if gzipped {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("failed to open gzip stream of %q: %w", archivePath, err)
		}
		defer gz.Close()
		reader = gz
	}

	tarReader := tar.NewReader(reader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar entry: %w", err)
		}

		target, err := securePath(dest, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := CreateFolderIfNotExists(target); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := CreateFolderIfNotExists(filepath.Dir(target)); err != nil {
				return err
			}
			dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("failed to create file %q: %w", target, err)
			}
			if _, err := io.Copy(dst, tarReader); err != nil {
				dst.Close()
				return fmt.Errorf("failed to write file %q: %w", target, err)
			}
			dst.Close()
		default:
			// symlinks and special files inside archives are skipped
		}
	}
}
