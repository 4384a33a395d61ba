// Package archive packs processed output directories into tar.xz
// bundles and unpacks them again.
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

// Create packs the contents of srcDirs into a tar.xz archive at
// dstPath. Each directory becomes a top-level folder named after its
// base name. Member order and timestamps are normalized so the same
// inputs produce the same archive layout.
func Create(srcDirs []string, dstPath string) error {
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	outFile, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer outFile.Close()

	xw, err := xz.NewWriter(outFile)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	defer xw.Close()

	tw := tar.NewWriter(xw)
	defer tw.Close()

	now := time.Now()

	for _, srcDir := range srcDirs {
		baseDir := filepath.Base(filepath.Clean(srcDir))
		if err := addDir(tw, srcDir, baseDir, now); err != nil {
			return err
		}
	}
	return nil
}

// addDir appends one directory tree to the archive with members in
// sorted path order.
func addDir(tw *tar.Writer, srcDir, baseDir string, mtime time.Time) error {
	var paths []string
	err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path != srcDir {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", srcDir, err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		info, err := os.Lstat(path)
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = baseDir + "/" + filepath.ToSlash(relPath)
		if info.IsDir() {
			header.Name += "/"
		}
		header.ModTime = mtime

		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			continue
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to archive %s: %w", path, err)
		}
	}
	return nil
}

// List returns the member names of a tar.xz archive.
func List(archivePath string) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create xz reader: %w", err)
	}

	tr := tar.NewReader(xr)
	var names []string
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read archive: %w", err)
		}
		names = append(names, header.Name)
	}
}

// Extract unpacks a tar.xz archive into dstDir. Member paths are
// validated against traversal outside the destination.
func Extract(archivePath, dstDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to create xz reader: %w", err)
	}

	tr := tar.NewReader(xr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}

		target := filepath.Join(dstDir, filepath.FromSlash(header.Name))
		if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(dstDir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive member escapes destination: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode)&0777)
			if err != nil {
				return err
			}
			_, err = io.Copy(out, tr)
			out.Close()
			if err != nil {
				return fmt.Errorf("failed to extract %s: %w", header.Name, err)
			}
		}
	}
}
