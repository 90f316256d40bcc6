package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KarpelesLab/cpiofs"
)

// runExtract materializes every entry of an archive onto the real filesystem
// under destDir, in the same pre-order used by cmd/sqfs's showInfo walk: the
// directory for an entry always exists before its children are visited, since
// EnumerateEntries with AllDirectories descends depth-first per directory.
func runExtract(archivePath, destDir string) error {
	fsys, err := openArchive(archivePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", destDir, err)
	}

	var walkErr error
	fsys.Root().EnumerateEntries(cpiofs.AllDirectories, "", func(e *cpiofs.Entry) bool {
		if err := extractOne(destDir, e); err != nil {
			walkErr = fmt.Errorf("extracting %s: %w", e.FullPath(), err)
			return false
		}
		return true
	})
	return walkErr
}

func extractOne(destDir string, e *cpiofs.Entry) error {
	ino := e.Inode()
	target := filepath.Join(destDir, filepath.FromSlash(e.FullPath()))

	switch ino.Kind() {
	case cpiofs.KindDirectory:
		return os.MkdirAll(target, os.FileMode(ino.Mode()))
	case cpiofs.KindRegularFile:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(ino.Mode()))
		if err != nil {
			return err
		}
		defer f.Close()
		if c := ino.Content(); c != nil {
			if _, err := c.CopyTo(context.Background(), f); err != nil {
				return err
			}
		}
		return nil
	case cpiofs.KindSymbolicLink:
		_ = os.Remove(target)
		return os.Symlink(ino.Target(), target)
	case cpiofs.KindCharDevice, cpiofs.KindBlockDevice:
		fmt.Fprintf(os.Stderr, "cpioarc: skipping device node %s (requires root privileges to create)\n", e.FullPath())
		return nil
	default:
		return nil
	}
}
