package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/KarpelesLab/cpiofs"
	"github.com/google/renameio"
)

type hardlinkKey struct {
	dev uint64
	ino uint64
}

// runPack walks dir and packs it into a newc archive at archivePath, atomically
// replacing any existing file at that path. Grounded on initrd.go's
// renameio.TempFile/CloseAtomicallyReplace pattern for the output side, and on
// cmd/sqfs's plain directory-walk-to-stderr-on-error style for progress.
func runPack(dir, archivePath string) error {
	fsys, err := cpiofs.New()
	if err != nil {
		return fmt.Errorf("creating filesystem: %w", err)
	}
	links := make(map[hardlinkKey]*cpiofs.Entry)

	root := fsys.Root()
	err = filepath.Walk(dir, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		switch {
		case info.IsDir():
			_, err := root.CreateDirectory(rel, true)
			return err
		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(p)
			if err != nil {
				return err
			}
			_, err = root.CreateSymbolicLink(rel, target, true)
			return err
		case info.Mode().IsRegular():
			return packRegularFile(root, rel, p, info, links)
		default:
			fmt.Fprintf(os.Stderr, "cpioarc: skipping %s: unsupported file type\n", p)
			return nil
		}
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", dir, err)
	}

	return writeArchiveFile(fsys, archivePath)
}

func packRegularFile(root *cpiofs.Entry, rel, p string, info fs.FileInfo, links map[hardlinkKey]*cpiofs.Entry) error {
	if st, ok := info.Sys().(*syscall.Stat_t); ok && st.Nlink > 1 {
		key := hardlinkKey{dev: uint64(st.Dev), ino: st.Ino}
		if existing, ok := links[key]; ok {
			_, err := root.CreateHardLink(rel, existing, true)
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		entry, err := root.CreateFile(rel, cpiofs.BytesContent(data), true)
		if err != nil {
			return err
		}
		links[key] = entry
		return nil
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	_, err = root.CreateFile(rel, cpiofs.BytesContent(data), true)
	return err
}

func writeArchiveFile(fsys *cpiofs.Filesystem, archivePath string) error {
	out, err := renameio.TempFile("", archivePath)
	if err != nil {
		return fmt.Errorf("creating temp output: %w", err)
	}
	defer out.Cleanup()

	c := codecFromName(archivePath)
	dst, closer, err := wrapWriter(c, out)
	if err != nil {
		return err
	}
	if _, err := fsys.WriteTo(dst); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("closing %s stream: %w", c, err)
		}
	}
	return out.CloseAtomicallyReplace()
}
