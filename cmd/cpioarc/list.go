package main

import (
	"fmt"
	"os"

	"github.com/KarpelesLab/cpiofs"
)

// runList prints an ls -l-style listing of an archive, rooted at path. Grounded
// on cmd/sqfs/main.go's listFiles/printFileInfo shape, generalized from walking
// an fs.FS to walking a cpiofs.Entry tree via EnumerateEntries.
func runList(archivePath, path string) error {
	fsys, err := openArchive(archivePath)
	if err != nil {
		return err
	}
	start, err := fsys.Root().Get(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	printEntryLine(start)
	if start.IsDir() {
		start.EnumerateEntries(cpiofs.AllDirectories, "", func(e *cpiofs.Entry) bool {
			printEntryLine(e)
			return true
		})
	}
	return nil
}

func printEntryLine(e *cpiofs.Entry) {
	ino := e.Inode()
	fmt.Printf("%s %10d %5d %5d %s %s\n",
		modeString(ino.Kind(), ino.Mode()),
		entrySize(ino),
		ino.Uid(), ino.Gid(),
		ino.ModifiedAt().Format("2006-01-02 15:04"),
		e.FullPath(),
	)
}

func entrySize(ino *cpiofs.Inode) int64 {
	switch ino.Kind() {
	case cpiofs.KindRegularFile:
		if c := ino.Content(); c != nil {
			return c.Len()
		}
		return 0
	case cpiofs.KindSymbolicLink:
		return int64(len(ino.Target()))
	default:
		return 0
	}
}

func modeString(kind cpiofs.Kind, mode uint16) string {
	var typeChar byte
	switch kind {
	case cpiofs.KindDirectory:
		typeChar = 'd'
	case cpiofs.KindSymbolicLink:
		typeChar = 'l'
	case cpiofs.KindCharDevice:
		typeChar = 'c'
	case cpiofs.KindBlockDevice:
		typeChar = 'b'
	default:
		typeChar = '-'
	}
	perm := [9]byte{'-', '-', '-', '-', '-', '-', '-', '-', '-'}
	bits := "rwxrwxrwx"
	for i := 0; i < 9; i++ {
		if mode&(1<<(8-i)) != 0 {
			perm[i] = bits[i]
		}
	}
	return string(typeChar) + string(perm[:])
}

func openArchive(archivePath string) (*cpiofs.Filesystem, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", archivePath, err)
	}
	defer f.Close()

	fsys, err := cpiofs.New()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem: %w", err)
	}

	c := codecFromName(archivePath)
	src, closer, err := wrapReader(c, f)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer closer.Close()
	}

	if _, err := fsys.ReadFrom(src); err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	return fsys, nil
}
