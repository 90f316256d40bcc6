package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/KarpelesLab/cpiofs"

	"github.com/KarpelesLab/cpiofs/internal/bridgeutil"
)

// runInfo prints a summary of an archive's contents: per-kind counts plus a
// SHA-256 digest of every regular file, hashed concurrently via bridgeutil.
// Grounded on cmd/sqfs/main.go's countFilesAndDirs + showInfo combination.
func runInfo(archivePath string) error {
	fsys, err := openArchive(archivePath)
	if err != nil {
		return err
	}

	var dirs, files, symlinks, devices int
	fsys.Root().EnumerateEntries(cpiofs.AllDirectories, "", func(e *cpiofs.Entry) bool {
		switch e.Inode().Kind() {
		case cpiofs.KindDirectory:
			dirs++
		case cpiofs.KindRegularFile:
			files++
		case cpiofs.KindSymbolicLink:
			symlinks++
		case cpiofs.KindCharDevice, cpiofs.KindBlockDevice:
			devices++
		}
		return true
	})

	fmt.Printf("directories: %d\n", dirs)
	fmt.Printf("regular files: %d\n", files)
	fmt.Printf("symbolic links: %d\n", symlinks)
	fmt.Printf("device nodes: %d\n", devices)

	sums, err := bridgeutil.HashTree(context.Background(), fsys.Root())
	if err != nil {
		return fmt.Errorf("hashing file contents: %w", err)
	}
	sort.Slice(sums, func(i, j int) bool { return sums[i].Path < sums[j].Path })

	fmt.Println("\nfile digests (sha256):")
	for _, s := range sums {
		fmt.Printf("  %s  %s\n", s.Sum, s.Path)
	}
	return nil
}
