// Package bridgeutil holds small helpers for the cpiofs command-line tools that
// don't belong in the core package itself.
package bridgeutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/KarpelesLab/cpiofs"
)

// FileHash is one regular file's full path and hex-encoded SHA-256 digest.
type FileHash struct {
	Path string
	Sum  string
}

// HashTree computes the SHA-256 digest of every regular file under root,
// concurrently. Grounded on initrd.go's slurpModules: an errgroup.Group fans
// out over a filepath.Walk-style enumeration, guarded by a mutex around the
// shared result slice.
func HashTree(ctx context.Context, root *cpiofs.Entry) ([]FileHash, error) {
	var (
		mu      sync.Mutex
		results []FileHash
		eg      errgroup.Group
	)

	root.EnumerateEntries(cpiofs.AllDirectories, "", func(e *cpiofs.Entry) bool {
		if e.Inode().Kind() != cpiofs.KindRegularFile {
			return true
		}
		path := e.FullPath()
		content := e.Inode().Content()
		eg.Go(func() error {
			h := sha256.New()
			if content != nil {
				if _, err := content.CopyTo(ctx, h); err != nil {
					return err
				}
			}
			sum := hex.EncodeToString(h.Sum(nil))
			mu.Lock()
			results = append(results, FileHash{Path: path, Sum: sum})
			mu.Unlock()
			return nil
		})
		return true
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
