package cpiofs

import "path"

// matchGlob reports whether name matches pattern using path.Match's shell-style
// '*'/'?'/'[...]' semantics (spec.md §4.7). The teacher itself reaches for stdlib
// fs.Glob (squashfs_test.go) rather than a third-party globbing library for the
// same single-path-component matching job.
func matchGlob(pattern, name string) bool {
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}
