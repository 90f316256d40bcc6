package cpiofs

import "strings"

// Entry is a named placement of an Inode within a directory tree (spec.md §3). A
// single Inode may be referenced by several Entries (hard links); a deleted Entry
// is "detached": its fs reference is cleared. A moved Entry stays attached.
type Entry struct {
	name   string
	parent *Entry
	inode  *Inode
	fs     *Filesystem // nil once detached
}

func (e *Entry) Name() string   { return e.name }
func (e *Entry) Parent() *Entry { return e.parent }
func (e *Entry) Inode() *Inode  { return e.inode }
func (e *Entry) IsDir() bool    { return e.inode.kind == KindDirectory }

// Detached reports whether this entry has been removed from its filesystem (via
// Delete or as a collateral of an ancestor's deletion).
func (e *Entry) Detached() bool { return e.fs == nil }

// FullPath reconstructs the absolute path from the filesystem root to this entry.
// The root entry itself reports "/".
func (e *Entry) FullPath() string {
	if e.parent == nil {
		return "/"
	}
	var segs []string
	for cur := e; cur.parent != nil; cur = cur.parent {
		segs = append(segs, cur.name)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return "/" + strings.Join(segs, "/")
}
