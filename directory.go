package cpiofs

// SearchOption controls how far EnumerateEntries descends.
type SearchOption int

const (
	// TopDirectoryOnly lists only the receiver's direct children.
	TopDirectoryOnly SearchOption = iota
	// AllDirectories recurses into every subdirectory.
	AllDirectories
)

// CopyMode selects how Copy treats the inodes it encounters (spec.md §4.7).
type CopyMode int

const (
	// CopySingle copies one non-directory entry: a regular file's content is
	// deep-cloned, a symlink or device entry shares the source's inode (a plain
	// hard link).
	CopySingle CopyMode = iota
	// CopyRecursive deep-clones an entire subtree: every inode, directory or
	// not, gets an independent copy. Hard-link groups inside the source
	// subtree are not preserved — each occurrence becomes its own inode.
	CopyRecursive
	// CopyRecursiveWithHardLinks clones the directory structure but hard-links
	// every non-directory leaf back to the corresponding entry in the source
	// subtree, rather than copying its content.
	CopyRecursiveWithHardLinks
	// CopyArchive deep-clones the subtree like CopyRecursive, but preserves
	// hard-link relationships *within* the copied subtree: two entries sharing
	// one inode in the source continue to share one (new) inode in the copy.
	CopyArchive
)

// resolveBase returns the starting entry for a path argument (the filesystem root
// for a rooted path, the receiver otherwise) plus its split segments.
func (e *Entry) resolveBase(path string) (*Entry, []string, error) {
	if e.fs == nil {
		return nil, nil, newStateError("resolveBase", ErrDetachedEntry)
	}
	if err := ValidatePath(path); err != nil {
		return nil, nil, err
	}
	base := e
	if IsRooted(path) {
		base = e.fs.root
	}
	segs, err := SplitPath(path)
	if err != nil {
		return nil, nil, err
	}
	return base, segs, nil
}

// TryGet resolves path relative to the receiver (or from the filesystem root, if
// path is rooted), returning (nil, nil) if any component along the way is
// missing. A non-directory intermediate component is a UsageError.
func (e *Entry) TryGet(path string) (*Entry, error) {
	if !e.IsDir() {
		return nil, newUsageError("TryGet", ErrNotADirectory)
	}
	base, segs, err := e.resolveBase(path)
	if err != nil {
		return nil, err
	}
	cur := base
	for _, seg := range segs {
		if !cur.IsDir() {
			return nil, newUsageError("TryGet", ErrNotADirectory)
		}
		next, ok := cur.inode.dir.get(seg)
		if !ok {
			return nil, nil
		}
		cur = next
	}
	return cur, nil
}

// Get is TryGet, but reports a missing path as a UsageError instead of (nil, nil).
func (e *Entry) Get(path string) (*Entry, error) {
	got, err := e.TryGet(path)
	if err != nil {
		return nil, err
	}
	if got == nil {
		return nil, newUsageError("Get", ErrNoSuchPath)
	}
	return got, nil
}

// resolveParent walks every segment of path but the last, optionally synthesizing
// missing intermediate directories (mkparents — SPEC_FULL.md §11), and returns
// (parent directory, leaf name).
func (e *Entry) resolveParent(path string, mkparents bool) (*Entry, string, error) {
	if !e.IsDir() {
		return nil, "", newUsageError("resolveParent", ErrNotADirectory)
	}
	base, segs, err := e.resolveBase(path)
	if err != nil {
		return nil, "", err
	}
	if len(segs) == 0 {
		return nil, "", newUsageError("resolveParent", ErrEmptyPath)
	}
	leaf := segs[len(segs)-1]
	cur := base
	for _, seg := range segs[:len(segs)-1] {
		if !cur.IsDir() {
			return nil, "", newUsageError("resolveParent", ErrNotADirectory)
		}
		next, ok := cur.inode.dir.get(seg)
		if !ok {
			if !mkparents {
				return nil, "", newUsageError("resolveParent", ErrNoSuchPath)
			}
			next = cur.createChildDirectory(seg)
		}
		cur = next
	}
	if !cur.IsDir() {
		return nil, "", newUsageError("resolveParent", ErrNotADirectory)
	}
	return cur, leaf, nil
}

// createChildDirectory creates and attaches a fresh, empty subdirectory named name
// under parent, without checking whether name already exists (callers that need
// that check do it themselves).
func (parent *Entry) createChildDirectory(name string) *Entry {
	child := &Entry{name: name, parent: parent, inode: newInode(parent.fs.allocIndex(), KindDirectory), fs: parent.fs}
	parent.inode.dir.put(name, child)
	parent.inode.nlink++
	return child
}

// CreateDirectory creates path as a new, empty directory.
func (e *Entry) CreateDirectory(path string, mkparents bool) (*Entry, error) {
	parent, leaf, err := e.resolveParent(path, mkparents)
	if err != nil {
		return nil, err
	}
	if _, exists := parent.inode.dir.get(leaf); exists {
		return nil, newUsageError("CreateDirectory", ErrAlreadyExists)
	}
	return parent.createChildDirectory(leaf), nil
}

// CreateFile creates path as a new regular file with the given content (nil is a
// valid, empty file).
func (e *Entry) CreateFile(path string, content Content, mkparents bool) (*Entry, error) {
	parent, leaf, err := e.resolveParent(path, mkparents)
	if err != nil {
		return nil, err
	}
	if _, exists := parent.inode.dir.get(leaf); exists {
		return nil, newUsageError("CreateFile", ErrAlreadyExists)
	}
	ino := newInode(parent.fs.allocIndex(), KindRegularFile)
	ino.content = content
	child := &Entry{name: leaf, parent: parent, inode: ino, fs: parent.fs}
	parent.inode.dir.put(leaf, child)
	return child, nil
}

// CreateSymbolicLink creates path as a new symbolic link pointing at target.
func (e *Entry) CreateSymbolicLink(path, target string, mkparents bool) (*Entry, error) {
	if target == "" {
		return nil, newUsageError("CreateSymbolicLink", ErrEmptyTarget)
	}
	parent, leaf, err := e.resolveParent(path, mkparents)
	if err != nil {
		return nil, err
	}
	if _, exists := parent.inode.dir.get(leaf); exists {
		return nil, newUsageError("CreateSymbolicLink", ErrAlreadyExists)
	}
	ino := newInode(parent.fs.allocIndex(), KindSymbolicLink)
	ino.target = target
	child := &Entry{name: leaf, parent: parent, inode: ino, fs: parent.fs}
	parent.inode.dir.put(leaf, child)
	return child, nil
}

// CreateDevice creates path as a new character or block device node.
func (e *Entry) CreateDevice(path string, kind Kind, dev DeviceNumber, mkparents bool) (*Entry, error) {
	if kind != KindCharDevice && kind != KindBlockDevice {
		return nil, newUsageError("CreateDevice", ErrInvalidKind)
	}
	parent, leaf, err := e.resolveParent(path, mkparents)
	if err != nil {
		return nil, err
	}
	if _, exists := parent.inode.dir.get(leaf); exists {
		return nil, newUsageError("CreateDevice", ErrAlreadyExists)
	}
	ino := newInode(parent.fs.allocIndex(), kind)
	ino.device = dev
	child := &Entry{name: leaf, parent: parent, inode: ino, fs: parent.fs}
	parent.inode.dir.put(leaf, child)
	return child, nil
}

// CreateHardLink attaches a second name to existing's inode. existing must not be
// a directory: this model, like most UNIX filesystems, gives every directory
// exactly one parent, so directories can't be hard-linked.
func (e *Entry) CreateHardLink(path string, existing *Entry, mkparents bool) (*Entry, error) {
	if existing == nil || existing.Detached() {
		return nil, newUsageError("CreateHardLink", ErrDetachedEntry)
	}
	if existing.IsDir() {
		return nil, newUsageError("CreateHardLink", ErrHardLinkToDirectory)
	}
	parent, leaf, err := e.resolveParent(path, mkparents)
	if err != nil {
		return nil, err
	}
	if _, exists := parent.inode.dir.get(leaf); exists {
		return nil, newUsageError("CreateHardLink", ErrAlreadyExists)
	}
	child := &Entry{name: leaf, parent: parent, inode: existing.inode, fs: parent.fs}
	parent.inode.dir.put(leaf, child)
	existing.inode.nlink++
	return child, nil
}

// Delete detaches the receiver (and, for a directory, its whole subtree) from the
// filesystem, decrementing nlink bookkeeping as it goes. Deleting the root is a
// UsageError.
func (e *Entry) Delete() error {
	if e.parent == nil {
		return newUsageError("Delete", ErrRootDeletion)
	}
	parent := e.parent
	parent.inode.dir.remove(e.name)
	if e.IsDir() {
		parent.inode.nlink--
	}
	e.detach()
	return nil
}

// detach decrements e's own inode nlink and, for directories, recursively detaches
// every child first, then clears e's own parent/filesystem references so it can
// no longer be used to navigate the tree.
func (e *Entry) detach() {
	if e.IsDir() {
		for _, name := range e.inode.dir.names() {
			child, _ := e.inode.dir.get(name)
			child.detach()
		}
	}
	e.inode.nlink--
	e.parent = nil
	e.fs = nil
}

// Move relocates the entry at src to dst, both resolved relative to the receiver
// (or the filesystem root, for a rooted path). If dst names an existing
// directory, src is placed inside it under its own name; if dst names an existing
// non-directory, overwrite controls whether it is replaced.
func (e *Entry) Move(src, dst string, mkparents, overwrite bool) (*Entry, error) {
	srcEntry, err := e.Get(src)
	if err != nil {
		return nil, err
	}
	if srcEntry.parent == nil {
		return nil, newUsageError("Move", ErrRootDeletion)
	}
	dstParent, leaf, err := e.resolveParent(dst, mkparents)
	if err != nil {
		return nil, err
	}
	if existing, ok := dstParent.inode.dir.get(leaf); ok {
		if existing.IsDir() {
			dstParent = existing
			leaf = srcEntry.name
			if _, clash := dstParent.inode.dir.get(leaf); clash {
				return nil, newUsageError("Move", ErrAlreadyExists)
			}
		} else {
			if !overwrite {
				return nil, newUsageError("Move", ErrAlreadyExists)
			}
			if err := existing.Delete(); err != nil {
				return nil, err
			}
		}
	}
	if dstParent == srcEntry.parent && leaf == srcEntry.name {
		return srcEntry, nil
	}

	oldParent := srcEntry.parent
	oldParent.inode.dir.remove(srcEntry.name)
	if srcEntry.IsDir() {
		oldParent.inode.nlink--
	}

	srcEntry.name = leaf
	srcEntry.parent = dstParent
	dstParent.inode.dir.put(leaf, srcEntry)
	if srcEntry.IsDir() {
		dstParent.inode.nlink++
	}
	return srcEntry, nil
}

// Copy duplicates the entry at src to dst according to mode, both paths resolved
// relative to the receiver (or the filesystem root, for a rooted path).
func (e *Entry) Copy(src, dst string, mode CopyMode, mkparents bool) (*Entry, error) {
	srcEntry, err := e.Get(src)
	if err != nil {
		return nil, err
	}
	dstParent, leaf, err := e.resolveParent(dst, mkparents)
	if err != nil {
		return nil, err
	}
	if _, exists := dstParent.inode.dir.get(leaf); exists {
		return nil, newUsageError("Copy", ErrAlreadyExists)
	}
	switch mode {
	case CopySingle:
		return dstParent.copySingle(srcEntry, leaf)
	case CopyRecursive:
		return dstParent.copyRecursive(srcEntry, leaf, nil)
	case CopyRecursiveWithHardLinks:
		return dstParent.copyHardlinkAll(srcEntry, leaf)
	case CopyArchive:
		return dstParent.copyRecursive(srcEntry, leaf, make(map[uint32]*Inode))
	default:
		return nil, newUsageError("Copy", ErrInvalidKind)
	}
}

func cloneInodeShallow(fsys *Filesystem, src *Inode) *Inode {
	ino := &Inode{
		index:      fsys.allocIndex(),
		kind:       src.kind,
		mode:       src.mode,
		uid:        src.uid,
		gid:        src.gid,
		dev:        src.dev,
		createdAt:  src.createdAt,
		changedAt:  src.changedAt,
		accessedAt: src.accessedAt,
		modifiedAt: src.modifiedAt,
	}
	switch src.kind {
	case KindRegularFile:
		ino.content = cloneContent(src.content)
	case KindSymbolicLink:
		ino.target = src.target
	case KindCharDevice, KindBlockDevice:
		ino.device = src.device
	}
	return ino
}

func (dstParent *Entry) copySingle(src *Entry, name string) (*Entry, error) {
	if src.IsDir() {
		return nil, newUsageError("Copy", ErrWrongKindForSingleCopy)
	}
	switch src.inode.kind {
	case KindRegularFile:
		ino := cloneInodeShallow(dstParent.fs, src.inode)
		ino.nlink = 1
		child := &Entry{name: name, parent: dstParent, inode: ino, fs: dstParent.fs}
		dstParent.inode.dir.put(name, child)
		return child, nil
	default: // symlink, char/block device: share the inode (plain hard link)
		child := &Entry{name: name, parent: dstParent, inode: src.inode, fs: dstParent.fs}
		dstParent.inode.dir.put(name, child)
		src.inode.nlink++
		return child, nil
	}
}

// copyRecursive deep-clones src into dstParent under name. When hardlinkMap is
// non-nil (CopyArchive mode), a non-directory inode already cloned once during
// this call is hard-linked to its clone instead of cloned again, preserving
// intra-subtree hard-link groups; directories are never consulted against the map
// since each is uniquely owned by one parent already.
func (dstParent *Entry) copyRecursive(src *Entry, name string, hardlinkMap map[uint32]*Inode) (*Entry, error) {
	if src.IsDir() {
		dirIno := cloneInodeShallow(dstParent.fs, src.inode)
		dirIno.dir = newDirectoryPayload()
		dirIno.nlink = 2
		child := &Entry{name: name, parent: dstParent, inode: dirIno, fs: dstParent.fs}
		dstParent.inode.dir.put(name, child)
		dstParent.inode.nlink++
		for _, childName := range src.inode.dir.names() {
			srcChild, _ := src.inode.dir.get(childName)
			if _, err := child.copyRecursive(srcChild, childName, hardlinkMap); err != nil {
				return nil, err
			}
		}
		return child, nil
	}

	var ino *Inode
	if hardlinkMap != nil {
		if existing, ok := hardlinkMap[src.inode.index]; ok {
			ino = existing
			ino.nlink++
		}
	}
	if ino == nil {
		ino = cloneInodeShallow(dstParent.fs, src.inode)
		ino.nlink = 1
		if hardlinkMap != nil {
			hardlinkMap[src.inode.index] = ino
		}
	}
	child := &Entry{name: name, parent: dstParent, inode: ino, fs: dstParent.fs}
	dstParent.inode.dir.put(name, child)
	return child, nil
}

// copyHardlinkAll clones the directory structure of src into dstParent under name,
// but every non-directory leaf shares its inode with the corresponding source
// entry (CopyRecursiveWithHardLinks).
func (dstParent *Entry) copyHardlinkAll(src *Entry, name string) (*Entry, error) {
	if src.IsDir() {
		dirIno := cloneInodeShallow(dstParent.fs, src.inode)
		dirIno.dir = newDirectoryPayload()
		dirIno.nlink = 2
		child := &Entry{name: name, parent: dstParent, inode: dirIno, fs: dstParent.fs}
		dstParent.inode.dir.put(name, child)
		dstParent.inode.nlink++
		for _, childName := range src.inode.dir.names() {
			srcChild, _ := src.inode.dir.get(childName)
			if _, err := child.copyHardlinkAll(srcChild, childName); err != nil {
				return nil, err
			}
		}
		return child, nil
	}
	child := &Entry{name: name, parent: dstParent, inode: src.inode, fs: dstParent.fs}
	dstParent.inode.dir.put(name, child)
	src.inode.nlink++
	return child, nil
}

// EnumerateEntries walks a snapshot of the receiver's subtree in pre-order,
// name-sorted order (spec.md §4.7), calling visit for each entry whose name
// matches pattern ("" matches everything). Returning false from visit stops the
// walk early. Each directory's children are snapshotted independently right
// before they're visited, so concurrent mutation elsewhere in the tree can't
// invalidate an enumeration already under way.
func (e *Entry) EnumerateEntries(opt SearchOption, pattern string, visit func(*Entry) bool) {
	if !e.IsDir() {
		return
	}
	names := e.inode.dir.names()
	for _, n := range names {
		child, ok := e.inode.dir.get(n)
		if !ok {
			continue // removed from the tree since the snapshot was taken
		}
		if pattern == "" || matchGlob(pattern, child.name) {
			if !visit(child) {
				return
			}
		}
		if child.IsDir() && opt == AllDirectories {
			cont := true
			child.EnumerateEntries(opt, pattern, func(sub *Entry) bool {
				cont = visit(sub)
				return cont
			})
			if !cont {
				return
			}
		}
	}
}
