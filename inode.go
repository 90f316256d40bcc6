package cpiofs

import (
	"sort"
	"time"
)

// Inode is the identity shared by every hard link to the same file (spec.md §3).
// Shape mirrors the teacher's writerInode field bag, generalized from a write-once
// staging tree to a mutable one, and kind-tagged the way CpioEntry is: exactly one
// of dir/content/target/device is meaningful for a given Kind.
type Inode struct {
	index uint32
	kind  Kind

	mode uint16 // 9-bit permission
	uid  uint32
	gid  uint32
	dev  DeviceNumber // containing-device id; informational only

	createdAt  time.Time
	changedAt  time.Time
	accessedAt time.Time
	modifiedAt time.Time

	nlink uint32

	dir     *directoryPayload // KindDirectory
	content Content           // KindRegularFile
	target  string            // KindSymbolicLink
	device  DeviceNumber      // KindCharDevice / KindBlockDevice
}

func (i *Inode) Index() uint32     { return i.index }
func (i *Inode) Kind() Kind        { return i.kind }
func (i *Inode) Mode() uint16      { return i.mode }
func (i *Inode) SetMode(m uint16)  { i.mode = m & 0o777; i.changedAt = time.Now() }
func (i *Inode) Uid() uint32       { return i.uid }
func (i *Inode) SetUid(u uint32)   { i.uid = u; i.changedAt = time.Now() }
func (i *Inode) Gid() uint32       { return i.gid }
func (i *Inode) SetGid(g uint32)   { i.gid = g; i.changedAt = time.Now() }
func (i *Inode) Dev() DeviceNumber { return i.dev }

func (i *Inode) NLink() uint32 { return i.nlink }

func (i *Inode) CreatedAt() time.Time  { return i.createdAt }
func (i *Inode) ChangedAt() time.Time  { return i.changedAt }
func (i *Inode) AccessedAt() time.Time { return i.accessedAt }
func (i *Inode) ModifiedAt() time.Time { return i.modifiedAt }

func (i *Inode) Touch(t time.Time) {
	i.accessedAt = t
}

// Target returns the symlink target. Panics if Kind() != KindSymbolicLink: like
// the teacher's direct kind-specific field access, this is a programmer error, not
// a recoverable one.
func (i *Inode) Target() string {
	if i.kind != KindSymbolicLink {
		panic("cpiofs: Target called on a non-symlink inode")
	}
	return i.target
}

// Device returns the inode's own (major, minor) pair. Panics for non-device
// inodes.
func (i *Inode) Device() DeviceNumber {
	if i.kind != KindCharDevice && i.kind != KindBlockDevice {
		panic("cpiofs: Device called on a non-device inode")
	}
	return i.device
}

// Content returns the regular file's content source. Panics for non-regular-file
// inodes.
func (i *Inode) Content() Content {
	if i.kind != KindRegularFile {
		panic("cpiofs: Content called on a non-regular-file inode")
	}
	return i.content
}

// SetContent replaces a regular file's content source. Panics for non-regular-file
// inodes.
func (i *Inode) SetContent(c Content) {
	if i.kind != KindRegularFile {
		panic("cpiofs: SetContent called on a non-regular-file inode")
	}
	i.content = c
	i.modifiedAt = time.Now()
	i.changedAt = i.modifiedAt
}

func newInode(index uint32, kind Kind) *Inode {
	now := time.Now()
	ino := &Inode{
		index:      index,
		kind:       kind,
		createdAt:  now,
		changedAt:  now,
		accessedAt: now,
		modifiedAt: now,
	}
	switch kind {
	case KindDirectory:
		ino.mode = 0o755
		ino.nlink = 2
		ino.dir = newDirectoryPayload()
	case KindRegularFile:
		ino.mode = 0o644
		ino.nlink = 1
	case KindSymbolicLink:
		ino.mode = 0o777
		ino.nlink = 1
	case KindCharDevice, KindBlockDevice:
		ino.mode = 0o600
		ino.nlink = 1
	}
	return ino
}

// directoryPayload is an ordered name->entry mapping (spec.md §3), always iterated
// in byte-wise sorted order (so there is nothing to maintain beyond the map
// itself; sort.Strings on the key set already gives spec.md §4.7's "name-sorted
// pre-order" directly).
type directoryPayload struct {
	byName map[string]*Entry
}

func newDirectoryPayload() *directoryPayload {
	return &directoryPayload{byName: make(map[string]*Entry)}
}

func (d *directoryPayload) get(name string) (*Entry, bool) {
	e, ok := d.byName[name]
	return e, ok
}

func (d *directoryPayload) put(name string, e *Entry) { d.byName[name] = e }

func (d *directoryPayload) remove(name string) { delete(d.byName, name) }

func (d *directoryPayload) len() int { return len(d.byName) }

// names returns the child names in byte-wise sorted order.
func (d *directoryPayload) names() []string {
	out := make([]string, 0, len(d.byName))
	for n := range d.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
