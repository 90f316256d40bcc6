package cpiofs

import "time"

// CpioVariant selects which newc magic an entry is read from or written with.
type CpioVariant uint8

const (
	NewAscii CpioVariant = iota
	NewAsciiChecksum
)

// CpioEntry is the codec-facing record for one archive entry (spec.md §3):
// everything the reader produces and the writer consumes, independent of the
// in-memory filesystem tree. Shape mirrors the teacher's Inode struct — a plain,
// kind-tagged field bag — rather than a class hierarchy per file type.
type CpioEntry struct {
	Kind        CpioVariant
	InodeNumber uint32
	FileType    FileType
	Mode        uint16 // 9-bit permission
	Uid         uint32
	Gid         uint32
	NLink       uint32
	Mtime       uint32 // seconds since the UNIX epoch
	Length      int64
	Dev         DeviceNumber
	Rdev        DeviceNumber
	Checksum    uint32

	Name     string
	LinkName string // set iff FileType == TypeSymbolicLink

	// Data supplies a regular file's body when writing; nil for every other
	// file type and unused when reading.
	Data Content

	// Body exposes a regular file's data as a bounded sub-stream while reading;
	// nil for every other file type and unused when writing.
	Body SubStream
}

// ModTime converts Mtime to a time.Time in UTC.
func (e *CpioEntry) ModTime() time.Time { return time.Unix(int64(e.Mtime), 0).UTC() }
