package cpiofs

import "golang.org/x/sys/unix"

// Kind is the in-memory filesystem's notion of what an Inode is (spec.md §3). It is
// a strict subset of FileType: CPIO's named-pipe and socket types have no
// filesystem representation here.
type Kind uint8

const (
	KindDirectory Kind = iota
	KindRegularFile
	KindSymbolicLink
	KindCharDevice
	KindBlockDevice
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindRegularFile:
		return "regular file"
	case KindSymbolicLink:
		return "symbolic link"
	case KindCharDevice:
		return "character device"
	case KindBlockDevice:
		return "block device"
	default:
		return "unknown"
	}
}

// FileType is the CPIO archive file-type nibble: the high 4 bits of a newc mode
// word (spec.md §6), remapped here from squashfs's 14 on-disk Type values
// (type.go) down to the 7 type-nibble values newc actually defines.
type FileType uint16

const (
	TypeNamedPipe    FileType = 0x1
	TypeCharDevice   FileType = 0x2
	TypeDirectory    FileType = 0x4
	TypeBlockDevice  FileType = 0x6
	TypeRegularFile  FileType = 0x8
	TypeSymbolicLink FileType = 0xA
	TypeSocket       FileType = 0xC
)

func (t FileType) String() string {
	switch t {
	case TypeNamedPipe:
		return "named pipe"
	case TypeCharDevice:
		return "character device"
	case TypeDirectory:
		return "directory"
	case TypeBlockDevice:
		return "block device"
	case TypeRegularFile:
		return "regular file"
	case TypeSymbolicLink:
		return "symbolic link"
	case TypeSocket:
		return "socket"
	default:
		return "unknown"
	}
}

// FileTypeFromMode extracts the type nibble from a raw newc mode word.
func FileTypeFromMode(mode uint32) FileType { return FileType((mode >> 12) & 0xF) }

// PermFromMode extracts the low 9 permission bits from a raw newc mode word.
func PermFromMode(mode uint32) uint16 { return uint16(mode & 0o777) }

// ComposeMode reassembles a raw newc mode word from a type nibble and permission
// bits.
func ComposeMode(t FileType, perm uint16) uint32 {
	return uint32(t)<<12 | uint32(perm&0o777)
}

// ToKind maps an archive FileType onto the in-memory Kind set. Socket and named
// pipe entries have no filesystem representation and report ok == false; callers
// (bridge.go) surface this as ErrUnsupportedFileType.
func (t FileType) ToKind() (Kind, bool) {
	switch t {
	case TypeDirectory:
		return KindDirectory, true
	case TypeRegularFile:
		return KindRegularFile, true
	case TypeSymbolicLink:
		return KindSymbolicLink, true
	case TypeCharDevice:
		return KindCharDevice, true
	case TypeBlockDevice:
		return KindBlockDevice, true
	default:
		return 0, false
	}
}

// FileType maps a Kind back onto its archive file-type nibble.
func (k Kind) FileType() FileType {
	switch k {
	case KindDirectory:
		return TypeDirectory
	case KindRegularFile:
		return TypeRegularFile
	case KindSymbolicLink:
		return TypeSymbolicLink
	case KindCharDevice:
		return TypeCharDevice
	case KindBlockDevice:
		return TypeBlockDevice
	default:
		return 0
	}
}

// DeviceNumber is a decoded UNIX (major, minor) device id, used for both a device
// inode's own identity and a device entry's dev/rdev archive fields.
type DeviceNumber struct {
	Major uint32
	Minor uint32
}

// DeviceFromRaw splits a combined UNIX device id into (major, minor), via
// golang.org/x/sys/unix's encoding (the same one the teacher's indirect
// dependency on x/sys targets Linux device-number layout with).
func DeviceFromRaw(dev uint64) DeviceNumber {
	return DeviceNumber{Major: uint32(unix.Major(dev)), Minor: uint32(unix.Minor(dev))}
}

// Raw recombines (major, minor) into a single UNIX device id.
func (d DeviceNumber) Raw() uint64 {
	return unix.Mkdev(d.Major, d.Minor)
}
