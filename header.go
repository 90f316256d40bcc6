package cpiofs

import "fmt"

const (
	// HeaderSize is the fixed on-wire size of a newc header, before the name and
	// its padding.
	HeaderSize = 110

	MagicNewAscii         = "070701"
	MagicNewAsciiChecksum = "070702"

	trailerName = "TRAILER!!!"
)

// rawHeader is the 110-byte on-wire newc header: a 6-byte magic followed by 13
// 8-hex-digit fields, in spec.md §6's exact field order. Grounded on super.go's
// fixed-layout decode idiom, adapted from reflective binary.Read of typed struct
// fields to an explicit walk over 8-hex-digit groups (newc's layout is ASCII hex,
// not native binary, so the byte-for-byte field order is what carries over, not
// the reflection machinery).
type rawHeader struct {
	Magic     string
	Ino       uint32
	Mode      uint32
	Uid       uint32
	Gid       uint32
	Nlink     uint32
	Mtime     uint32
	Filesize  uint32
	DevMajor  uint32
	DevMinor  uint32
	RdevMajor uint32
	RdevMinor uint32
	Namesize  uint32
	Check     uint32
}

var hexFieldNames = [13]string{
	"ino", "mode", "uid", "gid", "nlink", "mtime", "filesize",
	"devmajor", "devminor", "rdevmajor", "rdevminor", "namesize", "check",
}

// parseRawHeader decodes a HeaderSize-byte buffer. offset is buf[0]'s position
// within the archive stream, reported on a DataError.
func parseRawHeader(buf []byte, offset int64) (*rawHeader, error) {
	if len(buf) != HeaderSize {
		return nil, newDataError("parseRawHeader", offset, ErrTruncatedHeader)
	}
	magic := string(buf[0:6])
	if magic != MagicNewAscii && magic != MagicNewAsciiChecksum {
		return nil, newDataError("parseRawHeader", offset, ErrBadMagic)
	}
	h := &rawHeader{Magic: magic}
	fields := [13]*uint32{
		&h.Ino, &h.Mode, &h.Uid, &h.Gid, &h.Nlink, &h.Mtime, &h.Filesize,
		&h.DevMajor, &h.DevMinor, &h.RdevMajor, &h.RdevMinor, &h.Namesize, &h.Check,
	}
	pos := 6
	for i, f := range fields {
		v, ok := ParseUint32Hex(buf[pos : pos+8])
		if !ok {
			return nil, newDataError("parseRawHeader", offset+int64(pos),
				fmt.Errorf("%w: field %s", ErrInvalidHexField, hexFieldNames[i]))
		}
		*f = v
		pos += 8
	}
	return h, nil
}

// formatRawHeader encodes h into a freshly allocated HeaderSize-byte buffer.
func formatRawHeader(h *rawHeader) []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:6], h.Magic)
	fields := [13]uint32{
		h.Ino, h.Mode, h.Uid, h.Gid, h.Nlink, h.Mtime, h.Filesize,
		h.DevMajor, h.DevMinor, h.RdevMajor, h.RdevMinor, h.Namesize, h.Check,
	}
	pos := 6
	for _, v := range fields {
		hx := FormatUint32Hex(v)
		copy(buf[pos:pos+8], hx[:])
		pos += 8
	}
	return buf
}

// align4 rounds n up to the next multiple of 4 and returns the number of padding
// bytes needed (0-3), per newc's 4-byte name/body alignment rule (spec.md §6).
func align4(n int64) int64 {
	return (4 - n%4) % 4
}

// sumBytes is the traditional cpio-newc checksum: the arithmetic sum of a body's
// unsigned bytes, modulo 2^32 (SPEC_FULL.md §11).
func sumBytes(b []byte) uint32 {
	var sum uint32
	for _, c := range b {
		sum += uint32(c)
	}
	return sum
}
