package cpiofs

import (
	"io"

	"github.com/sirupsen/logrus"
)

type readerState int

const (
	stateStart readerState = iota
	stateBody
	stateDone
)

// Reader pulls entries one at a time from a newc archive stream (spec.md §4.5),
// grounded on dirReader's sequential header-then-payload read loop
// (readHeader/next/nextfull) and tableReader's buffer-then-serve model.
type Reader struct {
	r         io.Reader
	rs        seekableParent // non-nil iff r also implements io.Seeker
	log       logrus.FieldLogger
	leaveOpen bool

	offset int64 // bytes consumed from the stream so far
	state  readerState

	cur    *SequentialSubStream // outstanding body substream, non-seekable streams only
	curEnd int64                // archive offset where the current entry's body+padding ends, seekable streams only
}

// NewReader wraps r for sequential entry-at-a-time reading. If r also implements
// io.Seeker, regular-file bodies are exposed as SeekableSubStreams and the reader
// can skip an unconsumed body by repositioning instead of requiring the caller to
// drain it.
func NewReader(r io.Reader, opts ...ReaderOption) (*Reader, error) {
	rd := &Reader{r: r, log: defaultLogger()}
	if rs, ok := r.(seekableParent); ok {
		rd.rs = rs
	}
	for _, opt := range opts {
		if err := opt(rd); err != nil {
			return nil, err
		}
	}
	return rd, nil
}

// Offset reports how many bytes of the underlying stream have been consumed.
func (rd *Reader) Offset() int64 { return rd.offset }

func (rd *Reader) readFull(buf []byte) error {
	n, err := io.ReadFull(rd.r, buf)
	rd.offset += int64(n)
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return newDataError("Reader.Next", rd.offset, ErrTruncatedHeader)
		}
		return err
	}
	return nil
}

func (rd *Reader) skip(n int64) error {
	if n == 0 {
		return nil
	}
	buf := make([]byte, n)
	return rd.readFull(buf)
}

// Next advances to the next entry. It returns (nil, io.EOF) once the TRAILER!!!
// record has been consumed; every later call also returns (nil, io.EOF).
func (rd *Reader) Next() (*CpioEntry, error) {
	if rd.state == stateDone {
		return nil, io.EOF
	}
	if rd.state == stateBody {
		if err := rd.finishPreviousBody(); err != nil {
			return nil, err
		}
	}
	rd.state = stateStart

	headerOffset := rd.offset
	buf := make([]byte, HeaderSize)
	if err := rd.readFull(buf); err != nil {
		return nil, err
	}
	h, err := parseRawHeader(buf, headerOffset)
	if err != nil {
		return nil, err
	}
	if h.Namesize == 0 {
		return nil, newDataError("Reader.Next", rd.offset, ErrZeroNameSize)
	}
	nameBuf := make([]byte, h.Namesize)
	if err := rd.readFull(nameBuf); err != nil {
		return nil, err
	}
	if len(nameBuf) == 0 || nameBuf[len(nameBuf)-1] != 0 {
		return nil, newDataError("Reader.Next", rd.offset, ErrTruncatedName)
	}
	name := string(nameBuf[:len(nameBuf)-1])
	if err := rd.skip(align4(rd.offset)); err != nil {
		return nil, err
	}

	if name == trailerName {
		if h.Filesize != 0 {
			return nil, newDataError("Reader.Next", rd.offset, ErrTrailerHasBody)
		}
		rd.state = stateDone
		return nil, io.EOF
	}

	fileType := FileTypeFromMode(h.Mode)
	ent := &CpioEntry{
		Kind:        variantFromMagic(h.Magic),
		InodeNumber: h.Ino,
		FileType:    fileType,
		Mode:        PermFromMode(h.Mode),
		Uid:         h.Uid,
		Gid:         h.Gid,
		NLink:       h.Nlink,
		Mtime:       h.Mtime,
		Dev:         DeviceNumber{Major: h.DevMajor, Minor: h.DevMinor},
		Rdev:        DeviceNumber{Major: h.RdevMajor, Minor: h.RdevMinor},
		Checksum:    h.Check,
		Name:        name,
		Length:      int64(h.Filesize),
	}

	switch fileType {
	case TypeSymbolicLink:
		target := make([]byte, h.Filesize)
		if err := rd.readFull(target); err != nil {
			return nil, err
		}
		if err := rd.skip(align4(rd.offset)); err != nil {
			return nil, err
		}
		ent.LinkName = string(target)
	case TypeRegularFile:
		if err := rd.openBody(ent, int64(h.Filesize)); err != nil {
			return nil, err
		}
	default:
		if h.Filesize != 0 {
			return nil, newDataError("Reader.Next", rd.offset, ErrNonZeroSpecialBody)
		}
	}

	return ent, nil
}

func variantFromMagic(magic string) CpioVariant {
	if magic == MagicNewAsciiChecksum {
		return NewAsciiChecksum
	}
	return NewAscii
}

// finishPreviousBody enforces spec.md §4.5's residue rule: on a non-seekable
// stream, anything left in the previous entry's body beyond a few padding bytes
// means the caller never read it, which is a state error; a seekable stream is
// simply repositioned instead.
func (rd *Reader) finishPreviousBody() error {
	if rd.rs != nil {
		if _, err := rd.rs.Seek(rd.curEnd, io.SeekStart); err != nil {
			return err
		}
		rd.offset = rd.curEnd
		return nil
	}
	if rd.cur == nil {
		return nil
	}
	residue := rd.cur.Remaining()
	rd.offset += rd.cur.Len() - residue // account for bytes the caller read directly from Body
	if residue > 3 {
		return newStateError("Reader.Next", ErrBodyNotConsumed)
	}
	if residue > 0 {
		buf := make([]byte, residue)
		if err := rd.readFull(buf); err != nil {
			return err
		}
	}
	if err := rd.skip(align4(rd.offset)); err != nil {
		return err
	}
	rd.cur = nil
	return nil
}

func (rd *Reader) openBody(ent *CpioEntry, length int64) error {
	rd.state = stateBody
	if rd.rs != nil {
		start := rd.offset
		ent.Body = newSeekableSubStream(rd.rs, start, length)
		rd.curEnd = start + length + align4(start+length)
		return nil
	}
	sub := newSequentialSubStream(rd.r, length)
	rd.cur = sub
	ent.Body = sub
	return nil
}

// Close releases the underlying stream unless LeaveReaderOpen was given.
func (rd *Reader) Close() error {
	if rd.leaveOpen {
		return nil
	}
	if c, ok := rd.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
