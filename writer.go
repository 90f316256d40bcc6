package cpiofs

import (
	"bytes"
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Writer appends entries to a newc archive stream (spec.md §4.6). Grounded on the
// teacher's Writer/NewWriter/WriterOption shape (functional options over an
// io.Writer target, in-memory validation before emission), scaled down from
// squashfs's multi-table finalize pipeline to newc's streaming append-only one.
type Writer struct {
	w             io.Writer
	log           logrus.FieldLogger
	checksum      bool
	leaveSinkOpen bool

	offset int64
	closed bool
}

// NewWriter wraps w for entry-at-a-time writing. Close must be called to emit the
// TRAILER!!! record.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	wr := &Writer{w: w, log: defaultLogger()}
	for _, opt := range opts {
		if err := opt(wr); err != nil {
			return nil, err
		}
	}
	return wr, nil
}

func (wr *Writer) writeRaw(b []byte) error {
	n, err := wr.w.Write(b)
	wr.offset += int64(n)
	return err
}

func (wr *Writer) writePad() error {
	pad := align4(wr.offset)
	if pad == 0 {
		return nil
	}
	return wr.writeRaw(make([]byte, pad))
}

// AddEntry validates and emits one archive entry.
func (wr *Writer) AddEntry(e *CpioEntry) error {
	if wr.closed {
		return newStateError("Writer.AddEntry", ErrUseAfterClose)
	}
	if err := validateEntryForWrite(e); err != nil {
		return err
	}

	magic := MagicNewAscii
	if wr.checksum || e.Kind == NewAsciiChecksum {
		magic = MagicNewAsciiChecksum
	}

	nameBytes := append([]byte(e.Name), 0)
	var bodyBytes []byte
	var checksum uint32

	switch e.FileType {
	case TypeSymbolicLink:
		bodyBytes = []byte(e.LinkName)
	case TypeRegularFile:
		if e.Data != nil {
			var buf bytes.Buffer
			if _, err := e.Data.CopyTo(context.Background(), &buf); err != nil {
				return err
			}
			bodyBytes = buf.Bytes()
		}
		if magic == MagicNewAsciiChecksum {
			checksum = sumBytes(bodyBytes)
		}
	}

	h := &rawHeader{
		Magic:     magic,
		Ino:       e.InodeNumber,
		Mode:      ComposeMode(e.FileType, e.Mode),
		Uid:       e.Uid,
		Gid:       e.Gid,
		Nlink:     e.NLink,
		Mtime:     e.Mtime,
		Filesize:  uint32(len(bodyBytes)),
		DevMajor:  e.Dev.Major,
		DevMinor:  e.Dev.Minor,
		RdevMajor: e.Rdev.Major,
		RdevMinor: e.Rdev.Minor,
		Namesize:  uint32(len(nameBytes)),
		Check:     checksum,
	}

	if err := wr.writeRaw(formatRawHeader(h)); err != nil {
		return err
	}
	if err := wr.writeRaw(nameBytes); err != nil {
		return err
	}
	if err := wr.writePad(); err != nil {
		return err
	}
	if len(bodyBytes) > 0 {
		if err := wr.writeRaw(bodyBytes); err != nil {
			return err
		}
	}
	return wr.writePad()
}

// validateEntryForWrite applies spec.md §4.6's pre-emission checks.
func validateEntryForWrite(e *CpioEntry) error {
	if e.Name == "" {
		return newUsageError("Writer.AddEntry", ErrEmptyPath)
	}
	if err := ValidatePath(e.Name); err != nil {
		return err
	}
	if NormalizePath(e.Name) != e.Name {
		return newUsageError("Writer.AddEntry", ErrNotNormalized)
	}

	switch e.FileType {
	case TypeSymbolicLink:
		if e.LinkName == "" {
			return newUsageError("Writer.AddEntry", ErrEmptyTarget)
		}
		if e.NLink != 1 {
			return newUsageError("Writer.AddEntry", ErrInvalidKind)
		}
	case TypeDirectory:
		if e.NLink < 2 {
			return newUsageError("Writer.AddEntry", ErrInvalidKind)
		}
		if e.Data != nil {
			return newUsageError("Writer.AddEntry", ErrNonZeroSpecialBody)
		}
	case TypeRegularFile:
		if e.Length > 0 && e.Data == nil {
			return newUsageError("Writer.AddEntry", ErrInvalidKind)
		}
		if e.Length == 0 && e.Data != nil && e.Data.Len() > 0 {
			return newUsageError("Writer.AddEntry", ErrInvalidKind)
		}
		if e.Data != nil && e.Data.Len() >= 0 && e.Data.Len() != e.Length {
			return newUsageError("Writer.AddEntry", ErrInvalidKind)
		}
	default: // char/block device, named pipe, socket
		if e.NLink != 1 {
			return newUsageError("Writer.AddEntry", ErrInvalidKind)
		}
		if e.Data != nil {
			return newUsageError("Writer.AddEntry", ErrNonZeroSpecialBody)
		}
	}
	return nil
}

// Close emits the TRAILER!!! record and, unless LeaveWriterOpen was given, closes
// the underlying sink if it implements io.Closer.
func (wr *Writer) Close() error {
	if wr.closed {
		return nil
	}
	wr.closed = true
	if err := wr.writeTrailer(); err != nil {
		return err
	}
	if wr.leaveSinkOpen {
		return nil
	}
	if c, ok := wr.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (wr *Writer) writeTrailer() error {
	name := append([]byte(trailerName), 0)
	h := &rawHeader{Magic: MagicNewAscii, Nlink: 1, Namesize: uint32(len(name))}
	if err := wr.writeRaw(formatRawHeader(h)); err != nil {
		return err
	}
	if err := wr.writeRaw(name); err != nil {
		return err
	}
	return wr.writePad()
}
