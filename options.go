package cpiofs

import "github.com/sirupsen/logrus"

// Option configures a Filesystem at construction, mirroring the teacher's
// `type Option func(sb *Superblock) error` shape.
type Option func(*Filesystem) error

// WithLogger overrides the filesystem's diagnostic logger (default:
// logrus.StandardLogger()).
func WithLogger(l logrus.FieldLogger) Option {
	return func(fsys *Filesystem) error {
		fsys.log = l
		return nil
	}
}

// WithFirstInodeIndex sets the first index the allocator hands out. Index 0 is
// always reserved for the root directory (spec.md §3), so n must be non-zero; the
// default is 1. Useful for embedding one filesystem's inode numbering inside a
// larger numbering space.
func WithFirstInodeIndex(n uint32) Option {
	return func(fsys *Filesystem) error {
		if n == 0 {
			return newUsageError("WithFirstInodeIndex", ErrInvalidFirstIndex)
		}
		fsys.nextIdx = n
		return nil
	}
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader) error

// WithReaderLogger overrides the reader's diagnostic logger.
func WithReaderLogger(l logrus.FieldLogger) ReaderOption {
	return func(r *Reader) error {
		r.log = l
		return nil
	}
}

// LeaveReaderOpen prevents Reader.Close from closing the underlying stream.
func LeaveReaderOpen() ReaderOption {
	return func(r *Reader) error {
		r.leaveOpen = true
		return nil
	}
}

// WriterOption configures a Writer.
type WriterOption func(*Writer) error

// WithWriterLogger overrides the writer's diagnostic logger.
func WithWriterLogger(l logrus.FieldLogger) WriterOption {
	return func(w *Writer) error {
		w.log = l
		return nil
	}
}

// WithChecksum makes the writer emit the "newc-with-checksum" (070702) variant,
// computing each regular file's checksum as the sum of its body's unsigned bytes
// modulo 2^32 (spec.md §3 names the field; SPEC_FULL.md §11 supplies the
// arithmetic, the traditional cpio "crc" newc convention).
func WithChecksum() WriterOption {
	return func(w *Writer) error {
		w.checksum = true
		return nil
	}
}

// LeaveWriterOpen prevents Writer.Close from closing the underlying sink.
func LeaveWriterOpen() WriterOption {
	return func(w *Writer) error {
		w.leaveSinkOpen = true
		return nil
	}
}
