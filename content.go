package cpiofs

import (
	"context"
	"io"
)

// Content is the external collaborator spec.md §6 describes: the only thing the
// core ever does with a regular file's body is ask its length and stream it
// somewhere. Conversions between bytes, strings, and open file handles are a
// caller concern, deliberately out of scope (spec.md §1).
type Content interface {
	// Len returns the content length in bytes, or -1 if it isn't known up front.
	Len() int64
	// CopyTo streams the content to sink and returns the number of bytes written.
	CopyTo(ctx context.Context, sink io.Writer) (int64, error)
}

// BytesContent is an in-memory byte-slice content source.
type BytesContent []byte

func (b BytesContent) Len() int64 { return int64(len(b)) }

func (b BytesContent) CopyTo(_ context.Context, sink io.Writer) (int64, error) {
	n, err := sink.Write(b)
	return int64(n), err
}

// StringContent is a UTF-8 string content source.
type StringContent string

func (s StringContent) Len() int64 { return int64(len(s)) }

func (s StringContent) CopyTo(_ context.Context, sink io.Writer) (int64, error) {
	n, err := io.WriteString(sink, string(s))
	return int64(n), err
}

// StreamContent wraps an io.Reader of known or a-priori-unknown length. Cloning a
// StreamContent (Copy operations, spec.md §4.7) is shallow: the caller retains
// ownership of the underlying reader.
type StreamContent struct {
	R    io.Reader
	Size int64 // -1 if unknown
}

func (s StreamContent) Len() int64 { return s.Size }

func (s StreamContent) CopyTo(_ context.Context, sink io.Writer) (int64, error) {
	return io.Copy(sink, s.R)
}

// FuncContent defers producing a reader until CopyTo is actually called, for
// content that is expensive or impossible to open eagerly.
type FuncContent func(ctx context.Context) (io.Reader, int64, error)

func (f FuncContent) Len() int64 { return -1 }

func (f FuncContent) CopyTo(ctx context.Context, sink io.Writer) (int64, error) {
	r, _, err := f(ctx)
	if err != nil {
		return 0, err
	}
	return io.Copy(sink, r)
}

// cloneContent deep-copies byte/string buffers (cheap, small, and otherwise
// aliased mutable state) but shallow-copies streaming sources, matching spec.md
// §6's copy-semantics note.
func cloneContent(c Content) Content {
	switch v := c.(type) {
	case BytesContent:
		out := make([]byte, len(v))
		copy(out, v)
		return BytesContent(out)
	case StringContent:
		return v
	default:
		return v
	}
}
