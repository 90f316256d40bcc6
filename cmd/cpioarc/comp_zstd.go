//go:build zstd

package main

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

func init() {
	registerCodec(codecZstd, &codecHandler{
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			d, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return d.IOReadCloser(), nil
		},
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w)
		},
	})
}
