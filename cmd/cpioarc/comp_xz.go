//go:build xz

package main

import (
	"io"

	"github.com/ulikunitz/xz"
)

func init() {
	registerCodec(codecXZ, &codecHandler{
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			xr, err := xz.NewReader(r)
			if err != nil {
				return nil, err
			}
			return io.NopCloser(xr), nil
		},
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return xz.NewWriter(w)
		},
	})
}
