// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"archive/zip"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// compression method ids from the zip application note, section 4.4.5
const (
	zipMethodBzip2 uint16 = 12
	zipMethodZstd  uint16 = 93
	zipMethodXz    uint16 = 95
)

// registerZipDecompressors adds the compression methods archive/zip does not
// know and replaces deflate with a faster implementation.
func registerZipDecompressors(zr *zip.Reader) {
	zr.RegisterDecompressor(zip.Deflate, decompressFlate)
	zr.RegisterDecompressor(zipMethodBzip2, decompressBzip2)
	zr.RegisterDecompressor(zipMethodZstd, decompressZstd)
	zr.RegisterDecompressor(zipMethodXz, decompressXz)
}

func decompressFlate(r io.Reader) io.ReadCloser {
	return flate.NewReader(r)
}

func decompressBzip2(r io.Reader) io.ReadCloser {
	br, err := bzip2.NewReader(r, &bzip2.ReaderConfig{})
	if err != nil {
		return &failedReader{err}
	}
	return br
}

func decompressZstd(r io.Reader) io.ReadCloser {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return &failedReader{err}
	}
	return zr.IOReadCloser()
}

func decompressXz(r io.Reader) io.ReadCloser {
	xr, err := xz.NewReader(r)
	if err != nil {
		return &failedReader{err}
	}
	return io.NopCloser(xr)
}

// failedReader reports the error of a decompressor that could not be created.
type failedReader struct {
	err error
}

func (f *failedReader) Read([]byte) (int, error) {
	return 0, f.err
}

func (f *failedReader) Close() error {
	return nil
}
