// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive_test

import (
	"archive/tar"
	"archive/zip"
	"context"
	"encoding/base64"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/hashicorp/go-unarchive"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// fixtureTime is the modification time of generated archive members
var fixtureTime = time.Date(2024, 9, 3, 15, 23, 16, 0, time.UTC)

// member describes one member of a generated archive
type member struct {
	name     string
	content  string
	dir      bool
	linkname string

	// zip only
	method    uint16
	nonUTF8   bool
	encrypted bool
}

// writeFile writes data to name inside a temporary directory and returns the path
func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// lazyCompressor defers creating the compressor until the first write.
// zip.Writer creates the compressor before writing the local file header, so
// a compressor that writes its stream header eagerly would land in front of
// the local file header.
func lazyCompressor(newWriter func(io.Writer) (io.WriteCloser, error)) zip.Compressor {
	return func(w io.Writer) (io.WriteCloser, error) {
		return &lazyWriter{w: w, newWriter: newWriter}, nil
	}
}

type lazyWriter struct {
	w         io.Writer
	newWriter func(io.Writer) (io.WriteCloser, error)
	wc        io.WriteCloser
}

func (l *lazyWriter) init() error {
	if l.wc != nil {
		return nil
	}
	wc, err := l.newWriter(l.w)
	if err != nil {
		return err
	}
	l.wc = wc
	return nil
}

func (l *lazyWriter) Write(p []byte) (int, error) {
	if err := l.init(); err != nil {
		return 0, err
	}
	return l.wc.Write(p)
}

func (l *lazyWriter) Close() error {
	if err := l.init(); err != nil {
		return err
	}
	return l.wc.Close()
}

// createZip creates a zip archive with the given members
func createZip(t *testing.T, members ...member) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(12, lazyCompressor(func(w io.Writer) (io.WriteCloser, error) {
		return bzip2.NewWriter(w, &bzip2.WriterConfig{})
	}))
	zw.RegisterCompressor(93, lazyCompressor(func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w)
	}))
	zw.RegisterCompressor(95, lazyCompressor(func(w io.Writer) (io.WriteCloser, error) {
		return xz.NewWriter(w)
	}))

	for _, m := range members {
		hdr := &zip.FileHeader{
			Name:     m.name,
			Method:   m.method,
			Modified: fixtureTime,
			NonUTF8:  m.nonUTF8,
		}
		switch {
		case m.dir:
			hdr.SetMode(fs.ModeDir | 0o755)
			hdr.Method = zip.Store
		case m.linkname != "":
			hdr.SetMode(fs.ModeSymlink | 0o777)
			m.content = m.linkname
		default:
			hdr.SetMode(0o644)
		}
		if m.encrypted {
			hdr.Flags |= 0x1
		}
		w, err := zw.CreateHeader(hdr)
		require.NoError(t, err)
		_, err = io.WriteString(w, m.content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

// createTar creates an uncompressed ustar archive with the given members
func createTar(t *testing.T, members ...member) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tar")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	tw := tar.NewWriter(f)
	for _, m := range members {
		hdr := &tar.Header{
			Name:    m.name,
			Mode:    0o644,
			ModTime: fixtureTime,
			Format:  tar.FormatUSTAR,
		}
		switch {
		case m.dir:
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
		case m.linkname != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = m.linkname
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(m.content))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Typeflag == tar.TypeReg {
			_, err := io.WriteString(tw, m.content)
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	return path
}

// rar5Fixture is a rar5 archive with the members dir/foo, file, link -> dir/foo and dir
const rar5Fixture = "UmFyIRoHAQAzkrXlCgEFBgAFAQGAgAADk1YoJQIDC50ABJ0ApIMClAgA9IAAAQdkaXIvZm9vCgMTQPjXZsjBSQhNaSAgNCBTZXAgMjAyNCAwODowMzo0NCBDRVNUCpQdu+oiAgMLnQAEnQCkgwI+z7uqgAABBGZpbGUKAxPEDddmxHsQDkRpICAzIFNlcCAyMDI0IDE1OjIzOjE2IENFU1QKe1xvKCwCAxcABAftwwIAAAAAgAABBGxpbmsKAxNM+NdmSCZHGAsFAQAHZGlyL2Zvb0A2hh0bAgMLAAEA7YMBgAABA2RpcgoDE0D412Z533kHHXdWUQMFBAA="

// createRar5 writes the rar5 fixture to disk
func createRar5(t *testing.T) string {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(rar5Fixture)
	require.NoError(t, err)
	return writeFile(t, "test.rar", data)
}

// rar4Fixture is a stored rar4 archive with the directory dir, the file
// dir/a.txt containing "hello rar4!\n" and the symlink link -> dir/a.txt
const rar4Fixture = "UmFyIRoHAM+QcwAADQAAAAAAAAB61HTggCMAAAAAAAAAAAADAAAAAOh6I1kdMAMA7UEAAGRpciPbdACAKQAMAAAADAAAAAO30FSv6HojWR0wCQCkgQAAZGlyL2EudHh0aGVsbG8gcmFyNCEK0Lt0AIAkAAkAAAAJAAAAA9AJ5qLoeiNZHTAEAP+hAABsaW5rZGlyL2EudHh0xD17AEAHAA=="

// createRar4 writes the rar4 fixture to disk
func createRar4(t *testing.T) string {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(rar4Fixture)
	require.NoError(t, err)
	return writeFile(t, "test4.rar", data)
}

// sevenZipFixture is a 7-zip archive with the directory test and the file
// test/data containing "Hello World!"
const sevenZipFixture = "377abcaf271c00049af18e7973000000000000002000000000000000a7e80f9801000b48656c6c6f20576f726c6421000000813307ae0fcef2b20c07c8437f41b1fafddb88b6d7636b8bd58a0e24a2f717a5f156e37f41fd00833298421d5d088c0cf987b30c0473663599e4d2f21cb69620038f10458109662135c3024189f42799abe3227b174a853e824f808b2efaab000017061001096300070b01000123030101055d001000000c760a015bcfa0a70000"

// createSevenZip writes the 7-zip fixture to disk
func createSevenZip(t *testing.T) string {
	t.Helper()
	data, err := hex.DecodeString(sevenZipFixture)
	require.NoError(t, err)
	return writeFile(t, "test.7z", data)
}

// openArchive opens path and closes the unarchiver at the end of the test
func openArchive(t *testing.T, path string, opts ...unarchive.ConfigOption) *unarchive.Unarchiver {
	t.Helper()
	u, err := unarchive.Open(context.Background(), path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { u.Close() })
	return u
}

// entryByPath looks up the entry with the given path
func entryByPath(t *testing.T, entries []unarchive.Entry, path string) unarchive.Entry {
	t.Helper()
	for _, e := range entries {
		if e.Path == path {
			return e
		}
	}
	require.FailNow(t, "entry not listed", path)
	return unarchive.Entry{}
}
