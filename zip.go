// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// zipFlagEncrypted is the general purpose bit flag for encrypted entries.
const zipFlagEncrypted = 0x1

// zipCursor is a cursor over a zip archive. The relocation key of an entry
// is the offset of its data in the archive file.
type zipCursor struct {
	cfg *Config
	f   *os.File
	zr  *zip.Reader

	// pos is the index of the current entry in zr.File, -1 if unpositioned
	pos int

	// offsets holds the data offset per entry, index maps it back
	offsets []int64
	index   map[int64]int

	rc io.ReadCloser
}

// openZip opens the file at path and attaches a zip reader to it. The file
// is closed again if the reader cannot be attached.
func openZip(path string, cfg *Config) (cursor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ArchiveOpenError{Path: path, Err: err}
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &ArchiveOpenError{Path: path, Err: err}
	}
	zr, err := zip.NewReader(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, &ArchiveOpenError{Path: path, Err: err}
	}
	registerZipDecompressors(zr)

	cfg.Logger().Debug("opened zip archive", "path", path, "entries", len(zr.File))
	return &zipCursor{cfg: cfg, f: f, zr: zr, pos: -1}, nil
}

// First positions the cursor on the first entry.
func (z *zipCursor) First() error {
	if len(z.zr.File) == 0 {
		z.pos = -1
		return errEndOfList
	}
	z.pos = 0
	return nil
}

// Next moves the cursor to the next entry.
func (z *zipCursor) Next() error {
	if z.pos < 0 {
		return fmt.Errorf("cursor is not positioned")
	}
	z.pos++
	if z.pos >= len(z.zr.File) {
		z.pos = -1
		return errEndOfList
	}
	return nil
}

// Seek positions the cursor on the entry with the given data offset.
func (z *zipCursor) Seek(offset int64) error {
	if err := z.buildIndex(); err != nil {
		return err
	}
	i, ok := z.index[offset]
	if !ok {
		return fmt.Errorf("no entry at offset %d", offset)
	}
	z.pos = i
	return nil
}

// buildIndex reads the data offsets of all entries once.
func (z *zipCursor) buildIndex() error {
	if z.index != nil {
		return nil
	}
	offsets := make([]int64, len(z.zr.File))
	index := make(map[int64]int, len(z.zr.File))
	for i, f := range z.zr.File {
		off, err := f.DataOffset()
		if err != nil {
			return fmt.Errorf("cannot read local header of %s: %w", f.Name, err)
		}
		offsets[i] = off
		if _, dup := index[off]; !dup {
			index[off] = i
		}
	}
	z.offsets, z.index = offsets, index
	return nil
}

// current returns the entry under the cursor.
func (z *zipCursor) current() (*zip.File, error) {
	if z.pos < 0 || z.pos >= len(z.zr.File) {
		return nil, fmt.Errorf("cursor is not positioned")
	}
	return z.zr.File[z.pos], nil
}

// Header returns the metadata of the current entry.
func (z *zipCursor) Header() (rawEntry, error) {
	f, err := z.current()
	if err != nil {
		return rawEntry{}, err
	}
	name := f.Name
	if f.NonUTF8 {
		name = decodeName(name, z.cfg.NameEncoding())
	}
	return rawEntry{
		name:             name,
		encrypted:        f.Flags&zipFlagEncrypted != 0,
		compressedSize:   int64(f.CompressedSize64),
		uncompressedSize: int64(f.UncompressedSize64),
		modified:         f.Modified,
		crc32:            f.CRC32,
	}, nil
}

// IsDir reports if the current entry is a directory.
func (z *zipCursor) IsDir() bool {
	f, err := z.current()
	return err == nil && f.Mode().IsDir()
}

// IsSymlink reports if the current entry is a symlink.
func (z *zipCursor) IsSymlink() bool {
	f, err := z.current()
	return err == nil && f.Mode()&fs.ModeSymlink != 0
}

// Offset returns the data offset of the current entry.
func (z *zipCursor) Offset() (int64, error) {
	if _, err := z.current(); err != nil {
		return 0, err
	}
	if err := z.buildIndex(); err != nil {
		return 0, err
	}
	return z.offsets[z.pos], nil
}

// OpenEntry opens the decompressing stream of the current entry.
func (z *zipCursor) OpenEntry() error {
	f, err := z.current()
	if err != nil {
		return err
	}
	if z.rc != nil {
		return fmt.Errorf("entry stream already open")
	}
	if f.Flags&zipFlagEncrypted != 0 {
		return ErrEncryptedEntry
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	z.rc = rc
	return nil
}

// Read reads from the open entry stream.
func (z *zipCursor) Read(p []byte) (int, error) {
	if z.rc == nil {
		return 0, fmt.Errorf("no entry stream open")
	}
	return z.rc.Read(p)
}

// CloseEntry closes the open entry stream.
func (z *zipCursor) CloseEntry() error {
	if z.rc == nil {
		return nil
	}
	err := z.rc.Close()
	z.rc = nil
	return err
}

// Close closes an open entry stream and the archive file.
func (z *zipCursor) Close() error {
	return errors.Join(z.CloseEntry(), z.f.Close())
}
