// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
)

// tarBlockSize is the size of a tar header and the alignment of entry data.
const tarBlockSize = 512

// tarCursor is a cursor over an uncompressed tar archive. The relocation key
// of an entry is the offset of its data in the archive file.
type tarCursor struct {
	f *os.File

	// tr reads headers from f. It is nil after a Seek until Next resumes.
	tr  *tar.Reader
	hdr *tar.Header
	pos int64

	// index maps data offsets to headers seen so far; complete is set once
	// the whole archive was walked
	index    map[int64]*tar.Header
	complete bool

	r *io.SectionReader
}

// openTar opens the tar archive at path and reads the first header to
// validate it. The file is closed again on failure.
func openTar(path string, cfg *Config) (cursor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ArchiveOpenError{Path: path, Err: err}
	}
	t := &tarCursor{f: f, pos: -1, index: map[int64]*tar.Header{}}
	if err := t.First(); err != nil && !errors.Is(err, errEndOfList) {
		f.Close()
		return nil, &ArchiveOpenError{Path: path, Err: err}
	}
	cfg.Logger().Debug("opened tar archive", "path", path)
	return t, nil
}

// First rewinds the archive and reads the first header.
func (t *tarCursor) First() error {
	if _, err := t.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	t.tr = tar.NewReader(t.f)
	return t.Next()
}

// Next reads the next header.
func (t *tarCursor) Next() error {
	if t.tr == nil {
		if t.hdr == nil {
			return fmt.Errorf("cursor is not positioned")
		}
		// resume behind the data of the entry the cursor jumped to
		if _, err := t.f.Seek(t.pos+paddedSize(t.hdr.Size), io.SeekStart); err != nil {
			return err
		}
		t.tr = tar.NewReader(t.f)
	}
	hdr, err := t.tr.Next()
	if errors.Is(err, io.EOF) {
		t.hdr, t.pos = nil, -1
		t.complete = true
		return errEndOfList
	}
	if err != nil {
		t.hdr, t.pos = nil, -1
		return err
	}
	off, err := t.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	t.hdr, t.pos = hdr, off
	t.index[off] = hdr
	return nil
}

// Seek jumps to the entry whose data starts at offset. Headers that were not
// seen yet are indexed by walking the rest of the archive once.
func (t *tarCursor) Seek(offset int64) error {
	hdr, ok := t.index[offset]
	if !ok && !t.complete {
		if err := t.indexAll(); err != nil {
			return err
		}
		hdr, ok = t.index[offset]
	}
	if !ok {
		return fmt.Errorf("no entry at offset %d", offset)
	}
	t.tr, t.hdr, t.pos = nil, hdr, offset
	return nil
}

// indexAll walks the whole archive.
func (t *tarCursor) indexAll() error {
	err := t.First()
	for err == nil {
		err = t.Next()
	}
	if !errors.Is(err, errEndOfList) {
		return err
	}
	return nil
}

// paddedSize rounds size up to the tar block size.
func paddedSize(size int64) int64 {
	return (size + tarBlockSize - 1) / tarBlockSize * tarBlockSize
}

// Header returns the metadata of the current entry.
func (t *tarCursor) Header() (rawEntry, error) {
	if t.hdr == nil {
		return rawEntry{}, fmt.Errorf("cursor is not positioned")
	}
	return rawEntry{
		name:             t.hdr.Name,
		linkname:         t.hdr.Linkname,
		compressedSize:   t.hdr.Size,
		uncompressedSize: t.hdr.Size,
		modified:         t.hdr.ModTime,
		accessed:         t.hdr.AccessTime,
	}, nil
}

// IsDir reports if the current entry is a directory.
func (t *tarCursor) IsDir() bool {
	return t.hdr != nil && t.hdr.Typeflag == tar.TypeDir
}

// IsSymlink reports if the current entry is a symlink.
func (t *tarCursor) IsSymlink() bool {
	return t.hdr != nil && t.hdr.Typeflag == tar.TypeSymlink
}

// Offset returns the data offset of the current entry.
func (t *tarCursor) Offset() (int64, error) {
	if t.hdr == nil {
		return 0, fmt.Errorf("cursor is not positioned")
	}
	return t.pos, nil
}

// OpenEntry opens a reader on the data of the current entry.
func (t *tarCursor) OpenEntry() error {
	if t.hdr == nil {
		return fmt.Errorf("cursor is not positioned")
	}
	if t.r != nil {
		return fmt.Errorf("entry stream already open")
	}
	if t.hdr.Typeflag == tar.TypeGNUSparse {
		return fmt.Errorf("sparse entries are not supported")
	}
	t.r = io.NewSectionReader(t.f, t.pos, t.hdr.Size)
	return nil
}

// Read reads from the open entry.
func (t *tarCursor) Read(p []byte) (int, error) {
	if t.r == nil {
		return 0, fmt.Errorf("no entry stream open")
	}
	return t.r.Read(p)
}

// CloseEntry closes the open entry.
func (t *tarCursor) CloseEntry() error {
	t.r = nil
	return nil
}

// Close closes the archive file.
func (t *tarCursor) Close() error {
	t.r = nil
	return t.f.Close()
}
