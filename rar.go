// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/nwaples/rardecode"
)

// errRarShortFile is the message rardecode returns when an entry yields fewer
// bytes than its header declares, which includes every rar5 symlink. The
// error value is not exported.
const errRarShortFile = "rardecode: decoded file too short"

// rarCursor is a cursor over a rar archive. Rar archives can only be read
// front to back, so the relocation key is the ordinal of the entry and
// positioning before the current entry reopens the archive.
type rarCursor struct {
	path     string
	password string
	cfg      *Config

	rc  *rardecode.ReadCloser
	hdr *rardecode.FileHeader

	// pos is the ordinal of hdr, -1 if the reader did not return a header yet
	pos  int64
	open bool
}

// openRar opens the rar archive at path.
func openRar(path string, cfg *Config) (cursor, error) {
	rc, err := rardecode.OpenReader(path, cfg.Password())
	if err != nil {
		return nil, &ArchiveOpenError{Path: path, Err: err}
	}
	cfg.Logger().Debug("opened rar archive", "path", path)
	return &rarCursor{path: path, password: cfg.Password(), cfg: cfg, rc: rc, pos: -1}, nil
}

// First positions the cursor on the first entry, reopening the archive if
// the reader already advanced.
func (r *rarCursor) First() error {
	if r.rc == nil || r.pos >= 0 {
		if err := r.reopen(); err != nil {
			return err
		}
	}
	return r.Next()
}

// reopen replaces the reader with a fresh one positioned before the first entry.
func (r *rarCursor) reopen() error {
	if r.rc != nil {
		r.rc.Close()
		r.rc = nil
	}
	r.hdr, r.pos, r.open = nil, -1, false
	rc, err := rardecode.OpenReader(r.path, r.password)
	if err != nil {
		return fmt.Errorf("cannot reopen rar archive: %w", err)
	}
	r.rc = rc
	return nil
}

// Next moves the cursor to the next entry.
func (r *rarCursor) Next() error {
	if r.rc == nil {
		return fmt.Errorf("rar archive is not open")
	}
	r.open = false
	hdr, err := r.rc.Next()
	if errors.Is(err, io.EOF) {
		r.hdr = nil
		return errEndOfList
	}
	if err != nil {
		r.hdr = nil
		return err
	}
	r.hdr = hdr
	r.pos++
	return nil
}

// Seek walks to the entry with the given ordinal.
func (r *rarCursor) Seek(ordinal int64) error {
	if ordinal < 0 {
		return fmt.Errorf("invalid entry ordinal %d", ordinal)
	}
	if r.hdr == nil || ordinal < r.pos {
		if err := r.First(); err != nil {
			return err
		}
	}
	for r.pos < ordinal {
		if err := r.Next(); err != nil {
			if errors.Is(err, errEndOfList) {
				return fmt.Errorf("no entry with ordinal %d", ordinal)
			}
			return err
		}
	}
	return nil
}

// Header returns the metadata of the current entry.
func (r *rarCursor) Header() (rawEntry, error) {
	if r.hdr == nil {
		return rawEntry{}, fmt.Errorf("cursor is not positioned")
	}
	return rawEntry{
		name:             r.hdr.Name,
		compressedSize:   r.hdr.PackedSize,
		uncompressedSize: r.hdr.UnPackedSize,
		created:          r.hdr.CreationTime,
		modified:         r.hdr.ModificationTime,
		accessed:         r.hdr.AccessTime,
	}, nil
}

// IsDir reports if the current entry is a directory.
func (r *rarCursor) IsDir() bool {
	return r.hdr != nil && r.hdr.IsDir
}

// IsSymlink reports if the current entry is a symlink.
func (r *rarCursor) IsSymlink() bool {
	return r.hdr != nil && r.hdr.Mode()&fs.ModeSymlink != 0
}

// Offset returns the ordinal of the current entry.
func (r *rarCursor) Offset() (int64, error) {
	if r.hdr == nil {
		return 0, fmt.Errorf("cursor is not positioned")
	}
	return r.pos, nil
}

// OpenEntry marks the data of the current entry as readable.
func (r *rarCursor) OpenEntry() error {
	if r.hdr == nil {
		return fmt.Errorf("cursor is not positioned")
	}
	if r.open {
		return fmt.Errorf("entry stream already open")
	}
	r.open = true
	return nil
}

// Read reads the data of the current entry.
func (r *rarCursor) Read(p []byte) (int, error) {
	if !r.open {
		return 0, fmt.Errorf("no entry stream open")
	}
	n, err := r.rc.Read(p)
	if err != nil && err.Error() == errRarShortFile {
		return n, io.EOF
	}
	return n, err
}

// CloseEntry ends reading the current entry. Unread data is skipped by the
// next call to Next.
func (r *rarCursor) CloseEntry() error {
	r.open = false
	return nil
}

// Close releases the archive.
func (r *rarCursor) Close() error {
	r.open = false
	if r.rc == nil {
		return nil
	}
	err := r.rc.Close()
	r.rc = nil
	return err
}
