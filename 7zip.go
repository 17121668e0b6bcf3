// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/bodgit/sevenzip"
)

// sevenZipCursor is a cursor over a 7-zip archive. The relocation key of an
// entry is its ordinal, since several entries share one compressed stream.
type sevenZipCursor struct {
	rc  *sevenzip.ReadCloser
	pos int
	r   io.ReadCloser
}

// openSevenZip opens the 7-zip archive at path.
func openSevenZip(path string, cfg *Config) (cursor, error) {
	rc, err := sevenzip.OpenReaderWithPassword(path, cfg.Password())
	if err != nil {
		return nil, &ArchiveOpenError{Path: path, Err: err}
	}
	cfg.Logger().Debug("opened 7zip archive", "path", path, "entries", len(rc.File))
	return &sevenZipCursor{rc: rc, pos: -1}, nil
}

// First positions the cursor on the first entry.
func (s *sevenZipCursor) First() error {
	if len(s.rc.File) == 0 {
		s.pos = -1
		return errEndOfList
	}
	s.pos = 0
	return nil
}

// Next moves the cursor to the next entry.
func (s *sevenZipCursor) Next() error {
	if s.pos < 0 {
		return fmt.Errorf("cursor is not positioned")
	}
	s.pos++
	if s.pos >= len(s.rc.File) {
		s.pos = -1
		return errEndOfList
	}
	return nil
}

// Seek positions the cursor on the entry with the given ordinal.
func (s *sevenZipCursor) Seek(ordinal int64) error {
	if ordinal < 0 || ordinal >= int64(len(s.rc.File)) {
		return fmt.Errorf("no entry with ordinal %d", ordinal)
	}
	s.pos = int(ordinal)
	return nil
}

// current returns the entry under the cursor.
func (s *sevenZipCursor) current() (*sevenzip.File, error) {
	if s.pos < 0 || s.pos >= len(s.rc.File) {
		return nil, fmt.Errorf("cursor is not positioned")
	}
	return s.rc.File[s.pos], nil
}

// Header returns the metadata of the current entry.
func (s *sevenZipCursor) Header() (rawEntry, error) {
	f, err := s.current()
	if err != nil {
		return rawEntry{}, err
	}
	return rawEntry{
		name:             f.Name,
		uncompressedSize: int64(f.UncompressedSize),
		created:          f.Created,
		modified:         f.Modified,
		accessed:         f.Accessed,
		crc32:            f.CRC32,
	}, nil
}

// IsDir reports if the current entry is a directory.
func (s *sevenZipCursor) IsDir() bool {
	f, err := s.current()
	return err == nil && f.FileInfo().IsDir()
}

// IsSymlink reports if the current entry is a symlink.
func (s *sevenZipCursor) IsSymlink() bool {
	f, err := s.current()
	return err == nil && f.FileInfo().Mode()&fs.ModeSymlink != 0
}

// Offset returns the ordinal of the current entry.
func (s *sevenZipCursor) Offset() (int64, error) {
	if _, err := s.current(); err != nil {
		return 0, err
	}
	return int64(s.pos), nil
}

// OpenEntry opens the decompressing stream of the current entry.
func (s *sevenZipCursor) OpenEntry() error {
	f, err := s.current()
	if err != nil {
		return err
	}
	if s.r != nil {
		return fmt.Errorf("entry stream already open")
	}
	r, err := f.Open()
	if err != nil {
		return err
	}
	s.r = r
	return nil
}

// Read reads from the open entry stream.
func (s *sevenZipCursor) Read(p []byte) (int, error) {
	if s.r == nil {
		return 0, fmt.Errorf("no entry stream open")
	}
	return s.r.Read(p)
}

// CloseEntry closes the open entry stream.
func (s *sevenZipCursor) CloseEntry() error {
	if s.r == nil {
		return nil
	}
	err := s.r.Close()
	s.r = nil
	return err
}

// Close closes an open entry stream and the archive.
func (s *sevenZipCursor) Close() error {
	return errors.Join(s.CloseEntry(), s.rc.Close())
}
