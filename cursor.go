// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

//go:generate mockgen -source=cursor.go -destination=mock_cursor_test.go -package=unarchive

import "errors"

// errEndOfList is returned by a cursor that moved past the last entry.
var errEndOfList = errors.New("end of entry list")

// cursor is the contract a format codec fulfills over one opened archive. A
// cursor is positioned on at most one entry and can have at most one entry
// stream open. It is not safe for concurrent use.
type cursor interface {
	// First positions the cursor on the first entry. It returns errEndOfList
	// for an archive without entries.
	First() error

	// Next advances the cursor. It returns errEndOfList after the last entry.
	Next() error

	// Seek positions the cursor on the entry with the given relocation key.
	Seek(offset int64) error

	// Header returns the metadata of the current entry. The fields isDir,
	// isSymlink and offset are filled by the caller.
	Header() (rawEntry, error)

	// IsDir reports if the current entry is a directory.
	IsDir() bool

	// IsSymlink reports if the current entry is a symbolic link.
	IsSymlink() bool

	// Offset returns the relocation key of the current entry.
	Offset() (int64, error)

	// OpenEntry opens the stream of the current entry for reading.
	OpenEntry() error

	// Read reads from the open entry stream. io.EOF ends the stream.
	Read(p []byte) (int, error)

	// CloseEntry closes the open entry stream.
	CloseEntry() error

	// Close releases the archive.
	Close() error
}

// openCursorFunc opens the archive at path and returns a cursor over it.
type openCursorFunc func(path string, cfg *Config) (cursor, error)

// backends are the cursor constructors per format.
var backends = map[Format]openCursorFunc{
	FormatZip:      openZip,
	FormatRar4:     openRar,
	FormatRar5:     openRar,
	FormatSevenZip: openSevenZip,
	FormatTar:      openTar,
}

