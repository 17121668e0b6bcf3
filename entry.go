// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import "time"

// EntryKind is the kind of an archive member.
type EntryKind int

const (
	// KindFile is a regular file.
	KindFile EntryKind = iota

	// KindDirectory is a directory.
	KindDirectory

	// KindSymlink is a symbolic link.
	KindSymlink
)

// String returns the name of the kind.
func (k EntryKind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "file"
	}
}

// Entry describes one member of an archive. Entries are returned by
// [Unarchiver.Entries] and are only valid for extraction with an [Unarchiver]
// of the same [Format]. Entry values are comparable.
type Entry struct {
	// Path is the name of the member inside the archive, using '/' as separator.
	Path string

	// Kind is the kind of the member.
	Kind EntryKind

	// UncompressedSize is the size of the member after decompression as
	// declared by the archive.
	UncompressedSize int64

	// CompressedSize is the size of the member inside the archive. Formats
	// that compress several members into one stream report 0.
	CompressedSize int64

	// ModTime is the modification time of the member.
	ModTime time.Time

	raw rawEntry
}

// Format returns the format of the archive the entry was listed from.
func (e Entry) Format() Format {
	return e.raw.format
}

// newEntry maps the format specific raw entry to an [Entry]. Directories
// take precedence over symlinks.
func newEntry(raw rawEntry) Entry {
	kind := KindFile
	switch {
	case raw.isDir:
		kind = KindDirectory
	case raw.isSymlink:
		kind = KindSymlink
	}
	return Entry{
		Path:             raw.name,
		Kind:             kind,
		UncompressedSize: raw.uncompressedSize,
		CompressedSize:   raw.compressedSize,
		ModTime:          raw.modified,
		raw:              raw,
	}
}

// rawEntry is the record a backend needs to relocate and read a member.
// The format field tags the variant; the remaining fields are filled as far
// as the format provides them.
type rawEntry struct {
	format Format

	name             string
	linkname         string
	isDir            bool
	isSymlink        bool
	encrypted        bool
	compressedSize   int64
	uncompressedSize int64
	created          time.Time
	modified         time.Time
	accessed         time.Time
	crc32            uint32

	// offset is the relocation key of the member: a byte offset for zip and
	// tar, the ordinal position for rar and 7z.
	offset int64
}

// Info summarizes an archive.
type Info struct {
	// Format is the detected format.
	Format Format

	// EntryCount is the number of entries, including directories and symlinks.
	EntryCount int

	// TotalUncompressedSize is the sum of all declared uncompressed sizes.
	TotalUncompressedSize int64

	// TotalCompressedSize is the sum of all compressed sizes.
	TotalCompressedSize int64

	// IsEncrypted is true if at least one entry is encrypted.
	IsEncrypted bool
}
