// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"bytes"
	"fmt"
	"strings"
)

// Format is the container format of an archive. The zero value is FormatUnknown.
type Format int

const (
	// FormatUnknown is returned if no signature matched.
	FormatUnknown Format = iota

	// FormatZip is a zip archive.
	FormatZip

	// FormatRar4 is a rar archive with the RAR 1.5 - 4.x signature.
	FormatRar4

	// FormatRar5 is a rar archive with the RAR 5.0 signature.
	FormatRar5

	// FormatSevenZip is a 7-zip archive.
	FormatSevenZip

	// FormatTar is a POSIX ustar archive.
	FormatTar
)

// String returns the short name of the format.
func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatRar4:
		return "rar4"
	case FormatRar5:
		return "rar5"
	case FormatSevenZip:
		return "7z"
	case FormatTar:
		return "tar"
	default:
		return "unknown"
	}
}

// headerSize is the number of bytes read from an archive to detect its format.
const headerSize = 512

// offsetTar is the offset where the magic bytes are located in a tar header
const offsetTar = 257

// signature maps magic bytes at an offset to a format.
type signature struct {
	Format     Format
	MagicBytes [][]byte
	Offset     int
}

// signatures is evaluated in order, the first match wins.
var signatures = []signature{
	{
		Format: FormatZip,
		MagicBytes: [][]byte{
			{0x50, 0x4B, 0x03, 0x04}, // local file header
			{0x50, 0x4B, 0x05, 0x06}, // end of central directory (empty archive)
			{0x50, 0x4B, 0x07, 0x08}, // data descriptor (spanned marker)
		},
	},
	{
		Format:     FormatRar4,
		MagicBytes: [][]byte{{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00}},
	},
	{
		Format:     FormatRar5,
		MagicBytes: [][]byte{{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}},
	},
	{
		Format:     FormatSevenZip,
		MagicBytes: [][]byte{{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}},
	},
	{
		Format:     FormatTar,
		MagicBytes: [][]byte{[]byte("ustar\x00")},
		Offset:     offsetTar,
	},
}

// DetectFormat classifies header, the first bytes of an archive, into a
// [Format]. The second return value is false if no signature matched.
// Headers that are too short for a signature never match it.
func DetectFormat(header []byte) (Format, bool) {
	for _, s := range signatures {
		if matchesMagicBytes(header, s.Offset, s.MagicBytes) {
			return s.Format, true
		}
	}
	return FormatUnknown, false
}

// matchesMagicBytes checks if the bytes in data are equal to any of the magicBytes at the given offset.
func matchesMagicBytes(data []byte, offset int, magicBytes [][]byte) bool {
	for _, mb := range magicBytes {
		// check if header is long enough
		if offset+len(mb) > len(data) {
			continue
		}

		if bytes.Equal(mb, data[offset:offset+len(mb)]) {
			return true
		}
	}
	return false
}

// ParseFormat returns the [Format] with the given short name as returned by
// [Format.String].
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "zip":
		return FormatZip, nil
	case "rar4":
		return FormatRar4, nil
	case "rar5":
		return FormatRar5, nil
	case "7z", "7zip":
		return FormatSevenZip, nil
	case "tar":
		return FormatTar, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}
