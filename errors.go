// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"errors"
	"fmt"
)

var (
	// ErrFileAccessFailed is returned if the archive file cannot be opened or
	// its header cannot be read. The concrete error is a [*FileAccessError].
	ErrFileAccessFailed = errors.New("file access failed")

	// ErrUnsupportedFormat is returned if no signature matched the archive
	// header or the detected format is not enabled.
	ErrUnsupportedFormat = errors.New("unsupported archive format")

	// ErrArchiveOpenFailed is returned if the codec rejected the archive. The
	// concrete error is a [*ArchiveOpenError].
	ErrArchiveOpenFailed = errors.New("archive open failed")

	// ErrArchiveIterationFailed is returned if listing the entries did not
	// reach the end of the archive.
	ErrArchiveIterationFailed = errors.New("archive iteration failed")

	// ErrInvalidEntryContext is returned if an [Entry] is extracted from an
	// archive of a different format than the one it was listed from.
	ErrInvalidEntryContext = errors.New("entry does not belong to this archive format")

	// ErrEntryNotFound is returned if the archive cannot be positioned at the entry.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrExtractFailed is returned if an entry cannot be opened or read. The
	// concrete error is a [*ExtractError].
	ErrExtractFailed = errors.New("extract failed")

	// ErrEncryptedEntry is returned if an entry is encrypted and the codec
	// cannot decrypt it.
	ErrEncryptedEntry = errors.New("entry is encrypted")

	// ErrClosed is returned by operations on a closed [Unarchiver].
	ErrClosed = errors.New("unarchiver is closed")

	// ErrMaxFilesExceeded indicates that the maximum number of entries is exceeded.
	ErrMaxFilesExceeded = errors.New("maximum entries exceeded")

	// ErrMaxExtractionSizeExceeded indicates that an extraction would exceed the maximum size.
	ErrMaxExtractionSizeExceeded = errors.New("maximum extraction size exceeded")

	// ErrMaxInputSizeExceeded indicates that the archive is larger than the maximum input size.
	ErrMaxInputSizeExceeded = errors.New("maximum input size exceeded")
)

// FileAccessError wraps a filesystem error that occurred while opening an
// archive or reading its header.
type FileAccessError struct {
	Err error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s: %v", ErrFileAccessFailed, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// Is reports whether target is [ErrFileAccessFailed].
func (e *FileAccessError) Is(target error) bool {
	return target == ErrFileAccessFailed
}

// ArchiveOpenError is returned if the codec cannot attach to the archive at Path.
type ArchiveOpenError struct {
	Path string
	Err  error
}

func (e *ArchiveOpenError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrArchiveOpenFailed, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", ErrArchiveOpenFailed, e.Path, e.Err)
}

func (e *ArchiveOpenError) Unwrap() error {
	return e.Err
}

// Is reports whether target is [ErrArchiveOpenFailed].
func (e *ArchiveOpenError) Is(target error) bool {
	return target == ErrArchiveOpenFailed
}

// ExtractError is returned if the entry at Path cannot be opened or read.
type ExtractError struct {
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrExtractFailed, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", ErrExtractFailed, e.Path, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Is reports whether target is [ErrExtractFailed].
func (e *ExtractError) Is(target error) bool {
	return target == ErrExtractFailed
}
