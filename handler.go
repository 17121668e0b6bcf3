// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/semaphore"
)

// archiveHandler is the capability every format backend provides.
type archiveHandler interface {
	// Path returns the location of the archive.
	Path() string

	// Format returns the format the handler reads.
	Format() Format

	// Entries returns all entries of the archive in archive order.
	Entries(ctx context.Context) ([]rawEntry, error)

	// Extract returns the content of entry, at most limit bytes. A negative
	// limit returns the full entry.
	Extract(ctx context.Context, entry rawEntry, limit int64) ([]byte, error)

	// Close releases the archive.
	Close() error
}

// cursorHandler implements archiveHandler on top of a cursor. All access to
// the cursor is serialized by sem.
type cursorHandler struct {
	path   string
	format Format
	cfg    *Config

	sem     *semaphore.Weighted
	cur     cursor
	entries []rawEntry
	closed  bool
}

// newCursorHandler opens the archive at path with the backend for format.
func newCursorHandler(path string, format Format, cfg *Config) (*cursorHandler, error) {
	open, ok := backends[format]
	if !ok || !cfg.FormatEnabled(format) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	cur, err := open(path, cfg)
	if err != nil {
		return nil, err
	}
	return &cursorHandler{
		path:   path,
		format: format,
		cfg:    cfg,
		sem:    semaphore.NewWeighted(1),
		cur:    cur,
	}, nil
}

// Path returns the location of the archive.
func (h *cursorHandler) Path() string {
	return h.path
}

// Format returns the format of the archive.
func (h *cursorHandler) Format() Format {
	return h.format
}

// lock acquires exclusive access to the cursor or returns the ctx error.
func (h *cursorHandler) lock(ctx context.Context) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	if h.closed {
		h.sem.Release(1)
		return ErrClosed
	}
	return nil
}

func (h *cursorHandler) unlock() {
	h.sem.Release(1)
}

// Entries walks the archive from the first to the last entry.
func (h *cursorHandler) Entries(ctx context.Context) ([]rawEntry, error) {
	if err := h.lock(ctx); err != nil {
		return nil, err
	}
	defer h.unlock()

	if h.entries != nil {
		return h.entries, nil
	}

	entries, err := h.walk()
	if err != nil {
		return nil, err
	}
	if h.cfg.EntryCache() {
		h.entries = entries
	}
	return entries, nil
}

// walk collects all entries. The caller holds the lock.
func (h *cursorHandler) walk() ([]rawEntry, error) {
	entries := []rawEntry{}
	err := h.cur.First()
	for err == nil {
		var e rawEntry
		if e, err = h.cur.Header(); err != nil {
			return nil, fmt.Errorf("%w: cannot read entry header: %w", ErrArchiveIterationFailed, err)
		}
		e.format = h.format
		e.isDir = h.cur.IsDir()
		e.isSymlink = h.cur.IsSymlink()
		if e.offset, err = h.cur.Offset(); err != nil {
			return nil, fmt.Errorf("%w: cannot locate entry %s: %w", ErrArchiveIterationFailed, e.name, err)
		}
		entries = append(entries, e)
		if err := h.cfg.CheckMaxFiles(int64(len(entries))); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrArchiveIterationFailed, err)
		}
		err = h.cur.Next()
	}
	if !errors.Is(err, errEndOfList) {
		return nil, fmt.Errorf("%w: %w", ErrArchiveIterationFailed, err)
	}
	return entries, nil
}

// Extract positions the cursor on entry and reads up to limit bytes of it.
func (h *cursorHandler) Extract(ctx context.Context, entry rawEntry, limit int64) ([]byte, error) {
	if entry.format != h.format {
		return nil, ErrInvalidEntryContext
	}

	bytesToRead := entryReadSize(entry, limit)
	if err := h.cfg.CheckExtractionSize(bytesToRead); err != nil {
		return nil, &ExtractError{Path: entry.name, Err: err}
	}

	if err := h.lock(ctx); err != nil {
		return nil, err
	}
	defer h.unlock()

	if err := h.cur.First(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEntryNotFound, entry.name, err)
	}
	if err := h.cur.Seek(entry.offset); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEntryNotFound, entry.name, err)
	}
	if err := h.cur.OpenEntry(); err != nil {
		return nil, &ExtractError{Path: entry.name, Err: err}
	}
	defer func() {
		if err := h.cur.CloseEntry(); err != nil {
			h.cfg.Logger().Warn("cannot close entry", "path", entry.name, "error", err)
		}
	}()

	toEnd := limit < 0 || limit >= entry.uncompressedSize
	return readEntry(h.cur, entry.name, bytesToRead, h.cfg.BufferSize(), toEnd)
}

// maxPrealloc caps the capacity reserved up front for an extraction, the
// declared size of an entry is not trusted.
const maxPrealloc = 4 << 20

// readEntry reads bytesToRead bytes from r in chunks of bufferSize. The read
// stops early without error if the stream ends first, since the declared size
// of an entry may exceed what the codec yields. If toEnd is set and all of a
// non-empty entry was read, r is read once more so codecs can report checksum
// errors at the end of the stream.
func readEntry(r io.Reader, name string, bytesToRead int64, bufferSize int, toEnd bool) ([]byte, error) {
	data := make([]byte, 0, min(bytesToRead, maxPrealloc))
	buf := make([]byte, bufferSize)
	remaining := bytesToRead
	for remaining > 0 {
		toRead := int64(len(buf))
		if remaining < toRead {
			toRead = remaining
		}
		n, err := r.Read(buf[:toRead])
		if n > 0 {
			data = append(data, buf[:n]...)
			remaining -= int64(n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return data, nil
			}
			return nil, &ExtractError{Path: name, Err: err}
		}
		if n == 0 {
			return data, nil
		}
	}
	if toEnd && bytesToRead > 0 {
		if err := checkEndOfStream(r); err != nil {
			return nil, &ExtractError{Path: name, Err: err}
		}
	}
	return data, nil
}

// checkEndOfStream reads past the declared end of an entry. Surplus data is
// ignored.
func checkEndOfStream(r io.Reader) error {
	var b [1]byte
	_, err := r.Read(b[:])
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil
	}
	return err
}

// entryReadSize returns the number of bytes an extraction of entry with the
// given limit requests. A negative limit requests the declared size.
func entryReadSize(entry rawEntry, limit int64) int64 {
	size := max(entry.uncompressedSize, 0)
	if limit >= 0 {
		return min(size, limit)
	}
	return size
}

// Close waits for running operations and releases the archive. Close is idempotent.
func (h *cursorHandler) Close() error {
	if err := h.sem.Acquire(context.Background(), 1); err != nil {
		return err
	}
	defer h.sem.Release(1)
	if h.closed {
		return nil
	}
	h.closed = true
	h.entries = nil
	return h.cur.Close()
}
