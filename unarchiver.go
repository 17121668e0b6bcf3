// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"context"
	"os"
)

// Unarchiver reads one archive file. The format is detected once by [Open]
// and all operations use the same backend until [Unarchiver.Close] is called.
//
// An Unarchiver is safe for concurrent use. Operations on the same
// Unarchiver are executed one at a time, since the archive has a single
// read position. Separate Unarchivers are independent.
type Unarchiver struct {
	path    string
	format  Format
	cfg     *Config
	handler archiveHandler
}

// Open detects the format of the archive at path from its first 512 bytes and
// opens it with the matching backend.
//
// Errors of the file system are returned as [*FileAccessError]. Files without
// a known signature, and formats excluded by [WithFormats], result in
// [ErrUnsupportedFormat]. If the backend rejects the archive an
// [*ArchiveOpenError] is returned.
func Open(ctx context.Context, path string, opts ...ConfigOption) (*Unarchiver, error) {
	cfg := NewConfig(opts...)

	// prepare telemetry data collection and emit
	td := &TelemetryData{Operation: operationOpen}
	defer cfg.TelemetryHook()(ctx, td)
	defer captureDuration(td, now())

	if err := ctx.Err(); err != nil {
		return nil, handleError(cfg, td, "context error", err)
	}

	format, size, err := inspect(path, cfg)
	td.InputSize = size
	if err != nil {
		return nil, handleError(cfg, td, "cannot detect archive format", err)
	}
	td.Format = format.String()

	handler, err := newCursorHandler(path, format, cfg)
	if err != nil {
		return nil, handleError(cfg, td, "cannot open archive", err)
	}

	cfg.Logger().Info("opened archive", "path", path, "format", format.String())
	return &Unarchiver{
		path:    path,
		format:  format,
		cfg:     cfg,
		handler: handler,
	}, nil
}

// inspect reads the header of the file at path and detects its format. It
// returns the size of the file as well.
func inspect(path string, cfg *Config) (Format, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, 0, &FileAccessError{Err: err}
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return FormatUnknown, 0, &FileAccessError{Err: err}
	}
	if err := cfg.CheckInputSize(stat.Size()); err != nil {
		return FormatUnknown, stat.Size(), err
	}

	header, err := readHeader(f, headerSize)
	if err != nil {
		return FormatUnknown, stat.Size(), &FileAccessError{Err: err}
	}
	format, ok := DetectFormat(header)
	if !ok {
		return FormatUnknown, stat.Size(), ErrUnsupportedFormat
	}
	return format, stat.Size(), nil
}

// Path returns the location of the archive.
func (u *Unarchiver) Path() string {
	return u.handler.Path()
}

// Format returns the detected format of the archive.
func (u *Unarchiver) Format() Format {
	return u.format
}

// Entries returns all entries of the archive in the order they are stored.
// If the archive cannot be walked to its end, an error wrapping
// [ErrArchiveIterationFailed] is returned instead of a partial listing.
func (u *Unarchiver) Entries(ctx context.Context) ([]Entry, error) {
	// prepare telemetry data collection and emit
	td := &TelemetryData{Operation: operationEntries, Format: u.format.String()}
	defer u.cfg.TelemetryHook()(ctx, td)
	defer captureDuration(td, now())

	raws, err := u.handler.Entries(ctx)
	if err != nil {
		return nil, handleError(u.cfg, td, "cannot list entries", err)
	}

	entries := make([]Entry, 0, len(raws))
	for _, raw := range raws {
		entries = append(entries, newEntry(raw))
	}
	td.Entries = int64(len(entries))

	u.cfg.Logger().Debug("listed entries", "path", u.path, "entries", len(entries))
	return entries, nil
}

// Extract returns the full content of entry. The result is shorter than
// UncompressedSize if the archive holds less data than it declares.
func (u *Unarchiver) Extract(ctx context.Context, entry Entry) ([]byte, error) {
	return u.extract(ctx, entry, -1)
}

// ExtractPrefix returns at most the first n bytes of entry. A value of n
// below 1 returns an empty slice.
func (u *Unarchiver) ExtractPrefix(ctx context.Context, entry Entry, n int64) ([]byte, error) {
	return u.extract(ctx, entry, max(n, 0))
}

func (u *Unarchiver) extract(ctx context.Context, entry Entry, limit int64) ([]byte, error) {
	// prepare telemetry data collection and emit
	td := &TelemetryData{Operation: operationExtract, Format: u.format.String(), EntryPath: entry.Path}
	defer u.cfg.TelemetryHook()(ctx, td)
	defer captureDuration(td, now())

	data, err := u.handler.Extract(ctx, entry.raw, limit)
	if err != nil {
		return nil, handleError(u.cfg, td, "cannot extract entry", err)
	}
	td.ExtractedBytes = int64(len(data))
	td.Truncated = td.ExtractedBytes < entryReadSize(entry.raw, limit)
	if td.Truncated {
		u.cfg.Logger().Warn("entry ended before its declared size", "path", entry.Path, "bytes", len(data))
	}
	return data, nil
}

// Info summarizes the archive. It lists the entries if they are not cached yet.
func (u *Unarchiver) Info(ctx context.Context) (Info, error) {
	td := &TelemetryData{Operation: operationInfo, Format: u.format.String()}
	defer u.cfg.TelemetryHook()(ctx, td)
	defer captureDuration(td, now())

	raws, err := u.handler.Entries(ctx)
	if err != nil {
		return Info{}, handleError(u.cfg, td, "cannot summarize archive", err)
	}
	info := Info{Format: u.format, EntryCount: len(raws)}
	for _, raw := range raws {
		info.TotalUncompressedSize += raw.uncompressedSize
		info.TotalCompressedSize += raw.compressedSize
		info.IsEncrypted = info.IsEncrypted || raw.encrypted
	}
	td.Entries = int64(info.EntryCount)

	u.cfg.Logger().Debug("summarized archive", "path", u.path, "entries", info.EntryCount,
		"uncompressed_size", info.TotalUncompressedSize, "encrypted", info.IsEncrypted)
	return info, nil
}

// Close waits for running operations and releases the archive. Operations
// after Close return [ErrClosed]. Close is idempotent.
func (u *Unarchiver) Close() error {
	u.cfg.Logger().Debug("closing archive", "path", u.path)
	return u.handler.Close()
}
