// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"context"
	"io"
	"log/slog"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ConfigOption is a function pointer to implement the option pattern
type ConfigOption func(*Config)

// Config holds all configuration options for reading an archive. The
// options are adjusted using the option pattern style.
//
// The default configuration limits the input size, the number of entries and
// the size of a single extraction to prevent memory exhaustion.
type Config struct {
	// bufferSize is the size of the transfer buffer used while extracting an entry
	bufferSize int

	// entryCache decides if the listing of an archive is kept after the first walk
	entryCache bool

	// formats limits the formats that are opened. Empty means all formats.
	formats []Format

	// logger stream for archive access
	logger logger

	// maxExtractionSize is the maximum number of bytes a single extraction returns.
	// Set value to -1 to disable the check.
	maxExtractionSize int64

	// maxFiles is the maximum of entries (including folder and symlinks) in an archive.
	// Set value to -1 to disable the check.
	maxFiles int64

	// maxInputSize is the maximum size of the archive file.
	// Set value to -1 to disable the check.
	maxInputSize int64

	// nameEncoding decodes zip entry names that are not flagged as UTF-8
	nameEncoding encoding.Encoding

	// password is used for encrypted rar and 7-zip archives
	password string

	// telemetryHook is a function to consume telemetry data after each operation
	telemetryHook TelemetryHook
}

// BufferSize returns the size of the transfer buffer used for extraction.
func (c *Config) BufferSize() int {
	return c.bufferSize
}

// CheckExtractionSize checks if size exceeds the configured maximum. If the maximum is exceeded,
// a [ErrMaxExtractionSizeExceeded] error is returned.
func (c *Config) CheckExtractionSize(size int64) error {

	// check if disabled
	if c.MaxExtractionSize() == -1 {
		return nil
	}

	if size > c.MaxExtractionSize() {
		return ErrMaxExtractionSizeExceeded
	}
	return nil
}

// CheckInputSize checks if size exceeds the configured maximum. If the maximum is exceeded,
// a [ErrMaxInputSizeExceeded] error is returned.
func (c *Config) CheckInputSize(size int64) error {

	// check if disabled
	if c.MaxInputSize() == -1 {
		return nil
	}

	if size > c.MaxInputSize() {
		return ErrMaxInputSizeExceeded
	}
	return nil
}

// CheckMaxFiles checks if counter exceeds the configured maximum. If the maximum is exceeded,
// a [ErrMaxFilesExceeded] error is returned.
func (c *Config) CheckMaxFiles(counter int64) error {

	// check if disabled
	if c.MaxFiles() == -1 {
		return nil
	}

	if counter > c.MaxFiles() {
		return ErrMaxFilesExceeded
	}
	return nil
}

// EntryCache returns true if the entry listing is memoized after the first walk.
func (c *Config) EntryCache() bool {
	return c.entryCache
}

// FormatEnabled returns true if archives of format f may be opened.
func (c *Config) FormatEnabled(f Format) bool {
	if len(c.formats) == 0 {
		return true
	}
	for _, e := range c.formats {
		if e == f {
			return true
		}
	}
	return false
}

// Logger returns the logger.
func (c *Config) Logger() logger {
	return c.logger
}

// MaxExtractionSize returns the maximum number of bytes a single extraction returns.
func (c *Config) MaxExtractionSize() int64 {
	return c.maxExtractionSize
}

// MaxFiles returns the maximum of entries (including folder and symlinks) in an archive.
func (c *Config) MaxFiles() int64 {
	return c.maxFiles
}

// MaxInputSize returns the maximum size of the archive file.
func (c *Config) MaxInputSize() int64 {
	return c.maxInputSize
}

// NameEncoding returns the encoding for zip entry names without the UTF-8 flag.
func (c *Config) NameEncoding() encoding.Encoding {
	return c.nameEncoding
}

// Password returns the password for encrypted rar and 7-zip archives.
func (c *Config) Password() string {
	return c.password
}

// TelemetryHook returns the telemetry hook.
func (c *Config) TelemetryHook() TelemetryHook {
	if c.telemetryHook == nil {
		return defaultTelemetryHook
	}
	return c.telemetryHook
}

const (
	defaultBufferSize        = 64 << 10      // 64 KiB transfer buffer
	defaultEntryCache        = true          // walk the archive once
	defaultMaxExtractionSize = 1 << (10 * 3) // 1 Gb
	defaultMaxFiles          = 100000        // 100k entries
	defaultMaxInputSize      = 1 << (10 * 4) // 1 Tb, archives are read lazily
	defaultPassword          = ""            // no password
)

var (
	// slog to discard
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	// zip names without UTF-8 flag are IBM code page 437 by definition
	defaultNameEncoding encoding.Encoding = charmap.CodePage437

	// no operation telemetry hook
	defaultTelemetryHook = func(ctx context.Context, d *TelemetryData) {
		// noop
	}
)

// NewConfig is a generator option that takes opts as adjustments of the
// default configuration in an option pattern style.
func NewConfig(opts ...ConfigOption) *Config {

	// setup default values
	config := &Config{
		bufferSize:        defaultBufferSize,
		entryCache:        defaultEntryCache,
		logger:            defaultLogger,
		maxExtractionSize: defaultMaxExtractionSize,
		maxFiles:          defaultMaxFiles,
		maxInputSize:      defaultMaxInputSize,
		nameEncoding:      defaultNameEncoding,
		password:          defaultPassword,
		telemetryHook:     defaultTelemetryHook,
	}

	// Loop through each option
	for _, opt := range opts {
		opt(config)
	}

	return config
}

// WithBufferSize options pattern function to set the transfer buffer size
// used while extracting. Values below 1 are ignored.
func WithBufferSize(size int) ConfigOption {
	return func(c *Config) {
		if size > 0 {
			c.bufferSize = size
		}
	}
}

// WithEntryCache options pattern function to enable/disable keeping the
// entry listing after the first walk over the archive.
func WithEntryCache(enable bool) ConfigOption {
	return func(c *Config) {
		c.entryCache = enable
	}
}

// WithFormats options pattern function to limit the formats that are opened.
// Archives of other formats fail with [ErrUnsupportedFormat].
func WithFormats(formats ...Format) ConfigOption {
	return func(c *Config) {
		c.formats = append(c.formats, formats...)
	}
}

// WithLogger options pattern function to set a custom logger.
func WithLogger(logger logger) ConfigOption {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithMaxExtractionSize options pattern function to set the maximum number
// of bytes a single extraction returns. (-1 to disable check)
func WithMaxExtractionSize(maxExtractionSize int64) ConfigOption {
	return func(c *Config) {
		c.maxExtractionSize = maxExtractionSize
	}
}

// WithMaxFiles options pattern function to set maximum number of entries
// listed from an archive. (-1 to disable check)
func WithMaxFiles(maxFiles int64) ConfigOption {
	return func(c *Config) {
		c.maxFiles = maxFiles
	}
}

// WithMaxInputSize options pattern function to set MaxInputSize for the archive file. (-1 to disable check)
func WithMaxInputSize(maxInputSize int64) ConfigOption {
	return func(c *Config) {
		c.maxInputSize = maxInputSize
	}
}

// WithNameEncoding options pattern function to set the encoding of zip entry
// names that are not flagged as UTF-8, e.g. japanese.ShiftJIS. A nil
// encoding keeps the raw names.
func WithNameEncoding(enc encoding.Encoding) ConfigOption {
	return func(c *Config) {
		c.nameEncoding = enc
	}
}

// WithPassword options pattern function to set the password for encrypted
// rar and 7-zip archives.
func WithPassword(password string) ConfigOption {
	return func(c *Config) {
		c.password = password
	}
}

// WithTelemetryHook options pattern function to set a [TelemetryHook], which is called after each operation.
func WithTelemetryHook(hook TelemetryHook) ConfigOption {
	return func(c *Config) {
		c.telemetryHook = hook
	}
}
