// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"context"
	"encoding/json"
	"time"
)

const (
	operationOpen    = "open"
	operationEntries = "entries"
	operationExtract = "extract"
	operationInfo    = "info"
)

// TelemetryData holds the telemetry data of one operation on an archive.
type TelemetryData struct {
	// Duration is the time the operation took, including waiting for the archive lock
	Duration time.Duration `json:"duration"`

	// Entries is the number of entries listed
	Entries int64 `json:"entries"`

	// EntryPath is the path of the extracted entry
	EntryPath string `json:"entry_path"`

	// Errors is the number of errors during the operation
	Errors int64 `json:"errors"`

	// ExtractedBytes is the number of bytes returned by an extraction
	ExtractedBytes int64 `json:"extracted_bytes"`

	// Format is the format of the archive
	Format string `json:"format"`

	// InputSize is the size of the archive file
	InputSize int64 `json:"input_size"`

	// LastError is the last error during the operation
	LastError error `json:"last_error"`

	// Operation is one of open, entries or extract
	Operation string `json:"operation"`

	// Truncated is true if the entry stream ended before the requested number of bytes
	Truncated bool `json:"truncated"`
}

// String returns a string representation of [TelemetryData].
func (td TelemetryData) String() string {
	b, _ := json.Marshal(td)
	return string(b)
}

// MarshalJSON implements the [encoding/json.Marshaler] interface.
func (td TelemetryData) MarshalJSON() ([]byte, error) {
	var lastError string
	if td.LastError != nil {
		lastError = td.LastError.Error()
	}

	type Alias TelemetryData
	return json.Marshal(&struct {
		LastError string `json:"last_error"`
		*Alias
	}{
		LastError: lastError,
		Alias:     (*Alias)(&td),
	})
}

// TelemetryHook is a function type that performs operations on [TelemetryData]
// after an operation has finished which can be used to submit the [TelemetryData]
// to a telemetry service, for example.
type TelemetryHook func(context.Context, *TelemetryData)

// now is a function point that returns time.Now to the caller.
var now = time.Now

// captureDuration captures the duration of an operation
func captureDuration(td *TelemetryData, start time.Time) {
	td.Duration = now().Sub(start)
}

// handleError increases the error counter, sets the latest error, logs msg and
// returns err unchanged.
func handleError(c *Config, td *TelemetryData, msg string, err error) error {
	td.Errors++
	td.LastError = err
	c.Logger().Error(msg, "operation", td.Operation, "format", td.Format, "error", err)
	return err
}
