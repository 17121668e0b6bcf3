// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/hashicorp/go-unarchive"
)

// TestDataString tests the String method of the data struct
func TestDataString(t *testing.T) {
	m := unarchive.TelemetryData{
		Duration:       time.Duration(5 * time.Millisecond),
		Entries:        0,
		EntryPath:      "dir/a.txt",
		Errors:         1,
		ExtractedBytes: 1024,
		Format:         "zip",
		InputSize:      2048,
		LastError:      fmt.Errorf("example error"),
		Operation:      "extract",
		Truncated:      true,
	}

	expected := `{"last_error":"example error","duration":5000000,"entries":0,"entry_path":"dir/a.txt","errors":1,"extracted_bytes":1024,"format":"zip","input_size":2048,"operation":"extract","truncated":true}`
	if m.String() != expected {
		t.Errorf("Expected '%s', but got '%s'", expected, m.String())
	}
}

// TestDataStringWithoutError tests that a missing error is an empty string
func TestDataStringWithoutError(t *testing.T) {
	m := unarchive.TelemetryData{Operation: "open", Format: "tar"}

	expected := `{"last_error":"","duration":0,"entries":0,"entry_path":"","errors":0,"extracted_bytes":0,"format":"tar","input_size":0,"operation":"open","truncated":false}`
	if m.String() != expected {
		t.Errorf("Expected '%s', but got '%s'", expected, m.String())
	}
}
