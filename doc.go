// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package unarchive provides read-only access to zip, rar, 7-zip and tar archives.
//
// The format of an archive is detected from its first bytes by [Open]. The returned
// [Unarchiver] lists the entries of the archive without decompressing them and
// extracts single entries into memory, optionally only a prefix of them.
//
// Configuration is done using the [Config], which is adjusted with [ConfigOption]
// functions to set the logger, the telemetry hook, size limits, the accepted formats
// and the password for encrypted archives. [TelemetryData] is passed to the hook after
// every operation.
package unarchive
