// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// decodeName converts an entry name stored in a legacy encoding to UTF-8.
// The name is returned unchanged if enc is nil or cannot decode it.
func decodeName(name string, enc encoding.Encoding) string {
	if enc == nil {
		return name
	}
	decoded, _, err := transform.String(enc.NewDecoder(), name)
	if err != nil {
		return name
	}
	return decoded
}
