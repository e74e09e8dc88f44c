/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// NewRaceID returns an opaque, globally unique race identifier.
func NewRaceID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// rand.Read only fails if the OS entropy source is broken
		return fmt.Sprintf("race-%v", time.Now().UnixNano())
	}
	return "race-" + hex.EncodeToString(buf[:])
}

// ParseDateOrZero returns a parsed time or zero if input is empty or "null".
// Persisted results files have been written by several revisions of this
// project with differing timestamp formats, so parsing is deliberately
// lenient.
func ParseDateOrZero(s string) (time.Time, error) {
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}
