// Package id generates the identifier forms used across the platform:
// prefixed UUIDs for most entities, ULIDs for email records (time-sortable,
// which the reverse-chronological cursor relies on), and xids for short
// internal handles.
package id

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/xid"
)

/**
 * @time: 2025/6/22
 * @file: id.go
 * @description: id util
 */

// New returns a prefixed UUID, e.g. New("org") -> "org_4f0a…".
func New(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + raw[:20]
}

// NewEmail returns a ULID-based email id. ULIDs sort lexicographically by
// creation time.
func NewEmail() string {
	return "em_" + ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// Short returns a short process-unique handle.
func Short() string {
	return xid.New().String()
}
