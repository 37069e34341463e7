package utils

import (
	"strings"
	"time"
)

// SanitizeName replaces spaces with underscores, the only transform the
// blob-key format applies to a stream's display name.
func SanitizeName(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// BlobTimestamp formats t as the logical timestamp embedded in blob keys:
// YY-MM-DD--HH--MM--SS, one second of precision.
func BlobTimestamp(t time.Time) string {
	return t.Format("06-01-02--15--04--05")
}

// ParseBlobTimestamp is the inverse of BlobTimestamp.
func ParseBlobTimestamp(s string) (time.Time, error) {
	return time.Parse("06-01-02--15--04--05", s)
}
