package utils

import (
	"testing"
	"time"
)

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"Front Door":      "Front_Door",
		"Loading Dock 2":  "Loading_Dock_2",
		"NoSpaces":        "NoSpaces",
		"":                "",
	}
	for in, want := range cases {
		if got := SanitizeName(in); got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBlobTimestampRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 5, 14, 30, 7, 0, time.UTC)
	formatted := BlobTimestamp(ts)
	if formatted != "26-03-05--14--30--07" {
		t.Fatalf("unexpected format: %s", formatted)
	}

	parsed, err := ParseBlobTimestamp(formatted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.Equal(ts) {
		t.Fatalf("round trip mismatch: got %v, want %v", parsed, ts)
	}
}

func TestParseBlobTimestampInvalid(t *testing.T) {
	if _, err := ParseBlobTimestamp("not-a-timestamp"); err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
}
