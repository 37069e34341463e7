package objectstore

import (
	"testing"
	"time"
)

func TestLogicalTimestampParsesBlobName(t *testing.T) {
	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	got := logicalTimestamp("screenshots/3-Front_Door-26-03-05--14--30--07.jpg", created)
	want := time.Date(2026, 3, 5, 14, 30, 7, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLogicalTimestampFallsBackOnMalformedName(t *testing.T) {
	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	got := logicalTimestamp("screenshots/garbage.jpg", created)
	if !got.Equal(created) {
		t.Fatalf("expected fallback to creation time, got %v", got)
	}
}

func TestLogicalTimestampFallsBackWithNoSeparator(t *testing.T) {
	created := time.Date(2021, 6, 15, 9, 0, 0, 0, time.UTC)
	got := logicalTimestamp("justaname", created)
	if !got.Equal(created) {
		t.Fatalf("expected fallback to creation time, got %v", got)
	}
}

func TestPublicURL(t *testing.T) {
	got := publicURL("my-bucket", "screenshots/1-cam.jpg")
	want := "https://storage.googleapis.com/my-bucket/screenshots/1-cam.jpg"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
