package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	e := New(UploadFailed, "objectstore.Upload", errors.New("connection reset"))
	want := "objectstore.Upload: upload_failed: connection reset"
	if e.Error() != want {
		t.Fatalf("got %q, want %q", e.Error(), want)
	}
}

func TestErrorMessageNilCause(t *testing.T) {
	e := New(Fatal, "scheduler.Start", nil)
	want := "scheduler.Start: fatal"
	if e.Error() != want {
		t.Fatalf("got %q, want %q", e.Error(), want)
	}
}

func TestIsMatchesWrappedKind(t *testing.T) {
	base := New(AnalysisTimeout, "vision.Analyze", errors.New("deadline exceeded"))
	wrapped := fmt.Errorf("processing screenshot: %w", base)

	if !Is(wrapped, AnalysisTimeout) {
		t.Fatal("expected Is to find the wrapped Kind")
	}
	if Is(wrapped, UploadFailed) {
		t.Fatal("expected Is to reject a non-matching Kind")
	}
}

func TestIsNilError(t *testing.T) {
	if Is(nil, Fatal) {
		t.Fatal("expected Is(nil, ...) to be false")
	}
}

func TestIsPlainError(t *testing.T) {
	if Is(errors.New("plain"), Fatal) {
		t.Fatal("expected Is to reject an error with no Kind")
	}
}
