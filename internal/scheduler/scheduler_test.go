package scheduler

import "testing"

func TestStreamKey(t *testing.T) {
	if got := streamKey(7); got != "7" {
		t.Fatalf("got %q, want %q", got, "7")
	}
	if got := streamKey(0); got != "0" {
		t.Fatalf("got %q, want %q", got, "0")
	}
}
