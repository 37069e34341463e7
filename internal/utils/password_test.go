package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("demo123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "demo123" {
		t.Fatal("expected hashed password to differ from plaintext")
	}
	if !CheckPassword(hash, "demo123") {
		t.Fatal("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Fatal("expected mismatched password to fail")
	}
}
