package utils

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter2", 4)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash must not equal the plain password")
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Fatal("expected matching password to verify")
	}
	if VerifyPassword(hash, "hunter3") {
		t.Fatal("expected mismatching password to fail")
	}
}

func TestHashPassword_CostFallback(t *testing.T) {
	t.Parallel()

	// A zero cost must not produce a trivially weak hash; it falls back
	// to the bcrypt default.
	hash, err := HashPassword("pw", 0)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !VerifyPassword(hash, "pw") {
		t.Fatal("expected fallback-cost hash to verify")
	}
}
