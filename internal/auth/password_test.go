// internal/auth/password_test.go
package auth

import "testing"

func TestPasswordHashAndCheck(t *testing.T) {
	// Minimum cost keeps the test fast.
	h := NewPasswordHasher(4)

	hash, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("password stored in plaintext")
	}

	if !h.Check(hash, "correct horse battery staple") {
		t.Error("correct password rejected")
	}
	if h.Check(hash, "wrong password") {
		t.Error("wrong password accepted")
	}
	if h.Check("not-a-bcrypt-hash", "anything") {
		t.Error("malformed hash accepted")
	}
}

func TestPasswordHasherCostClamped(t *testing.T) {
	// Out-of-range costs fall back to the bcrypt default instead of failing
	// on every Hash call.
	h := NewPasswordHasher(99)
	if _, err := h.Hash("pw"); err != nil {
		t.Fatalf("Hash with clamped cost: %v", err)
	}
}
