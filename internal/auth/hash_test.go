package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := hashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hashPassword error: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	if !verifyPassword(hash, "correct horse battery staple") {
		t.Fatal("correct password did not verify")
	}
	if verifyPassword(hash, "wrong password") {
		t.Fatal("wrong password verified")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := hashPassword("same password")
	if err != nil {
		t.Fatalf("hashPassword error: %v", err)
	}
	second, err := hashPassword("same password")
	if err != nil {
		t.Fatalf("hashPassword error: %v", err)
	}

	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	for _, malformed := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=3,p=4$tooFewParts",
		"$argon2id$v=19$bogus$c2FsdA$aGFzaA",
	} {
		if verifyPassword(malformed, "whatever") {
			t.Fatalf("malformed hash %q verified", malformed)
		}
	}
}
