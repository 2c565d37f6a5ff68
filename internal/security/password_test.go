package security_test

import (
	"strings"
	"testing"

	"github.com/geocoder89/friendhub/internal/security"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_VerifyRoundTrip(t *testing.T) {
	h := security.NewHasher(bcrypt.MinCost)

	for _, plain := range []string{"secret", "1234", "pæssword with spaces", "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"} {
		hash, err := h.Hash(plain)
		if err != nil {
			t.Fatalf("hash %q: %v", plain, err)
		}

		if hash == plain {
			t.Fatalf("hash equals plaintext for %q", plain)
		}

		if !h.Verify(hash, plain) {
			t.Fatalf("verify(%q, hash(%q)) = false, want true", plain, plain)
		}

		if h.Verify(hash, plain+"x") {
			t.Fatalf("verify accepted a different password for %q", plain)
		}
	}
}

func TestHasher_Salted(t *testing.T) {
	h := security.NewHasher(bcrypt.MinCost)

	a, err := h.Hash("secret")
	if err != nil {
		t.Fatal(err)
	}
	b, err := h.Hash("secret")
	if err != nil {
		t.Fatal(err)
	}

	if a == b {
		t.Fatalf("two hashes of the same password should differ")
	}
}

func TestHasher_UsesConfiguredCost(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"min", bcrypt.MinCost, bcrypt.MinCost},
		{"below min is clamped", 1, bcrypt.MinCost},
		{"above max is clamped", 99, bcrypt.MaxCost},
		{"explicit", 6, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := security.NewHasher(tt.in).Cost(); got != tt.want {
				t.Fatalf("cost = %d, want %d", got, tt.want)
			}
		})
	}

	hash, err := security.NewHasher(5).Hash("secret")
	if err != nil {
		t.Fatal(err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatal(err)
	}
	if cost != 5 {
		t.Fatalf("stored cost = %d, want 5", cost)
	}
}

func TestHasher_RejectsGarbageHash(t *testing.T) {
	if security.NewHasher(bcrypt.MinCost).Verify("not-a-bcrypt-hash", "secret") {
		t.Fatal("verify should fail for a malformed hash")
	}
}

func TestHasher_LongMultibytePasswords(t *testing.T) {
	h := security.NewHasher(bcrypt.MinCost)

	// 20 runes, 80 bytes: past bcrypt's 72 byte limit
	emoji := strings.Repeat("😀", 20)
	long := strings.Repeat("a", 72)

	for _, plain := range []string{emoji, long} {
		hash, err := h.Hash(plain)
		if err != nil {
			t.Fatalf("hash of %d bytes: %v", len(plain), err)
		}
		if !h.Verify(hash, plain) {
			t.Fatalf("verify failed for %d byte password", len(plain))
		}
	}

	// inputs differing only after byte 72 must not collide
	hash, err := h.Hash(long + "x")
	if err != nil {
		t.Fatal(err)
	}
	if h.Verify(hash, long+"y") {
		t.Fatal("passwords differing past byte 72 verified as equal")
	}
}
