package ethsig

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"testing"
)

// iterations returns the number of rounds of a randomized property test
func iterations(t testing.TB) int {
	if testing.Short() {
		return 100
	}
	return 1000
}

// mustHexInt parses a hex constant used by a test
func mustHexInt(t testing.TB, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		t.Fatalf("invalid hex constant %q", s)
	}
	return v
}

// mustHexBytes decodes a hex constant used by a test
func mustHexBytes(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("invalid hex constant %q: %v", s, err)
	}
	return b
}

// randomScalar returns a uniformly random value in [1, n-1]
func randomScalar(t testing.TB) *big.Int {
	t.Helper()
	max := new(big.Int).Sub(curveN, bigOne)
	for {
		k, err := rand.Int(rand.Reader, max)
		if err != nil {
			t.Fatal(err)
		}
		k.Add(k, bigOne)
		if IsValidPrivateKey(k) {
			return k
		}
	}
}

// randomDigest returns 32 random bytes
func randomDigest(t testing.TB) []byte {
	t.Helper()
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		t.Fatal(err)
	}
	return b
}

// randomPoint returns k*G for a random k
func randomPoint(t testing.TB) Point {
	t.Helper()
	p, err := Generator().MultiplyUnsafe(randomScalar(t))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// mustPublicKey returns d*G
func mustPublicKey(t testing.TB, d *big.Int) Point {
	t.Helper()
	p, err := GetPublicKey(d)
	if err != nil {
		t.Fatal(err)
	}
	return p
}
