package ethsig

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
)

func TestAddressKnownAnswers(t *testing.T) {
	testCases := []struct {
		priv *big.Int
		want string
	}{
		{big.NewInt(1), "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"},
		{mustHexInt(t, demoPrivHex), "0xFCAd0B19bB29D4674531d6f115237E16AfCE377c"},
	}
	for _, tc := range testCases {
		got, err := AddressFromPrivateKey(tc.priv)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("address of %x = %s, want %s", tc.priv, got, tc.want)
		}
		if !IsChecksumAddress(got) {
			t.Errorf("%s should be checksummed", got)
		}
	}

	if _, err := AddressFromPrivateKey(big.NewInt(0)); !errors.Is(err, ErrInvalidPrivateKey) {
		t.Errorf("expected ErrInvalidPrivateKey, got %v", err)
	}
}

func TestChecksumAddress(t *testing.T) {
	// EIP-55 test vectors
	vectors := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}
	for _, v := range vectors {
		for _, in := range []string{v, strings.ToLower(v), "0x" + strings.ToUpper(v[2:])} {
			got, err := ChecksumAddress(in)
			if err != nil {
				t.Fatal(err)
			}
			if got != v {
				t.Errorf("ChecksumAddress(%s) = %s, want %s", in, got, v)
			}
		}
		// idempotent
		again, _ := ChecksumAddress(strings.ToLower(v))
		if again2, _ := ChecksumAddress(again); again2 != again {
			t.Error("checksum is not idempotent")
		}
		if IsChecksumAddress(strings.ToLower(v)) {
			t.Errorf("lowercase %s should not pass the checksum", v)
		}
	}

	testCases := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{"no prefix", "5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", ErrInvalidHex},
		{"short", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeA", ErrInvalidInputLength},
		{"not hex", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAeg", ErrInvalidHex},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ChecksumAddress(tc.input); !errors.Is(err, tc.kind) {
				t.Errorf("expected %v, got %v", tc.kind, err)
			}
		})
	}
}

func TestSignerAddress(t *testing.T) {
	c := newTestContext(t)
	for i := 0; i < 20; i++ {
		d := randomScalar(t)
		want, _ := AddressFromPrivateKey(d)
		digest := randomDigest(t)
		sig, err := c.Sign(context.Background(), digest, d, SignOptions{Canonical: true, Recovered: true})
		if err != nil {
			t.Fatal(err)
		}
		got, err := SignerAddress(digest, sig)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("signer %s, want %s", got, want)
		}
	}
}
