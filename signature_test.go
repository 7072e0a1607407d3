package ethsig

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"
)

func TestSignatureSerializeRoundTrip(t *testing.T) {
	c := newTestContext(t)
	for i := 0; i < 50; i++ {
		sig, err := c.Sign(context.Background(), randomDigest(t), randomScalar(t),
			SignOptions{Canonical: true, Recovered: true})
		if err != nil {
			t.Fatal(err)
		}

		der := sig.SerializeDER()
		parsed, err := ParseDERSignature(der)
		if err != nil {
			t.Fatalf("ParseDERSignature: %v", err)
		}
		if !parsed.Equal(sig) {
			t.Fatal("DER round trip mismatch")
		}

		compact := sig.SerializeCompact()
		if len(compact) != CompactSignatureLen {
			t.Fatalf("compact length %d", len(compact))
		}
		parsed, err = ParseCompactSignature(compact)
		if err != nil || !parsed.Equal(sig) {
			t.Fatal("compact round trip mismatch")
		}

		rec := sig.SerializeRecoverable()
		parsed, err = ParseRecoverableSignature(rec)
		if err != nil || !parsed.Equal(sig) {
			t.Fatal("recoverable round trip mismatch")
		}
		wantID, _ := sig.RecoveryID()
		if id, ok := parsed.RecoveryID(); !ok || id != wantID {
			t.Fatal("recovery id lost in round trip")
		}

		for _, enc := range [][]byte{der, compact, rec} {
			parsed, err = ParseSignature(enc)
			if err != nil || !parsed.Equal(sig) {
				t.Fatalf("ParseSignature(%d bytes) failed: %v", len(enc), err)
			}
		}

		parsed, err = ParseSignatureHex("0x" + sig.Hex(false))
		if err != nil || !parsed.Equal(sig) {
			t.Fatal("DER hex round trip mismatch")
		}
		parsed, err = ParseSignatureHex(sig.Hex(true))
		if err != nil || !parsed.Equal(sig) {
			t.Fatal("compact hex round trip mismatch")
		}
	}
}

func TestSignatureDERLayout(t *testing.T) {
	sig, err := NewSignature(big.NewInt(0x80), big.NewInt(1))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x30, 0x06, 0x02, 0x01, 0x80, 0x02, 0x01, 0x01}
	if got := sig.SerializeDER(); !bytes.Equal(got, want) {
		t.Errorf("SerializeDER = %x, want %x", got, want)
	}

	// strict DER pads r with 0x00
	strict := []byte{0x30, 0x07, 0x02, 0x02, 0x00, 0x80, 0x02, 0x01, 0x01}
	parsed, err := ParseDERSignature(strict)
	if err != nil {
		t.Fatalf("strict DER: %v", err)
	}
	if !parsed.Equal(sig) {
		t.Error("strict DER parsed to a different signature")
	}
}

func TestParseSignatureErrors(t *testing.T) {
	valid := []byte{0x30, 0x06, 0x02, 0x01, 0x05, 0x02, 0x01, 0x07}

	mutate := func(f func(b []byte) []byte) []byte {
		b := append([]byte(nil), valid...)
		return f(b)
	}

	testCases := []struct {
		name  string
		input []byte
		kind  ErrorKind
	}{
		{"too short", valid[:7], ErrInvalidSignatureEncoding},
		{"bad sequence", mutate(func(b []byte) []byte { b[0] = 0x31; return b }), ErrInvalidSignatureEncoding},
		{"bad total length", mutate(func(b []byte) []byte { b[1] = 0x07; return b }), ErrInvalidSignatureEncoding},
		{"bad r marker", mutate(func(b []byte) []byte { b[2] = 0x03; return b }), ErrInvalidSignatureEncoding},
		{"zero r length", mutate(func(b []byte) []byte { b[3] = 0x00; return b }), ErrInvalidSignatureEncoding},
		{"r length overflow", mutate(func(b []byte) []byte { b[3] = 0x05; return b }), ErrInvalidSignatureEncoding},
		{"bad s marker", mutate(func(b []byte) []byte { b[5] = 0x03; return b }), ErrInvalidSignatureEncoding},
		{"bad s length", mutate(func(b []byte) []byte { b[6] = 0x02; return b }), ErrInvalidSignatureEncoding},
		{"zero r", mutate(func(b []byte) []byte { b[4] = 0x00; return b }), ErrInvalidSignature},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDERSignature(tc.input)
			if !errors.Is(err, tc.kind) {
				t.Errorf("expected %v, got %v", tc.kind, err)
			}
		})
	}

	if _, err := ParseDERSignature(valid); err != nil {
		t.Errorf("valid DER rejected: %v", err)
	}

	// r = n in compact form
	compact := append(intToBytes32(curveN), intToBytes32(bigOne)...)
	if _, err := ParseCompactSignature(compact); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("r = n: expected ErrInvalidSignature, got %v", err)
	}
	if _, err := ParseCompactSignature(compact[:63]); !errors.Is(err, ErrInvalidInputLength) {
		t.Errorf("63 bytes: expected ErrInvalidInputLength, got %v", err)
	}

	rec := append(intToBytes32(bigOne), intToBytes32(bigOne)...)
	rec = append(rec, 4)
	if _, err := ParseRecoverableSignature(rec); !errors.Is(err, ErrInvalidRecoveryID) {
		t.Errorf("v = 4: expected ErrInvalidRecoveryID, got %v", err)
	}
	if _, err := ParseSignature(make([]byte, 10)); !errors.Is(err, ErrInvalidSignatureEncoding) {
		t.Errorf("expected ErrInvalidSignatureEncoding, got %v", err)
	}
	if _, err := ParseSignatureHex("0xgg"); !errors.Is(err, ErrInvalidHex) {
		t.Errorf("expected ErrInvalidHex, got %v", err)
	}
}

// A DER encoding of exactly 65 bytes must not be read as r || s || v
func TestParseSignatureDER65(t *testing.T) {
	r := new(big.Int).Lsh(big.NewInt(0x7f), 248)
	s := new(big.Int).Lsh(big.NewInt(0x7f), 208)
	sig, err := NewSignature(r, s)
	if err != nil {
		t.Fatal(err)
	}
	der := sig.SerializeDER()
	if len(der) != RecoverableSignatureLen {
		t.Fatalf("DER length %d, want %d", len(der), RecoverableSignatureLen)
	}
	parsed, err := ParseSignature(der)
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Equal(sig) {
		t.Errorf("parsed r=%x s=%x", parsed.R(), parsed.S())
	}
	if _, ok := parsed.RecoveryID(); ok {
		t.Error("DER signature should carry no recovery id")
	}

	// a 65 byte r || s || v whose first byte is 0x30 still parses as such
	rec := append(intToBytes32(new(big.Int).Lsh(big.NewInt(0x30), 248)), intToBytes32(bigOne)...)
	rec = append(rec, 1)
	parsed, err = ParseSignature(rec)
	if err != nil {
		t.Fatal(err)
	}
	if id, ok := parsed.RecoveryID(); !ok || id != 1 || parsed.S().Cmp(bigOne) != 0 {
		t.Errorf("r || s || v parsed as id=%d ok=%v s=%x", id, ok, parsed.S())
	}
}

func TestSerializeRecoverableWithoutID(t *testing.T) {
	sig := &Signature{r: big.NewInt(5), s: big.NewInt(7), recoveryID: 1}
	if v := sig.SerializeRecoverable()[64]; v != 0 {
		t.Errorf("v = %d, want 0 without a recovery id", v)
	}

	c := newTestContext(t)
	for i := 0; i < 16; i++ {
		sig, err := c.Sign(context.Background(), randomDigest(t), randomScalar(t),
			SignOptions{Canonical: true})
		if err != nil {
			t.Fatal(err)
		}
		if v := sig.SerializeRecoverable()[64]; v != 0 {
			t.Fatalf("v = %d for a signature without a recovery id", v)
		}
	}
}

func TestNewSignatureRange(t *testing.T) {
	for _, v := range [][2]*big.Int{
		{big.NewInt(0), big.NewInt(1)},
		{big.NewInt(1), big.NewInt(0)},
		{curveN, big.NewInt(1)},
		{big.NewInt(1), curveN},
		{nil, big.NewInt(1)},
	} {
		if _, err := NewSignature(v[0], v[1]); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("NewSignature(%v, %v): expected ErrInvalidSignature, got %v", v[0], v[1], err)
		}
	}
	if _, err := NewRecoverableSignature(bigOne, bigOne, -1); !errors.Is(err, ErrInvalidRecoveryID) {
		t.Errorf("expected ErrInvalidRecoveryID, got %v", err)
	}
}

func TestNormalizeS(t *testing.T) {
	high := new(big.Int).Sub(curveN, bigOne)
	sig, err := NewRecoverableSignature(big.NewInt(9), high, 2)
	if err != nil {
		t.Fatal(err)
	}
	if sig.IsLowS() {
		t.Fatal("n-1 is a high S")
	}
	norm := sig.NormalizeS()
	if !norm.IsLowS() || norm.S().Cmp(bigOne) != 0 {
		t.Errorf("normalized s = %x", norm.S())
	}
	if id, _ := norm.RecoveryID(); id != 3 {
		t.Errorf("recovery id = %d, want 3", id)
	}
	if sig.S().Cmp(high) != 0 {
		t.Error("NormalizeS modified the receiver")
	}

	// halfN is already low
	low, _ := NewSignature(big.NewInt(9), halfN)
	if !low.NormalizeS().Equal(low) {
		t.Error("low S should be unchanged")
	}

	with, err := low.WithRecoveryID(1)
	if err != nil {
		t.Fatal(err)
	}
	if id, ok := with.RecoveryID(); !ok || id != 1 {
		t.Error("WithRecoveryID did not attach the id")
	}
	if _, ok := low.RecoveryID(); ok {
		t.Error("WithRecoveryID modified the receiver")
	}
}
