package ethsig

import (
	"context"
	"testing"

	"ethsig.mleku.dev/keccak"
)

// Test the complete account workflow: key, address, signature, encodings,
// verification and signer recovery
func TestAccountWorkflow(t *testing.T) {
	c, err := NewContext()
	if err != nil {
		t.Fatalf("Failed to create context: %v", err)
	}

	// Generate a random secret key
	seckey, err := c.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("Failed to generate private key: %v", err)
	}

	pubkey, err := GetPublicKey(seckey)
	if err != nil {
		t.Fatalf("Failed to create public key: %v", err)
	}
	address := PublicKeyToAddress(pubkey)
	if !IsChecksumAddress(address) {
		t.Errorf("Address %s is not checksummed", address)
	}

	// Hash and sign a message
	msghash := keccak.Sum256([]byte("integration message"))
	sig, err := c.Sign(context.Background(), msghash[:], seckey, SignOptions{Canonical: true, Recovered: true})
	if err != nil {
		t.Fatalf("Failed to sign message: %v", err)
	}

	// Every encoding verifies and parses back to the same signature
	for _, enc := range [][]byte{sig.SerializeDER(), sig.SerializeCompact(), sig.SerializeRecoverable()} {
		parsed, err := ParseSignature(enc)
		if err != nil {
			t.Fatalf("Failed to parse %d-byte signature: %v", len(enc), err)
		}
		if !parsed.Equal(sig) {
			t.Errorf("Parsed %d-byte signature differs", len(enc))
		}
		ok, err := VerifyBytes(enc, msghash[:], pubkey.SerializeCompressed())
		if err != nil || !ok {
			t.Errorf("Failed to verify %d-byte signature: %v", len(enc), err)
		}
	}

	// The recovered signer matches the address
	signer, err := SignerAddress(msghash[:], sig)
	if err != nil {
		t.Fatalf("Failed to recover signer: %v", err)
	}
	if signer != address {
		t.Errorf("Recovered signer %s, expected %s", signer, address)
	}

	// Test that the signature fails with a wrong message
	msghash[0] ^= 1
	if Verify(sig, msghash[:], pubkey) {
		t.Error("Signature should not verify with modified message")
	}
	if other, err := SignerAddress(msghash[:], sig); err == nil && other == address {
		t.Error("Modified message should not recover the signer")
	}
	msghash[0] ^= 1

	// Test with a wrong public key
	wrong, err := c.GeneratePrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	wrongPubkey, _ := GetPublicKey(wrong)
	if Verify(sig, msghash[:], wrongPubkey) {
		t.Error("Signature should not verify with wrong public key")
	}
}

// Test many signatures from one key
func TestMultipleSignatures(t *testing.T) {
	c, err := NewContext()
	if err != nil {
		t.Fatal(err)
	}
	seckey := randomScalar(t)
	pubkey := mustPublicKey(t, seckey)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		msghash := randomDigest(t)
		sig, err := c.Sign(context.Background(), msghash, seckey, SignOptions{Canonical: true, Recovered: true})
		if err != nil {
			t.Fatalf("Failed to sign message %d: %v", i, err)
		}
		if !Verify(sig, msghash, pubkey) {
			t.Errorf("Signature %d failed to verify", i)
		}
		key := sig.Hex(true)
		if seen[key] {
			t.Errorf("Signature %d repeats an earlier signature", i)
		}
		seen[key] = true
	}
}

func BenchmarkFullECDSAWorkflow(b *testing.B) {
	c, err := NewContext()
	if err != nil {
		b.Fatalf("Failed to create context: %v", err)
	}
	seckey, err := c.GeneratePrivateKey()
	if err != nil {
		b.Fatal(err)
	}
	pubkey, _ := GetPublicKey(seckey)
	msghash := keccak.Sum256([]byte("benchmark"))
	ctx := context.Background()
	opts := SignOptions{Canonical: true, Recovered: true}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sig, err := c.Sign(ctx, msghash[:], seckey, opts)
		if err != nil {
			b.Fatal("Failed to sign")
		}
		if !Verify(sig, msghash[:], pubkey) {
			b.Fatal("Failed to verify")
		}
	}
}

func BenchmarkKeyGeneration(b *testing.B) {
	c, err := NewContext()
	if err != nil {
		b.Fatalf("Failed to create context: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d, err := c.GeneratePrivateKey()
		if err != nil {
			b.Fatal(err)
		}
		GetPublicKey(d)
	}
}
