// Package signer is the hex string facade over ethsig: account addresses,
// Keccak digests, recoverable message signatures and signer recovery, with
// every value passed as 0x prefixed hex.
package signer

import (
	"context"
	"math/big"

	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"

	"ethsig.mleku.dev"
	"ethsig.mleku.dev/keccak"
)

var log = logging.Logger("ethsig/signer")

// Signer exposes the account operations on hex encoded input
type Signer struct {
	ctx *ethsig.Context
}

// New creates a Signer on top of an existing context
func New(c *ethsig.Context) *Signer {
	return &Signer{ctx: c}
}

// NewDefault creates a Signer with a default context
func NewDefault() (*Signer, error) {
	c, err := ethsig.NewContext()
	if err != nil {
		return nil, errors.WithMessage(err, "create signing context")
	}
	return New(c), nil
}

// Context returns the underlying signing context
func (s *Signer) Context() *ethsig.Context {
	return s.ctx
}

// parsePrivateKey decodes a hex private key
func parsePrivateKey(privHex string) (*big.Int, error) {
	b, err := FromHex(privHex)
	if err != nil {
		return nil, err
	}
	defer clear(b)
	d, err := ethsig.ParsePrivateKey(b)
	if err != nil {
		return nil, errors.WithMessage(err, "parse private key")
	}
	return d, nil
}

// AddressFromKey returns the checksummed address of a hex private key
func (s *Signer) AddressFromKey(privHex string) (string, error) {
	d, err := parsePrivateKey(privHex)
	if err != nil {
		return "", err
	}
	return ethsig.AddressFromPrivateKey(d)
}

// AddressChecksum returns the EIP-55 form of an address
func (s *Signer) AddressChecksum(addr string) (string, error) {
	sum, err := ethsig.ChecksumAddress(addr)
	if err != nil {
		return "", errors.WithMessage(err, "checksum address")
	}
	return sum, nil
}

// Keccak returns the 0x prefixed Keccak-256 digest of input. 0x prefixed
// input is decoded as hex unless forceUTF8 is set.
func (s *Signer) Keccak(input string, forceUTF8 bool) (string, error) {
	sum, err := keccak.Hex(input, forceUTF8)
	if err != nil {
		return "", errors.Wrapf(ethsig.ErrInvalidHex, "keccak: %v", err)
	}
	return sum, nil
}

// SignMessage signs a 32-byte hex digest and returns the 0x prefixed 65-byte
// recoverable signature r || s || v with low S.
func (s *Signer) SignMessage(ctx context.Context, digestHex, privHex string) (string, error) {
	digest, err := parseDigest(digestHex)
	if err != nil {
		return "", err
	}
	d, err := parsePrivateKey(privHex)
	if err != nil {
		return "", err
	}
	sig, err := s.ctx.Sign(ctx, digest, d, ethsig.SignOptions{Canonical: true, Recovered: true})
	if err != nil {
		return "", errors.WithMessage(err, "sign message")
	}
	id, _ := sig.RecoveryID()
	log.Debugw("signed message", "digest", digestHex, "recovery", id)
	return ToHex(sig.SerializeRecoverable()), nil
}

// SignerAddress recovers the checksummed address that produced a
// recoverable signature over a hex digest. Signatures without a recovery id
// are rejected with ErrInvalidSignatureEncoding.
func (s *Signer) SignerAddress(digestHex, sigHex string) (string, error) {
	digest, err := parseDigest(digestHex)
	if err != nil {
		return "", err
	}
	b, err := FromHex(sigHex)
	if err != nil {
		return "", err
	}
	if len(b) != ethsig.RecoverableSignatureLen {
		return "", errors.Wrapf(ethsig.ErrInvalidSignatureEncoding,
			"signer address needs a %d-byte r || s || v signature, got %d bytes",
			ethsig.RecoverableSignatureLen, len(b))
	}
	sig, err := ethsig.ParseRecoverableSignature(b)
	if err != nil {
		return "", errors.WithMessage(err, "parse signature")
	}
	addr, err := ethsig.SignerAddress(digest, sig)
	if err != nil {
		return "", errors.WithMessage(err, "recover signer")
	}
	return addr, nil
}

// Verify checks a signature in any supported encoding against a hex digest
// and a hex public key.
func (s *Signer) Verify(digestHex, sigHex, pubHex string) (bool, error) {
	digest, err := parseDigest(digestHex)
	if err != nil {
		return false, err
	}
	sig, err := FromHex(sigHex)
	if err != nil {
		return false, err
	}
	pub, err := FromHex(pubHex)
	if err != nil {
		return false, err
	}
	ok, err := ethsig.VerifyBytes(sig, digest, pub)
	if err != nil {
		return false, errors.WithMessage(err, "verify")
	}
	return ok, nil
}

// PublicKey returns the hex public key of a hex private key
func (s *Signer) PublicKey(privHex string, compressed bool) (string, error) {
	d, err := parsePrivateKey(privHex)
	if err != nil {
		return "", err
	}
	pub, err := ethsig.GetPublicKey(d)
	if err != nil {
		return "", err
	}
	return "0x" + pub.Hex(compressed), nil
}

// SharedSecret returns the uncompressed ECDH point of a hex private key and
// a hex public key.
func (s *Signer) SharedSecret(privHex, pubHex string) (string, error) {
	d, err := parsePrivateKey(privHex)
	if err != nil {
		return "", err
	}
	pub, err := ethsig.ParsePointHex(pubHex)
	if err != nil {
		return "", errors.WithMessage(err, "parse public key")
	}
	secret, err := ethsig.SharedSecretBytes(d, pub, false)
	if err != nil {
		return "", errors.WithMessage(err, "shared secret")
	}
	return ToHex(secret), nil
}

// GenerateKey returns a new random hex private key
func (s *Signer) GenerateKey() (string, error) {
	d, err := s.ctx.GeneratePrivateKey()
	if err != nil {
		return "", errors.WithMessage(err, "generate key")
	}
	return ToHex(ethsig.PrivateKeyBytes(d)), nil
}

// parseDigest decodes a hex digest, which must not be empty
func parseDigest(digestHex string) ([]byte, error) {
	digest, err := FromHex(digestHex)
	if err != nil {
		return nil, err
	}
	if len(digest) == 0 {
		return nil, errors.Wrap(ethsig.ErrInvalidInputLength, "empty digest")
	}
	return digest, nil
}
