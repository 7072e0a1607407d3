package signer

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"ethsig.mleku.dev"
)

// KeySigner signs and verifies with one key pair. Without a secret key it
// can only verify.
type KeySigner struct {
	ctx       *ethsig.Context
	sec       *big.Int
	pub       ethsig.Point
	hasSecret bool
	hasPublic bool
}

// NewKeySigner creates an empty KeySigner bound to a context
func NewKeySigner(c *ethsig.Context) *KeySigner {
	return &KeySigner{ctx: c}
}

// Generate creates a fresh key pair from the random source of the context
func (k *KeySigner) Generate() error {
	d, err := k.ctx.GeneratePrivateKey()
	if err != nil {
		return err
	}
	return k.setSecret(d)
}

// InitSec initialises the secret key from 32 raw bytes and derives the public
// key
func (k *KeySigner) InitSec(sec []byte) error {
	d, err := ethsig.ParsePrivateKey(sec)
	if err != nil {
		return err
	}
	return k.setSecret(d)
}

func (k *KeySigner) setSecret(d *big.Int) error {
	pub, err := ethsig.GetPublicKey(d)
	if err != nil {
		return err
	}
	k.sec = d
	k.pub = pub
	k.hasSecret = true
	k.hasPublic = true
	return nil
}

// InitPub initialises a verify-only signer from a 33 or 65 byte public key
func (k *KeySigner) InitPub(pub []byte) error {
	p, err := ethsig.ParsePoint(pub)
	if err != nil {
		return err
	}
	k.Zero()
	k.pub = p
	k.hasPublic = true
	return nil
}

// Sec returns the 32-byte secret key, nil if not set
func (k *KeySigner) Sec() []byte {
	if !k.hasSecret {
		return nil
	}
	return ethsig.PrivateKeyBytes(k.sec)
}

// Pub returns the 33-byte compressed public key, nil if not set
func (k *KeySigner) Pub() []byte {
	if !k.hasPublic {
		return nil
	}
	return k.pub.SerializeCompressed()
}

// Address returns the checksummed address of the public key
func (k *KeySigner) Address() (string, error) {
	if !k.hasPublic {
		return "", errors.Wrap(ethsig.ErrInvalidPublicKey, "no public key")
	}
	return ethsig.PublicKeyToAddress(k.pub), nil
}

// Sign signs a digest and returns the 65-byte signature r || s || v with low S
func (k *KeySigner) Sign(ctx context.Context, digest []byte) ([]byte, error) {
	if !k.hasSecret {
		return nil, errors.Wrap(ethsig.ErrInvalidPrivateKey, "no secret key")
	}
	sig, err := k.ctx.Sign(ctx, digest, k.sec, ethsig.SignOptions{Canonical: true, Recovered: true})
	if err != nil {
		return nil, err
	}
	return sig.SerializeRecoverable(), nil
}

// Verify checks a signature in any supported encoding against the public key
func (k *KeySigner) Verify(digest, sig []byte) (bool, error) {
	if !k.hasPublic {
		return false, errors.Wrap(ethsig.ErrInvalidPublicKey, "no public key")
	}
	s, err := ethsig.ParseSignature(sig)
	if err != nil {
		return false, err
	}
	return ethsig.Verify(s, digest, k.pub), nil
}

// ECDH returns the compressed shared point with another public key
func (k *KeySigner) ECDH(pub []byte) ([]byte, error) {
	if !k.hasSecret {
		return nil, errors.Wrap(ethsig.ErrInvalidPrivateKey, "no secret key")
	}
	p, err := ethsig.ParsePoint(pub)
	if err != nil {
		return nil, err
	}
	return ethsig.SharedSecretBytes(k.sec, p, true)
}

// Zero drops the key material
func (k *KeySigner) Zero() {
	if k.sec != nil {
		k.sec.SetInt64(0)
	}
	k.sec = nil
	k.pub = ethsig.Point{}
	k.hasSecret = false
	k.hasPublic = false
}
