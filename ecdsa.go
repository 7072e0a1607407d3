package ethsig

import (
	"context"
	"math/big"
)

// SignOptions selects the post-processing of a signature
type SignOptions struct {
	// Canonical forces s <= n/2, flipping the parity bit of the recovery id
	// when s is negated.
	Canonical bool
	// Recovered attaches the recovery id to the returned signature
	Recovered bool
}

// truncateHash converts a digest to the message representative used by ECDSA:
// digests longer than 256 bits are shifted right by the excess, then a value
// >= n is reduced once by n.
func truncateHash(digest []byte) *big.Int {
	msg := bytesToInt(digest)
	if delta := len(digest)*8 - primeSize; delta > 0 {
		msg.Rsh(msg, uint(delta))
	}
	if msg.Cmp(curveN) >= 0 {
		msg.Sub(msg, curveN)
	}
	return msg
}

// Sign creates a deterministic ECDSA signature of digest with the private key
// d. The nonce is derived by RFC 6979 through the HMAC of the context; every
// HMAC call checks ctx, and a cancelled ctx aborts with ctx.Err().
func (c *Context) Sign(ctx context.Context, digest []byte, d *big.Int, opts SignOptions) (*Signature, error) {
	if len(digest) == 0 {
		return nil, makeError(ErrInvalidInputLength, "digest must not be empty")
	}
	if !IsValidPrivateKey(d) {
		return nil, makeError(ErrInvalidPrivateKey, "private key must be in [1, n-1]")
	}

	h := truncateHash(digest)
	x := intToBytes32(d)
	h1 := intToBytes32(modN(h))
	defer clear(x)

	g := &rfc6979{mac: c.hmac}
	defer g.clear()
	if err := g.setup(ctx, x, h1); err != nil {
		return nil, err
	}

	for i := 0; i < maxNonceIterations; i++ {
		k, err := g.next(ctx)
		if err != nil {
			return nil, err
		}
		if IsValidPrivateKey(k) {
			if sig := signWithNonce(k, h, d, opts); sig != nil {
				return sig, nil
			}
		}
		log.Debugw("rejected nonce candidate", "iteration", i)
		if err = g.reseed(ctx); err != nil {
			return nil, err
		}
	}
	log.Errorw("nonce generation exhausted", "iterations", maxNonceIterations)
	return nil, makeError(ErrNonceExhausted, "no valid nonce within 1000 candidates")
}

// signWithNonce computes (r, s) for the nonce k, or returns nil when r or s
// is zero and another nonce is needed.
func signWithNonce(k, h, d *big.Int, opts SignOptions) *Signature {
	q := ecmultBase(k).toAffine()
	r := modN(q.x)
	if r.Sign() == 0 {
		return nil
	}

	// s = k^-1 * (h + r*d) mod n
	s := new(big.Int).Mul(r, d)
	s.Add(s, h)
	s = modN(s.Mul(s, mustInverse(k, curveN)))
	if s.Sign() == 0 {
		return nil
	}

	recovery := 0
	if q.x.Cmp(r) != 0 {
		recovery = 2
	}
	recovery |= int(q.y.Bit(0))

	if opts.Canonical && s.Cmp(halfN) > 0 {
		s.Sub(curveN, s)
		recovery ^= 1
	}
	return &Signature{r: r, s: s, recoveryID: recovery, hasRecovery: opts.Recovered}
}

// Verify reports whether sig is a valid signature of digest by pub:
// with u1 = h/s and u2 = r/s, (u1*G + u2*pub).x mod n must equal r.
func Verify(sig *Signature, digest []byte, pub Point) bool {
	if sig == nil || pub.IsInfinity() || !pub.IsOnCurve() {
		return false
	}
	if !inScalarRange(sig.r) || !inScalarRange(sig.s) {
		return false
	}
	h := truncateHash(digest)
	sinv := mustInverse(sig.s, curveN)
	u1 := modN(new(big.Int).Mul(h, sinv))
	u2 := modN(new(big.Int).Mul(sig.r, sinv))

	res := ecmultDouble(u1, u2, pub)
	if res.infinity {
		return false
	}
	return modN(res.x).Cmp(sig.r) == 0
}

// VerifyBytes parses a serialized signature and public key and verifies the
// signature of digest.
func VerifyBytes(sig, digest, pub []byte) (bool, error) {
	s, err := ParseSignature(sig)
	if err != nil {
		return false, err
	}
	p, err := ParsePoint(pub)
	if err != nil {
		return false, err
	}
	return Verify(s, digest, p), nil
}

// inScalarRange reports whether 0 < v < n
func inScalarRange(v *big.Int) bool {
	return v != nil && v.Sign() > 0 && v.Cmp(curveN) < 0
}
