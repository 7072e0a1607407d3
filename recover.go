package ethsig

import (
	"math/big"
)

// RecoverPublicKey computes the public key that produced sig over digest.
// Bit 0 of recoveryID selects the parity of R.y and bit 1 selects
// R.x = r + n.
func RecoverPublicKey(digest []byte, sig *Signature, recoveryID int) (Point, error) {
	if recoveryID < 0 || recoveryID > 3 {
		return Point{}, makeError(ErrInvalidRecoveryID, "recovery id must be in [0, 3]")
	}
	if sig == nil || !inScalarRange(sig.r) || !inScalarRange(sig.s) {
		return Point{}, makeError(ErrInvalidSignature, "signature r and s must be in [1, n-1]")
	}

	x := new(big.Int).Set(sig.r)
	if recoveryID&2 != 0 {
		x.Add(x, curveN)
		if x.Cmp(curveP) >= 0 {
			return Point{}, makeError(ErrInvalidSignature, "r + n is not a field element")
		}
	}
	y, ok := decompressY(x, recoveryID&1 == 1)
	if !ok {
		return Point{}, makeError(ErrInvalidSignature, "r is not the x coordinate of a curve point")
	}

	// Q = (s*R - h*G) / r
	var rj jacobianPoint
	rj.setGE(Point{x: x, y: y})
	sum := ecmultUnsafe(&rj, sig.s)
	if h := truncateHash(digest); h.Sign() != 0 {
		var hg jacobianPoint
		hg.negate(ecmultBase(h))
		sum.addVar(sum, &hg)
	}
	if sum.isInfinity() {
		return Point{}, makeError(ErrInvalidSignature, "recovered point is at infinity")
	}
	q := ecmultUnsafe(sum, mustInverse(sig.r, curveN)).toAffine()
	if q.infinity {
		return Point{}, makeError(ErrInvalidSignature, "recovered point is at infinity")
	}
	return q, nil
}

// RecoverSignaturePublicKey recovers the public key using the recovery id
// carried by sig.
func RecoverSignaturePublicKey(digest []byte, sig *Signature) (Point, error) {
	if sig == nil {
		return Point{}, makeError(ErrInvalidSignature, "missing signature")
	}
	id, ok := sig.RecoveryID()
	if !ok {
		return Point{}, makeError(ErrInvalidRecoveryID, "signature carries no recovery id")
	}
	return RecoverPublicKey(digest, sig, id)
}
