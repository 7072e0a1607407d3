package ethsig

import (
	"math/big"
)

// GetSharedSecret computes the ECDH shared point d*pub
func GetSharedSecret(d *big.Int, pub Point) (Point, error) {
	if !IsValidPrivateKey(d) {
		return Point{}, makeError(ErrInvalidPrivateKey, "private key must be in [1, n-1]")
	}
	if pub.IsInfinity() {
		return Point{}, makeError(ErrInvalidPublicKey, "public key is the point at infinity")
	}
	if !pub.IsOnCurve() {
		return Point{}, makeError(ErrPointNotOnCurve, "public key is not on the curve")
	}
	return pub.Multiply(d)
}

// SharedSecretBytes computes the ECDH shared point and serializes it
func SharedSecretBytes(d *big.Int, pub Point, compressed bool) ([]byte, error) {
	p, err := GetSharedSecret(d, pub)
	if err != nil {
		return nil, err
	}
	if compressed {
		return p.SerializeCompressed(), nil
	}
	return p.SerializeUncompressed(), nil
}
