package ethsig

import (
	"math/big"
)

// GLV endomorphism constants and functions

// betaConstant is a primitive cube root of unity modulo the field prime p:
// beta^3 == 1 mod p. Used to compute lambda*P = (beta*x, y).
var betaConstant = hexInt("7ae96a2b657c07106e64479eac3434e99cf0497512f58995c1396c28719501ee")

// lambdaConstant is a primitive cube root of unity modulo the curve order n:
// lambda^3 == 1 mod n, and lambda*(x, y) == (beta*x, y) for every curve point.
var lambdaConstant = hexInt("5363ad4cc05c30e0a5261c028812645a122e22ea20816678df02967c1b23bd72")

// Short lattice basis (a1, b1), (a2, b2) of {(x, y) : x + y*lambda == 0 mod n}.
var (
	glvA1 = hexInt("3086d221a7d46bcde86c90e49284eb15")
	glvB1 = new(big.Int).Neg(hexInt("e4437ed6010e88286f547fa90abfe4c3"))
	glvA2 = hexInt("114ca50f7a8e2f3f657c1108d9d44cfd8")
	glvB2 = hexInt("3086d221a7d46bcde86c90e49284eb15")
)

// splitScalar splits k into k1, k2 such that
//
//	k == k1 + k2*lambda (mod n)
//
// with |k1| and |k2| of roughly 128 bits. The magnitudes are returned
// together with their signs.
func splitScalar(k *big.Int) (k1neg bool, k1 *big.Int, k2neg bool, k2 *big.Int) {
	// c1 = (b2*k)/n, c2 = (-b1*k)/n, truncated toward zero
	c1 := new(big.Int).Mul(glvB2, k)
	c1.Quo(c1, curveN)
	c2 := new(big.Int).Neg(glvB1)
	c2.Mul(c2, k)
	c2.Quo(c2, curveN)

	// k1 = k - c1*a1 - c2*a2
	k1 = new(big.Int).Set(k)
	k1.Sub(k1, new(big.Int).Mul(c1, glvA1))
	k1.Sub(k1, new(big.Int).Mul(c2, glvA2))

	// k2 = -c1*b1 - c2*b2
	k2 = new(big.Int).Mul(c1, glvB1)
	k2.Neg(k2)
	k2.Sub(k2, new(big.Int).Mul(c2, glvB2))

	k1neg = k1.Sign() < 0
	k2neg = k2.Sign() < 0
	return k1neg, k1.Abs(k1), k2neg, k2.Abs(k2)
}

// combineSplit returns k1p + lambda*k2p after restoring the signs of both
// half-scalar products.
func combineSplit(k1p *jacobianPoint, k1neg bool, k2p *jacobianPoint, k2neg bool) *jacobianPoint {
	if k1neg {
		k1p.negate(k1p)
	}
	if k2neg {
		k2p.negate(k2p)
	}
	k2p.mulLambda(k2p)
	var r jacobianPoint
	r.addVar(k1p, k2p)
	return &r
}
