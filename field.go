package ethsig

import (
	"math/big"
)

// CurveParams holds the secp256k1 domain parameters: y^2 = x^3 + a*x + b over
// the prime field P, with a base point G of prime order N and cofactor H.
type CurveParams struct {
	A, B   *big.Int
	P      *big.Int
	N      *big.Int
	H      *big.Int
	Gx, Gy *big.Int
	// Beta is a primitive cube root of unity modulo P, used by the GLV
	// endomorphism (x, y) -> (beta*x, y).
	Beta *big.Int
}

var (
	curveA = big.NewInt(0)
	curveB = big.NewInt(7)

	// curveP is the field prime 2^256 - 2^32 - 977
	curveP = hexInt("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")

	// curveN is the group order
	curveN = hexInt("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")

	curveH = big.NewInt(1)

	curveGx = hexInt("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	curveGy = hexInt("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8")

	// halfN is floor(N/2), the low-S boundary
	halfN = new(big.Int).Rsh(curveN, 1)

	// sqrtExp is (P+1)/4. P = 3 mod 4, so a^sqrtExp is a square root of a
	// whenever one exists.
	sqrtExp = new(big.Int).Rsh(new(big.Int).Add(curveP, big.NewInt(1)), 2)

	bigZero  = big.NewInt(0)
	bigOne   = big.NewInt(1)
	bigTwo   = big.NewInt(2)
	bigThree = big.NewInt(3)
	bigEight = big.NewInt(8)
)

// primeSize is the bit length of the field and of the order
const primeSize = 256

// Params returns a copy of the curve parameters.
func Params() CurveParams {
	return CurveParams{
		A:    new(big.Int).Set(curveA),
		B:    new(big.Int).Set(curveB),
		P:    new(big.Int).Set(curveP),
		N:    new(big.Int).Set(curveN),
		H:    new(big.Int).Set(curveH),
		Gx:   new(big.Int).Set(curveGx),
		Gy:   new(big.Int).Set(curveGy),
		Beta: new(big.Int).Set(betaConstant),
	}
}

func hexInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("invalid hex constant: " + s)
	}
	return v
}

// mod returns a mod m in the range [0, m), also for negative a.
func mod(a, m *big.Int) *big.Int {
	r := new(big.Int).Rem(a, m)
	if r.Sign() < 0 {
		r.Add(r, m)
	}
	return r
}

// modP reduces a modulo the field prime
func modP(a *big.Int) *big.Int {
	return mod(a, curveP)
}

// modN reduces a modulo the group order
func modN(a *big.Int) *big.Int {
	return mod(a, curveN)
}

// modPow computes base^exp mod m by square-and-multiply. exp must not be
// negative.
func modPow(base, exp, m *big.Int) *big.Int {
	if exp.Sign() < 0 {
		panic("modPow: negative exponent")
	}
	res := big.NewInt(1)
	x := mod(base, m)
	e := new(big.Int).Set(exp)
	for e.Sign() > 0 {
		if e.Bit(0) == 1 {
			res = mod(res.Mul(res, x), m)
		}
		e.Rsh(e, 1)
		x = mod(x.Mul(x, x), m)
	}
	return mod(res, m)
}

// egcd runs the extended Euclidean algorithm and returns (g, x, y) with
// a*x + b*y = g = gcd(a, b).
func egcd(a, b *big.Int) (g, x, y *big.Int) {
	a = new(big.Int).Set(a)
	b = new(big.Int).Set(b)
	x, y = big.NewInt(0), big.NewInt(1)
	u, v := big.NewInt(1), big.NewInt(0)
	q, r := new(big.Int), new(big.Int)
	for a.Sign() != 0 {
		q.QuoRem(b, a, r)
		m := new(big.Int).Sub(x, new(big.Int).Mul(u, q))
		n := new(big.Int).Sub(y, new(big.Int).Mul(v, q))
		b, a = a, new(big.Int).Set(r)
		x, y = u, v
		u, v = m, n
	}
	return b, x, y
}

// modInverse returns the inverse of a modulo m.
func modInverse(a, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, makeError(ErrNotInvertible, "modulus must be positive")
	}
	a = mod(a, m)
	if a.Sign() == 0 {
		return nil, makeError(ErrNotInvertible, "zero has no inverse")
	}
	g, x, _ := egcd(a, m)
	if g.Cmp(bigOne) != 0 {
		return nil, makeError(ErrNotInvertible, "inverse does not exist")
	}
	return mod(x, m), nil
}

// mustInverse is modInverse for values already known to be non-zero modulo a
// prime.
func mustInverse(a, m *big.Int) *big.Int {
	inv, err := modInverse(a, m)
	if err != nil {
		panic(err)
	}
	return inv
}

// batchInverse inverts every element of nums modulo m with a single modular
// inversion (Montgomery's trick). Zero elements are passed through unchanged.
// The input slice is not modified.
func batchInverse(nums []*big.Int, m *big.Int) ([]*big.Int, error) {
	out := make([]*big.Int, len(nums))
	scratch := make([]*big.Int, len(nums))
	acc := big.NewInt(1)
	for i, v := range nums {
		if mod(v, m).Sign() == 0 {
			out[i] = new(big.Int).Set(v)
			continue
		}
		scratch[i] = acc
		acc = mod(new(big.Int).Mul(acc, v), m)
	}
	inv, err := modInverse(acc, m)
	if err != nil {
		return nil, err
	}
	for i := len(nums) - 1; i >= 0; i-- {
		if scratch[i] == nil {
			continue
		}
		out[i] = mod(new(big.Int).Mul(inv, scratch[i]), m)
		inv = mod(inv.Mul(inv, nums[i]), m)
	}
	return out, nil
}

// weierstrass returns x^3 + a*x + b mod P
func weierstrass(x *big.Int) *big.Int {
	x3 := new(big.Int).Mul(x, x)
	x3.Mul(x3, x)
	ax := new(big.Int).Mul(curveA, x)
	x3.Add(x3, ax)
	return modP(x3.Add(x3, curveB))
}

// bytesToInt interprets b as a big-endian unsigned integer
func bytesToInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// intToBytes32 encodes v as 32 big-endian bytes. v must be in [0, 2^256).
func intToBytes32(v *big.Int) []byte {
	var out [32]byte
	v.FillBytes(out[:])
	return out[:]
}
