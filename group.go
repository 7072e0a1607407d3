package ethsig

import (
	"encoding/hex"
	"math/big"
	"strings"
)

const (
	// PubKeyBytesLenCompressed is the number of bytes of a compressed point
	PubKeyBytesLenCompressed = 33

	// PubKeyBytesLenUncompressed is the number of bytes of an uncompressed point
	PubKeyBytesLenUncompressed = 65

	pubKeyFormatCompressedEven byte = 0x02
	pubKeyFormatCompressedOdd  byte = 0x03
	pubKeyFormatUncompressed   byte = 0x04
)

// Point represents a point on the secp256k1 curve in affine coordinates (x, y),
// or the point at infinity. Points are immutable values; every operation
// returns a new Point. The zero value is the point at infinity.
type Point struct {
	x, y     *big.Int
	infinity bool
}

// jacobianPoint represents a point in Jacobian coordinates (x, y, z) where the
// affine coordinates are (x/z^2, y/z^3)
type jacobianPoint struct {
	x, y, z  *big.Int
	infinity bool
}

// Generator returns the base point G.
func Generator() Point {
	return Point{x: new(big.Int).Set(curveGx), y: new(big.Int).Set(curveGy)}
}

// Infinity returns the point at infinity, the identity of the group.
func Infinity() Point {
	return Point{x: big.NewInt(0), y: big.NewInt(0), infinity: true}
}

// NewPoint creates an affine point from its coordinates. Both coordinates must
// be in [0, P) and satisfy the curve equation.
func NewPoint(x, y *big.Int) (Point, error) {
	if x == nil || y == nil {
		return Point{}, makeError(ErrPointNotOnCurve, "missing coordinate")
	}
	p := Point{x: new(big.Int).Set(x), y: new(big.Int).Set(y)}
	if !p.IsOnCurve() {
		return Point{}, makeError(ErrPointNotOnCurve, "point is not on the secp256k1 curve")
	}
	return p, nil
}

// X returns a copy of the x coordinate, zero for the point at infinity.
func (p Point) X() *big.Int {
	if p.IsInfinity() {
		return new(big.Int)
	}
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y coordinate, zero for the point at infinity.
func (p Point) Y() *big.Int {
	if p.IsInfinity() {
		return new(big.Int)
	}
	return new(big.Int).Set(p.y)
}

// IsInfinity returns true if p is the point at infinity
func (p Point) IsInfinity() bool {
	return p.infinity || p.x == nil || p.y == nil
}

// IsOnCurve checks that p is the point at infinity or that 0 <= x, y < P and
// y^2 = x^3 + 7 (mod P).
func (p Point) IsOnCurve() bool {
	if p.IsInfinity() {
		return true
	}
	if p.x.Sign() < 0 || p.x.Cmp(curveP) >= 0 || p.y.Sign() < 0 || p.y.Cmp(curveP) >= 0 {
		return false
	}
	lhs := modP(new(big.Int).Mul(p.y, p.y))
	return lhs.Cmp(weierstrass(p.x)) == 0
}

// Equal returns true if two points are equal
func (p Point) Equal(q Point) bool {
	if p.IsInfinity() || q.IsInfinity() {
		return p.IsInfinity() == q.IsInfinity()
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// Negate returns -p (mirror around the X axis)
func (p Point) Negate() Point {
	if p.IsInfinity() {
		return Infinity()
	}
	return Point{x: new(big.Int).Set(p.x), y: modP(new(big.Int).Neg(p.y))}
}

// Double returns 2*p
func (p Point) Double() Point {
	var a, r jacobianPoint
	a.setGE(p)
	r.double(&a)
	return r.toAffine()
}

// Add returns p + q. Adding a point to its negation yields the point at
// infinity.
func (p Point) Add(q Point) Point {
	var a, b, r jacobianPoint
	a.setGE(p)
	b.setGE(q)
	r.addVar(&a, &b)
	return r.toAffine()
}

// Subtract returns p - q
func (p Point) Subtract(q Point) Point {
	return p.Add(q.Negate())
}

// hasEvenY returns true if the y coordinate is even
func (p Point) hasEvenY() bool {
	return p.y.Bit(0) == 0
}

// SerializeCompressed returns the 33-byte encoding 0x02/0x03 || x. The point at
// infinity serializes to the single byte 0x00.
func (p Point) SerializeCompressed() []byte {
	if p.IsInfinity() {
		return []byte{0x00}
	}
	b := make([]byte, 0, PubKeyBytesLenCompressed)
	format := pubKeyFormatCompressedEven
	if !p.hasEvenY() {
		format = pubKeyFormatCompressedOdd
	}
	b = append(b, format)
	return append(b, intToBytes32(p.x)...)
}

// SerializeUncompressed returns the 65-byte encoding 0x04 || x || y. The point
// at infinity serializes to the single byte 0x00.
func (p Point) SerializeUncompressed() []byte {
	if p.IsInfinity() {
		return []byte{0x00}
	}
	b := make([]byte, 0, PubKeyBytesLenUncompressed)
	b = append(b, pubKeyFormatUncompressed)
	b = append(b, intToBytes32(p.x)...)
	return append(b, intToBytes32(p.y)...)
}

// Hex returns the lowercase hex encoding of the compressed or uncompressed
// serialization, without a 0x prefix.
func (p Point) Hex(compressed bool) string {
	if compressed {
		return hex.EncodeToString(p.SerializeCompressed())
	}
	return hex.EncodeToString(p.SerializeUncompressed())
}

// String implements fmt.Stringer
func (p Point) String() string {
	if p.IsInfinity() {
		return "Point(infinity)"
	}
	return "Point(" + p.Hex(false) + ")"
}

// decompressY returns the y coordinate with the requested parity for x, or
// false if x is not the x coordinate of a curve point.
func decompressY(x *big.Int, odd bool) (*big.Int, bool) {
	if x.Sign() < 0 || x.Cmp(curveP) >= 0 {
		return nil, false
	}
	y2 := weierstrass(x)
	y := modPow(y2, sqrtExp, curveP)
	if modP(new(big.Int).Mul(y, y)).Cmp(y2) != 0 {
		return nil, false
	}
	if (y.Bit(0) == 1) != odd {
		y = modP(y.Neg(y))
	}
	return y, true
}

// ParsePoint parses a compressed (33 bytes) or uncompressed (65 bytes)
// encoding of a curve point.
func ParsePoint(b []byte) (Point, error) {
	switch len(b) {
	case PubKeyBytesLenCompressed:
		format := b[0]
		if format != pubKeyFormatCompressedEven && format != pubKeyFormatCompressedOdd {
			return Point{}, makeError(ErrInvalidPointFormat, "invalid compressed point header")
		}
		x := bytesToInt(b[1:33])
		if x.Cmp(curveP) >= 0 {
			return Point{}, makeError(ErrPointNotOnCurve, "x coordinate is not below the field prime")
		}
		y, ok := decompressY(x, format == pubKeyFormatCompressedOdd)
		if !ok {
			return Point{}, makeError(ErrPointNotOnCurve, "x coordinate has no point on the curve")
		}
		return Point{x: x, y: y}, nil

	case PubKeyBytesLenUncompressed:
		if b[0] != pubKeyFormatUncompressed {
			return Point{}, makeError(ErrInvalidPointFormat, "invalid uncompressed point header")
		}
		return NewPoint(bytesToInt(b[1:33]), bytesToInt(b[33:65]))

	default:
		return Point{}, makeError(ErrInvalidInputLength, "point must be 33 or 65 bytes")
	}
}

// ParsePointHex parses a hex encoded point, with or without a 0x prefix.
func ParsePointHex(s string) (Point, error) {
	b, err := decodeHex(s)
	if err != nil {
		return Point{}, err
	}
	return ParsePoint(b)
}

// decodeHex decodes s with an optional 0x prefix.
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, makeError(ErrInvalidHex, "invalid hex string: "+err.Error())
	}
	return b, nil
}

// Jacobian coordinate operations

// setInfinity sets the Jacobian point to the point at infinity
func (r *jacobianPoint) setInfinity() {
	r.x = big.NewInt(0)
	r.y = big.NewInt(1)
	r.z = big.NewInt(0)
	r.infinity = true
}

// isInfinity returns true if the Jacobian point is the point at infinity
func (r *jacobianPoint) isInfinity() bool {
	return r.infinity
}

// set copies a into r
func (r *jacobianPoint) set(a *jacobianPoint) {
	r.x = new(big.Int).Set(a.x)
	r.y = new(big.Int).Set(a.y)
	r.z = new(big.Int).Set(a.z)
	r.infinity = a.infinity
}

// setGE sets a Jacobian point from an affine point
func (r *jacobianPoint) setGE(a Point) {
	if a.IsInfinity() {
		r.setInfinity()
		return
	}
	r.x = new(big.Int).Set(a.x)
	r.y = new(big.Int).Set(a.y)
	r.z = big.NewInt(1)
	r.infinity = false
}

// toAffine converts r to affine coordinates using one field inversion
func (r *jacobianPoint) toAffine() Point {
	if r.infinity || r.z.Sign() == 0 {
		return Infinity()
	}
	return r.toAffineWithInv(mustInverse(r.z, curveP))
}

// toAffineWithInv converts r to affine coordinates given invZ = 1/z, as
// produced by batchInverse.
func (r *jacobianPoint) toAffineWithInv(invZ *big.Int) Point {
	if r.infinity || r.z.Sign() == 0 {
		return Infinity()
	}
	z2 := modP(new(big.Int).Mul(invZ, invZ))
	z3 := modP(new(big.Int).Mul(z2, invZ))
	return Point{
		x: modP(new(big.Int).Mul(r.x, z2)),
		y: modP(new(big.Int).Mul(r.y, z3)),
	}
}

// negate sets r to the negation of a
func (r *jacobianPoint) negate(a *jacobianPoint) {
	if a.infinity {
		r.setInfinity()
		return
	}
	r.x = new(big.Int).Set(a.x)
	r.y = modP(new(big.Int).Neg(a.y))
	r.z = new(big.Int).Set(a.z)
	r.infinity = false
}

// mulLambda sets r = lambda*a by applying the endomorphism (x, y) -> (beta*x, y)
func (r *jacobianPoint) mulLambda(a *jacobianPoint) {
	if a.infinity {
		r.setInfinity()
		return
	}
	r.x = modP(new(big.Int).Mul(a.x, betaConstant))
	r.y = new(big.Int).Set(a.y)
	r.z = new(big.Int).Set(a.z)
	r.infinity = false
}

// equal compares two Jacobian points by cross-multiplying the z factors
func (r *jacobianPoint) equal(a *jacobianPoint) bool {
	if r.infinity || a.infinity {
		return r.infinity == a.infinity
	}
	z1z1 := modP(new(big.Int).Mul(r.z, r.z))
	z2z2 := modP(new(big.Int).Mul(a.z, a.z))
	u1 := modP(new(big.Int).Mul(r.x, z2z2))
	u2 := modP(new(big.Int).Mul(a.x, z1z1))
	if u1.Cmp(u2) != 0 {
		return false
	}
	s1 := modP(new(big.Int).Mul(r.y, modP(new(big.Int).Mul(z2z2, a.z))))
	s2 := modP(new(big.Int).Mul(a.y, modP(new(big.Int).Mul(z1z1, r.z))))
	return s1.Cmp(s2) == 0
}

// double sets r = 2*a (dbl-2009-l for a = 0)
func (r *jacobianPoint) double(a *jacobianPoint) {
	if a.infinity || a.y.Sign() == 0 {
		r.setInfinity()
		return
	}

	// A = X1^2, B = Y1^2, C = B^2
	A := modP(new(big.Int).Mul(a.x, a.x))
	B := modP(new(big.Int).Mul(a.y, a.y))
	C := modP(new(big.Int).Mul(B, B))

	// D = 2*((X1+B)^2 - A - C)
	D := new(big.Int).Add(a.x, B)
	D.Mul(D, D)
	D.Sub(D, A)
	D.Sub(D, C)
	D = modP(D.Lsh(D, 1))

	// E = 3*A, F = E^2
	E := modP(new(big.Int).Mul(A, bigThree))
	F := modP(new(big.Int).Mul(E, E))

	// X3 = F - 2*D
	x3 := modP(new(big.Int).Sub(F, new(big.Int).Lsh(D, 1)))

	// Y3 = E*(D - X3) - 8*C
	y3 := new(big.Int).Sub(D, x3)
	y3.Mul(y3, E)
	y3.Sub(y3, new(big.Int).Mul(C, bigEight))
	y3 = modP(y3)

	// Z3 = 2*Y1*Z1
	z3 := new(big.Int).Mul(a.y, a.z)
	z3 = modP(z3.Lsh(z3, 1))

	r.x, r.y, r.z = x3, y3, z3
	r.infinity = false
}

// addVar sets r = a + b (variable-time point addition in Jacobian coordinates)
func (r *jacobianPoint) addVar(a, b *jacobianPoint) {
	if a.infinity {
		r.set(b)
		return
	}
	if b.infinity {
		r.set(a)
		return
	}

	z1z1 := modP(new(big.Int).Mul(a.z, a.z))
	z2z2 := modP(new(big.Int).Mul(b.z, b.z))

	// U1 = X1*Z2^2, U2 = X2*Z1^2
	u1 := modP(new(big.Int).Mul(a.x, z2z2))
	u2 := modP(new(big.Int).Mul(b.x, z1z1))

	// S1 = Y1*Z2^3, S2 = Y2*Z1^3
	s1 := modP(new(big.Int).Mul(a.y, modP(new(big.Int).Mul(b.z, z2z2))))
	s2 := modP(new(big.Int).Mul(b.y, modP(new(big.Int).Mul(a.z, z1z1))))

	// H = U2 - U1, R = S2 - S1
	h := modP(new(big.Int).Sub(u2, u1))
	rr := modP(new(big.Int).Sub(s2, s1))

	if h.Sign() == 0 {
		if rr.Sign() == 0 {
			// a == b
			r.double(a)
			return
		}
		// a == -b
		r.setInfinity()
		return
	}

	hh := modP(new(big.Int).Mul(h, h))
	hhh := modP(new(big.Int).Mul(hh, h))
	v := modP(new(big.Int).Mul(u1, hh))

	// X3 = R^2 - H^3 - 2*V
	x3 := new(big.Int).Mul(rr, rr)
	x3.Sub(x3, hhh)
	x3.Sub(x3, new(big.Int).Lsh(v, 1))
	x3 = modP(x3)

	// Y3 = R*(V - X3) - S1*H^3
	y3 := new(big.Int).Sub(v, x3)
	y3.Mul(y3, rr)
	y3.Sub(y3, new(big.Int).Mul(s1, hhh))
	y3 = modP(y3)

	// Z3 = Z1*Z2*H
	z3 := new(big.Int).Mul(a.z, b.z)
	z3 = modP(z3.Mul(z3, h))

	r.x, r.y, r.z = x3, y3, z3
	r.infinity = false
}
