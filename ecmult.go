package ethsig

import (
	"math/big"
)

// Multiply returns k*p using the GLV split and the wNAF table of p. Points
// without a table registered by Precompute use window 1. k must be in
// [1, n-1].
func (p Point) Multiply(k *big.Int) (Point, error) {
	if k == nil || k.Sign() <= 0 || k.Cmp(curveN) >= 0 {
		return Point{}, makeError(ErrInvalidScalar, "scalar must be in [1, n-1]")
	}
	if p.IsInfinity() {
		return Infinity(), nil
	}
	return ecmultTable(tableFor(p), k).toAffine(), nil
}

// MultiplyUnsafe returns k*p by plain double-and-add over the GLV split. It
// is meant for public scalars only. k is reduced modulo n and must not be
// zero after the reduction.
func (p Point) MultiplyUnsafe(k *big.Int) (Point, error) {
	if k == nil {
		return Point{}, makeError(ErrInvalidScalar, "missing scalar")
	}
	n := modN(k)
	if n.Sign() == 0 {
		return Point{}, makeError(ErrInvalidScalar, "scalar is zero modulo n")
	}
	var a jacobianPoint
	a.setGE(p)
	return ecmultUnsafe(&a, n).toAffine(), nil
}

// ecmultTable computes r = k*P from the precompute table of P
func ecmultTable(t *precomputeTable, k *big.Int) *jacobianPoint {
	k1neg, k1, k2neg, k2 := splitScalar(k)
	k1p := t.wnaf(k1)
	k2p := t.wnaf(k2)
	return combineSplit(k1p, k1neg, k2p, k2neg)
}

// ecmultUnsafe computes r = k*a with one shared doubling chain for both
// halves of the GLV split.
func ecmultUnsafe(a *jacobianPoint, k *big.Int) *jacobianPoint {
	k1neg, k1, k2neg, k2 := splitScalar(k)

	var k1p, k2p, d jacobianPoint
	k1p.setInfinity()
	k2p.setInfinity()
	d.set(a)
	for k1.Sign() > 0 || k2.Sign() > 0 {
		if k1.Bit(0) == 1 {
			k1p.addVar(&k1p, &d)
		}
		if k2.Bit(0) == 1 {
			k2p.addVar(&k2p, &d)
		}
		d.double(&d)
		k1.Rsh(k1, 1)
		k2.Rsh(k2, 1)
	}
	return combineSplit(&k1p, k1neg, &k2p, k2neg)
}

// ecmultBase computes k*G from the pinned generator table
func ecmultBase(k *big.Int) *jacobianPoint {
	return ecmultTable(ensureBaseTable(DefaultBaseWindow), k)
}

// ecmultDouble computes u1*G + u2*q. A zero u1 drops the generator term.
// u2 must be non-zero modulo n.
func ecmultDouble(u1, u2 *big.Int, q Point) Point {
	var qj jacobianPoint
	qj.setGE(q)
	r := ecmultUnsafe(&qj, u2)
	if u1.Sign() != 0 {
		r.addVar(ecmultBase(u1), r)
	}
	return r.toAffine()
}
