package ethsig

import (
	"math/big"
	"testing"
)

func TestGLVConstants(t *testing.T) {
	// beta^3 == 1 mod p
	if modPow(betaConstant, bigThree, curveP).Cmp(bigOne) != 0 {
		t.Error("beta is not a cube root of unity modulo p")
	}
	// lambda^3 == 1 mod n
	if modPow(lambdaConstant, bigThree, curveN).Cmp(bigOne) != 0 {
		t.Error("lambda is not a cube root of unity modulo n")
	}

	// lambda*G == (beta*Gx, Gy)
	lg, err := Generator().MultiplyUnsafe(lambdaConstant)
	if err != nil {
		t.Fatal(err)
	}
	want := Point{x: modP(new(big.Int).Mul(betaConstant, curveGx)), y: new(big.Int).Set(curveGy)}
	if !lg.Equal(want) {
		t.Error("lambda*G does not match the endomorphism")
	}

	// a1 + b1*lambda == 0 and a2 + b2*lambda == 0 mod n
	for i, v := range [][2]*big.Int{{glvA1, glvB1}, {glvA2, glvB2}} {
		s := new(big.Int).Mul(v[1], lambdaConstant)
		if modN(s.Add(s, v[0])).Sign() != 0 {
			t.Errorf("basis vector %d is not in the lattice", i+1)
		}
	}
}

func TestMulLambda(t *testing.T) {
	p := randomPoint(t)
	var a jacobianPoint
	a.setGE(p)
	a.mulLambda(&a)

	want, err := p.MultiplyUnsafe(lambdaConstant)
	if err != nil {
		t.Fatal(err)
	}
	if !a.toAffine().Equal(want) {
		t.Error("mulLambda(P) != lambda*P")
	}
}

// checkSplit verifies k == k1 + k2*lambda mod n and that both halves fit in
// 129 bits
func checkSplit(t *testing.T, k *big.Int) {
	t.Helper()
	k1neg, k1, k2neg, k2 := splitScalar(k)

	a := new(big.Int).Set(k1)
	if k1neg {
		a.Neg(a)
	}
	b := new(big.Int).Set(k2)
	if k2neg {
		b.Neg(b)
	}
	sum := new(big.Int).Mul(b, lambdaConstant)
	sum.Add(sum, a)
	if modN(sum).Cmp(modN(k)) != 0 {
		t.Fatalf("split of %x does not recombine", k)
	}
	if k1.BitLen() > 129 || k2.BitLen() > 129 {
		t.Fatalf("split of %x too large: %d and %d bits", k, k1.BitLen(), k2.BitLen())
	}
	if k1.Sign() < 0 || k2.Sign() < 0 {
		t.Fatal("magnitudes must not be negative")
	}
}

func TestSplitScalar(t *testing.T) {
	edge := []*big.Int{
		big.NewInt(1),
		big.NewInt(2),
		new(big.Int).Sub(curveN, bigOne),
		new(big.Int).Sub(curveN, bigTwo),
		new(big.Int).Set(halfN),
		new(big.Int).Set(lambdaConstant),
		new(big.Int).Lsh(bigOne, 128),
		new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne),
	}
	for _, k := range edge {
		checkSplit(t, k)
	}
	for i := 0; i < iterations(t); i++ {
		checkSplit(t, randomScalar(t))
	}
}

func TestSplitScalarLambda(t *testing.T) {
	// lambda splits into (0, 1)
	k1neg, k1, k2neg, k2 := splitScalar(lambdaConstant)
	a := new(big.Int).Set(k1)
	if k1neg {
		a.Neg(a)
	}
	b := new(big.Int).Set(k2)
	if k2neg {
		b.Neg(b)
	}
	sum := new(big.Int).Mul(b, lambdaConstant)
	sum.Add(sum, a)
	if modN(sum).Cmp(lambdaConstant) != 0 {
		t.Error("lambda does not recombine")
	}
}
