package ethsig

import (
	"math/big"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

const (
	// DefaultBaseWindow is the wNAF window used for the generator table
	DefaultBaseWindow = 8

	// maxWindow bounds the table size at 2^(w-1) * (128/w + 2) points
	maxWindow = 8

	// tableCacheSize is the number of non-generator tables kept in memory
	tableCacheSize = 128
)

// precomputeTable holds the multiples used by the wNAF loop. For each window
// i it stores 1..2^(w-1) times 2^(i*w)*P, normalized to z = 1 unless w == 1.
type precomputeTable struct {
	window int
	points []*jacobianPoint
}

var (
	// baseTable is pinned outside of the LRU so that the generator table
	// can never be evicted.
	baseTable     *precomputeTable
	baseTableOnce sync.Once

	tableCache *lru.Cache
)

func init() {
	var err error
	if tableCache, err = lru.New(tableCacheSize); err != nil {
		panic(err)
	}
}

// validWindow reports whether w is a supported power-of-two window width
func validWindow(w int) bool {
	return w >= 1 && w <= maxWindow && w&(w-1) == 0
}

// ensureBaseTable builds the generator table with the given window the first
// time it is called. Later calls return the existing table whatever window
// they ask for.
func ensureBaseTable(window int) *precomputeTable {
	baseTableOnce.Do(func() {
		if !validWindow(window) {
			window = DefaultBaseWindow
		}
		baseTable = buildTable(Generator(), window)
	})
	return baseTable
}

// Precompute builds the wNAF table of p for the given window and caches it,
// keyed by the compressed encoding of p. Subsequent multiplications of p use
// the table. The first table stored for a point wins; later calls for the
// same point are no-ops.
func Precompute(p Point, window int) error {
	if p.IsInfinity() {
		return makeError(ErrInvalidPublicKey, "can not precompute the point at infinity")
	}
	if !p.IsOnCurve() {
		return makeError(ErrPointNotOnCurve, "can not precompute a point that is not on the curve")
	}
	if !validWindow(window) {
		return makeError(ErrInvalidConfig, "precompute window must be one of 1, 2, 4 or 8")
	}
	if p.Equal(Generator()) {
		ensureBaseTable(window)
		return nil
	}
	key := string(p.SerializeCompressed())
	if tableCache.Contains(key) {
		return nil
	}
	t := buildTable(p, window)
	if ok, _ := tableCache.ContainsOrAdd(key, t); ok {
		log.Debugw("discarded redundant precompute table", "point", p.Hex(true)[:8])
	}
	return nil
}

// tableFor returns the cached table for p. Points without a registered table
// get a window 1 table that is not cached.
func tableFor(p Point) *precomputeTable {
	if p.Equal(Generator()) {
		return ensureBaseTable(DefaultBaseWindow)
	}
	if v, ok := tableCache.Get(string(p.SerializeCompressed())); ok {
		return v.(*precomputeTable)
	}
	return buildTable(p, 1)
}

// buildTable computes the precompute table of p
func buildTable(p Point, window int) *precomputeTable {
	if p.IsInfinity() {
		panic("buildTable: point at infinity")
	}
	windows := 128/window + 2
	perWindow := 1 << (window - 1)
	points := make([]*jacobianPoint, 0, windows*perWindow)

	var cur jacobianPoint
	cur.setGE(p)
	for w := 0; w < windows; w++ {
		base := new(jacobianPoint)
		base.set(&cur)
		points = append(points, base)
		for i := 1; i < perWindow; i++ {
			next := new(jacobianPoint)
			next.addVar(base, &cur)
			points = append(points, next)
			base = next
		}
		cur.double(base)
	}

	if window != 1 {
		affine := toAffineBatch(points)
		for i := range points {
			points[i].setGE(affine[i])
		}
		log.Debugw("built precompute table",
			"point", p.Hex(true)[:8], "window", window, "points", len(points))
	}
	return &precomputeTable{window: window, points: points}
}

// toAffineBatch converts points to affine coordinates with a single field
// inversion.
func toAffineBatch(points []*jacobianPoint) []Point {
	zs := make([]*big.Int, len(points))
	for i, p := range points {
		if p.infinity {
			zs[i] = big.NewInt(0)
			continue
		}
		zs[i] = p.z
	}
	inv, err := batchInverse(zs, curveP)
	if err != nil {
		panic(err)
	}
	out := make([]Point, len(points))
	for i, p := range points {
		if p.infinity || zs[i].Sign() == 0 {
			out[i] = Infinity()
			continue
		}
		out[i] = p.toAffineWithInv(inv[i])
	}
	return out
}

// wnaf computes n*P for a half-length scalar n >= 0 from the table of P.
// Windows are scanned least significant first with signed digits in
// (-2^(w-1), 2^(w-1)]; zero digits are skipped.
func (t *precomputeTable) wnaf(n *big.Int) *jacobianPoint {
	w := uint(t.window)
	windows := 128/t.window + 2
	windowSize := 1 << (w - 1)
	maxNumber := 1 << w
	mask := big.NewInt(int64(maxNumber - 1))

	n = new(big.Int).Set(n)
	digit := new(big.Int)

	var p jacobianPoint
	p.setInfinity()
	for window := 0; window < windows; window++ {
		offset := window * windowSize
		wbits := int(digit.And(n, mask).Int64())
		n.Rsh(n, w)
		if wbits > windowSize {
			wbits -= maxNumber
			n.Add(n, bigOne)
		}
		if wbits == 0 {
			continue
		}
		if wbits < 0 {
			var neg jacobianPoint
			neg.negate(t.points[offset-wbits-1])
			p.addVar(&p, &neg)
		} else {
			p.addVar(&p, t.points[offset+wbits-1])
		}
	}
	return &p
}
