package ethsig

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"hash"
	"math/big"

	sha256simd "github.com/minio/sha256-simd"
)

// HMAC computes HMAC-SHA256(key, parts[0] || parts[1] || ...). Identical
// inputs must always produce identical outputs. Implementations may block,
// for example when the key material lives behind a process or enclave
// boundary, and should honour ctx.
type HMAC interface {
	Sum(ctx context.Context, key []byte, parts ...[]byte) ([]byte, error)
}

// HMACFunc adapts an ordinary function to the HMAC interface.
type HMACFunc func(ctx context.Context, key []byte, parts ...[]byte) ([]byte, error)

// Sum calls f(ctx, key, parts...).
func (f HMACFunc) Sum(ctx context.Context, key []byte, parts ...[]byte) ([]byte, error) {
	return f(ctx, key, parts...)
}

const (
	// HMACSimd selects the sha256-simd backed HMAC provider
	HMACSimd = "simd"

	// HMACStd selects the crypto/hmac backed HMAC provider
	HMACStd = "std"
)

var hmacProviders = map[string]HMAC{
	HMACSimd: HMACFunc(simdHMAC),
	HMACStd:  HMACFunc(stdHMAC),
}

// LookupHMAC returns the named HMAC-SHA256 provider.
func LookupHMAC(name string) (HMAC, error) {
	if h, ok := hmacProviders[name]; ok {
		return h, nil
	}
	return nil, makeError(ErrHMACUnavailable, "unknown HMAC provider "+name)
}

// hmacSHA256 represents an HMAC-SHA256 context over sha256-simd
type hmacSHA256 struct {
	inner, outer hash.Hash
}

// newHMACSHA256 creates a new HMAC-SHA256 context with the given key
func newHMACSHA256(key []byte) *hmacSHA256 {
	h := &hmacSHA256{}

	// keys longer than the block size are hashed first
	var rkey [sha256.BlockSize]byte
	if len(key) <= sha256.BlockSize {
		copy(rkey[:], key)
	} else {
		sum := sha256simd.Sum256(key)
		copy(rkey[:], sum[:])
	}

	// outer hash with key XOR 0x5c
	h.outer = sha256simd.New()
	for i := range rkey {
		rkey[i] ^= 0x5c
	}
	h.outer.Write(rkey[:])

	// inner hash with key XOR 0x36
	h.inner = sha256simd.New()
	for i := range rkey {
		rkey[i] ^= 0x5c ^ 0x36
	}
	h.inner.Write(rkey[:])

	clear(rkey[:])
	return h
}

// Write writes data to the inner hash
func (h *hmacSHA256) Write(data []byte) {
	h.inner.Write(data)
}

// Finalize returns the 32-byte MAC
func (h *hmacSHA256) Finalize() []byte {
	var temp [sha256.Size]byte
	h.inner.Sum(temp[:0])
	h.outer.Write(temp[:])
	clear(temp[:])
	return h.outer.Sum(nil)
}

func simdHMAC(ctx context.Context, key []byte, parts ...[]byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := newHMACSHA256(key)
	for _, p := range parts {
		h.Write(p)
	}
	return h.Finalize(), nil
}

func stdHMAC(ctx context.Context, key []byte, parts ...[]byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := hmac.New(sha256.New, key)
	for _, p := range parts {
		m.Write(p)
	}
	return m.Sum(nil), nil
}

// maxNonceIterations bounds the RFC 6979 candidate loop
const maxNonceIterations = 1000

// rfc6979 implements RFC 6979 deterministic nonce generation (section 3.2)
// on top of an injected HMAC.
type rfc6979 struct {
	mac  HMAC
	v, k []byte
}

// sum calls the HMAC after checking ctx
func (g *rfc6979) sum(ctx context.Context, key []byte, parts ...[]byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.mac.Sum(ctx, key, parts...)
}

// setup runs steps b through g for the private key x and the reduced message
// representative h1, both 32 bytes.
func (g *rfc6979) setup(ctx context.Context, x, h1 []byte) (err error) {
	// V = 0x01 0x01 0x01 ... 0x01, K = 0x00 0x00 0x00 ... 0x00
	g.v = make([]byte, 32)
	for i := range g.v {
		g.v[i] = 0x01
	}
	g.k = make([]byte, 32)

	// K = HMAC_K(V || 0x00 || x || h1), V = HMAC_K(V)
	if g.k, err = g.sum(ctx, g.k, g.v, []byte{0x00}, x, h1); err != nil {
		return err
	}
	if g.v, err = g.sum(ctx, g.k, g.v); err != nil {
		return err
	}

	// K = HMAC_K(V || 0x01 || x || h1), V = HMAC_K(V)
	if g.k, err = g.sum(ctx, g.k, g.v, []byte{0x01}, x, h1); err != nil {
		return err
	}
	g.v, err = g.sum(ctx, g.k, g.v)
	return err
}

// next produces the next nonce candidate T = HMAC_K(V)
func (g *rfc6979) next(ctx context.Context) (t *big.Int, err error) {
	if g.v, err = g.sum(ctx, g.k, g.v); err != nil {
		return nil, err
	}
	return bytesToInt(g.v), nil
}

// reseed updates the state after a rejected candidate:
// K = HMAC_K(V || 0x00), V = HMAC_K(V)
func (g *rfc6979) reseed(ctx context.Context) (err error) {
	if g.k, err = g.sum(ctx, g.k, g.v, []byte{0x00}); err != nil {
		return err
	}
	g.v, err = g.sum(ctx, g.k, g.v)
	return err
}

// clear wipes the generator state
func (g *rfc6979) clear() {
	clear(g.k)
	clear(g.v)
}
