package ethsig

import (
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// PrivKeyBytesLen is the length of a serialized private key
const PrivKeyBytesLen = 32

// maxKeyGenAttempts bounds the rejection sampling of GeneratePrivateKey
const maxKeyGenAttempts = 128

// IsValidPrivateKey reports whether 0 < d < n
func IsValidPrivateKey(d *big.Int) bool {
	return inScalarRange(d)
}

// ParsePrivateKey parses a 32-byte big-endian private key
func ParsePrivateKey(b []byte) (*big.Int, error) {
	if len(b) != PrivKeyBytesLen {
		return nil, makeError(ErrInvalidInputLength, "private key must be 32 bytes")
	}
	d := bytesToInt(b)
	if !IsValidPrivateKey(d) {
		return nil, makeError(ErrInvalidPrivateKey, "private key must be in [1, n-1]")
	}
	return d, nil
}

// ParsePrivateKeyHex parses a 64 character hex private key with an optional
// 0x prefix.
func ParsePrivateKeyHex(s string) (*big.Int, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	defer clear(b)
	return ParsePrivateKey(b)
}

// PrivateKeyBytes returns the 32-byte big-endian encoding of d
func PrivateKeyBytes(d *big.Int) []byte {
	return intToBytes32(d)
}

// GetPublicKey returns d*G
func GetPublicKey(d *big.Int) (Point, error) {
	if !IsValidPrivateKey(d) {
		return Point{}, makeError(ErrInvalidPrivateKey, "private key must be in [1, n-1]")
	}
	return ecmultBase(d).toAffine(), nil
}

// GeneratePrivateKey draws 32 bytes from the random source of the context
// until they form a valid private key.
func (c *Context) GeneratePrivateKey() (*big.Int, error) {
	var buf [PrivKeyBytesLen]byte
	defer clear(buf[:])
	for i := 0; i < maxKeyGenAttempts; i++ {
		if _, err := io.ReadFull(c.random, buf[:]); err != nil {
			return nil, errors.Wrap(err, "read random private key")
		}
		if d := bytesToInt(buf[:]); IsValidPrivateKey(d) {
			return d, nil
		}
	}
	return nil, makeError(ErrInvalidPrivateKey, "random source produced no valid private key")
}
