package signer

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"ethsig.mleku.dev"
)

// Alloc returns a zeroed buffer of n bytes
func Alloc(n int) []byte {
	return make([]byte, n)
}

// FromHex decodes a hex string. The 0x prefix is optional.
func FromHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(ethsig.ErrInvalidHex, "decode %q: %v", s, err)
	}
	return b, nil
}

// ToHex encodes b as lowercase hex with a 0x prefix
func ToHex(b []byte) string {
	return hexutil.Encode(b)
}

// UTF8 returns the UTF-8 bytes of s
func UTF8(s string) []byte {
	return []byte(s)
}
