package keccak

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidHex is returned by Hex for 0x prefixed input that is not an even
// number of hex digits.
var ErrInvalidHex = errors.New("invalid hex input")

// Hex returns "0x" followed by the 64 lowercase hex digits of the Keccak-256
// digest of input. Input starting with "0x" is decoded as hex unless
// forceUTF8 is set; any other input is hashed as its UTF-8 bytes.
func Hex(input string, forceUTF8 bool) (string, error) {
	data := []byte(input)
	if !forceUTF8 && strings.HasPrefix(input, "0x") {
		var err error
		if data, err = hex.DecodeString(input[2:]); err != nil {
			return "", errors.Wrapf(ErrInvalidHex, "%q: %v", input, err)
		}
	}
	sum := Sum256(data)
	return "0x" + hex.EncodeToString(sum[:]), nil
}

// HexBytes returns "0x" followed by the 64 lowercase hex digits of the
// Keccak-256 digest of data.
func HexBytes(data []byte) string {
	sum := Sum256(data)
	return "0x" + hex.EncodeToString(sum[:])
}
