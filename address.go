package ethsig

import (
	"encoding/hex"
	"math/big"
	"strings"

	"ethsig.mleku.dev/keccak"
)

// AddressLength is the length of an account address in bytes
const AddressLength = 20

// PublicKeyToAddress returns the EIP-55 checksummed address of pub: the last
// 20 bytes of keccak256(x || y).
func PublicKeyToAddress(pub Point) string {
	raw := pub.SerializeUncompressed()[1:]
	sum := keccak.Sum256(raw)
	return checksum(hex.EncodeToString(sum[32-AddressLength:]))
}

// AddressFromPrivateKey returns the checksummed address of d*G
func AddressFromPrivateKey(d *big.Int) (string, error) {
	pub, err := GetPublicKey(d)
	if err != nil {
		return "", err
	}
	return PublicKeyToAddress(pub), nil
}

// ChecksumAddress applies EIP-55 mixed-case encoding to a 0x prefixed
// address of 40 hex digits in any case.
func ChecksumAddress(addr string) (string, error) {
	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		return "", makeError(ErrInvalidHex, "address must start with 0x")
	}
	body := addr[2:]
	if len(body) != 2*AddressLength {
		return "", makeError(ErrInvalidInputLength, "address must have 40 hex digits")
	}
	if _, err := hex.DecodeString(body); err != nil {
		return "", makeError(ErrInvalidHex, "address is not hex: "+err.Error())
	}
	return checksum(strings.ToLower(body)), nil
}

// IsChecksumAddress reports whether addr is a valid address whose casing
// matches its EIP-55 checksum.
func IsChecksumAddress(addr string) bool {
	sum, err := ChecksumAddress(addr)
	return err == nil && sum == addr
}

// checksum uppercases every hex letter of the lowercase address body whose
// nibble in keccak256(body) is greater than 7.
func checksum(lower string) string {
	hash := keccak.Sum256([]byte(lower))
	out := make([]byte, 2, 2+len(lower))
	copy(out, "0x")
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		nibble := hash[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f > 7 && c >= 'a' && c <= 'f' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// SignerAddress recovers the public key of a signature carrying a recovery id
// and returns its checksummed address.
func SignerAddress(digest []byte, sig *Signature) (string, error) {
	pub, err := RecoverSignaturePublicKey(digest, sig)
	if err != nil {
		return "", err
	}
	return PublicKeyToAddress(pub), nil
}
