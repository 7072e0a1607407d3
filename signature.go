package ethsig

import (
	"encoding/hex"
	"math/big"
)

const (
	// CompactSignatureLen is the length of r || s
	CompactSignatureLen = 64

	// RecoverableSignatureLen is the length of r || s || v
	RecoverableSignatureLen = 65

	asn1SequenceID = 0x30
	asn1IntegerID  = 0x02
)

// Signature is an ECDSA signature (r, s) with an optional recovery id
type Signature struct {
	r, s        *big.Int
	recoveryID  int
	hasRecovery bool
}

// NewSignature creates a signature from r and s, both in [1, n-1].
func NewSignature(r, s *big.Int) (*Signature, error) {
	if !inScalarRange(r) || !inScalarRange(s) {
		return nil, makeError(ErrInvalidSignature, "signature r and s must be in [1, n-1]")
	}
	return &Signature{r: new(big.Int).Set(r), s: new(big.Int).Set(s)}, nil
}

// NewRecoverableSignature creates a signature carrying a recovery id in
// [0, 3].
func NewRecoverableSignature(r, s *big.Int, recoveryID int) (*Signature, error) {
	if recoveryID < 0 || recoveryID > 3 {
		return nil, makeError(ErrInvalidRecoveryID, "recovery id must be in [0, 3]")
	}
	sig, err := NewSignature(r, s)
	if err != nil {
		return nil, err
	}
	sig.recoveryID = recoveryID
	sig.hasRecovery = true
	return sig, nil
}

// R returns a copy of r
func (sig *Signature) R() *big.Int { return new(big.Int).Set(sig.r) }

// S returns a copy of s
func (sig *Signature) S() *big.Int { return new(big.Int).Set(sig.s) }

// RecoveryID returns the recovery id and whether the signature carries one
func (sig *Signature) RecoveryID() (int, bool) {
	return sig.recoveryID, sig.hasRecovery
}

// WithRecoveryID returns a copy of the signature carrying the recovery id
func (sig *Signature) WithRecoveryID(recoveryID int) (*Signature, error) {
	return NewRecoverableSignature(sig.r, sig.s, recoveryID)
}

// IsLowS reports whether s <= n/2
func (sig *Signature) IsLowS() bool {
	return sig.s.Cmp(halfN) <= 0
}

// NormalizeS returns the low-S form of the signature. When s is negated the
// parity bit of the recovery id is toggled.
func (sig *Signature) NormalizeS() *Signature {
	out := &Signature{
		r:           new(big.Int).Set(sig.r),
		s:           new(big.Int).Set(sig.s),
		recoveryID:  sig.recoveryID,
		hasRecovery: sig.hasRecovery,
	}
	if !sig.IsLowS() {
		out.s.Sub(curveN, sig.s)
		out.recoveryID ^= 1
	}
	return out
}

// Equal reports whether two signatures have the same r and s
func (sig *Signature) Equal(other *Signature) bool {
	return sig.r.Cmp(other.r) == 0 && sig.s.Cmp(other.s) == 0
}

// minimalBytes returns the big-endian encoding of v without leading zeros,
// with at least one byte.
func minimalBytes(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 {
		return []byte{0}
	}
	return b
}

// SerializeDER returns 0x30 len 0x02 rlen r 0x02 slen s with r and s in
// minimal big-endian form. No 0x00 sign padding is added.
func (sig *Signature) SerializeDER() []byte {
	rb := minimalBytes(sig.r)
	sb := minimalBytes(sig.s)
	b := make([]byte, 0, 6+len(rb)+len(sb))
	b = append(b, asn1SequenceID, byte(4+len(rb)+len(sb)))
	b = append(b, asn1IntegerID, byte(len(rb)))
	b = append(b, rb...)
	b = append(b, asn1IntegerID, byte(len(sb)))
	return append(b, sb...)
}

// SerializeCompact returns r || s, 64 bytes
func (sig *Signature) SerializeCompact() []byte {
	b := make([]byte, 0, CompactSignatureLen)
	b = append(b, intToBytes32(sig.r)...)
	return append(b, intToBytes32(sig.s)...)
}

// SerializeRecoverable returns r || s || v, 65 bytes, with v the recovery id
// in [0, 3]. A signature without a recovery id encodes v = 0.
func (sig *Signature) SerializeRecoverable() []byte {
	b := make([]byte, 0, RecoverableSignatureLen)
	b = append(b, sig.SerializeCompact()...)
	if !sig.hasRecovery {
		return append(b, 0)
	}
	return append(b, byte(sig.recoveryID))
}

// Hex returns the lowercase hex of SerializeDER, or of SerializeCompact when
// compact is set.
func (sig *Signature) Hex(compact bool) string {
	if compact {
		return hex.EncodeToString(sig.SerializeCompact())
	}
	return hex.EncodeToString(sig.SerializeDER())
}

// ParseDERSignature parses the DER-like encoding produced by SerializeDER. It
// also accepts strict DER, whose integers may carry a 0x00 sign byte.
func ParseDERSignature(b []byte) (*Signature, error) {
	// 0x30 len 0x02 rlen r 0x02 slen s
	if len(b) < 8 || b[0] != asn1SequenceID {
		return nil, makeError(ErrInvalidSignatureEncoding, "malformed DER signature header")
	}
	if int(b[1]) != len(b)-2 {
		return nil, makeError(ErrInvalidSignatureEncoding, "DER length does not match signature length")
	}
	if b[2] != asn1IntegerID {
		return nil, makeError(ErrInvalidSignatureEncoding, "missing DER integer marker for r")
	}
	rLen := int(b[3])
	if rLen == 0 || rLen > 33 || 4+rLen+2 > len(b) {
		return nil, makeError(ErrInvalidSignatureEncoding, "invalid DER length of r")
	}
	rEnd := 4 + rLen
	if b[rEnd] != asn1IntegerID {
		return nil, makeError(ErrInvalidSignatureEncoding, "missing DER integer marker for s")
	}
	sLen := int(b[rEnd+1])
	if sLen == 0 || sLen > 33 || rEnd+2+sLen != len(b) {
		return nil, makeError(ErrInvalidSignatureEncoding, "invalid DER length of s")
	}
	r := bytesToInt(b[4:rEnd])
	s := bytesToInt(b[rEnd+2:])
	return NewSignature(r, s)
}

// ParseCompactSignature parses r || s
func ParseCompactSignature(b []byte) (*Signature, error) {
	if len(b) != CompactSignatureLen {
		return nil, makeError(ErrInvalidInputLength, "compact signature must be 64 bytes")
	}
	return NewSignature(bytesToInt(b[:32]), bytesToInt(b[32:]))
}

// ParseRecoverableSignature parses r || s || v
func ParseRecoverableSignature(b []byte) (*Signature, error) {
	if len(b) != RecoverableSignatureLen {
		return nil, makeError(ErrInvalidInputLength, "recoverable signature must be 65 bytes")
	}
	return NewRecoverableSignature(bytesToInt(b[:32]), bytesToInt(b[32:64]), int(b[64]))
}

// ParseSignature detects the encoding of b. Input with a valid DER structure
// is DER whatever its length; otherwise 65 bytes are r || s || v and 64 bytes
// are r || s.
func ParseSignature(b []byte) (*Signature, error) {
	if len(b) > 0 && b[0] == asn1SequenceID {
		sig, err := ParseDERSignature(b)
		if err == nil {
			return sig, nil
		}
		if len(b) != CompactSignatureLen && len(b) != RecoverableSignatureLen {
			return nil, err
		}
	}
	switch len(b) {
	case RecoverableSignatureLen:
		return ParseRecoverableSignature(b)
	case CompactSignatureLen:
		return ParseCompactSignature(b)
	}
	return nil, makeError(ErrInvalidSignatureEncoding, "unrecognized signature encoding")
}

// ParseSignatureHex decodes a hex signature with an optional 0x prefix and
// parses it with ParseSignature.
func ParseSignatureHex(s string) (*Signature, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	return ParseSignature(b)
}
