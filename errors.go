package ethsig

// ErrorKind identifies a kind of error. It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidInputLength is returned when a key, point, signature or digest
	// does not have the number of bytes its encoding requires.
	ErrInvalidInputLength = ErrorKind("ErrInvalidInputLength")

	// ErrInvalidScalar is returned when a scalar used as a multiplier, private
	// key or nonce is outside of the range [1, n-1].
	ErrInvalidScalar = ErrorKind("ErrInvalidScalar")

	// ErrPointNotOnCurve is returned when a pair of coordinates does not
	// satisfy y^2 = x^3 + 7 (mod P).
	ErrPointNotOnCurve = ErrorKind("ErrPointNotOnCurve")

	// ErrInvalidPointFormat is returned when a serialized point carries an
	// unknown header byte or a header that does not match its length.
	ErrInvalidPointFormat = ErrorKind("ErrInvalidPointFormat")

	// ErrInvalidSignatureEncoding is returned when a serialized signature can
	// not be parsed as any of the supported encodings.
	ErrInvalidSignatureEncoding = ErrorKind("ErrInvalidSignatureEncoding")

	// ErrInvalidSignature is returned when R or S of a signature are out of
	// range or when no public key can be recovered from it.
	ErrInvalidSignature = ErrorKind("ErrInvalidSignature")

	// ErrInvalidRecoveryID is returned when a recovery id is not in [0, 3].
	ErrInvalidRecoveryID = ErrorKind("ErrInvalidRecoveryID")

	// ErrNotInvertible is returned when a modular inverse does not exist.
	ErrNotInvertible = ErrorKind("ErrNotInvertible")

	// ErrNonceExhausted is returned when RFC 6979 produced no usable nonce
	// within the retry budget.
	ErrNonceExhausted = ErrorKind("ErrNonceExhausted")

	// ErrHMACUnavailable is returned when no HMAC-SHA256 capability can be
	// resolved for a Context.
	ErrHMACUnavailable = ErrorKind("ErrHMACUnavailable")

	// ErrInvalidPrivateKey is returned when a private key can not be parsed or
	// is not in [1, n-1].
	ErrInvalidPrivateKey = ErrorKind("ErrInvalidPrivateKey")

	// ErrInvalidPublicKey is returned when a public key is the point at
	// infinity or can not be parsed.
	ErrInvalidPublicKey = ErrorKind("ErrInvalidPublicKey")

	// ErrInvalidHex is returned when a string is not valid hexadecimal.
	ErrInvalidHex = ErrorKind("ErrInvalidHex")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = ErrorKind("ErrInvalidConfig")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to the curve, keys or signatures. It has
// full support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
