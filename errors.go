package commutative

import "github.com/pkg/errors"

// Every error returned by this package wraps one of these values, so callers can test with errors.Is
var (
	// ErrInvalidArgument indicates a missing or malformed input
	ErrInvalidArgument = errors.New("commutative: invalid argument")

	// ErrInvalidEncoding indicates an unsupported text encoding was requested
	ErrInvalidEncoding = errors.New("commutative: invalid encoding")

	// ErrInvalidPrime indicates a candidate modulus is not a safe prime
	ErrInvalidPrime = errors.New("commutative: invalid prime")

	// ErrInvalidKey indicates an encryption exponent that is out of range or shares a factor with p-1
	ErrInvalidKey = errors.New("commutative: invalid key")

	// ErrDataTooLarge indicates a message whose integer value is not smaller than the modulus
	ErrDataTooLarge = errors.New("commutative: data too large")

	// ErrUnknownGroup indicates a named group that is not in the table of well-known groups
	ErrUnknownGroup = errors.New("commutative: unknown group")

	// ErrKeyGenerationFailed indicates the key generator exhausted its resampling budget
	ErrKeyGenerationFailed = errors.New("commutative: key generation failed")

	// ErrInvalidBitLength indicates a prime generation request for an unusable bit length
	ErrInvalidBitLength = errors.New("commutative: invalid bit length")
)
