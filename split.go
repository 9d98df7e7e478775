package commutative

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// SplitBy determines how an exponent is divided into shards and how partial results combine.
// The two methods are not interoperable: shards must be applied with the method they were split by
type SplitBy int

const (
	// Multiplication produces shards whose product is congruent to the exponent mod p-1.
	// Partial results chain by exponentiation, so only the first party needs the message
	Multiplication SplitBy = iota

	// Addition produces shards whose sum is congruent to the exponent mod p-1.
	// Partial results chain by multiplication, so every party needs the message
	Addition
)

func (s SplitBy) String() string {
	switch s {
	case Multiplication:
		return "multiplication"
	case Addition:
		return "addition"
	default:
		return "unknown"
	}
}

// A KeyShard is one part of an exponent split among several parties. No single shard (or
// strict subset of shards) reproduces the exponent; applying all of them in any order does
type KeyShard struct {
	Modulus  *Modulus
	Exponent *big.Int
	SplitBy  SplitBy
}

// SplitEncryptionKey splits the encryption exponent of c into k shards
func (c *Cipher) SplitEncryptionKey(k int, splitBy SplitBy, opts ...Option) ([]*KeyShard, error) {
	return splitExponent(c.modulus, c.eReduced, k, splitBy, newOptions(opts))
}

// SplitDecryptionKey splits the decryption exponent of c into k shards
func (c *Cipher) SplitDecryptionKey(k int, splitBy SplitBy, opts ...Option) ([]*KeyShard, error) {
	return splitExponent(c.modulus, c.d, k, splitBy, newOptions(opts))
}

func splitExponent(m *Modulus, exponent *big.Int, k int, splitBy SplitBy, o *options) ([]*KeyShard, error) {
	if k < 2 {
		return nil, errors.Wrapf(ErrInvalidArgument, "cannot split key into %d shards", k)
	}

	var shards []*big.Int
	var err error
	switch splitBy {
	case Multiplication:
		shards, err = splitMultiplicative(m.order, exponent, k, o)
	case Addition:
		shards, err = splitAdditive(m.order, exponent, k, o)
	default:
		return nil, errors.Wrapf(ErrInvalidArgument, "unrecognized splitBy argument: %v", splitBy)
	}
	if err != nil {
		return nil, err
	}

	result := make([]*KeyShard, len(shards))
	for i, s := range shards {
		result[i] = &KeyShard{Modulus: m, Exponent: s, SplitBy: splitBy}
	}
	return result, nil
}

// each round splits the seed into a pair whose product is congruent to it (mod order) and
// sacrifices the second half of the pair as the next seed, until k shards exist
func splitMultiplicative(order *big.Int, exponent *big.Int, k int, o *options) ([]*big.Int, error) {
	shards := make([]*big.Int, 0, k)
	seed := exponent

	for len(shards) < k {
		shardA, err := validRandomNumber(o.random, order, seed, o.maxKeyAttempts)
		if err != nil {
			return nil, err
		}

		// shardA is coprime to order, so the inverse exists
		inverse := new(big.Int).ModInverse(shardA, order)
		if inverse == nil {
			return nil, errors.Wrap(ErrKeyGenerationFailed, "key shard has no inverse mod p-1")
		}
		shardB := new(big.Int).Mul(seed, inverse)
		shardB.Mod(shardB, order)

		shards = append(shards, shardA)
		if len(shards) == k-1 {
			shards = append(shards, shardB)
			break
		}
		seed = shardB
	}
	return shards, nil
}

// picks k-1 random shards and sets the last to whatever makes the sum congruent to exponent (mod order).
// A final shard of 0, 1 or a duplicate restarts the search
func splitAdditive(order *big.Int, exponent *big.Int, k int, o *options) ([]*big.Int, error) {
	for attempt := 1; attempt <= o.maxKeyAttempts; attempt++ {
		shards := make([]*big.Int, 0, k)
		sum := new(big.Int)

		for len(shards) < k-1 {
			r, err := validRandomNumber(o.random, order, exponent, o.maxKeyAttempts)
			if err != nil {
				return nil, err
			}
			if shardIn(shards, r) {
				continue
			}
			shards = append(shards, r)
			sum.Add(sum, r)
		}

		last := new(big.Int).Sub(exponent, sum)
		last.Mod(last, order)
		if last.Cmp(bigOne) <= 0 || shardIn(shards, last) {
			continue
		}
		return append(shards, last), nil
	}

	return nil, errors.Wrapf(ErrKeyGenerationFailed, "no additive split found after %d attempts", o.maxKeyAttempts)
}

// returns a random number in [2, order) that is coprime to order and not equal to seed
func validRandomNumber(random io.Reader, order *big.Int, seed *big.Int, maxAttempts int) (*big.Int, error) {
	span := new(big.Int).Sub(order, bigTwo)
	if span.Sign() <= 0 {
		return nil, errors.Wrapf(ErrKeyGenerationFailed, "group order %v leaves no valid key shards", order)
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		r, err := rand.Int(random, span)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read random key shard")
		}
		r.Add(r, bigTwo)

		if coprime(r, order) && r.Cmp(seed) != 0 {
			return r, nil
		}
	}
	return nil, errors.Wrapf(ErrKeyGenerationFailed, "no usable key shard after %d attempts", maxAttempts)
}

func shardIn(shards []*big.Int, shard *big.Int) bool {
	for _, s := range shards {
		if s.Cmp(shard) == 0 {
			return true
		}
	}
	return false
}

// PartialFirst applies the first shard to data, returning data^shard (mod p)
func PartialFirst(shard *KeyShard, data []byte) ([]byte, error) {
	if shard == nil || shard.Modulus == nil || shard.Exponent == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "cannot apply key shard: shard is missing")
	}
	m, err := messageInt(shard.Modulus, data)
	if err != nil {
		return nil, err
	}
	return intToBytes(new(big.Int).Exp(m, shard.Exponent, shard.Modulus.p)), nil
}

// PartialNext applies another shard to a partial result
//
// If [Multiplication] was used, next <- partial^shard (mod p), i.e. a chain of exponentiation, and data is ignored
//
// If [Addition] was used, next <- partial * data^shard (mod p), i.e. a chain of multiplication
func PartialNext(shard *KeyShard, data []byte, partial []byte) ([]byte, error) {
	if shard == nil || shard.Modulus == nil || shard.Exponent == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "cannot apply key shard: shard is missing")
	}
	if len(partial) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "cannot apply key shard: partial result is missing")
	}
	p := shard.Modulus.p
	partialInt := new(big.Int).SetBytes(partial)

	switch shard.SplitBy {
	case Multiplication:
		return intToBytes(new(big.Int).Exp(partialInt, shard.Exponent, p)), nil
	case Addition:
		m, err := messageInt(shard.Modulus, data)
		if err != nil {
			return nil, err
		}
		next := new(big.Int).Exp(m, shard.Exponent, p)
		next.Mul(next, partialInt)
		return intToBytes(next.Mod(next, p)), nil
	default:
		return nil, errors.Wrapf(ErrInvalidArgument, "unrecognized splitBy argument: %v", shard.SplitBy)
	}
}

func messageInt(modulus *Modulus, data []byte) (*big.Int, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "data is missing")
	}
	m := new(big.Int).SetBytes(data)
	if m.Cmp(modulus.p) >= 0 {
		return nil, errors.Wrapf(ErrDataTooLarge, "%d-bit value does not fit a %d-bit modulus", m.BitLen(), modulus.BitLen())
	}
	return m, nil
}
