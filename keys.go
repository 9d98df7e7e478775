package commutative

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

// A KeyPair holds an encryption exponent e and its decryption exponent d ≡ e⁻¹ (mod p-1),
// both big-endian
type KeyPair struct {
	EncryptionKey []byte
	DecryptionKey []byte
}

// GenerateKey picks a random encryption exponent e in [2, p-2] with gcd(e, p-1) = 1 and
// derives the matching decryption exponent
func GenerateKey(p *Modulus, opts ...Option) (*KeyPair, error) {
	return generateKey(p, newOptions(opts))
}

func generateKey(p *Modulus, o *options) (*KeyPair, error) {
	if p == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "cannot generate a key without a modulus")
	}

	e, err := randomExponent(o.random, p.order, o.maxKeyAttempts, o.logger)
	if err != nil {
		return nil, err
	}

	// e is coprime to p-1, so the inverse exists
	d := new(big.Int).ModInverse(e, p.order)
	if d == nil {
		return nil, errors.Wrap(ErrKeyGenerationFailed, "encryption exponent has no inverse mod p-1")
	}

	return &KeyPair{
		EncryptionKey: intToBytes(e),
		DecryptionKey: intToBytes(d),
	}, nil
}

// returns a uniformly random number in [2, order-1] that is coprime to order.
// For a safe prime p = 2q + 1 that is any odd number in range other than q
func randomExponent(random io.Reader, order *big.Int, maxAttempts int, logger log.Interface) (*big.Int, error) {
	// there is nothing to pick from below p = 5
	if order.Cmp(bigTwo) <= 0 {
		return nil, errors.Wrapf(ErrKeyGenerationFailed, "group order %v leaves no valid exponents", order)
	}

	// rand.Int samples [0, order-2), shifted to [2, order)
	span := new(big.Int).Sub(order, bigTwo)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		e, err := rand.Int(random, span)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read random exponent")
		}
		e.Add(e, bigTwo)

		if coprime(e, order) {
			if attempt > 1 {
				logger.WithField("attempts", attempt).Debug("resampled encryption exponent")
			}
			return e, nil
		}
	}

	return nil, errors.Wrapf(ErrKeyGenerationFailed, "no exponent coprime to p-1 after %d attempts", maxAttempts)
}
