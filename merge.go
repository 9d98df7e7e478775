package commutative

import (
	"math/big"

	"github.com/pkg/errors"
)

// MergeKeys returns the product e1 * e2 of two big-endian encryption exponents.
//
// Because m^(e1*e2) ≡ (m^e1)^e2 ≡ (m^e2)^e1 (mod p), a cipher under the merged key encrypts
// exactly like applying both original ciphers in either order. No modulus is involved, so the
// caller must make sure both keys belong to the same group.
//
// note: the product is not reduced, so a chain of k merges produces a key k times as long as its
// inputs, and exponentiation slows down accordingly. Use [MergeKeysMod] when the modulus is known
func MergeKeys(key1 []byte, key2 []byte) ([]byte, error) {
	k1, k2, err := mergeOperands(key1, key2)
	if err != nil {
		return nil, err
	}
	return intToBytes(k1.Mul(k1, k2)), nil
}

// MergeKeysMod returns e1 * e2 (mod p-1), which is equivalent to [MergeKeys] under modulus p
// but stays the length of p.
//
// The reduced product can be 1 when one key undoes the other; [NewCipher] rejects such a key
func MergeKeysMod(p *Modulus, key1 []byte, key2 []byte) ([]byte, error) {
	if p == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "cannot merge keys: modulus is missing")
	}
	k1, k2, err := mergeOperands(key1, key2)
	if err != nil {
		return nil, err
	}
	merged := k1.Mul(k1, k2)
	return intToBytes(merged.Mod(merged, p.order)), nil
}

func mergeOperands(key1 []byte, key2 []byte) (*big.Int, *big.Int, error) {
	if len(key1) == 0 {
		return nil, nil, errors.Wrap(ErrInvalidArgument, "cannot merge keys: key1 is missing")
	}
	if len(key2) == 0 {
		return nil, nil, errors.Wrap(ErrInvalidArgument, "cannot merge keys: key2 is missing")
	}
	return new(big.Int).SetBytes(key1), new(big.Int).SetBytes(key2), nil
}

// Merge returns a cipher whose encryption equals encrypting with c and then with other (or the
// other way round), and whose decryption removes both layers at once. Both ciphers must use the
// same modulus. Options apply to the new cipher as in [NewCipher]
func (c *Cipher) Merge(other *Cipher, opts ...Option) (*Cipher, error) {
	if other == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "cannot merge ciphers: other cipher is missing")
	}
	if !c.modulus.Equal(other.modulus) {
		return nil, errors.Wrap(ErrInvalidArgument, "cannot merge ciphers over different moduli")
	}

	merged, err := MergeKeysMod(c.modulus, c.enkey, other.enkey)
	if err != nil {
		return nil, err
	}
	return NewCipher(c.modulus.raw, merged, opts...)
}
