package commutative

import (
	"context"
	"math/big"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

// A Cipher encrypts with m^e (mod p) and decrypts with c^d (mod p), where d ≡ e⁻¹ (mod p-1).
// Ciphers built over the same modulus commute: encrypting under A then B equals encrypting
// under B then A, and either layer can be removed first.
//
// A Cipher is immutable and safe for concurrent use
type Cipher struct {
	modulus    *Modulus
	eReduced   *big.Int // e mod (p-1); e itself may exceed p-1 after a merge
	d          *big.Int
	enkey      []byte
	dekey      []byte
	advisories []Advisory
}

// NewCipher binds a safe prime and an encryption exponent, both big-endian.
//
// The exponent is validated modulo p-1: its residue must be at least 2 and coprime to p-1.
// Exponents larger than p-1, such as the output of [MergeKeys], are therefore accepted.
// A prime shorter than the secure threshold (see [WithSecureBits]) still yields a working
// cipher, with an [AdvisoryWeakPrime] attached and a warning logged
func NewCipher(prime []byte, encryptionKey []byte, opts ...Option) (*Cipher, error) {
	return newCipher(prime, encryptionKey, newOptions(opts))
}

func newCipher(prime []byte, encryptionKey []byte, o *options) (*Cipher, error) {
	if len(prime) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "cannot create cipher: prime is missing")
	}
	if len(encryptionKey) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "cannot create cipher: encryption key is missing")
	}

	modulus, err := checkSafePrime(prime, o)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create cipher")
	}

	var advisories []Advisory
	if modulus.BitLen() < o.secureBits {
		advisory := Advisory{
			Kind:      AdvisoryWeakPrime,
			BitLen:    modulus.BitLen(),
			Threshold: o.secureBits,
		}
		advisories = append(advisories, advisory)
		o.logger.WithFields(log.Fields{
			"bits":      advisory.BitLen,
			"threshold": advisory.Threshold,
		}).Warn("the prime you are using is too small for secure encryption")
	}

	e := new(big.Int).SetBytes(encryptionKey)
	eReduced := new(big.Int).Mod(e, modulus.order)
	if eReduced.Cmp(bigTwo) < 0 {
		return nil, errors.Wrap(ErrInvalidKey, "cannot create cipher: encryption key is congruent to 0 or 1 mod p-1")
	}
	if !coprime(eReduced, modulus.order) {
		return nil, errors.Wrap(ErrInvalidKey, "cannot create cipher: encryption key shares a factor with p-1")
	}

	d := new(big.Int).ModInverse(eReduced, modulus.order)
	if d == nil {
		return nil, errors.Wrap(ErrInvalidKey, "cannot create cipher: encryption key has no inverse mod p-1")
	}

	return &Cipher{
		modulus:    modulus,
		eReduced:   eReduced,
		d:          d,
		enkey:      intToBytes(e),
		dekey:      intToBytes(d),
		advisories: advisories,
	}, nil
}

// CreateCipher resolves a modulus from sel, generates a fresh key pair for it and returns the cipher.
// It blocks only when sel is a [GeneratedBitLength]
func CreateCipher(ctx context.Context, sel Selector, opts ...Option) (*Cipher, error) {
	o := newOptions(opts)

	modulus, err := ResolveModulus(ctx, sel, opts...)
	if err != nil {
		return nil, err
	}

	keys, err := generateKey(modulus, o)
	if err != nil {
		return nil, err
	}

	return newCipher(modulus.raw, keys.EncryptionKey, o)
}

// Encrypt interprets data as a big-endian unsigned integer m and returns m^e (mod p).
// m must be smaller than p
func (c *Cipher) Encrypt(data []byte) ([]byte, error) {
	m, err := messageInt(c.modulus, data)
	if err != nil {
		return nil, errors.Wrap(err, "cannot encrypt")
	}

	return intToBytes(new(big.Int).Exp(m, c.eReduced, c.modulus.p)), nil
}

// EncryptString decodes data with enc (UTF8 when empty; Hex and Base64 are also accepted) and encrypts it
func (c *Cipher) EncryptString(data string, enc Encoding) ([]byte, error) {
	if enc == "" {
		enc = UTF8
	}
	buf, err := enc.decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "cannot encrypt")
	}
	return c.Encrypt(buf)
}

// Decrypt interprets data as a big-endian unsigned integer c and returns c^d (mod p)
func (c *Cipher) Decrypt(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "cannot decrypt: data is missing")
	}

	ct := new(big.Int).SetBytes(data)
	return intToBytes(new(big.Int).Exp(ct, c.d, c.modulus.p)), nil
}

// DecryptString decodes data with enc (Hex when empty, or Base64) and decrypts it.
// UTF8 is refused because ciphertext is not text
func (c *Cipher) DecryptString(data string, enc Encoding) ([]byte, error) {
	switch enc {
	case "":
		enc = Hex
	case Hex, Base64:
	default:
		return nil, errors.Wrapf(ErrInvalidEncoding, "cannot decrypt: unsupported encoding %q", string(enc))
	}
	buf, err := enc.decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decrypt")
	}
	return c.Decrypt(buf)
}

// Modulus returns the group modulus
func (c *Cipher) Modulus() *Modulus {
	return c.modulus
}

// Prime returns the big-endian modulus
func (c *Cipher) Prime() []byte {
	return c.modulus.Bytes()
}

// EncryptionKey returns the big-endian encryption exponent as it was supplied, minus any leading zeros
func (c *Cipher) EncryptionKey() []byte {
	return append([]byte(nil), c.enkey...)
}

// DecryptionKey returns the big-endian decryption exponent
func (c *Cipher) DecryptionKey() []byte {
	return append([]byte(nil), c.dekey...)
}

// Advisories returns the non-fatal conditions found at construction, if any
func (c *Cipher) Advisories() []Advisory {
	return append([]Advisory(nil), c.advisories...)
}
