package commutative

import (
	"bytes"
	"encoding/asn1"
	"encoding/pem"

	"github.com/pkg/errors"
)

const pemType = "COMMUTATIVE CIPHER KEY"

// used exclusively as a placeholder for encoding-decoding
type cipherKey struct {
	Prime         []byte
	EncryptionKey []byte
}

// EncodePEM returns a PEM encoding of the modulus and encryption key. The decryption key is
// not stored since DecodePEM derives it again
func (c *Cipher) EncodePEM() (string, error) {
	// we perform this conversion because asn1.Marshal cannot handle unexported fields
	b, err := asn1.Marshal(cipherKey{
		Prime:         c.modulus.Bytes(),
		EncryptionKey: c.EncryptionKey(),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to DER-encode cipher key")
	}

	keyPEM := new(bytes.Buffer)
	err = pem.Encode(keyPEM, &pem.Block{
		Type:  pemType,
		Bytes: b,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to PEM-encode cipher key")
	}

	return keyPEM.String(), nil
}

// DecodePEM rebuilds a cipher from the output of [Cipher.EncodePEM], validating it like [NewCipher]
func DecodePEM(encoded string, opts ...Option) (*Cipher, error) {
	block, rest := pem.Decode([]byte(encoded))
	if block == nil || block.Type != pemType || len(bytes.TrimSpace(rest)) > 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "failed to decode PEM block containing cipher key")
	}

	var key cipherKey
	rest, err := asn1.Unmarshal(block.Bytes, &key)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidArgument, "failed to unmarshal DER-encoded cipher key: %s", err)
	}
	if len(rest) > 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "trailing data after DER-encoded cipher key")
	}

	return NewCipher(key.Prime, key.EncryptionKey, opts...)
}
