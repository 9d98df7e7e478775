package commutative

import (
	"bytes"
	"context"
	"encoding/asn1"
	"encoding/pem"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func encodeRawKey(blockType string, key interface{}) string {
	der, err := asn1.Marshal(key)
	Expect(err).To(BeNil())
	buf := new(bytes.Buffer)
	Expect(pem.Encode(buf, &pem.Block{Type: blockType, Bytes: der})).To(Succeed())
	return buf.String()
}

var _ = Describe("Key files", func() {

	Context("Encoding and decoding", func() {
		var c *Cipher

		BeforeEach(func() {
			var err error
			c, err = CreateCipher(context.Background(), DefaultGroup{})
			Expect(err).To(BeNil())
		})

		It("Restores an equivalent cipher", func() {
			encoded, err := c.EncodePEM()
			Expect(err).To(BeNil())
			Expect(encoded).To(HavePrefix("-----BEGIN COMMUTATIVE CIPHER KEY-----"))

			decoded, err := DecodePEM(encoded)
			Expect(err).To(BeNil())
			Expect(decoded.Prime()).To(Equal(c.Prime()))
			Expect(decoded.EncryptionKey()).To(Equal(c.EncryptionKey()))
			Expect(decoded.DecryptionKey()).To(Equal(c.DecryptionKey()))

			msg := randomMessage(c.Modulus())
			ct, err := c.Encrypt(msg)
			Expect(err).To(BeNil())
			pt, err := decoded.Decrypt(ct)
			Expect(err).To(BeNil())
			Expect(pt).To(Equal(msg))
		})

		It("Tolerates surrounding whitespace", func() {
			encoded, err := c.EncodePEM()
			Expect(err).To(BeNil())

			_, err = DecodePEM("\n\n" + encoded + "\n  \n")
			Expect(err).To(BeNil())
		})

		It("Keeps merged keys unreduced", func() {
			other := mustKey(c.Modulus())
			merged, err := MergeKeys(c.EncryptionKey(), other)
			Expect(err).To(BeNil())
			both, err := NewCipher(c.Prime(), merged)
			Expect(err).To(BeNil())

			encoded, err := both.EncodePEM()
			Expect(err).To(BeNil())
			decoded, err := DecodePEM(encoded)
			Expect(err).To(BeNil())
			Expect(decoded.EncryptionKey()).To(Equal(merged))
		})
	})

	Context("Malformed input", func() {
		It("Rejects text without a PEM block", func() {
			_, err := DecodePEM("not a key")
			Expect(err).To(MatchError(ErrInvalidArgument))
			_, err = DecodePEM("")
			Expect(err).To(MatchError(ErrInvalidArgument))
		})

		It("Rejects other PEM types", func() {
			encoded := encodeRawKey("RSA PRIVATE KEY", cipherKey{Prime: intBytes(23), EncryptionKey: intBytes(3)})
			_, err := DecodePEM(encoded)
			Expect(err).To(MatchError(ErrInvalidArgument))
		})

		It("Rejects a second block", func() {
			encoded := encodeRawKey(pemType, cipherKey{Prime: intBytes(23), EncryptionKey: intBytes(3)})
			_, err := DecodePEM(encoded + encoded, WithLogger(quietLogger))
			Expect(err).To(MatchError(ErrInvalidArgument))
		})

		It("Rejects malformed DER", func() {
			buf := new(bytes.Buffer)
			Expect(pem.Encode(buf, &pem.Block{Type: pemType, Bytes: []byte{0x30, 0x05, 0x01}})).To(Succeed())
			_, err := DecodePEM(buf.String())
			Expect(err).To(MatchError(ErrInvalidArgument))
		})

		It("Validates the decoded values", func() {
			encoded := encodeRawKey(pemType, cipherKey{Prime: intBytes(13), EncryptionKey: intBytes(5)})
			_, err := DecodePEM(encoded)
			Expect(err).To(MatchError(ErrInvalidPrime))

			encoded = encodeRawKey(pemType, cipherKey{Prime: intBytes(23), EncryptionKey: intBytes(11)})
			_, err = DecodePEM(encoded, WithLogger(quietLogger))
			Expect(err).To(MatchError(ErrInvalidKey))
		})
	})
})
