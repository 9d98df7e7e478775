package commutative

import (
	"context"
	"fmt"
	"math/big"
	mrand "math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const maxTestShards = 8

// randomize order of shards
func shuffleShards(shards []*KeyShard) {
	mrand.Shuffle(len(shards), func(i, j int) {
		shards[i], shards[j] = shards[j], shards[i]
	})
}

func shardProduct(shards []*KeyShard) *big.Int {
	result := big.NewInt(1)
	for _, s := range shards {
		result.Mul(result, s.Exponent)
	}
	return result
}

func shardSum(shards []*KeyShard) *big.Int {
	result := big.NewInt(0)
	for _, s := range shards {
		result.Add(result, s.Exponent)
	}
	return result
}

// applies every shard in order, checking that no strict prefix gives the expected result
func applyShards(shards []*KeyShard, data []byte, expected []byte) []byte {
	partial, err := PartialFirst(shards[0], data)
	Expect(err).To(BeNil(), fmt.Sprintf("failed to apply first shard: %s", err))

	for k := 1; k < len(shards); k++ {
		Expect(partial).NotTo(Equal(expected), "partial result must not match")

		partial, err = PartialNext(shards[k], data, partial)
		Expect(err).To(BeNil(), fmt.Sprintf("failed to apply shard #%d: %s", k, err))
	}
	return partial
}

// run a full workflow of splitting a key and using the shards to encrypt and decrypt a message
func runSplitTest(c *Cipher, i int, splitBy SplitBy) {
	var encShards, decShards []*KeyShard
	var err error

	var label string
	switch splitBy {
	case Multiplication:
		label = "product"
	case Addition:
		label = "sum"
	}

	It("Successfully splits both keys", func() {
		encShards, err = c.SplitEncryptionKey(i, splitBy)
		Expect(err).To(BeNil(), fmt.Sprintf("failed to split encryption key into %d shards: %s", i, err))
		Expect(encShards).To(HaveLen(i))

		decShards, err = c.SplitDecryptionKey(i, splitBy)
		Expect(err).To(BeNil(), fmt.Sprintf("failed to split decryption key into %d shards: %s", i, err))
		Expect(decShards).To(HaveLen(i))
	})

	It(fmt.Sprintf("Produces shards whose %s is congruent to the original key mod p-1", label), func() {
		order := c.Modulus().Order()
		e := new(big.Int).SetBytes(c.EncryptionKey())
		d := new(big.Int).SetBytes(c.DecryptionKey())

		switch splitBy {
		case Multiplication:
			Expect(congruentModN(shardProduct(encShards), e, order)).To(BeTrue())
			Expect(congruentModN(shardProduct(decShards), d, order)).To(BeTrue())
		case Addition:
			Expect(congruentModN(shardSum(encShards), e, order)).To(BeTrue())
			Expect(congruentModN(shardSum(decShards), d, order)).To(BeTrue())
		}

		for _, s := range encShards {
			Expect(s.SplitBy).To(Equal(splitBy))
			Expect(s.Modulus.Equal(c.Modulus())).To(BeTrue())
			Expect(s.Exponent.Cmp(e)).NotTo(Equal(0))
		}
	})

	It("Produces a valid split encryption and decryption", func() {
		msg := randomMessage(c.Modulus())
		ct, err := c.Encrypt(msg)
		Expect(err).To(BeNil())

		By("Shuffling the shards to demonstrate that the order of application doesn't matter")
		shuffleShards(encShards)
		shuffleShards(decShards)

		Expect(applyShards(encShards, msg, ct)).To(Equal(ct))

		// with multiplication the chain continues from the ciphertext alone
		Expect(applyShards(decShards, ct, msg)).To(Equal(msg))
	})
}

var _ = Describe("Key splitting", func() {
	c, err := CreateCipher(context.Background(), NamedGroup("modp1536"), WithLogger(quietLogger))
	if err != nil {
		panic(err)
	}

	Context("Basic interfacing", func() {
		When("Attempting to split a key into 1 shard", func() {
			It("Should fail", func() {
				_, err := c.SplitEncryptionKey(1, Addition)
				Expect(err).To(MatchError(ErrInvalidArgument))
			})
		})

		It("Rejects an unknown split method", func() {
			_, err := c.SplitEncryptionKey(3, SplitBy(7))
			Expect(err).To(MatchError(ErrInvalidArgument))

			_, err = PartialNext(&KeyShard{Modulus: c.Modulus(), Exponent: big.NewInt(3), SplitBy: SplitBy(7)}, intBytes(2), intBytes(2))
			Expect(err).To(MatchError(ErrInvalidArgument))
		})

		It("Rejects missing inputs", func() {
			_, err := PartialFirst(nil, intBytes(2))
			Expect(err).To(MatchError(ErrInvalidArgument))

			shards, err := c.SplitEncryptionKey(2, Addition)
			Expect(err).To(BeNil())
			_, err = PartialFirst(shards[0], nil)
			Expect(err).To(MatchError(ErrInvalidArgument))
			_, err = PartialNext(shards[1], intBytes(2), nil)
			Expect(err).To(MatchError(ErrInvalidArgument))
		})

		It("Rejects data that does not fit the modulus", func() {
			shards, err := c.SplitEncryptionKey(2, Addition)
			Expect(err).To(BeNil())

			_, err = PartialFirst(shards[0], c.Prime())
			Expect(err).To(MatchError(ErrDataTooLarge))
			_, err = PartialNext(shards[1], c.Prime(), intBytes(2))
			Expect(err).To(MatchError(ErrDataTooLarge))
		})

		It("Gives up when the random source cannot produce shards", func() {
			_, err := c.SplitEncryptionKey(3, Multiplication, WithRandom(zeroReader{}), WithMaxKeyAttempts(4))
			Expect(err).To(MatchError(ErrKeyGenerationFailed))
		})

		It("Names the split methods", func() {
			Expect(Multiplication.String()).To(Equal("multiplication"))
			Expect(Addition.String()).To(Equal("addition"))
			Expect(SplitBy(7).String()).To(Equal("unknown"))
		})
	})

	Context("Splitting keys multiplicatively", func() {
		for i := 2; i <= maxTestShards; i++ {
			When(fmt.Sprintf("Splitting a key %d ways", i), Ordered, func() {
				runSplitTest(c, i, Multiplication)
			})
		}
	})

	Context("Splitting keys additively", func() {
		for i := 2; i <= maxTestShards; i++ {
			When(fmt.Sprintf("Splitting a key %d ways", i), Ordered, func() {
				runSplitTest(c, i, Addition)
			})
		}
	})

})
