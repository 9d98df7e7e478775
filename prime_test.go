package commutative

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// every safe prime below 2000
var smallSafePrimes = []int64{5, 7, 11, 23, 47, 59, 83, 107, 167, 179, 227, 263, 347, 359, 383, 467, 479, 503, 563, 587, 719, 839, 863, 887, 983, 1019, 1187, 1283, 1307, 1319, 1367, 1439, 1487, 1523, 1619, 1823, 1907}

func intBytes(n int64) []byte {
	return big.NewInt(n).Bytes()
}

// reference safe prime predicate by trial division
func trialSafePrime(n int64) bool {
	isPrime := func(k int64) bool {
		if k < 2 {
			return false
		}
		for i := int64(2); i*i <= k; i++ {
			if k%i == 0 {
				return false
			}
		}
		return true
	}
	return isPrime(n) && isPrime((n-1)/2)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy source unavailable")
}

var _ = Describe("Primality", func() {

	Context("IsProbablePrime", func() {
		It("Rejects everything below 2", func() {
			Expect(IsProbablePrime(nil, DefaultPrimalityRounds)).To(BeFalse())
			Expect(IsProbablePrime(big.NewInt(-7), DefaultPrimalityRounds)).To(BeFalse())
			Expect(IsProbablePrime(big.NewInt(0), DefaultPrimalityRounds)).To(BeFalse())
			Expect(IsProbablePrime(big.NewInt(1), DefaultPrimalityRounds)).To(BeFalse())
		})

		It("Agrees with trial division on small numbers", func() {
			for n := int64(2); n < 2000; n++ {
				isPrime := true
				for i := int64(2); i*i <= n; i++ {
					if n%i == 0 {
						isPrime = false
						break
					}
				}
				Expect(IsProbablePrime(big.NewInt(n), 0)).To(Equal(isPrime), "n = %d", n)
			}
		})
	})

	Context("CheckSafePrime", func() {
		DescribeTable("Small candidates",
			func(p int64, accept bool) {
				m, err := CheckSafePrime(intBytes(p))
				if accept {
					Expect(err).To(BeNil())
					Expect(m.Int().Int64()).To(Equal(p))
					Expect(m.Order().Int64()).To(Equal(p - 1))
					Expect(m.SubgroupOrder().Int64()).To(Equal((p - 1) / 2))
				} else {
					Expect(err).To(MatchError(ErrInvalidPrime))
					Expect(m).To(BeNil())
				}
			},
			Entry("2 has (p-1)/2 = 0", int64(2), false),
			Entry("3 has (p-1)/2 = 1", int64(3), false),
			Entry("4 is composite", int64(4), false),
			Entry("5 = 2*2+1", int64(5), true),
			Entry("7 = 2*3+1", int64(7), true),
			Entry("11 = 2*5+1", int64(11), true),
			Entry("13 has (p-1)/2 = 6", int64(13), false),
			Entry("23 = 2*11+1", int64(23), true),
			Entry("29 has (p-1)/2 = 14", int64(29), false),
			Entry("2047 is composite", int64(2047), false),
		)

		It("Accepts exactly the numbers that pass a reference test", func() {
			for n := int64(1); n < 2000; n++ {
				_, err := CheckSafePrime(intBytes(n))
				if trialSafePrime(n) {
					Expect(err).To(BeNil(), "n = %d", n)
				} else {
					Expect(err).NotTo(BeNil(), "n = %d", n)
				}
			}
		})

		It("Ignores leading zero bytes", func() {
			m, err := CheckSafePrime([]byte{0, 0, 23})
			Expect(err).To(BeNil())
			Expect(m.Bytes()).To(Equal([]byte{23}))
		})

		It("Rejects empty input as an invalid argument", func() {
			_, err := CheckSafePrime(nil)
			Expect(err).To(MatchError(ErrInvalidArgument))
			_, err = CheckSafePrime([]byte{})
			Expect(err).To(MatchError(ErrInvalidArgument))
		})
	})

	Context("GenerateSafePrime", func() {
		ctx := context.Background()

		It("Refuses bit lengths below the default minimum", func() {
			_, err := GenerateSafePrime(ctx, 1024)
			Expect(err).To(MatchError(ErrInvalidBitLength))
		})

		It("Refuses bit lengths too short to hold a safe prime", func() {
			for _, bits := range []int{-1, 0, 1, 2} {
				_, err := GenerateSafePrime(ctx, bits, WithMinGenerateBits(0))
				Expect(err).To(MatchError(ErrInvalidBitLength), "bits = %d", bits)
			}
		})

		for _, bits := range []int{3, 8, 13, 64, 128} {
			bits := bits
			It(fmt.Sprintf("Produces a %d-bit safe prime", bits), func() {
				m, err := GenerateSafePrime(ctx, bits, WithMinGenerateBits(bits), WithLogger(quietLogger))
				Expect(err).To(BeNil())
				Expect(m.BitLen()).To(Equal(bits))
				Expect(m.Int().Bit(0)).To(Equal(uint(1)))

				_, err = CheckSafePrime(m.Bytes())
				Expect(err).To(BeNil())
			})
		}

		It("Is reproducible with a deterministic random source and a single worker", func() {
			opts := func() []Option {
				return []Option{
					WithMinGenerateBits(64),
					WithWorkers(1),
					WithRandom(mrand.New(mrand.NewSource(7))),
					WithLogger(quietLogger),
				}
			}
			m1, err := GenerateSafePrime(ctx, 96, opts()...)
			Expect(err).To(BeNil())
			m2, err := GenerateSafePrime(ctx, 96, opts()...)
			Expect(err).To(BeNil())
			Expect(m1.Equal(m2)).To(BeTrue())
		})

		It("Shares a non-thread-safe random source between workers", func() {
			m, err := GenerateSafePrime(ctx, 64,
				WithMinGenerateBits(64),
				WithWorkers(8),
				WithRandom(mrand.New(mrand.NewSource(time.Now().UnixNano()))),
				WithLogger(quietLogger),
			)
			Expect(err).To(BeNil())
			Expect(m.BitLen()).To(Equal(64))
		})

		It("Reports a broken random source", func() {
			_, err := GenerateSafePrime(ctx, 64, WithMinGenerateBits(64), WithRandom(failingReader{}), WithLogger(quietLogger))
			Expect(err).To(MatchError(ContainSubstring("entropy source unavailable")))
		})

		It("Abandons the search when the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			m, err := GenerateSafePrime(cancelled, 4096, WithLogger(quietLogger))
			Expect(err).To(MatchError(context.Canceled))
			Expect(m).To(BeNil())
		})

		It("Stops at the deadline", func() {
			short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()

			_, err := GenerateSafePrime(short, 8192, WithMinGenerateBits(8192), WithLogger(quietLogger))
			Expect(err).To(MatchError(context.DeadlineExceeded))
		})

		It("Delivers a single result asynchronously", func() {
			results := GenerateSafePrimeAsync(ctx, 64, WithMinGenerateBits(64), WithLogger(quietLogger))

			var result SafePrimeResult
			Eventually(results, 10*time.Second).Should(Receive(&result))
			Expect(result.Err).To(BeNil())
			Expect(result.Modulus.BitLen()).To(Equal(64))
			Eventually(results).Should(BeClosed())
		})

		It("Delivers errors asynchronously", func() {
			results := GenerateSafePrimeAsync(ctx, 16)

			var result SafePrimeResult
			Eventually(results).Should(Receive(&result))
			Expect(result.Err).To(MatchError(ErrInvalidBitLength))
			Expect(result.Modulus).To(BeNil())
		})
	})
})
