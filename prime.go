package commutative

import (
	"context"
	"io"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// the smallest safe prime, 5, is 3 bits long
const minSafePrimeBits = 3

// IsProbablePrime reports whether n is prime, using the given number of Miller-Rabin rounds
// on top of the Baillie-PSW test performed by [big.Int.ProbablyPrime]. Anything below 2 is
// rejected without testing. A non-positive rounds falls back to [DefaultPrimalityRounds]
func IsProbablePrime(n *big.Int, rounds int) bool {
	if n == nil || n.Cmp(bigTwo) < 0 {
		return false
	}
	if rounds < 1 {
		rounds = DefaultPrimalityRounds
	}
	return n.ProbablyPrime(rounds)
}

// CheckSafePrime interprets candidate as a big-endian unsigned integer p and returns it as a
// [Modulus] if both p and (p-1)/2 are prime
func CheckSafePrime(candidate []byte, opts ...Option) (*Modulus, error) {
	return checkSafePrime(candidate, newOptions(opts))
}

func checkSafePrime(candidate []byte, o *options) (*Modulus, error) {
	if len(candidate) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "safe prime candidate is empty")
	}

	p := new(big.Int).SetBytes(candidate)
	if !IsProbablePrime(p, o.rounds) {
		return nil, errors.Wrapf(ErrInvalidPrime, "%d-bit candidate is not prime", p.BitLen())
	}

	// p is odd unless it is 2, in which case q = 1 and the check below fails
	q := new(big.Int).Rsh(p, 1)
	if !IsProbablePrime(q, o.rounds) {
		return nil, errors.Wrapf(ErrInvalidPrime, "%d-bit candidate is prime but (p-1)/2 is not", p.BitLen())
	}

	return newModulus(p), nil
}

// SafePrimeResult is the outcome of an asynchronous safe prime search
type SafePrimeResult struct {
	Modulus *Modulus
	Err     error
}

// GenerateSafePrimeAsync runs [GenerateSafePrime] in the background. The returned channel
// receives exactly one result and is then closed
func GenerateSafePrimeAsync(ctx context.Context, bits int, opts ...Option) <-chan SafePrimeResult {
	results := make(chan SafePrimeResult, 1)
	go func() {
		defer close(results)
		m, err := GenerateSafePrime(ctx, bits, opts...)
		results <- SafePrimeResult{Modulus: m, Err: err}
	}()
	return results
}

// GenerateSafePrime searches for a random safe prime of exactly the given bit length.
//
// Candidates have their top bit set to fix the length and their low bit set to make them odd.
// The search runs on several goroutines (see [WithWorkers]) and the first one to find a safe
// prime stops the others. It may take a long time for large bit lengths; cancelling ctx abandons
// the search and returns ctx.Err().
//
// Bit lengths below the configured minimum (see [WithMinGenerateBits], 2048 by default) are
// rejected with [ErrInvalidBitLength]
func GenerateSafePrime(ctx context.Context, bits int, opts ...Option) (*Modulus, error) {
	o := newOptions(opts)

	minBits := o.minGenerateBits
	if minBits < minSafePrimeBits {
		minBits = minSafePrimeBits
	}
	if bits < minBits {
		return nil, errors.Wrapf(ErrInvalidBitLength, "cannot generate a %d-bit safe prime, the minimum is %d bits", bits, minBits)
	}

	logger := o.logger.WithFields(log.Fields{
		"bits":    bits,
		"workers": o.workers,
	})
	logger.Debug("searching for safe prime")
	start := time.Now()

	// the random source is shared between workers and need not be safe for concurrent use
	random := &lockedReader{r: o.random}
	var tried atomic.Int64

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	found := make(chan *big.Int, 1)
	g, gctx := errgroup.WithContext(searchCtx)
	for i := 0; i < o.workers; i++ {
		g.Go(func() error {
			p, err := searchSafePrime(gctx, random, bits, o.rounds, &tried)
			if err != nil {
				return err
			}
			select {
			case found <- p:
				cancel()
			default:
			}
			return nil
		})
	}
	err := g.Wait()

	select {
	case p := <-found:
		logger.WithFields(log.Fields{
			"candidates": tried.Load(),
			"elapsed":    time.Since(start).String(),
		}).Debug("found safe prime")
		return newModulus(p), nil
	default:
	}

	if err == nil {
		err = ctx.Err()
	}
	logger.WithError(err).Debug("safe prime search stopped")
	return nil, err
}

// searchSafePrime samples candidates until one is a safe prime or ctx is done
func searchSafePrime(ctx context.Context, random io.Reader, bits int, rounds int, tried *atomic.Int64) (*big.Int, error) {
	buf := make([]byte, (bits+7)/8)

	// number of bits of the candidate that live in the most significant byte
	topBits := uint(bits % 8)
	if topBits == 0 {
		topBits = 8
	}

	p := new(big.Int)
	q := new(big.Int)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if _, err := io.ReadFull(random, buf); err != nil {
			return nil, errors.Wrap(err, "failed to read random safe prime candidate")
		}
		buf[0] &= uint8(int(1<<topBits) - 1)
		buf[0] |= 1 << (topBits - 1)
		buf[len(buf)-1] |= 1

		p.SetBytes(buf)
		tried.Add(1)

		// q is the cheaper test and rules out every candidate with p ≡ 1 (mod 4)
		q.Rsh(p, 1)
		if IsProbablePrime(q, rounds) && IsProbablePrime(p, rounds) {
			return new(big.Int).Set(p), nil
		}
	}
}

type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func (l *lockedReader) Read(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(b)
}
