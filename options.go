package commutative

import (
	"crypto/rand"
	"io"
	"runtime"

	"github.com/apex/log"
)

const (
	// SecurePrimeBits is the smallest modulus considered secure. Ciphers over smaller primes still work,
	// but carry an [AdvisoryWeakPrime]
	SecurePrimeBits = 2048

	// DefaultPrimalityRounds is the number of Miller-Rabin rounds used unless overridden
	DefaultPrimalityRounds = 20

	// DefaultMaxKeyAttempts bounds how many exponents GenerateKey samples before giving up
	DefaultMaxKeyAttempts = 1000
)

// Option tunes the randomness, logging and thresholds used by the functions of this package
type Option func(*options)

type options struct {
	random          io.Reader
	logger          log.Interface
	secureBits      int
	minGenerateBits int
	rounds          int
	maxKeyAttempts  int
	workers         int
}

func newOptions(opts []Option) *options {
	o := &options{
		random:          rand.Reader,
		logger:          log.Log,
		secureBits:      SecurePrimeBits,
		minGenerateBits: SecurePrimeBits,
		rounds:          DefaultPrimalityRounds,
		maxKeyAttempts:  DefaultMaxKeyAttempts,
		workers:         runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithRandom sets the source of randomness for key and prime generation.
// It must be cryptographically secure outside of tests; the default is crypto/rand.Reader
func WithRandom(random io.Reader) Option {
	return func(o *options) {
		if random != nil {
			o.random = random
		}
	}
}

// WithLogger sets the logger used for advisories and generation progress. The default is log.Log
func WithLogger(logger log.Interface) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSecureBits sets the bit length below which a valid prime produces a weak-prime advisory
func WithSecureBits(bits int) Option {
	return func(o *options) {
		o.secureBits = bits
	}
}

// WithMinGenerateBits sets the smallest bit length GenerateSafePrime accepts
func WithMinGenerateBits(bits int) Option {
	return func(o *options) {
		o.minGenerateBits = bits
	}
}

// WithPrimalityRounds sets the number of Miller-Rabin rounds for every primality test
func WithPrimalityRounds(rounds int) Option {
	return func(o *options) {
		if rounds > 0 {
			o.rounds = rounds
		}
	}
}

// WithMaxKeyAttempts bounds the number of exponents GenerateKey may sample
func WithMaxKeyAttempts(attempts int) Option {
	return func(o *options) {
		if attempts > 0 {
			o.maxKeyAttempts = attempts
		}
	}
}

// WithWorkers sets how many goroutines search for a safe prime concurrently
func WithWorkers(workers int) Option {
	return func(o *options) {
		if workers > 0 {
			o.workers = workers
		}
	}
}
