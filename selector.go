package commutative

import (
	"context"

	"github.com/pkg/errors"
)

// A Selector chooses how [ResolveModulus] obtains a modulus. It is one of
// [ExplicitModulus], [NamedGroup], [GeneratedBitLength] or [DefaultGroup]; a nil Selector
// behaves like DefaultGroup
type Selector interface {
	selector()
}

// ExplicitModulus is a caller-supplied prime, big-endian. It must be a safe prime
type ExplicitModulus []byte

// NamedGroup selects a well-known group such as "modp2048" (see [GroupNames])
type NamedGroup string

// GeneratedBitLength asks for a freshly generated safe prime of the given length
type GeneratedBitLength uint

// DefaultGroup selects the group named by [DefaultGroupName]
type DefaultGroup struct{}

func (ExplicitModulus) selector()    {}
func (NamedGroup) selector()         {}
func (GeneratedBitLength) selector() {}
func (DefaultGroup) selector()       {}

// ResolveModulus turns a selector into a validated safe prime. Only a [GeneratedBitLength]
// selector blocks for long; ctx cancels that search
func ResolveModulus(ctx context.Context, sel Selector, opts ...Option) (*Modulus, error) {
	o := newOptions(opts)

	switch s := sel.(type) {
	case nil, DefaultGroup:
		return LookupGroup(DefaultGroupName)
	case ExplicitModulus:
		return checkSafePrime(s, o)
	case NamedGroup:
		return LookupGroup(string(s))
	case GeneratedBitLength:
		// uint values beyond int range are certainly not sane
		bits := int(s)
		if bits < 0 || uint(bits) != uint(s) {
			return nil, errors.Wrapf(ErrInvalidBitLength, "bit length %d is out of range", uint(s))
		}
		return GenerateSafePrime(ctx, bits, opts...)
	default:
		return nil, errors.Wrapf(ErrInvalidArgument, "unrecognized selector %T", sel)
	}
}
