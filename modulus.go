package commutative

import (
	"math/big"
)

// A Modulus is a validated safe prime p = 2q + 1 defining the multiplicative group mod p.
// It can only be obtained from [CheckSafePrime], [GenerateSafePrime] or [ResolveModulus]
type Modulus struct {
	p     *big.Int
	order *big.Int // p - 1
	q     *big.Int // (p - 1) / 2
	raw   []byte
}

func newModulus(p *big.Int) *Modulus {
	order := new(big.Int).Sub(p, bigOne)
	return &Modulus{
		p:     p,
		order: order,
		q:     new(big.Int).Rsh(order, 1),
		raw:   p.Bytes(),
	}
}

// Int returns a copy of p
func (m *Modulus) Int() *big.Int {
	return new(big.Int).Set(m.p)
}

// Bytes returns the big-endian encoding of p
func (m *Modulus) Bytes() []byte {
	return append([]byte(nil), m.raw...)
}

// Order returns a copy of the group order p - 1
func (m *Modulus) Order() *big.Int {
	return new(big.Int).Set(m.order)
}

// SubgroupOrder returns a copy of the Sophie Germain prime q = (p - 1) / 2
func (m *Modulus) SubgroupOrder() *big.Int {
	return new(big.Int).Set(m.q)
}

func (m *Modulus) BitLen() int {
	return m.p.BitLen()
}

// Equal reports whether both moduli are the same prime
func (m *Modulus) Equal(other *Modulus) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.p.Cmp(other.p) == 0
}
