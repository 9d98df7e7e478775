package commutative

import (
	"math/big"
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigTwo  = big.NewInt(2)
)

// check that n divides (a - b)
func congruentModN(a *big.Int, b *big.Int, N *big.Int) bool {
	aModN := new(big.Int).Mod(a, N)
	bModN := new(big.Int).Mod(b, N)

	return aModN.Cmp(bModN) == 0
}

// gcd(a, b) == 1
func coprime(a *big.Int, b *big.Int) bool {
	gcd := new(big.Int).GCD(nil, nil, a, b)
	return gcd.Cmp(bigOne) == 0
}

// intToBytes returns the minimal big-endian encoding of x. Zero is encoded as a single 0x00 byte
// so that it survives a round trip through Encrypt and Decrypt, both of which reject empty input
func intToBytes(x *big.Int) []byte {
	if x.Sign() == 0 {
		return []byte{0}
	}
	return x.Bytes()
}
