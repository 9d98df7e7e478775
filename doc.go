/*
Package commutative implements a commutative cipher based on modular exponentiation over a safe prime

# Overview

Each party holds an encryption exponent e and a decryption exponent d ≡ e⁻¹ (mod p-1) over a
shared safe prime p. Encryption is m^e (mod p) and decryption is c^d (mod p). Since exponents
multiply, layers of encryption commute:

	(m^e1)^e2 ≡ (m^e2)^e1 ≡ m^(e1*e2) (mod p)

so parties can encrypt the same message in any order, and peel their layers off in any order.
This is the building block of Shamir's three-pass protocol and of double-blinding schemes used
for private set intersection.

# Creating ciphers

All parties must agree on the modulus. The default is the 2048-bit RFC 3526 group:

	alice, err := commutative.CreateCipher(ctx, commutative.DefaultGroup{})
	bob, err := commutative.CreateCipher(ctx, commutative.NamedGroup("modp2048"))

A modulus can also be generated, which may take a long time:

	carol, err := commutative.CreateCipher(ctx, commutative.GeneratedBitLength(2048))

or rebuilt from persisted values, which are validated again:

	dave, err := commutative.NewCipher(prime, encryptionKey)

A prime that is valid but shorter than 2048 bits is accepted, and reported through
[Cipher.Advisories] as well as a logged warning.

# The three-pass protocol

	c1, _ := alice.EncryptString("a secret", commutative.UTF8) // alice -> bob
	c2, _ := bob.Encrypt(c1)                                   // bob -> alice
	c3, _ := alice.Decrypt(c2)                                 // alice -> bob
	m, _ := bob.Decrypt(c3)                                    // "a secret"

# Merging keys

[MergeKeys] multiplies two encryption exponents. A cipher built from the merged key encrypts like
both original ciphers applied in sequence. The plain product grows with every merge; when the
modulus is known, [MergeKeysMod] and [Cipher.Merge] keep it reduced mod p-1.

# Limitations

There is no padding, authentication or integrity protection: the message value must simply be
smaller than p, and identical messages encrypt to identical ciphertexts under the same key.
All randomness comes from crypto/rand unless replaced with [WithRandom], which is meant for tests.
*/
package commutative
