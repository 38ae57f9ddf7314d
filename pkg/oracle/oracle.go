// Package oracle implements the Fiat-Shamir random oracle used to turn the
// Schnorr sigma protocol into a non-interactive signature (pkg/signature).
// The challenge hash is MiMC, with a native form (gnark-crypto's
// ecc/bn254/fr/mimc) and a matching in-circuit gadget (gnark's
// std/hash/mimc), so the native and in-circuit challenge are bit-identical
// by construction.
package oracle

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// Challenge computes e = H(salt? || pubKeyBytes || commitmentBytes || msg),
// folding the byte string into field elements 31 bytes at a time (one
// short of the 32-byte field element width, so every chunk is guaranteed
// to be a canonical representative with no modular wraparound) before
// feeding them to MiMC. The result is returned as the canonical 32-byte
// encoding of the output field element, matching the Signature
// wire format's verifier_challenge field.
func Challenge(salt []byte, pubKeyBytes, commitmentBytes, msg []byte) [32]byte {
	h := mimc.NewMiMC()

	write := func(b []byte) {
		for len(b) > 0 {
			n := 31
			if len(b) < n {
				n = len(b)
			}
			var e fr.Element
			e.SetBytes(b[:n])
			eb := e.Bytes()
			h.Write(eb[:])
			b = b[n:]
		}
	}

	if len(salt) > 0 {
		write(salt)
	}
	write(pubKeyBytes)
	write(commitmentBytes)
	write(msg)

	digest := h.Sum(nil)
	var out [32]byte
	copy(out[:], digest)
	return out
}

// ChallengeScalar reduces a 32-byte challenge into an embedded-curve
// scalar, matching the in-circuit reduction performed when the challenge
// bytes are reinterpreted as the exponent for ScalarMul.
func ChallengeScalar(challenge [32]byte) fr.Element {
	var e fr.Element
	e.SetBytes(challenge[:])
	return e
}

// ChallengeBigInt is a convenience wrapper for callers that want a
// *big.Int exponent rather than an fr.Element.
func ChallengeBigInt(challenge [32]byte) *big.Int {
	s := ChallengeScalar(challenge)
	return s.BigInt(new(big.Int))
}
