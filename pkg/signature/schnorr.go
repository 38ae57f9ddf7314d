// Package signature implements the Schnorr signature scheme used to
// authorize transactions: sign/verify over the embedded curve
// (pkg/curve) with pkg/oracle as the Fiat-Shamir challenge hash.
package signature

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"github.com/nyxledger/rollup-core/pkg/curve"
	"github.com/nyxledger/rollup-core/pkg/oracle"
)

// Parameters are the Schnorr group parameters: the generator and an
// optional domain-separation salt. They are cloneable and treated as
// circuit constants.
type Parameters struct {
	Generator curve.Point
	Salt      []byte // nil if unset
}

// Setup samples fresh parameters. The generator is fixed by the curve; the
// salt is left unset since this scheme has no domain separation
// requirement beyond the Fiat-Shamir oracle's own input framing.
func Setup() Parameters {
	return Parameters{Generator: curve.Generator()}
}

// Clone returns a deep-enough copy of p suitable for sharing across
// State snapshots (the salt slice is never mutated in place, so a shallow
// copy of the slice header is sufficient, but we copy the backing array
// defensively since Parameters crosses goroutine/clone boundaries).
func (p Parameters) Clone() Parameters {
	if p.Salt == nil {
		return Parameters{Generator: p.Generator}
	}
	salt := make([]byte, len(p.Salt))
	copy(salt, p.Salt)
	return Parameters{Generator: p.Generator, Salt: salt}
}

// SecretKey is a scalar together with the public key it derives, so
// signing never needs to recompute the public key from scratch.
type SecretKey struct {
	Scalar    curve.Scalar
	PublicKey curve.Point
}

// Keygen samples a fresh secret key: secret is a random scalar x; the
// public key is y = x*G.
func Keygen(params Parameters) (SecretKey, error) {
	x, err := curve.RandomScalar()
	if err != nil {
		return SecretKey{}, err
	}
	pk := curve.ScalarMul(params.Generator, &x)
	return SecretKey{Scalar: x, PublicKey: pk}, nil
}

// Signature is (prover_response, verifier_challenge).
type Signature struct {
	ProverResponse    curve.Scalar
	VerifierChallenge [32]byte
}

// Sign produces a signature over msg under sk. k is sampled fresh for
// every call (k reuse across two signatures under the same key leaks the
// secret, the classical Schnorr nonce-reuse attack).
func Sign(params Parameters, sk SecretKey, msg []byte) (Signature, error) {
	k, err := curve.RandomScalar()
	if err != nil {
		return Signature{}, err
	}
	commitment := curve.ScalarMul(params.Generator, &k)

	challenge := oracle.Challenge(params.Salt, sk.PublicKey.Bytes(), commitment.Bytes(), msg)
	e := oracle.ChallengeScalar(challenge)

	// s = k - e*sk, reduced modulo the embedded curve's subgroup order (not
	// the BN254 scalar-field modulus), so that s*G + e*pk = k*G in Verify.
	curveParams := twistededwards.GetEdwardsCurve()
	s := new(big.Int).Mul(e.BigInt(new(big.Int)), sk.Scalar.BigInt(new(big.Int)))
	s.Sub(k.BigInt(new(big.Int)), s)
	s.Mod(s, &curveParams.Order)
	var response fr.Element
	response.SetBigInt(s)

	return Signature{ProverResponse: response, VerifierChallenge: challenge}, nil
}

// Verify checks sig against pk over msg: reconstruct R' = s*G + e*pk,
// recompute e' = H(salt || pk || R' || msg), accept iff e' == e.
func Verify(params Parameters, pk curve.Point, msg []byte, sig Signature) bool {
	e := oracle.ChallengeScalar(sig.VerifierChallenge)

	sG := curve.ScalarMul(params.Generator, &sig.ProverResponse)
	ePK := curve.ScalarMul(pk, &e)
	claimedCommitment := curve.Add(sG, ePK)

	obtained := oracle.Challenge(params.Salt, pk.Bytes(), claimedCommitment.Bytes(), msg)
	return obtained == sig.VerifierChallenge
}
