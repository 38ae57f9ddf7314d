// Package curve wraps the embedded twisted-Edwards curve used by the
// Schnorr signature core (pkg/signature). It is a thin adapter over
// gnark-crypto's native point arithmetic, kept deliberately small: the
// field and curve arithmetic themselves are gnark-crypto's job; this
// package only fixes the byte serialization that the rest of the core
// needs to agree on, native and in-circuit.
package curve

import (
	"crypto/rand"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
)

// Point is an affine point on the embedded curve (the "inner" curve whose
// base field is the BN254 scalar field, so that curve operations can be
// expressed as R1CS constraints over the same field the outer SNARK uses).
type Point struct {
	inner twistededwards.PointAffine
}

// Scalar is an embedded-curve scalar, held as a BN254 scalar-field element:
// its value is reduced modulo the BN254 scalar-field modulus, not modulo the
// embedded curve's subgroup order.
type Scalar = fr.Element

// Generator returns the curve's standard base point. Schnorr parameters
// hold a copy of this value; it is treated as a circuit constant.
func Generator() Point {
	params := twistededwards.GetEdwardsCurve()
	return Point{inner: params.Base}
}

// RandomScalar samples a uniformly random, possibly-zero scalar. Callers
// that need a non-zero secret key should reject a zero result and resample
// (Schnorr secret keys of zero are degenerate but not otherwise unsafe to
// detect this way, since the probability is negligible).
func RandomScalar() (Scalar, error) {
	var s Scalar
	v, err := rand.Int(rand.Reader, fr.Modulus())
	if err != nil {
		return s, err
	}
	s.SetBigInt(v)
	return s, nil
}

// ScalarMul returns scalar*p.
func ScalarMul(p Point, scalar *Scalar) Point {
	var out twistededwards.PointAffine
	out.ScalarMultiplication(&p.inner, scalar.BigInt(new(big.Int)))
	return Point{inner: out}
}

// Add returns a+b.
func Add(a, b Point) Point {
	var out twistededwards.PointAffine
	out.Add(&a.inner, &b.inner)
	return Point{inner: out}
}

// Bytes returns the canonical 64-byte encoding of p: the X and Y
// coordinates, each as a 32-byte canonical big-endian field element,
// concatenated X||Y. Every caller — native Schnorr sign/verify, the
// account-information leaf preimage, and the in-circuit mirrors of both —
// must use exactly this layout, since it is the #1 source of
// prover/verifier mismatch.
func (p Point) Bytes() []byte {
	xb := p.inner.X.Bytes()
	yb := p.inner.Y.Bytes()
	out := make([]byte, 0, 64)
	out = append(out, xb[:]...)
	out = append(out, yb[:]...)
	return out
}

// X and Y expose the affine coordinates for code (e.g. the account index)
// that needs to allocate them individually as circuit variables.
func (p Point) X() *big.Int { return p.inner.X.BigInt(new(big.Int)) }
func (p Point) Y() *big.Int { return p.inner.Y.BigInt(new(big.Int)) }

// NewPoint builds a Point from affine coordinates without validating curve
// membership; callers that accept points from untrusted input should use
// AssertOnCurve via the circuit gadget, since the circuit is the only place
// that needs to enforce it (account registration is a native-only,
// trusted operation in this core).
func NewPoint(x, y *big.Int) Point {
	var p twistededwards.PointAffine
	p.X.SetBigInt(x)
	p.Y.SetBigInt(y)
	return Point{inner: p}
}
