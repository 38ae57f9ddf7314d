package curve

import (
	"github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	twistededwardsgadget "github.com/consensys/gnark/std/algebra/native/twistededwards"
)

// PointVar is the in-circuit mirror of Point.
type PointVar struct {
	X, Y frontend.Variable
}

// Gadget wraps the curve gadget constructor so callers don't have to know
// which embedded curve ID backs it.
type Gadget struct {
	curve twistededwardsgadget.Curve
}

// NewGadget allocates the twisted-Edwards curve gadget for the current
// constraint system. It is cheap (no constraints emitted) and is usually
// called once per circuit Define.
func NewGadget(api frontend.API) (*Gadget, error) {
	c, err := twistededwardsgadget.NewEdCurve(api, twistededwards.BN254)
	if err != nil {
		return nil, err
	}
	return &Gadget{curve: c}, nil
}

// GeneratorVar returns the curve generator as a circuit constant point.
func (g *Gadget) GeneratorVar() PointVar {
	base := g.curve.Params().Base
	return PointVar{X: base.X, Y: base.Y}
}

// ScalarMul mirrors curve.ScalarMul: scalar is a full-width circuit
// variable, decomposed into bits internally by the gadget.
func (g *Gadget) ScalarMul(p PointVar, scalar frontend.Variable) PointVar {
	out := g.curve.ScalarMul(twistededwardsgadget.Point{X: p.X, Y: p.Y}, scalar)
	return PointVar{X: out.X, Y: out.Y}
}

// Add mirrors curve.Add.
func (g *Gadget) Add(a, b PointVar) PointVar {
	out := g.curve.Add(twistededwardsgadget.Point{X: a.X, Y: a.Y}, twistededwardsgadget.Point{X: b.X, Y: b.Y})
	return PointVar{X: out.X, Y: out.Y}
}

// AssertOnCurve enforces that p is a valid curve point. Only used where a
// point is taken as an untrusted witness (the sender's claimed public key
// comes from the ledger, which is already tree-authenticated, so this is
// not invoked there — see account.InformationVar).
func (g *Gadget) AssertOnCurve(p PointVar) {
	g.curve.AssertIsOnCurve(twistededwardsgadget.Point{X: p.X, Y: p.Y})
}

// ToBytes serializes p the same way Point.Bytes does: 32-byte canonical
// big-endian X, then Y, as byte variables. api.ToBinary gives little-endian
// bits; we reverse both bit order (within each byte) and byte order to
// reconstruct the same big-endian layout curve.Point.Bytes emits natively.
func (g *Gadget) ToBytes(api frontend.API, p PointVar) []frontend.Variable {
	out := make([]frontend.Variable, 0, 64)
	out = append(out, fieldToBytesBE(api, p.X)...)
	out = append(out, fieldToBytesBE(api, p.Y)...)
	return out
}

func fieldToBytesBE(api frontend.API, v frontend.Variable) []frontend.Variable {
	bits := api.ToBinary(v, 256)
	bytes := make([]frontend.Variable, 32)
	for i := 0; i < 32; i++ {
		// bits is little-endian (bit 0 = LSB); byte 31-i holds bits
		// [8*i .. 8*i+7] with bit 0 of the byte as the LSB.
		b := frontend.Variable(0)
		for j := 7; j >= 0; j-- {
			b = api.Add(api.Mul(b, 2), bits[8*i+j])
		}
		bytes[31-i] = b
	}
	return bytes
}
