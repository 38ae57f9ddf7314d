package account

import (
	"github.com/consensys/gnark/frontend"
	"github.com/nyxledger/rollup-core/pkg/curve"
)

// IDVar is the in-circuit mirror of ID: a single byte-ranged variable.
type IDVar struct {
	Val frontend.Variable
}

// NewIDVar allocates v with a range check confirming it fits in one byte.
// mode selects witness vs. public vs. constant the same way every other
// AllocVar-equivalent in this package does: the caller decides by picking
// which of frontend.Circuit's allocation helpers to apply Val to before
// calling this — this constructor only emits the range constraint.
func NewIDVar(api frontend.API, v frontend.Variable) IDVar {
	api.ToBinary(v, 8)
	return IDVar{Val: v}
}

// ToBytesLE returns the one-variable byte encoding, matching ID.Bytes.
func (v IDVar) ToBytesLE() []frontend.Variable {
	return []frontend.Variable{v.Val}
}

// AmountVar is the in-circuit mirror of Amount: a 64-bit-ranged variable.
type AmountVar struct {
	Val frontend.Variable
}

// NewAmountVar allocates v with a range check confirming it fits in 64
// bits.
func NewAmountVar(api frontend.API, v frontend.Variable) AmountVar {
	api.ToBinary(v, 64)
	return AmountVar{Val: v}
}

// ToBytesLE returns the 8-byte little-endian encoding, matching
// Amount.Bytes. The native Amount is little-endian; ToBinary gives
// little-endian bits, so byte i is bits [8i, 8i+8) read LSB-first within
// the byte and the bytes themselves are already in increasing-significance
// (i.e. little-endian) order — no reversal needed, unlike curve.Gadget's
// big-endian field encoding.
func (v AmountVar) ToBytesLE(api frontend.API) []frontend.Variable {
	bits := api.ToBinary(v.Val, 64)
	out := make([]frontend.Variable, 8)
	for i := 0; i < 8; i++ {
		b := frontend.Variable(0)
		for j := 7; j >= 0; j-- {
			b = api.Add(api.Mul(b, 2), bits[8*i+j])
		}
		out[i] = b
	}
	return out
}

// CheckedAddVar returns a+b, constrained to fit in 64 bits. Forcing
// the 65th bit (and 66th-72nd, kept as headroom) to zero is the overflow
// check: a real overflow produces a sum whose bit 64 is set, which this
// rejects.
func CheckedAddVar(api frontend.API, a, b AmountVar) AmountVar {
	sum := api.Add(a.Val, b.Val)
	return rangeCheck64(api, sum)
}

// CheckedSubVar returns a-b, constrained to fit in 64 bits. Field
// subtraction never goes negative — an underflow wraps around the BN254
// scalar field to a value near the modulus, which is far outside 64 bits,
// so the same range check that catches addition overflow also catches
// subtraction underflow.
func CheckedSubVar(api frontend.API, a, b AmountVar) AmountVar {
	diff := api.Sub(a.Val, b.Val)
	return rangeCheck64(api, diff)
}

// rangeCheck64 decomposes v into 72 bits (64 data bits plus one byte of
// headroom), asserts the headroom byte is all-zero, and reassembles the
// low 64 bits as the returned value.
func rangeCheck64(api frontend.API, v frontend.Variable) AmountVar {
	bits := api.ToBinary(v, 72)
	for i := 64; i < 72; i++ {
		api.AssertIsEqual(bits[i], 0)
	}
	low := frontend.Variable(0)
	for i := 63; i >= 0; i-- {
		low = api.Add(api.Mul(low, 2), bits[i])
	}
	return AmountVar{Val: low}
}

// PublicKeyVar is the in-circuit mirror of PublicKey.
type PublicKeyVar = curve.PointVar

// InformationVar is the in-circuit mirror of Information.
type InformationVar struct {
	PublicKey PublicKeyVar
	Balance   AmountVar
}

// ToBytesLE returns the canonical byte encoding, matching Information.Bytes.
func (v InformationVar) ToBytesLE(api frontend.API, cg *curve.Gadget) []frontend.Variable {
	out := make([]frontend.Variable, 0, 64+8)
	out = append(out, cg.ToBytes(api, v.PublicKey)...)
	out = append(out, v.Balance.ToBytesLE(api)...)
	return out
}
