// Package account implements the ledger's account model:
// AccountId, Amount, and AccountInformation, together with their canonical
// byte encodings. The encoding rules here are load-bearing — they are the
// Merkle leaf preimage, so the in-circuit mirror in gadget.go must agree
// with every function in this file bit-for-bit.
package account

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/nyxledger/rollup-core/pkg/curve"
)

// ErrCapacityExhausted is returned by the ledger when no more account IDs
// are available.
var ErrCapacityExhausted = errors.New("account: capacity exhausted")

// ID identifies an account. Zero is never issued: registration
// hands out IDs starting at 1, so an ID value of 0 can safely mean
// "no such account" wherever that's convenient.
type ID uint8

// Bytes returns the one-byte encoding of id.
func (id ID) Bytes() []byte { return []byte{byte(id)} }

// Amount is an account balance or transfer amount, a plain u64.
type Amount uint64

// CheckedAdd returns a+b and true, or (0, false) on overflow.
func (a Amount) CheckedAdd(b Amount) (Amount, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// CheckedSub returns a-b and true, or (0, false) on underflow.
func (a Amount) CheckedSub(b Amount) (Amount, bool) {
	if a < b {
		return 0, false
	}
	return a - b, true
}

// Bytes returns the 8-byte little-endian encoding of a.
func (a Amount) Bytes() []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(a))
	return b[:]
}

// PublicKey is an affine point on the embedded curve.
type PublicKey = curve.Point

// SecretKey is a scalar together with its derived public key, matching the
// native Schnorr secret-key shape used throughout pkg/signature.
type SecretKey struct {
	Scalar    curve.Scalar
	PublicKey PublicKey
}

// Information pairs a public key with a balance. Its canonical encoding is the Merkle leaf preimage:
// serialize(public_key) || balance_le_u64_bytes.
type Information struct {
	PublicKey PublicKey
	Balance   Amount
}

// Bytes returns the canonical byte encoding of info.
func (info Information) Bytes() []byte {
	out := make([]byte, 0, 64+8)
	out = append(out, info.PublicKey.Bytes()...)
	out = append(out, info.Balance.Bytes()...)
	return out
}
