// Package hashcore implements the two compression hashes the Merkle
// commitment needs: a leaf hash (account-information bytes -> digest) and
// a two-to-one hash (two digests -> parent digest). Both are Poseidon2,
// domain-separated by a one-element tag, with matched native and
// in-circuit entry points over constant parameters.
package hashcore

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"
	"github.com/nyxledger/rollup-core/config"
)

// Parameters holds the (trivial, for Poseidon2) domain-separation
// constants for the two hashes. They are carried through the API as a
// struct, rather than hardcoded, so Parameters remains the thing that
// gets allocated as a circuit constant, alongside the Schnorr generator.
type Parameters struct {
	LeafDomainTag     uint64
	TwoToOneDomainTag uint64
}

// Setup returns the (deterministic, for Poseidon2) hash parameters. A
// setup function is kept, rather than a package-level constant, so that
// callers that need a cloneable, circuit-constant value have one to
// allocate from.
func Setup() Parameters {
	return Parameters{
		LeafDomainTag:     config.DomainTagLeaf,
		TwoToOneDomainTag: config.DomainTagTwoToOne,
	}
}

// Digest is a Merkle tree node value: an element of the BN254 scalar
// field, represented as a big.Int for use outside the hot hashing path.
type Digest = *big.Int

// LeafHash hashes a variable-length leaf preimage (the canonical
// AccountInformation encoding) into a single digest. The byte slice is
// folded into field elements 31 bytes at a time, matching how pkg/oracle
// folds its own message bytes, so both use the same chunking convention.
func LeafHash(params Parameters, data []byte) Digest {
	h := poseidon2.NewMerkleDamgardHasher()

	var tag fr.Element
	tag.SetUint64(params.LeafDomainTag)
	tagBytes := tag.Bytes()
	h.Write(tagBytes[:])

	for len(data) > 0 {
		n := 31
		if len(data) < n {
			n = len(data)
		}
		var e fr.Element
		e.SetBytes(data[:n])
		eb := e.Bytes()
		h.Write(eb[:])
		data = data[n:]
	}

	return new(big.Int).SetBytes(h.Sum(nil))
}

// TwoToOneHash combines a left and right digest into their parent.
func TwoToOneHash(params Parameters, left, right Digest) Digest {
	h := poseidon2.NewMerkleDamgardHasher()

	var tag fr.Element
	tag.SetUint64(params.TwoToOneDomainTag)
	tagBytes := tag.Bytes()
	h.Write(tagBytes[:])

	var lFr, rFr fr.Element
	lFr.SetBigInt(left)
	rFr.SetBigInt(right)
	lBytes := lFr.Bytes()
	rBytes := rFr.Bytes()
	h.Write(lBytes[:])
	h.Write(rBytes[:])

	return new(big.Int).SetBytes(h.Sum(nil))
}
