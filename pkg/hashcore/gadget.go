package hashcore

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash"
	"github.com/consensys/gnark/std/permutation/poseidon2"
)

// ParametersVar is the in-circuit mirror of Parameters, allocated as
// circuit constants (Poseidon2's domain tags never vary per-witness).
type ParametersVar struct {
	LeafDomainTag     frontend.Variable
	TwoToOneDomainTag frontend.Variable
}

// NewParametersVar allocates p as circuit constants.
func NewParametersVar(p Parameters) ParametersVar {
	return ParametersVar{
		LeafDomainTag:     p.LeafDomainTag,
		TwoToOneDomainTag: p.TwoToOneDomainTag,
	}
}

// Gadget wraps the shared Poseidon2 permutation instance so LeafHashVar and
// TwoToOneHashVar don't each pay for their own.
type Gadget struct {
	api frontend.API
	p   poseidon2.Permutation
}

// NewGadget constructs the Poseidon2 permutation used by both hashes.
func NewGadget(api frontend.API) (*Gadget, error) {
	p, err := poseidon2.NewPoseidon2FromParameters(api, 2, 6, 50)
	if err != nil {
		return nil, err
	}
	return &Gadget{api: api, p: p}, nil
}

// LeafHashVar mirrors LeafHash: data is a sequence of byte variables
// (already the output of account.InformationVar.ToBytesLE), packed 31
// bytes at a time into field elements exactly as the native side does.
func (g *Gadget) LeafHashVar(params ParametersVar, data []frontend.Variable) frontend.Variable {
	h := hash.NewMerkleDamgardHasher(g.api, g.p, 0)
	h.Write(params.LeafDomainTag)
	for len(data) > 0 {
		n := 31
		if len(data) < n {
			n = len(data)
		}
		h.Write(packBytes(g.api, data[:n]))
		data = data[n:]
	}
	return h.Sum()
}

// TwoToOneHashVar mirrors TwoToOneHash.
func (g *Gadget) TwoToOneHashVar(params ParametersVar, left, right frontend.Variable) frontend.Variable {
	h := hash.NewMerkleDamgardHasher(g.api, g.p, 0)
	h.Write(params.TwoToOneDomainTag)
	h.Write(left, right)
	return h.Sum()
}

// packBytes folds up to 31 big-endian byte variables into one field
// element variable, mirroring fr.Element.SetBytes.
func packBytes(api frontend.API, b []frontend.Variable) frontend.Variable {
	acc := frontend.Variable(0)
	for _, byteVar := range b {
		acc = api.Add(api.Mul(acc, 256), byteVar)
	}
	return acc
}
