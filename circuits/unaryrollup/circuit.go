// Package unaryrollup specializes circuits/rollup to a single transaction:
// no intermediate roots are needed since the one transaction's post-root
// is already the public FinalRoot. Kept as its own circuit type, rather
// than circuits/rollup.Circuit with NumTx=1, because the
// intermediate-roots array degenerates to a zero-length array in that
// case and is clearer spelled out.
package unaryrollup

import (
	"github.com/consensys/gnark/frontend"
	"github.com/nyxledger/rollup-core/pkg/account"
	"github.com/nyxledger/rollup-core/pkg/curve"
	"github.com/nyxledger/rollup-core/pkg/hashcore"
	"github.com/nyxledger/rollup-core/pkg/merkle"
	"github.com/nyxledger/rollup-core/pkg/signature"
	"github.com/nyxledger/rollup-core/pkg/transaction"
)

// TreeDepth matches circuits/rollup.TreeDepth: both batch sizes operate
// over the same account tree shape.
const TreeDepth = 8

// PathVar is the fixed-depth path shape for this circuit.
type PathVar struct {
	Siblings   [TreeDepth]frontend.Variable
	Directions [TreeDepth]frontend.Variable
}

func (p PathVar) toMerklePathVar() merkle.PathVar {
	return merkle.PathVar{Siblings: p.Siblings[:], Directions: p.Directions[:]}
}

// Circuit proves that applying a single transaction to the tree rooted
// at InitialRoot yields the tree rooted at FinalRoot.
type Circuit struct {
	InitialRoot frontend.Variable `gnark:"initialRoot,public"`
	FinalRoot   frontend.Variable `gnark:"finalRoot,public"`

	Transaction      transaction.Var
	SenderPreInfo    account.InformationVar
	RecipientPreInfo account.InformationVar
	SenderPath       PathVar
	RecipientPath    PathVar
}

// Define mirrors circuits/rollup.Circuit.Define for the NumTx == 1 case.
func (c *Circuit) Define(api frontend.API) error {
	cg, err := curve.NewGadget(api)
	if err != nil {
		return err
	}
	hg, err := hashcore.NewGadget(api)
	if err != nil {
		return err
	}

	sigParams := signature.NewParametersVar(signature.Setup())
	hashParams := hashcore.NewParametersVar(hashcore.Setup())

	ok, err := transaction.ValidateVar(
		api, cg, hg,
		sigParams, hashParams,
		c.Transaction,
		c.SenderPreInfo, c.RecipientPreInfo,
		c.SenderPath.toMerklePathVar(), c.RecipientPath.toMerklePathVar(),
		c.InitialRoot, c.FinalRoot,
	)
	if err != nil {
		return err
	}
	api.AssertIsEqual(ok, 1)
	return nil
}
