// Package rollup implements the batch rollup circuit: a chain
// of NumTx transaction-validity gadgets, each authenticated against the
// Merkle root left behind by the previous transaction, starting at
// InitialRoot and ending at FinalRoot.
package rollup

import (
	"github.com/consensys/gnark/frontend"
	"github.com/nyxledger/rollup-core/pkg/account"
	"github.com/nyxledger/rollup-core/pkg/curve"
	"github.com/nyxledger/rollup-core/pkg/hashcore"
	"github.com/nyxledger/rollup-core/pkg/merkle"
	"github.com/nyxledger/rollup-core/pkg/signature"
	"github.com/nyxledger/rollup-core/pkg/transaction"
)

// PathVar is the fixed-depth in-circuit path shape a rollup batch witness
// carries per transaction side (sender or recipient). It's a thin
// fixed-array wrapper over pkg/merkle.PathVar, which itself stays
// slice-based so a single gadget implementation serves any depth.
type PathVar struct {
	Siblings   [TreeDepth]frontend.Variable
	Directions [TreeDepth]frontend.Variable
}

func (p PathVar) toMerklePathVar() merkle.PathVar {
	return merkle.PathVar{Siblings: p.Siblings[:], Directions: p.Directions[:]}
}

// Circuit proves that applying Transactions[0..NumTx) in order to the
// account tree rooted at InitialRoot yields the tree rooted at FinalRoot.
// IntermediateRoots[i] is the root after Transactions[i] has been applied
// (and before Transactions[i+1]); there are NumTx-1 of them since the
// first and last root are already public.
type Circuit struct {
	InitialRoot frontend.Variable `gnark:"initialRoot,public"`
	FinalRoot   frontend.Variable `gnark:"finalRoot,public"`

	Transactions      [NumTx]transaction.Var
	SenderPreInfo     [NumTx]account.InformationVar
	RecipientPreInfo  [NumTx]account.InformationVar
	SenderPaths       [NumTx]PathVar
	RecipientPaths    [NumTx]PathVar
	IntermediateRoots [NumTx - 1]frontend.Variable
}

// Define chains the per-transaction dual-root gadget across the batch.
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

	roots := make([]frontend.Variable, NumTx+1)
	roots[0] = c.InitialRoot
	roots[NumTx] = c.FinalRoot
	for i := 0; i < NumTx-1; i++ {
		roots[i+1] = c.IntermediateRoots[i]
	}

	for i := 0; i < NumTx; i++ {
		ok, err := transaction.ValidateVar(
			api, cg, hg,
			sigParams, hashParams,
			c.Transactions[i],
			c.SenderPreInfo[i], c.RecipientPreInfo[i],
			c.SenderPaths[i].toMerklePathVar(), c.RecipientPaths[i].toMerklePathVar(),
			roots[i], roots[i+1],
		)
		if err != nil {
			return err
		}
		api.AssertIsEqual(ok, 1)
	}

	return nil
}
