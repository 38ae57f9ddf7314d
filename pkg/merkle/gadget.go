package merkle

import (
	"github.com/consensys/gnark/frontend"
	"github.com/nyxledger/rollup-core/pkg/hashcore"
)

// PathVar is the in-circuit mirror of Path: a slice of sibling digests and
// a matching slice of direction bits, both witnessed per instance (the
// depth is fixed by the circuit that wraps it, not by the witness).
type PathVar struct {
	Siblings   []frontend.Variable
	Directions []frontend.Variable // 0 or 1, constrained boolean by ComputeRootVar
}

// ComputeRootVar mirrors Path.ComputeRoot: it folds leaf up through every
// sibling, using api.Select on the direction bit to pick the (left, right)
// order at each level instead of branching on it, and constrains the
// direction bit to be boolean as a side effect.
func ComputeRootVar(api frontend.API, g *hashcore.Gadget, params hashcore.ParametersVar, leaf frontend.Variable, p PathVar) frontend.Variable {
	current := leaf
	for lvl := 0; lvl < len(p.Siblings); lvl++ {
		dir := p.Directions[lvl]
		api.AssertIsBoolean(dir)

		sibling := p.Siblings[lvl]
		left := api.Select(dir, sibling, current)
		right := api.Select(dir, current, sibling)

		current = g.TwoToOneHashVar(params, left, right)
	}
	return current
}

// VerifyMembershipVar mirrors Path.VerifyMembership: returns a circuit
// boolean constrained true iff leaf authenticates to root along p.
func VerifyMembershipVar(api frontend.API, g *hashcore.Gadget, params hashcore.ParametersVar, leaf, root frontend.Variable, p PathVar) frontend.Variable {
	computed := ComputeRootVar(api, g, params, leaf, p)
	return api.IsZero(api.Sub(computed, root))
}

// VerifyUpdateVar is the in-circuit "update_and_check" gadget:
// it reuses the single witnessed path p to authenticate both preLeaf
// against preRoot and postLeaf against postRoot, returning the AND of the
// two membership checks. Because p's siblings are shared between both
// reconstructions, any attempt to change more than the one leaf at
// leafIndex fails to authenticate against at least one of the roots.
func VerifyUpdateVar(api frontend.API, g *hashcore.Gadget, params hashcore.ParametersVar, preLeaf, postLeaf, preRoot, postRoot frontend.Variable, p PathVar) frontend.Variable {
	preOK := VerifyMembershipVar(api, g, params, preLeaf, preRoot, p)
	postOK := VerifyMembershipVar(api, g, params, postLeaf, postRoot, p)
	return api.And(preOK, postOK)
}
