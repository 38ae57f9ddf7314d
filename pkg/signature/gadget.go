package signature

import (
	"github.com/consensys/gnark/frontend"
	"github.com/nyxledger/rollup-core/pkg/curve"
	"github.com/nyxledger/rollup-core/pkg/oracle"
)

// ParametersVar is the in-circuit mirror of Parameters: the generator and
// salt are baked in as circuit constants.
type ParametersVar struct {
	Generator curve.PointVar
	Salt      []frontend.Variable // empty if the native Parameters had no salt
}

// NewParametersVar allocates params as circuit constants.
func NewParametersVar(params Parameters) ParametersVar {
	out := ParametersVar{
		Generator: curve.PointVar{X: params.Generator.X(), Y: params.Generator.Y()},
	}
	if len(params.Salt) > 0 {
		salt := make([]frontend.Variable, len(params.Salt))
		for i, b := range params.Salt {
			salt[i] = b
		}
		out.Salt = salt
	}
	return out
}

// PublicKeyVar is the in-circuit mirror of curve.Point.
type PublicKeyVar = curve.PointVar

// SignatureVar is the in-circuit mirror of Signature. ProverResponse and
// VerifierChallenge are both witnesses; VerifierChallenge is the value the
// recomputed challenge must equal for the signature to verify.
type SignatureVar struct {
	ProverResponse    frontend.Variable
	VerifierChallenge frontend.Variable
}

// Verify mirrors Verify exactly: reconstruct R' = s*G + e*pk, recompute
// e' over the serialization of pk and R', and return a circuit boolean
// constrained true iff e' == e. cg and pk must come from the same curve
// gadget instance used elsewhere in the circuit (one per Define call).
func Verify(api frontend.API, cg *curve.Gadget, params ParametersVar, pk PublicKeyVar, msg []frontend.Variable, sig SignatureVar) (frontend.Variable, error) {
	sG := cg.ScalarMul(params.Generator, sig.ProverResponse)
	ePK := cg.ScalarMul(pk, sig.VerifierChallenge)
	commitment := cg.Add(sG, ePK)

	pkBytes := cg.ToBytes(api, pk)
	commitmentBytes := cg.ToBytes(api, commitment)

	recomputed, err := oracle.ChallengeVar(api, params.Salt, pkBytes, commitmentBytes, msg)
	if err != nil {
		return nil, err
	}

	return api.IsZero(api.Sub(recomputed, sig.VerifierChallenge)), nil
}
