package unaryrollup

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/nyxledger/rollup-core/pkg/account"
	"github.com/nyxledger/rollup-core/pkg/curve"
	"github.com/nyxledger/rollup-core/pkg/ledger"
	"github.com/nyxledger/rollup-core/pkg/merkle"
	"github.com/nyxledger/rollup-core/pkg/oracle"
	"github.com/nyxledger/rollup-core/pkg/signature"
	"github.com/nyxledger/rollup-core/pkg/transaction"
)

// WitnessResult holds the fully populated circuit assignment plus the
// public roots it corresponds to.
type WitnessResult struct {
	Assignment  Circuit
	InitialRoot *big.Int
	FinalRoot   *big.Int
}

// PrepareWitness applies the single transaction tx to state, snapshotting
// its pre-state sender/recipient information and membership paths before
// mutating it.
//
// validate selects how tx is applied: true rejects tx outright if it
// fails native validation; false force-applies tx's raw balance effect
// regardless of validity, so the resulting assignment can be handed to a
// permissive-mode circuit expected to be unsatisfied.
func PrepareWitness(state *ledger.State, tx transaction.Transaction, validate bool) (*WitnessResult, error) {
	senderInfo, ok := state.Accounts[tx.Sender]
	if !ok {
		return nil, fmt.Errorf("unaryrollup: sender account %d not registered", tx.Sender)
	}
	recipientInfo, ok := state.Accounts[tx.Recipient]
	if !ok {
		return nil, fmt.Errorf("unaryrollup: recipient account %d not registered", tx.Recipient)
	}

	initialRoot := new(big.Int).Set(state.Root())

	var assignment Circuit
	assignment.InitialRoot = initialRoot
	assignment.Transaction = toTxVar(tx)
	assignment.SenderPreInfo = toInfoVar(senderInfo)
	assignment.RecipientPreInfo = toInfoVar(recipientInfo)
	assignment.SenderPath = toPathVar(state.Path(tx.Sender))
	assignment.RecipientPath = toPathVar(state.Path(tx.Recipient))

	if validate {
		if !state.ApplyTransaction(tx) {
			return nil, fmt.Errorf("unaryrollup: transaction failed to apply against the current state")
		}
	} else if err := state.ForceApplyTransaction(tx); err != nil {
		return nil, fmt.Errorf("unaryrollup: %w", err)
	}

	finalRoot := new(big.Int).Set(state.Root())
	assignment.FinalRoot = finalRoot

	return &WitnessResult{
		Assignment:  assignment,
		InitialRoot: initialRoot,
		FinalRoot:   finalRoot,
	}, nil
}

func toTxVar(tx transaction.Transaction) transaction.Var {
	return transaction.Var{
		Sender:    account.IDVar{Val: big.NewInt(int64(tx.Sender))},
		Recipient: account.IDVar{Val: big.NewInt(int64(tx.Recipient))},
		Amount:    account.AmountVar{Val: new(big.Int).SetUint64(uint64(tx.Amount))},
		Signature: signature.SignatureVar{
			ProverResponse:    tx.Signature.ProverResponse,
			VerifierChallenge: oracle.ChallengeScalar(tx.Signature.VerifierChallenge),
		},
	}
}

func toInfoVar(info account.Information) account.InformationVar {
	return account.InformationVar{
		PublicKey: curve.PointVar{X: info.PublicKey.X(), Y: info.PublicKey.Y()},
		Balance:   account.AmountVar{Val: new(big.Int).SetUint64(uint64(info.Balance))},
	}
}

func toPathVar(path *merkle.Path) PathVar {
	var out PathVar
	for i := 0; i < TreeDepth; i++ {
		out.Siblings[i] = frontend.Variable(path.Siblings[i])
		out.Directions[i] = frontend.Variable(big.NewInt(int64(path.Directions[i])))
	}
	return out
}
