package rollup

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

// WitnessResult holds the fully populated circuit assignment and the
// public roots a caller typically needs alongside it (e.g. to build the
// gnark public witness or to log the batch's effect).
type WitnessResult struct {
	Assignment        Circuit
	InitialRoot       *big.Int
	FinalRoot         *big.Int
	IntermediateRoots [NumTx - 1]*big.Int
}

// PrepareWitness applies txs to state in order, snapshotting each
// transaction's pre-state sender/recipient information and membership
// paths before mutating it, and records every root the batch passes
// through. state is mutated in place — callers that need the pre-batch
// state for anything else should clone it first.
//
// validate selects how each tx is applied: true rejects the whole batch
// the moment one transaction fails native validation (signature, balance,
// membership); false force-applies every transaction's raw balance effect
// regardless of validity, so the resulting assignment can be handed to a
// permissive-mode circuit expected to be unsatisfied.
func PrepareWitness(state *ledger.State, txs []transaction.Transaction, validate bool) (*WitnessResult, error) {
	if len(txs) != NumTx {
		return nil, fmt.Errorf("rollup: expected %d transactions, got %d", NumTx, len(txs))
	}

	var assignment Circuit
	var result WitnessResult

	result.InitialRoot = new(big.Int).Set(state.Root())
	assignment.InitialRoot = result.InitialRoot

	for i, tx := range txs {
		senderInfo, ok := state.Accounts[tx.Sender]
		if !ok {
			return nil, fmt.Errorf("rollup: tx %d: sender account %d not registered", i, tx.Sender)
		}
		recipientInfo, ok := state.Accounts[tx.Recipient]
		if !ok {
			return nil, fmt.Errorf("rollup: tx %d: recipient account %d not registered", i, tx.Recipient)
		}

		assignment.Transactions[i] = toTxVar(tx)
		assignment.SenderPreInfo[i] = toInfoVar(senderInfo)
		assignment.RecipientPreInfo[i] = toInfoVar(recipientInfo)
		assignment.SenderPaths[i] = toPathVar(state.Path(tx.Sender))
		assignment.RecipientPaths[i] = toPathVar(state.Path(tx.Recipient))

		if validate {
			if !state.ApplyTransaction(tx) {
				return nil, fmt.Errorf("rollup: tx %d failed to apply against the current state", i)
			}
		} else if err := state.ForceApplyTransaction(tx); err != nil {
			return nil, fmt.Errorf("rollup: tx %d: %w", i, err)
		}

		if i < NumTx-1 {
			root := new(big.Int).Set(state.Root())
			assignment.IntermediateRoots[i] = root
			result.IntermediateRoots[i] = root
		}
	}

	result.FinalRoot = new(big.Int).Set(state.Root())
	assignment.FinalRoot = result.FinalRoot
	result.Assignment = assignment

	return &result, nil
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
