// Package prover is the thin driver between a mutable ledger.State and the
// rollup circuits: it turns a candidate transaction list into
// a circuit witness, in either of two validation modes.
package prover

import (
	"fmt"

	"github.com/nyxledger/rollup-core/circuits/rollup"
	"github.com/nyxledger/rollup-core/circuits/unaryrollup"
	"github.com/nyxledger/rollup-core/pkg/ledger"
	"github.com/nyxledger/rollup-core/pkg/transaction"
)

// Mode selects how the driver reacts to an invalid transaction in its
// input.
type Mode int

const (
	// Strict requires every supplied transaction to be valid and to be
	// applied in order; the first invalid transaction aborts the whole
	// batch.
	Strict Mode = iota
	// Permissive walks the supplied transactions in order and skips any
	// that fail to validate against the state at the time they're
	// considered, continuing until it has collected a full batch (or
	// runs out of candidates).
	Permissive
)

// Driver builds rollup witnesses against one ledger.State, advancing it
// one batch at a time.
type Driver struct {
	State *ledger.State
	Mode  Mode
}

// New constructs a Driver over state in the given mode.
func New(state *ledger.State, mode Mode) *Driver {
	return &Driver{State: state, Mode: mode}
}

// WithStateAndTransactions selects exactly rollup.NumTx transactions from
// candidates (applying Strict/Permissive semantics), applies them to
// d.State, and returns the resulting circuit witness.
func (d *Driver) WithStateAndTransactions(candidates []transaction.Transaction) (*rollup.WitnessResult, error) {
	batch, err := d.selectBatch(candidates, rollup.NumTx)
	if err != nil {
		return nil, err
	}
	return rollup.PrepareWitness(d.State, batch, true)
}

// WithStateAndTransaction is the NUM_TX == 1 specialization, building a
// unaryrollup witness for a single transaction. In Strict mode an invalid
// tx is rejected outright. In Permissive mode tx is force-applied
// regardless of validity: there is no second candidate to fall back to, so
// the point of this mode is to build the circuit anyway and let it be
// proven unsatisfied, exercising the negative-test property a skip could
// never reach.
func (d *Driver) WithStateAndTransaction(tx transaction.Transaction) (*unaryrollup.WitnessResult, error) {
	return unaryrollup.PrepareWitness(d.State, tx, d.Mode == Strict)
}

// selectBatch walks candidates in order, returning the first n that apply
// successfully to d.State. In Strict mode, only the first n candidates are
// considered and any failure aborts immediately. In Permissive mode,
// candidates are tried one at a time against a scratch clone of d.State
// (applied in sequence, so a candidate's validity reflects every
// previously accepted candidate in this batch, not just the original
// state) until n have been found or candidates are exhausted; d.State
// itself is never touched by this lookahead.
func (d *Driver) selectBatch(candidates []transaction.Transaction, n int) ([]transaction.Transaction, error) {
	if d.Mode == Strict {
		if len(candidates) != n {
			return nil, fmt.Errorf("prover: strict mode requires exactly %d transactions, got %d", n, len(candidates))
		}
		return candidates, nil
	}

	scratch := d.State.Clone()
	batch := make([]transaction.Transaction, 0, n)
	for _, tx := range candidates {
		if len(batch) == n {
			break
		}
		if scratch.ApplyTransaction(tx) {
			batch = append(batch, tx)
		}
	}
	if len(batch) != n {
		return nil, fmt.Errorf("prover: permissive mode found only %d of %d valid transactions", len(batch), n)
	}
	return batch, nil
}
