package prover_test

import (
	"testing"

	"github.com/nyxledger/rollup-core/circuits/rollup"
	"github.com/nyxledger/rollup-core/pkg/account"
	"github.com/nyxledger/rollup-core/pkg/ledger"
	"github.com/nyxledger/rollup-core/pkg/prover"
	"github.com/nyxledger/rollup-core/pkg/signature"
	"github.com/nyxledger/rollup-core/pkg/transaction"
)

func newFundedState(t *testing.T, n int, balance account.Amount) (*ledger.State, []signature.SecretKey) {
	t.Helper()
	state := ledger.New(256, ledger.Sample())
	sks := make([]signature.SecretKey, n)
	for i := 0; i < n; i++ {
		id, sk, err := state.SampleKeysAndRegister()
		if err != nil {
			t.Fatalf("register account %d: %v", i, err)
		}
		if !state.UpdateBalance(id, balance) {
			t.Fatalf("fund account %d", id)
		}
		sks[i] = sk
	}
	return state, sks
}

func TestStrictModeRejectsWrongBatchSize(t *testing.T) {
	state, sks := newFundedState(t, 2, 100)
	tx, err := transaction.Create(state.Params.Sig, 1, 2, 10, sks[0])
	if err != nil {
		t.Fatalf("create tx: %v", err)
	}

	d := prover.New(state, prover.Strict)
	if _, err := d.WithStateAndTransactions([]transaction.Transaction{tx}); err == nil {
		t.Fatal("expected strict mode to reject a batch shorter than rollup.NumTx")
	}
}

func TestPermissiveModeSkipsConflictingTransactions(t *testing.T) {
	state, sks := newFundedState(t, rollup.NumTx+1, 50)

	// The first candidate spends the sender's whole balance; a second
	// candidate from the same sender, sequenced right after, can no longer
	// afford anything and must be skipped rather than accepted against the
	// stale (pre-batch) balance.
	txs := make([]transaction.Transaction, 0, rollup.NumTx+1)
	first, err := transaction.Create(state.Params.Sig, 1, 2, 50, sks[0])
	if err != nil {
		t.Fatalf("create first tx: %v", err)
	}
	txs = append(txs, first)

	conflicting, err := transaction.Create(state.Params.Sig, 1, 3, 50, sks[0])
	if err != nil {
		t.Fatalf("create conflicting tx: %v", err)
	}
	txs = append(txs, conflicting)

	for i := 1; i < rollup.NumTx; i++ {
		sender := account.ID(i + 1)
		recipient := account.ID(i + 2)
		tx, err := transaction.Create(state.Params.Sig, sender, recipient, 10, sks[i])
		if err != nil {
			t.Fatalf("create filler tx %d: %v", i, err)
		}
		txs = append(txs, tx)
	}

	d := prover.New(state, prover.Permissive)
	result, err := d.WithStateAndTransactions(txs)
	if err != nil {
		t.Fatalf("permissive batch selection: %v", err)
	}
	if result == nil {
		t.Fatal("expected a non-nil witness result")
	}

	// The conflicting transaction must not have been applied: account 1
	// should be fully drained by `first` alone, not double-spent.
	if state.Accounts[1].Balance != 0 {
		t.Fatalf("account 1 balance after batch: got %d, want 0", state.Accounts[1].Balance)
	}
	// Account 3 starts at 50 and the fillers credit and debit it 10 each, so
	// it ends at 50; the conflicting transfer would have made it 100.
	if state.Accounts[3].Balance != 50 {
		t.Fatalf("account 3 should never have received the conflicting transfer, got balance %d, want 50", state.Accounts[3].Balance)
	}
}

func TestPermissiveModeErrorsWhenTooFewCandidatesValidate(t *testing.T) {
	state, sks := newFundedState(t, 2, 5)
	tx, err := transaction.Create(state.Params.Sig, 1, 2, 1000, sks[0])
	if err != nil {
		t.Fatalf("create tx: %v", err)
	}

	d := prover.New(state, prover.Permissive)
	if _, err := d.WithStateAndTransactions([]transaction.Transaction{tx}); err == nil {
		t.Fatal("expected an error when fewer than rollup.NumTx candidates validate")
	}
}

func TestStrictModeSingleTransactionRejectsOverdraft(t *testing.T) {
	state, sks := newFundedState(t, 2, 5)
	tx, err := transaction.Create(state.Params.Sig, 1, 2, 1000, sks[0])
	if err != nil {
		t.Fatalf("create tx: %v", err)
	}

	d := prover.New(state, prover.Strict)
	if _, err := d.WithStateAndTransaction(tx); err == nil {
		t.Fatal("expected strict mode to reject an overdraft transaction")
	}
}

func TestPermissiveModeSingleTransactionBuildsWitnessForOverdraft(t *testing.T) {
	state, sks := newFundedState(t, 2, 5)
	tx, err := transaction.Create(state.Params.Sig, 1, 2, 1000, sks[0])
	if err != nil {
		t.Fatalf("create tx: %v", err)
	}

	d := prover.New(state, prover.Permissive)
	result, err := d.WithStateAndTransaction(tx)
	if err != nil {
		t.Fatalf("expected permissive mode to build a witness for an invalid transaction, got: %v", err)
	}
	if result == nil {
		t.Fatal("expected a non-nil witness result")
	}
}
