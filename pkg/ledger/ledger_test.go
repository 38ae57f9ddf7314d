package ledger_test

import (
	"testing"

	"github.com/nyxledger/rollup-core/pkg/account"
	"github.com/nyxledger/rollup-core/pkg/ledger"
	"github.com/nyxledger/rollup-core/pkg/transaction"
)

func TestRegisterAssignsSequentialIDs(t *testing.T) {
	state := ledger.New(8, ledger.Sample())
	id1, _, err := state.SampleKeysAndRegister()
	if err != nil {
		t.Fatalf("register 1: %v", err)
	}
	id2, _, err := state.SampleKeysAndRegister()
	if err != nil {
		t.Fatalf("register 2: %v", err)
	}
	if id1 != 1 || id2 != 2 {
		t.Fatalf("expected sequential IDs starting at 1, got %d then %d", id1, id2)
	}
}

func TestRegisterFailsWhenCapacityExhausted(t *testing.T) {
	// A capacity of 4 gives a 4-leaf tree; ID 0 is never issued, so only
	// IDs 1-3 fit.
	state := ledger.New(4, ledger.Sample())
	if _, _, err := state.SampleKeysAndRegister(); err != nil {
		t.Fatalf("register 1: %v", err)
	}
	if _, _, err := state.SampleKeysAndRegister(); err != nil {
		t.Fatalf("register 2: %v", err)
	}
	if _, _, err := state.SampleKeysAndRegister(); err != nil {
		t.Fatalf("register 3: %v", err)
	}
	if _, _, err := state.SampleKeysAndRegister(); err != account.ErrCapacityExhausted {
		t.Fatalf("expected ErrCapacityExhausted, got %v", err)
	}
}

func TestUpdateBalanceChangesRoot(t *testing.T) {
	state := ledger.New(8, ledger.Sample())
	id, _, err := state.SampleKeysAndRegister()
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	before := state.Root()
	if !state.UpdateBalance(id, 100) {
		t.Fatal("expected update to succeed for a registered account")
	}
	after := state.Root()
	if before.Cmp(after) == 0 {
		t.Fatal("expected the root to change after a balance update")
	}
}

func TestUpdateBalanceFailsForUnregisteredAccount(t *testing.T) {
	state := ledger.New(8, ledger.Sample())
	if state.UpdateBalance(99, 100) {
		t.Fatal("expected update to fail for an unregistered account")
	}
}

func TestApplyTransactionMovesBalance(t *testing.T) {
	state := ledger.New(8, ledger.Sample())
	aliceID, aliceSK, err := state.SampleKeysAndRegister()
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	bobID, _, err := state.SampleKeysAndRegister()
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}
	if !state.UpdateBalance(aliceID, 100) {
		t.Fatal("fund alice")
	}

	tx, err := transaction.Create(state.Params.Sig, aliceID, bobID, 30, aliceSK)
	if err != nil {
		t.Fatalf("create tx: %v", err)
	}
	if !state.ApplyTransaction(tx) {
		t.Fatal("expected a well-formed, affordable transaction to apply")
	}
	if state.Accounts[aliceID].Balance != 70 {
		t.Fatalf("alice balance: got %d, want 70", state.Accounts[aliceID].Balance)
	}
	if state.Accounts[bobID].Balance != 30 {
		t.Fatalf("bob balance: got %d, want 30", state.Accounts[bobID].Balance)
	}
}

func TestApplyTransactionRejectsOverdraft(t *testing.T) {
	state := ledger.New(8, ledger.Sample())
	aliceID, aliceSK, err := state.SampleKeysAndRegister()
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	bobID, _, err := state.SampleKeysAndRegister()
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}
	if !state.UpdateBalance(aliceID, 10) {
		t.Fatal("fund alice")
	}

	tx, err := transaction.Create(state.Params.Sig, aliceID, bobID, 20, aliceSK)
	if err != nil {
		t.Fatalf("create tx: %v", err)
	}
	if state.ApplyTransaction(tx) {
		t.Fatal("expected an overdrawing transaction to be rejected")
	}
	if state.Accounts[aliceID].Balance != 10 {
		t.Fatal("expected a rejected transaction to leave balances untouched")
	}
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	state := ledger.New(8, ledger.Sample())
	id, _, err := state.SampleKeysAndRegister()
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	clone := state.Clone()

	if !clone.UpdateBalance(id, 500) {
		t.Fatal("update clone balance")
	}
	if state.Accounts[id].Balance == 500 {
		t.Fatal("expected mutating the clone to leave the original state untouched")
	}
	if state.Root().Cmp(clone.Root()) == 0 {
		t.Fatal("expected the clone's root to diverge after an independent mutation")
	}
}
