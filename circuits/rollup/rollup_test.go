package rollup_test

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/nyxledger/rollup-core/circuits/rollup"
	"github.com/nyxledger/rollup-core/pkg/account"
	"github.com/nyxledger/rollup-core/pkg/ledger"
	"github.com/nyxledger/rollup-core/pkg/setup"
	"github.com/nyxledger/rollup-core/pkg/signature"
	"github.com/nyxledger/rollup-core/pkg/transaction"
)

func buildFullBatch(t *testing.T) (*ledger.State, *rollup.WitnessResult) {
	t.Helper()
	state, sks := buildState(t, rollup.NumTx+1, 1000)

	txs := make([]transaction.Transaction, rollup.NumTx)
	for i := 0; i < rollup.NumTx; i++ {
		senderID := account.ID(i + 1)
		recipientID := account.ID(i + 2)
		tx, err := transaction.Create(state.Params.Sig, senderID, recipientID, 10, sks[i])
		if err != nil {
			t.Fatalf("create tx %d: %v", i, err)
		}
		txs[i] = tx
	}

	result, err := rollup.PrepareWitness(state, txs, true)
	if err != nil {
		t.Fatalf("prepare witness: %v", err)
	}
	return state, result
}

// buildState registers n funded accounts and returns the state plus their
// secret keys, indexed the same way the accounts were registered (index 0
// is account ID 1, and so on).
func buildState(t *testing.T, n int, balance account.Amount) (*ledger.State, []signature.SecretKey) {
	t.Helper()
	params := ledger.Sample()
	state := ledger.New(256, params)

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

func TestRollupCircuitEndToEnd(t *testing.T) {
	_, result := buildFullBatch(t)

	ccs, err := setup.CompileCircuit(&rollup.Circuit{})
	if err != nil {
		t.Fatalf("compile circuit: %v", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		t.Fatalf("groth16 setup: %v", err)
	}

	witness, err := frontend.NewWitness(&result.Assignment, ecc.BN254.ScalarField())
	if err != nil {
		t.Fatalf("create witness: %v", err)
	}
	publicWitness, err := witness.Public()
	if err != nil {
		t.Fatalf("extract public witness: %v", err)
	}

	proof, err := groth16.Prove(ccs, pk, witness)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}
	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestRollupPrepareWitnessRejectsWrongBatchSize(t *testing.T) {
	state, _ := buildState(t, 2, 100)
	if _, err := rollup.PrepareWitness(state, nil, true); err == nil {
		t.Fatal("expected an error for an empty transaction batch")
	}
}

func TestRollupPrepareWitnessRejectsUnregisteredRecipient(t *testing.T) {
	state, sks := buildState(t, rollup.NumTx, 1000)

	txs := make([]transaction.Transaction, rollup.NumTx)
	for i := 0; i < rollup.NumTx-1; i++ {
		tx, err := transaction.Create(state.Params.Sig, account.ID(1), account.ID(2), 1, sks[0])
		if err != nil {
			t.Fatalf("create tx %d: %v", i, err)
		}
		txs[i] = tx
	}
	// Final transaction targets an account that was never registered.
	badTx, err := transaction.Create(state.Params.Sig, account.ID(1), account.ID(99), 1, sks[0])
	if err != nil {
		t.Fatalf("create bad tx: %v", err)
	}
	txs[rollup.NumTx-1] = badTx

	if _, err := rollup.PrepareWitness(state, txs, true); err == nil {
		t.Fatal("expected an error for a transaction targeting an unregistered recipient")
	}
}

// TestRollupVerificationFailsWithSwappedPublicInputs is concrete scenario
// 6: a proof built against (initial_root, final_root) verifies, but
// swapping either public input for any other value must make verification
// fail.
func TestRollupVerificationFailsWithSwappedPublicInputs(t *testing.T) {
	_, result := buildFullBatch(t)

	ccs, err := setup.CompileCircuit(&rollup.Circuit{})
	if err != nil {
		t.Fatalf("compile circuit: %v", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		t.Fatalf("groth16 setup: %v", err)
	}

	witness, err := frontend.NewWitness(&result.Assignment, ecc.BN254.ScalarField())
	if err != nil {
		t.Fatalf("create witness: %v", err)
	}
	proof, err := groth16.Prove(ccs, pk, witness)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}

	// Genuine public witness verifies.
	publicWitness, err := witness.Public()
	if err != nil {
		t.Fatalf("extract public witness: %v", err)
	}
	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		t.Fatalf("verify with genuine public inputs: %v", err)
	}

	// Swapping finalRoot in for initialRoot (and vice versa) must fail.
	swapped := rollup.Circuit{
		InitialRoot: result.FinalRoot,
		FinalRoot:   result.InitialRoot,
	}
	swappedWitness, err := frontend.NewWitness(&swapped, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		t.Fatalf("create swapped public witness: %v", err)
	}
	if err := groth16.Verify(proof, vk, swappedWitness); err == nil {
		t.Fatal("expected verification to fail with initial/final roots swapped")
	}
}
