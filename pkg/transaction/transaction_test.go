package transaction_test

import (
	"testing"

	"github.com/nyxledger/rollup-core/pkg/ledger"
	"github.com/nyxledger/rollup-core/pkg/signature"
	"github.com/nyxledger/rollup-core/pkg/transaction"
)

func TestMessageExcludesPublicKeys(t *testing.T) {
	msg := transaction.Message(1, 2, 10)
	if len(msg) != 1+1+8 {
		t.Fatalf("expected a 10-byte message, got %d", len(msg))
	}
	if msg[0] != 1 || msg[1] != 2 {
		t.Fatalf("expected sender||recipient to lead the message, got %x", msg[:2])
	}
}

func TestCreateThenVerifySignatureSucceeds(t *testing.T) {
	sigParams := signature.Setup()
	sk, err := signature.Keygen(sigParams)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}

	tx, err := transaction.Create(sigParams, 1, 2, 10, sk)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !tx.VerifySignature(sigParams, sk.PublicKey) {
		t.Fatal("expected a freshly created transaction's signature to verify")
	}
}

func TestValidateAgainstLedgerSnapshot(t *testing.T) {
	state := ledger.New(8, ledger.Sample())
	aliceID, aliceSK, err := state.SampleKeysAndRegister()
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	bobID, _, err := state.SampleKeysAndRegister()
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}
	if !state.UpdateBalance(aliceID, 50) {
		t.Fatal("fund alice")
	}

	tx, err := transaction.Create(state.Params.Sig, aliceID, bobID, 20, aliceSK)
	if err != nil {
		t.Fatalf("create tx: %v", err)
	}

	senderInfo := state.Accounts[aliceID]
	recipientInfo := state.Accounts[bobID]
	senderPath := state.Path(aliceID)
	recipientPath := state.Path(bobID)
	root := state.Root()

	if !tx.Validate(state.Params.Sig, state.Params.Hash, senderInfo, senderPath, recipientInfo, recipientPath, root) {
		t.Fatal("expected a well-formed, affordable transaction to validate")
	}
}

func TestValidateRejectsInsufficientBalance(t *testing.T) {
	state := ledger.New(8, ledger.Sample())
	aliceID, aliceSK, err := state.SampleKeysAndRegister()
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	bobID, _, err := state.SampleKeysAndRegister()
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}
	if !state.UpdateBalance(aliceID, 5) {
		t.Fatal("fund alice")
	}

	tx, err := transaction.Create(state.Params.Sig, aliceID, bobID, 20, aliceSK)
	if err != nil {
		t.Fatalf("create tx: %v", err)
	}

	senderInfo := state.Accounts[aliceID]
	recipientInfo := state.Accounts[bobID]
	senderPath := state.Path(aliceID)
	recipientPath := state.Path(bobID)
	root := state.Root()

	if tx.Validate(state.Params.Sig, state.Params.Hash, senderInfo, senderPath, recipientInfo, recipientPath, root) {
		t.Fatal("expected an overdrawing transaction to fail validation")
	}
}

func TestValidateRejectsStaleMembershipPath(t *testing.T) {
	state := ledger.New(8, ledger.Sample())
	aliceID, aliceSK, err := state.SampleKeysAndRegister()
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	bobID, _, err := state.SampleKeysAndRegister()
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}
	if !state.UpdateBalance(aliceID, 50) {
		t.Fatal("fund alice")
	}

	senderInfo := state.Accounts[aliceID]
	recipientInfo := state.Accounts[bobID]
	senderPath := state.Path(aliceID)
	recipientPath := state.Path(bobID)

	tx, err := transaction.Create(state.Params.Sig, aliceID, bobID, 20, aliceSK)
	if err != nil {
		t.Fatalf("create tx: %v", err)
	}

	// Mutate the ledger (changing the root) after the paths were captured,
	// so the captured paths are stale against the current root.
	if !state.UpdateBalance(bobID, 999) {
		t.Fatal("mutate ledger")
	}
	currentRoot := state.Root()

	if tx.Validate(state.Params.Sig, state.Params.Hash, senderInfo, senderPath, recipientInfo, recipientPath, currentRoot) {
		t.Fatal("expected validation with stale membership paths to fail")
	}
}
