// Package transaction implements a single transfer between two accounts:
// its canonical signing message, off-chain validation against one ledger
// root (used by pkg/prover to reject bad transactions before they ever
// reach the circuit), and the in-circuit dual-root validation gadget
// (gadget.go) that actually gets proved.
package transaction

import (
	"math/big"

	"github.com/nyxledger/rollup-core/pkg/account"
	"github.com/nyxledger/rollup-core/pkg/hashcore"
	"github.com/nyxledger/rollup-core/pkg/merkle"
	"github.com/nyxledger/rollup-core/pkg/signature"
)

// Transaction transfers Amount from Sender to Recipient, authorized by a
// signature over (sender || recipient || amount) under the sender's key.
type Transaction struct {
	Sender    account.ID
	Recipient account.ID
	Amount    account.Amount
	Signature signature.Signature
}

// Message returns the canonical signing message: sender || recipient ||
// amount, little-endian throughout. Note this deliberately excludes both
// parties' public keys — only the account IDs and the amount are
// authorized, matching the in-circuit MessageVar (gadget.go).
func Message(sender, recipient account.ID, amount account.Amount) []byte {
	out := make([]byte, 0, 1+1+8)
	out = append(out, sender.Bytes()...)
	out = append(out, recipient.Bytes()...)
	out = append(out, amount.Bytes()...)
	return out
}

// Create builds a (possibly invalid — validity is checked later) signed
// transaction.
func Create(sigParams signature.Parameters, sender, recipient account.ID, amount account.Amount, senderSK signature.SecretKey) (Transaction, error) {
	msg := Message(sender, recipient, amount)
	sig, err := signature.Sign(sigParams, senderSK, msg)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{Sender: sender, Recipient: recipient, Amount: amount, Signature: sig}, nil
}

// VerifySignature checks just the signature against the sender's public
// key, the way pkg/ledger looks it up.
func (tx Transaction) VerifySignature(sigParams signature.Parameters, senderPubKey account.PublicKey) bool {
	msg := Message(tx.Sender, tx.Recipient, tx.Amount)
	return signature.Verify(sigParams, senderPubKey, msg, tx.Signature)
}

// Validate checks tx against a single ledger snapshot (root, sender and
// recipient account information and their membership paths against that
// root). It checks, off-chain:
//  1. the sender's account information is a member of the tree at root;
//  2. the signature verifies against the sender's public key;
//  3. the sender's balance covers the amount;
//  4. the recipient's account information is a member of the tree at root.
//
// This is what pkg/prover uses to reject invalid transactions before
// building a witness; the circuit itself re-derives the equivalent
// dual-root statement independently (gadget.go), so Validate is a sanity
// gate, not a trust boundary.
func (tx Transaction) Validate(sigParams signature.Parameters, hashParams hashcore.Parameters, senderInfo account.Information, senderPath *merkle.Path, recipientInfo account.Information, recipientPath *merkle.Path, root *big.Int) bool {
	senderLeaf := hashcore.LeafHash(hashParams, senderInfo.Bytes())
	if !senderPath.VerifyMembership(hashParams, senderLeaf, root) {
		return false
	}
	if !tx.VerifySignature(sigParams, senderInfo.PublicKey) {
		return false
	}
	if tx.Amount > senderInfo.Balance {
		return false
	}
	recipientLeaf := hashcore.LeafHash(hashParams, recipientInfo.Bytes())
	return recipientPath.VerifyMembership(hashParams, recipientLeaf, root)
}
