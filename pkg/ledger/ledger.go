// Package ledger implements the off-chain account state: the
// sparse account Merkle tree together with the bookkeeping maps a prover
// needs to look up account information and build membership paths before
// handing a batch of transactions to the circuit. Every mutation here also
// happens to be exactly what the rollup circuit proves happened, which is
// how pkg/prover turns a State + transaction list into a witness.
package ledger

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/nyxledger/rollup-core/pkg/account"
	"github.com/nyxledger/rollup-core/pkg/hashcore"
	"github.com/nyxledger/rollup-core/pkg/merkle"
	"github.com/nyxledger/rollup-core/pkg/signature"
	"github.com/nyxledger/rollup-core/pkg/transaction"
)

// Parameters bundles every cloneable, circuit-constant parameter the
// ledger and the circuits built over it need.
type Parameters struct {
	Sig  signature.Parameters
	Hash hashcore.Parameters
}

// Sample produces fresh ledger parameters.
func Sample() Parameters {
	return Parameters{Sig: signature.Setup(), Hash: hashcore.Setup()}
}

// treeDepth returns the smallest depth whose 2^depth leaves can hold
// numAccounts accounts (log2 rounded up to the nearest integer).
func treeDepth(numAccounts int) int {
	if numAccounts <= 1 {
		return 1
	}
	return bits.Len(uint(numAccounts - 1))
}

// State is the full mutable ledger: the next account ID to hand out, the
// account Merkle tree, and the account/public-key lookup tables the
// Merkle tree alone doesn't provide.
type State struct {
	Params               Parameters
	Depth                int
	NextAvailableAccount account.ID // 0 once capacity is exhausted; IDs start at 1
	Tree                 *merkle.Tree
	Accounts             map[account.ID]account.Information
	PubKeyToID           map[string]account.ID
}

func zeroLeafHash(params hashcore.Parameters) *big.Int {
	return hashcore.LeafHash(params, nil)
}

// New creates an empty ledger whose tree has 2^depth leaves, depth being
// log2(numAccounts) rounded up, with every leaf blank. ID 0 is never
// issued, so the ledger holds at most 2^depth-1 accounts (numAccounts-1
// when numAccounts is a power of two).
func New(numAccounts int, params Parameters) *State {
	depth := treeDepth(numAccounts)
	tree := merkle.New(params.Hash, depth, nil, func(data []byte) *big.Int {
		return hashcore.LeafHash(params.Hash, data)
	}, zeroLeafHash(params.Hash))

	return &State{
		Params:               params,
		Depth:                depth,
		NextAvailableAccount: 1,
		Tree:                 tree,
		Accounts:             make(map[account.ID]account.Information, numAccounts),
		PubKeyToID:           make(map[string]account.ID, numAccounts),
	}
}

// Clone returns a deep copy of s, safe to mutate independently.
func (s *State) Clone() *State {
	accounts := make(map[account.ID]account.Information, len(s.Accounts))
	for k, v := range s.Accounts {
		accounts[k] = v
	}
	pubKeyToID := make(map[string]account.ID, len(s.PubKeyToID))
	for k, v := range s.PubKeyToID {
		pubKeyToID[k] = v
	}
	return &State{
		Params:               s.Params,
		Depth:                s.Depth,
		NextAvailableAccount: s.NextAvailableAccount,
		Tree:                 s.Tree.Clone(),
		Accounts:             accounts,
		PubKeyToID:           pubKeyToID,
	}
}

// Root returns the current root of the account Merkle tree.
func (s *State) Root() *big.Int {
	return s.Tree.Root
}

// Register creates a new zero-balance account for pubKey and returns its
// freshly assigned ID, or account.ErrCapacityExhausted if no IDs remain.
func (s *State) Register(pubKey account.PublicKey) (account.ID, error) {
	if s.NextAvailableAccount == 0 {
		return 0, account.ErrCapacityExhausted
	}
	id := s.NextAvailableAccount

	info := account.Information{PublicKey: pubKey, Balance: 0}
	s.Accounts[id] = info
	s.PubKeyToID[string(pubKey.Bytes())] = id
	if _, err := s.Tree.SetLeaf(int(id), hashcore.LeafHash(s.Params.Hash, info.Bytes())); err != nil {
		return 0, err
	}

	if int(id)+1 >= (1 << uint(s.Depth)) {
		s.NextAvailableAccount = 0 // capacity exhausted
	} else {
		s.NextAvailableAccount = id + 1
	}
	return id, nil
}

// SampleKeysAndRegister generates a fresh Schnorr keypair and registers
// its public key in one step.
func (s *State) SampleKeysAndRegister() (account.ID, signature.SecretKey, error) {
	sk, err := signature.Keygen(s.Params.Sig)
	if err != nil {
		return 0, signature.SecretKey{}, err
	}
	id, err := s.Register(sk.PublicKey)
	if err != nil {
		return 0, signature.SecretKey{}, err
	}
	return id, sk, nil
}

// UpdateBalance sets id's balance to newAmount, or returns false if id
// isn't registered.
func (s *State) UpdateBalance(id account.ID, newAmount account.Amount) bool {
	info, ok := s.Accounts[id]
	if !ok {
		return false
	}
	info.Balance = newAmount
	s.Accounts[id] = info
	s.Tree.SetLeaf(int(id), hashcore.LeafHash(s.Params.Hash, info.Bytes()))
	return true
}

// Path returns the current membership path for id's leaf.
func (s *State) Path(id account.ID) *merkle.Path {
	return s.Tree.GetPath(int(id))
}

// ApplyTransaction validates tx against the current state and, if valid,
// debits the sender and credits the recipient. It returns false without mutating state if tx is
// invalid or either account is missing.
func (s *State) ApplyTransaction(tx transaction.Transaction) bool {
	senderInfo, ok := s.Accounts[tx.Sender]
	if !ok {
		return false
	}
	recipientInfo, ok := s.Accounts[tx.Recipient]
	if !ok {
		return false
	}

	senderPath := s.Path(tx.Sender)
	recipientPath := s.Path(tx.Recipient)
	root := s.Root()

	if !tx.Validate(s.Params.Sig, s.Params.Hash, senderInfo, senderPath, recipientInfo, recipientPath, root) {
		return false
	}

	newSenderBal, ok := senderInfo.Balance.CheckedSub(tx.Amount)
	if !ok {
		return false
	}
	newRecipientBal, ok := recipientInfo.Balance.CheckedAdd(tx.Amount)
	if !ok {
		return false
	}

	s.UpdateBalance(tx.Sender, newSenderBal)
	s.UpdateBalance(tx.Recipient, newRecipientBal)
	return true
}

// ForceApplyTransaction applies tx's balance effect without checking the
// signature, the membership paths, or the sender's balance: the sender's
// balance is debited and the recipient's credited by tx.Amount using plain
// wrapping uint64 arithmetic, whatever the result. Both accounts must still
// be registered, since the resulting witness needs their pre-state
// information and paths either way. This is how a permissive-mode witness
// is built from a transaction that fails native validation, so that the
// circuit generated from it can be proven unsatisfied instead of rejected
// before it ever reaches the prover.
func (s *State) ForceApplyTransaction(tx transaction.Transaction) error {
	senderInfo, ok := s.Accounts[tx.Sender]
	if !ok {
		return fmt.Errorf("ledger: sender account %d not registered", tx.Sender)
	}
	recipientInfo, ok := s.Accounts[tx.Recipient]
	if !ok {
		return fmt.Errorf("ledger: recipient account %d not registered", tx.Recipient)
	}

	newSenderBal := account.Amount(uint64(senderInfo.Balance) - uint64(tx.Amount))
	newRecipientBal := account.Amount(uint64(recipientInfo.Balance) + uint64(tx.Amount))

	s.UpdateBalance(tx.Sender, newSenderBal)
	s.UpdateBalance(tx.Recipient, newRecipientBal)
	return nil
}
