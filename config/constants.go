package config

// MaxAccounts bounds the number of distinct accounts a single ledger can
// hold. Account identifiers are single bytes (see pkg/account), so no
// ledger can exceed 256 regardless of the tree height requested at
// construction time.
const MaxAccounts = 256

// DefaultNumTx is the batch size used by the demo CLI and by tests that
// don't care about a specific batch shape.
const DefaultNumTx = 4

// Poseidon2 parameters shared by every leaf and two-to-one hash in the
// Merkle commitment (pkg/hashcore).
const (
	PoseidonWidth = 2
	PoseidonRF    = 6
	PoseidonRP    = 50
)

// Domain tags separate the leaf CRH from the two-to-one CRH even though
// both are instances of the same Poseidon2 permutation, so a one-element
// leaf preimage can never collide with a two-element internal node.
const (
	DomainTagLeaf     = 1
	DomainTagTwoToOne = 2
)
