package rollup

import "github.com/nyxledger/rollup-core/config"

const (
	// NumTx is the number of transactions proved per rollup batch.
	NumTx = config.DefaultNumTx

	// TreeDepth is the account Merkle tree's fixed depth: the smallest
	// depth whose 2^TreeDepth leaves cover config.MaxAccounts accounts.
	TreeDepth = 8
)
