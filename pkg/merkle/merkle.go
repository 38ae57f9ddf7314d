// Package merkle implements the account commitment tree: a fixed-depth
// sparse Merkle tree over account leaves, with a membership gadget and
// the "update_and_check" dual-root gadget that proves two roots differ by
// exactly one authenticated leaf change along a single sibling path. The
// tree is built with per-level sparse maps, precomputed zero-subtree
// hashes, and parallel leaf hashing across available CPUs.
package merkle

import (
	"fmt"
	"math/big"
	"runtime"
	"sync"

	"github.com/nyxledger/rollup-core/pkg/hashcore"
)

// HashNodes combines a left and right digest into their parent, using the
// two-to-one hash from pkg/hashcore.
func HashNodes(params hashcore.Parameters, left, right *big.Int) *big.Int {
	return hashcore.TwoToOneHash(params, left, right)
}

// PrecomputeZeroHashes builds the zero-subtree hash chain:
//
//	zeroHashes[0] = zeroLeafHash
//	zeroHashes[i] = HashNodes(zeroHashes[i-1], zeroHashes[i-1])
//
// The returned slice has length depth+1 (indices 0..depth).
func PrecomputeZeroHashes(params hashcore.Parameters, depth int, zeroLeafHash *big.Int) []*big.Int {
	zh := make([]*big.Int, depth+1)
	zh[0] = new(big.Int).Set(zeroLeafHash)
	for i := 1; i <= depth; i++ {
		zh[i] = HashNodes(params, zh[i-1], zh[i-1])
	}
	return zh
}

// Tree is a fixed-depth sparse Merkle tree over account leaves. Only
// registered accounts occupy real entries; every other position resolves
// to the zero-subtree hash at that level.
type Tree struct {
	Root       *big.Int
	Depth      int
	Params     hashcore.Parameters
	Levels     []map[int]*big.Int // levels[0] = leaves, levels[depth] has the root
	ZeroHashes []*big.Int
}

// LeafFunc hashes the canonical byte encoding of a leaf's content into its
// digest (typically account.Information.Bytes through hashcore.LeafHash).
type LeafFunc func(data []byte) *big.Int

// New builds a fixed-depth tree from a set of leaf preimages indexed by
// account ID. Unpopulated indices below 2^depth behave as the zero leaf.
func New(params hashcore.Parameters, depth int, leafData map[int][]byte, hashLeaf LeafFunc, zeroLeafHash *big.Int) *Tree {
	zeroHashes := PrecomputeZeroHashes(params, depth, zeroLeafHash)

	levels := make([]map[int]*big.Int, depth+1)
	for i := range levels {
		levels[i] = make(map[int]*big.Int)
	}

	indices := make([]int, 0, len(leafData))
	for idx := range leafData {
		indices = append(indices, idx)
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > len(indices) {
		numWorkers = len(indices)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	work := make(chan int, len(indices))
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				h := hashLeaf(leafData[idx])
				mu.Lock()
				levels[0][idx] = h
				mu.Unlock()
			}
		}()
	}
	for _, idx := range indices {
		work <- idx
	}
	close(work)
	wg.Wait()

	for lvl := 0; lvl < depth; lvl++ {
		parentIndices := make(map[int]bool)
		for idx := range levels[lvl] {
			parentIndices[idx/2] = true
		}
		for parentIdx := range parentIndices {
			leftIdx := parentIdx * 2
			rightIdx := parentIdx*2 + 1

			left, ok := levels[lvl][leftIdx]
			if !ok {
				left = zeroHashes[lvl]
			}
			right, ok := levels[lvl][rightIdx]
			if !ok {
				right = zeroHashes[lvl]
			}

			levels[lvl+1][parentIdx] = HashNodes(params, left, right)
		}
	}

	root, ok := levels[depth][0]
	if !ok {
		root = zeroHashes[depth]
	}

	return &Tree{
		Root:       root,
		Depth:      depth,
		Params:     params,
		Levels:     levels,
		ZeroHashes: zeroHashes,
	}
}

// GetLeafHash returns the digest at the given leaf index, or the zero leaf
// hash if that index has never been populated.
func (t *Tree) GetLeafHash(leafIndex int) *big.Int {
	h, ok := t.Levels[0][leafIndex]
	if !ok {
		return t.ZeroHashes[0]
	}
	return h
}

// Clone returns a deep copy of t, safe to mutate independently (used by
// pkg/prover to dry-run a candidate batch without disturbing the state it
// will actually replay against).
func (t *Tree) Clone() *Tree {
	levels := make([]map[int]*big.Int, len(t.Levels))
	for i, m := range t.Levels {
		cp := make(map[int]*big.Int, len(m))
		for k, v := range m {
			cp[k] = v
		}
		levels[i] = cp
	}
	return &Tree{
		Root:       t.Root,
		Depth:      t.Depth,
		Params:     t.Params,
		Levels:     levels,
		ZeroHashes: t.ZeroHashes,
	}
}

// Path is a fixed-size membership/update proof for one leaf index:
// siblings[i] is the sibling digest at level i, directions[i] is
//
//	0 = the authenticated node is the left child (sibling on the right)
//	1 = the authenticated node is the right child (sibling on the left)
type Path struct {
	LeafIndex  int
	Siblings   []*big.Int
	Directions []int
}

// GetPath returns the fixed-depth authentication path for leafIndex.
func (t *Tree) GetPath(leafIndex int) *Path {
	siblings := make([]*big.Int, t.Depth)
	directions := make([]int, t.Depth)

	idx := leafIndex
	for lvl := 0; lvl < t.Depth; lvl++ {
		var siblingIdx int
		if idx%2 == 0 {
			siblingIdx = idx + 1
			directions[lvl] = 0
		} else {
			siblingIdx = idx - 1
			directions[lvl] = 1
		}

		sib, ok := t.Levels[lvl][siblingIdx]
		if !ok {
			sib = t.ZeroHashes[lvl]
		}
		siblings[lvl] = sib

		idx /= 2
	}

	return &Path{LeafIndex: leafIndex, Siblings: siblings, Directions: directions}
}

// ComputeRoot recomputes the root implied by leaf authenticated along p,
// without consulting the tree (the gadget-equivalent native computation).
func (p *Path) ComputeRoot(params hashcore.Parameters, leaf *big.Int) *big.Int {
	current := leaf
	idx := p.LeafIndex
	for lvl := 0; lvl < len(p.Siblings); lvl++ {
		sibling := p.Siblings[lvl]
		if idx%2 == 0 {
			current = HashNodes(params, current, sibling)
		} else {
			current = HashNodes(params, sibling, current)
		}
		idx /= 2
	}
	return current
}

// VerifyMembership reports whether leaf authenticates to root along p.
func (p *Path) VerifyMembership(params hashcore.Parameters, leaf, root *big.Int) bool {
	return p.ComputeRoot(params, leaf).Cmp(root) == 0
}

// VerifyUpdate is the "update_and_check" dual-root gadget: it
// proves preRoot and postRoot differ by exactly the one authenticated leaf
// change from preLeaf to postLeaf, reusing the single sibling path p for
// both reconstructions.
func (p *Path) VerifyUpdate(params hashcore.Parameters, preLeaf, postLeaf, preRoot, postRoot *big.Int) bool {
	return p.VerifyMembership(params, preLeaf, preRoot) && p.VerifyMembership(params, postLeaf, postRoot)
}

// SetLeaf updates leafIndex's digest in place and recomputes every
// ancestor hash up to t.Root. It returns the pre-update path (useful as
// the witness for VerifyUpdate, since the sibling values along a single
// index never change within one update).
func (t *Tree) SetLeaf(leafIndex int, digest *big.Int) (*Path, error) {
	if leafIndex < 0 || leafIndex >= (1<<uint(t.Depth)) {
		return nil, fmt.Errorf("merkle: leaf index %d out of range for depth %d", leafIndex, t.Depth)
	}

	path := t.GetPath(leafIndex)

	t.Levels[0][leafIndex] = digest
	idx := leafIndex
	current := digest
	for lvl := 0; lvl < t.Depth; lvl++ {
		sibling := path.Siblings[lvl]
		if idx%2 == 0 {
			current = HashNodes(t.Params, current, sibling)
		} else {
			current = HashNodes(t.Params, sibling, current)
		}
		idx /= 2
		t.Levels[lvl+1][idx] = current
	}
	t.Root = current

	return path, nil
}
