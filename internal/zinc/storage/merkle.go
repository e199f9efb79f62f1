// Package storage implements contract storage as a flat array of
// scalars authenticated by a fixed-depth sparse binary Merkle tree
// over truncated SHA-256, plus the Keeper interface contracts use to
// load/persist that storage.
package storage

import (
	"crypto/sha256"
	"fmt"
	"math/big"
)

// hashSize is how many leading bytes of a SHA-256 digest become a
// node's field-representable hash — enough to stay under the BN256
// scalar field's ~254-bit modulus with headroom to spare.
const hashSize = 31

func truncatedHash(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:hashSize]
}

// leafLE encodes a storage scalar's field representative as a 256-bit
// little-endian byte string.
func leafLE(v *big.Int) []byte {
	b := make([]byte, 32)
	v.FillBytes(b)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

func leafHash(v *big.Int) []byte {
	return truncatedHash(leafLE(v))
}

func nodeHash(left, right []byte) []byte {
	combined := make([]byte, 0, len(left)+len(right))
	combined = append(combined, left...)
	combined = append(combined, right...)
	return truncatedHash(combined)
}

// Tree is a sparse binary Merkle tree over a schema-sized, mostly-zero
// leaf array: a depth-d tree never materializes more than the
// O(d·touched) nodes an authenticated read/write actually needs, via
// precomputed "empty subtree" hashes at every level.
type Tree struct {
	depth   int
	leaves  map[int]*big.Int // sparse: absent index means zero
	emptyAt [][]byte         // emptyAt[level]: hash of an all-zero subtree of that level's size
}

// NewTree builds an empty tree deep enough to address numLeaves slots.
func NewTree(numLeaves int) *Tree {
	depth := bitsToFit(numLeaves)
	empty := make([][]byte, depth+1)
	empty[0] = leafHash(big.NewInt(0))
	for i := 1; i <= depth; i++ {
		empty[i] = nodeHash(empty[i-1], empty[i-1])
	}
	return &Tree{depth: depth, leaves: make(map[int]*big.Int), emptyAt: empty}
}

func bitsToFit(n int) int {
	depth := 0
	for (1 << depth) < n {
		depth++
	}
	if depth == 0 {
		depth = 1
	}
	return depth
}

func (t *Tree) Depth() int { return t.depth }

func (t *Tree) leafValue(index int) *big.Int {
	if v, ok := t.leaves[index]; ok {
		return v
	}
	return big.NewInt(0)
}

// Set writes v at index, returning the new root.
func (t *Tree) Set(index int, v *big.Int) ([]byte, error) {
	if index < 0 || index >= (1<<t.depth) {
		return nil, fmt.Errorf("storage: index %d out of bounds for depth %d", index, t.depth)
	}
	if v.Sign() == 0 {
		delete(t.leaves, index)
	} else {
		t.leaves[index] = new(big.Int).Set(v)
	}
	return t.Root(), nil
}

// Get reads the value at index.
func (t *Tree) Get(index int) (*big.Int, error) {
	if index < 0 || index >= (1<<t.depth) {
		return nil, fmt.Errorf("storage: index %d out of bounds for depth %d", index, t.depth)
	}
	return t.leafValue(index), nil
}

// Root recomputes the tree's root over its (sparse) leaves.
func (t *Tree) Root() []byte {
	if t.depth == 0 {
		return t.emptyAt[0]
	}
	level := make(map[int][]byte, len(t.leaves))
	for idx, v := range t.leaves {
		level[idx] = leafHash(v)
	}
	size := 1 << t.depth
	for d := 0; d < t.depth; d++ {
		next := make(map[int][]byte, len(level))
		seen := make(map[int]bool, len(level))
		for idx := range level {
			parent := idx / 2
			if seen[parent] {
				continue
			}
			seen[parent] = true
			left := t.nodeAt(level, d, parent*2, size)
			right := t.nodeAt(level, d, parent*2+1, size)
			next[parent] = nodeHash(left, right)
		}
		level = next
		size /= 2
	}
	if root, ok := level[0]; ok {
		return root
	}
	return t.emptyAt[t.depth]
}

func (t *Tree) nodeAt(level map[int][]byte, depth, idx, size int) []byte {
	if idx >= size {
		return t.emptyAt[depth]
	}
	if h, ok := level[idx]; ok {
		return h
	}
	return t.emptyAt[depth]
}

// Proof is an authenticated Merkle path: one sibling hash per level,
// bottom to top.
type Proof struct {
	Index    int
	Siblings [][]byte
}

// Prove builds the authentication path for index.
func (t *Tree) Prove(index int) (Proof, error) {
	if index < 0 || index >= (1<<t.depth) {
		return Proof{}, fmt.Errorf("storage: index %d out of bounds for depth %d", index, t.depth)
	}
	siblings := make([][]byte, t.depth)
	level := make(map[int][]byte, len(t.leaves))
	for idx, v := range t.leaves {
		level[idx] = leafHash(v)
	}
	size := 1 << t.depth
	cur := index
	for d := 0; d < t.depth; d++ {
		sibIdx := cur ^ 1
		siblings[d] = t.nodeAt(level, d, sibIdx, size)

		next := make(map[int][]byte, len(level))
		seen := make(map[int]bool, len(level))
		for idx := range level {
			parent := idx / 2
			if seen[parent] {
				continue
			}
			seen[parent] = true
			left := t.nodeAt(level, d, parent*2, size)
			right := t.nodeAt(level, d, parent*2+1, size)
			next[parent] = nodeHash(left, right)
		}
		level = next
		size /= 2
		cur /= 2
	}
	return Proof{Index: index, Siblings: siblings}, nil
}

// VerifyProof recomputes a root from leaf, siblings and index and
// reports whether it equals want. It is a native check outside any
// constraint system; the engine does not call it, and storage reads
// and writes in constraint mode check no Merkle path.
func VerifyProof(leaf *big.Int, proof Proof, want []byte) bool {
	h := leafHash(leaf)
	idx := proof.Index
	for _, sib := range proof.Siblings {
		if idx%2 == 0 {
			h = nodeHash(h, sib)
		} else {
			h = nodeHash(sib, h)
		}
		idx /= 2
	}
	if len(h) != len(want) {
		return false
	}
	for i := range h {
		if h[i] != want[i] {
			return false
		}
	}
	return true
}
