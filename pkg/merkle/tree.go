package merkle

import "crypto/sha256"

// Tree is a bottom-up binary Merkle tree over leaf hashes. Level 0 is the
// leaves; each subsequent level pairs adjacent nodes, and the last node of
// an odd-length level is paired with itself. Levels are stored as built, so
// an odd-length level keeps its odd length.
type Tree struct {
	levels    [][][32]byte
	leafCount int
}

// Build constructs a Tree from leaf hashes in leaf order (finalRank
// ascending, per §3 Invariant 6). An empty leaf set yields the degenerate
// root defined by §4.2: the hash of the empty string.
func Build(leaves [][32]byte) Tree {
	if len(leaves) == 0 {
		return Tree{levels: [][][32]byte{{sha256.Sum256(nil)}}}
	}

	level := make([][32]byte, len(leaves))
	copy(level, leaves)
	levels := [][][32]byte{level}

	for len(level) > 1 {
		next := make([][32]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, parentHash(left, right))
		}
		levels = append(levels, next)
		level = next
	}
	return Tree{levels: levels, leafCount: len(leaves)}
}

func parentHash(left, right [32]byte) [32]byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return sha256.Sum256(buf)
}

// Root returns the tree's root hash.
func (t Tree) Root() [32]byte {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// Len returns the number of leaves the tree was built from (0 for the
// degenerate empty tree).
func (t Tree) Len() int {
	return t.leafCount
}
