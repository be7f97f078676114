// Package merkle implements the allocation commitment: the leaf schema for
// a winning purchase attempt, bottom-up tree construction, inclusion proof
// generation/verification, and the on-chain commit payload codec.
package merkle

import (
	"crypto/sha256"
	"fmt"
)

// Leaf is the canonical input to the leaf hash function, mirroring the
// PurchaseAttempt fields a winner carries at freeze time. Optional fields
// render as empty strings when absent, per §4.2 and open question §9.1.
type Leaf struct {
	FinalRank          uint32
	Txid               string
	AcceptingBlockHash string // "" if unset
	AcceptingBlueScore string // "" if unset; decimal string form of the u64
	BuyerAddrHash      string // "" if unset (fallback-mode attempts)
}

// CanonicalString renders the leaf's canonical pipe-delimited form:
// "{finalRank}|{txid}|{acceptingBlockHash||''}|{acceptingBlueScore||''}|{buyerAddrHash||''}".
func (l Leaf) CanonicalString() string {
	return fmt.Sprintf("%d|%s|%s|%s|%s", l.FinalRank, l.Txid, l.AcceptingBlockHash, l.AcceptingBlueScore, l.BuyerAddrHash)
}

// Hash returns the SHA-256 digest of the leaf's canonical UTF-8 string.
func (l Leaf) Hash() [32]byte {
	return sha256.Sum256([]byte(l.CanonicalString()))
}
