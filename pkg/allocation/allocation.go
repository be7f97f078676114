// Package allocation implements the Commit / Allocation component (C8) of
// §4.8: freezing a sale's winner set on finalize, computing its Merkle
// commitment, persisting the on-chain commit txid, and serving inclusion
// proofs and claim intake against the frozen set.
package allocation

import (
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/ghostpass-protocol/saleengine/pkg/apperrors"
	"github.com/ghostpass-protocol/saleengine/pkg/merkle"
	"github.com/ghostpass-protocol/saleengine/pkg/sale"
)

// FrozenSet is the snapshot computed at finalize: the winners under
// supplyTotal, every finalRank-bearing attempt beyond it (losers, a
// read-only label), and the Merkle tree built over the winners' leaves.
type FrozenSet struct {
	Winners []sale.PurchaseAttempt
	Losers  []sale.PurchaseAttempt
	Tree    merkle.Tree
}

// MerkleRoot reports the frozen set's commitment, or nil if there were no
// winners (§4.8 step 2: merkleRoot stays null in that case).
func (f FrozenSet) MerkleRoot() *[32]byte {
	if len(f.Winners) == 0 {
		return nil
	}
	root := f.Tree.Root()
	return &root
}

func attemptLeaf(a sale.PurchaseAttempt) merkle.Leaf {
	leaf := merkle.Leaf{Txid: a.Txid, BuyerAddrHash: a.BuyerAddrHash}
	if a.FinalRank != nil {
		leaf.FinalRank = *a.FinalRank
	}
	leaf.AcceptingBlockHash = a.AcceptingBlockHash
	if a.AcceptingBlueScore != nil {
		leaf.AcceptingBlueScore = strconv.FormatUint(*a.AcceptingBlueScore, 10)
	}
	return leaf
}

// Freeze implements §4.8's finalize step: it takes attempts already
// bearing a finalRank (computed by pkg/ranking beforehand), splits them
// into winners (the first supplyTotal in rank order) and losers, and
// builds the Merkle tree over the winners' leaves.
func Freeze(s sale.Sale, finalRanked []sale.PurchaseAttempt) FrozenSet {
	ordered := make([]sale.PurchaseAttempt, len(finalRanked))
	copy(ordered, finalRanked)
	sort.Slice(ordered, func(i, j int) bool {
		return *ordered[i].FinalRank < *ordered[j].FinalRank
	})

	cut := int(s.SupplyTotal)
	if cut > len(ordered) {
		cut = len(ordered)
	}
	winners := ordered[:cut]
	losers := ordered[cut:]

	leaves := make([][32]byte, len(winners))
	for i, w := range winners {
		leaves[i] = attemptLeaf(w).Hash()
	}

	return FrozenSet{Winners: winners, Losers: losers, Tree: merkle.Build(leaves)}
}

// CommitResult is what Commit returns: the sale's commit txid is either
// freshly set or was already this one (idempotent replay).
type CommitResult struct {
	Sale    sale.Sale
	Applied bool // false when this call was a no-op replay of the same commitTxid
}

// Commit applies §4.8's idempotency rule: the same (saleId, commitTxid)
// pair is a no-op, a different commitTxid once one is already set is a
// Conflict.
func Commit(s sale.Sale, commitTxid string) (CommitResult, error) {
	if s.CommitTxid != nil {
		if *s.CommitTxid == commitTxid {
			return CommitResult{Sale: s, Applied: false}, nil
		}
		return CommitResult{}, apperrors.Newf(apperrors.Conflict, "commitTxid",
			"sale %s already committed as %q, refusing %q", s.ID, *s.CommitTxid, commitTxid)
	}
	s.CommitTxid = &commitTxid
	return CommitResult{Sale: s, Applied: true}, nil
}

// MerkleProof is the getMerkleProof response of §4.8.
type MerkleProof struct {
	Found     bool
	Leaf      *merkle.Leaf
	LeafIndex *int
	Proof     []merkle.Step
}

// GetMerkleProof returns winners[txid]'s inclusion proof against frozen,
// or Found=false if txid is not a winner.
func GetMerkleProof(frozen FrozenSet, txid string) (MerkleProof, error) {
	for i, w := range frozen.Winners {
		if w.Txid != txid {
			continue
		}
		leaf := attemptLeaf(w)
		proof, err := frozen.Tree.Proof(i)
		if err != nil {
			return MerkleProof{}, err
		}
		return MerkleProof{Found: true, Leaf: &leaf, LeafIndex: &i, Proof: proof}, nil
	}
	return MerkleProof{Found: false}, nil
}

// RequireWinner implements the claim-intake precondition of §4.8:
// syncClaim requires a winner exists for (saleId, kaspaTxid).
func RequireWinner(frozen FrozenSet, saleID uuid.UUID, kaspaTxid string) error {
	for _, w := range frozen.Winners {
		if w.Txid == kaspaTxid {
			return nil
		}
	}
	return apperrors.Newf(apperrors.WinnerNotFound, "",
		"no winning attempt %s for sale %s", kaspaTxid, saleID)
}
