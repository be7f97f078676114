// Package ranking implements the Ranking Engine (C6) of §4.6: the total
// order over one sale's purchase attempts, and the provisional/final rank
// assignment derived from it.
package ranking

import (
	"sort"

	"github.com/ghostpass-protocol/saleengine/pkg/sale"
)

// Less reports whether a precedes b under sale's configured ranking mode
// (§4.6). Both orders are total and antisymmetric; ties only occur for
// identical attempts.
func Less(mode sale.RankingMode, a, b sale.PurchaseAttempt) bool {
	if mode == sale.RankingTransferTable {
		if a.BlockNumber != b.BlockNumber {
			return a.BlockNumber < b.BlockNumber
		}
		if a.LogIndex != b.LogIndex {
			return a.LogIndex < b.LogIndex
		}
		return a.Txid < b.Txid
	}

	// Native mode: acceptingBlueScore ascending, nil sorts after all defined
	// values, then txid.
	switch {
	case a.AcceptingBlueScore == nil && b.AcceptingBlueScore == nil:
		return a.Txid < b.Txid
	case a.AcceptingBlueScore == nil:
		return false
	case b.AcceptingBlueScore == nil:
		return true
	case *a.AcceptingBlueScore != *b.AcceptingBlueScore:
		return *a.AcceptingBlueScore < *b.AcceptingBlueScore
	default:
		return a.Txid < b.Txid
	}
}

func isRankable(a sale.PurchaseAttempt) bool {
	return a.ValidationStatus == sale.ValidationValid || a.ValidationStatus == sale.ValidationValidFallback
}

// sortAttempts returns the subset satisfying keep, ordered by mode.
func sortAttempts(mode sale.RankingMode, attempts []sale.PurchaseAttempt, keep func(sale.PurchaseAttempt) bool) []sale.PurchaseAttempt {
	var subset []sale.PurchaseAttempt
	for _, a := range attempts {
		if keep(a) {
			subset = append(subset, a)
		}
	}
	sort.SliceStable(subset, func(i, j int) bool { return Less(mode, subset[i], subset[j]) })
	return subset
}

// ProvisionalRanks assigns provisionalRank = 1..N, in ≺ order, over every
// accepted attempt that is valid or valid_fallback. Attempts whose
// recomputed rank equals their stored rank are omitted from the result so
// callers can skip writing them (idempotence).
func ProvisionalRanks(s sale.Sale, attempts []sale.PurchaseAttempt) []sale.PurchaseAttempt {
	ordered := sortAttempts(s.RankingMode, attempts, func(a sale.PurchaseAttempt) bool {
		return isRankable(a) && a.Accepted
	})

	var changed []sale.PurchaseAttempt
	for i, a := range ordered {
		rank := uint32(i + 1)
		if a.ProvisionalRank != nil && *a.ProvisionalRank == rank {
			continue
		}
		a.ProvisionalRank = &rank
		changed = append(changed, a)
	}
	return changed
}

// FinalRanks assigns finalRank = 1..K over the subset of attempts that have
// reached finalityDepth confirmations, in ≺ order. As with
// ProvisionalRanks, attempts whose rank is unchanged are omitted.
func FinalRanks(s sale.Sale, attempts []sale.PurchaseAttempt, finalityDepth uint32) []sale.PurchaseAttempt {
	ordered := sortAttempts(s.RankingMode, attempts, func(a sale.PurchaseAttempt) bool {
		return isRankable(a) && a.Confirmations >= finalityDepth
	})

	var changed []sale.PurchaseAttempt
	for i, a := range ordered {
		rank := uint32(i + 1)
		if a.FinalRank != nil && *a.FinalRank == rank {
			continue
		}
		a.FinalRank = &rank
		changed = append(changed, a)
	}
	return changed
}
