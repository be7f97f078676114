// Package stats implements the Live Stats Aggregator (C9) of §4.9: a pure
// projection over a sale's current attempt snapshot, with no cached sums
// beyond what the store already holds.
package stats

import (
	"time"

	"github.com/ghostpass-protocol/saleengine/pkg/sale"
)

// Snapshot is the stats frame served over HTTP and broadcast over the
// per-sale websocket hub.
type Snapshot struct {
	SaleID           string       `json:"saleId"`
	Status           sale.Status  `json:"status"`
	SupplyTotal      uint32       `json:"supplyTotal"`
	Remaining        uint32       `json:"remaining"`
	TotalAttempts    int          `json:"totalAttempts"`
	ValidAttempts    int          `json:"validAttempts"`
	AcceptedAttempts int          `json:"acceptedAttempts"`
	FinalAttempts    int          `json:"finalAttempts"`
	Timestamp        time.Time    `json:"timestamp"`
}

// Compute derives Snapshot from s and its current attempts at now.
func Compute(s sale.Sale, attempts []sale.PurchaseAttempt, now time.Time) Snapshot {
	snap := Snapshot{
		SaleID:      s.ID.String(),
		Status:      s.Status,
		SupplyTotal: s.SupplyTotal,
		Timestamp:   now,
	}

	for _, a := range attempts {
		snap.TotalAttempts++
		if a.ValidationStatus == sale.ValidationValid || a.ValidationStatus == sale.ValidationValidFallback {
			snap.ValidAttempts++
		}
		if a.Accepted {
			snap.AcceptedAttempts++
		}
		if a.FinalRank != nil {
			snap.FinalAttempts++
		}
	}

	if uint32(snap.FinalAttempts) < s.SupplyTotal {
		snap.Remaining = s.SupplyTotal - uint32(snap.FinalAttempts)
	}
	return snap
}

// MyStatus is the per-buyer frame ("my_status" in §6.2): one attempt's
// standing within its sale, derived from that attempt and the sale's
// supplyTotal alone.
type MyStatus struct {
	Txid             string  `json:"txid"`
	ValidationStatus string  `json:"validationStatus"`
	Accepted         bool    `json:"accepted"`
	Confirmations    uint32  `json:"confirmations"`
	ProvisionalRank  *uint32 `json:"provisionalRank,omitempty"`
	FinalRank        *uint32 `json:"finalRank,omitempty"`
	IsWinner         bool    `json:"isWinner"`
}

func ForAttempt(s sale.Sale, a sale.PurchaseAttempt) MyStatus {
	return MyStatus{
		Txid:             a.Txid,
		ValidationStatus: string(a.ValidationStatus),
		Accepted:         a.Accepted,
		Confirmations:    a.Confirmations,
		ProvisionalRank:  a.ProvisionalRank,
		FinalRank:        a.FinalRank,
		IsWinner:         a.IsWinner(s.SupplyTotal),
	}
}
