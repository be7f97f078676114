// Package acceptance implements the Acceptance Tracker (C5) of §4.5: it
// advances confirmations and finality for attempts already classified
// valid or valid_fallback by the validator.
package acceptance

import (
	"context"

	"github.com/ghostpass-protocol/saleengine/pkg/chain"
	"github.com/ghostpass-protocol/saleengine/pkg/sale"
)

// Transition records whether one pass moved an attempt's state forward, so
// callers can react to the edges rather than re-deriving them from
// before/after snapshots.
type Transition struct {
	Attempt      sale.PurchaseAttempt
	NewlyAccepted bool
	NewlyFinal   bool
}

// BatchSize is the default §4.5 batch size for acceptance queries.
const BatchSize = 100

// Pass runs one acceptance-tracking pass over attempts, in batches of
// batchSize, against source. Adapter errors for one batch are returned but
// do not prevent earlier batches' transitions from being reported; callers
// should persist transitions already computed before surfacing the error.
func Pass(ctx context.Context, source chain.Source, finalityDepth uint32, attempts []sale.PurchaseAttempt, batchSize int) ([]Transition, error) {
	if batchSize <= 0 {
		batchSize = BatchSize
	}

	var transitions []Transition
	for start := 0; start < len(attempts); start += batchSize {
		end := start + batchSize
		if end > len(attempts) {
			end = len(attempts)
		}
		batch := attempts[start:end]

		txids := make([]string, len(batch))
		for i, a := range batch {
			txids[i] = a.Txid
		}

		acceptances, err := source.GetTransactionsAcceptance(ctx, txids)
		if err != nil {
			return transitions, err
		}
		byTxid := make(map[string]chain.Acceptance, len(acceptances))
		for _, acc := range acceptances {
			byTxid[acc.Txid] = acc
		}

		for _, attempt := range batch {
			acc, ok := byTxid[attempt.Txid]
			if !ok {
				continue // missing acceptance record: attempt unchanged per §4.5
			}

			wasAccepted := attempt.Accepted
			wasFinal := attempt.Confirmations >= finalityDepth

			next := attempt
			next.Accepted = acc.IsAccepted
			next.Confirmations = acc.Confirmations

			if acc.AcceptingBlockHash != "" && acc.AcceptingBlockHash != attempt.AcceptingBlockHash {
				next.AcceptingBlockHash = acc.AcceptingBlockHash
				blockDetails, err := source.GetBlockDetails(ctx, acc.AcceptingBlockHash)
				if err == nil {
					blueScore := blockDetails.BlueScore
					next.AcceptingBlueScore = &blueScore
				}
			}

			transitions = append(transitions, Transition{
				Attempt:       next,
				NewlyAccepted: !wasAccepted && next.Accepted,
				NewlyFinal:    !wasFinal && next.Confirmations >= finalityDepth,
			})
		}
	}
	return transitions, nil
}
