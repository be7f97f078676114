// Package chain defines the Transfer Source adapters of §4.3: a read-only
// view over either a transfer-table indexer or a native chain RPC, exposed
// to the rest of the engine behind one interface so the validator,
// acceptance tracker, and scanner never branch on network kind themselves.
package chain

import (
	"context"
	"time"
)

// Transfer is one observed payment towards a sale's treasury address,
// normalized across both adapter kinds.
type Transfer struct {
	Txid           string
	From           string
	To             string
	Value          string // decimal sompi/wei amount, parsed by the caller into *uint256.Int
	BlockHash      string
	BlockNumber    uint64
	BlockTimestamp time.Time
	LogIndex       uint32
	Payload        []byte // raw codec envelope, if the adapter surfaces one; nil otherwise
}

// Acceptance is the native-chain adapter's answer to "has txid settled".
type Acceptance struct {
	Txid               string
	IsAccepted         bool
	AcceptingBlockHash string
	Confirmations      uint32
}

// BlockDetails carries the fields the ranking engine needs out of a native
// block header.
type BlockDetails struct {
	Hash      string
	BlueScore uint64
}

// Source is the one interface the rest of the engine depends on. Both the
// transfer-table adapter and the native adapter implement it in full. On
// the transfer-table adapter, GetTransactionsAcceptance returns
// accepted=true records whose confirmations derive purely from block
// height (§4.5), and GetBlockDetails always returns an error.
type Source interface {
	// ListTransfersForTreasury returns transfers to treasury observed at or
	// after sinceBlock, ordered ascending by (blockNumber, logIndex, txid).
	ListTransfersForTreasury(ctx context.Context, treasury string, sinceBlock uint64) ([]Transfer, error)

	// CurrentTipBlockNumber is the adapter's view of chain height.
	CurrentTipBlockNumber(ctx context.Context) (uint64, error)

	// GetTransactionsAcceptance batches acceptance lookups. Implementations
	// must tolerate txids they don't recognize by omitting them from the
	// result rather than erroring the whole batch.
	GetTransactionsAcceptance(ctx context.Context, txids []string) ([]Acceptance, error)

	// GetBlockDetails resolves a block hash to its details. Native mode
	// only; transfer-table mode returns apperrors.AdapterUnavailable.
	GetBlockDetails(ctx context.Context, blockHash string) (BlockDetails, error)
}
