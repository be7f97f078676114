package chain

import (
	"context"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/ghostpass-protocol/saleengine/pkg/apperrors"
)

// NativeSource is the §4.3(b) adapter: a JSON-RPC client against a native
// chain node, returning {txid, isAccepted, acceptingBlockHash,
// confirmations, outputs[], payload?} shaped records instead of EVM logs.
// It speaks generic JSON-RPC via go-ethereum's rpc.Client, the same
// transport the reference node uses for its own chain calls, rather than a
// chain-specific SDK this pack does not carry.
type NativeSource struct {
	rpc *rpc.Client
}

func NewNativeSource(ctx context.Context, rpcURL string) (*NativeSource, error) {
	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, apperrors.New(apperrors.AdapterUnavailable, "dial", err)
	}
	return &NativeSource{rpc: client}, nil
}

func (s *NativeSource) Close() { s.rpc.Close() }

type nativeOutput struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

type nativeTxRecord struct {
	Txid               string         `json:"txid"`
	BlockHash          string         `json:"blockHash"`
	BlockNumber        uint64         `json:"blockNumber"`
	BlockTimestamp     int64          `json:"blockTimestampMs"`
	LogIndex           uint32         `json:"logIndex"`
	Outputs            []nativeOutput `json:"outputs"`
	PayloadHex         string         `json:"payload,omitempty"`
	IsAccepted         bool           `json:"isAccepted"`
	AcceptingBlockHash string         `json:"acceptingBlockHash,omitempty"`
	Confirmations      uint32         `json:"confirmations"`
}

func (s *NativeSource) CurrentTipBlockNumber(ctx context.Context) (uint64, error) {
	var tip uint64
	if err := s.rpc.CallContext(ctx, &tip, "gp_getTipBlockNumber"); err != nil {
		return 0, apperrors.New(apperrors.AdapterUnavailable, "getTipBlockNumber", err)
	}
	return tip, nil
}

func (s *NativeSource) ListTransfersForTreasury(ctx context.Context, treasury string, sinceBlock uint64) ([]Transfer, error) {
	var records []nativeTxRecord
	if err := s.rpc.CallContext(ctx, &records, "gp_listTransfersForAddress", treasury, sinceBlock); err != nil {
		return nil, apperrors.New(apperrors.AdapterUnavailable, "listTransfersForAddress", err)
	}

	transfers := make([]Transfer, 0, len(records))
	for _, rec := range records {
		var payload []byte
		if rec.PayloadHex != "" {
			decoded, err := decodeHexPayload(rec.PayloadHex)
			if err == nil {
				payload = decoded
			}
		}
		transfers = append(transfers, Transfer{
			Txid:           strings.ToLower(rec.Txid),
			To:             treasury,
			BlockHash:      strings.ToLower(rec.BlockHash),
			BlockNumber:    rec.BlockNumber,
			BlockTimestamp: time.UnixMilli(rec.BlockTimestamp).UTC(),
			LogIndex:       rec.LogIndex,
			Payload:        payload,
			Value:          outputValueFor(rec.Outputs, treasury),
		})
	}

	sort.Slice(transfers, func(i, j int) bool {
		if transfers[i].BlockNumber != transfers[j].BlockNumber {
			return transfers[i].BlockNumber < transfers[j].BlockNumber
		}
		if transfers[i].LogIndex != transfers[j].LogIndex {
			return transfers[i].LogIndex < transfers[j].LogIndex
		}
		return transfers[i].Txid < transfers[j].Txid
	})
	return transfers, nil
}

func outputValueFor(outputs []nativeOutput, treasury string) string {
	for _, o := range outputs {
		if strings.EqualFold(o.Address, treasury) {
			return o.Amount
		}
	}
	return "0"
}

func (s *NativeSource) GetTransactionsAcceptance(ctx context.Context, txids []string) ([]Acceptance, error) {
	var records []nativeTxRecord
	if err := s.rpc.CallContext(ctx, &records, "gp_getTransactionsAcceptance", txids); err != nil {
		return nil, apperrors.New(apperrors.AdapterUnavailable, "getTransactionsAcceptance", err)
	}
	out := make([]Acceptance, 0, len(records))
	for _, rec := range records {
		out = append(out, Acceptance{
			Txid:               strings.ToLower(rec.Txid),
			IsAccepted:         rec.IsAccepted,
			AcceptingBlockHash: strings.ToLower(rec.AcceptingBlockHash),
			Confirmations:      rec.Confirmations,
		})
	}
	return out, nil
}

func (s *NativeSource) GetBlockDetails(ctx context.Context, blockHash string) (BlockDetails, error) {
	var details struct {
		BlueScore uint64 `json:"blueScore"`
	}
	if err := s.rpc.CallContext(ctx, &details, "gp_getBlockDetails", blockHash); err != nil {
		return BlockDetails{}, apperrors.New(apperrors.AdapterUnavailable, "getBlockDetails", err)
	}
	return BlockDetails{Hash: strings.ToLower(blockHash), BlueScore: details.BlueScore}, nil
}

func (s *NativeSource) String() string { return fmt.Sprintf("native-source(%p)", s.rpc) }

func decodeHexPayload(hexStr string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(hexStr, "0x"))
}
