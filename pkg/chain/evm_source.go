package chain

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/ghostpass-protocol/saleengine/pkg/apperrors"
)

// transferEventSig is the topic0 of the standard ERC-20-shaped
// Transfer(address,address,uint256) event; the treasury contract this
// adapter watches emits it on every incoming payment.
var transferEventSig = common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")

// EVMSource is the transfer-table adapter of §4.3(a): it reads payment
// events directly off an EVM-compatible chain via eth_getLogs, giving the
// same "separate indexer populated a table" shape without actually running
// one, by treating the chain's own log index as that table.
type EVMSource struct {
	client          *ethclient.Client
	treasuryContract common.Address
	confirmBlocks   uint64
}

// NewEVMSource dials an EVM JSON-RPC endpoint. treasuryContract is the
// payment-receiving contract whose Transfer logs this adapter scans.
func NewEVMSource(ctx context.Context, rpcURL string, treasuryContract common.Address) (*EVMSource, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, apperrors.New(apperrors.AdapterUnavailable, "dial", err)
	}
	return &EVMSource{client: client, treasuryContract: treasuryContract}, nil
}

func (s *EVMSource) Close() { s.client.Close() }

func (s *EVMSource) CurrentTipBlockNumber(ctx context.Context) (uint64, error) {
	n, err := s.client.BlockNumber(ctx)
	if err != nil {
		return 0, apperrors.New(apperrors.AdapterUnavailable, "blockNumber", err)
	}
	return n, nil
}

func (s *EVMSource) ListTransfersForTreasury(ctx context.Context, treasury string, sinceBlock uint64) ([]Transfer, error) {
	to := common.HexToAddress(treasury)
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(sinceBlock),
		Addresses: []common.Address{s.treasuryContract},
		Topics:    [][]common.Hash{{transferEventSig}},
	}
	logs, err := s.client.FilterLogs(ctx, query)
	if err != nil {
		return nil, apperrors.New(apperrors.AdapterUnavailable, "filterLogs", err)
	}

	transfers := make([]Transfer, 0, len(logs))
	for _, lg := range logs {
		tr, ok, err := s.decodeTransferLog(ctx, lg, to)
		if err != nil {
			return nil, err
		}
		if ok {
			transfers = append(transfers, tr)
		}
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

func (s *EVMSource) decodeTransferLog(ctx context.Context, lg types.Log, wantTo common.Address) (Transfer, bool, error) {
	if len(lg.Topics) != 3 {
		return Transfer{}, false, nil
	}
	to := common.BytesToAddress(lg.Topics[2].Bytes())
	if to != wantTo {
		return Transfer{}, false, nil
	}
	from := common.BytesToAddress(lg.Topics[1].Bytes())
	value := new(big.Int).SetBytes(lg.Data)

	header, err := s.client.HeaderByHash(ctx, lg.BlockHash)
	if err != nil {
		return Transfer{}, false, apperrors.New(apperrors.AdapterUnavailable, "headerByHash", err)
	}

	return Transfer{
		Txid:           strings.ToLower(lg.TxHash.Hex()[2:]),
		From:           from.Hex(),
		To:             to.Hex(),
		Value:          value.String(),
		BlockHash:      strings.ToLower(lg.BlockHash.Hex()[2:]),
		BlockNumber:    lg.BlockNumber,
		BlockTimestamp: time.Unix(int64(header.Time), 0).UTC(),
		LogIndex:       uint32(lg.Index),
	}, true, nil
}

// GetTransactionsAcceptance synthesizes acceptance from tip height per
// §4.5: EVM mode has no separate acceptance notion, confirmations derive
// purely from block depth.
func (s *EVMSource) GetTransactionsAcceptance(ctx context.Context, txids []string) ([]Acceptance, error) {
	tip, err := s.CurrentTipBlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Acceptance, 0, len(txids))
	for _, txid := range txids {
		hash := common.HexToHash(txid)
		receipt, err := s.client.TransactionReceipt(ctx, hash)
		if err != nil {
			continue // unknown to this adapter; caller leaves attempt unchanged
		}
		confirmations := uint32(0)
		if tip+1 > receipt.BlockNumber.Uint64() {
			confirmations = uint32(tip + 1 - receipt.BlockNumber.Uint64())
		}
		out = append(out, Acceptance{
			Txid:               txid,
			IsAccepted:         true,
			AcceptingBlockHash: strings.ToLower(receipt.BlockHash.Hex()[2:]),
			Confirmations:      confirmations,
		})
	}
	return out, nil
}

// GetBlockDetails is not meaningful for the transfer-table model; ranking
// there uses (blockNumber, logIndex) instead of a blue score (§4.6).
func (s *EVMSource) GetBlockDetails(ctx context.Context, blockHash string) (BlockDetails, error) {
	return BlockDetails{}, apperrors.Newf(apperrors.AdapterUnavailable, "",
		"GetBlockDetails is unsupported by the transfer-table adapter")
}

func (s *EVMSource) String() string {
	return fmt.Sprintf("evm-source(treasuryContract=%s)", s.treasuryContract.Hex())
}
