package ranking

import (
	"testing"

	"github.com/ghostpass-protocol/saleengine/pkg/sale"
)

func blueScore(v uint64) *uint64 { return &v }

func TestLessNativeModeNilSortsLast(t *testing.T) {
	a := sale.PurchaseAttempt{Txid: "tx-a", AcceptingBlueScore: nil}
	b := sale.PurchaseAttempt{Txid: "tx-b", AcceptingBlueScore: blueScore(10)}
	if Less(sale.RankingNative, a, b) {
		t.Fatal("nil blue score must sort after a defined one")
	}
	if !Less(sale.RankingNative, b, a) {
		t.Fatal("defined blue score must precede nil")
	}
}

func TestLessTransferTableOrdersByBlockThenLogThenTxid(t *testing.T) {
	a := sale.PurchaseAttempt{BlockNumber: 10, LogIndex: 1, Txid: "tx-a"}
	b := sale.PurchaseAttempt{BlockNumber: 10, LogIndex: 2, Txid: "tx-b"}
	if !Less(sale.RankingTransferTable, a, b) {
		t.Fatal("lower log index should precede higher")
	}
}

func TestProvisionalRanksOnlyAcceptedValid(t *testing.T) {
	s := sale.Sale{RankingMode: sale.RankingTransferTable}
	attempts := []sale.PurchaseAttempt{
		{Txid: "tx-1", ValidationStatus: sale.ValidationValid, Accepted: true, BlockNumber: 1},
		{Txid: "tx-2", ValidationStatus: sale.ValidationValid, Accepted: false, BlockNumber: 2},
		{Txid: "tx-3", ValidationStatus: sale.ValidationInvalidWrongAmount, Accepted: true, BlockNumber: 3},
		{Txid: "tx-4", ValidationStatus: sale.ValidationValidFallback, Accepted: true, BlockNumber: 4},
	}
	ranked := ProvisionalRanks(s, attempts)
	if len(ranked) != 2 {
		t.Fatalf("ranked = %d, want 2", len(ranked))
	}
	if ranked[0].Txid != "tx-1" || *ranked[0].ProvisionalRank != 1 {
		t.Fatalf("rank 1 mismatch: %+v", ranked[0])
	}
	if ranked[1].Txid != "tx-4" || *ranked[1].ProvisionalRank != 2 {
		t.Fatalf("rank 2 mismatch: %+v", ranked[1])
	}
}

func TestProvisionalRanksIdempotentOnUnchangedRank(t *testing.T) {
	s := sale.Sale{RankingMode: sale.RankingTransferTable}
	existingRank := uint32(1)
	attempts := []sale.PurchaseAttempt{
		{Txid: "tx-1", ValidationStatus: sale.ValidationValid, Accepted: true, BlockNumber: 1, ProvisionalRank: &existingRank},
	}
	if changed := ProvisionalRanks(s, attempts); len(changed) != 0 {
		t.Fatalf("expected no writes for unchanged rank, got %d", len(changed))
	}
}

func TestFinalRanksRequiresFinalityDepth(t *testing.T) {
	s := sale.Sale{RankingMode: sale.RankingTransferTable}
	attempts := []sale.PurchaseAttempt{
		{Txid: "tx-1", ValidationStatus: sale.ValidationValid, Confirmations: 20, BlockNumber: 1},
		{Txid: "tx-2", ValidationStatus: sale.ValidationValid, Confirmations: 2, BlockNumber: 2},
	}
	ranked := FinalRanks(s, attempts, 10)
	if len(ranked) != 1 || ranked[0].Txid != "tx-1" {
		t.Fatalf("unexpected final ranks: %+v", ranked)
	}
}
