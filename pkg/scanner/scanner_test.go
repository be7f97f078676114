package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/ghostpass-protocol/saleengine/pkg/chain"
	"github.com/ghostpass-protocol/saleengine/pkg/sale"
	"github.com/ghostpass-protocol/saleengine/pkg/util"
)

type fakeSource struct {
	transfers []chain.Transfer
}

func (f *fakeSource) ListTransfersForTreasury(context.Context, string, uint64) ([]chain.Transfer, error) {
	return f.transfers, nil
}
func (f *fakeSource) CurrentTipBlockNumber(context.Context) (uint64, error) { return 0, nil }
func (f *fakeSource) GetTransactionsAcceptance(context.Context, []string) ([]chain.Acceptance, error) {
	return nil, nil
}
func (f *fakeSource) GetBlockDetails(context.Context, string) (chain.BlockDetails, error) {
	return chain.BlockDetails{}, nil
}

type fakeStore struct {
	sales     []sale.Sale
	attempts  []sale.PurchaseAttempt
	txidSeen  map[string]bool
}

func (f *fakeStore) ListSales() ([]sale.Sale, error) { return f.sales, nil }
func (f *fakeStore) ListTicketTypes(string) ([]sale.TicketType, error) { return nil, nil }
func (f *fakeStore) InsertAttemptIfAbsent(a sale.PurchaseAttempt) (bool, error) {
	if f.txidSeen == nil {
		f.txidSeen = make(map[string]bool)
	}
	if f.txidSeen[a.Txid] {
		return false, nil
	}
	f.txidSeen[a.Txid] = true
	f.attempts = append(f.attempts, a)
	return true, nil
}

func TestPassMaterializesAttemptsForLiveSales(t *testing.T) {
	price, _ := uint256.FromDecimal("1000000000")
	s := sale.Sale{
		ID:               uuid.New(),
		Status:           sale.StatusLive,
		FallbackEnabled:  true,
		TreasuryAddress:  "0xaa",
		TicketPriceSompi: price,
		SupplyTotal:      5,
	}
	src := &fakeSource{transfers: []chain.Transfer{
		{Txid: "tx-1", To: "0xaa", Value: "1000000000", BlockTimestamp: time.Now()},
	}}
	st := &fakeStore{sales: []sale.Sale{s}}

	sc := New(src, st, util.RealClock{}, time.Second, zap.NewNop())
	if err := sc.Pass(context.Background()); err != nil {
		t.Fatalf("Pass: %v", err)
	}
	if len(st.attempts) != 1 {
		t.Fatalf("attempts = %d, want 1", len(st.attempts))
	}
	if st.attempts[0].ValidationStatus != sale.ValidationValidFallback {
		t.Fatalf("status = %s, want valid_fallback", st.attempts[0].ValidationStatus)
	}
}

func TestPassSkipsNonLiveSales(t *testing.T) {
	s := sale.Sale{ID: uuid.New(), Status: sale.StatusScheduled}
	src := &fakeSource{transfers: []chain.Transfer{{Txid: "tx-1"}}}
	st := &fakeStore{sales: []sale.Sale{s}}

	sc := New(src, st, util.RealClock{}, time.Second, zap.NewNop())
	if err := sc.Pass(context.Background()); err != nil {
		t.Fatalf("Pass: %v", err)
	}
	if len(st.attempts) != 0 {
		t.Fatalf("attempts = %d, want 0 for non-live sale", len(st.attempts))
	}
}
