package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/ghostpass-protocol/saleengine/pkg/apperrors"
	"github.com/ghostpass-protocol/saleengine/pkg/sale"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newSale(status sale.Status) sale.Sale {
	price, _ := uint256.FromDecimal("1000000000")
	return sale.Sale{ID: uuid.New(), Status: status, TicketPriceSompi: price, SupplyTotal: 5}
}

func TestSaveAndLoadSale(t *testing.T) {
	s := openTestStore(t)
	sl := newSale(sale.StatusScheduled)
	if err := s.SaveSale(sl); err != nil {
		t.Fatalf("SaveSale: %v", err)
	}
	got, ok, err := s.LoadSale(sl.ID.String())
	if err != nil || !ok {
		t.Fatalf("LoadSale: ok=%v err=%v", ok, err)
	}
	if got.ID != sl.ID || got.Status != sl.Status {
		t.Fatalf("got %+v, want %+v", got, sl)
	}
}

func TestCompareAndSwapSaleStatusSucceeds(t *testing.T) {
	s := openTestStore(t)
	sl := newSale(sale.StatusScheduled)
	if err := s.SaveSale(sl); err != nil {
		t.Fatalf("SaveSale: %v", err)
	}

	next, err := s.CompareAndSwapSaleStatus(sl.ID.String(), sale.StatusScheduled, func(cur sale.Sale) (sale.Sale, error) {
		cur.Status = sale.StatusLive
		return cur, nil
	})
	if err != nil {
		t.Fatalf("CAS: %v", err)
	}
	if next.Status != sale.StatusLive {
		t.Fatalf("status = %s, want live", next.Status)
	}
}

func TestCompareAndSwapSaleStatusRejectsStaleExpectation(t *testing.T) {
	s := openTestStore(t)
	sl := newSale(sale.StatusLive)
	if err := s.SaveSale(sl); err != nil {
		t.Fatalf("SaveSale: %v", err)
	}

	_, err := s.CompareAndSwapSaleStatus(sl.ID.String(), sale.StatusScheduled, func(cur sale.Sale) (sale.Sale, error) {
		cur.Status = sale.StatusLive
		return cur, nil
	})
	if apperrors.KindOf(err) != apperrors.InvalidStateTransition {
		t.Fatalf("kind = %v, want InvalidStateTransition", apperrors.KindOf(err))
	}
}

func TestInsertAttemptIfAbsentIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	attempt := sale.PurchaseAttempt{SaleID: uuid.New(), Txid: "tx-1"}

	inserted, err := s.InsertAttemptIfAbsent(attempt)
	if err != nil || !inserted {
		t.Fatalf("first insert: inserted=%v err=%v", inserted, err)
	}

	attempt.ValidationStatus = sale.ValidationValid
	insertedAgain, err := s.InsertAttemptIfAbsent(attempt)
	if err != nil || insertedAgain {
		t.Fatalf("second insert should be a no-op: inserted=%v err=%v", insertedAgain, err)
	}

	got, _, _ := s.LoadAttempt(attempt.SaleID.String(), attempt.Txid)
	if got.ValidationStatus != "" {
		t.Fatalf("second insert must not overwrite: %+v", got)
	}
}

func TestRedeemArtifactIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	artifact := sale.TicketArtifact{ID: uuid.New(), Status: sale.ArtifactIssued}
	if err := s.SaveArtifact(artifact); err != nil {
		t.Fatalf("SaveArtifact: %v", err)
	}

	already, err := s.RedeemArtifact(artifact.ID.String())
	if err != nil || already {
		t.Fatalf("first redeem: already=%v err=%v", already, err)
	}
	already, err = s.RedeemArtifact(artifact.ID.String())
	if err != nil || !already {
		t.Fatalf("second redeem should report already redeemed: already=%v err=%v", already, err)
	}
}

func TestListTicketTypesByPrefix(t *testing.T) {
	s := openTestStore(t)
	saleID := uuid.New()
	price, _ := uint256.FromDecimal("100")
	if err := s.SaveTicketType(sale.TicketType{SaleID: saleID, Code: "GA", PriceSompi: price}); err != nil {
		t.Fatalf("SaveTicketType: %v", err)
	}
	if err := s.SaveTicketType(sale.TicketType{SaleID: saleID, Code: "VIP", PriceSompi: price}); err != nil {
		t.Fatalf("SaveTicketType: %v", err)
	}
	other := uuid.New()
	if err := s.SaveTicketType(sale.TicketType{SaleID: other, Code: "GA", PriceSompi: price}); err != nil {
		t.Fatalf("SaveTicketType: %v", err)
	}

	types, err := s.ListTicketTypes(saleID.String())
	if err != nil {
		t.Fatalf("ListTicketTypes: %v", err)
	}
	if len(types) != 2 {
		t.Fatalf("got %d ticket types, want 2", len(types))
	}
}
