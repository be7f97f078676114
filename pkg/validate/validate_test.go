package validate

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/ghostpass-protocol/saleengine/pkg/chain"
	"github.com/ghostpass-protocol/saleengine/pkg/codec"
	"github.com/ghostpass-protocol/saleengine/pkg/sale"
)

const treasury = "0x000000000000000000000000000000000000aa"

func baseSale(id uuid.UUID) sale.Sale {
	price, _ := uint256.FromDecimal("1000000000")
	return sale.Sale{
		ID:               id,
		TreasuryAddress:  treasury,
		TicketPriceSompi: price,
		SupplyTotal:      10,
		PowDifficulty:    4,
	}
}

func validPayloadTransfer(t *testing.T, s sale.Sale) chain.Transfer {
	t.Helper()
	buyerHash := make([]byte, 20)
	buyerHash[0] = 0x42

	powCtx := codec.PowContext{SaleID: s.ID, BuyerAddrHash: buyerHash, Difficulty: s.PowDifficulty}
	result, err := codec.SolvePow(context.Background(), powCtx, 1024, nil)
	if err != nil {
		t.Fatalf("solve pow: %v", err)
	}

	payload := codec.Payload{
		SaleID:        s.ID,
		BuyerAddrHash: buyerHash,
		ClientTimeMs:  1234,
		PowAlgo:       codec.PowAlgoSHA256,
		PowDifficulty: s.PowDifficulty,
		PowNonce:      result.Nonce,
	}
	encoded, err := codec.Encode(payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	return chain.Transfer{
		Txid:           "tx-001",
		To:             treasury,
		Value:          "1000000000",
		BlockTimestamp: time.Now(),
		Payload:        encoded,
	}
}

func TestAttemptValid(t *testing.T) {
	s := baseSale(uuid.New())
	tr := validPayloadTransfer(t, s)

	result := Attempt(s, nil, tr)
	if result.Status != sale.ValidationValid {
		t.Fatalf("status = %s (%s), want valid", result.Status, result.InvalidReason)
	}
	if result.BuyerAddrHash == "" {
		t.Fatal("expected buyerAddrHash to be recorded")
	}
}

func TestAttemptMissingPayload(t *testing.T) {
	s := baseSale(uuid.New())
	result := Attempt(s, nil, chain.Transfer{Txid: "tx-002", To: treasury, Value: "1000000000"})
	if result.Status != sale.ValidationInvalidMissingPayload {
		t.Fatalf("status = %s, want invalid_missing_payload", result.Status)
	}
}

func TestAttemptWrongSale(t *testing.T) {
	s := baseSale(uuid.New())
	tr := validPayloadTransfer(t, s)
	other := s
	other.ID = uuid.New()
	result := Attempt(other, nil, tr)
	if result.Status != sale.ValidationInvalidWrongSale {
		t.Fatalf("status = %s, want invalid_wrong_sale", result.Status)
	}
}

func TestAttemptBadAmount(t *testing.T) {
	s := baseSale(uuid.New())
	tr := validPayloadTransfer(t, s)
	tr.Value = "1"
	result := Attempt(s, nil, tr)
	if result.Status != sale.ValidationInvalidWrongAmount {
		t.Fatalf("status = %s, want invalid_wrong_amount", result.Status)
	}
}

func TestAttemptFallbackSkipsPayload(t *testing.T) {
	s := baseSale(uuid.New())
	s.FallbackEnabled = true
	result := Attempt(s, nil, chain.Transfer{Txid: "tx-003", To: treasury, Value: "1000000000"})
	if result.Status != sale.ValidationValidFallback {
		t.Fatalf("status = %s, want valid_fallback", result.Status)
	}
	if result.BuyerAddrHash != "" {
		t.Fatal("fallback mode must not record a buyerAddrHash")
	}
}

func TestInWindowBounds(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	s := sale.Sale{StartAt: &start, EndAt: &end}

	if InWindow(s, start.Add(-time.Minute)) {
		t.Fatal("expected before-window transfer to be excluded")
	}
	if !InWindow(s, start.Add(time.Minute)) {
		t.Fatal("expected in-window transfer to be included")
	}
	if InWindow(s, end.Add(time.Minute)) {
		t.Fatal("expected after-window transfer to be excluded")
	}
}
