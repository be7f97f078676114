package codec

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSolveAndVerifyPow(t *testing.T) {
	powCtx := PowContext{
		SaleID:        uuid.New(),
		BuyerAddrHash: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
		Difficulty:    10,
	}

	result, err := SolvePow(context.Background(), powCtx, 1000, nil)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !VerifyPow(powCtx, result.Nonce) {
		t.Fatalf("solved nonce %d does not verify", result.Nonce)
	}
}

func TestVerifyPowRejectsWrongNonce(t *testing.T) {
	powCtx := PowContext{
		SaleID:        uuid.New(),
		BuyerAddrHash: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
		Difficulty:    24,
	}
	result, err := SolvePow(context.Background(), powCtx, 10000, nil)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if VerifyPow(powCtx, result.Nonce+1) {
		t.Fatalf("nonce %d unexpectedly verifies for difficulty %d", result.Nonce+1, powCtx.Difficulty)
	}
}

func TestSolvePowCancellation(t *testing.T) {
	powCtx := PowContext{
		SaleID:        uuid.New(),
		BuyerAddrHash: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
		Difficulty:    28, // unlikely to solve within the cancellation window
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := SolvePow(ctx, powCtx, 64, nil)
	if err != context.DeadlineExceeded {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestSolvePowProgressCallback(t *testing.T) {
	powCtx := PowContext{
		SaleID:        uuid.New(),
		BuyerAddrHash: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
		Difficulty:    10,
	}
	var progressCalls int
	_, err := SolvePow(context.Background(), powCtx, 8, func(uint64) { progressCalls++ })
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if progressCalls == 0 {
		t.Fatal("expected at least one progress callback with a small batch size")
	}
}
