package codec

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/google/uuid"
)

// PowContext binds a proof-of-work challenge to a specific sale and buyer.
type PowContext struct {
	SaleID        uuid.UUID
	BuyerAddrHash []byte // 20 bytes
	Difficulty    uint8  // leading zero bits required, 0..32 per §3
}

// PowResult is a solved nonce together with the number of attempts it took.
type PowResult struct {
	Nonce      uint64
	Iterations uint64
}

// powMessage builds the literal UTF-8 challenge string defined in §4.1:
// "GhostPassPoW|v1|<saleId>|<buyerAddrHash-hex>|<nonce-decimal>".
func powMessage(ctx PowContext, nonce uint64) []byte {
	return []byte(fmt.Sprintf("GhostPassPoW|v1|%s|%x|%d", ctx.SaleID, ctx.BuyerAddrHash, nonce))
}

// VerifyPow reports whether nonce solves ctx: SHA-256 of the canonical
// message must have at least ctx.Difficulty leading zero bits, MSB-first
// per byte.
func VerifyPow(ctx PowContext, nonce uint64) bool {
	sum := sha256.Sum256(powMessage(ctx, nonce))
	return leadingZeroBits(sum[:]) >= int(ctx.Difficulty)
}

func leadingZeroBits(digest []byte) int {
	count := 0
	for _, b := range digest {
		if b == 0 {
			count += 8
			continue
		}
		for mask := byte(0x80); mask != 0; mask >>= 1 {
			if b&mask != 0 {
				return count
			}
			count++
		}
	}
	return count
}

// SolvePow iterates nonces from 0 upward until one satisfies ctx's
// difficulty, reporting progress every batchSize iterations via onProgress
// (which may be nil) and checking ctx.Err() between batches so long-running
// solves stay cancellable, per §5's cooperative-yield rule.
func SolvePow(ctx context.Context, powCtx PowContext, batchSize uint64, onProgress func(iterations uint64)) (PowResult, error) {
	if batchSize == 0 {
		batchSize = 1
	}
	var nonce uint64
	for {
		batchEnd := nonce + batchSize
		for ; nonce < batchEnd; nonce++ {
			if VerifyPow(powCtx, nonce) {
				return PowResult{Nonce: nonce, Iterations: nonce + 1}, nil
			}
		}
		select {
		case <-ctx.Done():
			return PowResult{}, ctx.Err()
		default:
		}
		if onProgress != nil {
			onProgress(nonce)
		}
	}
}
