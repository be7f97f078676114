// Package validate implements the Validator (C4) of §4.4: a pure function
// from (Sale, Transfer) to a validationStatus, run once per observed
// transfer by the scanner.
package validate

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/holiman/uint256"

	"github.com/ghostpass-protocol/saleengine/pkg/chain"
	"github.com/ghostpass-protocol/saleengine/pkg/codec"
	"github.com/ghostpass-protocol/saleengine/pkg/sale"
)

// Result is everything the validator derives from one transfer; the
// scanner copies these fields onto the PurchaseAttempt it upserts.
type Result struct {
	Status        sale.ValidationStatus
	InvalidReason string
	BuyerAddrHash string // hex, empty unless Status is valid
}

// InWindow reports whether blockTimestamp falls within the sale's
// configured start/end window. A nil bound is open on that side. Transfers
// outside the window are never materialized as attempts at all (rule 1);
// this is exposed separately from Attempt so callers can filter before
// allocating a Result.
func InWindow(s sale.Sale, blockTimestamp time.Time) bool {
	if s.StartAt != nil && blockTimestamp.Before(*s.StartAt) {
		return false
	}
	if s.EndAt != nil && blockTimestamp.After(*s.EndAt) {
		return false
	}
	return true
}

// Attempt runs the seven-step classification of §4.4 against one transfer,
// given the sale's ticket types for amount matching. Callers must have
// already applied InWindow; Attempt does not repeat that check.
func Attempt(s sale.Sale, ticketTypes []sale.TicketType, tr chain.Transfer) Result {
	if s.FallbackEnabled {
		return attemptFallback(s, ticketTypes, tr)
	}

	if len(tr.Payload) == 0 {
		return Result{Status: sale.ValidationInvalidMissingPayload, InvalidReason: "no payload attached"}
	}

	payload, err := codec.Decode(tr.Payload)
	if err != nil {
		return Result{Status: sale.ValidationInvalidBadPayload, InvalidReason: err.Error()}
	}

	if payload.SaleID != s.ID {
		return Result{Status: sale.ValidationInvalidWrongSale, InvalidReason: "payload.saleId does not match sale"}
	}

	powCtx := codec.PowContext{
		SaleID:        payload.SaleID,
		BuyerAddrHash: payload.BuyerAddrHash,
		Difficulty:    s.PowDifficulty,
	}
	if !codec.VerifyPow(powCtx, payload.PowNonce) {
		return Result{Status: sale.ValidationInvalidPow, InvalidReason: "proof of work does not meet sale difficulty"}
	}

	value, ok := parseAmount(tr.Value)
	if !ok || !matchesAllowedAmount(value, s, ticketTypes) || !strings.EqualFold(tr.To, s.TreasuryAddress) {
		return Result{Status: sale.ValidationInvalidWrongAmount, InvalidReason: "payment does not match an allowed ticket price"}
	}

	return Result{
		Status:        sale.ValidationValid,
		BuyerAddrHash: hexAddrHash(payload.BuyerAddrHash),
	}
}

func attemptFallback(s sale.Sale, ticketTypes []sale.TicketType, tr chain.Transfer) Result {
	value, ok := parseAmount(tr.Value)
	if !ok || !matchesAllowedAmount(value, s, ticketTypes) || !strings.EqualFold(tr.To, s.TreasuryAddress) {
		return Result{Status: sale.ValidationInvalidWrongAmount, InvalidReason: "payment does not match an allowed ticket price"}
	}
	return Result{Status: sale.ValidationValidFallback}
}

func parseAmount(decimal string) (*uint256.Int, bool) {
	if decimal == "" {
		return nil, false
	}
	v, err := uint256.FromDecimal(decimal)
	if err != nil {
		return nil, false
	}
	return v, true
}

func matchesAllowedAmount(value *uint256.Int, s sale.Sale, ticketTypes []sale.TicketType) bool {
	for _, allowed := range sale.AllowedAmounts(s, ticketTypes) {
		if allowed != nil && value.Eq(allowed) {
			return true
		}
	}
	return false
}

func hexAddrHash(b []byte) string {
	return hex.EncodeToString(b)
}
