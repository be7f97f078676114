// Package sale holds the data model of §3 and the lifecycle state machine
// of §4.7: events, sales, ticket types, purchase attempts, claims, ticket
// artifacts, and the guarded transitions between a sale's states.
package sale

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

// EventStatus is the lifecycle of an Event container.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
)

// Event is the inert container that owns Sales.
type Event struct {
	ID          uuid.UUID   `json:"id"`
	OrganizerID string      `json:"organizerId"`
	Title       string      `json:"title"`
	Venue       string      `json:"venue,omitempty"`
	StartAt     *time.Time  `json:"startAt,omitempty"`
	EndAt       *time.Time  `json:"endAt,omitempty"`
	Status      EventStatus `json:"status"`
}

// Status is a sale's place in the §4.7 state machine.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusLive       Status = "live"
	StatusFinalizing Status = "finalizing"
	StatusClaimOpen  Status = "claim_open"
	StatusFinalized  Status = "finalized"
)

// RankingMode selects which total order (§4.6) a sale's attempts are
// compared under; it is fixed at sale creation and never changes.
type RankingMode string

const (
	RankingNative       RankingMode = "native"        // acceptingBlueScore, then txid
	RankingTransferTable RankingMode = "transfer_table" // blockNumber, logIndex, then txid
)

// Sale is a single ticket sale: the unit of lifecycle, ranking, and
// commitment.
type Sale struct {
	ID                uuid.UUID      `json:"id"`
	EventID           uuid.UUID      `json:"eventId"`
	Network           string         `json:"network"`
	RankingMode       RankingMode    `json:"rankingMode"`
	TreasuryAddress   string         `json:"treasuryAddress"`
	TicketPriceSompi  *uint256.Int   `json:"ticketPriceSompi"`
	SupplyTotal       uint32         `json:"supplyTotal"`
	MaxPerAddress     *uint32        `json:"maxPerAddress,omitempty"`
	PowDifficulty     uint8          `json:"powDifficulty"` // 0..32
	FinalityDepth     uint32         `json:"finalityDepth"` // 1..100
	FallbackEnabled   bool           `json:"fallbackEnabled"`
	StartAt           *time.Time     `json:"startAt,omitempty"`
	EndAt             *time.Time     `json:"endAt,omitempty"`
	Status            Status         `json:"status"`
	MerkleRoot        *[32]byte      `json:"merkleRoot,omitempty"`
	CommitTxid        *string        `json:"commitTxid,omitempty"`
	AllocationFrozen  bool           `json:"allocationFrozen"`
}

// MerkleRootHex exposes Sale.MerkleRoot in the hex form the API serves.
func (s Sale) MerkleRootHex() *string {
	if s.MerkleRoot == nil {
		return nil
	}
	hexStr := hex.EncodeToString(s.MerkleRoot[:])
	return &hexStr
}

// AllowedAmounts returns the set of payment amounts the validator accepts
// for this sale: the ticket types' prices if any exist, otherwise the
// sale's single flat price, per §3.
func AllowedAmounts(s Sale, ticketTypes []TicketType) []*uint256.Int {
	if len(ticketTypes) == 0 {
		return []*uint256.Int{s.TicketPriceSompi}
	}
	amounts := make([]*uint256.Int, len(ticketTypes))
	for i, tt := range ticketTypes {
		amounts[i] = tt.PriceSompi
	}
	return amounts
}

// TicketType is a named price tier within a sale. Codes are unique per
// sale and may only be added or modified while the sale is scheduled.
type TicketType struct {
	SaleID     uuid.UUID    `json:"saleId"`
	Code       string       `json:"code"` // uppercase [A-Z0-9_]{1,20}
	Name       string       `json:"name"`
	PriceSompi *uint256.Int `json:"priceSompi"`
	Supply     uint32       `json:"supply"`
	SortOrder  int32        `json:"sortOrder"`
}

// ValidTicketTypeCode reports whether code matches the required
// uppercase [A-Z0-9_]{1,20} format.
func ValidTicketTypeCode(code string) bool {
	if len(code) < 1 || len(code) > 20 {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}

// ValidationStatus classifies a raw transfer once the validator (C4) has
// looked at it.
type ValidationStatus string

const (
	ValidationPending             ValidationStatus = "pending"
	ValidationValid               ValidationStatus = "valid"
	ValidationValidFallback       ValidationStatus = "valid_fallback"
	ValidationInvalidMissingPayload ValidationStatus = "invalid_missing_payload"
	ValidationInvalidBadPayload   ValidationStatus = "invalid_bad_payload"
	ValidationInvalidWrongSale    ValidationStatus = "invalid_wrong_sale"
	ValidationInvalidPow          ValidationStatus = "invalid_pow"
	ValidationInvalidWrongAmount  ValidationStatus = "invalid_wrong_amount"
)

// PurchaseAttempt is an observed transfer plus everything derived from it:
// validation outcome, acceptance progress, and rank.
type PurchaseAttempt struct {
	SaleID uuid.UUID `json:"saleId"`
	Txid   string    `json:"txid"`

	BuyerAddress     string       `json:"buyerAddress"`
	BuyerAddrHash    string       `json:"buyerAddrHash,omitempty"` // hex, empty in fallback mode
	Amount           *uint256.Int `json:"amount"`
	BlockHash        string       `json:"blockHash"`
	BlockNumber      uint64       `json:"blockNumber"`
	BlockTimestamp   time.Time    `json:"blockTimestamp"`
	LogIndex         uint32       `json:"logIndex"`

	ValidationStatus ValidationStatus `json:"validationStatus"`
	InvalidReason    string           `json:"invalidReason,omitempty"`

	Accepted           bool    `json:"accepted"`
	Confirmations      uint32  `json:"confirmations"`
	AcceptingBlockHash string  `json:"acceptingBlockHash,omitempty"`
	AcceptingBlueScore *uint64 `json:"acceptingBlueScore,omitempty"`

	ProvisionalRank *uint32 `json:"provisionalRank,omitempty"`
	FinalRank       *uint32 `json:"finalRank,omitempty"`
}

// IsWinner reports whether the attempt holds a final rank within the
// sale's supply.
func (a PurchaseAttempt) IsWinner(supplyTotal uint32) bool {
	return a.FinalRank != nil && *a.FinalRank <= supplyTotal && *a.FinalRank >= 1
}

// Claim mirrors an on-chain NFT mint against a winning attempt.
type Claim struct {
	SaleID            uuid.UUID `json:"saleId"`
	KaspaTxid         string    `json:"kaspaTxid"`
	TypeCode          string    `json:"typeCode,omitempty"`
	ClaimerEvmAddress string    `json:"claimerEvmAddress"`
	TokenID           string    `json:"tokenId"`
	FinalRank         uint32    `json:"finalRank"`
	BlockNumber       uint64    `json:"blockNumber"`
	BlockTimestamp    time.Time `json:"blockTimestamp"`
	TxHash            string    `json:"txHash"`
}

// ArtifactStatus is a TicketArtifact's redemption lifecycle.
type ArtifactStatus string

const (
	ArtifactIssued    ArtifactStatus = "issued"
	ArtifactRedeemed  ArtifactStatus = "redeemed"
	ArtifactCancelled ArtifactStatus = "cancelled"
)

// TicketArtifact holds the QR binding described in §6.
type TicketArtifact struct {
	ID             uuid.UUID      `json:"id"`
	SaleID         uuid.UUID      `json:"saleId"`
	TicketTypeCode string         `json:"ticketTypeCode,omitempty"`
	OwnerAddress   string         `json:"ownerAddress"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Status         ArtifactStatus `json:"status"`
}
