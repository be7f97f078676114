// Package scanner runs the periodic ingestion loop of §4.10: one pass per
// active sale per tick, pulling transfers from a chain.Source, classifying
// them with pkg/validate, and upserting the results through pkg/store.
package scanner

import (
	"context"
	"time"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/ghostpass-protocol/saleengine/pkg/chain"
	"github.com/ghostpass-protocol/saleengine/pkg/sale"
	"github.com/ghostpass-protocol/saleengine/pkg/util"
	"github.com/ghostpass-protocol/saleengine/pkg/validate"
)

// SaleStore is the slice of pkg/store.Store the scanner needs, narrowed to
// an interface so this package can be tested without a real Pebble file.
type SaleStore interface {
	ListSales() ([]sale.Sale, error)
	ListTicketTypes(saleID string) ([]sale.TicketType, error)
	InsertAttemptIfAbsent(attempt sale.PurchaseAttempt) (bool, error)
}

// Scanner ties one chain.Source to the store and drives it on Clock's
// ticks, matching the self-gated periodic-pass shape the reference node
// uses for its own background loops: a ticker plus a cooperative stop
// channel, no goroutine-per-sale fan-out.
type Scanner struct {
	source   chain.Source
	store    SaleStore
	clock    util.Clock
	interval time.Duration
	log      *zap.Logger

	lastScannedBlock map[string]uint64
}

func New(source chain.Source, store SaleStore, clock util.Clock, interval time.Duration, log *zap.Logger) *Scanner {
	return &Scanner{
		source:           source,
		store:            store,
		clock:            clock,
		interval:         interval,
		log:              log,
		lastScannedBlock: make(map[string]uint64),
	}
}

// Run blocks, driving one Pass per tick until ctx is cancelled.
func (s *Scanner) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if err := s.Pass(ctx); err != nil {
				s.log.Warn("scanner pass failed", zap.Error(err))
			}
		}
	}
}

// Pass runs one ingestion pass over every sale currently tracked. It never
// returns early on a single sale's adapter error; it logs and continues so
// one bad sale cannot starve the rest.
func (s *Scanner) Pass(ctx context.Context) error {
	sales, err := s.store.ListSales()
	if err != nil {
		return err
	}

	for _, sl := range sales {
		if sl.Status != sale.StatusLive {
			continue
		}
		if err := s.passForSale(ctx, sl); err != nil {
			s.log.Warn("scanner pass failed for sale", zap.String("saleId", sl.ID.String()), zap.Error(err))
		}
	}
	return nil
}

func (s *Scanner) passForSale(ctx context.Context, sl sale.Sale) error {
	ticketTypes, err := s.store.ListTicketTypes(sl.ID.String())
	if err != nil {
		return err
	}

	since := s.lastScannedBlock[sl.ID.String()]
	transfers, err := s.source.ListTransfersForTreasury(ctx, sl.TreasuryAddress, since)
	if err != nil {
		return err
	}

	for _, tr := range transfers {
		if !validate.InWindow(sl, tr.BlockTimestamp) {
			continue
		}
		result := validate.Attempt(sl, ticketTypes, tr)
		amount, _ := uint256.FromDecimal(tr.Value)

		attempt := sale.PurchaseAttempt{
			SaleID:           sl.ID,
			Txid:             tr.Txid,
			BuyerAddress:     tr.From,
			BuyerAddrHash:    result.BuyerAddrHash,
			Amount:           amount,
			BlockHash:        tr.BlockHash,
			BlockNumber:      tr.BlockNumber,
			BlockTimestamp:   tr.BlockTimestamp,
			LogIndex:         tr.LogIndex,
			ValidationStatus: result.Status,
			InvalidReason:    result.InvalidReason,
		}
		if _, err := s.store.InsertAttemptIfAbsent(attempt); err != nil {
			s.log.Warn("upsert attempt failed", zap.String("txid", tr.Txid), zap.Error(err))
			continue
		}
		if tr.BlockNumber+1 > s.lastScannedBlock[sl.ID.String()] {
			s.lastScannedBlock[sl.ID.String()] = tr.BlockNumber + 1
		}
	}
	return nil
}
