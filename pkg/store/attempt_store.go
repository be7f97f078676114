package store

import (
	"github.com/cockroachdb/pebble"

	"github.com/ghostpass-protocol/saleengine/pkg/apperrors"
	"github.com/ghostpass-protocol/saleengine/pkg/sale"
)

// InsertAttemptIfAbsent writes attempt keyed by (saleId, txid) only if no
// record exists yet, giving the scanner's per-pass upsert idempotence
// required by §5: re-observing the same transfer across passes is a no-op.
func (s *Store) InsertAttemptIfAbsent(attempt sale.PurchaseAttempt) (inserted bool, err error) {
	key := attemptKey(attempt.SaleID.String(), attempt.Txid)
	_, closer, err := s.db.Get(key)
	if err == nil {
		closer.Close()
		return false, nil
	}
	if err != pebble.ErrNotFound {
		return false, apperrors.New(apperrors.AdapterUnavailable, "pebble.Get", err)
	}
	if err := s.putJSON(key, attempt); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateAttempt overwrites the stored attempt unconditionally; used by the
// acceptance tracker and ranking engine. The ranking engine skips attempts
// whose rank is unchanged before calling this; the acceptance tracker
// writes every attempt its adapter returned a record for, changed or not.
func (s *Store) UpdateAttempt(attempt sale.PurchaseAttempt) error {
	return s.putJSON(attemptKey(attempt.SaleID.String(), attempt.Txid), attempt)
}

func (s *Store) LoadAttempt(saleID, txid string) (sale.PurchaseAttempt, bool, error) {
	var a sale.PurchaseAttempt
	ok, err := s.getJSON(attemptKey(saleID, txid), &a)
	return a, ok, err
}

func (s *Store) ListAttemptsBySale(saleID string) ([]sale.PurchaseAttempt, error) {
	var attempts []sale.PurchaseAttempt
	err := scanJSON(s, attemptPrefix(saleID), func(a sale.PurchaseAttempt) error {
		attempts = append(attempts, a)
		return nil
	})
	return attempts, err
}

// ListUnfinalizedAttempts returns attempts eligible for another acceptance
// pass: validated and not yet at finalityDepth confirmations (§4.5).
func (s *Store) ListUnfinalizedAttempts(saleID string, finalityDepth uint32) ([]sale.PurchaseAttempt, error) {
	all, err := s.ListAttemptsBySale(saleID)
	if err != nil {
		return nil, err
	}
	var out []sale.PurchaseAttempt
	for _, a := range all {
		if (a.ValidationStatus == sale.ValidationValid || a.ValidationStatus == sale.ValidationValidFallback) &&
			a.Confirmations < finalityDepth {
			out = append(out, a)
		}
	}
	return out, nil
}
