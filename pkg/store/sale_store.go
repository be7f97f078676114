package store

import (
	"github.com/ghostpass-protocol/saleengine/pkg/apperrors"
	"github.com/ghostpass-protocol/saleengine/pkg/sale"
)

func (s *Store) SaveEvent(e sale.Event) error {
	return s.putJSON(eventKey(e.ID.String()), e)
}

func (s *Store) LoadEvent(id string) (sale.Event, bool, error) {
	var e sale.Event
	ok, err := s.getJSON(eventKey(id), &e)
	return e, ok, err
}

func (s *Store) ListEvents() ([]sale.Event, error) {
	var events []sale.Event
	err := scanJSON(s, []byte(prefixEvent), func(e sale.Event) error {
		events = append(events, e)
		return nil
	})
	return events, err
}

// SaveSale persists sl unconditionally; callers performing a lifecycle
// transition must go through CompareAndSwapSaleStatus instead.
func (s *Store) SaveSale(sl sale.Sale) error {
	return s.putJSON(saleKey(sl.ID.String()), sl)
}

func (s *Store) LoadSale(id string) (sale.Sale, bool, error) {
	var sl sale.Sale
	ok, err := s.getJSON(saleKey(id), &sl)
	return sl, ok, err
}

func (s *Store) ListSales() ([]sale.Sale, error) {
	var sales []sale.Sale
	err := scanJSON(s, []byte(prefixSale), func(sl sale.Sale) error {
		sales = append(sales, sl)
		return nil
	})
	return sales, err
}

// CompareAndSwapSaleStatus loads the sale, verifies its status equals
// expected, applies mutate (which must itself be the pure state-machine
// call plus any side-effecting field updates, e.g. freezing a Merkle
// root), and persists the result. The per-sale mutex around the sequence
// gives "WHERE status = expected" semantics without a SQL engine; it does
// not protect against writers holding a stale in-memory Sale value, so
// callers must always pass expected as read just before calling this.
func (s *Store) CompareAndSwapSaleStatus(id string, expected sale.Status, mutate func(sale.Sale) (sale.Sale, error)) (sale.Sale, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	current, ok, err := s.LoadSale(id)
	if err != nil {
		return sale.Sale{}, err
	}
	if !ok {
		return sale.Sale{}, apperrors.Newf(apperrors.NotFound, "sale", "sale %s not found", id)
	}
	if current.Status != expected {
		return sale.Sale{}, apperrors.Newf(apperrors.InvalidStateTransition, "status",
			"sale %s is %q, expected %q", id, current.Status, expected)
	}

	next, err := mutate(current)
	if err != nil {
		return sale.Sale{}, err
	}
	if err := s.SaveSale(next); err != nil {
		return sale.Sale{}, err
	}
	return next, nil
}

func (s *Store) SaveTicketType(tt sale.TicketType) error {
	return s.putJSON(ticketTypeKey(tt.SaleID.String(), tt.Code), tt)
}

func (s *Store) ListTicketTypes(saleID string) ([]sale.TicketType, error) {
	var types []sale.TicketType
	err := scanJSON(s, ticketTypePrefix(saleID), func(tt sale.TicketType) error {
		types = append(types, tt)
		return nil
	})
	return types, err
}

// MutateTicketTypes guards a ticket-type write with the sale's current
// lifecycle status, returning InvalidStateForTicketTypeMutation (via
// sale.RequireTicketTypeMutationAllowed) outside the scheduled state. It
// shares the sale's CAS lock so a concurrent lifecycle transition cannot
// race a ticket-type write.
func (s *Store) MutateTicketTypes(saleID string, apply func() error) error {
	lock := s.lockFor(saleID)
	lock.Lock()
	defer lock.Unlock()

	sl, ok, err := s.LoadSale(saleID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Newf(apperrors.NotFound, "sale", "sale %s not found", saleID)
	}
	if err := sale.RequireTicketTypeMutationAllowed(sl.Status); err != nil {
		return err
	}
	return apply()
}
