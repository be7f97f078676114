// Package store is the Pebble-backed persistence layer behind C5-C9: a
// thin key/value wrapper exposing entity-scoped methods, plus a
// compare-and-swap path for sale lifecycle writes that gives
// `WHERE status = expected` semantics without a SQL engine.
package store

import (
	"encoding/json"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/ghostpass-protocol/saleengine/pkg/apperrors"
)

// Store wraps a single Pebble database. Sale-scoped read-modify-write
// sequences (lifecycle transitions, ticket-type mutation guards) are
// additionally serialized per sale ID through saleLocks, mirroring how the
// reference node's AccountManager guards its own read-modify-write
// sequences with an in-process mutex rather than a database-level lock.
type Store struct {
	db *pebble.DB

	mu        sync.Mutex
	saleLocks map[string]*sync.Mutex
}

// Open opens (or creates) a Pebble database at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, apperrors.New(apperrors.AdapterUnavailable, "pebble.Open", err)
	}
	return &Store{db: db, saleLocks: make(map[string]*sync.Mutex)}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) lockFor(saleID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.saleLocks[saleID]
	if !ok {
		l = &sync.Mutex{}
		s.saleLocks[saleID] = l
	}
	return l
}

func (s *Store) putJSON(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperrors.New(apperrors.ValidationFailed, "marshal", err)
	}
	if err := s.db.Set(key, data, pebble.Sync); err != nil {
		return apperrors.New(apperrors.AdapterUnavailable, "pebble.Set", err)
	}
	return nil
}

// getJSON loads key into v, returning (false, nil) if it does not exist.
func (s *Store) getJSON(key []byte, v any) (bool, error) {
	data, closer, err := s.db.Get(key)
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, apperrors.New(apperrors.AdapterUnavailable, "pebble.Get", err)
	}
	defer closer.Close()
	if err := json.Unmarshal(data, v); err != nil {
		return false, apperrors.New(apperrors.ValidationFailed, "unmarshal", err)
	}
	return true, nil
}

func (s *Store) delete(key []byte) error {
	if err := s.db.Delete(key, pebble.Sync); err != nil {
		return apperrors.New(apperrors.AdapterUnavailable, "pebble.Delete", err)
	}
	return nil
}

// scanJSON iterates every value under prefix, unmarshalling each into a
// fresh T and passing it to fn. fn returning an error stops the scan.
func scanJSON[T any](s *Store, prefix []byte, fn func(T) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upperBound(prefix)})
	if err != nil {
		return apperrors.New(apperrors.AdapterUnavailable, "pebble.NewIter", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var v T
		if err := json.Unmarshal(iter.Value(), &v); err != nil {
			continue // skip corrupt entries rather than aborting the whole scan
		}
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}
