package market

import (
	"fmt"
	"sync"

	"streetmkt/crypto"
)

// positionKey identifies one account's position within one market.
type positionKey struct {
	marketID uint64
	account  [20]byte
}

func keyFor(marketID uint64, account crypto.Address) positionKey {
	var raw [20]byte
	copy(raw[:], account.Bytes())
	return positionKey{marketID: marketID, account: raw}
}

// Store is the persistence boundary the trading and resolution packages
// operate against. It is satisfied by MemStore here; a host
// embedding this engine in a chain or a database-backed service can supply
// its own implementation instead, the same way native/governance/engine.go's
// proposalState interface decouples the engine from any one storage
// backend.
type Store interface {
	NextMarketID() (uint64, error)
	PutMarket(m *Market) error
	GetMarket(id uint64) (*Market, bool, error)
	AllMarketIDs() ([]uint64, error)

	PutPosition(marketID uint64, account crypto.Address, pos Position) error
	GetPosition(marketID uint64, account crypto.Address) (Position, bool, error)
}

// MemStore is the engine's in-memory state object: a monotonically
// increasing catalog of markets plus a per-market-per-account position
// table. It follows a small mutex-guarded map idiom with no persistence of
// its own — callers needing durability wrap or replace it via the Store
// interface.
type MemStore struct {
	mu        sync.RWMutex
	nextID    uint64
	markets   map[uint64]*Market
	positions map[positionKey]Position
}

// NewMemStore returns an empty, ready-to-use in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		markets:   make(map[uint64]*Market),
		positions: make(map[positionKey]Position),
	}
}

// NextMarketID allocates and returns the next unused market identifier.
func (s *MemStore) NextMarketID() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID, nil
}

// PutMarket stores a clone of m, keyed by its ID.
func (s *MemStore) PutMarket(m *Market) error {
	if m == nil {
		return fmt.Errorf("market: nil market")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markets[m.ID] = m.Clone()
	return nil
}

// GetMarket returns a clone of the stored market, if any.
func (s *MemStore) GetMarket(id uint64) (*Market, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.markets[id]
	if !ok {
		return nil, false, nil
	}
	return m.Clone(), true, nil
}

// AllMarketIDs returns every known market id; order is unspecified.
func (s *MemStore) AllMarketIDs() ([]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uint64, 0, len(s.markets))
	for id := range s.markets {
		ids = append(ids, id)
	}
	return ids, nil
}

// PutPosition stores the position for (marketID, account).
func (s *MemStore) PutPosition(marketID uint64, account crypto.Address, pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[keyFor(marketID, account)] = pos
	return nil
}

// GetPosition returns the position for (marketID, account), or the zero
// Position and ok=false if the account has never traded or voted in that
// market (positions are materialized lazily on first trade or vote).
func (s *MemStore) GetPosition(marketID uint64, account crypto.Address) (Position, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.positions[keyFor(marketID, account)]
	return pos, ok, nil
}
