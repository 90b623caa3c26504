package market

import (
	"testing"
	"time"

	"streetmkt/crypto"
	"streetmkt/fixedpoint"
	"streetmkt/pricing"
)

func testAddress(t *testing.T, seed byte) crypto.Address {
	t.Helper()
	raw := make([]byte, 20)
	raw[19] = seed
	addr, err := crypto.NewAddress(crypto.StreetPrefix, raw)
	if err != nil {
		t.Fatalf("NewAddress: %v", err)
	}
	return addr
}

func freshMarket(t *testing.T, now time.Time) *Market {
	t.Helper()
	creator := testAddress(t, 1)
	m := &Market{
		Question:         "Will it rain tomorrow?",
		ExpiresAt:        now.Add(time.Hour),
		Creator:          creator,
		HeatLevel:        HeatWarm,
		VirtualLiquidity: DefaultHeatLevelLiquidity()[HeatWarm],
	}
	sanitized, err := Sanitize(m, now)
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	return sanitized
}

func TestSanitizeRejectsEmptyQuestion(t *testing.T) {
	now := time.Unix(0, 0)
	m := &Market{Question: "", ExpiresAt: now.Add(time.Hour), HeatLevel: HeatWarm, VirtualLiquidity: fixedpoint.One()}
	if _, err := Sanitize(m, now); err != ErrEmptyQuestion {
		t.Fatalf("Sanitize(empty question) = %v, want ErrEmptyQuestion", err)
	}
}

func TestSanitizeRejectsPastExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	m := &Market{Question: "x", ExpiresAt: now.Add(-time.Second), HeatLevel: HeatWarm, VirtualLiquidity: fixedpoint.One()}
	if _, err := Sanitize(m, now); err != ErrInvalidExpiry {
		t.Fatalf("Sanitize(past expiry) = %v, want ErrInvalidExpiry", err)
	}
	m2 := &Market{Question: "x", ExpiresAt: now, HeatLevel: HeatWarm, VirtualLiquidity: fixedpoint.One()}
	if _, err := Sanitize(m2, now); err != ErrInvalidExpiry {
		t.Fatalf("Sanitize(expiry == now) = %v, want ErrInvalidExpiry (must be strictly future)", err)
	}
}

func TestStatusComputation(t *testing.T) {
	now := time.Unix(0, 0)
	m := freshMarket(t, now)

	if got := m.Status(now); got != StatusActive {
		t.Fatalf("fresh market status = %v, want active", got)
	}

	// Expiry boundary: at t == expiry exactly, status must be Expired, not Active.
	if got := m.Status(m.ExpiresAt); got != StatusExpired {
		t.Fatalf("status at expiry = %v, want expired", got)
	}

	proposer := testAddress(t, 2)
	m.Proposer = &proposer
	if got := m.Status(m.ExpiresAt); got != StatusProposed {
		t.Fatalf("status with proposer = %v, want proposed", got)
	}

	disputer := testAddress(t, 3)
	m.Disputer = &disputer
	if got := m.Status(m.ExpiresAt); got != StatusDisputed {
		t.Fatalf("status with disputer = %v, want disputed", got)
	}

	m.Resolved = true
	if got := m.Status(m.ExpiresAt); got != StatusResolved {
		t.Fatalf("status once resolved = %v, want resolved", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	now := time.Unix(0, 0)
	m := freshMarket(t, now)
	proposer := testAddress(t, 2)
	m.Proposer = &proposer

	clone := m.Clone()
	*clone.Proposer = testAddress(t, 9)

	if m.Proposer.String() == clone.Proposer.String() {
		t.Fatalf("mutating clone's proposer pointer affected the original")
	}
}

func TestOneSided(t *testing.T) {
	now := time.Unix(0, 0)
	m := freshMarket(t, now)
	if !m.OneSided() {
		t.Fatalf("fresh market (zero supplies both sides) should be one-sided")
	}
	m.YesSupply = fixedpoint.FromUint64(1)
	if !m.OneSided() {
		t.Fatalf("market with only YES traded should still be one-sided")
	}
	m.NoSupply = fixedpoint.FromUint64(1)
	if m.OneSided() {
		t.Fatalf("market with both sides traded should not be one-sided")
	}
}

func TestMemStoreRoundTrip(t *testing.T) {
	store := NewMemStore()
	now := time.Unix(0, 0)
	m := freshMarket(t, now)

	id, err := store.NextMarketID()
	if err != nil {
		t.Fatalf("NextMarketID: %v", err)
	}
	m.ID = id
	if err := store.PutMarket(m); err != nil {
		t.Fatalf("PutMarket: %v", err)
	}

	got, ok, err := store.GetMarket(id)
	if err != nil || !ok {
		t.Fatalf("GetMarket: ok=%v err=%v", ok, err)
	}
	if got.Question != m.Question {
		t.Fatalf("round trip mismatch: got %q, want %q", got.Question, m.Question)
	}

	account := testAddress(t, 5)
	if _, ok, err := store.GetPosition(id, account); err != nil || ok {
		t.Fatalf("GetPosition before any trade: ok=%v err=%v, want ok=false", ok, err)
	}
	pos := Position{YesShares: fixedpoint.FromUint64(42)}
	if err := store.PutPosition(id, account, pos); err != nil {
		t.Fatalf("PutPosition: %v", err)
	}
	gotPos, ok, err := store.GetPosition(id, account)
	if err != nil || !ok {
		t.Fatalf("GetPosition after trade: ok=%v err=%v", ok, err)
	}
	if gotPos.YesShares.Cmp(pos.YesShares) != 0 {
		t.Fatalf("position round trip mismatch: got %s, want %s", gotPos.YesShares, pos.YesShares)
	}
}

func TestPositionHelpers(t *testing.T) {
	pos := Position{YesShares: fixedpoint.FromUint64(3), NoShares: fixedpoint.FromUint64(4)}
	total, err := pos.TotalShares()
	if err != nil {
		t.Fatalf("TotalShares: %v", err)
	}
	if total.Uint64() != 7 {
		t.Fatalf("TotalShares() = %s, want 7", total)
	}
	if pos.SharesForSide(pricing.YesSide).Uint64() != 3 {
		t.Fatalf("SharesForSide(YES) wrong")
	}
	if pos.SharesForSide(pricing.NoSide).Uint64() != 4 {
		t.Fatalf("SharesForSide(NO) wrong")
	}
}
