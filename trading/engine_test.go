package trading

import (
	"testing"
	"time"

	"streetmkt/config"
	"streetmkt/crypto"
	"streetmkt/enginerr"
	"streetmkt/events"
	"streetmkt/fixedpoint"
	"streetmkt/ledger"
	"streetmkt/market"
	"streetmkt/pricing"
)

type staticTunables config.Tunables

func (s staticTunables) Tunables() config.Tunables { return config.Tunables(s) }

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

func newTestEngine(t *testing.T, now time.Time) (*Engine, config.Tunables) {
	t.Helper()
	treasury := testAddress(t, 1)
	admins := []crypto.Address{testAddress(t, 2)}
	tunables := config.DefaultTunables(treasury, admins)
	engine := &Engine{
		Store:         market.NewMemStore(),
		CreatorLedger: ledger.New(),
		Config:        staticTunables(tunables),
		Events:        events.NoopEmitter{},
		Clock:         func() time.Time { return now },
	}
	return engine, tunables
}

func TestCreateMarketAssignsHeatLevelLiquidity(t *testing.T) {
	now := time.Unix(0, 0)
	engine, tunables := newTestEngine(t, now)
	creator := testAddress(t, 10)

	m, fee, err := engine.CreateMarket(creator, CreateMarketInput{
		Question:  "Will it rain?",
		ExpiresAt: now.Add(1000 * time.Second),
		HeatLevel: market.HeatActive,
	}, tunables.CreationFee)
	if err != nil {
		t.Fatalf("CreateMarket: %v", err)
	}
	if !fee.IsZero() {
		t.Fatalf("creation fee = %s, want zero (default tunables)", fee)
	}
	want := tunables.HeatLevelLiquidity[market.HeatActive]
	if m.VirtualLiquidity.Cmp(want) != 0 {
		t.Fatalf("VirtualLiquidity = %s, want %s", m.VirtualLiquidity, want)
	}
}

func TestBuyRejectsBelowMinimumBet(t *testing.T) {
	now := time.Unix(0, 0)
	engine, tunables := newTestEngine(t, now)
	creator := testAddress(t, 10)
	m, _, err := engine.CreateMarket(creator, CreateMarketInput{
		Question:  "Q",
		ExpiresAt: now.Add(1000 * time.Second),
		HeatLevel: market.HeatActive,
	}, tunables.CreationFee)
	if err != nil {
		t.Fatalf("CreateMarket: %v", err)
	}

	trader := testAddress(t, 11)
	tooSmall := fixedpoint.SaturatingSub(tunables.MinimumBet, fixedpoint.One())
	_, err = engine.Buy(trader, m.ID, pricing.YesSide, tooSmall, fixedpoint.Zero())
	if err != enginerr.ErrBelowMinimumBet {
		t.Fatalf("Buy() err = %v, want ErrBelowMinimumBet", err)
	}
}

func TestBuyMutatesSupplyPositionAndPool(t *testing.T) {
	now := time.Unix(0, 0)
	engine, tunables := newTestEngine(t, now)
	creator := testAddress(t, 10)
	m, _, err := engine.CreateMarket(creator, CreateMarketInput{
		Question:  "Q",
		ExpiresAt: now.Add(1000 * time.Second),
		HeatLevel: market.HeatActive,
	}, tunables.CreationFee)
	if err != nil {
		t.Fatalf("CreateMarket: %v", err)
	}

	trader := testAddress(t, 11)
	amount := fixedpoint.FromUint64(1_000_000_000_000_000_000) // 1e18
	result, err := engine.Buy(trader, m.ID, pricing.YesSide, amount, fixedpoint.Zero())
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if result.SharesOut.IsZero() {
		t.Fatalf("SharesOut is zero, want nonzero")
	}
	if result.Market.YesSupply.Cmp(result.SharesOut) != 0 {
		t.Fatalf("YesSupply = %s, want %s", result.Market.YesSupply, result.SharesOut)
	}
	if result.Position.YesShares.Cmp(result.SharesOut) != 0 {
		t.Fatalf("position YesShares = %s, want %s", result.Position.YesShares, result.SharesOut)
	}
	if result.Market.PoolBalance.IsZero() {
		t.Fatalf("PoolBalance is zero after a buy")
	}

	creatorFee, err := fixedpoint.Share(amount, tunables.CreatorFeeBps)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if engine.CreatorLedger.Balance(creator).Cmp(creatorFee) != 0 {
		t.Fatalf("creator ledger balance = %s, want %s", engine.CreatorLedger.Balance(creator), creatorFee)
	}
}

func TestBuyRejectsSlippage(t *testing.T) {
	now := time.Unix(0, 0)
	engine, tunables := newTestEngine(t, now)
	creator := testAddress(t, 10)
	m, _, err := engine.CreateMarket(creator, CreateMarketInput{
		Question:  "Q",
		ExpiresAt: now.Add(1000 * time.Second),
		HeatLevel: market.HeatActive,
	}, tunables.CreationFee)
	if err != nil {
		t.Fatalf("CreateMarket: %v", err)
	}

	trader := testAddress(t, 11)
	amount := fixedpoint.FromUint64(1_000_000_000_000_000_000)
	impossible, err := fixedpoint.Mul(amount, fixedpoint.FromUint64(1_000))
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	_, err = engine.Buy(trader, m.ID, pricing.YesSide, amount, impossible)
	if err != enginerr.ErrSlippageExceeded {
		t.Fatalf("Buy() err = %v, want ErrSlippageExceeded", err)
	}
}

func TestSellRejectsInsufficientShares(t *testing.T) {
	now := time.Unix(0, 0)
	engine, tunables := newTestEngine(t, now)
	creator := testAddress(t, 10)
	m, _, err := engine.CreateMarket(creator, CreateMarketInput{
		Question:  "Q",
		ExpiresAt: now.Add(1000 * time.Second),
		HeatLevel: market.HeatActive,
	}, tunables.CreationFee)
	if err != nil {
		t.Fatalf("CreateMarket: %v", err)
	}

	trader := testAddress(t, 11)
	_, err = engine.Sell(trader, m.ID, pricing.YesSide, fixedpoint.One(), fixedpoint.Zero())
	if err != enginerr.ErrInsufficientShares {
		t.Fatalf("Sell() err = %v, want ErrInsufficientShares", err)
	}
}

func TestBuyThenSellNeverProfits(t *testing.T) {
	now := time.Unix(0, 0)
	engine, tunables := newTestEngine(t, now)
	creator := testAddress(t, 10)
	m, _, err := engine.CreateMarket(creator, CreateMarketInput{
		Question:  "Q",
		ExpiresAt: now.Add(1000 * time.Second),
		HeatLevel: market.HeatActive,
	}, tunables.CreationFee)
	if err != nil {
		t.Fatalf("CreateMarket: %v", err)
	}

	trader := testAddress(t, 11)
	amount := fixedpoint.FromUint64(1_000_000_000_000_000_000)
	buyResult, err := engine.Buy(trader, m.ID, pricing.YesSide, amount, fixedpoint.Zero())
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}

	sellResult, err := engine.Sell(trader, m.ID, pricing.YesSide, buyResult.SharesOut, fixedpoint.Zero())
	if err != nil {
		t.Fatalf("Sell: %v", err)
	}
	if sellResult.NetProceeds.GreaterThan(amount) {
		t.Fatalf("round trip netted %s from an outlay of %s", sellResult.NetProceeds, amount)
	}

	_ = tunables
}

func TestCreateMarketAndBuyIsAtomic(t *testing.T) {
	now := time.Unix(0, 0)
	engine, _ := newTestEngine(t, now)
	trader := testAddress(t, 20)
	value := fixedpoint.FromUint64(1_000_000_000_000_000_000)

	m, result, err := engine.CreateMarketAndBuy(trader, CreateMarketInput{
		Question:  "Q",
		ExpiresAt: now.Add(1000 * time.Second),
		HeatLevel: market.HeatWarm,
	}, value, pricing.YesSide, fixedpoint.Zero())
	if err != nil {
		t.Fatalf("CreateMarketAndBuy: %v", err)
	}
	if m.YesSupply.IsZero() {
		t.Fatalf("market has zero YesSupply after create-and-buy")
	}
	if result.SharesOut.IsZero() {
		t.Fatalf("SharesOut is zero after create-and-buy")
	}
}
