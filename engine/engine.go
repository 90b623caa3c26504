// Package engine composes the settlement engine's subsystem packages
// (market storage, trading, resolution, bonds, the pull-payment ledgers,
// and administration) into the single command surface a host embeds,
// mirroring native/lending/engine.go's role as the top-level object a
// service wires one construction call to.
package engine

import (
	"strconv"
	"time"

	"streetmkt/admin"
	"streetmkt/bonds"
	"streetmkt/config"
	"streetmkt/crypto"
	"streetmkt/enginerr"
	"streetmkt/events"
	"streetmkt/fixedpoint"
	"streetmkt/ledger"
	"streetmkt/market"
	"streetmkt/observability"
	"streetmkt/pricing"
	"streetmkt/resolution"
	"streetmkt/trading"
)

// Engine is the settlement engine's full command surface: market creation
// and trading, Street Consensus resolution, the bond/voter and
// creator-fee pull ledgers, and the administrative action queue that owns
// every tunable parameter the other subsystems read.
type Engine struct {
	Store      market.Store
	BondLedger *ledger.Ledger
	FeeLedger  *ledger.Ledger
	Admin      *admin.Engine
	Events     events.Emitter
	Metrics    *observability.EngineMetrics
	Clock      func() time.Time

	trading    *trading.Engine
	resolution *resolution.Engine
}

// Config is the boot-time wiring input for New.
type Config struct {
	Store      market.Store
	Tunables   config.Tunables
	Emitter    events.Emitter
	Metrics    *observability.EngineMetrics
	Clock      func() time.Time
	ActionTTL  time.Duration
}

// New constructs a fully wired Engine. A nil Store gets an in-memory one;
// a nil Emitter discards events; a nil Clock uses time.Now.
func New(cfg Config) *Engine {
	if cfg.Store == nil {
		cfg.Store = market.NewMemStore()
	}
	if cfg.Emitter == nil {
		cfg.Emitter = events.NoopEmitter{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.ActionTTL == 0 {
		cfg.ActionTTL = 72 * time.Hour
	}

	bondLedger := ledger.New()
	feeLedger := ledger.New()
	adminEngine := admin.New(cfg.Tunables, cfg.ActionTTL, cfg.Emitter, cfg.Clock)

	e := &Engine{
		Store:      cfg.Store,
		BondLedger: bondLedger,
		FeeLedger:  feeLedger,
		Admin:      adminEngine,
		Events:     cfg.Emitter,
		Metrics:    cfg.Metrics,
		Clock:      cfg.Clock,
	}
	e.trading = &trading.Engine{
		Store:         cfg.Store,
		CreatorLedger: feeLedger,
		Config:        adminEngine,
		Events:        cfg.Emitter,
		Clock:         cfg.Clock,
	}
	e.resolution = &resolution.Engine{
		Store:      cfg.Store,
		BondLedger: bondLedger,
		Config:     adminEngine,
		Events:     cfg.Emitter,
		Clock:      cfg.Clock,
	}
	return e
}

func (e *Engine) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}

func (e *Engine) observe(operation string, err error) {
	if e.Metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	e.Metrics.Operations.WithLabelValues(operation, outcome).Inc()
}

// requireUnpaused guards the commands that open or move positions and
// resolutions: CreateMarket, CreateMarketAndBuy, Buy, Sell, ProposeOutcome,
// Dispute, and Vote. The administrative queue, Finalize, claims, emergency
// refund, withdrawals, and queries do not call it, so a paused market's
// positions are never permanently locked behind a stalled administrator set.
func (e *Engine) requireUnpaused() error {
	if e.Admin.Tunables().Paused {
		return enginerr.ErrModulePaused
	}
	return nil
}

// CreateMarket opens a new market. It returns the created market and the
// creation fee the host must forward to the treasury account.
func (e *Engine) CreateMarket(caller crypto.Address, input trading.CreateMarketInput) (*market.Market, fixedpoint.Uint256, error) {
	if err := e.requireUnpaused(); err != nil {
		return nil, fixedpoint.Zero(), err
	}
	tunables := e.Admin.Tunables()
	m, fee, err := e.trading.CreateMarket(caller, input, tunables.CreationFee)
	e.observe("create_market", err)
	return m, fee, err
}

// CreateMarketAndBuy atomically creates a market and places the first buy
// on the caller's behalf, preventing a front-runner from claiming the
// first trade.
func (e *Engine) CreateMarketAndBuy(caller crypto.Address, input trading.CreateMarketInput, value fixedpoint.Uint256, side pricing.Side, minSharesOut fixedpoint.Uint256) (*market.Market, trading.BuyResult, error) {
	if err := e.requireUnpaused(); err != nil {
		return nil, trading.BuyResult{}, err
	}
	m, result, err := e.trading.CreateMarketAndBuy(caller, input, value, side, minSharesOut)
	e.observe("create_market_and_buy", err)
	return m, result, err
}

// Buy executes a bonding-curve purchase of shares on one side of a market.
func (e *Engine) Buy(caller crypto.Address, marketID uint64, side pricing.Side, amount, minSharesOut fixedpoint.Uint256) (trading.BuyResult, error) {
	if err := e.requireUnpaused(); err != nil {
		return trading.BuyResult{}, err
	}
	result, err := e.trading.Buy(caller, marketID, side, amount, minSharesOut)
	e.observe("buy", err)
	if e.Metrics != nil && err == nil {
		e.Metrics.PoolBalance.WithLabelValues(idLabel(marketID)).Set(float64(result.Market.PoolBalance.Uint64()))
	}
	return result, err
}

// Sell redeems shares back into the pool for collateral.
func (e *Engine) Sell(caller crypto.Address, marketID uint64, side pricing.Side, shares, minOut fixedpoint.Uint256) (trading.SellResult, error) {
	if err := e.requireUnpaused(); err != nil {
		return trading.SellResult{}, err
	}
	result, err := e.trading.Sell(caller, marketID, side, shares, minOut)
	e.observe("sell", err)
	if e.Metrics != nil && err == nil {
		e.Metrics.PoolBalance.WithLabelValues(idLabel(marketID)).Set(float64(result.Market.PoolBalance.Uint64()))
	}
	return result, err
}

// MaxSellable reports the most shares caller can currently sell on side
// without the pool running dry.
func (e *Engine) MaxSellable(caller crypto.Address, marketID uint64, side pricing.Side) (fixedpoint.Uint256, error) {
	return e.trading.MaxSellable(caller, marketID, side)
}

// ProposeOutcome stakes a bond on a proposed outcome for an expired market.
func (e *Engine) ProposeOutcome(caller crypto.Address, marketID uint64, outcome bool, value fixedpoint.Uint256) (*market.Market, fixedpoint.Uint256, error) {
	if err := e.requireUnpaused(); err != nil {
		return nil, fixedpoint.Zero(), err
	}
	m, fee, err := e.resolution.ProposeOutcome(caller, marketID, outcome, value)
	e.observe("propose_outcome", err)
	return m, fee, err
}

// Dispute challenges a proposed outcome with a larger bond.
func (e *Engine) Dispute(caller crypto.Address, marketID uint64, value fixedpoint.Uint256) (*market.Market, fixedpoint.Uint256, error) {
	if err := e.requireUnpaused(); err != nil {
		return nil, fixedpoint.Zero(), err
	}
	m, fee, err := e.resolution.Dispute(caller, marketID, value)
	e.observe("dispute", err)
	return m, fee, err
}

// Vote casts a shareholder's weighted vote during a dispute.
func (e *Engine) Vote(caller crypto.Address, marketID uint64, outcome bool) error {
	if err := e.requireUnpaused(); err != nil {
		return err
	}
	err := e.resolution.Vote(caller, marketID, outcome)
	e.observe("vote", err)
	return err
}

// Finalize closes out a proposed or disputed market once its window has
// elapsed. Finalize is explicitly exempt from the pause guard: a paused
// engine must still be able to settle markets that are already mid-flight,
// matching the administrative pause's narrow scope.
func (e *Engine) Finalize(marketID uint64) (resolution.FinalizeResult, error) {
	result, err := e.resolution.Finalize(marketID)
	e.observe("finalize", err)
	if err == nil {
		switch {
		case result.Market.Resolved:
			e.recordBondMetric("resolved")
		default:
			e.recordBondMetric("unresolved")
		}
	}
	return result, err
}

func (e *Engine) recordBondMetric(branch string) {
	if e.Metrics == nil {
		return
	}
	e.Metrics.BondsDistributed.WithLabelValues(branch).Inc()
}

// Claim pays out a winning position's share of a resolved market's pool.
func (e *Engine) Claim(caller crypto.Address, marketID uint64) (*market.Market, fixedpoint.Uint256, fixedpoint.Uint256, error) {
	m, net, fee, err := e.resolution.Claim(caller, marketID)
	e.observe("claim", err)
	return m, net, fee, err
}

// EmergencyRefund returns a position's pro-rata share of the pool when
// resolution has stalled. It bypasses the pause guard deliberately: an
// administrative pause must never trap funds past the emergency-refund
// delay.
func (e *Engine) EmergencyRefund(caller crypto.Address, marketID uint64) (*market.Market, fixedpoint.Uint256, error) {
	m, amount, err := e.resolution.EmergencyRefund(caller, marketID)
	e.observe("emergency_refund", err)
	return m, amount, err
}

// ClaimJuryFees pays a winning voter their share of a disputed market's
// jury-fees pool.
func (e *Engine) ClaimJuryFees(caller crypto.Address, marketID uint64) (fixedpoint.Uint256, error) {
	amount, err := e.resolution.ClaimJuryFees(caller, marketID)
	e.observe("claim_jury_fees", err)
	return amount, err
}

// WithdrawBond drains caller's bond/voter pull-ledger balance for the host
// to disburse.
func (e *Engine) WithdrawBond(caller crypto.Address) (fixedpoint.Uint256, error) {
	amount, err := e.BondLedger.Withdraw(caller)
	e.observe("withdraw_bond", err)
	if err == nil {
		if e.Metrics != nil {
			e.Metrics.Withdrawals.WithLabelValues("bond").Inc()
		}
		e.emit(events.WithdrawalClaimed{Account: caller.String(), Amount: amount.String()})
	}
	return amount, err
}

// WithdrawCreatorFees drains caller's creator-fee pull-ledger balance for
// the host to disburse.
func (e *Engine) WithdrawCreatorFees(caller crypto.Address) (fixedpoint.Uint256, error) {
	amount, err := e.FeeLedger.Withdraw(caller)
	e.observe("withdraw_creator_fees", err)
	if err == nil {
		if e.Metrics != nil {
			e.Metrics.Withdrawals.WithLabelValues("creator_fee").Inc()
		}
		e.emit(events.CreatorFeesClaimed{Creator: caller.String(), Amount: amount.String()})
	}
	return amount, err
}

// emit forwards an event to the configured Emitter, tolerating a nil one.
func (e *Engine) emit(ev events.Event) {
	if e.Events != nil {
		e.Events.Emit(ev)
	}
}

// RequiredBond previews the proposal bond a market would currently
// require, without mutating any state.
func (e *Engine) RequiredBond(marketID uint64) (fixedpoint.Uint256, error) {
	m, found, err := e.Store.GetMarket(marketID)
	if err != nil {
		return fixedpoint.Zero(), err
	}
	if !found {
		return fixedpoint.Zero(), enginerr.ErrMarketNotActive
	}
	tunables := e.Admin.Tunables()
	return bonds.RequiredProposalBond(m.PoolBalance, tunables.MinBondFloor, tunables.DynamicBondBps)
}

// RequiredDisputeBond previews the dispute bond for a proposed market.
func (e *Engine) RequiredDisputeBond(marketID uint64) (fixedpoint.Uint256, error) {
	m, found, err := e.Store.GetMarket(marketID)
	if err != nil {
		return fixedpoint.Zero(), err
	}
	if !found {
		return fixedpoint.Zero(), enginerr.ErrMarketNotActive
	}
	return bonds.RequiredDisputeBond(m.ProposalBond)
}

// Describe returns a read-only snapshot of a market's full record, the
// pure query surface hosts use for display.
func (e *Engine) Describe(marketID uint64) (*market.Market, error) {
	m, found, err := e.Store.GetMarket(marketID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, enginerr.ErrMarketNotActive
	}
	return m, nil
}

func idLabel(marketID uint64) string {
	return strconv.FormatUint(marketID, 10)
}
