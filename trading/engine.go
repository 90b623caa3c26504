// Package trading implements the settlement engine's trading core: market
// creation and the buy/sell flows that move collateral, shares, and fees.
// Every operation here requires the market's computed status to be Active.
// The fee-split-then-disburse shape is grounded on native/swap/engine.go,
// generalized from a fixed swap fee to the platform/creator basis-point
// split this engine charges on every trade.
package trading

import (
	"errors"
	"fmt"
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

// TunablesProvider exposes the engine's current administratively-mutable
// parameters without coupling this package to how those mutations are
// serialized (the admin package owns that). A snapshot is read once at the
// top of every operation so a single call sees a consistent set of fees and
// bounds even if an administrative action lands concurrently.
type TunablesProvider interface {
	Tunables() config.Tunables
}

// Engine is the trading core. It owns no account-transfer capability of its
// own: every
// disbursement it reports is a value the embedding host must actually pay
// out after the operation returns, following the checks-effects-interactions
// ordering checks-effects-interactions strictly.
type Engine struct {
	Store         market.Store
	CreatorLedger *ledger.Ledger
	Config        TunablesProvider
	Events        events.Emitter
	Clock         func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}

func (e *Engine) emit(ev events.Event) {
	if e.Events != nil {
		e.Events.Emit(ev)
	}
}

// CreateMarketInput carries the caller-supplied fields for a new market.
type CreateMarketInput struct {
	Question     string
	EvidenceLink string
	RulesText    string
	ImageURL     string
	ExpiresAt    time.Time
	HeatLevel    market.HeatLevel
}

// translateMarketError maps market package validation sentinels onto the
// engine's closed error surface so callers never need to know about an
// internal package's own error values.
func translateMarketError(err error) error {
	switch {
	case errors.Is(err, market.ErrEmptyQuestion):
		return enginerr.ErrEmptyQuestion
	case errors.Is(err, market.ErrInvalidExpiry):
		return enginerr.ErrInvalidExpiry
	case errors.Is(err, market.ErrInvalidHeat), errors.Is(err, market.ErrZeroLiquidity):
		return enginerr.ErrOutOfBounds
	default:
		return fmt.Errorf("trading: %w", err)
	}
}

// CreateMarket allocates a new market with zero supplies and an empty pool;
// its virtual liquidity is taken from the heat-level table at creation time.
// creationFeeValue must cover the current creation fee tunable; the fee
// itself is reported back for the host to forward to treasury.
func (e *Engine) CreateMarket(caller crypto.Address, input CreateMarketInput, creationFeeValue fixedpoint.Uint256) (*market.Market, fixedpoint.Uint256, error) {
	tunables := e.Config.Tunables()
	if tunables.Paused {
		return nil, fixedpoint.Zero(), enginerr.ErrModulePaused
	}
	if creationFeeValue.LessThan(tunables.CreationFee) {
		return nil, fixedpoint.Zero(), enginerr.ErrInsufficientCreationFee
	}

	virtualLiquidity, ok := tunables.HeatLevelLiquidity[input.HeatLevel]
	if !ok {
		return nil, fixedpoint.Zero(), enginerr.ErrOutOfBounds
	}

	now := e.now()
	id, err := e.Store.NextMarketID()
	if err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("trading: allocate market id: %w", err)
	}

	candidate := &market.Market{
		ID:               id,
		Question:         input.Question,
		EvidenceLink:     input.EvidenceLink,
		RulesText:        input.RulesText,
		ImageURL:         input.ImageURL,
		Creator:          caller,
		ExpiresAt:        input.ExpiresAt,
		VirtualLiquidity: virtualLiquidity,
		HeatLevel:        input.HeatLevel,
	}
	sanitized, err := market.Sanitize(candidate, now)
	if err != nil {
		return nil, fixedpoint.Zero(), translateMarketError(err)
	}

	if err := e.Store.PutMarket(sanitized); err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("trading: store market: %w", err)
	}

	e.emit(events.MarketCreated{
		MarketID:         sanitized.ID,
		Creator:          caller.String(),
		Question:         sanitized.Question,
		ExpiresAtUnix:    sanitized.ExpiresAt.Unix(),
		HeatLevel:        sanitized.HeatLevel.String(),
		VirtualLiquidity: sanitized.VirtualLiquidity.String(),
	})

	return sanitized, tunables.CreationFee, nil
}

// BuyResult reports a completed buy's mutation outcome and the disbursements
// the host must carry out after the operation returns.
type BuyResult struct {
	Market               *market.Market
	Position             market.Position
	SharesOut            fixedpoint.Uint256
	TreasuryDisbursement fixedpoint.Uint256
}

// CreateMarketAndBuy creates a market and immediately buys on behalf of the
// caller with all value remaining after the creation fee, so no other party
// can ever be the market's first trader.
func (e *Engine) CreateMarketAndBuy(caller crypto.Address, input CreateMarketInput, value fixedpoint.Uint256, side pricing.Side, minSharesOut fixedpoint.Uint256) (*market.Market, BuyResult, error) {
	tunables := e.Config.Tunables()
	if value.LessThan(tunables.CreationFee) {
		return nil, BuyResult{}, enginerr.ErrInsufficientCreationFee
	}
	remainder, err := fixedpoint.Sub(value, tunables.CreationFee)
	if err != nil {
		return nil, BuyResult{}, fmt.Errorf("trading: %w", err)
	}
	// The first buy's own checks run here, before the market is stored, so a
	// call that fails them leaves no market behind.
	if remainder.LessThan(tunables.MinimumBet) {
		return nil, BuyResult{}, enginerr.ErrBelowMinimumBet
	}
	if liquidity, ok := tunables.HeatLevelLiquidity[input.HeatLevel]; ok {
		platformFee, _ := fixedpoint.Share(remainder, tunables.PlatformFeeBps)
		creatorFee, _ := fixedpoint.Share(remainder, tunables.CreatorFeeBps)
		net := fixedpoint.SaturatingSub(fixedpoint.SaturatingSub(remainder, platformFee), creatorFee)
		preview, err := pricing.Curve{VirtualLiquidity: liquidity}.BuyShares(net, side)
		if err == nil && preview.LessThan(minSharesOut) {
			return nil, BuyResult{}, enginerr.ErrSlippageExceeded
		}
	}

	m, creationFee, err := e.CreateMarket(caller, input, tunables.CreationFee)
	if err != nil {
		return nil, BuyResult{}, err
	}

	result, err := e.Buy(caller, m.ID, side, remainder, minSharesOut)
	if err != nil {
		return m, BuyResult{}, err
	}
	result.TreasuryDisbursement, err = fixedpoint.Add(result.TreasuryDisbursement, creationFee)
	if err != nil {
		return m, BuyResult{}, fmt.Errorf("trading: %w", err)
	}
	return result.Market, result, nil
}

func requireActive(m *market.Market, now time.Time) error {
	if m.Status(now) != market.StatusActive {
		return enginerr.ErrMarketNotActive
	}
	return nil
}

func (e *Engine) loadMarket(marketID uint64) (*market.Market, error) {
	m, ok, err := e.Store.GetMarket(marketID)
	if err != nil {
		return nil, fmt.Errorf("trading: load market: %w", err)
	}
	if !ok {
		return nil, enginerr.ErrNoPosition
	}
	return m, nil
}

func addSupply(m *market.Market, side pricing.Side, shares fixedpoint.Uint256) (fixedpoint.Uint256, error) {
	if side == pricing.YesSide {
		return fixedpoint.Add(m.YesSupply, shares)
	}
	return fixedpoint.Add(m.NoSupply, shares)
}

func subSupply(m *market.Market, side pricing.Side, shares fixedpoint.Uint256) (fixedpoint.Uint256, error) {
	if side == pricing.YesSide {
		return fixedpoint.Sub(m.YesSupply, shares)
	}
	return fixedpoint.Sub(m.NoSupply, shares)
}

func addPositionShares(pos market.Position, side pricing.Side, shares fixedpoint.Uint256) (market.Position, error) {
	var err error
	if side == pricing.YesSide {
		pos.YesShares, err = fixedpoint.Add(pos.YesShares, shares)
	} else {
		pos.NoShares, err = fixedpoint.Add(pos.NoShares, shares)
	}
	return pos, err
}

func subPositionShares(pos market.Position, side pricing.Side, shares fixedpoint.Uint256) (market.Position, error) {
	var err error
	if side == pricing.YesSide {
		pos.YesShares, err = fixedpoint.Sub(pos.YesShares, shares)
	} else {
		pos.NoShares, err = fixedpoint.Sub(pos.NoShares, shares)
	}
	return pos, err
}

// Buy purchases shares of side with amount of collateral. amount must be at
// least the configured minimum bet; the resulting share count must meet
// minSharesOut or the operation fails without mutating state.
func (e *Engine) Buy(caller crypto.Address, marketID uint64, side pricing.Side, amount fixedpoint.Uint256, minSharesOut fixedpoint.Uint256) (BuyResult, error) {
	tunables := e.Config.Tunables()
	if tunables.Paused {
		return BuyResult{}, enginerr.ErrModulePaused
	}
	if amount.LessThan(tunables.MinimumBet) {
		return BuyResult{}, enginerr.ErrBelowMinimumBet
	}

	m, err := e.loadMarket(marketID)
	if err != nil {
		return BuyResult{}, err
	}
	if err := requireActive(m, e.now()); err != nil {
		return BuyResult{}, err
	}

	platformFee, err := fixedpoint.Share(amount, tunables.PlatformFeeBps)
	if err != nil {
		return BuyResult{}, fmt.Errorf("trading: %w", err)
	}
	creatorFee, err := fixedpoint.Share(amount, tunables.CreatorFeeBps)
	if err != nil {
		return BuyResult{}, fmt.Errorf("trading: %w", err)
	}
	fees, err := fixedpoint.Add(platformFee, creatorFee)
	if err != nil {
		return BuyResult{}, fmt.Errorf("trading: %w", err)
	}
	net, err := fixedpoint.Sub(amount, fees)
	if err != nil {
		return BuyResult{}, fmt.Errorf("trading: %w", err)
	}

	shares, err := m.Curve().BuyShares(net, side)
	if err != nil {
		return BuyResult{}, fmt.Errorf("trading: %w", err)
	}
	if shares.LessThan(minSharesOut) {
		return BuyResult{}, enginerr.ErrSlippageExceeded
	}

	if side == pricing.YesSide {
		m.YesSupply, err = addSupply(m, side, shares)
	} else {
		m.NoSupply, err = addSupply(m, side, shares)
	}
	if err != nil {
		return BuyResult{}, fmt.Errorf("trading: %w", err)
	}
	m.PoolBalance, err = fixedpoint.Add(m.PoolBalance, net)
	if err != nil {
		return BuyResult{}, fmt.Errorf("trading: %w", err)
	}

	pos, _, err := e.Store.GetPosition(marketID, caller)
	if err != nil {
		return BuyResult{}, fmt.Errorf("trading: load position: %w", err)
	}
	pos, err = addPositionShares(pos, side, shares)
	if err != nil {
		return BuyResult{}, fmt.Errorf("trading: %w", err)
	}

	if err := e.Store.PutMarket(m); err != nil {
		return BuyResult{}, fmt.Errorf("trading: store market: %w", err)
	}
	if err := e.Store.PutPosition(marketID, caller, pos); err != nil {
		return BuyResult{}, fmt.Errorf("trading: store position: %w", err)
	}
	if creatorFee.IsZero() == false {
		if err := e.CreatorLedger.Credit(m.Creator, creatorFee); err != nil {
			return BuyResult{}, fmt.Errorf("trading: credit creator fee: %w", err)
		}
		e.emit(events.CreatorFeesCredited{MarketID: marketID, Creator: m.Creator.String(), Amount: creatorFee.String()})
	}

	e.emit(events.Trade{
		MarketID:      marketID,
		Trader:        caller.String(),
		Side:          side.String(),
		IsBuy:         true,
		Shares:        shares.String(),
		NetCollateral: net.String(),
	})

	return BuyResult{Market: m, Position: pos, SharesOut: shares, TreasuryDisbursement: platformFee}, nil
}

// SellResult reports a completed sell's mutation outcome and the net
// collateral the host must pay directly to the caller.
type SellResult struct {
	Market               *market.Market
	Position             market.Position
	NetProceeds          fixedpoint.Uint256
	TreasuryDisbursement fixedpoint.Uint256
}

// Sell liquidates shares of side from the caller's position. Proceeds are
// priced at the post-sell state (pricing.Curve.SellProceeds); fees are taken
// from the gross proceeds, and the net must meet minOut or the operation
// fails without mutating state.
func (e *Engine) Sell(caller crypto.Address, marketID uint64, side pricing.Side, shares fixedpoint.Uint256, minOut fixedpoint.Uint256) (SellResult, error) {
	tunables := e.Config.Tunables()
	if tunables.Paused {
		return SellResult{}, enginerr.ErrModulePaused
	}

	m, err := e.loadMarket(marketID)
	if err != nil {
		return SellResult{}, err
	}
	if err := requireActive(m, e.now()); err != nil {
		return SellResult{}, err
	}

	pos, ok, err := e.Store.GetPosition(marketID, caller)
	if err != nil {
		return SellResult{}, fmt.Errorf("trading: load position: %w", err)
	}
	if !ok || pos.SharesForSide(side).LessThan(shares) {
		return SellResult{}, enginerr.ErrInsufficientShares
	}

	gross, err := m.Curve().SellProceeds(shares, side)
	if err != nil {
		return SellResult{}, fmt.Errorf("trading: %w", err)
	}
	if gross.GreaterThan(m.PoolBalance) {
		return SellResult{}, enginerr.ErrInsufficientPoolBalance
	}

	platformFee, err := fixedpoint.Share(gross, tunables.PlatformFeeBps)
	if err != nil {
		return SellResult{}, fmt.Errorf("trading: %w", err)
	}
	creatorFee, err := fixedpoint.Share(gross, tunables.CreatorFeeBps)
	if err != nil {
		return SellResult{}, fmt.Errorf("trading: %w", err)
	}
	fees, err := fixedpoint.Add(platformFee, creatorFee)
	if err != nil {
		return SellResult{}, fmt.Errorf("trading: %w", err)
	}
	net, err := fixedpoint.Sub(gross, fees)
	if err != nil {
		return SellResult{}, fmt.Errorf("trading: %w", err)
	}
	if net.LessThan(minOut) {
		return SellResult{}, enginerr.ErrSlippageExceeded
	}

	if side == pricing.YesSide {
		m.YesSupply, err = subSupply(m, side, shares)
	} else {
		m.NoSupply, err = subSupply(m, side, shares)
	}
	if err != nil {
		return SellResult{}, fmt.Errorf("trading: %w", err)
	}
	m.PoolBalance, err = fixedpoint.Sub(m.PoolBalance, gross)
	if err != nil {
		return SellResult{}, fmt.Errorf("trading: %w", err)
	}
	pos, err = subPositionShares(pos, side, shares)
	if err != nil {
		return SellResult{}, fmt.Errorf("trading: %w", err)
	}

	if err := e.Store.PutMarket(m); err != nil {
		return SellResult{}, fmt.Errorf("trading: store market: %w", err)
	}
	if err := e.Store.PutPosition(marketID, caller, pos); err != nil {
		return SellResult{}, fmt.Errorf("trading: store position: %w", err)
	}
	if !creatorFee.IsZero() {
		if err := e.CreatorLedger.Credit(m.Creator, creatorFee); err != nil {
			return SellResult{}, fmt.Errorf("trading: credit creator fee: %w", err)
		}
		e.emit(events.CreatorFeesCredited{MarketID: marketID, Creator: m.Creator.String(), Amount: creatorFee.String()})
	}

	e.emit(events.Trade{
		MarketID:      marketID,
		Trader:        caller.String(),
		Side:          side.String(),
		IsBuy:         false,
		Shares:        shares.String(),
		NetCollateral: net.String(),
	})

	return SellResult{Market: m, Position: pos, NetProceeds: net, TreasuryDisbursement: platformFee}, nil
}

// MaxSellable previews the largest share count the caller can sell on side
// without exceeding the market's current pool balance.
func (e *Engine) MaxSellable(caller crypto.Address, marketID uint64, side pricing.Side) (fixedpoint.Uint256, error) {
	m, err := e.loadMarket(marketID)
	if err != nil {
		return fixedpoint.Zero(), err
	}
	pos, _, err := e.Store.GetPosition(marketID, caller)
	if err != nil {
		return fixedpoint.Zero(), fmt.Errorf("trading: load position: %w", err)
	}
	return m.Curve().MaxSellable(pos.SharesForSide(side), side, m.PoolBalance)
}
