// Package resolution implements the settlement engine's four-stage
// "Street Consensus" resolution state machine: propose-outcome, dispute,
// vote, and finalize, plus the three payout operations that follow a
// finalized or emergency-refunded market (claim, emergency-refund,
// claim-jury-fees). Status is never stored; every operation recomputes it
// fresh from the market record and the current time,
// grounded on native/escrow/engine_milestone.go's clock-injected status
// machine.
package resolution

import (
	"errors"
	"fmt"
	"time"

	"streetmkt/bonds"
	"streetmkt/config"
	"streetmkt/crypto"
	"streetmkt/enginerr"
	"streetmkt/events"
	"streetmkt/fixedpoint"
	"streetmkt/ledger"
	"streetmkt/market"
	"streetmkt/pricing"
)

// Timed windows, all measured from their anchor.
const (
	CreatorPriorityWindow = 10 * time.Minute
	DisputeWindow         = 30 * time.Minute
	VotingWindow          = 60 * time.Minute
	EmergencyRefundDelay  = 24 * time.Hour
	ProposalCutoffBuffer  = 2 * time.Hour
)

// TunablesProvider exposes the engine's current administratively-mutable
// parameters, mirroring trading.TunablesProvider.
type TunablesProvider interface {
	Tunables() config.Tunables
}

// Engine is the resolution state machine. Like trading.Engine it reports
// disbursements rather than performing them; the embedding host pays them
// out after the operation returns.
type Engine struct {
	Store      market.Store
	BondLedger *ledger.Ledger
	Config     TunablesProvider
	Events     events.Emitter
	Clock      func() time.Time
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

func (e *Engine) loadMarket(marketID uint64) (*market.Market, error) {
	m, ok, err := e.Store.GetMarket(marketID)
	if err != nil {
		return nil, fmt.Errorf("resolution: load market: %w", err)
	}
	if !ok {
		return nil, enginerr.ErrNoPosition
	}
	return m, nil
}

func boolOutcome(side pricing.Side) bool { return side == pricing.YesSide }
func sideOf(outcome bool) pricing.Side {
	if outcome {
		return pricing.YesSide
	}
	return pricing.NoSide
}

// ProposeOutcome stakes a bond on an outcome for an Expired market. value
// is the caller-supplied collateral; the returned fixedpoint amount is the
// resolution fee the host must forward to treasury.
func (e *Engine) ProposeOutcome(caller crypto.Address, marketID uint64, outcome bool, value fixedpoint.Uint256) (*market.Market, fixedpoint.Uint256, error) {
	tunables := e.Config.Tunables()
	now := e.now()

	m, err := e.loadMarket(marketID)
	if err != nil {
		return nil, fixedpoint.Zero(), err
	}
	if m.Status(now) != market.StatusExpired {
		return nil, fixedpoint.Zero(), enginerr.ErrMarketNotExpired
	}
	if m.OneSided() {
		return nil, fixedpoint.Zero(), enginerr.ErrOneSidedMarket
	}
	cutoff := m.ExpiresAt.Add(EmergencyRefundDelay - ProposalCutoffBuffer)
	if !now.Before(cutoff) {
		return nil, fixedpoint.Zero(), enginerr.ErrProposalWindowClosed
	}
	if now.Before(m.ExpiresAt.Add(CreatorPriorityWindow)) && !caller.Equal(m.Creator) {
		return nil, fixedpoint.Zero(), enginerr.ErrCreatorPriorityOnly
	}

	required, err := bonds.RequiredProposalBond(m.PoolBalance, tunables.MinBondFloor, tunables.DynamicBondBps)
	if err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}
	fee, err := fixedpoint.Share(value, tunables.ResolutionFeeBps)
	if err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}
	remainder, err := fixedpoint.Sub(value, fee)
	if err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}
	if remainder.LessThan(required) {
		return nil, fixedpoint.Zero(), enginerr.ErrInsufficientBond
	}

	proposer := caller
	m.Proposer = &proposer
	m.ProposedOutcome = sideOf(outcome)
	m.ProposalTime = now
	m.ProposalBond = remainder

	if err := e.Store.PutMarket(m); err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: store market: %w", err)
	}
	e.emit(events.OutcomeProposed{MarketID: marketID, Proposer: caller.String(), ProposedOutcome: outcome, ProposalBond: remainder.String()})
	return m, fee, nil
}

// Dispute challenges a Proposed market's outcome within the dispute window,
// posting at least 2x the proposal bond after the same resolution-fee skim;
// the whole remainder is held as the dispute bond.
func (e *Engine) Dispute(caller crypto.Address, marketID uint64, value fixedpoint.Uint256) (*market.Market, fixedpoint.Uint256, error) {
	tunables := e.Config.Tunables()
	now := e.now()

	m, err := e.loadMarket(marketID)
	if err != nil {
		return nil, fixedpoint.Zero(), err
	}
	if m.Status(now) != market.StatusProposed {
		return nil, fixedpoint.Zero(), enginerr.ErrNotProposed
	}
	if now.After(m.ProposalTime.Add(DisputeWindow)) {
		return nil, fixedpoint.Zero(), enginerr.ErrDisputeWindowExpired
	}

	required, err := bonds.RequiredDisputeBond(m.ProposalBond)
	if err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}
	fee, err := fixedpoint.Share(value, tunables.ResolutionFeeBps)
	if err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}
	remainder, err := fixedpoint.Sub(value, fee)
	if err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}
	if remainder.LessThan(required) {
		return nil, fixedpoint.Zero(), enginerr.ErrInsufficientBond
	}

	disputer := caller
	m.Disputer = &disputer
	m.DisputeTime = now
	m.DisputeBond = remainder

	if err := e.Store.PutMarket(m); err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: store market: %w", err)
	}
	e.emit(events.ProposalDisputed{MarketID: marketID, Disputer: caller.String(), DisputeBond: remainder.String()})
	return m, fee, nil
}

// Vote casts a one-shot, share-weighted vote on a Disputed market within the
// voting window that starts at the dispute.
func (e *Engine) Vote(caller crypto.Address, marketID uint64, outcome bool) error {
	now := e.now()
	m, err := e.loadMarket(marketID)
	if err != nil {
		return err
	}
	if m.Status(now) != market.StatusDisputed {
		return enginerr.ErrNotDisputed
	}
	if now.After(m.DisputeTime.Add(VotingWindow)) {
		return enginerr.ErrVotingWindowExpired
	}

	pos, ok, err := e.Store.GetPosition(marketID, caller)
	if err != nil {
		return fmt.Errorf("resolution: load position: %w", err)
	}
	if !ok {
		return enginerr.ErrNoSharesForVoting
	}
	if pos.HasVoted {
		return enginerr.ErrAlreadyVoted
	}
	weight, err := pos.TotalShares()
	if err != nil {
		return fmt.Errorf("resolution: %w", err)
	}
	if weight.IsZero() {
		return enginerr.ErrNoSharesForVoting
	}

	pos.HasVoted = true
	pos.VotedOutcome = sideOf(outcome)
	if outcome {
		m.YesVotes, err = fixedpoint.Add(m.YesVotes, weight)
	} else {
		m.NoVotes, err = fixedpoint.Add(m.NoVotes, weight)
	}
	if err != nil {
		return fmt.Errorf("resolution: %w", err)
	}

	if err := e.Store.PutMarket(m); err != nil {
		return fmt.Errorf("resolution: store market: %w", err)
	}
	if err := e.Store.PutPosition(marketID, caller, pos); err != nil {
		return fmt.Errorf("resolution: store position: %w", err)
	}
	e.emit(events.VoteCast{MarketID: marketID, Voter: caller.String(), Outcome: outcome, Weight: weight.String()})
	return nil
}

// FinalizeResult reports the outcome of a finalize call and any collateral
// the host must forward directly to treasury (the zero-winning-voters
// jury-pool carve-out).
type FinalizeResult struct {
	Market               *market.Market
	Resolved             bool
	TreasuryDisbursement fixedpoint.Uint256
}

// Finalize advances a Proposed or Disputed market past its respective
// window. Any caller may invoke it.
func (e *Engine) Finalize(marketID uint64) (FinalizeResult, error) {
	tunables := e.Config.Tunables()
	now := e.now()

	m, err := e.loadMarket(marketID)
	if err != nil {
		return FinalizeResult{}, err
	}

	switch m.Status(now) {
	case market.StatusProposed:
		if !now.After(m.ProposalTime.Add(DisputeWindow)) {
			return FinalizeResult{}, enginerr.ErrNotFinalizable
		}
		return e.finalizeProposed(m)
	case market.StatusDisputed:
		if !now.After(m.DisputeTime.Add(VotingWindow)) {
			return FinalizeResult{}, enginerr.ErrNotFinalizable
		}
		return e.finalizeDisputed(m, tunables)
	default:
		return FinalizeResult{}, enginerr.ErrNotFinalizable
	}
}

func (e *Engine) finalizeProposed(m *market.Market) (FinalizeResult, error) {
	tunables := e.Config.Tunables()
	winningSupply := m.YesSupply
	if !boolOutcome(m.ProposedOutcome) {
		winningSupply = m.NoSupply
	}
	if winningSupply.IsZero() {
		bond := m.ProposalBond
		proposer := *m.Proposer
		m.Proposer = nil
		m.ProposalBond = fixedpoint.Zero()
		if err := e.BondLedger.Credit(proposer, bond); err != nil {
			return FinalizeResult{}, fmt.Errorf("resolution: %w", err)
		}
		if err := e.Store.PutMarket(m); err != nil {
			return FinalizeResult{}, fmt.Errorf("resolution: store market: %w", err)
		}
		e.emit(events.WithdrawalCredited{Account: proposer.String(), Amount: bond.String()})
		e.emit(events.MarketResolutionFailed{MarketID: m.ID, Reason: "proposed outcome's side has zero supply"})
		return FinalizeResult{Market: m, Resolved: false}, nil
	}

	proposerReward, err := fixedpoint.Share(m.PoolBalance, tunables.ProposerRewardBps)
	if err != nil {
		return FinalizeResult{}, fmt.Errorf("resolution: %w", err)
	}
	m.PoolBalance, err = fixedpoint.Sub(m.PoolBalance, proposerReward)
	if err != nil {
		return FinalizeResult{}, fmt.Errorf("resolution: %w", err)
	}
	m.Resolved = true
	m.Outcome = m.ProposedOutcome

	credit, err := fixedpoint.Add(m.ProposalBond, proposerReward)
	if err != nil {
		return FinalizeResult{}, fmt.Errorf("resolution: %w", err)
	}
	proposer := *m.Proposer
	m.ProposalBond = fixedpoint.Zero()

	if err := e.BondLedger.Credit(proposer, credit); err != nil {
		return FinalizeResult{}, fmt.Errorf("resolution: %w", err)
	}
	if err := e.Store.PutMarket(m); err != nil {
		return FinalizeResult{}, fmt.Errorf("resolution: store market: %w", err)
	}
	e.emit(events.WithdrawalCredited{Account: proposer.String(), Amount: credit.String()})
	e.emit(events.ProposerRewardPaid{MarketID: m.ID, Proposer: proposer.String(), Amount: proposerReward.String()})
	e.emit(events.MarketResolved{MarketID: m.ID, Outcome: m.Outcome == pricing.YesSide, WasDisputed: false})
	return FinalizeResult{Market: m, Resolved: true}, nil
}

func (e *Engine) finalizeDisputed(m *market.Market, tunables config.Tunables) (FinalizeResult, error) {
	tie := m.YesVotes.Cmp(m.NoVotes) == 0
	winningOutcomeSide := pricing.YesSide
	if m.NoVotes.GreaterThan(m.YesVotes) {
		winningOutcomeSide = pricing.NoSide
	}
	winningSupply := m.YesSupply
	if winningOutcomeSide == pricing.NoSide {
		winningSupply = m.NoSupply
	}
	emptyWinningSide := winningSupply.IsZero()

	if tie || emptyWinningSide {
		return e.finalizeTie(m)
	}

	proposerWins := m.ProposedOutcome == winningOutcomeSide
	var proposerReward fixedpoint.Uint256 = fixedpoint.Zero()
	var err error
	if proposerWins {
		proposerReward, err = fixedpoint.Share(m.PoolBalance, tunables.ProposerRewardBps)
		if err != nil {
			return FinalizeResult{}, fmt.Errorf("resolution: %w", err)
		}
		m.PoolBalance, err = fixedpoint.Sub(m.PoolBalance, proposerReward)
		if err != nil {
			return FinalizeResult{}, fmt.Errorf("resolution: %w", err)
		}
	}

	m.Resolved = true
	m.Outcome = winningOutcomeSide

	winnerBond, loserBond := m.ProposalBond, m.DisputeBond
	winner := *m.Proposer
	if !proposerWins {
		winnerBond, loserBond = m.DisputeBond, m.ProposalBond
		winner = *m.Disputer
	}
	totalWinningVotes := m.YesVotes
	if winningOutcomeSide == pricing.NoSide {
		totalWinningVotes = m.NoVotes
	}

	dist, err := bonds.DistributeDisputedBonds(winnerBond, loserBond, proposerReward, tunables.BondWinnerBps, totalWinningVotes)
	if err != nil {
		return FinalizeResult{}, fmt.Errorf("resolution: %w", err)
	}

	m.ProposalBond = fixedpoint.Zero()
	m.DisputeBond = fixedpoint.Zero()
	if !dist.JuryFeesPool.IsZero() {
		m.JuryFeesPool = dist.JuryFeesPool
	}

	if err := e.BondLedger.Credit(winner, dist.WinnerCredit); err != nil {
		return FinalizeResult{}, fmt.Errorf("resolution: %w", err)
	}
	if err := e.Store.PutMarket(m); err != nil {
		return FinalizeResult{}, fmt.Errorf("resolution: store market: %w", err)
	}

	e.emit(events.WithdrawalCredited{Account: winner.String(), Amount: dist.WinnerCredit.String()})
	e.emit(events.BondDistributed{MarketID: m.ID, Winner: winner.String(), WinnerShare: dist.WinnerCredit.String(), JuryPool: dist.JuryFeesPool.String()})
	if !dist.JuryFeesPool.IsZero() {
		e.emit(events.JuryFeesPoolCreated{MarketID: m.ID, Amount: dist.JuryFeesPool.String()})
	}
	if proposerWins {
		e.emit(events.ProposerRewardPaid{MarketID: m.ID, Proposer: winner.String(), Amount: proposerReward.String()})
	}
	e.emit(events.MarketResolved{MarketID: m.ID, Outcome: m.Outcome == pricing.YesSide, WasDisputed: true})
	return FinalizeResult{Market: m, Resolved: true, TreasuryDisbursement: dist.ForwardToTreasury}, nil
}

func (e *Engine) finalizeTie(m *market.Market) (FinalizeResult, error) {
	proposer := *m.Proposer
	disputer := *m.Disputer
	proposalBond, disputeBond := m.ProposalBond, m.DisputeBond

	m.Proposer = nil
	m.Disputer = nil
	m.ProposalBond = fixedpoint.Zero()
	m.DisputeBond = fixedpoint.Zero()

	if err := e.BondLedger.Credit(proposer, proposalBond); err != nil {
		return FinalizeResult{}, fmt.Errorf("resolution: %w", err)
	}
	if err := e.BondLedger.Credit(disputer, disputeBond); err != nil {
		return FinalizeResult{}, fmt.Errorf("resolution: %w", err)
	}
	if err := e.Store.PutMarket(m); err != nil {
		return FinalizeResult{}, fmt.Errorf("resolution: store market: %w", err)
	}

	e.emit(events.WithdrawalCredited{Account: proposer.String(), Amount: proposalBond.String()})
	e.emit(events.WithdrawalCredited{Account: disputer.String(), Amount: disputeBond.String()})
	e.emit(events.TieFinalized{MarketID: m.ID, YesVotes: m.YesVotes.String(), NoVotes: m.NoVotes.String()})
	return FinalizeResult{Market: m, Resolved: false}, nil
}

// Claim pays out a winning position's share of a resolved market's pool.
// Returns the net (post-fee) amount the host must pay the caller and the
// resolution fee the host must forward to treasury.
func (e *Engine) Claim(caller crypto.Address, marketID uint64) (*market.Market, fixedpoint.Uint256, fixedpoint.Uint256, error) {
	tunables := e.Config.Tunables()
	m, err := e.loadMarket(marketID)
	if err != nil {
		return nil, fixedpoint.Zero(), fixedpoint.Zero(), err
	}
	if !m.Resolved {
		return nil, fixedpoint.Zero(), fixedpoint.Zero(), enginerr.ErrNotResolved
	}

	pos, ok, err := e.Store.GetPosition(marketID, caller)
	if err != nil {
		return nil, fixedpoint.Zero(), fixedpoint.Zero(), fmt.Errorf("resolution: load position: %w", err)
	}
	if !ok {
		return nil, fixedpoint.Zero(), fixedpoint.Zero(), enginerr.ErrNoPosition
	}
	if pos.Claimed {
		return nil, fixedpoint.Zero(), fixedpoint.Zero(), enginerr.ErrAlreadyClaimed
	}
	if pos.EmergencyRefunded {
		return nil, fixedpoint.Zero(), fixedpoint.Zero(), enginerr.ErrAlreadyEmergencyRefunded
	}

	winningOutcome := boolOutcome(m.Outcome)
	winningShares := pos.YesShares
	totalWinning := m.YesSupply
	if !winningOutcome {
		winningShares = pos.NoShares
		totalWinning = m.NoSupply
	}
	if winningShares.IsZero() {
		return nil, fixedpoint.Zero(), fixedpoint.Zero(), enginerr.ErrNothingToClaim
	}

	gross, err := fixedpoint.MulDiv(winningShares, m.PoolBalance, totalWinning)
	if err != nil {
		return nil, fixedpoint.Zero(), fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}
	fee, err := fixedpoint.Share(gross, tunables.ResolutionFeeBps)
	if err != nil {
		return nil, fixedpoint.Zero(), fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}
	net, err := fixedpoint.Sub(gross, fee)
	if err != nil {
		return nil, fixedpoint.Zero(), fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}

	pos.Claimed = true
	m.PoolBalance, err = fixedpoint.Sub(m.PoolBalance, gross)
	if err != nil {
		return nil, fixedpoint.Zero(), fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}
	if winningOutcome {
		m.YesSupply, err = fixedpoint.Sub(m.YesSupply, winningShares)
	} else {
		m.NoSupply, err = fixedpoint.Sub(m.NoSupply, winningShares)
	}
	if err != nil {
		return nil, fixedpoint.Zero(), fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}

	if err := e.Store.PutMarket(m); err != nil {
		return nil, fixedpoint.Zero(), fixedpoint.Zero(), fmt.Errorf("resolution: store market: %w", err)
	}
	if err := e.Store.PutPosition(marketID, caller, pos); err != nil {
		return nil, fixedpoint.Zero(), fixedpoint.Zero(), fmt.Errorf("resolution: store position: %w", err)
	}
	e.emit(events.Claimed{MarketID: marketID, Account: caller.String(), Gross: gross.String(), Net: net.String()})
	return m, net, fee, nil
}

// EmergencyRefund refunds a position's pro-rata share of the pool once the
// 24-hour emergency-refund delay has elapsed without resolution.
func (e *Engine) EmergencyRefund(caller crypto.Address, marketID uint64) (*market.Market, fixedpoint.Uint256, error) {
	tunables := e.Config.Tunables()
	now := e.now()
	m, err := e.loadMarket(marketID)
	if err != nil {
		return nil, fixedpoint.Zero(), err
	}
	if now.Before(m.ExpiresAt.Add(EmergencyRefundDelay)) {
		return nil, fixedpoint.Zero(), enginerr.ErrEmergencyRefundTooSoon
	}
	if m.Resolved {
		return nil, fixedpoint.Zero(), enginerr.ErrAlreadyResolved
	}
	if !tunables.Paused && m.Proposer != nil {
		return nil, fixedpoint.Zero(), enginerr.ErrResolutionInProgress
	}

	pos, ok, err := e.Store.GetPosition(marketID, caller)
	if err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: load position: %w", err)
	}
	if !ok {
		return nil, fixedpoint.Zero(), enginerr.ErrNoPosition
	}
	if pos.EmergencyRefunded {
		return nil, fixedpoint.Zero(), enginerr.ErrAlreadyEmergencyRefunded
	}
	userShares, err := pos.TotalShares()
	if err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}
	if userShares.IsZero() {
		return nil, fixedpoint.Zero(), enginerr.ErrNothingToClaim
	}
	totalShares, err := fixedpoint.Add(m.YesSupply, m.NoSupply)
	if err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}
	if totalShares.IsZero() {
		return nil, fixedpoint.Zero(), errors.New("resolution: total shares are zero with a nonzero position")
	}

	refund, err := fixedpoint.MulDiv(userShares, m.PoolBalance, totalShares)
	if err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}

	pos.EmergencyRefunded = true
	m.PoolBalance, err = fixedpoint.Sub(m.PoolBalance, refund)
	if err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}
	m.YesSupply, err = fixedpoint.Sub(m.YesSupply, pos.YesShares)
	if err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}
	m.NoSupply, err = fixedpoint.Sub(m.NoSupply, pos.NoShares)
	if err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}
	pos.YesShares = fixedpoint.Zero()
	pos.NoShares = fixedpoint.Zero()

	if err := e.Store.PutMarket(m); err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: store market: %w", err)
	}
	if err := e.Store.PutPosition(marketID, caller, pos); err != nil {
		return nil, fixedpoint.Zero(), fmt.Errorf("resolution: store position: %w", err)
	}
	e.emit(events.EmergencyRefunded{MarketID: marketID, Account: caller.String(), Amount: refund.String()})
	return m, refund, nil
}

// ClaimJuryFees pays a winning voter their proportional share of a
// disputed market's jury-fees pool. The pool field itself is never
// decremented.
func (e *Engine) ClaimJuryFees(caller crypto.Address, marketID uint64) (fixedpoint.Uint256, error) {
	m, err := e.loadMarket(marketID)
	if err != nil {
		return fixedpoint.Zero(), err
	}
	if !m.Resolved {
		return fixedpoint.Zero(), enginerr.ErrNotResolved
	}
	if m.JuryFeesPool.IsZero() {
		return fixedpoint.Zero(), enginerr.ErrNoJuryFeesPool
	}

	pos, ok, err := e.Store.GetPosition(marketID, caller)
	if err != nil {
		return fixedpoint.Zero(), fmt.Errorf("resolution: load position: %w", err)
	}
	if !ok || !pos.HasVoted {
		return fixedpoint.Zero(), enginerr.ErrDidNotVote
	}
	if pos.VotedOutcome != m.Outcome {
		return fixedpoint.Zero(), enginerr.ErrVotedLosingOutcome
	}
	if pos.JuryFeesClaimed {
		return fixedpoint.Zero(), enginerr.ErrJuryFeesAlreadyClaimed
	}

	totalWinningVotes := m.YesVotes
	if m.Outcome == pricing.NoSide {
		totalWinningVotes = m.NoVotes
	}
	voterWeight, err := pos.TotalShares()
	if err != nil {
		return fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}
	amount, err := fixedpoint.MulDiv(m.JuryFeesPool, voterWeight, totalWinningVotes)
	if err != nil {
		return fixedpoint.Zero(), fmt.Errorf("resolution: %w", err)
	}

	pos.JuryFeesClaimed = true
	if err := e.Store.PutPosition(marketID, caller, pos); err != nil {
		return fixedpoint.Zero(), fmt.Errorf("resolution: store position: %w", err)
	}
	e.emit(events.JuryFeesClaimed{MarketID: marketID, Voter: caller.String(), Amount: amount.String()})
	return amount, nil
}
