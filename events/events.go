// Package events defines the settlement engine's typed notification stream:
// an Event interface tagged with EventType(), an Emitter the engine calls
// into, and a NoopEmitter for callers that don't care. Committed operations
// emit one or more events describing what changed (a finalize, for example,
// emits several).
package events

// Event is a structured notification describing one committed operation.
type Event interface {
	EventType() string
}

// Emitter broadcasts events to downstream subscribers (indexers, UIs,
// off-chain chat/moderation that sit outside the engine itself).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter discards every event. It is the default for engines built
// without an explicit emitter, and for tests that don't assert on the event
// stream.
type NoopEmitter struct{}

// Emit implements Emitter.
func (NoopEmitter) Emit(Event) {}

const (
	TypeMarketCreated           = "market.created"
	TypeTrade                   = "market.trade"
	TypeOutcomeProposed         = "resolution.proposed"
	TypeProposalDisputed        = "resolution.disputed"
	TypeVoteCast                = "resolution.vote_cast"
	TypeMarketResolved          = "resolution.resolved"
	TypeMarketResolutionFailed  = "resolution.failed"
	TypeTieFinalized            = "resolution.tie_finalized"
	TypeClaimed                 = "resolution.claimed"
	TypeEmergencyRefunded       = "resolution.emergency_refunded"
	TypeBondDistributed         = "bonds.distributed"
	TypeProposerRewardPaid      = "bonds.proposer_reward_paid"
	TypeJuryFeesPoolCreated     = "bonds.jury_fees_pool_created"
	TypeJuryFeesClaimed         = "bonds.jury_fees_claimed"
	TypeWithdrawalCredited      = "ledger.withdrawal_credited"
	TypeWithdrawalClaimed       = "ledger.withdrawal_claimed"
	TypeCreatorFeesCredited     = "ledger.creator_fees_credited"
	TypeCreatorFeesClaimed      = "ledger.creator_fees_claimed"
	TypeActionProposed          = "admin.action_proposed"
	TypeActionConfirmed         = "admin.action_confirmed"
	TypeActionExecuted          = "admin.action_executed"
	TypePaused                  = "admin.paused"
	TypeUnpaused                = "admin.unpaused"
	TypeSignerReplaced          = "admin.signer_replaced"
)

// MarketCreated is emitted once per successful market creation.
type MarketCreated struct {
	MarketID         uint64
	Creator          string
	Question         string
	ExpiresAtUnix    int64
	HeatLevel        string
	VirtualLiquidity string
}

func (MarketCreated) EventType() string { return TypeMarketCreated }

// Trade is emitted once per buy or sell, uniformly describing the *net*
// (post-fee) collateral movement so downstream bookkeeping doesn't need to
// special-case direction.
type Trade struct {
	MarketID      uint64
	Trader        string
	Side          string
	IsBuy         bool
	Shares        string
	NetCollateral string
}

func (Trade) EventType() string { return TypeTrade }

// OutcomeProposed is emitted when a proposer stakes a bond on an outcome.
type OutcomeProposed struct {
	MarketID        uint64
	Proposer        string
	ProposedOutcome bool
	ProposalBond    string
}

func (OutcomeProposed) EventType() string { return TypeOutcomeProposed }

// ProposalDisputed is emitted when a disputer challenges a proposed outcome.
type ProposalDisputed struct {
	MarketID    uint64
	Disputer    string
	DisputeBond string
}

func (ProposalDisputed) EventType() string { return TypeProposalDisputed }

// VoteCast is emitted once per shareholder vote during a dispute.
type VoteCast struct {
	MarketID uint64
	Voter    string
	Outcome  bool
	Weight   string
}

func (VoteCast) EventType() string { return TypeVoteCast }

// MarketResolved is emitted when a market reaches a final outcome.
type MarketResolved struct {
	MarketID    uint64
	Outcome     bool
	WasDisputed bool
}

func (MarketResolved) EventType() string { return TypeMarketResolved }

// MarketResolutionFailed is emitted when a proposed outcome could not be
// finalized because its winning side was empty, handing the market to
// emergency refund instead.
type MarketResolutionFailed struct {
	MarketID uint64
	Reason   string
}

func (MarketResolutionFailed) EventType() string { return TypeMarketResolutionFailed }

// TieFinalized is emitted when a vote tally ties (or both tallies are zero),
// refunding both bonds without resolving the market.
type TieFinalized struct {
	MarketID uint64
	YesVotes string
	NoVotes  string
}

func (TieFinalized) EventType() string { return TypeTieFinalized }

// Claimed is emitted when a winning position claims its payout.
type Claimed struct {
	MarketID uint64
	Account  string
	Gross    string
	Net      string
}

func (Claimed) EventType() string { return TypeClaimed }

// EmergencyRefunded is emitted when a position is refunded via the
// 24-hour fallback path.
type EmergencyRefunded struct {
	MarketID uint64
	Account  string
	Amount   string
}

func (EmergencyRefunded) EventType() string { return TypeEmergencyRefunded }

// BondDistributed is emitted when a disputed resolution splits the losing
// bond between the winner and the jury-fees pool.
type BondDistributed struct {
	MarketID    uint64
	Winner      string
	WinnerShare string
	JuryPool    string
}

func (BondDistributed) EventType() string { return TypeBondDistributed }

// ProposerRewardPaid is emitted whenever a proposer reward is credited.
type ProposerRewardPaid struct {
	MarketID uint64
	Proposer string
	Amount   string
}

func (ProposerRewardPaid) EventType() string { return TypeProposerRewardPaid }

// JuryFeesPoolCreated is emitted when a nonzero jury-fees pool is set aside
// during finalization.
type JuryFeesPoolCreated struct {
	MarketID uint64
	Amount   string
}

func (JuryFeesPoolCreated) EventType() string { return TypeJuryFeesPoolCreated }

// JuryFeesClaimed is emitted when a winning voter claims their share of the
// jury-fees pool.
type JuryFeesClaimed struct {
	MarketID uint64
	Voter    string
	Amount   string
}

func (JuryFeesClaimed) EventType() string { return TypeJuryFeesClaimed }

// WithdrawalCredited is emitted whenever an amount lands on the
// pending-withdrawals pull ledger.
type WithdrawalCredited struct {
	Account string
	Amount  string
}

func (WithdrawalCredited) EventType() string { return TypeWithdrawalCredited }

// WithdrawalClaimed is emitted when an account withdraws its pull-ledger
// balance.
type WithdrawalClaimed struct {
	Account string
	Amount  string
}

func (WithdrawalClaimed) EventType() string { return TypeWithdrawalClaimed }

// CreatorFeesCredited is emitted whenever a trading rebate lands on the
// creator-fees pull ledger.
type CreatorFeesCredited struct {
	MarketID uint64
	Creator  string
	Amount   string
}

func (CreatorFeesCredited) EventType() string { return TypeCreatorFeesCredited }

// CreatorFeesClaimed is emitted when a creator withdraws accumulated
// trading rebates.
type CreatorFeesClaimed struct {
	Creator string
	Amount  string
}

func (CreatorFeesClaimed) EventType() string { return TypeCreatorFeesClaimed }

// ActionProposed is emitted when an administrator opens a pending action.
type ActionProposed struct {
	ActionID string
	Kind     string
	Proposer string
}

func (ActionProposed) EventType() string { return TypeActionProposed }

// ActionConfirmed is emitted each time an administrator adds a confirmation.
type ActionConfirmed struct {
	ActionID      string
	Signer        string
	Confirmations uint32
}

func (ActionConfirmed) EventType() string { return TypeActionConfirmed }

// ActionExecuted is emitted once a pending action's effect is applied.
type ActionExecuted struct {
	ActionID string
	Kind     string
}

func (ActionExecuted) EventType() string { return TypeActionExecuted }

// Paused is emitted when the engine-wide administrative pause engages.
type Paused struct{}

func (Paused) EventType() string { return TypePaused }

// Unpaused is emitted when the engine-wide administrative pause is lifted.
type Unpaused struct{}

func (Unpaused) EventType() string { return TypeUnpaused }

// SignerReplaced is emitted when the replace-administrator action executes.
type SignerReplaced struct {
	Old string
	New string
}

func (SignerReplaced) EventType() string { return TypeSignerReplaced }
