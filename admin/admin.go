// Package admin implements the settlement engine's M-of-N administrative
// action queue: a propose/confirm/execute lifecycle over the
// eleven enumerated action kinds that touch the engine's tunable parameters.
// Every action except replace-administrator requires confirmation from all
// N administrators; replace-administrator uses N-1 as an emergency escape
// hatch so a single lost signer cannot deadlock governance.
//
// The propose/confirm/execute shape and its audit trail are grounded on
// native/governance/engine.go's proposal lifecycle and AuditRecord; the
// fixed small allowlist-of-signers shape follows
// native/escrow/types.go's ArbitratorSet.
package admin

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"streetmkt/config"
	"streetmkt/crypto"
	"streetmkt/enginerr"
	"streetmkt/events"
	"streetmkt/fixedpoint"
	"streetmkt/market"
)

// Kind enumerates the administrative action kinds the engine exposes.
type Kind uint8

const (
	KindSetFee Kind = iota
	KindSetMinimumBet
	KindSetTreasuryAccount
	KindPause
	KindUnpause
	KindSetMinBondFloor
	KindSetDynamicBondBps
	KindSetBondWinnerBps
	KindSetHeatLevelLiquidity
	KindSetProposerRewardBps
	KindReplaceAdministrator
)

func (k Kind) String() string {
	switch k {
	case KindSetFee:
		return "set_fee"
	case KindSetMinimumBet:
		return "set_minimum_bet"
	case KindSetTreasuryAccount:
		return "set_treasury_account"
	case KindPause:
		return "pause"
	case KindUnpause:
		return "unpause"
	case KindSetMinBondFloor:
		return "set_min_bond_floor"
	case KindSetDynamicBondBps:
		return "set_dynamic_bond_bps"
	case KindSetBondWinnerBps:
		return "set_bond_winner_bps"
	case KindSetHeatLevelLiquidity:
		return "set_heat_level_liquidity"
	case KindSetProposerRewardBps:
		return "set_proposer_reward_bps"
	case KindReplaceAdministrator:
		return "replace_administrator"
	default:
		return "unknown"
	}
}

// FeeType selects which of the engine's four administratively-tunable fees
// a SetFee action mutates: three bps-scaled rates plus the flat creation
// fee.
type FeeType uint8

const (
	FeePlatform FeeType = iota
	FeeCreator
	FeeResolution
	FeeCreation
)

func (f FeeType) String() string {
	switch f {
	case FeePlatform:
		return "platform"
	case FeeCreator:
		return "creator"
	case FeeResolution:
		return "resolution"
	case FeeCreation:
		return "creation"
	default:
		return "unknown"
	}
}

// Payload carries the kind-specific arguments for a pending action. Only
// the fields relevant to the action's Kind are populated; validation is
// kind-aware and ignores the rest.
type Payload struct {
	FeeType   FeeType
	Bps       uint64
	Amount    fixedpoint.Uint256
	Account   crypto.Address
	HeatLevel market.HeatLevel
	OldAdmin  crypto.Address
	NewAdmin  crypto.Address
}

// PendingAction is one open administrative proposal.
type PendingAction struct {
	ID            string
	Kind          Kind
	Payload       Payload
	Proposer      crypto.Address
	Confirmations map[[20]byte]bool
	CreatedAt     time.Time
	Executed      bool
}

func (a *PendingAction) confirmationCount() int { return len(a.Confirmations) }

// AuditRecord is an immutable, append-only administrative lifecycle entry,
// grounded on native/governance/types.go's AuditRecord.
type AuditRecord struct {
	Sequence  uint64
	Timestamp time.Time
	Event     string
	ActionID  string
	Kind      Kind
	Actor     string
}

// Engine owns the engine-wide tunables and the administrative action queue
// that is the only path by which they change. It implements
// trading.TunablesProvider and resolution.TunablesProvider via Tunables.
type Engine struct {
	mu             sync.Mutex
	administrators []crypto.Address
	tunables       config.Tunables
	actions        map[string]*PendingAction
	audit          []AuditRecord
	auditSeq       uint64
	expiryWindow   time.Duration
	events         events.Emitter
	clock          func() time.Time
	limiters       map[[20]byte]*rate.Limiter
	newActionID    func() string
}

// New constructs an administrative engine seeded with initial tunables and
// the fixed administrator set those tunables name.
func New(initial config.Tunables, expiryWindow time.Duration, emitter events.Emitter, clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	administrators := make([]crypto.Address, len(initial.Administrators))
	copy(administrators, initial.Administrators)
	return &Engine{
		administrators: administrators,
		tunables:       initial,
		actions:        make(map[string]*PendingAction),
		expiryWindow:   expiryWindow,
		events:         emitter,
		clock:          clock,
		limiters:       make(map[[20]byte]*rate.Limiter),
		newActionID:    uuid.NewString,
	}
}

// Tunables returns a snapshot of the engine's current administratively
// mutable parameters, safe to read from any goroutine.
func (e *Engine) Tunables() config.Tunables {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.tunables
	t.HeatLevelLiquidity = make(map[market.HeatLevel]fixedpoint.Uint256, len(e.tunables.HeatLevelLiquidity))
	for k, v := range e.tunables.HeatLevelLiquidity {
		t.HeatLevelLiquidity[k] = v
	}
	return t
}

func addrKey(a crypto.Address) [20]byte {
	var raw [20]byte
	copy(raw[:], a.Bytes())
	return raw
}

func (e *Engine) isAdministrator(a crypto.Address) bool {
	for _, admin := range e.administrators {
		if admin.Equal(a) {
			return true
		}
	}
	return false
}

func (e *Engine) threshold(kind Kind) int {
	if kind == KindReplaceAdministrator {
		return len(e.administrators) - 1
	}
	return len(e.administrators)
}

// proposalLimiter lazily allocates a per-administrator token bucket so a
// single signer cannot flood the action queue; one proposal per five
// seconds, bursting up to three.
func (e *Engine) proposalLimiter(a crypto.Address) *rate.Limiter {
	key := addrKey(a)
	limiter, ok := e.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(5*time.Second), 3)
		e.limiters[key] = limiter
	}
	return limiter
}

func (e *Engine) appendAudit(event, actionID string, kind Kind, actor crypto.Address) {
	e.auditSeq++
	e.audit = append(e.audit, AuditRecord{
		Sequence:  e.auditSeq,
		Timestamp: e.clock(),
		Event:     event,
		ActionID:  actionID,
		Kind:      kind,
		Actor:     actor.String(),
	})
}

// AuditTrail returns a copy of the administrative engine's append-only
// audit log.
func (e *Engine) AuditTrail() []AuditRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]AuditRecord, len(e.audit))
	copy(out, e.audit)
	return out
}

func (e *Engine) validatePayload(kind Kind, payload Payload) error {
	switch kind {
	case KindSetFee:
		switch payload.FeeType {
		case FeePlatform:
			if payload.Bps > config.MaxPlatformFeeBps {
				return enginerr.ErrOutOfBounds
			}
		case FeeCreator:
			if payload.Bps > config.MaxCreatorFeeBps {
				return enginerr.ErrOutOfBounds
			}
		case FeeResolution:
			if payload.Bps > config.MaxResolutionFeeBps {
				return enginerr.ErrOutOfBounds
			}
		case FeeCreation:
			if payload.Amount.Uint64() > config.MaxCreationFee {
				return enginerr.ErrOutOfBounds
			}
		default:
			return enginerr.ErrOutOfBounds
		}
	case KindSetMinimumBet:
		v := payload.Amount.Uint64()
		if v < config.MinMinimumBet || v > config.MaxMinimumBet {
			return enginerr.ErrOutOfBounds
		}
	case KindSetTreasuryAccount:
		if payload.Account.IsZero() {
			return enginerr.ErrInvalidAddress
		}
	case KindPause, KindUnpause:
		// no payload to validate.
	case KindSetMinBondFloor:
		v := payload.Amount.Uint64()
		if v < config.MinBondFloorLowerBound || v > config.MinBondFloorUpperBound {
			return enginerr.ErrOutOfBounds
		}
	case KindSetDynamicBondBps:
		if payload.Bps > config.MaxDynamicBondBps {
			return enginerr.ErrOutOfBounds
		}
	case KindSetBondWinnerBps:
		if payload.Bps > config.MaxBondWinnerBps {
			return enginerr.ErrOutOfBounds
		}
	case KindSetHeatLevelLiquidity:
		if !payload.HeatLevel.Valid() {
			return enginerr.ErrOutOfBounds
		}
		if payload.Amount.LessThan(config.MinHeatLevelLiquidity) || payload.Amount.GreaterThan(config.MaxHeatLevelLiquidity) {
			return enginerr.ErrOutOfBounds
		}
	case KindSetProposerRewardBps:
		if payload.Bps > config.MaxProposerRewardBps {
			return enginerr.ErrOutOfBounds
		}
	case KindReplaceAdministrator:
		if payload.NewAdmin.IsZero() {
			return enginerr.ErrInvalidSignerReplacement
		}
		if payload.NewAdmin.Equal(payload.OldAdmin) {
			return enginerr.ErrInvalidSignerReplacement
		}
		if !e.isAdministrator(payload.OldAdmin) {
			return enginerr.ErrSignerNotFound
		}
		if e.isAdministrator(payload.NewAdmin) {
			return enginerr.ErrInvalidSignerReplacement
		}
	default:
		return fmt.Errorf("admin: unknown action kind %v", kind)
	}
	return nil
}

// ProposeAction opens a new pending action, auto-confirming it for the
// proposer and executing immediately if that single confirmation already
// meets the threshold (the N=1 / replace-administrator corner case).
func (e *Engine) ProposeAction(proposer crypto.Address, kind Kind, payload Payload) (*PendingAction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isAdministrator(proposer) {
		return nil, enginerr.ErrNotAdministrator
	}
	if !e.proposalLimiter(proposer).Allow() {
		return nil, enginerr.ErrActionRateLimited
	}
	if err := e.validatePayload(kind, payload); err != nil {
		return nil, err
	}

	action := &PendingAction{
		ID:            e.newActionID(),
		Kind:          kind,
		Payload:       payload,
		Proposer:      proposer,
		Confirmations: map[[20]byte]bool{addrKey(proposer): true},
		CreatedAt:     e.clock(),
	}
	e.actions[action.ID] = action
	e.appendAudit("proposed", action.ID, kind, proposer)
	e.events.Emit(events.ActionProposed{ActionID: action.ID, Kind: kind.String(), Proposer: proposer.String()})

	if action.confirmationCount() >= e.threshold(kind) {
		if err := e.executeLocked(action); err != nil {
			return nil, err
		}
	}
	return action, nil
}

// ConfirmAction registers confirmer's confirmation for a pending action,
// executing it once the kind's threshold is reached.
func (e *Engine) ConfirmAction(confirmer crypto.Address, actionID string) (*PendingAction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isAdministrator(confirmer) {
		return nil, enginerr.ErrNotAdministrator
	}
	action, ok := e.actions[actionID]
	if !ok {
		return nil, enginerr.ErrActionNotFound
	}
	if action.Executed {
		return nil, enginerr.ErrActionAlreadyExecuted
	}
	if e.clock().After(action.CreatedAt.Add(e.expiryWindow)) {
		return nil, enginerr.ErrActionExpired
	}
	key := addrKey(confirmer)
	if action.Confirmations[key] {
		return nil, enginerr.ErrAlreadyConfirmed
	}
	action.Confirmations[key] = true
	e.appendAudit("confirmed", action.ID, action.Kind, confirmer)
	e.events.Emit(events.ActionConfirmed{ActionID: action.ID, Signer: confirmer.String(), Confirmations: uint32(action.confirmationCount())})

	if action.confirmationCount() >= e.threshold(action.Kind) {
		if err := e.executeLocked(action); err != nil {
			return nil, err
		}
	}
	return action, nil
}

// ExecuteAction explicitly applies a pending action whose confirmation
// threshold has already been reached, for hosts that prefer not to rely on
// auto-execution inside ConfirmAction.
func (e *Engine) ExecuteAction(actionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	action, ok := e.actions[actionID]
	if !ok {
		return enginerr.ErrActionNotFound
	}
	if action.Executed {
		return enginerr.ErrActionAlreadyExecuted
	}
	if e.clock().After(action.CreatedAt.Add(e.expiryWindow)) {
		return enginerr.ErrActionExpired
	}
	if action.confirmationCount() < e.threshold(action.Kind) {
		return enginerr.ErrNotEnoughConfirmations
	}
	return e.executeLocked(action)
}

// executeLocked applies the action's effect to the engine's tunables. The
// caller must already hold e.mu.
func (e *Engine) executeLocked(action *PendingAction) error {
	payload := action.Payload
	switch action.Kind {
	case KindSetFee:
		switch payload.FeeType {
		case FeePlatform:
			e.tunables.PlatformFeeBps = payload.Bps
		case FeeCreator:
			e.tunables.CreatorFeeBps = payload.Bps
		case FeeResolution:
			e.tunables.ResolutionFeeBps = payload.Bps
		case FeeCreation:
			e.tunables.CreationFee = payload.Amount
		}
	case KindSetMinimumBet:
		e.tunables.MinimumBet = payload.Amount
	case KindSetTreasuryAccount:
		e.tunables.TreasuryAccount = payload.Account
	case KindPause:
		e.tunables.Paused = true
		e.events.Emit(events.Paused{})
	case KindUnpause:
		e.tunables.Paused = false
		e.events.Emit(events.Unpaused{})
	case KindSetMinBondFloor:
		e.tunables.MinBondFloor = payload.Amount
	case KindSetDynamicBondBps:
		e.tunables.DynamicBondBps = payload.Bps
	case KindSetBondWinnerBps:
		e.tunables.BondWinnerBps = payload.Bps
	case KindSetHeatLevelLiquidity:
		if e.tunables.HeatLevelLiquidity == nil {
			e.tunables.HeatLevelLiquidity = make(map[market.HeatLevel]fixedpoint.Uint256)
		}
		e.tunables.HeatLevelLiquidity[payload.HeatLevel] = payload.Amount
	case KindSetProposerRewardBps:
		e.tunables.ProposerRewardBps = payload.Bps
	case KindReplaceAdministrator:
		for i, admin := range e.administrators {
			if admin.Equal(payload.OldAdmin) {
				e.administrators[i] = payload.NewAdmin
				break
			}
		}
		e.tunables.Administrators = append([]crypto.Address(nil), e.administrators...)
		e.events.Emit(events.SignerReplaced{Old: payload.OldAdmin.String(), New: payload.NewAdmin.String()})
	}

	action.Executed = true
	e.appendAudit("executed", action.ID, action.Kind, action.Proposer)
	e.events.Emit(events.ActionExecuted{ActionID: action.ID, Kind: action.Kind.String()})
	return nil
}
