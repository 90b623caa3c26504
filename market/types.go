// Package market defines the Market and Position records the settlement
// engine owns, their validation, and the pure function that computes a
// market's lifecycle status from its record and the current time. The
// Clone-before-mutate plus Sanitize* validation idiom follows
// native/escrow/types.go's SanitizeEscrow/Escrow.Clone pattern; the closed
// status enumeration follows native/escrow/types.go's EscrowStatus.
package market

import (
	"fmt"
	"time"

	"streetmkt/crypto"
	"streetmkt/fixedpoint"
	"streetmkt/pricing"
)

// Status is the market's lifecycle stage, computed fresh from the record and
// the current time rather than stored as an independent field.
type Status uint8

const (
	StatusActive Status = iota
	StatusExpired
	StatusProposed
	StatusDisputed
	StatusResolved
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusExpired:
		return "expired"
	case StatusProposed:
		return "proposed"
	case StatusDisputed:
		return "disputed"
	case StatusResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the five defined stages.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusProposed, StatusDisputed, StatusResolved:
		return true
	default:
		return false
	}
}

// HeatLevel names one of the five virtual-liquidity tiers a market can be
// created with, pinning down the fixed enumerated mapping concretely.
type HeatLevel uint8

const (
	HeatQuiet HeatLevel = iota
	HeatWarm
	HeatActive
	HeatHot
	HeatBlazing
)

func (h HeatLevel) String() string {
	switch h {
	case HeatQuiet:
		return "quiet"
	case HeatWarm:
		return "warm"
	case HeatActive:
		return "active"
	case HeatHot:
		return "hot"
	case HeatBlazing:
		return "blazing"
	default:
		return "unknown"
	}
}

// Valid reports whether h is one of the five defined tiers.
func (h HeatLevel) Valid() bool {
	switch h {
	case HeatQuiet, HeatWarm, HeatActive, HeatHot, HeatBlazing:
		return true
	default:
		return false
	}
}

// DefaultHeatLevelLiquidity is the engine's default heat-level -> virtual
// liquidity table, expressed in scaled share units. Administrators may retune
// these bounds; existing
// markets are unaffected because the value is copied into the market record
// at creation and never re-read.
func DefaultHeatLevelLiquidity() map[HeatLevel]fixedpoint.Uint256 {
	scale := pricing.ShareScale
	mul := func(n uint64) fixedpoint.Uint256 {
		v, err := fixedpoint.Mul(fixedpoint.FromUint64(n), scale)
		if err != nil {
			panic("market: default heat-level liquidity overflowed")
		}
		return v
	}
	return map[HeatLevel]fixedpoint.Uint256{
		HeatQuiet:   mul(50),
		HeatWarm:    mul(100),
		HeatActive:  mul(200),
		HeatHot:     mul(400),
		HeatBlazing: mul(800),
	}
}

// Market is a single binary prediction.
type Market struct {
	ID uint64

	Question       string
	EvidenceLink   string
	RulesText      string
	ImageURL       string
	Creator        crypto.Address
	ExpiresAt      time.Time

	YesSupply        fixedpoint.Uint256
	NoSupply         fixedpoint.Uint256
	PoolBalance      fixedpoint.Uint256
	VirtualLiquidity fixedpoint.Uint256
	HeatLevel        HeatLevel

	Resolved        bool
	Outcome         pricing.Side
	Proposer        *crypto.Address
	ProposedOutcome pricing.Side
	ProposalTime    time.Time
	ProposalBond    fixedpoint.Uint256
	Disputer        *crypto.Address
	DisputeTime     time.Time
	DisputeBond     fixedpoint.Uint256
	YesVotes        fixedpoint.Uint256
	NoVotes         fixedpoint.Uint256
	JuryFeesPool    fixedpoint.Uint256
}

// Curve projects the market's trading state into the pricing kernel.
func (m *Market) Curve() pricing.Curve {
	return pricing.Curve{
		YesSupply:        m.YesSupply,
		NoSupply:         m.NoSupply,
		VirtualLiquidity: m.VirtualLiquidity,
	}
}

// Clone returns a deep copy so callers can mutate the result without
// affecting the stored record, mirroring native/escrow/types.go's
// Escrow.Clone.
func (m *Market) Clone() *Market {
	if m == nil {
		return nil
	}
	clone := *m
	if m.Proposer != nil {
		p := *m.Proposer
		clone.Proposer = &p
	}
	if m.Disputer != nil {
		d := *m.Disputer
		clone.Disputer = &d
	}
	return &clone
}

// Status computes the market's lifecycle stage as a pure function of the
// record and the current time.
func (m *Market) Status(now time.Time) Status {
	switch {
	case m.Resolved:
		return StatusResolved
	case m.Disputer != nil:
		return StatusDisputed
	case m.Proposer != nil:
		return StatusProposed
	case !now.Before(m.ExpiresAt):
		return StatusExpired
	default:
		return StatusActive
	}
}

// OneSided reports whether only one side of the market has ever been traded,
// the condition that routes a would-be proposal straight to emergency
// refund instead.
func (m *Market) OneSided() bool {
	return m.YesSupply.IsZero() || m.NoSupply.IsZero()
}

// ErrEmptyQuestion and friends are validation failures raised by Sanitize.
var (
	ErrEmptyQuestion  = fmt.Errorf("market: question must not be empty")
	ErrInvalidExpiry  = fmt.Errorf("market: expiry must be strictly in the future")
	ErrInvalidHeat    = fmt.Errorf("market: unrecognised heat level")
	ErrZeroLiquidity  = fmt.Errorf("market: virtual liquidity must be nonzero")
)

// Sanitize validates a freshly-constructed market (prior to any trading) and
// returns a cloned, canonical instance, mirroring
// native/escrow/types.go's SanitizeEscrow: validate-then-clone, never mutate
// the caller's value in place.
func Sanitize(m *Market, now time.Time) (*Market, error) {
	if m == nil {
		return nil, fmt.Errorf("market: nil market")
	}
	clone := m.Clone()
	if clone.Question == "" {
		return nil, ErrEmptyQuestion
	}
	if !clone.ExpiresAt.After(now) {
		return nil, ErrInvalidExpiry
	}
	if !clone.HeatLevel.Valid() {
		return nil, ErrInvalidHeat
	}
	if clone.VirtualLiquidity.IsZero() {
		return nil, ErrZeroLiquidity
	}
	return clone, nil
}

// Position is one account's stake in one market.
type Position struct {
	YesShares fixedpoint.Uint256
	NoShares  fixedpoint.Uint256

	Claimed           bool
	EmergencyRefunded bool
	HasVoted          bool
	VotedOutcome      pricing.Side
	JuryFeesClaimed   bool
}

// Clone returns a copy of the position (Position has no pointer fields, but
// Clone is kept for symmetry with Market and to protect against future
// fields growing one).
func (p Position) Clone() Position { return p }

// TotalShares returns the combined YES+NO share balance, the weight used
// both for voting and for emergency-refund sizing.
func (p Position) TotalShares() (fixedpoint.Uint256, error) {
	return fixedpoint.Add(p.YesShares, p.NoShares)
}

// SharesForSide returns the position's share balance on the requested side.
func (p Position) SharesForSide(side pricing.Side) fixedpoint.Uint256 {
	if side == pricing.YesSide {
		return p.YesShares
	}
	return p.NoShares
}
