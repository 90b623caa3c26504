package config

import (
	"fmt"

	"streetmkt/crypto"
	"streetmkt/fixedpoint"
	"streetmkt/market"
)

// Engine-constant bounds and fee ceilings.
const (
	MaxPlatformFeeBps   = 500  // 5%
	MaxCreatorFeeBps    = 300  // 3%
	MaxResolutionFeeBps = 200  // 2%
	MaxProposerRewardBps = 200 // 2%
	MaxDynamicBondBps   = 1000 // 10%
	MaxBondWinnerBps    = 10_000

	MinMinimumBet   = 1_000_000_000_000 // 1e12
	MaxMinimumBet   = 10_000_000_000_000_000 // 1e16

	MinBondFloorLowerBound = 1_000_000_000_000 // 1e12
	MinBondFloorUpperBound = 1_000_000_000_000_000_000 // 1e18

	MaxCreationFee = 10_000_000_000_000_000 // 1e16
)

// MinHeatLevelLiquidity and MaxHeatLevelLiquidity bound an administrator's
// "set heat-level virtual liquidity" action. They are
// expressed as package vars rather than untyped consts because
// fixedpoint.Uint256 has no constant form, following the same
// panic-on-init idiom pricing.ShareScale uses for its own derived constant.
var (
	MinHeatLevelLiquidity = fixedpoint.FromUint64(1_000_000_000_000_000_000) // 1e18
	MaxHeatLevelLiquidity = mustDecimal("1000000000000000000000")            // 1e21
)

func mustDecimal(s string) fixedpoint.Uint256 {
	v, err := fixedpoint.FromDecimal(s)
	if err != nil {
		panic("config: invalid bound literal " + s)
	}
	return v
}

// Tunables is the administratively-mutable parameter set: every field here
// is only ever changed through the admin action queue, never
// re-read from disk mid-process. It is loaded once at boot from defaults or
// from a snapshot a host persists on the engine's behalf.
type Tunables struct {
	PlatformFeeBps   uint64
	CreatorFeeBps    uint64
	ResolutionFeeBps uint64
	CreationFee      fixedpoint.Uint256
	MinimumBet       fixedpoint.Uint256

	TreasuryAccount crypto.Address
	Paused          bool

	MinBondFloor   fixedpoint.Uint256
	DynamicBondBps uint64
	BondWinnerBps  uint64

	ProposerRewardBps uint64

	HeatLevelLiquidity map[market.HeatLevel]fixedpoint.Uint256

	Administrators []crypto.Address
}

// DefaultTunables returns the engine's out-of-the-box tunable values,
// matching the engine's documented defaults:
// platform 100bps, creator 50bps, resolution 30bps, proposer reward 50bps,
// bond winner 5000bps, min bet 5e15, min bond floor 5e15, dynamic bond
// 100bps.
func DefaultTunables(treasury crypto.Address, administrators []crypto.Address) Tunables {
	return Tunables{
		PlatformFeeBps:     100,
		CreatorFeeBps:      50,
		ResolutionFeeBps:   30,
		CreationFee:        fixedpoint.Zero(),
		MinimumBet:         fixedpoint.FromUint64(5_000_000_000_000_000),
		TreasuryAccount:    treasury,
		Paused:             false,
		MinBondFloor:       fixedpoint.FromUint64(5_000_000_000_000_000),
		DynamicBondBps:     100,
		BondWinnerBps:      5000,
		ProposerRewardBps:  50,
		HeatLevelLiquidity: market.DefaultHeatLevelLiquidity(),
		Administrators:     administrators,
	}
}

// Validate reports whether every tunable field is within its engine-constant
// bound, mirroring native/lending/config.go's EnsureDefaults style of a
// single bounds-checking entry point. The host calls it once on the boot
// tunables; administrative mutations are bounds-checked per payload by the
// admin package instead.
func (t Tunables) Validate() error {
	if t.PlatformFeeBps > MaxPlatformFeeBps {
		return fmt.Errorf("config: platform fee %d bps exceeds maximum %d", t.PlatformFeeBps, MaxPlatformFeeBps)
	}
	if t.CreatorFeeBps > MaxCreatorFeeBps {
		return fmt.Errorf("config: creator fee %d bps exceeds maximum %d", t.CreatorFeeBps, MaxCreatorFeeBps)
	}
	if t.ResolutionFeeBps > MaxResolutionFeeBps {
		return fmt.Errorf("config: resolution fee %d bps exceeds maximum %d", t.ResolutionFeeBps, MaxResolutionFeeBps)
	}
	if t.ProposerRewardBps > MaxProposerRewardBps {
		return fmt.Errorf("config: proposer reward %d bps exceeds maximum %d", t.ProposerRewardBps, MaxProposerRewardBps)
	}
	if t.DynamicBondBps > MaxDynamicBondBps {
		return fmt.Errorf("config: dynamic bond %d bps exceeds maximum %d", t.DynamicBondBps, MaxDynamicBondBps)
	}
	if t.BondWinnerBps > MaxBondWinnerBps {
		return fmt.Errorf("config: bond winner %d bps exceeds maximum %d", t.BondWinnerBps, MaxBondWinnerBps)
	}
	minBet := t.MinimumBet.Uint64()
	if minBet < MinMinimumBet || minBet > MaxMinimumBet {
		return fmt.Errorf("config: minimum bet %s out of bounds [%d, %d]", t.MinimumBet, MinMinimumBet, MaxMinimumBet)
	}
	bondFloor := t.MinBondFloor.Uint64()
	if bondFloor < MinBondFloorLowerBound || bondFloor > MinBondFloorUpperBound {
		return fmt.Errorf("config: minimum bond floor %s out of bounds [%d, %d]", t.MinBondFloor, MinBondFloorLowerBound, MinBondFloorUpperBound)
	}
	if t.TreasuryAccount.IsZero() {
		return fmt.Errorf("config: treasury account must be nonzero")
	}
	if len(t.Administrators) == 0 {
		return fmt.Errorf("config: at least one administrator is required")
	}
	return nil
}
