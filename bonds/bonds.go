// Package bonds implements the settlement engine's dynamic bond economics:
// sizing the proposal and dispute bonds, and splitting a disputed
// resolution's losing bond between the winner and a jury-fees pool.
// It is pure arithmetic over already-validated inputs — the resolution
// package owns the state machine that calls into it.
//
// The share-splitting shape is grounded on
// native/lending/engine.go's CollateralRouting: a basis-point cut taken off
// one pot, with the remainder routed to a second destination.
package bonds

import (
	"fmt"

	"streetmkt/fixedpoint"
)

// RequiredProposalBond returns max(min_bond_floor, pool_balance *
// dynamic_bond_bps / BPS), the bond a proposer must post.
func RequiredProposalBond(poolBalance, minBondFloor fixedpoint.Uint256, dynamicBondBps uint64) (fixedpoint.Uint256, error) {
	dynamic, err := fixedpoint.Share(poolBalance, dynamicBondBps)
	if err != nil {
		return fixedpoint.Uint256{}, fmt.Errorf("bonds: %w", err)
	}
	return fixedpoint.Max(minBondFloor, dynamic), nil
}

// RequiredDisputeBond returns exactly 2*proposalBond.
func RequiredDisputeBond(proposalBond fixedpoint.Uint256) (fixedpoint.Uint256, error) {
	return fixedpoint.Mul(proposalBond, fixedpoint.FromUint64(2))
}

// Distribution is the outcome of splitting a disputed resolution's losing
// bond.
type Distribution struct {
	// WinnerCredit is winner_bond + winner_share (+ proposer_reward when the
	// proposer is the winner), to be credited to Winner on the pull ledger.
	WinnerCredit fixedpoint.Uint256
	// JuryFeesPool is the amount to store on the market for later individual
	// voter claims. Zero when
	// TotalWinningVotes is zero, in which case ForwardToTreasury is set
	// instead.
	JuryFeesPool fixedpoint.Uint256
	// ForwardToTreasury is the voter_pool amount to push straight to
	// treasury when there were no winning voters to claim it.
	ForwardToTreasury fixedpoint.Uint256
}

// DistributeDisputedBonds implements the disputed-resolution bond split for
// a disputed resolution that did not tie. winnerBond and loserBond are the
// stored proposal/dispute bonds assigned to whichever party's outcome
// prevailed; proposerReward is nonzero only when the proposer's outcome
// won (the caller is responsible for computing and deducting it from the
// pool before calling this function). bondWinnerBps is the configured
// winner/voter split (default 50%).
func DistributeDisputedBonds(winnerBond, loserBond, proposerReward fixedpoint.Uint256, bondWinnerBps uint64, totalWinningVotes fixedpoint.Uint256) (Distribution, error) {
	winnerShare, err := fixedpoint.Share(loserBond, bondWinnerBps)
	if err != nil {
		return Distribution{}, fmt.Errorf("bonds: %w", err)
	}
	voterPool := fixedpoint.SaturatingSub(loserBond, winnerShare)

	credit, err := fixedpoint.Add(winnerBond, winnerShare)
	if err != nil {
		return Distribution{}, fmt.Errorf("bonds: %w", err)
	}
	credit, err = fixedpoint.Add(credit, proposerReward)
	if err != nil {
		return Distribution{}, fmt.Errorf("bonds: %w", err)
	}

	dist := Distribution{WinnerCredit: credit}
	if voterPool.IsZero() {
		return dist, nil
	}
	if totalWinningVotes.IsZero() {
		dist.ForwardToTreasury = voterPool
		return dist, nil
	}
	dist.JuryFeesPool = voterPool
	return dist, nil
}
