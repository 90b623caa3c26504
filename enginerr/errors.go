// Package enginerr defines the sentinel errors the settlement engine returns
// for domain failures (access, state, validation, economic, voting,
// withdrawal, administrative), optionally wrapped with fmt.Errorf's %w for
// added context, so callers can branch on errors.Is without parsing strings.
// The set is not exhaustive: arithmetic overflow surfaces as a wrapped
// fixedpoint error and a failing market.Store as its own wrapped error.
package enginerr

import "errors"

// Access errors: the caller is not permitted to perform the requested action.
var (
	ErrNotAdministrator     = errors.New("enginerr: caller is not an administrator")
	ErrCreatorPriorityOnly  = errors.New("enginerr: only the market creator may propose during the priority window")
	ErrResolutionInProgress = errors.New("enginerr: resolution already in progress")
)

// State errors: the market (or action) is not in the status required for the
// requested transition.
var (
	ErrMarketNotActive       = errors.New("enginerr: market is not active")
	ErrMarketNotExpired      = errors.New("enginerr: market has not expired")
	ErrAlreadyProposed       = errors.New("enginerr: market already has a proposed outcome")
	ErrNotProposed           = errors.New("enginerr: market has no proposed outcome")
	ErrNotDisputed           = errors.New("enginerr: market is not disputed")
	ErrAlreadyResolved       = errors.New("enginerr: market already resolved")
	ErrNotResolved           = errors.New("enginerr: market is not resolved")
	ErrDisputeWindowExpired  = errors.New("enginerr: dispute window has expired")
	ErrVotingWindowExpired   = errors.New("enginerr: voting window has expired")
	ErrVotingNotEnded        = errors.New("enginerr: voting window has not ended")
	ErrProposalWindowClosed  = errors.New("enginerr: proposal cutoff has passed")
	ErrOneSidedMarket        = errors.New("enginerr: market is one-sided")
	ErrNotFinalizable        = errors.New("enginerr: market is not yet finalizable")
	ErrEmergencyRefundTooSoon = errors.New("enginerr: emergency refund delay has not elapsed")
)

// Validation errors: malformed or out-of-bounds input.
var (
	ErrEmptyQuestion       = errors.New("enginerr: question must not be empty")
	ErrInvalidExpiry       = errors.New("enginerr: expiry must be strictly in the future")
	ErrInvalidAddress      = errors.New("enginerr: invalid account address")
	ErrOutOfBounds         = errors.New("enginerr: parameter out of bounds")
	ErrBelowMinimumBet     = errors.New("enginerr: amount below minimum bet")
	ErrInsufficientBond    = errors.New("enginerr: posted bond below the required amount")
	ErrInsufficientCreationFee = errors.New("enginerr: value below the required creation fee")
)

// Economic errors: the requested operation would break a monetary invariant.
var (
	ErrSlippageExceeded       = errors.New("enginerr: slippage tolerance exceeded")
	ErrInsufficientShares     = errors.New("enginerr: position holds insufficient shares")
	ErrInsufficientPoolBalance = errors.New("enginerr: pool balance insufficient for this payout")
	ErrNothingToClaim         = errors.New("enginerr: nothing to claim")
	ErrAlreadyClaimed         = errors.New("enginerr: position already claimed")
	ErrNoPosition             = errors.New("enginerr: no position for this account")
	ErrAlreadyEmergencyRefunded = errors.New("enginerr: position already emergency refunded")
)

// Voting errors.
var (
	ErrAlreadyVoted           = errors.New("enginerr: account already voted on this market")
	ErrNoSharesForVoting      = errors.New("enginerr: account holds no shares in this market")
	ErrDidNotVote             = errors.New("enginerr: account did not vote on this market")
	ErrVotedLosingOutcome     = errors.New("enginerr: account voted for the losing outcome")
	ErrJuryFeesAlreadyClaimed = errors.New("enginerr: jury fees already claimed")
	ErrNoJuryFeesPool         = errors.New("enginerr: no jury fees pool to claim from")
)

// Withdrawal errors.
var (
	ErrNothingToWithdraw = errors.New("enginerr: nothing to withdraw")
)

// Administrative errors.
var (
	ErrActionExpired            = errors.New("enginerr: pending action has expired")
	ErrActionAlreadyExecuted    = errors.New("enginerr: pending action already executed")
	ErrAlreadyConfirmed         = errors.New("enginerr: signer already confirmed this action")
	ErrNotEnoughConfirmations   = errors.New("enginerr: not enough confirmations to execute")
	ErrInvalidSignerReplacement = errors.New("enginerr: invalid administrator replacement")
	ErrSignerNotFound           = errors.New("enginerr: signer not found")
	ErrActionNotFound           = errors.New("enginerr: pending action not found")
	ErrActionRateLimited        = errors.New("enginerr: administrator is proposing actions too quickly")
)

// Transport errors: an external disbursement was refused by the host.
var (
	ErrTransferFailed = errors.New("enginerr: external transfer failed")
)

// ErrEngineNotConfigured reports use of a zero-value engine. No method in
// this module returns it at present.
var ErrEngineNotConfigured = errors.New("enginerr: engine not configured")

// ErrModulePaused signals the engine-wide administrative pause switch is
// engaged for an operation that does not carve out an exception.
var ErrModulePaused = errors.New("enginerr: engine is paused")
