// Package ledger implements the settlement engine's pull-payment
// bookkeeping: every disbursement that must reach an arbitrary counterparty
// (bond returns, proposer rewards, tie refunds, creator trading rebates) is
// credited here and later withdrawn explicitly by its owner, rather than
// pushed synchronously.
//
// The credit/withdraw shape is grounded on
// native/lending/engine.go's withdrawFees: a balance check, a zeroing
// mutation, then disbursement, in that order (checks-effects-interactions).
package ledger

import (
	"sync"

	"streetmkt/crypto"
	"streetmkt/enginerr"
	"streetmkt/fixedpoint"
)

// ErrNothingToWithdraw is returned when an account's ledger entry is empty.
var ErrNothingToWithdraw = enginerr.ErrNothingToWithdraw

// Ledger is a per-account credit balance with a running global total, used
// for both the bond/voter disbursement ledger and the creator trading-rebate
// ledger.
type Ledger struct {
	mu       sync.RWMutex
	balances map[[20]byte]fixedpoint.Uint256
	total    fixedpoint.Uint256
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{balances: make(map[[20]byte]fixedpoint.Uint256)}
}

func keyOf(account crypto.Address) [20]byte {
	var raw [20]byte
	copy(raw[:], account.Bytes())
	return raw
}

// Credit adds amount to account's balance and to the ledger's global total.
// It never disburses anything by itself — crediting only records what is
// owed; Withdraw later zeroes the entry and hands the amount to the caller
// for the external transfer.
func (l *Ledger) Credit(account crypto.Address, amount fixedpoint.Uint256) error {
	if amount.IsZero() {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	key := keyOf(account)
	newBalance, err := fixedpoint.Add(l.balances[key], amount)
	if err != nil {
		return err
	}
	newTotal, err := fixedpoint.Add(l.total, amount)
	if err != nil {
		return err
	}
	l.balances[key] = newBalance
	l.total = newTotal
	return nil
}

// Balance returns the account's current pending balance.
func (l *Ledger) Balance(account crypto.Address) fixedpoint.Uint256 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[keyOf(account)]
}

// Total returns the ledger's running global total across all accounts, used
// by administrators for solvency reasoning.
func (l *Ledger) Total() fixedpoint.Uint256 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total
}

// Withdraw atomically reads and zeroes account's entry, subtracts it from
// the global total, and returns the amount for the caller to disburse
// externally. It fails with ErrNothingToWithdraw if the entry is empty,
// an empty entry fails with a dedicated error rather than returning zero.
//
// Withdraw only performs the checks-and-effects half of the operation; the
// caller is responsible for the actual external transfer, keeping that
// transfer the last effect of the enclosing engine operation.
func (l *Ledger) Withdraw(account crypto.Address) (fixedpoint.Uint256, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := keyOf(account)
	amount, ok := l.balances[key]
	if !ok || amount.IsZero() {
		return fixedpoint.Zero(), ErrNothingToWithdraw
	}
	newTotal, err := fixedpoint.Sub(l.total, amount)
	if err != nil {
		return fixedpoint.Zero(), err
	}
	delete(l.balances, key)
	l.total = newTotal
	return amount, nil
}
