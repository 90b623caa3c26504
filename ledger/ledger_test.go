package ledger

import (
	"errors"
	"testing"

	"streetmkt/crypto"
	"streetmkt/fixedpoint"
)

func addr(t *testing.T, seed byte) crypto.Address {
	t.Helper()
	raw := make([]byte, 20)
	raw[19] = seed
	a, err := crypto.NewAddress(crypto.StreetPrefix, raw)
	if err != nil {
		t.Fatalf("NewAddress: %v", err)
	}
	return a
}

func TestCreditThenWithdraw(t *testing.T) {
	l := New()
	alice := addr(t, 1)

	if err := l.Credit(alice, fixedpoint.FromUint64(100)); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if got := l.Balance(alice); got.Uint64() != 100 {
		t.Fatalf("Balance = %s, want 100", got)
	}
	if got := l.Total(); got.Uint64() != 100 {
		t.Fatalf("Total = %s, want 100", got)
	}

	amount, err := l.Withdraw(alice)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if amount.Uint64() != 100 {
		t.Fatalf("Withdraw() = %s, want 100", amount)
	}
	if got := l.Balance(alice); !got.IsZero() {
		t.Fatalf("Balance after withdraw = %s, want 0", got)
	}
	if got := l.Total(); !got.IsZero() {
		t.Fatalf("Total after withdraw = %s, want 0", got)
	}
}

func TestWithdrawIdempotence(t *testing.T) {
	l := New()
	alice := addr(t, 1)
	if err := l.Credit(alice, fixedpoint.FromUint64(50)); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if _, err := l.Withdraw(alice); err != nil {
		t.Fatalf("first Withdraw: %v", err)
	}
	if _, err := l.Withdraw(alice); !errors.Is(err, ErrNothingToWithdraw) {
		t.Fatalf("second Withdraw = %v, want ErrNothingToWithdraw", err)
	}
}

func TestWithdrawEmptyAccountFails(t *testing.T) {
	l := New()
	bob := addr(t, 2)
	if _, err := l.Withdraw(bob); !errors.Is(err, ErrNothingToWithdraw) {
		t.Fatalf("Withdraw(never credited) = %v, want ErrNothingToWithdraw", err)
	}
}

func TestCreditAccumulates(t *testing.T) {
	l := New()
	alice := addr(t, 1)
	bob := addr(t, 2)
	if err := l.Credit(alice, fixedpoint.FromUint64(30)); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if err := l.Credit(alice, fixedpoint.FromUint64(20)); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if err := l.Credit(bob, fixedpoint.FromUint64(5)); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if got := l.Balance(alice); got.Uint64() != 50 {
		t.Fatalf("alice balance = %s, want 50", got)
	}
	if got := l.Total(); got.Uint64() != 55 {
		t.Fatalf("total = %s, want 55", got)
	}
}

func TestCreditZeroIsNoop(t *testing.T) {
	l := New()
	alice := addr(t, 1)
	if err := l.Credit(alice, fixedpoint.Zero()); err != nil {
		t.Fatalf("Credit(0): %v", err)
	}
	if _, err := l.Withdraw(alice); !errors.Is(err, ErrNothingToWithdraw) {
		t.Fatalf("Withdraw after crediting 0 = %v, want ErrNothingToWithdraw", err)
	}
}
