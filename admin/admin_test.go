package admin

import (
	"errors"
	"testing"
	"time"

	"streetmkt/config"
	"streetmkt/crypto"
	"streetmkt/enginerr"
	"streetmkt/fixedpoint"
	"streetmkt/market"
)

func testAddress(t *testing.T, seed byte) crypto.Address {
	t.Helper()
	raw := make([]byte, 20)
	raw[19] = seed
	addr, err := crypto.NewAddress(crypto.StreetPrefix, raw)
	if err != nil {
		t.Fatalf("NewAddress: %v", err)
	}
	return addr
}

func newTestFixture(t *testing.T, n int) (*Engine, []crypto.Address) {
	t.Helper()
	admins := make([]crypto.Address, n)
	for i := range admins {
		admins[i] = testAddress(t, byte(i+1))
	}
	treasury := testAddress(t, 100)
	tunables := config.DefaultTunables(treasury, admins)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	engine := New(tunables, 48*time.Hour, nil, func() time.Time { return now })
	return engine, admins
}

func TestProposeActionRejectsNonAdministrator(t *testing.T) {
	engine, _ := newTestFixture(t, 3)
	stranger := testAddress(t, 200)
	_, err := engine.ProposeAction(stranger, KindPause, Payload{})
	if !errors.Is(err, enginerr.ErrNotAdministrator) {
		t.Fatalf("expected ErrNotAdministrator, got %v", err)
	}
}

func TestSingleAdministratorAutoExecutes(t *testing.T) {
	engine, admins := newTestFixture(t, 1)
	action, err := engine.ProposeAction(admins[0], KindPause, Payload{})
	if err != nil {
		t.Fatalf("ProposeAction: %v", err)
	}
	if !action.Executed {
		t.Fatalf("expected action to auto-execute for a single administrator")
	}
	if !engine.Tunables().Paused {
		t.Fatalf("expected engine to be paused")
	}
}

func TestConfirmationThresholdExecutesAction(t *testing.T) {
	engine, admins := newTestFixture(t, 3)
	action, err := engine.ProposeAction(admins[0], KindPause, Payload{})
	if err != nil {
		t.Fatalf("ProposeAction: %v", err)
	}
	if action.Executed {
		t.Fatalf("action should not execute before full confirmation")
	}
	if _, err := engine.ConfirmAction(admins[1], action.ID); err != nil {
		t.Fatalf("ConfirmAction: %v", err)
	}
	if engine.Tunables().Paused {
		t.Fatalf("action should not execute after only 2 of 3 confirmations")
	}
	confirmed, err := engine.ConfirmAction(admins[2], action.ID)
	if err != nil {
		t.Fatalf("ConfirmAction: %v", err)
	}
	if !confirmed.Executed {
		t.Fatalf("expected action to execute once all administrators confirmed")
	}
	if !engine.Tunables().Paused {
		t.Fatalf("expected engine to be paused")
	}
}

func TestDoubleConfirmationRejected(t *testing.T) {
	engine, admins := newTestFixture(t, 3)
	action, err := engine.ProposeAction(admins[0], KindPause, Payload{})
	if err != nil {
		t.Fatalf("ProposeAction: %v", err)
	}
	_, err = engine.ConfirmAction(admins[0], action.ID)
	if !errors.Is(err, enginerr.ErrAlreadyConfirmed) {
		t.Fatalf("expected ErrAlreadyConfirmed, got %v", err)
	}
}

func TestReplaceAdministratorUsesNMinusOneThreshold(t *testing.T) {
	engine, admins := newTestFixture(t, 3)
	newAdmin := testAddress(t, 250)
	payload := Payload{OldAdmin: admins[2], NewAdmin: newAdmin}
	action, err := engine.ProposeAction(admins[0], KindReplaceAdministrator, payload)
	if err != nil {
		t.Fatalf("ProposeAction: %v", err)
	}
	if action.Executed {
		t.Fatalf("replace-administrator should not execute after a single confirmation with 3 administrators")
	}
	executed, err := engine.ConfirmAction(admins[1], action.ID)
	if err != nil {
		t.Fatalf("ConfirmAction: %v", err)
	}
	if !executed.Executed {
		t.Fatalf("expected replace-administrator to execute at N-1 confirmations")
	}
	if engine.isAdministrator(admins[2]) {
		t.Fatalf("expected old administrator to be replaced")
	}
	if !engine.isAdministrator(newAdmin) {
		t.Fatalf("expected new administrator to be installed")
	}
}

func TestActionExpiresAfterWindow(t *testing.T) {
	engine, admins := newTestFixture(t, 3)
	action, err := engine.ProposeAction(admins[0], KindPause, Payload{})
	if err != nil {
		t.Fatalf("ProposeAction: %v", err)
	}
	engine.clock = func() time.Time {
		return time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
	}
	_, err = engine.ConfirmAction(admins[1], action.ID)
	if !errors.Is(err, enginerr.ErrActionExpired) {
		t.Fatalf("expected ErrActionExpired, got %v", err)
	}
}

func TestSetFeeRejectsOutOfBoundsBps(t *testing.T) {
	engine, admins := newTestFixture(t, 1)
	_, err := engine.ProposeAction(admins[0], KindSetFee, Payload{FeeType: FeePlatform, Bps: config.MaxPlatformFeeBps + 1})
	if !errors.Is(err, enginerr.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestSetFeeAppliesWithinBounds(t *testing.T) {
	engine, admins := newTestFixture(t, 1)
	_, err := engine.ProposeAction(admins[0], KindSetFee, Payload{FeeType: FeeCreator, Bps: 75})
	if err != nil {
		t.Fatalf("ProposeAction: %v", err)
	}
	if engine.Tunables().CreatorFeeBps != 75 {
		t.Fatalf("expected creator fee to be updated to 75 bps, got %d", engine.Tunables().CreatorFeeBps)
	}
}

func TestSetHeatLevelLiquidityRejectsOutOfBounds(t *testing.T) {
	engine, admins := newTestFixture(t, 1)
	tooSmall := fixedpoint.FromUint64(1)
	_, err := engine.ProposeAction(admins[0], KindSetHeatLevelLiquidity, Payload{HeatLevel: market.HeatQuiet, Amount: tooSmall})
	if !errors.Is(err, enginerr.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestReplaceAdministratorRejectsUnknownOldAdmin(t *testing.T) {
	engine, admins := newTestFixture(t, 3)
	stranger := testAddress(t, 200)
	newAdmin := testAddress(t, 201)
	_, err := engine.ProposeAction(admins[0], KindReplaceAdministrator, Payload{OldAdmin: stranger, NewAdmin: newAdmin})
	if !errors.Is(err, enginerr.ErrSignerNotFound) {
		t.Fatalf("expected ErrSignerNotFound, got %v", err)
	}
}

func TestProposalRateLimitRejectsBurst(t *testing.T) {
	engine, admins := newTestFixture(t, 3)
	for i := 0; i < 3; i++ {
		if _, err := engine.ProposeAction(admins[0], KindUnpause, Payload{}); err != nil {
			t.Fatalf("ProposeAction %d: %v", i, err)
		}
	}
	_, err := engine.ProposeAction(admins[0], KindUnpause, Payload{})
	if !errors.Is(err, enginerr.ErrActionRateLimited) {
		t.Fatalf("expected ErrActionRateLimited, got %v", err)
	}
}

func TestAuditTrailRecordsLifecycle(t *testing.T) {
	engine, admins := newTestFixture(t, 2)
	action, err := engine.ProposeAction(admins[0], KindPause, Payload{})
	if err != nil {
		t.Fatalf("ProposeAction: %v", err)
	}
	if _, err := engine.ConfirmAction(admins[1], action.ID); err != nil {
		t.Fatalf("ConfirmAction: %v", err)
	}
	trail := engine.AuditTrail()
	if len(trail) != 3 {
		t.Fatalf("expected 3 audit records (proposed, confirmed, executed), got %d", len(trail))
	}
	if trail[0].Event != "proposed" || trail[1].Event != "confirmed" || trail[2].Event != "executed" {
		t.Fatalf("unexpected audit event sequence: %+v", trail)
	}
}
