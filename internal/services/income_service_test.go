package services

import (
	"context"
	"testing"
	"time"

	"irontycoon/internal/config"
	"irontycoon/internal/models"
	"irontycoon/internal/money"
)

func newIncomeForTest(user models.User) (*IncomeService, *fakeUserStore, *stubHub) {
	users := &fakeUserStore{user: user}
	hub := &stubHub{}
	svc := NewIncomeService(fakeTxRunner{}, users, hub, config.DefaultEconomy())
	return svc, users, hub
}

func TestAccrueWithoutRig(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	svc, users, hub := newIncomeForTest(models.User{
		OwnedUpgrades: "[]",
		LastSeenAt:    now.Add(-5 * time.Hour).Unix(),
	})
	svc.now = func() time.Time { return now }

	earned, err := svc.Accrue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if earned != 0 {
		t.Fatalf("no rig, no income: %d", earned)
	}
	if users.user.LastSeenAt != now.Unix() {
		t.Fatalf("heartbeat must still advance")
	}
	if len(hub.updates) != 0 {
		t.Fatalf("nothing earned, nothing broadcast")
	}
}

func TestAccrueShortWindow(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	svc, users, _ := newIncomeForTest(models.User{
		OwnedUpgrades: `["MINING_RIG"]`,
		LastSeenAt:    now.Add(-3 * time.Minute).Unix(),
	})
	svc.now = func() time.Time { return now }

	earned, err := svc.Accrue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if earned != 0 {
		t.Fatalf("windows under six minutes are swallowed: %d", earned)
	}
	if users.user.LastSeenAt != now.Unix() {
		t.Fatalf("heartbeat must still advance")
	}
}

func TestAccrueFillsPendingPot(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	svc, users, hub := newIncomeForTest(models.User{
		OwnedUpgrades: `["MINING_RIG"]`,
		PendingIncome: money.FromWOL(40),
		LastSeenAt:    now.Add(-5 * time.Hour).Unix(),
	})
	svc.now = func() time.Time { return now }

	earned, err := svc.Accrue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if earned != money.FromWOL(500) {
		t.Fatalf("5 hours at 100 $WOL/h, got %d", earned)
	}
	if users.user.PendingIncome != money.FromWOL(540) {
		t.Fatalf("pending pot not topped up: %d", users.user.PendingIncome)
	}
	if users.user.Balance != 0 {
		t.Fatalf("accrual must not touch the balance")
	}
	if len(hub.updates) != 1 || hub.updates[0].Kind != "income" {
		t.Fatalf("expected an income broadcast, got %v", hub.kinds())
	}
}

func TestAccrueCapsAtOneDay(t *testing.T) {
	now := time.Date(2026, 7, 10, 8, 0, 0, 0, time.UTC)
	svc, users, _ := newIncomeForTest(models.User{
		OwnedUpgrades: `["MINING_RIG"]`,
		LastSeenAt:    now.Add(-72 * time.Hour).Unix(),
	})
	svc.now = func() time.Time { return now }

	earned, err := svc.Accrue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if earned != money.FromWOL(2400) {
		t.Fatalf("three days away still pays one day: %d", earned)
	}
	if users.user.LastSeenAt != now.Unix() {
		t.Fatalf("last seen not stamped")
	}
}

func TestAccrueNeverSeen(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	svc, users, _ := newIncomeForTest(models.User{OwnedUpgrades: `["MINING_RIG"]`})
	svc.now = func() time.Time { return now }

	earned, err := svc.Accrue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if earned != 0 {
		t.Fatalf("first sighting starts the clock, it does not pay: %d", earned)
	}
	if users.user.LastSeenAt != now.Unix() {
		t.Fatalf("heartbeat must start the clock")
	}
}

func TestCollectMovesPotToBalance(t *testing.T) {
	svc, users, hub := newIncomeForTest(models.User{
		PendingIncome: money.FromWOL(540),
		Balance:       money.FromWOL(100),
		TotalEarned:   money.FromWOL(100),
		CurrentRank:   "Stagiaire",
	})

	collected, after, err := svc.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if collected != money.FromWOL(540) {
		t.Fatalf("unexpected amount collected: %d", collected)
	}
	if after.Balance != money.FromWOL(640) {
		t.Fatalf("unexpected balance: %d", after.Balance)
	}
	if after.TotalEarned != money.FromWOL(640) {
		t.Fatalf("collected income counts as earnings: %d", after.TotalEarned)
	}
	if users.user.PendingIncome != 0 {
		t.Fatalf("pot not emptied: %d", users.user.PendingIncome)
	}
	if len(hub.updates) != 1 || hub.updates[0].Kind != "balance" {
		t.Fatalf("expected a balance broadcast, got %v", hub.kinds())
	}
}

func TestCollectEmptyPot(t *testing.T) {
	svc, users, hub := newIncomeForTest(models.User{Balance: money.FromWOL(100)})

	collected, _, err := svc.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if collected != 0 {
		t.Fatalf("nothing pending, nothing collected: %d", collected)
	}
	if users.user.Balance != money.FromWOL(100) {
		t.Fatalf("balance must not move")
	}
	if len(hub.updates) != 0 {
		t.Fatalf("no collection means no broadcast")
	}
}

func TestHeartbeatStampsPresence(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	svc, users, _ := newIncomeForTest(models.User{})
	svc.now = func() time.Time { return now }

	if err := svc.Heartbeat(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.user.LastSeenAt != now.Unix() {
		t.Fatalf("heartbeat not recorded")
	}
}
