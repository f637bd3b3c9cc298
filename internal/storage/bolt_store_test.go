package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Adda-Baaj/taskprobe/internal/domain"
)

func openTestBolt(t *testing.T, opts Options) *boltStore {
	t.Helper()
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "data", "accounts.db"), normalizeOptions(opts))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreSavesAndExpiresAccounts(t *testing.T) {
	store := openTestBolt(t, Options{AccountTTL: time.Hour, CleanupInterval: time.Hour})
	clock := time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	if _, err := store.Account("jane@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown account, got %v", err)
	}

	err := store.SaveAccount(domain.Account{
		Email:    "Jane@Example.com ",
		Name:     "jane",
		Password: "pw",
		Response: map[string]any{"name": "jane"},
	})
	if err != nil {
		t.Fatalf("SaveAccount: %v", err)
	}

	acc, err := store.Account("jane@example.com")
	if err != nil {
		t.Fatalf("Account: %v", err)
	}
	if acc.Password != "pw" || acc.Response["name"] != "jane" || !acc.RegisteredAt.Equal(clock) {
		t.Fatalf("unexpected account %+v", acc)
	}

	clock = clock.Add(2 * time.Hour)
	if _, err := store.Account("jane@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected account to expire, got %v", err)
	}
}

func TestBoltStoreAccountsOrderedAndCleaned(t *testing.T) {
	store := openTestBolt(t, Options{AccountTTL: time.Hour, CleanupInterval: time.Minute})
	base := time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	store.now = func() time.Time { return clock }
	store.lastCleanup.Store(base.Unix())

	for i, email := range []string{"b@example.com", "a@example.com"} {
		clock = base.Add(time.Duration(i) * 10 * time.Minute)
		if err := store.SaveAccount(domain.Account{Email: email, Password: "pw"}); err != nil {
			t.Fatalf("SaveAccount %s: %v", email, err)
		}
	}

	accs, err := store.Accounts()
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	if len(accs) != 2 || accs[0].Email != "b@example.com" || accs[1].Email != "a@example.com" {
		t.Fatalf("unexpected accounts %#v", accs)
	}

	// The first account expires at base+1h, the second at base+1h10m.
	clock = base.Add(65 * time.Minute)
	if err := store.SaveAccount(domain.Account{Email: "c@example.com", Password: "pw"}); err != nil {
		t.Fatalf("SaveAccount: %v", err)
	}
	accs, err = store.Accounts()
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	if len(accs) != 2 || accs[0].Email != "a@example.com" || accs[1].Email != "c@example.com" {
		t.Fatalf("expected expired account to be dropped, got %#v", accs)
	}
}

func TestBoltStoreRejectsEmptyEmail(t *testing.T) {
	store := openTestBolt(t, Options{})
	if err := store.SaveAccount(domain.Account{Email: "  "}); err == nil {
		t.Fatalf("expected error for empty email")
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.SaveAccount(domain.Account{Email: "x@example.com"}); err != nil {
		t.Fatalf("noop store SaveAccount: %v", err)
	}
	if _, err := store.Account("x@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("noop store should not remember accounts, got %v", err)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing bbolt path")
	}
}
