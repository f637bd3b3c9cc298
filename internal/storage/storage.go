package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/taskprobe/internal/domain"
)

// Package storage keeps a local ledger of registered accounts.

// ErrNotFound is returned when no live account exists for an email.
var ErrNotFound = errors.New("account not found")

// Store persists registered accounts keyed by email.
type Store interface {
	Close() error
	SaveAccount(acc domain.Account) error
	Account(email string) (domain.Account, error)
	Accounts() ([]domain.Account, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	AccountTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultAccountTTL      = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.AccountTTL <= 0 {
		opts.AccountTTL = defaultAccountTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type noopStore struct{}

func (noopStore) Close() error                           { return nil }
func (noopStore) SaveAccount(domain.Account) error       { return nil }
func (noopStore) Accounts() ([]domain.Account, error)    { return nil, nil }
func (noopStore) Account(string) (domain.Account, error) { return domain.Account{}, ErrNotFound }
