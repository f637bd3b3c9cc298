package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Adda-Baaj/taskprobe/internal/config"
	"github.com/Adda-Baaj/taskprobe/internal/domain"
	"github.com/Adda-Baaj/taskprobe/internal/fixtures"
	"github.com/Adda-Baaj/taskprobe/internal/logger"
	"github.com/Adda-Baaj/taskprobe/internal/storage"
	"github.com/Adda-Baaj/taskprobe/pkg/httpclient"
	"github.com/Adda-Baaj/taskprobe/pkg/identity"
	"github.com/Adda-Baaj/taskprobe/pkg/taskapi"
)

// Probe wires the task service client, the identity source and the account
// ledger together and runs test flows against the service.
type Probe struct {
	client *taskapi.Client
	store  storage.Store
	log    logger.Logger
	now    func() time.Time
}

// NewProbe builds a probe runtime from config.
func NewProbe(cfg *config.Config, log logger.Logger) (*Probe, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	hc := httpclient.NewRestyClient(cfg.RequestTimeout)

	ids, err := identity.NewSource(cfg.IdentitySource, hc, cfg.IdentityURL, log)
	if err != nil {
		return nil, fmt.Errorf("init identity source: %w", err)
	}

	client, err := taskapi.NewClient(cfg.BaseURL, hc, ids, log)
	if err != nil {
		return nil, fmt.Errorf("init task client: %w", err)
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		AccountTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("probe initialized", "probe_config", map[string]any{
		"base_url":        cfg.BaseURL,
		"identity_source": cfg.IdentitySource,
		"storage_type":    cfg.StorageType,
		"timeout_seconds": int(cfg.RequestTimeout.Seconds()),
	})

	return New(client, store, log), nil
}

// New assembles a probe from already built parts.
func New(client *taskapi.Client, store storage.Store, log logger.Logger) *Probe {
	if log == nil {
		log = &logger.NopLogger{}
	}
	if store == nil {
		store, _ = storage.NewStore("none", "", storage.Options{})
	}
	return &Probe{client: client, store: store, log: log, now: time.Now}
}

// Client exposes the underlying endpoint wrappers.
func (p *Probe) Client() *taskapi.Client { return p.client }

// Close releases the account ledger.
func (p *Probe) Close() error {
	if p == nil || p.store == nil {
		return nil
	}
	if err := p.store.Close(); err != nil {
		p.log.ErrorObj("storage close failed", "error", err)
		return err
	}
	return nil
}

// Register registers count identities and records every success in the ledger.
func (p *Probe) Register(ctx context.Context, count int) (taskapi.Registrations, error) {
	regs, regErr := p.client.Register(ctx, count)

	var errs []error
	if regErr != nil {
		errs = append(errs, regErr)
	}
	for _, reg := range regs.Ordered() {
		acc := domain.Account{
			Email:        reg.Email,
			Name:         reg.Name,
			Password:     reg.Password,
			BaseURL:      p.client.BaseURL(),
			Response:     reg.Response,
			RegisteredAt: p.now().UTC(),
		}
		if err := p.store.SaveAccount(acc); err != nil {
			p.log.WarnObj("account not saved", "storage_error", map[string]any{
				"email": reg.Email,
				"error": err.Error(),
			})
			errs = append(errs, fmt.Errorf("save account %s: %w", reg.Email, err))
		}
	}
	return regs, errors.Join(errs...)
}

// Login logs email in. An empty password is looked up in the account ledger.
func (p *Probe) Login(ctx context.Context, email, password string) (taskapi.Document, error) {
	if password == "" {
		acc, err := p.store.Account(email)
		if err != nil {
			return nil, fmt.Errorf("no password given and no saved account for %s: %w", email, err)
		}
		password = acc.Password
	}
	return p.client.Login(ctx, email, password)
}

// Accounts lists the accounts saved by previous registrations.
func (p *Probe) Accounts() ([]domain.Account, error) {
	return p.store.Accounts()
}

// SeedResult counts the outcome of a scenario run.
type SeedResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Seed applies a scenario: companies, users, tasks, then avatars. Every entry
// is attempted; failures are joined into the returned error.
func (p *Probe) Seed(ctx context.Context, sc *fixtures.Scenario) (SeedResult, error) {
	var res SeedResult
	if sc == nil {
		return res, fmt.Errorf("scenario must not be nil")
	}

	var errs []error
	record := func(what string, err error) {
		if err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("%s: %w", what, err))
			return
		}
		res.Succeeded++
	}

	for _, c := range sc.Companies {
		_, err := p.client.CreateCompany(ctx, c)
		record("company "+c.Name, err)
	}
	for _, u := range sc.Users {
		var err error
		if u.WithTasks {
			_, err = p.client.CreateUserWithTasks(ctx, u.User)
		} else {
			_, err = p.client.CreateUser(ctx, u.User)
		}
		record("user "+u.Email, err)
	}
	for _, t := range sc.Tasks {
		_, err := p.client.CreateTask(ctx, t)
		record("task "+t.Title, err)
	}
	for _, a := range sc.Avatars {
		record("avatar "+a.Email, p.uploadAvatar(ctx, a.Email, sc.AvatarPath(a)))
	}

	p.log.InfoObj("seed finished", "seed_result", res)
	return res, errors.Join(errs...)
}

// AddAvatarFile uploads the file at path as the avatar of email.
func (p *Probe) AddAvatarFile(ctx context.Context, email, path string) (taskapi.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open avatar: %w", err)
	}
	defer f.Close()
	return p.client.AddAvatar(ctx, email, taskapi.Avatar{FileName: filepath.Base(path), Reader: f})
}

func (p *Probe) uploadAvatar(ctx context.Context, email, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("avatar path is empty")
	}
	_, err := p.AddAvatarFile(ctx, email, path)
	return err
}
