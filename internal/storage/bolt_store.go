package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adda-Baaj/taskprobe/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const (
	accountBucket    = "accounts"
	expiryValueBytes = 8
)

// boltStore implements a Store backed by BoltDB. Each value is an 8 byte
// big-endian expiry followed by the JSON encoded account.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	accountTTL      time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(accountBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		accountTTL:      opts.AccountTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SaveAccount stores acc under its email, replacing any previous entry.
func (b *boltStore) SaveAccount(acc domain.Account) error {
	if b == nil || b.db == nil {
		return nil
	}
	key := normalizeEmail(acc.Email)
	if key == "" {
		return fmt.Errorf("account email is empty")
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}
	if acc.RegisteredAt.IsZero() {
		acc.RegisteredAt = now.UTC()
	}

	payload, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(accountBucket))
		if bucket == nil {
			return fmt.Errorf("account bucket missing")
		}
		return bucket.Put([]byte(key), encodeRecord(now.Add(b.accountTTL), payload))
	})
}

// Account returns the live account stored for email.
func (b *boltStore) Account(email string) (domain.Account, error) {
	if b == nil || b.db == nil {
		return domain.Account{}, ErrNotFound
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return domain.Account{}, err
	}

	var acc domain.Account
	found := false
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(accountBucket))
		if bucket == nil {
			return fmt.Errorf("account bucket missing")
		}

		key := []byte(normalizeEmail(email))
		value := bucket.Get(key)
		if value == nil {
			return nil
		}

		expiry, payload, ok := decodeRecord(value)
		if !ok || !expiry.After(now) {
			return bucket.Delete(key)
		}
		if err := json.Unmarshal(payload, &acc); err != nil {
			return fmt.Errorf("decode account %s: %w", key, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}
	if !found {
		return domain.Account{}, ErrNotFound
	}
	return acc, nil
}

// Accounts lists live accounts, oldest registration first.
func (b *boltStore) Accounts() ([]domain.Account, error) {
	if b == nil || b.db == nil {
		return nil, nil
	}

	now := b.now()
	var out []domain.Account
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(accountBucket))
		if bucket == nil {
			return fmt.Errorf("account bucket missing")
		}
		return bucket.ForEach(func(k, v []byte) error {
			expiry, payload, ok := decodeRecord(v)
			if !ok || !expiry.After(now) {
				return nil
			}
			var acc domain.Account
			if err := json.Unmarshal(payload, &acc); err != nil {
				return fmt.Errorf("decode account %s: %w", k, err)
			}
			out = append(out, acc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RegisteredAt.Before(out[j].RegisteredAt)
	})
	return out, nil
}

// maybeCleanupExpired removes expired accounts on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(accountBucket))
		if bucket == nil {
			return fmt.Errorf("account bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, _, ok := decodeRecord(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func encodeRecord(expiry time.Time, payload []byte) []byte {
	buf := make([]byte, expiryValueBytes+len(payload))
	binary.BigEndian.PutUint64(buf, uint64(expiry.Unix()))
	copy(buf[expiryValueBytes:], payload)
	return buf
}

// decodeRecord splits a stored value into its expiry and JSON payload.
func decodeRecord(value []byte) (time.Time, []byte, bool) {
	if len(value) <= expiryValueBytes {
		return time.Time{}, nil, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, nil, false
	}
	return time.Unix(unix, 0), value[expiryValueBytes:], true
}
