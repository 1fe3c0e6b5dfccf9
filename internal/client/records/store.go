// Package records persists the two named records of the client: the login
// session and the cached user. Each record is a JSON document overwritten
// wholesale on every write; there is no schema versioning and no locking
// across processes.
package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophprofile/internal/dbx"
)

const (
	SessionKey = "session"
	UserKey    = "user"
)

// Store is the storage contract the services depend on.
type Store interface {
	// LoadSession returns a zero Session when none is stored.
	LoadSession(ctx context.Context) (models.Session, error)
	SaveSession(ctx context.Context, s models.Session) error

	// LoadUser reports false when no cached user is stored.
	LoadUser(ctx context.Context) (models.CachedUser, bool, error)
	SaveUser(ctx context.Context, u models.CachedUser) error

	// Logout removes every stored record, including keys left behind by
	// other versions of the client.
	Logout(ctx context.Context) error

	// Keys lists the names of the stored records in sorted order.
	Keys(ctx context.Context) ([]string, error)
}

type txRunner func(ctx context.Context, fn func(ctx context.Context, repo metadata.Repository) error) error

// KVStore implements Store on top of a metadata.Repository.
type KVStore struct {
	repo  metadata.Repository
	runTx txRunner
}

// NewSQLiteStore returns a Store backed by the metadata table of db.
func NewSQLiteStore(db *sql.DB) *KVStore {
	return &KVStore{
		repo: metadata.NewSQLiteRepository(db),
		runTx: func(ctx context.Context, fn func(ctx context.Context, repo metadata.Repository) error) error {
			return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
				return fn(ctx, metadata.NewSQLiteRepository(tx))
			})
		},
	}
}

// NewMemoryStore returns a Store that lives only as long as the process.
func NewMemoryStore() *KVStore {
	return NewStore(metadata.NewMemoryRepository())
}

// NewStore wraps an arbitrary repository. Multi-record writes are not atomic.
func NewStore(repo metadata.Repository) *KVStore {
	return &KVStore{
		repo: repo,
		runTx: func(ctx context.Context, fn func(ctx context.Context, repo metadata.Repository) error) error {
			return fn(ctx, repo)
		},
	}
}

func (s *KVStore) LoadSession(ctx context.Context) (models.Session, error) {
	var session models.Session
	if _, err := s.load(ctx, SessionKey, &session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (s *KVStore) SaveSession(ctx context.Context, session models.Session) error {
	return s.save(ctx, SessionKey, session)
}

func (s *KVStore) LoadUser(ctx context.Context) (models.CachedUser, bool, error) {
	var u models.CachedUser
	found, err := s.load(ctx, UserKey, &u)
	if err != nil {
		return models.CachedUser{}, false, err
	}
	return u, found, nil
}

func (s *KVStore) SaveUser(ctx context.Context, u models.CachedUser) error {
	return s.save(ctx, UserKey, u)
}

func (s *KVStore) Logout(ctx context.Context) error {
	return s.runTx(ctx, func(ctx context.Context, repo metadata.Repository) error {
		return repo.Clear(ctx)
	})
}

func (s *KVStore) Keys(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *KVStore) load(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode record %s: %w", key, err)
	}
	return true, nil
}

func (s *KVStore) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", key, err)
	}
	return s.repo.Set(ctx, key, raw)
}
