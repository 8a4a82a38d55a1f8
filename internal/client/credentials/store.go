package credentials

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/guildadmin/internal/client/models"
)

// Store is the credential surface used by the request pipeline and the
// session. Every method holds the store lock for its whole duration, so a
// token snapshot taken by Tokens can never interleave with a rotation or a
// clear.
//
// Empty values are never stored: setting a key to "" removes it.
type Store struct {
	mu   sync.RWMutex
	repo Repository
}

func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// Get returns the value under key and whether it was present.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	if len(v) == 0 {
		return "", false, nil
	}
	return string(v), true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == "" {
		return s.repo.Delete(ctx, key)
	}
	return s.repo.Set(ctx, key, []byte(value))
}

func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Delete(ctx, key)
}

// Tokens returns a consistent snapshot of the stored pair.
func (s *Store) Tokens(ctx context.Context) (models.Pair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokensLocked(ctx)
}

func (s *Store) tokensLocked(ctx context.Context) (models.Pair, error) {
	access, err := s.repo.Get(ctx, KeyAccessToken)
	if err != nil {
		return models.Pair{}, err
	}
	refresh, err := s.repo.Get(ctx, KeyRefreshToken)
	if err != nil {
		return models.Pair{}, err
	}
	return models.Pair{AccessToken: string(access), RefreshToken: string(refresh)}, nil
}

// SaveTokens replaces both tokens in one atomic write.
func (s *Store) SaveTokens(ctx context.Context, p models.Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, p)
}

func (s *Store) saveLocked(ctx context.Context, p models.Pair) error {
	values := make(map[string][]byte, 2)
	var drop []string

	for key, v := range map[string]string{KeyAccessToken: p.AccessToken, KeyRefreshToken: p.RefreshToken} {
		if v == "" {
			drop = append(drop, key)
			continue
		}
		values[key] = []byte(v)
	}

	return s.repo.Update(ctx, values, drop...)
}

// RotateTokens stores the result of a refresh, but only if the refresh
// token in the store is still usedRefresh. It reports whether the write
// happened. A pair without a refresh token keeps usedRefresh.
func (s *Store) RotateTokens(ctx context.Context, usedRefresh string, p models.Pair) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.tokensLocked(ctx)
	if err != nil {
		return false, err
	}
	if usedRefresh == "" || current.RefreshToken != usedRefresh {
		return false, nil
	}
	if p.RefreshToken == "" {
		p.RefreshToken = usedRefresh
	}
	if err := s.saveLocked(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}

// ClearTokens removes both tokens, leaving the selected guild alone.
func (s *Store) ClearTokens(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Delete(ctx, KeyAccessToken, KeyRefreshToken)
}

// ClearTokensIf removes both tokens only while the stored refresh token is
// still usedRefresh, so a pair saved by a newer login survives a stale
// refresh failure. It reports whether the tokens were cleared.
func (s *Store) ClearTokensIf(ctx context.Context, usedRefresh string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.tokensLocked(ctx)
	if err != nil {
		return false, err
	}
	if current.RefreshToken != usedRefresh {
		return false, nil
	}
	if err := s.repo.Delete(ctx, KeyAccessToken, KeyRefreshToken); err != nil {
		return false, err
	}
	return true, nil
}

// ClearAll removes all three well-known keys.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Delete(ctx, KeyAccessToken, KeyRefreshToken, KeySelectedGuild)
}

func (s *Store) Close() error {
	return s.repo.Close()
}
