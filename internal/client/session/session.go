package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	evbus "github.com/asaskevich/EventBus"
	"github.com/dmitrijs2005/guildadmin/internal/client/api"
	"github.com/dmitrijs2005/guildadmin/internal/client/credentials"
	"github.com/dmitrijs2005/guildadmin/internal/client/models"
	"github.com/dmitrijs2005/guildadmin/internal/logging"
)

var ErrMissingCode = errors.New("missing authorization code")

const (
	msgAuthFailed     = "Authentication failed"
	msgFetchFailed    = "Failed to fetch guilds"
	msgSessionExpired = "Session expired"
)

// AuthAPI is the backend surface the session drives. *api.AuthClient
// implements it.
type AuthAPI interface {
	AuthorizeURL() string
	ExchangeCode(ctx context.Context, code string) (models.Pair, error)
	Status(ctx context.Context) (bool, error)
	Guilds(ctx context.Context) ([]models.Guild, error)
	Logout(ctx context.Context) error
}

// CredentialStore is the part of *credentials.Store the session uses.
type CredentialStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Tokens(ctx context.Context) (models.Pair, error)
	SaveTokens(ctx context.Context, p models.Pair) error
	ClearTokens(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

// Session owns the client's authentication state. Writers serialize on mu;
// no lock is held while talking to the backend.
type Session struct {
	store  CredentialStore
	auth   AuthAPI
	bus    evbus.Bus
	logger logging.Logger

	mu    sync.RWMutex
	state State
	// epoch changes whenever the session is reset or a new login completes.
	// Results of calls started under an older epoch are dropped.
	epoch uint64

	wg        sync.WaitGroup
	onExpired func(error)
}

// New restores the session from the store: it is authenticated when an
// access token is present, and the persisted guild selection is reloaded.
// When bus is not nil the session subscribes to api.TopicSessionExpired.
func New(ctx context.Context, store CredentialStore, auth AuthAPI, bus evbus.Bus, logger logging.Logger) (*Session, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Session{
		store:  store,
		auth:   auth,
		bus:    bus,
		logger: logger,
		state:  anonymous(""),
	}

	pair, err := store.Tokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if pair.AccessToken != "" {
		s.state.IsAuthenticated = true
		s.state.Phase = PhaseAuthenticated
	}

	raw, ok, err := store.Get(ctx, credentials.KeySelectedGuild)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if ok {
		var g models.Guild
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			logger.Warn(ctx, "ignoring malformed persisted guild", "error", err)
		} else {
			s.state.SelectedGuild = &g
		}
	}

	if bus != nil {
		s.onExpired = s.handleExpired
		if err := bus.Subscribe(api.TopicSessionExpired, s.onExpired); err != nil {
			return nil, fmt.Errorf("subscribe %s: %w", api.TopicSessionExpired, err)
		}
	}
	return s, nil
}

// State returns a snapshot that is safe to keep and modify.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Login returns the URL the user agent must open to authorize. Navigation
// is left to the caller.
func (s *Session) Login() string {
	return s.auth.AuthorizeURL()
}

// HandleAuthCallback exchanges an OAuth code for credentials and loads the
// guild list. On failure no token is left in the store.
func (s *Session) HandleAuthCallback(ctx context.Context, code string) error {
	s.update(func(st *State) {
		st.Phase = PhaseAuthenticating
		st.IsLoading = true
		st.Error = ""
	})

	err := ErrMissingCode
	if code != "" {
		err = s.exchange(ctx, code)
	}
	if err != nil {
		if cerr := s.store.ClearTokens(ctx); cerr != nil {
			s.logger.Error(ctx, "failed to clear credentials", "error", cerr)
		}
		s.update(func(st *State) {
			st.Phase = PhaseError
			st.IsAuthenticated = false
			st.IsLoading = false
			st.Error = msgAuthFailed
		})
		return fmt.Errorf("auth callback: %w", err)
	}

	s.mu.Lock()
	s.epoch++
	s.state.Phase = PhaseAuthenticated
	s.state.IsAuthenticated = true
	s.state.IsLoading = false
	s.mu.Unlock()
	s.logger.Info(ctx, "logged in")

	if err := s.FetchGuilds(ctx); err != nil {
		s.logger.Warn(ctx, "guild list unavailable after login", "error", err)
	}
	return nil
}

func (s *Session) exchange(ctx context.Context, code string) error {
	pair, err := s.auth.ExchangeCode(ctx, code)
	if err != nil {
		return err
	}
	return s.store.SaveTokens(ctx, pair)
}

// CheckAuthStatus asks the backend whether the session is still valid. A
// valid session triggers a background guild refresh; join it with Wait.
// Any failure leaves the session anonymous with both tokens removed.
func (s *Session) CheckAuthStatus(ctx context.Context) error {
	ok, err := s.auth.Status(ctx)
	if err != nil {
		if cerr := s.store.ClearTokens(ctx); cerr != nil {
			s.logger.Error(ctx, "failed to clear credentials", "error", cerr)
		}
		s.update(func(st *State) {
			st.IsAuthenticated = false
			st.Phase = PhaseAnonymous
		})
		return fmt.Errorf("check auth status: %w", err)
	}

	s.update(func(st *State) {
		st.IsAuthenticated = ok
		if ok {
			st.Phase = PhaseAuthenticated
		} else {
			st.Phase = PhaseAnonymous
		}
	})

	if ok {
		bg := context.WithoutCancel(ctx)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.FetchGuilds(bg); err != nil {
				s.logger.Warn(bg, "background guild refresh failed", "error", err)
			}
		}()
	}
	return nil
}

// FetchGuilds reloads the guild list. On failure the previous list is kept.
func (s *Session) FetchGuilds(ctx context.Context) error {
	s.mu.Lock()
	epoch := s.epoch
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()

	guilds, err := s.auth.Guilds(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		// Logged out or expired meanwhile.
		if err != nil {
			return fmt.Errorf("fetch guilds: %w", err)
		}
		return nil
	}
	s.state.IsLoading = false
	if err != nil {
		s.state.Error = msgFetchFailed
		return fmt.Errorf("fetch guilds: %w", err)
	}
	s.state.Guilds = guilds
	return nil
}

// SelectGuild persists g as the active guild. It does not touch the network.
func (s *Session) SelectGuild(ctx context.Context, g models.Guild) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode guild: %w", err)
	}
	if err := s.store.Set(ctx, credentials.KeySelectedGuild, string(raw)); err != nil {
		return err
	}
	s.update(func(st *State) { st.SelectedGuild = &g })
	return nil
}

// Logout notifies the backend and always drops local credentials, the
// persisted guild and the cached state. Only a local storage failure is
// returned.
func (s *Session) Logout(ctx context.Context) error {
	pair, err := s.store.Tokens(ctx)
	if err == nil && pair.AccessToken != "" {
		if err := s.auth.Logout(ctx); err != nil {
			s.logger.Warn(ctx, "backend logout failed", "error", err)
		}
	}

	clearErr := s.store.ClearAll(ctx)
	s.reset("")
	s.logger.Info(ctx, "logged out")

	if clearErr != nil {
		return fmt.Errorf("logout: %w", clearErr)
	}
	return nil
}

// Wait blocks until background work started by CheckAuthStatus is done.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close waits for background work and detaches from the event bus.
func (s *Session) Close() error {
	s.wg.Wait()
	if s.bus != nil && s.onExpired != nil {
		return s.bus.Unsubscribe(api.TopicSessionExpired, s.onExpired)
	}
	return nil
}

func (s *Session) handleExpired(err error) {
	s.logger.Warn(context.Background(), "session expired", "error", err)
	s.reset(msgSessionExpired)
}

func (s *Session) reset(errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.state = anonymous(errMsg)
}

func (s *Session) update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}
