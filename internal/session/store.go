package session

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/ridebird/ride-cli/internal/domain"
	"github.com/ridebird/ride-cli/internal/ports"
	"github.com/ridebird/ride-cli/internal/transport"
	"github.com/rs/zerolog"
)

// placeholderToken matches tokens left behind by mocked flows; they must
// never count as an authenticated session.
var placeholderToken = regexp.MustCompile(`(?i)^(mock|fake|placeholder)[-_]?token`)

func tokenLooksValid(token string) bool {
	trimmed := strings.TrimSpace(token)
	switch trimmed {
	case "", "null", "undefined":
		return false
	}
	return !placeholderToken.MatchString(trimmed)
}

// Store is the authoritative record of the current login state: an
// in-memory session hydrated from, and written through to, persisted
// client state.
type Store struct {
	state ports.StateStore
	log   zerolog.Logger

	mu     sync.RWMutex
	tokens domain.TokenPair
	user   *domain.User
}

var _ transport.TokenSource = (*Store)(nil)

func NewStore(state ports.StateStore, log zerolog.Logger) *Store {
	return &Store{state: state, log: log}
}

// Hydrate loads persisted credentials at startup. Anything short of a fully
// valid session clears storage outright: the client never runs with
// half-valid credentials.
func (s *Store) Hydrate(ctx context.Context) error {
	persisted, err := s.state.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load: %w", domain.ErrStateUnavailable, err)
	}

	var user *domain.User
	if persisted.UserJSON != "" {
		var decoded domain.User
		if err := json.Unmarshal([]byte(persisted.UserJSON), &decoded); err == nil {
			user = &decoded
		} else {
			s.log.Debug().Err(err).Msg("discard undecodable persisted user")
		}
	}

	if !tokenLooksValid(persisted.AccessToken) || user == nil {
		return s.Clear(ctx)
	}

	s.mu.Lock()
	s.tokens = domain.TokenPair{
		AccessToken:  persisted.AccessToken,
		RefreshToken: persisted.RefreshToken,
	}
	s.user = user
	s.mu.Unlock()

	return nil
}

// HasActiveSession reports whether the client should treat the user as
// authenticated: a shape-valid access token plus a user record.
func (s *Store) HasActiveSession() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tokenLooksValid(s.tokens.AccessToken) && s.user != nil
}

// IsExpired reports whether the held token fails validity checks. There is
// no client-side expiry timestamp; real expiry is detected reactively via
// 401 responses.
func (s *Store) IsExpired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !tokenLooksValid(s.tokens.AccessToken)
}

// Create replaces any prior session with the given user and tokens.
func (s *Store) Create(ctx context.Context, user domain.User, tokens domain.TokenPair) error {
	if err := s.Clear(ctx); err != nil {
		return err
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}

	if err := s.persist(ctx, func(state *ports.ClientState) {
		state.AccessToken = tokens.AccessToken
		state.RefreshToken = tokens.RefreshToken
		state.UserJSON = string(userJSON)
	}); err != nil {
		return err
	}

	s.mu.Lock()
	s.tokens = tokens
	s.user = &user
	s.mu.Unlock()

	return nil
}

// Clear removes tokens and user record from memory and storage. Idempotent.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.tokens = domain.TokenPair{}
	s.user = nil
	s.mu.Unlock()

	if err := s.persist(ctx, func(state *ports.ClientState) {
		state.AccessToken = ""
		state.RefreshToken = ""
		state.UserJSON = ""
	}); err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}

	return nil
}

func (s *Store) Tokens() domain.TokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

// SetAccessToken stores a refreshed access token, keeping the refresh token.
func (s *Store) SetAccessToken(ctx context.Context, token string) error {
	s.mu.Lock()
	s.tokens.AccessToken = token
	s.mu.Unlock()

	return s.persist(ctx, func(state *ports.ClientState) {
		state.AccessToken = token
	})
}

func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

// persist applies a mutation to the persisted state record, preserving the
// unrelated fields (language, transient flags).
func (s *Store) persist(ctx context.Context, mutate func(*ports.ClientState)) error {
	state, err := s.state.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load: %w", domain.ErrStateUnavailable, err)
	}

	mutate(&state)

	if err := s.state.Save(ctx, state); err != nil {
		return fmt.Errorf("%w: save: %w", domain.ErrStateUnavailable, err)
	}

	return nil
}
