package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/hemant-crossml/LMS-assignment/internal/api"
)

// Authenticator is the slice of the API client the session depends on.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (api.TokenPair, error)
	Register(ctx context.Context, payload api.RegisterPayload) (api.User, error)
	CurrentUser(ctx context.Context) (api.User, error)
}

// TokenStore persists the bearer token pair across runs.
type TokenStore interface {
	HasToken() bool
	Save(pair api.TokenPair) error
	Clear() error
}

// Snapshot is the session state as views observe it. Authenticated is true
// exactly when User is present.
type Snapshot struct {
	User          *api.User
	Authenticated bool
	Loading       bool
}

// Store is the single process-wide authority on who is logged in. Operations
// are serialized by an operation mutex so a logout can never race a login
// into inconsistent persisted-token state; reads go through Snapshot.
type Store struct {
	client Authenticator
	tokens TokenStore

	op sync.Mutex // serializes Rehydrate/Login/Register/Logout

	mu   sync.RWMutex
	snap Snapshot
}

// New creates a session store in the loading state. Callers resolve it by
// running Rehydrate once at startup.
func New(client Authenticator, tokens TokenStore) *Store {
	return &Store{
		client: client,
		tokens: tokens,
		snap:   Snapshot{Loading: true},
	}
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snap
	if s.snap.User != nil {
		user := *s.snap.User
		snap.User = &user
	}
	return snap
}

// Rehydrate reconstructs the session from the persisted token. With no token
// on disk it resolves to anonymous without touching the network. Any failure
// fetching the profile discards the persisted pair. Safe to call repeatedly;
// the final state depends only on the token's validity.
func (s *Store) Rehydrate(ctx context.Context) error {
	s.op.Lock()
	defer s.op.Unlock()

	if !s.tokens.HasToken() {
		s.set(Snapshot{})
		return nil
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		_ = s.tokens.Clear()
		s.set(Snapshot{})
		return fmt.Errorf("rehydrate session: %w", err)
	}

	s.set(Snapshot{User: &user, Authenticated: true})
	return nil
}

// Login exchanges credentials for a token pair, persists it, and loads the
// profile. On any failure the session stays unauthenticated and the error is
// returned for the caller to display.
func (s *Store) Login(ctx context.Context, username, password string) error {
	s.op.Lock()
	defer s.op.Unlock()
	return s.login(ctx, username, password)
}

// login requires s.op to be held.
func (s *Store) login(ctx context.Context, username, password string) error {
	pair, err := s.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := s.tokens.Save(pair); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		_ = s.tokens.Clear()
		s.set(Snapshot{})
		return fmt.Errorf("fetch profile: %w", err)
	}

	s.set(Snapshot{User: &user, Authenticated: true})
	return nil
}

// Register submits a new account and, on success, logs straight in with the
// same credentials so the caller ends up authenticated without a second
// action. Validation failures pass through with their field structure intact.
func (s *Store) Register(ctx context.Context, payload api.RegisterPayload) error {
	s.op.Lock()
	defer s.op.Unlock()

	if _, err := s.client.Register(ctx, payload); err != nil {
		return err
	}
	return s.login(ctx, payload.Username, payload.Password)
}

// Logout clears both persisted tokens and resets to anonymous. It never
// fails; a clear error leaves nothing usable behind anyway.
func (s *Store) Logout() {
	s.op.Lock()
	defer s.op.Unlock()

	_ = s.tokens.Clear()
	s.set(Snapshot{})
}

// Invalidate is the cleanup path for 401 responses observed outside the
// session's own operations: same effect as a failed rehydrate.
func (s *Store) Invalidate() {
	s.Logout()
}

func (s *Store) set(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}
