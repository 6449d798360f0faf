package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/hemant-crossml/LMS-assignment/internal/api"
	"github.com/hemant-crossml/LMS-assignment/internal/creds"
)

// fakeService simulates the auth slice of the remote API: one existing
// account (alice/secret) whose access token is acc-alice, registration that
// rejects duplicate usernames, and bearer-checked profile reads.
func fakeService(t *testing.T, requests *atomic.Int64) *httptest.Server {
	t.Helper()

	accounts := map[string]string{"alice": "secret"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/login/":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if pw, ok := accounts[body["username"]]; ok && pw == body["password"] {
				_ = json.NewEncoder(w).Encode(api.TokenPair{
					Access:  "acc-" + body["username"],
					Refresh: "ref-" + body["username"],
				})
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "No active account found with the given credentials"}`))

		case "/users/":
			var payload api.RegisterPayload
			_ = json.NewDecoder(r.Body).Decode(&payload)
			if _, taken := accounts[payload.Username]; taken {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"username": ["A user with that username already exists."]}`))
				return
			}
			accounts[payload.Username] = payload.Password
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(api.User{ID: 2, Username: payload.Username})

		case "/users/me/":
			auth := r.Header.Get("Authorization")
			for username := range accounts {
				if auth == "Bearer acc-"+username {
					_ = json.NewEncoder(w).Encode(api.User{ID: 1, Username: username, FirstName: "Test"})
					return
				}
			}
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "Given token not valid for any token type"}`))

		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newStore(t *testing.T, serverURL string) (*Store, *creds.Store) {
	t.Helper()
	tokens, err := creds.Open(filepath.Join(t.TempDir(), "credentials.toml"))
	if err != nil {
		t.Fatalf("open creds: %v", err)
	}
	client, err := api.NewClient(serverURL, tokens, 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return New(client, tokens), tokens
}

func TestStore_StartsLoading(t *testing.T) {
	server := fakeService(t, nil)
	s, _ := newStore(t, server.URL)

	snap := s.Snapshot()
	if !snap.Loading || snap.Authenticated || snap.User != nil {
		t.Fatalf("initial snapshot = %+v, want loading anonymous", snap)
	}
}

func TestRehydrate_NoTokenSkipsNetwork(t *testing.T) {
	var requests atomic.Int64
	server := fakeService(t, &requests)
	s, _ := newStore(t, server.URL)

	if err := s.Rehydrate(context.Background()); err != nil {
		t.Fatalf("Rehydrate returned error: %v", err)
	}
	if got := requests.Load(); got != 0 {
		t.Fatalf("rehydrate without token issued %d requests, want 0", got)
	}
	snap := s.Snapshot()
	if snap.Loading || snap.Authenticated || snap.User != nil {
		t.Fatalf("snapshot = %+v, want resolved anonymous", snap)
	}
}

func TestLoginThenLogout_EndsAnonymousWithoutTokens(t *testing.T) {
	server := fakeService(t, nil)
	s, tokens := newStore(t, server.URL)

	if err := s.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	snap := s.Snapshot()
	if !snap.Authenticated || snap.User == nil || snap.User.Username != "alice" {
		t.Fatalf("snapshot after login = %+v, want authenticated alice", snap)
	}
	if !tokens.HasToken() {
		t.Fatal("tokens not persisted after login")
	}

	s.Logout()
	snap = s.Snapshot()
	if snap.Authenticated || snap.User != nil {
		t.Fatalf("snapshot after logout = %+v, want anonymous", snap)
	}
	if tokens.HasToken() {
		t.Fatal("tokens still present after logout")
	}
}

func TestRehydrate_ValidTokenMatchesFreshLogin(t *testing.T) {
	server := fakeService(t, nil)

	login, _ := newStore(t, server.URL)
	if err := login.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	want := login.Snapshot()

	path := filepath.Join(t.TempDir(), "credentials.toml")
	tokens, err := creds.Open(path)
	if err != nil {
		t.Fatalf("open creds: %v", err)
	}
	if err := tokens.Save(api.TokenPair{Access: "acc-alice", Refresh: "ref-alice"}); err != nil {
		t.Fatalf("seed tokens: %v", err)
	}
	client, err := api.NewClient(server.URL, tokens, 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	s := New(client, tokens)

	if err := s.Rehydrate(context.Background()); err != nil {
		t.Fatalf("Rehydrate returned error: %v", err)
	}
	got := s.Snapshot()
	if !got.Authenticated || got.User == nil {
		t.Fatalf("snapshot = %+v, want authenticated", got)
	}
	if got.User.Username != want.User.Username || got.User.ID != want.User.ID {
		t.Fatalf("rehydrated user = %+v, want %+v", got.User, want.User)
	}
}

func TestRehydrate_InvalidTokenClearsPair(t *testing.T) {
	server := fakeService(t, nil)

	tokens, err := creds.Open(filepath.Join(t.TempDir(), "credentials.toml"))
	if err != nil {
		t.Fatalf("open creds: %v", err)
	}
	if err := tokens.Save(api.TokenPair{Access: "acc-expired", Refresh: "ref-expired"}); err != nil {
		t.Fatalf("seed tokens: %v", err)
	}
	client, err := api.NewClient(server.URL, tokens, 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	s := New(client, tokens)

	if err := s.Rehydrate(context.Background()); err == nil {
		t.Fatal("Rehydrate returned nil error for invalid token")
	}
	snap := s.Snapshot()
	if snap.Loading || snap.Authenticated || snap.User != nil {
		t.Fatalf("snapshot = %+v, want resolved anonymous", snap)
	}
	if tokens.HasToken() {
		t.Fatal("invalid token pair should be discarded")
	}
}

func TestLogin_BadCredentialsSurfaceError(t *testing.T) {
	server := fakeService(t, nil)
	s, tokens := newStore(t, server.URL)

	err := s.Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatal("Login returned nil error for bad credentials")
	}
	if !api.IsUnauthorized(err) {
		t.Fatalf("Login error = %v, want unauthorized", err)
	}
	if s.Snapshot().Authenticated {
		t.Fatal("session authenticated after failed login")
	}
	if tokens.HasToken() {
		t.Fatal("tokens persisted after failed login")
	}
}

func TestRegister_DuplicateUsernameNamesField(t *testing.T) {
	server := fakeService(t, nil)
	s, _ := newStore(t, server.URL)

	err := s.Register(context.Background(), api.RegisterPayload{Username: "alice", Password: "pw"})
	if err == nil {
		t.Fatal("Register returned nil error for duplicate username")
	}
	ve, ok := api.AsValidationError(err)
	if !ok {
		t.Fatalf("Register error = %T (%v), want *api.ValidationError", err, err)
	}
	if ve.First("username") == "" {
		t.Fatalf("validation error fields = %v, want username named", ve.Fields)
	}
	if s.Snapshot().Authenticated {
		t.Fatal("session authenticated after failed registration")
	}
}

func TestRegister_SuccessChainsIntoLogin(t *testing.T) {
	server := fakeService(t, nil)
	s, tokens := newStore(t, server.URL)

	err := s.Register(context.Background(), api.RegisterPayload{Username: "bob", Password: "pw123456"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	snap := s.Snapshot()
	if !snap.Authenticated || snap.User == nil || snap.User.Username != "bob" {
		t.Fatalf("snapshot after register = %+v, want authenticated bob", snap)
	}
	if !tokens.HasToken() {
		t.Fatal("tokens not persisted after register")
	}
}

func TestInvalidate_BehavesLikeFailedRehydrate(t *testing.T) {
	server := fakeService(t, nil)
	s, tokens := newStore(t, server.URL)

	if err := s.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	s.Invalidate()
	if s.Snapshot().Authenticated {
		t.Fatal("session authenticated after Invalidate")
	}
	if tokens.HasToken() {
		t.Fatal("tokens present after Invalidate")
	}
}
