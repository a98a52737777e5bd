package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/ridebird/ride-cli/internal/domain"
	"github.com/ridebird/ride-cli/internal/ports"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTokens struct {
	mu      sync.Mutex
	pair    domain.TokenPair
	cleared atomic.Int32
}

func (m *memTokens) Tokens() domain.TokenPair {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair
}

func (m *memTokens) SetAccessToken(_ context.Context, token string) error {
	m.mu.Lock()
	m.pair.AccessToken = token
	m.mu.Unlock()
	return nil
}

func (m *memTokens) Clear(_ context.Context) error {
	m.mu.Lock()
	m.pair = domain.TokenPair{}
	m.mu.Unlock()
	m.cleared.Add(1)
	return nil
}

func newTestClient(t *testing.T, serverURL string, tokens *memTokens, redirects *atomic.Int32) *Client {
	t.Helper()

	nav := ports.NavigatorFunc(func() {
		if redirects != nil {
			redirects.Add(1)
		}
	})
	return New(serverURL, http.DefaultClient, tokens, nav, zerolog.Nop())
}

func TestDoAttachesBearerToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("Idempotency-Key"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(server.Close)

	tokens := &memTokens{pair: domain.TokenPair{AccessToken: "access-1"}}
	client := newTestClient(t, server.URL, tokens, nil)

	data, err := client.Do(context.Background(), http.MethodGet, "/rides", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestMutationCarriesIdempotencyKeyAcrossReplay(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		keys []string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/bookings", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"fresh"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	tokens := &memTokens{pair: domain.TokenPair{AccessToken: "expired", RefreshToken: "refresh-1"}}
	client := newTestClient(t, server.URL, tokens, nil)

	_, err := client.Do(context.Background(), http.MethodPost, "/bookings", map[string]int{"seats": 2})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, keys, 2)
	assert.NotEmpty(t, keys[0])
	assert.Equal(t, keys[0], keys[1])
}

func TestUnauthorizedRefreshesOnceAndReplays(t *testing.T) {
	t.Parallel()

	var refreshes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/chats", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"chat-1"}]`))
	})
	mux.HandleFunc("/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		var body refreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-1", body.RefreshToken)
		_, _ = w.Write([]byte(`{"access_token":"fresh"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	tokens := &memTokens{pair: domain.TokenPair{AccessToken: "expired", RefreshToken: "refresh-1"}}
	client := newTestClient(t, server.URL, tokens, nil)

	data, err := client.Do(context.Background(), http.MethodGet, "/chats", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"chat-1"}]`, string(data))
	assert.Equal(t, int32(1), refreshes.Load())
	assert.Equal(t, "fresh", tokens.Tokens().AccessToken)
	assert.Equal(t, "refresh-1", tokens.Tokens().RefreshToken)
}

func TestConcurrentUnauthorizedSharesOneRefresh(t *testing.T) {
	t.Parallel()

	const callers = 8

	var refreshes, rejected atomic.Int32
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			// Hold the shared exchange until every caller has been
			// rejected, so all of them queue on the same flight.
			if rejected.Add(1) == callers {
				close(release)
			}
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		refreshes.Add(1)
		<-release
		_, _ = w.Write([]byte(`{"access_token":"fresh"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	tokens := &memTokens{pair: domain.TokenPair{AccessToken: "expired", RefreshToken: "refresh-1"}}
	client := newTestClient(t, server.URL, tokens, nil)

	var finished sync.WaitGroup
	finished.Add(callers)
	errs := make([]error, callers)
	for i := range callers {
		go func() {
			defer finished.Done()
			_, errs[i] = client.Do(context.Background(), http.MethodGet, "/notifications", nil)
		}()
	}
	finished.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), refreshes.Load())
}

func TestAuthEndpointUnauthorizedIsNotRefreshed(t *testing.T) {
	t.Parallel()

	var refreshes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"wrong password"}`))
	})
	mux.HandleFunc("/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		refreshes.Add(1)
		_, _ = w.Write([]byte(`{"access_token":"fresh"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	tokens := &memTokens{pair: domain.TokenPair{AccessToken: "expired", RefreshToken: "refresh-1"}}
	client := newTestClient(t, server.URL, tokens, nil)

	_, err := client.Do(context.Background(), http.MethodPost, "/login", map[string]string{"phone": "+4479"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "wrong password")
	assert.Zero(t, refreshes.Load())
}

func TestReplayIsAttemptedAtMostOnce(t *testing.T) {
	t.Parallel()

	var requests, refreshes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/trips", func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		refreshes.Add(1)
		_, _ = w.Write([]byte(`{"access_token":"still-rejected"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	tokens := &memTokens{pair: domain.TokenPair{AccessToken: "expired", RefreshToken: "refresh-1"}}
	client := newTestClient(t, server.URL, tokens, nil)

	_, err := client.Do(context.Background(), http.MethodGet, "/trips", nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(2), requests.Load())
	assert.Equal(t, int32(1), refreshes.Load())
}

func TestMissingRefreshTokenSkipsRefresh(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	tokens := &memTokens{pair: domain.TokenPair{AccessToken: "expired"}}
	client := newTestClient(t, server.URL, tokens, nil)

	_, err := client.Do(context.Background(), http.MethodGet, "/trips", nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), requests.Load())
}

func TestFailedRefreshExpiresSession(t *testing.T) {
	t.Parallel()

	var redirects atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/chats", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"refresh token revoked"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	tokens := &memTokens{pair: domain.TokenPair{AccessToken: "expired", RefreshToken: "revoked"}}
	client := newTestClient(t, server.URL, tokens, &redirects)

	_, err := client.Do(context.Background(), http.MethodGet, "/chats", nil)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, int32(1), tokens.cleared.Load())
	assert.Equal(t, int32(1), redirects.Load())
	assert.Empty(t, tokens.Tokens().AccessToken)
}

func TestNetworkFailureIsNormalized(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	tokens := &memTokens{}
	client := newTestClient(t, server.URL, tokens, nil)

	_, err := client.Do(context.Background(), http.MethodGet, "/trips", nil)
	require.ErrorIs(t, err, ErrNetworkUnreachable)
}

func TestCancelledContextIsNotNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(t, server.URL, &memTokens{}, nil)

	_, err := client.Do(ctx, http.MethodGet, "/trips", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNetworkUnreachable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetJSONDecodesResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"count":7}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL, &memTokens{}, nil)

	var out struct {
		Count int `json:"count"`
	}
	require.NoError(t, client.GetJSON(context.Background(), "/notifications/unread", &out))
	assert.Equal(t, 7, out.Count)
}

func TestIsAuthEndpoint(t *testing.T) {
	t.Parallel()

	assert.True(t, isAuthEndpoint("/login"))
	assert.True(t, isAuthEndpoint("/auth/verify"))
	assert.True(t, isAuthEndpoint("/reset-password/step-two"))
	assert.True(t, isAuthEndpoint("/delete-account/by-credentials"))
	assert.True(t, isAuthEndpoint("/refresh-token"))
	assert.False(t, isAuthEndpoint("/trips"))
	assert.False(t, isAuthEndpoint("/chats/unread"))
}
