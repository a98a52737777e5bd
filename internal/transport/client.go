package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/ridebird/ride-cli/internal/domain"
	"github.com/ridebird/ride-cli/internal/ports"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	maxResponseBytes = 1 << 20
	// A request gets at most one replay after a successful token refresh.
	maxRetries = 1
)

// authEndpoints never trigger a token refresh on 401: a 401 from one of
// these means the credentials themselves were rejected.
var authEndpoints = []string{
	"/login",
	"/register",
	"/verify",
	"/auth/start",
	"/auth/verify",
	"/reset-password/step-one",
	"/reset-password/step-two",
	"/delete-account/by-credentials",
	"/refresh-token",
}

func isAuthEndpoint(path string) bool {
	for _, endpoint := range authEndpoints {
		if strings.Contains(path, endpoint) {
			return true
		}
	}
	return false
}

// TokenSource owns the token pair the client attaches and refreshes.
type TokenSource interface {
	Tokens() domain.TokenPair
	SetAccessToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Client executes authenticated API calls. On a 401 outside the auth
// endpoints it performs a single-flight refresh-token exchange and replays
// the original request once.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	nav     ports.Navigator
	log     zerolog.Logger
	refresh singleflight.Group
}

func New(baseURL string, httpClient *http.Client, tokens TokenSource, nav ports.Navigator, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		nav:     nav,
		log:     log,
	}
}

// Do executes one request and returns the raw response body. Mutating
// methods carry a client-generated idempotency key that survives the
// post-refresh replay.
func (c *Client) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	idempotencyKey := ""
	if method != http.MethodGet && method != http.MethodHead {
		idempotencyKey = uuid.NewString()
	}

	return c.do(ctx, method, path, body, idempotencyKey, 0)
}

func (c *Client) do(ctx context.Context, method, path string, body any, idempotencyKey string, attempt int) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		request.Header.Set("Idempotency-Key", idempotencyKey)
	}
	if token := c.tokens.Tokens().AccessToken; token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.http.Do(request)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}
	defer func() { _ = response.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if response.StatusCode >= http.StatusOK && response.StatusCode < http.StatusMultipleChoices {
		return data, nil
	}

	if c.shouldRefresh(response.StatusCode, path, attempt) {
		if err := c.refreshTokens(ctx); err != nil {
			return nil, err
		}
		return c.do(ctx, method, path, body, idempotencyKey, attempt+1)
	}

	return nil, apiErrorFromResponse(response.StatusCode, data)
}

func (c *Client) shouldRefresh(status int, path string, attempt int) bool {
	return status == http.StatusUnauthorized &&
		!isAuthEndpoint(path) &&
		attempt < maxRetries &&
		c.tokens.Tokens().RefreshToken != ""
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

// refreshTokens exchanges the refresh token for a new access token. The
// exchange is globally single-flight: concurrent 401s share one outcome, so
// a second exchange can never invalidate the first's new token.
func (c *Client) refreshTokens(ctx context.Context) error {
	_, err, _ := c.refresh.Do("refresh", func() (any, error) {
		return nil, c.exchangeRefreshToken(ctx)
	})
	return err
}

func (c *Client) exchangeRefreshToken(ctx context.Context) error {
	refreshToken := c.tokens.Tokens().RefreshToken
	if refreshToken == "" {
		return &APIError{Status: http.StatusUnauthorized, Message: "no refresh token"}
	}

	payload, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return fmt.Errorf("encode refresh request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/refresh-token", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create refresh request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.http.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}
	defer func() { _ = response.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read refresh response: %w", err)
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		c.expireSession(ctx)
		return fmt.Errorf("refresh token exchange: %w: %w", domain.ErrSessionExpired, apiErrorFromResponse(response.StatusCode, data))
	}

	var parsed refreshResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		c.expireSession(ctx)
		return fmt.Errorf("%w: decode refresh response: %v", domain.ErrSessionExpired, err)
	}
	if parsed.AccessToken == "" {
		c.expireSession(ctx)
		return fmt.Errorf("%w: refresh response missing access_token", domain.ErrSessionExpired)
	}

	if err := c.tokens.SetAccessToken(ctx, parsed.AccessToken); err != nil {
		return fmt.Errorf("store refreshed access token: %w", err)
	}

	c.log.Debug().Msg("access token refreshed")
	return nil
}

func (c *Client) expireSession(ctx context.Context) {
	if err := c.tokens.Clear(ctx); err != nil {
		c.log.Debug().Err(err).Msg("clear tokens after failed refresh")
	}
	if c.nav != nil {
		c.nav.RedirectToLogin()
	}
}

// GetJSON issues a GET and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// PostJSON issues a POST with a JSON body and decodes the response into out.
// Pass nil for out to discard the response body.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) PutJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

func (c *Client) DeleteJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	data, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
