package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// ErrNetworkUnreachable covers every request that never produced a response,
// regardless of the underlying cause (DNS, refused connection, reset, ...).
var ErrNetworkUnreachable = errors.New("network unreachable")

// APIError is any non-2xx response. Message prefers server-supplied text
// over a generic fallback so views can show localized server messages.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.Status)
	}
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func apiErrorFromResponse(status int, body []byte) error {
	var parsed errorBody
	_ = json.Unmarshal(body, &parsed)

	message := parsed.Message
	if message == "" {
		message = parsed.Error
	}
	if message == "" {
		message = strings.TrimSpace(string(body))
	}

	return &APIError{Status: status, Message: message}
}
