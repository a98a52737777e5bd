package domain

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired")
	ErrTripNotFound     = errors.New("trip not found")
	ErrStateUnavailable = errors.New("client state unavailable")
)
