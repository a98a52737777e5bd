package api

import (
	"github.com/ridebird/ride-cli/internal/cache"
	"github.com/ridebird/ride-cli/internal/transport"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production API host; override with RIDE_API_URL.
const DefaultBaseURL = "https://api.ridebird.app"

// Client is the typed Ridebird API surface. Reads go through the cache
// store, mutations go through Write so the invalidation policy applies.
type Client struct {
	http  *transport.Client
	cache *cache.Store
	log   zerolog.Logger
}

func New(http *transport.Client, store *cache.Store, log zerolog.Logger) *Client {
	return &Client{http: http, cache: store, log: log}
}

// Cache exposes the underlying store for subscription-driven views.
func (c *Client) Cache() *cache.Store {
	return c.cache
}

type countPayload struct {
	Count int `json:"count"`
}
