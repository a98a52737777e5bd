package ports

import "context"

// ClientState is everything the client persists on the local device.
// UserJSON holds the serialized user record as received from the API.
type ClientState struct {
	AccessToken            string
	RefreshToken           string
	UserJSON               string
	Language               string
	DeletedAccountRedirect bool
	EmbeddedShell          bool
}

// StateStore persists ClientState. Implementations must degrade gracefully
// when the underlying storage is unavailable: Load returns a zero state and
// Save/Clear become no-ops rather than surfacing storage errors.
type StateStore interface {
	Load(ctx context.Context) (ClientState, error)
	Save(ctx context.Context, state ClientState) error
	Clear(ctx context.Context) error
}
