package domain

// TokenPair is the access/refresh pair issued by the API. Tokens are opaque
// to the client; expiry is discovered reactively through 401 responses.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// PendingRequestKind names the mutation a user has composed but not yet
// confirmed in the secondary prompt.
type PendingRequestKind string

const (
	PendingBooking PendingRequestKind = "booking"
	PendingOffer   PendingRequestKind = "offer"
)

// PendingRequest is held between form submission and confirmation, and
// discarded on cancel or once the mutation settles.
type PendingRequest struct {
	Kind   PendingRequestKind
	TripID TripID
	Seats  int
	Amount float64
}
