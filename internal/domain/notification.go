package domain

import "time"

type NotificationID string

type NotificationKind string

const (
	NotificationBookingRequest   NotificationKind = "booking_request"
	NotificationBookingConfirmed NotificationKind = "booking_confirmed"
	NotificationBookingDeclined  NotificationKind = "booking_declined"
	NotificationOfferReceived    NotificationKind = "offer_received"
	NotificationOfferAccepted    NotificationKind = "offer_accepted"
	NotificationOfferDeclined    NotificationKind = "offer_declined"
)

type Notification struct {
	ID        NotificationID
	Kind      NotificationKind
	TripID    TripID
	Actor     User
	Body      string
	CreatedAt time.Time
	Read      bool
}
