package domain

import "time"

type BookingID string

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingDeclined  BookingStatus = "declined"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID        BookingID
	TripID    TripID
	Passenger User
	Seats     int
	Status    BookingStatus
	CreatedAt time.Time
}

type OfferID string

type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferDeclined OfferStatus = "declined"
)

// PriceOffer is a passenger's counter-price for a seat on a trip.
type PriceOffer struct {
	ID        OfferID
	TripID    TripID
	Passenger User
	Amount    float64
	Currency  string
	Status    OfferStatus
	CreatedAt time.Time
}
