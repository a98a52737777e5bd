package domain

import "time"

type TripID string

type Trip struct {
	ID           TripID
	Driver       User
	Origin       string
	Destination  string
	DepartsAt    time.Time
	Seats        int
	SeatsTaken   int
	PricePerSeat float64
	Currency     string
	Comment      string
}

func (t Trip) SeatsFree() int {
	free := t.Seats - t.SeatsTaken
	if free < 0 {
		return 0
	}
	return free
}

type TripFilter struct {
	Origin      string
	Destination string
	Date        time.Time
	Seats       int
}

// TripDraft is the payload for posting a new trip.
type TripDraft struct {
	Origin       string
	Destination  string
	DepartsAt    time.Time
	Seats        int
	PricePerSeat float64
	Currency     string
	Comment      string
}
