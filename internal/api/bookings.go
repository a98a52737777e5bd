package api

import (
	"context"
	"fmt"
	"time"

	"github.com/ridebird/ride-cli/internal/domain"
)

type bookingPayload struct {
	ID        string      `json:"id"`
	TripID    string      `json:"trip_id"`
	Passenger userPayload `json:"passenger"`
	Seats     int         `json:"seats"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

func (p bookingPayload) toDomain() domain.Booking {
	return domain.Booking{
		ID:        domain.BookingID(p.ID),
		TripID:    domain.TripID(p.TripID),
		Passenger: p.Passenger.toDomain(),
		Seats:     p.Seats,
		Status:    domain.BookingStatus(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

type offerPayload struct {
	ID        string      `json:"id"`
	TripID    string      `json:"trip_id"`
	Passenger userPayload `json:"passenger"`
	Amount    float64     `json:"amount"`
	Currency  string      `json:"currency"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

func (p offerPayload) toDomain() domain.PriceOffer {
	return domain.PriceOffer{
		ID:        domain.OfferID(p.ID),
		TripID:    domain.TripID(p.TripID),
		Passenger: p.Passenger.toDomain(),
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    domain.OfferStatus(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

// RequestBooking asks for seats on a trip; the driver confirms or declines.
func (c *Client) RequestBooking(ctx context.Context, tripID domain.TripID, seats int) (domain.Booking, error) {
	body := map[string]any{"trip_id": string(tripID), "seats": seats}

	value, err := c.cache.Write(ctx, bookingMutationKey("request"), func(ctx context.Context) (any, error) {
		var payload bookingPayload
		if err := c.http.PostJSON(ctx, "/bookings", body, &payload); err != nil {
			return nil, err
		}
		return payload.toDomain(), nil
	})
	if err != nil {
		return domain.Booking{}, tripError("request booking", err)
	}

	return value.(domain.Booking), nil
}

func (c *Client) ConfirmBooking(ctx context.Context, id domain.BookingID) error {
	return c.bookingAction(ctx, id, "confirm")
}

func (c *Client) DeclineBooking(ctx context.Context, id domain.BookingID) error {
	return c.bookingAction(ctx, id, "decline")
}

func (c *Client) CancelBooking(ctx context.Context, id domain.BookingID) error {
	return c.bookingAction(ctx, id, "cancel")
}

func (c *Client) bookingAction(ctx context.Context, id domain.BookingID, action string) error {
	_, err := c.cache.Write(ctx, bookingMutationKey(action), func(ctx context.Context) (any, error) {
		return nil, c.http.PostJSON(ctx, fmt.Sprintf("/bookings/%s/%s", id, action), nil, nil)
	})
	if err != nil {
		return fmt.Errorf("%s booking: %w", action, err)
	}
	return nil
}

func (c *Client) TripBookings(ctx context.Context, tripID domain.TripID) ([]domain.Booking, error) {
	var payloads []bookingPayload
	if err := c.http.GetJSON(ctx, "/trips/"+string(tripID)+"/bookings", &payloads); err != nil {
		return nil, tripError("list trip bookings", err)
	}

	bookings := make([]domain.Booking, 0, len(payloads))
	for _, p := range payloads {
		bookings = append(bookings, p.toDomain())
	}
	return bookings, nil
}

func (c *Client) BookingsUnreadCount(ctx context.Context) (int, error) {
	value, err := c.cache.Get(ctx, BookingsUnreadKey(), func(ctx context.Context) (any, error) {
		var payload countPayload
		if err := c.http.GetJSON(ctx, "/bookings/unread-count", &payload); err != nil {
			return nil, err
		}
		return payload.Count, nil
	})
	if err != nil {
		return 0, fmt.Errorf("bookings unread count: %w", err)
	}

	return value.(int), nil
}

// SendOffer proposes a counter-price for a seat on a trip.
func (c *Client) SendOffer(ctx context.Context, tripID domain.TripID, amount float64) (domain.PriceOffer, error) {
	body := map[string]any{"trip_id": string(tripID), "amount": amount}

	value, err := c.cache.Write(ctx, offerMutationKey("send"), func(ctx context.Context) (any, error) {
		var payload offerPayload
		if err := c.http.PostJSON(ctx, "/offers", body, &payload); err != nil {
			return nil, err
		}
		return payload.toDomain(), nil
	})
	if err != nil {
		return domain.PriceOffer{}, fmt.Errorf("send offer: %w", err)
	}

	return value.(domain.PriceOffer), nil
}

func (c *Client) AcceptOffer(ctx context.Context, id domain.OfferID) error {
	return c.offerAction(ctx, id, "accept")
}

func (c *Client) DeclineOffer(ctx context.Context, id domain.OfferID) error {
	return c.offerAction(ctx, id, "decline")
}

func (c *Client) offerAction(ctx context.Context, id domain.OfferID, action string) error {
	_, err := c.cache.Write(ctx, offerMutationKey(action), func(ctx context.Context) (any, error) {
		return nil, c.http.PostJSON(ctx, fmt.Sprintf("/offers/%s/%s", id, action), nil, nil)
	})
	if err != nil {
		return fmt.Errorf("%s offer: %w", action, err)
	}
	return nil
}
