package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ridebird/ride-cli/internal/domain"
	"github.com/ridebird/ride-cli/internal/transport"
)

type tripPayload struct {
	ID           string      `json:"id"`
	Driver       userPayload `json:"driver"`
	Origin       string      `json:"origin"`
	Destination  string      `json:"destination"`
	DepartsAt    time.Time   `json:"departs_at"`
	Seats        int         `json:"seats"`
	SeatsTaken   int         `json:"seats_taken"`
	PricePerSeat float64     `json:"price_per_seat"`
	Currency     string      `json:"currency"`
	Comment      string      `json:"comment"`
}

func (p tripPayload) toDomain() domain.Trip {
	return domain.Trip{
		ID:           domain.TripID(p.ID),
		Driver:       p.Driver.toDomain(),
		Origin:       p.Origin,
		Destination:  p.Destination,
		DepartsAt:    p.DepartsAt,
		Seats:        p.Seats,
		SeatsTaken:   p.SeatsTaken,
		PricePerSeat: p.PricePerSeat,
		Currency:     p.Currency,
		Comment:      p.Comment,
	}
}

func tripsToDomain(payloads []tripPayload) []domain.Trip {
	trips := make([]domain.Trip, 0, len(payloads))
	for _, p := range payloads {
		trips = append(trips, p.toDomain())
	}
	return trips
}

func searchPath(filter domain.TripFilter) string {
	query := url.Values{}
	if filter.Origin != "" {
		query.Set("origin", filter.Origin)
	}
	if filter.Destination != "" {
		query.Set("destination", filter.Destination)
	}
	if !filter.Date.IsZero() {
		query.Set("date", filter.Date.Format("2006-01-02"))
	}
	if filter.Seats > 0 {
		query.Set("seats", strconv.Itoa(filter.Seats))
	}

	path := "/trips"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return path
}

func (c *Client) SearchTrips(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, error) {
	value, err := c.cache.Get(ctx, TripsSearchKey(filter), func(ctx context.Context) (any, error) {
		var payloads []tripPayload
		if err := c.http.GetJSON(ctx, searchPath(filter), &payloads); err != nil {
			return nil, err
		}
		return tripsToDomain(payloads), nil
	})
	if err != nil {
		return nil, fmt.Errorf("search trips: %w", err)
	}

	return value.([]domain.Trip), nil
}

func (c *Client) MyTrips(ctx context.Context) ([]domain.Trip, error) {
	value, err := c.cache.Get(ctx, MyTripsKey(), func(ctx context.Context) (any, error) {
		var payloads []tripPayload
		if err := c.http.GetJSON(ctx, "/trips/mine", &payloads); err != nil {
			return nil, err
		}
		return tripsToDomain(payloads), nil
	})
	if err != nil {
		return nil, fmt.Errorf("list my trips: %w", err)
	}

	return value.([]domain.Trip), nil
}

func (c *Client) PostTrip(ctx context.Context, draft domain.TripDraft) (domain.Trip, error) {
	body := map[string]any{
		"origin":         draft.Origin,
		"destination":    draft.Destination,
		"departs_at":     draft.DepartsAt.Format(time.RFC3339),
		"seats":          draft.Seats,
		"price_per_seat": draft.PricePerSeat,
		"currency":       draft.Currency,
		"comment":        draft.Comment,
	}

	value, err := c.cache.Write(ctx, tripMutationKey("post"), func(ctx context.Context) (any, error) {
		var payload tripPayload
		if err := c.http.PostJSON(ctx, "/trips", body, &payload); err != nil {
			return nil, err
		}
		return payload.toDomain(), nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("post trip: %w", err)
	}

	return value.(domain.Trip), nil
}

func (c *Client) DeleteTrip(ctx context.Context, id domain.TripID) error {
	_, err := c.cache.Write(ctx, tripMutationKey("delete"), func(ctx context.Context) (any, error) {
		return nil, c.http.DeleteJSON(ctx, "/trips/"+string(id), nil, nil)
	})
	if err != nil {
		return tripError("delete trip", err)
	}
	return nil
}

// tripError maps a 404 from a trip-scoped endpoint onto the domain sentinel:
// the trip was deleted or never existed, and callers handle that differently
// from transport failures.
func tripError(verb string, err error) error {
	var apiErr *transport.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("%s: %w", verb, domain.ErrTripNotFound)
	}
	return fmt.Errorf("%s: %w", verb, err)
}
