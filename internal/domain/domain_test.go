package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserFullName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Mara Ilves", User{FirstName: "Mara", LastName: "Ilves"}.FullName())
	assert.Equal(t, "Mara", User{FirstName: "Mara"}.FullName())
	assert.Equal(t, "Ilves", User{LastName: "Ilves"}.FullName())
	assert.Empty(t, User{}.FullName())
}

func TestTripSeatsFree(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, Trip{Seats: 3, SeatsTaken: 1}.SeatsFree())
	assert.Equal(t, 0, Trip{Seats: 3, SeatsTaken: 3}.SeatsFree())
	assert.Equal(t, 0, Trip{Seats: 2, SeatsTaken: 5}.SeatsFree(), "overbooked trips never report negative seats")
}
