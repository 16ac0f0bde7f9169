package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailbook/backend/internal/domain"
	"github.com/pkordes/trailbook/backend/internal/service"
)

func TestExportService_Export_OneRowPerEntry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	trip := e.addTrip(t, "Coastal Drive", day(2025, 1, 10), true)
	steps := 8000
	where := "Monterey"
	for _, entry := range []domain.DayEntry{
		{TripID: trip.ID, Date: day(2025, 1, 12), PhotoURLs: []string{"https://x/2.jpg"}},
		{TripID: trip.ID, Date: day(2025, 1, 11), Steps: &steps, Location: &where,
			Moments: []domain.Moment{{Prompt: "Meal?", Response: "Tacos"}, {Prompt: "Who?", Response: "A ranger"}}},
	} {
		_, err := e.days.Create(ctx, entry)
		require.NoError(t, err)
	}

	rows, err := service.NewExportService(e.trips, e.days).Export(ctx, e.sess, trip.ID)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "Coastal Drive", r.TripTitle)
		assert.Equal(t, "2025-01-10", r.TripStartDate)
		assert.Empty(t, r.TripEndDate)
	}
	assert.Equal(t, "2025-01-11", rows[0].EntryDate)
	assert.Equal(t, "Monterey", rows[0].Location)
	require.NotNil(t, rows[0].Steps)
	assert.Equal(t, 8000, *rows[0].Steps)
	assert.Equal(t, []string{"Meal?: Tacos", "Who?: A ranger"}, rows[0].Moments)
	assert.Equal(t, "2025-01-12", rows[1].EntryDate)
	assert.Equal(t, []string{"https://x/2.jpg"}, rows[1].PhotoURLs)
}

func TestExportService_Export_TripWithNoEntries(t *testing.T) {
	e := newEnv(t)
	trip := e.addTrip(t, "Quiet", day(2025, 1, 10), false)

	rows, err := service.NewExportService(e.trips, e.days).Export(context.Background(), e.sess, trip.ID)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Quiet", rows[0].TripTitle)
	assert.Empty(t, rows[0].EntryDate)
	assert.Nil(t, rows[0].Steps)
}

func TestExportService_Export_NotOwner(t *testing.T) {
	e := newEnv(t)
	trip := e.addTrip(t, "Mine", day(2025, 1, 10), false)

	_, err := service.NewExportService(e.trips, e.days).Export(context.Background(), e.sessionFor(uuid.New()), trip.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportService_Export_UnknownTrip(t *testing.T) {
	e := newEnv(t)

	_, err := service.NewExportService(e.trips, e.days).Export(context.Background(), e.sess, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
