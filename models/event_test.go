package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridemeet/ridemeet/core"
	"github.com/ridemeet/ridemeet/models"
)

func newEvent(t *testing.T, createdBy int64) *models.Event {
	t.Helper()
	event, err := m.Events.Create(createdBy, models.EventInput{
		Title:       "Sunday Gravel Ride",
		Description: "45km, moderate pace",
		Date:        time.Now().Add(72 * time.Hour).UTC(),
		Location:    "Old Mill parking lot",
	})
	require.NoError(t, err)
	return event
}

func TestEventLifecycle(t *testing.T) {
	needsDatabase(t)
	owner := newUser(t)
	viewer := newUser(t)
	event := newEvent(t, owner.ID)

	assert.Equal(t, owner.ID, event.CreatedBy)
	assert.Equal(t, owner.FirstName, event.FirstName)

	seen, err := m.Events.Get(event.ID, viewer.ID)
	require.NoError(t, err)
	assert.False(t, seen.IsSaved)
	assert.False(t, seen.IsAttending)
	assert.Equal(t, 0, seen.AttendeesCount)

	// relationship flags are per viewer, the count is global
	_, err = m.EventAttendees.Add(viewer.ID, event.ID)
	require.NoError(t, err)
	_, err = m.EventSaves.Add(viewer.ID, event.ID)
	require.NoError(t, err)

	seen, err = m.Events.Get(event.ID, viewer.ID)
	require.NoError(t, err)
	assert.True(t, seen.IsSaved)
	assert.True(t, seen.IsAttending)
	assert.Equal(t, 1, seen.AttendeesCount)

	seenByOwner, err := m.Events.Get(event.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, seenByOwner.IsSaved)
	assert.False(t, seenByOwner.IsAttending)
	assert.Equal(t, 1, seenByOwner.AttendeesCount)

	updated, err := m.Events.Update(event.ID, owner.ID, models.EventUpdate{Title: stringPtr("Sunday Gravel Ride v2")})
	require.NoError(t, err)
	assert.Equal(t, "Sunday Gravel Ride v2", updated.Title)
	assert.Equal(t, event.Description, updated.Description)

	require.NoError(t, m.Events.Delete(event.ID))
	_, err = m.Events.Get(event.ID, owner.ID)
	assert.True(t, core.IsNotFound(err))
	// attendance went with the event
	err = m.EventAttendees.Remove(viewer.ID, event.ID)
	assert.True(t, core.IsNotFound(err))
}

func TestEventFilters(t *testing.T) {
	needsDatabase(t)
	owner := newUser(t)
	viewer := newUser(t)

	past, err := m.Events.Create(owner.ID, models.EventInput{
		Title: "Past Ride", Description: "d", Location: "l",
		Date: time.Now().Add(-24 * time.Hour).UTC(),
	})
	require.NoError(t, err)
	future, err := m.Events.Create(owner.ID, models.EventInput{
		Title: "Future Ride", Description: "d", Location: "l",
		Date: time.Now().Add(24 * time.Hour).UTC(),
	})
	require.NoError(t, err)
	_, err = m.EventSaves.Add(viewer.ID, future.ID)
	require.NoError(t, err)
	_, err = m.EventAttendees.Add(viewer.ID, past.ID)
	require.NoError(t, err)

	saved, err := m.Events.GetAll(viewer.ID, models.EventFilter{Saved: true})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, future.ID, saved[0].ID)

	attending, err := m.Events.GetAll(viewer.ID, models.EventFilter{Attending: true})
	require.NoError(t, err)
	require.Len(t, attending, 1)
	assert.Equal(t, past.ID, attending[0].ID)

	now := time.Now().UTC()
	upcoming, err := m.Events.GetAll(viewer.ID, models.EventFilter{CreatedBy: owner.ID, From: &now})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, future.ID, upcoming[0].ID)

	// newest date first
	mine, err := m.Events.GetAll(viewer.ID, models.EventFilter{CreatedBy: owner.ID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, future.ID, mine[0].ID)
	assert.Equal(t, past.ID, mine[1].ID)
}

func TestEventGetByIDs(t *testing.T) {
	needsDatabase(t)
	owner := newUser(t)
	first := newEvent(t, owner.ID)
	second := newEvent(t, owner.ID)

	events, err := m.Events.GetByIDs([]int64{first.ID, second.ID, 999999999}, owner.ID)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = m.Events.GetByIDs([]int64{}, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventUpdateNoData(t *testing.T) {
	needsDatabase(t)
	owner := newUser(t)
	event := newEvent(t, owner.ID)
	_, err := m.Events.Update(event.ID, owner.ID, models.EventUpdate{})
	assert.True(t, core.IsBadRequest(err))
}
