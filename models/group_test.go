package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridemeet/ridemeet/core"
	"github.com/ridemeet/ridemeet/models"
)

func newGroup(t *testing.T, createdBy int64) *models.Group {
	t.Helper()
	group, err := m.Groups.Create(createdBy, models.GroupInput{
		Name:        "Night Riders",
		Description: "after-work rides",
	})
	require.NoError(t, err)
	return group
}

func TestGroupLifecycle(t *testing.T) {
	needsDatabase(t)
	owner := newUser(t)
	viewer := newUser(t)
	group := newGroup(t, owner.ID)

	seen, err := m.Groups.Get(group.ID, viewer.ID)
	require.NoError(t, err)
	assert.False(t, seen.IsJoined)
	assert.False(t, seen.IsSaved)
	assert.Equal(t, 0, seen.MembersCount)

	_, err = m.GroupMembers.Add(viewer.ID, group.ID)
	require.NoError(t, err)
	_, err = m.GroupSaves.Add(viewer.ID, group.ID)
	require.NoError(t, err)

	seen, err = m.Groups.Get(group.ID, viewer.ID)
	require.NoError(t, err)
	assert.True(t, seen.IsJoined)
	assert.True(t, seen.IsSaved)
	assert.Equal(t, 1, seen.MembersCount)

	updated, err := m.Groups.Update(group.ID, owner.ID, models.GroupUpdate{Name: stringPtr("Dawn Riders")})
	require.NoError(t, err)
	assert.Equal(t, "Dawn Riders", updated.Name)
	assert.Equal(t, group.Description, updated.Description)

	require.NoError(t, m.Groups.Delete(group.ID))
	_, err = m.Groups.Get(group.ID, owner.ID)
	assert.True(t, core.IsNotFound(err))
	err = m.GroupMembers.Remove(viewer.ID, group.ID)
	assert.True(t, core.IsNotFound(err))
}

func TestGroupFiltersAndOrdering(t *testing.T) {
	needsDatabase(t)
	owner := newUser(t)
	viewer := newUser(t)
	small := newGroup(t, owner.ID)
	popular := newGroup(t, owner.ID)
	_, err := m.GroupMembers.Add(viewer.ID, popular.ID)
	require.NoError(t, err)
	_, err = m.GroupMembers.Add(owner.ID, popular.ID)
	require.NoError(t, err)
	_, err = m.GroupSaves.Add(viewer.ID, small.ID)
	require.NoError(t, err)

	// most members first
	groups, err := m.Groups.GetAll(viewer.ID, models.GroupFilter{CreatedBy: owner.ID})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, popular.ID, groups[0].ID)
	assert.Equal(t, 2, groups[0].MembersCount)
	assert.Equal(t, small.ID, groups[1].ID)

	joined, err := m.Groups.GetAll(viewer.ID, models.GroupFilter{Joined: true})
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Equal(t, popular.ID, joined[0].ID)

	saved, err := m.Groups.GetAll(viewer.ID, models.GroupFilter{Saved: true})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, small.ID, saved[0].ID)
}

func TestGroupAgenda(t *testing.T) {
	needsDatabase(t)
	owner := newUser(t)
	group := newGroup(t, owner.ID)
	event := newEvent(t, owner.ID)

	_, err := m.GroupEvents.Add(group.ID, event.ID)
	require.NoError(t, err)
	_, err = m.GroupEvents.Add(group.ID, event.ID)
	assert.True(t, core.IsBadRequest(err))

	ids, err := m.GroupEvents.ListEventIDs(group.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{event.ID}, ids)

	require.NoError(t, m.GroupEvents.Remove(group.ID, event.ID))
	assert.True(t, core.IsNotFound(m.GroupEvents.Remove(group.ID, event.ID)))
}
