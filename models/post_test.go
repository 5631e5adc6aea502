package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridemeet/ridemeet/core"
	"github.com/ridemeet/ridemeet/models"
)

func TestEventPosts(t *testing.T) {
	needsDatabase(t)
	owner := newUser(t)
	author := newUser(t)
	event := newEvent(t, owner.ID)
	otherEvent := newEvent(t, owner.ID)

	first, err := m.EventPosts.Create(author.ID, event.ID, "who brings the pump?")
	require.NoError(t, err)
	assert.Equal(t, author.FirstName, first.FirstName)
	second, err := m.EventPosts.Create(owner.ID, event.ID, "I do")
	require.NoError(t, err)

	// newest first
	posts, err := m.EventPosts.List(event.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)

	// a post cannot be reached through another event
	_, err = m.EventPosts.Get(otherEvent.ID, first.ID)
	assert.True(t, core.IsNotFound(err))

	updated, err := m.EventPosts.Update(event.ID, first.ID, "who brings a spare tube?")
	require.NoError(t, err)
	assert.Equal(t, "who brings a spare tube?", updated.Text)
	assert.True(t, updated.UpdatedAt.After(first.UpdatedAt) || updated.UpdatedAt.Equal(first.UpdatedAt))

	ownerID, err := m.EventPosts.Owner(event.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, ownerID)

	require.NoError(t, m.EventPosts.Delete(event.ID, first.ID))
	assert.True(t, core.IsNotFound(m.EventPosts.Delete(event.ID, first.ID)))
}

func TestGroupPosts(t *testing.T) {
	needsDatabase(t)
	owner := newUser(t)
	group := newGroup(t, owner.ID)

	post, err := m.GroupPosts.Create(owner.ID, group.ID, "ride this friday?")
	require.NoError(t, err)

	posts, err := m.GroupPosts.List(group.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	_, err = m.GroupPosts.Update(group.ID, post.ID, "ride this saturday?")
	require.NoError(t, err)
	require.NoError(t, m.GroupPosts.Delete(group.ID, post.ID))
}

func TestLocationReviews(t *testing.T) {
	needsDatabase(t)
	admin := newUser(t)
	reviewer := newUser(t)
	location := newLocation(t, admin.ID, "Canal Path")

	review, err := m.LocationReviews.Create(reviewer.ID, location.ID, "smooth tarmac", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rate)
	assert.Equal(t, reviewer.FirstName, review.FirstName)

	// rate-only update keeps the text
	updated, err := m.LocationReviews.Update(location.ID, review.ID, models.ReviewUpdate{Rate: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rate)
	assert.Equal(t, "smooth tarmac", updated.Text)

	_, err = m.LocationReviews.Update(location.ID, review.ID, models.ReviewUpdate{})
	assert.True(t, core.IsBadRequest(err))

	reviews, err := m.LocationReviews.List(location.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	require.NoError(t, m.LocationReviews.Delete(location.ID, review.ID))
	assert.True(t, core.IsNotFound(m.LocationReviews.Delete(location.ID, review.ID)))
}
