package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridemeet/ridemeet/core"
	"github.com/ridemeet/ridemeet/models"
)

func TestSignupAndAuthenticate(t *testing.T) {
	needsDatabase(t)
	user := newUser(t)
	assert.Equal(t, "Jay", user.FirstName)
	assert.False(t, user.IsAdmin)
	assert.Nil(t, user.DeactivatedAt)

	authenticated, err := m.Users.Authenticate(user.Email, "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)

	_, err = m.Users.Authenticate(user.Email, "wrong")
	assert.True(t, core.IsUnauthorized(err))

	_, err = m.Users.Authenticate("nobody@test.ridemeet.com", "secret")
	assert.True(t, core.IsUnauthorized(err))
}

func TestSignupDuplicateEmail(t *testing.T) {
	needsDatabase(t)
	user := newUser(t)
	_, err := m.Users.Signup(models.SignupInput{
		FirstName: "Other",
		LastName:  "Rider",
		Email:     user.Email,
		Password:  "secret",
	})
	require.Error(t, err)
	assert.True(t, core.IsBadRequest(err))
	assert.Contains(t, err.Error(), user.Email)
}

func TestUserUpdatePartial(t *testing.T) {
	needsDatabase(t)
	user := newUser(t)

	updated, err := m.Users.Update(user.ID, models.UserUpdate{Bio: stringPtr("gravel all day")})
	require.NoError(t, err)
	assert.Equal(t, "gravel all day", updated.Bio)
	// untouched fields survive
	assert.Equal(t, user.FirstName, updated.FirstName)
	assert.Equal(t, user.Email, updated.Email)

	// a new password is re-hashed, the old one stops working
	_, err = m.Users.Update(user.ID, models.UserUpdate{Password: stringPtr("changed")})
	require.NoError(t, err)
	_, err = m.Users.Authenticate(user.Email, "secret")
	assert.True(t, core.IsUnauthorized(err))
	_, err = m.Users.Authenticate(user.Email, "changed")
	assert.NoError(t, err)
}

func TestUserUpdateNoData(t *testing.T) {
	needsDatabase(t)
	user := newUser(t)
	_, err := m.Users.Update(user.ID, models.UserUpdate{})
	assert.True(t, core.IsBadRequest(err))
}

func TestUserUpdateDuplicateEmail(t *testing.T) {
	needsDatabase(t)
	user := newUser(t)
	other := newUser(t)
	_, err := m.Users.Update(user.ID, models.UserUpdate{Email: &other.Email})
	assert.True(t, core.IsBadRequest(err))
}

func TestUserDeactivate(t *testing.T) {
	needsDatabase(t)
	user := newUser(t)

	deactivated, err := m.Users.Deactivate(user.ID)
	require.NoError(t, err)
	require.NotNil(t, deactivated.DeactivatedAt)

	_, err = m.Users.Authenticate(user.Email, "secret")
	assert.True(t, core.IsUnauthorized(err))

	reactivated, err := m.Users.Reactivate(user.ID)
	require.NoError(t, err)
	assert.Nil(t, reactivated.DeactivatedAt)
	_, err = m.Users.Authenticate(user.Email, "secret")
	assert.NoError(t, err)
}

func TestUserNotFound(t *testing.T) {
	needsDatabase(t)
	_, err := m.Users.Get(999999999)
	assert.True(t, core.IsNotFound(err))
	_, err = m.Users.Update(999999999, models.UserUpdate{Bio: stringPtr("x")})
	assert.True(t, core.IsNotFound(err))
	err = m.Users.Delete(999999999)
	assert.True(t, core.IsNotFound(err))
}

func TestUserDeleteCascades(t *testing.T) {
	needsDatabase(t)
	user := newUser(t)
	event := newEvent(t, user.ID)

	require.NoError(t, m.Users.Delete(user.ID))
	_, err := m.Events.Get(event.ID, user.ID)
	assert.True(t, core.IsNotFound(err))
}
