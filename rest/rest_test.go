package rest_test

import (
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joeshaw/envdecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ridemeet/ridemeet/core"
	"github.com/ridemeet/ridemeet/core/client"
	"github.com/ridemeet/ridemeet/core/csql"
	"github.com/ridemeet/ridemeet/models"
	"github.com/ridemeet/ridemeet/rest"
)

var (
	db *csql.DB
	cl client.Client
)

// TestConfig holds the database connection for the rest tests. Without
// POSTGRES the tests are skipped.
type TestConfig struct {
	Postgres         string `env:"POSTGRES,optional"`
	PostgresPassword string `env:"POSTGRES_PASSWORD,optional"`
}

func TestMain(main *testing.M) {
	config := TestConfig{}
	if err := envdecode.Decode(&config); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		panic(err)
	}
	if config.Postgres != "" {
		db = csql.OpenWithSchema(config.Postgres, config.PostgresPassword, "ridemeet_rest_unit_test")
		db.ClearSchema()
		router := mux.NewRouter()
		rest.New(&rest.Builder{
			DB:         db,
			Router:     router,
			Secret:     "unit-test-secret",
			BcryptCost: bcrypt.MinCost,
		})
		cl = client.NewWithRouter(router)
	}
	code := main.Run()
	if db != nil {
		db.Close()
	}
	os.Exit(code)
}

func needsDatabase(t *testing.T) {
	t.Helper()
	if db == nil {
		t.Skip("set POSTGRES to run the database tests")
	}
}

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// signup creates a fresh account and returns an authenticated client
func signup(t *testing.T) (client.Client, models.User) {
	t.Helper()
	auth := authResponse{}
	status, err := cl.Post("/signup", map[string]string{
		"firstName": "Sam",
		"lastName":  "Spokes",
		"email":     fmt.Sprintf("%s@test.ridemeet.com", uuid.New()),
		"password":  "secret",
	}, &auth)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, auth.Token)
	return cl.WithToken(auth.Token), auth.User
}

// signupAdmin creates an account, promotes it directly in the database
// and logs in again for a token that carries the admin flag.
func signupAdmin(t *testing.T) (client.Client, models.User) {
	t.Helper()
	_, user := signup(t)
	_, err := db.Exec(fmt.Sprintf(`UPDATE %s.users SET is_admin = true WHERE id = $1;`, db.Schema), user.ID)
	require.NoError(t, err)

	auth := authResponse{}
	status, err := cl.Post("/login", map[string]string{"email": user.Email, "password": "secret"}, &auth)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.True(t, auth.User.IsAdmin)
	return cl.WithToken(auth.Token), auth.User
}

func createEvent(t *testing.T, c client.Client) models.Event {
	t.Helper()
	event := models.Event{}
	status, err := c.Post("/events", map[string]interface{}{
		"title":       "Tuesday Night Loop",
		"description": "30km social ride",
		"date":        time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"location":    "Fountain square",
	}, &event)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)
	return event
}

func createGroup(t *testing.T, c client.Client) models.Group {
	t.Helper()
	group := models.Group{}
	status, err := c.Post("/groups", map[string]string{
		"name":        "Hill Crushers",
		"description": "climbing specialists",
	}, &group)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)
	return group
}

func createLocation(t *testing.T, admin client.Client) models.Location {
	t.Helper()
	location := models.Location{}
	status, err := admin.Post("/locations", map[string]string{
		"name":        "Velodrome",
		"description": "open track evenings",
		"address":     "5 Track Road",
	}, &location)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)
	return location
}

func TestSignupLoginAuthenticate(t *testing.T) {
	needsDatabase(t)
	auth := authResponse{}
	email := fmt.Sprintf("%s@test.ridemeet.com", uuid.New())
	status, header, err := cl.PostWithHeader("/signup", map[string]string{
		"firstName": "Ada", "lastName": "Wheeler",
		"email": email, "password": "secret",
	}, &auth)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, email, auth.User.Email)

	// the response also carries the token as http-only cookie
	cookie := cookieFromHeader(t, header)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	// duplicate signup
	status, err = cl.Post("/signup", map[string]string{
		"firstName": "Ada", "lastName": "Wheeler",
		"email": email, "password": "secret",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, err.Error(), email)

	// wrong password
	status, _ = cl.Post("/login", map[string]string{"email": email, "password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// session restore through the cookie
	restored := authResponse{}
	status, err = cl.WithCookie(cookie).Post("/authenticate", nil, &restored)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, auth.User.ID, restored.User.ID)

	// without a credential the client is sent back to the login page
	redirect := map[string]string{}
	status, err = cl.Post("/authenticate", nil, &redirect)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "/", redirect["redirect"])

	status, err = cl.Delete("/logout")
	require.Error(t, err) // 405, logout is a POST
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	status, err = cl.Post("/logout", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
}

func cookieFromHeader(t *testing.T, header http.Header) *http.Cookie {
	t.Helper()
	response := http.Response{Header: header}
	for _, cookie := range response.Cookies() {
		if cookie.Name == "jwt" {
			return cookie
		}
	}
	return nil
}

func TestRoutesRequireLogin(t *testing.T) {
	needsDatabase(t)
	for _, path := range []string{"/users", "/events", "/groups", "/locations"} {
		status, err := cl.Get(path, nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
		assert.Error(t, err)
	}
	// garbage tokens count as no identity
	status, _ := cl.WithToken("garbage").Get("/events", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestEventRoutes(t *testing.T) {
	needsDatabase(t)
	owner, _ := signup(t)
	rider, riderUser := signup(t)
	event := createEvent(t, owner)

	// attendance and saves are per rider
	attendance := models.EventAttendance{}
	status, err := rider.Post(fmt.Sprintf("/events/%d/attendance", event.ID), nil, &attendance)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, riderUser.ID, attendance.UserID)

	status, _ = rider.Post(fmt.Sprintf("/events/%d/attendance", event.ID), nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, err = rider.Post(fmt.Sprintf("/events/%d/saved", event.ID), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)

	seen := models.Event{}
	_, err = rider.Get(fmt.Sprintf("/events/%d", event.ID), &seen)
	require.NoError(t, err)
	assert.True(t, seen.IsAttending)
	assert.True(t, seen.IsSaved)
	assert.Equal(t, 1, seen.AttendeesCount)

	attendees := []models.User{}
	_, err = rider.Get(fmt.Sprintf("/events/%d/attendees", event.ID), &attendees)
	require.NoError(t, err)
	require.Len(t, attendees, 1)
	assert.Equal(t, riderUser.ID, attendees[0].ID)

	saved := []models.Event{}
	_, err = rider.Get("/events?saved=true", &saved)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, event.ID, saved[0].ID)

	// only the owner can edit
	status, _ = rider.Patch(fmt.Sprintf("/events/%d", event.ID), map[string]string{"title": "hijacked"}, nil)
	assert.Equal(t, http.StatusForbidden, status)
	updated := models.Event{}
	status, err = owner.Patch(fmt.Sprintf("/events/%d", event.ID), map[string]string{"title": "Tuesday Night Loop XL"}, &updated)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Tuesday Night Loop XL", updated.Title)

	status, _ = rider.Delete(fmt.Sprintf("/events/%d", event.ID))
	assert.Equal(t, http.StatusForbidden, status)
	status, err = owner.Delete(fmt.Sprintf("/events/%d", event.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = rider.Get(fmt.Sprintf("/events/%d", event.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestEventPosts(t *testing.T) {
	needsDatabase(t)
	owner, _ := signup(t)
	rider, _ := signup(t)
	event := createEvent(t, owner)
	path := fmt.Sprintf("/events/%d/posts", event.ID)

	post := models.EventPost{}
	status, err := rider.Post(path, map[string]string{"text": "see you there"}, &post)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)

	// only the author edits, the event owner may moderate away
	status, _ = owner.Patch(fmt.Sprintf("%s/%d", path, post.ID), map[string]string{"text": "x"}, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, err = rider.Patch(fmt.Sprintf("%s/%d", path, post.ID), map[string]string{"text": "running late"}, &post)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "running late", post.Text)

	status, err = owner.Delete(fmt.Sprintf("%s/%d", path, post.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestGroupRoutes(t *testing.T) {
	needsDatabase(t)
	owner, ownerUser := signup(t)
	rider, _ := signup(t)
	group := createGroup(t, owner)

	// the creator is the first member
	assert.True(t, group.IsJoined)
	assert.Equal(t, 1, group.MembersCount)

	status, err := rider.Post(fmt.Sprintf("/groups/%d/membership", group.ID), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)

	members := []models.User{}
	_, err = rider.Get(fmt.Sprintf("/groups/%d/members", group.ID), &members)
	require.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Equal(t, ownerUser.ID, members[0].ID)

	// the owner cannot abandon their own group
	status, _ = owner.Delete(fmt.Sprintf("/groups/%d/membership", group.ID))
	assert.Equal(t, http.StatusForbidden, status)
	status, err = rider.Delete(fmt.Sprintf("/groups/%d/membership", group.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)

	// agenda links require ownership of both sides
	ownEvent := createEvent(t, owner)
	foreignEvent := createEvent(t, rider)
	status, _ = owner.Post(fmt.Sprintf("/groups/%d/events/%d/link", group.ID, foreignEvent.ID), nil, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, err = owner.Post(fmt.Sprintf("/groups/%d/events/%d/link", group.ID, ownEvent.ID), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)

	agenda := []models.Event{}
	_, err = rider.Get(fmt.Sprintf("/groups/%d/events", group.ID), &agenda)
	require.NoError(t, err)
	require.Len(t, agenda, 1)
	assert.Equal(t, ownEvent.ID, agenda[0].ID)

	status, err = owner.Delete(fmt.Sprintf("/groups/%d/events/%d/link", group.ID, ownEvent.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestGroupPosts(t *testing.T) {
	needsDatabase(t)
	owner, _ := signup(t)
	rider, _ := signup(t)
	stranger, _ := signup(t)
	group := createGroup(t, owner)
	path := fmt.Sprintf("/groups/%d/posts", group.ID)

	post := models.GroupPost{}
	status, err := rider.Post(path, map[string]string{"text": "anyone riding sunday?"}, &post)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)

	status, _ = stranger.Patch(fmt.Sprintf("%s/%d", path, post.ID), map[string]string{"text": "x"}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// the group owner can moderate
	status, err = owner.Delete(fmt.Sprintf("%s/%d", path, post.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestLocationRoutes(t *testing.T) {
	needsDatabase(t)
	admin, _ := signupAdmin(t)
	rider, _ := signup(t)

	// the catalogue is admin-managed
	status, _ := rider.Post("/locations", map[string]string{
		"name": "n", "description": "d", "address": "a",
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)
	location := createLocation(t, admin)

	// reviews are open to everybody logged in, the rate is bounded
	reviewPath := fmt.Sprintf("/locations/%d/reviews", location.ID)
	status, _ = rider.Post(reviewPath, map[string]interface{}{"text": "love it", "rate": 6}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	review := models.LocationReview{}
	status, err := rider.Post(reviewPath, map[string]interface{}{"text": "love it", "rate": 5}, &review)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)

	seen := models.Location{}
	_, err = rider.Get(fmt.Sprintf("/locations/%d", location.ID), &seen)
	require.NoError(t, err)
	assert.Equal(t, 1, seen.ReviewsCount)
	assert.Equal(t, 5.0, seen.AvgRating)

	status, _ = admin.Patch(fmt.Sprintf("%s/%d", reviewPath, review.ID), map[string]interface{}{"rate": 1}, nil)
	assert.Equal(t, http.StatusForbidden, status) // not the author

	status, err = admin.Delete(fmt.Sprintf("%s/%d", reviewPath, review.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)

	status, err = admin.Delete(fmt.Sprintf("/locations/%d", location.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestDeactivation(t *testing.T) {
	needsDatabase(t)
	admin, adminUser := signupAdmin(t)
	rider, riderUser := signup(t)

	// self and fellow admins are protected
	status, _ := admin.Patch(fmt.Sprintf("/users/%d/deactivate", adminUser.ID), nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = rider.Patch(fmt.Sprintf("/users/%d/deactivate", riderUser.ID), nil, nil)
	assert.Equal(t, http.StatusForbidden, status)

	deactivated := models.User{}
	status, err := admin.Patch(fmt.Sprintf("/users/%d/deactivate", riderUser.ID), nil, &deactivated)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, deactivated.DeactivatedAt)

	// the rider's still-valid token is now rejected on every request
	status, err = rider.Get("/events", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, err.Error(), "deactivated")

	// and the account cannot log in again
	status, _ = cl.Post("/login", map[string]string{"email": riderUser.Email, "password": "secret"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUserRoutes(t *testing.T) {
	needsDatabase(t)
	c, user := signup(t)
	other, otherUser := signup(t)

	users := []models.User{}
	_, err := c.Get("/users", &users)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(users), 2)

	fetched := models.User{}
	_, err = c.Get(fmt.Sprintf("/users/%d", otherUser.ID), &fetched)
	require.NoError(t, err)
	assert.Equal(t, otherUser.Email, fetched.Email)

	// profiles are strictly personal
	status, _ := other.Patch(fmt.Sprintf("/users/%d", user.ID), map[string]string{"bio": "hacked"}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	updated := models.User{}
	status, err = c.Patch(fmt.Sprintf("/users/%d", user.ID), map[string]string{"bio": "weekend warrior"}, &updated)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "weekend warrior", updated.Bio)

	// schema validation rejects unknown fields
	status, badErr := c.Patch(fmt.Sprintf("/users/%d", user.ID), map[string]interface{}{"isAdmin": true}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	cerr := &core.Error{}
	require.ErrorAs(t, badErr, &cerr)
	assert.Equal(t, http.StatusBadRequest, cerr.Status)
}
