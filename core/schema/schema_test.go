package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridemeet/ridemeet/core"
	"github.com/ridemeet/ridemeet/core/schema"
)

func TestValidatorKnowsAllRequestSchemas(t *testing.T) {
	v := schema.MustNewValidator()
	for _, id := range []string{
		"userSignup", "userAuth", "userUpdate",
		"eventCreate", "eventUpdate",
		"groupCreate", "groupUpdate",
		"locationCreate", "locationUpdate",
		"postCreate", "reviewCreate", "reviewUpdate",
	} {
		assert.True(t, v.HasSchema(id), "missing schema %s", id)
	}
	assert.False(t, v.HasSchema("nope"))
}

func TestValidateSignup(t *testing.T) {
	v := schema.MustNewValidator()

	err := v.ValidateBytes([]byte(`{
		"firstName": "A", "lastName": "B",
		"email": "a@b.com", "password": "password123"
	}`), "userSignup")
	assert.NoError(t, err)

	err = v.ValidateBytes([]byte(`{"firstName": "A"}`), "userSignup")
	require.Error(t, err)
	assert.True(t, core.IsBadRequest(err))
	// all violations are reported at once
	assert.Contains(t, err.Error(), "lastName")
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "password")
}

func TestValidateRejectsUnknownProperties(t *testing.T) {
	v := schema.MustNewValidator()
	err := v.ValidateBytes([]byte(`{"name": "Riders", "description": "d", "isAdmin": true}`), "groupCreate")
	require.Error(t, err)
	assert.True(t, core.IsBadRequest(err))
}

func TestValidateReviewRate(t *testing.T) {
	v := schema.MustNewValidator()

	assert.NoError(t, v.ValidateBytes([]byte(`{"text": "great spot", "rate": 5}`), "reviewCreate"))

	err := v.ValidateBytes([]byte(`{"text": "meh", "rate": 6}`), "reviewCreate")
	require.Error(t, err)

	err = v.ValidateBytes([]byte(`{"text": "meh", "rate": 0}`), "reviewCreate")
	require.Error(t, err)
}
