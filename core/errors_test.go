package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(BadRequestError("no data")))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(UnauthorizedError("invalid credentials")))
	assert.Equal(t, http.StatusForbidden, StatusOf(ForbiddenError("not the owner")))
	assert.Equal(t, http.StatusNotFound, StatusOf(NotFoundError("no event found")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestErrorWrapping(t *testing.T) {
	err := fmt.Errorf("update event: %w", NotFoundError("no event found"))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsBadRequest(err))
}

func TestErrorMessage(t *testing.T) {
	err := BadRequestError("duplicate email: %s", "a@b.com")
	assert.Equal(t, "duplicate email: a@b.com", err.Error())
}
