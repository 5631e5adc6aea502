package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridemeet/ridemeet/core"
)

var testSecret = []byte("secret-test")

func TestTokenRoundtrip(t *testing.T) {
	identity := Identity{ID: 42, Email: "rider@example.com", IsAdmin: true}
	token, err := CreateToken(testSecret, identity)
	require.NoError(t, err)

	parsed, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, identity, *parsed)
}

func TestTokenBadSignature(t *testing.T) {
	token, err := CreateToken([]byte("some-other-secret"), Identity{ID: 1})
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	require.Error(t, err)
	assert.True(t, core.IsUnauthorized(err))
}

func TestTokenMalformed(t *testing.T) {
	_, err := ParseToken(testSecret, "not-a-token")
	require.Error(t, err)
	assert.True(t, core.IsUnauthorized(err))
}

func TestIdentityContext(t *testing.T) {
	assert.Nil(t, IdentityFromContext(context.Background()))

	identity := &Identity{ID: 7, Email: "rider@example.com"}
	ctx := ContextWithIdentity(context.Background(), identity)
	assert.Equal(t, identity, IdentityFromContext(ctx))
}

func TestRequireIdentity(t *testing.T) {
	_, err := RequireIdentity(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsUnauthorized(err))

	ctx := ContextWithIdentity(context.Background(), &Identity{ID: 7})
	identity, err := RequireIdentity(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 7, identity.ID)
}

func TestRequireSelf(t *testing.T) {
	ctx := ContextWithIdentity(context.Background(), &Identity{ID: 7})

	_, err := RequireSelf(ctx, 7)
	assert.NoError(t, err)

	_, err = RequireSelf(ctx, 8)
	require.Error(t, err)
	assert.True(t, core.IsForbidden(err))

	// admins have no special powers on self-service routes
	adminCtx := ContextWithIdentity(context.Background(), &Identity{ID: 1, IsAdmin: true})
	_, err = RequireSelf(adminCtx, 8)
	require.Error(t, err)
	assert.True(t, core.IsForbidden(err))

	_, err = RequireSelf(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, core.IsUnauthorized(err))
}

func TestRequireAdmin(t *testing.T) {
	ctx := ContextWithIdentity(context.Background(), &Identity{ID: 7})
	_, err := RequireAdmin(ctx)
	require.Error(t, err)
	assert.True(t, core.IsForbidden(err))

	adminCtx := ContextWithIdentity(context.Background(), &Identity{ID: 1, IsAdmin: true})
	_, err = RequireAdmin(adminCtx)
	assert.NoError(t, err)
}

func TestCanManage(t *testing.T) {
	assert.False(t, CanManage(nil, 1))
	assert.True(t, CanManage(&Identity{ID: 1}, 1))
	assert.False(t, CanManage(&Identity{ID: 2}, 1))
	assert.True(t, CanManage(&Identity{ID: 2, IsAdmin: true}, 1))
}
