// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*Package access provides authentication and authorization utilities.

An Identity is derived from a verified credential and stored in the request
context by the authentication middleware. Route handlers evaluate the guard
helpers (RequireIdentity, RequireSelf, RequireAdmin) and the ownership
policy helper CanManage against it.
*/
package access

import (
	"context"

	"github.com/ridemeet/ridemeet/core"
)

// contextKey is the type for context keys. Go linter does not like plain strings
type contextKey string

const contextKeyIdentity contextKey = "_identity_"

// Identity names the acting user and their privilege flags. It is the
// payload of the signed credential token.
type Identity struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// ContextWithIdentity returns a new context with the identity added to it
func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, contextKeyIdentity, identity)
}

// IdentityFromContext retrieves the identity from the context, or nil for
// an unauthenticated request.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, ok := ctx.Value(contextKeyIdentity).(*Identity)
	if ok {
		return identity
	}
	return nil
}

// RequireIdentity returns the identity attached to the context, or an
// unauthorized error when there is none.
func RequireIdentity(ctx context.Context) (*Identity, error) {
	identity := IdentityFromContext(ctx)
	if identity == nil {
		return nil, core.UnauthorizedError("authentication required")
	}
	return identity, nil
}

// RequireSelf returns the identity if it addresses the given user, otherwise
// a forbidden error. Admins get no override here; self-service routes are
// strictly personal.
func RequireSelf(ctx context.Context, userID int64) (*Identity, error) {
	identity, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if identity.ID != userID {
		return nil, core.ForbiddenError("access restricted to the user themselves")
	}
	return identity, nil
}

// RequireAdmin returns the identity if it carries the admin flag, otherwise
// a forbidden error.
func RequireAdmin(ctx context.Context) (*Identity, error) {
	identity, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin {
		return nil, core.ForbiddenError("admin access required")
	}
	return identity, nil
}

// CanManage is the ownership policy shared by the entity routes: a resource
// can be managed by its owner or by an admin.
func CanManage(identity *Identity, ownerID int64) bool {
	if identity == nil {
		return false
	}
	return identity.IsAdmin || identity.ID == ownerID
}
