// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package access

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ridemeet/ridemeet/core"
	"github.com/ridemeet/ridemeet/core/csql"
	"github.com/ridemeet/ridemeet/core/logger"
)

// AuthenticatorBuilder is a helper builder for the authentication middleware
type AuthenticatorBuilder struct {
	// Secret is the signing key for credential tokens. This is mandatory.
	Secret []byte
	// DB is the postgres database holding the users table. This is mandatory.
	DB *csql.DB
}

// NewAuthenticator returns a middleware handler that populates the request
// identity from a credential token.
//
// Tokens are accepted as "Authorization: Bearer" header or as "jwt" cookie.
//
// A request without a credential, or with a credential that fails
// verification, proceeds without an identity; the guards downstream reject
// it where one is required. A verified credential is re-validated against
// the live user record: a deactivated account fails the whole request.
func NewAuthenticator(ab *AuthenticatorBuilder) mux.MiddlewareFunc {
	if len(ab.Secret) == 0 {
		panic("Secret is missing")
	}
	if ab.DB == nil {
		panic("DB is missing")
	}

	deactivatedQuery := fmt.Sprintf(
		"SELECT deactivated_at IS NOT NULL FROM %s.users WHERE id = $1;", ab.DB.Schema)

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IdentityFromContext(r.Context()) != nil { // already authenticated?
				h.ServeHTTP(w, r)
				return
			}

			tokenString := ""
			bearer := r.Header.Get("Authorization")
			if len(bearer) > 0 && bearer != "null" {
				if len(bearer) >= 8 && strings.ToLower(bearer[:7]) == "bearer " {
					tokenString = bearer[7:]
				} else {
					tokenString = bearer
				}
			} else if cookie, _ := r.Cookie(CookieName); cookie != nil {
				tokenString = cookie.Value
			}
			if len(tokenString) == 0 {
				h.ServeHTTP(w, r) // no token no identity, moving on
				return
			}

			identity, err := ParseToken(ab.Secret, tokenString)
			if err != nil {
				// verification failure is non-fatal here, the
				// authorization guards reject where it matters
				logger.FromContext(r.Context()).Debugln("discarding invalid token:", err)
				h.ServeHTTP(w, r)
				return
			}

			var deactivated bool
			err = ab.DB.QueryRow(deactivatedQuery, identity.ID).Scan(&deactivated)
			if err == csql.ErrNoRows {
				h.ServeHTTP(w, r) // token references a user we do not know
				return
			}
			if err != nil {
				core.WriteError(w, r, err)
				return
			}
			if deactivated {
				core.WriteError(w, r, core.UnauthorizedError("user is deactivated"))
				return
			}

			ctx := ContextWithIdentity(r.Context(), identity)
			ctx, _ = logger.ContextWithLoggerIdentity(ctx, identity.Email)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
