// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package access

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/ridemeet/ridemeet/core"
)

// CookieName is the name of the cookie that carries the credential token
// for browser clients. API clients use the Authorization header instead.
const CookieName = "jwt"

type tokenClaims struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// CreateToken returns a signed compact credential for the identity.
func CreateToken(secret []byte, identity Identity) (string, error) {
	claims := tokenClaims{
		ID:      identity.ID,
		Email:   identity.Email,
		IsAdmin: identity.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies a compact credential and returns the identity it
// names. Malformed tokens or tokens with a bad signature yield an
// unauthorized error.
func ParseToken(secret []byte, tokenString string) (*Identity, error) {
	claims := tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, core.UnauthorizedError("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, core.UnauthorizedError("invalid token")
	}
	return &Identity{ID: claims.ID, Email: claims.Email, IsAdmin: claims.IsAdmin}, nil
}
