// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*Package rest realizes the HTTP API of the ridemeet backend.

The backend owns the entity models and adds all routes to a mux router:
authentication (/signup, /login, /authenticate, /logout), users, events,
groups and locations, including the relationship sub-routes for
attendance, saves, membership, agenda links, posts and reviews.

All responses use the {"data": ...} envelope; failures use
{"error": {"message", "status"}}. Handlers return errors from the
taxonomy in core; WriteError translates them terminally.
*/
package rest

import (
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/ridemeet/ridemeet/core/access"
	"github.com/ridemeet/ridemeet/core/csql"
	"github.com/ridemeet/ridemeet/core/logger"
	"github.com/ridemeet/ridemeet/core/schema"
	"github.com/ridemeet/ridemeet/models"
)

// Backend is the ridemeet REST backend.
type Backend struct {
	db        *csql.DB
	router    *mux.Router
	secret    []byte
	models    *models.Models
	validator *schema.Validator
}

// Builder is a builder helper for the Backend.
type Builder struct {
	// DB is a postgres database. This is mandatory.
	DB *csql.DB
	// Router is a mux router. This is mandatory.
	Router *mux.Router
	// Secret signs the credential tokens. This is mandatory.
	Secret string
	// BcryptCost is the password hashing work factor. Optional, defaults
	// to bcrypt.DefaultCost. Tests use bcrypt.MinCost.
	BcryptCost int
}

// New realizes the backend. It creates the sql tables (if they do not
// exist) and adds all routes to the router. Missing mandatory
// configuration panics, this is a programming error.
func New(bb *Builder) *Backend {
	if bb.DB == nil {
		panic("DB is missing")
	}
	if bb.Router == nil {
		panic("Router is missing")
	}
	if bb.Secret == "" {
		panic("Secret is missing")
	}
	cost := bb.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	b := &Backend{
		db:        bb.DB,
		router:    bb.Router,
		secret:    []byte(bb.Secret),
		models:    models.New(bb.DB, cost),
		validator: schema.MustNewValidator(),
	}

	b.handleCORS()
	b.handleCompression()
	logger.AddRequestID(b.router)
	b.router.Use(access.NewAuthenticator(&access.AuthenticatorBuilder{
		Secret: b.secret,
		DB:     bb.DB,
	}))

	b.handleAuthenticationRoutes(b.router)
	b.handleUserRoutes(b.router)
	b.handleEventRoutes(b.router)
	b.handleGroupRoutes(b.router)
	b.handleLocationRoutes(b.router)
	return b
}
