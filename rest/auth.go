// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ridemeet/ridemeet/core"
	"github.com/ridemeet/ridemeet/core/access"
	"github.com/ridemeet/ridemeet/core/logger"
	"github.com/ridemeet/ridemeet/models"
)

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// issueToken creates the credential token for the user and sets it as
// http-only cookie for browser clients. API clients read it from the
// response body and send it as Authorization header.
func (b *Backend) issueToken(w http.ResponseWriter, user *models.User) (string, error) {
	token, err := access.CreateToken(b.secret, access.Identity{
		ID:      user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     access.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

func (b *Backend) handleAuthenticationRoutes(router *mux.Router) {
	logger.Default().Debugln("adding authentication routes")

	router.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		in := models.SignupInput{}
		if err := b.readAndValidate(r, "userSignup", &in); err != nil {
			core.WriteError(w, r, err)
			return
		}
		user, err := b.models.Users.Signup(in)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		token, err := b.issueToken(w, user)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		logger.FromContext(r.Context()).Infoln("new signup:", user.Email)
		core.WriteData(w, http.StatusCreated, authResponse{User: user, Token: token})
	}).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		in := struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}{}
		if err := b.readAndValidate(r, "userAuth", &in); err != nil {
			core.WriteError(w, r, err)
			return
		}
		user, err := b.models.Users.Authenticate(in.Email, in.Password)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		token, err := b.issueToken(w, user)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, authResponse{User: user, Token: token})
	}).Methods(http.MethodOptions, http.MethodPost)

	// browser session restore: with a valid cookie it returns the account
	// and a fresh token, otherwise it asks the client to go back to the
	// login page
	router.HandleFunc("/authenticate", func(w http.ResponseWriter, r *http.Request) {
		identity := access.IdentityFromContext(r.Context())
		if identity == nil {
			core.WriteData(w, http.StatusOK, map[string]string{"redirect": "/"})
			return
		}
		user, err := b.models.Users.Get(identity.ID)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		token, err := b.issueToken(w, user)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, authResponse{User: user, Token: token})
	}).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     access.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodOptions, http.MethodPost)
}
