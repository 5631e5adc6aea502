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

func (b *Backend) handleUserRoutes(router *mux.Router) {
	logger.Default().Debugln("adding user routes")

	router.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		if _, err := access.RequireIdentity(r.Context()); err != nil {
			core.WriteError(w, r, err)
			return
		}
		users, err := b.models.Users.GetAll()
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, users)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.HandleFunc("/users/{userID}", func(w http.ResponseWriter, r *http.Request) {
		if _, err := access.RequireIdentity(r.Context()); err != nil {
			core.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "userID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		user, err := b.models.Users.Get(id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, user)
	}).Methods(http.MethodOptions, http.MethodGet)

	// accounts are strictly personal, even admins cannot edit them
	router.HandleFunc("/users/{userID}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "userID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if _, err := access.RequireSelf(r.Context(), id); err != nil {
			core.WriteError(w, r, err)
			return
		}
		in := models.UserUpdate{}
		if err := b.readAndValidate(r, "userUpdate", &in); err != nil {
			core.WriteError(w, r, err)
			return
		}
		user, err := b.models.Users.Update(id, in)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, user)
	}).Methods(http.MethodOptions, http.MethodPatch)

	router.HandleFunc("/users/{userID}/deactivate", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireAdmin(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "userID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if id == identity.ID {
			core.WriteError(w, r, core.BadRequestError("cannot deactivate yourself"))
			return
		}
		target, err := b.models.Users.Get(id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if target.IsAdmin {
			core.WriteError(w, r, core.BadRequestError("cannot deactivate an admin"))
			return
		}
		user, err := b.models.Users.Deactivate(id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		logger.FromContext(r.Context()).Infoln("deactivated user:", user.Email)
		core.WriteData(w, http.StatusOK, user)
	}).Methods(http.MethodOptions, http.MethodPatch)
}
