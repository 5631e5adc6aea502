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

// Locations are a curated catalogue: admins manage them, everybody logged
// in can browse, save and review them.
func (b *Backend) handleLocationRoutes(router *mux.Router) {
	logger.Default().Debugln("adding location routes")

	router.HandleFunc("/locations", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireAdmin(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		in := models.LocationInput{}
		if err := b.readAndValidate(r, "locationCreate", &in); err != nil {
			core.WriteError(w, r, err)
			return
		}
		location, err := b.models.Locations.Create(identity.ID, in)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusCreated, location)
	}).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/locations", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		filter := models.LocationFilter{Saved: queryBool(r, "saved")}
		if filter.MinRating, err = queryFloat(r, "minRating"); err != nil {
			core.WriteError(w, r, err)
			return
		}
		locations, err := b.models.Locations.GetAll(identity.ID, filter)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, locations)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.HandleFunc("/locations/{locationID}", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "locationID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		location, err := b.models.Locations.Get(id, identity.ID)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, location)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.HandleFunc("/locations/{locationID}", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireAdmin(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "locationID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		in := models.LocationUpdate{}
		if err := b.readAndValidate(r, "locationUpdate", &in); err != nil {
			core.WriteError(w, r, err)
			return
		}
		location, err := b.models.Locations.Update(id, identity.ID, in)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, location)
	}).Methods(http.MethodOptions, http.MethodPatch)

	router.HandleFunc("/locations/{locationID}", func(w http.ResponseWriter, r *http.Request) {
		if _, err := access.RequireAdmin(r.Context()); err != nil {
			core.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "locationID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if err := b.models.Locations.Delete(id); err != nil {
			core.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodOptions, http.MethodDelete)

	router.HandleFunc("/locations/{locationID}/saved", func(w http.ResponseWriter, r *http.Request) {
		identity, id, err := b.identityAndLocation(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		save, err := b.models.LocationSaves.Add(identity.ID, id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusCreated, save)
	}).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/locations/{locationID}/saved", func(w http.ResponseWriter, r *http.Request) {
		identity, id, err := b.identityAndLocation(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if err := b.models.LocationSaves.Remove(identity.ID, id); err != nil {
			core.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodOptions, http.MethodDelete)

	b.handleReviewRoutes(router)
}

// identityAndLocation requires a logged-in caller and an existing location
func (b *Backend) identityAndLocation(r *http.Request) (*access.Identity, int64, error) {
	identity, err := access.RequireIdentity(r.Context())
	if err != nil {
		return nil, 0, err
	}
	id, err := pathID(r, "locationID")
	if err != nil {
		return nil, 0, err
	}
	if _, err := b.models.Locations.Get(id, identity.ID); err != nil {
		return nil, 0, err
	}
	return identity, id, nil
}

func (b *Backend) handleReviewRoutes(router *mux.Router) {

	router.HandleFunc("/locations/{locationID}/reviews", func(w http.ResponseWriter, r *http.Request) {
		identity, id, err := b.identityAndLocation(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		in := struct {
			Text string `json:"text"`
			Rate int    `json:"rate"`
		}{}
		if err := b.readAndValidate(r, "reviewCreate", &in); err != nil {
			core.WriteError(w, r, err)
			return
		}
		review, err := b.models.LocationReviews.Create(identity.ID, id, in.Text, in.Rate)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusCreated, review)
	}).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/locations/{locationID}/reviews", func(w http.ResponseWriter, r *http.Request) {
		_, id, err := b.identityAndLocation(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		reviews, err := b.models.LocationReviews.List(id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, reviews)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.HandleFunc("/locations/{locationID}/reviews/{reviewID}", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "locationID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		reviewID, err := pathID(r, "reviewID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		author, err := b.models.LocationReviews.Owner(id, reviewID)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if author != identity.ID {
			core.WriteError(w, r, core.ForbiddenError("only the author can edit the review"))
			return
		}
		in := models.ReviewUpdate{}
		if err := b.readAndValidate(r, "reviewUpdate", &in); err != nil {
			core.WriteError(w, r, err)
			return
		}
		review, err := b.models.LocationReviews.Update(id, reviewID, in)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, review)
	}).Methods(http.MethodOptions, http.MethodPatch)

	router.HandleFunc("/locations/{locationID}/reviews/{reviewID}", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "locationID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		reviewID, err := pathID(r, "reviewID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		author, err := b.models.LocationReviews.Owner(id, reviewID)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if identity.ID != author && !identity.IsAdmin {
			core.WriteError(w, r, core.ForbiddenError("not allowed to delete the review"))
			return
		}
		if err := b.models.LocationReviews.Delete(id, reviewID); err != nil {
			core.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodOptions, http.MethodDelete)
}
