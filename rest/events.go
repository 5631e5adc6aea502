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

func (b *Backend) handleEventRoutes(router *mux.Router) {
	logger.Default().Debugln("adding event routes")

	router.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		in := models.EventInput{}
		if err := b.readAndValidate(r, "eventCreate", &in); err != nil {
			core.WriteError(w, r, err)
			return
		}
		event, err := b.models.Events.Create(identity.ID, in)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusCreated, event)
	}).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		filter := models.EventFilter{
			Saved:     queryBool(r, "saved"),
			Attending: queryBool(r, "attending"),
		}
		if filter.CreatedBy, err = queryInt(r, "createdBy"); err != nil {
			core.WriteError(w, r, err)
			return
		}
		if filter.From, err = queryTime(r, "from"); err != nil {
			core.WriteError(w, r, err)
			return
		}
		if filter.To, err = queryTime(r, "to"); err != nil {
			core.WriteError(w, r, err)
			return
		}
		events, err := b.models.Events.GetAll(identity.ID, filter)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, events)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.HandleFunc("/events/{eventID}", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "eventID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		event, err := b.models.Events.Get(id, identity.ID)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, event)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.HandleFunc("/events/{eventID}", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "eventID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		owner, err := b.models.Events.Owner(id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if owner != identity.ID {
			core.WriteError(w, r, core.ForbiddenError("only the owner can edit the event"))
			return
		}
		in := models.EventUpdate{}
		if err := b.readAndValidate(r, "eventUpdate", &in); err != nil {
			core.WriteError(w, r, err)
			return
		}
		event, err := b.models.Events.Update(id, identity.ID, in)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, event)
	}).Methods(http.MethodOptions, http.MethodPatch)

	router.HandleFunc("/events/{eventID}", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "eventID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		owner, err := b.models.Events.Owner(id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if !access.CanManage(identity, owner) {
			core.WriteError(w, r, core.ForbiddenError("only the owner or an admin can delete the event"))
			return
		}
		if err := b.models.Events.Delete(id); err != nil {
			core.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodOptions, http.MethodDelete)

	// attendance and saves are personal toggles on an existing event

	router.HandleFunc("/events/{eventID}/attendance", func(w http.ResponseWriter, r *http.Request) {
		identity, id, err := b.identityAndEvent(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		attendance, err := b.models.EventAttendees.Add(identity.ID, id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusCreated, attendance)
	}).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/events/{eventID}/attendance", func(w http.ResponseWriter, r *http.Request) {
		identity, id, err := b.identityAndEvent(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if err := b.models.EventAttendees.Remove(identity.ID, id); err != nil {
			core.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodOptions, http.MethodDelete)

	router.HandleFunc("/events/{eventID}/attendees", func(w http.ResponseWriter, r *http.Request) {
		_, id, err := b.identityAndEvent(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		attendees, err := b.models.EventAttendees.List(id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, attendees)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.HandleFunc("/events/{eventID}/saved", func(w http.ResponseWriter, r *http.Request) {
		identity, id, err := b.identityAndEvent(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		save, err := b.models.EventSaves.Add(identity.ID, id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusCreated, save)
	}).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/events/{eventID}/saved", func(w http.ResponseWriter, r *http.Request) {
		identity, id, err := b.identityAndEvent(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if err := b.models.EventSaves.Remove(identity.ID, id); err != nil {
			core.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodOptions, http.MethodDelete)

	b.handleEventPostRoutes(router)
}

// identityAndEvent requires a logged-in caller and an existing event
func (b *Backend) identityAndEvent(r *http.Request) (*access.Identity, int64, error) {
	identity, err := access.RequireIdentity(r.Context())
	if err != nil {
		return nil, 0, err
	}
	id, err := pathID(r, "eventID")
	if err != nil {
		return nil, 0, err
	}
	if _, err := b.models.Events.Owner(id); err != nil {
		return nil, 0, err
	}
	return identity, id, nil
}

func (b *Backend) handleEventPostRoutes(router *mux.Router) {

	router.HandleFunc("/events/{eventID}/posts", func(w http.ResponseWriter, r *http.Request) {
		identity, id, err := b.identityAndEvent(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		in := struct {
			Text string `json:"text"`
		}{}
		if err := b.readAndValidate(r, "postCreate", &in); err != nil {
			core.WriteError(w, r, err)
			return
		}
		post, err := b.models.EventPosts.Create(identity.ID, id, in.Text)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusCreated, post)
	}).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/events/{eventID}/posts", func(w http.ResponseWriter, r *http.Request) {
		_, id, err := b.identityAndEvent(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		posts, err := b.models.EventPosts.List(id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, posts)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.HandleFunc("/events/{eventID}/posts/{postID}", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "eventID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		postID, err := pathID(r, "postID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		author, err := b.models.EventPosts.Owner(id, postID)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if author != identity.ID {
			core.WriteError(w, r, core.ForbiddenError("only the author can edit the post"))
			return
		}
		in := struct {
			Text string `json:"text"`
		}{}
		if err := b.readAndValidate(r, "postCreate", &in); err != nil {
			core.WriteError(w, r, err)
			return
		}
		post, err := b.models.EventPosts.Update(id, postID, in.Text)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, post)
	}).Methods(http.MethodOptions, http.MethodPatch)

	router.HandleFunc("/events/{eventID}/posts/{postID}", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "eventID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		postID, err := pathID(r, "postID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		author, err := b.models.EventPosts.Owner(id, postID)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		eventOwner, err := b.models.Events.Owner(id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		// the author, the event owner and admins can moderate
		if identity.ID != author && !access.CanManage(identity, eventOwner) {
			core.WriteError(w, r, core.ForbiddenError("not allowed to delete the post"))
			return
		}
		if err := b.models.EventPosts.Delete(id, postID); err != nil {
			core.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodOptions, http.MethodDelete)
}
