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

func (b *Backend) handleGroupRoutes(router *mux.Router) {
	logger.Default().Debugln("adding group routes")

	router.HandleFunc("/groups", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		in := models.GroupInput{}
		if err := b.readAndValidate(r, "groupCreate", &in); err != nil {
			core.WriteError(w, r, err)
			return
		}
		group, err := b.models.Groups.Create(identity.ID, in)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		// the creator becomes the first member; best effort, the group
		// exists either way and the creator can still join manually
		if _, err := b.models.GroupMembers.Add(identity.ID, group.ID); err == nil {
			group, err = b.models.Groups.Get(group.ID, identity.ID)
			if err != nil {
				core.WriteError(w, r, err)
				return
			}
		} else {
			logger.FromContext(r.Context()).WithError(err).Warnln("could not add creator to group", group.ID)
		}
		core.WriteData(w, http.StatusCreated, group)
	}).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/groups", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		filter := models.GroupFilter{
			Saved:  queryBool(r, "saved"),
			Joined: queryBool(r, "joined"),
		}
		if filter.CreatedBy, err = queryInt(r, "createdBy"); err != nil {
			core.WriteError(w, r, err)
			return
		}
		groups, err := b.models.Groups.GetAll(identity.ID, filter)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, groups)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.HandleFunc("/groups/{groupID}", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "groupID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		group, err := b.models.Groups.Get(id, identity.ID)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, group)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.HandleFunc("/groups/{groupID}", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "groupID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		owner, err := b.models.Groups.Owner(id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if owner != identity.ID {
			core.WriteError(w, r, core.ForbiddenError("only the owner can edit the group"))
			return
		}
		in := models.GroupUpdate{}
		if err := b.readAndValidate(r, "groupUpdate", &in); err != nil {
			core.WriteError(w, r, err)
			return
		}
		group, err := b.models.Groups.Update(id, identity.ID, in)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, group)
	}).Methods(http.MethodOptions, http.MethodPatch)

	router.HandleFunc("/groups/{groupID}", func(w http.ResponseWriter, r *http.Request) {
		identity, err := access.RequireIdentity(r.Context())
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		id, err := pathID(r, "groupID")
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		owner, err := b.models.Groups.Owner(id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if !access.CanManage(identity, owner) {
			core.WriteError(w, r, core.ForbiddenError("only the owner or an admin can delete the group"))
			return
		}
		if err := b.models.Groups.Delete(id); err != nil {
			core.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodOptions, http.MethodDelete)

	router.HandleFunc("/groups/{groupID}/membership", func(w http.ResponseWriter, r *http.Request) {
		identity, id, err := b.identityAndGroup(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		membership, err := b.models.GroupMembers.Add(identity.ID, id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusCreated, membership)
	}).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/groups/{groupID}/membership", func(w http.ResponseWriter, r *http.Request) {
		identity, id, err := b.identityAndGroup(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		owner, err := b.models.Groups.Owner(id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if owner == identity.ID {
			core.WriteError(w, r, core.ForbiddenError("the owner cannot leave their own group"))
			return
		}
		if err := b.models.GroupMembers.Remove(identity.ID, id); err != nil {
			core.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodOptions, http.MethodDelete)

	router.HandleFunc("/groups/{groupID}/members", func(w http.ResponseWriter, r *http.Request) {
		_, id, err := b.identityAndGroup(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		members, err := b.models.GroupMembers.List(id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, members)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.HandleFunc("/groups/{groupID}/saved", func(w http.ResponseWriter, r *http.Request) {
		identity, id, err := b.identityAndGroup(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		save, err := b.models.GroupSaves.Add(identity.ID, id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusCreated, save)
	}).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/groups/{groupID}/saved", func(w http.ResponseWriter, r *http.Request) {
		identity, id, err := b.identityAndGroup(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if err := b.models.GroupSaves.Remove(identity.ID, id); err != nil {
			core.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodOptions, http.MethodDelete)

	// the group agenda: events linked to the group
	router.HandleFunc("/groups/{groupID}/events", func(w http.ResponseWriter, r *http.Request) {
		identity, id, err := b.identityAndGroup(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		ids, err := b.models.GroupEvents.ListEventIDs(id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		events, err := b.models.Events.GetByIDs(ids, identity.ID)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, events)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.HandleFunc("/groups/{groupID}/events/{eventID}/link", func(w http.ResponseWriter, r *http.Request) {
		_, groupID, eventID, err := b.requireAgendaOwnership(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		link, err := b.models.GroupEvents.Add(groupID, eventID)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusCreated, link)
	}).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/groups/{groupID}/events/{eventID}/link", func(w http.ResponseWriter, r *http.Request) {
		_, groupID, eventID, err := b.requireAgendaOwnership(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if err := b.models.GroupEvents.Remove(groupID, eventID); err != nil {
			core.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodOptions, http.MethodDelete)

	b.handleGroupPostRoutes(router)
}

// identityAndGroup requires a logged-in caller and an existing group
func (b *Backend) identityAndGroup(r *http.Request) (*access.Identity, int64, error) {
	identity, err := access.RequireIdentity(r.Context())
	if err != nil {
		return nil, 0, err
	}
	id, err := pathID(r, "groupID")
	if err != nil {
		return nil, 0, err
	}
	if _, err := b.models.Groups.Owner(id); err != nil {
		return nil, 0, err
	}
	return identity, id, nil
}

// requireAgendaOwnership guards the agenda links: the caller must be
// allowed to manage both the group and the event.
func (b *Backend) requireAgendaOwnership(r *http.Request) (*access.Identity, int64, int64, error) {
	identity, err := access.RequireIdentity(r.Context())
	if err != nil {
		return nil, 0, 0, err
	}
	groupID, err := pathID(r, "groupID")
	if err != nil {
		return nil, 0, 0, err
	}
	eventID, err := pathID(r, "eventID")
	if err != nil {
		return nil, 0, 0, err
	}
	groupOwner, err := b.models.Groups.Owner(groupID)
	if err != nil {
		return nil, 0, 0, err
	}
	eventOwner, err := b.models.Events.Owner(eventID)
	if err != nil {
		return nil, 0, 0, err
	}
	if !access.CanManage(identity, groupOwner) || !access.CanManage(identity, eventOwner) {
		return nil, 0, 0, core.ForbiddenError("must own both the group and the event")
	}
	return identity, groupID, eventID, nil
}

func (b *Backend) handleGroupPostRoutes(router *mux.Router) {

	router.HandleFunc("/groups/{groupID}/posts", func(w http.ResponseWriter, r *http.Request) {
		identity, id, err := b.identityAndGroup(r)
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
		post, err := b.models.GroupPosts.Create(identity.ID, id, in.Text)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusCreated, post)
	}).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/groups/{groupID}/posts", func(w http.ResponseWriter, r *http.Request) {
		_, id, err := b.identityAndGroup(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		posts, err := b.models.GroupPosts.List(id)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, posts)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.HandleFunc("/groups/{groupID}/posts/{postID}", func(w http.ResponseWriter, r *http.Request) {
		_, id, postID, _, err := b.requireGroupPostModeration(r)
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
		post, err := b.models.GroupPosts.Update(id, postID, in.Text)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		core.WriteData(w, http.StatusOK, post)
	}).Methods(http.MethodOptions, http.MethodPatch)

	router.HandleFunc("/groups/{groupID}/posts/{postID}", func(w http.ResponseWriter, r *http.Request) {
		_, id, postID, _, err := b.requireGroupPostModeration(r)
		if err != nil {
			core.WriteError(w, r, err)
			return
		}
		if err := b.models.GroupPosts.Delete(id, postID); err != nil {
			core.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodOptions, http.MethodDelete)
}

// requireGroupPostModeration allows the author, the group owner and
// admins to change or remove a group post.
func (b *Backend) requireGroupPostModeration(r *http.Request) (*access.Identity, int64, int64, int64, error) {
	identity, err := access.RequireIdentity(r.Context())
	if err != nil {
		return nil, 0, 0, 0, err
	}
	id, err := pathID(r, "groupID")
	if err != nil {
		return nil, 0, 0, 0, err
	}
	postID, err := pathID(r, "postID")
	if err != nil {
		return nil, 0, 0, 0, err
	}
	author, err := b.models.GroupPosts.Owner(id, postID)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	groupOwner, err := b.models.Groups.Owner(id)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	if identity.ID != author && !access.CanManage(identity, groupOwner) {
		return nil, 0, 0, 0, core.ForbiddenError("not allowed to change the post")
	}
	return identity, id, postID, author, nil
}
