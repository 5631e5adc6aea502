// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*Package models contains the entity models of the ridemeet backend.

Each model wraps creation, fetch-by-id, filtered listing, partial update
and delete for one entity, against the postgres store. Relationship flags
(isSaved, isAttending, isJoined) and aggregates (attendeesCount,
membersCount, reviewsCount, avgRating) are computed at read time from the
join tables, never stored denormalized.

Every operation is a single SQL statement; concurrency across requests is
left to the database, uniqueness races surface as ordinary errors.
*/
package models

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ridemeet/ridemeet/core"
	"github.com/ridemeet/ridemeet/core/csql"
)

// Models bundles all entity models for one database.
type Models struct {
	Users           *Users
	Events          *Events
	EventAttendees  *EventAttendees
	EventSaves      *EventSaves
	EventPosts      *EventPosts
	Groups          *Groups
	GroupMembers    *GroupMembers
	GroupSaves      *GroupSaves
	GroupEvents     *GroupEvents
	GroupPosts      *GroupPosts
	Locations       *Locations
	LocationSaves   *LocationSaves
	LocationReviews *LocationReviews
}

// New creates all entity tables in the database's schema (if they do not
// exist yet) and returns the models. The bcrypt cost is configurable so
// tests can reduce the work factor.
func New(db *csql.DB, bcryptCost int) *Models {
	mustCreateTables(db)
	return &Models{
		Users:           &Users{db: db, bcryptCost: bcryptCost},
		Events:          &Events{db: db},
		EventAttendees:  &EventAttendees{db: db},
		EventSaves:      &EventSaves{db: db},
		EventPosts:      &EventPosts{db: db},
		Groups:          &Groups{db: db},
		GroupMembers:    &GroupMembers{db: db},
		GroupSaves:      &GroupSaves{db: db},
		GroupEvents:     &GroupEvents{db: db},
		GroupPosts:      &GroupPosts{db: db},
		Locations:       &Locations{db: db},
		LocationSaves:   &LocationSaves{db: db},
		LocationReviews: &LocationReviews{db: db},
	}
}

func mustCreateTables(db *csql.DB) {
	s := db.Schema
	_, err := db.Exec(fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s.users (
	id serial PRIMARY KEY,
	first_name varchar NOT NULL,
	last_name varchar NOT NULL,
	email varchar NOT NULL UNIQUE,
	password varchar NOT NULL,
	bio varchar NOT NULL DEFAULT '',
	pfp_url varchar NOT NULL DEFAULT '',
	is_admin boolean NOT NULL DEFAULT false,
	created_at timestamptz NOT NULL DEFAULT now(),
	deactivated_at timestamptz
);
CREATE TABLE IF NOT EXISTS %[1]s.events (
	id serial PRIMARY KEY,
	title varchar NOT NULL,
	description varchar NOT NULL,
	date timestamptz NOT NULL,
	location varchar NOT NULL,
	pfp_url varchar NOT NULL DEFAULT '',
	created_by integer NOT NULL REFERENCES %[1]s.users (id) ON DELETE CASCADE,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS %[1]s.groups (
	id serial PRIMARY KEY,
	name varchar NOT NULL,
	description varchar NOT NULL,
	pfp_url varchar NOT NULL DEFAULT '',
	created_by integer NOT NULL REFERENCES %[1]s.users (id) ON DELETE CASCADE,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS %[1]s.locations (
	id serial PRIMARY KEY,
	name varchar NOT NULL,
	description varchar NOT NULL,
	address varchar NOT NULL,
	pfp_url varchar NOT NULL DEFAULT '',
	created_by integer NOT NULL REFERENCES %[1]s.users (id) ON DELETE CASCADE,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS %[1]s.event_attendees (
	user_id integer NOT NULL REFERENCES %[1]s.users (id) ON DELETE CASCADE,
	event_id integer NOT NULL REFERENCES %[1]s.events (id) ON DELETE CASCADE,
	created_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, event_id)
);
CREATE TABLE IF NOT EXISTS %[1]s.event_saves (
	user_id integer NOT NULL REFERENCES %[1]s.users (id) ON DELETE CASCADE,
	event_id integer NOT NULL REFERENCES %[1]s.events (id) ON DELETE CASCADE,
	created_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, event_id)
);
CREATE TABLE IF NOT EXISTS %[1]s.group_members (
	user_id integer NOT NULL REFERENCES %[1]s.users (id) ON DELETE CASCADE,
	group_id integer NOT NULL REFERENCES %[1]s.groups (id) ON DELETE CASCADE,
	created_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, group_id)
);
CREATE TABLE IF NOT EXISTS %[1]s.group_saves (
	user_id integer NOT NULL REFERENCES %[1]s.users (id) ON DELETE CASCADE,
	group_id integer NOT NULL REFERENCES %[1]s.groups (id) ON DELETE CASCADE,
	created_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, group_id)
);
CREATE TABLE IF NOT EXISTS %[1]s.group_events (
	group_id integer NOT NULL REFERENCES %[1]s.groups (id) ON DELETE CASCADE,
	event_id integer NOT NULL REFERENCES %[1]s.events (id) ON DELETE CASCADE,
	created_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (group_id, event_id)
);
CREATE TABLE IF NOT EXISTS %[1]s.location_saves (
	user_id integer NOT NULL REFERENCES %[1]s.users (id) ON DELETE CASCADE,
	location_id integer NOT NULL REFERENCES %[1]s.locations (id) ON DELETE CASCADE,
	created_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, location_id)
);
CREATE TABLE IF NOT EXISTS %[1]s.event_posts (
	id serial PRIMARY KEY,
	user_id integer NOT NULL REFERENCES %[1]s.users (id) ON DELETE CASCADE,
	event_id integer NOT NULL REFERENCES %[1]s.events (id) ON DELETE CASCADE,
	text varchar NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS %[1]s.group_posts (
	id serial PRIMARY KEY,
	user_id integer NOT NULL REFERENCES %[1]s.users (id) ON DELETE CASCADE,
	group_id integer NOT NULL REFERENCES %[1]s.groups (id) ON DELETE CASCADE,
	text varchar NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS %[1]s.location_reviews (
	id serial PRIMARY KEY,
	user_id integer NOT NULL REFERENCES %[1]s.users (id) ON DELETE CASCADE,
	location_id integer NOT NULL REFERENCES %[1]s.locations (id) ON DELETE CASCADE,
	text varchar NOT NULL,
	rate integer NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS sort_index_events_date ON %[1]s.events (date);
CREATE INDEX IF NOT EXISTS sort_index_event_posts_created_at ON %[1]s.event_posts (event_id, created_at);
CREATE INDEX IF NOT EXISTS sort_index_group_posts_created_at ON %[1]s.group_posts (group_id, created_at);
CREATE INDEX IF NOT EXISTS sort_index_location_reviews_created_at ON %[1]s.location_reviews (location_id, created_at);
`, s))
	if err != nil {
		panic(err)
	}
}

// isUniqueViolation reports whether err is a postgres unique constraint
// violation, i.e. a duplicate key.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// notFoundIfNoRows translates csql.ErrNoRows into the taxonomy
func notFoundIfNoRows(err error, what string) error {
	if err == csql.ErrNoRows {
		return core.NotFoundError("no %s found", what)
	}
	return err
}
