// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/ridemeet/ridemeet/core"
	"github.com/ridemeet/ridemeet/core/csql"
)

// Event is a scheduled ride or meetup. The owner's name, the viewer's
// relationship flags and the attendee count are joined in at read time.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	PfpURL      string    `json:"pfpUrl"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`

	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	IsSaved        bool   `json:"isSaved"`
	IsAttending    bool   `json:"isAttending"`
	AttendeesCount int    `json:"attendeesCount"`
}

// EventInput is the payload to create an event.
type EventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	PfpURL      string    `json:"pfpUrl"`
}

// EventUpdate is the partial-update payload. Nil fields stay untouched.
type EventUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location"`
	PfpURL      *string    `json:"pfpUrl"`
}

// EventFilter narrows down GetAll. The zero value returns everything.
type EventFilter struct {
	Saved     bool       // only events the viewer saved
	Attending bool       // only events the viewer attends
	CreatedBy int64      // only events created by this user
	From      *time.Time // only events at or after this time
	To        *time.Time // only events at or before this time
}

// Events is the model for events.
type Events struct {
	db *csql.DB
}

var eventToColumn = map[string]string{
	"title":       "title",
	"description": "description",
	"date":        "date",
	"location":    "location",
	"pfpUrl":      "pfp_url",
}

// viewerID is always $1 in the event projection
func (m *Events) projection() string {
	s := m.db.Schema
	return fmt.Sprintf(`SELECT e.id, e.title, e.description, e.date, e.location, e.pfp_url,
e.created_by, e.created_at, u.first_name, u.last_name,
EXISTS (SELECT 1 FROM %[1]s.event_saves s WHERE s.event_id = e.id AND s.user_id = $1) AS is_saved,
EXISTS (SELECT 1 FROM %[1]s.event_attendees a WHERE a.event_id = e.id AND a.user_id = $1) AS is_attending,
(SELECT COUNT(*) FROM %[1]s.event_attendees a WHERE a.event_id = e.id) AS attendees_count
FROM %[1]s.events e JOIN %[1]s.users u ON u.id = e.created_by`, s)
}

func scanEvent(row interface{ Scan(...interface{}) error }) (*Event, error) {
	event := Event{}
	err := row.Scan(&event.ID, &event.Title, &event.Description, &event.Date,
		&event.Location, &event.PfpURL, &event.CreatedBy, &event.CreatedAt,
		&event.FirstName, &event.LastName,
		&event.IsSaved, &event.IsAttending, &event.AttendeesCount)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Create stores a new event owned by createdBy
func (m *Events) Create(createdBy int64, in EventInput) (*Event, error) {
	var id int64
	err := m.db.QueryRow(fmt.Sprintf(
		`INSERT INTO %s.events (title, description, date, location, pfp_url, created_by)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`, m.db.Schema),
		in.Title, in.Description, in.Date, in.Location, in.PfpURL, createdBy).Scan(&id)
	if err != nil {
		return nil, err
	}
	return m.Get(id, createdBy)
}

// Get returns one event, with the relationship flags computed for viewerID
func (m *Events) Get(id, viewerID int64) (*Event, error) {
	event, err := scanEvent(m.db.QueryRow(m.projection()+` WHERE e.id = $2;`, viewerID, id))
	return event, notFoundIfNoRows(err, "event")
}

// GetAll returns events matching the filter, upcoming and recent first
func (m *Events) GetAll(viewerID int64, filter EventFilter) ([]Event, error) {
	query := m.projection()
	where := []string{}
	values := []interface{}{viewerID}
	if filter.Saved {
		where = append(where, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM %s.event_saves s WHERE s.event_id = e.id AND s.user_id = $1)`, m.db.Schema))
	}
	if filter.Attending {
		where = append(where, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM %s.event_attendees a WHERE a.event_id = e.id AND a.user_id = $1)`, m.db.Schema))
	}
	if filter.CreatedBy != 0 {
		values = append(values, filter.CreatedBy)
		where = append(where, fmt.Sprintf(`e.created_by = $%d`, len(values)))
	}
	if filter.From != nil {
		values = append(values, *filter.From)
		where = append(where, fmt.Sprintf(`e.date >= $%d`, len(values)))
	}
	if filter.To != nil {
		values = append(values, *filter.To)
		where = append(where, fmt.Sprintf(`e.date <= $%d`, len(values)))
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY e.date DESC, e.id DESC;`

	rows, err := m.db.Query(query, values...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := []Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

// GetByIDs returns the events with the given ids, upcoming and recent
// first. Unknown ids are silently skipped.
func (m *Events) GetByIDs(ids []int64, viewerID int64) ([]Event, error) {
	rows, err := m.db.Query(m.projection()+` WHERE e.id = ANY ($2) ORDER BY e.date DESC, e.id DESC;`,
		viewerID, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := []Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

// Update applies a partial update and returns the fresh projection for
// viewerID
func (m *Events) Update(id, viewerID int64, in EventUpdate) (*Event, error) {
	fields := []csql.Field{}
	if in.Title != nil {
		fields = append(fields, csql.Field{Name: "title", Value: *in.Title})
	}
	if in.Description != nil {
		fields = append(fields, csql.Field{Name: "description", Value: *in.Description})
	}
	if in.Date != nil {
		fields = append(fields, csql.Field{Name: "date", Value: *in.Date})
	}
	if in.Location != nil {
		fields = append(fields, csql.Field{Name: "location", Value: *in.Location})
	}
	if in.PfpURL != nil {
		fields = append(fields, csql.Field{Name: "pfpUrl", Value: *in.PfpURL})
	}
	set, values, err := csql.ForPartialUpdate(fields, eventToColumn)
	if err != nil {
		return nil, err
	}
	values = append(values, id)
	var updatedID int64
	err = m.db.QueryRow(fmt.Sprintf(
		`UPDATE %s.events SET `+set+` WHERE id = $%d RETURNING id;`,
		m.db.Schema, len(values)), values...).Scan(&updatedID)
	if err != nil {
		return nil, notFoundIfNoRows(err, "event")
	}
	return m.Get(updatedID, viewerID)
}

// Delete removes the event and all its attendance, save, link and post
// records through the cascading foreign keys.
func (m *Events) Delete(id int64) error {
	result, err := m.db.Exec(fmt.Sprintf(
		`DELETE FROM %s.events WHERE id = $1;`, m.db.Schema), id)
	if err != nil {
		return err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return core.NotFoundError("no event found")
	}
	return nil
}

// Owner returns who created the event, for ownership checks without
// fetching the full projection.
func (m *Events) Owner(id int64) (int64, error) {
	var createdBy int64
	err := m.db.QueryRow(fmt.Sprintf(
		`SELECT created_by FROM %s.events WHERE id = $1;`, m.db.Schema), id).Scan(&createdBy)
	return createdBy, notFoundIfNoRows(err, "event")
}
