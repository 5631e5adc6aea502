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

	"github.com/ridemeet/ridemeet/core"
	"github.com/ridemeet/ridemeet/core/csql"
)

// Location is a curated riding spot. Locations are managed by admins;
// the viewer's save flag and the review aggregates are joined in at read
// time. AvgRating is 0 while a location has no reviews.
type Location struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	PfpURL      string    `json:"pfpUrl"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`

	IsSaved      bool    `json:"isSaved"`
	ReviewsCount int     `json:"reviewsCount"`
	AvgRating    float64 `json:"avgRating"`
}

// LocationInput is the payload to create a location.
type LocationInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	PfpURL      string `json:"pfpUrl"`
}

// LocationUpdate is the partial-update payload. Nil fields stay untouched.
type LocationUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	PfpURL      *string `json:"pfpUrl"`
}

// LocationFilter narrows down GetAll. The zero value returns everything.
type LocationFilter struct {
	Saved     bool    // only locations the viewer saved
	MinRating float64 // only locations with at least this average rating
}

// Locations is the model for locations.
type Locations struct {
	db *csql.DB
}

var locationToColumn = map[string]string{
	"name":        "name",
	"description": "description",
	"address":     "address",
	"pfpUrl":      "pfp_url",
}

// viewerID is always $1 in the location projection
func (m *Locations) projection() string {
	s := m.db.Schema
	return fmt.Sprintf(`SELECT l.id, l.name, l.description, l.address, l.pfp_url,
l.created_by, l.created_at,
EXISTS (SELECT 1 FROM %[1]s.location_saves s WHERE s.location_id = l.id AND s.user_id = $1) AS is_saved,
(SELECT COUNT(*) FROM %[1]s.location_reviews r WHERE r.location_id = l.id) AS reviews_count,
(SELECT COALESCE(ROUND(AVG(r.rate), 2), 0) FROM %[1]s.location_reviews r WHERE r.location_id = l.id) AS avg_rating
FROM %[1]s.locations l`, s)
}

func scanLocation(row interface{ Scan(...interface{}) error }) (*Location, error) {
	location := Location{}
	err := row.Scan(&location.ID, &location.Name, &location.Description,
		&location.Address, &location.PfpURL, &location.CreatedBy, &location.CreatedAt,
		&location.IsSaved, &location.ReviewsCount, &location.AvgRating)
	if err != nil {
		return nil, err
	}
	return &location, nil
}

// Create stores a new location owned by createdBy
func (m *Locations) Create(createdBy int64, in LocationInput) (*Location, error) {
	var id int64
	err := m.db.QueryRow(fmt.Sprintf(
		`INSERT INTO %s.locations (name, description, address, pfp_url, created_by)
VALUES ($1, $2, $3, $4, $5) RETURNING id;`, m.db.Schema),
		in.Name, in.Description, in.Address, in.PfpURL, createdBy).Scan(&id)
	if err != nil {
		return nil, err
	}
	return m.Get(id, createdBy)
}

// Get returns one location, with the save flag computed for viewerID
func (m *Locations) Get(id, viewerID int64) (*Location, error) {
	location, err := scanLocation(m.db.QueryRow(m.projection()+` WHERE l.id = $2;`, viewerID, id))
	return location, notFoundIfNoRows(err, "location")
}

// GetAll returns locations matching the filter, best rated first
func (m *Locations) GetAll(viewerID int64, filter LocationFilter) ([]Location, error) {
	query := m.projection()
	where := []string{}
	values := []interface{}{viewerID}
	if filter.Saved {
		where = append(where, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM %s.location_saves s WHERE s.location_id = l.id AND s.user_id = $1)`, m.db.Schema))
	}
	if filter.MinRating > 0 {
		values = append(values, filter.MinRating)
		where = append(where, fmt.Sprintf(
			`(SELECT COALESCE(AVG(r.rate), 0) FROM %s.location_reviews r WHERE r.location_id = l.id) >= $%d`,
			m.db.Schema, len(values)))
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY avg_rating DESC, l.created_at DESC, l.id DESC;`

	rows, err := m.db.Query(query, values...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	locations := []Location{}
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, *location)
	}
	return locations, rows.Err()
}

// Update applies a partial update and returns the fresh projection for
// viewerID
func (m *Locations) Update(id, viewerID int64, in LocationUpdate) (*Location, error) {
	fields := []csql.Field{}
	if in.Name != nil {
		fields = append(fields, csql.Field{Name: "name", Value: *in.Name})
	}
	if in.Description != nil {
		fields = append(fields, csql.Field{Name: "description", Value: *in.Description})
	}
	if in.Address != nil {
		fields = append(fields, csql.Field{Name: "address", Value: *in.Address})
	}
	if in.PfpURL != nil {
		fields = append(fields, csql.Field{Name: "pfpUrl", Value: *in.PfpURL})
	}
	set, values, err := csql.ForPartialUpdate(fields, locationToColumn)
	if err != nil {
		return nil, err
	}
	values = append(values, id)
	var updatedID int64
	err = m.db.QueryRow(fmt.Sprintf(
		`UPDATE %s.locations SET `+set+` WHERE id = $%d RETURNING id;`,
		m.db.Schema, len(values)), values...).Scan(&updatedID)
	if err != nil {
		return nil, notFoundIfNoRows(err, "location")
	}
	return m.Get(updatedID, viewerID)
}

// Delete removes the location and all its save and review records through
// the cascading foreign keys.
func (m *Locations) Delete(id int64) error {
	result, err := m.db.Exec(fmt.Sprintf(
		`DELETE FROM %s.locations WHERE id = $1;`, m.db.Schema), id)
	if err != nil {
		return err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return core.NotFoundError("no location found")
	}
	return nil
}
