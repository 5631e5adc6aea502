// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package models

import (
	"fmt"
	"time"

	"github.com/ridemeet/ridemeet/core"
	"github.com/ridemeet/ridemeet/core/csql"
)

// LocationReview is a rated review of a location. The author's name and
// picture are joined in at read time.
type LocationReview struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	LocationID int64     `json:"locationId"`
	Text       string    `json:"text"`
	Rate       int       `json:"rate"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	PfpURL    string `json:"pfpUrl"`
}

// ReviewUpdate is the partial-update payload. Nil fields stay untouched.
type ReviewUpdate struct {
	Text *string `json:"text"`
	Rate *int    `json:"rate"`
}

// LocationReviews is the model for location reviews.
type LocationReviews struct {
	db *csql.DB
}

var reviewToColumn = map[string]string{
	"text": "text",
	"rate": "rate",
}

func (m *LocationReviews) projection() string {
	return fmt.Sprintf(`SELECT r.id, r.user_id, r.location_id, r.text, r.rate, r.created_at, r.updated_at,
u.first_name, u.last_name, u.pfp_url
FROM %[1]s.location_reviews r JOIN %[1]s.users u ON u.id = r.user_id`, m.db.Schema)
}

func scanReview(row interface{ Scan(...interface{}) error }) (*LocationReview, error) {
	review := LocationReview{}
	err := row.Scan(&review.ID, &review.UserID, &review.LocationID, &review.Text,
		&review.Rate, &review.CreatedAt, &review.UpdatedAt,
		&review.FirstName, &review.LastName, &review.PfpURL)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Create stores a new review by userID for the location
func (m *LocationReviews) Create(userID, locationID int64, text string, rate int) (*LocationReview, error) {
	var id int64
	err := m.db.QueryRow(fmt.Sprintf(
		`INSERT INTO %s.location_reviews (user_id, location_id, text, rate)
VALUES ($1, $2, $3, $4) RETURNING id;`, m.db.Schema),
		userID, locationID, text, rate).Scan(&id)
	if err != nil {
		return nil, err
	}
	review, err := scanReview(m.db.QueryRow(m.projection()+` WHERE r.id = $1;`, id))
	return review, notFoundIfNoRows(err, "review")
}

// Get returns one review of the location. A review id that belongs to a
// different location is not found.
func (m *LocationReviews) Get(locationID, reviewID int64) (*LocationReview, error) {
	review, err := scanReview(m.db.QueryRow(
		m.projection()+` WHERE r.id = $1 AND r.location_id = $2;`, reviewID, locationID))
	return review, notFoundIfNoRows(err, "review")
}

// List returns the location's reviews, newest first
func (m *LocationReviews) List(locationID int64) ([]LocationReview, error) {
	rows, err := m.db.Query(
		m.projection()+` WHERE r.location_id = $1 ORDER BY r.created_at DESC, r.id DESC;`, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := []LocationReview{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *review)
	}
	return reviews, rows.Err()
}

// Update applies a partial update and bumps updated_at
func (m *LocationReviews) Update(locationID, reviewID int64, in ReviewUpdate) (*LocationReview, error) {
	fields := []csql.Field{}
	if in.Text != nil {
		fields = append(fields, csql.Field{Name: "text", Value: *in.Text})
	}
	if in.Rate != nil {
		fields = append(fields, csql.Field{Name: "rate", Value: *in.Rate})
	}
	set, values, err := csql.ForPartialUpdate(fields, reviewToColumn)
	if err != nil {
		return nil, err
	}
	values = append(values, reviewID, locationID)
	var id int64
	err = m.db.QueryRow(fmt.Sprintf(
		`UPDATE %s.location_reviews SET `+set+`, updated_at = now()
WHERE id = $%d AND location_id = $%d RETURNING id;`,
		m.db.Schema, len(values)-1, len(values)), values...).Scan(&id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "review")
	}
	return m.Get(locationID, id)
}

// Delete removes the review
func (m *LocationReviews) Delete(locationID, reviewID int64) error {
	result, err := m.db.Exec(fmt.Sprintf(
		`DELETE FROM %s.location_reviews WHERE id = $1 AND location_id = $2;`, m.db.Schema),
		reviewID, locationID)
	if err != nil {
		return err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return core.NotFoundError("no review found")
	}
	return nil
}

// Owner returns who wrote the review, for ownership checks
func (m *LocationReviews) Owner(locationID, reviewID int64) (int64, error) {
	var userID int64
	err := m.db.QueryRow(fmt.Sprintf(
		`SELECT user_id FROM %s.location_reviews WHERE id = $1 AND location_id = $2;`, m.db.Schema),
		reviewID, locationID).Scan(&userID)
	return userID, notFoundIfNoRows(err, "review")
}
