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

// EventPost is a message on an event's wall. The author's name and
// picture are joined in at read time.
type EventPost struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	EventID   int64     `json:"eventId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	PfpURL    string `json:"pfpUrl"`
}

// EventPosts is the model for event posts.
type EventPosts struct {
	db *csql.DB
}

func (m *EventPosts) projection() string {
	return fmt.Sprintf(`SELECT p.id, p.user_id, p.event_id, p.text, p.created_at, p.updated_at,
u.first_name, u.last_name, u.pfp_url
FROM %[1]s.event_posts p JOIN %[1]s.users u ON u.id = p.user_id`, m.db.Schema)
}

func scanEventPost(row interface{ Scan(...interface{}) error }) (*EventPost, error) {
	post := EventPost{}
	err := row.Scan(&post.ID, &post.UserID, &post.EventID, &post.Text,
		&post.CreatedAt, &post.UpdatedAt, &post.FirstName, &post.LastName, &post.PfpURL)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create stores a new post by userID on the event's wall
func (m *EventPosts) Create(userID, eventID int64, text string) (*EventPost, error) {
	var id int64
	err := m.db.QueryRow(fmt.Sprintf(
		`INSERT INTO %s.event_posts (user_id, event_id, text) VALUES ($1, $2, $3) RETURNING id;`,
		m.db.Schema), userID, eventID, text).Scan(&id)
	if err != nil {
		return nil, err
	}
	post, err := scanEventPost(m.db.QueryRow(m.projection()+` WHERE p.id = $1;`, id))
	return post, notFoundIfNoRows(err, "post")
}

// Get returns one post of the event. A post id that belongs to a
// different event is not found.
func (m *EventPosts) Get(eventID, postID int64) (*EventPost, error) {
	post, err := scanEventPost(m.db.QueryRow(
		m.projection()+` WHERE p.id = $1 AND p.event_id = $2;`, postID, eventID))
	return post, notFoundIfNoRows(err, "post")
}

// List returns the event's posts, newest first
func (m *EventPosts) List(eventID int64) ([]EventPost, error) {
	rows, err := m.db.Query(
		m.projection()+` WHERE p.event_id = $1 ORDER BY p.created_at DESC, p.id DESC;`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := []EventPost{}
	for rows.Next() {
		post, err := scanEventPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// Update replaces the post's text and bumps updated_at
func (m *EventPosts) Update(eventID, postID int64, text string) (*EventPost, error) {
	var id int64
	err := m.db.QueryRow(fmt.Sprintf(
		`UPDATE %s.event_posts SET "text" = $1, updated_at = now()
WHERE id = $2 AND event_id = $3 RETURNING id;`, m.db.Schema),
		text, postID, eventID).Scan(&id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "post")
	}
	return m.Get(eventID, id)
}

// Delete removes the post
func (m *EventPosts) Delete(eventID, postID int64) error {
	result, err := m.db.Exec(fmt.Sprintf(
		`DELETE FROM %s.event_posts WHERE id = $1 AND event_id = $2;`, m.db.Schema),
		postID, eventID)
	if err != nil {
		return err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return core.NotFoundError("no post found")
	}
	return nil
}

// Owner returns who wrote the post, for ownership checks
func (m *EventPosts) Owner(eventID, postID int64) (int64, error) {
	var userID int64
	err := m.db.QueryRow(fmt.Sprintf(
		`SELECT user_id FROM %s.event_posts WHERE id = $1 AND event_id = $2;`, m.db.Schema),
		postID, eventID).Scan(&userID)
	return userID, notFoundIfNoRows(err, "post")
}
