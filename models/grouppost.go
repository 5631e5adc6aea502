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

// GroupPost is a message on a group's wall. The author's name and picture
// are joined in at read time.
type GroupPost struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	GroupID   int64     `json:"groupId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	PfpURL    string `json:"pfpUrl"`
}

// GroupPosts is the model for group posts.
type GroupPosts struct {
	db *csql.DB
}

func (m *GroupPosts) projection() string {
	return fmt.Sprintf(`SELECT p.id, p.user_id, p.group_id, p.text, p.created_at, p.updated_at,
u.first_name, u.last_name, u.pfp_url
FROM %[1]s.group_posts p JOIN %[1]s.users u ON u.id = p.user_id`, m.db.Schema)
}

func scanGroupPost(row interface{ Scan(...interface{}) error }) (*GroupPost, error) {
	post := GroupPost{}
	err := row.Scan(&post.ID, &post.UserID, &post.GroupID, &post.Text,
		&post.CreatedAt, &post.UpdatedAt, &post.FirstName, &post.LastName, &post.PfpURL)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create stores a new post by userID on the group's wall
func (m *GroupPosts) Create(userID, groupID int64, text string) (*GroupPost, error) {
	var id int64
	err := m.db.QueryRow(fmt.Sprintf(
		`INSERT INTO %s.group_posts (user_id, group_id, text) VALUES ($1, $2, $3) RETURNING id;`,
		m.db.Schema), userID, groupID, text).Scan(&id)
	if err != nil {
		return nil, err
	}
	post, err := scanGroupPost(m.db.QueryRow(m.projection()+` WHERE p.id = $1;`, id))
	return post, notFoundIfNoRows(err, "post")
}

// Get returns one post of the group. A post id that belongs to a
// different group is not found.
func (m *GroupPosts) Get(groupID, postID int64) (*GroupPost, error) {
	post, err := scanGroupPost(m.db.QueryRow(
		m.projection()+` WHERE p.id = $1 AND p.group_id = $2;`, postID, groupID))
	return post, notFoundIfNoRows(err, "post")
}

// List returns the group's posts, newest first
func (m *GroupPosts) List(groupID int64) ([]GroupPost, error) {
	rows, err := m.db.Query(
		m.projection()+` WHERE p.group_id = $1 ORDER BY p.created_at DESC, p.id DESC;`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := []GroupPost{}
	for rows.Next() {
		post, err := scanGroupPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// Update replaces the post's text and bumps updated_at
func (m *GroupPosts) Update(groupID, postID int64, text string) (*GroupPost, error) {
	var id int64
	err := m.db.QueryRow(fmt.Sprintf(
		`UPDATE %s.group_posts SET "text" = $1, updated_at = now()
WHERE id = $2 AND group_id = $3 RETURNING id;`, m.db.Schema),
		text, postID, groupID).Scan(&id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "post")
	}
	return m.Get(groupID, id)
}

// Delete removes the post
func (m *GroupPosts) Delete(groupID, postID int64) error {
	result, err := m.db.Exec(fmt.Sprintf(
		`DELETE FROM %s.group_posts WHERE id = $1 AND group_id = $2;`, m.db.Schema),
		postID, groupID)
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
func (m *GroupPosts) Owner(groupID, postID int64) (int64, error) {
	var userID int64
	err := m.db.QueryRow(fmt.Sprintf(
		`SELECT user_id FROM %s.group_posts WHERE id = $1 AND group_id = $2;`, m.db.Schema),
		postID, groupID).Scan(&userID)
	return userID, notFoundIfNoRows(err, "post")
}
