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

// Group is a riding group. The owner's name, the viewer's relationship
// flags and the member count are joined in at read time.
type Group struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PfpURL      string    `json:"pfpUrl"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`

	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	IsSaved      bool   `json:"isSaved"`
	IsJoined     bool   `json:"isJoined"`
	MembersCount int    `json:"membersCount"`
}

// GroupInput is the payload to create a group.
type GroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PfpURL      string `json:"pfpUrl"`
}

// GroupUpdate is the partial-update payload. Nil fields stay untouched.
type GroupUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PfpURL      *string `json:"pfpUrl"`
}

// GroupFilter narrows down GetAll. The zero value returns everything.
type GroupFilter struct {
	Saved     bool  // only groups the viewer saved
	Joined    bool  // only groups the viewer joined
	CreatedBy int64 // only groups created by this user
}

// Groups is the model for groups.
type Groups struct {
	db *csql.DB
}

var groupToColumn = map[string]string{
	"name":        "name",
	"description": "description",
	"pfpUrl":      "pfp_url",
}

// viewerID is always $1 in the group projection
func (m *Groups) projection() string {
	s := m.db.Schema
	return fmt.Sprintf(`SELECT g.id, g.name, g.description, g.pfp_url,
g.created_by, g.created_at, u.first_name, u.last_name,
EXISTS (SELECT 1 FROM %[1]s.group_saves s WHERE s.group_id = g.id AND s.user_id = $1) AS is_saved,
EXISTS (SELECT 1 FROM %[1]s.group_members gm WHERE gm.group_id = g.id AND gm.user_id = $1) AS is_joined,
(SELECT COUNT(*) FROM %[1]s.group_members gm WHERE gm.group_id = g.id) AS members_count
FROM %[1]s.groups g JOIN %[1]s.users u ON u.id = g.created_by`, s)
}

func scanGroup(row interface{ Scan(...interface{}) error }) (*Group, error) {
	group := Group{}
	err := row.Scan(&group.ID, &group.Name, &group.Description, &group.PfpURL,
		&group.CreatedBy, &group.CreatedAt, &group.FirstName, &group.LastName,
		&group.IsSaved, &group.IsJoined, &group.MembersCount)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Create stores a new group owned by createdBy
func (m *Groups) Create(createdBy int64, in GroupInput) (*Group, error) {
	var id int64
	err := m.db.QueryRow(fmt.Sprintf(
		`INSERT INTO %s.groups (name, description, pfp_url, created_by)
VALUES ($1, $2, $3, $4) RETURNING id;`, m.db.Schema),
		in.Name, in.Description, in.PfpURL, createdBy).Scan(&id)
	if err != nil {
		return nil, err
	}
	return m.Get(id, createdBy)
}

// Get returns one group, with the relationship flags computed for viewerID
func (m *Groups) Get(id, viewerID int64) (*Group, error) {
	group, err := scanGroup(m.db.QueryRow(m.projection()+` WHERE g.id = $2;`, viewerID, id))
	return group, notFoundIfNoRows(err, "group")
}

// GetAll returns groups matching the filter, most popular first
func (m *Groups) GetAll(viewerID int64, filter GroupFilter) ([]Group, error) {
	query := m.projection()
	where := []string{}
	values := []interface{}{viewerID}
	if filter.Saved {
		where = append(where, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM %s.group_saves s WHERE s.group_id = g.id AND s.user_id = $1)`, m.db.Schema))
	}
	if filter.Joined {
		where = append(where, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM %s.group_members gm WHERE gm.group_id = g.id AND gm.user_id = $1)`, m.db.Schema))
	}
	if filter.CreatedBy != 0 {
		values = append(values, filter.CreatedBy)
		where = append(where, fmt.Sprintf(`g.created_by = $%d`, len(values)))
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY members_count DESC, g.created_at DESC, g.id DESC;`

	rows, err := m.db.Query(query, values...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	groups := []Group{}
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *group)
	}
	return groups, rows.Err()
}

// Update applies a partial update and returns the fresh projection for
// viewerID
func (m *Groups) Update(id, viewerID int64, in GroupUpdate) (*Group, error) {
	fields := []csql.Field{}
	if in.Name != nil {
		fields = append(fields, csql.Field{Name: "name", Value: *in.Name})
	}
	if in.Description != nil {
		fields = append(fields, csql.Field{Name: "description", Value: *in.Description})
	}
	if in.PfpURL != nil {
		fields = append(fields, csql.Field{Name: "pfpUrl", Value: *in.PfpURL})
	}
	set, values, err := csql.ForPartialUpdate(fields, groupToColumn)
	if err != nil {
		return nil, err
	}
	values = append(values, id)
	var updatedID int64
	err = m.db.QueryRow(fmt.Sprintf(
		`UPDATE %s.groups SET `+set+` WHERE id = $%d RETURNING id;`,
		m.db.Schema, len(values)), values...).Scan(&updatedID)
	if err != nil {
		return nil, notFoundIfNoRows(err, "group")
	}
	return m.Get(updatedID, viewerID)
}

// Delete removes the group and all its membership, save, link and post
// records through the cascading foreign keys.
func (m *Groups) Delete(id int64) error {
	result, err := m.db.Exec(fmt.Sprintf(
		`DELETE FROM %s.groups WHERE id = $1;`, m.db.Schema), id)
	if err != nil {
		return err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return core.NotFoundError("no group found")
	}
	return nil
}

// Owner returns who created the group, for ownership checks without
// fetching the full projection.
func (m *Groups) Owner(id int64) (int64, error) {
	var createdBy int64
	err := m.db.QueryRow(fmt.Sprintf(
		`SELECT created_by FROM %s.groups WHERE id = $1;`, m.db.Schema), id).Scan(&createdBy)
	return createdBy, notFoundIfNoRows(err, "group")
}
