// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package models

import (
	"fmt"
	"time"

	"github.com/ridemeet/ridemeet/core/csql"
)

// GroupMembership records that a user joined a group.
type GroupMembership struct {
	UserID    int64     `json:"userId"`
	GroupID   int64     `json:"groupId"`
	CreatedAt time.Time `json:"createdAt"`
}

// GroupMembers is the model for group membership.
type GroupMembers struct {
	db *csql.DB
}

// Add joins the user to the group. Joining twice is a bad request.
func (m *GroupMembers) Add(userID, groupID int64) (*GroupMembership, error) {
	createdAt, err := addLink(m.db, "group_members", "user_id", "group_id", userID, groupID, "membership")
	if err != nil {
		return nil, err
	}
	return &GroupMembership{UserID: userID, GroupID: groupID, CreatedAt: createdAt}, nil
}

// Remove takes the user out of the group
func (m *GroupMembers) Remove(userID, groupID int64) error {
	return removeLink(m.db, "group_members", "user_id", "group_id", userID, groupID, "membership")
}

// List returns the members of the group, earliest joiner first
func (m *GroupMembers) List(groupID int64) ([]User, error) {
	rows, err := m.db.Query(fmt.Sprintf(
		`SELECT u.id, u.first_name, u.last_name, u.email, u.bio, u.pfp_url, u.is_admin, u.created_at, u.deactivated_at
FROM %[1]s.group_members gm JOIN %[1]s.users u ON u.id = gm.user_id
WHERE gm.group_id = $1 ORDER BY gm.created_at ASC, u.id ASC;`, m.db.Schema), groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}
