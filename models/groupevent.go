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

// GroupEvent links an event to a group's agenda.
type GroupEvent struct {
	GroupID   int64     `json:"groupId"`
	EventID   int64     `json:"eventId"`
	CreatedAt time.Time `json:"createdAt"`
}

// GroupEvents is the model for the group agenda links.
type GroupEvents struct {
	db *csql.DB
}

// Add links the event to the group. Linking twice is a bad request.
func (m *GroupEvents) Add(groupID, eventID int64) (*GroupEvent, error) {
	createdAt, err := addLink(m.db, "group_events", "group_id", "event_id", groupID, eventID, "link")
	if err != nil {
		return nil, err
	}
	return &GroupEvent{GroupID: groupID, EventID: eventID, CreatedAt: createdAt}, nil
}

// Remove unlinks the event from the group
func (m *GroupEvents) Remove(groupID, eventID int64) error {
	return removeLink(m.db, "group_events", "group_id", "event_id", groupID, eventID, "link")
}

// ListEventIDs returns the ids of the events linked to the group
func (m *GroupEvents) ListEventIDs(groupID int64) ([]int64, error) {
	rows, err := m.db.Query(fmt.Sprintf(
		`SELECT event_id FROM %s.group_events WHERE group_id = $1 ORDER BY created_at ASC;`,
		m.db.Schema), groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
