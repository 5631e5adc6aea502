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

// EventAttendance records that a user attends an event.
type EventAttendance struct {
	UserID    int64     `json:"userId"`
	EventID   int64     `json:"eventId"`
	CreatedAt time.Time `json:"createdAt"`
}

// EventAttendees is the model for event attendance.
type EventAttendees struct {
	db *csql.DB
}

// Add marks the user as attending. Attending twice is a bad request.
func (m *EventAttendees) Add(userID, eventID int64) (*EventAttendance, error) {
	createdAt, err := addLink(m.db, "event_attendees", "user_id", "event_id", userID, eventID, "attendance")
	if err != nil {
		return nil, err
	}
	return &EventAttendance{UserID: userID, EventID: eventID, CreatedAt: createdAt}, nil
}

// Remove withdraws the user's attendance
func (m *EventAttendees) Remove(userID, eventID int64) error {
	return removeLink(m.db, "event_attendees", "user_id", "event_id", userID, eventID, "attendance")
}

// List returns the users attending the event, earliest joiner first
func (m *EventAttendees) List(eventID int64) ([]User, error) {
	rows, err := m.db.Query(fmt.Sprintf(
		`SELECT u.id, u.first_name, u.last_name, u.email, u.bio, u.pfp_url, u.is_admin, u.created_at, u.deactivated_at
FROM %[1]s.event_attendees a JOIN %[1]s.users u ON u.id = a.user_id
WHERE a.event_id = $1 ORDER BY a.created_at ASC, u.id ASC;`, m.db.Schema), eventID)
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
