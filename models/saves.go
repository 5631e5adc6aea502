// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package models

import (
	"time"

	"github.com/ridemeet/ridemeet/core/csql"
)

// EventSave records that a user saved an event.
type EventSave struct {
	UserID    int64     `json:"userId"`
	EventID   int64     `json:"eventId"`
	CreatedAt time.Time `json:"createdAt"`
}

// EventSaves is the model for saved events.
type EventSaves struct {
	db *csql.DB
}

// Add saves the event for the user. Saving twice is a bad request.
func (m *EventSaves) Add(userID, eventID int64) (*EventSave, error) {
	createdAt, err := addLink(m.db, "event_saves", "user_id", "event_id", userID, eventID, "save")
	if err != nil {
		return nil, err
	}
	return &EventSave{UserID: userID, EventID: eventID, CreatedAt: createdAt}, nil
}

// Remove unsaves the event for the user
func (m *EventSaves) Remove(userID, eventID int64) error {
	return removeLink(m.db, "event_saves", "user_id", "event_id", userID, eventID, "save")
}

// GroupSave records that a user saved a group.
type GroupSave struct {
	UserID    int64     `json:"userId"`
	GroupID   int64     `json:"groupId"`
	CreatedAt time.Time `json:"createdAt"`
}

// GroupSaves is the model for saved groups.
type GroupSaves struct {
	db *csql.DB
}

// Add saves the group for the user. Saving twice is a bad request.
func (m *GroupSaves) Add(userID, groupID int64) (*GroupSave, error) {
	createdAt, err := addLink(m.db, "group_saves", "user_id", "group_id", userID, groupID, "save")
	if err != nil {
		return nil, err
	}
	return &GroupSave{UserID: userID, GroupID: groupID, CreatedAt: createdAt}, nil
}

// Remove unsaves the group for the user
func (m *GroupSaves) Remove(userID, groupID int64) error {
	return removeLink(m.db, "group_saves", "user_id", "group_id", userID, groupID, "save")
}

// LocationSave records that a user saved a location.
type LocationSave struct {
	UserID     int64     `json:"userId"`
	LocationID int64     `json:"locationId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LocationSaves is the model for saved locations.
type LocationSaves struct {
	db *csql.DB
}

// Add saves the location for the user. Saving twice is a bad request.
func (m *LocationSaves) Add(userID, locationID int64) (*LocationSave, error) {
	createdAt, err := addLink(m.db, "location_saves", "user_id", "location_id", userID, locationID, "save")
	if err != nil {
		return nil, err
	}
	return &LocationSave{UserID: userID, LocationID: locationID, CreatedAt: createdAt}, nil
}

// Remove unsaves the location for the user
func (m *LocationSaves) Remove(userID, locationID int64) error {
	return removeLink(m.db, "location_saves", "user_id", "location_id", userID, locationID, "save")
}
