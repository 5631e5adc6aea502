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

// The relationship tables (attendance, saves, membership, group-event
// links) all share the same shape: a composite-key pair of ids plus a
// creation timestamp. addLink and removeLink implement add and remove for
// any of them; what names the relation in error messages.

func addLink(db *csql.DB, table, leftColumn, rightColumn string, leftID, rightID int64, what string) (time.Time, error) {
	var createdAt time.Time
	err := db.QueryRow(fmt.Sprintf(
		`INSERT INTO %s.%s (%s, %s) VALUES ($1, $2) RETURNING created_at;`,
		db.Schema, table, leftColumn, rightColumn),
		leftID, rightID).Scan(&createdAt)
	if isUniqueViolation(err) {
		return createdAt, core.BadRequestError("duplicate %s", what)
	}
	return createdAt, err
}

func removeLink(db *csql.DB, table, leftColumn, rightColumn string, leftID, rightID int64, what string) error {
	result, err := db.Exec(fmt.Sprintf(
		`DELETE FROM %s.%s WHERE %s = $1 AND %s = $2;`,
		db.Schema, table, leftColumn, rightColumn),
		leftID, rightID)
	if err != nil {
		return err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return core.NotFoundError("no %s found", what)
	}
	return nil
}
