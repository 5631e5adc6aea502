// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package models

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ridemeet/ridemeet/core"
	"github.com/ridemeet/ridemeet/core/csql"
)

// User is an account. The password hash never leaves the model.
type User struct {
	ID            int64      `json:"id"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Email         string     `json:"email"`
	Bio           string     `json:"bio"`
	PfpURL        string     `json:"pfpUrl"`
	IsAdmin       bool       `json:"isAdmin"`
	CreatedAt     time.Time  `json:"createdAt"`
	DeactivatedAt *time.Time `json:"deactivatedAt,omitempty"`
}

// SignupInput is the payload to create an account.
type SignupInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Bio       string `json:"bio"`
	PfpURL    string `json:"pfpUrl"`
}

// UserUpdate is the partial-update payload. Nil fields stay untouched.
type UserUpdate struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Bio       *string `json:"bio"`
	PfpURL    *string `json:"pfpUrl"`
}

// Users is the model for accounts.
type Users struct {
	db         *csql.DB
	bcryptCost int
}

var userToColumn = map[string]string{
	"firstName":     "first_name",
	"lastName":      "last_name",
	"email":         "email",
	"password":      "password",
	"bio":           "bio",
	"pfpUrl":        "pfp_url",
	"deactivatedAt": "deactivated_at",
}

const userColumns = `id, first_name, last_name, email, bio, pfp_url, is_admin, created_at, deactivated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	user := User{}
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.Bio, &user.PfpURL, &user.IsAdmin, &user.CreatedAt, &user.DeactivatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Signup creates a new account with a bcrypt-hashed password. A duplicate
// email is a bad request.
func (m *Users) Signup(in SignupInput) (*User, error) {
	var exists bool
	err := m.db.QueryRow(fmt.Sprintf(
		`SELECT EXISTS (SELECT 1 FROM %s.users WHERE email = $1);`, m.db.Schema),
		in.Email).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, core.BadRequestError("duplicate email: %s", in.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), m.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := scanUser(m.db.QueryRow(fmt.Sprintf(
		`INSERT INTO %s.users (first_name, last_name, email, password, bio, pfp_url)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+userColumns+`;`, m.db.Schema),
		in.FirstName, in.LastName, in.Email, string(hash), in.Bio, in.PfpURL))
	if isUniqueViolation(err) {
		// lost the race against a concurrent signup
		return nil, core.BadRequestError("duplicate email: %s", in.Email)
	}
	return user, err
}

// Authenticate verifies email and password. Unknown email, wrong password
// and deactivated accounts all yield the same unauthorized error, so the
// response does not leak which accounts exist.
func (m *Users) Authenticate(email, password string) (*User, error) {
	var hash string
	user := User{}
	err := m.db.QueryRow(fmt.Sprintf(
		`SELECT `+userColumns+`, password FROM %s.users WHERE email = $1;`, m.db.Schema),
		email).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.Bio, &user.PfpURL, &user.IsAdmin, &user.CreatedAt, &user.DeactivatedAt, &hash)
	if err == csql.ErrNoRows {
		return nil, core.UnauthorizedError("invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if user.DeactivatedAt != nil {
		return nil, core.UnauthorizedError("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, core.UnauthorizedError("invalid email or password")
	}
	return &user, nil
}

// Get returns the account with the given id
func (m *Users) Get(id int64) (*User, error) {
	user, err := scanUser(m.db.QueryRow(fmt.Sprintf(
		`SELECT `+userColumns+` FROM %s.users WHERE id = $1;`, m.db.Schema), id))
	return user, notFoundIfNoRows(err, "user")
}

// GetAll returns all accounts, newest first
func (m *Users) GetAll() ([]User, error) {
	rows, err := m.db.Query(fmt.Sprintf(
		`SELECT `+userColumns+` FROM %s.users ORDER BY created_at DESC, id DESC;`, m.db.Schema))
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

// Update applies a partial update. A new password is re-hashed; changing
// the email to one already taken is a bad request.
func (m *Users) Update(id int64, in UserUpdate) (*User, error) {
	fields := []csql.Field{}
	if in.FirstName != nil {
		fields = append(fields, csql.Field{Name: "firstName", Value: *in.FirstName})
	}
	if in.LastName != nil {
		fields = append(fields, csql.Field{Name: "lastName", Value: *in.LastName})
	}
	if in.Email != nil {
		fields = append(fields, csql.Field{Name: "email", Value: *in.Email})
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), m.bcryptCost)
		if err != nil {
			return nil, err
		}
		fields = append(fields, csql.Field{Name: "password", Value: string(hash)})
	}
	if in.Bio != nil {
		fields = append(fields, csql.Field{Name: "bio", Value: *in.Bio})
	}
	if in.PfpURL != nil {
		fields = append(fields, csql.Field{Name: "pfpUrl", Value: *in.PfpURL})
	}
	return m.update(id, fields)
}

// Deactivate marks the account as deactivated. Valid tokens for the
// account stop working on the next request.
func (m *Users) Deactivate(id int64) (*User, error) {
	return m.update(id, []csql.Field{{Name: "deactivatedAt", Value: time.Now().UTC()}})
}

// Reactivate clears the deactivation mark
func (m *Users) Reactivate(id int64) (*User, error) {
	return m.update(id, []csql.Field{{Name: "deactivatedAt", Value: nil}})
}

func (m *Users) update(id int64, fields []csql.Field) (*User, error) {
	set, values, err := csql.ForPartialUpdate(fields, userToColumn)
	if err != nil {
		return nil, err
	}
	values = append(values, id)
	user, err := scanUser(m.db.QueryRow(fmt.Sprintf(
		`UPDATE %s.users SET `+set+` WHERE id = $%d RETURNING `+userColumns+`;`,
		m.db.Schema, len(values)), values...))
	if isUniqueViolation(err) {
		return nil, core.BadRequestError("duplicate email")
	}
	return user, notFoundIfNoRows(err, "user")
}

// Delete removes the account and, through the cascading foreign keys, all
// content the account created.
func (m *Users) Delete(id int64) error {
	result, err := m.db.Exec(fmt.Sprintf(
		`DELETE FROM %s.users WHERE id = $1;`, m.db.Schema), id)
	if err != nil {
		return err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return core.NotFoundError("no user found")
	}
	return nil
}
