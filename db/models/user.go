package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go.hackfix.me/curator/db/types"
)

// User is an administrator of the directory.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	LastLogin    sql.Null[time.Time]
}

// SetPassword hashes and stores the given plain text password.
func (u *User) SetPassword(password string) error {
	if password == "" {
		return types.InvalidInputError{Msg: "password must not be empty"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed hashing password: %w", err)
	}
	u.PasswordHash = string(hash)

	return nil
}

// CheckPassword returns true if password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Save stores the user data in the database.
func (u *User) Save(ctx context.Context, d types.Querier, update bool) error {
	if u.Username == "" {
		return types.InvalidInputError{Msg: "username must not be empty"}
	}
	if u.PasswordHash == "" {
		return types.InvalidInputError{Msg: "password must be set"}
	}

	if update {
		var filter *types.Filter
		var filterStr string
		switch {
		case u.ID != "":
			filter = &types.Filter{Where: "id = ?", Args: []any{u.ID}}
			filterStr = fmt.Sprintf("ID %s", u.ID)
		default:
			filter = &types.Filter{Where: "username = ?", Args: []any{u.Username}}
			filterStr = fmt.Sprintf("username '%s'", u.Username)
		}

		args := append([]any{u.PasswordHash, u.LastLogin}, filter.Args...)
		updateStmt := fmt.Sprintf(`UPDATE users
			SET password = ?,
			    lastLogin = ?
			WHERE %s`, filter.Where)

		return execOne(ctx, d, "user", filterStr, updateStmt, args...)
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := d.ExecContext(ctx,
		`INSERT INTO users (id, username, password, lastLogin) VALUES (?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, u.LastLogin)
	if err != nil {
		return types.Err("user", fmt.Sprintf("username '%s'", u.Username), err)
	}

	return nil
}

// TouchLogin sets the last login time of the user to the current time.
func (u *User) TouchLogin(ctx context.Context, d types.Querier) error {
	now := d.TimeNow().UTC()
	err := execOne(ctx, d, "user", fmt.Sprintf("ID %s", u.ID),
		`UPDATE users SET lastLogin = ? WHERE id = ?`, now, u.ID)
	if err != nil {
		return err
	}
	u.LastLogin = sql.Null[time.Time]{V: now, Valid: true}

	return nil
}

// Load the user data from the database. Either the user ID or Username must be
// set for the lookup.
//
//nolint:dupl // Similar to Category.Load. "A little copying is better than a little dependency."
func (u *User) Load(ctx context.Context, d types.Querier) error {
	if u.ID == "" && u.Username == "" {
		return types.InvalidInputError{Msg: "either user ID or Username must be set"}
	}

	var filter *types.Filter
	var filterStr string
	if u.ID != "" {
		filter = &types.Filter{Where: "u.id = ?", Args: []any{u.ID}}
		filterStr = fmt.Sprintf("ID %s", u.ID)
	} else {
		filter = &types.Filter{Where: "u.username = ?", Args: []any{u.Username}}
		filterStr = fmt.Sprintf("username '%s'", u.Username)
	}

	users, err := Users(ctx, d, filter)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		return types.NoResultError{ModelName: "user", ID: filterStr}
	}
	*u = *users[0]

	return nil
}

// Delete removes the user from the database.
func (u *User) Delete(ctx context.Context, d types.Querier) error {
	if u.ID == "" && u.Username == "" {
		return types.InvalidInputError{Msg: "either user ID or Username must be set"}
	}
	if u.ID != "" {
		return execOne(ctx, d, "user", fmt.Sprintf("ID %s", u.ID),
			`DELETE FROM users WHERE id = ?`, u.ID)
	}

	return execOne(ctx, d, "user", fmt.Sprintf("username '%s'", u.Username),
		`DELETE FROM users WHERE username = ?`, u.Username)
}

// Users returns one or more users from the database. An optional filter can be
// passed to limit the results.
func Users(ctx context.Context, d types.Querier, filter *types.Filter) (users []*User, rerr error) {
	query := `SELECT u.id, u.username, u.password, u.lastLogin
		FROM users u %s
		ORDER BY u.username ASC %s`

	where, args, limit := filterClause(filter)
	rows, err := d.QueryContext(ctx, fmt.Sprintf(query, where, limit), args...)
	if err != nil {
		return nil, types.LoadError{ModelName: "users", Err: err}
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = fmt.Errorf("failed closing users rows: %w", err)
		}
	}()

	users = make([]*User, 0)
	for rows.Next() {
		var u User
		if err = rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.LastLogin); err != nil {
			return nil, types.ScanError{ModelName: "user", Err: err}
		}
		users = append(users, &u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating over users rows: %w", err)
	}

	return users, nil
}

// Authenticate returns the user with the given credentials, and updates its
// last login time.
func Authenticate(ctx context.Context, d types.Querier, username, password string) (*User, error) {
	user := &User{Username: username}
	if err := user.Load(ctx, d); err != nil {
		var nrErr types.NoResultError
		if errors.As(err, &nrErr) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if err := user.TouchLogin(ctx, d); err != nil {
		return nil, err
	}

	return user, nil
}

// ErrInvalidCredentials is returned when a login attempt fails.
var ErrInvalidCredentials = errors.New("invalid username or password")
