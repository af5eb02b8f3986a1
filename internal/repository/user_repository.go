package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/arman-dp/movie-ticketing/internal/model"
	"github.com/arman-dp/movie-ticketing/internal/utils"
)

// UserRepo persists users.  Emails are normalized to lower case and
// passwords are stored as bcrypt hashes.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a new user.  The password is hashed with the given
// bcrypt cost before it touches the database.  Duplicate emails map to
// ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u model.User, password string, cost int) error {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO users (email, lname, fname, phone, pwd) VALUES (?, ?, ?, ?, ?)`,
		email, u.LastName, u.FirstName, u.Phone, hash)
	if err != nil {
		// MySQL duplicate-key errors carry code 1062.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return storeErr("insert user", err)
	}
	return nil
}

// GetByEmail fetches a user by normalized email.  sql.ErrNoRows passes
// through for callers that distinguish missing users.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT email, lname, fname, phone, pwd FROM users WHERE email = ? LIMIT 1`,
		email).Scan(&u.Email, &u.LastName, &u.FirstName, &u.Phone, &u.Password)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return u, storeErr("user by email", err)
	}
	return u, err
}

// VerifyCredentials checks an email/password pair against the stored
// bcrypt hash.  It returns the user on success and sql.ErrNoRows when
// either the user is missing or the password does not match, so the
// two cases are indistinguishable to callers.
func (r *UserRepo) VerifyCredentials(ctx context.Context, email, password string) (model.User, error) {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.Password, password) {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}
