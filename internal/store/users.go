package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// UserRecord is a users row. The password hash never leaves the store as JSON.
type UserRecord struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers an account. A second account for the same email yields ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, username, email, password string) (UserRecord, error) {
	email = normalizeEmail(email)
	if _, err := s.userByEmail(ctx, email); err == nil {
		return UserRecord{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return UserRecord{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return UserRecord{}, err
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO users(username, email, password) VALUES(?, ?, ?)`, username, email, string(hash))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return UserRecord{}, ErrEmailTaken
		}
		return UserRecord{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return UserRecord{}, err
	}
	return UserRecord{ID: id, Username: username, Email: email, PasswordHash: string(hash)}, nil
}

// Authenticate returns the user for email when password matches its hash.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, email, password string) (UserRecord, error) {
	u, err := s.userByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return UserRecord{}, ErrInvalidCredentials
	}
	if err != nil {
		return UserRecord{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return UserRecord{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (UserRecord, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `SELECT id, username, email, password FROM users WHERE id = ?`, id))
}

func (s *Store) userByEmail(ctx context.Context, email string) (UserRecord, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `SELECT id, username, email, password FROM users WHERE email = ?`, email))
}

func (s *Store) scanUser(row *sql.Row) (UserRecord, error) {
	var u UserRecord
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserRecord{}, ErrNotFound
		}
		return UserRecord{}, err
	}
	return u, nil
}
