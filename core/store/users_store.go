package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

var ErrDuplicateUsername = errors.New("username already taken")

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// SessionSubject is the stable identifier a session is bound to.
func (u *User) SessionSubject() int64 { return u.ID }

type UsersStore interface {
	Create(ctx context.Context, user *User) (int64, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Get(ctx context.Context, id int64) (*User, error)
}

type usersStore struct {
	db *sql.DB
}

func NewUsersStore(db *sql.DB) UsersStore {
	return &usersStore{db: db}
}

func (s *usersStore) Create(ctx context.Context, user *User) (int64, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users(username, password_hash, salt, created_at)
		VALUES(?,?,?,?)`,
		strings.ToLower(strings.TrimSpace(user.Username)), user.PasswordHash, user.Salt, now)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateUsername
		}
		return 0, err
	}
	id, _ := res.LastInsertId()
	user.ID = id
	user.CreatedAt = now
	return id, nil
}

func (s *usersStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, salt, created_at
		FROM users WHERE username=?`, strings.ToLower(strings.TrimSpace(username)))
	return scanUser(row)
}

func (s *usersStore) Get(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, salt, created_at
		FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Salt, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// modernc sqlite reports "UNIQUE constraint failed", pgx "23505".
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "23505")
}
