package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TaskForge-io/taskforge/internal/database"
	"github.com/TaskForge-io/taskforge/internal/models"
)

// UserStore persists user records. It works over either the connection pool
// or a transaction handle.
type UserStore struct {
	db database.DBTX
}

func NewUserStore(db database.DBTX) *UserStore {
	return &UserStore{db: db}
}

const userCols = `id, username, email, password_hash, created_at, updated_at`

func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts the user and fills in its assigned ID.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		u.Username, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByUsernameOrEmail returns the first user holding either value. Used to
// name the colliding field on registration.
func (s *UserStore) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE username = $1 OR email = $2`,
		username, email,
	)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username or email: %w", err)
	}
	return u, nil
}

// FindConflict returns a user other than excludeID holding the given
// username or email, if any. Used to re-check uniqueness on update.
func (s *UserStore) FindConflict(ctx context.Context, excludeID int64, username, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id != $1 AND (username = $2 OR email = $3)`,
		excludeID, username, email,
	)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find conflicting user: %w", err)
	}
	return u, nil
}

func (s *UserStore) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userCols+` FROM users ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Update writes the mutable fields back, including updated_at.
func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET username = $1, email = $2, password_hash = $3, updated_at = $4 WHERE id = $5`,
		u.Username, u.Email, u.PasswordHash, u.UpdatedAt, u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
