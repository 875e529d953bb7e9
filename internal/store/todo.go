package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TaskForge-io/taskforge/internal/database"
	"github.com/TaskForge-io/taskforge/internal/models"
)

// TodoStore persists todo records. Every query is scoped to the owning user,
// so a todo belonging to someone else behaves exactly like a missing one.
type TodoStore struct {
	db database.DBTX
}

func NewTodoStore(db database.DBTX) *TodoStore {
	return &TodoStore{db: db}
}

// TodoFilter narrows a listing. Title and Description match as substrings,
// State matches exactly; all supplied filters must hold.
type TodoFilter struct {
	Title       string
	Description string
	State       models.TodoState
	Offset      int
	Limit       int
}

const todoCols = `id, user_id, title, description, state, created_at, updated_at`

func scanTodo(scanner interface{ Scan(...any) error }) (*models.Todo, error) {
	var td models.Todo
	err := scanner.Scan(&td.ID, &td.UserID, &td.Title, &td.Description, &td.State, &td.CreatedAt, &td.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &td, nil
}

// Create inserts the todo and fills in its assigned ID.
func (s *TodoStore) Create(ctx context.Context, td *models.Todo) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO todos (user_id, title, description, state, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		td.UserID, td.Title, td.Description, td.State, td.CreatedAt, td.UpdatedAt,
	).Scan(&td.ID)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// GetByID returns the todo only if it belongs to userID; nil otherwise.
func (s *TodoStore) GetByID(ctx context.Context, userID, id int64) (*models.Todo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+todoCols+` FROM todos WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	td, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return td, nil
}

// List returns the user's todos matching the filter, ordered by id.
func (s *TodoStore) List(ctx context.Context, userID int64, f TodoFilter) ([]models.Todo, error) {
	query := `SELECT ` + todoCols + ` FROM todos WHERE user_id = $1`
	args := []any{userID}

	if f.Title != "" {
		args = append(args, f.Title)
		query += fmt.Sprintf(" AND title LIKE '%%' || $%d || '%%'", len(args))
	}
	if f.Description != "" {
		args = append(args, f.Description)
		query += fmt.Sprintf(" AND description LIKE '%%' || $%d || '%%'", len(args))
	}
	if f.State != "" {
		args = append(args, f.State)
		query += fmt.Sprintf(" AND state = $%d", len(args))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		td, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, *td)
	}
	return todos, rows.Err()
}

// Update writes the mutable fields back, including updated_at. The write is
// still scoped to the owning user.
func (s *TodoStore) Update(ctx context.Context, td *models.Todo) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE todos SET title = $1, description = $2, state = $3, updated_at = $4
		 WHERE user_id = $5 AND id = $6`,
		td.Title, td.Description, td.State, td.UpdatedAt, td.UserID, td.ID,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	return nil
}

// Delete removes the todo if it belongs to userID and reports whether a row
// was deleted.
func (s *TodoStore) Delete(ctx context.Context, userID, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM todos WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return false, fmt.Errorf("delete todo: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete todo rows affected: %w", err)
	}
	return n > 0, nil
}
