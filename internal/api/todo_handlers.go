package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/TaskForge-io/taskforge/internal/auth"
	"github.com/TaskForge-io/taskforge/internal/database"
	"github.com/TaskForge-io/taskforge/internal/models"
	"github.com/TaskForge-io/taskforge/internal/store"
	"github.com/go-chi/chi/v5"
)

type todoRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	State       models.TodoState `json:"state"`
}

// todoPatch uses pointers so that absent fields are distinguishable from
// zero values; only supplied fields are applied.
type todoPatch struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	State       *models.TodoState `json:"state"`
}

func (api *Api) CreateTodo(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.State.Valid() {
		writeDetail(w, http.StatusBadRequest, "Invalid todo state")
		return
	}

	now := time.Now()
	todo := &models.Todo{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		State:       req.State,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := database.WithTx(r.Context(), api.db, func(ctx context.Context, tx database.DBTX) error {
		return store.NewTodoStore(tx).Create(ctx, todo)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, todo)
}

func (api *Api) ListTodos(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	filter := store.TodoFilter{
		Title:       r.URL.Query().Get("title"),
		Description: r.URL.Query().Get("description"),
		Offset:      queryInt(r, "offset", 0),
		Limit:       queryInt(r, "limit", 10),
	}
	if raw := r.URL.Query().Get("state"); raw != "" {
		state := models.TodoState(raw)
		if !state.Valid() {
			writeDetail(w, http.StatusBadRequest, "Invalid todo state")
			return
		}
		filter.State = state
	}

	todos, err := api.todos.List(r.Context(), user.ID, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"todos": todos})
}

func (api *Api) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "todoID"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid todo id")
		return
	}

	var patch todoPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.State != nil && !patch.State.Valid() {
		writeDetail(w, http.StatusBadRequest, "Invalid todo state")
		return
	}

	var todo *models.Todo
	err = database.WithTx(r.Context(), api.db, func(ctx context.Context, tx database.DBTX) error {
		todos := store.NewTodoStore(tx)

		todo, err = todos.GetByID(ctx, user.ID, id)
		if err != nil {
			return err
		}
		if todo == nil {
			return errDetail(http.StatusNotFound, "Task not found.")
		}

		if patch.Title != nil {
			todo.Title = *patch.Title
		}
		if patch.Description != nil {
			todo.Description = *patch.Description
		}
		if patch.State != nil {
			todo.State = *patch.State
		}
		todo.UpdatedAt = time.Now()
		return todos.Update(ctx, todo)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

func (api *Api) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "todoID"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid todo id")
		return
	}

	err = database.WithTx(r.Context(), api.db, func(ctx context.Context, tx database.DBTX) error {
		deleted, err := store.NewTodoStore(tx).Delete(ctx, user.ID, id)
		if err != nil {
			return err
		}
		if !deleted {
			return errDetail(http.StatusNotFound, "Task not found.")
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Task has been deleted successfully."})
}
