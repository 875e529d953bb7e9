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

type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (api *Api) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	var created *models.User
	err := database.WithTx(r.Context(), api.db, func(ctx context.Context, tx database.DBTX) error {
		users := store.NewUserStore(tx)

		existing, err := users.GetByUsernameOrEmail(ctx, req.Username, req.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Username == req.Username {
				return errDetail(http.StatusBadRequest, "Username already exists")
			}
			return errDetail(http.StatusBadRequest, "Email already exists")
		}

		created, err = models.NewUser(req.Username, req.Email, req.Password)
		if err != nil {
			return err
		}
		return users.Create(ctx, created)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created.Public())
}

func (api *Api) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	offset := queryInt(r, "offset", 0)

	users, err := api.users.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	public := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": public})
}

func (api *Api) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := api.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}

func (api *Api) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	current, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if current.ID != id {
		writeDetail(w, http.StatusForbidden, "Not enough permission")
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	err = database.WithTx(r.Context(), api.db, func(ctx context.Context, tx database.DBTX) error {
		users := store.NewUserStore(tx)

		conflict, err := users.FindConflict(ctx, current.ID, req.Username, req.Email)
		if err != nil {
			return err
		}
		if conflict != nil {
			if conflict.Username == req.Username {
				return errDetail(http.StatusBadRequest, "Username already exists")
			}
			return errDetail(http.StatusBadRequest, "Email already exists")
		}

		current.Username = req.Username
		current.Email = req.Email
		if err := current.SetPassword(req.Password); err != nil {
			return err
		}
		current.UpdatedAt = time.Now()
		return users.Update(ctx, current)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, current.Public())
}

func (api *Api) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	current, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if current.ID != id {
		writeDetail(w, http.StatusForbidden, "Not enough permission")
		return
	}

	err = database.WithTx(r.Context(), api.db, func(ctx context.Context, tx database.DBTX) error {
		return store.NewUserStore(tx).Delete(ctx, current.ID)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
