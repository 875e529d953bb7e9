package api

import (
	"encoding/json"
	"net/http"

	"github.com/TaskForge-io/taskforge/internal/auth"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CreateAccessToken exchanges email+password for a bearer token. Unknown
// email and wrong password produce the same response.
func (api *Api) CreateAccessToken(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := api.users.GetByEmail(r.Context(), creds.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil || !user.ValidatePassword(creds.Password) {
		writeDetail(w, http.StatusBadRequest, "Incorrect email or password")
		return
	}

	token, err := api.tokens.GenerateToken(user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// RefreshAccessToken issues a fresh token for the authenticated user.
func (api *Api) RefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	token, err := api.tokens.GenerateToken(user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
