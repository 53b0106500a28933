package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/entrega-app/entrega/internal/service/models/role"
	"github.com/entrega-app/entrega/internal/service/models/session"
	"github.com/entrega-app/entrega/internal/transport/http/v1/httperr"
	authmw "github.com/entrega-app/entrega/pkg/http/middleware/auth"
)

var errPasswordMismatch = errors.New("password confirmation does not match")

// service is an interface for the service layer.
type service interface {
	Register(ctx context.Context, displayName, email, password string, r role.Role) (*session.Session, error)
	Login(ctx context.Context, email, password string) (*session.Session, error)
	Logout(ctx context.Context, token string)
}

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
	Role                 string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles account creation. The confirmation check lives here: it is
// a form-level concern, the service only sees the chosen password.
func Register(w http.ResponseWriter, r *http.Request, svc service) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	if req.Password != req.PasswordConfirmation {
		httperr.WriteBadRequest(w, errPasswordMismatch.Error())

		return
	}

	userRole, err := role.ParseRole(req.Role)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	sess, err := svc.Register(r.Context(), req.Name, req.Email, req.Password, userRole)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusCreated, sess)
}

// Login handles credential verification.
func Login(w http.ResponseWriter, r *http.Request, svc service) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	sess, err := svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, sess)
}

// Logout clears the session. Always succeeds, even for unknown tokens.
func Logout(w http.ResponseWriter, r *http.Request, svc service) {
	svc.Logout(r.Context(), authmw.TokenFromRequest(r))
	w.WriteHeader(http.StatusNoContent)
}
