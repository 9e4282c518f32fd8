package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/touchline/scoutbase/internal/auth"
	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/types"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// handleUsers serves GET (list) and POST (create) /api/admin/users.
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	switch r.Method {
	case http.MethodGet:
		users, err := s.deps.ListUsers(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": users})
	case http.MethodPost:
		var req createUserRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", err)
			return
		}
		u := &model.User{
			Email: req.Email,
			Name:  req.Name,
			Role:  types.Role(req.Role),
		}
		created, err := s.deps.CreateUser(r.Context(), id, u, req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w)
	}
}

// handleUser serves PUT and DELETE /api/admin/users/{id}. DELETE deactivates
// rather than removing the account.
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimPrefix(r.URL.Path, "/api/admin/users/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	id, _ := auth.IdentityFrom(r.Context())

	switch r.Method {
	case http.MethodPut:
		var req updateUserRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", err)
			return
		}
		updated, err := s.deps.UpdateUser(r.Context(), id, userID, req.Name, req.Role)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.deps.DeactivateUser(r.Context(), id, userID); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
	default:
		methodNotAllowed(w)
	}
}

// handleAudit serves GET /api/admin/audit.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id, _ := auth.IdentityFrom(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.deps.ListAudit(r.Context(), id, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
