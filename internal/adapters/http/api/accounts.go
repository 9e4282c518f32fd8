package api

import (
	"net/http"
	"strings"

	"github.com/touchline/scoutbase/internal/auth"
)

type registerRequest struct {
	OrgName  string `json:"org_name"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err)
		return
	}
	org, admin, err := s.deps.Register(r.Context(), req.OrgName, req.Email, req.Name, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"organization": org,
		"admin":        admin,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err)
		return
	}
	token, user, err := s.deps.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	s.deps.Logout(r.Context(), auth.TokenFrom(r))
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id, _ := auth.IdentityFrom(r.Context())
	user, org, err := s.deps.Me(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":         user,
		"organization": org,
	})
}

type preferenceRequest struct {
	Value string `json:"value"`
}

// handlePreference serves GET and PUT /api/preferences/{key}.
func (s *Server) handlePreference(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/preferences/")
	if key == "" || strings.Contains(key, "/") {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	id, _ := auth.IdentityFrom(r.Context())

	switch r.Method {
	case http.MethodGet:
		v, err := s.deps.GetPreference(r.Context(), id, key)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": v})
	case http.MethodPut:
		var req preferenceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", err)
			return
		}
		if err := s.deps.SetPreference(r.Context(), id, key, req.Value); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
	default:
		methodNotAllowed(w)
	}
}
