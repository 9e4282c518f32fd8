package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/touchline/scoutbase/internal/auth"
	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/types"
)

type playerListResponse struct {
	Players []*model.Player `json:"players"`
	Total   int             `json:"total"`
	Offset  int             `json:"offset"`
	Limit   int             `json:"limit"`
}

// handlePlayers serves GET (search) and POST (create) /api/players.
func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	switch r.Method {
	case http.MethodGet:
		f := parsePlayerFilter(r)
		players, total, err := s.deps.ListPlayers(r.Context(), id, f)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, playerListResponse{
			Players: players,
			Total:   total,
			Offset:  f.Offset,
			Limit:   f.Limit,
		})
	case http.MethodPost:
		if !id.Role.AtLeast(types.RoleManager) {
			writeError(w, http.StatusForbidden, "forbidden", nil)
			return
		}
		var p model.Player
		if err := decodeJSON(r, &p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", err)
			return
		}
		created, err := s.deps.CreatePlayer(r.Context(), id, &p)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w)
	}
}

// handlePlayer serves GET, PUT and DELETE /api/players/{id}.
func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	playerID := strings.TrimPrefix(r.URL.Path, "/api/players/")
	if playerID == "" || strings.Contains(playerID, "/") {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	id, _ := auth.IdentityFrom(r.Context())

	switch r.Method {
	case http.MethodGet:
		p, err := s.deps.GetPlayer(r.Context(), id, playerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodPut:
		if !id.Role.AtLeast(types.RoleManager) {
			writeError(w, http.StatusForbidden, "forbidden", nil)
			return
		}
		var p model.Player
		if err := decodeJSON(r, &p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", err)
			return
		}
		p.ID = playerID
		updated, err := s.deps.UpdatePlayer(r.Context(), id, &p)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if !id.Role.AtLeast(types.RoleManager) {
			writeError(w, http.StatusForbidden, "forbidden", nil)
			return
		}
		if err := s.deps.DeletePlayer(r.Context(), id, playerID); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}

func parsePlayerFilter(r *http.Request) model.PlayerFilter {
	q := r.URL.Query()
	f := model.PlayerFilter{
		Query:       q.Get("q"),
		Nationality: q.Get("nationality"),
	}
	if p, ok := types.ParsePosition(q.Get("position")); ok {
		f.Position = p
	}
	f.MinAge, _ = strconv.Atoi(q.Get("min_age"))
	f.MaxAge, _ = strconv.Atoi(q.Get("max_age"))
	f.Offset, _ = strconv.Atoi(q.Get("offset"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	return f
}
