package api

import (
	"net/http"
	"strings"

	"github.com/touchline/scoutbase/internal/auth"
	"github.com/touchline/scoutbase/internal/domain/model"
)

type submitJobRequest struct {
	VideoID      string `json:"video_id"`
	SubmissionID string `json:"submission_id"`
}

// handleVideos serves GET (list) and POST (create) /api/videos.
func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	switch r.Method {
	case http.MethodGet:
		videos, err := s.deps.ListVideos(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"videos": videos})
	case http.MethodPost:
		var v model.Video
		if err := decodeJSON(r, &v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", err)
			return
		}
		created, err := s.deps.CreateVideo(r.Context(), id, &v)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w)
	}
}

// handleVideo serves GET /api/videos/{id} and POST /api/videos/{id}/tags.
func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/videos/")
	id, _ := auth.IdentityFrom(r.Context())

	if videoID, ok := strings.CutSuffix(rest, "/tags"); ok {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		var tag model.HighlightTag
		if err := decodeJSON(r, &tag); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", err)
			return
		}
		tag.VideoID = videoID
		created, err := s.deps.AddTag(r.Context(), id, &tag)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
		return
	}

	if rest == "" || strings.Contains(rest, "/") {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	v, tags, err := s.deps.GetVideo(r.Context(), id, rest)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"video": v,
		"tags":  tags,
	})
}

// handleJobs serves POST /api/video-processing/jobs. Duplicate submissions
// return the original job with 200 instead of 201.
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req submitJobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err)
		return
	}
	id, _ := auth.IdentityFrom(r.Context())

	j, duplicate, err := s.deps.SubmitJob(r.Context(), id, req.VideoID, req.SubmissionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusCreated
	if duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]any{
		"job":       j,
		"duplicate": duplicate,
	})
}

// handleJob serves GET /api/video-processing/jobs/{id}.
func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	jobID := strings.TrimPrefix(r.URL.Path, "/api/video-processing/jobs/")
	if jobID == "" || strings.Contains(jobID, "/") {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	id, _ := auth.IdentityFrom(r.Context())

	j, err := s.deps.GetJob(r.Context(), id, jobID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}
