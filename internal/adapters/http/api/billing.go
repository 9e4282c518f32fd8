package api

import (
	"net/http"

	"github.com/touchline/scoutbase/internal/auth"
)

type checkoutRequest struct {
	Tier string `json:"tier"`
}

type webhookRequest struct {
	SessionID string `json:"session_id"`
	Event     string `json:"event"`
}

func (s *Server) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err)
		return
	}
	id, _ := auth.IdentityFrom(r.Context())

	cs, err := s.deps.CreateCheckout(r.Context(), id, req.Tier)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cs)
}

// handleBillingWebhook completes checkout sessions on the payment provider's
// signal. The provider calls this without a user session.
func (s *Server) handleBillingWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req webhookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if req.Event != "checkout.completed" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}
	cs, err := s.deps.CompleteCheckout(r.Context(), req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (s *Server) handleSubscription(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id, _ := auth.IdentityFrom(r.Context())

	sub, err := s.deps.Subscription(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
