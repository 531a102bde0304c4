package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/asaikali/money-mate/middleware"
	"github.com/asaikali/money-mate/services"
	"github.com/asaikali/money-mate/utils"
	"go.uber.org/zap"
)

// LoginRequest is the body of POST /session.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is the body of a successful POST /session.
type SessionResponse struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
	Links       Links  `json:"_links,omitempty"`
}

// SessionStatusResponse is the body of GET /session.
type SessionStatusResponse struct {
	TokenType string `json:"token_type"`
	Links     Links  `json:"_links,omitempty"`
}

// SessionHandler handles the session resource.
type SessionHandler struct {
	sessions *services.SessionService
	logger   *zap.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions *services.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// HandleCreate handles POST /session: authenticate against OBP and
// issue a local bearer token.
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Malformed request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	token, err := h.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	response := SessionResponse{
		TokenType:   "Bearer",
		AccessToken: token,
		Links: Links{
			"me":    {Href: "/users/me", Title: "Your user profile and available actions"},
			"self":  {Href: "/session"},
			"about": sessionDocsLink(),
			"root":  rootLink(),
		},
	}

	// The body carries a credential; keep it out of shared caches.
	w.Header().Set("Cache-Control", "no-store, private")
	if err := utils.WriteCreated(w, response); err != nil {
		h.logger.Error("failed to write session response", zap.Error(err))
	}
}

// HandleGet handles GET /session: session metadata for the caller.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	response := SessionStatusResponse{
		TokenType: "Bearer",
		Links: Links{
			"self":  {Href: "/session"},
			"about": sessionDocsLink(),
			"me":    {Href: "/users/me"},
			"root":  rootLink(),
		},
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write session status response", zap.Error(err))
	}
}

// HandleDelete handles DELETE /session: revoke the presented token.
// Idempotent; always 204.
func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if token := middleware.ExtractBearerToken(r); token != "" {
		h.sessions.Logout(token)
	}
	utils.WriteNoContent(w)
}
