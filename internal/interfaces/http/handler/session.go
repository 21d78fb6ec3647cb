package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AdamBejaoui/project-frontend/internal/application/storefront"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/auth"
)

// SessionHandler issues anonymous storefront sessions
type SessionHandler struct {
	BaseHandler
	sessions *auth.SessionService
	store    *storefront.SessionStore
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessions *auth.SessionService, store *storefront.SessionStore) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		store:    store,
	}
}

// SessionResponse represents a freshly issued storefront session
// @Description Anonymous session token with its metadata
type SessionResponse struct {
	Token     string    `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	SessionID string    `json:"sessionId" example:"550e8400-e29b-41d4-a716-446655440000"`
	ExpiresAt time.Time `json:"expiresAt" example:"2026-01-23T14:00:00Z"`
}

// Create godoc
// @Summary      Establish a storefront session
// @Description  Issues an anonymous session token and allocates the server-side cart state it is bound to
// @Tags         session
// @Produce      json
// @Success      201 {object} dto.Response{data=SessionResponse}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /storefront/session [post]
func (h *SessionHandler) Create(c *gin.Context) {
	issued, err := h.sessions.Issue()
	if err != nil {
		h.InternalError(c, "Failed to issue session token")
		return
	}

	sessionID, err := uuid.Parse(issued.SessionID)
	if err != nil {
		h.InternalError(c, "Failed to issue session token")
		return
	}

	if err := h.store.Establish(sessionID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, SessionResponse{
		Token:     issued.Token,
		SessionID: issued.SessionID,
		ExpiresAt: issued.ExpiresAt,
	})
}
