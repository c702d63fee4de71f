// Package handler holds the gin HTTP handlers for the marketplace API.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketgo/backend/internal/chathub"
	"marketgo/backend/internal/conversation"
	"marketgo/backend/internal/report"
	"marketgo/backend/internal/storage"
)

// Handler bundles the services the HTTP layer dispatches into.
type Handler struct {
	Storage       *storage.Service
	Reports       *report.Service
	Conversations *conversation.Service
	Hub           *chathub.ManagerService
	Secret        []byte
}

// NewHandler wires the HTTP layer.
func NewHandler(store *storage.Service, reports *report.Service, conversations *conversation.Service, hub *chathub.ManagerService, secret []byte) *Handler {
	return &Handler{
		Storage:       store,
		Reports:       reports,
		Conversations: conversations,
		Hub:           hub,
		Secret:        secret,
	}
}

// abortWithError maps service sentinel errors onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, report.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, report.ErrDuplicateReport),
		errors.Is(err, report.ErrAlreadyProcessed):
		status = http.StatusConflict
	case errors.Is(err, report.ErrInvalidTarget),
		errors.Is(err, report.ErrInvalidReason),
		errors.Is(err, report.ErrDetailTooShort),
		errors.Is(err, report.ErrInvalidDecision),
		errors.Is(err, conversation.ErrSelfChat),
		errors.Is(err, conversation.ErrOwnProductChat),
		errors.Is(err, conversation.ErrEmptyMessage):
		status = http.StatusBadRequest
	case errors.Is(err, conversation.ErrDormantTarget),
		errors.Is(err, conversation.ErrBlockedProduct),
		errors.Is(err, conversation.ErrNotParticipant):
		status = http.StatusForbidden
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
