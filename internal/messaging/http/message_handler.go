// Package http provides HTTP handlers for contacts and direct messages.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/dmvault/internal/auth/http"
	apperrors "github.com/allisson/dmvault/internal/errors"
	"github.com/allisson/dmvault/internal/httputil"
	"github.com/allisson/dmvault/internal/messaging/http/dto"
	messagingUseCase "github.com/allisson/dmvault/internal/messaging/usecase"
	userUseCase "github.com/allisson/dmvault/internal/user/usecase"
)

// MessageHandler handles HTTP requests for contacts and messages.
type MessageHandler struct {
	messageUseCase messagingUseCase.MessageUseCase
	userUseCase    userUseCase.UserUseCase
	logger         *slog.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(
	messageUseCase messagingUseCase.MessageUseCase,
	userUseCase userUseCase.UserUseCase,
	logger *slog.Logger,
) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
		userUseCase:    userUseCase,
		logger:         logger,
	}
}

// ContactsHandler lists the users the caller has a conversation with.
// GET /v1/contacts - Returns 200 OK, most recent conversation first.
func (h *MessageHandler) ContactsHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	dialogs, err := h.messageUseCase.DialogsFor(c.Request.Context(), principal.Login)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	displayNames := make(map[string]string)
	if len(dialogs) > 0 {
		users, err := h.userUseCase.List(c.Request.Context())
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		for _, u := range users {
			displayNames[u.Login] = u.DisplayName
		}
	}

	c.JSON(http.StatusOK, dto.MapDialogsToContactsResponse(dialogs, displayNames))
}

// ReadHandler returns the conversation between the caller and a contact.
// GET /v1/messages/:contact - Returns 200 OK.
func (h *MessageHandler) ReadHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	messages, err := h.messageUseCase.ReadConversation(c.Request.Context(), principal.Login, c.Param("contact"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMessagesToListResponse(messages))
}

// SendHandler appends a message from the caller to a recipient.
// POST /v1/messages - Returns 201 Created with the stored message.
func (h *MessageHandler) SendHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	msg, err := h.messageUseCase.Append(c.Request.Context(), principal.Login, req.To, *req.Text)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapMessageToResponse(msg))
}
