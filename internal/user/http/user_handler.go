// Package http provides HTTP handlers for the caller profile, the user list
// and administrator account management.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/dmvault/internal/auth/http"
	apperrors "github.com/allisson/dmvault/internal/errors"
	"github.com/allisson/dmvault/internal/httputil"
	"github.com/allisson/dmvault/internal/user/http/dto"
	userUseCase "github.com/allisson/dmvault/internal/user/usecase"
)

// ErrCannotDeleteAdmin is returned when the administrator login is targeted for deletion.
var ErrCannotDeleteAdmin = apperrors.Wrap(apperrors.ErrInvalidInput, "cannot delete the administrator")

// UserHandler handles HTTP requests about users.
type UserHandler struct {
	userUseCase userUseCase.UserUseCase
	adminLogin  string
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler. adminLogin is protected from
// deletion through the admin API.
func NewUserHandler(useCase userUseCase.UserUseCase, adminLogin string, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: useCase,
		adminLogin:  adminLogin,
		logger:      logger,
	}
}

// MeHandler describes the authenticated caller.
// GET /v1/me - Returns 200 OK.
func (h *UserHandler) MeHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPrincipalToResponse(principal))
}

// ListHandler lists every user except the caller, for starting new chats.
// GET /v1/users - Returns 200 OK.
func (h *UserHandler) ListHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	users, err := h.userUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUsersToListResponse(users, principal.Login))
}

// AdminListHandler lists every user.
// GET /v1/admin/users - Requires the administrator role. Returns 200 OK.
func (h *UserHandler) AdminListHandler(c *gin.Context) {
	users, err := h.userUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUsersToListResponse(users, ""))
}

// CreateHandler creates a user.
// POST /v1/admin/users - Requires the administrator role.
// Returns 201 Created, 409 Conflict if the login is taken.
func (h *UserHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.Create(c.Request.Context(), req.Login, req.Password, req.DisplayName)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapUserToResponse(user))
}

// UpdateHandler changes the password and/or display name of a user.
// PUT /v1/admin/users/:login - Requires the administrator role.
// Returns 200 OK, 404 Not Found if the login is absent.
func (h *UserHandler) UpdateHandler(c *gin.Context) {
	login := c.Param("login")

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.Update(c.Request.Context(), login, req.ToUpdateUserInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// DeleteHandler removes a user. The administrator login cannot be deleted.
// DELETE /v1/admin/users/:login - Requires the administrator role.
// Returns 204 No Content, also when the login did not exist.
func (h *UserHandler) DeleteHandler(c *gin.Context) {
	login := c.Param("login")
	if login == h.adminLogin {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("%w: %s", ErrCannotDeleteAdmin, login), h.logger)
		return
	}

	if err := h.userUseCase.Delete(c.Request.Context(), login); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
