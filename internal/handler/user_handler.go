package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bookshelf/internal/apperr"
	"bookshelf/internal/auth"
	"bookshelf/internal/service"
)

// UserHandler exposes the authenticated user's record.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me godoc
// @Summary Get the logged-in user's record
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} apperr.ErrorResponse
// @Failure 404 {object} apperr.ErrorResponse
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return httpError(apperr.New(apperr.KindUnauthenticated, "not authenticated"))
	}

	user, err := h.userService.Me(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, user)
}
