package handlers

import (
	"net/http"

	"user-notification-system/internal/domain"
	"user-notification-system/internal/services"
	"user-notification-system/pkg/logger"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	users *services.UserService
	log   logger.Logger
}

type CreateUserResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

func NewUserHandler(users *services.UserService, log logger.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log,
	}
}

// Register mounts the user routes on g.
func (h *UserHandler) Register(g *echo.Group) {
	g.POST("/users", h.CreateUser)
	g.GET("/users", h.ListUsers)
	g.GET("/users/:id", h.GetUser)
	g.PUT("/users/:id", h.UpdateUser)
	g.DELETE("/users/:id", h.DeleteUser)
}

// CreateUser answers 201 as soon as the row is committed. Login sync and the
// WebSocket announcement never change the outcome.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req domain.UserInput
	if err := c.Bind(&req); err != nil {
		h.log.Error("Failed to bind request", "error", err)
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.users.CreateUser(c.Request().Context(), req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.log.Error("Failed to create user", "error", err)
			return errorJSON(c, status, "Failed to create user")
		}
		return errorJSON(c, status, err.Error())
	}

	return c.JSON(http.StatusCreated, CreateUserResponse{
		Message: "User created successfully",
		ID:      user.ID,
	})
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "Invalid user id")
	}

	user, err := h.users.GetUser(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "Failed to fetch user", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return h.fail(c, "Failed to list users", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "Invalid user id")
	}

	var req domain.UserInput
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.users.UpdateUser(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "Failed to update user", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "Invalid user id")
	}

	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return h.fail(c, "Failed to delete user", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) fail(c echo.Context, message string, err error) error {
	status := statusFor(err)
	switch status {
	case http.StatusNotFound:
		return errorJSON(c, status, "User not found")
	case http.StatusInternalServerError:
		h.log.Error(message, "error", err)
		return errorJSON(c, status, message)
	default:
		return errorJSON(c, status, err.Error())
	}
}
