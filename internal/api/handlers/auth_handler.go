package handlers

import (
	"net/http"

	"user-notification-system/internal/api/middleware"
	"user-notification-system/internal/domain"
	"user-notification-system/internal/services"
	"user-notification-system/pkg/logger"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	logins *services.LoginService
	log    logger.Logger
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func NewAuthHandler(logins *services.LoginService, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		logins: logins,
		log:    log,
	}
}

// Register mounts the auth routes. loginLimit guards /login only.
func (h *AuthHandler) Register(e *echo.Echo, loginLimit echo.MiddlewareFunc) {
	e.POST("/create_login", h.CreateLogin)
	e.PUT("/update_login/:id", h.UpdateLogin)
	e.POST("/login", h.Login, loginLimit)
	e.GET("/current_user", h.CurrentUser)
}

func (h *AuthHandler) CreateLogin(c echo.Context) error {
	var req domain.LoginInput
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := h.logins.CreateLogin(c.Request().Context(), req); err != nil {
		return h.fail(c, "Failed to create login", err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Login created successfully"})
}

func (h *AuthHandler) UpdateLogin(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "Invalid login id")
	}

	var req domain.LoginInput
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := h.logins.UpdateLogin(c.Request().Context(), id, req); err != nil {
		return h.fail(c, "Failed to update login", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Login updated successfully"})
}

// Login accepts either a form post or a JSON body.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "username and password are required")
	}

	token, err := h.logins.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return h.fail(c, "Failed to authenticate", err)
	}

	h.log.Info("Login succeeded", "username", req.Username, "remote_addr", c.RealIP())
	return c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) CurrentUser(c echo.Context) error {
	token, ok := middleware.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "missing or malformed bearer token")
	}

	subject, err := h.logins.CurrentUser(token)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, "invalid or expired token")
	}
	return c.JSON(http.StatusOK, map[string]string{"user_id": subject})
}

func (h *AuthHandler) fail(c echo.Context, message string, err error) error {
	status := statusFor(err)
	switch status {
	case http.StatusNotFound:
		return errorJSON(c, status, "User not found")
	case http.StatusUnauthorized:
		return errorJSON(c, status, "Incorrect credentials")
	case http.StatusInternalServerError:
		h.log.Error(message, "error", err)
		return errorJSON(c, status, message)
	default:
		return errorJSON(c, status, err.Error())
	}
}
