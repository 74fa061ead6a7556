package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/FilipeAphrody/sentinel-access/internal/usecase"
	"github.com/FilipeAphrody/sentinel-access/pkg/clientip"
)

// AuthHandler represents the HTTP delivery layer for authentication.
type AuthHandler struct {
	usecase *usecase.AuthUsecase
	log     logrus.FieldLogger
}

// NewAuthHandler registers the authentication routes to the provided echo group.
// Login is public: it sits in front of both guards.
func NewAuthHandler(g *echo.Group, u *usecase.AuthUsecase, log logrus.FieldLogger) {
	handler := &AuthHandler{usecase: u, log: log}

	g.POST("/auth/login", handler.Login)
}

// loginRequest defines the expected JSON payload for the login endpoint.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges an email and password for an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	resp, err := h.usecase.Login(ctx, req.Email, req.Password, clientip.SourceFromRequest(c.Request()))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, resp)
}
