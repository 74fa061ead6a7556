package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/FilipeAphrody/sentinel-access/internal/domain"
	"github.com/FilipeAphrody/sentinel-access/internal/usecase"
)

// UserHandler serves account reads and admin provisioning.
type UserHandler struct {
	usecase *usecase.UserUsecase
	log     logrus.FieldLogger
}

// NewUserHandler registers the user routes. /users/me is open to any
// authenticated caller; listing and creating accounts is admin only.
func NewUserHandler(g *echo.Group, u *usecase.UserUsecase, guards *Guards, log logrus.FieldLogger) {
	handler := &UserHandler{usecase: u, log: log}

	g.GET("/users/me", handler.Me, guards.Require()...)
	g.GET("/users", handler.List, guards.Require(domain.RoleAdmin)...)
	g.POST("/users", handler.Create, guards.Require(domain.RoleAdmin)...)
}

type createUserRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// Me returns the caller's own account.
func (h *UserHandler) Me(c echo.Context) error {
	p, ok := principalOf(c)
	if !ok {
		return respondError(c, h.log, domain.ErrUnauthenticated)
	}

	user, err := h.usecase.Me(c.Request().Context(), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, user)
}

// List returns every account.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.usecase.List(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Create provisions a new account.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	user, err := h.usecase.Create(c.Request().Context(), usecase.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}

	if p, ok := principalOf(c); ok {
		h.log.WithFields(logrus.Fields{
			"created_id": user.ID,
			"role":       user.Role,
			"by":         p.ID,
		}).Info("user created")
	}
	return c.JSON(http.StatusCreated, user)
}
