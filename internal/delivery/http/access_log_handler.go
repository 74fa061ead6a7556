package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/FilipeAphrody/sentinel-access/internal/domain"
	"github.com/FilipeAphrody/sentinel-access/internal/usecase"
)

// AccessLogHandler exposes the audit trail to admins.
type AccessLogHandler struct {
	audit *usecase.AuditRecorder
	log   logrus.FieldLogger
}

func NewAccessLogHandler(g *echo.Group, a *usecase.AuditRecorder, guards *Guards, log logrus.FieldLogger) {
	handler := &AccessLogHandler{audit: a, log: log}

	g.GET("/access-logs", handler.Recent, guards.Require(domain.RoleAdmin)...)
}

// Recent returns the latest entries, newest first. An optional ?limit=
// narrows the page; it never exceeds usecase.MaxRecentAccessLogs.
func (h *AccessLogHandler) Recent(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a positive integer"})
		}
		limit = n
	}

	entries, err := h.audit.Recent(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, entries)
}
