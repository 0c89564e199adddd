package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/Spok95/school-app-backend/internal/ctxutil"
	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/labstack/echo/v4"
)

// GET /api/notifications?unread=1
func (s *Server) handleListNotifications(c echo.Context) error {
	unreadOnly := c.QueryParam("unread") == "1"

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	list, err := db.ListNotifications(ctx, s.database, currentUser(c).ID, unreadOnly)
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": list})
}

// POST /api/notifications/:id/read — отметить прочитанным можно только своё.
func (s *Server) handleReadNotification(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad id")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	if err := db.MarkNotificationRead(ctx, s.database, id, currentUser(c).ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "уведомление не найдено")
		}
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
