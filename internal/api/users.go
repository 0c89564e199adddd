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

// PUT /api/users/:id/telegram — админ привязывает телеграм-чат к пользователю.
// После привязки уведомления этому пользователю дублируются в телеграм.
func (s *Server) handleLinkTelegram(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "некорректный id")
	}

	var req struct {
		ChatID int64 `json:"chat_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
	}
	if req.ChatID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "нужен chat_id")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	if err := db.SetTelegramChat(ctx, s.database, userID, req.ChatID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "пользователь не найден")
		}
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": userID, "chat_id": req.ChatID})
}
