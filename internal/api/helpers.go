package api

import (
	"net/http"
	"time"

	"github.com/Spok95/school-app-backend/internal/ctxutil"
	"github.com/Spok95/school-app-backend/internal/observability"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// internal — 500 с логом и Sentry; текст ошибки клиенту не отдаём.
func (s *Server) internal(c echo.Context, err error) error {
	observability.CaptureErrTagged("api", err)
	ctx := c.Request().Context()
	fields := []zap.Field{zap.Error(err)}
	if op, ok := ctxutil.Op(ctx); ok {
		fields = append(fields, zap.String("op", op))
	} else {
		fields = append(fields, zap.String("path", c.Path()))
	}
	if uid, ok := ctxutil.UserID(ctx); ok {
		fields = append(fields, zap.Int64("user_id", uid))
	}
	s.log.Error("handler", fields...)
	return echo.NewHTTPError(http.StatusInternalServerError, "внутренняя ошибка")
}

func parseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return time.Parse("2006-01-02", s)
}
