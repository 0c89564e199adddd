package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Spok95/school-app-backend/internal/ctxutil"
	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/export"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/labstack/echo/v4"
)

func (s *Server) handleGetSchedule(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	entries, err := db.GetSchedule(ctx, s.database)
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"schedule": entries})
}

// PUT /api/schedule — админ заменяет все 7 строк целиком.
func (s *Server) handlePutSchedule(c echo.Context) error {
	var req struct {
		Schedule []models.ScheduleEntry `json:"schedule"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
	}
	if len(req.Schedule) != 7 {
		return echo.NewHTTPError(http.StatusBadRequest, "нужно ровно 7 строк")
	}
	seen := map[int]bool{}
	for _, e := range req.Schedule {
		if e.DayOfWeek < 0 || e.DayOfWeek > 6 || seen[e.DayOfWeek] {
			return echo.NewHTTPError(http.StatusBadRequest, "по одной строке на каждый день недели")
		}
		seen[e.DayOfWeek] = true
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	if err := db.ReplaceSchedule(ctx, s.database, req.Schedule); err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (s *Server) handleGetLocation(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	loc, err := db.GetSchoolLocation(ctx, s.database)
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"location": loc, "geofenced": loc.Geofenced()})
}

// PUT /api/school-location — null-поля выключают геозону.
func (s *Server) handlePutLocation(c echo.Context) error {
	var req models.SchoolLocation
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
	}
	if req.RadiusM != nil && *req.RadiusM <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "радиус должен быть положительным")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	if err := db.SetSchoolLocation(ctx, s.database, req); err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// GET /api/attendance/export?from=&to= — xlsx-сводка.
func (s *Server) handleAttendanceExport(c echo.Context) error {
	now := time.Now().In(s.cfg.Location)
	from, err := parseDate(c.QueryParam("from"), now.AddDate(0, -1, 0))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "from: YYYY-MM-DD")
	}
	to, err := parseDate(c.QueryParam("to"), now)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "to: YYYY-MM-DD")
	}

	ctx, cancel := ctxutil.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	file, err := export.BuildAttendanceRecap(ctx, s.database, from, to)
	if err != nil {
		return s.internal(c, err)
	}
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return s.internal(c, err)
	}

	name := fmt.Sprintf("attendance_%s_%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
