package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Spok95/school-app-backend/internal/ctxutil"
	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/labstack/echo/v4"
)

// POST /api/reports — обращение о буллинге; anonymous=true не сохраняет автора.
func (s *Server) handleCreateReport(c echo.Context) error {
	var req struct {
		Description  string `json:"description"`
		IncidentDate string `json:"incident_date"`
		Anonymous    bool   `json:"anonymous"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
	}
	if req.Description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "нужно описание")
	}
	incidentDate := time.Now()
	if req.IncidentDate != "" {
		var err error
		incidentDate, err = time.Parse("2006-01-02", req.IncidentDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "дата в формате ГГГГ-ММ-ДД")
		}
	}

	report := models.BullyingReport{
		Description:  req.Description,
		IncidentDate: incidentDate,
	}
	if !req.Anonymous {
		uid := currentUser(c).ID
		report.ReporterID = &uid
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	id, err := db.InsertBullyingReport(ctx, s.database, report)
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "status": models.ReportOpen})
}

// GET /api/reports?status=
func (s *Server) handleListReports(c echo.Context) error {
	status := models.ReportStatus(c.QueryParam("status"))
	switch status {
	case "", models.ReportOpen, models.ReportReviewing, models.ReportClosed:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "неизвестный статус")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	reports, err := db.ListBullyingReports(ctx, s.database, status)
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reports": reports})
}

// POST /api/reports/:id/status
func (s *Server) handleReportStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad id")
	}
	var req struct {
		Status models.ReportStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
	}
	switch req.Status {
	case models.ReportOpen, models.ReportReviewing, models.ReportClosed:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "неизвестный статус")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	if err := db.SetBullyingReportStatus(ctx, s.database, id, req.Status, currentUser(c).ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "обращение не найдено")
		}
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "status": req.Status})
}
