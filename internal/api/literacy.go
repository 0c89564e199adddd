package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Spok95/school-app-backend/internal/ctxutil"
	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/labstack/echo/v4"
)

// POST /api/literacy — ученик сдаёт запись читательского дневника.
func (s *Server) handleSubmitLiteracy(c echo.Context) error {
	var req struct {
		BookTitle       string `json:"book_title"`
		DurationMinutes int    `json:"duration_minutes"`
		Summary         string `json:"summary"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
	}
	if req.BookTitle == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "нужно название книги")
	}
	if req.DurationMinutes < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "длительность не может быть отрицательной")
	}

	user := currentUser(c)
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	student, err := db.GetStudentByUserID(ctx, s.database, user.ID)
	if err != nil {
		return s.internal(c, err)
	}
	if student == nil {
		return echo.NewHTTPError(http.StatusForbidden, "нет профиля ученика")
	}

	id, err := db.InsertLiteracyLog(ctx, s.database, models.LiteracyLog{
		StudentID:       student.ID,
		BookTitle:       req.BookTitle,
		DurationMinutes: req.DurationMinutes,
		Summary:         req.Summary,
	})
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "status": models.LiteracyPending})
}

// GET /api/literacy?student_id=&status=
func (s *Server) handleListLiteracy(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	user := currentUser(c)
	var studentID int64
	if user.Role == models.Student {
		student, err := db.GetStudentByUserID(ctx, s.database, user.ID)
		if err != nil {
			return s.internal(c, err)
		}
		if student == nil {
			return echo.NewHTTPError(http.StatusForbidden, "нет профиля ученика")
		}
		studentID = student.ID
	} else if q := c.QueryParam("student_id"); q != "" {
		id, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "bad student_id")
		}
		studentID = id
	}

	status := models.LiteracyStatus(c.QueryParam("status"))
	switch status {
	case "", models.LiteracyPending, models.LiteracyApproved, models.LiteracyRejected:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "неизвестный статус")
	}

	logs, err := db.ListLiteracyLogs(ctx, s.database, studentID, status)
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"logs": logs})
}

// POST /api/literacy/:id/grade — решение учителя. Одобрение начисляет баллы
// и кормит питомца опытом.
func (s *Server) handleGradeLiteracy(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad id")
	}
	var req struct {
		Approve bool    `json:"approve"`
		Note    *string `json:"note"`
		Points  int     `json:"points"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
	}
	if req.Points < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "баллы не могут быть отрицательными")
	}

	user := currentUser(c)
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	status := models.LiteracyRejected
	points := 0
	if req.Approve {
		status = models.LiteracyApproved
		points = req.Points
	}

	if err := db.GradeLiteracyLog(ctx, s.database, id, status, req.Note, points, user.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusConflict, "запись не найдена или уже оценена")
		}
		return s.internal(c, err)
	}

	l, err := db.GetLiteracyLog(ctx, s.database, id)
	if err != nil {
		return s.internal(c, err)
	}
	if l == nil {
		return echo.NewHTTPError(http.StatusNotFound, "запись не найдена")
	}

	if status == models.LiteracyApproved && points > 0 {
		note := "Читательский дневник: " + l.BookTitle
		if _, err := db.AddScore(ctx, s.database, models.Score{
			StudentID: l.StudentID,
			Points:    points,
			Category:  "literacy",
			Note:      &note,
			CreatedBy: user.ID,
		}); err != nil {
			return s.internal(c, err)
		}
		if err := db.AddPetXP(ctx, s.database, l.StudentID, points); err != nil {
			return s.internal(c, err)
		}
	}
	if s.engine != nil {
		s.engine.PushLiteracyGrade(c.Request().Context(), *l)
	}
	s.notifyGraded(c.Request().Context(), l, points)
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "status": status, "points_awarded": points})
}

func (s *Server) notifyGraded(ctx context.Context, l *models.LiteracyLog, points int) {
	if s.notifier == nil {
		return
	}
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	student, err := db.GetStudentByID(dbCtx, s.database, l.StudentID)
	if err != nil || student == nil {
		return
	}
	studentUser, err := db.GetUserByID(dbCtx, s.database, student.UserID)
	if err != nil || studentUser == nil {
		return
	}
	title := "Дневник проверен"
	body := fmt.Sprintf("«%s»: отклонено.", l.BookTitle)
	if l.Status == models.LiteracyApproved {
		body = fmt.Sprintf("«%s»: одобрено, +%d баллов.", l.BookTitle, points)
	}
	s.notifier.Notify(ctx, studentUser, title, body)
}
