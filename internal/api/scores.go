package api

import (
	"net/http"
	"strconv"

	"github.com/Spok95/school-app-backend/internal/ctxutil"
	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/labstack/echo/v4"
)

// GET /api/scores — ученик видит свой журнал, персонал — общий.
func (s *Server) handleListScores(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	user := currentUser(c)
	if user.Role == models.Student {
		student, err := db.GetStudentByUserID(ctx, s.database, user.ID)
		if err != nil {
			return s.internal(c, err)
		}
		if student == nil {
			return echo.NewHTTPError(http.StatusForbidden, "нет профиля ученика")
		}
		scores, err := db.ListScoresByStudent(ctx, s.database, student.ID)
		if err != nil {
			return s.internal(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"balance": student.Points, "scores": scores})
	}

	if q := c.QueryParam("student_id"); q != "" {
		id, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "bad student_id")
		}
		scores, err := db.ListScoresByStudent(ctx, s.database, id)
		if err != nil {
			return s.internal(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"scores": scores})
	}

	scores, err := db.ListScoresWithStudents(ctx, s.database)
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"scores": scores})
}

// POST /api/scores — начисление или снятие баллов учителем.
func (s *Server) handleAddScore(c echo.Context) error {
	var req struct {
		StudentID int64   `json:"student_id"`
		Points    int     `json:"points"`
		Category  string  `json:"category"`
		Note      *string `json:"note"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
	}
	if req.StudentID == 0 || req.Points == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "нужны student_id и points != 0")
	}
	if req.Category == "" {
		req.Category = "discipline"
	}

	user := currentUser(c)
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	student, err := db.GetStudentByID(ctx, s.database, req.StudentID)
	if err != nil {
		return s.internal(c, err)
	}
	if student == nil {
		return echo.NewHTTPError(http.StatusNotFound, "ученик не найден")
	}

	id, err := db.AddScore(ctx, s.database, models.Score{
		StudentID: req.StudentID,
		Points:    req.Points,
		Category:  req.Category,
		Note:      req.Note,
		CreatedBy: user.ID,
	})
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}
