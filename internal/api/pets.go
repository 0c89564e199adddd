package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/Spok95/school-app-backend/internal/ctxutil"
	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/labstack/echo/v4"
)

func (s *Server) studentOf(c echo.Context) (*models.StudentProfile, error) {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	return db.GetStudentByUserID(ctx, s.database, currentUser(c).ID)
}

// GET /api/pet
func (s *Server) handleGetPet(c echo.Context) error {
	student, err := s.studentOf(c)
	if err != nil {
		return s.internal(c, err)
	}
	if student == nil {
		return echo.NewHTTPError(http.StatusForbidden, "нет профиля ученика")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	pet, err := db.EnsurePet(ctx, s.database, student.ID)
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pet": pet, "balance": student.Points, "feed_cost": models.PetFeedCost})
}

// POST /api/pet/feed — кормление списывает баллы с баланса.
func (s *Server) handleFeedPet(c echo.Context) error {
	student, err := s.studentOf(c)
	if err != nil {
		return s.internal(c, err)
	}
	if student == nil {
		return echo.NewHTTPError(http.StatusForbidden, "нет профиля ученика")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	if _, err := db.EnsurePet(ctx, s.database, student.ID); err != nil {
		return s.internal(c, err)
	}
	if err := db.SpendStudentPoints(ctx, s.database, student.ID, models.PetFeedCost); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusPaymentRequired, "не хватает баллов")
		}
		return s.internal(c, err)
	}
	if err := db.FeedPet(ctx, s.database, student.ID); err != nil {
		return s.internal(c, err)
	}

	pet, err := db.GetPet(ctx, s.database, student.ID)
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pet": pet})
}

// POST /api/pet/rename
func (s *Server) handleRenamePet(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 40 {
		return echo.NewHTTPError(http.StatusBadRequest, "имя от 1 до 40 символов")
	}

	student, err := s.studentOf(c)
	if err != nil {
		return s.internal(c, err)
	}
	if student == nil {
		return echo.NewHTTPError(http.StatusForbidden, "нет профиля ученика")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	if _, err := db.EnsurePet(ctx, s.database, student.ID); err != nil {
		return s.internal(c, err)
	}
	if err := db.RenamePet(ctx, s.database, student.ID, name); err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "name": name})
}
