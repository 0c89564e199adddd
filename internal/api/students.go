package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/Spok95/school-app-backend/internal/ctxutil"
	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleListStudents(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	students, err := db.ListStudents(ctx, s.database)
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"students": students})
}

// POST /api/students — админ заводит ученика вместе с пользователем.
func (s *Server) handleCreateStudent(c echo.Context) error {
	var req struct {
		Username           string  `json:"username"`
		Password           string  `json:"password"`
		FullName           string  `json:"full_name"`
		ClassName          string  `json:"class_name"`
		RegistrationNumber *string `json:"registration_number"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
	}
	if req.Username == "" || req.FullName == "" || len(req.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "нужны username, full_name и пароль от 8 символов")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return s.internal(c, err)
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	userID, err := db.CreateUser(ctx, s.database, models.User{
		Username:           req.Username,
		PasswordHash:       string(hash),
		FullName:           req.FullName,
		Role:               models.Student,
		RegistrationNumber: req.RegistrationNumber,
		IsActive:           true,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, "пользователь с таким username уже есть")
	}
	studentID, err := db.CreateStudent(ctx, s.database, userID, req.ClassName)
	if err != nil {
		return s.internal(c, err)
	}
	if _, err := db.EnsurePet(ctx, s.database, studentID); err != nil {
		return s.internal(c, err)
	}

	// новый ученик попадёт в снимок ростера на ближайшем обновлении
	if s.engine != nil {
		if err := s.engine.RefreshRoster(ctx); err != nil {
			s.log.Warn("roster refresh after create: " + err.Error())
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"student_id": studentID, "user_id": userID})
}

// DELETE /api/students/:id — каскадом уходят attendance, literacy, scores, pet.
func (s *Server) handleDeleteStudent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad id")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	if err := db.DeleteStudent(ctx, s.database, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "ученик не найден")
		}
		return s.internal(c, err)
	}
	if s.engine != nil {
		if err := s.engine.RefreshRoster(ctx); err != nil {
			s.log.Warn("roster refresh after delete: " + err.Error())
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
