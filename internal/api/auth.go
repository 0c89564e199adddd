package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/Spok95/school-app-backend/internal/ctxutil"
	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const ctxUserKey = "auth.user"

type authClaims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) handleLogin(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	user, err := db.GetUserByUsername(ctx, s.database, req.Username)
	if err != nil {
		return s.internal(c, err)
	}
	if user == nil || !user.IsActive {
		return echo.NewHTTPError(http.StatusUnauthorized, "неверный логин или пароль")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "неверный логин или пароль")
	}

	claims := authClaims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return s.internal(c, err)
	}

	resp := echo.Map{
		"token":     token,
		"user_id":   user.ID,
		"role":      user.Role,
		"full_name": user.FullName,
	}
	// ученику сразу отдаём его student_id
	if user.Role == models.Student {
		st, err := db.GetStudentByUserID(ctx, s.database, user.ID)
		if err != nil {
			return s.internal(c, err)
		}
		if st != nil {
			resp["student_id"] = st.ID
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "нет токена")
		}

		var claims authClaims
		token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(s.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "токен недействителен")
		}

		ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
		user, dbErr := db.GetUserByID(ctx, s.database, claims.UserID)
		cancel()
		if dbErr != nil {
			return s.internal(c, dbErr)
		}
		if user == nil || !user.IsActive {
			return echo.NewHTTPError(http.StatusUnauthorized, "доступ закрыт")
		}

		c.Set(ctxUserKey, user)
		c.SetRequest(c.Request().WithContext(ctxutil.WithUserID(c.Request().Context(), user.ID)))
		return next(c)
	}
}

func (s *Server) requireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := currentUser(c)
			for _, r := range roles {
				if string(user.Role) == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "недостаточно прав")
		}
	}
}

func currentUser(c echo.Context) *models.User {
	u, _ := c.Get(ctxUserKey).(*models.User)
	return u
}
