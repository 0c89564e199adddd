package api

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/Spok95/school-app-backend/internal/config"
	"github.com/Spok95/school-app-backend/internal/ctxutil"
	"github.com/Spok95/school-app-backend/internal/metrics"
	"github.com/Spok95/school-app-backend/internal/notify"
	syncengine "github.com/Spok95/school-app-backend/internal/sync"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo     *echo.Echo
	database *sql.DB
	cfg      *config.Config
	log      *zap.Logger
	notifier *notify.Notifier
	engine   *syncengine.Engine // nil — синхронизация выключена
	checkins *StudentLimiter
}

func NewServer(database *sql.DB, cfg *config.Config, log *zap.Logger, notifier *notify.Notifier, engine *syncengine.Engine) *Server {
	s := &Server{
		echo:     echo.New(),
		database: database,
		cfg:      cfg,
		log:      log,
		notifier: notifier,
		engine:   engine,
		checkins: NewStudentLimiter(),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())
	s.echo.Use(s.requestMetrics)
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo

	e.GET("/healthz", s.handleHealthz)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	e.POST("/api/login", s.handleLogin)

	api := e.Group("/api", s.authMiddleware)

	api.POST("/attendance/checkin", s.handleCheckin, s.requireRole("student"))
	api.POST("/attendance/override", s.handleOverride, s.requireRole("teacher", "admin"))
	api.GET("/attendance/today", s.handleAttendanceToday)
	api.GET("/attendance/history", s.handleAttendanceHistory)
	api.GET("/attendance/export", s.handleAttendanceExport, s.requireRole("admin"))

	api.GET("/schedule", s.handleGetSchedule)
	api.PUT("/schedule", s.handlePutSchedule, s.requireRole("admin"))
	api.GET("/school-location", s.handleGetLocation)
	api.PUT("/school-location", s.handlePutLocation, s.requireRole("admin"))

	api.GET("/students", s.handleListStudents, s.requireRole("teacher", "admin"))
	api.POST("/students", s.handleCreateStudent, s.requireRole("admin"))
	api.DELETE("/students/:id", s.handleDeleteStudent, s.requireRole("admin"))

	api.PUT("/users/:id/telegram", s.handleLinkTelegram, s.requireRole("admin"))

	api.POST("/literacy", s.handleSubmitLiteracy, s.requireRole("student"))
	api.GET("/literacy", s.handleListLiteracy)
	api.POST("/literacy/:id/grade", s.handleGradeLiteracy, s.requireRole("teacher", "admin"))

	api.GET("/scores", s.handleListScores)
	api.POST("/scores", s.handleAddScore, s.requireRole("teacher", "admin"))

	api.GET("/pet", s.handleGetPet, s.requireRole("student"))
	api.POST("/pet/feed", s.handleFeedPet, s.requireRole("student"))
	api.POST("/pet/rename", s.handleRenamePet, s.requireRole("student"))

	api.POST("/reports", s.handleCreateReport)
	api.GET("/reports", s.handleListReports, s.requireRole("teacher", "admin"))
	api.POST("/reports/:id/status", s.handleReportStatus, s.requireRole("teacher", "admin"))

	api.GET("/notifications", s.handleListNotifications)
	api.POST("/notifications/:id/read", s.handleReadNotification)
}

func (s *Server) requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := ctxutil.WithOp(c.Request().Context(), c.Request().Method+" "+c.Path())
		c.SetRequest(c.Request().WithContext(ctx))
		err := next(c)
		code := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				code = he.Code
			} else {
				code = http.StatusInternalServerError
			}
			if code >= 500 {
				metrics.HandlerErrors.Inc()
			}
		}
		metrics.APIRequests.WithLabelValues(c.Path(), strconv.Itoa(code)).Inc()
		return err
	}
}

func (s *Server) handleHealthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	if err := s.database.PingContext(ctx); err != nil {
		return c.String(http.StatusServiceUnavailable, "db not ok: "+err.Error())
	}
	metrics.ObserveDBPing(time.Since(t0))
	return c.String(http.StatusOK, "ok")
}

// Start — слушаем до отмены контекста, затем аккуратно гасим.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.echo.Shutdown(shCtx)
	}()
	if err := s.echo.Start(s.cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
