package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Spok95/school-app-backend/internal/attendance"
	"github.com/Spok95/school-app-backend/internal/ctxutil"
	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/metrics"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/Spok95/school-app-backend/internal/notify"
	"github.com/labstack/echo/v4"
)

var rejectMessages = map[attendance.Reason]string{
	attendance.ReasonHoliday:         "Сегодня занятий нет.",
	attendance.ReasonTooEarly:        "Отметка откроется в 06:00.",
	attendance.ReasonTooLate:         "Учебный день уже закончился.",
	attendance.ReasonOutOfRange:      "Вы слишком далеко от школы.",
	attendance.ReasonMissingLocation: "Для отметки нужна геопозиция.",
}

// POST /api/attendance/checkin — самостоятельная отметка ученика.
func (s *Server) handleCheckin(c echo.Context) error {
	var req struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
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

	// сериализация «lookup → insert» по ученику: двойной тап не даёт дубля
	unlock := s.checkins.lock(student.ID)
	defer unlock()

	now := time.Now().In(s.cfg.Location)

	existing, err := db.GetAttendanceForDate(ctx, s.database, student.ID, now)
	if err != nil {
		return s.internal(c, err)
	}
	if existing != nil {
		return c.JSON(http.StatusOK, echo.Map{
			"accepted": false,
			"reason":   "already_recorded",
			"message":  "Отметка за сегодня уже есть.",
			"status":   existing.Status,
		})
	}

	sched, err := db.GetScheduleForDay(ctx, s.database, now.Weekday())
	if err != nil {
		return s.internal(c, err)
	}
	loc, err := db.GetSchoolLocation(ctx, s.database)
	if err != nil {
		return s.internal(c, err)
	}

	var coords *attendance.Coordinates
	if req.Latitude != nil && req.Longitude != nil {
		coords = &attendance.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	decision := attendance.Decide(now, coords, sched, loc)
	if !decision.Accepted {
		metrics.CheckinRejected.WithLabelValues(string(decision.Reason)).Inc()
		resp := echo.Map{
			"accepted": false,
			"reason":   decision.Reason,
			"message":  rejectMessages[decision.Reason],
		}
		if decision.Reason == attendance.ReasonOutOfRange {
			resp["distance_m"] = int(decision.DistanceM)
			resp["allowed_m"] = int(decision.AllowedM)
		}
		return c.JSON(http.StatusOK, resp)
	}

	method := "self"
	rec := models.AttendanceRecord{
		StudentID:   student.ID,
		Date:        now,
		Status:      decision.Status,
		CheckInTime: &decision.CheckInTime,
		Method:      &method,
		// RecordedBy NULL — самостоятельная отметка
	}
	if _, err := db.InsertAttendance(ctx, s.database, rec); err != nil {
		return s.internal(c, err)
	}
	metrics.CheckinAccepted.Inc()

	if s.engine != nil {
		s.engine.PushAttendance(c.Request().Context(), rec)
	}
	if decision.Status == models.AttendanceLate {
		title, body := notify.LateMessage(student.FullName, decision.CheckInTime)
		s.notifier.NotifyParents(c.Request().Context(), student.ID, title, body)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"accepted":      true,
		"status":        decision.Status,
		"check_in_time": decision.CheckInTime,
	})
}

// POST /api/attendance/override — ручная корректировка учителем/админом.
func (s *Server) handleOverride(c echo.Context) error {
	var req struct {
		StudentID int64   `json:"student_id"`
		Date      string  `json:"date"`
		Status    string  `json:"status"`
		Note      *string `json:"note"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
	}
	status := models.AttendanceStatus(req.Status)
	if !status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "неизвестный статус")
	}
	date, err := parseDate(req.Date, time.Now().In(s.cfg.Location))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "дата в формате YYYY-MM-DD")
	}

	user := currentUser(c)
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	if st, err := db.GetStudentByID(ctx, s.database, req.StudentID); err != nil {
		return s.internal(c, err)
	} else if st == nil {
		return echo.NewHTTPError(http.StatusNotFound, "ученик не найден")
	}

	method := "manual"
	rec := models.AttendanceRecord{
		StudentID:  req.StudentID,
		Date:       date,
		Status:     status,
		Method:     &method,
		Note:       req.Note,
		RecordedBy: &user.ID,
	}
	if err := db.UpsertAttendance(ctx, s.database, rec); err != nil {
		return s.internal(c, err)
	}
	if s.engine != nil {
		s.engine.PushAttendance(c.Request().Context(), rec)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// GET /api/attendance/today
func (s *Server) handleAttendanceToday(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	now := time.Now().In(s.cfg.Location)
	user := currentUser(c)

	// ученик видит только свою запись
	if user.Role == models.Student {
		student, err := db.GetStudentByUserID(ctx, s.database, user.ID)
		if err != nil {
			return s.internal(c, err)
		}
		if student == nil {
			return echo.NewHTTPError(http.StatusForbidden, "нет профиля ученика")
		}
		rec, err := db.GetAttendanceForDate(ctx, s.database, student.ID, now)
		if err != nil {
			return s.internal(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"record": rec})
	}

	recs, err := db.ListAttendanceByDate(ctx, s.database, now)
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"records": recs})
}

// GET /api/attendance/history?student_id=&from=&to=
func (s *Server) handleAttendanceHistory(c echo.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()

	user := currentUser(c)
	now := time.Now().In(s.cfg.Location)

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
	} else {
		id, err := strconv.ParseInt(c.QueryParam("student_id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "нужен student_id")
		}
		studentID = id
	}

	from, err := parseDate(c.QueryParam("from"), now.AddDate(0, -1, 0))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "from: YYYY-MM-DD")
	}
	to, err := parseDate(c.QueryParam("to"), now)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "to: YYYY-MM-DD")
	}

	recs, err := db.ListAttendanceHistory(ctx, s.database, studentID, from, to)
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"records": recs})
}
