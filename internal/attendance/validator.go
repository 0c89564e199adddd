package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/school-app-backend/internal/models"
)

// Причины отказа в отметке.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonHoliday         Reason = "holiday" // нет расписания или выходной
	ReasonTooEarly        Reason = "too_early"
	ReasonTooLate         Reason = "too_late"
	ReasonOutOfRange      Reason = "out_of_range"
	ReasonMissingLocation Reason = "missing_location"
)

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Decision — результат проверки отметки. При Accepted заполнены Status и
// CheckInTime; при отказе — Reason (для OutOfRange ещё дистанции в метрах).
type Decision struct {
	Accepted    bool
	Status      models.AttendanceStatus // present | late
	CheckInTime string                  // "HH:MM"
	Reason      Reason
	DistanceM   float64
	AllowedM    float64
}

// Окно отметки: нижняя граница фиксированная, от расписания не зависит.
const (
	windowStartMinutes = 6 * 60  // 06:00
	defaultEndMinutes  = 13 * 60 // конец дня, если end_time не парсится
	defaultLateMinutes = 7 * 60  // порог опоздания, если start_time не парсится
)

// Decide — чистая проверка самостоятельной отметки. Предусловие на вызывающей
// стороне: записи за сегодня ещё нет. Порядок проверок: расписание → геозона →
// окно → опоздание.
func Decide(now time.Time, coords *Coordinates, sched *models.ScheduleEntry, loc *models.SchoolLocation) Decision {
	if sched == nil || sched.IsHoliday {
		return Decision{Reason: ReasonHoliday}
	}

	if loc.Geofenced() {
		if coords == nil {
			return Decision{Reason: ReasonMissingLocation}
		}
		dist := HaversineM(coords.Latitude, coords.Longitude, *loc.Latitude, *loc.Longitude)
		// ровно на границе радиуса — ещё в зоне
		if dist > *loc.RadiusM {
			return Decision{Reason: ReasonOutOfRange, DistanceM: dist, AllowedM: *loc.RadiusM}
		}
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	if nowMinutes < windowStartMinutes {
		return Decision{Reason: ReasonTooEarly}
	}
	if nowMinutes > parseMinutes(sched.EndTime, defaultEndMinutes) {
		return Decision{Reason: ReasonTooLate}
	}

	status := models.AttendancePresent
	if afterThreshold(now, parseMinutes(sched.StartTime, defaultLateMinutes)) {
		status = models.AttendanceLate
	}
	return Decision{
		Accepted:    true,
		Status:      status,
		CheckInTime: fmt.Sprintf("%02d:%02d", now.Hour(), now.Minute()),
	}
}

// AfterEnd — учебный день по расписанию уже закончился.
func AfterEnd(now time.Time, sched *models.ScheduleEntry) bool {
	nowMinutes := now.Hour()*60 + now.Minute()
	return nowMinutes > parseMinutes(sched.EndTime, defaultEndMinutes)
}

// Опоздание — строго после порога: 07:00:00 ровно ещё present,
// 07:00:01 уже late.
func afterThreshold(now time.Time, thresholdMinutes int) bool {
	nowSeconds := (now.Hour()*60+now.Minute())*60 + now.Second()
	return nowSeconds > thresholdMinutes*60
}

// parseMinutes — "HH:MM" или "HH.MM" в минуты от полуночи; нечитаемое
// значение молча заменяется на def.
func parseMinutes(s string, def int) int {
	sep := ":"
	if !strings.Contains(s, sep) {
		sep = "."
	}
	parts := strings.SplitN(strings.TrimSpace(s), sep, 2)
	if len(parts) != 2 {
		return def
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return def
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return def
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return def
	}
	return h*60 + m
}
