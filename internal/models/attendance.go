package models

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceSick    AttendanceStatus = "sick"
	AttendancePermit  AttendanceStatus = "permit"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent, AttendanceSick, AttendancePermit:
		return true
	default:
		return false
	}
}

type AttendanceRecord struct {
	ID          int64            `db:"id" json:"id"`
	StudentID   int64            `db:"student_id" json:"student_id"`
	Date        time.Time        `db:"date" json:"date"`
	Status      AttendanceStatus `db:"status" json:"status"`
	CheckInTime *string          `db:"check_in_time" json:"check_in_time"` // "HH:MM", wall clock
	Method      *string          `db:"method" json:"method"`
	Note        *string          `db:"note" json:"note"`
	RecordedBy  *int64           `db:"recorded_by" json:"recorded_by"` // NULL — самостоятельная отметка
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// ScheduleEntry — одна строка на день недели, 7 всего.
type ScheduleEntry struct {
	DayOfWeek int    `db:"day_of_week" json:"day_of_week"` // 0 = воскресенье, как time.Weekday
	DayName   string `db:"day_name" json:"day_name"`
	StartTime string `db:"start_time" json:"start_time"` // "HH:MM"
	EndTime   string `db:"end_time" json:"end_time"`     // "HH:MM"
	IsHoliday bool   `db:"is_holiday" json:"is_holiday"`
}

// SchoolLocation — единственная строка; геозона включена, только когда
// заполнены все три поля.
type SchoolLocation struct {
	Latitude  *float64 `db:"latitude" json:"latitude"`
	Longitude *float64 `db:"longitude" json:"longitude"`
	RadiusM   *float64 `db:"radius_m" json:"radius_m"`
}

func (l *SchoolLocation) Geofenced() bool {
	return l != nil && l.Latitude != nil && l.Longitude != nil && l.RadiusM != nil
}
