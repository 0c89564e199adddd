package attendance

import (
	"testing"
	"time"

	"github.com/Spok95/school-app-backend/internal/models"
)

func schoolDay(start, end string) *models.ScheduleEntry {
	return &models.ScheduleEntry{DayOfWeek: 1, DayName: "Senin", StartTime: start, EndTime: end}
}

func at(h, m, s int) time.Time {
	return time.Date(2024, 9, 2, h, m, s, 0, time.UTC)
}

func TestDecide_Holiday(t *testing.T) {
	d := Decide(at(7, 0, 0), nil, nil, nil)
	if d.Accepted || d.Reason != ReasonHoliday {
		t.Fatalf("nil schedule: ожидали holiday, получили %+v", d)
	}

	sched := schoolDay("07:00", "13:00")
	sched.IsHoliday = true
	// выходной бьёт и координаты, и время
	loc := fencedLocation(-6.2, 106.8, 100)
	d = Decide(at(7, 0, 0), &Coordinates{-6.2, 106.8}, sched, loc)
	if d.Accepted || d.Reason != ReasonHoliday {
		t.Fatalf("holiday: получили %+v", d)
	}
}

func TestDecide_TooEarlyFixedFloor(t *testing.T) {
	// нижняя граница 06:00 не зависит от start_time расписания
	for _, sched := range []*models.ScheduleEntry{
		schoolDay("05:00", "13:00"),
		schoolDay("07:00", "13:00"),
		schoolDay("мусор", "13:00"),
	} {
		d := Decide(at(5, 59, 59), nil, sched, nil)
		if d.Accepted || d.Reason != ReasonTooEarly {
			t.Fatalf("start=%q: ожидали too_early, получили %+v", sched.StartTime, d)
		}
	}
}

func TestDecide_TooLate(t *testing.T) {
	sched := schoolDay("06:30", "13:00")
	d := Decide(at(13, 1, 0), nil, sched, nil)
	if d.Accepted || d.Reason != ReasonTooLate {
		t.Fatalf("13:01: ожидали too_late, получили %+v", d)
	}
	// 13:00 ровно — ещё можно
	d = Decide(at(13, 0, 0), nil, sched, nil)
	if !d.Accepted {
		t.Fatalf("13:00: ожидали accept, получили %+v", d)
	}
}

func TestDecide_MalformedEndFallsBack(t *testing.T) {
	// end_time не парсится → дефолт 13:00
	sched := schoolDay("06:30", "когда-нибудь")
	if d := Decide(at(12, 59, 0), nil, sched, nil); !d.Accepted {
		t.Fatalf("12:59 с дефолтным концом: %+v", d)
	}
	if d := Decide(at(13, 1, 0), nil, sched, nil); d.Reason != ReasonTooLate {
		t.Fatalf("13:01 с дефолтным концом: %+v", d)
	}
}

func TestDecide_LatenessStrictlyAfterStart(t *testing.T) {
	sched := schoolDay("07:00", "13:00")

	d := Decide(at(7, 0, 0), nil, sched, nil)
	if !d.Accepted || d.Status != models.AttendancePresent {
		t.Fatalf("07:00:00 ровно: ожидали present, получили %+v", d)
	}
	d = Decide(at(7, 0, 1), nil, sched, nil)
	if !d.Accepted || d.Status != models.AttendanceLate {
		t.Fatalf("07:00:01: ожидали late, получили %+v", d)
	}
	if d.CheckInTime != "07:00" {
		t.Fatalf("check_in_time: %q", d.CheckInTime)
	}
}

func TestDecide_DotSeparatorAndDefaults(t *testing.T) {
	// исторический формат "07.15" тоже принимаем
	sched := schoolDay("07.15", "13.00")
	d := Decide(at(7, 15, 0), nil, sched, nil)
	if !d.Accepted || d.Status != models.AttendancePresent {
		t.Fatalf("07:15 при пороге 07.15: %+v", d)
	}
	// start_time мусорный → дефолтный порог 07:00
	sched = schoolDay("??", "13:00")
	d = Decide(at(7, 30, 0), nil, sched, nil)
	if !d.Accepted || d.Status != models.AttendanceLate {
		t.Fatalf("07:30 при дефолтном пороге: %+v", d)
	}
}

func fencedLocation(lat, lon, radius float64) *models.SchoolLocation {
	return &models.SchoolLocation{Latitude: &lat, Longitude: &lon, RadiusM: &radius}
}

func TestDecide_Geofence(t *testing.T) {
	schoolLat, schoolLon := -6.2000, 106.8000
	sched := schoolDay("06:30", "13:00")

	// точка в ~111 м к северу от школы
	remote := &Coordinates{Latitude: schoolLat + 0.001, Longitude: schoolLon}
	dist := HaversineM(remote.Latitude, remote.Longitude, schoolLat, schoolLon)
	if dist < 100 || dist > 125 {
		t.Fatalf("haversine вне ожидаемого диапазона: %f", dist)
	}

	// ровно на границе — проходит
	loc := fencedLocation(schoolLat, schoolLon, dist)
	if d := Decide(at(7, 0, 0), remote, sched, loc); !d.Accepted {
		t.Fatalf("на границе радиуса: %+v", d)
	}

	// на метр дальше — отказ с дистанциями
	loc = fencedLocation(schoolLat, schoolLon, dist-1)
	d := Decide(at(7, 0, 0), remote, sched, loc)
	if d.Accepted || d.Reason != ReasonOutOfRange {
		t.Fatalf("за радиусом: %+v", d)
	}
	if d.DistanceM <= d.AllowedM {
		t.Fatalf("дистанции в отказе: %+v", d)
	}

	// геозона настроена, координат нет
	d = Decide(at(7, 0, 0), nil, sched, loc)
	if d.Accepted || d.Reason != ReasonMissingLocation {
		t.Fatalf("без координат: %+v", d)
	}

	// геозоны нет — координаты не обязательны
	if d := Decide(at(7, 0, 0), nil, sched, &models.SchoolLocation{}); !d.Accepted {
		t.Fatalf("без геозоны: %+v", d)
	}
	if d := Decide(at(7, 0, 0), nil, sched, nil); !d.Accepted {
		t.Fatalf("без строки school_location: %+v", d)
	}
}

func TestDecide_EndToEnd(t *testing.T) {
	sched := schoolDay("06:30", "13:00")

	d := Decide(at(6, 30, 0), nil, sched, nil)
	if !d.Accepted || d.Status != models.AttendancePresent || d.CheckInTime != "06:30" {
		t.Fatalf("06:30: %+v", d)
	}
	d = Decide(at(6, 31, 0), nil, sched, nil)
	if !d.Accepted || d.Status != models.AttendanceLate || d.CheckInTime != "06:31" {
		t.Fatalf("06:31: %+v", d)
	}
	d = Decide(at(13, 1, 0), nil, sched, nil)
	if d.Accepted || d.Reason != ReasonTooLate {
		t.Fatalf("13:01: %+v", d)
	}
}
