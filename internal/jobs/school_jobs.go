package jobs

import (
	"context"
	"database/sql"
	"time"

	"github.com/Spok95/school-app-backend/internal/attendance"
	"github.com/Spok95/school-app-backend/internal/ctxutil"
	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/Spok95/school-app-backend/internal/sync"
	"go.uber.org/zap"
)

// Register — все фоновые джобы сервиса. engine может быть nil
// (синхронизация выключена).
func Register(r *Runner, database *sql.DB, engine *sync.Engine, loc *time.Location, log *zap.Logger) {
	r.Every(10*time.Minute, "absent-marker", func(ctx context.Context) error {
		return markAbsent(ctx, database, loc, log)
	})
	r.Every(24*time.Hour, "pet-decay", func(ctx context.Context) error {
		return decayPets(ctx, database, log)
	})
	if engine != nil {
		r.Every(5*time.Minute, "roster-refresh", func(ctx context.Context) error {
			return engine.RefreshRoster(ctx)
		})
	}
}

// markAbsent — после конца учебного дня всем без записи проставляется absent.
// Идемпотентна: повторный запуск никого не находит.
func markAbsent(ctx context.Context, database *sql.DB, loc *time.Location, log *zap.Logger) error {
	now := time.Now().In(loc)

	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	sched, err := db.GetScheduleForDay(dbCtx, database, now.Weekday())
	if err != nil {
		return err
	}
	if sched == nil || sched.IsHoliday {
		return nil
	}
	if !attendance.AfterEnd(now, sched) {
		return nil // учебный день ещё идёт
	}

	ids, err := db.StudentsWithoutRecord(dbCtx, database, now)
	if err != nil {
		return err
	}
	for _, id := range ids {
		method := "auto"
		if err := db.UpsertAttendance(dbCtx, database, models.AttendanceRecord{
			StudentID: id,
			Date:      now,
			Status:    models.AttendanceAbsent,
			Method:    &method,
		}); err != nil {
			return err
		}
	}
	if len(ids) > 0 {
		log.Info("проставлены пропуски", zap.Int("count", len(ids)), zap.String("date", now.Format("2006-01-02")))
	}
	return nil
}

func decayPets(ctx context.Context, database *sql.DB, log *zap.Logger) error {
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	n, err := db.DecayPets(dbCtx, database, time.Now().Add(-48*time.Hour), 10)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info("питомцы загрустили", zap.Int64("count", n))
	}
	return nil
}
