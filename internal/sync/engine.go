package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Spok95/school-app-backend/internal/ctxutil"
	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/identity"
	"github.com/Spok95/school-app-backend/internal/metrics"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/Spok95/school-app-backend/internal/observability"
	"go.uber.org/zap"
)

// Пути в удалённом дереве.
const (
	literacyPath   = "literacy_logs"
	attendancePath = "attendance"
)

// Engine — двусторонняя синхронизация с удалённым документным хранилищем:
// входящие читательские дневники (слушатель + резолвер) и исходящие отметки.
type Engine struct {
	client   *Client
	database *sql.DB
	log      *zap.Logger
	resolver atomic.Pointer[identity.Resolver]
}

func NewEngine(client *Client, database *sql.DB, log *zap.Logger) *Engine {
	e := &Engine{client: client, database: database, log: log}
	e.resolver.Store(identity.NewResolver(nil))
	return e
}

// RefreshRoster — перестраивает снимок ростера для резолвера. Зовётся на
// старте и периодически джобой: новый ученик резолвится после ближайшего
// обновления снимка.
func (e *Engine) RefreshRoster(ctx context.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	students, err := db.ListStudents(ctx, e.database)
	if err != nil {
		return err
	}
	roster := make([]identity.RosterEntry, 0, len(students))
	for _, s := range students {
		entry := identity.RosterEntry{
			StudentID: s.ID,
			UserID:    s.UserID,
			Username:  s.Username,
			FullName:  s.FullName,
		}
		if s.RegistrationNumber != nil {
			entry.RegistrationNumber = *s.RegistrationNumber
		}
		roster = append(roster, entry)
	}
	r := identity.NewResolver(roster)
	r.OnAmbiguous = func(field string) {
		metrics.SyncAmbiguous.Inc()
		e.log.Warn("неоднозначное совпадение в ростере, берём первое", zap.String("field", field))
	}
	e.resolver.Store(r)
	return nil
}

// Run — полная выгрузка, затем слушатель с переподключением и бэкоффом.
func (e *Engine) Run(ctx context.Context) {
	if err := e.RefreshRoster(ctx); err != nil {
		e.log.Error("roster refresh", zap.Error(err))
	}
	if err := e.ingestAll(ctx); err != nil {
		metrics.SyncErrors.Inc()
		observability.CaptureErrTagged("sync", err)
		e.log.Error("initial sync", zap.Error(err))
	}

	backoff := baseBackoff
	for {
		if ctx.Err() != nil {
			return
		}
		started := time.Now()
		if err := e.listenOnce(ctx); err != nil {
			metrics.SyncErrors.Inc()
			e.log.Warn("listener оборвался, переподключаемся", zap.Error(err), zap.Duration("backoff", backoff))
		}
		session := time.Since(started)
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff, session)
	}
}

const (
	baseBackoff    = time.Second
	maxBackoff     = 30 * time.Second
	healthySession = time.Minute
)

// nextBackoff — пауза перед следующим переподключением. Долгая сессия
// слушателя сбрасывает бэкофф к базовому, серия коротких обрывов удваивает
// его до потолка.
func nextBackoff(cur, session time.Duration) time.Duration {
	if session >= healthySession {
		return baseBackoff
	}
	cur *= 2
	if cur > maxBackoff {
		cur = maxBackoff
	}
	return cur
}

func (e *Engine) ingestAll(ctx context.Context) error {
	docs, err := e.client.Children(ctx, literacyPath)
	if err != nil {
		return err
	}
	for key, doc := range docs {
		e.ingestDoc(ctx, key, doc)
	}
	return nil
}

func (e *Engine) listenOnce(ctx context.Context) error {
	events, err := e.client.Listen(ctx, literacyPath)
	if err != nil {
		return err
	}
	for ev := range events {
		e.handleEvent(ctx, ev)
	}
	return ctx.Err()
}

func (e *Engine) handleEvent(ctx context.Context, ev Event) {
	key := strings.Trim(ev.Path, "/")
	if key == "" {
		// корневой put — полный снимок поддерева
		var docs map[string]Document
		if err := json.Unmarshal(ev.Data, &docs); err != nil {
			return
		}
		for k, doc := range docs {
			e.ingestDoc(ctx, k, doc)
		}
		return
	}
	// одиночный документ; вложенные пути ("<key>/field") пропускаем,
	// изменённый документ придёт следующим полным put по ключу
	if strings.Contains(key, "/") {
		return
	}
	var doc Document
	if err := json.Unmarshal(ev.Data, &doc); err != nil || doc == nil {
		return
	}
	e.ingestDoc(ctx, key, doc)
}

// ingestDoc — адаптер полей → резолвер → upsert по remote_key.
// Неатрибутированные документы пропускаем: писать под чужим id хуже,
// чем не записать вовсе.
func (e *Engine) ingestDoc(ctx context.Context, key string, doc Document) {
	ref := RemoteRefOf(doc)
	studentID, ok := e.resolver.Load().Resolve(ref)
	if !ok {
		metrics.SyncUnresolved.Inc()
		e.log.Warn("документ не атрибутирован, пропускаем",
			zap.String("key", key),
			zap.String("username", ref.Username),
			zap.String("registration_number", ref.RegistrationNumber))
		return
	}

	fields := LiteracyOf(doc)
	if fields.BookTitle == "" {
		return // не дневник
	}

	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	err := db.UpsertLiteracyByRemoteKey(dbCtx, e.database, models.LiteracyLog{
		StudentID:       studentID,
		BookTitle:       fields.BookTitle,
		DurationMinutes: fields.DurationMinutes,
		Summary:         fields.Summary,
		RemoteKey:       &key,
	})
	if err != nil {
		metrics.SyncErrors.Inc()
		observability.CaptureErrTagged("sync", err)
		e.log.Error("upsert literacy", zap.String("key", key), zap.Error(err))
		return
	}
	metrics.SyncIngested.Inc()
}

// PushAttendance — исходящая отметка; перезапись по ключу student-date,
// чтобы другие устройства сошлись к последней записи.
func (e *Engine) PushAttendance(ctx context.Context, rec models.AttendanceRecord) {
	doc := Document{
		"student_id":    rec.StudentID,
		"date":          rec.Date.Format("2006-01-02"),
		"status":        string(rec.Status),
		"check_in_time": rec.CheckInTime,
		"method":        rec.Method,
		"note":          rec.Note,
	}
	key := fmt.Sprintf("%d-%s", rec.StudentID, rec.Date.Format("2006-01-02"))
	if err := e.client.Set(ctx, attendancePath, key, doc); err != nil {
		metrics.SyncErrors.Inc()
		observability.CaptureErrTagged("sync", err)
		e.log.Error("push attendance", zap.String("key", key), zap.Error(err))
		return
	}
	metrics.SyncPushed.Inc()
}

// PushLiteracyGrade — решение учителя обратно в удалённое дерево.
func (e *Engine) PushLiteracyGrade(ctx context.Context, l models.LiteracyLog) {
	if l.RemoteKey == nil {
		return // локальная запись, удалённого документа нет
	}
	doc := Document{
		"student_id":       l.StudentID,
		"book_title":       l.BookTitle,
		"duration_minutes": l.DurationMinutes,
		"summary":          l.Summary,
		"status":           string(l.Status),
		"teacher_note":     l.TeacherNote,
		"points_awarded":   l.PointsAwarded,
	}
	if err := e.client.Set(ctx, literacyPath, *l.RemoteKey, doc); err != nil {
		metrics.SyncErrors.Inc()
		observability.CaptureErrTagged("sync", err)
		e.log.Error("push grade", zap.String("key", *l.RemoteKey), zap.Error(err))
		return
	}
	metrics.SyncPushed.Inc()
}
