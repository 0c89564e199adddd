package notify

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Spok95/school-app-backend/internal/ctxutil"
	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/models"
	"github.com/Spok95/school-app-backend/internal/observability"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier — внутриприложенческие уведомления (строки в notifications) плюс
// опциональный телеграм-канал для привязанных чатов родителей.
type Notifier struct {
	database *sql.DB
	bot      *tgbotapi.BotAPI // nil — только in-app
	log      *zap.Logger
}

func New(database *sql.DB, bot *tgbotapi.BotAPI, log *zap.Logger) *Notifier {
	return &Notifier{database: database, bot: bot, log: log}
}

// Notify — уведомление пользователю; телеграм-доставка best-effort.
func (n *Notifier) Notify(ctx context.Context, user *models.User, title, body string) {
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	if _, err := db.InsertNotification(dbCtx, n.database, models.Notification{
		UserID: user.ID, Title: title, Body: body,
	}); err != nil {
		observability.CaptureErr(err)
		n.log.Error("insert notification", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	if n.bot != nil && user.TelegramChatID != nil {
		n.sendTelegram(*user.TelegramChatID, title+"\n"+body)
	}
}

// NotifyParents — всем родителям ученика: строка в notifications каждому,
// телеграм-доставка тем, у кого привязан чат.
func (n *Notifier) NotifyParents(ctx context.Context, studentID int64, title, body string) {
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	parents, err := db.ParentsOf(dbCtx, n.database, studentID)
	if err != nil {
		observability.CaptureErr(err)
		n.log.Error("parents of student", zap.Int64("student_id", studentID), zap.Error(err))
		return
	}
	for i := range parents {
		n.Notify(ctx, &parents[i], title, body)
	}
}

func (n *Notifier) sendTelegram(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		if isSystemErr(err) {
			observability.CaptureErr(err)
		}
		n.log.Warn("telegram send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// Считаем системными: 5xx, 429, timeout. Телеграм-валидации (чат не найден и
// т.п.) в Sentry не шлём.
func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	if strings.Contains(s, "429") || strings.Contains(s, "502") || strings.Contains(s, "503") || strings.Contains(s, "timeout") {
		return true
	}
	return false
}

// LateMessage — текст уведомления об опоздании.
func LateMessage(studentName, checkInTime string) (title, body string) {
	return "Опоздание", fmt.Sprintf("%s отметился(лась) в %s, после начала занятий.", studentName, checkInTime)
}
