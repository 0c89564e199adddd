package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/Spok95/school-app-backend/internal/api"
	"github.com/Spok95/school-app-backend/internal/config"
	"github.com/Spok95/school-app-backend/internal/db"
	"github.com/Spok95/school-app-backend/internal/jobs"
	"github.com/Spok95/school-app-backend/internal/logging"
	"github.com/Spok95/school-app-backend/internal/notify"
	"github.com/Spok95/school-app-backend/internal/observability"
	syncengine "github.com/Spok95/school-app-backend/internal/sync"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	seed := flag.Bool("seed", false, "заполнить пустую базу демо-данными и выйти")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("логгер: %v", err)
	}
	defer lg.Closer()

	closeSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, version)
	if err != nil {
		lg.Base.Warn("sentry не инициализирован", zap.Error(err))
	}
	defer closeSentry()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		lg.Base.Fatal("подключение к БД", zap.Error(err))
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		lg.Base.Fatal("миграции", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *seed {
		if err := db.SeedDemo(ctx, database); err != nil {
			lg.Base.Fatal("демо-данные", zap.Error(err))
		}
		lg.Base.Info("демо-данные загружены")
		return
	}

	var bot *tgbotapi.BotAPI
	if cfg.BotToken != "" {
		bot, err = tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			lg.Base.Warn("телеграм выключен", zap.Error(err))
			bot = nil
		} else {
			lg.Base.Info("телеграм-уведомления включены", zap.String("bot", bot.Self.UserName))
		}
	}
	notifier := notify.New(database, bot, lg.Named("notify"))

	var engine *syncengine.Engine
	if cfg.RemoteURL != "" {
		client := syncengine.NewClient(cfg.RemoteURL, cfg.RemoteToken)
		engine = syncengine.NewEngine(client, database, lg.Named("sync"))
		go engine.Run(ctx)
	} else {
		lg.Base.Info("REMOTE_SYNC_URL не задан, синхронизация выключена")
	}

	jobsLog := lg.Named("jobs")
	runner := jobs.New(ctx, jobsLog)
	jobs.Register(runner, database, engine, cfg.Location, jobsLog)

	srv := api.NewServer(database, cfg, lg.Named("api"), notifier, engine)
	lg.Base.Info("сервер запускается", zap.String("addr", cfg.HTTPAddr), zap.String("version", version))
	if err := srv.Start(ctx); err != nil {
		lg.Base.Fatal("сервер", zap.Error(err))
	}
	lg.Base.Info("сервер остановлен")
}
