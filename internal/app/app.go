package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cradoe/remitflow/internal/cache"
	"github.com/cradoe/remitflow/internal/config"
	"github.com/cradoe/remitflow/internal/directory"
	"github.com/cradoe/remitflow/internal/env"
	"github.com/cradoe/remitflow/internal/errHandler"
	"github.com/cradoe/remitflow/internal/helper"
	"github.com/cradoe/remitflow/internal/ledger"
	"github.com/cradoe/remitflow/internal/metrics"
	"github.com/cradoe/remitflow/internal/quote"
	"github.com/cradoe/remitflow/internal/repository"
	"github.com/cradoe/remitflow/internal/repository/memory"
	"github.com/cradoe/remitflow/internal/resolver"
	"github.com/cradoe/remitflow/internal/security"
	seeders "github.com/cradoe/remitflow/internal/seeder"
	"github.com/cradoe/remitflow/internal/smtp"
	"github.com/cradoe/remitflow/internal/stream"
	"github.com/cradoe/remitflow/internal/transfer"
	"github.com/joho/godotenv"
)

// Essential services and resources are exposed to the application
// this makes it possible for methods to have access to these items and when they need them
type Application struct {
	Config       config.Config
	DB           repository.Database
	Logger       *slog.Logger
	Mailer       *smtp.Mailer
	WG           sync.WaitGroup
	Metrics      *metrics.Collector
	Kafka        *stream.KafkaStream
	Credentials  *security.Credentials
	Engine       *quote.Engine
	Transfers    *transfer.Service
	Helper       *helper.HelperRepository
	errorHandler *errHandler.ErrorRepository
}

func NewApplication(logger *slog.Logger) (*Application, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file loaded", "error", err)
	}

	cfg := loadConfig()

	db, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	mailer, err := smtp.NewMailer(smtp.Config{
		Host:     cfg.Smtp.Host,
		Port:     cfg.Smtp.Port,
		Username: cfg.Smtp.Username,
		Password: cfg.Smtp.Password,
		From:     cfg.Smtp.From,
		TLS:      cfg.Smtp.TLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	app := &Application{
		Config:  cfg,
		DB:      db,
		Logger:  logger,
		Mailer:  mailer,
		Metrics: metrics.NewCollector(),
	}

	app.errorHandler = errHandler.New(cfg.Notifications.Email, cfg.BaseURL, mailer, logger)
	app.Helper = helper.New(cfg.BaseURL, &app.WG, app.errorHandler)

	// kafka is optional; without it committed transfers are not announced and no receipts go out
	if cfg.KafkaServers != "" {
		app.Kafka = stream.New(cfg.KafkaServers, logger)
	}

	app.Credentials = security.NewCredentials(db.Credential())
	app.Engine = quote.NewEngine(app.Metrics)

	gate := security.NewGate(security.Config{
		Secret: []byte(cfg.Otp.Secret),
		TTL:    cfg.Otp.TTL,
	}, app.challengeStore(), app.Credentials, app.otpSender(), logger, app.Metrics)

	deps := transfer.Deps{
		Accounts: db.Account(),
		Activity: db.Activity(),
		Resolver: resolver.New(db.Account(), db.Beneficiary(), app.directory(), cfg.Directory.LookupTimeout, logger),
		Engine:   app.Engine,
		Gate:     gate,
		Ledger:   ledger.New(db.Ledger(), logger),
		Observer: app.Metrics,
		Logger:   logger,
	}
	if app.Kafka != nil {
		deps.Publisher = app.Kafka
	}

	app.Transfers = transfer.NewService(deps)

	if cfg.SeedDemoData {
		if err := seeders.New(db).Run(); err != nil {
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
		logger.Info("demo data seeded", "user_id", seeders.DemoUserID)
	}

	return app, nil
}

// config values are loaded from the environment
// Default values are provided for these items and these should strictly be values for development mode only
// make sure no production-level value is exposed as default value here
func loadConfig() config.Config {
	var cfg config.Config

	cfg.BaseURL = env.GetString("BASE_URL", "http://localhost:4444")
	cfg.HttpPort = env.GetInt("HTTP_PORT", 4444)
	cfg.Store = env.GetString("STORE", "memory")

	cfg.Db.Dsn = env.GetString("DB_DSN", "user:pass@localhost:5432/db")
	cfg.Db.Automigrate = env.GetBool("DB_AUTOMIGRATE", true)

	cfg.RedisServer = env.GetString("REDIS_SERVER", "")

	cfg.Jwt.SecretKey = env.GetString("JWT_SECRET_KEY", "ajf5nx3qmp6zquevllxocxqvyz42ypuo")

	// server errors won't be sent via email if the NOTIFICATIONS_EMAIL wasn't set
	cfg.Notifications.Email = env.GetString("NOTIFICATIONS_EMAIL", "")

	cfg.Smtp.Host = env.GetString("SMTP_HOST", "example.smtp.host")
	cfg.Smtp.Port = env.GetInt("SMTP_PORT", 25)
	cfg.Smtp.Username = env.GetString("SMTP_USERNAME", "example_username")
	cfg.Smtp.Password = env.GetString("SMTP_PASSWORD", "pa55word")
	cfg.Smtp.From = env.GetString("SMTP_FROM", "Example Name <no_reply@example.org>")
	cfg.Smtp.TLS = env.GetBool("SMTP_TLS", false)

	cfg.KafkaServers = env.GetString("KAFKA_SERVERS", "")

	cfg.Directory.URL = env.GetString("DIRECTORY_URL", "")
	cfg.Directory.APIKey = env.GetString("DIRECTORY_API_KEY", "")
	cfg.Directory.LookupTimeout = env.GetDuration("DIRECTORY_LOOKUP_TIMEOUT", 5*time.Second)

	cfg.Otp.Secret = env.GetString("OTP_SECRET", "dev-otp-secret-change-me")
	cfg.Otp.TTL = env.GetDuration("OTP_TTL", security.DefaultTTL)
	cfg.Otp.Channel = env.GetString("OTP_CHANNEL", "log")

	cfg.SessionIdleTimeout = env.GetDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute)
	cfg.SeedDemoData = env.GetBool("SEED_DEMO_DATA", true)

	return cfg
}

func openStore(cfg config.Config) (repository.Database, error) {
	switch cfg.Store {
	case "memory":
		return memory.New(), nil
	case "postgres":
		return repository.New(cfg.Db.Dsn, cfg.Db.Automigrate)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func (app *Application) challengeStore() security.ChallengeStore {
	if app.Config.RedisServer == "" {
		return security.NewMemoryStore()
	}

	c := cache.New(app.Config.RedisServer, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		app.Logger.Warn("redis not reachable at startup, challenges will be retried against it", "addr", app.Config.RedisServer, "error", err.Error())
	}

	return security.NewRedisStore(c)
}

func (app *Application) otpSender() security.Sender {
	if app.Config.Otp.Channel == "email" {
		return security.NewEmailSender(app.Mailer, app.Config.Otp.TTL)
	}
	return security.NewLogSender(app.Logger)
}

func (app *Application) directory() resolver.Directory {
	if app.Config.Directory.URL == "" {
		return directory.NewStatic()
	}

	return directory.NewClient(directory.ClientConfig{
		BaseURL: app.Config.Directory.URL,
		APIKey:  app.Config.Directory.APIKey,
	}, app.Logger, app.Metrics)
}
