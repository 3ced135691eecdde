// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/Courtside/internal/config"
	"github.com/codr1/Courtside/internal/db"
	"github.com/codr1/Courtside/internal/email"
	"github.com/codr1/Courtside/internal/pricing"
	"github.com/codr1/Courtside/internal/ratelimit"
	"github.com/codr1/Courtside/internal/reservations"
	"github.com/codr1/Courtside/internal/scheduler"
)

const defaultConfigPath = "config/app.yaml"

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// app holds what the server builds at startup and must release on exit.
type app struct {
	config   *config.Config
	database *db.DB
	engine   *reservations.Engine
	limiter  *ratelimit.Limiter
	mailer   email.Sender
}

func (a *app) close() {
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if cfg.App.Timezone != "" {
		loc, err := time.LoadLocation(cfg.App.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone: %w", err)
		}
		time.Local = loc
	}

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &app{config: cfg, database: database}

	var notifier reservations.Notifier
	if cfg.Email.Sender != "" {
		client, err := email.NewSESClient(ctx, email.SESConfig{
			Region:          cfg.Email.Region,
			Sender:          cfg.Email.Sender,
			ReplyTo:         cfg.Email.ReplyTo,
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("create email client: %w", err)
		}
		a.mailer = client
	} else if cfg.IsDevelopment() {
		a.mailer = email.LogSender{}
	}
	if a.mailer != nil {
		notifier = email.NewNotifier(database.Queries, a.mailer, cfg.App.Name)
	} else {
		log.Warn().Msg("Email sender not configured; notifications disabled")
	}

	a.engine, err = reservations.NewEngine(database, reservations.Options{
		Resolver: pricing.Resolver{
			FallbackRatePerHour: cfg.Pricing.FallbackRatePerHour,
			RoundingUnit:        cfg.Pricing.RoundingUnit,
		},
		PhoneRegion: cfg.App.PhoneRegion,
		SlotMinutes: cfg.Schedule.SlotMinutes,
		StartHour:   cfg.Schedule.StartHour,
		EndHour:     cfg.Schedule.EndHour,
		Notifier:    notifier,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	a.limiter = ratelimit.New(&ratelimit.Config{
		Cooldown:     cfg.GuestLimits.Cooldown,
		MaxPerHour:   cfg.GuestLimits.MaxPerHour,
		MaxIPPerHour: cfg.GuestLimits.MaxIPPerHour,
	})
	return a, nil
}

func startJobs(a *app) error {
	if err := scheduler.Init(); err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	if expr := a.config.Jobs.CatalogAuditCron; expr != "" {
		if err := scheduler.RegisterCatalogAuditJob(a.engine, expr); err != nil {
			return fmt.Errorf("register catalog audit job: %w", err)
		}
	}
	if expr := a.config.Jobs.ReminderCron; expr != "" && a.mailer != nil {
		if err := scheduler.RegisterReminderJob(a.database, a.mailer, a.config.App.Name, expr); err != nil {
			return fmt.Errorf("register reminder job: %w", err)
		}
	}
	return scheduler.Start()
}

func main() {
	cfg, err := config.Load(getEnv("CONFIG_PATH", defaultConfigPath))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)
	shutdownTimeout := time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer a.close()

	server := newServer(a)

	if err := startJobs(a); err != nil {
		log.Error().Err(err).Msg("Failed to start scheduled jobs")
		a.close()
		os.Exit(1)
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("environment", cfg.App.Environment).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
