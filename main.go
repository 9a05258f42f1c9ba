package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/meinhoongagan/permit-desk/auth"
	"github.com/meinhoongagan/permit-desk/blob"
	"github.com/meinhoongagan/permit-desk/config"
	"github.com/meinhoongagan/permit-desk/controllers"
	"github.com/meinhoongagan/permit-desk/cron"
	"github.com/meinhoongagan/permit-desk/db"
	"github.com/meinhoongagan/permit-desk/logger"
	"github.com/meinhoongagan/permit-desk/middleware"
	"github.com/meinhoongagan/permit-desk/redis"
	"github.com/meinhoongagan/permit-desk/routes"
	"github.com/meinhoongagan/permit-desk/store"
	"github.com/meinhoongagan/permit-desk/utils"
)

const digestLockKey = "permit:lock:pending-digest"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{Service: "permit-desk"})
		bootLog.Fatal().Err(err).Msg("loading config")
	}
	log := logger.New(logger.Options{
		Service: "permit-desk",
		Level:   cfg.App.LogLevel,
		Format:  cfg.App.LoggerFormat(),
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.DB, log)
	if err != nil {
		return err
	}
	if cfg.DB.AutoMigrate {
		if err := db.Migrate(conn); err != nil {
			return err
		}
		log.Info().Msg("database migrated")
	}

	st := store.New(conn)
	created, err := st.EnsureAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("username", cfg.Bootstrap.AdminUsername).Msg("bootstrap admin created")
	} else if n, err := st.CountAdmins(ctx); err == nil && n == 0 {
		log.Warn().Msg("no admin account exists; set BOOTSTRAP_ADMIN_USERNAME and BOOTSTRAP_ADMIN_PASSWORD")
	}

	blobs, err := blob.Open(cfg.Blob, cfg.Cloudinary)
	if err != nil {
		return err
	}

	var (
		sessions   auth.SessionStore = auth.NewMemorySessions()
		digestLock cron.Locker
	)
	if cfg.Session.Backend == config.SessionRedis {
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		sessions = redis.NewSessions(client)
		digestLock = redis.NewLock(client, digestLockKey, 10*time.Minute)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis sessions enabled")
	}

	tokens := auth.NewTokens(cfg.JWT.Secret, cfg.JWT.TTL)
	handler := controllers.New(controllers.Deps{
		Store:       st,
		Blobs:       blobs,
		Gate:        auth.NewGate(st),
		Tokens:      tokens,
		Sessions:    sessions,
		Log:         log,
		MaxPdfBytes: int64(cfg.Blob.MaxBytes),
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst)
	go limiter.Run(ctx)

	app := routes.NewApp(handler, routes.Guards{
		Protected:  middleware.Protected(tokens, sessions, st),
		LoginLimit: middleware.RateLimit(limiter),
	}, routes.AppOptions{
		Log:         log,
		CORSOrigins: cfg.App.CORSOrigins,
		BodyLimit:   cfg.Blob.MaxBytes + 1<<20,
	})

	if cfg.Digest.Enabled {
		var mailer utils.Mailer
		if cfg.SMTP.Enabled() {
			mailer = utils.NewSMTPMailer(cfg.SMTP)
		} else {
			log.Warn().Msg("SMTP not configured; pending digests will only be logged")
		}
		digest := cron.NewPendingDigest(st, mailer, digestLock, log)
		scheduler, err := cron.StartCronJobs(cfg.Digest.Schedule, digest, log)
		if err != nil {
			return err
		}
		defer func() { <-scheduler.Stop().Done() }()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("server started")
		errCh <- app.Listen(":" + cfg.App.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
