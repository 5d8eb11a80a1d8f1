package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"profile-hub/internal/config"
	"profile-hub/internal/db"
	"profile-hub/internal/email"
	"profile-hub/internal/extract"
	"profile-hub/internal/metrics"
	"profile-hub/internal/repository"
	"profile-hub/internal/service"
	"profile-hub/internal/storage"
	"profile-hub/migrations"
)

// App agrupa las dependencias ya construidas que comparten la API y profilectl.
type App struct {
	Pool         *pgxpool.Pool
	Redis        *redis.Client
	Metrics      *metrics.Metrics
	Profiles     *service.ProfileService
	Verification *service.VerificationService
	Intake       *service.CVIntakeService
	CVPipeline   *service.CVPipeline
	Voice        *service.VoiceService
	Sessions     *service.SessionTokenValidator
	Gate         *service.SessionGate
}

// Build conecta postgres y redis y arma los servicios. Sin redis, el denylist y el
// limitador de subidas quedan en memoria.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, reg prometheus.Registerer) (*App, error) {
	gate, err := service.NewSessionGate(cfg.ProtectedPrefixes, cfg.SignInPath)
	if err != nil {
		return nil, fmt.Errorf("session gate: %w", err)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if err := db.Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if cfg.AutoMigrate {
		applied, err := db.Migrate(ctx, pool, migrations.FS)
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("migrations applied", zap.Strings("files", applied))
	}

	m := metrics.New(reg)

	var (
		denylist    service.SessionDenylist
		limiter     service.UploadLimiter
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			denylist = service.NewRedisSessionDenylist(redisClient)
			limiter = service.NewRedisUploadLimiter(logger, redisClient, cfg.UploadRateWindow, cfg.UploadRateMax)
		}
		cancel()
	}
	if limiter == nil {
		limiter = service.NewMemoryUploadLimiter(cfg.UploadRateWindow, cfg.UploadRateMax)
	}

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	docStorage, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		pool.Close()
		return nil, err
	}

	var extractor service.CVExtractor
	if c := extract.NewHTTPClient(cfg.ExtractorURL, cfg.ExtractorAPIKey, cfg.ExtractorTimeout, logger); c != nil {
		extractor = c
	} else {
		logger.Info("cv extraction disabled, EXTRACTOR_URL not set")
	}

	profileRepo := repository.NewPgProfileRepository(pool)
	identityRepo := repository.NewPgIdentityRepository(pool)
	documentRepo := repository.NewPgDocumentRepository(pool)
	voiceRepo := repository.NewPgVoiceSessionRepository(pool)

	profileSvc := service.NewProfileService(logger, profileRepo, m)
	merger := service.NewIngestionMerger(logger, profileSvc)
	intakeSvc := service.NewCVIntakeService(logger, docStorage, documentRepo, limiter, service.CVIntakeConfig{
		MaxBytes:     cfg.UploadMaxBytes,
		AllowedTypes: cfg.UploadAllowedTypes,
	}, m)

	return &App{
		Pool:         pool,
		Redis:        redisClient,
		Metrics:      m,
		Profiles:     profileSvc,
		Verification: service.NewVerificationService(logger, identityRepo, profileRepo, emailSender, cfg.TrustedIdentityProvider, m),
		Intake:       intakeSvc,
		CVPipeline:   service.NewCVPipeline(logger, intakeSvc, extractor, merger),
		Voice:        service.NewVoiceService(logger, voiceRepo, merger, m),
		Sessions:     service.NewSessionTokenValidator(cfg.SessionJWTSecret, cfg.SessionJWTIssuer, denylist),
		Gate:         gate,
	}, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	a.Pool.Close()
}
