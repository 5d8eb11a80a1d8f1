package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio. Se lee una vez al arrancar.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SessionJWTSecret  string   `env:"SESSION_JWT_SECRET,required,notEmpty"`
	SessionJWTIssuer  string   `env:"SESSION_JWT_ISSUER"`
	SessionCookieName string   `env:"SESSION_COOKIE_NAME" envDefault:"session"`
	SignInPath        string   `env:"SIGN_IN_PATH" envDefault:"/sign-in"`
	ProtectedPrefixes []string `env:"PROTECTED_PREFIXES" envSeparator:"," envDefault:"/dashboard,/org-dashboard,/profile"`

	TrustedIdentityProvider string `env:"TRUSTED_IDENTITY_PROVIDER" envDefault:"linkedin_oidc"`

	UploadDir          string        `env:"UPLOAD_DIR" envDefault:"./uploads"`
	UploadMaxBytes     int64         `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`
	UploadAllowedTypes []string      `env:"UPLOAD_ALLOWED_TYPES" envSeparator:"," envDefault:"application/pdf,application/msword,application/vnd.openxmlformats-officedocument.wordprocessingml.document,text/plain"`
	UploadRateWindow   time.Duration `env:"UPLOAD_RATE_WINDOW" envDefault:"10m"`
	UploadRateMax      int           `env:"UPLOAD_RATE_MAX" envDefault:"5"`

	ExtractorURL     string        `env:"EXTRACTOR_URL"`
	ExtractorAPIKey  string        `env:"EXTRACTOR_API_KEY"`
	ExtractorTimeout time.Duration `env:"EXTRACTOR_TIMEOUT" envDefault:"60s"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
