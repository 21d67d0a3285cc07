package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Session    SessionConfig
	Aggregator AggregatorConfig
	Payments   PaymentsConfig
	Encryption EncryptionConfig
	Reconciler ReconcilerConfig
	TLS        TLSConfig
	Firebase   FirebaseConfig
	Telemetry  TelemetryConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
	CORSOrigin   string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// SessionConfig controls the opaque session capability carried in the
// session cookie.
type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
}

// AggregatorConfig holds credentials for the financial data aggregator.
type AggregatorConfig struct {
	ClientID string
	Secret   string
	BaseURL  string
}

// PaymentsConfig holds credentials for the payments processor.
type PaymentsConfig struct {
	Key     string
	Secret  string
	BaseURL string
}

type EncryptionConfig struct {
	Key string
}

// ReconcilerConfig controls the scheduled sweep of identity records orphaned
// by a sign-up that failed after the identity was created.
type ReconcilerConfig struct {
	Enabled       bool
	ScheduleTimes []string
	WorkerCount   int
	JobDelay      time.Duration
	QueueSize     int
	RunOnStartup  bool
	GracePeriod   time.Duration
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type FirebaseConfig struct {
	CredentialsFile string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

func Load() (*Config, error) {

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	sessionMaxAge, err := time.ParseDuration(getEnv("SESSION_MAX_AGE", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_MAX_AGE: %w", err)
	}

	// Parse reconciler configuration
	reconcilerEnabled := getBoolEnv("RECONCILER_ENABLED", true)
	reconcilerTimes := strings.Split(getEnv("RECONCILER_TIMES", "03:00,15:00"), ",")
	reconcilerWorkers, err := strconv.Atoi(getEnv("RECONCILER_WORKERS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILER_WORKERS: %w", err)
	}
	reconcilerJobDelay, err := time.ParseDuration(getEnv("RECONCILER_JOB_DELAY", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILER_JOB_DELAY: %w", err)
	}
	reconcilerQueueSize, err := strconv.Atoi(getEnv("RECONCILER_QUEUE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILER_QUEUE_SIZE: %w", err)
	}
	reconcilerGrace, err := time.ParseDuration(getEnv("RECONCILER_GRACE_PERIOD", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILER_GRACE_PERIOD: %w", err)
	}

	// Parse allowed hosts (comma-separated list)
	allowedHostsStr := getEnv("ALLOWED_HOSTS", "")
	var allowedHosts []string
	if allowedHostsStr != "" {
		for _, host := range strings.Split(allowedHostsStr, ",") {
			host = strings.TrimSpace(host)
			if host != "" {
				allowedHosts = append(allowedHosts, host)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
			CORSOrigin:   getEnv("CORS_ORIGIN", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "horizon"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "horizon"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "horizon-session"),
			MaxAge:     sessionMaxAge,
		},
		Aggregator: AggregatorConfig{
			ClientID: getEnv("AGGREGATOR_CLIENT_ID", ""),
			Secret:   getEnv("AGGREGATOR_SECRET", ""),
			BaseURL:  getEnv("AGGREGATOR_BASE_URL", "https://sandbox.plaid.com"),
		},
		Payments: PaymentsConfig{
			Key:     getEnv("PAYMENTS_KEY", ""),
			Secret:  getEnv("PAYMENTS_SECRET", ""),
			BaseURL: getEnv("PAYMENTS_BASE_URL", "https://api-sandbox.dwolla.com"),
		},
		Encryption: EncryptionConfig{
			Key: getEnv("ENCRYPTION_KEY", ""),
		},
		Reconciler: ReconcilerConfig{
			Enabled:       reconcilerEnabled,
			ScheduleTimes: reconcilerTimes,
			WorkerCount:   reconcilerWorkers,
			JobDelay:      reconcilerJobDelay,
			QueueSize:     reconcilerQueueSize,
			RunOnStartup:  getBoolEnv("RECONCILER_RUN_ON_STARTUP", false),
			GracePeriod:   reconcilerGrace,
		},
		TLS: TLSConfig{
			Enabled:      getBoolEnv("TLS_ENABLED", false),
			CertPath:     getEnv("TLS_CERT_PATH", ""),
			KeyPath:      getEnv("TLS_KEY_PATH", ""),
			RedirectHTTP: getBoolEnv("TLS_REDIRECT_HTTP", false),
		},
		Firebase: FirebaseConfig{
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "horizon-api"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9090"),
		},
	}

	// Validate required fields
	if cfg.Encryption.Key == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	if len(cfg.Encryption.Key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes for AES-256")
	}
	if cfg.Aggregator.ClientID == "" || cfg.Aggregator.Secret == "" {
		return nil, fmt.Errorf("AGGREGATOR_CLIENT_ID and AGGREGATOR_SECRET are required")
	}
	if cfg.Payments.Key == "" || cfg.Payments.Secret == "" {
		return nil, fmt.Errorf("PAYMENTS_KEY and PAYMENTS_SECRET are required")
	}

	// Validate TLS configuration
	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
