package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Signal backends.
const (
	SignalFile   = "file"
	SignalRedis  = "redis"
	SignalMemory = "memory"
)

// Reader devices.
const ReaderSpool = "spool"

// Display sinks.
const (
	SinkLog     = "log"
	SinkConsole = "console"
	SinkDevice  = "device"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	// Database
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"accessgate"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	DBPath     string `env:"DB_PATH" envDefault:"accessgate.db"`

	// Session
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// Presence/actuator signaling
	SignalBackend   string        `env:"SIGNAL_BACKEND" envDefault:"file"`
	PresencePath    string        `env:"PRESENCE_PATH" envDefault:"/tmp/sensor_status.txt"`
	ActuatorPath    string        `env:"ACTUATOR_PATH" envDefault:"/tmp/servo_status.txt"`
	RedisURL        string        `env:"REDIS_URL"`
	SignalKeyPrefix string        `env:"SIGNAL_KEY_PREFIX" envDefault:"accessgate"`
	PeerInterval    time.Duration `env:"PEER_POLL_INTERVAL" envDefault:"1s"`

	// Token reader
	ReaderDevice       string        `env:"READER_DEVICE" envDefault:"spool"`
	ReaderSpoolPath    string        `env:"READER_SPOOL_PATH" envDefault:"/tmp/rfid_spool.txt"`
	ReaderPollInterval time.Duration `env:"READER_POLL_INTERVAL" envDefault:"100ms"`
	ScanTimeout        time.Duration `env:"SCAN_TIMEOUT" envDefault:"30s"`

	// Display
	DisplayDwell      time.Duration `env:"DISPLAY_DWELL" envDefault:"5s"`
	DisplaySinks      []string      `env:"DISPLAY_SINKS" envDefault:"log" envSeparator:","`
	DisplayDevicePath string        `env:"DISPLAY_DEVICE_PATH" envDefault:"/dev/lcd"`

	// Server
	Port        string `env:"PORT" envDefault:"8080"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
	SentryDSN   string `env:"SENTRY_DSN"`
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SessionSecret) == "" {
		return errors.New("SESSION_SECRET is required")
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBPassword == "" {
			return errors.New("DB_PASSWORD is required for the postgres driver")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	switch c.SignalBackend {
	case SignalFile, SignalMemory:
	case SignalRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis signal backend")
		}
	default:
		return fmt.Errorf("unknown SIGNAL_BACKEND %q", c.SignalBackend)
	}
	if c.ReaderDevice != ReaderSpool {
		return fmt.Errorf("unknown READER_DEVICE %q", c.ReaderDevice)
	}
	for _, sink := range c.DisplaySinks {
		switch sink {
		case SinkLog, SinkConsole, SinkDevice:
		default:
			return fmt.Errorf("unknown display sink %q", sink)
		}
	}
	if c.ReaderPollInterval <= 0 {
		return errors.New("READER_POLL_INTERVAL must be positive")
	}
	if c.ScanTimeout < 0 {
		return errors.New("SCAN_TIMEOUT must not be negative")
	}
	return nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// HTTPTimeout bounds a single request. A verification holds its request
// for at most one scan plus the success dwell.
func (c *Config) HTTPTimeout() time.Duration {
	return c.ScanTimeout + c.DisplayDwell + 10*time.Second
}
