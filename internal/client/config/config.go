package config

import (
	"fmt"
	"time"

	"github.com/agentfree/sessionkit/internal/filex"
)

// Storage backends accepted by -s.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Token modes accepted by -t.
const (
	TokenOpaque = "opaque"
	TokenJWT    = "jwt"
)

// Config holds runtime settings for the sessionkit CLI.
//
// Fields:
//   - StoreBackend: where the session is mirrored (memory, sqlite, postgres, s3).
//   - RefreshInterval: how often the watcher refreshes the token; 0 disables it.
//   - SimulateLatency: apply the mock network delays to every operation.
type Config struct {
	StoreBackend string
	SQLitePath   string
	PostgresDSN  string

	S3Bucket    string
	S3Prefix    string
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string

	SimulateLatency bool
	TokenMode       string
	JWTSecret       string
	TokenTTL        time.Duration
	UsersFile       string
	RefreshInterval time.Duration
	Verbose         bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StoreBackend = BackendSQLite
	c.SQLitePath = filex.DefaultDataPath("session.db")
	c.S3Prefix = "sessionkit"
	c.S3Region = "us-east-1"
	c.TokenMode = TokenOpaque
	c.TokenTTL = 24 * time.Hour
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite backend requires a database file")
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres backend requires a DSN")
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("s3 backend requires a bucket")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}

	switch c.TokenMode {
	case TokenOpaque:
	case TokenJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("jwt token mode requires a secret")
		}
	default:
		return fmt.Errorf("unknown token mode %q", c.TokenMode)
	}

	if c.RefreshInterval < 0 {
		return fmt.Errorf("negative refresh interval %s", c.RefreshInterval)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. An invalid result panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
