package config

import (
	"encoding/json"
	"os"

	"github.com/agentfree/sessionkit/internal/flagx"
	"github.com/agentfree/sessionkit/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds.
type JsonConfig struct {
	StoreBackend    string         `json:"store_backend"`
	SQLitePath      string         `json:"sqlite_path"`
	PostgresDSN     string         `json:"postgres_dsn"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Prefix        string         `json:"s3_prefix"`
	S3Endpoint      string         `json:"s3_endpoint"`
	S3Region        string         `json:"s3_region"`
	S3AccessKey     string         `json:"s3_access_key"`
	S3SecretKey     string         `json:"s3_secret_key"`
	SimulateLatency bool           `json:"simulate_latency"`
	TokenMode       string         `json:"token_mode"`
	JWTSecret       string         `json:"jwt_secret"`
	TokenTTL        timex.Duration `json:"token_ttl"`
	UsersFile       string         `json:"users_file"`
	RefreshInterval timex.Duration `json:"refresh_interval"`
	Verbose         bool           `json:"verbose"`
}

func toJson(c *Config) JsonConfig {
	return JsonConfig{
		StoreBackend:    c.StoreBackend,
		SQLitePath:      c.SQLitePath,
		PostgresDSN:     c.PostgresDSN,
		S3Bucket:        c.S3Bucket,
		S3Prefix:        c.S3Prefix,
		S3Endpoint:      c.S3Endpoint,
		S3Region:        c.S3Region,
		S3AccessKey:     c.S3AccessKey,
		S3SecretKey:     c.S3SecretKey,
		SimulateLatency: c.SimulateLatency,
		TokenMode:       c.TokenMode,
		JWTSecret:       c.JWTSecret,
		TokenTTL:        timex.Duration{Duration: c.TokenTTL},
		UsersFile:       c.UsersFile,
		RefreshInterval: timex.Duration{Duration: c.RefreshInterval},
		Verbose:         c.Verbose,
	}
}

// parseJson overlays Config with values loaded from a JSON file named by -c
// or -config. Keys missing from the file keep their current values. Read and
// unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	jc := toJson(cfg)
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.StoreBackend = jc.StoreBackend
	cfg.SQLitePath = jc.SQLitePath
	cfg.PostgresDSN = jc.PostgresDSN
	cfg.S3Bucket = jc.S3Bucket
	cfg.S3Prefix = jc.S3Prefix
	cfg.S3Endpoint = jc.S3Endpoint
	cfg.S3Region = jc.S3Region
	cfg.S3AccessKey = jc.S3AccessKey
	cfg.S3SecretKey = jc.S3SecretKey
	cfg.SimulateLatency = jc.SimulateLatency
	cfg.TokenMode = jc.TokenMode
	cfg.JWTSecret = jc.JWTSecret
	cfg.TokenTTL = jc.TokenTTL.Duration
	cfg.UsersFile = jc.UsersFile
	cfg.RefreshInterval = jc.RefreshInterval.Duration
	cfg.Verbose = jc.Verbose
}
