package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 sqlite OK", args: []string{"cmd", "-s", "sqlite", "-f", "/tmp/s.db", "-r", "30", "-l"}, expectPanic: false,
			expected: &Config{StoreBackend: "sqlite", SQLitePath: "/tmp/s.db", RefreshInterval: 30 * time.Second, SimulateLatency: true}},
		{name: "Test2 s3 OK", args: []string{"cmd", "-s", "s3", "-b", "bucket", "-p", "pre", "-e", "http://127.0.0.1:9000", "-g", "eu-west-1"}, expectPanic: false,
			expected: &Config{StoreBackend: "s3", S3Bucket: "bucket", S3Prefix: "pre", S3Endpoint: "http://127.0.0.1:9000", S3Region: "eu-west-1"}},
		{name: "Test3 jwt and users OK", args: []string{"cmd", "-t", "jwt", "-k", "secret", "-u", "users.yaml", "-v"}, expectPanic: false,
			expected: &Config{TokenMode: "jwt", JWTSecret: "secret", UsersFile: "users.yaml", Verbose: true}},
		{name: "Test4 foreign flags ignored", args: []string{"cmd", "-c", "cfg.json", "-x", "1", "-d", "postgres://u@h/db"}, expectPanic: false,
			expected: &Config{PostgresDSN: "postgres://u@h/db"}},
		{name: "Test5 incorrect refresh interval", args: []string{"cmd", "-r", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseFlags_KeepsValuesNotGiven(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd", "-s", "memory"}

	var cfg Config
	cfg.LoadDefaults()
	cfg.RefreshInterval = 45 * time.Second
	parseFlags(&cfg)

	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, 45*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}
