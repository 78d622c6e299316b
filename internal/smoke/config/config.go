// Package config loads runtime configuration for the smoke runner.
//
// Sources & precedence match the CLI: defaults, then an optional JSON file
// named by -c/-config, then flags.
//
//	-a string   backend base URL
//	-t int      per-request timeout (seconds)
//	-f string   frontend URL shown in the closing notes
//	-g string   gRPC health endpoint host:port (probe skipped when empty)
//	-j          JSON logs
//
// JSON keys: base_url, timeout ("5s" or nanoseconds), frontend_url,
// grpc_health_addr, json_logs.
package config

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/agentfree/sessionkit/internal/flagx"
	"github.com/agentfree/sessionkit/internal/timex"
)

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	FrontendURL    string
	GRPCHealthAddr string
	JSONLogs       bool
}

// LoadDefaults points the runner at a local backend.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:3001"
	c.Timeout = 5 * time.Second
	c.FrontendURL = "http://localhost:3000"
}

func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	BaseURL        string         `json:"base_url"`
	Timeout        timex.Duration `json:"timeout"`
	FrontendURL    string         `json:"frontend_url"`
	GRPCHealthAddr string         `json:"grpc_health_addr"`
	JSONLogs       bool           `json:"json_logs"`
}

func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	jc := JsonConfig{
		BaseURL:        cfg.BaseURL,
		Timeout:        timex.Duration{Duration: cfg.Timeout},
		FrontendURL:    cfg.FrontendURL,
		GRPCHealthAddr: cfg.GRPCHealthAddr,
		JSONLogs:       cfg.JSONLogs,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.BaseURL = jc.BaseURL
	cfg.Timeout = jc.Timeout.Duration
	cfg.FrontendURL = jc.FrontendURL
	cfg.GRPCHealthAddr = jc.GRPCHealthAddr
	cfg.JSONLogs = jc.JSONLogs
}

var smokeFlags = flagx.NewFilter([]string{"-a", "-t", "-f", "-g"}, "-j")

func parseFlags(cfg *Config) {
	args := smokeFlags.Apply(os.Args[1:])

	fs := flag.NewFlagSet("smoke", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "backend base URL")
	timeout := fs.Int("t", int(cfg.Timeout.Seconds()), "per-request timeout (in seconds)")
	fs.StringVar(&cfg.FrontendURL, "f", cfg.FrontendURL, "frontend URL")
	fs.StringVar(&cfg.GRPCHealthAddr, "g", cfg.GRPCHealthAddr, "gRPC health endpoint host:port")
	fs.BoolVar(&cfg.JSONLogs, "j", cfg.JSONLogs, "JSON logs")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only an explicit -t replaces the timeout, sub-second JSON values survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.Timeout = time.Duration(*timeout) * time.Second
		}
	})
}
