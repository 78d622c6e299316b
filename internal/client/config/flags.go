package config

import (
	"flag"
	"os"
	"time"

	"github.com/agentfree/sessionkit/internal/flagx"
)

var cliFlags = flagx.NewFilter(
	[]string{"-s", "-f", "-d", "-b", "-p", "-e", "-g", "-t", "-k", "-u", "-r"},
	"-l", "-v",
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   store backend: memory, sqlite, postgres, s3
//	-f string   sqlite database file
//	-d string   postgres DSN
//	-b string   s3 bucket
//	-p string   s3 key prefix
//	-e string   s3 endpoint (MinIO, LocalStack)
//	-g string   s3 region
//	-l          simulate network latency
//	-t string   token mode: opaque, jwt
//	-k string   jwt signing secret
//	-u string   users YAML file
//	-r int      token refresh interval in seconds, 0 disables
//	-v          debug logging
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.Filter, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := cliFlags.Apply(os.Args[1:])

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "store backend: memory, sqlite, postgres, s3")
	fs.StringVar(&cfg.SQLitePath, "f", cfg.SQLitePath, "sqlite database file")
	fs.StringVar(&cfg.PostgresDSN, "d", cfg.PostgresDSN, "postgres DSN")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "s3 bucket")
	fs.StringVar(&cfg.S3Prefix, "p", cfg.S3Prefix, "s3 key prefix")
	fs.StringVar(&cfg.S3Endpoint, "e", cfg.S3Endpoint, "s3 endpoint")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "s3 region")
	fs.BoolVar(&cfg.SimulateLatency, "l", cfg.SimulateLatency, "simulate network latency")
	fs.StringVar(&cfg.TokenMode, "t", cfg.TokenMode, "token mode: opaque, jwt")
	fs.StringVar(&cfg.JWTSecret, "k", cfg.JWTSecret, "jwt signing secret")
	fs.StringVar(&cfg.UsersFile, "u", cfg.UsersFile, "users YAML file")
	refreshInterval := fs.Int("r", int(cfg.RefreshInterval.Seconds()), "token refresh interval (in seconds), 0 disables")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "debug logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "r" {
			cfg.RefreshInterval = time.Duration(*refreshInterval) * time.Second
		}
	})
}
