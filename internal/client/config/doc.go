// Package config loads runtime configuration for the sessionkit CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "30s" or
// integer nanoseconds. Keys left out keep their defaults:
//
//	{
//	  "store_backend": "s3",
//	  "s3_bucket": "sessions",
//	  "s3_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "minioadmin",
//	  "s3_secret_key": "minioadmin",
//	  "token_mode": "jwt",
//	  "jwt_secret": "dev",
//	  "refresh_interval": "30s"
//	}
//
// S3 credentials and the token TTL are only read from JSON.
package config
