package cli

import (
	"context"
	"fmt"

	"github.com/agentfree/sessionkit/internal/client/config"
	"github.com/agentfree/sessionkit/internal/client/repositories/kv"
)

// Store openers, swappable in tests.
var (
	openSQLite   = kv.OpenSQLite
	openPostgres = kv.OpenPostgres
	openS3       = kv.OpenS3
)

// openStore builds the kv.Store selected by c.StoreBackend. The returned
// close func is never nil.
func openStore(ctx context.Context, c *config.Config) (kv.Store, func() error, error) {
	noop := func() error { return nil }

	switch c.StoreBackend {
	case config.BackendMemory:
		return kv.NewMemoryStore(), noop, nil

	case config.BackendSQLite:
		s, err := openSQLite(ctx, c.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, s.Close, nil

	case config.BackendPostgres:
		s, err := openPostgres(ctx, c.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return s, s.Close, nil

	case config.BackendS3:
		s, err := openS3(ctx, kv.S3Options{
			Bucket:       c.S3Bucket,
			Prefix:       c.S3Prefix,
			Region:       c.S3Region,
			BaseEndpoint: c.S3Endpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open s3 store: %w", err)
		}
		return s, noop, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", c.StoreBackend)
}
