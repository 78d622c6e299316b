package kv

import "context"

// Store is a minimal key-value persistence layer.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Transactional is implemented by stores that can apply several writes
// atomically. fn receives a Store bound to the transaction; returning an
// error discards every write made through it.
type Transactional interface {
	Update(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// Update runs fn atomically when s supports it and directly against s
// otherwise.
func Update(ctx context.Context, s Store, fn func(ctx context.Context, tx Store) error) error {
	if ts, ok := s.(Transactional); ok {
		return ts.Update(ctx, fn)
	}
	return fn(ctx, s)
}
