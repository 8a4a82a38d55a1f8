package credentials

import "context"

const (
	KeyAccessToken   = "access_token"
	KeyRefreshToken  = "refresh_token"
	KeySelectedGuild = "selected_guild"
)

// Repository is a byte-oriented key/value backend.
//
// Get returns (nil, nil) for a missing key. Update and Delete must apply
// all keys atomically.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Update writes set and removes del in a single atomic operation.
	Update(ctx context.Context, set map[string][]byte, del ...string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
