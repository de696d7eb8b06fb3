package out

import "context"

// RateLimiter throttles requests per key ("global" or "ip:<address>").
type RateLimiter interface {
	// Allow reports whether one more request for key is allowed now.
	Allow(ctx context.Context, key string) bool

	// AllowN reports whether n more requests for key are allowed now.
	AllowN(ctx context.Context, key string, n int) bool
}
