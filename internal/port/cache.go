package port

import (
	"context"

	"github.com/rl1809/ecommerce-core/internal/core/domain"
)

// CacheRepository mirrors product stock counters in a fast store so the
// presentation layer can reject sold-out requests before touching the
// database, and deduplicate retried submissions.
type CacheRepository interface {
	// SetStock overwrites the mirrored counter for a product.
	SetStock(ctx context.Context, productID domain.ProductID, quantity int) error

	// ReserveStock atomically decrements the mirror, returning false when
	// the remaining count is insufficient.
	ReserveStock(ctx context.Context, productID domain.ProductID, quantity int) (bool, error)

	// ReleaseStock restores a reservation after a failed submission.
	ReleaseStock(ctx context.Context, productID domain.ProductID, quantity int) error

	// SetIdempotency records a request key, returning false if it was
	// already seen.
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
