package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yashrajoria/storefront-service/models"
	aws_pkg "github.com/yashrajoria/storefront-service/pkg/aws"
)

// ProductCache is satisfied by cache.ProductCache. Implementations swallow
// their own failures; a miss and an error look the same to callers.
type ProductCache interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, bool)
	SetProduct(ctx context.Context, product *models.Product)
	GetListing(ctx context.Context, key string, dst any) bool
	SetListing(ctx context.Context, key string, listing any)
	InvalidateProducts(ctx context.Context, ids ...uuid.UUID)
}

// IdempotencyStore is satisfied by cache.IdempotencyStore.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
	Remember(ctx context.Context, key, value string) error
}

// EventPublisher is satisfied by events.OrderPublisher.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, evt *models.OrderPlacedEvent) error
}

// recordCount sends a counter in the background so CloudWatch latency never
// reaches the caller. A nil or disabled client is a no-op.
func recordCount(metrics *aws_pkg.MetricsClient, name string, dimensions map[string]string) {
	if !metrics.IsEnabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metrics.RecordCount(ctx, name, dimensions)
	}()
}
