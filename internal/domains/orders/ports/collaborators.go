package ports

import (
	"context"

	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
)

// CatalogReader resolves products in one batch. Unknown ids are omitted from the result.
type CatalogReader interface {
	FindProducts(ctx context.Context, storeID string, ids []string) ([]domain.Product, error)
}

// StoreDirectory answers store ownership questions.
type StoreDirectory interface {
	IsOwner(ctx context.Context, storeID, userID string) (bool, error)
}

// PaymentSessionProvider creates hosted payment sessions.
type PaymentSessionProvider interface {
	CreateSession(ctx context.Context, req domain.PaymentSessionRequest) (*domain.PaymentSession, error)
}

// EventPublisher announces order changes to other systems.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}
