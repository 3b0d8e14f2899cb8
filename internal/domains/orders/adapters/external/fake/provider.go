package fake

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	"github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

var _ ports.PaymentSessionProvider = (*Provider)(nil)

// Provider stands in for the hosted payment page in local development.
// Every session redirects straight to the success URL.
type Provider struct {
	mu       sync.Mutex
	requests []domain.PaymentSessionRequest
}

func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) CreateSession(_ context.Context, req domain.PaymentSessionRequest) (*domain.PaymentSession, error) {
	if req.OrderID == "" {
		return nil, errors.New("payment session requires an order id")
	}
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()
	return &domain.PaymentSession{ID: "fake_" + req.OrderID, URL: req.SuccessURL}, nil
}

// Requests returns the sessions requested so far.
func (p *Provider) Requests() []domain.PaymentSessionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.PaymentSessionRequest(nil), p.requests...)
}
