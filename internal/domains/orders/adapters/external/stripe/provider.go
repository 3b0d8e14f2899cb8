package stripe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	"github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

var _ ports.PaymentSessionProvider = (*Provider)(nil)

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("payment provider temporarily unavailable")

// SessionCreator is the Checkout Sessions endpoint of the Stripe client.
type SessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Provider creates Stripe Checkout sessions behind a circuit breaker. Calls are never retried.
type Provider struct {
	sessions SessionCreator
	breaker  *gobreaker.CircuitBreaker
	logger   *slog.Logger
}

type Option func(*Provider)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSessionCreator replaces the Stripe API client, e.g. with a test double.
func WithSessionCreator(sessions SessionCreator) Option {
	return func(p *Provider) {
		if sessions != nil {
			p.sessions = sessions
		}
	}
}

// NewProvider builds a provider authenticated with the given secret key.
func NewProvider(secretKey string, opts ...Option) *Provider {
	api := &client.API{}
	api.Init(secretKey, nil)
	p := &Provider{
		sessions: api.CheckoutSessions,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "StripeCheckout",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	return p
}

func (p *Provider) CreateSession(ctx context.Context, req domain.PaymentSessionRequest) (*domain.PaymentSession, error) {
	params := buildParams(req)
	params.Context = ctx
	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.sessions.New(params)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrUnavailable
		}
		return nil, err
	}
	session, ok := result.(*stripe.CheckoutSession)
	if !ok || session == nil {
		return nil, errors.New("stripe returned no checkout session")
	}
	return &domain.PaymentSession{ID: session.ID, URL: session.URL}, nil
}

func buildParams(req domain.PaymentSessionRequest) *stripe.CheckoutSessionParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(item.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(item.Currency),
				UnitAmount: stripe.Int64(item.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
		})
	}
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	if req.RequireBillingAddress {
		params.BillingAddressCollection = stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired))
	}
	if req.RequirePhone {
		params.PhoneNumberCollection = &stripe.CheckoutSessionPhoneNumberCollectionParams{Enabled: stripe.Bool(true)}
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	return params
}
