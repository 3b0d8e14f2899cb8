package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrUnauthenticated signals that no principal was attached to the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden signals that the principal does not own the store.
	ErrForbidden = errors.New("principal does not own the store")
	// ErrCatalogInconsistent signals a cart line whose product the catalog could not resolve.
	ErrCatalogInconsistent = errors.New("cart references a product missing from the catalog")
	// ErrInitialStateMissing signals that the initial order state is not configured.
	ErrInitialStateMissing = errors.New("initial order state is not configured")
	// ErrNoLineItems signals that no cart line could be priced.
	ErrNoLineItems = errors.New("order has no payable line items")
	// ErrPaymentSession signals the payment provider failed after the order was persisted.
	ErrPaymentSession = errors.New("payment session could not be created")
)

// StockShortageError lists every product whose stock cannot cover the cart.
type StockShortageError struct {
	Shortages []domain.StockShortage
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("%d product(s) exceed available stock", len(e.Shortages))
}

func missingField(name string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, &domain.MissingFieldError{Field: name})
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyCart) ||
		errors.Is(err, domain.ErrEmptyProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrEmptyStoreID) ||
		errors.Is(err, domain.ErrEmptyUserID) ||
		errors.Is(err, domain.ErrNoOrderItems) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
