package checkout

import (
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/Apurer/store-admin-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/store-admin-api/internal/domains/orders/domain"
)

// Application error types carried across the workflow boundary.
const (
	ErrTypeStockShortage       = "StockShortage"
	ErrTypeMissingField        = "MissingField"
	ErrTypeInvalidInput        = "InvalidInput"
	ErrTypeCatalogInconsistent = "CatalogInconsistent"
	ErrTypeInitialStateMissing = "InitialStateMissing"
	ErrTypeNoLineItems         = "NoLineItems"
	ErrTypePaymentSession      = "PaymentSession"
	ErrTypeInternal            = "Internal"
)

// EncodeError turns a service error into a non-retryable application error so checkout is single-attempt.
func EncodeError(err error) error {
	if err == nil {
		return nil
	}
	var shortage *ordersapp.StockShortageError
	if errors.As(err, &shortage) {
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeStockShortage, err, shortage.Shortages)
	}
	var missing *ordersdomain.MissingFieldError
	if errors.As(err, &missing) {
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeMissingField, err, missing.Field)
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), errorType(err), err)
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return ErrTypeInvalidInput
	case errors.Is(err, ordersapp.ErrCatalogInconsistent):
		return ErrTypeCatalogInconsistent
	case errors.Is(err, ordersapp.ErrInitialStateMissing):
		return ErrTypeInitialStateMissing
	case errors.Is(err, ordersapp.ErrNoLineItems):
		return ErrTypeNoLineItems
	case errors.Is(err, ordersapp.ErrPaymentSession):
		return ErrTypePaymentSession
	default:
		return ErrTypeInternal
	}
}

// DecodeError restores the service error an activity encoded. Unknown errors are returned as is.
func DecodeError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case ErrTypeStockShortage:
		var shortages []ordersdomain.StockShortage
		if appErr.HasDetails() && appErr.Details(&shortages) == nil {
			return &ordersapp.StockShortageError{Shortages: shortages}
		}
	case ErrTypeMissingField:
		var field string
		if appErr.HasDetails() && appErr.Details(&field) == nil {
			return fmt.Errorf("%w: %w", ordersapp.ErrInvalidInput, &ordersdomain.MissingFieldError{Field: field})
		}
	case ErrTypeInvalidInput:
		return fmt.Errorf("%w: %s", ordersapp.ErrInvalidInput, appErr.Message())
	case ErrTypeCatalogInconsistent:
		return fmt.Errorf("%w: %s", ordersapp.ErrCatalogInconsistent, appErr.Message())
	case ErrTypeInitialStateMissing:
		return fmt.Errorf("%w: %s", ordersapp.ErrInitialStateMissing, appErr.Message())
	case ErrTypeNoLineItems:
		return ordersapp.ErrNoLineItems
	case ErrTypePaymentSession:
		return fmt.Errorf("%w: %s", ordersapp.ErrPaymentSession, appErr.Message())
	}
	return err
}
