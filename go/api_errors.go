package storeserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	ordershttpmapper "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/http/mapper"
	ordersapp "github.com/Apurer/store-admin-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/store-admin-api/internal/domains/orders/ports"
	apierrors "github.com/Apurer/store-admin-api/internal/shared/errors"
)

// Operation tags attached to logged handler failures.
const (
	opCheckout        = "checkout"
	opOrdersGet       = "orders.get"
	opOrdersList      = "orders.list"
	opOrdersPatch     = "orders.patch"
	opOrdersDelete    = "orders.delete"
	opOrderStatesList = "orderstates.list"
)

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondBindingError answers a body that could not be decoded or failed struct validation.
func respondBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			fields[fe.Field()] = validationMessage(fe)
		}
		respondProblem(c, apierrors.NewValidationProblem(fields))
		return
	}
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// ordersProblems maps orders errors onto problems, most specific first.
var ordersProblems = []apierrors.Mapper{
	apierrors.As(func(e *ordersdomain.MissingFieldError) apierrors.ProblemDetail {
		return apierrors.NewMissingFieldProblem(e.Field)
	}),
	apierrors.Is(ordersapp.ErrInvalidInput, apierrors.ErrValidation),
	apierrors.Is(ordersapp.ErrUnauthenticated, apierrors.ErrUnauthorized),
	apierrors.Is(ordersapp.ErrForbidden, apierrors.ErrForbidden),
	apierrors.Is(ordersports.ErrNotFound, apierrors.ErrNotFound),
	apierrors.Is(ordersapp.ErrCatalogInconsistent, apierrors.ErrUnknownProduct),
	apierrors.Is(ordersapp.ErrInitialStateMissing, apierrors.ErrCheckoutUnavailable),
}

// respondOrdersError translates orders errors. Unexpected failures are logged with op and hidden from the client.
func respondOrdersError(c *gin.Context, logger *slog.Logger, op string, err error) {
	if err == nil {
		return
	}
	var shortage *ordersapp.StockShortageError
	if errors.As(err, &shortage) {
		c.JSON(http.StatusNotFound, ordershttpmapper.FromShortages(shortage.Shortages))
		return
	}
	problem, ok := apierrors.Translate(err, ordersProblems...)
	if !ok {
		logger.ErrorContext(c.Request.Context(), "request failed", slog.String("op", op), slog.String("error", err.Error()))
		respondProblem(c, apierrors.ErrInternal)
		return
	}
	if problem.Type == apierrors.TypeUnknownProduct || problem.Type == apierrors.TypeCheckoutUnavailable {
		logger.WarnContext(c.Request.Context(), "checkout rejected", slog.String("op", op), slog.String("error", err.Error()))
	}
	respondProblem(c, problem)
}
