package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sneakershub/storefront/internal/checkout"
	"github.com/sneakershub/storefront/internal/logging"
)

type CheckoutHTTP struct {
	Checkout *checkout.Service
}

// Quote returns the derived totals for the current cart without placing an
// order; the summary panel polls this.
func (h *CheckoutHTTP) Quote(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Checkout.Quote())
}

func (h *CheckoutHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.submit")

	var form checkout.Form
	if err := c.Bind(&form); err != nil {
		l.Warn("checkout_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Checkout.PlaceOrder(ctx, form)
	if err != nil {
		if verr, ok := checkout.AsValidation(err); ok {
			l.Warn("checkout_validation_failed", "status", 422, "fields", len(verr.Fields))
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": verr.Fields})
		}
		if errors.Is(err, checkout.ErrEmptyCart) {
			l.Warn("checkout_error", "status", 409, "reason", "empty cart")
			return echo.NewHTTPError(http.StatusConflict, "cart is empty")
		}
		l.Error("checkout_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "there was an error processing your order")
	}

	l.Info("order_placed", "order_id", order.ID, "total", order.TotalPrice)
	return c.JSON(http.StatusCreated, order)
}
