package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sneakershub/storefront/internal/auth"
	"github.com/sneakershub/storefront/internal/orders"
)

type OrdersHTTP struct {
	Orders *orders.Store
	Auth   *auth.Store
}

// Mine lists the active user's order history, newest first. Without an
// active session the history is empty, matching the store contract.
func (h *OrdersHTTP) Mine(c echo.Context) error {
	email := ""
	if u, ok := h.Auth.Current(); ok {
		email = u.Email
	}
	return c.JSON(http.StatusOK, orders.ByRecency(h.Orders.GetByUser(email)))
}
