package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sneakershub/storefront/internal/cart"
	"github.com/sneakershub/storefront/internal/logging"
	"github.com/sneakershub/storefront/internal/products"
)

// The UI clamps line quantities; the store itself stays unbounded.
const maxLineQuantity = 10

type CartHTTP struct {
	Cart     *cart.Store
	Products *products.Store
}

func (h *CartHTTP) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"items":      h.Cart.Items(),
		"total":      h.Cart.Total(),
		"item_count": h.Cart.ItemCount(),
	})
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req struct {
		ProductID int    `json:"product_id"`
		Size      string `json:"size"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Size == "" {
		req.Size = "US 8"
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity > maxLineQuantity {
		req.Quantity = maxLineQuantity
	}

	p, err := h.Products.Get(req.ProductID)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			l.Warn("add_to_cart_error", "status", 404, "product_id", req.ProductID)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := h.Cart.Add(ctx, p, req.Size, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrValidation) {
			l.Warn("add_to_cart_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("item_added_to_cart", "product_id", req.ProductID, "size", req.Size)
	return c.JSON(http.StatusCreated, echo.Map{
		"items":      h.Cart.Items(),
		"item_count": h.Cart.ItemCount(),
	})
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	var req struct {
		ProductID int    `json:"product_id"`
		Size      string `json:"size"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_quantity_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity > maxLineQuantity {
		req.Quantity = maxLineQuantity
	}

	h.Cart.UpdateQuantity(ctx, req.ProductID, req.Size, req.Quantity)
	return c.JSON(http.StatusOK, echo.Map{
		"items":      h.Cart.Items(),
		"item_count": h.Cart.ItemCount(),
	})
}

// RemoveItem removes the exact (product, size) line; with no size in the
// body it removes every line for the product.
func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	var req struct {
		ProductID int    `json:"product_id"`
		Size      string `json:"size"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	h.Cart.Remove(ctx, req.ProductID, req.Size)
	return c.JSON(http.StatusOK, echo.Map{
		"items":      h.Cart.Items(),
		"item_count": h.Cart.ItemCount(),
	})
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	h.Cart.Clear(ctx)
	l.Info("cart_cleared")
	return c.JSON(http.StatusOK, "cart successfully cleared")
}
