package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sneakershub/storefront/internal/adminauth"
	"github.com/sneakershub/storefront/internal/auth"
	"github.com/sneakershub/storefront/internal/events"
	"github.com/sneakershub/storefront/internal/logging"
	"github.com/sneakershub/storefront/internal/orders"
	"github.com/sneakershub/storefront/internal/products"
	"github.com/sneakershub/storefront/internal/search"
)

type AdminHTTP struct {
	Admin    *adminauth.Service
	Products *products.Store
	Orders   *orders.Store
	Auth     *auth.Store
	Producer *events.Producer
	Search   *search.Index
}

func (h *AdminHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("admin_login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	token, err := h.Admin.Login(req.Email, req.Password)
	if err != nil {
		l.Warn("admin_login_failed", "status", 401, "email", req.Email)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	l.Info("admin_login_successful", "email", req.Email)
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

func (h *AdminHTTP) ListProducts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Products.All())
}

func (h *AdminHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_product")

	var req struct {
		Name        string  `json:"name"`
		Price       string  `json:"price"`
		Image       string  `json:"image"`
		Category    string  `json:"category"`
		Description string  `json:"description"`
		Stock       int     `json:"stock"`
		Rating      float64 `json:"rating"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Products.Add(ctx, products.AddInput{
		Name:        req.Name,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Description: req.Description,
		Stock:       req.Stock,
		Rating:      req.Rating,
	})
	if err != nil {
		if errors.Is(err, products.ErrValidation) {
			l.Warn("create_product_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.Search.IndexProduct(ctx, p)
	h.Producer.Publish(ctx, events.TopicProducts, strconv.Itoa(p.ID), "product_created", echo.Map{
		"product_id": p.ID,
		"name":       p.Name,
	})

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *AdminHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.patch_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("patch_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req struct {
		Name        *string  `json:"name"`
		Price       *string  `json:"price"`
		Image       *string  `json:"image"`
		Category    *string  `json:"category"`
		Description *string  `json:"description"`
		Stock       *int     `json:"stock"`
		Rating      *float64 `json:"rating"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Products.Update(ctx, id, products.Patch{
		Name:        req.Name,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Description: req.Description,
		Stock:       req.Stock,
		Rating:      req.Rating,
	})
	if err != nil {
		switch {
		case errors.Is(err, products.ErrNotFound):
			l.Warn("patch_product_error", "status", 404, "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		case errors.Is(err, products.ErrValidation):
			l.Warn("patch_product_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("patch_product_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	h.Search.IndexProduct(ctx, p)
	h.Producer.Publish(ctx, events.TopicProducts, strconv.Itoa(p.ID), "product_updated", echo.Map{
		"product_id": p.ID,
		"name":       p.Name,
	})

	l.Info("patch_product_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, p)
}

func (h *AdminHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("delete_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	if err := h.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, products.ErrNotFound) {
			l.Warn("delete_product_error", "status", 404, "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("delete_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.Search.DeleteProduct(ctx, id)
	h.Producer.Publish(ctx, events.TopicProducts, strconv.Itoa(id), "product_deleted", echo.Map{
		"product_id": id,
	})

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) ListOrders(c echo.Context) error {
	return c.JSON(http.StatusOK, orders.ByRecency(h.Orders.GetAll()))
}

func (h *AdminHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_order_status")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_status_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if !validOrderStatus(req.Status) {
		l.Warn("update_order_status_error", "status", 400, "order_status", req.Status)
		return echo.NewHTTPError(http.StatusBadRequest, "unknown order status")
	}

	orderID := c.Param("id")
	if err := h.Orders.UpdateStatus(ctx, orderID, req.Status); err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			l.Warn("update_order_status_error", "status", 404, "order_id", orderID)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("update_order_status_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.Producer.Publish(ctx, events.TopicOrders, orderID, "order_status_updated", echo.Map{
		"order_id": orderID,
		"status":   req.Status,
	})

	l.Info("update_order_status_success", "order_id", orderID, "order_status", req.Status)
	return c.JSON(http.StatusOK, echo.Map{"id": orderID, "status": req.Status})
}

func (h *AdminHTTP) ListUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Auth.Registered())
}

// validOrderStatus mirrors the fixed dropdown options of the admin order
// table; the orders store itself stores whatever it is given.
func validOrderStatus(s string) bool {
	switch s {
	case "pending", "processing", "shipped", "delivered", "cancelled":
		return true
	}
	return false
}
