package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sneakershub/storefront/internal/logging"
	"github.com/sneakershub/storefront/internal/products"
	"github.com/sneakershub/storefront/internal/search"
)

type ProductsHTTP struct {
	Products *products.Store
	Search   *search.Index
}

func (h *ProductsHTTP) List(c echo.Context) error {
	category := c.QueryParam("category")
	if category == "" {
		return c.JSON(http.StatusOK, h.Products.All())
	}
	return c.JSON(http.StatusOK, h.Products.ByCategory(category))
}

func (h *ProductsHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.get")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("get_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	p, err := h.Products.Get(id)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, p)
}

// SearchProducts serves the fuzzy Elasticsearch query when the mirror is
// configured and falls back to the catalog's substring search otherwise.
func (h *ProductsHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.search")

	q := c.QueryParam("q")
	if h.Search != nil {
		from := parseIntDefault(c.QueryParam("from"), 0)
		size := parseIntDefault(c.QueryParam("size"), 20)
		total, hits, err := h.Search.Search(ctx, q, from, size)
		if err == nil {
			return c.JSON(http.StatusOK, echo.Map{"total": total, "data": hits})
		}
		l.Warn("es_search_failed_falling_back", "error", err)
	}

	results := h.Products.Search(q)
	return c.JSON(http.StatusOK, echo.Map{"total": len(results), "data": results})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
