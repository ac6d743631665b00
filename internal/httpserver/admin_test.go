package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sneakershub/storefront/internal/models"
)

func adminLogin(t *testing.T, env *testEnv) string {
	t.Helper()

	rec, c := env.doJSONRequest(http.MethodPost, "/admin/login", map[string]string{
		"email":    "admin@sneakershub.com",
		"password": "admin123",
	})
	require.NoError(t, env.AdminHTTP.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAdminLogin_RejectsBadPassword(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/admin/login", map[string]string{
		"email":    "admin@sneakershub.com",
		"password": "wrong",
	})
	requireHTTPError(t, env.AdminHTTP.Login(c), http.StatusUnauthorized)
}

func TestRequireAdmin_GuardsRoutes(t *testing.T) {
	env := newTestEnv(t)
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	guarded := env.Admin.RequireAdmin(next)

	// no token
	_, c := env.doJSONRequest(http.MethodGet, "/admin/products", nil)
	requireHTTPError(t, guarded(c), http.StatusUnauthorized)

	// garbage token
	_, c = env.doJSONRequest(http.MethodGet, "/admin/products", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	requireHTTPError(t, guarded(c), http.StatusUnauthorized)

	// real token
	token := adminLogin(t, env)
	rec, c := env.doJSONRequest(http.MethodGet, "/admin/products", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	require.NoError(t, guarded(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminCreateProduct(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/admin/products", map[string]any{
		"name":     "Vaporfly 4",
		"price":    "249.9",
		"category": "Racing",
		"stock":    12,
		"rating":   4.9,
	})
	require.NoError(t, env.AdminHTTP.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var p models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, 9, p.ID)
	assert.Equal(t, "249.90", p.Price)
	assert.Equal(t, "Vaporfly 4", p.Name)
}

func TestAdminCreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/admin/products", map[string]any{
		"name":  "",
		"price": "10.00",
	})
	requireHTTPError(t, env.AdminHTTP.CreateProduct(c), http.StatusBadRequest)
}

func TestAdminPatchProduct(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPatch, "/admin/products/1", map[string]any{
		"stock": 0,
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.AdminHTTP.PatchProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Zero(t, p.Stock)
	// untouched fields survive the patch
	assert.Equal(t, "Air Zoom Pegasus 41", p.Name)
}

func TestAdminDeleteProduct(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodDelete, "/admin/products/3", nil)
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, env.AdminHTTP.DeleteProduct(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, get := env.doJSONRequest(http.MethodGet, "/api/products/3", nil)
	get.SetParamNames("id")
	get.SetParamValues("3")
	requireHTTPError(t, env.ProductsHTTP.Get(get), http.StatusNotFound)
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)

	orderID := env.Orders.GetAll()[0].ID

	rec, c := env.doJSONRequest(http.MethodPatch, "/admin/orders/"+orderID+"/status", map[string]string{
		"status": "shipped",
	})
	c.SetParamNames("id")
	c.SetParamValues(orderID)
	require.NoError(t, env.AdminHTTP.UpdateOrderStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	for _, o := range env.Orders.GetAll() {
		if o.ID == orderID {
			assert.Equal(t, "shipped", o.Status)
		}
	}
}

func TestAdminUpdateOrderStatus_RejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPatch, "/admin/orders/1/status", map[string]string{
		"status": "teleported",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	requireHTTPError(t, env.AdminHTTP.UpdateOrderStatus(c), http.StatusBadRequest)
}

func TestAdminListUsers(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/admin/users", nil)
	require.NoError(t, env.AdminHTTP.ListUsers(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var users []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.NotEmpty(t, users)
	assert.Equal(t, "demo@sneakershub.com", users[0].Email)
}
