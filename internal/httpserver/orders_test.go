package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sneakershub/storefront/internal/models"
)

func TestMine_EmptyWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/orders", nil)
	require.NoError(t, env.OrdersHTTP.Mine(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestMine_ListsSessionUserOrders(t *testing.T) {
	env := newTestEnv(t)

	_, login := env.doJSONRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "demo@sneakershub.com",
	})
	require.NoError(t, env.AuthHTTP.Login(login))

	_, add := env.doJSONRequest(http.MethodPost, "/api/cart/items", map[string]any{
		"product_id": 7,
	})
	require.NoError(t, env.CartHTTP.AddItem(add))

	form := validCheckoutForm()
	form["email"] = "" // prefilled from the session
	_, submit := env.doJSONRequest(http.MethodPost, "/api/checkout", form)
	require.NoError(t, env.CheckoutHTTP.Submit(submit))

	rec, c := env.doJSONRequest(http.MethodGet, "/api/orders", nil)
	require.NoError(t, env.OrdersHTTP.Mine(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "demo@sneakershub.com", list[0].Customer.Email)
}
