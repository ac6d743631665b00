package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sneakershub/storefront/internal/adminauth"
	"github.com/sneakershub/storefront/internal/auth"
	"github.com/sneakershub/storefront/internal/cart"
	"github.com/sneakershub/storefront/internal/checkout"
	"github.com/sneakershub/storefront/internal/kvstore"
	"github.com/sneakershub/storefront/internal/orders"
	"github.com/sneakershub/storefront/internal/products"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	KV       kvstore.Store
	Cart     *cart.Store
	Orders   *orders.Store
	Products *products.Store
	Auth     *auth.Store
	Checkout *checkout.Service
	Admin    *adminauth.Service

	CartHTTP     *CartHTTP
	AuthHTTP     *AuthHTTP
	CheckoutHTTP *CheckoutHTTP
	OrdersHTTP   *OrdersHTTP
	ProductsHTTP *ProductsHTTP
	AdminHTTP    *AdminHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	kv := kvstore.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cartStore := cart.New(kv, log, nil)
	orderStore := orders.New(kv, log)
	productStore := products.New(kv, log)
	authStore := auth.New(kv, log)
	checkoutSvc := &checkout.Service{
		Cart:   cartStore,
		Orders: orderStore,
		Auth:   authStore,
	}
	admin, err := adminauth.New("admin@sneakershub.com", "admin123", []byte("test-secret"))
	require.NoError(t, err)

	return &testEnv{
		T:        t,
		E:        echo.New(),
		KV:       kv,
		Cart:     cartStore,
		Orders:   orderStore,
		Products: productStore,
		Auth:     authStore,
		Checkout: checkoutSvc,
		Admin:    admin,

		CartHTTP:     &CartHTTP{Cart: cartStore, Products: productStore},
		AuthHTTP:     &AuthHTTP{Auth: authStore, Cart: cartStore},
		CheckoutHTTP: &CheckoutHTTP{Checkout: checkoutSvc},
		OrdersHTTP:   &OrdersHTTP{Orders: orderStore, Auth: authStore},
		ProductsHTTP: &ProductsHTTP{Products: productStore},
		AdminHTTP: &AdminHTTP{
			Admin:    admin,
			Products: productStore,
			Orders:   orderStore,
			Auth:     authStore,
		},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, code, he.Code)
}

func validCheckoutForm() map[string]string {
	return map[string]string{
		"first_name":     "Casey",
		"last_name":      "Nguyen",
		"email":          "casey.nguyen@example.com",
		"phone":          "555-0100",
		"address":        "1 Main St",
		"city":           "Portland",
		"state":          "OR",
		"zip_code":       "97201",
		"country":        "USA",
		"payment_method": "credit_card",
		"card_number":    "4111111111111111",
		"expiry_date":    "12/27",
		"cvv":            "123",
	}
}
