// Package checkout turns the current cart into an order: validate the form,
// derive the totals, hand the order to the orders store and clear the cart.
// Validation failure or an empty cart leaves everything untouched.
package checkout

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sneakershub/storefront/internal/auth"
	"github.com/sneakershub/storefront/internal/cart"
	"github.com/sneakershub/storefront/internal/events"
	"github.com/sneakershub/storefront/internal/models"
	"github.com/sneakershub/storefront/internal/orders"
)

const PaymentMethodCreditCard = "credit_card"

var (
	ErrEmptyCart = errors.New("cart is empty")

	taxRate = decimal.New(1, -1) // 10%
	// Shipping is free strictly above the threshold; a subtotal of exactly
	// 200 still pays the flat rate.
	freeShippingOver = decimal.NewFromInt(200)
	flatShipping     = decimal.NewFromInt(15)
)

// Form is the checkout input. Card fields are required only when the
// payment method is credit_card.
type Form struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	Country       string `json:"country"`
	PaymentMethod string `json:"payment_method"`
	CardNumber    string `json:"card_number"`
	ExpiryDate    string `json:"expiry_date"`
	CVV           string `json:"cvv"`
}

// ValidationError carries one message per offending field, surfaced inline
// by the form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "invalid checkout form: " + strings.Join(keys, ", ")
}

type Service struct {
	Cart     *cart.Store
	Orders   *orders.Store
	Auth     *auth.Store
	Producer *events.Producer
}

// Totals are the derived checkout amounts, rounded only at display time.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Quote derives the totals for the current cart without placing an order.
func (s *Service) Quote() Totals {
	return totalsFor(s.Cart.Total())
}

func totalsFor(subtotal decimal.Decimal) Totals {
	tax := subtotal.Mul(taxRate)
	shipping := flatShipping
	if subtotal.GreaterThan(freeShippingOver) {
		shipping = decimal.Zero
	}
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}

// PlaceOrder runs the submit path. On any failure the cart is left intact;
// only a stored order clears it.
func (s *Service) PlaceOrder(ctx context.Context, form Form) (models.Order, error) {
	// The form email is prefilled from the active session when the shopper
	// left it blank.
	if strings.TrimSpace(form.Email) == "" {
		if u, ok := s.Auth.Current(); ok {
			form.Email = u.Email
		}
	}
	if verr := validate(form); verr != nil {
		return models.Order{}, verr
	}

	items, subtotal := s.Cart.ItemsAndTotal()
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	t := totalsFor(subtotal)
	now := time.Now()

	order := s.Orders.Add(ctx, orders.Input{
		ID: strconv.FormatInt(now.UnixMilli(), 10),
		Customer: models.Customer{
			Name:  form.FirstName + " " + form.LastName,
			Email: form.Email,
		},
		Items:    items,
		Subtotal: t.Subtotal,
		Tax:      t.Tax,
		Shipping: t.Shipping,
		Total:    t.Total,
		Date:     now.UTC().Format(time.RFC3339),
		Status:   models.OrderStatusPending,
		ShippingAddress: models.Address{
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Email:     form.Email,
			Phone:     form.Phone,
			Address:   form.Address,
			City:      form.City,
			State:     form.State,
			ZipCode:   form.ZipCode,
			Country:   form.Country,
		},
		PaymentMethod: form.PaymentMethod,
	})

	s.Cart.Clear(ctx)
	s.Producer.Publish(ctx, events.TopicOrders, order.ID, "order_created", map[string]any{
		"order_id": order.ID,
		"email":    order.Customer.Email,
		"total":    order.TotalPrice,
	})

	return order, nil
}

func validate(form Form) error {
	fields := map[string]string{}
	require := func(value, name, message string) {
		if strings.TrimSpace(value) == "" {
			fields[name] = message
		}
	}

	require(form.FirstName, "first_name", "First name is required")
	require(form.LastName, "last_name", "Last name is required")
	require(form.Email, "email", "Email is required")
	require(form.Phone, "phone", "Phone number is required")
	require(form.Address, "address", "Address is required")
	require(form.City, "city", "City is required")
	require(form.State, "state", "State is required")
	require(form.ZipCode, "zip_code", "ZIP code is required")

	if form.PaymentMethod == PaymentMethodCreditCard {
		require(form.CardNumber, "card_number", "Card number is required")
		require(form.ExpiryDate, "expiry_date", "Expiry date is required")
		require(form.CVV, "cvv", "CVV is required")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// AsValidation unwraps err into a ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
