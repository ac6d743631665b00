package models

import "github.com/shopspring/decimal"

// CartItem is one (product, size) pairing in the cart. The uniqueness key
// is (ProductID, Size); Quantity never drops below 1 while the line exists.
type CartItem struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size"`
}

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
}

// Order is immutable after creation except for Status. CreatedAt is an
// RFC 3339 string; records with unparsable dates are skipped when sorting
// by recency rather than failing the read.
type Order struct {
	ID       string     `json:"id"`
	Customer Customer   `json:"customer"`
	Items    []CartItem `json:"items"`
	// OrderItems duplicates Items for display consumers that expect the
	// flattened name. Kept in the persisted shape for compatibility.
	OrderItems      []CartItem      `json:"order_items"`
	ItemsPrice      decimal.Decimal `json:"items_price"`
	TaxPrice        decimal.Decimal `json:"tax_price"`
	ShippingPrice   decimal.Decimal `json:"shipping_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Status          string          `json:"status"`
	CreatedAt       string          `json:"created_at"`
	ShippingAddress Address         `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
}

// Product prices are stored as two-decimal fixed strings, the shape the
// catalog fixtures and the admin form produce.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       string  `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
	Rating      float64 `json:"rating"`
	IsNew       bool    `json:"is_new"`
	AddedDate   string  `json:"added_date,omitempty"`
}

// User doubles as a registry record and the active-session record. Email is
// the registry key.
type User struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	SignupTime string `json:"signup_time,omitempty"`
	IsLoggedIn bool   `json:"is_logged_in"`
	LoginTime  string `json:"login_time,omitempty"`
}
