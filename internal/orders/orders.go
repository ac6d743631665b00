// Package orders owns the placed-order list. Orders are seeded from the
// fixture set on first run, appended by checkout and never deleted; only
// the status field moves after creation.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sneakershub/storefront/internal/collection"
	"github.com/sneakershub/storefront/internal/fixtures"
	"github.com/sneakershub/storefront/internal/kvstore"
	"github.com/sneakershub/storefront/internal/models"
)

const storageKey = "orders"

var ErrNotFound = errors.New("order not found")

// Input is the checkout-produced shape. Add maps it into the stored order
// shape (total becomes total_price, date becomes created_at, items are
// additionally aliased to order_items for display consumers).
type Input struct {
	ID              string
	Customer        models.Customer
	Items           []models.CartItem
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Shipping        decimal.Decimal
	Total           decimal.Decimal
	Date            string
	Status          string
	ShippingAddress models.Address
	PaymentMethod   string
}

// storedOrder carries the legacy total field still found in older persisted
// lists, read for the total_price fallback and never written back.
type storedOrder struct {
	models.Order
	LegacyTotal *decimal.Decimal `json:"total"`
}

type Store struct {
	mu    sync.Mutex
	kv    kvstore.Store
	log   *slog.Logger
	items []models.Order
}

func New(kv kvstore.Store, log *slog.Logger) *Store {
	s := &Store{kv: kv, log: log}
	stored := collection.Load[storedOrder](kv, log, storageKey, fixtures.Orders, normalize)
	s.items = make([]models.Order, len(stored))
	for i, o := range stored {
		s.items[i] = o.Order
	}
	// The wrapper drops the legacy field on the re-persist done by Load, so
	// rewrite the list in the canonical shape once.
	s.mu.Lock()
	s.persistLocked()
	s.mu.Unlock()
	return s
}

func normalize(o *storedOrder) {
	if o.TotalPrice.IsZero() && o.LegacyTotal != nil {
		o.TotalPrice = *o.LegacyTotal
	}
	if o.CreatedAt == "" {
		o.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	if len(o.OrderItems) == 0 {
		o.OrderItems = o.Items
	}
}

// Add appends the order built from in and persists the full list. The
// returned order is the stored shape.
func (s *Store) Add(ctx context.Context, in Input) models.Order {
	order := models.Order{
		ID:              in.ID,
		Customer:        in.Customer,
		Items:           in.Items,
		OrderItems:      in.Items,
		ItemsPrice:      in.Subtotal,
		TaxPrice:        in.Tax,
		ShippingPrice:   in.Shipping,
		TotalPrice:      in.Total,
		Status:          in.Status,
		CreatedAt:       in.Date,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}

	s.mu.Lock()
	s.items = append(s.items, order)
	s.persistLocked()
	s.mu.Unlock()

	return order
}

// UpdateStatus replaces the status of the matching order. The allowed enum
// is enforced by the admin surface's fixed options, not here.
func (s *Store) UpdateStatus(ctx context.Context, orderID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == orderID {
			s.items[i].Status = status
			s.persistLocked()
			return nil
		}
	}
	return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
}

// GetByUser returns the orders whose customer email matches. An empty email
// (no active user) yields an empty list.
func (s *Store) GetByUser(email string) []models.Order {
	if email == "" {
		return []models.Order{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Order{}
	for _, o := range s.items {
		if o.Customer.Email == email {
			out = append(out, o)
		}
	}
	return out
}

func (s *Store) GetAll() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.items))
	copy(out, s.items)
	return out
}

// ByRecency sorts newest first, excluding records whose created_at does not
// parse rather than failing the read.
func ByRecency(orders []models.Order) []models.Order {
	type dated struct {
		order models.Order
		at    time.Time
	}
	parsed := make([]dated, 0, len(orders))
	for _, o := range orders {
		at, err := time.Parse(time.RFC3339, o.CreatedAt)
		if err != nil {
			continue
		}
		parsed = append(parsed, dated{order: o, at: at})
	}
	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].at.After(parsed[j].at)
	})
	out := make([]models.Order, len(parsed))
	for i, d := range parsed {
		out[i] = d.order
	}
	return out
}

func (s *Store) persistLocked() {
	collection.Save(s.kv, s.log, storageKey, s.items)
}
