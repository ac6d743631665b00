// Package cart owns the shopping-cart line items. Every mutation mirrors
// the full list into the key-value store and announces itself on the cart
// events topic; in-memory state stays authoritative when persistence fails.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sneakershub/storefront/internal/collection"
	"github.com/sneakershub/storefront/internal/events"
	"github.com/sneakershub/storefront/internal/kvstore"
	"github.com/sneakershub/storefront/internal/models"
)

const storageKey = "cart"

var ErrValidation = errors.New("validation")

type Store struct {
	mu       sync.Mutex
	kv       kvstore.Store
	log      *slog.Logger
	producer *events.Producer
	items    []models.CartItem
}

// New restores the cart from the key-value store. Corrupt persisted content
// degrades to an empty cart rather than failing startup.
func New(kv kvstore.Store, log *slog.Logger, producer *events.Producer) *Store {
	s := &Store{kv: kv, log: log, producer: producer}
	s.items = collection.Load[models.CartItem](kv, log, storageKey, []byte("[]"), nil)
	return s
}

// Add merges into an existing (product, size) line or appends a new one.
// No upper bound on quantity is enforced here; the UI clamps.
func (s *Store) Add(ctx context.Context, p models.Product, size string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return fmt.Errorf("product %d has unparsable price %q: %w", p.ID, p.Price, ErrValidation)
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ProductID == p.ID && s.items[i].Size == size {
			s.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, models.CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: price,
			Image:     p.Image,
			Quantity:  quantity,
			Size:      size,
		})
	}
	s.persistLocked()
	s.mu.Unlock()

	s.notify(ctx, "cart_item_added", p.ID)
	return nil
}

// Remove drops the exact (productID, size) line, or every line for the
// product when size is empty. Removing a missing line is a no-op.
func (s *Store) Remove(ctx context.Context, productID int, size string) {
	s.mu.Lock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ProductID == productID && (size == "" || it.Size == size) {
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept
	s.persistLocked()
	s.mu.Unlock()

	s.notify(ctx, "cart_item_removed", productID)
}

// UpdateQuantity sets the line's quantity exactly; anything below 1 removes
// the line instead.
func (s *Store) UpdateQuantity(ctx context.Context, productID int, size string, quantity int) {
	if quantity < 1 {
		s.Remove(ctx, productID, size)
		return
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ProductID == productID && s.items[i].Size == size {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.persistLocked()
	s.mu.Unlock()

	s.notify(ctx, "cart_quantity_updated", productID)
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.persistLocked()
	s.mu.Unlock()

	s.notify(ctx, "cart_cleared", 0)
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total is the sum of unit price times quantity over all lines.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

// ItemsAndTotal returns the lines and their total from one snapshot, so a
// concurrent mutation cannot slip between the two reads.
func (s *Store) ItemsAndTotal() ([]models.CartItem, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out, s.totalLocked()
}

func (s *Store) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// ItemCount is the sum of quantities, the item-count badge value.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) persistLocked() {
	collection.Save(s.kv, s.log, storageKey, s.items)
}

func (s *Store) notify(ctx context.Context, eventType string, productID int) {
	s.producer.Publish(ctx, events.TopicCart, strconv.Itoa(productID), eventType, map[string]any{
		"product_id": productID,
		"item_count": s.ItemCount(),
	})
}
