// Package products owns the catalog. Seeded from the fixture set on first
// run; missing stock and rating values are backfilled with random values
// once, at normalization time, and persisted so they stay stable across
// restarts.
package products

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sneakershub/storefront/internal/collection"
	"github.com/sneakershub/storefront/internal/fixtures"
	"github.com/sneakershub/storefront/internal/kvstore"
	"github.com/sneakershub/storefront/internal/models"
)

const (
	storageKey = "products"
	// seqKey persists the id allocator independently of the live list so a
	// deleted product's id is never handed out again.
	seqKey = "product_seq"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("product not found")
)

type AddInput struct {
	Name        string
	Price       string
	Image       string
	Category    string
	Description string
	Stock       int
	Rating      float64
}

// Patch carries the admin edit form; nil fields are left untouched.
type Patch struct {
	Name        *string
	Price       *string
	Image       *string
	Category    *string
	Description *string
	Stock       *int
	Rating      *float64
}

type Store struct {
	mu    sync.Mutex
	kv    kvstore.Store
	log   *slog.Logger
	items []models.Product
}

func New(kv kvstore.Store, log *slog.Logger) *Store {
	s := &Store{kv: kv, log: log}
	s.items = collection.Load[models.Product](kv, log, storageKey, fixtures.Products, normalize)
	return s
}

func normalize(p *models.Product) {
	if p.Stock == 0 {
		p.Stock = randomStock()
	}
	if p.Rating == 0 {
		p.Rating = randomRating()
	}
}

func randomStock() int {
	return rand.IntN(50) + 10
}

func randomRating() float64 {
	return math.Round((rand.Float64()*2+3)*10) / 10
}

// Add trims string fields, coerces the price to a two-decimal fixed string
// and assigns the next id from the persisted counter.
func (s *Store) Add(ctx context.Context, in AddInput) (models.Product, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil {
		return models.Product{}, fmt.Errorf("unparsable price %q: %w", in.Price, ErrValidation)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Product{}, fmt.Errorf("name is required: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := models.Product{
		ID:          s.nextIDLocked(),
		Name:        name,
		Price:       price.StringFixed(2),
		Image:       strings.TrimSpace(in.Image),
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Stock:       in.Stock,
		Rating:      in.Rating,
		IsNew:       true,
		AddedDate:   time.Now().UTC().Format(time.RFC3339),
	}
	normalize(&p)

	s.items = append(s.items, p)
	s.persistLocked()
	return p, nil
}

// Update shallow-merges the patch into the matching product. The merge runs
// on a copy and is swapped in only when every field applied cleanly, so a
// rejected patch leaves the stored record untouched.
func (s *Store) Update(ctx context.Context, id int, patch Patch) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		p := s.items[i]
		if patch.Name != nil {
			p.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Price != nil {
			price, err := decimal.NewFromString(strings.TrimSpace(*patch.Price))
			if err != nil {
				return models.Product{}, fmt.Errorf("unparsable price %q: %w", *patch.Price, ErrValidation)
			}
			p.Price = price.StringFixed(2)
		}
		if patch.Image != nil {
			p.Image = strings.TrimSpace(*patch.Image)
		}
		if patch.Category != nil {
			p.Category = strings.TrimSpace(*patch.Category)
		}
		if patch.Description != nil {
			p.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Stock != nil {
			p.Stock = *patch.Stock
		}
		if patch.Rating != nil {
			p.Rating = *patch.Rating
		}
		s.items[i] = p
		s.persistLocked()
		return p, nil
	}
	return models.Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
}

func (s *Store) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked()
			return nil
		}
	}
	return fmt.Errorf("product %d: %w", id, ErrNotFound)
}

func (s *Store) Get(id int) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.items {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
}

func (s *Store) All() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.items))
	copy(out, s.items)
	return out
}

// ByCategory filters on exact category; "All" passes everything through.
func (s *Store) ByCategory(category string) []models.Product {
	if category == "All" || category == "" {
		return s.All()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Product{}
	for _, p := range s.items {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Search is a case-insensitive substring match over name, description and
// category. An empty term returns the full catalog.
func (s *Store) Search(term string) []models.Product {
	if term == "" {
		return s.All()
	}
	q := strings.ToLower(term)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Product{}
	for _, p := range s.items {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// nextIDLocked reads the persisted counter, seeding it from the current max
// id the first time so fixture ids are respected.
func (s *Store) nextIDLocked() int {
	next := 0
	raw, found, err := s.kv.Get(seqKey)
	if err != nil {
		s.log.Error("persist_read_failed", "key", seqKey, "error", err)
	}
	if found {
		if n, perr := strconv.Atoi(raw); perr == nil {
			next = n
		}
	}
	if next == 0 {
		for _, p := range s.items {
			if p.ID > next {
				next = p.ID
			}
		}
	}
	next++
	if err := s.kv.Set(seqKey, strconv.Itoa(next)); err != nil {
		s.log.Error("persist_write_failed", "key", seqKey, "error", err)
	}
	return next
}

func (s *Store) persistLocked() {
	collection.Save(s.kv, s.log, storageKey, s.items)
}
