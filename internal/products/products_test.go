package products

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sneakershub/storefront/internal/kvstore"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (*Store, kvstore.Store) {
	t.Helper()
	kv := kvstore.NewMemory()
	return New(kv, testLogger()), kv
}

func TestNew_SeedsAndBackfillsStockAndRating(t *testing.T) {
	s, _ := newTestStore(t)

	all := s.All()
	require.NotEmpty(t, all)
	for _, p := range all {
		assert.GreaterOrEqual(t, p.Stock, 10, "product %d stock", p.ID)
		assert.LessOrEqual(t, p.Stock, 59, "product %d stock", p.ID)
		assert.GreaterOrEqual(t, p.Rating, 3.0, "product %d rating", p.ID)
		assert.LessOrEqual(t, p.Rating, 5.0, "product %d rating", p.ID)
	}
}

func TestBackfillIsStableAcrossReloads(t *testing.T) {
	kv := kvstore.NewMemory()
	first := New(kv, testLogger()).All()
	second := New(kv, testLogger()).All()

	require.Equal(t, first, second)
}

func TestAdd_TrimsAndCoercesPrice(t *testing.T) {
	s, _ := newTestStore(t)

	p, err := s.Add(context.Background(), AddInput{
		Name:        "  Runner Pro  ",
		Price:       " 120.5 ",
		Image:       " /img/runner.jpg ",
		Category:    " Running ",
		Description: " Fast. ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Runner Pro", p.Name)
	assert.Equal(t, "120.50", p.Price)
	assert.Equal(t, "/img/runner.jpg", p.Image)
	assert.Equal(t, "Running", p.Category)
	assert.Equal(t, "Fast.", p.Description)
	assert.True(t, p.IsNew)
	assert.NotEmpty(t, p.AddedDate)
	assert.GreaterOrEqual(t, p.Stock, 10)
	assert.GreaterOrEqual(t, p.Rating, 3.0)
}

func TestAdd_Validation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input AddInput
	}{
		{name: "bad price", input: AddInput{Name: "X", Price: "free"}},
		{name: "empty name", input: AddInput{Name: "  ", Price: "10.00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Add(ctx, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAdd_AssignsIncreasingIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	maxSeed := 0
	for _, p := range s.All() {
		if p.ID > maxSeed {
			maxSeed = p.ID
		}
	}

	p1, err := s.Add(ctx, AddInput{Name: "A", Price: "10.00"})
	require.NoError(t, err)
	p2, err := s.Add(ctx, AddInput{Name: "B", Price: "10.00"})
	require.NoError(t, err)

	assert.Equal(t, maxSeed+1, p1.ID)
	assert.Equal(t, maxSeed+2, p2.ID)
}

func TestDeletedIDIsNeverReused(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p1, err := s.Add(ctx, AddInput{Name: "A", Price: "10.00"})
	require.NoError(t, err)

	// p1 holds the highest id; with a max-based allocator deleting it
	// would hand the same id to the next product.
	require.NoError(t, s.Delete(ctx, p1.ID))

	p2, err := s.Add(ctx, AddInput{Name: "B", Price: "10.00"})
	require.NoError(t, err)
	assert.Greater(t, p2.ID, p1.ID)
}

func TestUpdate_ShallowMerge(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p, err := s.Add(ctx, AddInput{Name: "Original", Price: "10.00", Category: "Running"})
	require.NoError(t, err)

	newName := "Renamed"
	newPrice := "12.5"
	updated, err := s.Update(ctx, p.ID, Patch{Name: &newName, Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "12.50", updated.Price)
	assert.Equal(t, "Running", updated.Category)
	assert.Equal(t, p.Stock, updated.Stock)
}

func TestUpdate_InvalidPriceLeavesProductUntouched(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	p, err := s.Add(ctx, AddInput{Name: "Original", Price: "10.00", Category: "Running"})
	require.NoError(t, err)

	newName := "Renamed"
	badPrice := "not-a-price"
	_, err = s.Update(ctx, p.ID, Patch{Name: &newName, Price: &badPrice})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	got, err := s.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// an unrelated mutation re-persists the list; the rejected patch must
	// not ride along
	_, err = s.Add(ctx, AddInput{Name: "Bystander", Price: "5.00"})
	require.NoError(t, err)

	reloaded := New(kv, testLogger())
	got, err = reloaded.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Name)
	assert.Equal(t, "10.00", got.Price)
}

func TestUpdate_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Update(context.Background(), 99999, Patch{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p, err := s.Add(ctx, AddInput{Name: "Doomed", Price: "10.00"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, p.ID))
	_, err = s.Get(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestByCategory(t *testing.T) {
	s, _ := newTestStore(t)

	all := s.All()
	assert.Equal(t, all, s.ByCategory("All"))

	running := s.ByCategory("Running")
	require.NotEmpty(t, running)
	for _, p := range running {
		assert.Equal(t, "Running", p.Category)
	}
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	s, _ := newTestStore(t)

	hits := s.Search("pEgAsUs")
	require.NotEmpty(t, hits)
	assert.Equal(t, "Air Zoom Pegasus 41", hits[0].Name)

	// Category text matches too.
	assert.NotEmpty(t, s.Search("lifestyle"))
	assert.Empty(t, s.Search("no-such-sneaker-exists"))
}

func TestPersistenceRoundTrip(t *testing.T) {
	kv := kvstore.NewMemory()
	s := New(kv, testLogger())
	_, err := s.Add(context.Background(), AddInput{Name: "Keeper", Price: "75.00", Category: "Trail"})
	require.NoError(t, err)

	restored := New(kv, testLogger())
	require.Equal(t, s.All(), restored.All())
}
