// Package collection implements the seed-or-restore pattern shared by every
// persisted store: read the list back from the key-value store, fall back to
// the embedded fixture when nothing usable is persisted, normalize, and
// write the result back.
package collection

import (
	"encoding/json"
	"log/slog"

	"github.com/sneakershub/storefront/internal/kvstore"
)

// Load restores the list persisted under key. A missing key, an empty list
// and unreadable content all degrade to the seed fixture rather than
// failing startup. normalize, when non-nil, runs once per record and the
// normalized list is persisted immediately, so backfills (random stock,
// ratings, fallback dates) stay stable across restarts.
func Load[T any](kv kvstore.Store, log *slog.Logger, key string, seed []byte, normalize func(*T)) []T {
	items, ok := restore[T](kv, log, key)
	if !ok {
		items = fromSeed[T](log, key, seed)
	}
	for i := range items {
		if normalize != nil {
			normalize(&items[i])
		}
	}
	Save(kv, log, key, items)
	return items
}

// Save serializes the full list under key. Write failures are logged and
// swallowed: the in-memory list stays authoritative for the session.
func Save[T any](kv kvstore.Store, log *slog.Logger, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		log.Error("persist_marshal_failed", "key", key, "error", err)
		return
	}
	if err := kv.Set(key, string(data)); err != nil {
		log.Error("persist_write_failed", "key", key, "error", err)
	}
}

func restore[T any](kv kvstore.Store, log *slog.Logger, key string) ([]T, bool) {
	raw, found, err := kv.Get(key)
	if err != nil {
		log.Error("persist_read_failed", "key", key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Error("persist_corrupt", "key", key, "error", err)
		return nil, false
	}
	if len(items) == 0 {
		return nil, false
	}
	return items, true
}

func fromSeed[T any](log *slog.Logger, key string, seed []byte) []T {
	var items []T
	if len(seed) == 0 {
		return []T{}
	}
	if err := json.Unmarshal(seed, &items); err != nil {
		log.Error("seed_corrupt", "key", key, "error", err)
		return []T{}
	}
	return items
}
