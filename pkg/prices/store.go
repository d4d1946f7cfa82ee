package prices

import (
	"context"
	"encoding/json"

	"github.com/mydressline-hue/stockpile/pkg/cache"
	"github.com/mydressline-hue/stockpile/pkg/errors"
	"github.com/mydressline-hue/stockpile/pkg/observability"
)

// keyType tags cache hook events from this store.
const keyType = "prices"

// Store persists a source's catalog snapshot through a byte cache.
type Store struct {
	cache cache.Cache
}

// NewStore wraps a cache backend as a price-record store.
func NewStore(c cache.Cache) *Store {
	return &Store{cache: c}
}

// Load reads the snapshot for a source. A cold cache yields no records and
// no error; expansion then falls back to per-variant prices.
func (s *Store) Load(ctx context.Context, sourceID string) ([]Record, error) {
	data, found, err := s.cache.Get(ctx, cache.PriceRecordsKey(sourceID))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "loading price records for %s", sourceID)
	}
	if !found {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, nil
	}
	observability.Cache().OnCacheHit(ctx, keyType)

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decoding price records for %s", sourceID)
	}
	return records, nil
}

// Save writes the snapshot for a source with the price-record TTL.
func (s *Store) Save(ctx context.Context, sourceID string, records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "encoding price records for %s", sourceID)
	}
	if err := s.cache.Set(ctx, cache.PriceRecordsKey(sourceID), data, cache.TTLPriceRecords); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "saving price records for %s", sourceID)
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
	return nil
}
