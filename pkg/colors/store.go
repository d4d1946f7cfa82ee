package colors

import (
	"context"
	"encoding/json"

	"github.com/mydressline-hue/stockpile/pkg/cache"
	"github.com/mydressline-hue/stockpile/pkg/errors"
	"github.com/mydressline-hue/stockpile/pkg/observability"
)

// keyType tags cache hook events from this store.
const keyType = "colors"

// Store persists the color-mapping table through a byte cache. Reads on a
// cold cache return an empty mapping; storage errors propagate because a
// silently lost table would re-trigger remote suggestions on every import.
type Store struct {
	cache cache.Cache
}

// NewStore wraps a cache backend as a mapping store.
func NewStore(c cache.Cache) *Store {
	return &Store{cache: c}
}

// Load reads the mapping table. A missing key yields an empty, usable
// mapping.
func (s *Store) Load(ctx context.Context) (Mapping, error) {
	data, found, err := s.cache.Get(ctx, cache.ColorMappingKey())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "loading color mappings")
	}
	if !found {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return Mapping{}, nil
	}
	observability.Cache().OnCacheHit(ctx, keyType)

	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decoding color mappings")
	}
	return m, nil
}

// Save writes the mapping table back.
func (s *Store) Save(ctx context.Context, m Mapping) error {
	data, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "encoding color mappings")
	}
	if err := s.cache.Set(ctx, cache.ColorMappingKey(), data, cache.TTLColorMapping); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "saving color mappings")
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
	return nil
}
