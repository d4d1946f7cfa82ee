package colors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mydressline-hue/stockpile/pkg/inventory"
)

// mapCache is a minimal in-memory cache backend for tests.
type mapCache struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = data
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *mapCache) Close() error { return nil }

// fakeSuggester returns canned suggestions or a fixed error.
type fakeSuggester struct {
	suggestions []Suggestion
	err         error
	calls       int
	lastCodes   []string
}

func (f *fakeSuggester) Suggest(_ context.Context, codes []string) ([]Suggestion, error) {
	f.calls++
	f.lastCodes = codes
	return f.suggestions, f.err
}

func batch(colorValues ...string) []*inventory.Variant {
	variants := make([]*inventory.Variant, len(colorValues))
	for i, c := range colorValues {
		variants[i] = &inventory.Variant{Style: "100", Color: c, Size: "6"}
	}
	return variants
}

func TestCorrector_Correct(t *testing.T) {
	suggester := &fakeSuggester{
		suggestions: []Suggestion{
			{BadColor: "IVR", GoodColor: "Ivory", Confidence: 0.95},
			{BadColor: "CHMP", GoodColor: "Champagne", Confidence: 0.4}, // below floor
		},
	}
	corrector := NewCorrector(NewStore(newMapCache()), suggester, nil)

	variants := batch("IVR", "Black", "CHMP", "ivr")
	stats, err := corrector.Correct(context.Background(), variants)
	if err != nil {
		t.Fatalf("Correct() error = %v", err)
	}

	if stats.SuspectCodes != 2 {
		t.Errorf("SuspectCodes = %d, want 2", stats.SuspectCodes)
	}
	if stats.NewMappings != 1 {
		t.Errorf("NewMappings = %d, want 1 (low confidence discarded)", stats.NewMappings)
	}
	if stats.Corrected != 2 {
		t.Errorf("Corrected = %d, want 2 (both IVR spellings)", stats.Corrected)
	}

	if variants[0].Color != "Ivory" || variants[3].Color != "Ivory" {
		t.Errorf("colors = %q, %q, want Ivory", variants[0].Color, variants[3].Color)
	}
	if variants[1].Color != "Black" || variants[2].Color != "CHMP" {
		t.Errorf("untouched colors changed: %q, %q", variants[1].Color, variants[2].Color)
	}
}

func TestCorrector_PersistedMappingSkipsService(t *testing.T) {
	cache := newMapCache()
	store := NewStore(cache)

	suggester := &fakeSuggester{
		suggestions: []Suggestion{{BadColor: "IVR", GoodColor: "Ivory", Confidence: 0.9}},
	}
	corrector := NewCorrector(store, suggester, nil)

	if _, err := corrector.Correct(context.Background(), batch("IVR")); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	// Second pass finds the mapping in the store and sends no codes.
	stats, err := corrector.Correct(context.Background(), batch("IVR"))
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if stats.SuspectCodes != 0 {
		t.Errorf("SuspectCodes = %d, want 0", stats.SuspectCodes)
	}
	if suggester.calls != 1 {
		t.Errorf("suggester called %d times, want 1", suggester.calls)
	}
	if stats.Corrected != 1 {
		t.Errorf("Corrected = %d, want 1", stats.Corrected)
	}
}

func TestCorrector_SuggestionFailureFailsOpen(t *testing.T) {
	suggester := &fakeSuggester{err: errors.New("service down")}
	corrector := NewCorrector(NewStore(newMapCache()), suggester, nil)

	variants := batch("IVR")
	stats, err := corrector.Correct(context.Background(), variants)
	if err != nil {
		t.Fatalf("Correct() must fail open, got %v", err)
	}
	if stats.NewMappings != 0 || stats.Corrected != 0 {
		t.Errorf("stats = %+v, want zero mappings and corrections", stats)
	}
	if variants[0].Color != "IVR" {
		t.Errorf("color = %q, want untouched IVR", variants[0].Color)
	}
}

func TestCorrector_CacheReadFailureIsFatal(t *testing.T) {
	cache := newMapCache()
	cache.getErr = errors.New("backend down")
	corrector := NewCorrector(NewStore(cache), &fakeSuggester{}, nil)

	if _, err := corrector.Correct(context.Background(), batch("IVR")); err == nil {
		t.Fatal("Correct() must propagate cache read failures")
	}
}
