package tmcache

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/egemengol/subtitles/internal/translate"
)

// Cached serves translations from a Store and forwards only the misses to
// the wrapped translator. Fresh results are written back to the store.
type Cached struct {
	next   translate.Translator
	store  *Store
	key    Key
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCached wraps next. provider, model and target language become part of
// every cache key.
func NewCached(next translate.Translator, store *Store, provider, model, targetLanguage string) *Cached {
	return &Cached{
		next:  next,
		store: store,
		key: Key{
			Provider:       provider,
			Model:          model,
			TargetLanguage: targetLanguage,
		},
	}
}

// Stats reports cache hits and misses since construction.
func (c *Cached) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *Cached) Translate(
	ctx context.Context,
	items []translate.TranslationItem,
) ([]translate.TranslationResult, error) {
	return c.translate(ctx, items, func(missing []translate.TranslationItem) ([]translate.TranslationResult, error) {
		return c.next.Translate(ctx, missing)
	})
}

func (c *Cached) TranslateWithConcurrency(
	ctx context.Context,
	items []translate.TranslationItem,
	concurrency int,
) ([]translate.TranslationResult, error) {
	return c.translate(ctx, items, func(missing []translate.TranslationItem) ([]translate.TranslationResult, error) {
		if ct, ok := c.next.(translate.ConcurrentTranslator); ok {
			return ct.TranslateWithConcurrency(ctx, missing, concurrency)
		}
		return c.next.Translate(ctx, missing)
	})
}

func (c *Cached) translate(
	ctx context.Context,
	items []translate.TranslationItem,
	forward func([]translate.TranslationItem) ([]translate.TranslationResult, error),
) ([]translate.TranslationResult, error) {
	results := make([]translate.TranslationResult, 0, len(items))
	var missing []translate.TranslationItem
	sources := make(map[int]string, len(items))

	for _, item := range items {
		text, ok, err := c.store.Get(ctx, c.keyFor(item.Text))
		if err != nil {
			return nil, err
		}
		if ok {
			c.hits.Add(1)
			results = append(results, translate.TranslationResult{Index: item.Index, Text: text})
			continue
		}
		c.misses.Add(1)
		missing = append(missing, item)
		sources[item.Index] = item.Text
	}

	if len(missing) > 0 {
		fresh, err := forward(missing)
		if err != nil {
			return nil, err
		}
		for _, r := range fresh {
			source, ok := sources[r.Index]
			if !ok || r.Text == "" {
				continue
			}
			if err := c.store.Put(ctx, c.keyFor(source), r.Text); err != nil {
				return nil, fmt.Errorf("cache translation %d: %w", r.Index, err)
			}
		}
		results = append(results, fresh...)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})
	return results, nil
}

func (c *Cached) keyFor(text string) Key {
	key := c.key
	key.Text = text
	return key
}
