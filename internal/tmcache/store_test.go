package tmcache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/egemengol/subtitles/internal/translate"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache", "tm.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreGetPut(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	key := Key{Provider: "gemini", Model: "gemini-2.5-flash", TargetLanguage: "ja", Text: "Hello"}

	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected miss on empty store, got ok=%v err=%v", ok, err)
	}

	if err := store.Put(ctx, key, "こんにちは"); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	got, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got != "こんにちは" {
		t.Errorf("got %q", got)
	}

	// replace
	if err := store.Put(ctx, key, "やあ"); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	got, _, _ = store.Get(ctx, key)
	if got != "やあ" {
		t.Errorf("expected replaced translation, got %q", got)
	}

	if n, err := store.Len(ctx); err != nil || n != 1 {
		t.Errorf("Len = %d, %v; want 1", n, err)
	}
}

func TestStoreKeysAreScoped(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := Key{Provider: "openai", Model: "gpt-5-mini", TargetLanguage: "es", Text: "Goodbye"}
	if err := store.Put(ctx, base, "Adiós"); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	others := []Key{
		{Provider: "gemini", Model: base.Model, TargetLanguage: base.TargetLanguage, Text: base.Text},
		{Provider: base.Provider, Model: "gpt-5", TargetLanguage: base.TargetLanguage, Text: base.Text},
		{Provider: base.Provider, Model: base.Model, TargetLanguage: "fr", Text: base.Text},
		{Provider: base.Provider, Model: base.Model, TargetLanguage: base.TargetLanguage, Text: "Goodbye!"},
	}
	for _, key := range others {
		if _, ok, _ := store.Get(ctx, key); ok {
			t.Errorf("unexpected hit for %+v", key)
		}
	}

	caseVariant := base
	caseVariant.Provider = "OpenAI"
	caseVariant.TargetLanguage = "ES"
	if _, ok, _ := store.Get(ctx, caseVariant); !ok {
		t.Error("provider and language should match case-insensitively")
	}
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tm.db")
	key := Key{Provider: "anthropic", Model: "m", TargetLanguage: "de", Text: "Thanks"}

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := store.Put(ctx, key, "Danke"); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()
	if got, ok, _ := reopened.Get(ctx, key); !ok || got != "Danke" {
		t.Errorf("expected persisted translation, got %q ok=%v", got, ok)
	}

	if err := reopened.Purge(ctx); err != nil {
		t.Fatalf("Purge returned error: %v", err)
	}
	if n, _ := reopened.Len(ctx); n != 0 {
		t.Errorf("expected empty store after purge, got %d", n)
	}
}

type fakeTranslator struct {
	calls [][]translate.TranslationItem
	err   error
}

func (f *fakeTranslator) Translate(
	ctx context.Context,
	items []translate.TranslationItem,
) ([]translate.TranslationResult, error) {
	f.calls = append(f.calls, items)
	if f.err != nil {
		return nil, f.err
	}
	results := make([]translate.TranslationResult, len(items))
	for i, item := range items {
		results[i] = translate.TranslationResult{Index: item.Index, Text: "[es] " + item.Text}
	}
	return results, nil
}

func TestCachedForwardsOnlyMisses(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	fake := &fakeTranslator{}
	cached := NewCached(fake, store, "gemini", "gemini-2.5-flash", "es")

	items := []translate.TranslationItem{
		{Index: 0, Text: "Hello"},
		{Index: 1, Text: "World"},
	}
	first, err := cached.Translate(ctx, items)
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if len(first) != 2 || first[1].Text != "[es] World" {
		t.Fatalf("unexpected results %+v", first)
	}

	more := []translate.TranslationItem{
		{Index: 0, Text: "World"},
		{Index: 1, Text: "Again"},
		{Index: 2, Text: "Hello"},
	}
	second, err := cached.TranslateWithConcurrency(ctx, more, 2)
	if err != nil {
		t.Fatalf("TranslateWithConcurrency returned error: %v", err)
	}

	if len(fake.calls) != 2 {
		t.Fatalf("expected 2 forwarded calls, got %d", len(fake.calls))
	}
	if len(fake.calls[1]) != 1 || fake.calls[1][0].Text != "Again" {
		t.Errorf("expected only the miss to be forwarded, got %+v", fake.calls[1])
	}

	want := []string{"[es] World", "[es] Again", "[es] Hello"}
	for i, r := range second {
		if r.Index != i || r.Text != want[i] {
			t.Errorf("result %d: got %+v, want index %d text %q", i, r, i, want[i])
		}
	}

	hits, misses := cached.Stats()
	if hits != 2 || misses != 3 {
		t.Errorf("Stats() = %d hits, %d misses; want 2, 3", hits, misses)
	}
}

func TestCachedPropagatesErrors(t *testing.T) {
	store := openTestStore(t)
	boom := errors.New("quota exceeded")
	cached := NewCached(&fakeTranslator{err: boom}, store, "openai", "", "fr")

	_, err := cached.Translate(context.Background(), []translate.TranslationItem{{Index: 0, Text: "Hi"}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped translator error, got %v", err)
	}
	if n, _ := store.Len(context.Background()); n != 0 {
		t.Errorf("failed translation should not be cached, got %d rows", n)
	}
}

func TestCachedSkipsForwardingWhenAllHit(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	key := Key{Provider: "gemini", Model: "m", TargetLanguage: "it", Text: "Ciao"}
	if err := store.Put(ctx, key, "Ciao!"); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	fake := &fakeTranslator{}
	cached := NewCached(fake, store, "gemini", "m", "it")
	results, err := cached.Translate(ctx, []translate.TranslationItem{{Index: 4, Text: "Ciao"}})
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("expected no forwarded calls, got %d", len(fake.calls))
	}
	if len(results) != 1 || results[0].Index != 4 || results[0].Text != "Ciao!" {
		t.Errorf("unexpected results %+v", results)
	}
}
