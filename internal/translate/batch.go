package translate

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// completer sends one prompt to a model and returns its text reply.
type completer interface {
	complete(ctx context.Context, prompt string) (string, error)
}

// batchTranslator holds the batching and worker pool shared by every
// provider. Providers only supply the completer.
type batchTranslator struct {
	name    string
	llm     completer
	options Options
}

func newBatchTranslator(name string, llm completer, opts Options) batchTranslator {
	return batchTranslator{name: name, llm: llm, options: opts}
}

func (t *batchTranslator) batchSize() int {
	if t.options.BatchSize > 0 {
		return t.options.BatchSize
	}
	return DefaultBatchSize
}

func (t *batchTranslator) batches(items []TranslationItem) [][]TranslationItem {
	size := t.batchSize()
	var batches [][]TranslationItem
	for i := 0; i < len(items); i += size {
		end := min(i+size, len(items))
		batches = append(batches, items[i:end])
	}
	return batches
}

func (t *batchTranslator) Translate(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error) {
	if len(items) == 0 {
		return []TranslationResult{}, nil
	}

	var allResults []TranslationResult
	for i, batch := range t.batches(items) {
		results, err := t.translateBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("batch %d failed: %w", i, err)
		}
		allResults = append(allResults, results...)
	}

	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Index < allResults[j].Index
	})

	return allResults, nil
}

// Items are split into batches of BatchSize (default 50). Each batch becomes
// one API request. Workers (up to concurrency) pull batches from a shared queue.
func (t *batchTranslator) TranslateWithConcurrency(
	ctx context.Context,
	items []TranslationItem,
	concurrency int,
) ([]TranslationResult, error) {
	if len(items) == 0 {
		return []TranslationResult{}, nil
	}

	if concurrency <= 0 {
		concurrency = 3
	}

	batches := t.batches(items)
	if len(batches) == 1 {
		return t.translateBatch(ctx, batches[0])
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type batchResult struct {
		Index   int
		Results []TranslationResult
		Error   error
	}

	workChan := make(chan int)
	resultChan := make(chan batchResult, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(batches); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case batchIdx, ok := <-workChan:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					results, err := t.translateBatch(ctx, batches[batchIdx])
					if err != nil {
						cancel()
					}
					resultChan <- batchResult{
						Index:   batchIdx,
						Results: results,
						Error:   err,
					}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for i := range batches {
			select {
			case <-ctx.Done():
				return
			case workChan <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var allResults []TranslationResult
	var firstErr error
	completed := 0
	for result := range resultChan {
		if result.Error != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf(
					"batch %d failed: %w",
					result.Index,
					result.Error,
				)
			}
			continue
		}
		completed++
		allResults = append(allResults, result.Results...)
	}

	if firstErr != nil {
		return nil, firstErr
	}
	// the parent context was cancelled before every batch ran
	if completed != len(batches) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("translation interrupted: %w", err)
		}
		return nil, fmt.Errorf("translation interrupted after %d of %d batches", completed, len(batches))
	}

	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Index < allResults[j].Index
	})

	return allResults, nil
}

func (t *batchTranslator) translateBatch(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error) {
	prompt := BuildPrompt(t.options, items)

	responseText, err := t.llm.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}
	if responseText == "" {
		return nil, fmt.Errorf("no text in %s response", t.name)
	}

	return parseResponse(responseText, items)
}
