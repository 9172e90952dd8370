package translate

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// implements Translator using Google Gemini
type GeminiTranslator struct {
	batchTranslator
	client *genai.Client
	model  string
}

func NewGeminiTranslator(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*GeminiTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	t := &GeminiTranslator{
		client: client,
		model:  model,
	}
	t.batchTranslator = newBatchTranslator("Gemini", t, opts)
	return t, nil
}

func (t *GeminiTranslator) complete(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts(
			[]*genai.Part{genai.NewPartFromText(prompt)},
			genai.RoleUser,
		),
	}

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", err
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	return sb.String(), nil
}

func (t *GeminiTranslator) Close() error {
	return nil
}
