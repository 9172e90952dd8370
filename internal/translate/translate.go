package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// single text item to translate
type TranslationItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translated text item
type TranslationResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// interface for text translation
type Translator interface {
	Translate(
		ctx context.Context,
		items []TranslationItem,
	) ([]TranslationResult, error)
}

// optional interface for translators that support concurrent batch processing
type ConcurrentTranslator interface {
	Translator
	TranslateWithConcurrency(
		ctx context.Context,
		items []TranslationItem,
		concurrency int,
	) ([]TranslationResult, error)
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

const DefaultBatchSize = 50

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // items per API request (default 50)
}

var knownModels = map[Provider][]string{
	ProviderGemini: {
		"gemini-3-pro-preview",
		"gemini-3-flash-preview",
		"gemini-2.5-pro",
		"gemini-2.5-flash",
		"gemini-2.5-flash-lite",
	},
	ProviderOpenAI: {
		"o1", "o3-mini", "o1-pro", "o3",
		"gpt-5", "gpt-5-nano", "gpt-5-mini", "gpt-5-pro",
		"gpt-5.1", "gpt-5.2", "gpt-5.2-pro",
	},
	ProviderAnthropic: {
		"claude-haiku-4-5",
		"claude-sonnet-4-5",
		"claude-opus-4-1",
	},
}

// ValidateModel rejects models the provider is not known to serve. An empty
// model selects the provider default and is always valid.
func ValidateModel(provider Provider, model string) error {
	if model == "" {
		return nil
	}
	models, ok := knownModels[provider]
	if !ok {
		return fmt.Errorf("unsupported translation provider: %s", provider)
	}
	if !slices.Contains(models, model) {
		return fmt.Errorf(
			"unsupported %s model %q: valid models are %s (use --model-override to bypass)",
			provider,
			model,
			strings.Join(models, ", "),
		)
	}
	return nil
}

// creates Translator based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiTranslator(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranslator(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicTranslator(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

// LanguageName turns a BCP 47 code such as "ja" or "pt-BR" into its English
// name. Anything that is not a short code is returned title-cased.
func LanguageName(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ""
	}
	if looksLikeLanguageCode(lang) {
		if tag, err := language.Parse(lang); err == nil {
			if name := display.English.Tags().Name(tag); name != "" {
				return name
			}
		}
	}
	return cases.Title(language.Und).String(lang)
}

func looksLikeLanguageCode(s string) bool {
	if strings.ContainsAny(s, " \t") {
		return false
	}
	primary, _, _ := strings.Cut(strings.ReplaceAll(s, "_", "-"), "-")
	return len(primary) >= 2 && len(primary) <= 3
}

// SameLanguage reports whether two user-supplied language names refer to
// the same language.
func SameLanguage(a, b string) bool {
	return strings.EqualFold(LanguageName(a), LanguageName(b))
}

// BuildPrompt creates the translation prompt for LLM providers
func BuildPrompt(opts Options, items []TranslationItem) string {
	var sb strings.Builder

	target := LanguageName(opts.TargetLanguage)
	if opts.InputLanguage != "" {
		sb.WriteString(fmt.Sprintf(
			"Translate the following %s subtitle texts to %s.\n\n",
			LanguageName(opts.InputLanguage),
			target,
		))
	} else {
		sb.WriteString(fmt.Sprintf(
			"Translate the following subtitle texts to %s.\n\n",
			target,
		))
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString(
		"1. Translate ONLY the text content, preserving the meaning.\n",
	)
	sb.WriteString(
		"2. Keep any markup tags (like <i>, <b>, <v Speaker>) unchanged.\n",
	)
	sb.WriteString("3. Preserve line breaks (\\n) in the same positions.\n")
	sb.WriteString("4. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("5. Each object must have 'index' and 'text' fields.\n")
	sb.WriteString(
		"6. The 'index' values must match the input indices exactly.\n",
	)
	sb.WriteString("7. Do not add any explanation or markdown formatting.\n\n")

	if opts.Prompt != "" {
		sb.WriteString(
			fmt.Sprintf("Additional instructions: %s\n\n", opts.Prompt),
		)
	}

	sb.WriteString("Input JSON:\n")

	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)

	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}
