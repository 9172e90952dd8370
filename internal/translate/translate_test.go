package translate

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestFactoryReturnsGeminiTranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "Japanese"}
	translator, err := Factory(ctx, ProviderGemini, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderGemini) returned error: %v", err)
	}
	if _, ok := translator.(*GeminiTranslator); !ok {
		t.Errorf("expected *GeminiTranslator, got %T", translator)
	}
}

func TestFactoryReturnsOpenAITranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "Spanish"}
	translator, err := Factory(ctx, ProviderOpenAI, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderOpenAI) returned error: %v", err)
	}
	if _, ok := translator.(*OpenAITranslator); !ok {
		t.Errorf("expected *OpenAITranslator, got %T", translator)
	}
}

func TestFactoryReturnsAnthropicTranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "French"}
	translator, err := Factory(ctx, ProviderAnthropic, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderAnthropic) returned error: %v", err)
	}
	if _, ok := translator.(*AnthropicTranslator); !ok {
		t.Errorf("expected *AnthropicTranslator, got %T", translator)
	}
}

func TestFactoryRequiresTargetLanguage(t *testing.T) {
	ctx := context.Background()
	opts := Options{} // no TargetLanguage
	_, err := Factory(ctx, ProviderGemini, "fake-key", opts)
	if err == nil {
		t.Error("expected error for missing target language")
	}
}

func TestFactoryRequiresAPIKey(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "German"}
	for _, provider := range []Provider{ProviderGemini, ProviderOpenAI, ProviderAnthropic} {
		if _, err := Factory(ctx, provider, "", opts); err == nil {
			t.Errorf("%s: expected error for missing API key", provider)
		}
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "French"}
	_, err := Factory(ctx, Provider("unknown"), "fake-key", opts)
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestProvidersImplementConcurrentTranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "Korean"}
	for _, provider := range []Provider{ProviderGemini, ProviderOpenAI, ProviderAnthropic} {
		translator, err := Factory(ctx, provider, "fake-key", opts)
		if err != nil {
			t.Fatalf("Factory(%s) error: %v", provider, err)
		}
		if _, ok := translator.(ConcurrentTranslator); !ok {
			t.Errorf("%T should implement ConcurrentTranslator", translator)
		}
	}
}

func TestValidateModel(t *testing.T) {
	tests := []struct {
		provider Provider
		model    string
		wantErr  bool
	}{
		{ProviderGemini, "", false},
		{ProviderGemini, "gemini-2.5-flash", false},
		{ProviderGemini, "gpt-5", true},
		{ProviderOpenAI, "gpt-5-mini", false},
		{ProviderAnthropic, "claude-haiku-4-5", false},
		{ProviderAnthropic, "claude-2", true},
		{Provider("other"), "model", true},
	}

	for _, tt := range tests {
		err := ValidateModel(tt.provider, tt.model)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateModel(%s, %q) error = %v, wantErr %v", tt.provider, tt.model, err, tt.wantErr)
		}
	}
}

func TestLanguageName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"ja", "Japanese"},
		{"en", "English"},
		{"japanese", "Japanese"},
		{"brazilian portuguese", "Brazilian Portuguese"},
	}

	for _, tt := range tests {
		if got := LanguageName(tt.input); got != tt.want {
			t.Errorf("LanguageName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if got := LanguageName("pt-BR"); !strings.Contains(got, "Portuguese") {
		t.Errorf("LanguageName(pt-BR) = %q, want a Portuguese variant", got)
	}
}

func TestSameLanguage(t *testing.T) {
	if !SameLanguage("ja", "Japanese") {
		t.Error("ja and Japanese should match")
	}
	if !SameLanguage(" english ", "EN") {
		t.Error("english and EN should match")
	}
	if SameLanguage("en", "es") {
		t.Error("en and es should not match")
	}
}

func TestBuildPrompt(t *testing.T) {
	opts := Options{
		InputLanguage:  "English",
		TargetLanguage: "Japanese",
	}

	items := []TranslationItem{
		{Index: 0, Text: "Hello world"},
		{Index: 1, Text: "Goodbye"},
	}

	prompt := BuildPrompt(opts, items)

	if !strings.Contains(prompt, "English subtitle texts") {
		t.Error("prompt should contain input language")
	}
	if !strings.Contains(prompt, "to Japanese") {
		t.Error("prompt should contain target language")
	}
	if !strings.Contains(prompt, "Hello world") {
		t.Error("prompt should contain input text")
	}
	if !strings.Contains(prompt, `"index": 0`) {
		t.Error("prompt should contain index")
	}
}

func TestBuildPromptExpandsLanguageCodes(t *testing.T) {
	prompt := BuildPrompt(
		Options{InputLanguage: "en", TargetLanguage: "ja", Prompt: "Use polite forms."},
		[]TranslationItem{{Index: 0, Text: "Hi"}},
	)

	if !strings.Contains(prompt, "English subtitle texts to Japanese") {
		t.Errorf("expected language names in prompt, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Additional instructions: Use polite forms.") {
		t.Error("prompt should contain additional instructions")
	}
}

func TestBuildPromptWithoutInputLanguage(t *testing.T) {
	opts := Options{
		TargetLanguage: "Spanish",
	}

	items := []TranslationItem{
		{Index: 0, Text: "Hello"},
	}

	prompt := BuildPrompt(opts, items)

	if strings.Contains(prompt, "English") {
		t.Error("prompt should not contain input language when not specified")
	}
	if !strings.Contains(prompt, "to Spanish") {
		t.Error("prompt should contain target language")
	}
}

// Integration test: only runs if OPENAI_API_KEY is set
func TestOpenAITranslatorIntegration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set; skipping integration test")
	}

	ctx := context.Background()
	opts := Options{TargetLanguage: "Spanish"}
	translator, err := NewOpenAITranslator(ctx, apiKey, opts)
	if err != nil {
		t.Fatalf("NewOpenAITranslator error: %v", err)
	}

	items := []TranslationItem{
		{Index: 0, Text: "Hello"},
		{Index: 1, Text: "Goodbye"},
	}

	results, err := translator.Translate(ctx, items)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Text == "" {
			t.Errorf("result index %d has empty text", r.Index)
		}
	}
}
