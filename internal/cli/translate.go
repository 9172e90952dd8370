package cli

import (
	"fmt"
	"io"

	"github.com/egemengol/subtitles/internal/config"
	"github.com/egemengol/subtitles/internal/subtitle"
	"github.com/egemengol/subtitles/internal/tmcache"
	"github.com/egemengol/subtitles/internal/translate"
	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate [vtt_file]",
	Short: "Translate subtitles to another language using AI",
	Long: `Translate the cue text of a WebVTT file to another language using AI.

Cue timings and identifiers are preserved; only the text is translated.
The output format follows the extension of --output and defaults to WebVTT.

The --overlay flag creates bilingual subtitles with the translated text
first, followed by the original text on the next lines.

Translations are remembered in a local cache, so re-running a partly
translated file only sends the cues that were not translated before.

Examples:
  subtitles translate movie.vtt --target-language japanese
  subtitles translate movie.vtt --target-language ja --overlay
  subtitles translate movie.vtt -l en -t es --provider anthropic -o movie.es.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)
	addTranslateFlags(translateCmd)
}

func addTranslateFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	cmd.Flags().
		Bool("overlay", false, "Overlay translated text with original (bilingual subtitles)")
	cmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY)")
	cmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	cmd.Flags().
		Bool("model-override", false, "Allow any custom model, bypassing provider model validation")
	cmd.Flags().
		String("provider", "", "Translation provider (gemini, openai, anthropic)")
	cmd.Flags().
		Int("concurrency", 0, "Number of parallel translation workers")
	cmd.Flags().
		Int("batch-size", 0, "Number of cues per API request")
	cmd.Flags().
		String("prompt", "", "Additional instructions for the translation model")
	cmd.Flags().
		Bool("no-cache", false, "Do not read or write the translation cache")
	addParseFlags(cmd)

	_ = cmd.MarkFlagRequired("target-language")
}

// translateSettings is the merge of config values and explicit flags.
type translateSettings struct {
	provider      translate.Provider
	apiKey        string
	model         string
	modelOverride bool
	concurrency   int
	batchSize     int
	useCache      bool
}

func resolveTranslateSettings(cmd *cobra.Command, c *config.Config) (translateSettings, error) {
	flags := cmd.Flags()
	s := translateSettings{
		provider:    translate.Provider(c.Translate.Provider),
		model:       c.Translate.Model,
		concurrency: c.Translate.Concurrency,
		batchSize:   c.Translate.BatchSize,
		useCache:    c.Cache.Enabled,
	}

	if flags.Changed("provider") {
		providerStr, _ := flags.GetString("provider")
		s.provider = translate.Provider(providerStr)
	}
	if flags.Changed("model") {
		s.model, _ = flags.GetString("model")
	}
	if flags.Changed("concurrency") {
		s.concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("batch-size") {
		s.batchSize, _ = flags.GetInt("batch-size")
	}
	s.modelOverride, _ = flags.GetBool("model-override")
	if noCache, _ := flags.GetBool("no-cache"); noCache {
		s.useCache = false
	}

	s.apiKey, _ = flags.GetString("api-key")
	if s.apiKey == "" {
		s.apiKey = c.APIKey(string(s.provider))
	}
	if s.apiKey == "" {
		return s, fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			config.APIKeyEnv(string(s.provider)),
		)
	}

	if !s.modelOverride {
		if err := translate.ValidateModel(s.provider, s.model); err != nil {
			return s, err
		}
	}

	if s.concurrency <= 0 {
		return s, fmt.Errorf("concurrency must be positive, got %d", s.concurrency)
	}
	if s.batchSize <= 0 {
		return s, fmt.Errorf("batch-size must be positive, got %d", s.batchSize)
	}
	return s, nil
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := cmd.Context()

	targetLang, _ := cmd.Flags().GetString("target-language")
	overlay, _ := cmd.Flags().GetBool("overlay")
	prompt, _ := cmd.Flags().GetString("prompt")
	outputPath, _ := cmd.Flags().GetString("output")
	inputLang, _ := cmd.Flags().GetString("language")

	if targetLang == "" {
		return fmt.Errorf("target language is required")
	}
	if inputLang != "" && translate.SameLanguage(inputLang, targetLang) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}

	settings, err := resolveTranslateSettings(cmd, cfg)
	if err != nil {
		return err
	}

	if outputPath == "" {
		if overlay {
			outputPath = outputPathFor(subtitlePath, subtitle.FormatVTT, targetLang, "overlay")
		} else {
			outputPath = outputPathFor(subtitlePath, subtitle.FormatVTT, targetLang)
		}
	}
	outputFormat := subtitle.GetFormatFromExtension(outputPath)

	logger.Infow("Starting subtitle translation",
		"input", subtitlePath,
		"output", outputPath,
		"target_language", targetLang,
		"input_language", inputLang,
		"overlay", overlay,
		"provider", settings.provider,
		"model", settings.model,
	)

	subFile, err := openSubtitle(subtitlePath, parseOptions(cmd))
	if err != nil {
		return err
	}
	doc := subFile.Document()
	if len(doc.Cues) == 0 {
		return fmt.Errorf("subtitle file contains no cues")
	}

	opts := translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          settings.model,
		Prompt:         prompt,
		BatchSize:      settings.batchSize,
	}

	translator, err := translate.Factory(ctx, settings.provider, settings.apiKey, opts)
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}
	if closer, ok := translator.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	var cached *tmcache.Cached
	switch {
	case !settings.useCache:
		logger.Debugw("Translation cache disabled")
	case prompt != "":
		logger.Debugw("Translation cache skipped for custom prompt")
	default:
		store, err := tmcache.Open(cfg.Cache.Path)
		if err != nil {
			logger.Warnw("Translation cache unavailable",
				"path", cfg.Cache.Path,
				"error", err,
			)
			break
		}
		defer func() { _ = store.Close() }()
		cached = tmcache.NewCached(
			translator,
			store,
			string(settings.provider),
			settings.model,
			targetLang,
		)
		translator = cached
	}

	items := translate.ItemsFromDocument(doc)

	logger.Infow("Translating subtitles",
		"items", len(items),
		"concurrency", settings.concurrency,
		"batch_size", settings.batchSize,
	)

	var results []translate.TranslationResult
	if concurrentTranslator, ok := translator.(translate.ConcurrentTranslator); ok {
		results, err = concurrentTranslator.TranslateWithConcurrency(
			ctx,
			items,
			settings.concurrency,
		)
	} else {
		results, err = translator.Translate(ctx, items)
	}
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	if cached != nil {
		hits, misses := cached.Stats()
		logger.Infow("Translation complete",
			"results", len(results),
			"cache_hits", hits,
			"cache_misses", misses,
		)
	} else {
		logger.Infow("Translation complete",
			"results", len(results),
		)
	}

	for _, skipped := range translate.ApplyToDocument(doc, results, overlay) {
		logger.Warnw("Skipping unusable translation result",
			"index", skipped.Index,
			"max", len(doc.Cues)-1,
		)
	}

	logger.Infow("Writing output file", "format", outputFormat)
	if err := subFile.WriteAs(outputFormat, outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitles translated successfully: %s\n", absPath(outputPath))
	fmt.Fprintf(out, "  Cues: %d\n", len(doc.Cues))
	fmt.Fprintf(out, "  Target language: %s\n", translate.LanguageName(targetLang))
	if overlay {
		fmt.Fprintf(out, "  Mode: bilingual overlay\n")
	}

	return nil
}
