package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/egemengol/subtitles/internal/config"
	"github.com/egemengol/subtitles/internal/media"
	"github.com/egemengol/subtitles/internal/subtitle"
	"github.com/egemengol/subtitles/internal/tmcache"
	"github.com/spf13/cobra"
)

const sampleVTT = `WEBVTT

1
00:01.000 --> 00:02.000
Hello

00:03.000 --> 00:04.500
Good
bye
`

func writeVTT(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.vtt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

// runCLI executes the root command with an isolated config and cache
// location and returns what the command wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIWithCache(t, t.TempDir(), args...)
}

func runCLIWithCache(t *testing.T, cacheHome string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "config.toml")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestOutputPathFor(t *testing.T) {
	tests := []struct {
		input  string
		format subtitle.Format
		tags   []string
		want   string
	}{
		{"movie.vtt", subtitle.FormatSRT, nil, "movie.srt"},
		{"dir/movie.vtt", subtitle.FormatVTT, []string{"ja"}, "dir/movie.ja.vtt"},
		{"movie.vtt", subtitle.FormatVTT, []string{"es", "overlay"}, "movie.es.overlay.vtt"},
		{"movie.mkv", subtitle.FormatASS, []string{""}, "movie.ass"},
	}

	for _, tt := range tests {
		if got := outputPathFor(tt.input, tt.format, tt.tags...); got != tt.want {
			t.Errorf("outputPathFor(%q, %s, %v) = %q, want %q", tt.input, tt.format, tt.tags, got, tt.want)
		}
	}
}

func TestRenderTSVEscapes(t *testing.T) {
	got := renderTSV([]string{"A", "B"}, [][]string{{"one\ttwo", "line\nbreak"}})
	want := "A\tB\none\\ttwo\tline\\nbreak\n"
	if got != want {
		t.Errorf("renderTSV() = %q, want %q", got, want)
	}
}

func TestRenderTable(t *testing.T) {
	got := renderTable([]string{"#", "TEXT"}, [][]string{{"0", "Hello"}}, []columnAlignment{alignRight})
	if !strings.Contains(got, "Hello") || !strings.Contains(got, "TEXT") {
		t.Errorf("table missing content:\n%s", got)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Error("expected empty table without headers")
	}
}

func TestParseOptionsFlagsOverrideConfig(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { cfg = saved })

	c := config.Default()
	c.Parse.ValidateTiming = true
	c.Parse.StopAtMalformedCue = true
	cfg = &c

	cmd := &cobra.Command{Use: "test"}
	addParseFlags(cmd)
	if err := cmd.Flags().Set("validate-timing", "false"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("require-full-input", "true"); err != nil {
		t.Fatal(err)
	}

	opts := parseOptions(cmd)
	if opts.ValidateTiming {
		t.Error("flag should turn timing validation off")
	}
	if !opts.RequireFullInput {
		t.Error("flag should turn full input on")
	}
	if !opts.StopAtMalformedCue {
		t.Error("config value should be kept when the flag is not set")
	}
}

func TestResolveTranslateSettings(t *testing.T) {
	c := config.Default()
	c.Translate.OpenAIAPIKey = "sk-test"

	cmd := &cobra.Command{Use: "translate"}
	addTranslateFlags(cmd)
	for name, value := range map[string]string{
		"provider":   "openai",
		"batch-size": "10",
		"no-cache":   "true",
	} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}

	s, err := resolveTranslateSettings(cmd, &c)
	if err != nil {
		t.Fatalf("resolveTranslateSettings returned error: %v", err)
	}
	if s.provider != "openai" || s.apiKey != "sk-test" {
		t.Errorf("unexpected provider settings %+v", s)
	}
	if s.concurrency != 3 || s.batchSize != 10 || s.useCache {
		t.Errorf("unexpected worker settings %+v", s)
	}
}

func TestResolveTranslateSettingsErrors(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		c := config.Default()
		cmd := &cobra.Command{Use: "translate"}
		addTranslateFlags(cmd)

		_, err := resolveTranslateSettings(cmd, &c)
		if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
			t.Errorf("expected missing key error naming GEMINI_API_KEY, got %v", err)
		}
	})

	t.Run("unknown model", func(t *testing.T) {
		c := config.Default()
		c.Translate.GeminiAPIKey = "key"
		cmd := &cobra.Command{Use: "translate"}
		addTranslateFlags(cmd)
		_ = cmd.Flags().Set("model", "not-a-model")

		if _, err := resolveTranslateSettings(cmd, &c); err == nil {
			t.Error("expected error for unknown model")
		}

		_ = cmd.Flags().Set("model-override", "true")
		if _, err := resolveTranslateSettings(cmd, &c); err != nil {
			t.Errorf("model override should bypass validation, got %v", err)
		}
	})

	t.Run("non-positive concurrency", func(t *testing.T) {
		c := config.Default()
		c.Translate.GeminiAPIKey = "key"
		cmd := &cobra.Command{Use: "translate"}
		addTranslateFlags(cmd)
		_ = cmd.Flags().Set("concurrency", "0")

		if _, err := resolveTranslateSettings(cmd, &c); err == nil {
			t.Error("expected error for zero concurrency")
		}
	})
}

func TestInspectCommandTSV(t *testing.T) {
	path := writeVTT(t, sampleVTT)

	out, err := runCLI(t, "inspect", path, "--json=false")
	if err != nil {
		t.Fatalf("inspect returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", out)
	}
	if lines[1] != "0\t1\t00:00:01.000\t00:00:02.000\t1s\tHello" {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "\t1.5s\tGood\\nbye") {
		t.Errorf("unexpected second row %q", lines[2])
	}
}

func TestInspectCommandJSON(t *testing.T) {
	path := writeVTT(t, sampleVTT)

	out, err := runCLI(t, "inspect", path, "--json=true")
	if err != nil {
		t.Fatalf("inspect returned error: %v", err)
	}
	if !strings.Contains(out, `"start": "00:00:03.000"`) {
		t.Errorf("JSON output missing timestamp:\n%s", out)
	}
	if !strings.Contains(out, `"identifier": "1"`) {
		t.Errorf("JSON output missing identifier:\n%s", out)
	}
}

func TestConvertCommand(t *testing.T) {
	path := writeVTT(t, sampleVTT)
	output := filepath.Join(t.TempDir(), "out.srt")

	out, err := runCLI(t, "convert", path, "-f", "srt", "-o", output)
	if err != nil {
		t.Fatalf("convert returned error: %v", err)
	}
	if !strings.Contains(out, "Cues: 2") {
		t.Errorf("unexpected summary %q", out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "1\n00:00:01,000 --> 00:00:02,000\nHello\n\n2\n00:00:03,000 --> 00:00:04,500\nGood\nbye\n\n"
	if string(data) != want {
		t.Errorf("unexpected SRT output:\n%q\nwant:\n%q", data, want)
	}
}

func TestConvertCommandRejectsFormat(t *testing.T) {
	path := writeVTT(t, sampleVTT)
	output := filepath.Join(t.TempDir(), "out.txt")

	if _, err := runCLI(t, "convert", path, "-f", "txt", "-o", output); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestValidateCommand(t *testing.T) {
	good := writeVTT(t, sampleVTT)
	out, err := runCLI(t, "validate", good)
	if err != nil {
		t.Fatalf("validate returned error for a valid file: %v", err)
	}
	if !strings.Contains(out, "OK (2 cues)") {
		t.Errorf("unexpected output %q", out)
	}

	backwards := writeVTT(t, "WEBVTT\n\n00:05.000 --> 00:01.000\nBackwards\n")
	if _, err := runCLI(t, "validate", backwards); err == nil {
		t.Error("expected timing error")
	}

	malformed := writeVTT(t, "WEBVTT\n\n00:01.000 -> 00:02.000\nNo arrow\n")
	if _, err := runCLI(t, "validate", malformed); err == nil {
		t.Error("expected parse error")
	}

	if _, err := runCLI(t, "validate", filepath.Join(t.TempDir(), "missing.vtt")); err == nil {
		t.Error("expected error for missing file")
	}
}

const streamsJSON = `{"streams": [
  {"index": 0, "codec_name": "h264", "codec_type": "video"},
  {"index": 2, "codec_name": "subrip", "codec_type": "subtitle",
   "tags": {"language": "eng", "title": "English"}},
  {"index": 3, "codec_name": "ass", "codec_type": "subtitle",
   "tags": {"language": "jpn"}, "disposition": {"default": 1, "forced": 1}}
]}`

// installFakeFFmpeg puts stand-in ffmpeg binaries first on PATH. One prints
// the given stream list and the other prints a single cue.
func installFakeFFmpeg(t *testing.T, streams string) {
	t.Helper()
	dir := t.TempDir()
	scripts := map[string]string{
		"ffprobe": "printf '%s\\n' '" + streams + "'\n",
		"ffmpeg":  "printf 'WEBVTT\\n\\n00:01.000 --> 00:02.000\\nExtracted\\n'\n",
	}
	for name, body := range scripts {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body), 0o755); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv(media.EnvFFmpegPath, "")
	t.Setenv(media.EnvFFprobePath, "")
}

func writeMedia(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movie.mkv")
	if err := os.WriteFile(path, []byte("container bytes"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
	return path
}

// extractArgs resets every extract flag, since cobra keeps flag values
// between runs of the same command tree.
func extractArgs(mediaPath string, extra ...string) []string {
	args := []string{
		"extract", mediaPath,
		"--list=false", "--stream=-1", "--format=vtt", "--language=", "--output=",
	}
	return append(args, extra...)
}

func TestExtractCommandList(t *testing.T) {
	installFakeFFmpeg(t, streamsJSON)

	out, err := runCLI(t, extractArgs(writeMedia(t), "--list")...)
	if err != nil {
		t.Fatalf("extract --list returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{
		"#\tINDEX\tCODEC\tLANGUAGE\tTITLE\tFLAGS",
		"0\t2\tsubrip\teng\tEnglish\t",
		"1\t3\tass\tjpn\t\tdefault,forced",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), out)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestExtractCommandListEmpty(t *testing.T) {
	installFakeFFmpeg(t, `{"streams": []}`)

	out, err := runCLI(t, extractArgs(writeMedia(t), "--list")...)
	if err != nil {
		t.Fatalf("extract --list returned error: %v", err)
	}
	if !strings.Contains(out, "No subtitle streams found") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestExtractCommandStream(t *testing.T) {
	installFakeFFmpeg(t, streamsJSON)
	output := filepath.Join(t.TempDir(), "out.srt")

	out, err := runCLI(t, extractArgs(writeMedia(t), "--stream=0", "--format=srt", "--output="+output)...)
	if err != nil {
		t.Fatalf("extract returned error: %v", err)
	}
	if !strings.Contains(out, "Stream: 0 (subrip)") {
		t.Errorf("unexpected summary %q", out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "1\n00:00:01,000 --> 00:00:02,000\nExtracted\n\n"
	if string(data) != want {
		t.Errorf("unexpected SRT output %q, want %q", data, want)
	}
}

func TestExtractCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		streams string // empty leaves no binaries on PATH
		missing bool
		extra   []string
		wantErr string
	}{
		{
			name:    "stream out of range",
			streams: streamsJSON,
			extra:   []string{"--stream=5"},
			wantErr: "subtitle stream 5 not found: file has 2 subtitle streams",
		},
		{
			name:    "no subtitle streams",
			streams: `{"streams": []}`,
			wantErr: "no subtitle streams",
		},
		{
			name:    "unknown language",
			streams: streamsJSON,
			extra:   []string{"--language=fre"},
			wantErr: "fre",
		},
		{
			name:    "unsupported format",
			streams: streamsJSON,
			extra:   []string{"--format=txt"},
			wantErr: "txt",
		},
		{
			name:    "missing media file",
			streams: streamsJSON,
			missing: true,
			wantErr: "media file not found",
		},
		{
			name:    "binaries not installed",
			wantErr: "not found in PATH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.streams != "" {
				installFakeFFmpeg(t, tt.streams)
			} else {
				t.Setenv("PATH", t.TempDir())
				t.Setenv(media.EnvFFmpegPath, "")
				t.Setenv(media.EnvFFprobePath, "")
			}
			mediaPath := writeMedia(t)
			if tt.missing {
				mediaPath = filepath.Join(t.TempDir(), "gone.mkv")
			}

			_, err := runCLI(t, extractArgs(mediaPath, tt.extra...)...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestCacheCommands(t *testing.T) {
	cacheHome := t.TempDir()
	dbPath := filepath.Join(cacheHome, "subtitles", "translations.db")

	store, err := tmcache.Open(dbPath)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	ctx := context.Background()
	for _, text := range []string{"Hello", "Goodbye"} {
		key := tmcache.Key{Provider: "gemini", Model: "gemini-2.5-flash", TargetLanguage: "ja", Text: text}
		if err := store.Put(ctx, key, text+" (ja)"); err != nil {
			t.Fatalf("seed cache: %v", err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close cache: %v", err)
	}

	out, err := runCLIWithCache(t, cacheHome, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats returned error: %v", err)
	}
	if !strings.Contains(out, "Cache: "+dbPath) || !strings.Contains(out, "Translations: 2") {
		t.Errorf("unexpected stats output %q", out)
	}

	out, err = runCLIWithCache(t, cacheHome, "cache", "purge")
	if err != nil {
		t.Fatalf("cache purge returned error: %v", err)
	}
	if !strings.Contains(out, "Cache purged: "+dbPath) {
		t.Errorf("unexpected purge output %q", out)
	}

	out, err = runCLIWithCache(t, cacheHome, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats returned error: %v", err)
	}
	if !strings.Contains(out, "Translations: 0") {
		t.Errorf("purge left entries behind: %q", out)
	}
}
