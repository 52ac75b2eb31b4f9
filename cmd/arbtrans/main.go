// Command arbtrans translates Flutter ARB localization files using AI,
// backed by a persistent translation memory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	arbtrans "github.com/SauravKhanalgit/arb-translator-sub001"
	"github.com/SauravKhanalgit/arb-translator-sub001/cache"
	"github.com/SauravKhanalgit/arb-translator-sub001/memory"
	"github.com/SauravKhanalgit/arb-translator-sub001/processor"
	"github.com/SauravKhanalgit/arb-translator-sub001/provider"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = arbtrans.Version
	commit    = arbtrans.GitCommit
	buildDate = arbtrans.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("arbtrans", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	langs := fs.String("lang", "", "Comma-separated target language codes (e.g., es,fr,ja)")
	sourceLang := fs.String("source", "", "Source language code (default from config or 'en')")
	configPath := fs.String("config", "", "Path to YAML config file")
	output := fs.String("output", "", "Output file for single language (default: stdout)")
	outputShort := fs.String("o", "", "Output file (short for --output)")
	outDir := fs.String("out-dir", "", "Output directory for multi-language runs")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: ARBTRANS_API_KEY or OPENAI_API_KEY env)")
	model := fs.String("model", "", "OpenAI model to use")
	contextStr := fs.String("context", "", "Translation context (e.g., 'Fitness tracking app')")
	exclude := fs.String("exclude", "", "Comma-separated terms to never translate")
	contentType := fs.String("type", "arb", "Content type: arb or html")
	memoryPath := fs.String("memory", "", "Translation memory file (empty = config default, 'off' = disabled)")
	diffAgainst := fs.String("diff-against", "", "Previous revision of the source file; only changed texts are retranslated")
	importCache := fs.String("import-cache", "", "Load a cache snapshot before translating")
	exportCache := fs.String("export-cache", "", "Write a cache snapshot after translating")
	cacheTTL := fs.Int("cache-ttl", -1, "Cache TTL in seconds (0 to disable, -1 = config default)")
	redisURL := fs.String("redis", "", "Redis URL for a shared cache (default: in-memory)")
	concurrency := fs.Int("concurrency", 4, "Languages translated in parallel")
	validate := fs.Bool("validate", false, "Validate the ARB file and exit")
	showStats := fs.Bool("stats", false, "Print translation memory stats after the run")
	showVersion := fs.Bool("version", false, "Show version")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	jsonOutput := fs.Bool("json", false, "Output result as JSON")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", arbtrans.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	// Handle -o alias for --output
	if *outputShort != "" && *output == "" {
		*output = *outputShort
	}

	// Get input
	var input string
	var inputName string

	if fs.NArg() == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		input = string(data)
		inputName = "stdin"
	} else {
		// Read from file - user-provided path is intentional for CLI
		inputPath := fs.Arg(0)
		data, err := os.ReadFile(inputPath) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		input = string(data)
		inputName = filepath.Base(inputPath)
	}

	if *validate {
		return runValidate(input, inputName, stdout, *jsonOutput)
	}

	cfg, err := arbtrans.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	// Flag values override the config file
	if *apiKey != "" {
		cfg.Provider.APIKey = *apiKey
	}
	if *model != "" {
		cfg.Provider.Model = *model
	}
	if *sourceLang != "" {
		cfg.Translation.SourceLang = *sourceLang
	}
	if *contextStr != "" {
		cfg.Translation.Context = *contextStr
	}
	if *exclude != "" {
		terms := strings.Split(*exclude, ",")
		for i := range terms {
			terms[i] = strings.TrimSpace(terms[i])
		}
		cfg.Translation.ExcludedTerms = terms
	}
	if *cacheTTL >= 0 {
		cfg.Cache.TTLSeconds = *cacheTTL
	}
	if *redisURL != "" {
		cfg.Cache.RedisURL = *redisURL
	}
	if *memoryPath != "" {
		cfg.Memory.Path = *memoryPath
	}

	targets := cfg.Translation.Languages
	if *langs != "" {
		targets = nil
		for _, l := range strings.Split(*langs, ",") {
			if l = strings.TrimSpace(l); l != "" {
				targets = append(targets, l)
			}
		}
	}
	if len(targets) == 0 {
		fs.Usage()
		return fmt.Errorf("--lang is required")
	}

	if cfg.Provider.APIKey == "" {
		return fmt.Errorf("API key required (--api-key, ARBTRANS_API_KEY or OPENAI_API_KEY env)")
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	// Create provider with retry and rate limiting
	p := provider.NewOpenAIProvider(provider.OpenAIConfig{
		APIKey: cfg.Provider.APIKey,
		Model:  cfg.Provider.Model,
	})
	limited := arbtrans.NewRateLimitedProvider(p, arbtrans.RateLimitConfig{
		RequestsPerMinute: cfg.Provider.RequestsPerMinute,
	})
	retryCfg := arbtrans.DefaultRetryConfig()
	if cfg.Provider.MaxRetries > 0 {
		retryCfg.MaxRetries = cfg.Provider.MaxRetries
	}
	retryable := arbtrans.NewRetryableProvider(limited, retryCfg)

	// Translation memory persists learned translations across runs
	var mem *memory.TranslationMemory
	if cfg.Memory.Path != "off" {
		mem = memory.New(memory.Config{
			Path:             cfg.Memory.Path,
			Capacity:         cfg.Memory.Capacity,
			AutoSaveInterval: time.Duration(cfg.Memory.AutoSaveInterval),
			Logger:           logger,
		})
		defer mem.Dispose()
	}

	// Build options shared by every target language
	opts := []arbtrans.TranslatorOption{
		arbtrans.WithSourceLang(cfg.Translation.SourceLang),
	}
	var proc arbtrans.ContentProcessor
	switch *contentType {
	case "arb":
		proc = processor.NewARBProcessor()
	case "html":
		proc = processor.NewHTMLProcessor()
	default:
		return fmt.Errorf("unknown content type %q (want arb or html)", *contentType)
	}
	opts = append(opts, arbtrans.WithProcessor(proc))

	// Incremental runs and snapshot import/export need a cache even when
	// TTL caching is disabled.
	needCache := *diffAgainst != "" || *importCache != "" || *exportCache != ""

	var tc arbtrans.TranslationCache
	switch {
	case cfg.Cache.RedisURL != "":
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			URL: cfg.Cache.RedisURL,
			TTL: cfg.Cache.TTLSeconds,
		})
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rc.Close()
		tc = rc
	case cfg.Cache.TTLSeconds > 0 || needCache:
		tc = cache.NewInMemoryCache(cfg.Cache.TTLSeconds)
	}
	if tc != nil {
		opts = append(opts, arbtrans.WithCache(tc))
	}

	if *importCache != "" {
		res, err := cache.NewImporter(tc).ImportFromFile(*importCache)
		if err != nil {
			return fmt.Errorf("importing cache snapshot: %w", err)
		}
		if !*quiet {
			fmt.Fprintf(stderr, "Imported %d cached translations from %s\n", res.Imported, *importCache)
		}
	}
	if mem != nil {
		opts = append(opts, arbtrans.WithMemory(mem))
	}
	if cfg.Translation.Context != "" {
		opts = append(opts, arbtrans.WithContext(cfg.Translation.Context))
	}
	if len(cfg.Translation.ExcludedTerms) > 0 {
		opts = append(opts, arbtrans.WithExcludedTerms(cfg.Translation.ExcludedTerms))
	}
	if len(cfg.Translation.Glossary) > 0 {
		opts = append(opts, arbtrans.WithGlossary(cfg.Translation.Glossary))
	}
	if cfg.Translation.Style != "" {
		opts = append(opts, arbtrans.WithStyle(cfg.Translation.Style))
	}

	if *diffAgainst != "" {
		if len(targets) != 1 || *outDir != "" {
			return fmt.Errorf("--diff-against supports a single target language")
		}
		if err := seedIncremental(proc, input, *diffAgainst, *output, targets[0], tc, stderr, *quiet); err != nil {
			return err
		}
	}

	ctx := context.Background()
	start := time.Now()

	var runErr error
	if len(targets) == 1 && *outDir == "" {
		runErr = runSingle(ctx, input, inputName, targets[0], *contentType, retryable, opts, *output, stdout, stderr, *quiet, *jsonOutput)
	} else {
		runErr = runBatch(ctx, input, inputName, targets, *contentType, retryable, opts, *outDir, *concurrency, stdout, stderr, *quiet)
	}

	if runErr == nil && *exportCache != "" {
		meta := map[string]string{"source_lang": cfg.Translation.SourceLang}
		if err := cache.NewExporter(tc).ExportToFile(*exportCache, meta); err != nil {
			return fmt.Errorf("exporting cache snapshot: %w", err)
		}
		if !*quiet {
			fmt.Fprintf(stderr, "Cache snapshot written to %s\n", *exportCache)
		}
	}

	if !*quiet {
		fmt.Fprintf(stderr, "\nDone in %v\n", time.Since(start).Round(time.Millisecond))
	}

	if *showStats && mem != nil {
		stats := mem.Stats()
		fmt.Fprintf(stderr, "Translation memory:\n")
		fmt.Fprintf(stderr, "  Entries:       %d\n", stats["totalEntries"])
		fmt.Fprintf(stderr, "  Exact hits:    %d\n", stats["cacheHits"])
		fmt.Fprintf(stderr, "  Misses:        %d\n", stats["cacheMisses"])
		fmt.Fprintf(stderr, "  Fuzzy matches: %d\n", stats["fuzzyMatches"])
	}

	return runErr
}

// seedIncremental diffs the source against an earlier revision and copies
// translations for unchanged resources from the existing output file into
// the cache, so only changed texts reach the provider.
func seedIncremental(proc arbtrans.ContentProcessor, input, oldPath, outputPath, lang string, tc arbtrans.TranslationCache, stderr io.Writer, quiet bool) error {
	oldData, err := os.ReadFile(oldPath) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return fmt.Errorf("reading previous revision: %w", err)
	}
	_, oldNodes, err := proc.Extract(string(oldData))
	if err != nil {
		return fmt.Errorf("parsing previous revision: %w", err)
	}
	_, newNodes, err := proc.Extract(input)
	if err != nil {
		return fmt.Errorf("parsing source: %w", err)
	}

	diff := arbtrans.DiffNodes(oldNodes, newNodes)
	st := diff.Stats()
	if !quiet {
		fmt.Fprintf(stderr, "Changes since %s: %d added, %d modified, %d renamed, %d removed, %d unchanged\n",
			filepath.Base(oldPath), st.Added, st.Modified, st.Renamed, st.Removed, st.Unchanged)
	}

	if outputPath == "" {
		return nil
	}
	prevOut, err := os.ReadFile(outputPath) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		// First run for this language, nothing to reuse.
		return nil
	}
	_, prior, err := proc.Extract(string(prevOut))
	if err != nil {
		return fmt.Errorf("parsing existing output %s: %w", outputPath, err)
	}

	seeded := diff.SeedUnchanged(tc, prior, lang)
	if !quiet {
		fmt.Fprintf(stderr, "Reusing %d translations from %s\n", seeded, filepath.Base(outputPath))
	}
	return nil
}

// runSingle translates to one language and writes to --output or stdout.
func runSingle(ctx context.Context, input, inputName, lang, contentType string, p arbtrans.AIProvider, opts []arbtrans.TranslatorOption, output string, stdout, stderr io.Writer, quiet, jsonOut bool) error {
	translator := arbtrans.NewTranslator(lang, p, opts...)

	if !quiet {
		fmt.Fprintf(stderr, "Translating %s to %s...\n", inputName, lang)
	}

	start := time.Now()
	result, err := translator.Process(ctx, input, contentType)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	elapsed := time.Since(start)

	var out io.Writer = stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if jsonOut {
		return outputJSON(out, result, elapsed)
	}

	fmt.Fprint(out, result.Content)

	if !quiet {
		fmt.Fprintf(stderr, "\n  Keys found:   %d\n", result.TotalNodes)
		fmt.Fprintf(stderr, "  Translated:   %d\n", result.TranslatedCount)
		fmt.Fprintf(stderr, "  From cache:   %d\n", result.CachedCount)
	}

	return nil
}

// runBatch fans out over every target language and writes one file per
// language into --out-dir, named like app_es.arb.
func runBatch(ctx context.Context, input, inputName string, langs []string, contentType string, p arbtrans.AIProvider, opts []arbtrans.TranslatorOption, outDir string, concurrency int, stdout, stderr io.Writer, quiet bool) error {
	if outDir == "" {
		return fmt.Errorf("--out-dir is required when translating to multiple languages")
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if !quiet {
		fmt.Fprintf(stderr, "Translating %s to %d languages...\n", inputName, len(langs))
	}

	batch := arbtrans.NewBatchTranslator(p, opts...).WithConcurrency(concurrency)
	results, summary := batch.TranslateAll(ctx, input, contentType, langs)

	base := strings.TrimSuffix(inputName, filepath.Ext(inputName))
	if base == "" || base == "stdin" {
		base = "app"
	}
	// Strip a trailing locale suffix so app_en.arb becomes app_es.arb.
	if i := strings.LastIndex(base, "_"); i > 0 {
		base = base[:i]
	}

	var firstErr error
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "  %s: FAILED: %v\n", r.Language, r.Err)
			if firstErr == nil {
				firstErr = fmt.Errorf("translating to %s: %w", r.Language, r.Err)
			}
			continue
		}

		name := fmt.Sprintf("%s_%s.arb", base, arbtrans.ToARBLocale(r.Language))
		if contentType == "html" {
			name = fmt.Sprintf("%s_%s.html", base, r.Language)
		}
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, []byte(r.Content), 0o600); err != nil {
			fmt.Fprintf(stderr, "  %s: write failed: %v\n", r.Language, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !quiet {
			fmt.Fprintf(stderr, "  %s -> %s\n", r.Language, path)
		}
	}

	if !quiet {
		fmt.Fprintf(stderr, "\nSummary: %d succeeded, %d failed of %d languages\n",
			summary.Successful, summary.Failed, summary.TotalLanguages)
	}

	return firstErr
}

// runValidate checks an ARB file for structural problems.
func runValidate(input, inputName string, stdout io.Writer, jsonOut bool) error {
	proc := processor.NewARBProcessor()
	issues, keyCount := proc.Validate(input)

	if jsonOut {
		out := struct {
			InputFile string   `json:"input_file"`
			Valid     bool     `json:"valid"`
			Issues    []string `json:"issues"`
			KeyCount  int      `json:"key_count"`
		}{
			InputFile: inputName,
			Valid:     len(issues) == 0,
			Issues:    issues,
			KeyCount:  keyCount,
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(stdout, "Validating %s\n", inputName)
	fmt.Fprintf(stdout, "  Resource keys: %d\n", keyCount)

	if len(issues) == 0 {
		fmt.Fprintf(stdout, "  Valid: yes\n")
		return nil
	}

	fmt.Fprintf(stdout, "  Valid: no\n\nIssues:\n")
	for _, issue := range issues {
		fmt.Fprintf(stdout, "  - %s\n", issue)
	}
	return &arbtrans.ValidationError{File: inputName, Issues: issues}
}

// JSONOutput represents the JSON output format.
type JSONOutput struct {
	Content         string `json:"content"`
	TotalNodes      int    `json:"total_nodes"`
	TranslatedCount int    `json:"translated_count"`
	CachedCount     int    `json:"cached_count"`
	ElapsedMs       int64  `json:"elapsed_ms"`
}

// outputJSON writes the result as JSON.
func outputJSON(w io.Writer, result *arbtrans.ProcessedContent, elapsed time.Duration) error {
	out := JSONOutput{
		Content:         result.Content,
		TotalNodes:      result.TotalNodes,
		TranslatedCount: result.TranslatedCount,
		CachedCount:     result.CachedCount,
		ElapsedMs:       elapsed.Milliseconds(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
