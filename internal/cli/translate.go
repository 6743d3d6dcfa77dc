package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"bilingual-subtitler/internal/checkpoint"
	"bilingual-subtitler/internal/logger"
	"bilingual-subtitler/internal/translation"
	"bilingual-subtitler/models"
	"bilingual-subtitler/services"
)

var translateFlags struct {
	outputSRT    string
	outputJSON   string
	chunkSize    int
	sampleLines  int
	model        string
	fallback     string
	sourceLang   string
	targetLang   string
	glossaryPath string
	fresh        bool
}

var translateCmd = &cobra.Command{
	Use:   "translate <input.srt>",
	Short: "Translate an SRT file into a bilingual SRT and JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranslate,
}

func init() {
	f := translateCmd.Flags()
	f.StringVarP(&translateFlags.outputSRT, "output", "o", "", "bilingual SRT output path (default <input>_bilingual.srt)")
	f.StringVar(&translateFlags.outputJSON, "json", "", "JSON artifact output path (default <input>_bilingual.json)")
	f.IntVar(&translateFlags.chunkSize, "chunk-size", 0, "subtitle entries per translation request")
	f.IntVar(&translateFlags.sampleLines, "sample-lines", 0, "transcript lines sampled for glossary extraction")
	f.StringVar(&translateFlags.model, "model", "", "primary Gemini model")
	f.StringVar(&translateFlags.fallback, "fallback-model", "", "fallback Gemini model")
	f.StringVar(&translateFlags.sourceLang, "source-lang", "", "source language code")
	f.StringVar(&translateFlags.targetLang, "target-lang", "", "target language code")
	f.StringVar(&translateFlags.glossaryPath, "glossary", "", "JSON file with manual glossary terms")
	f.BoolVar(&translateFlags.fresh, "fresh", false, "ignore any existing checkpoint and start over")

	rootCmd.AddCommand(translateCmd)
}

// apiKey resolves the Gemini key from the environment, loading .env first so
// a key dropped next to the input works without shell setup.
func apiKey() (string, error) {
	_ = godotenv.Load()

	for _, name := range []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf("no Gemini API key found: set GOOGLE_API_KEY (or GEMINI_API_KEY) in the environment or a .env file")
}

// defaultOutputPath derives an output path from the input file name.
func defaultOutputPath(inputPath, suffix string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + suffix
}

func runTranslate(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	key, err := apiKey()
	if err != nil {
		return err
	}

	cfg, err := models.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyTranslateFlags(cfg)

	outputSRT := translateFlags.outputSRT
	if outputSRT == "" {
		outputSRT = defaultOutputPath(inputPath, "_bilingual.srt")
	}
	outputJSON := translateFlags.outputJSON
	if outputJSON == "" {
		outputJSON = defaultOutputPath(inputPath, "_bilingual.json")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := translation.NewGeminiService(ctx, key, cfg.DefaultSourceLang, cfg.DefaultTargetLang)
	if err != nil {
		return err
	}

	store := checkpoint.NewStore(checkpoint.PathFor(outputJSON))
	if translateFlags.fresh {
		if err := store.Clear(); err != nil {
			return err
		}
	}

	opts := services.PipelineOptions{
		ChunkSize:           cfg.ChunkSize,
		GlossarySampleLines: cfg.GlossarySampleLines,
		ManualGlossaryPath:  cfg.ManualGlossaryPath,
		SourceLang:          cfg.DefaultSourceLang,
		TargetLang:          cfg.DefaultTargetLang,
	}
	opts.Resilience.Models = []string{cfg.PrimaryModel, cfg.FallbackModel}

	job := models.NewTranslationJob(inputPath, cfg.DefaultSourceLang, cfg.DefaultTargetLang)
	job.OutputSRT = outputSRT
	job.OutputJSON = outputJSON

	pipeline := services.NewPipeline(svc, store, opts)
	if err := pipeline.Run(ctx, job); err != nil {
		logger.Error("Run failed: %v", err)
		return err
	}

	fmt.Printf("Wrote %s and %s\n", outputSRT, outputJSON)
	return nil
}

// applyTranslateFlags overlays non-empty flag values onto the loaded config.
func applyTranslateFlags(cfg *models.Config) {
	if translateFlags.chunkSize > 0 {
		cfg.ChunkSize = translateFlags.chunkSize
	}
	if translateFlags.sampleLines > 0 {
		cfg.GlossarySampleLines = translateFlags.sampleLines
	}
	if translateFlags.model != "" {
		cfg.PrimaryModel = translateFlags.model
	}
	if translateFlags.fallback != "" {
		cfg.FallbackModel = translateFlags.fallback
	}
	if translateFlags.sourceLang != "" {
		cfg.DefaultSourceLang = translateFlags.sourceLang
	}
	if translateFlags.targetLang != "" {
		cfg.DefaultTargetLang = translateFlags.targetLang
	}
	if translateFlags.glossaryPath != "" {
		cfg.ManualGlossaryPath = translateFlags.glossaryPath
	}
}
