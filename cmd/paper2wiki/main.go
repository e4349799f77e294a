package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"paper2wiki/internal/models"
	"paper2wiki/pkg/config"
	"paper2wiki/pkg/extractor"
	"paper2wiki/pkg/llm"
	"paper2wiki/pkg/service"
	"paper2wiki/pkg/wiki"
)

const scienceDailyPrefix = "https://www.sciencedaily.com/"

// synchronizer is the slice of the service the CLI drives.
type synchronizer interface {
	Process(ctx context.Context, url string, mainOnly bool) (*models.RunResult, error)
	Preview(ctx context.Context, url string) (*models.PreviewResult, error)
}

type options struct {
	configPath string
	preview    bool
	create     bool
	mainOnly   bool
	url        string
}

func main() {
	if err := run(parseFlags()); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.configPath, "config", "", "Path to config file")
	flag.BoolVar(&opts.preview, "preview", false, "Analyze the article without creating pages")
	flag.BoolVar(&opts.create, "create", false, "Analyze the article and create wiki pages")
	flag.BoolVar(&opts.mainOnly, "main-only", false, "Only handle the main topic, skip sub-topics")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <article-url>\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.url = flag.Arg(0)
	return opts
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(opts options) error {
	if opts.url == "" {
		flag.Usage()
		return fmt.Errorf("an article URL is required")
	}
	if opts.preview == opts.create {
		return fmt.Errorf("exactly one of -preview or -create must be given")
	}

	if !strings.HasPrefix(opts.url, scienceDailyPrefix) {
		color.Yellow("Warning: %s does not look like a ScienceDaily release URL", opts.url)
		if !confirm("Continue anyway? [y/N]: ") {
			return nil
		}
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %s", e.Error())
		}
		return fmt.Errorf("invalid configuration")
	}

	ext, err := extractor.NewWithConfig(extractor.ExtractorConfig{
		Timeout:   time.Duration(cfg.Extractor.TimeoutSeconds) * time.Second,
		RateLimit: cfg.Extractor.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %v", err)
	}

	engine, err := llm.NewWithConfig(llm.EngineConfig{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize language model: %v", err)
	}

	store, err := wiki.NewWithConfig(wiki.ClientConfig{
		GraphQLURL: cfg.Wiki.GraphQLURL,
		APIToken:   cfg.Wiki.APIToken,
		Locale:     cfg.Wiki.Locale,
		Timeout:    time.Duration(cfg.Wiki.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize wiki client: %v", err)
	}

	svc := service.New(ext, engine, engine, engine, store)
	ctx := context.Background()

	if opts.preview {
		return runPreview(ctx, svc, opts.url)
	}
	return runCreate(ctx, svc, opts.url, opts.mainOnly)
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func runPreview(ctx context.Context, svc synchronizer, url string) error {
	spinner := getSpinner("🔍 Analyzing article...")
	preview, err := svc.Preview(ctx, url)
	spinner.Finish()
	fmt.Print("\r")
	if err != nil {
		return err
	}

	color.Cyan("\n%s", preview.Article.Title)
	if preview.Article.Source != "" {
		fmt.Printf("Source: %s\n", preview.Article.Source)
	}
	if preview.Article.Date != "" {
		fmt.Printf("Date:   %s\n", preview.Article.Date)
	}
	if preview.Article.Summary != "" {
		fmt.Printf("Summary: %s\n", truncate(preview.Article.Summary, 100))
	}

	color.Blue("\nMain topic: %s", preview.MainTopic())
	printTopicList("Concepts", preview.Analysis.Concepts, 5)
	printTopicList("Methods", preview.Analysis.Methods, 3)
	printTopicList("Applications", preview.Analysis.Applications, 3)
	if len(preview.Analysis.SuggestedTags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(preview.Analysis.SuggestedTags, ", "))
	}

	if preview.HasMergeSuggestions() {
		color.Yellow("\nMerge candidates:")
		for _, s := range preview.MergeSuggestions {
			fmt.Printf("  %s (%.2f)\n", s.PageTitle, s.SimilarityScore)
		}
	} else if len(preview.ExistingPages) > 0 {
		fmt.Printf("\n%d related pages found, none similar enough to merge\n", len(preview.ExistingPages))
	} else {
		fmt.Println("\nNo related pages found")
	}

	return nil
}

func runCreate(ctx context.Context, svc synchronizer, url string, mainOnly bool) error {
	spinner := getSpinner("📝 Synchronizing article into the wiki...")
	result, err := svc.Process(ctx, url, mainOnly)
	spinner.Finish()
	fmt.Print("\r")
	if err != nil {
		return err
	}

	color.Cyan("\n%s", result.Article.Title)
	color.Blue("Main topic: %s", result.MainTopic())

	if len(result.Created) > 0 {
		color.Green("\n✓ Created %d pages", len(result.Created))
		for _, p := range result.Created {
			fmt.Printf("  %s (%s) -> %s\n", p.Title, p.Type, p.Path)
		}
	}
	if len(result.Updated) > 0 {
		color.Green("\n✓ Updated %d pages", len(result.Updated))
		for _, p := range result.Updated {
			fmt.Printf("  %s (%s) -> %s\n", p.Title, p.Type, p.Path)
		}
	}

	// Per-page failures are reported, not fatal: the run itself succeeded
	// once extraction and analysis did.
	failed := result.Failed()
	if len(failed) > 0 {
		color.Red("\n✗ %d of %d page operations failed", len(failed), len(result.Pages))
		for _, p := range failed {
			fmt.Printf("  %s (%s): %s\n", p.Title, p.Type, p.Error)
		}
	}

	if len(result.Pages) == 0 {
		color.Yellow("\nNothing to do")
	}
	return nil
}

func printTopicList(label string, topics []string, max int) {
	if len(topics) == 0 {
		return
	}
	shown := topics
	if len(shown) > max {
		shown = shown[:max]
	}
	fmt.Printf("%s: %s", label, strings.Join(shown, ", "))
	if rest := len(topics) - len(shown); rest > 0 {
		fmt.Printf(" ... and %d more", rest)
	}
	fmt.Println()
}

// truncate shortens s to at most max runes, never splitting a multibyte
// character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
