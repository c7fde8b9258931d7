// Package main provides a CLI command for one-shot URL classification.
// Usage: pagegate-classify "https://example.com/article" [--strict] [--output json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"pagegate/internal/app"
	"pagegate/internal/config"
	"pagegate/internal/domain/entity"
	"pagegate/internal/usecase/ingest"
)

// ClassifyOutput represents the JSON output format for classification results.
type ClassifyOutput struct {
	URL            string                `json:"url"`
	FinalURL       string                `json:"final_url,omitempty"`
	Recommendation string                `json:"recommendation"`
	Confidence     float64               `json:"confidence"`
	Issues         []string              `json:"issues,omitempty"`
	Title          string                `json:"title,omitempty"`
	Excerpt        string                `json:"excerpt,omitempty"`
	Error          *entity.FetchError    `json:"error,omitempty"`
	Bypass         *entity.BypassResult  `json:"bypass,omitempty"`
	Walls          *entity.DetectedWalls `json:"walls,omitempty"`
}

func main() {
	// Parse command-line arguments
	var (
		strict       bool
		noRobots     bool
		timeoutMs    int
		clientID     string
		outputFormat string
	)

	flag.BoolVar(&strict, "strict", false, "Reject pages with access walls instead of routing to webview")
	flag.BoolVar(&noRobots, "no-robots", false, "Skip robots.txt compliance checks")
	flag.IntVar(&timeoutMs, "timeout-ms", 0, "Fetch timeout in milliseconds (0 = default)")
	flag.StringVar(&clientID, "client", "classify-cli", "Client identifier for rate limiting")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.Parse()

	// Get URL from positional argument
	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: URL is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: pagegate-classify \"url\" [--strict] [--no-robots] [--timeout-ms N] [--output json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  pagegate-classify \"https://example.com/article\"")
		fmt.Fprintln(os.Stderr, "  pagegate-classify \"https://news.example.com/story\" --strict")
		fmt.Fprintln(os.Stderr, "  pagegate-classify \"https://example.com/page\" --output json")
		os.Exit(1)
	}
	rawURL := args[0]

	// Initialize logger
	logger := initLogger()

	// Load pipeline configuration
	pipelineConfig, err := config.LoadPipelineConfig()
	if err != nil {
		logger.Error("failed to load pipeline configuration", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Failed to load pipeline configuration: %v\n", err)
		os.Exit(1)
	}

	// Load optional content rules
	var contentConfig *config.ContentConfig
	if path := os.Getenv("CONTENT_RULES_PATH"); path != "" {
		contentConfig, err = config.LoadContentConfig(path)
		if err != nil {
			logger.Warn("failed to load content rules, using built-in defaults",
				slog.String("path", path),
				slog.Any("error", err))
			contentConfig = nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pipeline := app.Build(ctx, pipelineConfig, contentConfig, logger)
	defer pipeline.Close()

	opts := ingest.DefaultOptions()
	opts.StrictMode = strict
	opts.CheckRobots = ingest.Bool(!noRobots)
	if timeoutMs > 0 {
		opts.TimeoutMs = timeoutMs
	}

	result, err := pipeline.Service.FetchAndClassify(ctx, rawURL, opts, clientID)
	if err != nil {
		logger.Error("classification failed", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Classification failed: %v\n", err)
		os.Exit(1)
	}

	// Output results
	if outputFormat == "json" {
		outputJSON(rawURL, result)
	} else {
		outputText(rawURL, result)
	}
}

// buildOutput flattens a pipeline result into the CLI output shape.
func buildOutput(rawURL string, result *ingest.Result) ClassifyOutput {
	out := ClassifyOutput{URL: rawURL}

	if result.Bypass != nil {
		out.Recommendation = string(entity.RecommendWebview)
		out.Title = result.Bypass.Title
		out.Bypass = result.Bypass
		return out
	}

	if result.Fetch != nil {
		out.FinalURL = result.Fetch.FinalURL
		out.Error = result.Fetch.Error
	}

	if result.Quality != nil {
		out.Recommendation = string(result.Quality.Recommendation)
		out.Confidence = result.Quality.Confidence
		out.Walls = &result.Quality.DetectedWalls
		for _, issue := range result.Quality.Issues {
			out.Issues = append(out.Issues, string(issue))
		}
	} else if result.Fetch != nil && result.Fetch.Error != nil {
		out.Recommendation = string(result.Fetch.Error.Code)
	}

	if result.Article != nil {
		out.Title = result.Article.Title
		out.Excerpt = result.Article.Excerpt
	}

	return out
}

// outputText prints classification results in human-readable format.
func outputText(rawURL string, result *ingest.Result) {
	out := buildOutput(rawURL, result)

	fmt.Printf("URL: %s\n", out.URL)
	if out.FinalURL != "" && out.FinalURL != out.URL {
		fmt.Printf("Final URL: %s\n", out.FinalURL)
	}

	if out.Error != nil {
		fmt.Printf("Fetch failed: %s\n", out.Error.Error())
		return
	}

	if out.Bypass != nil {
		fmt.Printf("Recommendation: %s (SPA bypass: %s)\n", out.Recommendation, out.Bypass.Reason)
		if out.Title != "" {
			fmt.Printf("Title: %s\n", out.Title)
		}
		if out.Bypass.CoverImage != "" {
			fmt.Printf("Cover image: %s\n", out.Bypass.CoverImage)
		}
		return
	}

	fmt.Printf("Recommendation: %s (Confidence: %.2f%%)\n", out.Recommendation, out.Confidence*100)
	if len(out.Issues) > 0 {
		fmt.Printf("Issues: %s\n", strings.Join(out.Issues, ", "))
	}
	if out.Title != "" {
		fmt.Printf("Title: %s\n", out.Title)
	}
	if out.Excerpt != "" {
		fmt.Printf("Excerpt: %s\n", out.Excerpt)
	}
}

// outputJSON prints classification results in JSON format.
func outputJSON(rawURL string, result *ingest.Result) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(buildOutput(rawURL, result)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
}

// initLogger initializes and returns a structured logger.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}
