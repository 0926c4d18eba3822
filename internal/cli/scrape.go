package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/lifelines/internal/chart"
	"github.com/ppiankov/lifelines/internal/model"
	"github.com/ppiankov/lifelines/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON      string
	outMD        string
	outCSV       string
	outPDF       string
	timeout      time.Duration
	userAgent    string
	maxBytes     int64
	noCache      bool
	noFooter     bool
	noRobots     bool
	insecureTLS  bool
	httpProxy    string
	httpsProxy   string
	noProxy      string
	tableClass   string
	columnHeader string
	skipRows     int
	minYear      int
	maxYear      int
	asOfYear     int
	llmEnabled   bool
	llmProvider  string
	llmModel     string
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [url]",
	Short: "Scrape one office-holder listing and build the lifespan dataset",
	Long: `Scrape fetches a single listing page (or serves it from the local cache),
locates the office-holder table, extracts name/birth/death from each row,
validates and deduplicates the records, and computes lifespan statistics.

Rows the parser cannot understand are reported, not silently dropped.

Example:
  lifelines scrape https://en.wikipedia.org/wiki/List_of_prime_ministers_of_Pakistan
  lifelines scrape https://example.org/listing --json dataset.json --md dataset.md --pdf timeline.pdf
  lifelines scrape https://example.org/listing --as-of 2020 --no-cache`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	// Output flags
	scrapeCmd.Flags().StringVar(&outJSON, "json", "dataset.json", "output JSON path")
	scrapeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	scrapeCmd.Flags().StringVar(&outCSV, "csv", "", "output CSV path (optional)")
	scrapeCmd.Flags().StringVar(&outPDF, "pdf", "", "output PDF timeline path (optional)")
	scrapeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// HTTP flags
	scrapeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall scrape timeout")
	scrapeCmd.Flags().StringVar(&userAgent, "ua", "lifelines/0.1 (+https://github.com/ppiankov/lifelines)", "HTTP User-Agent")
	scrapeCmd.Flags().Int64Var(&maxBytes, "max-bytes", 10_000_000, "max response bytes to read")
	scrapeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	scrapeCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip the robots.txt check")
	scrapeCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	scrapeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	scrapeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	scrapeCmd.Flags().StringVar(&noProxy, "no-proxy", "", "comma-separated hosts to bypass the proxy")

	// Source flags
	scrapeCmd.Flags().StringVar(&tableClass, "table-class", "", "CSS class marking the data table (default from config)")
	scrapeCmd.Flags().StringVar(&columnHeader, "column-header", "", "header literal of the biographical column (default from config)")
	scrapeCmd.Flags().IntVar(&skipRows, "skip-rows", -1, "leading data rows to drop (-1 = config default)")
	scrapeCmd.Flags().IntVar(&minYear, "min-year", 0, "lower plausibility bound for years (0 = config default)")
	scrapeCmd.Flags().IntVar(&maxYear, "max-year", 0, "upper plausibility bound for years (0 = config default)")
	scrapeCmd.Flags().IntVar(&asOfYear, "as-of", 0, "reference year bounding living persons (0 = current year)")

	// LLM flags
	scrapeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM commentary generation")
	scrapeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	scrapeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

// buildConfig applies the shared scrape/batch flags on top of the defaults.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.HTTP.NoProxy = noProxy
	cfg.Cache.Enabled = !noCache
	cfg.Robots.Respect = !noRobots
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	cfg.Timeline.AsOfYear = asOfYear

	if tableClass != "" {
		cfg.Source.TableClass = tableClass
	}
	if columnHeader != "" {
		cfg.Source.ColumnHeader = columnHeader
	}
	if skipRows >= 0 {
		cfg.Source.SkipLeadingRows = skipRows
	}
	if minYear > 0 {
		cfg.Source.MinYear = minYear
	}
	if maxYear > 0 {
		cfg.Source.MaxYear = maxYear
	}

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.StrictYears = true // Always enforce

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	url := cfg.Source.URL
	if len(args) > 0 {
		url = args[0]
	}
	if url == "" {
		return fmt.Errorf("no URL given and no source.url configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Scraping: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg)

	result, err := p.ScrapeURL(ctx, url)
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}
	report := result.Report

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d records (%d deceased, %d living)\n",
			report.Stats.Count, report.Stats.Deceased, report.Stats.Living)
		fmt.Fprintf(os.Stderr, "✓ Skipped %d of %d rows\n", len(report.Skipped), report.RowsSeen)
		if report.LLM != nil && report.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated LLM commentary using %s/%s\n", report.LLM.Provider, report.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON, outMD, outCSV, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if outPDF != "" {
		timeline := chart.NewTimeline(cfg.Timeline.Year())
		if err := timeline.Render(report.Subject, p.Timeline(report.Records), outPDF); err != nil {
			return fmt.Errorf("render PDF: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote PDF timeline: %s\n", outPDF)
		}
	}

	return nil
}
