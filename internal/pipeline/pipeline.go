package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/lifelines/internal/cache"
	"github.com/ppiankov/lifelines/internal/dataset"
	"github.com/ppiankov/lifelines/internal/extract"
	"github.com/ppiankov/lifelines/internal/llm"
	"github.com/ppiankov/lifelines/internal/model"
	"github.com/ppiankov/lifelines/internal/normalize"
	"github.com/ppiankov/lifelines/internal/stats"
	"github.com/ppiankov/lifelines/internal/util"
)

// ErrRobotsDisallowed marks a URL the site's robots.txt forbids fetching.
var ErrRobotsDisallowed = errors.New("robots.txt disallows fetching")

// Pipeline orchestrates the complete scrape: fetch markup, load the table,
// parse and normalize each row, assemble the dataset and compute statistics.
// Row-level failures are collected as skips; only structural failures abort.
type Pipeline struct {
	fetcher    *Fetcher
	pageCache  cache.Cache
	robots     *util.RobotsChecker
	loader     *extract.TableLoader
	parser     *extract.BiographyParser
	normalizer *normalize.Normalizer
	assembler  *dataset.Assembler
	calculator *stats.Calculator
	renderer   *Renderer
	summarizer *llm.Summarizer // Optional LLM commentary (nil if disabled)
	config     *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var pageCache cache.Cache
	if cfg.Cache.Enabled {
		pageCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	var robots *util.RobotsChecker
	if cfg.Robots.Respect {
		robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		fetcher: NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes,
			cfg.HTTP.InsecureTLS, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
		pageCache:  pageCache,
		robots:     robots,
		loader:     extract.NewTableLoader(cfg.Source.TableClass, cfg.Source.ColumnHeader, cfg.Source.SkipLeadingRows),
		parser:     extract.NewBiographyParser(),
		normalizer: normalize.NewNormalizer(cfg.Source.MinYear, cfg.Source.MaxYear),
		assembler:  dataset.NewAssembler(cfg.Timeline.Year()),
		calculator: stats.NewCalculator(),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		summarizer: summarizer,
		config:     cfg,
	}
}

// ScrapeResult contains the complete scrape result
type ScrapeResult struct {
	Report *model.Report
	Error  error
}

// ScrapeURL scrapes a single listing URL and generates a complete report.
func (p *Pipeline) ScrapeURL(ctx context.Context, url string) (*ScrapeResult, error) {
	if p.robots != nil {
		allowed, _, err := p.robots.CanFetch(ctx, url)
		if err == nil && !allowed {
			return nil, fmt.Errorf("%w: %s", ErrRobotsDisallowed, url)
		}
	}

	html, meta, subject, finalURL, err := p.fetchPage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	ds, err := p.BuildDataset(html)
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}

	report := &model.Report{
		ID:        uuid.NewString(),
		Subject:   subject,
		SourceURL: finalURL,
		FetchedAt: time.Now().UTC(),
		FetchMeta: meta,
		Records:   ds.Records,
		Skipped:   ds.Skipped,
		RowsSeen:  ds.RowsSeen,
		Stats:     p.calculator.Compute(ds.Records, p.assembler.AsOfYear()),
	}

	// LLM commentary comes last and never affects the computed dataset.
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		llmSummary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM commentary generation failed: %v\n", err)
		} else if llmSummary != nil {
			report.LLM = llmSummary
		}
	}

	return &ScrapeResult{Report: report}, nil
}

// fetchPage serves the page body from the cache when possible, otherwise
// fetches with retry and stores the result. Cache hits skip the network
// entirely so re-runs are deterministic.
func (p *Pipeline) fetchPage(ctx context.Context, url string) (string, model.FetchMeta, string, string, error) {
	key := cache.CacheKey(url)

	if p.pageCache != nil {
		if body, found := p.pageCache.Get(key); found {
			meta := model.FetchMeta{FromCache: true}
			return string(body), meta, extractSubject(url), url, nil
		}
	}

	result, err := p.fetcher.FetchWithRetry(ctx, url)
	if err != nil {
		return "", model.FetchMeta{}, "", "", err
	}

	if p.pageCache != nil {
		if err := p.pageCache.Set(key, []byte(result.HTML), p.config.Cache.DiskTTL); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cache write failed: %v\n", err)
		}
	}

	return result.HTML, result.Meta, result.Subject, result.FinalURL, nil
}

// BuildDataset runs the core loader -> parser -> normalizer -> assembler
// stages over raw markup. One malformed row never prevents the rest of the
// dataset from being produced; every excluded row is recorded.
func (p *Pipeline) BuildDataset(html string) (*model.Dataset, error) {
	rows, err := p.loader.Load(html)
	if err != nil {
		return nil, err
	}

	var records []model.Record
	var skipped []model.SkippedRow

	for _, row := range rows {
		bio, err := p.parser.Parse(row)
		if err != nil {
			skipped = append(skipped, model.SkippedRow{
				Row:    row.Row,
				Text:   row.Text,
				Stage:  "parse",
				Reason: err.Error(),
			})
			continue
		}

		record, err := p.normalizer.Normalize(bio)
		if err != nil {
			skipped = append(skipped, model.SkippedRow{
				Row:    row.Row,
				Text:   row.Text,
				Stage:  "normalize",
				Reason: err.Error(),
			})
			continue
		}

		records = append(records, record)
	}

	records = normalize.Dedupe(records)
	records = p.assembler.Assemble(records)

	return &model.Dataset{
		Records:  records,
		Skipped:  skipped,
		RowsSeen: len(rows),
	}, nil
}

// Timeline derives the render-ready view from the report's records.
func (p *Pipeline) Timeline(records []model.Record) []model.TimelineEntry {
	return p.assembler.Timeline(records)
}

// RenderReport renders the report to the requested outputs and prints the
// stdout summary.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath, csvPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	if csvPath != "" {
		if err := p.renderer.RenderCSV(report, csvPath); err != nil {
			return fmt.Errorf("render CSV: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote CSV: %s\n", csvPath)
		}
	}

	// LLM commentary goes to its own file so generated text never mixes with
	// extracted data.
	if report.LLM != nil && report.LLM.Enabled && mdPath != "" {
		llmMdPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		llmMarkdown := llm.RenderSeparateMarkdown(report.LLM)
		if err := p.renderer.RenderLLMMarkdown(llmMarkdown, llmMdPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to write LLM commentary: %v\n", err)
		} else if verbose {
			fmt.Printf("✓ Wrote LLM Commentary: %s\n", llmMdPath)
		}
	}

	p.renderer.RenderSummary(report)

	return nil
}
