package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/lifelines/internal/model"
	"github.com/ppiankov/lifelines/internal/pipeline"
)

// Scraper defines the interface for scraping one listing URL
type Scraper interface {
	ScrapeURL(ctx context.Context, url string) (*pipeline.ScrapeResult, error)
}

// ScrapeJob is one listing URL queued for scraping. The per-domain limiter,
// when set, is consulted before the fetch so batch runs pace themselves
// against each source host.
type ScrapeJob struct {
	URL     string
	Scraper Scraper
	Limiter *Limiter
}

// Execute executes the scrape job
func (j *ScrapeJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.URL); err != nil {
			return &ScrapeResult{URL: j.URL, Error: err}
		}
	}

	result, err := j.Scraper.ScrapeURL(ctx, j.URL)
	if err != nil {
		return &ScrapeResult{
			URL:   j.URL,
			Error: err,
		}
	}
	return &ScrapeResult{
		URL:    j.URL,
		Report: result.Report,
	}
}

// ScrapeResult is the per-URL outcome of a batch run
type ScrapeResult struct {
	URL    string
	Report *model.Report
	Error  error
}

// GetError returns the error from the scrape result
func (r *ScrapeResult) GetError() error {
	return r.Error
}

// BatchProcessor scrapes multiple listing URLs concurrently
type BatchProcessor struct {
	scraper     Scraper
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. A requestsPerSecond of zero
// disables rate limiting.
func NewBatchProcessor(scraper Scraper, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	var limiter *Limiter
	if requestsPerSecond > 0 {
		limiter = NewLimiter(requestsPerSecond, burst)
	}

	return &BatchProcessor{
		scraper:     scraper,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessURLs scrapes the URLs through the worker pool
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []*ScrapeResult {
	if len(urls) == 0 {
		return []*ScrapeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, url := range urls {
		pool.Submit(&ScrapeJob{
			URL:     url,
			Scraper: b.scraper,
			Limiter: b.limiter,
		})
	}

	results := pool.Wait()

	scrapeResults := make([]*ScrapeResult, len(results))
	for i, result := range results {
		scrapeResults[i] = result.(*ScrapeResult)
	}

	return scrapeResults
}

// ProcessFile reads listing URLs from a file and scrapes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ScrapeResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}

	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads URLs from a file, one per line. Blank lines and
// # comments are skipped and exact duplicates dropped.
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
