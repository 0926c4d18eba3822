package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/lifelines/internal/model"
)

// Summarizer wraps an optional provider generating narrative commentary on a
// finished report. Commentary never affects the extracted records or
// statistics; every failure degrades to a warning instead of aborting the
// scrape.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer from configuration. An empty provider
// name yields a disabled summarizer, not an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	return &Summarizer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider's name, or empty when
// disabled.
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary produces dataset commentary. The years the commentary may
// cite are restricted to those occurring in the dataset; a response citing
// anything else is rejected. Provider unavailability and generation errors
// come back as warnings on the summary, never as a failed scrape.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	summary := &model.LLMSummary{
		Provider:    s.provider.Name(),
		Model:       s.config.Model,
		StrictYears: s.config.StrictYears,
	}

	if !s.provider.IsAvailable(ctx) {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("LLM provider %s is not available; commentary skipped", s.provider.Name()))
		return summary, nil
	}

	summary.Enabled = true

	allowedYears := YearsFromReport(report)
	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:       report,
		AllowedYears: allowedYears,
		Model:        s.config.Model,
		MaxTokens:    s.config.MaxTokens,
	})
	if err != nil {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("Commentary generation failed: %v", err))
		return summary, nil
	}

	summary.SummaryMD = resp.Commentary
	if resp.Model != "" {
		summary.Model = resp.Model
	}
	summary.Warnings = append(summary.Warnings,
		fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
		fmt.Sprintf("Verified %d cited years against the dataset", len(resp.CitedYears)))

	return summary, nil
}

// RenderSeparateMarkdown renders commentary as its own document so generated
// text never mixes with extracted data.
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder

	b.WriteString("# LLM Commentary\n\n")
	b.WriteString("> GENERATED CONTENT. The records and statistics in the main report were\n")
	b.WriteString("> determined independently of this text and are never affected by it.\n\n")

	fmt.Fprintf(&b, "- Provider: %s\n", summary.Provider)
	fmt.Fprintf(&b, "- Model: %s\n", summary.Model)
	fmt.Fprintf(&b, "- Strict Years Mode: %t\n\n", summary.StrictYears)

	if summary.SummaryMD != "" {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	} else {
		b.WriteString("No commentary generated.\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, warning := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}

	return b.String()
}
