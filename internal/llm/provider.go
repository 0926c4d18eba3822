package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/lifelines/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates dataset commentary with strict year citation mode
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM commentary
type SummarizeRequest struct {
	// Report is the scrape report to comment on
	Report model.Report

	// AllowedYears is the STRICT allowlist of years the LLM can cite
	// This prevents hallucination - every 4-digit year in the commentary
	// must occur in the dataset
	AllowedYears []int

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's commentary output
type SummarizeResponse struct {
	// Commentary is the generated text
	Commentary string

	// CitedYears are the years the LLM actually cited (for verification)
	CitedYears []int

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictYears enforces the year allowlist (should always be true)
	StrictYears bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Model:       "",
		Timeout:     30,
		StrictYears: true, // CRITICAL: Always enforce
		MaxTokens:   600,
	}
}

// YearsFromReport collects every year occurring in the dataset: birth and
// death years plus the as-of year. This is the strict allowlist commentary
// may cite from.
func YearsFromReport(report model.Report) []int {
	seen := make(map[int]bool)
	var years []int
	add := func(year int) {
		if year != 0 && !seen[year] {
			seen[year] = true
			years = append(years, year)
		}
	}

	for _, record := range report.Records {
		add(record.BirthYear)
		if record.DeathYear != nil {
			add(*record.DeathYear)
		}
	}
	add(report.Stats.AsOfYear)

	sort.Ints(years)
	return years
}

// BuildPrompt constructs the default commentary prompt with strict year mode
func BuildPrompt(report model.Report, allowedYears []int) string {
	prompt := fmt.Sprintf(`You are commenting on a dataset of office-holder lifespans extracted from a public listing. The records below are the ground truth - never contradict or extend them.

CRITICAL RULES:
1. You MUST ONLY cite years from this allowed list:
%s

2. DO NOT add biographical facts from outside the dataset (no causes of death, no events, no offices held).
3. If the dataset is small or many rows were skipped, state that explicitly.
4. Focus on PATTERNS in the data. Use phrases like:
   - "The longest-lived holder reached..."
   - "Birth years cluster around..."
   - "Lifespans lengthen toward the recent entries..."
5. Never speculate about living persons beyond their recorded birth year.

Dataset Summary:
- Subject: %s
- Records: %d (%d deceased, %d living)
- Rows seen: %d, rows skipped: %d
- Mean age at death: %.1f
- Median age at death: %.1f
`, joinYears(allowedYears), report.Subject, report.Stats.Count, report.Stats.Deceased,
		report.Stats.Living, report.RowsSeen, len(report.Skipped),
		report.Stats.MeanAgeAtDeath, report.Stats.MedianAgeAtDeath)

	if report.Stats.ShortestLived != "" {
		prompt += fmt.Sprintf("- Shortest-lived: %s (died at %d)\n", report.Stats.ShortestLived, report.Stats.MinAgeAtDeath)
	}
	if report.Stats.LongestLived != "" {
		prompt += fmt.Sprintf("- Longest-lived: %s (died at %d)\n", report.Stats.LongestLived, report.Stats.MaxAgeAtDeath)
	}
	if report.Stats.OldestLiving != "" {
		prompt += fmt.Sprintf("- Oldest living: %s (age %d as of %d)\n", report.Stats.OldestLiving, report.Stats.OldestLivingAge, report.Stats.AsOfYear)
	}

	prompt += "\nProvide a 3-4 sentence commentary on the lifespan patterns, using only the data above."

	return prompt
}

// joinYears formats the allowlist compactly, a dozen years per line.
func joinYears(years []int) string {
	if len(years) == 0 {
		return "(No years available)"
	}

	var b strings.Builder
	for i, year := range years {
		if i >= 60 {
			fmt.Fprintf(&b, "\n... and %d more years", len(years)-60)
			break
		}
		if i%12 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d", year)
	}
	return b.String()
}
