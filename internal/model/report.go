package model

import "time"

// Report represents the complete result of scraping one office-holder listing
type Report struct {
	ID        string    `json:"id"`         // Unique report identifier
	Subject   string    `json:"subject"`    // Subject of the report (e.g., "List of prime ministers")
	SourceURL string    `json:"source_url"` // URL that was scraped
	FetchedAt time.Time `json:"fetched_at"` // When the scrape occurred
	FetchMeta FetchMeta `json:"fetch_meta"` // HTTP metadata

	Records  []Record     `json:"records"`           // Validated biographical records, ordered by birth year
	Skipped  []SkippedRow `json:"skipped,omitempty"` // Rows excluded with their reasons
	RowsSeen int          `json:"rows_seen"`         // Raw rows yielded by the table loader

	Stats LifespanStats `json:"stats"` // Aggregate lifespan statistics

	LLM *LLMSummary `json:"llm,omitempty"` // Optional LLM commentary (separate, never affects the dataset)
}

// FetchMeta contains HTTP metadata from fetching the source
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	FromCache    bool              `json:"from_cache"` // Whether the body was served from the local cache
	Headers      map[string]string `json:"headers,omitempty"`
}

// LifespanStats is the aggregate view over the final records. Age fields
// cover deceased records only; the oldest-living fields cover the rest.
type LifespanStats struct {
	Count    int `json:"count"`    // Total records
	Deceased int `json:"deceased"` // Records with a death year
	Living   int `json:"living"`   // Records without one

	MeanAgeAtDeath   float64 `json:"mean_age_at_death,omitempty"`
	MedianAgeAtDeath float64 `json:"median_age_at_death,omitempty"`
	MinAgeAtDeath    int     `json:"min_age_at_death,omitempty"`
	ShortestLived    string  `json:"shortest_lived,omitempty"` // Holder of MinAgeAtDeath
	MaxAgeAtDeath    int     `json:"max_age_at_death,omitempty"`
	LongestLived     string  `json:"longest_lived,omitempty"` // Holder of MaxAgeAtDeath

	OldestLiving    string `json:"oldest_living,omitempty"` // Living person with the earliest birth year
	OldestLivingAge int    `json:"oldest_living_age,omitempty"`

	AsOfYear int `json:"as_of_year"` // Year living ages were computed against
}

// LLMSummary contains optional LLM-generated commentary
// CRITICAL: This never affects the extracted records or statistics
type LLMSummary struct {
	Enabled     bool     `json:"enabled"`
	Provider    string   `json:"provider,omitempty"`   // openai, anthropic, ollama
	Model       string   `json:"model,omitempty"`      // Model name
	StrictYears bool     `json:"strict_years"`         // Whether year-citation enforcement was enabled
	SummaryMD   string   `json:"summary_md,omitempty"` // Markdown commentary
	Warnings    []string `json:"warnings,omitempty"`   // Any issues (e.g., fabricated years detected)
}
