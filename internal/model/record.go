package model

// RawRow is one unprocessed text cell extracted from the source table,
// before any field splitting.
type RawRow struct {
	Text string `json:"text"` // Squashed cell text, e.g. "Sir Robert Walpole(1676–1745)Whig"
	Row  int    `json:"row"`  // Zero-based row index in the source table
}

// Biography is the intermediate result of splitting a raw row into a name
// segment and a life segment. At most one of LifeSpan/Born is set after a
// successful parse; the two text shapes are mutually exclusive in the source.
type Biography struct {
	Name     string `json:"name"`                // Office-holder name, trimmed
	LifeSpan string `json:"life_span,omitempty"` // "birth–death" fragment, deceased persons only
	Born     string `json:"born,omitempty"`      // "b. YYYY" fragment, living persons only
}

// Record is the final, validated representation of one office-holder's
// birth/death data. Records are immutable once constructed; corrections
// require re-running the pipeline from raw input.
type Record struct {
	Name       string `json:"name"`
	BirthYear  int    `json:"birth_year"`
	DeathYear  *int   `json:"death_year,omitempty"`   // Absent for living persons
	AgeAtDeath *int   `json:"age_at_death,omitempty"` // DeathYear - BirthYear when both present
}

// Alive reports whether the record carries no death year.
func (r Record) Alive() bool {
	return r.DeathYear == nil
}

// TimelineEntry is the render-ready view of one record: a bounded horizontal
// segment even when the person is still alive. Computed on demand from a
// Record, never stored back onto it.
type TimelineEntry struct {
	Name      string `json:"name"`
	BirthYear int    `json:"birth_year"`
	EndYear   int    `json:"end_year"` // DeathYear, or the as-of year for living persons
	Alive     bool   `json:"alive"`
}

// SkippedRow records one source row excluded by a per-row parse or
// normalization failure. Skips ride along with the dataset so data loss is
// observable, never silent.
type SkippedRow struct {
	Row    int    `json:"row"`    // Source table row index
	Text   string `json:"text"`   // The offending raw text
	Stage  string `json:"stage"`  // "parse" or "normalize"
	Reason string `json:"reason"` // Why the row was excluded
}

// Dataset is the outcome of one pipeline run over a source page: the valid
// records plus an audit trail of everything that was excluded.
type Dataset struct {
	Records  []Record     `json:"records"`
	Skipped  []SkippedRow `json:"skipped,omitempty"`
	RowsSeen int          `json:"rows_seen"` // Raw rows the loader yielded
}
