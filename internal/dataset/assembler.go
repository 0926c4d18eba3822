package dataset

import (
	"sort"

	"github.com/ppiankov/lifelines/internal/model"
)

// Assembler orders validated records and derives the render-ready timeline
// view. The as-of year for living persons is injected at construction so
// results stay reproducible under test.
type Assembler struct {
	asOfYear int
}

// NewAssembler creates an assembler bounding living persons at asOfYear.
func NewAssembler(asOfYear int) *Assembler {
	return &Assembler{asOfYear: asOfYear}
}

// AsOfYear returns the year living persons are bounded at.
func (a *Assembler) AsOfYear() int {
	return a.asOfYear
}

// Assemble returns a copy of the records sorted ascending by birth year.
// The sort is stable: records born the same year keep their encounter
// order. The input slice is never mutated.
func (a *Assembler) Assemble(records []model.Record) []model.Record {
	sorted := make([]model.Record, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BirthYear < sorted[j].BirthYear
	})

	return sorted
}

// Timeline derives one bounded segment per record: deceased persons end at
// their death year, living ones at the as-of year. Derived on demand and
// never stored back onto the records.
func (a *Assembler) Timeline(records []model.Record) []model.TimelineEntry {
	entries := make([]model.TimelineEntry, 0, len(records))
	for _, record := range records {
		end := a.asOfYear
		if record.DeathYear != nil {
			end = *record.DeathYear
		} else if end < record.BirthYear {
			// An as-of year predating the birth would flip the segment.
			end = record.BirthYear
		}

		entries = append(entries, model.TimelineEntry{
			Name:      record.Name,
			BirthYear: record.BirthYear,
			EndYear:   end,
			Alive:     record.Alive(),
		})
	}
	return entries
}
