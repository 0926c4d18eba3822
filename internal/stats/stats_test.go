package stats

import (
	"testing"

	"github.com/ppiankov/lifelines/internal/model"
)

func deceased(name string, birth, death int) model.Record {
	age := death - birth
	return model.Record{Name: name, BirthYear: birth, DeathYear: &death, AgeAtDeath: &age}
}

func living(name string, birth int) model.Record {
	return model.Record{Name: name, BirthYear: birth}
}

func TestCalculator_MixedRecords(t *testing.T) {
	calc := NewCalculator()

	stats := calc.Compute([]model.Record{
		deceased("Alice", 1850, 1920), // 70
		deceased("Bob", 1860, 1950),   // 90
		deceased("Carol", 1900, 1980), // 80
		living("Dan", 1940),
		living("Eve", 1950),
	}, 2026)

	if stats.Count != 5 || stats.Deceased != 3 || stats.Living != 2 {
		t.Errorf("Unexpected counts: %+v", stats)
	}
	if stats.MeanAgeAtDeath != 80.0 {
		t.Errorf("Expected mean 80.0, got %f", stats.MeanAgeAtDeath)
	}
	if stats.MedianAgeAtDeath != 80.0 {
		t.Errorf("Expected median 80.0, got %f", stats.MedianAgeAtDeath)
	}
	if stats.MinAgeAtDeath != 70 || stats.ShortestLived != "Alice" {
		t.Errorf("Expected Alice shortest-lived at 70, got %s at %d", stats.ShortestLived, stats.MinAgeAtDeath)
	}
	if stats.MaxAgeAtDeath != 90 || stats.LongestLived != "Bob" {
		t.Errorf("Expected Bob longest-lived at 90, got %s at %d", stats.LongestLived, stats.MaxAgeAtDeath)
	}
	if stats.OldestLiving != "Dan" || stats.OldestLivingAge != 86 {
		t.Errorf("Expected Dan oldest living at 86, got %s at %d", stats.OldestLiving, stats.OldestLivingAge)
	}
	if stats.AsOfYear != 2026 {
		t.Errorf("Expected as-of year carried through, got %d", stats.AsOfYear)
	}
}

func TestCalculator_EvenSampleMedian(t *testing.T) {
	calc := NewCalculator()

	stats := calc.Compute([]model.Record{
		deceased("Alice", 1850, 1920), // 70
		deceased("Carol", 1900, 1980), // 80
	}, 2026)

	if stats.MedianAgeAtDeath != 75.0 {
		t.Errorf("Expected median 75.0 for even sample, got %f", stats.MedianAgeAtDeath)
	}
}

func TestCalculator_TiesKeepFirstRecord(t *testing.T) {
	calc := NewCalculator()

	stats := calc.Compute([]model.Record{
		deceased("Early Bird", 1800, 1880), // 80
		deceased("Late Riser", 1900, 1980), // 80
	}, 2026)

	if stats.ShortestLived != "Early Bird" || stats.LongestLived != "Early Bird" {
		t.Errorf("Expected first record to hold tied extremes, got %s / %s",
			stats.ShortestLived, stats.LongestLived)
	}
}

func TestCalculator_NoRecords(t *testing.T) {
	calc := NewCalculator()

	stats := calc.Compute(nil, 2026)

	if stats.Count != 0 || stats.Deceased != 0 || stats.Living != 0 {
		t.Errorf("Unexpected counts for empty input: %+v", stats)
	}
	if stats.MeanAgeAtDeath != 0 || stats.MedianAgeAtDeath != 0 {
		t.Errorf("Expected zero aggregates for empty input: %+v", stats)
	}
	if stats.ShortestLived != "" || stats.LongestLived != "" || stats.OldestLiving != "" {
		t.Errorf("Expected no holders for empty input: %+v", stats)
	}
}

func TestCalculator_AllLiving(t *testing.T) {
	calc := NewCalculator()

	stats := calc.Compute([]model.Record{
		living("Dan", 1940),
		living("Eve", 1950),
	}, 2026)

	if stats.Deceased != 0 || stats.Living != 2 {
		t.Errorf("Unexpected counts: %+v", stats)
	}
	if stats.MeanAgeAtDeath != 0 {
		t.Errorf("Expected no mean without deceased records, got %f", stats.MeanAgeAtDeath)
	}
	if stats.OldestLiving != "Dan" {
		t.Errorf("Expected Dan oldest living, got %s", stats.OldestLiving)
	}
}

func TestCalculator_AsOfBeforeBirthClampsAge(t *testing.T) {
	calc := NewCalculator()

	stats := calc.Compute([]model.Record{living("Dan", 1950)}, 1900)

	if stats.OldestLivingAge != 0 {
		t.Errorf("Expected clamped living age 0, got %d", stats.OldestLivingAge)
	}
}
