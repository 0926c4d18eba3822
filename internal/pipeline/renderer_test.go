package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/lifelines/internal/model"
)

func sampleReport() *model.Report {
	death := 1980
	age := 80
	return &model.Report{
		ID:        "test-report-id",
		Subject:   "List of prime ministers",
		SourceURL: "https://example.org/List_of_prime_ministers",
		FetchedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Records: []model.Record{
			{Name: "Jane Doe", BirthYear: 1900, DeathYear: &death, AgeAtDeath: &age},
			{Name: "John Smith", BirthYear: 1950},
		},
		Skipped: []model.SkippedRow{
			{Row: 4, Text: "Broken Entry no years here", Stage: "parse", Reason: "unrecognized biographical format"},
		},
		RowsSeen: 3,
		Stats: model.LifespanStats{
			Count: 2, Deceased: 1, Living: 1,
			MeanAgeAtDeath: 80, MedianAgeAtDeath: 80,
			MinAgeAtDeath: 80, ShortestLived: "Jane Doe",
			MaxAgeAtDeath: 80, LongestLived: "Jane Doe",
			OldestLiving: "John Smith", OldestLivingAge: 74,
			AsOfYear: 2024,
		},
	}
}

func TestRenderJSON_RoundTrip(t *testing.T) {
	renderer := NewRenderer(true)
	path := filepath.Join(t.TempDir(), "report.json")

	if err := renderer.RenderJSON(sampleReport(), path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read report: %v", err)
	}

	var got model.Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal report: %v", err)
	}

	if got.Subject != "List of prime ministers" {
		t.Errorf("Unexpected subject: %q", got.Subject)
	}
	if len(got.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(got.Records))
	}
	if got.Records[0].DeathYear == nil || *got.Records[0].DeathYear != 1980 {
		t.Errorf("Death year lost in round trip: %+v", got.Records[0])
	}
	if got.Records[1].DeathYear != nil {
		t.Error("Living record gained a death year in round trip")
	}
}

func TestRenderMarkdown_Sections(t *testing.T) {
	renderer := NewRenderer(true)
	path := filepath.Join(t.TempDir(), "report.md")

	if err := renderer.RenderMarkdown(sampleReport(), path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read report: %v", err)
	}
	md := string(data)

	for _, want := range []string{
		"# List of prime ministers",
		"## Records",
		"| Jane Doe | 1900 | 1980 | 80 |",
		"| John Smith | 1950 | — | — |",
		"## Skipped rows",
		"Broken Entry no years here",
		"Oldest living: John Smith (age 74 as of 2024)",
		"Generated by lifelines",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
}

func TestRenderMarkdown_NoFooter(t *testing.T) {
	renderer := NewRenderer(false)
	path := filepath.Join(t.TempDir(), "report.md")

	if err := renderer.RenderMarkdown(sampleReport(), path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read report: %v", err)
	}

	if strings.Contains(string(data), "Generated by lifelines") {
		t.Error("Expected no footer when disabled")
	}
}

func TestRenderCSV_Records(t *testing.T) {
	renderer := NewRenderer(true)
	path := filepath.Join(t.TempDir(), "report.csv")

	if err := renderer.RenderCSV(sampleReport(), path); err != nil {
		t.Fatalf("RenderCSV failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read report: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 records, got %d lines", len(lines))
	}
	if lines[0] != "name,birth_year,death_year,age_at_death" {
		t.Errorf("Unexpected header: %q", lines[0])
	}
	if lines[1] != "Jane Doe,1900,1980,80" {
		t.Errorf("Unexpected deceased row: %q", lines[1])
	}
	if lines[2] != "John Smith,1950,," {
		t.Errorf("Unexpected living row: %q", lines[2])
	}
}

func TestRenderLLMMarkdown_Empty(t *testing.T) {
	renderer := NewRenderer(true)
	path := filepath.Join(t.TempDir(), "report.llm.md")

	if err := renderer.RenderLLMMarkdown("", path); err != nil {
		t.Fatalf("RenderLLMMarkdown failed: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected no file for empty commentary")
	}
}
