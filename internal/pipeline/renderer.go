package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/ppiankov/lifelines/internal/model"
)

// Renderer writes a finished report as JSON, Markdown, CSV and a stdout
// summary. Rendering never mutates the report.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// RenderMarkdown writes a human-readable report: summary header, the record
// table, and an audit section for every skipped row.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close file: %w", closeErr)
		}
	}()

	printf := func(format string, a ...interface{}) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(f, format, a...)
	}

	printf("# %s\n\n", report.Subject)
	printf("- Source: %s\n", report.SourceURL)
	printf("- Fetched: %s\n", report.FetchedAt.Format("2006-01-02 15:04:05 UTC"))
	printf("- Records: %d (%d deceased, %d living)\n", report.Stats.Count, report.Stats.Deceased, report.Stats.Living)
	printf("- Rows seen: %d, rows skipped: %d\n\n", report.RowsSeen, len(report.Skipped))

	printf("## Lifespans\n\n")
	if report.Stats.Deceased > 0 {
		printf("- Mean age at death: %.1f\n", report.Stats.MeanAgeAtDeath)
		printf("- Median age at death: %.1f\n", report.Stats.MedianAgeAtDeath)
		printf("- Longest-lived: %s (%d)\n", report.Stats.LongestLived, report.Stats.MaxAgeAtDeath)
		printf("- Shortest-lived: %s (%d)\n", report.Stats.ShortestLived, report.Stats.MinAgeAtDeath)
	}
	if report.Stats.OldestLiving != "" {
		printf("- Oldest living: %s (age %d as of %d)\n", report.Stats.OldestLiving, report.Stats.OldestLivingAge, report.Stats.AsOfYear)
	}
	printf("\n## Records\n\n")
	printf("| Name | Born | Died | Age |\n")
	printf("|------|------|------|-----|\n")
	for _, record := range report.Records {
		printf("| %s | %d | %s | %s |\n", record.Name, record.BirthYear,
			yearOrDash(record.DeathYear), yearOrDash(record.AgeAtDeath))
	}

	if len(report.Skipped) > 0 {
		printf("\n## Skipped rows\n\n")
		printf("| Row | Stage | Text | Reason |\n")
		printf("|-----|-------|------|--------|\n")
		for _, skip := range report.Skipped {
			printf("| %d | %s | %s | %s |\n", skip.Row, skip.Stage, skip.Text, skip.Reason)
		}
	}

	if r.includeFooter {
		printf("\n---\n\nGenerated by lifelines (report %s)\n", report.ID)
	}

	return err
}

// RenderCSV writes the flat record list, one line per person.
func (r *Renderer) RenderCSV(report *model.Report, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close file: %w", closeErr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"name", "birth_year", "death_year", "age_at_death"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, record := range report.Records {
		row := []string{
			record.Name,
			strconv.Itoa(record.BirthYear),
			yearOrEmpty(record.DeathYear),
			yearOrEmpty(record.AgeAtDeath),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// RenderSummary prints a compact overview to stdout.
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", report.Subject)
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("  Records:       %d (%d deceased, %d living)\n", report.Stats.Count, report.Stats.Deceased, report.Stats.Living)
	fmt.Printf("  Rows skipped:  %d of %d seen\n", len(report.Skipped), report.RowsSeen)
	if report.Stats.Deceased > 0 {
		fmt.Printf("  Age at death:  mean %.1f, median %.1f\n", report.Stats.MeanAgeAtDeath, report.Stats.MedianAgeAtDeath)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tBORN\tDIED\tAGE")
	for _, record := range report.Records {
		fmt.Fprintf(w, "  %s\t%d\t%s\t%s\n", record.Name, record.BirthYear,
			yearOrDash(record.DeathYear), yearOrDash(record.AgeAtDeath))
	}
	_ = w.Flush()
	fmt.Println()

	if len(report.Skipped) > 0 {
		fmt.Printf("  %d row(s) could not be parsed; see the JSON/Markdown report for details.\n\n", len(report.Skipped))
	}
}

// RenderLLMMarkdown writes pre-rendered LLM commentary to its own file.
func (r *Renderer) RenderLLMMarkdown(markdown string, path string) error {
	if markdown == "" {
		return nil
	}
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func yearOrDash(v *int) string {
	if v == nil {
		return "—"
	}
	return strconv.Itoa(*v)
}

func yearOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
