package stats

import (
	"sort"

	"github.com/ppiankov/lifelines/internal/model"
)

// Calculator computes aggregate lifespan statistics over final records
type Calculator struct{}

// NewCalculator creates a new statistics calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute summarizes the records: age-at-death distribution for deceased
// holders, plus the oldest living holder measured against asOfYear. Ties on
// extreme ages keep the first record encountered, which after assembly is
// the earliest-born holder.
func (c *Calculator) Compute(records []model.Record, asOfYear int) model.LifespanStats {
	stats := model.LifespanStats{
		Count:    len(records),
		AsOfYear: asOfYear,
	}

	var ages []int
	oldestLivingBirth := 0

	for _, record := range records {
		if record.AgeAtDeath != nil {
			stats.Deceased++
			age := *record.AgeAtDeath
			ages = append(ages, age)

			if stats.ShortestLived == "" || age < stats.MinAgeAtDeath {
				stats.MinAgeAtDeath = age
				stats.ShortestLived = record.Name
			}
			if stats.LongestLived == "" || age > stats.MaxAgeAtDeath {
				stats.MaxAgeAtDeath = age
				stats.LongestLived = record.Name
			}
			continue
		}

		stats.Living++
		if stats.OldestLiving == "" || record.BirthYear < oldestLivingBirth {
			oldestLivingBirth = record.BirthYear
			stats.OldestLiving = record.Name
		}
	}

	if stats.OldestLiving != "" {
		age := asOfYear - oldestLivingBirth
		if age < 0 {
			age = 0
		}
		stats.OldestLivingAge = age
	}

	if len(ages) > 0 {
		stats.MeanAgeAtDeath = mean(ages)
		stats.MedianAgeAtDeath = median(ages)
	}

	return stats
}

// mean averages the ages.
func mean(ages []int) float64 {
	sum := 0
	for _, age := range ages {
		sum += age
	}
	return float64(sum) / float64(len(ages))
}

// median returns the middle age, averaging the two central values for
// even-sized samples.
func median(ages []int) float64 {
	sorted := make([]int, len(ages))
	copy(sorted, ages)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2.0
}
