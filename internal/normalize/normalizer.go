package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/lifelines/internal/model"
)

// Row-level failures are recoverable: the caller records the offending row
// and moves on.
var (
	ErrNonIntegerYear  = errors.New("year is not an integer")
	ErrYearOutOfRange  = errors.New("year outside plausible range")
	ErrInvalidOrdering = errors.New("death year not after birth year")
)

// Normalizer converts parsed biographies into validated records. Years must
// parse as integers, fall inside a plausible historical window, and order
// sensibly; anything else is rejected per record without aborting the batch.
type Normalizer struct {
	minYear int
	maxYear int
}

// NewNormalizer creates a normalizer enforcing the [minYear, maxYear]
// plausibility window.
func NewNormalizer(minYear, maxYear int) *Normalizer {
	return &Normalizer{
		minYear: minYear,
		maxYear: maxYear,
	}
}

// Normalize converts one biography into a validated record.
func (n *Normalizer) Normalize(bio model.Biography) (model.Record, error) {
	switch {
	case bio.LifeSpan != "":
		birthText, deathText, ok := splitLifeSpan(bio.LifeSpan)
		if !ok {
			return model.Record{}, fmt.Errorf("%w: life span %q has no dash separator", ErrNonIntegerYear, bio.LifeSpan)
		}

		birth, err := n.parseYear(birthText)
		if err != nil {
			return model.Record{}, err
		}
		death, err := n.parseYear(deathText)
		if err != nil {
			return model.Record{}, err
		}
		if death <= birth {
			return model.Record{}, fmt.Errorf("%w: born %d, died %d", ErrInvalidOrdering, birth, death)
		}

		age := death - birth
		return model.Record{
			Name:       bio.Name,
			BirthYear:  birth,
			DeathYear:  &death,
			AgeAtDeath: &age,
		}, nil

	case bio.Born != "":
		yearText := strings.TrimSpace(strings.TrimPrefix(bio.Born, "b."))
		birth, err := n.parseYear(yearText)
		if err != nil {
			return model.Record{}, err
		}
		return model.Record{
			Name:      bio.Name,
			BirthYear: birth,
		}, nil

	default:
		return model.Record{}, fmt.Errorf("%w: biography has no life fragment", ErrNonIntegerYear)
	}
}

// Dedupe removes duplicate records, keeping first-seen order. Two records
// are duplicates iff name, birth year and death year all match: a person
// serving non-consecutive terms appears once. Idempotent.
func Dedupe(records []model.Record) []model.Record {
	seen := make(map[recordKey]bool)
	var unique []model.Record
	for _, record := range records {
		key := keyOf(record)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, record)
	}
	return unique
}

// recordKey is the identity tuple for duplicate collapsing. Death year 0
// marks a living record; real death years sit inside the plausibility
// window and can never collide with it.
type recordKey struct {
	name  string
	birth int
	death int
}

func keyOf(r model.Record) recordKey {
	key := recordKey{name: r.Name, birth: r.BirthYear}
	if r.DeathYear != nil {
		key.death = *r.DeathYear
	}
	return key
}

// parseYear converts a year fragment to an integer and checks plausibility.
func (n *Normalizer) parseYear(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNonIntegerYear, s)
	}
	if year < n.minYear || year > n.maxYear {
		return 0, fmt.Errorf("%w: %d not in [%d, %d]", ErrYearOutOfRange, year, n.minYear, n.maxYear)
	}
	return year, nil
}

// splitLifeSpan splits a "birth–death" fragment on its dash rune.
func splitLifeSpan(s string) (string, string, bool) {
	i := strings.IndexAny(s, "–—")
	if i < 0 {
		return "", "", false
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+size:]), true
}
