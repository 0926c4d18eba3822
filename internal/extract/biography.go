package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/lifelines/internal/model"
)

// Row-level failures are recoverable: the caller records the offending row
// and moves on.
var (
	ErrUnrecognizedFormat = errors.New("unrecognized biographical format")
	ErrMissingName        = errors.New("missing name")
)

// The separator between birth and death year is an en dash or em dash,
// never an ASCII hyphen: the source's repeated header literal spells
// "Birth-Death" with a plain hyphen and must keep failing to parse.
var (
	lifeSpanRE = regexp.MustCompile(`\(\s*(\d{4})\s*([\x{2013}\x{2014}])\s*(\d{4})\s*\)`)
	bornRE     = regexp.MustCompile(`\(\s*b\.\s+(\d{4})\s*\)`)
)

// BiographyParser splits raw column text into a name and a life fragment.
// The source formats deceased holders as "Name(1676–1745)Constituency" and
// living ones as "Name(b. 1950)Constituency", with no separators between
// the runs.
type BiographyParser struct{}

// NewBiographyParser creates a new biography parser
func NewBiographyParser() *BiographyParser {
	return &BiographyParser{}
}

// Parse extracts the name and life fragment from one raw row. Exactly one
// of LifeSpan/Born is set on success; when a row somehow carries both
// shapes, the life-span form wins.
func (p *BiographyParser) Parse(row model.RawRow) (model.Biography, error) {
	text := squash(row.Text)

	idx := strings.Index(text, "(")
	if idx < 0 {
		return model.Biography{}, fmt.Errorf("%w: %q", ErrUnrecognizedFormat, row.Text)
	}

	name := strings.TrimSpace(text[:idx])
	rest := text[idx:]

	if m := lifeSpanRE.FindStringSubmatch(rest); m != nil {
		if name == "" {
			return model.Biography{}, fmt.Errorf("%w: %q", ErrMissingName, row.Text)
		}
		return model.Biography{Name: name, LifeSpan: m[1] + m[2] + m[3]}, nil
	}

	if m := bornRE.FindStringSubmatch(rest); m != nil {
		if name == "" {
			return model.Biography{}, fmt.Errorf("%w: %q", ErrMissingName, row.Text)
		}
		return model.Biography{Name: name, Born: "b. " + m[1]}, nil
	}

	return model.Biography{}, fmt.Errorf("%w: %q", ErrUnrecognizedFormat, row.Text)
}
