package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Season is one of the three academic quarters the planner schedules into.
type Season string

const (
	SeasonFall   Season = "Fall"
	SeasonWinter Season = "Winter"
	SeasonSpring Season = "Spring"
)

// seasonOrder positions a season within a calendar year: Winter begins in
// January, Spring in April, Fall in September.
var seasonOrder = map[Season]int{
	SeasonWinter: 0,
	SeasonSpring: 1,
	SeasonFall:   2,
}

// ValidSeason reports whether the string names a schedulable quarter.
func ValidSeason(s string) bool {
	_, ok := seasonOrder[Season(s)]
	return ok
}

// Term is a (season, year) pair, the planner's unit of placement.
type Term struct {
	Season Season
	Year   int
}

// Label renders the canonical "Fall 2024" form used across the JSON surface.
func (t Term) Label() string {
	return fmt.Sprintf("%s %d", t.Season, t.Year)
}

// Ordinal gives a totally ordered integer for chronological comparison.
func (t Term) Ordinal() int {
	return t.Year*4 + seasonOrder[t.Season]
}

// Before reports strict chronological precedence.
func (t Term) Before(other Term) bool {
	return t.Ordinal() < other.Ordinal()
}

// ParseTermLabel parses "Fall 2024" back into a Term.
func ParseTermLabel(label string) (Term, error) {
	season, year, ok := strings.Cut(strings.TrimSpace(label), " ")
	if !ok || !ValidSeason(season) {
		return Term{}, fmt.Errorf("invalid term label %q", label)
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return Term{}, fmt.Errorf("invalid term label %q", label)
	}
	return Term{Season: Season(season), Year: y}, nil
}

// next advances one academic quarter: Fall rolls into Winter of the
// following calendar year.
func (t Term) next() Term {
	switch t.Season {
	case SeasonFall:
		return Term{Season: SeasonWinter, Year: t.Year + 1}
	case SeasonWinter:
		return Term{Season: SeasonSpring, Year: t.Year}
	default:
		return Term{Season: SeasonFall, Year: t.Year}
	}
}

// TermSequence expands the inclusive planning window into ordered terms.
func TermSequence(start, end Term) ([]Term, error) {
	if !ValidSeason(string(start.Season)) || !ValidSeason(string(end.Season)) {
		return nil, fmt.Errorf("invalid quarter in window %s to %s", start.Label(), end.Label())
	}
	if end.Ordinal() < start.Ordinal() {
		return nil, fmt.Errorf("empty plan horizon: %s is before %s", end.Label(), start.Label())
	}
	var seq []Term
	for t := start; ; t = t.next() {
		seq = append(seq, t)
		if t == end {
			break
		}
	}
	return seq, nil
}

// TermRow is the catalog's canonical term table row.
type TermRow struct {
	ID   int64  `db:"id"`
	Name string `db:"term_name"`
}
