package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Subject represents a catalog subject area.
type Subject struct {
	ID   int64  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// CourseKey identifies a course by subject code and catalog number. Its
// canonical wire form is "<SUBJ>|<NUM>".
type CourseKey struct {
	Subject string
	Number  string
}

// ParseCourseKey parses the canonical "<SUBJ>|<NUM>" form.
func ParseCourseKey(raw string) (CourseKey, error) {
	subject, number, ok := strings.Cut(raw, "|")
	if !ok || subject == "" || number == "" {
		return CourseKey{}, fmt.Errorf("invalid course key %q", raw)
	}
	return CourseKey{Subject: subject, Number: number}, nil
}

func (k CourseKey) String() string {
	return k.Subject + "|" + k.Number
}

// Course is a catalog course row with its parsed requisite tree.
type Course struct {
	ID            int64           `db:"id"`
	SubjectID     int64           `db:"subject_id"`
	CatalogNumber string          `db:"catalog_number"`
	Title         string          `db:"title"`
	RawRequisites json.RawMessage `db:"course_requisites"`

	Requisites *RequisiteNode `db:"-"`
}

// UpperDivision reports whether a catalog number falls in the inclusive
// 100-199 range once letter prefixes and suffixes are stripped
// (e.g. "M116L" -> 116).
func UpperDivision(catalogNumber string) bool {
	trimmed := strings.TrimFunc(catalogNumber, func(r rune) bool {
		return r < '0' || r > '9'
	})
	if trimmed == "" {
		return false
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return false
	}
	return n >= 100 && n <= 199
}

// NormalizeSubjectName folds a subject's long name for department lookups:
// trailing parentheticals are dropped and the remainder is upper-cased, so
// "Computer Science (COM SCI)" matches the requisite leaf "Computer Science".
func NormalizeSubjectName(name string) string {
	if idx := strings.Index(name, "("); idx >= 0 {
		name = name[:idx]
	}
	return strings.ToUpper(strings.TrimSpace(name))
}
