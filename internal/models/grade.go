package models

// gradeRank orders letter grades from best (0) to worst. A smaller rank is a
// better grade.
var gradeRank = func() map[string]int {
	order := []string{
		"A+", "A", "A-", "B+", "B", "B-",
		"C+", "C", "C-", "D+", "D", "D-", "F",
	}
	m := make(map[string]int, len(order))
	for i, g := range order {
		m[g] = i
	}
	return m
}()

// PassingGrade is the minimum grade at which a course counts as passed.
const PassingGrade = "D-"

// MeetsMinGrade reports whether an obtained grade satisfies the required
// minimum. Unknown grades never satisfy anything.
func MeetsMinGrade(obtained, minimum string) bool {
	got, ok := gradeRank[obtained]
	if !ok {
		return false
	}
	want, ok := gradeRank[minimum]
	if !ok {
		return false
	}
	return got <= want
}

// Transcript maps canonical course keys to recorded letter grades. Courses
// present without a grade are omitted entirely; they count as not passed.
type Transcript map[string]string

// NewTranscript builds a transcript from the wire form, dropping null grades.
func NewTranscript(raw map[string]*string) Transcript {
	t := make(Transcript, len(raw))
	for key, grade := range raw {
		if grade != nil && *grade != "" {
			t[key] = *grade
		}
	}
	return t
}

// Passed reports whether the course was completed at PassingGrade or better.
func (t Transcript) Passed(courseKey string) bool {
	grade, ok := t[courseKey]
	return ok && MeetsMinGrade(grade, PassingGrade)
}

// PassedAt reports whether the course was completed at the given minimum.
func (t Transcript) PassedAt(courseKey, minimum string) bool {
	grade, ok := t[courseKey]
	if !ok {
		return false
	}
	if minimum == "" {
		minimum = PassingGrade
	}
	return MeetsMinGrade(grade, minimum)
}
