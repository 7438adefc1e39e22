package dto

// BreadthRequest asks for technical-breadth recommendations for one area.
type BreadthRequest struct {
	Transcript      map[string]*string `json:"transcript"`
	RequiredCourses []string           `json:"required_courses"`
	TechBreadthArea string             `json:"tech_breadth_area" validate:"required"`
}

// BreadthCandidate is one ranked recommendation.
type BreadthCandidate struct {
	Course            string   `json:"course"`
	Description       string   `json:"description"`
	AdditionalPrereqs int      `json:"additional_prereqs"`
	MissingPrereqs    []string `json:"missing_prereqs"`
}

// BreadthResponse splits the ranking into the top picks and the remainder.
type BreadthResponse struct {
	Recommended []BreadthCandidate `json:"recommended"`
	Additional  []BreadthCandidate `json:"additional"`
}
