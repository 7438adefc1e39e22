package dto

import "github.com/bruintracks/bruintracks-go/internal/models"

// Supported edit operation types.
const (
	OpMove          = "move"
	OpSwap          = "swap"
	OpChangeSection = "change_section"
	OpInterpret     = "interpret"
)

// EditOperation is one structured mutation of a schedule.
type EditOperation struct {
	Type string `json:"type" validate:"required,oneof=move swap change_section interpret"`

	// move
	Course   string `json:"course_id,omitempty"`
	FromTerm string `json:"from_term,omitempty"`
	ToTerm   string `json:"to_term,omitempty"`

	// swap
	Course1 string `json:"course1_id,omitempty"`
	Term1   string `json:"term1,omitempty"`
	Course2 string `json:"course2_id,omitempty"`
	Term2   string `json:"term2,omitempty"`

	// change_section
	Term            string `json:"term,omitempty"`
	NewLectureID    *int64 `json:"new_lecture_id,omitempty"`
	NewDiscussionID *int64 `json:"new_discussion_id,omitempty"`

	// interpret
	Question string `json:"question,omitempty"`
}

// EditRequest carries the schedule, the operation, and the context needed to
// revalidate requisites after the mutation.
type EditRequest struct {
	Schedule    *models.Schedule   `json:"schedule" validate:"required"`
	Operation   EditOperation      `json:"operation" validate:"required"`
	Transcript  map[string]*string `json:"transcript"`
	Preferences PreferencesPayload `json:"preferences"`
}

// EditResponse reports the outcome. On failure the schedule is returned
// unchanged.
type EditResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Schedule *models.Schedule `json:"schedule"`
}
