package validator

import (
	"encoding/json"
	"time"
)

// TestSaveRequest is the nested authoring payload: one test, its sections,
// and each section's questions, committed atomically.
type TestSaveRequest struct {
	Title    string               `json:"title" validate:"required,min=1,max=200"`
	Sections []SectionSaveRequest `json:"sections" validate:"required,min=1,dive"`
}

type SectionSaveRequest struct {
	Title     string                `json:"title" validate:"required,min=1,max=200"`
	Questions []QuestionSaveRequest `json:"questions" validate:"dive"`
}

// QuestionSaveRequest mirrors what the authoring UI sends. Options is kept
// raw on purpose: clients have been observed to send a JSON array, a
// stringified array, or garbage, and normalization decides what to store.
type QuestionSaveRequest struct {
	FileName      *string         `json:"file_name"`
	QuestionType  string          `json:"question_type" validate:"omitempty,max=50"`
	CorrectOption string          `json:"correct_option" validate:"max=500"`
	Options       json.RawMessage `json:"options"`
	PositiveMarks *float64        `json:"positive_marks"`
	NegativeMarks *float64        `json:"negative_marks"`
}

// TestCreateRequest creates a bare test (title only).
type TestCreateRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

// QuestionAddRequest appends one question to an existing test/section.
type QuestionAddRequest struct {
	TestID        uint            `json:"test_id" validate:"required"`
	SectionID     uint            `json:"section_id" validate:"required"`
	QuestionImage *string         `json:"question_image"`
	QuestionType  string          `json:"question_type" validate:"omitempty,max=50"`
	CorrectOption string          `json:"correct_option" validate:"required,max=500"`
	Options       json.RawMessage `json:"options"`
	PositiveMarks *float64        `json:"positive_marks"`
	NegativeMarks *float64        `json:"negative_marks"`
}

// SubmissionRequest records a student's answer set for a test. Responses is
// accepted as-is; the recorder does not check it against the question set.
type SubmissionRequest struct {
	TestID    uint            `json:"test_id" validate:"required"`
	UserID    uint            `json:"user_id"`
	Responses json.RawMessage `json:"responses" validate:"required"`
	Timestamp time.Time       `json:"timestamp"`
}
