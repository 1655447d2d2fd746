package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

// Free-form tag; MCQ is the only type the marking scheme currently knows.
const (
	TypeMCQ QuestionType = "MCQ"
)

const (
	DefaultPositiveMarks = 4
	DefaultNegativeMarks = -1
)

type Question struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	TestID    uint `json:"test_id" gorm:"not null;index"`
	SectionID uint `json:"section_id" gorm:"not null;index"`

	QuestionImage *string      `json:"question_image" gorm:"size:500"`
	QuestionType  QuestionType `json:"question_type" gorm:"not null;default:MCQ;size:50"`
	CorrectOption string       `json:"correct_option" gorm:"size:500"`

	// Options stored as a serialized JSON list; normalization guarantees the
	// column always deserializes to an array.
	Options datatypes.JSON `json:"options" gorm:"type:jsonb"`

	PositiveMarks float64 `json:"positive_marks" gorm:"not null;default:4"`
	NegativeMarks float64 `json:"negative_marks" gorm:"not null;default:-1"`

	CreatedAt time.Time `json:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}
