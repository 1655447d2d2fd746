package models

import (
	"time"
)

// Test is the root of the authored structure. Sections (and their questions)
// are only ever created together with the test, inside one transaction.
type Test struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	CreatedBy uint      `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Sections []Section `json:"sections,omitempty" gorm:"foreignKey:TestID"`
	Creator  *User     `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
}

type Section struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Title  string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	TestID uint   `json:"test_id" gorm:"not null;index"`

	// Relations
	Questions []Question `json:"questions" gorm:"foreignKey:SectionID"`
}

func (Test) TableName() string {
	return "tests"
}

func (Section) TableName() string {
	return "sections"
}
