package types

import "time"

const (
	SectionSingle  = "single"
	SectionMulti   = "multi"
	SectionBoolean = "boolean"
)

// Section groups choices presented together. Key is the stable contract
// used by business rules; it is never editable after creation.
type Section struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null;column:key" json:"key"`
	Title     string    `gorm:"not null;column:title" json:"title"`
	Type      string    `gorm:"not null;default:single;column:type" json:"type"`
	SortOrder int       `gorm:"not null;default:0;column:sort_order" json:"sortOrder"`
	Active    bool      `gorm:"not null;default:true;column:active" json:"active"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Choices []Choice `gorm:"foreignKey:SectionID" json:"choices,omitempty"`
}

func (Section) TableName() string {
	return "matrix_section"
}
