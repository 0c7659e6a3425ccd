package types

import "time"

// Choice is a priced, selectable item within a section. A choice may
// reference a parent choice (one level only); children are sub-options
// and are billed at the parent's price.
type Choice struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SectionID   uint      `gorm:"not null;index;column:section_id" json:"sectionId"`
	Key         string    `gorm:"uniqueIndex;not null;column:key" json:"key"`
	Label       string    `gorm:"not null;column:label" json:"label"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	PriceY1     float64   `gorm:"not null;default:0;column:price_y1" json:"priceY1"`
	PriceY2     float64   `gorm:"not null;default:0;column:price_y2" json:"priceY2"`
	SortOrder   int       `gorm:"not null;default:0;column:sort_order" json:"sortOrder"`
	Active      bool      `gorm:"not null;default:true;column:active" json:"active"`
	ParentID    *uint     `gorm:"index;column:parent_id" json:"parentId,omitempty"`
	AllowQty    bool      `gorm:"not null;default:false;column:allow_qty" json:"allowQty"`
	MaxQty      int       `gorm:"not null;default:0;column:max_qty" json:"maxQty"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Section  *Section `gorm:"foreignKey:SectionID" json:"section,omitempty"`
	Parent   *Choice  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Choice `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

func (Choice) TableName() string {
	return "matrix_choice"
}
