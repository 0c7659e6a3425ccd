package types

import (
	"time"

	"gorm.io/datatypes"
)

// Alert is a manager-configured advisory banner. ConditionType and
// ConditionConfig are opaque to the engine and passed through to the
// agent UI untouched.
type Alert struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"not null;column:name" json:"name"`
	Message         string         `gorm:"not null;column:message" json:"message"`
	ConditionType   string         `gorm:"not null;column:condition_type" json:"conditionType"`
	ConditionConfig datatypes.JSON `gorm:"column:condition_config" json:"conditionConfig,omitempty"`
	Blocking        bool           `gorm:"not null;default:true;column:blocking" json:"blocking"`
	Active          bool           `gorm:"not null;default:true;column:active" json:"active"`
	SortOrder       int            `gorm:"not null;default:0;column:sort_order" json:"sortOrder"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Alert) TableName() string {
	return "matrix_alert"
}
