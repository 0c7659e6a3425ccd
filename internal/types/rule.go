package types

const RuleShowIf = "SHOW_IF"

// Rule is a conditional-visibility edge: the target choice stays hidden
// unless at least one of its dependencies is selected.
type Rule struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Type        string `gorm:"not null;default:SHOW_IF;column:type" json:"type"`
	TargetID    uint   `gorm:"not null;index;column:target_id" json:"targetId"`
	DependsOnID uint   `gorm:"not null;index;column:depends_on_id" json:"dependsOnId"`
	Message     string `gorm:"column:message" json:"message,omitempty"`
}

func (Rule) TableName() string {
	return "matrix_rule"
}
