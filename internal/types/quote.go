package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	QuoteDraft    = "DRAFT"
	QuoteToSend   = "TO_SEND"
	QuoteMailSent = "MAIL_SENT"
	QuoteNeedFix  = "NEED_FIX"
	QuoteRejected = "REJECTED"
)

// ValidQuoteStatus reports whether s is a status the back-office may set.
func ValidQuoteStatus(s string) bool {
	switch s {
	case QuoteToSend, QuoteMailSent, QuoteNeedFix, QuoteRejected, QuoteDraft:
		return true
	}
	return false
}

// Quote is a finalized submission. The selection set is immutable after
// creation; edits require a new quote.
type Quote struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AgentID       uuid.UUID `gorm:"type:uuid;not null;index;column:agent_id" json:"agentId"`
	CustomerName  string    `gorm:"not null;column:customer_name" json:"customerName"`
	CustomerEmail string    `gorm:"not null;column:customer_email" json:"customerEmail"`
	CustomerPhone string    `gorm:"column:customer_phone" json:"customerPhone"`
	TotalY1       float64   `gorm:"not null;default:0;column:total_y1" json:"totalY1"`
	TotalY2       float64   `gorm:"not null;default:0;column:total_y2" json:"totalY2"`
	Status        string    `gorm:"not null;default:TO_SEND;column:status" json:"status"`
	EmailContent  string    `gorm:"type:text;column:email_content" json:"-"`
	DataPhoneNote string    `gorm:"type:text;column:data_phone_note" json:"dataPhoneNote,omitempty"`
	PackTypeLabel string    `gorm:"column:pack_type_label" json:"packTypeLabel,omitempty"`
	AlertMessage  string    `gorm:"column:alert_message" json:"alertMessage,omitempty"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null;default:now()" json:"updatedAt"`

	Agent      *User       `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	Selections []Selection `gorm:"foreignKey:QuoteID" json:"selections,omitempty"`
}

func (Quote) TableName() string {
	return "quote"
}

// Selection links a quote to a chosen matrix choice with its quantity.
type Selection struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	QuoteID  uuid.UUID `gorm:"type:uuid;not null;index;column:quote_id" json:"quoteId"`
	ChoiceID uint      `gorm:"not null;index;column:choice_id" json:"choiceId"`
	Qty      int       `gorm:"not null;default:1;column:qty" json:"qty"`

	Choice *Choice `gorm:"foreignKey:ChoiceID" json:"choice,omitempty"`
}

func (Selection) TableName() string {
	return "quote_selection"
}
