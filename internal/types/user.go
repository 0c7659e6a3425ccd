package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin      = "ADMIN"
	RoleManager    = "MANAGER"
	RoleAgent      = "AGENT"
	RoleBackoffice = "BACKOFFICE"
	RoleFormation  = "FORMATION"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Identifier string    `gorm:"uniqueIndex;not null;column:identifier" json:"identifier"`
	Email      string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password   string    `gorm:"not null;column:password" json:"-"`
	Name       string    `gorm:"not null;column:name" json:"name"`
	Role       string    `gorm:"not null;column:role" json:"role"`
	Active     bool      `gorm:"not null;default:true;column:active" json:"active"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
