package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Company members are Pitchside analysts and may review
// sessions and attach analysis artifacts; everyone else is a coach.
const (
	RoleUser          = "USER"
	RoleCompanyMember = "COMPANY_MEMBER"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"size:20;not null;default:'USER'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsCompanyMember() bool {
	return u.Role == RoleCompanyMember
}
