package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionFree    = "FREE"
	SubscriptionTrial   = "TRIAL"
	SubscriptionPremium = "PREMIUM"
)

// Team groups coaches and their footage sessions. TeamCode is the
// shareable join token; it is generated once and never changes.
type Team struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string     `gorm:"not null;size:120" json:"name"`
	TeamCode           string     `gorm:"size:12;not null;uniqueIndex" json:"team_code"`
	IsPremium          bool       `gorm:"not null;default:false" json:"is_premium"`
	SubscriptionStatus string     `gorm:"size:20;not null;default:'FREE'" json:"subscription_status"`
	SubscriptionID     *string    `gorm:"size:255" json:"-"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// TeamMember links a user to a team. Composite key: one membership
// per (team, user).
type TeamMember struct {
	TeamID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"team_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	IsAdmin  bool      `gorm:"not null;default:false" json:"is_admin"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	Team Team `gorm:"foreignKey:TeamID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}
