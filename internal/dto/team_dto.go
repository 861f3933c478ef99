package dto

import (
	"time"

	"github.com/google/uuid"
)

type JoinTeamRequest struct {
	TeamCode string `json:"team_code" validate:"required,min=4,max=12"`
}

type SetAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

type TeamResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	TeamCode           string     `json:"team_code"`
	IsPremium          bool       `json:"is_premium"`
	SubscriptionStatus string     `json:"subscription_status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type TeamMemberResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	IsAdmin  bool      `json:"is_admin"`
	JoinedAt time.Time `json:"joined_at"`
}

type SubscriptionOverrideRequest struct {
	Premium        bool    `json:"premium"`
	SubscriptionID *string `json:"subscription_id,omitempty"`
}
