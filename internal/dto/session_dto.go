package dto

import (
	"time"

	"github.com/pitchside-app/pitchside-backend/internal/models"
)

type CreateSessionRequest struct {
	FootageURL string     `json:"footage_url" validate:"required,url"`
	TeamName   string     `json:"team_name" validate:"required,max=120"`
	Title      string     `json:"title" validate:"max=200"`
	GameDate   *time.Time `json:"game_date,omitempty"`
}

type RenameSessionRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type UpdateMetricsRequest struct {
	TotalDistance        float64 `json:"total_distance" validate:"min=0"`
	TotalSprints         int     `json:"total_sprints" validate:"min=0"`
	SprintDistance       float64 `json:"sprint_distance" validate:"min=0"`
	HighIntensitySprints int     `json:"high_intensity_sprints" validate:"min=0"`
	TopSprintSpeed       float64 `json:"top_sprint_speed" validate:"min=0"`
}

func (r *UpdateMetricsRequest) ToMetrics() models.TeamMetrics {
	return models.TeamMetrics{
		TotalDistance:        r.TotalDistance,
		TotalSprints:         r.TotalSprints,
		SprintDistance:       r.SprintDistance,
		HighIntensitySprints: r.HighIntensitySprints,
		TopSprintSpeed:       r.TopSprintSpeed,
	}
}

type UpsertDescriptionRequest struct {
	Body string `json:"body" validate:"required"`
}

type SessionListResponse struct {
	Sessions []models.Session `json:"sessions"`
	Total    int              `json:"total"`
}
