package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Session review lifecycle. A session starts PENDING and becomes
// REVIEWED once an analyst toggles it or attaches any artifact.
const (
	SessionPending  = "PENDING"
	SessionReviewed = "REVIEWED"
)

// TeamMetrics is the fixed-shape numeric record an analyst attaches
// to a session. It is always written wholesale, never merged.
type TeamMetrics struct {
	TotalDistance        float64 `json:"total_distance"`
	TotalSprints         int     `json:"total_sprints"`
	SprintDistance       float64 `json:"sprint_distance"`
	HighIntensitySprints int     `json:"high_intensity_sprints"`
	TopSprintSpeed       float64 `json:"top_sprint_speed"`
}

// Session is one uploaded game-footage unit and its attached analysis.
// Analysis artifacts live in fixed slot columns: three image kinds and
// five video positions, each holding at most one URL.
type Session struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID     uuid.UUID `gorm:"type:uuid;not null;index" json:"team_id"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"uploaded_by"`
	Title      string    `gorm:"size:200" json:"title"`
	FootageURL string    `gorm:"not null;size:500;uniqueIndex" json:"footage_url"`
	Status     string    `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	GameDate   *time.Time `json:"game_date,omitempty"`

	TeamMetrics *datatypes.JSONType[TeamMetrics] `json:"team_metrics,omitempty"`

	AnalysisImage1URL *string `gorm:"size:500" json:"analysis_image1_url,omitempty"`
	AnalysisImage2URL *string `gorm:"size:500" json:"analysis_image2_url,omitempty"`
	AnalysisImage3URL *string `gorm:"size:500" json:"analysis_image3_url,omitempty"`
	AnalysisVideo1URL *string `gorm:"size:500" json:"analysis_video1_url,omitempty"`
	AnalysisVideo2URL *string `gorm:"size:500" json:"analysis_video2_url,omitempty"`
	AnalysisVideo3URL *string `gorm:"size:500" json:"analysis_video3_url,omitempty"`
	AnalysisVideo4URL *string `gorm:"size:500" json:"analysis_video4_url,omitempty"`
	AnalysisVideo5URL *string `gorm:"size:500" json:"analysis_video5_url,omitempty"`

	ReviewedBy *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Team     Team `gorm:"foreignKey:TeamID" json:"-"`
	Uploader User `gorm:"foreignKey:UploadedBy" json:"-"`
}

// SlotURL returns the artifact URL currently held by a slot, or nil.
func (s *Session) SlotURL(slot string) *string {
	switch slot {
	case SlotHeatmap:
		return s.AnalysisImage1URL
	case SlotSprintMap:
		return s.AnalysisImage2URL
	case SlotGameMomentum:
		return s.AnalysisImage3URL
	case SlotVideo1:
		return s.AnalysisVideo1URL
	case SlotVideo2:
		return s.AnalysisVideo2URL
	case SlotVideo3:
		return s.AnalysisVideo3URL
	case SlotVideo4:
		return s.AnalysisVideo4URL
	case SlotVideo5:
		return s.AnalysisVideo5URL
	}
	return nil
}
