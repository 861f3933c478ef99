package models

import (
	"time"

	"github.com/google/uuid"
)

// Analysis slot kinds. The three image slots map 1:1 to the heatmap,
// sprint map and game momentum visuals; the five video slots are
// positional.
const (
	SlotHeatmap      = "HEATMAP"
	SlotSprintMap    = "SPRINT_MAP"
	SlotGameMomentum = "GAME_MOMENTUM"
	SlotVideo1       = "VIDEO_1"
	SlotVideo2       = "VIDEO_2"
	SlotVideo3       = "VIDEO_3"
	SlotVideo4       = "VIDEO_4"
	SlotVideo5       = "VIDEO_5"
)

var slotColumns = map[string]string{
	SlotHeatmap:      "analysis_image1_url",
	SlotSprintMap:    "analysis_image2_url",
	SlotGameMomentum: "analysis_image3_url",
	SlotVideo1:       "analysis_video1_url",
	SlotVideo2:       "analysis_video2_url",
	SlotVideo3:       "analysis_video3_url",
	SlotVideo4:       "analysis_video4_url",
	SlotVideo5:       "analysis_video5_url",
}

// AnalysisSlotColumn maps a slot kind to its session column.
// The second return is false for unknown kinds.
func AnalysisSlotColumn(slot string) (string, bool) {
	col, ok := slotColumns[slot]
	return col, ok
}

// AnalysisSlots lists every valid slot kind.
func AnalysisSlots() []string {
	return []string{
		SlotHeatmap, SlotSprintMap, SlotGameMomentum,
		SlotVideo1, SlotVideo2, SlotVideo3, SlotVideo4, SlotVideo5,
	}
}

// AnalysisDescription is the analyst's free-text writeup for a
// session. At most one row exists per session; repeated writes update
// it in place.
type AnalysisDescription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	AnalystID uuid.UUID `gorm:"type:uuid;not null" json:"analyst_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Session Session `gorm:"foreignKey:SessionID" json:"-"`
}
