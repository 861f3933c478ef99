package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pitchside-app/pitchside-backend/internal/models"
	"github.com/pitchside-app/pitchside-backend/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrInvalidSlot      = errors.New("unknown analysis slot")
	ErrBlankDescription = errors.New("description must not be blank")
)

// AnalysisService manages the fixed artifact slots on a session and
// the per-session description. Attaching anything marks the session
// REVIEWED; detaching never reverts it.
type AnalysisService struct {
	db    *gorm.DB
	store storage.Store
}

func NewAnalysisService(db *gorm.DB, store storage.Store) *AnalysisService {
	return &AnalysisService{db: db, store: store}
}

// Attach stores the artifact bytes and writes the resulting URL into
// the session's slot, replacing whatever was there. Company members
// only.
func (s *AnalysisService) Attach(ctx context.Context, sessionID uuid.UUID, slot string, data []byte, mimeType string, analystID uuid.UUID, actorRole string) (string, error) {
	if actorRole != models.RoleCompanyMember {
		return "", ErrNotCompanyMember
	}

	column, ok := models.AnalysisSlotColumn(slot)
	if !ok {
		return "", ErrInvalidSlot
	}

	session, err := s.findSession(sessionID)
	if err != nil {
		return "", err
	}

	logicalName := fmt.Sprintf("%s_%s", strings.ToLower(slot), sessionID.String()[:8])
	url, err := s.store.Save(ctx, data, mimeType, logicalName)
	if err != nil {
		return "", err
	}

	if err := s.db.Model(session).Updates(map[string]interface{}{
		column:        url,
		"status":      models.SessionReviewed,
		"reviewed_by": analystID,
	}).Error; err != nil {
		return "", fmt.Errorf("failed to attach artifact: %w", err)
	}

	return url, nil
}

// Detach clears the slot. The REVIEWED status is left alone: artifact
// removal does not un-review a session.
func (s *AnalysisService) Detach(sessionID uuid.UUID, slot, actorRole string) error {
	if actorRole != models.RoleCompanyMember {
		return ErrNotCompanyMember
	}

	column, ok := models.AnalysisSlotColumn(slot)
	if !ok {
		return ErrInvalidSlot
	}

	session, err := s.findSession(sessionID)
	if err != nil {
		return err
	}

	if err := s.db.Model(session).Update(column, nil).Error; err != nil {
		return fmt.Errorf("failed to detach artifact: %w", err)
	}
	return nil
}

// UpsertDescription writes the analyst's free-text writeup. One row
// per session: an existing record is updated in place. Forces the
// session to REVIEWED like any other artifact.
func (s *AnalysisService) UpsertDescription(sessionID uuid.UUID, text string, analystID uuid.UUID, actorRole string) (*models.AnalysisDescription, error) {
	if actorRole != models.RoleCompanyMember {
		return nil, ErrNotCompanyMember
	}

	body := strings.TrimSpace(text)
	if body == "" {
		return nil, ErrBlankDescription
	}

	var desc models.AnalysisDescription
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to load session: %w", err)
		}

		err := tx.Where("session_id = ?", sessionID).First(&desc).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			desc = models.AnalysisDescription{
				ID:        uuid.New(),
				SessionID: sessionID,
				AnalystID: analystID,
				Body:      body,
			}
			if err := tx.Create(&desc).Error; err != nil {
				return fmt.Errorf("failed to create description: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to load description: %w", err)
		default:
			if err := tx.Model(&desc).Updates(map[string]interface{}{
				"body":       body,
				"analyst_id": analystID,
			}).Error; err != nil {
				return fmt.Errorf("failed to update description: %w", err)
			}
			desc.Body = body
			desc.AnalystID = analystID
		}

		return tx.Model(&session).Updates(map[string]interface{}{
			"status":      models.SessionReviewed,
			"reviewed_by": analystID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &desc, nil
}

// Description returns the session's writeup, if any.
func (s *AnalysisService) Description(sessionID uuid.UUID) (*models.AnalysisDescription, error) {
	var desc models.AnalysisDescription
	if err := s.db.Where("session_id = ?", sessionID).First(&desc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load description: %w", err)
	}
	return &desc, nil
}

func (s *AnalysisService) findSession(sessionID uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := s.db.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}
