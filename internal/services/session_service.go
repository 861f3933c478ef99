package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pitchside-app/pitchside-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrDuplicateFootage   = errors.New("footage url already uploaded")
	ErrBlankField         = errors.New("footage url and team name are required")
	ErrBlankTitle         = errors.New("title must not be blank")
	ErrNotCompanyMember   = errors.New("company member role required")
	ErrNotSessionUploader = errors.New("only the uploader or a company member may do this")
)

type SessionService struct {
	db    *gorm.DB
	teams *TeamService
}

func NewSessionService(db *gorm.DB, teams *TeamService) *SessionService {
	return &SessionService{db: db, teams: teams}
}

type CreateSessionInput struct {
	FootageURL string
	TeamName   string
	Title      string
	GameDate   *time.Time
}

// CreateSessionResult carries the new session and how its team was
// resolved, so the caller can surface a fresh team code.
type CreateSessionResult struct {
	Session *models.Session `json:"session"`
	Team    *UploadTeam     `json:"team"`
}

// Create registers a footage upload. Team resolution (including
// creating a brand-new team with the uploader as admin) and the
// session insert are one transaction: a duplicate URL rolls back any
// team that was created on the way in.
func (s *SessionService) Create(uploaderID uuid.UUID, in *CreateSessionInput) (*CreateSessionResult, error) {
	url := strings.TrimSpace(in.FootageURL)
	teamName := strings.TrimSpace(in.TeamName)
	if url == "" || teamName == "" {
		return nil, ErrBlankField
	}

	var result CreateSessionResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		team, err := s.teams.resolveOrCreateForUpload(tx, uploaderID, teamName)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Session{}).Where("footage_url = ?", url).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check footage url: %w", err)
		}
		if count > 0 {
			return ErrDuplicateFootage
		}

		session := models.Session{
			ID:         uuid.New(),
			TeamID:     team.TeamID,
			UploadedBy: uploaderID,
			Title:      strings.TrimSpace(in.Title),
			FootageURL: url,
			Status:     models.SessionPending,
			GameDate:   in.GameDate,
		}
		if err := tx.Create(&session).Error; err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		result = CreateSessionResult{Session: &session, Team: team}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// List returns sessions visible to the caller: company members see
// everything, coaches see sessions belonging to their teams.
func (s *SessionService) List(userID uuid.UUID, role string) ([]models.Session, error) {
	var sessions []models.Session
	q := s.db.Order("created_at DESC")
	if role != models.RoleCompanyMember {
		q = q.Where("team_id IN (?)",
			s.db.Model(&models.TeamMember{}).Select("team_id").Where("user_id = ?", userID))
	}
	if err := q.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// Get loads one session; coaches must belong to its team.
func (s *SessionService) Get(sessionID, userID uuid.UUID, role string) (*models.Session, error) {
	session, err := s.find(s.db, sessionID)
	if err != nil {
		return nil, err
	}

	if role != models.RoleCompanyMember {
		var count int64
		if err := s.db.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", session.TeamID, userID).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
		if count == 0 {
			return nil, ErrSessionNotFound
		}
	}
	return session, nil
}

// ToggleStatus flips PENDING<->REVIEWED. Company members only.
func (s *SessionService) ToggleStatus(sessionID uuid.UUID, actorRole string) (*models.Session, error) {
	if actorRole != models.RoleCompanyMember {
		return nil, ErrNotCompanyMember
	}

	session, err := s.find(s.db, sessionID)
	if err != nil {
		return nil, err
	}

	next := models.SessionReviewed
	if session.Status == models.SessionReviewed {
		next = models.SessionPending
	}
	if err := s.db.Model(session).Update("status", next).Error; err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	session.Status = next
	return session, nil
}

// Delete removes a session and its analysis description in one
// transaction, so no orphaned analysis rows survive. Allowed for the
// uploader and for company members.
func (s *SessionService) Delete(sessionID, actorID uuid.UUID, actorRole string) error {
	session, err := s.find(s.db, sessionID)
	if err != nil {
		return err
	}
	if session.UploadedBy != actorID && actorRole != models.RoleCompanyMember {
		return ErrNotSessionUploader
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.AnalysisDescription{}).Error; err != nil {
			return fmt.Errorf("failed to delete analysis description: %w", err)
		}
		return tx.Delete(&models.Session{}, "id = ?", sessionID).Error
	})
}

// RenameTitle updates the session title. No status side effect.
func (s *SessionService) RenameTitle(sessionID, actorID uuid.UUID, actorRole, newTitle string) (*models.Session, error) {
	title := strings.TrimSpace(newTitle)
	if title == "" {
		return nil, ErrBlankTitle
	}

	session, err := s.find(s.db, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UploadedBy != actorID && actorRole != models.RoleCompanyMember {
		return nil, ErrNotSessionUploader
	}

	if err := s.db.Model(session).Update("title", title).Error; err != nil {
		return nil, fmt.Errorf("failed to rename session: %w", err)
	}
	session.Title = title
	return session, nil
}

// UpdateMetrics overwrites the metrics record wholesale and marks the
// session REVIEWED: recorded metrics are evidence a review happened.
func (s *SessionService) UpdateMetrics(sessionID uuid.UUID, metrics models.TeamMetrics, analystID uuid.UUID, actorRole string) (*models.Session, error) {
	if actorRole != models.RoleCompanyMember {
		return nil, ErrNotCompanyMember
	}

	session, err := s.find(s.db, sessionID)
	if err != nil {
		return nil, err
	}

	record := datatypes.NewJSONType(metrics)
	if err := s.db.Model(session).Updates(map[string]interface{}{
		"team_metrics": record,
		"status":       models.SessionReviewed,
		"reviewed_by":  analystID,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update metrics: %w", err)
	}

	session.TeamMetrics = &record
	session.Status = models.SessionReviewed
	session.ReviewedBy = &analystID
	return session, nil
}

func (s *SessionService) find(tx *gorm.DB, sessionID uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}
