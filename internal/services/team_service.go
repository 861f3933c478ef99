package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pitchside-app/pitchside-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrMemberNotFound = errors.New("membership not found")
	ErrAlreadyMember  = errors.New("user is already a member of this team")
	ErrTeamFull       = errors.New("team is at member capacity")
	ErrLastAdmin      = errors.New("team must keep at least one admin")
	ErrNotTeamAdmin   = errors.New("only a team admin may manage members")
)

const (
	DefaultMaxTeamMembers = 30

	teamCodeLength = 8
	// No 0/O/1/I to keep codes readable when shared verbally.
	teamCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

type TeamService struct {
	db         *gorm.DB
	maxMembers int
}

func NewTeamService(db *gorm.DB, maxMembers int) *TeamService {
	if maxMembers <= 0 {
		maxMembers = DefaultMaxTeamMembers
	}
	return &TeamService{db: db, maxMembers: maxMembers}
}

// UploadTeam is the team an upload resolved to.
type UploadTeam struct {
	TeamID   uuid.UUID `json:"team_id"`
	TeamCode string    `json:"team_code"`
	IsNew    bool      `json:"is_new"`
}

// ResolveOrCreateForUpload finds a team named teamName among the
// user's teams (case-insensitive) or creates one with the user as its
// sole admin. Team creation and the admin membership commit together.
func (s *TeamService) ResolveOrCreateForUpload(userID uuid.UUID, teamName string) (*UploadTeam, error) {
	var out *UploadTeam
	err := s.db.Transaction(func(tx *gorm.DB) error {
		resolved, err := s.resolveOrCreateForUpload(tx, userID, teamName)
		if err != nil {
			return err
		}
		out = resolved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// resolveOrCreateForUpload runs inside the caller's transaction so
// session creation can share its atomicity.
func (s *TeamService) resolveOrCreateForUpload(tx *gorm.DB, userID uuid.UUID, teamName string) (*UploadTeam, error) {
	name := strings.TrimSpace(teamName)

	var team models.Team
	err := tx.Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ? AND LOWER(teams.name) = LOWER(?)", userID, name).
		First(&team).Error
	if err == nil {
		var count int64
		if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", team.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count members: %w", err)
		}
		if count >= int64(s.maxMembers) {
			return nil, ErrTeamFull
		}
		return &UploadTeam{TeamID: team.ID, TeamCode: team.TeamCode, IsNew: false}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve team: %w", err)
	}

	code, err := s.uniqueTeamCode(tx)
	if err != nil {
		return nil, err
	}

	team = models.Team{
		ID:                 uuid.New(),
		Name:               name,
		TeamCode:           code,
		SubscriptionStatus: models.SubscriptionFree,
	}
	if err := tx.Create(&team).Error; err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	member := models.TeamMember{TeamID: team.ID, UserID: userID, IsAdmin: true}
	if err := tx.Create(&member).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin membership: %w", err)
	}

	return &UploadTeam{TeamID: team.ID, TeamCode: team.TeamCode, IsNew: true}, nil
}

// Join adds the user as a non-admin member of the team with the given
// code. The capacity check and the insert are a single conditional
// write, so two near-simultaneous joins cannot both slip past the cap.
func (s *TeamService) Join(userID uuid.UUID, teamCode string) error {
	code := strings.ToUpper(strings.TrimSpace(teamCode))

	return s.db.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.Where("team_code = ?", code).First(&team).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to look up team: %w", err)
		}

		var existing int64
		if err := tx.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", team.ID, userID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if existing > 0 {
			return ErrAlreadyMember
		}

		res := tx.Exec(`
			INSERT INTO team_members (team_id, user_id, is_admin, joined_at)
			SELECT ?, ?, ?, CURRENT_TIMESTAMP
			WHERE (SELECT COUNT(*) FROM team_members WHERE team_id = ?) < ?`,
			team.ID, userID, false, team.ID, s.maxMembers)
		if res.Error != nil {
			return fmt.Errorf("failed to join team: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrTeamFull
		}
		return nil
	})
}

// ListForUser returns every team the user belongs to.
func (s *TeamService) ListForUser(userID uuid.UUID) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Order("teams.created_at ASC").
		Find(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// Members lists a team's memberships with user records preloaded.
// Only members may see the roster.
func (s *TeamService) Members(requesterID, teamID uuid.UUID) ([]models.TeamMember, error) {
	if err := s.requireMember(s.db, teamID, requesterID); err != nil {
		return nil, err
	}

	var members []models.TeamMember
	err := s.db.Preload("User").
		Where("team_id = ?", teamID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// RemoveMember deletes a membership. Requires the requester to be an
// admin of the team, and refuses to strip the team's last admin.
func (s *TeamService) RemoveMember(requesterID, teamID, targetUserID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.requireAdmin(tx, teamID, requesterID); err != nil {
			return err
		}

		var target models.TeamMember
		if err := tx.Where("team_id = ? AND user_id = ?", teamID, targetUserID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return fmt.Errorf("failed to load membership: %w", err)
		}

		if target.IsAdmin {
			if err := s.guardLastAdmin(tx, teamID); err != nil {
				return err
			}
		}

		return tx.Where("team_id = ? AND user_id = ?", teamID, targetUserID).
			Delete(&models.TeamMember{}).Error
	})
}

// Leave removes the caller's own membership, subject to the same
// last-admin protection as RemoveMember.
func (s *TeamService) Leave(userID, teamID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var member models.TeamMember
		if err := tx.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return fmt.Errorf("failed to load membership: %w", err)
		}

		if member.IsAdmin {
			if err := s.guardLastAdmin(tx, teamID); err != nil {
				return err
			}
		}

		return tx.Where("team_id = ? AND user_id = ?", teamID, userID).
			Delete(&models.TeamMember{}).Error
	})
}

// SetAdminStatus promotes or demotes a member. Demotion applies the
// last-admin guard so a team can never end up with zero admins.
func (s *TeamService) SetAdminStatus(requesterID, teamID, targetUserID uuid.UUID, isAdmin bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.requireAdmin(tx, teamID, requesterID); err != nil {
			return err
		}

		var target models.TeamMember
		if err := tx.Where("team_id = ? AND user_id = ?", teamID, targetUserID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return fmt.Errorf("failed to load membership: %w", err)
		}

		if !isAdmin && target.IsAdmin {
			if err := s.guardLastAdmin(tx, teamID); err != nil {
				return err
			}
		}

		return tx.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", teamID, targetUserID).
			Update("is_admin", isAdmin).Error
	})
}

func (s *TeamService) requireMember(tx *gorm.DB, teamID, userID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if count == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (s *TeamService) requireAdmin(tx *gorm.DB, teamID, userID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ? AND is_admin = ?", teamID, userID, true).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check admin status: %w", err)
	}
	if count == 0 {
		return ErrNotTeamAdmin
	}
	return nil
}

// guardLastAdmin rejects an operation that would remove or demote the
// only remaining admin. Callers invoke it inside the same transaction
// as the mutation, so the count cannot go stale.
func (s *TeamService) guardLastAdmin(tx *gorm.DB, teamID uuid.UUID) error {
	var admins int64
	if err := tx.Model(&models.TeamMember{}).
		Where("team_id = ? AND is_admin = ?", teamID, true).
		Count(&admins).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if admins <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func (s *TeamService) uniqueTeamCode(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := generateTeamCode()
		if err != nil {
			return "", err
		}
		var count int64
		if err := tx.Model(&models.Team{}).Where("team_code = ?", code).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check team code: %w", err)
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("failed to generate a unique team code")
}

func generateTeamCode() (string, error) {
	buf := make([]byte, teamCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate team code: %w", err)
	}
	for i, b := range buf {
		buf[i] = teamCodeAlphabet[int(b)%len(teamCodeAlphabet)]
	}
	return string(buf), nil
}
