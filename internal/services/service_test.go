package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/pitchside-app/pitchside-backend/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory SQLite database and migrates
// the full schema into it.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Team{},
		&models.TeamMember{},
		&models.Session{},
		&models.AnalysisDescription{},
		&models.SystemLog{},
	))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTeam(t *testing.T, db *gorm.DB, name, code string) *models.Team {
	t.Helper()

	team := models.Team{
		ID:                 uuid.New(),
		Name:               name,
		TeamCode:           code,
		SubscriptionStatus: models.SubscriptionFree,
	}
	require.NoError(t, db.Create(&team).Error)
	return &team
}

func addMember(t *testing.T, db *gorm.DB, teamID, userID uuid.UUID, isAdmin bool) {
	t.Helper()
	require.NoError(t, db.Create(&models.TeamMember{
		TeamID:  teamID,
		UserID:  userID,
		IsAdmin: isAdmin,
	}).Error)
}

func createSession(t *testing.T, db *gorm.DB, teamID, uploaderID uuid.UUID, footageURL string) *models.Session {
	t.Helper()

	session := models.Session{
		ID:         uuid.New(),
		TeamID:     teamID,
		UploadedBy: uploaderID,
		Title:      "vs Rivals",
		FootageURL: footageURL,
		Status:     models.SessionPending,
	}
	require.NoError(t, db.Create(&session).Error)
	return &session
}

func memberCount(t *testing.T, db *gorm.DB, teamID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&count).Error)
	return count
}
