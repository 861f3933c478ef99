package services

import (
	"testing"
	"time"

	"github.com/pitchside-app/pitchside-backend/internal/config"
	"github.com/pitchside-app/pitchside-backend/internal/dto"
	"github.com/pitchside-app/pitchside-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
	}
	return NewAuthService(db, cfg), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{Email: "coach@club.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleUser, resp.User.Role)

	_, err = svc.Register(&dto.RegisterRequest{Email: "coach@club.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	login, err := svc.Login(&dto.LoginRequest{Email: "coach@club.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(&dto.LoginRequest{Email: "coach@club.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{Email: "coach@club.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	// The old token is revoked on use.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{Email: "coach@club.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeleteAccount(t *testing.T) {
	svc, db := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{Email: "coach@club.com", Password: "password123"})
	require.NoError(t, err)
	userID := resp.User.ID

	err = svc.DeleteAccount(userID, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.DeleteAccount(userID, "password123"))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.RefreshToken{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteAccount_CascadesToOwnedData(t *testing.T) {
	svc, db := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{Email: "coach@club.com", Password: "password123"})
	require.NoError(t, err)
	userID := resp.User.ID

	analyst := createUser(t, db, "analyst@pitchside.app", models.RoleCompanyMember)
	team := createTeam(t, db, "FC United", "AAAA2222")
	addMember(t, db, team.ID, userID, true)
	session := createSession(t, db, team.ID, userID, "https://x.example.com/a.mp4")

	analysis := NewAnalysisService(db, nil)
	_, err = analysis.UpsertDescription(session.ID, "Solid defending.", analyst.ID, models.RoleCompanyMember)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(userID, "password123"))

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Where("uploaded_by = ?", userID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.AnalysisDescription{}).Where("session_id = ?", session.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.TeamMember{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Zero(t, count)

	// The team itself survives; only the membership is gone.
	require.NoError(t, db.Model(&models.Team{}).Where("id = ?", team.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
