package services

import (
	"testing"

	"github.com/pitchside-app/pitchside-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession_NewTeam(t *testing.T) {
	db := newTestDB(t)
	teams := NewTeamService(db, DefaultMaxTeamMembers)
	svc := NewSessionService(db, teams)
	coach := createUser(t, db, "coach@club.com", models.RoleUser)

	result, err := svc.Create(coach.ID, &CreateSessionInput{
		FootageURL: "https://footage.example.com/match1.mp4",
		TeamName:   "FC United",
		Title:      "vs Rivals",
	})
	require.NoError(t, err)
	assert.True(t, result.Team.IsNew)
	assert.Equal(t, models.SessionPending, result.Session.Status)
	assert.Equal(t, coach.ID, result.Session.UploadedBy)
	assert.Equal(t, result.Team.TeamID, result.Session.TeamID)

	var member models.TeamMember
	require.NoError(t, db.Where("team_id = ? AND user_id = ?", result.Team.TeamID, coach.ID).First(&member).Error)
	assert.True(t, member.IsAdmin)
}

func TestCreateSession_ExistingTeam(t *testing.T) {
	db := newTestDB(t)
	teams := NewTeamService(db, DefaultMaxTeamMembers)
	svc := NewSessionService(db, teams)
	coach := createUser(t, db, "coach@club.com", models.RoleUser)
	team := createTeam(t, db, "FC United", "AAAA2222")
	addMember(t, db, team.ID, coach.ID, true)

	result, err := svc.Create(coach.ID, &CreateSessionInput{
		FootageURL: "https://footage.example.com/match1.mp4",
		TeamName:   "FC United",
	})
	require.NoError(t, err)
	assert.False(t, result.Team.IsNew)
	assert.Equal(t, team.ID, result.Session.TeamID)
}

func TestCreateSession_BlankFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, NewTeamService(db, DefaultMaxTeamMembers))
	coach := createUser(t, db, "coach@club.com", models.RoleUser)

	_, err := svc.Create(coach.ID, &CreateSessionInput{FootageURL: "   ", TeamName: "FC United"})
	assert.ErrorIs(t, err, ErrBlankField)

	_, err = svc.Create(coach.ID, &CreateSessionInput{FootageURL: "https://x.example.com/a.mp4", TeamName: ""})
	assert.ErrorIs(t, err, ErrBlankField)
}

func TestCreateSession_DuplicateFootageURL(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, NewTeamService(db, DefaultMaxTeamMembers))
	coach := createUser(t, db, "coach@club.com", models.RoleUser)
	other := createUser(t, db, "other@club.com", models.RoleUser)

	_, err := svc.Create(coach.ID, &CreateSessionInput{
		FootageURL: "https://footage.example.com/match1.mp4",
		TeamName:   "FC United",
	})
	require.NoError(t, err)

	// Same URL from anyone, even another team, is rejected.
	_, err = svc.Create(other.ID, &CreateSessionInput{
		FootageURL: "https://footage.example.com/match1.mp4",
		TeamName:   "Other FC",
	})
	assert.ErrorIs(t, err, ErrDuplicateFootage)
}

func TestCreateSession_DuplicateRollsBackNewTeam(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, NewTeamService(db, DefaultMaxTeamMembers))
	coach := createUser(t, db, "coach@club.com", models.RoleUser)
	other := createUser(t, db, "other@club.com", models.RoleUser)

	_, err := svc.Create(coach.ID, &CreateSessionInput{
		FootageURL: "https://footage.example.com/match1.mp4",
		TeamName:   "FC United",
	})
	require.NoError(t, err)

	_, err = svc.Create(other.ID, &CreateSessionInput{
		FootageURL: "https://footage.example.com/match1.mp4",
		TeamName:   "Orphan FC",
	})
	require.ErrorIs(t, err, ErrDuplicateFootage)

	// The team created on the way in must not survive the rollback.
	var count int64
	require.NoError(t, db.Model(&models.Team{}).Where("name = ?", "Orphan FC").Count(&count).Error)
	assert.Zero(t, count)
}

func TestListSessions(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, NewTeamService(db, DefaultMaxTeamMembers))
	coach := createUser(t, db, "coach@club.com", models.RoleUser)
	analyst := createUser(t, db, "analyst@pitchside.app", models.RoleCompanyMember)
	mine := createTeam(t, db, "Mine", "AAAA2222")
	theirs := createTeam(t, db, "Theirs", "BBBB3333")
	addMember(t, db, mine.ID, coach.ID, true)
	createSession(t, db, mine.ID, coach.ID, "https://x.example.com/a.mp4")
	createSession(t, db, theirs.ID, analyst.ID, "https://x.example.com/b.mp4")

	visible, err := svc.List(coach.ID, models.RoleUser)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, mine.ID, visible[0].TeamID)

	all, err := svc.List(analyst.ID, models.RoleCompanyMember)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetSession_MembershipRequired(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, NewTeamService(db, DefaultMaxTeamMembers))
	coach := createUser(t, db, "coach@club.com", models.RoleUser)
	outsider := createUser(t, db, "outsider@club.com", models.RoleUser)
	analyst := createUser(t, db, "analyst@pitchside.app", models.RoleCompanyMember)
	team := createTeam(t, db, "FC United", "AAAA2222")
	addMember(t, db, team.ID, coach.ID, true)
	session := createSession(t, db, team.ID, coach.ID, "https://x.example.com/a.mp4")

	got, err := svc.Get(session.ID, coach.ID, models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	_, err = svc.Get(session.ID, outsider.ID, models.RoleUser)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Company members bypass the membership check.
	_, err = svc.Get(session.ID, analyst.ID, models.RoleCompanyMember)
	assert.NoError(t, err)
}

func TestToggleStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, NewTeamService(db, DefaultMaxTeamMembers))
	coach := createUser(t, db, "coach@club.com", models.RoleUser)
	team := createTeam(t, db, "FC United", "AAAA2222")
	session := createSession(t, db, team.ID, coach.ID, "https://x.example.com/a.mp4")

	_, err := svc.ToggleStatus(session.ID, models.RoleUser)
	assert.ErrorIs(t, err, ErrNotCompanyMember)

	updated, err := svc.ToggleStatus(session.ID, models.RoleCompanyMember)
	require.NoError(t, err)
	assert.Equal(t, models.SessionReviewed, updated.Status)

	updated, err = svc.ToggleStatus(session.ID, models.RoleCompanyMember)
	require.NoError(t, err)
	assert.Equal(t, models.SessionPending, updated.Status)
}

func TestRenameTitle(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, NewTeamService(db, DefaultMaxTeamMembers))
	coach := createUser(t, db, "coach@club.com", models.RoleUser)
	stranger := createUser(t, db, "stranger@club.com", models.RoleUser)
	team := createTeam(t, db, "FC United", "AAAA2222")
	session := createSession(t, db, team.ID, coach.ID, "https://x.example.com/a.mp4")

	_, err := svc.RenameTitle(session.ID, coach.ID, models.RoleUser, "  ")
	assert.ErrorIs(t, err, ErrBlankTitle)

	_, err = svc.RenameTitle(session.ID, stranger.ID, models.RoleUser, "Stolen")
	assert.ErrorIs(t, err, ErrNotSessionUploader)

	updated, err := svc.RenameTitle(session.ID, coach.ID, models.RoleUser, " Cup Final ")
	require.NoError(t, err)
	assert.Equal(t, "Cup Final", updated.Title)
	// Renaming never touches the review state.
	assert.Equal(t, models.SessionPending, updated.Status)
}

func TestDeleteSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, NewTeamService(db, DefaultMaxTeamMembers))
	coach := createUser(t, db, "coach@club.com", models.RoleUser)
	stranger := createUser(t, db, "stranger@club.com", models.RoleUser)
	analyst := createUser(t, db, "analyst@pitchside.app", models.RoleCompanyMember)
	team := createTeam(t, db, "FC United", "AAAA2222")
	session := createSession(t, db, team.ID, coach.ID, "https://x.example.com/a.mp4")

	err := svc.Delete(session.ID, stranger.ID, models.RoleUser)
	assert.ErrorIs(t, err, ErrNotSessionUploader)

	require.NoError(t, svc.Delete(session.ID, coach.ID, models.RoleUser))
	assert.ErrorIs(t, svc.Delete(session.ID, coach.ID, models.RoleUser), ErrSessionNotFound)

	// Company members may delete sessions they did not upload.
	other := createSession(t, db, team.ID, coach.ID, "https://x.example.com/b.mp4")
	require.NoError(t, svc.Delete(other.ID, analyst.ID, models.RoleCompanyMember))
}

func TestDeleteSession_RemovesDescription(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, NewTeamService(db, DefaultMaxTeamMembers))
	coach := createUser(t, db, "coach@club.com", models.RoleUser)
	analyst := createUser(t, db, "analyst@pitchside.app", models.RoleCompanyMember)
	team := createTeam(t, db, "FC United", "AAAA2222")
	session := createSession(t, db, team.ID, coach.ID, "https://x.example.com/a.mp4")

	analysis := NewAnalysisService(db, nil)
	_, err := analysis.UpsertDescription(session.ID, "Strong first half.", analyst.ID, models.RoleCompanyMember)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(session.ID, coach.ID, models.RoleUser))

	var count int64
	require.NoError(t, db.Model(&models.AnalysisDescription{}).Where("session_id = ?", session.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateMetrics(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, NewTeamService(db, DefaultMaxTeamMembers))
	coach := createUser(t, db, "coach@club.com", models.RoleUser)
	analyst := createUser(t, db, "analyst@pitchside.app", models.RoleCompanyMember)
	team := createTeam(t, db, "FC United", "AAAA2222")
	session := createSession(t, db, team.ID, coach.ID, "https://x.example.com/a.mp4")

	metrics := models.TeamMetrics{
		TotalDistance:        102.4,
		TotalSprints:         57,
		SprintDistance:       4.1,
		HighIntensitySprints: 12,
		TopSprintSpeed:       33.9,
	}

	_, err := svc.UpdateMetrics(session.ID, metrics, coach.ID, models.RoleUser)
	assert.ErrorIs(t, err, ErrNotCompanyMember)

	updated, err := svc.UpdateMetrics(session.ID, metrics, analyst.ID, models.RoleCompanyMember)
	require.NoError(t, err)
	assert.Equal(t, models.SessionReviewed, updated.Status)
	require.NotNil(t, updated.ReviewedBy)
	assert.Equal(t, analyst.ID, *updated.ReviewedBy)

	var stored models.Session
	require.NoError(t, db.First(&stored, "id = ?", session.ID).Error)
	require.NotNil(t, stored.TeamMetrics)
	assert.Equal(t, metrics, stored.TeamMetrics.Data())
	assert.Equal(t, models.SessionReviewed, stored.Status)
}

func TestUpdateMetrics_Overwrites(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, NewTeamService(db, DefaultMaxTeamMembers))
	coach := createUser(t, db, "coach@club.com", models.RoleUser)
	analyst := createUser(t, db, "analyst@pitchside.app", models.RoleCompanyMember)
	team := createTeam(t, db, "FC United", "AAAA2222")
	session := createSession(t, db, team.ID, coach.ID, "https://x.example.com/a.mp4")

	first := models.TeamMetrics{TotalDistance: 90, TotalSprints: 40}
	_, err := svc.UpdateMetrics(session.ID, first, analyst.ID, models.RoleCompanyMember)
	require.NoError(t, err)

	// A later write replaces the record wholesale, zeroing omitted fields.
	second := models.TeamMetrics{TopSprintSpeed: 31.2}
	_, err = svc.UpdateMetrics(session.ID, second, analyst.ID, models.RoleCompanyMember)
	require.NoError(t, err)

	var stored models.Session
	require.NoError(t, db.First(&stored, "id = ?", session.ID).Error)
	require.NotNil(t, stored.TeamMetrics)
	assert.Equal(t, second, stored.TeamMetrics.Data())
	assert.Zero(t, stored.TeamMetrics.Data().TotalDistance)
}
