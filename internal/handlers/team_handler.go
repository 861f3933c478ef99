package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pitchside-app/pitchside-backend/internal/dto"
	"github.com/pitchside-app/pitchside-backend/internal/identity"
	"github.com/pitchside-app/pitchside-backend/internal/models"
	"github.com/pitchside-app/pitchside-backend/internal/services"
	"github.com/pitchside-app/pitchside-backend/internal/validation"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// List handles GET /teams - every team the caller belongs to.
func (h *TeamHandler) List(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	teams, err := h.teamService.ListForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch teams",
		})
	}

	out := make([]dto.TeamResponse, len(teams))
	for i, t := range teams {
		out[i] = toTeamResponse(&t)
	}
	return c.JSON(fiber.Map{"teams": out})
}

// Join handles POST /teams/join - membership via shared team code.
func (h *TeamHandler) Join(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.JoinTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	if err := h.teamService.Join(userID, req.TeamCode); err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "No team with that code",
			})
		case errors.Is(err, services.ErrAlreadyMember):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrTeamFull):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to join team",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Joined team"})
}

// Members handles GET /teams/:id/members.
func (h *TeamHandler) Members(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badTeamID(c)
	}

	members, err := h.teamService.Members(userID, teamID)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "You are not a member of this team",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch members",
		})
	}

	out := make([]dto.TeamMemberResponse, len(members))
	for i, m := range members {
		out[i] = dto.TeamMemberResponse{
			UserID:   m.UserID,
			Email:    m.User.Email,
			IsAdmin:  m.IsAdmin,
			JoinedAt: m.JoinedAt,
		}
	}
	return c.JSON(fiber.Map{"members": out})
}

// RemoveMember handles DELETE /teams/:id/members/:userId.
func (h *TeamHandler) RemoveMember(c *fiber.Ctx) error {
	requesterID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badTeamID(c)
	}
	targetID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	if err := h.teamService.RemoveMember(requesterID, teamID, targetID); err != nil {
		return mapMembershipError(c, err, "Failed to remove member")
	}

	return c.JSON(fiber.Map{"message": "Member removed"})
}

// SetAdmin handles PUT /teams/:id/members/:userId/admin.
func (h *TeamHandler) SetAdmin(c *fiber.Ctx) error {
	requesterID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badTeamID(c)
	}
	targetID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	var req dto.SetAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.teamService.SetAdminStatus(requesterID, teamID, targetID, req.IsAdmin); err != nil {
		return mapMembershipError(c, err, "Failed to update admin status")
	}

	return c.JSON(fiber.Map{"message": "Admin status updated"})
}

// Leave handles POST /teams/:id/leave.
func (h *TeamHandler) Leave(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badTeamID(c)
	}

	if err := h.teamService.Leave(userID, teamID); err != nil {
		return mapMembershipError(c, err, "Failed to leave team")
	}

	return c.JSON(fiber.Map{"message": "Left team"})
}

func mapMembershipError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrNotTeamAdmin):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrLastAdmin):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrMemberNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrTeamNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: fallback,
	})
}

func toTeamResponse(t *models.Team) dto.TeamResponse {
	return dto.TeamResponse{
		ID:                 t.ID,
		Name:               t.Name,
		TeamCode:           t.TeamCode,
		IsPremium:          t.IsPremium,
		SubscriptionStatus: t.SubscriptionStatus,
		TrialEndsAt:        t.TrialEndsAt,
		CreatedAt:          t.CreatedAt,
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badTeamID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid team ID",
	})
}
