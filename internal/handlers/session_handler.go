package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pitchside-app/pitchside-backend/internal/dto"
	"github.com/pitchside-app/pitchside-backend/internal/identity"
	"github.com/pitchside-app/pitchside-backend/internal/services"
	"github.com/pitchside-app/pitchside-backend/internal/validation"
)

type SessionHandler struct {
	sessionService *services.SessionService
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Create handles POST /sessions - a footage upload. The team is
// resolved by name among the caller's teams, or created on the fly.
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateSessionRequest
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

	result, err := h.sessionService.Create(userID, &services.CreateSessionInput{
		FootageURL: req.FootageURL,
		TeamName:   req.TeamName,
		Title:      req.Title,
		GameDate:   req.GameDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBlankField):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrDuplicateFootage):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrTeamFull):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create session",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// List handles GET /sessions.
func (h *SessionHandler) List(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	sessions, err := h.sessionService.List(userID, identity.Role(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch sessions",
		})
	}

	return c.JSON(dto.SessionListResponse{Sessions: sessions, Total: len(sessions)})
}

// Get handles GET /sessions/:id.
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badSessionID(c)
	}

	session, err := h.sessionService.Get(sessionID, userID, identity.Role(c))
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return sessionNotFound(c)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch session",
		})
	}

	return c.JSON(session)
}

// ToggleStatus handles PUT /sessions/:id/status - analyst review flip.
func (h *SessionHandler) ToggleStatus(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badSessionID(c)
	}

	session, err := h.sessionService.ToggleStatus(sessionID, identity.Role(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotCompanyMember):
			return forbidden(c, err)
		case errors.Is(err, services.ErrSessionNotFound):
			return sessionNotFound(c)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update status",
		})
	}

	return c.JSON(session)
}

// Rename handles PUT /sessions/:id/title.
func (h *SessionHandler) Rename(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badSessionID(c)
	}

	var req dto.RenameSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	session, err := h.sessionService.RenameTitle(sessionID, userID, identity.Role(c), req.Title)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBlankTitle):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrNotSessionUploader):
			return forbidden(c, err)
		case errors.Is(err, services.ErrSessionNotFound):
			return sessionNotFound(c)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to rename session",
		})
	}

	return c.JSON(session)
}

// UpdateMetrics handles PUT /sessions/:id/metrics - analyst-only,
// wholesale overwrite, marks the session reviewed.
func (h *SessionHandler) UpdateMetrics(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badSessionID(c)
	}

	var req dto.UpdateMetricsRequest
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

	session, err := h.sessionService.UpdateMetrics(sessionID, req.ToMetrics(), userID, identity.Role(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotCompanyMember):
			return forbidden(c, err)
		case errors.Is(err, services.ErrSessionNotFound):
			return sessionNotFound(c)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update metrics",
		})
	}

	return c.JSON(session)
}

// Delete handles DELETE /sessions/:id.
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badSessionID(c)
	}

	if err := h.sessionService.Delete(sessionID, userID, identity.Role(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			return sessionNotFound(c)
		case errors.Is(err, services.ErrNotSessionUploader):
			return forbidden(c, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete session",
		})
	}

	return c.JSON(fiber.Map{"message": "Session deleted"})
}

func badSessionID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid session ID",
	})
}

func sessionNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error: true, Message: "Session not found",
	})
}

func forbidden(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Error: true, Message: err.Error(),
	})
}
