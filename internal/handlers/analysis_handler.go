package handlers

import (
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pitchside-app/pitchside-backend/internal/dto"
	"github.com/pitchside-app/pitchside-backend/internal/identity"
	"github.com/pitchside-app/pitchside-backend/internal/services"
	"github.com/pitchside-app/pitchside-backend/internal/storage"
	"github.com/pitchside-app/pitchside-backend/internal/validation"
)

const maxArtifactSize = 50 * 1024 * 1024

var allowedArtifactTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"video/mp4":  true,
	"video/webm": true,
}

type AnalysisHandler struct {
	analysisService *services.AnalysisService
	sessionService  *services.SessionService
}

func NewAnalysisHandler(analysisService *services.AnalysisService, sessionService *services.SessionService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService, sessionService: sessionService}
}

// Attach handles POST /sessions/:id/analysis/:slot with a
// multipart/form-data "file" field.
func (h *AnalysisHandler) Attach(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badSessionID(c)
	}
	slot := strings.ToUpper(c.Params("slot"))

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Artifact file is required",
		})
	}
	if file.Size > maxArtifactSize {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Artifact must be smaller than 50MB",
		})
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedArtifactTypes[contentType] {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Unsupported artifact format",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read artifact",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read artifact",
		})
	}

	url, err := h.analysisService.Attach(c.Context(), sessionID, slot, data, contentType, userID, identity.Role(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotCompanyMember):
			return forbidden(c, err)
		case errors.Is(err, services.ErrInvalidSlot):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrSessionNotFound):
			return sessionNotFound(c)
		case errors.Is(err, storage.ErrStorage):
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: true, Message: "Artifact storage failed",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to attach artifact",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"slot": slot, "url": url})
}

// Detach handles DELETE /sessions/:id/analysis/:slot.
func (h *AnalysisHandler) Detach(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badSessionID(c)
	}
	slot := strings.ToUpper(c.Params("slot"))

	if err := h.analysisService.Detach(sessionID, slot, identity.Role(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrNotCompanyMember):
			return forbidden(c, err)
		case errors.Is(err, services.ErrInvalidSlot):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrSessionNotFound):
			return sessionNotFound(c)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to detach artifact",
		})
	}

	return c.JSON(fiber.Map{"message": "Artifact removed"})
}

// UpsertDescription handles PUT /sessions/:id/analysis/description.
func (h *AnalysisHandler) UpsertDescription(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badSessionID(c)
	}

	var req dto.UpsertDescriptionRequest
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

	desc, err := h.analysisService.UpsertDescription(sessionID, req.Body, userID, identity.Role(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotCompanyMember):
			return forbidden(c, err)
		case errors.Is(err, services.ErrBlankDescription):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrSessionNotFound):
			return sessionNotFound(c)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save description",
		})
	}

	return c.JSON(desc)
}

// Description handles GET /sessions/:id/analysis/description. The
// session lookup enforces the same visibility rules as GET /sessions/:id.
func (h *AnalysisHandler) Description(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badSessionID(c)
	}

	if _, err := h.sessionService.Get(sessionID, userID, identity.Role(c)); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return sessionNotFound(c)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch session",
		})
	}

	desc, err := h.analysisService.Description(sessionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch description",
		})
	}
	if desc == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "No description for this session",
		})
	}

	return c.JSON(desc)
}
