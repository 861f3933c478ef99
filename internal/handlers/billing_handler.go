package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pitchside-app/pitchside-backend/internal/config"
	"github.com/pitchside-app/pitchside-backend/internal/dto"
	"github.com/pitchside-app/pitchside-backend/internal/services"
	"github.com/stripe/stripe-go/v76/webhook"
)

type BillingHandler struct {
	billingService *services.BillingService
	cfg            *config.Config
}

func NewBillingHandler(billingService *services.BillingService, cfg *config.Config) *BillingHandler {
	return &BillingHandler{billingService: billingService, cfg: cfg}
}

// HandleStripeWebhook handles POST /webhooks/stripe. The signature is
// verified against the raw body before anything is parsed; delivery is
// at-least-once, so the ledger writes downstream are idempotent.
func (h *BillingHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")
	if signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Missing Stripe-Signature header",
		})
	}

	event, err := webhook.ConstructEventWithTolerance(
		c.Body(),
		signature,
		h.cfg.StripeWebhookSecret,
		5*time.Minute,
	)
	if err != nil {
		slog.Error("stripe signature verification failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid webhook signature",
		})
	}

	if err := h.billingService.HandleStripeEvent(event); err != nil {
		slog.Error("stripe webhook processing failed", "event_type", string(event.Type), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process webhook event",
		})
	}

	slog.Info("stripe webhook processed", "event_type", string(event.Type), "event_id", event.ID)
	return c.JSON(fiber.Map{"received": true})
}

// OverrideSubscription handles PUT /admin/teams/:id/subscription -
// the internal-tooling path for manual premium changes.
func (h *BillingHandler) OverrideSubscription(c *fiber.Ctx) error {
	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badTeamID(c)
	}

	var req dto.SubscriptionOverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.billingService.SetManualOverride(teamID, req.Premium, req.SubscriptionID); err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Team not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update subscription",
		})
	}

	return c.JSON(fiber.Map{"message": "Subscription updated"})
}
