package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pitchside-app/pitchside-backend/internal/models"
	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm"
)

// BillingService owns each team's premium state. It is mutated by
// verified Stripe webhook events and by the manual override path;
// every write is idempotent because webhook delivery is at-least-once.
type BillingService struct {
	db *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{db: db}
}

// HandleStripeEvent dispatches a verified webhook event. Unhandled
// event types are ignored.
func (s *BillingService) HandleStripeEvent(event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("failed to parse checkout session: %w", err)
		}
		subscriptionID := ""
		if sess.Subscription != nil {
			subscriptionID = sess.Subscription.ID
		}
		return s.paymentSucceeded(sess.Metadata["team_id"], subscriptionID)

	case "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return fmt.Errorf("failed to parse invoice: %w", err)
		}
		return s.paymentSucceeded(invoice.Metadata["team_id"], "")

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to parse subscription: %w", err)
		}
		return s.subscriptionEnded(sub.Metadata["team_id"])
	}

	return nil
}

// RecordPaymentSucceeded marks the team premium. Applying it twice
// leaves the same end state; an unknown team is logged and skipped
// because webhook retries must not poison the queue.
func (s *BillingService) RecordPaymentSucceeded(teamID uuid.UUID) error {
	updates := map[string]interface{}{
		"is_premium":          true,
		"subscription_status": models.SubscriptionPremium,
	}
	res := s.db.Model(&models.Team{}).Where("id = ?", teamID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to record payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		slog.Warn("payment event for unknown team", "team_id", teamID.String(), "action", "record_payment")
	}
	return nil
}

// SetManualOverride is the internal-tooling path: it sets the premium
// flag, rewrites subscription_status accordingly, and sets or clears
// the external billing reference.
func (s *BillingService) SetManualOverride(teamID uuid.UUID, premium bool, subscriptionID *string) error {
	status := models.SubscriptionFree
	if premium {
		status = models.SubscriptionPremium
	}

	res := s.db.Model(&models.Team{}).Where("id = ?", teamID).Updates(map[string]interface{}{
		"is_premium":          premium,
		"subscription_status": status,
		"subscription_id":     subscriptionID,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to set override: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (s *BillingService) paymentSucceeded(rawTeamID, subscriptionID string) error {
	teamID, err := uuid.Parse(rawTeamID)
	if err != nil {
		slog.Warn("payment event without a valid team_id", "team_id", rawTeamID, "action", "record_payment")
		return nil
	}

	if err := s.RecordPaymentSucceeded(teamID); err != nil {
		return err
	}
	if subscriptionID != "" {
		if err := s.db.Model(&models.Team{}).Where("id = ?", teamID).
			Update("subscription_id", subscriptionID).Error; err != nil {
			return fmt.Errorf("failed to store subscription id: %w", err)
		}
	}
	return nil
}

func (s *BillingService) subscriptionEnded(rawTeamID string) error {
	teamID, err := uuid.Parse(rawTeamID)
	if err != nil {
		slog.Warn("subscription event without a valid team_id", "team_id", rawTeamID, "action", "subscription_ended")
		return nil
	}

	res := s.db.Model(&models.Team{}).Where("id = ?", teamID).Updates(map[string]interface{}{
		"is_premium":          false,
		"subscription_status": models.SubscriptionFree,
		"subscription_id":     nil,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to end subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		slog.Warn("subscription event for unknown team", "team_id", rawTeamID, "action", "subscription_ended")
	}
	return nil
}
