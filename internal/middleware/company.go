package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pitchside-app/pitchside-backend/internal/dto"
	"github.com/pitchside-app/pitchside-backend/internal/identity"
	"github.com/pitchside-app/pitchside-backend/internal/models"
	"gorm.io/gorm"
)

// CompanyMemberRequired gates analyst-only routes. The role claim is
// re-checked against the user row so a stale token cannot keep
// analyst rights after a role change.
func CompanyMemberRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := identity.UserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if !user.IsCompanyMember() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Company member access required",
			})
		}

		return c.Next()
	}
}
