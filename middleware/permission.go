package middleware

import (
	"lms/database"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRoles returns a middleware that passes only if the user holds at
// least one active role from the given list. The check runs before any data
// read so a forbidden caller never touches assignment data.
func RequireRoles(roleTypes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Unauthorized: User ID not found",
				"data":    nil,
			})
		}

		var count int64
		err := database.Database.Db.Model(&models.UserRole{}).
			Where("user_id = ? AND role_type IN ? AND is_active = ? AND is_deleted = ?",
				userID, roleTypes, true, false).
			Count(&count).Error

		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  false,
				"message": "Server error while checking permissions!",
				"data":    nil,
			})
		}

		if count == 0 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  false,
				"message": "You do not have permission to access this resource!",
				"data":    nil,
			})
		}

		return c.Next()
	}
}
