package userControllers

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RemoveUserRole deactivates one of a user's roles. The last-admin guard
// counts live rows inside the same transaction as the removal: a cached or
// pre-read count would let two concurrent removals race past a stale check
// and strand the system without an administrator.
func RemoveUserRole(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetUserID := c.Locals("targetUserId").(uint)
	roleType := c.Locals("roleType").(string)
	db := database.Database.Db

	var role models.UserRole
	if err := db.Where("user_id = ? AND role_type = ? AND is_active = ? AND is_deleted = ?",
		targetUserID, roleType, true, false).First(&role).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User does not hold this role!", nil)
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if roleType == models.RoleAdmin {
			// Fresh count at removal time, not a cached one
			var adminCount int64
			if err := tx.Model(&models.UserRole{}).
				Where("role_type = ? AND is_active = ? AND is_deleted = ?", models.RoleAdmin, true, false).
				Count(&adminCount).Error; err != nil {
				return err
			}
			if adminCount <= 1 {
				return errLastAdmin
			}
		}

		return tx.Model(&models.UserRole{}).
			Where("id = ?", role.ID).
			Updates(map[string]interface{}{"is_active": false, "is_deleted": true}).Error
	})

	if txErr == errLastAdmin {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot remove the last administrator!", nil)
	}
	if txErr != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove role!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Role removed successfully!", nil)
}

var errLastAdmin = errors.New("last admin")
