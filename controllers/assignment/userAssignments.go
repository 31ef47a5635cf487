package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// GetUserAssignments returns the full provenance view for one user:
// every course/path they hold, tagged with how they came to hold it.
// A failed source read aborts the whole resolution; an administrator must
// never act on a partial provenance view.
func GetUserAssignments(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetUserID := c.Locals("targetUserId").(uint)
	db := database.Database.Db

	// Unknown user is a 404, never an empty assignment list
	var targetUser models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetUserID, false).First(&targetUser).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var roleRows []models.UserRole
	if err := db.Where("user_id = ? AND is_active = ? AND is_deleted = ?", targetUserID, true, false).
		Find(&roleRows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user roles!", nil)
	}
	roles := make([]string, 0, len(roleRows))
	for _, r := range roleRows {
		roles = append(roles, r.RoleType)
	}

	result, err := resolveForUser(db, targetUserID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to resolve assignments: "+err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignments fetched successfully!", fiber.Map{
		"user": fiber.Map{
			"id":    targetUser.ID,
			"name":  targetUser.FullName(),
			"email": targetUser.Email,
			"roles": roles,
		},
		"assignments": result.Assignments,
		"stats":       result.Stats,
	})
}
