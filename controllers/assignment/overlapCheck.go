package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// CheckOverlap answers "would assigning this content duplicate access the
// user already has?" The answer is advisory: the mutation layer is
// idempotent, so can_proceed is always true and the UI only surfaces the
// warning.
func CheckOverlap(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetUserID := c.Locals("targetUserId").(uint)
	contentType := c.Locals("contentType").(string)
	contentID := c.Locals("contentId").(uint)
	db := database.Database.Db

	// Unknown user is a 404, never a clean "no overlap" answer
	var targetUser models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetUserID, false).First(&targetUser).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	// Same for the candidate content: an unknown id must not look overlap-free
	switch contentType {
	case string(services.ContentTypeCourse):
		var course courseModels.Course
		if err := db.Where("id = ? AND is_deleted = ?", contentID, false).First(&course).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
	case string(services.ContentTypeLearningPath):
		var path courseModels.LearningPath
		if err := db.Where("id = ? AND is_deleted = ?", contentID, false).First(&path).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Learning path not found!", nil)
		}
	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid content type!", nil)
	}

	result, err := resolveForUser(db, targetUserID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to resolve assignments: "+err.Error(), nil)
	}

	var info services.OverlapInfo
	switch contentType {
	case string(services.ContentTypeCourse):
		info = services.CheckCourseOverlap(result.Assignments, contentID)
	default:
		var members []courseModels.LearningPathCourse
		if err := db.Where("learning_path_id = ? AND is_deleted = ?", contentID, false).
			Find(&members).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch path courses!", nil)
		}
		memberIDs := make([]uint, 0, len(members))
		for _, m := range members {
			memberIDs = append(memberIDs, m.CourseID)
		}
		info = services.CheckLPOverlap(result.Assignments, contentID, memberIDs)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Overlap check complete!", info)
}
