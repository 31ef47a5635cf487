package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BatchAssignCourse grants a course to a list of users. Users who already
// hold a live direct grant are counted as skipped, never errored: the
// overlap warning upstream is advisory and this endpoint must be safe to
// re-invoke with overlapping user sets. Each user is processed in its own
// transaction (assignment + enrollment touch together); per-user failures
// are counted, not rolled into an all-or-nothing batch.
func BatchAssignCourse(c *fiber.Ctx) error {
	actorID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("contentId").(uint)
	userIDs := c.Locals("targetUserIds").([]uint)
	requestID := uuid.NewString()
	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var actor models.User
	if err := db.Where("id = ? AND is_deleted = ?", actorID, false).First(&actor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	assigned, skipped, failed := 0, 0, 0

	for _, userID := range userIDs {
		var target models.User
		if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&target).Error; err != nil {
			failed++
			continue
		}

		// Idempotency: one live grant row per (course, user)
		var existing courseModels.CourseAssignment
		err := db.Where("course_id = ? AND user_id = ? AND is_deleted = ?", courseID, userID, false).
			First(&existing).Error
		if err == nil {
			skipped++
			continue
		}
		if err != gorm.ErrRecordNotFound {
			failed++
			continue
		}

		// One transaction per user: the grant and the enrollment touch must
		// never be visible half-written to a concurrent resolution read
		txErr := db.Transaction(func(tx *gorm.DB) error {
			assignment := courseModels.CourseAssignment{
				CourseID:   courseID,
				UserID:     userID,
				AssignedBy: actorID,
				AssignedAt: time.Now(),
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}

			// Reuse an existing enrollment so previous progress resumes;
			// create one only when the user has never touched the course
			var enrollment courseModels.Enrollment
			err := tx.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
				First(&enrollment).Error
			if err == gorm.ErrRecordNotFound {
				enrollment = courseModels.Enrollment{
					UserID:       userID,
					CourseID:     courseID,
					TotalLessons: course.TotalLessons,
					EnrolledBy:   actorID,
				}
				return tx.Create(&enrollment).Error
			}
			return err
		})
		if txErr != nil {
			// The pre-check races with concurrent batches; the live-grant
			// unique index is the backstop. A live row appearing now means
			// the pair is already granted, which is a skip, not a failure.
			var live int64
			db.Model(&courseModels.CourseAssignment{}).
				Where("course_id = ? AND user_id = ? AND is_deleted = ?", courseID, userID, false).
				Count(&live)
			if live > 0 {
				skipped++
			} else {
				failed++
			}
			continue
		}

		assigned++
		utils.RecordAudit(requestID, actorID, models.AuditActionAssigned, userID,
			string(services.ContentTypeCourse), courseID, string(services.SourceDirectOnly))
		go utils.SendCourseAssignedEmail(target.Email, target.FullName(), course.Title, actor.FullName())
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batch assignment complete!", fiber.Map{
		"assigned":   assigned,
		"skipped":    skipped,
		"failed":     failed,
		"request_id": requestID,
	})
}

// BatchUnassignCourse removes direct grants only. Path-derived access is
// untouched and the enrollment row is always preserved, so a later
// re-assignment resumes progress instead of restarting it. Users without a
// live direct row (e.g. path-only holders) are counted as skipped.
func BatchUnassignCourse(c *fiber.Ctx) error {
	actorID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("contentId").(uint)
	userIDs := c.Locals("targetUserIds").([]uint)
	requestID := uuid.NewString()
	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	unassigned, skipped, failed := 0, 0, 0

	for _, userID := range userIDs {
		res := db.Model(&courseModels.CourseAssignment{}).
			Where("course_id = ? AND user_id = ? AND is_deleted = ?", courseID, userID, false).
			Update("is_deleted", true)
		if res.Error != nil {
			failed++
			continue
		}
		if res.RowsAffected == 0 {
			// Nothing to remove directly (path-only or never assigned)
			skipped++
			continue
		}

		unassigned++
		utils.RecordAudit(requestID, actorID, models.AuditActionUnassigned, userID,
			string(services.ContentTypeCourse), courseID, string(services.SourceDirectOnly))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batch unassignment complete!", fiber.Map{
		"unassigned_count": unassigned,
		"skipped":          skipped,
		"failed":           failed,
		"request_id":       requestID,
	})
}
