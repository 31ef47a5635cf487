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

// BatchAssignPath grants a learning path to a list of users. Granting the
// path also touches an enrollment for every member course, inside the same
// per-user transaction, so path-derived progress tracking starts immediately.
// Existing path holders count as skipped.
func BatchAssignPath(c *fiber.Ctx) error {
	actorID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	pathID := c.Locals("contentId").(uint)
	userIDs := c.Locals("targetUserIds").([]uint)
	requestID := uuid.NewString()
	db := database.Database.Db

	var path courseModels.LearningPath
	if err := db.Where("id = ? AND is_deleted = ?", pathID, false).First(&path).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Learning path not found!", nil)
	}

	var actor models.User
	if err := db.Where("id = ? AND is_deleted = ?", actorID, false).First(&actor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var memberCourses []courseModels.LearningPathCourse
	if err := db.Where("learning_path_id = ? AND is_deleted = ?", pathID, false).
		Order("position asc").Find(&memberCourses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch path courses!", nil)
	}

	courseIDs := make([]uint, 0, len(memberCourses))
	for _, mc := range memberCourses {
		courseIDs = append(courseIDs, mc.CourseID)
	}
	coursesByID := make(map[uint]courseModels.Course)
	if len(courseIDs) > 0 {
		var rows []courseModels.Course
		if err := db.Where("id IN ? AND is_deleted = ?", courseIDs, false).Find(&rows).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
		}
		for _, r := range rows {
			coursesByID[r.ID] = r
		}
	}

	assigned, skipped, failed := 0, 0, 0

	for _, userID := range userIDs {
		var target models.User
		if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&target).Error; err != nil {
			failed++
			continue
		}

		var existing courseModels.LearningPathAssignment
		err := db.Where("learning_path_id = ? AND user_id = ? AND is_deleted = ?", pathID, userID, false).
			First(&existing).Error
		if err == nil {
			skipped++
			continue
		}
		if err != gorm.ErrRecordNotFound {
			failed++
			continue
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			pa := courseModels.LearningPathAssignment{
				LearningPathID: pathID,
				UserID:         userID,
				AssignedBy:     actorID,
				AssignedAt:     time.Now(),
			}
			if err := tx.Create(&pa).Error; err != nil {
				return err
			}

			for _, cid := range courseIDs {
				var enrollment courseModels.Enrollment
				err := tx.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, cid, false).
					First(&enrollment).Error
				if err == gorm.ErrRecordNotFound {
					enrollment = courseModels.Enrollment{
						UserID:       userID,
						CourseID:     cid,
						TotalLessons: coursesByID[cid].TotalLessons,
						EnrolledBy:   actorID,
					}
					if err := tx.Create(&enrollment).Error; err != nil {
						return err
					}
					continue
				}
				if err != nil {
					return err
				}
			}
			return nil
		})
		if txErr != nil {
			// Same race handling as course grants: if a concurrent batch won
			// the unique-index race, the user is already a holder.
			var live int64
			db.Model(&courseModels.LearningPathAssignment{}).
				Where("learning_path_id = ? AND user_id = ? AND is_deleted = ?", pathID, userID, false).
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
			string(services.ContentTypeLearningPath), pathID, string(services.SourcePathOnly))
		go utils.SendPathAssignedEmail(target.Email, target.FullName(), path.Name, actor.FullName(), len(courseIDs))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batch assignment complete!", fiber.Map{
		"assigned":   assigned,
		"skipped":    skipped,
		"failed":     failed,
		"request_id": requestID,
	})
}

// UnassignPath removes one user's path assignment. It does not cascade to
// the member-course enrollments the path granted: progress history is kept,
// and cascading cleanup is a separate, currently unimplemented operation.
func UnassignPath(c *fiber.Ctx) error {
	actorID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	pathID := c.Locals("contentId").(uint)
	userID := c.Locals("targetUserId").(uint)
	requestID := uuid.NewString()
	db := database.Database.Db

	var path courseModels.LearningPath
	if err := db.Where("id = ? AND is_deleted = ?", pathID, false).First(&path).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Learning path not found!", nil)
	}

	res := db.Model(&courseModels.LearningPathAssignment{}).
		Where("learning_path_id = ? AND user_id = ? AND is_deleted = ?", pathID, userID, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unassign path!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User is not assigned this path!", nil)
	}

	utils.RecordAudit(requestID, actorID, models.AuditActionUnassigned, userID,
		string(services.ContentTypeLearningPath), pathID, string(services.SourcePathOnly))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Path unassigned successfully!", fiber.Map{
		"unassigned_count": res.RowsAffected,
		"request_id":       requestID,
	})
}
