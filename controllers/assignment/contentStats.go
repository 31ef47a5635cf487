package controllers

import (
	"strings"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// GetContentStats powers the content-batch view: per course, how many users
// hold it directly and how many hold it through a path. The two counts are
// returned side by side, never summed, because a user can appear in both.
func GetContentStats(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedContentStatsQuery").(*struct {
		Search string
		Page   int
		Limit  int
	})
	db := database.Database.Db
	offset := (reqData.Page - 1) * reqData.Limit

	// Case-insensitive match without ILIKE so the query is portable
	like := "%" + strings.ToLower(reqData.Search) + "%"

	courseQuery := db.Model(&courseModels.Course{}).Where("is_deleted = ?", false)
	if reqData.Search != "" {
		courseQuery = courseQuery.Where("LOWER(title) LIKE ?", like)
	}

	var totalCourses int64
	courseQuery.Count(&totalCourses)

	var courses []courseModels.Course
	if err := courseQuery.Offset(offset).Limit(reqData.Limit).Order("title asc").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	pathQuery := db.Model(&courseModels.LearningPath{}).Where("is_deleted = ?", false)
	if reqData.Search != "" {
		pathQuery = pathQuery.Where("LOWER(name) LIKE ?", like)
	}

	var totalPaths int64
	pathQuery.Count(&totalPaths)

	var paths []courseModels.LearningPath
	if err := pathQuery.Offset(offset).Limit(reqData.Limit).Order("name asc").
		Find(&paths).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch learning paths!", nil)
	}

	var direct []courseModels.CourseAssignment
	if err := db.Where("is_deleted = ?", false).Find(&direct).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assignments!", nil)
	}
	var pathAssignments []courseModels.LearningPathAssignment
	if err := db.Where("is_deleted = ?", false).Find(&pathAssignments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch path assignments!", nil)
	}
	var pathCourses []courseModels.LearningPathCourse
	if err := db.Where("is_deleted = ?", false).Find(&pathCourses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch path courses!", nil)
	}
	var enrollments []courseModels.Enrollment
	if err := db.Where("is_deleted = ?", false).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	courseStats := services.BuildCourseContentStats(courses, direct, pathAssignments, pathCourses, enrollments)
	pathStats := services.BuildPathContentStats(paths, pathAssignments, pathCourses)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content stats fetched successfully!", fiber.Map{
		"courses":        courseStats,
		"learning_paths": pathStats,
		"pagination": fiber.Map{
			"total":       totalCourses,
			"total_paths": totalPaths,
			"page":        reqData.Page,
			"limit":       reqData.Limit,
		},
	})
}
