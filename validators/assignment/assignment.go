package assignmentValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// UserAssignmentsQuery validates the userId query parameter
func UserAssignmentsQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDStr := strings.TrimSpace(c.Query("userId"))
		if userIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "userId is required!", nil)
		}

		userID, err := strconv.Atoi(userIDStr)
		if err != nil || userID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid userId!", nil)
		}

		c.Locals("targetUserId", uint(userID))
		return c.Next()
	}
}

// OverlapQuery validates userId, contentType and contentId query parameters
func OverlapQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		userID, err := strconv.Atoi(strings.TrimSpace(c.Query("userId")))
		if err != nil || userID <= 0 {
			errors["userId"] = "userId must be a positive integer!"
		}

		contentType := strings.TrimSpace(c.Query("contentType"))
		if contentType != "course" && contentType != "learning_path" {
			errors["contentType"] = "contentType must be course or learning_path!"
		}

		contentID, err := strconv.Atoi(strings.TrimSpace(c.Query("contentId")))
		if err != nil || contentID <= 0 {
			errors["contentId"] = "contentId must be a positive integer!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("targetUserId", uint(userID))
		c.Locals("contentType", contentType)
		c.Locals("contentId", uint(contentID))
		return c.Next()
	}
}

// BatchCourseBody validates {courseId, userIds} request bodies
func BatchCourseBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint   `json:"courseId"`
			UserIDs  []uint `json:"userIds"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.CourseID == 0 {
			errors["courseId"] = "courseId is required!"
		}
		if len(reqData.UserIDs) == 0 {
			errors["userIds"] = "userIds must not be empty!"
		}
		for _, id := range reqData.UserIDs {
			if id == 0 {
				errors["userIds"] = "userIds must all be positive!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("contentId", reqData.CourseID)
		c.Locals("targetUserIds", dedupeIDs(reqData.UserIDs))
		return c.Next()
	}
}

// BatchPathBody validates {pathId, userIds} request bodies
func BatchPathBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			PathID  uint   `json:"pathId"`
			UserIDs []uint `json:"userIds"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.PathID == 0 {
			errors["pathId"] = "pathId is required!"
		}
		if len(reqData.UserIDs) == 0 {
			errors["userIds"] = "userIds must not be empty!"
		}
		for _, id := range reqData.UserIDs {
			if id == 0 {
				errors["userIds"] = "userIds must all be positive!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("contentId", reqData.PathID)
		c.Locals("targetUserIds", dedupeIDs(reqData.UserIDs))
		return c.Next()
	}
}

// PathUnassignBody validates {pathId, userId} request bodies (single user)
func PathUnassignBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			PathID uint `json:"pathId"`
			UserID uint `json:"userId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.PathID == 0 {
			errors["pathId"] = "pathId is required!"
		}
		if reqData.UserID == 0 {
			errors["userId"] = "userId is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("contentId", reqData.PathID)
		c.Locals("targetUserId", reqData.UserID)
		return c.Next()
	}
}

// GroupQuery validates groupType and groupId query parameters
func GroupQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		groupType := strings.TrimSpace(c.Query("groupType"))
		if groupType != "school" && groupType != "community" {
			errors["groupType"] = "groupType must be school or community!"
		}

		groupID, err := strconv.Atoi(strings.TrimSpace(c.Query("groupId")))
		if err != nil || groupID <= 0 {
			errors["groupId"] = "groupId must be a positive integer!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("groupType", groupType)
		c.Locals("groupId", uint(groupID))
		return c.Next()
	}
}

// ContentStatsQuery validates search and pagination parameters
func ContentStatsQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &struct {
			Search string
			Page   int
			Limit  int
		}{
			Search: strings.TrimSpace(c.Query("search")),
			Page:   1,
			Limit:  20,
		}

		if pageStr := c.Query("page"); pageStr != "" {
			page, err := strconv.Atoi(pageStr)
			if err != nil || page < 1 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Page must be greater than 0!", nil)
			}
			reqData.Page = page
		}
		if limitStr := c.Query("limit"); limitStr != "" {
			limit, err := strconv.Atoi(limitStr)
			if err != nil || limit < 1 || limit > 100 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Limit must be between 1 and 100!", nil)
			}
			reqData.Limit = limit
		}

		c.Locals("validatedContentStatsQuery", reqData)
		return c.Next()
	}
}

// dedupeIDs removes duplicate user ids while preserving order
func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
