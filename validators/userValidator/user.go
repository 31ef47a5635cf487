package userValidator

import (
	"strconv"
	"strings"

	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// AssigneeSearch validates the assignment-picker search body
func AssigneeSearch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(struct {
			CourseID uint   `json:"courseId"`
			Query    string `json:"query"`
			Page     int    `json:"page"`
			Limit    int    `json:"limit"`
		})

		if err := c.BodyParser(body); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if body.CourseID == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseId is required!", nil)
		}

		reqData := &struct {
			CourseID uint
			Query    string
			Page     int
			Limit    int
		}{
			CourseID: body.CourseID,
			Query:    strings.TrimSpace(body.Query),
			Page:     body.Page,
			Limit:    body.Limit,
		}
		if reqData.Page < 1 {
			reqData.Page = 1
		}
		if reqData.Limit < 1 || reqData.Limit > 100 {
			reqData.Limit = 20
		}

		c.Locals("validatedAssigneeSearch", reqData)
		return c.Next()
	}
}

// RemoveRoleParams validates the user id and role type path parameters
func RemoveRoleParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := strconv.Atoi(c.Params("id"))
		if err != nil || userID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
		}

		roleType := strings.ToUpper(strings.TrimSpace(c.Params("roleType")))
		switch roleType {
		case models.RoleAdmin, models.RoleConsultant, models.RoleTeacher, models.RoleStudent:
		default:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid role type!", nil)
		}

		c.Locals("targetUserId", uint(userID))
		c.Locals("roleType", roleType)
		return c.Next()
	}
}
