package userRoutes

import (
	controllers "lms/controllers/userControllers"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up user search and role management routes
func SetupUserRoutes(app *fiber.App) {
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleConsultant)

	userGroup := app.Group("/users", middleware.JWTMiddleware, staff)
	userGroup.Post("/search-assignees", validators.AssigneeSearch(), controllers.SearchAssignees)

	// Role removal is admin-only; the last-admin guard lives in the controller
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	userGroup.Delete("/:id/roles/:roleType", adminOnly, validators.RemoveRoleParams(), controllers.RemoveUserRole)
}
