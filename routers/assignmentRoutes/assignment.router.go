package assignmentRoutes

import (
	controllers "lms/controllers/assignment"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/assignment"

	"github.com/gofiber/fiber/v2"
)

// SetupAssignmentRoutes wires the assignment-matrix read endpoints and the
// batch mutation endpoints. Everything requires an admin or consultant role;
// the permission check runs before any data read.
func SetupAssignmentRoutes(app *fiber.App) {
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleConsultant)

	matrix := app.Group("/assignment-matrix", middleware.JWTMiddleware, staff)
	matrix.Get("/user-assignments", validators.UserAssignmentsQuery(), controllers.GetUserAssignments)
	matrix.Get("/group-assignments", validators.GroupQuery(), controllers.GetGroupAssignments)
	matrix.Get("/content-stats", validators.ContentStatsQuery(), controllers.GetContentStats)
	matrix.Get("/overlap-check", validators.OverlapQuery(), controllers.CheckOverlap)

	courses := app.Group("/courses", middleware.JWTMiddleware, staff)
	courses.Post("/batch-assign", validators.BatchCourseBody(), controllers.BatchAssignCourse)
	courses.Delete("/unassign", validators.BatchCourseBody(), controllers.BatchUnassignCourse)

	paths := app.Group("/learning-paths", middleware.JWTMiddleware, staff)
	paths.Post("/batch-assign", validators.BatchPathBody(), controllers.BatchAssignPath)
	paths.Delete("/unassign", validators.PathUnassignBody(), controllers.UnassignPath)
}
