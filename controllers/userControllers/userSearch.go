package userControllers

import (
	"strings"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// SearchAssignees finds users for the assignment picker and flags whether
// each already holds the candidate course directly, so the UI can show the
// advisory overlap state inline.
func SearchAssignees(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedAssigneeSearch").(*struct {
		CourseID uint
		Query    string
		Page     int
		Limit    int
	})
	db := database.Database.Db
	offset := (reqData.Page - 1) * reqData.Limit

	query := db.Model(&models.User{}).Where("is_deleted = ?", false)
	if reqData.Query != "" {
		// Case-insensitive match without ILIKE so the query is portable
		like := "%" + strings.ToLower(reqData.Query) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Offset(offset).Limit(reqData.Limit).Order("first_name asc").
		Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to search users!", nil)
	}

	// Batched existing-grant lookup for the result page
	userIDs := make([]uint, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}
	alreadyAssigned := make(map[uint]bool)
	if len(userIDs) > 0 {
		var existing []courseModels.CourseAssignment
		if err := db.Where("course_id = ? AND user_id IN ? AND is_deleted = ?", reqData.CourseID, userIDs, false).
			Find(&existing).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check assignments!", nil)
		}
		for _, a := range existing {
			alreadyAssigned[a.UserID] = true
		}
	}

	type SearchResult struct {
		ID                uint   `json:"id"`
		Name              string `json:"name"`
		Email             string `json:"email"`
		IsAlreadyAssigned bool   `json:"is_already_assigned"`
	}
	results := make([]SearchResult, len(users))
	for i, u := range users {
		results[i] = SearchResult{
			ID:                u.ID,
			Name:              u.FullName(),
			Email:             u.Email,
			IsAlreadyAssigned: alreadyAssigned[u.ID],
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"results": results,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}
