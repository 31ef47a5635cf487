package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// GetGroupAssignments rolls up per-user provenance resolution across a
// school or community. Each member goes through the same resolver as the
// single-user view, so "assigned" cannot drift between the two screens.
func GetGroupAssignments(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	groupType := c.Locals("groupType").(string)
	groupID := c.Locals("groupId").(uint)
	db := database.Database.Db

	var groupName string
	var roleFilter string
	switch groupType {
	case "school":
		var school models.School
		if err := db.Where("id = ? AND is_deleted = ?", groupID, false).First(&school).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "School not found!", nil)
		}
		groupName = school.Name
		roleFilter = "school_id = ?"
	case "community":
		var community models.Community
		if err := db.Where("id = ? AND is_deleted = ?", groupID, false).First(&community).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Community not found!", nil)
		}
		groupName = community.Name
		roleFilter = "community_id = ?"
	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "groupType must be school or community!", nil)
	}

	// Expand group to distinct member ids via role rows
	var roleRows []models.UserRole
	if err := db.Where(roleFilter+" AND is_active = ? AND is_deleted = ?", groupID, true, false).
		Find(&roleRows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch group members!", nil)
	}
	memberSet := make(map[uint]bool)
	memberIDs := make([]uint, 0, len(roleRows))
	for _, r := range roleRows {
		if !memberSet[r.UserID] {
			memberSet[r.UserID] = true
			memberIDs = append(memberIDs, r.UserID)
		}
	}

	if len(memberIDs) == 0 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Group assignments fetched successfully!", fiber.Map{
			"group": fiber.Map{
				"id":          groupID,
				"name":        groupName,
				"type":        groupType,
				"memberCount": 0,
			},
			"commonAssignments": []services.GroupContentSummary{},
			"stats":             services.GroupStats{},
		})
	}

	inputs, err := fetchResolveInput(db, memberIDs)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to resolve group assignments: "+err.Error(), nil)
	}

	resolvedByMember := make(map[uint][]services.ResolvedAssignment, len(memberIDs))
	for _, uid := range memberIDs {
		result := services.ResolveUserAssignments(inputs[uid])
		resolvedByMember[uid] = result.Assignments
	}

	summaries, stats := services.AggregateGroupAssignments(resolvedByMember, len(memberIDs))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Group assignments fetched successfully!", fiber.Map{
		"group": fiber.Map{
			"id":          groupID,
			"name":        groupName,
			"type":        groupType,
			"memberCount": len(memberIDs),
		},
		"commonAssignments": summaries,
		"stats":             stats,
	})
}
