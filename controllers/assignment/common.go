package controllers

import (
	"lms/models"
	courseModels "lms/models/course"
	"lms/services"

	"gorm.io/gorm"
)

// fetchResolveInput gathers the three evidence sources for a set of users
// plus the joined content/profile rows the resolver needs. The three source
// reads are issued independently (no shared snapshot); the transient
// inconsistency window this opens is an accepted trade-off, callers refresh
// after mutations. Path membership and profile joins are batched with IN
// lookups, never per-row.
func fetchResolveInput(db *gorm.DB, userIDs []uint) (map[uint]services.ResolveInput, error) {
	var enrollments []courseModels.Enrollment
	if err := db.Where("user_id IN ? AND is_deleted = ?", userIDs, false).
		Order("id asc").Find(&enrollments).Error; err != nil {
		return nil, err
	}

	var direct []courseModels.CourseAssignment
	if err := db.Where("user_id IN ? AND is_deleted = ?", userIDs, false).
		Order("id asc").Find(&direct).Error; err != nil {
		return nil, err
	}

	var pathAssignments []courseModels.LearningPathAssignment
	if err := db.Where("user_id IN ? AND is_deleted = ?", userIDs, false).
		Order("id asc").Find(&pathAssignments).Error; err != nil {
		return nil, err
	}

	// One batched membership lookup for every assigned path
	pathIDSet := make(map[uint]bool)
	for _, pa := range pathAssignments {
		pathIDSet[pa.LearningPathID] = true
	}
	var pathCourses []courseModels.LearningPathCourse
	if len(pathIDSet) > 0 {
		pathIDs := keys(pathIDSet)
		if err := db.Where("learning_path_id IN ? AND is_deleted = ?", pathIDs, false).
			Order("learning_path_id asc, position asc").Find(&pathCourses).Error; err != nil {
			return nil, err
		}
	}

	// Content joins
	courseIDSet := make(map[uint]bool)
	for _, e := range enrollments {
		courseIDSet[e.CourseID] = true
	}
	for _, da := range direct {
		courseIDSet[da.CourseID] = true
	}
	for _, pc := range pathCourses {
		courseIDSet[pc.CourseID] = true
	}
	courses := make(map[uint]courseModels.Course)
	if len(courseIDSet) > 0 {
		var rows []courseModels.Course
		if err := db.Where("id IN ?", keys(courseIDSet)).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, c := range rows {
			courses[c.ID] = c
		}
	}

	paths := make(map[uint]courseModels.LearningPath)
	if len(pathIDSet) > 0 {
		var rows []courseModels.LearningPath
		if err := db.Where("id IN ?", keys(pathIDSet)).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, p := range rows {
			paths[p.ID] = p
		}
	}

	// Assigner profiles; a missing profile degrades to a placeholder name
	// inside the resolver instead of failing the resolution
	assignerIDSet := make(map[uint]bool)
	for _, da := range direct {
		if da.AssignedBy != 0 {
			assignerIDSet[da.AssignedBy] = true
		}
	}
	for _, pa := range pathAssignments {
		if pa.AssignedBy != 0 {
			assignerIDSet[pa.AssignedBy] = true
		}
	}
	assignerNames := make(map[uint]string)
	if len(assignerIDSet) > 0 {
		var assigners []models.User
		if err := db.Where("id IN ?", keys(assignerIDSet)).Find(&assigners).Error; err != nil {
			return nil, err
		}
		for _, u := range assigners {
			assignerNames[u.ID] = u.FullName()
		}
	}

	// Split rows per user
	inputs := make(map[uint]services.ResolveInput, len(userIDs))
	for _, uid := range userIDs {
		inputs[uid] = services.ResolveInput{
			Courses:       courses,
			Paths:         paths,
			AssignerNames: assignerNames,
		}
	}
	for _, e := range enrollments {
		in := inputs[e.UserID]
		in.Enrollments = append(in.Enrollments, e)
		inputs[e.UserID] = in
	}
	for _, da := range direct {
		in := inputs[da.UserID]
		in.DirectAssignments = append(in.DirectAssignments, da)
		inputs[da.UserID] = in
	}
	pathCoursesByPath := make(map[uint][]courseModels.LearningPathCourse)
	for _, pc := range pathCourses {
		pathCoursesByPath[pc.LearningPathID] = append(pathCoursesByPath[pc.LearningPathID], pc)
	}
	for _, pa := range pathAssignments {
		in := inputs[pa.UserID]
		in.PathAssignments = append(in.PathAssignments, pa)
		in.PathCourses = appendMissingPathCourses(in.PathCourses, pathCoursesByPath[pa.LearningPathID])
		inputs[pa.UserID] = in
	}

	return inputs, nil
}

// resolveForUser is the single-user convenience wrapper
func resolveForUser(db *gorm.DB, userID uint) (services.ResolveResult, error) {
	inputs, err := fetchResolveInput(db, []uint{userID})
	if err != nil {
		return services.ResolveResult{}, err
	}
	return services.ResolveUserAssignments(inputs[userID]), nil
}

func appendMissingPathCourses(existing, add []courseModels.LearningPathCourse) []courseModels.LearningPathCourse {
	seen := make(map[uint]bool, len(existing))
	for _, pc := range existing {
		seen[pc.ID] = true
	}
	for _, pc := range add {
		if !seen[pc.ID] {
			existing = append(existing, pc)
		}
	}
	return existing
}

func keys(set map[uint]bool) []uint {
	out := make([]uint, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
