package services

import (
	"sort"

	courseModels "lms/models/course"
)

// GroupContentSummary is the per-content rollup of a member group
type GroupContentSummary struct {
	ContentID          uint        `json:"content_id"`
	ContentTitle       string      `json:"content_title"`
	ContentDescription string      `json:"content_description,omitempty"`
	Type               ContentType `json:"type"`
	AssignedCount      int         `json:"assigned_count"`
	CompletedCount     int         `json:"completed_count"`
	AverageProgress    int         `json:"average_progress"`
	// Coverage = assignedCount / totalMembers
	Coverage float64 `json:"coverage"`
}

// GroupStats summarises a whole group rollup
type GroupStats struct {
	TotalMembers           int `json:"totalMembers"`
	MembersWithAssignments int `json:"membersWithAssignments"`
	UniqueCourses          int `json:"uniqueCourses"`
	UniqueLPs              int `json:"uniqueLPs"`
}

// AggregateGroupAssignments reduces per-member provenance resolutions into
// per-content group statistics. It deliberately consumes the resolver's
// output rather than re-reading rows, so "assigned" means exactly the same
// thing here as in the per-user view.
func AggregateGroupAssignments(resolvedByMember map[uint][]ResolvedAssignment, totalMembers int) ([]GroupContentSummary, GroupStats) {
	type acc struct {
		summary       GroupContentSummary
		progressTotal int
		progressCount int
	}

	courseAcc := make(map[uint]*acc)
	lpAcc := make(map[uint]*acc)
	membersWithAssignments := 0

	for _, assignments := range resolvedByMember {
		if len(assignments) > 0 {
			membersWithAssignments++
		}
		for _, rec := range assignments {
			var bucket map[uint]*acc
			if rec.Type == ContentTypeLearningPath {
				bucket = lpAcc
			} else {
				bucket = courseAcc
			}

			a, ok := bucket[rec.ContentID]
			if !ok {
				a = &acc{summary: GroupContentSummary{
					ContentID:          rec.ContentID,
					ContentTitle:       rec.ContentTitle,
					ContentDescription: rec.ContentDescription,
					Type:               rec.Type,
				}}
				bucket[rec.ContentID] = a
			}

			a.summary.AssignedCount++
			switch rec.Type {
			case ContentTypeCourse:
				if rec.TotalLessons > 0 {
					a.progressTotal += rec.Progress
					a.progressCount++
					if rec.LessonsCompleted >= rec.TotalLessons {
						a.summary.CompletedCount++
					}
				}
			case ContentTypeLearningPath:
				if rec.CourseCount > 0 && rec.CoursesCompleted >= rec.CourseCount {
					a.summary.CompletedCount++
				}
			}
		}
	}

	finalize := func(bucket map[uint]*acc) []GroupContentSummary {
		out := make([]GroupContentSummary, 0, len(bucket))
		for _, a := range bucket {
			if a.progressCount > 0 {
				a.summary.AverageProgress = a.progressTotal / a.progressCount
			}
			if totalMembers > 0 {
				a.summary.Coverage = float64(a.summary.AssignedCount) / float64(totalMembers)
			}
			out = append(out, a.summary)
		}
		return out
	}

	summaries := append(finalize(courseAcc), finalize(lpAcc)...)
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].AssignedCount == summaries[j].AssignedCount {
			return summaries[i].ContentID < summaries[j].ContentID
		}
		return summaries[i].AssignedCount > summaries[j].AssignedCount
	})

	stats := GroupStats{
		TotalMembers:           totalMembers,
		MembersWithAssignments: membersWithAssignments,
		UniqueCourses:          len(courseAcc),
		UniqueLPs:              len(lpAcc),
	}
	return summaries, stats
}

// CourseContentStats is the content-batch view of one course. Direct and
// path-derived assignee counts are reported independently, never summed: a
// user can appear in both, and a naive total would overstate unique reach.
type CourseContentStats struct {
	CourseID            uint   `json:"course_id"`
	Title               string `json:"title"`
	DirectAssigneeCount int    `json:"direct_assignee_count"`
	LPAssigneeCount     int    `json:"lp_assignee_count"`
	EnrolledCount       int    `json:"enrolled_count"`
	CompletedCount      int    `json:"completed_count"`
	AverageProgress     int    `json:"average_progress"`
}

// PathContentStats is the content-batch view of one learning path
type PathContentStats struct {
	PathID        uint   `json:"path_id"`
	Name          string `json:"name"`
	AssigneeCount int    `json:"assignee_count"`
	CourseCount   int    `json:"course_count"`
}

// BuildCourseContentStats computes per-course assignee statistics across all
// users from raw live rows.
func BuildCourseContentStats(
	courses []courseModels.Course,
	direct []courseModels.CourseAssignment,
	pathAssignments []courseModels.LearningPathAssignment,
	pathCourses []courseModels.LearningPathCourse,
	enrollments []courseModels.Enrollment,
) []CourseContentStats {
	directUsers := make(map[uint]map[uint]bool) // courseID -> set of user ids
	for _, da := range direct {
		if directUsers[da.CourseID] == nil {
			directUsers[da.CourseID] = make(map[uint]bool)
		}
		directUsers[da.CourseID][da.UserID] = true
	}

	// Users holding each path, then expand through path membership
	usersByPath := make(map[uint]map[uint]bool)
	for _, pa := range pathAssignments {
		if usersByPath[pa.LearningPathID] == nil {
			usersByPath[pa.LearningPathID] = make(map[uint]bool)
		}
		usersByPath[pa.LearningPathID][pa.UserID] = true
	}
	lpUsers := make(map[uint]map[uint]bool) // courseID -> set of user ids via paths
	for _, pc := range pathCourses {
		holders := usersByPath[pc.LearningPathID]
		if len(holders) == 0 {
			continue
		}
		if lpUsers[pc.CourseID] == nil {
			lpUsers[pc.CourseID] = make(map[uint]bool)
		}
		for uid := range holders {
			lpUsers[pc.CourseID][uid] = true
		}
	}

	type progressAcc struct {
		enrolled, completed, total, count int
	}
	progressByCourse := make(map[uint]*progressAcc)
	for _, e := range enrollments {
		a := progressByCourse[e.CourseID]
		if a == nil {
			a = &progressAcc{}
			progressByCourse[e.CourseID] = a
		}
		a.enrolled++
		if e.TotalLessons > 0 {
			a.total += courseProgress(e.LessonsCompleted, e.TotalLessons)
			a.count++
			if e.IsComplete() {
				a.completed++
			}
		}
	}

	stats := make([]CourseContentStats, 0, len(courses))
	for _, c := range courses {
		s := CourseContentStats{
			CourseID:            c.ID,
			Title:               c.Title,
			DirectAssigneeCount: len(directUsers[c.ID]),
			LPAssigneeCount:     len(lpUsers[c.ID]),
		}
		if a, ok := progressByCourse[c.ID]; ok {
			s.EnrolledCount = a.enrolled
			s.CompletedCount = a.completed
			if a.count > 0 {
				s.AverageProgress = a.total / a.count
			}
		}
		stats = append(stats, s)
	}
	return stats
}

// BuildPathContentStats computes per-path assignee statistics
func BuildPathContentStats(
	paths []courseModels.LearningPath,
	pathAssignments []courseModels.LearningPathAssignment,
	pathCourses []courseModels.LearningPathCourse,
) []PathContentStats {
	usersByPath := make(map[uint]map[uint]bool)
	for _, pa := range pathAssignments {
		if usersByPath[pa.LearningPathID] == nil {
			usersByPath[pa.LearningPathID] = make(map[uint]bool)
		}
		usersByPath[pa.LearningPathID][pa.UserID] = true
	}
	coursesByPath := make(map[uint]int)
	for _, pc := range pathCourses {
		coursesByPath[pc.LearningPathID]++
	}

	stats := make([]PathContentStats, 0, len(paths))
	for _, p := range paths {
		stats = append(stats, PathContentStats{
			PathID:        p.ID,
			Name:          p.Name,
			AssigneeCount: len(usersByPath[p.ID]),
			CourseCount:   coursesByPath[p.ID],
		})
	}
	return stats
}
