package services

import (
	"log"
	"sort"
	"time"

	courseModels "lms/models/course"
)

// AssignmentSource classifies how a user came to hold a piece of content.
// The set is closed: the resolver never emits anything outside these four.
type AssignmentSource string

const (
	SourceDirectOnly    AssignmentSource = "direct_only"
	SourcePathOnly      AssignmentSource = "path_only"
	SourceDirectAndPath AssignmentSource = "direct_and_path"
	SourceInferredOther AssignmentSource = "inferred_other" // enrollment with no assignment evidence
)

// ContentType distinguishes the two resolvable content kinds
type ContentType string

const (
	ContentTypeCourse       ContentType = "course"
	ContentTypeLearningPath ContentType = "learning_path"
)

// Label returns the operator-facing description of a source tag.
// The switch is exhaustive over the closed set; an unrecognised tag is
// reported loudly instead of being passed through.
func (s AssignmentSource) Label() string {
	switch s {
	case SourceDirectOnly:
		return "Direct assignment"
	case SourcePathOnly:
		return "Via learning path"
	case SourceDirectAndPath:
		return "Direct + learning path"
	case SourceInferredOther:
		return "Enrollment only (origin unknown)"
	default:
		log.Printf("[PROVENANCE] unrecognised assignment source %q", string(s))
		return "Unknown source"
	}
}

// UnknownAssignerName is used when the assigner's profile cannot be joined
const UnknownAssignerName = "Unknown user"

// ResolveInput carries the pre-fetched rows the resolver works on.
// All slices must already be filtered to live rows for one user.
type ResolveInput struct {
	Enrollments       []courseModels.Enrollment
	DirectAssignments []courseModels.CourseAssignment
	PathAssignments   []courseModels.LearningPathAssignment
	// Member courses of every assigned path (one batched lookup, never per path)
	PathCourses []courseModels.LearningPathCourse

	Courses       map[uint]courseModels.Course
	Paths         map[uint]courseModels.LearningPath
	AssignerNames map[uint]string
}

// ResolvedAssignment is one provenance record per (content item, user)
type ResolvedAssignment struct {
	ID                 uint             `json:"id"`
	Type               ContentType      `json:"type"`
	ContentID          uint             `json:"content_id"`
	ContentTitle       string           `json:"content_title"`
	ContentDescription string           `json:"content_description,omitempty"`
	ContentThumbnail   string           `json:"content_thumbnail,omitempty"`
	AssignedBy         *uint            `json:"assigned_by"`
	AssignedByName     string           `json:"assigned_by_name,omitempty"`
	AssignedAt         *time.Time       `json:"assigned_at"`
	Source             AssignmentSource `json:"source"`
	SourceLabel        string           `json:"source_label"`
	SourceLPIDs        []uint           `json:"source_lp_ids"`
	SourceLPNames      []string         `json:"source_lp_names"`

	// Course records
	Progress         int `json:"progress"`
	LessonsCompleted int `json:"lessons_completed"`
	TotalLessons     int `json:"total_lessons"`

	// Learning path records
	CourseCount      int `json:"course_count"`
	CoursesCompleted int `json:"courses_completed"`
}

// ResolveStats summarises a resolved assignment set
type ResolveStats struct {
	TotalCourses       int `json:"totalCourses"`
	TotalLPs           int `json:"totalLPs"`
	OverlappingCourses int `json:"overlappingCourses"`
}

// ResolveResult is the full output of a provenance resolution
type ResolveResult struct {
	Assignments []ResolvedAssignment `json:"assignments"`
	Stats       ResolveStats         `json:"stats"`
}

type pathRef struct {
	pathID   uint
	pathName string
}

// ResolveUserAssignments reconciles the three evidence sources into one
// deduplicated provenance view. It is a pure function of its input: course
// records are emitted for the union of distinct course ids across
// enrollments, direct assignments and member courses of assigned paths, so
// enrollment evidence is never dropped and a direct grant without an
// enrollment still shows up (with zero progress).
func ResolveUserAssignments(input ResolveInput) ResolveResult {
	// Lookup indices
	enrollByCourse := make(map[uint]courseModels.Enrollment)
	for _, e := range input.Enrollments {
		if _, seen := enrollByCourse[e.CourseID]; !seen {
			enrollByCourse[e.CourseID] = e
		}
	}

	directByCourse := make(map[uint]courseModels.CourseAssignment)
	for _, da := range input.DirectAssignments {
		if _, seen := directByCourse[da.CourseID]; !seen {
			directByCourse[da.CourseID] = da
		}
	}

	// Keep exactly one path assignment per distinct path: a user may hold
	// conceptually repeated grants, the resolver emits one record per path.
	pathAssignByPath := make(map[uint]courseModels.LearningPathAssignment)
	pathOrder := make([]uint, 0, len(input.PathAssignments))
	for _, pa := range input.PathAssignments {
		if _, seen := pathAssignByPath[pa.LearningPathID]; !seen {
			pathAssignByPath[pa.LearningPathID] = pa
			pathOrder = append(pathOrder, pa.LearningPathID)
		}
	}

	// courseID -> all contributing paths (a course can sit in several paths)
	pathsByCourse := make(map[uint][]pathRef)
	memberCoursesByPath := make(map[uint][]uint)
	for _, pc := range input.PathCourses {
		if _, assigned := pathAssignByPath[pc.LearningPathID]; !assigned {
			continue
		}
		name := "Untitled path"
		if p, ok := input.Paths[pc.LearningPathID]; ok && p.Name != "" {
			name = p.Name
		}
		pathsByCourse[pc.CourseID] = append(pathsByCourse[pc.CourseID], pathRef{pc.LearningPathID, name})
		memberCoursesByPath[pc.LearningPathID] = append(memberCoursesByPath[pc.LearningPathID], pc.CourseID)
	}

	// Union of course ids, first-seen order: enrollments, then direct
	// assignments, then path member courses. Deterministic for a given input.
	courseIDs := make([]uint, 0, len(input.Enrollments))
	seen := make(map[uint]bool)
	for _, e := range input.Enrollments {
		if !seen[e.CourseID] {
			seen[e.CourseID] = true
			courseIDs = append(courseIDs, e.CourseID)
		}
	}
	for _, da := range input.DirectAssignments {
		if !seen[da.CourseID] {
			seen[da.CourseID] = true
			courseIDs = append(courseIDs, da.CourseID)
		}
	}
	for _, pathID := range pathOrder {
		for _, cid := range memberCoursesByPath[pathID] {
			if !seen[cid] {
				seen[cid] = true
				courseIDs = append(courseIDs, cid)
			}
		}
	}

	assignments := make([]ResolvedAssignment, 0, len(courseIDs)+len(pathOrder))
	overlapping := 0

	for _, courseID := range courseIDs {
		direct, hasDirect := directByCourse[courseID]
		lpSources := pathsByCourse[courseID]
		hasLP := len(lpSources) > 0
		enrollment, hasEnrollment := enrollByCourse[courseID]

		var source AssignmentSource
		switch {
		case hasDirect && hasLP:
			source = SourceDirectAndPath
			overlapping++
		case hasDirect:
			source = SourceDirectOnly
		case hasLP:
			source = SourcePathOnly
		default:
			source = SourceInferredOther
		}

		rec := ResolvedAssignment{
			Type:          ContentTypeCourse,
			ContentID:     courseID,
			ContentTitle:  "Unknown course",
			Source:        source,
			SourceLabel:   source.Label(),
			SourceLPIDs:   make([]uint, 0, len(lpSources)),
			SourceLPNames: make([]string, 0, len(lpSources)),
		}
		for _, ref := range lpSources {
			rec.SourceLPIDs = append(rec.SourceLPIDs, ref.pathID)
			rec.SourceLPNames = append(rec.SourceLPNames, ref.pathName)
		}
		if c, ok := input.Courses[courseID]; ok {
			rec.ContentTitle = c.Title
			rec.ContentDescription = c.Description
			rec.ContentThumbnail = c.ThumbnailURL
		}

		// Attribution: direct assignment is the most authoritative source;
		// otherwise the contributing path assignment with the earliest
		// assigned_at wins (ties broken by lowest path id).
		if hasDirect {
			rec.ID = direct.ID
			assignedBy := direct.AssignedBy
			assignedAt := direct.AssignedAt
			rec.AssignedBy = &assignedBy
			rec.AssignedAt = &assignedAt
			rec.AssignedByName = assignerName(input.AssignerNames, assignedBy)
		} else if hasLP {
			if pa, ok := earliestPathAssignment(lpSources, pathAssignByPath); ok {
				rec.ID = pa.ID
				assignedBy := pa.AssignedBy
				assignedAt := pa.AssignedAt
				rec.AssignedBy = &assignedBy
				rec.AssignedAt = &assignedAt
				rec.AssignedByName = assignerName(input.AssignerNames, assignedBy)
			}
		}

		if hasEnrollment {
			rec.ID = enrollment.ID
			rec.LessonsCompleted = enrollment.LessonsCompleted
			rec.TotalLessons = enrollment.TotalLessons
			rec.Progress = courseProgress(enrollment.LessonsCompleted, enrollment.TotalLessons)
		}

		assignments = append(assignments, rec)
	}

	// Path records are independent of the course-level records. A path with
	// zero member courses is still listed so empty paths stay visible.
	for _, pathID := range pathOrder {
		pa := pathAssignByPath[pathID]

		rec := ResolvedAssignment{
			ID:           pa.ID,
			Type:         ContentTypeLearningPath,
			ContentID:    pathID,
			ContentTitle: "Untitled path",
			Source:       SourcePathOnly,
			SourceLabel:  SourcePathOnly.Label(),
			SourceLPIDs:  []uint{pathID},
		}
		if p, ok := input.Paths[pathID]; ok {
			if p.Name != "" {
				rec.ContentTitle = p.Name
			}
			rec.ContentDescription = p.Description
		}
		rec.SourceLPNames = []string{rec.ContentTitle}

		assignedBy := pa.AssignedBy
		assignedAt := pa.AssignedAt
		rec.AssignedBy = &assignedBy
		rec.AssignedAt = &assignedAt
		rec.AssignedByName = assignerName(input.AssignerNames, assignedBy)

		members := memberCoursesByPath[pathID]
		rec.CourseCount = len(members)
		for _, cid := range members {
			if e, ok := enrollByCourse[cid]; ok && e.IsComplete() {
				rec.CoursesCompleted++
			}
		}

		assignments = append(assignments, rec)
	}

	return ResolveResult{
		Assignments: assignments,
		Stats: ResolveStats{
			TotalCourses:       len(courseIDs),
			TotalLPs:           len(pathOrder),
			OverlappingCourses: overlapping,
		},
	}
}

// courseProgress returns the completion percentage, 0 when the course has no
// lessons (never a division by zero).
func courseProgress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(float64(completed) / float64(total) * 100)
	if p > 100 {
		p = 100
	}
	return p
}

func assignerName(names map[uint]string, userID uint) string {
	if userID == 0 {
		return ""
	}
	if name, ok := names[userID]; ok && name != "" {
		return name
	}
	return UnknownAssignerName
}

// earliestPathAssignment picks the contributing path assignment with the
// earliest assigned_at, ties broken by lowest path id. Deterministic
// regardless of fetch order.
func earliestPathAssignment(refs []pathRef, byPath map[uint]courseModels.LearningPathAssignment) (courseModels.LearningPathAssignment, bool) {
	candidates := make([]courseModels.LearningPathAssignment, 0, len(refs))
	for _, ref := range refs {
		if pa, ok := byPath[ref.pathID]; ok {
			candidates = append(candidates, pa)
		}
	}
	if len(candidates) == 0 {
		return courseModels.LearningPathAssignment{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].AssignedAt.Equal(candidates[j].AssignedAt) {
			return candidates[i].LearningPathID < candidates[j].LearningPathID
		}
		return candidates[i].AssignedAt.Before(candidates[j].AssignedAt)
	})
	return candidates[0], true
}
