package services

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateGroupAssignments(t *testing.T) {
	resolvedByMember := map[uint][]ResolvedAssignment{
		1: {
			{Type: ContentTypeCourse, ContentID: 1, ContentTitle: "Intro to Algebra", Source: SourceDirectOnly, Progress: 100, LessonsCompleted: 10, TotalLessons: 10},
			{Type: ContentTypeCourse, ContentID: 2, ContentTitle: "Geometry Basics", Source: SourcePathOnly, Progress: 50, LessonsCompleted: 4, TotalLessons: 8},
			{Type: ContentTypeLearningPath, ContentID: 10, ContentTitle: "Math Foundations", Source: SourcePathOnly, CourseCount: 2, CoursesCompleted: 2},
		},
		2: {
			{Type: ContentTypeCourse, ContentID: 1, ContentTitle: "Intro to Algebra", Source: SourceInferredOther, Progress: 0, LessonsCompleted: 0, TotalLessons: 10},
		},
		3: {}, // member with nothing assigned
	}

	summaries, stats := AggregateGroupAssignments(resolvedByMember, 4)

	assert.Equal(t, 4, stats.TotalMembers)
	assert.Equal(t, 2, stats.MembersWithAssignments)
	assert.Equal(t, 2, stats.UniqueCourses)
	assert.Equal(t, 1, stats.UniqueLPs)

	require.Len(t, summaries, 3)
	// Sorted by assigned count, most-held first
	assert.Equal(t, uint(1), summaries[0].ContentID)
	assert.Equal(t, 2, summaries[0].AssignedCount)
	assert.Equal(t, 1, summaries[0].CompletedCount)
	assert.Equal(t, 50, summaries[0].AverageProgress)
	assert.InDelta(t, 0.5, summaries[0].Coverage, 0.001)

	var lp *GroupContentSummary
	for i := range summaries {
		if summaries[i].Type == ContentTypeLearningPath {
			lp = &summaries[i]
		}
	}
	require.NotNil(t, lp)
	assert.Equal(t, 1, lp.AssignedCount)
	assert.Equal(t, 1, lp.CompletedCount)
}

func TestAggregateGroupAssignmentsEmptyGroup(t *testing.T) {
	summaries, stats := AggregateGroupAssignments(map[uint][]ResolvedAssignment{}, 0)

	assert.Empty(t, summaries)
	assert.Equal(t, 0, stats.TotalMembers)
	assert.Equal(t, 0, stats.MembersWithAssignments)
}

// Direct and path-derived assignee counts stay separate: a user reached both
// ways counts once on each side and is never summed into a combined total.
func TestBuildCourseContentStatsSeparateCounts(t *testing.T) {
	courses := []courseModels.Course{
		{Model: withID(1), Title: "Intro to Algebra", TotalLessons: 10},
		{Model: withID(2), Title: "Geometry Basics", TotalLessons: 8},
	}
	direct := []courseModels.CourseAssignment{
		{CourseID: 1, UserID: 7},
		{CourseID: 1, UserID: 8},
	}
	pathAssignments := []courseModels.LearningPathAssignment{
		{LearningPathID: 10, UserID: 7}, // user 7 also holds course 1 directly
		{LearningPathID: 10, UserID: 9},
	}
	pathCourses := []courseModels.LearningPathCourse{
		{LearningPathID: 10, CourseID: 1},
		{LearningPathID: 10, CourseID: 2},
	}
	enrollments := []courseModels.Enrollment{
		{UserID: 7, CourseID: 1, LessonsCompleted: 10, TotalLessons: 10},
		{UserID: 8, CourseID: 1, LessonsCompleted: 5, TotalLessons: 10},
	}

	stats := BuildCourseContentStats(courses, direct, pathAssignments, pathCourses, enrollments)

	require.Len(t, stats, 2)
	c1 := stats[0]
	assert.Equal(t, 2, c1.DirectAssigneeCount)
	assert.Equal(t, 2, c1.LPAssigneeCount) // users 7 and 9 via the path
	assert.Equal(t, 2, c1.EnrolledCount)
	assert.Equal(t, 1, c1.CompletedCount)
	assert.Equal(t, 75, c1.AverageProgress)

	c2 := stats[1]
	assert.Equal(t, 0, c2.DirectAssigneeCount)
	assert.Equal(t, 2, c2.LPAssigneeCount)
	assert.Equal(t, 0, c2.EnrolledCount)
}

// Zero-lesson enrollments are excluded from averages but still counted as enrolled
func TestBuildCourseContentStatsZeroLessonCourse(t *testing.T) {
	courses := []courseModels.Course{{Model: withID(3), Title: "Statistics", TotalLessons: 0}}
	enrollments := []courseModels.Enrollment{
		{UserID: 7, CourseID: 3, LessonsCompleted: 0, TotalLessons: 0},
	}

	stats := BuildCourseContentStats(courses, nil, nil, nil, enrollments)

	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].EnrolledCount)
	assert.Equal(t, 0, stats[0].CompletedCount)
	assert.Equal(t, 0, stats[0].AverageProgress)
}

func TestBuildPathContentStats(t *testing.T) {
	paths := []courseModels.LearningPath{
		{Model: withID(10), Name: "Math Foundations"},
		{Model: withID(11), Name: "Empty Path"},
	}
	pathAssignments := []courseModels.LearningPathAssignment{
		{LearningPathID: 10, UserID: 7},
		{LearningPathID: 10, UserID: 7}, // duplicate grant, one assignee
		{LearningPathID: 10, UserID: 8},
	}
	pathCourses := []courseModels.LearningPathCourse{
		{LearningPathID: 10, CourseID: 1},
		{LearningPathID: 10, CourseID: 2},
	}

	stats := BuildPathContentStats(paths, pathAssignments, pathCourses)

	require.Len(t, stats, 2)
	assert.Equal(t, 2, stats[0].AssigneeCount)
	assert.Equal(t, 2, stats[0].CourseCount)
	assert.Equal(t, 0, stats[1].AssigneeCount)
	assert.Equal(t, 0, stats[1].CourseCount)
}
