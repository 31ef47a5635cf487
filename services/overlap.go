package services

import (
	"fmt"
	"strings"
)

// OverlapInfo is the advisory result of an overlap check. CanProceed is
// always true: duplicates are skipped by the idempotent mutation layer, so
// the warning only helps the operator decide whether a redundant direct
// grant is still wanted (e.g. to survive a later path removal).
type OverlapInfo struct {
	HasOverlap         bool   `json:"has_overlap"`
	Message            string `json:"message"`
	CanProceed         bool   `json:"can_proceed"`
	OverlappingCourses []uint `json:"overlapping_courses"`
}

// CheckCourseOverlap reports whether assigning courseID would duplicate
// access the user already holds. Pure function of the resolved list.
func CheckCourseOverlap(resolved []ResolvedAssignment, courseID uint) OverlapInfo {
	info := OverlapInfo{CanProceed: true, OverlappingCourses: []uint{}}

	for _, rec := range resolved {
		if rec.Type != ContentTypeCourse || rec.ContentID != courseID {
			continue
		}
		info.HasOverlap = true
		info.OverlappingCourses = append(info.OverlappingCourses, courseID)

		switch rec.Source {
		case SourceDirectOnly:
			info.Message = fmt.Sprintf("User already has %q via direct assignment.", rec.ContentTitle)
		case SourcePathOnly:
			info.Message = fmt.Sprintf("User already has %q via %s. A direct assignment would survive removal of the path.",
				rec.ContentTitle, pathList(rec.SourceLPNames))
		case SourceDirectAndPath:
			info.Message = fmt.Sprintf("User already has %q via direct assignment and %s.",
				rec.ContentTitle, pathList(rec.SourceLPNames))
		case SourceInferredOther:
			info.Message = fmt.Sprintf("User is already enrolled in %q without an assignment record. Assigning will attach provenance to the existing enrollment.",
				rec.ContentTitle)
		default:
			info.Message = fmt.Sprintf("User already has %q.", rec.ContentTitle)
		}
		return info
	}

	return info
}

// CheckLPOverlap reports whether assigning the path would duplicate the path
// itself or any of its member courses. memberCourseIDs is the candidate
// path's course membership, supplied by the caller.
func CheckLPOverlap(resolved []ResolvedAssignment, pathID uint, memberCourseIDs []uint) OverlapInfo {
	info := OverlapInfo{CanProceed: true, OverlappingCourses: []uint{}}

	for _, rec := range resolved {
		if rec.Type == ContentTypeLearningPath && rec.ContentID == pathID {
			info.HasOverlap = true
			info.Message = fmt.Sprintf("User is already assigned the path %q.", rec.ContentTitle)
			return info
		}
	}

	held := make(map[uint]string)
	for _, rec := range resolved {
		if rec.Type == ContentTypeCourse {
			held[rec.ContentID] = rec.ContentTitle
		}
	}

	var overlapTitles []string
	for _, cid := range memberCourseIDs {
		if title, ok := held[cid]; ok {
			info.OverlappingCourses = append(info.OverlappingCourses, cid)
			overlapTitles = append(overlapTitles, fmt.Sprintf("%q", title))
		}
	}

	if len(info.OverlappingCourses) > 0 {
		info.HasOverlap = true
		info.Message = fmt.Sprintf("User already has %d of the path's courses (%s). Assigning the path will not duplicate them.",
			len(info.OverlappingCourses), strings.Join(overlapTitles, ", "))
	}

	return info
}

func pathList(names []string) string {
	if len(names) == 0 {
		return "a learning path"
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	if len(quoted) == 1 {
		return "path " + quoted[0]
	}
	return "paths " + strings.Join(quoted, ", ")
}
