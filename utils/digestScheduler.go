package utils

import (
	"log"
	"strconv"
	"time"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// logDigest logs digest scheduler events with timestamp
func logDigest(message string) {
	log.Printf("[DIGEST-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartDigestScheduler runs the weekly incomplete-assignment digest.
// Monday 08:00 server time.
func StartDigestScheduler() {
	c := cron.New()

	_, err := c.AddFunc("0 8 * * MON", func() {
		sendWeeklyDigests()
	})
	if err != nil {
		logDigest("Failed to register digest job: " + err.Error())
		return
	}

	c.Start()
	logDigest("Weekly digest scheduler started")
}

// sendWeeklyDigests mails every user who has assigned courses still in
// progress. Only courses with an assignment row (direct or via a path) are
// included; bare enrollments are not nagged about.
func sendWeeklyDigests() {
	db := database.Database.Db
	weekStart := now.BeginningOfWeek()
	logDigest("Building digests for week starting " + weekStart.Format("2006-01-02"))

	var direct []courseModels.CourseAssignment
	if err := db.Where("is_deleted = ?", false).Find(&direct).Error; err != nil {
		logDigest("Error fetching course assignments: " + err.Error())
		return
	}

	var pathAssignments []courseModels.LearningPathAssignment
	if err := db.Where("is_deleted = ?", false).Find(&pathAssignments).Error; err != nil {
		logDigest("Error fetching path assignments: " + err.Error())
		return
	}

	var pathCourses []courseModels.LearningPathCourse
	if err := db.Where("is_deleted = ?", false).Find(&pathCourses).Error; err != nil {
		logDigest("Error fetching path courses: " + err.Error())
		return
	}

	// courseID set per user across both assignment mechanisms
	assignedCourses := make(map[uint]map[uint]bool)
	addCourse := func(userID, courseID uint) {
		if assignedCourses[userID] == nil {
			assignedCourses[userID] = make(map[uint]bool)
		}
		assignedCourses[userID][courseID] = true
	}
	for _, da := range direct {
		addCourse(da.UserID, da.CourseID)
	}
	coursesByPath := make(map[uint][]uint)
	for _, pc := range pathCourses {
		coursesByPath[pc.LearningPathID] = append(coursesByPath[pc.LearningPathID], pc.CourseID)
	}
	for _, pa := range pathAssignments {
		for _, cid := range coursesByPath[pa.LearningPathID] {
			addCourse(pa.UserID, cid)
		}
	}

	digestsSent := 0
	for userID, courseSet := range assignedCourses {
		var enrollments []courseModels.Enrollment
		if err := db.Where("user_id = ? AND is_deleted = ?", userID, false).Find(&enrollments).Error; err != nil {
			logDigest("Error fetching enrollments: " + err.Error())
			continue
		}
		enrollByCourse := make(map[uint]courseModels.Enrollment)
		for _, e := range enrollments {
			enrollByCourse[e.CourseID] = e
		}

		var pendingIDs []uint
		for cid := range courseSet {
			if e, ok := enrollByCourse[cid]; ok && e.IsComplete() {
				continue
			}
			pendingIDs = append(pendingIDs, cid)
		}
		if len(pendingIDs) == 0 {
			continue
		}

		var user models.User
		if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
			continue
		}

		var courses []courseModels.Course
		if err := db.Where("id IN ? AND is_deleted = ?", pendingIDs, false).Find(&courses).Error; err != nil {
			continue
		}
		titles := make([]string, 0, len(courses))
		for _, c := range courses {
			titles = append(titles, c.Title)
		}
		if len(titles) == 0 {
			continue
		}

		go SendWeeklyDigestEmail(user.Email, user.FullName(), titles)
		digestsSent++
	}

	logDigest("Digest run complete, users notified: " + strconv.Itoa(digestsSent))
}
