package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	validators "lms/validators/assignment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database, runs the migrations and
// installs it as the global instance the controllers read.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.School{},
		&models.Community{},
		&models.AuditLog{},
		&courseModels.Course{},
		&courseModels.LearningPath{},
		&courseModels.LearningPathCourse{},
		&courseModels.CourseAssignment{},
		&courseModels.LearningPathAssignment{},
		&courseModels.Enrollment{},
	))

	database.Database = database.DbInstance{Db: db}
	config.AppConfig = &config.Config{Port: "3000", JWTKey: "test-secret", SaltRound: 10}
	return db
}

// newTestApp mounts the assignment routes behind a stub auth middleware that
// injects the acting user id, so the handlers run exactly as in production
// minus the JWT parsing.
func newTestApp(actorID uint) *fiber.App {
	app := fiber.New()
	auth := func(c *fiber.Ctx) error {
		c.Locals("userId", actorID)
		return c.Next()
	}

	app.Get("/assignment-matrix/user-assignments", auth, validators.UserAssignmentsQuery(), GetUserAssignments)
	app.Get("/assignment-matrix/overlap-check", auth, validators.OverlapQuery(), CheckOverlap)
	app.Get("/assignment-matrix/content-stats", auth, validators.ContentStatsQuery(), GetContentStats)
	app.Post("/courses/batch-assign", auth, validators.BatchCourseBody(), BatchAssignCourse)
	app.Delete("/courses/unassign", auth, validators.BatchCourseBody(), BatchUnassignCourse)
	app.Post("/learning-paths/batch-assign", auth, validators.BatchPathBody(), BatchAssignPath)
	app.Delete("/learning-paths/unassign", auth, validators.PathUnassignBody(), UnassignPath)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

func envelopeData(t *testing.T, envelope map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "response data is not an object: %v", envelope)
	return data
}

func dataInt(t *testing.T, data map[string]interface{}, key string) int {
	t.Helper()
	v, ok := data[key].(float64)
	require.True(t, ok, "missing numeric field %q: %v", key, data)
	return int(v)
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	u := models.User{FirstName: "Test", LastName: "User", Email: email, Password: "hashed"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedCourse(t *testing.T, db *gorm.DB, title string, totalLessons int) courseModels.Course {
	t.Helper()
	c := courseModels.Course{Title: title, TotalLessons: totalLessons, IsPublished: true}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func seedPath(t *testing.T, db *gorm.DB, name string, courseIDs ...uint) courseModels.LearningPath {
	t.Helper()
	p := courseModels.LearningPath{Name: name}
	require.NoError(t, db.Create(&p).Error)
	for i, cid := range courseIDs {
		pc := courseModels.LearningPathCourse{LearningPathID: p.ID, CourseID: cid, Position: i}
		require.NoError(t, db.Create(&pc).Error)
	}
	return p
}

func seedPathAssignment(t *testing.T, db *gorm.DB, pathID, userID, assignedBy uint) courseModels.LearningPathAssignment {
	t.Helper()
	pa := courseModels.LearningPathAssignment{
		LearningPathID: pathID,
		UserID:         userID,
		AssignedBy:     assignedBy,
		AssignedAt:     time.Now(),
	}
	require.NoError(t, db.Create(&pa).Error)
	return pa
}

func liveCount(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
