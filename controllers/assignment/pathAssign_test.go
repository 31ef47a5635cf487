package controllers

import (
	"net/http"
	"testing"
	"time"

	courseModels "lms/models/course"
	"lms/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Granting a path enrolls the user in every member course; a repeat grant skips
func TestBatchAssignPathIdempotentAndEnrollsMembers(t *testing.T) {
	db := setupTestDB(t)
	actor := seedUser(t, db, "admin@example.com")
	alice := seedUser(t, db, "alice@example.com")
	c1 := seedCourse(t, db, "Intro to Algebra", 10)
	c2 := seedCourse(t, db, "Geometry Basics", 8)
	path := seedPath(t, db, "Math Foundations", c1.ID, c2.ID)
	app := newTestApp(actor.ID)

	body := map[string]interface{}{"pathId": path.ID, "userIds": []uint{alice.ID}}

	status, envelope := doRequest(t, app, http.MethodPost, "/learning-paths/batch-assign", body)
	require.Equal(t, http.StatusOK, status)
	data := envelopeData(t, envelope)
	assert.Equal(t, 1, dataInt(t, data, "assigned"))

	assert.EqualValues(t, 2, liveCount(t, db, &courseModels.Enrollment{},
		"user_id = ? AND is_deleted = ?", alice.ID, false))

	status, envelope = doRequest(t, app, http.MethodPost, "/learning-paths/batch-assign", body)
	require.Equal(t, http.StatusOK, status)
	data = envelopeData(t, envelope)
	assert.Equal(t, 0, dataInt(t, data, "assigned"))
	assert.Equal(t, 1, dataInt(t, data, "skipped"))

	assert.EqualValues(t, 1, liveCount(t, db, &courseModels.LearningPathAssignment{},
		"learning_path_id = ? AND user_id = ? AND is_deleted = ?", path.ID, alice.ID, false))
	assert.EqualValues(t, 2, liveCount(t, db, &courseModels.Enrollment{},
		"user_id = ? AND is_deleted = ?", alice.ID, false))
}

// One live path grant per (path, user), enforced by the storage layer
func TestPathAssignmentOneLiveGrantPerPair(t *testing.T) {
	db := setupTestDB(t)

	first := courseModels.LearningPathAssignment{LearningPathID: 1, UserID: 2, AssignedAt: time.Now()}
	require.NoError(t, db.Create(&first).Error)

	dup := courseModels.LearningPathAssignment{LearningPathID: 1, UserID: 2, AssignedAt: time.Now()}
	assert.Error(t, db.Create(&dup).Error)

	require.NoError(t, db.Model(&first).Update("is_deleted", true).Error)
	again := courseModels.LearningPathAssignment{LearningPathID: 1, UserID: 2, AssignedAt: time.Now()}
	assert.NoError(t, db.Create(&again).Error)
}

func TestBatchAssignPathNotFound(t *testing.T) {
	db := setupTestDB(t)
	actor := seedUser(t, db, "admin@example.com")
	app := newTestApp(actor.ID)

	status, _ := doRequest(t, app, http.MethodPost, "/learning-paths/batch-assign",
		map[string]interface{}{"pathId": 9999, "userIds": []uint{actor.ID}})
	assert.Equal(t, http.StatusNotFound, status)
}

// Removing a path assignment keeps the member-course enrollments: progress
// history survives and nothing cascades.
func TestUnassignPathKeepsEnrollments(t *testing.T) {
	db := setupTestDB(t)
	actor := seedUser(t, db, "admin@example.com")
	alice := seedUser(t, db, "alice@example.com")
	c1 := seedCourse(t, db, "Intro to Algebra", 10)
	path := seedPath(t, db, "Math Foundations", c1.ID)
	app := newTestApp(actor.ID)

	status, _ := doRequest(t, app, http.MethodPost, "/learning-paths/batch-assign",
		map[string]interface{}{"pathId": path.ID, "userIds": []uint{alice.ID}})
	require.Equal(t, http.StatusOK, status)

	status, envelope := doRequest(t, app, http.MethodDelete, "/learning-paths/unassign",
		map[string]interface{}{"pathId": path.ID, "userId": alice.ID})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, dataInt(t, envelopeData(t, envelope), "unassigned_count"))

	assert.EqualValues(t, 0, liveCount(t, db, &courseModels.LearningPathAssignment{},
		"user_id = ? AND is_deleted = ?", alice.ID, false))
	assert.EqualValues(t, 1, liveCount(t, db, &courseModels.Enrollment{},
		"user_id = ? AND is_deleted = ?", alice.ID, false))

	// After removal the course resolves as enrollment-only
	result, err := resolveForUser(db, alice.ID)
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)
	assert.Equal(t, services.SourceInferredOther, result.Assignments[0].Source)

	// A second removal finds nothing to remove
	status, _ = doRequest(t, app, http.MethodDelete, "/learning-paths/unassign",
		map[string]interface{}{"pathId": path.ID, "userId": alice.ID})
	assert.Equal(t, http.StatusNotFound, status)
}
