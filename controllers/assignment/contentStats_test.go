package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsByTitle(t *testing.T, data map[string]interface{}, key, nameField string) map[string]map[string]interface{} {
	t.Helper()
	raw, ok := data[key].([]interface{})
	require.True(t, ok, "missing %q in response: %v", key, data)
	out := make(map[string]map[string]interface{}, len(raw))
	for _, item := range raw {
		entry := item.(map[string]interface{})
		out[entry[nameField].(string)] = entry
	}
	return out
}

func TestGetContentStatsCountsDirectAndPathSeparately(t *testing.T) {
	db := setupTestDB(t)
	actor := seedUser(t, db, "admin@example.com")
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	c1 := seedCourse(t, db, "Intro to Algebra", 10)
	c2 := seedCourse(t, db, "Geometry Basics", 8)
	path := seedPath(t, db, "Math Foundations", c1.ID, c2.ID)
	app := newTestApp(actor.ID)

	// Alice holds C1 directly and the whole path; Bob only the path
	status, _ := doRequest(t, app, http.MethodPost, "/courses/batch-assign",
		map[string]interface{}{"courseId": c1.ID, "userIds": []uint{alice.ID}})
	require.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, app, http.MethodPost, "/learning-paths/batch-assign",
		map[string]interface{}{"pathId": path.ID, "userIds": []uint{alice.ID, bob.ID}})
	require.Equal(t, http.StatusOK, status)

	status, envelope := doRequest(t, app, http.MethodGet, "/assignment-matrix/content-stats", nil)
	require.Equal(t, http.StatusOK, status)
	data := envelopeData(t, envelope)

	courses := statsByTitle(t, data, "courses", "title")
	require.Len(t, courses, 2)

	c1Stats := courses["Intro to Algebra"]
	assert.EqualValues(t, 1, c1Stats["direct_assignee_count"])
	assert.EqualValues(t, 2, c1Stats["lp_assignee_count"])
	assert.EqualValues(t, 2, c1Stats["enrolled_count"])

	c2Stats := courses["Geometry Basics"]
	assert.EqualValues(t, 0, c2Stats["direct_assignee_count"])
	assert.EqualValues(t, 2, c2Stats["lp_assignee_count"])

	paths := statsByTitle(t, data, "learning_paths", "name")
	require.Len(t, paths, 1)
	assert.EqualValues(t, 2, paths["Math Foundations"]["assignee_count"])
	assert.EqualValues(t, 2, paths["Math Foundations"]["course_count"])
}

func TestGetContentStatsSearchIsCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	actor := seedUser(t, db, "admin@example.com")
	seedCourse(t, db, "Intro to Algebra", 10)
	seedCourse(t, db, "Chemistry Lab", 6)
	seedPath(t, db, "Algebra Track")
	app := newTestApp(actor.ID)

	status, envelope := doRequest(t, app, http.MethodGet,
		"/assignment-matrix/content-stats?search=ALGEBRA", nil)
	require.Equal(t, http.StatusOK, status)
	data := envelopeData(t, envelope)

	courses := statsByTitle(t, data, "courses", "title")
	require.Len(t, courses, 1)
	assert.Contains(t, courses, "Intro to Algebra")

	paths := statsByTitle(t, data, "learning_paths", "name")
	require.Len(t, paths, 1)
	assert.Contains(t, paths, "Algebra Track")
}

// Paths honor the same page/limit as courses
func TestGetContentStatsPagination(t *testing.T) {
	db := setupTestDB(t)
	actor := seedUser(t, db, "admin@example.com")
	seedCourse(t, db, "Algebra", 10)
	seedCourse(t, db, "Biology", 8)
	seedCourse(t, db, "Chemistry", 6)
	seedPath(t, db, "First Track")
	seedPath(t, db, "Second Track")
	app := newTestApp(actor.ID)

	status, envelope := doRequest(t, app, http.MethodGet,
		"/assignment-matrix/content-stats?page=2&limit=1", nil)
	require.Equal(t, http.StatusOK, status)
	data := envelopeData(t, envelope)

	courses := statsByTitle(t, data, "courses", "title")
	require.Len(t, courses, 1)
	assert.Contains(t, courses, "Biology") // second by title

	paths := statsByTitle(t, data, "learning_paths", "name")
	require.Len(t, paths, 1)
	assert.Contains(t, paths, "Second Track") // second by name

	pagination := data["pagination"].(map[string]interface{})
	assert.EqualValues(t, 3, pagination["total"])
	assert.EqualValues(t, 2, pagination["total_paths"])
	assert.EqualValues(t, 2, pagination["page"])
}
