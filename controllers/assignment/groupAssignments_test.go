package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"lms/models"
	validators "lms/validators/assignment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newGroupTestApp(actorID uint) *fiber.App {
	app := fiber.New()
	auth := func(c *fiber.Ctx) error {
		c.Locals("userId", actorID)
		return c.Next()
	}
	app.Get("/assignment-matrix/group-assignments", auth, validators.GroupQuery(), GetGroupAssignments)
	return app
}

func seedSchoolMember(t *testing.T, db *gorm.DB, schoolID uint, email string) models.User {
	t.Helper()
	u := seedUser(t, db, email)
	role := models.UserRole{UserID: u.ID, RoleType: models.RoleStudent, SchoolID: &schoolID, IsActive: true}
	require.NoError(t, db.Create(&role).Error)
	return u
}

func TestGetGroupAssignmentsSchoolRollup(t *testing.T) {
	db := setupTestDB(t)
	actor := seedUser(t, db, "admin@example.com")

	school := models.School{Name: "Northside High"}
	require.NoError(t, db.Create(&school).Error)

	alice := seedSchoolMember(t, db, school.ID, "alice@example.com")
	bob := seedSchoolMember(t, db, school.ID, "bob@example.com")
	seedSchoolMember(t, db, school.ID, "carol@example.com") // nothing assigned

	course := seedCourse(t, db, "Intro to Algebra", 10)
	path := seedPath(t, db, "Math Foundations", course.ID)
	seedPathAssignment(t, db, path.ID, alice.ID, actor.ID)
	seedPathAssignment(t, db, path.ID, bob.ID, actor.ID)

	app := newGroupTestApp(actor.ID)
	status, envelope := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/assignment-matrix/group-assignments?groupType=school&groupId=%d", school.ID), nil)
	require.Equal(t, http.StatusOK, status)
	data := envelopeData(t, envelope)

	group := data["group"].(map[string]interface{})
	assert.Equal(t, "Northside High", group["name"])
	assert.EqualValues(t, 3, group["memberCount"])

	stats := data["stats"].(map[string]interface{})
	assert.EqualValues(t, 3, stats["totalMembers"])
	assert.EqualValues(t, 2, stats["membersWithAssignments"])
	assert.EqualValues(t, 1, stats["uniqueCourses"])
	assert.EqualValues(t, 1, stats["uniqueLPs"])

	// Course and path summaries, both held by both assigned members
	summaries := data["commonAssignments"].([]interface{})
	require.Len(t, summaries, 2)
	for _, raw := range summaries {
		s := raw.(map[string]interface{})
		assert.EqualValues(t, 2, s["assigned_count"])
		assert.InDelta(t, 2.0/3.0, s["coverage"].(float64), 0.001)
	}
}

func TestGetGroupAssignmentsEmptyGroup(t *testing.T) {
	db := setupTestDB(t)
	actor := seedUser(t, db, "admin@example.com")
	school := models.School{Name: "Empty Academy"}
	require.NoError(t, db.Create(&school).Error)

	app := newGroupTestApp(actor.ID)
	status, envelope := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/assignment-matrix/group-assignments?groupType=school&groupId=%d", school.ID), nil)
	require.Equal(t, http.StatusOK, status)
	data := envelopeData(t, envelope)

	group := data["group"].(map[string]interface{})
	assert.EqualValues(t, 0, group["memberCount"])
	summaries := data["commonAssignments"].([]interface{})
	assert.Empty(t, summaries)
}

func TestGetGroupAssignmentsUnknownSchool(t *testing.T) {
	db := setupTestDB(t)
	actor := seedUser(t, db, "admin@example.com")
	app := newGroupTestApp(actor.ID)

	status, _ := doRequest(t, app, http.MethodGet,
		"/assignment-matrix/group-assignments?groupType=school&groupId=9999", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
