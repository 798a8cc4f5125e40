package application

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"talentgate-backend/internal/audit"
	"talentgate-backend/internal/auth"
	"talentgate-backend/internal/database"
	"talentgate-backend/internal/mailer"
	"talentgate-backend/internal/middleware"
	"talentgate-backend/internal/model"
	"talentgate-backend/internal/pipeline"
	"talentgate-backend/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var teardown func(context.Context, ...testcontainers.TerminateOption) error
	teardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if teardown != nil {
		_ = teardown(ctx)
	}
}

type dropMailer struct{}

func (dropMailer) Send(context.Context, string, map[string]string, string) (*mailer.SendResult, error) {
	return &mailer.SendResult{Success: true}, nil
}

func applicationRouter() *gin.Engine {
	ac := NewApplicationController(testDB, pipeline.New(testDB, audit.NewRecorder(testDB), dropMailer{}))

	r := gin.New()
	apps := r.Group("/applications", middleware.RequireAuth(testDB), middleware.RequireAccess())
	apps.GET("", ac.ListHandler)
	apps.GET(":id", ac.GetHandler)
	apps.PATCH(":id", ac.UpdateHandler)
	apps.DELETE(":id", middleware.RequireAdmin(), ac.DeleteHandler)
	return r
}

func TestListApplications(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestReviewerUser.Email, database.TestSeedPassword)
	require.NoError(t, err)
	r := applicationRouter()

	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/applications", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/applications?stage=INTERVIEW&status=ACTIVE", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/applications?stage=NOT_A_STAGE", http.MethodGet)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetApplication(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestReviewerUser.Email, database.TestSeedPassword)
	require.NoError(t, err)
	r := applicationRouter()

	rec, resp := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/applications/%d", database.TestApplication2.ID), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(model.StageSpecializedCompetencies), resp["current_stage"])
	assert.NotNil(t, resp["assessments"], "specialized assessment is preloaded")

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/applications/999999", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateApplication(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestReviewerUser.Email, database.TestSeedPassword)
	require.NoError(t, err)
	r := applicationRouter()

	app := model.Application{
		Position:     "QA Engineer",
		CurrentStage: model.StageApplication,
		Status:       model.StatusActive,
		PersonID:     database.TestPerson1.ID,
	}
	require.NoError(t, testDB.Create(&app).Error)

	rec, resp := testutil.MakeJSONRequest(gin.H{"position": "Senior QA Engineer"}, token, r,
		fmt.Sprintf("/applications/%d", app.ID), http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Senior QA Engineer", resp["position"])

	rec, _ = testutil.MakeJSONRequest(gin.H{"status": "NOT_A_STATUS"}, token, r,
		fmt.Sprintf("/applications/%d", app.ID), http.MethodPatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteApplicationRequiresAdmin(t *testing.T) {
	reviewerToken, err := auth.GetAccessToken(t, testDB, database.TestReviewerUser.Email, database.TestSeedPassword)
	require.NoError(t, err)
	adminToken, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Email, database.TestSeedPassword)
	require.NoError(t, err)
	r := applicationRouter()

	app := model.Application{
		Position:     "Support Engineer",
		CurrentStage: model.StageApplication,
		Status:       model.StatusActive,
		PersonID:     database.TestPerson1.ID,
	}
	require.NoError(t, testDB.Create(&app).Error)

	rec, _ := testutil.MakeJSONRequest(nil, reviewerToken, r,
		fmt.Sprintf("/applications/%d", app.ID), http.MethodDelete)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, adminToken, r,
		fmt.Sprintf("/applications/%d", app.ID), http.MethodDelete)
	require.Equal(t, http.StatusOK, rec.Code)

	var reloaded model.Application
	require.NoError(t, testDB.First(&reloaded, app.ID).Error)
	assert.Equal(t, model.StatusWithdrawn, reloaded.Status, "default delete is a soft withdraw")

	rec, _ = testutil.MakeJSONRequest(nil, adminToken, r,
		fmt.Sprintf("/applications/%d?hard=true", app.ID), http.MethodDelete)
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	testDB.Model(&model.Application{}).Where("id = ?", app.ID).Count(&count)
	assert.Zero(t, count)
}
