package user

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"talentgate-backend/internal/auth"
	"talentgate-backend/internal/database"
	"talentgate-backend/internal/mailer"
	"talentgate-backend/internal/middleware"
	"talentgate-backend/internal/model"
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

type capturingMailer struct {
	lastTemplate  string
	lastRecipient string
}

func (m *capturingMailer) Send(_ context.Context, template string, _ map[string]string, recipient string) (*mailer.SendResult, error) {
	m.lastTemplate = template
	m.lastRecipient = recipient
	return &mailer.SendResult{Success: true, MessageID: "msg-1"}, nil
}

func userRouter(mail mailer.Sender) *gin.Engine {
	uc := NewUserController(testDB, mail)

	r := gin.New()
	admin := r.Group("", middleware.RequireAuth(testDB), middleware.RequireAdmin())
	admin.GET("/users", uc.ListHandler)
	admin.POST("/users", uc.CreateHandler)
	admin.PATCH("/users/:id", uc.UpdateHandler)
	admin.DELETE("/users/:id", uc.DeleteHandler)
	admin.POST("/emails/send", uc.SendEmailHandler)
	return r
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Email, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func TestListUsersRequiresAdmin(t *testing.T) {
	reviewerToken, err := auth.GetAccessToken(t, testDB, database.TestReviewerUser.Email, database.TestSeedPassword)
	require.NoError(t, err)
	r := userRouter(&capturingMailer{})

	rec, _ := testutil.MakeJSONRequest(nil, reviewerToken, r, "/users", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, adminToken(t), r, "/users", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateAndUpdateUser(t *testing.T) {
	r := userRouter(&capturingMailer{})
	token := adminToken(t)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"email":      "provisioned@talentgate.test",
		"name":       "Pre Provisioned",
		"has_access": true,
	}, token, r, "/users", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := resp["id"].(string)

	// Duplicate email is refused.
	rec, _ = testutil.MakeJSONRequest(gin.H{
		"email": "provisioned@talentgate.test",
	}, token, r, "/users", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = testutil.MakeJSONRequest(gin.H{"is_admin": true}, token, r, "/users/"+id, http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.User
	require.NoError(t, testDB.First(&updated, "id = ?", id).Error)
	assert.True(t, updated.IsAdmin)
	assert.True(t, updated.HasAccess)
}

func TestDeleteUserGuardsSelf(t *testing.T) {
	r := userRouter(&capturingMailer{})
	token := adminToken(t)

	rec, _ := testutil.MakeJSONRequest(nil, token, r,
		"/users/"+database.TestAdminUser.ID.String(), http.MethodDelete)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "cannot delete own account")

	doomed := model.User{Email: "doomed@talentgate.test"}
	require.NoError(t, testDB.Create(&doomed).Error)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/users/"+doomed.ID.String(), http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSendEmailManually(t *testing.T) {
	mail := &capturingMailer{}
	r := userRouter(mail)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"template":  mailer.TemplateInterviewInvite,
		"recipient": "candidate@example.com",
		"vars":      gin.H{"FirstName": "Alice", "Position": "Backend Engineer"},
	}, adminToken(t), r, "/emails/send", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, mailer.TemplateInterviewInvite, mail.lastTemplate)
	assert.Equal(t, "candidate@example.com", mail.lastRecipient)
}
