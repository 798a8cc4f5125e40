package middleware

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

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequireAuth(testDB)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/protected", handlers...)
	return r
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Email, database.TestSeedPassword)
	require.NoError(t, err)

	rec, _ := testutil.MakeJSONRequest(nil, token, protectedRouter(), "/protected", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(nil, "", protectedRouter(), "/protected", http.MethodGet)
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejectsGarbageToken(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(nil, "not-a-jwt", protectedRouter(), "/protected", http.MethodGet)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAccessTiers(t *testing.T) {
	viewerToken, err := auth.GetAccessToken(t, testDB, database.TestViewerUser.Email, database.TestSeedPassword)
	require.NoError(t, err)
	reviewerToken, err := auth.GetAccessToken(t, testDB, database.TestReviewerUser.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := protectedRouter(RequireAccess())

	rec, _ := testutil.MakeJSONRequest(nil, viewerToken, r, "/protected", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code, "no hasAccess tier")

	rec, _ = testutil.MakeJSONRequest(nil, reviewerToken, r, "/protected", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminTiers(t *testing.T) {
	reviewerToken, err := auth.GetAccessToken(t, testDB, database.TestReviewerUser.Email, database.TestSeedPassword)
	require.NoError(t, err)
	adminToken, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := protectedRouter(RequireAdmin())

	rec, _ := testutil.MakeJSONRequest(nil, reviewerToken, r, "/protected", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code, "hasAccess is not enough")

	rec, _ = testutil.MakeJSONRequest(nil, adminToken, r, "/protected", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJwtBlacklistCheck(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Email, database.TestSeedPassword)
	require.NoError(t, err)

	store := auth.NewInMemoryBlacklistStore()
	r := protectedRouter(JwtBlacklistCheck(store))

	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/protected", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, store.AddToBlacklist(token, time.Now().Add(time.Hour)))

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/protected", http.MethodGet)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
