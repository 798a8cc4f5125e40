package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentgate-backend/internal/tally"
)

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func webhookTestRouter(t *testing.T, secret string) (*gin.Engine, *[]byte) {
	t.Helper()
	t.Setenv("TALLY_SIGNING_SECRET", secret)

	var captured []byte
	r := gin.New()
	r.POST("/hook", VerifyTallySignature(), func(c *gin.Context) {
		captured = RawBody(c)
		c.Status(http.StatusOK)
	})
	return r, &captured
}

func TestVerifyTallySignatureAccepts(t *testing.T) {
	body := []byte(`{"data":{"submissionId":"s1","fields":[]}}`)
	r, captured := webhookTestRouter(t, "hook-secret")

	req, _ := http.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body))
	req.Header.Set(tally.SignatureHeader, signBody(body, "hook-secret"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, *captured, "handler sees the exact signed bytes")
}

func TestVerifyTallySignatureRejectsBadSignature(t *testing.T) {
	body := []byte(`{"data":{}}`)
	r, _ := webhookTestRouter(t, "hook-secret")

	req, _ := http.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body))
	req.Header.Set(tally.SignatureHeader, signBody(body, "wrong-secret"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyTallySignatureRejectsMissingHeader(t *testing.T) {
	r, _ := webhookTestRouter(t, "hook-secret")

	req, _ := http.NewRequest(http.MethodPost, "/hook", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTallyIPAllowlist(t *testing.T) {
	t.Setenv("TALLY_ALLOWED_IPS", "10.1.2.3, 10.1.2.4")

	r := gin.New()
	r.POST("/hook", TallyIPAllowlist(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest(http.MethodPost, "/hook", nil)
	req.RemoteAddr = "10.9.9.9:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req, _ = http.NewRequest(http.MethodPost, "/hook", nil)
	req.RemoteAddr = "10.1.2.3:1234"
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTallyIPAllowlistEmptyAllowsAll(t *testing.T) {
	t.Setenv("TALLY_ALLOWED_IPS", "")

	r := gin.New()
	r.POST("/hook", TallyIPAllowlist(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest(http.MethodPost, "/hook", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
