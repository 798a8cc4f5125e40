package middleware

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"talentgate-backend/internal/tally"
	"talentgate-backend/internal/utilities"
)

// rawBodyKey is where VerifyTallySignature stashes the request body
// for handlers that need the exact signed bytes.
const rawBodyKey = "rawBody"

// TallyIPAllowlist rejects webhook deliveries whose client IP (honoring
// forwarded-for) is not in TALLY_ALLOWED_IPS. An empty allowlist
// allows all sources.
func TallyIPAllowlist() gin.HandlerFunc {
	allowStr := os.Getenv("TALLY_ALLOWED_IPS")
	allowed := map[string]bool{}
	for _, ip := range strings.Split(allowStr, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			allowed[ip] = true
		}
	}

	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}
		if !allowed[c.ClientIP()] {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Source address not allowed",
			})
			return
		}
		c.Next()
	}
}

// VerifyTallySignature checks the delivery signature against the
// shared signing secret before any state is touched. The verified raw
// body is kept on the context for the handler.
func VerifyTallySignature() gin.HandlerFunc {
	secret := os.Getenv("TALLY_SIGNING_SECRET")

	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "Failed to read request body",
			})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !tally.VerifySignature(body, secret, c.GetHeader(tally.SignatureHeader)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Invalid webhook signature",
			})
			return
		}

		c.Set(rawBodyKey, body)
		c.Next()
	}
}

// RawBody returns the signed request body stored by VerifyTallySignature.
func RawBody(c *gin.Context) []byte {
	v, _ := c.Get(rawBodyKey)
	body, _ := v.([]byte)
	return body
}
