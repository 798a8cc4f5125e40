package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talentgate-backend/internal/auth"
	"talentgate-backend/internal/utilities"
)

// JwtBlacklistCheck rejects tokens that were revoked by logout.
func JwtBlacklistCheck(store auth.JwtBlacklistStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
			return
		}

		blacklisted, err := store.IsBlacklisted(tokenString)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: "Failed to check token",
			})
			return
		}

		if blacklisted {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Token has been revoked",
			})
			return
		}

		ctx.Next()
	}
}
