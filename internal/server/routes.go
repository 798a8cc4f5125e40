// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"talentgate-backend/internal/audit"
	"talentgate-backend/internal/auth"
	"talentgate-backend/internal/controller/application"
	"talentgate-backend/internal/controller/assessment"
	"talentgate-backend/internal/controller/competency"
	"talentgate-backend/internal/controller/decision"
	"talentgate-backend/internal/controller/interview"
	"talentgate-backend/internal/controller/user"
	"talentgate-backend/internal/controller/webhook"
	"talentgate-backend/internal/middleware"
	"talentgate-backend/internal/pipeline"
	"talentgate-backend/internal/tally"
)

const webhookBodyLimit = 1 << 20

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOrginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrgins := strings.Split(allowOrginsStr, ",")

	oktaIssuer := strings.TrimSuffix(os.Getenv("OKTA_ISSUER"), "/")
	oktaOauth := &oauth2.Config{
		ClientID:     os.Getenv("OKTA_CLIENT_ID"),
		ClientSecret: os.Getenv("OKTA_CLIENT_SECRET"),
		Scopes:       []string{"openid", "profile", "email", "groups"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  oktaIssuer + "/v1/authorize",
			TokenURL: oktaIssuer + "/v1/token",
		},
		RedirectURL: os.Getenv("OAUTH_REDIRECT_URL"),
	}

	oktaAuth := auth.NewOktaLoginHandler(s.DB, oktaOauth, oktaIssuer+"/v1/userinfo")
	lAuth := auth.NewLocalAuthHandler(s.DB)
	logout := auth.NewLogoutController(s.Blacklist)

	pipe := pipeline.New(s.DB, audit.NewRecorder(s.DB), s.Mail)

	webhookCtrl := webhook.NewWebhookController(pipe)
	appCtrl := application.NewApplicationController(s.DB, pipe)
	decisionCtrl := decision.NewDecisionController(pipe)
	interviewCtrl := interview.NewInterviewController(pipe)
	assessmentCtrl := assessment.NewAssessmentController(pipe)
	competencyCtrl := competency.NewCompetencyController(s.DB)
	userCtrl := user.NewUserController(s.DB, s.Mail)

	r.GET("/health", s.healthHandler)

	// Webhook ingress is vendor-facing: open CORS, signature and IP
	// checks instead of sessions.
	hooks := r.Group("/webhooks/tally")
	{
		hooks.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"POST", "OPTIONS"},
			AllowHeaders:    []string{"Content-Type", tally.SignatureHeader},
		}))
		hooks.OPTIONS("/*any", webhookCtrl.PreflightHandler)

		hooks.Use(
			middleware.EnvRateLimitMiddleware(),
			middleware.SizeLimit(webhookBodyLimit),
			middleware.TallyIPAllowlist(),
			middleware.VerifyTallySignature(),
		)
		hooks.POST("/application", webhookCtrl.ApplicationHandler)
		hooks.POST("/general-competencies", webhookCtrl.GeneralHandler)
		hooks.POST("/specialized-competencies", webhookCtrl.SpecializedHandler)
		hooks.POST("/agreement", webhookCtrl.AgreementHandler)
	}

	v1 := r.Group("/api/v1")
	{
		v1.Use(cors.New(cors.Config{
			AllowOrigins:     allowOrgins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
			AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}))

		authRoute := v1.Group("/auth")
		{
			authRoute.POST("okta", oktaAuth.LoginHandler)
			authRoute.POST("login", lAuth.LocalLoginHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB), middleware.JwtBlacklistCheck(s.Blacklist))
			needAuth.POST("auth/logout", logout.LogoutHandler)

			// Read and day-to-day pipeline work requires the access tier.
			needAccess := needAuth.Group("")
			{
				needAccess.Use(middleware.RequireAccess())

				appRoute := needAccess.Group("/applications")
				{
					appRoute.GET("", appCtrl.ListHandler)
					appRoute.GET(":id", appCtrl.GetHandler)
					appRoute.PATCH(":id", appCtrl.UpdateHandler)
					appRoute.POST(":id/advance", appCtrl.AdvanceToInterviewHandler)
					appRoute.POST(":id/interviews", interviewCtrl.ScheduleHandler)
				}

				needAccess.GET("persons/:id", appCtrl.GetPersonHandler)
				needAccess.PATCH("interviews/:id/complete", interviewCtrl.CompleteHandler)
				needAccess.PATCH("assessments/:id/review", assessmentCtrl.ReviewHandler)
				needAccess.GET("competencies", competencyCtrl.ListHandler)
			}

			// Decisions and configuration are admin-only.
			needAdmin := needAuth.Group("")
			{
				needAdmin.Use(middleware.RequireAdmin())

				needAdmin.POST("applications/:id/accept", decisionCtrl.AcceptHandler)
				needAdmin.POST("applications/:id/reject", decisionCtrl.RejectHandler)
				needAdmin.POST("applications/:id/withdraw-offer", decisionCtrl.WithdrawOfferHandler)
				needAdmin.DELETE("applications/:id", appCtrl.DeleteHandler)

				needAdmin.POST("competencies", competencyCtrl.CreateHandler)
				needAdmin.PATCH("competencies/:id", competencyCtrl.UpdateHandler)
				needAdmin.DELETE("competencies/:id", competencyCtrl.DeleteHandler)

				userRoute := needAdmin.Group("/users")
				{
					userRoute.GET("", userCtrl.ListHandler)
					userRoute.POST("", userCtrl.CreateHandler)
					userRoute.PATCH(":id", userCtrl.UpdateHandler)
					userRoute.DELETE(":id", userCtrl.DeleteHandler)
				}

				needAdmin.POST("emails/send", userCtrl.SendEmailHandler)
			}
		}
	}

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
