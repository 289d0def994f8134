package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/content-compass/configs"
	"github.com/maheshrc27/content-compass/internal/api/handlers"
	"github.com/maheshrc27/content-compass/internal/api/middleware"
	"github.com/maheshrc27/content-compass/internal/service"
	"github.com/maheshrc27/content-compass/internal/state"
)

type services struct {
	auth        service.AuthService
	apiKeys     service.ApiKeyService
	platform    service.PlatformService
	user        service.UserService
	invitations service.InvitationService
	plans       service.PlanService
	dashboard   service.DashboardService
	billing     service.BillingService
}

// registerRoutes mounts the public sign-in and webhook endpoints and the
// authenticated /api group.
func registerRoutes(app *fiber.App, cfg config.Config, svc services, registry *state.Registry) {
	auth := handlers.NewAuthHandler(cfg, svc.auth, registry)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)
	app.Post("/logout", auth.Logout)

	payment := handlers.NewPaymentHandler(svc.billing)
	app.Post("/billing/webhook", payment.PaymentWebhook)

	api := app.Group("/api",
		middleware.NewAuthMiddleware(cfg, svc.apiKeys).AuthMiddleware(),
		middleware.SessionMiddleware(registry),
	)

	settings := handlers.NewSettingsHandler(svc.platform, svc.user)
	api.Get("/session", settings.GetSession)
	api.Get("/catalog", settings.Catalog)
	api.Post("/onboarding", settings.CompleteOnboarding)
	api.Put("/profile", settings.UpdateProfile)
	api.Post("/profile/avatar", settings.UploadAvatar)

	post := handlers.NewPostHandler()
	api.Get("/posts", post.ListPosts)
	api.Post("/posts", post.CreatePost)
	api.Get("/posts/:id", post.GetPost)
	api.Patch("/posts/:id", post.UpdatePost)
	api.Delete("/posts/:id", post.DeletePost)
	api.Post("/posts/:id/copy", post.CopyPost)

	team := handlers.NewTeamHandler(svc.invitations)
	api.Get("/teams", team.ListTeams)
	api.Post("/teams", team.CreateTeam)
	api.Post("/teams/switch", team.SwitchTeam)
	api.Put("/teams/:id/accounts", team.UpdateAccounts)
	api.Get("/teams/:id/invitations", team.ListInvitations)
	api.Post("/teams/:id/invitations", team.Invite)
	api.Post("/invitations/:id/resend", team.ResendInvitation)
	api.Delete("/invitations/:id", team.RevokeInvitation)
	api.Post("/invitations/:id/accept", team.AcceptInvitation)

	// AI generation is slow and billed per call.
	limited := middleware.NewUserRateLimiter(6*time.Second, 5).Handler()
	plan := handlers.NewPlanHandler(svc.plans)
	api.Post("/plans/generate", limited, plan.GeneratePlan)
	api.Post("/plans", plan.AcceptPlan)
	api.Get("/plans", plan.ListPlans)
	api.Get("/plans/:id", plan.GetPlan)
	api.Post("/ai/suggest", limited, plan.SuggestPosts)
	api.Post("/ai/trending", limited, plan.Trending)
	api.Post("/ai/follow-ups", limited, plan.FollowUps)

	api.Get("/dashboard", handlers.NewDashboardHandler(svc.dashboard).GetDashboard)

	api.Post("/billing/checkout", payment.Checkout)
	api.Post("/billing/portal", payment.Portal)

	keys := handlers.NewApiKeyHandler(svc.apiKeys)
	api.Post("/api_key/new", keys.CreateApiKey)
	api.Get("/api_key/list", keys.ListKeys)
	api.Post("/api_key/remove", keys.RemoveAPIKey)
}
