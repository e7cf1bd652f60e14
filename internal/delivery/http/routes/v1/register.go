package v1

import (
	"log"
	"time"

	"hydroguide/internal/config"
	"hydroguide/internal/database"
	"hydroguide/internal/delivery/http/handler"
	"hydroguide/internal/delivery/http/middleware"
	"hydroguide/internal/infrastructure/cache"
	"hydroguide/internal/infrastructure/gemini"
	"hydroguide/internal/infrastructure/persistence/postgres"
	"hydroguide/internal/pkg/jwt"
	"hydroguide/internal/repository"
	"hydroguide/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// Deps are the long-lived resources the v1 routes are built from.
type Deps struct {
	Config   config.Config
	DB       database.DB
	Cache    *cache.Redis
	Notifier usecase.IntakeNotifier
	JWT      jwt.Service
	Logger   *log.Logger
	// Now is the clock used to resolve "today"; nil means time.Now.
	Now func() time.Time
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	jwtSvc := d.JWT
	if jwtSvc == nil {
		jwtSvc = jwt.NewFromConfig(d.Config.JWT)
	}
	authMw := middleware.NewAuthMiddleware(jwtSvc)
	tzMw := middleware.NewTimezoneMiddleware(d.Config.App.Location(), d.Now)

	userRepo := postgres.NewUserRepository(d.DB)
	profileRepo := repository.NewPostgresProfileRepository(d.DB)
	intakeRepo := repository.NewPostgresIntakeRepository(d.DB)

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc, 0)
	profileUC := usecase.NewProfileUsecase(profileRepo)
	ledgerUC := usecase.NewLedgerUsecase(intakeRepo, profileRepo, d.Notifier, d.Logger)
	adherenceUC := usecase.NewAdherenceUsecase(ledgerUC, profileRepo)
	recUC := usecase.NewRecommendationUsecase(
		profileRepo,
		gemini.NewClient(d.Config.Recommendation, d.Logger),
		d.Cache,
		d.Config.Recommendation.MarketplaceHost,
		d.Logger,
	)
	billingUC := usecase.NewBillingUsecase(profileUC, d.Cache, d.Logger)

	authHandler := handler.NewAuthHandler(authUC)

	// Public routes go first: the protected group below matches every path
	// under r from here on.
	authHandler.RegisterRoutes(r.Group("/auth"))
	handler.NewBillingWebhookHandler(billingUC, d.Config.Stripe.WebhookSecret).RegisterRoutes(r.Group("/webhooks"))

	protected := r.Group("", authMw.Middleware(), tzMw.Middleware())
	authHandler.RegisterProtectedRoutes(protected.Group("/auth"))

	RegisterHydration(protected, HydrationHandlers{
		Profile:         handler.NewProfileHandler(profileUC),
		Intake:          handler.NewIntakeHandler(ledgerUC, adherenceUC),
		History:         handler.NewHistoryHandler(adherenceUC),
		Recommendations: handler.NewRecommendationHandler(recUC),
	})
}
