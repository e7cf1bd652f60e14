package routes

import (
	"hydroguide/internal/delivery/http/handler"
	"hydroguide/internal/delivery/http/middleware"
	v1 "hydroguide/internal/delivery/http/routes/v1"
	"hydroguide/internal/pkg/jwt"
	"hydroguide/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	deps   v1.Deps
	health *handler.HealthHandler
	ws     *ws.Handler
}

// NewRegistry takes an optional websocket handler; without one /ws is not
// mounted.
func NewRegistry(deps v1.Deps, wsHandler *ws.Handler) *Registry {
	var cachePinger handler.Pinger
	if deps.Cache != nil {
		cachePinger = deps.Cache
	}
	if deps.JWT == nil {
		deps.JWT = jwt.NewFromConfig(deps.Config.JWT)
	}
	return &Registry{
		deps:   deps,
		health: handler.NewHealthHandler(deps.DB, cachePinger),
		ws:     wsHandler,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerRealtime(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerRealtime(app *fiber.App) {
	if r.ws == nil {
		return
	}
	authMw := middleware.NewAuthMiddleware(r.deps.JWT).WithQueryToken()
	app.Get("/ws", authMw.Middleware(), r.ws.HandleIntakeWS)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.deps)
}
