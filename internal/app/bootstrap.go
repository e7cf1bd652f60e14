package app

import (
	"fmt"
	"log"
	"strings"

	"hydroguide/internal/config"
	"hydroguide/internal/delivery/http/middleware"
	"hydroguide/internal/delivery/http/routes"
	v1 "hydroguide/internal/delivery/http/routes/v1"
	"hydroguide/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

// New builds the HTTP app on top of an initialised container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.Default()

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Printf("[App] %s starting | env=%s tz=%s", cfg.App.AppName, cfg.App.Environment, cfg.App.Timezone)

	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	deps := v1.Deps{
		Config:   c.Config,
		DB:       c.DB,
		Cache:    c.Cache,
		Notifier: ws.NewNotifier(c.Hub),
		Logger:   c.Logger,
	}
	routes.NewRegistry(deps, ws.NewHandler(c.Hub, c.Logger)).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
