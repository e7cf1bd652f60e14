package seeder

import (
	"time"

	"hydroguide/internal/config"
)

// Defaults returns the demo seeders in dependency order.
func Defaults(cfg config.DatabaseConfig, loc *time.Location) []Seeder {
	demo := Demo{Email: cfg.DemoEmail, Password: cfg.DemoPassword, Location: loc}
	return []Seeder{
		DemoAccountSeeder{Demo: demo},
		DemoIntakeSeeder{Demo: demo},
	}
}
