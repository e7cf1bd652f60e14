package app

import (
	"testing"

	"hydroguide/internal/config"
)

func TestMigrationRunner_EmbeddedByDefault(t *testing.T) {
	r := migrationRunner(config.DatabaseConfig{}, nil)
	if r.FS == nil || r.Dir != "" {
		t.Fatalf("expected embedded migrations, got dir=%q fs=%v", r.Dir, r.FS)
	}
}

func TestMigrationRunner_DirOverridesEmbedded(t *testing.T) {
	r := migrationRunner(config.DatabaseConfig{MigrationsDir: " /srv/hydroguide/migrations "}, nil)
	if r.FS != nil {
		t.Fatalf("expected the embedded schema to be bypassed")
	}
	if r.Dir != "/srv/hydroguide/migrations" {
		t.Fatalf("unexpected dir %q", r.Dir)
	}
}
