package postgres

import (
	"testing"

	"hydroguide/internal/config"
)

func TestDSN(t *testing.T) {
	got := DSN(config.DatabaseConfig{DBHost: " db ", DBPort: "5432", DBUser: "hydro", DBPassword: "s3cret", DBName: "hydroguide"})
	want := "host=db port=5432 user=hydro password=s3cret dbname=hydroguide sslmode=disable"
	if got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}

	got = DSN(config.DatabaseConfig{DBHost: "db", DBPort: "5432", DBSSLMode: "require"})
	if want := "host=db port=5432 user= password= dbname= sslmode=require"; got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}
