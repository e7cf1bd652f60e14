package migration

import (
	"testing"
	"testing/fstest"

	"hydroguide/migrations"
)

func TestLoadMigrations_OrdersAndChecksums(t *testing.T) {
	fsys := fstest.MapFS{
		"V10__later.sql":   {Data: []byte("SELECT 10;")},
		"V2__second.sql":   {Data: []byte("  SELECT 2;\n")},
		"V1__first.sql":    {Data: []byte("SELECT 1;")},
		"README.md":        {Data: []byte("not a migration")},
		"v3__lowercase.sq": {Data: []byte("SELECT 3;")},
	}

	migs, err := LoadMigrations(fsys)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migs))
	}
	if migs[0].Version != 1 || migs[1].Version != 2 || migs[2].Version != 10 {
		t.Fatalf("unexpected order: %d, %d, %d", migs[0].Version, migs[1].Version, migs[2].Version)
	}
	if migs[1].SQL != "SELECT 2;" {
		t.Fatalf("expected trimmed sql, got %q", migs[1].SQL)
	}
	if migs[0].Checksum == "" || migs[0].Checksum == migs[1].Checksum {
		t.Fatalf("expected distinct non-empty checksums")
	}
}

func TestLoadMigrations_RejectsDuplicatesAndEmpty(t *testing.T) {
	dup := fstest.MapFS{
		"V1__a.sql": {Data: []byte("SELECT 1;")},
		"V1__b.sql": {Data: []byte("SELECT 2;")},
	}
	if _, err := LoadMigrations(dup); err == nil {
		t.Fatalf("expected duplicate version error")
	}

	empty := fstest.MapFS{"V1__empty.sql": {Data: []byte("   ")}}
	if _, err := LoadMigrations(empty); err == nil {
		t.Fatalf("expected empty migration error")
	}
}

func TestLoadMigrations_EmbeddedSchema(t *testing.T) {
	migs, err := LoadMigrations(migrations.FS)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) < 3 {
		t.Fatalf("expected at least 3 embedded migrations, got %d", len(migs))
	}
	for i, m := range migs {
		if m.Version != int64(i+1) {
			t.Fatalf("expected contiguous versions, got %d at index %d", m.Version, i)
		}
	}
}

func TestPending(t *testing.T) {
	migs, err := LoadMigrations(fstest.MapFS{
		"V1__users.sql":    {Data: []byte("CREATE TABLE users (id UUID);")},
		"V2__profiles.sql": {Data: []byte("CREATE TABLE profiles (user_id UUID);")},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	todo, err := Pending(migs, map[int64]string{1: migs[0].Checksum})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(todo) != 1 || todo[0].Version != 2 {
		t.Fatalf("expected only V2 pending, got %+v", todo)
	}

	if _, err := Pending(migs, map[int64]string{1: "edited"}); err == nil {
		t.Fatalf("expected modified migration error")
	}
}

func TestParseFilename(t *testing.T) {
	v, name, ok := parseFilename("V3__create_intake_entries.sql")
	if !ok || v != 3 || name != "create_intake_entries" {
		t.Fatalf("unexpected parse: %d %q %v", v, name, ok)
	}
	if _, _, ok := parseFilename("V3_missing_separator.sql"); ok {
		t.Fatalf("expected rejection")
	}
}
