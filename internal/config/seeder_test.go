package config_test

import (
	"context"
	"strings"
	"testing"

	"agrismart-api/internal/config"
	"agrismart-api/internal/core/domain"
	"agrismart-api/internal/pkg/password"
	"agrismart-api/internal/testutil"
)

func TestSeederCreatesAdminOnce(t *testing.T) {
	users := testutil.NewUserRepo()
	cfg := testutil.Config()
	cfg.SeedAdmin = config.SeedAdminConfig{Email: "Root@AgriSmart.io", Password: "changeme"}

	seeder := config.NewSeeder(users, cfg)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := seeder.Run(ctx); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	if users.Len() != 1 {
		t.Fatalf("expected exactly one admin, got %d users", users.Len())
	}
	admin, err := users.GetByEmail(ctx, "root@agrismart.io")
	if err != nil {
		t.Fatalf("admin not stored: %v", err)
	}
	if admin.Role != domain.RoleAdmin || !admin.Approved {
		t.Errorf("unexpected admin %+v", admin)
	}
	if !password.Verify("changeme", admin.PasswordHash) {
		t.Error("admin password does not verify")
	}
}

func TestSeederSkipsWithoutConfig(t *testing.T) {
	users := testutil.NewUserRepo()
	cfg := testutil.Config()

	if err := config.NewSeeder(users, cfg).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if users.Len() != 0 {
		t.Errorf("nothing should be seeded, got %d", users.Len())
	}

	cfg.SeedAdmin = config.SeedAdminConfig{Email: "a@b.io", Password: "123"}
	if err := config.NewSeeder(users, cfg).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if users.Len() != 0 {
		t.Errorf("short password must not seed, got %d", users.Len())
	}

	cfg.SeedAdmin = config.SeedAdminConfig{Email: "a@b.io", Password: strings.Repeat("x", password.MaxLength+1)}
	if err := config.NewSeeder(users, cfg).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if users.Len() != 0 {
		t.Errorf("overlong password must not seed, got %d", users.Len())
	}
}
