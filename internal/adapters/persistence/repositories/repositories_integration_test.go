//go:build integration

package repositories

import (
	"context"
	"errors"
	"os"
	"testing"

	"agrismart-api/internal/adapters/persistence/models"
	"agrismart-api/internal/core/domain"

	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB starts Postgres 16, or reuses AGRISMART_TEST_PG_DSN when set.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	dsn := os.Getenv("AGRISMART_TEST_PG_DSN")
	if dsn == "" {
		pg, err := tcpostgres.Run(ctx,
			"postgres:16",
			tcpostgres.WithDatabase("agrismart"),
			tcpostgres.WithUsername("agrismart"),
			tcpostgres.WithPassword("agrismart"),
			tcpostgres.BasicWaitStrategies(),
		)
		if err != nil {
			t.Fatalf("start postgres: %v", err)
		}
		t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

		dsn, err = pg.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			t.Fatalf("dsn: %v", err)
		}
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Migrator().DropTable(&models.Message{}, &models.Product{}, &models.User{}); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCreateUser(t *testing.T, repo UserRepository, email string, role domain.Role) *models.User {
	t.Helper()
	u := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		Phone:        "0700",
		Location:     "Nairobi",
		Approved:     true,
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create %s: %v", email, err)
	}
	return u
}

func TestRepositoriesPostgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	products := NewProductRepository(db)
	messages := NewMessageRepository(db)

	t.Run("users", func(t *testing.T) {
		u := mustCreateUser(t, users, "dup@x.io", domain.RoleBuyer)

		clash := &models.User{Name: "x", Email: "dup@x.io", PasswordHash: "h", Role: domain.RoleBuyer, Approved: true}
		if err := users.Create(ctx, clash); !errors.Is(err, gorm.ErrDuplicatedKey) {
			t.Fatalf("expected duplicated key, got %v", err)
		}

		clerkID := "user_1"
		u.ClerkID = &clerkID
		u.Approved = false
		if err := users.Update(ctx, u); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := users.GetByClerkID(ctx, "user_1")
		if err != nil || got.ID != u.ID || got.Approved {
			t.Fatalf("get by clerk id: %v %+v", err, got)
		}
		if n, _ := users.CountPending(ctx); n != 1 {
			t.Errorf("pending = %d", n)
		}
		if ok, _ := users.ExistsByEmail(ctx, "DUP@x.io"); !ok {
			t.Error("email lookup should be case-insensitive")
		}
		if _, err := users.GetByEmail(ctx, "nobody@x.io"); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Errorf("missing user: %v", err)
		}
	})

	farmer := mustCreateUser(t, users, "farmer@x.io", domain.RoleFarmer)
	buyer := mustCreateUser(t, users, "buyer@x.io", domain.RoleBuyer)

	var mango *models.Product
	t.Run("products", func(t *testing.T) {
		for _, p := range []*models.Product{
			{Name: "Kale", Category: domain.CategoryVegetables, Description: "leafy 100% green", Approved: true},
			{Name: "Mango", Category: domain.CategoryFruits, Description: "Sweet apple mango", Approved: true},
			{Name: "Secret Mango", Category: domain.CategoryFruits, Description: "sweet", Approved: false},
		} {
			p.FarmerID, p.Unit, p.Price, p.Quantity = farmer.ID, domain.UnitKg, 1.5, 10
			if err := products.Create(ctx, p); err != nil {
				t.Fatalf("create %s: %v", p.Name, err)
			}
			if p.Name == "Mango" {
				mango = p
			}
		}

		found, err := products.ListApproved(ctx, ProductFilter{Category: domain.CategoryFruits, Search: "SWEET"})
		if err != nil {
			t.Fatal(err)
		}
		if len(found) != 1 || found[0].ID != mango.ID {
			t.Fatalf("filter returned %d products", len(found))
		}
		if found[0].Farmer == nil || found[0].Farmer.Email != farmer.Email {
			t.Error("farmer summary not preloaded")
		}

		literal, _ := products.ListApproved(ctx, ProductFilter{Search: "100%"})
		if len(literal) != 1 || literal[0].Name != "Kale" {
			t.Errorf("%% must match literally, got %d", len(literal))
		}

		all, total, err := products.List(ctx, 0, 2)
		if err != nil || total != 3 || len(all) != 2 {
			t.Errorf("list: total=%d len=%d err=%v", total, len(all), err)
		}
		if n, _ := products.CountPending(ctx); n != 1 {
			t.Errorf("pending products = %d", n)
		}
	})

	t.Run("messages", func(t *testing.T) {
		msg := &models.Message{BuyerID: buyer.ID, FarmerID: farmer.ID, ProductID: mango.ID, Body: "price?"}
		if err := messages.Create(ctx, msg); err != nil {
			t.Fatalf("create: %v", err)
		}

		full, err := messages.GetWithParties(ctx, msg.ID)
		if err != nil {
			t.Fatal(err)
		}
		if full.Buyer == nil || full.Product == nil || full.Product.Name != "Mango" {
			t.Fatalf("parties not loaded: %+v", full)
		}

		if n, _ := messages.CountUnread(ctx); n != 1 {
			t.Errorf("unread = %d", n)
		}
		if err := messages.MarkRead(ctx, msg.ID); err != nil {
			t.Fatal(err)
		}
		if n, _ := messages.CountUnread(ctx); n != 0 {
			t.Errorf("unread after mark = %d", n)
		}

		inbox, err := messages.ListByFarmer(ctx, farmer.ID)
		if err != nil || len(inbox) != 1 || !inbox[0].Read {
			t.Errorf("inbox: %v %+v", err, inbox)
		}
	})
}
