package services

import (
	"context"
	"errors"
	"testing"

	"agrismart-api/internal/core/domain"
	"agrismart-api/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func tomatoes() *CreateProductInput {
	return &CreateProductInput{
		Name:        "Tomatoes",
		Category:    "Vegetables",
		Price:       ptr(2.5),
		Quantity:    ptr(100.0),
		Unit:        "kg",
		Description: "Fresh red tomatoes",
	}
}

func TestCreateProduct(t *testing.T) {
	users := testutil.NewUserRepo()
	svc := NewProductService(testutil.NewProductRepo(users))
	farmer := testutil.SeedUser(t, users, "farmer@x.io", domain.RoleFarmer)
	buyer := testutil.SeedUser(t, users, "buyer@x.io", domain.RoleBuyer)

	p, err := svc.Create(context.Background(), farmer, tomatoes())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.FarmerID != farmer.ID || !p.Approved || p.Category != domain.CategoryVegetables {
		t.Errorf("unexpected product %+v", p)
	}

	if _, err := svc.Create(context.Background(), buyer, tomatoes()); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("buyer create: expected forbidden, got %v", err)
	}
}

func TestCreateProductValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*CreateProductInput)
		field string
	}{
		{"missing name", func(in *CreateProductInput) { in.Name = "" }, "name"},
		{"bad category", func(in *CreateProductInput) { in.Category = "Meat" }, "category"},
		{"missing price", func(in *CreateProductInput) { in.Price = nil }, "price"},
		{"negative price", func(in *CreateProductInput) { in.Price = ptr(-1.0) }, "price"},
		{"negative quantity", func(in *CreateProductInput) { in.Quantity = ptr(-3.0) }, "quantity"},
		{"bad unit", func(in *CreateProductInput) { in.Unit = "tons" }, "unit"},
		{"missing description", func(in *CreateProductInput) { in.Description = " " }, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := testutil.NewUserRepo()
			svc := NewProductService(testutil.NewProductRepo(users))
			farmer := testutil.SeedUser(t, users, "farmer@x.io", domain.RoleFarmer)

			in := tomatoes()
			tt.edit(in)
			_, err := svc.Create(context.Background(), farmer, in)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Fatalf("expected validation error on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestUpdateAndDeleteRequireOwnership(t *testing.T) {
	users := testutil.NewUserRepo()
	repo := testutil.NewProductRepo(users)
	svc := NewProductService(repo)
	ctx := context.Background()

	owner := testutil.SeedUser(t, users, "owner@x.io", domain.RoleFarmer)
	other := testutil.SeedUser(t, users, "other@x.io", domain.RoleFarmer)

	p, err := svc.Create(ctx, owner, tomatoes())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(ctx, other, p.ID, &UpdateProductInput{Price: ptr(9.0)}); !errors.Is(err, domain.ErrNotProductOwner) {
		t.Errorf("foreign update: got %v", err)
	}
	if err := svc.Delete(ctx, other, p.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("foreign delete: got %v", err)
	}

	stored, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("product vanished: %v", err)
	}
	if stored.Price != 2.5 {
		t.Errorf("price mutated to %v", stored.Price)
	}

	updated, err := svc.Update(ctx, owner, p.ID, &UpdateProductInput{Price: ptr(3.0), Name: ptr("Roma Tomatoes")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 3.0 || updated.Name != "Roma Tomatoes" || updated.Unit != domain.UnitKg {
		t.Errorf("unexpected update result %+v", updated)
	}

	if _, err := svc.Update(ctx, owner, "missing", &UpdateProductInput{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing product: got %v", err)
	}

	if err := svc.Delete(ctx, owner, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, p.ID); err == nil {
		t.Error("product should be gone")
	}
}

func TestListCatalog(t *testing.T) {
	users := testutil.NewUserRepo()
	repo := testutil.NewProductRepo(users)
	svc := NewProductService(repo)
	ctx := context.Background()
	farmer := testutil.SeedUser(t, users, "farmer@x.io", domain.RoleFarmer)

	mk := func(name, category, desc string, approved bool) {
		in := tomatoes()
		in.Name, in.Category, in.Description = name, category, desc
		p, err := svc.Create(ctx, farmer, in)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if !approved {
			p.Approved = false
			if err := repo.Update(ctx, p); err != nil {
				t.Fatal(err)
			}
		}
	}
	mk("Tomatoes", "Vegetables", "red and ripe", true)
	mk("Mangoes", "Fruits", "sweet apple mangoes", true)
	mk("Milk", "Dairy", "fresh", true)
	mk("Hidden Kale", "Vegetables", "not yet approved", false)

	all, err := svc.ListCatalog(ctx, "All", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 approved products, got %d", len(all))
	}
	if all[0].Name != "Milk" {
		t.Errorf("expected newest first, got %s", all[0].Name)
	}
	if all[0].Farmer == nil || all[0].Farmer.ID != farmer.ID {
		t.Error("owner summary should be attached")
	}

	veg, _ := svc.ListCatalog(ctx, "Vegetables", "")
	if len(veg) != 1 || veg[0].Name != "Tomatoes" {
		t.Errorf("category filter: got %d", len(veg))
	}

	found, _ := svc.ListCatalog(ctx, "", "APPLE")
	if len(found) != 1 || found[0].Name != "Mangoes" {
		t.Errorf("search should match description case-insensitively, got %d", len(found))
	}

	if _, err := svc.ListCatalog(ctx, "Meat", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("unknown category: got %v", err)
	}

	mine, _ := svc.ListByFarmer(ctx, farmer.ID)
	if len(mine) != 4 {
		t.Errorf("farmer should see all own products, got %d", len(mine))
	}
}
