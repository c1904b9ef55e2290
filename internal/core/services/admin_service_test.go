package services

import (
	"context"
	"errors"
	"testing"

	"agrismart-api/internal/core/domain"
	"agrismart-api/internal/testutil"
)

func TestAdminModeration(t *testing.T) {
	users := testutil.NewUserRepo()
	products := testutil.NewProductRepo(users)
	messages := testutil.NewMessageRepo(users, products)
	svc := NewAdminService(users, products, messages)
	ctx := context.Background()

	admin := testutil.SeedUser(t, users, "admin@x.io", domain.RoleAdmin)
	farmer := testutil.SeedUser(t, users, "farmer@x.io", domain.RoleFarmer)
	farmer.Approved = false
	if err := users.Update(ctx, farmer); err != nil {
		t.Fatal(err)
	}

	approved, err := svc.ApproveUser(ctx, farmer.ID)
	if err != nil || !approved.Approved {
		t.Fatalf("approve user: %v", err)
	}
	if _, err := svc.ApproveUser(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("approve missing: %v", err)
	}

	p, err := NewProductService(products).Create(ctx, farmer, tomatoes())
	if err != nil {
		t.Fatal(err)
	}
	p.Approved = false
	if err := products.Update(ctx, p); err != nil {
		t.Fatal(err)
	}
	if got, err := svc.ApproveProduct(ctx, p.ID); err != nil || !got.Approved {
		t.Fatalf("approve product: %v", err)
	}

	list, total, err := svc.ListUsers(ctx, 0, 1)
	if err != nil || total != 2 || len(list) != 1 {
		t.Errorf("list users: total=%d len=%d err=%v", total, len(list), err)
	}

	if err := svc.DeleteUser(ctx, admin, admin.ID); !errors.Is(err, domain.ErrCannotDeleteSelf) {
		t.Errorf("delete self: %v", err)
	}
	if err := svc.DeleteUser(ctx, admin, farmer.ID); err != nil {
		t.Errorf("delete farmer: %v", err)
	}
	if err := svc.DeleteProduct(ctx, p.ID); err != nil {
		t.Errorf("delete product: %v", err)
	}
	if err := svc.DeleteProduct(ctx, p.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("delete product twice: %v", err)
	}
}

func TestStatsAndDigest(t *testing.T) {
	users := testutil.NewUserRepo()
	products := testutil.NewProductRepo(users)
	messages := testutil.NewMessageRepo(users, products)
	admin := NewAdminService(users, products, messages)
	ctx := context.Background()

	testutil.SeedUser(t, users, "a@x.io", domain.RoleAdmin)
	farmer := testutil.SeedUser(t, users, "f@x.io", domain.RoleFarmer)
	buyer := testutil.SeedUser(t, users, "b@x.io", domain.RoleBuyer)
	pending := testutil.SeedUser(t, users, "b2@x.io", domain.RoleBuyer)
	pending.Approved = false
	if err := users.Update(ctx, pending); err != nil {
		t.Fatal(err)
	}

	p, err := NewProductService(products).Create(ctx, farmer, tomatoes())
	if err != nil {
		t.Fatal(err)
	}
	msgs := NewMessageService(messages, users, products, nil)
	if _, err := msgs.Send(ctx, buyer, &SendMessageInput{FarmerID: farmer.ID, ProductID: p.ID, Message: "hi"}); err != nil {
		t.Fatal(err)
	}

	stats, err := NewCronService(admin).Digest(ctx)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	want := Stats{Farmers: 1, Buyers: 2, Admins: 1, PendingUsers: 1, PendingProducts: 0, UnreadMessages: 1}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}
}

func TestCronJobPanicIsRecovered(t *testing.T) {
	svc := NewCronService(NewAdminService(testutil.NewUserRepo(), nil, nil))
	if _, err := svc.cron.AddFunc("0 8 * * *", func() { panic("boom") }); err != nil {
		t.Fatalf("add: %v", err)
	}

	entries := svc.cron.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one scheduled job, got %d", len(entries))
	}
	// Runs the job the way the scheduler would; must not propagate the panic.
	entries[0].WrappedJob.Run()
}

func TestCronRejectsBadSchedule(t *testing.T) {
	svc := NewCronService(NewAdminService(testutil.NewUserRepo(), nil, nil))
	if err := svc.Start("not a schedule"); err == nil {
		svc.Stop()
		t.Fatal("expected schedule parse error")
	}
}
