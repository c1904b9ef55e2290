package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"agrismart-api/internal/adapters/persistence/models"
	"agrismart-api/internal/core/domain"
	"agrismart-api/internal/testutil"
	"agrismart-api/internal/pkg/jwt"
	"agrismart-api/internal/pkg/password"
)

func newAuthFixture() (*AuthService, *testutil.UserRepo, *testutil.Publisher) {
	users := testutil.NewUserRepo()
	pub := &testutil.Publisher{}
	return NewAuthService(users, NewNotificationService(pub), testutil.Config()), users, pub
}

func validSync() *SyncInput {
	return &SyncInput{
		ClerkID:  "clerk_1",
		Email:    "Alice@Example.com",
		Name:     "Alice",
		Role:     "farmer",
		Phone:    "0800",
		Location: "Nakuru",
	}
}

func seedLegacy(t *testing.T, users *testutil.UserRepo, email, pw string, approved bool) *models.User {
	t.Helper()
	hash, err := password.Hash(pw, 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{
		Name:         "Legacy",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleBuyer,
		Phone:        "0700",
		Location:     "Eldoret",
		Approved:     approved,
	}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u
}

func TestSyncCreatesThenUpdates(t *testing.T) {
	svc, users, pub := newAuthFixture()
	ctx := context.Background()

	res, created, err := svc.SyncExternalIdentity(ctx, validSync())
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if !created {
		t.Fatal("first sync should create")
	}
	if res.User.Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", res.User.Email)
	}
	if res.User.Role != domain.RoleFarmer || !res.User.Approved {
		t.Errorf("unexpected user: role=%s approved=%v", res.User.Role, res.User.Approved)
	}
	if res.Token == "" {
		t.Fatal("expected token")
	}

	again := validSync()
	again.Name = "Alice K"
	again.Phone = ""
	res2, created, err := svc.SyncExternalIdentity(ctx, again)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if created {
		t.Error("second sync should not create")
	}
	if res2.User.ID != res.User.ID {
		t.Errorf("id changed: %s != %s", res2.User.ID, res.User.ID)
	}
	if res2.User.Name != "Alice K" || res2.User.Phone != "0800" {
		t.Errorf("expected last non-empty values, got name=%q phone=%q", res2.User.Name, res2.User.Phone)
	}
	if users.Len() != 1 {
		t.Errorf("expected 1 user, got %d", users.Len())
	}
	if got := pub.Events(); len(got) != 1 || got[0] != EventIdentityCreated {
		t.Errorf("expected one %s event, got %v", EventIdentityCreated, got)
	}
}

func TestSyncLinksLegacyAccount(t *testing.T) {
	svc, users, pub := newAuthFixture()
	legacy := seedLegacy(t, users, "bob@example.com", "secret1", false)

	in := &SyncInput{ClerkID: "clerk_bob", Email: "BOB@example.com"}
	res, created, err := svc.SyncExternalIdentity(context.Background(), in)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if created {
		t.Error("linking must not create")
	}
	if res.User.ID != legacy.ID {
		t.Errorf("expected legacy id %s, got %s", legacy.ID, res.User.ID)
	}
	if !res.User.Approved {
		t.Error("linked account should be approved")
	}
	if res.User.ClerkID == nil || *res.User.ClerkID != "clerk_bob" {
		t.Errorf("clerk id not linked: %v", res.User.ClerkID)
	}
	if res.User.Name != "Legacy" {
		t.Errorf("empty name must not overwrite, got %q", res.User.Name)
	}
	if users.Len() != 1 {
		t.Errorf("expected 1 user, got %d", users.Len())
	}
	if len(pub.Events()) != 0 {
		t.Errorf("no event expected on link, got %v", pub.Events())
	}
}

func TestSyncValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*SyncInput)
		field string
	}{
		{"missing clerk id", func(in *SyncInput) { in.ClerkID = " " }, "clerkId"},
		{"missing email", func(in *SyncInput) { in.Email = "" }, "email"},
		{"malformed email", func(in *SyncInput) { in.Email = "alice.example.com" }, "email"},
		{"missing phone", func(in *SyncInput) { in.Phone = "" }, "phone"},
		{"missing location", func(in *SyncInput) { in.Location = "" }, "location"},
		{"unknown role", func(in *SyncInput) { in.Role = "chef" }, "role"},
		{"admin role", func(in *SyncInput) { in.Role = "admin" }, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, _ := newAuthFixture()
			in := validSync()
			tt.edit(in)

			_, _, err := svc.SyncExternalIdentity(context.Background(), in)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
			if users.Len() != 0 {
				t.Errorf("nothing should be stored, got %d users", users.Len())
			}
		})
	}
}

func TestSyncDefaultsToBuyer(t *testing.T) {
	svc, _, _ := newAuthFixture()
	in := validSync()
	in.Role = ""

	res, _, err := svc.SyncExternalIdentity(context.Background(), in)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if res.User.Role != domain.RoleBuyer {
		t.Errorf("role = %s, want buyer", res.User.Role)
	}
}

func TestSyncCannotEscalateToAdmin(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()
	if _, _, err := svc.SyncExternalIdentity(ctx, validSync()); err != nil {
		t.Fatalf("sync: %v", err)
	}

	in := validSync()
	in.Role = "admin"
	_, _, err := svc.SyncExternalIdentity(ctx, in)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

// racingUserRepo inserts a competing record just before the first Create,
// the way a concurrent first sync would.
type racingUserRepo struct {
	*testutil.UserRepo
	raced bool
}

func (r *racingUserRepo) Create(ctx context.Context, u *models.User) error {
	if !r.raced {
		r.raced = true
		clerkID := *u.ClerkID
		winner := &models.User{
			ClerkID:  &clerkID,
			Name:     u.Name,
			Email:    u.Email,
			Role:     u.Role,
			Phone:    u.Phone,
			Location: u.Location,
			Approved: true,
		}
		if err := r.UserRepo.Create(ctx, winner); err != nil {
			return err
		}
	}
	return r.UserRepo.Create(ctx, u)
}

func TestSyncRetriesAfterConcurrentInsert(t *testing.T) {
	users := &racingUserRepo{UserRepo: testutil.NewUserRepo()}
	pub := &testutil.Publisher{}
	svc := NewAuthService(users, NewNotificationService(pub), testutil.Config())

	res, created, err := svc.SyncExternalIdentity(context.Background(), validSync())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if created {
		t.Error("the losing sync should resolve to the existing record")
	}
	if users.Len() != 1 {
		t.Errorf("expected 1 user, got %d", users.Len())
	}
	if res.User.ClerkID == nil || *res.User.ClerkID != "clerk_1" {
		t.Errorf("unexpected user %+v", res.User)
	}
	if len(pub.Events()) != 0 {
		t.Errorf("no event expected for the loser, got %v", pub.Events())
	}
}

func TestRegister(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	res, err := svc.Register(ctx, &RegisterInput{
		Name:     "Carol",
		Email:    " Carol@Example.com ",
		Password: "secret1",
		Role:     "farmer",
		Phone:    "0711",
		Location: "Kisumu",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.Email != "carol@example.com" || res.User.Role != domain.RoleFarmer {
		t.Errorf("unexpected user %+v", res.User)
	}
	if res.User.PasswordHash == "secret1" || res.User.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	claims, err := jwt.ValidateToken(res.Token, "test-secret")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if claims.UserID != res.User.ID {
		t.Errorf("token subject = %s, want %s", claims.UserID, res.User.ID)
	}
	if ttl := time.Until(claims.ExpiresAt.Time); ttl < 29*24*time.Hour {
		t.Errorf("token ttl too short: %v", ttl)
	}

	_, err = svc.Register(ctx, &RegisterInput{
		Name: "Carol 2", Email: "carol@example.com", Password: "secret2", Phone: "1", Location: "x",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
	if users.Len() != 1 {
		t.Errorf("expected 1 user, got %d", users.Len())
	}
}

func TestRegisterValidation(t *testing.T) {
	base := RegisterInput{Name: "D", Email: "d@x.io", Password: "secret1", Phone: "1", Location: "x"}
	tests := []struct {
		name  string
		edit  func(*RegisterInput)
		field string
	}{
		{"short password", func(in *RegisterInput) { in.Password = "abc" }, "password"},
		{"password over bcrypt limit", func(in *RegisterInput) { in.Password = strings.Repeat("p", 80) }, "password"},
		{"bad email", func(in *RegisterInput) { in.Email = "nope" }, "email"},
		{"admin role", func(in *RegisterInput) { in.Role = "admin" }, "role"},
		{"missing name", func(in *RegisterInput) { in.Name = "" }, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newAuthFixture()
			in := base
			tt.edit(&in)
			_, err := svc.Register(context.Background(), &in)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Fatalf("expected validation error on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()
	u := seedLegacy(t, users, "erin@example.com", "secret1", true)
	seedLegacy(t, users, "pending@example.com", "secret1", false)

	res, err := svc.Login(ctx, &LoginInput{Email: "ERIN@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.User.ID != u.ID || res.Token == "" {
		t.Errorf("unexpected result %+v", res)
	}

	if _, err := svc.Login(ctx, &LoginInput{Email: "erin@example.com", Password: "wrong!!"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := svc.Login(ctx, &LoginInput{Email: "ghost@example.com", Password: "secret1"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v", err)
	}
	for _, pw := range []string{"secret1", "wrong!!"} {
		if _, err := svc.Login(ctx, &LoginInput{Email: "pending@example.com", Password: pw}); !errors.Is(err, domain.ErrPendingApproval) {
			t.Errorf("pending account with %q: got %v", pw, err)
		}
	}
}

func TestLoginProviderOnlyAccount(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()
	if _, _, err := svc.SyncExternalIdentity(ctx, validSync()); err != nil {
		t.Fatalf("sync: %v", err)
	}

	_, err := svc.Login(ctx, &LoginInput{Email: "alice@example.com", Password: "anything"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected invalid credentials, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()
	u := seedLegacy(t, users, "fay@example.com", "secret1", true)

	token, err := jwt.GenerateToken(u.ID, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	got, err := svc.Authenticate(ctx, token)
	if err != nil || got.ID != u.ID {
		t.Fatalf("authenticate: %v %+v", err, got)
	}

	if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, domain.ErrTokenMissing) {
		t.Errorf("empty token: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "garbage"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("garbage token: %v", err)
	}
	other, _ := jwt.GenerateToken(u.ID, "other-secret", time.Hour)
	if _, err := svc.Authenticate(ctx, other); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("foreign token: %v", err)
	}

	if err := users.Delete(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Errorf("deleted user: %v", err)
	}
}

func TestAuthorize(t *testing.T) {
	farmer := &models.User{ID: "f", Role: domain.RoleFarmer}

	if err := Authorize(farmer); err != nil {
		t.Errorf("no roles should pass: %v", err)
	}
	if err := Authorize(farmer, domain.RoleFarmer, domain.RoleAdmin); err != nil {
		t.Errorf("farmer should pass: %v", err)
	}
	if err := Authorize(farmer, domain.RoleBuyer); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
	if err := Authorize(nil, domain.RoleBuyer); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}
