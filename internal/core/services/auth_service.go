package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"agrismart-api/internal/adapters/persistence/models"
	"agrismart-api/internal/adapters/persistence/repositories"
	"agrismart-api/internal/config"
	"agrismart-api/internal/core/domain"
	"agrismart-api/internal/pkg/jwt"
	"agrismart-api/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles authentication business logic: legacy credentials,
// identity-provider reconciliation and the authorization gate.
type AuthService struct {
	userRepo   repositories.UserRepository
	notify     *NotificationService
	secret     string
	tokenTTL   time.Duration
	bcryptCost int
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	notify *NotificationService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		notify:     notify,
		secret:     cfg.JWT.Secret,
		tokenTTL:   cfg.TokenTTL(),
		bcryptCost: cfg.BcryptCost,
	}
}

// VerifyCredentials reports whether candidate matches the stored hash.
// Accounts without a hash (identity-provider only) never match.
func (s *AuthService) VerifyCredentials(user *models.User, candidate string) bool {
	if user == nil {
		return false
	}
	return password.Verify(candidate, user.PasswordHash)
}

// SyncExternalIdentity merges an identity-provider event into the user store.
// Lookup order: provider id, then email (linking a legacy account), then create.
// created is true only when a new record was inserted.
func (s *AuthService) SyncExternalIdentity(ctx context.Context, input *SyncInput) (result *AuthResult, created bool, err error) {
	in := trimSync(input)
	if in.ClerkID == "" {
		return nil, false, domain.Invalid("clerkId", "Identity provider id is required")
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		return nil, false, domain.Invalid("email", "Email is invalid")
	}

	result, created, err = s.reconcile(ctx, in)
	if errors.Is(err, gorm.ErrDuplicatedKey) && created {
		// A concurrent first sync inserted the same identity; resolve to it.
		log.Printf("⚠️ Concurrent identity sync for %s, retrying lookup", in.Email)
		result, created, err = s.reconcile(ctx, in)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, domain.ErrEmailTaken
		}
	}
	if err != nil {
		return nil, false, err
	}

	if created {
		s.notify.IdentityCreated(ctx, result.User)
	}
	return result, created, nil
}

// reconcile runs one pass of the three ordered lookups. When the insert in the
// last step fails, created is still true so the caller can tell where it failed.
func (s *AuthService) reconcile(ctx context.Context, in SyncInput) (*AuthResult, bool, error) {
	// 1. Already linked
	user, err := s.userRepo.GetByClerkID(ctx, in.ClerkID)
	if err == nil {
		if err := applySync(user, in); err != nil {
			return nil, false, err
		}
		if in.Email != "" {
			user.Email = domain.NormalizeEmail(in.Email)
		}
		if err := s.saveUser(ctx, user); err != nil {
			return nil, false, err
		}
		log.Printf("✅ Identity updated: %s", user.Email)
		return s.issue(user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("lookup by clerk id: %w", err)
	}

	if in.Email == "" {
		return nil, false, domain.Invalid("email", "Email is required")
	}

	// 2. Legacy account with the same email
	user, err = s.userRepo.GetByEmail(ctx, in.Email)
	if err == nil {
		if err := applySync(user, in); err != nil {
			return nil, false, err
		}
		clerkID := in.ClerkID
		user.ClerkID = &clerkID
		user.Approved = true
		if err := s.saveUser(ctx, user); err != nil {
			return nil, false, err
		}
		log.Printf("✅ Identity linked: %s", user.Email)
		return s.issue(user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("lookup by email: %w", err)
	}

	// 3. New identity
	role := domain.DefaultRole
	if in.Role != "" {
		r, ok := domain.ParseRole(in.Role)
		if !ok || !r.SelfAssignable() {
			return nil, false, invalidRole()
		}
		role = r
	}
	if in.Name == "" {
		return nil, false, domain.Invalid("name", "Name is required")
	}
	if in.Phone == "" {
		return nil, false, domain.Invalid("phone", "Phone number is required")
	}
	if in.Location == "" {
		return nil, false, domain.Invalid("location", "Location is required")
	}

	clerkID := in.ClerkID
	user = &models.User{
		ClerkID:  &clerkID,
		Name:     in.Name,
		Email:    domain.NormalizeEmail(in.Email),
		Role:     role,
		Phone:    in.Phone,
		Location: in.Location,
		Approved: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, true, err
	}

	log.Printf("✅ Identity created: %s (%s)", user.Email, user.Role)
	res, _, err := s.issue(user)
	return res, true, err
}

// applySync overwrites fields with the non-empty values of in. Email is
// handled by the caller because only the provider-id path may change it.
func applySync(user *models.User, in SyncInput) error {
	if in.Role != "" {
		r, ok := domain.ParseRole(in.Role)
		if !ok {
			return invalidRole()
		}
		// No escalation through the public sync endpoint.
		if r == domain.RoleAdmin && user.Role != domain.RoleAdmin {
			return invalidRole()
		}
		user.Role = r
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.Location != "" {
		user.Location = in.Location
	}
	return nil
}

func (s *AuthService) saveUser(ctx context.Context, user *models.User) error {
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

// GetByClerkID gets a user by identity provider id
func (s *AuthService) GetByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	user, err := s.userRepo.GetByClerkID(ctx, strings.TrimSpace(clerkID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Register registers a new legacy (password) account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := domain.NormalizeEmail(input.Email)
	phone := strings.TrimSpace(input.Phone)
	location := strings.TrimSpace(input.Location)

	// 1. Validate input
	switch {
	case name == "":
		return nil, domain.Invalid("name", "Name is required")
	case email == "":
		return nil, domain.Invalid("email", "Email is required")
	case !strings.Contains(email, "@"):
		return nil, domain.Invalid("email", "Email is invalid")
	case len(input.Password) > password.MaxLength:
		return nil, domain.Invalid("password", "Password must be at most %d bytes", password.MaxLength)
	case !password.ValidatePassword(input.Password):
		return nil, domain.Invalid("password", "Password must be at least %d characters", password.MinLength)
	case phone == "":
		return nil, domain.Invalid("phone", "Phone number is required")
	case location == "":
		return nil, domain.Invalid("location", "Location is required")
	}

	role := domain.DefaultRole
	if strings.TrimSpace(input.Role) != "" {
		r, ok := domain.ParseRole(input.Role)
		if !ok || !r.SelfAssignable() {
			return nil, invalidRole()
		}
		role = r
	}

	// 2. Check if email already exists
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	// 3. Hash password
	hashedPassword, err := password.Hash(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	// 4. Create user
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
		Phone:        phone,
		Location:     location,
		Approved:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	log.Printf("✅ User registered: %s (%s)", user.Email, user.Role)

	res, _, err := s.issue(user)
	return res, err
}

// Login authenticates a legacy account
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResult, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" {
		return nil, domain.Invalid("email", "Email is required")
	}
	if input.Password == "" {
		return nil, domain.Invalid("password", "Password is required")
	}

	// 1. Find user by email
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Unapproved accounts are turned away whatever the password
	if !user.Approved {
		return nil, domain.ErrPendingApproval
	}

	// 3. Verify password
	if !s.VerifyCredentials(user, input.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	log.Printf("✅ User logged in: %s", user.Email)

	res, _, err := s.issue(user)
	return res, err
}

// Authenticate resolves a session credential to its identity
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, domain.ErrTokenMissing
	}

	claims, err := jwt.ValidateToken(token, s.secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, err
	}
	return user, nil
}

// Authorize passes iff user holds one of roles. No roles means any
// authenticated identity passes.
func Authorize(user *models.User, roles ...domain.Role) error {
	if user == nil {
		return domain.ErrIdentityNotFound
	}
	if len(roles) == 0 {
		return nil
	}
	for _, r := range roles {
		if user.Role == r {
			return nil
		}
	}
	return domain.ErrRoleNotPermitted
}

// issue signs a session credential for user
func (s *AuthService) issue(user *models.User) (*AuthResult, bool, error) {
	token, err := jwt.GenerateToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return nil, false, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, false, nil
}

func trimSync(in *SyncInput) SyncInput {
	return SyncInput{
		ClerkID:  strings.TrimSpace(in.ClerkID),
		Email:    strings.TrimSpace(in.Email),
		Name:     strings.TrimSpace(in.Name),
		Role:     strings.TrimSpace(in.Role),
		Phone:    strings.TrimSpace(in.Phone),
		Location: strings.TrimSpace(in.Location),
	}
}

func invalidRole() error {
	return domain.Invalid("role", "Role must be farmer or buyer")
}
