// Package testutil holds in-memory repositories and helpers shared by tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"agrismart-api/internal/adapters/persistence/models"
	"agrismart-api/internal/adapters/persistence/repositories"
	"agrismart-api/internal/config"
	"agrismart-api/internal/core/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Config returns a dev-mode config with the cheapest bcrypt cost.
func Config() *config.Config {
	return &config.Config{
		AppMode:    "dev",
		BcryptCost: bcrypt.MinCost,
		JWT:        config.JWTConfig{Secret: "test-secret", TTLDays: 30},
	}
}

// clock hands out strictly increasing timestamps so newest-first ordering is deterministic.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now.IsZero() {
		c.now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	c.now = c.now.Add(time.Second)
	return c.now
}

// UserRepo is an in-memory repositories.UserRepository that enforces the
// unique email and clerk id the way the database does.
type UserRepo struct {
	mu     sync.Mutex
	users  map[string]models.User
	nextID int
	clock  *clock
	Err    error
}

var (
	_ repositories.UserRepository    = (*UserRepo)(nil)
	_ repositories.ProductRepository = (*ProductRepo)(nil)
	_ repositories.MessageRepository = (*MessageRepo)(nil)
)

func NewUserRepo() *UserRepo {
	return &UserRepo{users: map[string]models.User{}, clock: &clock{}}
}

func (r *UserRepo) conflicts(u *models.User) bool {
	for id, other := range r.users {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email {
			return true
		}
		if u.ClerkID != nil && other.ClerkID != nil && *u.ClerkID == *other.ClerkID {
			return true
		}
	}
	return false
}

func (r *UserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if u.ID == "" {
		r.nextID++
		u.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	if r.conflicts(u) {
		return gorm.ErrDuplicatedKey
	}
	u.CreatedAt = r.clock.tick()
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepo) find(match func(models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.users {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = domain.NormalizeEmail(email)
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *UserRepo) GetByClerkID(_ context.Context, clerkID string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ClerkID != nil && *u.ClerkID == clerkID })
}

func (r *UserRepo) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if r.conflicts(u) {
		return gorm.ErrDuplicatedKey
	}
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *UserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		cp := u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if limit < 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *UserRepo) count(match func(models.User) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if match(u) {
			n++
		}
	}
	return n
}

func (r *UserRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	return r.count(func(u models.User) bool { return u.Role == role }), nil
}

func (r *UserRepo) CountPending(_ context.Context) (int64, error) {
	return r.count(func(u models.User) bool { return !u.Approved }), nil
}

// Len returns the number of stored users
func (r *UserRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// ProductRepo is an in-memory repositories.ProductRepository
type ProductRepo struct {
	mu       sync.Mutex
	products map[string]models.Product
	users    *UserRepo
	nextID   int
	clock    *clock
}

func NewProductRepo(users *UserRepo) *ProductRepo {
	return &ProductRepo{products: map[string]models.Product{}, users: users, clock: &clock{}}
}

func (r *ProductRepo) withFarmer(p models.Product) *models.Product {
	if r.users != nil {
		if u, err := r.users.GetByID(context.Background(), p.FarmerID); err == nil {
			p.Farmer = u
		}
	}
	return &p
}

func (r *ProductRepo) Create(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		r.nextID++
		p.ID = fmt.Sprintf("product-%d", r.nextID)
	}
	p.CreatedAt = r.clock.tick()
	r.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *ProductRepo) Update(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	cp.Farmer = nil
	r.products[p.ID] = cp
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *ProductRepo) sorted(match func(models.Product) bool) []*models.Product {
	r.mu.Lock()
	var out []models.Product
	for _, p := range r.products {
		if match(p) {
			out = append(out, p)
		}
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	res := make([]*models.Product, 0, len(out))
	for _, p := range out {
		res = append(res, r.withFarmer(p))
	}
	return res
}

func (r *ProductRepo) ListApproved(_ context.Context, f repositories.ProductFilter) ([]*models.Product, error) {
	needle := strings.ToLower(f.Search)
	return r.sorted(func(p models.Product) bool {
		if !p.Approved {
			return false
		}
		if f.Category != "" && p.Category != f.Category {
			return false
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
		return true
	}), nil
}

func (r *ProductRepo) ListByFarmer(_ context.Context, farmerID string) ([]*models.Product, error) {
	return r.sorted(func(p models.Product) bool { return p.FarmerID == farmerID }), nil
}

func (r *ProductRepo) List(_ context.Context, offset, limit int) ([]*models.Product, int64, error) {
	all := r.sorted(func(models.Product) bool { return true })
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if limit < 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *ProductRepo) CountPending(_ context.Context) (int64, error) {
	return int64(len(r.sorted(func(p models.Product) bool { return !p.Approved }))), nil
}

// MessageRepo is an in-memory repositories.MessageRepository
type MessageRepo struct {
	mu       sync.Mutex
	messages map[string]models.Message
	users    *UserRepo
	products *ProductRepo
	nextID   int
	clock    *clock
}

func NewMessageRepo(users *UserRepo, products *ProductRepo) *MessageRepo {
	return &MessageRepo{messages: map[string]models.Message{}, users: users, products: products, clock: &clock{}}
}

func (r *MessageRepo) hydrate(m models.Message) *models.Message {
	ctx := context.Background()
	if u, err := r.users.GetByID(ctx, m.BuyerID); err == nil {
		m.Buyer = u
	}
	if u, err := r.users.GetByID(ctx, m.FarmerID); err == nil {
		m.Farmer = u
	}
	if p, err := r.products.GetByID(ctx, m.ProductID); err == nil {
		m.Product = p
	}
	return &m
}

func (r *MessageRepo) Create(_ context.Context, m *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		r.nextID++
		m.ID = fmt.Sprintf("message-%d", r.nextID)
	}
	m.CreatedAt = r.clock.tick()
	r.messages[m.ID] = *m
	return nil
}

func (r *MessageRepo) GetByID(_ context.Context, id string) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *MessageRepo) GetWithParties(ctx context.Context, id string) (*models.Message, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.hydrate(*m), nil
}

func (r *MessageRepo) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.messages[id]
	m.Read = true
	r.messages[id] = m
	return nil
}

func (r *MessageRepo) list(match func(models.Message) bool) []*models.Message {
	r.mu.Lock()
	var out []models.Message
	for _, m := range r.messages {
		if match(m) {
			out = append(out, m)
		}
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	res := make([]*models.Message, 0, len(out))
	for _, m := range out {
		res = append(res, r.hydrate(m))
	}
	return res
}

func (r *MessageRepo) ListByFarmer(_ context.Context, farmerID string) ([]*models.Message, error) {
	return r.list(func(m models.Message) bool { return m.FarmerID == farmerID }), nil
}

func (r *MessageRepo) ListByBuyer(_ context.Context, buyerID string) ([]*models.Message, error) {
	return r.list(func(m models.Message) bool { return m.BuyerID == buyerID }), nil
}

func (r *MessageRepo) CountUnread(_ context.Context) (int64, error) {
	return int64(len(r.list(func(m models.Message) bool { return !m.Read }))), nil
}

// Publisher records routing keys instead of talking to a broker
type Publisher struct {
	mu     sync.Mutex
	events []string
	Err    error
}

func (p *Publisher) Publish(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, key)
	return p.Err
}

func (p *Publisher) Close() error { return nil }

func (p *Publisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

// SeedUser stores an approved password account with role
func SeedUser(t testing.TB, users *UserRepo, email string, role domain.Role) *models.User {
	t.Helper()
	u := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		Phone:        "0700",
		Location:     "Nairobi",
		Approved:     true,
	}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}
