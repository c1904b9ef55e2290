package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"agrismart-api/internal/adapters/persistence/models"
	"agrismart-api/internal/adapters/persistence/repositories"
	"agrismart-api/internal/core/domain"

	"gorm.io/gorm"
)

// ProductService handles catalog business logic
type ProductService struct {
	productRepo repositories.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repositories.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ListCatalog lists approved products. An empty category or "All" means any.
func (s *ProductService) ListCatalog(ctx context.Context, category, search string) ([]*models.Product, error) {
	filter := repositories.ProductFilter{Search: strings.TrimSpace(search)}

	if category = strings.TrimSpace(category); category != "" && category != "All" {
		c, ok := domain.ParseCategory(category)
		if !ok {
			return nil, invalidCategory()
		}
		filter.Category = c
	}

	return s.productRepo.ListApproved(ctx, filter)
}

// ListByFarmer lists the farmer's own products
func (s *ProductService) ListByFarmer(ctx context.Context, farmerID string) ([]*models.Product, error) {
	return s.productRepo.ListByFarmer(ctx, farmerID)
}

// Create creates a listing owned by farmer
func (s *ProductService) Create(ctx context.Context, farmer *models.User, input *CreateProductInput) (*models.Product, error) {
	if err := Authorize(farmer, domain.RoleFarmer); err != nil {
		return nil, err
	}

	product := &models.Product{
		FarmerID: farmer.ID,
		Image:    strings.TrimSpace(input.Image),
		Approved: true,
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.Invalid("name", "Product name is required")
	}
	product.Name = name

	category, ok := domain.ParseCategory(strings.TrimSpace(input.Category))
	if !ok {
		if strings.TrimSpace(input.Category) == "" {
			return nil, domain.Invalid("category", "Category is required")
		}
		return nil, invalidCategory()
	}
	product.Category = category

	if input.Price == nil {
		return nil, domain.Invalid("price", "Price is required")
	}
	if err := setPrice(product, *input.Price); err != nil {
		return nil, err
	}

	if input.Quantity == nil {
		return nil, domain.Invalid("quantity", "Quantity is required")
	}
	if err := setQuantity(product, *input.Quantity); err != nil {
		return nil, err
	}

	unit, ok := domain.ParseUnit(strings.TrimSpace(input.Unit))
	if !ok {
		if strings.TrimSpace(input.Unit) == "" {
			return nil, domain.Invalid("unit", "Unit is required")
		}
		return nil, invalidUnit()
	}
	product.Unit = unit

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.Invalid("description", "Description is required")
	}
	product.Description = description

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	log.Printf("✅ Product created: %s by %s", product.Name, farmer.Email)
	return product, nil
}

// Update applies a partial update. Only the owning farmer may update.
func (s *ProductService) Update(ctx context.Context, actor *models.User, id string, input *UpdateProductInput) (*models.Product, error) {
	product, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.Invalid("name", "Product name is required")
		}
		product.Name = name
	}
	if input.Category != nil {
		c, ok := domain.ParseCategory(strings.TrimSpace(*input.Category))
		if !ok {
			return nil, invalidCategory()
		}
		product.Category = c
	}
	if input.Price != nil {
		if err := setPrice(product, *input.Price); err != nil {
			return nil, err
		}
	}
	if input.Quantity != nil {
		if err := setQuantity(product, *input.Quantity); err != nil {
			return nil, err
		}
	}
	if input.Unit != nil {
		u, ok := domain.ParseUnit(strings.TrimSpace(*input.Unit))
		if !ok {
			return nil, invalidUnit()
		}
		product.Unit = u
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, domain.Invalid("description", "Description is required")
		}
		product.Description = description
	}
	if input.Image != nil {
		product.Image = strings.TrimSpace(*input.Image)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product. Only the owning farmer may delete.
func (s *ProductService) Delete(ctx context.Context, actor *models.User, id string) error {
	product, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return err
	}

	log.Printf("✅ Product deleted: %s by %s", product.ID, actor.Email)
	return nil
}

// getOwned loads a product and checks the actor owns it
func (s *ProductService) getOwned(ctx context.Context, actor *models.User, id string) (*models.Product, error) {
	if err := Authorize(actor, domain.RoleFarmer); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	if product.FarmerID != actor.ID {
		return nil, domain.ErrNotProductOwner
	}
	return product, nil
}

func setPrice(p *models.Product, price float64) error {
	if price < 0 {
		return domain.Invalid("price", "Price must be zero or more")
	}
	p.Price = price
	return nil
}

func setQuantity(p *models.Product, quantity float64) error {
	if quantity < 0 {
		return domain.Invalid("quantity", "Quantity must be zero or more")
	}
	p.Quantity = quantity
	return nil
}

func invalidCategory() error {
	return domain.Invalid("category", "Category must be one of Vegetables, Fruits, Dairy, Cereals")
}

func invalidUnit() error {
	return domain.Invalid("unit", "Unit must be one of kg, lbs, units, liters")
}
