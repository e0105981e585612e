package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/catalog"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a product submission
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	SKU         string  `json:"sku" binding:"max=100"`
	Description string  `json:"description" binding:"max=500"`
	UnitPrice   float64 `json:"unit_price" binding:"gte=0"`
	TaxRate     float64 `json:"tax_rate" binding:"gte=0,lte=100"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"company_id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Description string    `json:"description"`
	UnitPrice   float64   `json:"unit_price"`
	TaxRate     float64   `json:"tax_rate"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		UnitPrice:   p.UnitPrice.InexactFloat64(),
		TaxRate:     p.TaxRate.InexactFloat64(),
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProductService handles product business operations
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, companyID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(companyID, req.Name, decimal.NewFromFloat(req.UnitPrice), decimal.NewFromFloat(req.TaxRate))
	if err != nil {
		return nil, err
	}

	if req.SKU != "" || req.Description != "" {
		if err := product.Update(req.Name, req.SKU, req.Description, product.UnitPrice, product.TaxRate); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update modifies an existing product. Existing document lines keep the
// prices they were created with.
func (s *ProductService) Update(ctx context.Context, companyID, id uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.SKU, req.Description, decimal.NewFromFloat(req.UnitPrice), decimal.NewFromFloat(req.TaxRate)); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Get returns one product
func (s *ProductService) Get(ctx context.Context, companyID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	page, err := s.productRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToProductResponse(&page.Items[i]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// Deactivate hides the product from new documents
func (s *ProductService) Deactivate(ctx context.Context, companyID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	product.Deactivate()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, companyID, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, companyID, id)
}
