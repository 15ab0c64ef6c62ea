package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/catalog"
	"github.com/kiylo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductService handles product catalog operations. Product writes carry
// the whole variant set: updates wipe and reinsert variants so the stored
// set always mirrors the submitted one.
type ProductService struct {
	scope    TransactionScope
	products catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(scope TransactionScope, products catalog.ProductRepository) *ProductService {
	return &ProductService{scope: scope, products: products}
}

// Create creates a product with its variant set in one transaction
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	slug := req.Slug
	if slug == "" {
		slug = catalog.Slugify(req.Name)
	}
	product, err := catalog.NewProduct(req.Name, slug, req.BasePrice)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.Summary = req.Summary
	product.MainImage = req.MainImage
	product.SetCategory(req.CategoryID)
	product.SetBrand(req.BrandID)
	product.SetFeatured(req.IsFeatured)

	variants, err := buildVariants(product.ID, req.Variants)
	if err != nil {
		return nil, err
	}
	product.Variants = variants
	for _, url := range req.Images {
		product.AddImage(url, url == req.MainImage)
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if existing, err := repos.Products().FindBySlug(ctx, product.Slug); err == nil && existing != nil {
			return shared.NewDomainErrorf("ALREADY_EXISTS", "Product slug %q is already in use", product.Slug)
		} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		return repos.Products().Save(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Update rewrites a product and replaces its variant set with the
// submitted one. Removed variants disappear; their ledger history remains.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	var updated *catalog.Product
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := product.Update(req.Name, req.Description, req.Summary); err != nil {
			return err
		}
		if err := product.SetBasePrice(req.BasePrice); err != nil {
			return err
		}
		product.MainImage = req.MainImage
		product.SetCategory(req.CategoryID)
		product.SetBrand(req.BrandID)
		product.SetFeatured(req.IsFeatured)
		if req.IsActive != nil {
			if *req.IsActive {
				product.Activate()
			} else {
				product.Deactivate()
			}
		}

		variants, err := buildVariants(product.ID, req.Variants)
		if err != nil {
			return err
		}
		if err := repos.Variants().ReplaceForProduct(ctx, product.ID, variants); err != nil {
			return err
		}
		product.Variants = variants

		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(updated)
	return &response, nil
}

// GetByID retrieves a product with variants and images
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySlug retrieves a product by its storefront slug
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List returns product summaries matching the filter
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[catalog.ProductSummary], error) {
	f := filter.ToFilter()
	items, err := s.products.List(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.products.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(items, total, f.Page, f.Limit())
	return &page, nil
}

// Delete removes a product and its variants and images
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

func buildVariants(productID uuid.UUID, inputs []VariantInput) ([]catalog.Variant, error) {
	seen := make(map[string]struct{}, len(inputs))
	variants := make([]catalog.Variant, 0, len(inputs))
	for _, in := range inputs {
		v, err := catalog.NewVariant(productID, in.SKU)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[v.SKU]; dup {
			return nil, shared.NewDomainErrorf("ALREADY_EXISTS", "Duplicate SKU %s in variant set", v.SKU)
		}
		seen[v.SKU] = struct{}{}

		v.Color = in.Color
		v.Size = in.Size
		v.AdditionalVariance = in.AdditionalVariance
		if in.Price != nil {
			v.Price = decimal.NewNullDecimal(*in.Price)
		}
		v.PriceAdjustment = in.PriceAdjustment
		if in.StockQuantity < 0 {
			return nil, shared.NewDomainErrorf("INVALID_INPUT", "Stock for %s cannot be negative", v.SKU)
		}
		v.StockQuantity = in.StockQuantity
		v.ImageURL = in.ImageURL
		if in.ReorderThreshold != nil {
			v.ReorderThreshold = *in.ReorderThreshold
		}
		variants = append(variants, *v)
	}
	return variants, nil
}
