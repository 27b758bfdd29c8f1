package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	apperrors "github.com/yashrajoria/storefront-service/common/errors"
	"github.com/yashrajoria/storefront-service/common/logger"
	"github.com/yashrajoria/storefront-service/models"
	"github.com/yashrajoria/storefront-service/repository"
	"go.uber.org/zap"
)

// AdminService maintains the catalog.
type AdminService struct {
	store  repository.Store
	cache  ProductCache
	logger *zap.Logger
}

func NewAdminService(store repository.Store, cache ProductCache, logger *zap.Logger) *AdminService {
	return &AdminService{store: store, cache: cache, logger: logger}
}

func (s *AdminService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if err := s.store.Categories().Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("A category with this slug already exists.")
		}
		logger.FromContext(ctx, s.logger).Error("Failed to create category", zap.Error(err))
		return nil, apperrors.Internal("Failed to create category", err)
	}

	s.invalidate(ctx)
	logger.FromContext(ctx, s.logger).Info("Category created", zap.String("slug", category.Slug))
	return category, nil
}

func (s *AdminService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if !req.Price.IsPositive() {
		return nil, apperrors.Validation("Price must be greater than 0.")
	}
	if req.Stock < 0 {
		return nil, apperrors.Validation("Stock cannot be negative.")
	}

	if _, err := s.store.Categories().FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Category not found.")
		}
		return nil, apperrors.Internal("Failed to load category", err)
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	product := &models.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price.Round(2),
		Stock:       req.Stock,
		Available:   available,
	}
	if err := s.store.Products().Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("A product with this slug already exists.")
		}
		logger.FromContext(ctx, s.logger).Error("Failed to create product", zap.Error(err))
		return nil, apperrors.Internal("Failed to create product", err)
	}

	s.invalidate(ctx)
	logger.FromContext(ctx, s.logger).Info("Product created", zap.String("product_id", product.ID.String()))
	return product, nil
}

// UpdateProduct edits price, stock and availability under the product row
// lock, so an edit never interleaves with a checkout of the same product.
func (s *AdminService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	if req.Price != nil && !req.Price.IsPositive() {
		return nil, apperrors.Validation("Price must be greater than 0.")
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, apperrors.Validation("Stock cannot be negative.")
	}

	var product *models.Product
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		p, err := tx.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req.Price != nil {
			p.Price = req.Price.Round(2)
		}
		if req.Stock != nil {
			p.Stock = *req.Stock
		}
		if req.Available != nil {
			p.Available = *req.Available
		}
		if err := tx.Products().Update(ctx, p); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Product not found.")
		}
		logger.FromContext(ctx, s.logger).Error("Failed to update product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to update product", err)
	}

	s.invalidate(ctx, id)
	return product, nil
}

func (s *AdminService) CreateSlide(ctx context.Context, req *models.CreateSlideRequest) (*models.Slide, error) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	slide := &models.Slide{
		Title:        req.Title,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		LinkURL:      req.LinkURL,
		DisplayOrder: req.DisplayOrder,
		IsActive:     active,
	}
	if err := s.store.Slides().Create(ctx, slide); err != nil {
		return nil, apperrors.Internal("Failed to create slide", err)
	}
	return slide, nil
}

func (s *AdminService) invalidate(ctx context.Context, ids ...uuid.UUID) {
	if s.cache != nil {
		s.cache.InvalidateProducts(ctx, ids...)
	}
}
