package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	apperrors "github.com/yashrajoria/storefront-service/common/errors"
	"github.com/yashrajoria/storefront-service/common/logger"
	"github.com/yashrajoria/storefront-service/models"
	aws_pkg "github.com/yashrajoria/storefront-service/pkg/aws"
	"github.com/yashrajoria/storefront-service/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProductListing is the catalog page: every category, the selected one (if
// any) and the available products in it.
type ProductListing struct {
	Categories []models.Category `json:"categories"`
	Category   *models.Category  `json:"category"`
	Products   []models.Product  `json:"products"`
}

type CatalogService struct {
	store   repository.Store
	cache   ProductCache
	metrics *aws_pkg.MetricsClient
	logger  *zap.Logger
}

// NewCatalogService creates a CatalogService. cache and metrics may be nil.
func NewCatalogService(store repository.Store, cache ProductCache, metrics *aws_pkg.MetricsClient, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		store:   store,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// ListProducts returns available products ordered by name, restricted to
// the category with categorySlug when it is not empty.
func (s *CatalogService) ListProducts(ctx context.Context, categorySlug string) (*ProductListing, error) {
	cacheKey := "all"
	if categorySlug != "" {
		cacheKey = "category:" + categorySlug
	}

	if s.cache != nil {
		var cached ProductListing
		if s.cache.GetListing(ctx, cacheKey, &cached) {
			recordCount(s.metrics, aws_pkg.MetricProductCacheHit, map[string]string{"Kind": "listing"})
			return &cached, nil
		}
	}

	listing := &ProductListing{}
	var categoryID *uuid.UUID
	if categorySlug != "" {
		category, err := s.store.Categories().FindBySlug(ctx, categorySlug)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFound("Category not found.")
			}
			return nil, apperrors.Internal("Failed to load category", err)
		}
		listing.Category = category
		categoryID = &category.ID
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		categories, err := s.store.Categories().FindAll(gctx)
		if err != nil {
			return err
		}
		listing.Categories = categories
		return nil
	})
	g.Go(func() error {
		products, err := s.store.Products().FindAvailable(gctx, categoryID)
		if err != nil {
			return err
		}
		listing.Products = products
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.FromContext(ctx, s.logger).Error("Failed to list products", zap.String("category", categorySlug), zap.Error(err))
		return nil, apperrors.Internal("Failed to list products", err)
	}

	if s.cache != nil {
		s.cache.SetListing(ctx, cacheKey, listing)
	}
	return listing, nil
}

// GetProduct returns the available product whose id and slug both match.
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID, slug string) (*models.Product, error) {
	if s.cache != nil {
		if product, ok := s.cache.GetProduct(ctx, id); ok && product.Slug == slug && product.Available {
			recordCount(s.metrics, aws_pkg.MetricProductCacheHit, map[string]string{"Kind": "product"})
			return product, nil
		}
	}

	product, err := s.store.Products().FindAvailableByIDAndSlug(ctx, id, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Product not found.")
		}
		return nil, apperrors.Internal("Failed to load product", err)
	}

	if s.cache != nil {
		s.cache.SetProduct(ctx, product)
	}
	return product, nil
}

// ListSlides returns the active landing page slides in display order.
func (s *CatalogService) ListSlides(ctx context.Context) ([]models.Slide, error) {
	slides, err := s.store.Slides().FindActive(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to load slides", err)
	}
	return slides, nil
}
