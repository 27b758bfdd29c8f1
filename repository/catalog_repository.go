package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yashrajoria/storefront-service/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// FindAvailable lists available products ordered by name, optionally
	// restricted to one category.
	FindAvailable(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindAvailableByIDAndSlug(ctx context.Context, id uuid.UUID, slug string) (*models.Product, error)
	// FindByIDForUpdate reads the product and locks its row until the
	// surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// DecrementStock subtracts quantity only if enough stock remains.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
}

// SlideRepository defines the interface for slide data access
type SlideRepository interface {
	FindActive(ctx context.Context) ([]models.Slide, error)
	Create(ctx context.Context, slide *models.Slide) error
}

type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormCategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *GormCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error)
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindAvailable(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	var products []models.Product

	query := r.db.WithContext(ctx).Where("available = ?", true)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *GormProductRepository) FindAvailableByIDAndSlug(ctx context.Context, id uuid.UUID, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND slug = ? AND available = ?", id, slug, true).
		First(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *GormProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(product).Error)
}

// Update persists the admin-editable fields, including zero values.
func (r *GormProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).
		Model(product).
		Select("price", "stock", "available", "updated_at").
		Updates(product)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type GormSlideRepository struct {
	db *gorm.DB
}

func NewGormSlideRepository(db *gorm.DB) *GormSlideRepository {
	return &GormSlideRepository{db: db}
}

func (r *GormSlideRepository) FindActive(ctx context.Context) ([]models.Slide, error) {
	var slides []models.Slide
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC").
		Order("created_at DESC").
		Find(&slides).Error; err != nil {
		return nil, err
	}
	return slides, nil
}

func (r *GormSlideRepository) Create(ctx context.Context, slide *models.Slide) error {
	return r.db.WithContext(ctx).Create(slide).Error
}
