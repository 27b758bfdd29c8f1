package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned when a conditional stock decrement
	// matches no row.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// Store hands out repositories bound to one database handle. Inside
// WithinTx the handle is the transaction, so every repository obtained from
// tx reads and writes inside it.
type Store interface {
	Categories() CategoryRepository
	Products() ProductRepository
	Slides() SlideRepository
	Carts() CartRepository
	Orders() OrderRepository
	Wishlists() WishlistRepository

	// WithinTx runs fn as one unit of work. A returned error or a panic
	// rolls back everything written through tx; otherwise it commits.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

// GormStore implements Store on top of a *gorm.DB.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new instance of GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Categories() CategoryRepository { return NewGormCategoryRepository(s.db) }
func (s *GormStore) Products() ProductRepository    { return NewGormProductRepository(s.db) }
func (s *GormStore) Slides() SlideRepository        { return NewGormSlideRepository(s.db) }
func (s *GormStore) Carts() CartRepository          { return NewGormCartRepository(s.db) }
func (s *GormStore) Orders() OrderRepository        { return NewGormOrderRepository(s.db) }
func (s *GormStore) Wishlists() WishlistRepository  { return NewGormWishlistRepository(s.db) }

// WithinTx runs fn inside a gorm transaction.
func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return ErrDuplicate
	}
	return err
}

// isUniqueViolation covers connections opened without TranslateError.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "duplicate key value")
}
