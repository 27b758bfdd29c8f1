package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yashrajoria/storefront-service/models"
	"github.com/yashrajoria/storefront-service/repository"
)

// memData is one consistent snapshot of every table.
type memData struct {
	categories    map[uuid.UUID]models.Category
	products      map[uuid.UUID]models.Product
	slides        map[uuid.UUID]models.Slide
	carts         map[uuid.UUID]models.Cart
	cartItems     map[uuid.UUID]models.CartItem
	orders        map[uuid.UUID]models.Order
	orderItems    map[uuid.UUID]models.OrderItem
	wishlists     map[uuid.UUID]models.Wishlist
	wishlistItems map[uuid.UUID]models.WishlistItem
	clock         time.Time
}

func newMemData() *memData {
	return &memData{
		categories:    map[uuid.UUID]models.Category{},
		products:      map[uuid.UUID]models.Product{},
		slides:        map[uuid.UUID]models.Slide{},
		carts:         map[uuid.UUID]models.Cart{},
		cartItems:     map[uuid.UUID]models.CartItem{},
		orders:        map[uuid.UUID]models.Order{},
		orderItems:    map[uuid.UUID]models.OrderItem{},
		wishlists:     map[uuid.UUID]models.Wishlist{},
		wishlistItems: map[uuid.UUID]models.WishlistItem{},
		clock:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *memData) clone() *memData {
	return &memData{
		categories:    cloneMap(d.categories),
		products:      cloneMap(d.products),
		slides:        cloneMap(d.slides),
		carts:         cloneMap(d.carts),
		cartItems:     cloneMap(d.cartItems),
		orders:        cloneMap(d.orders),
		orderItems:    cloneMap(d.orderItems),
		wishlists:     cloneMap(d.wishlists),
		wishlistItems: cloneMap(d.wishlistItems),
		clock:         d.clock,
	}
}

func (d *memData) tick() time.Time {
	d.clock = d.clock.Add(time.Second)
	return d.clock
}

// fakeState is shared by a store and every transaction opened from it.
// Transactions are serialized, which is as strong as the row locks they
// stand in for.
type fakeState struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	data     *memData
	failures map[string]error
	txCount  int
}

// fakeStore implements repository.Store in memory. A transaction works on a
// private copy that replaces the live data only on commit.
type fakeStore struct {
	st   *fakeState
	snap *memData
}

func newFakeStore() *fakeStore {
	return &fakeStore{st: &fakeState{data: newMemData(), failures: map[string]error{}}}
}

// failOn makes the named repository method return err.
func (s *fakeStore) failOn(method string, err error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	s.st.failures[method] = err
}

// view runs fn against the data this store sees, under the state lock.
func (s *fakeStore) view(method string, fn func(d *memData) error) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if err, ok := s.st.failures[method]; ok {
		return err
	}
	d := s.snap
	if d == nil {
		d = s.st.data
	}
	return fn(d)
}

func (s *fakeStore) Categories() repository.CategoryRepository { return fakeCategories{s} }
func (s *fakeStore) Products() repository.ProductRepository    { return fakeProducts{s} }
func (s *fakeStore) Slides() repository.SlideRepository        { return fakeSlides{s} }
func (s *fakeStore) Carts() repository.CartRepository          { return fakeCarts{s} }
func (s *fakeStore) Orders() repository.OrderRepository        { return fakeOrders{s} }
func (s *fakeStore) Wishlists() repository.WishlistRepository  { return fakeWishlists{s} }

func (s *fakeStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.snap != nil {
		return fn(s)
	}

	s.st.txMu.Lock()
	defer s.st.txMu.Unlock()

	s.st.mu.Lock()
	snap := s.st.data.clone()
	s.st.txCount++
	s.st.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(&fakeStore{st: s.st, snap: snap}); err != nil {
		return err
	}

	s.st.mu.Lock()
	s.st.data = snap
	s.st.mu.Unlock()
	return nil
}

// --- seeding and inspection helpers ---

func (s *fakeStore) seedCategory(name, slug string) models.Category {
	c := models.Category{ID: uuid.New(), Name: name, Slug: slug}
	_ = s.view("", func(d *memData) error {
		d.categories[c.ID] = c
		return nil
	})
	return c
}

func (s *fakeStore) seedProduct(category models.Category, name, price string, stock int) models.Product {
	p := models.Product{
		ID:         uuid.New(),
		CategoryID: category.ID,
		Name:       name,
		Slug:       slugify(name),
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		Available:  true,
	}
	_ = s.view("", func(d *memData) error {
		d.products[p.ID] = p
		return nil
	})
	return p
}

func (s *fakeStore) setProduct(p models.Product) {
	_ = s.view("", func(d *memData) error {
		d.products[p.ID] = p
		return nil
	})
}

func (s *fakeStore) product(id uuid.UUID) models.Product {
	var p models.Product
	_ = s.view("", func(d *memData) error {
		p = d.products[id]
		return nil
	})
	return p
}

func (s *fakeStore) cartLines(userID uuid.UUID) []models.CartItem {
	var lines []models.CartItem
	_ = s.view("", func(d *memData) error {
		for _, cart := range d.carts {
			if cart.UserID != userID {
				continue
			}
			for _, item := range d.cartItems {
				if item.CartID == cart.ID {
					lines = append(lines, item)
				}
			}
		}
		return nil
	})
	sortCartItems(lines)
	return lines
}

func (s *fakeStore) counts() (orders, orderItems int) {
	_ = s.view("", func(d *memData) error {
		orders, orderItems = len(d.orders), len(d.orderItems)
		return nil
	})
	return orders, orderItems
}

func slugify(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+'a'-'A')
		case r == ' ':
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

func sortCartItems(items []models.CartItem) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID.String() < items[j].ID.String()
	})
}

// --- repositories ---

type fakeCategories struct{ s *fakeStore }

func (r fakeCategories) FindAll(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := r.s.view("Categories.FindAll", func(d *memData) error {
		for _, c := range d.categories {
			out = append(out, c)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

func (r fakeCategories) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var found *models.Category
	err := r.s.view("Categories.FindBySlug", func(d *memData) error {
		for _, c := range d.categories {
			if c.Slug == slug {
				c := c
				found = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return found, err
}

func (r fakeCategories) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var found *models.Category
	err := r.s.view("Categories.FindByID", func(d *memData) error {
		c, ok := d.categories[id]
		if !ok {
			return repository.ErrNotFound
		}
		found = &c
		return nil
	})
	return found, err
}

func (r fakeCategories) Create(ctx context.Context, category *models.Category) error {
	return r.s.view("Categories.Create", func(d *memData) error {
		for _, c := range d.categories {
			if c.Slug == category.Slug {
				return repository.ErrDuplicate
			}
		}
		category.ID = uuid.New()
		category.CreatedAt = d.tick()
		d.categories[category.ID] = *category
		return nil
	})
}

type fakeProducts struct{ s *fakeStore }

func (r fakeProducts) FindAvailable(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	err := r.s.view("Products.FindAvailable", func(d *memData) error {
		for _, p := range d.products {
			if !p.Available || (categoryID != nil && p.CategoryID != *categoryID) {
				continue
			}
			out = append(out, p)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

func (r fakeProducts) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var found *models.Product
	err := r.s.view("Products.FindByID", func(d *memData) error {
		p, ok := d.products[id]
		if !ok {
			return repository.ErrNotFound
		}
		found = &p
		return nil
	})
	return found, err
}

func (r fakeProducts) FindAvailableByIDAndSlug(ctx context.Context, id uuid.UUID, slug string) (*models.Product, error) {
	var found *models.Product
	err := r.s.view("Products.FindAvailableByIDAndSlug", func(d *memData) error {
		p, ok := d.products[id]
		if !ok || p.Slug != slug || !p.Available {
			return repository.ErrNotFound
		}
		if c, ok := d.categories[p.CategoryID]; ok {
			p.Category = &c
		}
		found = &p
		return nil
	})
	return found, err
}

func (r fakeProducts) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var found *models.Product
	err := r.s.view("Products.FindByIDForUpdate", func(d *memData) error {
		p, ok := d.products[id]
		if !ok {
			return repository.ErrNotFound
		}
		found = &p
		return nil
	})
	return found, err
}

func (r fakeProducts) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.s.view("Products.DecrementStock", func(d *memData) error {
		p, ok := d.products[id]
		if !ok || p.Stock < quantity {
			return repository.ErrInsufficientStock
		}
		p.Stock -= quantity
		d.products[id] = p
		return nil
	})
}

func (r fakeProducts) Create(ctx context.Context, product *models.Product) error {
	return r.s.view("Products.Create", func(d *memData) error {
		for _, p := range d.products {
			if p.Slug == product.Slug {
				return repository.ErrDuplicate
			}
		}
		product.ID = uuid.New()
		product.CreatedAt = d.tick()
		d.products[product.ID] = *product
		return nil
	})
}

func (r fakeProducts) Update(ctx context.Context, product *models.Product) error {
	return r.s.view("Products.Update", func(d *memData) error {
		p, ok := d.products[product.ID]
		if !ok {
			return repository.ErrNotFound
		}
		p.Price, p.Stock, p.Available = product.Price, product.Stock, product.Available
		d.products[p.ID] = p
		return nil
	})
}

type fakeSlides struct{ s *fakeStore }

func (r fakeSlides) FindActive(ctx context.Context) ([]models.Slide, error) {
	var out []models.Slide
	err := r.s.view("Slides.FindActive", func(d *memData) error {
		for _, sl := range d.slides {
			if sl.IsActive {
				out = append(out, sl)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
		return nil
	})
	return out, err
}

func (r fakeSlides) Create(ctx context.Context, slide *models.Slide) error {
	return r.s.view("Slides.Create", func(d *memData) error {
		slide.ID = uuid.New()
		slide.CreatedAt = d.tick()
		d.slides[slide.ID] = *slide
		return nil
	})
}

type fakeCarts struct{ s *fakeStore }

func (r fakeCarts) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var found *models.Cart
	err := r.s.view("Carts.GetOrCreate", func(d *memData) error {
		for _, c := range d.carts {
			if c.UserID == userID {
				c := c
				found = &c
				return nil
			}
		}
		c := models.Cart{ID: uuid.New(), UserID: userID, CreatedAt: d.tick()}
		d.carts[c.ID] = c
		found = &c
		return nil
	})
	return found, err
}

func (r fakeCarts) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	err := r.s.view("Carts.ListItems", func(d *memData) error {
		for _, item := range d.cartItems {
			if item.CartID != cartID {
				continue
			}
			if p, ok := d.products[item.ProductID]; ok {
				item.Product = &p
			}
			out = append(out, item)
		}
		return nil
	})
	sortCartItems(out)
	return out, err
}

func (r fakeCarts) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	var found *models.CartItem
	err := r.s.view("Carts.FindItem", func(d *memData) error {
		for _, item := range d.cartItems {
			if item.CartID == cartID && item.ProductID == productID {
				item := item
				found = &item
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return found, err
}

func (r fakeCarts) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.s.view("Carts.CreateItem", func(d *memData) error {
		for _, existing := range d.cartItems {
			if existing.CartID == item.CartID && existing.ProductID == item.ProductID {
				return repository.ErrDuplicate
			}
		}
		item.ID = uuid.New()
		item.CreatedAt = d.tick()
		stored := *item
		stored.Product = nil
		d.cartItems[item.ID] = stored
		return nil
	})
}

func (r fakeCarts) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return r.s.view("Carts.UpdateItemQuantity", func(d *memData) error {
		item, ok := d.cartItems[itemID]
		if !ok {
			return repository.ErrNotFound
		}
		item.Quantity = quantity
		d.cartItems[itemID] = item
		return nil
	})
}

func (r fakeCarts) DeleteItem(ctx context.Context, cartID, productID uuid.UUID) (bool, error) {
	removed := false
	err := r.s.view("Carts.DeleteItem", func(d *memData) error {
		for id, item := range d.cartItems {
			if item.CartID == cartID && item.ProductID == productID {
				delete(d.cartItems, id)
				removed = true
			}
		}
		return nil
	})
	return removed, err
}

func (r fakeCarts) ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	var n int64
	err := r.s.view("Carts.ClearItems", func(d *memData) error {
		for id, item := range d.cartItems {
			if item.CartID == cartID {
				delete(d.cartItems, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

type fakeOrders struct{ s *fakeStore }

func (r fakeOrders) Create(ctx context.Context, order *models.Order) error {
	return r.s.view("Orders.Create", func(d *memData) error {
		order.ID = uuid.New()
		order.CreatedAt = d.tick()
		stored := *order
		stored.Items = nil
		d.orders[order.ID] = stored
		return nil
	})
}

func (r fakeOrders) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return r.s.view("Orders.CreateItem", func(d *memData) error {
		if _, ok := d.orders[item.OrderID]; !ok {
			return errors.New("order item references a missing order")
		}
		item.ID = uuid.New()
		d.orderItems[item.ID] = *item
		return nil
	})
}

func (r fakeOrders) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	var out []models.Order
	var total int64
	err := r.s.view("Orders.FindByUserID", func(d *memData) error {
		var all []models.Order
		for _, o := range d.orders {
			if o.UserID != nil && *o.UserID == userID {
				o.Items = itemsOf(d, o.ID)
				all = append(all, o)
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
		total = int64(len(all))

		start := (page - 1) * limit
		if start >= len(all) {
			return nil
		}
		end := start + limit
		if end > len(all) {
			end = len(all)
		}
		out = all[start:end]
		return nil
	})
	return out, total, err
}

func (r fakeOrders) FindByIDAndUserID(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	var found *models.Order
	err := r.s.view("Orders.FindByIDAndUserID", func(d *memData) error {
		o, ok := d.orders[orderID]
		if !ok || o.UserID == nil || *o.UserID != userID {
			return repository.ErrNotFound
		}
		o.Items = itemsOf(d, o.ID)
		found = &o
		return nil
	})
	return found, err
}

func itemsOf(d *memData, orderID uuid.UUID) []models.OrderItem {
	var items []models.OrderItem
	for _, item := range d.orderItems {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductName < items[j].ProductName })
	return items
}

type fakeWishlists struct{ s *fakeStore }

func (r fakeWishlists) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	var found *models.Wishlist
	err := r.s.view("Wishlists.GetOrCreate", func(d *memData) error {
		for _, w := range d.wishlists {
			if w.UserID == userID {
				w := w
				found = &w
				return nil
			}
		}
		w := models.Wishlist{ID: uuid.New(), UserID: userID, CreatedAt: d.tick()}
		d.wishlists[w.ID] = w
		found = &w
		return nil
	})
	return found, err
}

func (r fakeWishlists) AddItem(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error) {
	created := false
	err := r.s.view("Wishlists.AddItem", func(d *memData) error {
		for _, item := range d.wishlistItems {
			if item.WishlistID == wishlistID && item.ProductID == productID {
				return nil
			}
		}
		item := models.WishlistItem{ID: uuid.New(), WishlistID: wishlistID, ProductID: productID, AddedAt: d.tick()}
		d.wishlistItems[item.ID] = item
		created = true
		return nil
	})
	return created, err
}

func (r fakeWishlists) RemoveItem(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error) {
	removed := false
	err := r.s.view("Wishlists.RemoveItem", func(d *memData) error {
		for id, item := range d.wishlistItems {
			if item.WishlistID == wishlistID && item.ProductID == productID {
				delete(d.wishlistItems, id)
				removed = true
			}
		}
		return nil
	})
	return removed, err
}

func (r fakeWishlists) ListItems(ctx context.Context, wishlistID uuid.UUID) ([]models.WishlistItem, error) {
	var out []models.WishlistItem
	err := r.s.view("Wishlists.ListItems", func(d *memData) error {
		for _, item := range d.wishlistItems {
			if item.WishlistID != wishlistID {
				continue
			}
			if p, ok := d.products[item.ProductID]; ok {
				item.Product = &p
			}
			out = append(out, item)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
		return nil
	})
	return out, err
}

// --- collaborators ---

type fakeCache struct {
	mu          sync.Mutex
	products    map[uuid.UUID]models.Product
	listings    map[string][]byte
	invalidated []uuid.UUID
	bumps       int
}

func newFakeCache() *fakeCache {
	return &fakeCache{products: map[uuid.UUID]models.Product{}, listings: map[string][]byte{}}
}

func (c *fakeCache) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *fakeCache) SetProduct(ctx context.Context, product *models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[product.ID] = *product
}

func (c *fakeCache) GetListing(ctx context.Context, key string, dst any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.listings[key]
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (c *fakeCache) SetListing(ctx context.Context, key string, listing any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if data, err := json.Marshal(listing); err == nil {
		c.listings[key] = data
	}
}

func (c *fakeCache) InvalidateProducts(ctx context.Context, ids ...uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bumps++
	c.listings = map[string][]byte{}
	for _, id := range ids {
		delete(c.products, id)
		c.invalidated = append(c.invalidated, id)
	}
}

type fakeIdempotency struct {
	mu      sync.Mutex
	entries map[string]string
	err     error
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{entries: map[string]string{}}
}

func (f *fakeIdempotency) Lookup(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.entries[key]
	return v, ok, nil
}

func (f *fakeIdempotency) Remember(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries[key] = value
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*models.OrderPlacedEvent
	err    error
}

func (p *fakePublisher) PublishOrderPlaced(ctx context.Context, evt *models.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *fakePublisher) published() []*models.OrderPlacedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*models.OrderPlacedEvent(nil), p.events...)
}

var _ repository.Store = (*fakeStore)(nil)
