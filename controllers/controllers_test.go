package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/yashrajoria/storefront-service/common/errors"
	"github.com/yashrajoria/storefront-service/controllers"
	"github.com/yashrajoria/storefront-service/middleware"
	"github.com/yashrajoria/storefront-service/models"
	"github.com/yashrajoria/storefront-service/services"
)

// ---- mocks ----

type mockCatalog struct {
	listFn   func(ctx context.Context, slug string) (*services.ProductListing, error)
	getFn    func(ctx context.Context, id uuid.UUID, slug string) (*models.Product, error)
	slidesFn func(ctx context.Context) ([]models.Slide, error)
}

func (m *mockCatalog) ListProducts(ctx context.Context, slug string) (*services.ProductListing, error) {
	return m.listFn(ctx, slug)
}
func (m *mockCatalog) GetProduct(ctx context.Context, id uuid.UUID, slug string) (*models.Product, error) {
	return m.getFn(ctx, id, slug)
}
func (m *mockCatalog) ListSlides(ctx context.Context) ([]models.Slide, error) {
	return m.slidesFn(ctx)
}

type mockCart struct {
	viewFn   func(ctx context.Context, userID uuid.UUID) (*services.CartView, error)
	addFn    func(ctx context.Context, userID, productID uuid.UUID, quantity int) (*services.AddToCartResult, error)
	removeFn func(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	setFn    func(ctx context.Context, userID, productID uuid.UUID, quantity int) (*services.UpdateQuantityResult, error)
}

func (m *mockCart) View(ctx context.Context, userID uuid.UUID) (*services.CartView, error) {
	return m.viewFn(ctx, userID)
}
func (m *mockCart) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (*services.AddToCartResult, error) {
	return m.addFn(ctx, userID, productID, quantity)
}
func (m *mockCart) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	return m.removeFn(ctx, userID, productID)
}
func (m *mockCart) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*services.UpdateQuantityResult, error) {
	return m.setFn(ctx, userID, productID, quantity)
}

type mockCheckout struct {
	previewFn func(ctx context.Context, userID uuid.UUID) (*services.CartView, error)
	placeFn   func(ctx context.Context, userID uuid.UUID, details *models.ShippingDetails, key string) (*services.CheckoutResult, error)
}

func (m *mockCheckout) Preview(ctx context.Context, userID uuid.UUID) (*services.CartView, error) {
	return m.previewFn(ctx, userID)
}
func (m *mockCheckout) PlaceOrder(ctx context.Context, userID uuid.UUID, details *models.ShippingDetails, key string) (*services.CheckoutResult, error) {
	return m.placeFn(ctx, userID, details, key)
}

type mockOrders struct {
	historyFn func(ctx context.Context, userID uuid.UUID, page, limit int) (*services.OrderResponse, error)
	getFn     func(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
}

func (m *mockOrders) History(ctx context.Context, userID uuid.UUID, page, limit int) (*services.OrderResponse, error) {
	return m.historyFn(ctx, userID, page, limit)
}
func (m *mockOrders) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	return m.getFn(ctx, userID, orderID)
}

type mockWishlist struct {
	viewFn   func(ctx context.Context, userID uuid.UUID) (*services.WishlistView, error)
	addFn    func(ctx context.Context, userID, productID uuid.UUID) (bool, *models.Product, error)
	removeFn func(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

func (m *mockWishlist) View(ctx context.Context, userID uuid.UUID) (*services.WishlistView, error) {
	return m.viewFn(ctx, userID)
}
func (m *mockWishlist) Add(ctx context.Context, userID, productID uuid.UUID) (bool, *models.Product, error) {
	return m.addFn(ctx, userID, productID)
}
func (m *mockWishlist) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	return m.removeFn(ctx, userID, productID)
}

type mockAdmin struct {
	categoryFn func(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	productFn  func(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	updateFn   func(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	slideFn    func(ctx context.Context, req *models.CreateSlideRequest) (*models.Slide, error)
}

func (m *mockAdmin) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	return m.categoryFn(ctx, req)
}
func (m *mockAdmin) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	return m.productFn(ctx, req)
}
func (m *mockAdmin) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	return m.updateFn(ctx, id, req)
}
func (m *mockAdmin) CreateSlide(ctx context.Context, req *models.CreateSlideRequest) (*models.Slide, error) {
	return m.slideFn(ctx, req)
}

// ---- helpers ----

var testUser = uuid.MustParse("7f0c3a52-3c1e-4d53-9a41-6b2f0d1e9c11")

func newRouter(authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if authenticated {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.UserContextKey, testUser.String())
			c.Next()
		})
	}
	return r
}

func do(r *gin.Engine, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ---- catalog ----

func TestListProducts_PassesCategoryQuery(t *testing.T) {
	var gotSlug string
	svc := &mockCatalog{listFn: func(ctx context.Context, slug string) (*services.ProductListing, error) {
		gotSlug = slug
		return &services.ProductListing{
			Categories: []models.Category{{Name: "Books", Slug: "books"}},
			Category:   &models.Category{Name: "Books", Slug: "books"},
			Products:   []models.Product{{Name: "Go Book"}},
		}, nil
	}}
	r := newRouter(false)
	r.GET("/products", controllers.NewCatalogController(svc).ListProducts)

	w := do(r, http.MethodGet, "/products?category=books", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "books", gotSlug)
	resp := decode(t, w)
	assert.Equal(t, "success", resp["status"])
	assert.Len(t, resp["products"], 1)
	assert.NotNil(t, resp["category"])
}

func TestListProducts_UnknownCategoryIs404(t *testing.T) {
	svc := &mockCatalog{listFn: func(ctx context.Context, slug string) (*services.ProductListing, error) {
		return nil, apperrors.NotFound("Category not found.")
	}}
	r := newRouter(false)
	r.GET("/products", controllers.NewCatalogController(svc).ListProducts)

	w := do(r, http.MethodGet, "/products?category=nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "Category not found.", resp["message"])
}

func TestGetProduct_MalformedIDIs404(t *testing.T) {
	called := false
	svc := &mockCatalog{getFn: func(ctx context.Context, id uuid.UUID, slug string) (*models.Product, error) {
		called = true
		return nil, nil
	}}
	r := newRouter(false)
	r.GET("/products/:id/:slug", controllers.NewCatalogController(svc).GetProduct)

	w := do(r, http.MethodGet, "/products/42/lamp", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, called)
}

func TestGetProduct_Success(t *testing.T) {
	id := uuid.New()
	svc := &mockCatalog{getFn: func(ctx context.Context, gotID uuid.UUID, slug string) (*models.Product, error) {
		assert.Equal(t, id, gotID)
		assert.Equal(t, "lamp", slug)
		return &models.Product{ID: id, Name: "Lamp", Slug: "lamp"}, nil
	}}
	r := newRouter(false)
	r.GET("/products/:id/:slug", controllers.NewCatalogController(svc).GetProduct)

	w := do(r, http.MethodGet, "/products/"+id.String()+"/lamp", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	product := decode(t, w)["product"].(map[string]any)
	assert.Equal(t, "Lamp", product["name"])
}

// ---- cart ----

func cartRouter(svc *mockCart, authenticated bool) *gin.Engine {
	r := newRouter(authenticated)
	cc := controllers.NewCartController(svc)
	r.GET("/cart", cc.GetCart)
	r.POST("/cart/add/:product_id", cc.AddToCart)
	r.POST("/cart/remove/:product_id", cc.RemoveFromCart)
	r.POST("/cart/update/:product_id", cc.UpdateQuantity)
	return r
}

func TestGetCart_RequiresUser(t *testing.T) {
	r := cartRouter(&mockCart{}, false)

	w := do(r, http.MethodGet, "/cart", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetCart_ReturnsTotals(t *testing.T) {
	svc := &mockCart{viewFn: func(ctx context.Context, userID uuid.UUID) (*services.CartView, error) {
		assert.Equal(t, testUser, userID)
		return &services.CartView{Total: decimal.RequireFromString("12.5"), TotalQuantity: 3}, nil
	}}
	r := cartRouter(svc, true)

	w := do(r, http.MethodGet, "/cart", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "12.5", resp["total"])
	assert.EqualValues(t, 3, resp["total_quantity"])
}

func TestAddToCart_DefaultsQuantityToOne(t *testing.T) {
	productID := uuid.New()
	var gotQty int
	svc := &mockCart{addFn: func(ctx context.Context, userID, pid uuid.UUID, quantity int) (*services.AddToCartResult, error) {
		gotQty = quantity
		return &services.AddToCartResult{Created: true, Quantity: 1}, nil
	}}
	r := cartRouter(svc, true)

	w := do(r, http.MethodPost, "/cart/add/"+productID.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, gotQty)
	resp := decode(t, w)
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "Product added to cart.", resp["message"])
}

func TestAddToCart_ExistingLineIsInfo(t *testing.T) {
	svc := &mockCart{addFn: func(ctx context.Context, userID, pid uuid.UUID, quantity int) (*services.AddToCartResult, error) {
		assert.Equal(t, 2, quantity)
		return &services.AddToCartResult{Created: false, Quantity: 3}, nil
	}}
	r := cartRouter(svc, true)

	w := do(r, http.MethodPost, "/cart/add/"+uuid.NewString(), map[string]int{"quantity": 2})

	resp := decode(t, w)
	assert.Equal(t, "info", resp["status"])
	assert.Equal(t, "Cart updated.", resp["message"])
	assert.EqualValues(t, 3, resp["quantity"])
}

func TestAddToCart_StockMessages(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      string
	}{
		{"new line", 2, "Not enough stock. Max: 1"},
		{"existing line", 3, "Cannot add more. Not enough stock. Max: 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCart{addFn: func(ctx context.Context, userID, pid uuid.UUID, quantity int) (*services.AddToCartResult, error) {
				return nil, apperrors.OutOfStock(pid, "Lamp", 1, tt.requested)
			}}
			r := cartRouter(svc, true)

			w := do(r, http.MethodPost, "/cart/add/"+uuid.NewString(), map[string]int{"quantity": 2})

			assert.Equal(t, http.StatusConflict, w.Code)
			assert.Equal(t, tt.want, decode(t, w)["message"])
		})
	}
}

func TestAddToCart_BadBody(t *testing.T) {
	r := cartRouter(&mockCart{}, true)

	w := do(r, http.MethodPost, "/cart/add/"+uuid.NewString(), "not-json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveFromCart_Messages(t *testing.T) {
	for _, removed := range []bool{true, false} {
		svc := &mockCart{removeFn: func(ctx context.Context, userID, pid uuid.UUID) (bool, error) {
			return removed, nil
		}}
		r := cartRouter(svc, true)

		w := do(r, http.MethodPost, "/cart/remove/"+uuid.NewString(), nil)

		resp := decode(t, w)
		if removed {
			assert.Equal(t, "Product removed from cart.", resp["message"])
		} else {
			assert.Equal(t, "info", resp["status"])
			assert.Equal(t, "Product was not in your cart.", resp["message"])
		}
	}
}

func TestUpdateQuantity_Updated(t *testing.T) {
	svc := &mockCart{setFn: func(ctx context.Context, userID, pid uuid.UUID, quantity int) (*services.UpdateQuantityResult, error) {
		assert.Equal(t, 4, quantity)
		return &services.UpdateQuantityResult{
			Quantity:  4,
			ItemCost:  decimal.RequireFromString("40"),
			CartTotal: decimal.RequireFromString("55"),
		}, nil
	}}
	r := cartRouter(svc, true)

	w := do(r, http.MethodPost, "/cart/update/"+uuid.NewString(), map[string]int{"quantity": 4})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Quantity updated.", resp["message"])
	assert.EqualValues(t, 4, resp["new_quantity"])
	assert.Equal(t, "40", resp["new_item_cost"])
	assert.Equal(t, "55", resp["cart_total"])
}

func TestUpdateQuantity_ZeroRemoves(t *testing.T) {
	svc := &mockCart{setFn: func(ctx context.Context, userID, pid uuid.UUID, quantity int) (*services.UpdateQuantityResult, error) {
		assert.Equal(t, 0, quantity)
		return &services.UpdateQuantityResult{Removed: true, CartTotal: decimal.Zero}, nil
	}}
	r := cartRouter(svc, true)

	w := do(r, http.MethodPost, "/cart/update/"+uuid.NewString(), map[string]int{"quantity": 0})

	resp := decode(t, w)
	assert.Equal(t, "removed", resp["status"])
	assert.Equal(t, "Product removed from cart.", resp["message"])
}

func TestUpdateQuantity_OverStock(t *testing.T) {
	svc := &mockCart{setFn: func(ctx context.Context, userID, pid uuid.UUID, quantity int) (*services.UpdateQuantityResult, error) {
		return nil, apperrors.OutOfStock(pid, "Lamp", 2, quantity)
	}}
	r := cartRouter(svc, true)

	w := do(r, http.MethodPost, "/cart/update/"+uuid.NewString(), map[string]int{"quantity": 9})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Not enough stock. Max: 2", decode(t, w)["message"])
}

// ---- checkout ----

func checkoutRouter(svc *mockCheckout) *gin.Engine {
	r := newRouter(true)
	cc := controllers.NewCheckoutController(svc)
	r.GET("/checkout", cc.Preview)
	r.POST("/checkout", cc.PlaceOrder)
	return r
}

func shippingBody() map[string]string {
	return map[string]string{
		"first_name":  "Ada",
		"last_name":   "Lovelace",
		"email":       "ada@example.com",
		"address":     "12 Analytical St",
		"postal_code": "10115",
		"city":        "Berlin",
	}
}

func TestPreview_EmptyCartRedirects(t *testing.T) {
	svc := &mockCheckout{previewFn: func(ctx context.Context, userID uuid.UUID) (*services.CartView, error) {
		return &services.CartView{}, nil
	}}
	r := checkoutRouter(svc)

	w := do(r, http.MethodGet, "/checkout", nil)

	resp := decode(t, w)
	assert.Equal(t, "warning", resp["status"])
	assert.Equal(t, "/products", resp["redirect"])
}

func TestPlaceOrder_Created(t *testing.T) {
	orderID := uuid.New()
	var gotKey string
	svc := &mockCheckout{placeFn: func(ctx context.Context, userID uuid.UUID, details *models.ShippingDetails, key string) (*services.CheckoutResult, error) {
		gotKey = key
		assert.Equal(t, "Berlin", details.City)
		return &services.CheckoutResult{Order: &models.Order{
			ID: orderID,
			Items: []models.OrderItem{
				{Quantity: 2, Price: decimal.RequireFromString("5")},
			},
		}}, nil
	}}
	r := checkoutRouter(svc)

	w := do(r, http.MethodPost, "/checkout", shippingBody(), controllers.IdempotencyKeyHeader, "abc")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "abc", gotKey)
	resp := decode(t, w)
	assert.Equal(t, "Your order #"+orderID.String()+" has been placed successfully!", resp["message"])
	assert.Equal(t, "10", resp["total"])
	assert.Equal(t, "/orders", resp["redirect"])
}

func TestPlaceOrder_ReplayIs200(t *testing.T) {
	svc := &mockCheckout{placeFn: func(ctx context.Context, userID uuid.UUID, details *models.ShippingDetails, key string) (*services.CheckoutResult, error) {
		return &services.CheckoutResult{Order: &models.Order{ID: uuid.New()}, Replayed: true}, nil
	}}
	r := checkoutRouter(svc)

	w := do(r, http.MethodPost, "/checkout", shippingBody(), controllers.IdempotencyKeyHeader, "abc")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPlaceOrder_OutOfStock(t *testing.T) {
	svc := &mockCheckout{placeFn: func(ctx context.Context, userID uuid.UUID, details *models.ShippingDetails, key string) (*services.CheckoutResult, error) {
		return nil, apperrors.OutOfStock(uuid.New(), "Lamp", 1, 3)
	}}
	r := checkoutRouter(svc)

	w := do(r, http.MethodPost, "/checkout", shippingBody())

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Order failed: Not enough stock for Lamp. Only 1 available.", decode(t, w)["message"])
}

func TestPlaceOrder_CheckoutFailedHidesCause(t *testing.T) {
	svc := &mockCheckout{placeFn: func(ctx context.Context, userID uuid.UUID, details *models.ShippingDetails, key string) (*services.CheckoutResult, error) {
		return nil, apperrors.CheckoutFailed(errors.New("pq: deadlock detected"))
	}}
	r := checkoutRouter(svc)

	w := do(r, http.MethodPost, "/checkout", shippingBody())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, strings.Contains(w.Body.String(), "deadlock"))
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	svc := &mockCheckout{placeFn: func(ctx context.Context, userID uuid.UUID, details *models.ShippingDetails, key string) (*services.CheckoutResult, error) {
		return &services.CheckoutResult{Empty: true}, nil
	}}
	r := checkoutRouter(svc)

	w := do(r, http.MethodPost, "/checkout", shippingBody())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "warning", decode(t, w)["status"])
}

func TestPlaceOrder_BadJSON(t *testing.T) {
	r := checkoutRouter(&mockCheckout{})

	w := do(r, http.MethodPost, "/checkout", "{")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please fill in all required shipping details.", decode(t, w)["message"])
}

// ---- orders ----

func TestGetOrders_ClampsPagination(t *testing.T) {
	svc := &mockOrders{historyFn: func(ctx context.Context, userID uuid.UUID, page, limit int) (*services.OrderResponse, error) {
		assert.Equal(t, 1, page)
		assert.Equal(t, controllers.MaxLimit, limit)
		return &services.OrderResponse{Meta: services.MetaData{Page: page, Limit: limit}}, nil
	}}
	r := newRouter(true)
	r.GET("/orders", controllers.NewOrderController(svc).GetOrders)

	w := do(r, http.MethodGet, "/orders?page=-3&limit=1000", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	meta := decode(t, w)["meta"].(map[string]any)
	assert.EqualValues(t, controllers.MaxLimit, meta["limit"])
}

func TestGetOrderByID_NotOwnedIs404(t *testing.T) {
	svc := &mockOrders{getFn: func(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
		return nil, apperrors.NotFound("Order not found.")
	}}
	r := newRouter(true)
	r.GET("/orders/:id", controllers.NewOrderController(svc).GetOrderByID)

	w := do(r, http.MethodGet, "/orders/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found.", decode(t, w)["message"])
}

// ---- wishlist ----

func TestAddToWishlist_Messages(t *testing.T) {
	for _, created := range []bool{true, false} {
		svc := &mockWishlist{addFn: func(ctx context.Context, userID, pid uuid.UUID) (bool, *models.Product, error) {
			return created, &models.Product{ID: pid}, nil
		}}
		r := newRouter(true)
		r.POST("/wishlist/add/:product_id", controllers.NewWishlistController(svc).AddToWishlist)

		w := do(r, http.MethodPost, "/wishlist/add/"+uuid.NewString(), nil)

		resp := decode(t, w)
		if created {
			assert.Equal(t, "success", resp["status"])
			assert.Equal(t, "Product added to wishlist.", resp["message"])
		} else {
			assert.Equal(t, "info", resp["status"])
			assert.Equal(t, "Product is already in your wishlist.", resp["message"])
		}
	}
}

func TestRemoveFromWishlist_NotSaved(t *testing.T) {
	svc := &mockWishlist{removeFn: func(ctx context.Context, userID, pid uuid.UUID) (bool, error) {
		return false, nil
	}}
	r := newRouter(true)
	r.POST("/wishlist/remove/:product_id", controllers.NewWishlistController(svc).RemoveFromWishlist)

	w := do(r, http.MethodPost, "/wishlist/remove/"+uuid.NewString(), nil)

	assert.Equal(t, "Product was not found in your wishlist.", decode(t, w)["message"])
}

// ---- admin ----

func TestCreateCategory_Conflict(t *testing.T) {
	svc := &mockAdmin{categoryFn: func(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
		return nil, apperrors.Conflict("A category with this slug already exists.")
	}}
	r := newRouter(true)
	r.POST("/admin/categories", controllers.NewAdminController(svc).CreateCategory)

	w := do(r, http.MethodPost, "/admin/categories", map[string]string{"name": "Books", "slug": "books"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateProduct_MissingFieldsIs400(t *testing.T) {
	r := newRouter(true)
	r.POST("/admin/products", controllers.NewAdminController(&mockAdmin{}).CreateProduct)

	w := do(r, http.MethodPost, "/admin/products", map[string]string{"name": "Lamp"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w), "details")
}

func TestUpdateProduct_EmptyPatch(t *testing.T) {
	r := newRouter(true)
	r.PATCH("/admin/products/:id", controllers.NewAdminController(&mockAdmin{}).UpdateProduct)

	w := do(r, http.MethodPatch, "/admin/products/"+uuid.NewString(), map[string]any{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Nothing to update.", decode(t, w)["message"])
}

func TestCreateSlide_Created(t *testing.T) {
	svc := &mockAdmin{slideFn: func(ctx context.Context, req *models.CreateSlideRequest) (*models.Slide, error) {
		return &models.Slide{ID: uuid.New(), Title: req.Title}, nil
	}}
	r := newRouter(true)
	r.POST("/admin/slides", controllers.NewAdminController(svc).CreateSlide)

	w := do(r, http.MethodPost, "/admin/slides", map[string]string{"title": "Summer sale"})

	assert.Equal(t, http.StatusCreated, w.Code)
	slide := decode(t, w)["slide"].(map[string]any)
	assert.Equal(t, "Summer sale", slide["title"])
}
