package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AdamBejaoui/project-frontend/internal/application/storefront"
	"github.com/AdamBejaoui/project-frontend/internal/domain/catalog"
	"github.com/AdamBejaoui/project-frontend/internal/domain/checkout"
	"github.com/AdamBejaoui/project-frontend/internal/domain/order"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared/valueobject"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/backend"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/cache"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/config"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/rotation"
	"github.com/AdamBejaoui/project-frontend/internal/interfaces/http/dto"
	"github.com/AdamBejaoui/project-frontend/internal/interfaces/http/middleware"
)

// fakeCatalogSource implements storefront.ProductSource for testing
type fakeCatalogSource struct {
	mu       sync.Mutex
	products []catalog.Product
	err      error
	base     string
}

func (f *fakeCatalogSource) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]catalog.Product(nil), f.products...), nil
}

func (f *fakeCatalogSource) BaseURL() string {
	return f.base
}

func (f *fakeCatalogSource) setError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// fakeSubmitter implements storefront.OrderSubmitter for testing
type fakeSubmitter struct {
	mu    sync.Mutex
	order *order.Order
	err   error
	calls int
}

func (f *fakeSubmitter) SubmitOrder(ctx context.Context, sub checkout.Submission) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSubmitter) setError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// fakeRotationScheduler implements storefront.RotationScheduler for testing
type fakeRotationScheduler struct {
	mu        sync.Mutex
	scheduled map[string]rotation.TickFunc
	cancelled []string
}

func newFakeRotationScheduler() *fakeRotationScheduler {
	return &fakeRotationScheduler{
		scheduled: make(map[string]rotation.TickFunc),
	}
}

func (f *fakeRotationScheduler) Schedule(sessionID string, tick rotation.TickFunc) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled[sessionID] = tick
	return nil
}

func (f *fakeRotationScheduler) Cancel(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.scheduled, sessionID)
	f.cancelled = append(f.cancelled, sessionID)
}

func (f *fakeRotationScheduler) isScheduled(sessionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.scheduled[sessionID]
	return ok
}

// storefrontFixture wires real services over fake backend edges, with one
// established session
type storefrontFixture struct {
	store     *storefront.SessionStore
	source    *fakeCatalogSource
	submitter *fakeSubmitter
	scheduler *fakeRotationScheduler
	catalog   *storefront.CatalogService
	carts     *storefront.CartService
	checkouts *storefront.CheckoutService
	showcase  *storefront.ShowcaseService
	sessionID uuid.UUID
}

func newStorefrontFixture(t *testing.T, products ...catalog.Product) *storefrontFixture {
	t.Helper()

	store := storefront.NewSessionStore(config.CartConfig{TTL: time.Hour, CleanupInterval: time.Hour}, zap.NewNop())
	t.Cleanup(func() {
		_ = store.Close()
	})

	productCache := cache.NewInMemoryProductCache(zap.NewNop())
	t.Cleanup(func() {
		_ = productCache.Close()
	})

	source := &fakeCatalogSource{products: products, base: "http://backend.test"}
	catalogSvc := storefront.NewCatalogService(source, productCache, time.Minute, zap.NewNop())
	carts := storefront.NewCartService(store, catalogSvc, zap.NewNop())

	guard := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() {
		_ = guard.Close()
	})

	submitter := &fakeSubmitter{order: testOrder("ord-1", "95.00")}
	checkouts := storefront.NewCheckoutService(store, submitter, guard, time.Minute, zap.NewNop())
	checkouts.SetOnSuccess(func(state *storefront.SessionState, details checkout.Details) {
		state.Cart.Reset()
	})

	scheduler := newFakeRotationScheduler()
	showcaseSvc := storefront.NewShowcaseService(store, catalogSvc, scheduler, zap.NewNop())

	sessionID := uuid.New()
	require.NoError(t, store.Establish(sessionID))

	return &storefrontFixture{
		store:     store,
		source:    source,
		submitter: submitter,
		scheduler: scheduler,
		catalog:   catalogSvc,
		carts:     carts,
		checkouts: checkouts,
		showcase:  showcaseSvc,
		sessionID: sessionID,
	}
}

// sessionRouter returns an engine that authenticates every request as the
// fixture's session, the way the session middleware would
func (f *storefrontFixture) sessionRouter() *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.SessionIDKey, f.sessionID)
		c.Next()
	})
	return router
}

func testProduct(id, name, category, price string, images ...string) catalog.Product {
	return catalog.Product{
		ID:          id,
		Name:        name,
		Category:    catalog.Category(category),
		Price:       mustMoney(price),
		Description: name + " description",
		Rating:      4.5,
		Reviews:     12,
		Images:      images,
	}
}

func mustMoney(amount string) valueobject.Money {
	return valueobject.NewMoneyUSD(decimal.RequireFromString(amount))
}

func testOrder(id, total string) *order.Order {
	return &order.Order{
		ID:        id,
		Status:    order.StatusPending,
		Total:     mustMoney(total),
		CreatedAt: time.Now(),
	}
}

func performJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// decodeEnvelope unmarshals the response envelope with data decoded into out
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, out any) *dto.ErrorInfo {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *dto.ErrorInfo  `json:"error"`
		Meta    *dto.Meta       `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	if out != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return envelope.Error
}

// Tests

func TestStorefrontProductHandler_List_All(t *testing.T) {
	fix := newStorefrontFixture(t,
		testProduct("p-001", "Oversized Jacket", "Streetwear", "40.00", "/images/jacket.jpg"),
		testProduct("p-002", "Silk Dress", "Dresses", "120.00"),
	)
	handler := NewStorefrontProductHandler(fix.catalog)

	router := gin.New()
	router.GET("/storefront/products", handler.List)

	rec := performJSON(router, http.MethodGet, "/storefront/products", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var products []storefront.ProductView
	errInfo := decodeEnvelope(t, rec, &products)
	assert.Nil(t, errInfo)
	assert.Len(t, products, 2)
	assert.Equal(t, "p-001", products[0].ID)
	assert.Equal(t, "40.00", products[0].Price)
	assert.Equal(t, "http://backend.test/images/jacket.jpg", products[0].Images[0])
}

func TestStorefrontProductHandler_List_FiltersByCategoryAndSearch(t *testing.T) {
	fix := newStorefrontFixture(t,
		testProduct("p-001", "Oversized Jacket", "Streetwear", "40.00"),
		testProduct("p-002", "Graphic Tee", "Streetwear", "15.00"),
		testProduct("p-003", "Denim Jacket Dress", "Dresses", "80.00"),
	)
	handler := NewStorefrontProductHandler(fix.catalog)

	router := gin.New()
	router.GET("/storefront/products", handler.List)

	rec := performJSON(router, http.MethodGet, "/storefront/products?category=Streetwear&search=jacket", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var products []storefront.ProductView
	decodeEnvelope(t, rec, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "p-001", products[0].ID)
}

func TestStorefrontProductHandler_List_ReportsTotal(t *testing.T) {
	fix := newStorefrontFixture(t,
		testProduct("p-001", "Oversized Jacket", "Streetwear", "40.00"),
		testProduct("p-002", "Graphic Tee", "Streetwear", "15.00"),
	)
	handler := NewStorefrontProductHandler(fix.catalog)

	router := gin.New()
	router.GET("/storefront/products", handler.List)

	rec := performJSON(router, http.MethodGet, "/storefront/products", nil)

	var envelope struct {
		Meta *dto.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, 2, envelope.Meta.Total)
}

func TestStorefrontProductHandler_List_BackendUnavailable(t *testing.T) {
	fix := newStorefrontFixture(t)
	fix.source.setError(backend.ErrUnavailable)
	handler := NewStorefrontProductHandler(fix.catalog)

	router := gin.New()
	router.GET("/storefront/products", handler.List)

	rec := performJSON(router, http.MethodGet, "/storefront/products", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	errInfo := decodeEnvelope(t, rec, nil)
	require.NotNil(t, errInfo)
	assert.Equal(t, dto.ErrCodeBackendUnavailable, errInfo.Code)
}

func TestStorefrontProductHandler_GetByID_Success(t *testing.T) {
	fix := newStorefrontFixture(t,
		testProduct("p-001", "Oversized Jacket", "Streetwear", "40.00", "/images/front.jpg", "/images/back.jpg"),
	)
	handler := NewStorefrontProductHandler(fix.catalog)

	router := gin.New()
	router.GET("/storefront/products/:id", handler.GetByID)

	rec := performJSON(router, http.MethodGet, "/storefront/products/p-001", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var product storefront.ProductView
	decodeEnvelope(t, rec, &product)
	assert.Equal(t, "p-001", product.ID)
	assert.Equal(t, "Streetwear", product.Category)
	require.Len(t, product.Images, 2)
	assert.Equal(t, "http://backend.test/images/front.jpg", product.Images[0])
}

func TestStorefrontProductHandler_GetByID_NotFound(t *testing.T) {
	fix := newStorefrontFixture(t,
		testProduct("p-001", "Oversized Jacket", "Streetwear", "40.00"),
	)
	handler := NewStorefrontProductHandler(fix.catalog)

	router := gin.New()
	router.GET("/storefront/products/:id", handler.GetByID)

	rec := performJSON(router, http.MethodGet, "/storefront/products/p-404", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	errInfo := decodeEnvelope(t, rec, nil)
	require.NotNil(t, errInfo)
	assert.Equal(t, dto.ErrCodeNotFound, errInfo.Code)
}
