// Package integration provides integration testing utilities for the
// storefront gateway. It runs the full HTTP stack, wired the same way the
// server binary wires it, against an in-process fake of the upstream
// commerce API.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	adminapp "github.com/AdamBejaoui/project-frontend/internal/application/admin"
	storefrontapp "github.com/AdamBejaoui/project-frontend/internal/application/storefront"
	"github.com/AdamBejaoui/project-frontend/internal/domain/checkout"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/auth"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/backend"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/cache"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/config"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/event"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/rotation"
	"github.com/AdamBejaoui/project-frontend/internal/interfaces/http/handler"
	"github.com/AdamBejaoui/project-frontend/internal/interfaces/http/middleware"
	"github.com/AdamBejaoui/project-frontend/internal/interfaces/http/router"
)

// TestAdminToken is the bearer token the fake commerce API accepts on its
// admin endpoints
const TestAdminToken = "test-admin-token"

// commerceProduct is a product record in the fake commerce API's wire shape
type commerceProduct struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
	Images      []string `json:"images"`
}

// commerceOrderItem is one order line in the fake commerce API's wire shape
type commerceOrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// commerceOrder is an order record in the fake commerce API's wire shape.
// A freshly created order carries an empty status, matching a backend that
// only assigns one on the first transition.
type commerceOrder struct {
	ID        string              `json:"id"`
	FullName  string              `json:"fullName"`
	Phone     string              `json:"phone"`
	Address   string              `json:"address"`
	Size      string              `json:"size"`
	Items     []commerceOrderItem `json:"items"`
	Total     float64             `json:"total"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
}

// FakeCommerce is an in-process stand-in for the upstream commerce API.
// It keeps products and orders in memory, prices order items from its own
// product list, and requires the fixed admin bearer token on every
// mutating and order-reading endpoint.
type FakeCommerce struct {
	Server *httptest.Server

	mu             sync.Mutex
	products       []commerceProduct
	orders         []commerceOrder
	nextProductID  int
	nextOrderID    int
	productFetches int
	orderCreates   int
}

// NewFakeCommerce starts a fake commerce API seeded with a small catalog.
// The server is shut down automatically when the test finishes.
func NewFakeCommerce(t *testing.T) *FakeCommerce {
	t.Helper()

	f := &FakeCommerce{
		products: []commerceProduct{
			{
				ID:          "p-1",
				Name:        "Boxy Denim Jacket",
				Category:    "Streetwear",
				Price:       79.99,
				Description: "Oversized washed denim jacket",
				Rating:      4.6,
				Reviews:     128,
				Images: []string{
					"https://cdn.example.com/p1-front.jpg",
					"https://cdn.example.com/p1-back.jpg",
					"https://cdn.example.com/p1-detail.jpg",
				},
			},
			{
				ID:          "p-2",
				Name:        "Pleated Midi Skirt",
				Category:    "Dresses",
				Price:       54.50,
				Description: "Flowy pleated skirt in sage",
				Rating:      4.2,
				Reviews:     64,
				Images:      []string{"https://cdn.example.com/p2-front.jpg"},
			},
		},
		nextProductID: 3,
		nextOrderID:   1,
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)

	return f
}

// URL returns the fake API's base URL
func (f *FakeCommerce) URL() string {
	return f.Server.URL
}

// Close shuts the fake API down immediately, making it unreachable
func (f *FakeCommerce) Close() {
	f.Server.Close()
}

// ProductFetchCount returns how many times the product list was served
func (f *FakeCommerce) ProductFetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.productFetches
}

// OrderCreateCount returns how many orders were accepted
func (f *FakeCommerce) OrderCreateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderCreates
}

// Orders returns a copy of the accepted orders
func (f *FakeCommerce) Orders() []commerceOrder {
	f.mu.Lock()
	defer f.mu.Unlock()
	orders := make([]commerceOrder, len(f.orders))
	copy(orders, f.orders)
	return orders
}

func (f *FakeCommerce) handle(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/api/products" && r.Method == http.MethodGet:
		f.listProducts(w)
	case path == "/api/products" && r.Method == http.MethodPost:
		f.withAdmin(w, r, f.createProduct)
	case strings.HasPrefix(path, "/api/products/") && r.Method == http.MethodPatch:
		f.withAdmin(w, r, func(w http.ResponseWriter, r *http.Request) {
			f.updateProduct(w, r, strings.TrimPrefix(path, "/api/products/"))
		})
	case strings.HasPrefix(path, "/api/products/") && r.Method == http.MethodDelete:
		f.withAdmin(w, r, func(w http.ResponseWriter, r *http.Request) {
			f.deleteProduct(w, strings.TrimPrefix(path, "/api/products/"))
		})
	case path == "/api/orders" && r.Method == http.MethodPost:
		f.createOrder(w, r)
	case path == "/api/orders" && r.Method == http.MethodGet:
		f.withAdmin(w, r, func(w http.ResponseWriter, _ *http.Request) {
			f.listOrders(w)
		})
	case strings.HasPrefix(path, "/api/orders/") && strings.HasSuffix(path, "/status") && r.Method == http.MethodPatch:
		orderID := strings.TrimSuffix(strings.TrimPrefix(path, "/api/orders/"), "/status")
		f.withAdmin(w, r, func(w http.ResponseWriter, r *http.Request) {
			f.updateOrderStatus(w, r, orderID)
		})
	default:
		writeCommerceError(w, http.StatusNotFound, "Route not found")
	}
}

// withAdmin rejects requests that do not carry the fixed admin bearer token
func (f *FakeCommerce) withAdmin(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	if r.Header.Get("Authorization") != "Bearer "+TestAdminToken {
		writeCommerceError(w, http.StatusUnauthorized, "Invalid admin token")
		return
	}
	next(w, r)
}

func (f *FakeCommerce) listProducts(w http.ResponseWriter) {
	f.mu.Lock()
	f.productFetches++
	products := make([]commerceProduct, len(f.products))
	copy(products, f.products)
	f.mu.Unlock()

	writeCommerceJSON(w, http.StatusOK, products)
}

func (f *FakeCommerce) createProduct(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        string      `json:"name"`
		Category    string      `json:"category"`
		Price       json.Number `json:"price"`
		Description string      `json:"description"`
		Images      []string    `json:"images"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeCommerceError(w, http.StatusBadRequest, "Malformed product payload")
		return
	}
	price, err := payload.Price.Float64()
	if err != nil {
		writeCommerceError(w, http.StatusBadRequest, "Malformed product price")
		return
	}

	f.mu.Lock()
	product := commerceProduct{
		ID:          fmt.Sprintf("p-%d", f.nextProductID),
		Name:        payload.Name,
		Category:    payload.Category,
		Price:       price,
		Description: payload.Description,
		Images:      payload.Images,
	}
	f.nextProductID++
	f.products = append(f.products, product)
	f.mu.Unlock()

	writeCommerceJSON(w, http.StatusCreated, product)
}

func (f *FakeCommerce) updateProduct(w http.ResponseWriter, r *http.Request, productID string) {
	var payload struct {
		Name        string      `json:"name"`
		Category    string      `json:"category"`
		Price       json.Number `json:"price"`
		Description string      `json:"description"`
		Images      []string    `json:"images"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeCommerceError(w, http.StatusBadRequest, "Malformed product payload")
		return
	}
	price, err := payload.Price.Float64()
	if err != nil {
		writeCommerceError(w, http.StatusBadRequest, "Malformed product price")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == productID {
			f.products[i].Name = payload.Name
			f.products[i].Category = payload.Category
			f.products[i].Price = price
			f.products[i].Description = payload.Description
			if payload.Images != nil {
				f.products[i].Images = payload.Images
			}
			writeCommerceJSON(w, http.StatusOK, f.products[i])
			return
		}
	}
	writeCommerceError(w, http.StatusNotFound, "Product not found")
}

func (f *FakeCommerce) deleteProduct(w http.ResponseWriter, productID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == productID {
			f.products = append(f.products[:i], f.products[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeCommerceError(w, http.StatusNotFound, "Product not found")
}

func (f *FakeCommerce) createOrder(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FullName string              `json:"fullName"`
		Phone    string              `json:"phone"`
		Address  string              `json:"address"`
		Size     string              `json:"size"`
		Items    []commerceOrderItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeCommerceError(w, http.StatusBadRequest, "Malformed order payload")
		return
	}
	if len(payload.Items) == 0 {
		writeCommerceError(w, http.StatusBadRequest, "Order has no items")
		return
	}

	f.mu.Lock()
	total := 0.0
	for _, item := range payload.Items {
		for _, p := range f.products {
			if p.ID == item.ProductID {
				total += p.Price * float64(item.Quantity)
			}
		}
	}
	created := commerceOrder{
		ID:        "order-" + strconv.Itoa(f.nextOrderID),
		FullName:  payload.FullName,
		Phone:     payload.Phone,
		Address:   payload.Address,
		Size:      payload.Size,
		Items:     payload.Items,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}
	f.nextOrderID++
	f.orders = append(f.orders, created)
	f.orderCreates++
	f.mu.Unlock()

	writeCommerceJSON(w, http.StatusCreated, created)
}

func (f *FakeCommerce) listOrders(w http.ResponseWriter) {
	f.mu.Lock()
	orders := make([]commerceOrder, len(f.orders))
	copy(orders, f.orders)
	f.mu.Unlock()

	writeCommerceJSON(w, http.StatusOK, orders)
}

func (f *FakeCommerce) updateOrderStatus(w http.ResponseWriter, r *http.Request, orderID string) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeCommerceError(w, http.StatusBadRequest, "Malformed status payload")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			f.orders[i].Status = payload.Status
			writeCommerceJSON(w, http.StatusOK, f.orders[i])
			return
		}
	}
	writeCommerceError(w, http.StatusNotFound, "Order not found")
}

func writeCommerceJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeCommerceError(w http.ResponseWriter, status int, message string) {
	writeCommerceJSON(w, status, map[string]string{"message": message})
}

// GatewayServer wraps the fully wired gateway stack for API testing
type GatewayServer struct {
	Engine   *gin.Engine
	Commerce *FakeCommerce
	Sessions *auth.SessionService
	Store    *storefrontapp.SessionStore
	FeedHub  *handler.OrderFeedHub
	HTTP     *httptest.Server
}

// NewGatewayServer builds the gateway against a fake commerce API, wiring
// services, event handlers and routes the way the server binary does. The
// stack is torn down automatically when the test finishes.
func NewGatewayServer(t *testing.T) *GatewayServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	log := zap.NewNop()
	commerce := NewFakeCommerce(t)

	backendClient := backend.NewClient(config.BackendConfig{
		BaseURL:        commerce.URL(),
		Timeout:        5 * time.Second,
		RetryAttempts:  2,
		RetryDelay:     10 * time.Millisecond,
		MaxResponseMiB: 4,
	}, log)

	stores := cache.NewStoreFactory("memory", config.RedisConfig{}, cache.WithLogger(log))
	productCache, err := stores.CreateProductCache()
	require.NoError(t, err, "Failed to create product cache")
	t.Cleanup(func() { _ = productCache.Close() })

	submissionGuard, err := stores.CreateSubmissionStore()
	require.NoError(t, err, "Failed to create submission guard")
	t.Cleanup(func() { _ = submissionGuard.Close() })

	sessionStore := storefrontapp.NewSessionStore(config.CartConfig{
		TTL:             time.Hour,
		CleanupInterval: time.Hour,
	}, log)
	t.Cleanup(func() { _ = sessionStore.Close() })

	scheduler, err := rotation.NewScheduler(50*time.Millisecond, log)
	require.NoError(t, err, "Failed to create rotation scheduler")
	require.NoError(t, scheduler.Start(context.Background()), "Failed to start rotation scheduler")
	t.Cleanup(func() { _ = scheduler.Stop(context.Background()) })

	// Services
	catalogService := storefrontapp.NewCatalogService(backendClient, productCache, 5*time.Minute, log)
	cartService := storefrontapp.NewCartService(sessionStore, catalogService, log)
	checkoutService := storefrontapp.NewCheckoutService(sessionStore, backendClient, submissionGuard, time.Minute, log)
	showcaseService := storefrontapp.NewShowcaseService(sessionStore, catalogService, scheduler, log)
	sessionService := auth.NewSessionService(config.SessionConfig{
		Secret: "integration-test-secret-0123456789abcdef",
		TTL:    time.Hour,
		Issuer: "storefront-test",
	})
	adminProductService := adminapp.NewProductService(backendClient, log)
	adminOrderService := adminapp.NewOrderService(backendClient, log)

	checkoutService.SetOnSuccess(func(state *storefrontapp.SessionState, _ checkout.Details) {
		state.Cart.Reset()
	})
	sessionStore.SetEvictionHook(showcaseService.HandleSessionEvicted)

	// Event bus with the same handlers the binary registers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(storefrontapp.NewProductChangedHandler(catalogService, log))
	feedHub := handler.NewOrderFeedHub(log)
	eventBus.Subscribe(feedHub)
	require.NoError(t, eventBus.Start(context.Background()), "Failed to start event bus")
	t.Cleanup(func() {
		feedHub.Close()
		_ = eventBus.Stop(context.Background())
	})

	checkoutService.SetEventPublisher(eventBus)
	adminProductService.SetEventPublisher(eventBus)
	adminOrderService.SetEventPublisher(eventBus)

	// Handlers
	sessionHandler := handler.NewSessionHandler(sessionService, sessionStore)
	productHandler := handler.NewStorefrontProductHandler(catalogService)
	cartHandler := handler.NewCartHandler(cartService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	overlayHandler := handler.NewOverlayHandler(showcaseService)
	adminProductHandler := handler.NewAdminProductHandler(adminProductService)
	adminOrderHandler := handler.NewAdminOrderHandler(adminOrderService)
	orderFeedHandler := handler.NewOrderFeedHandler(feedHub, log)

	engine := gin.New()
	engine.Use(middleware.RequestID())

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	storefrontPublic := router.NewDomainGroup("storefront", "/storefront")
	storefrontPublic.POST("/session", sessionHandler.Create)
	storefrontPublic.GET("/products", productHandler.List)
	storefrontPublic.GET("/products/:id", productHandler.GetByID)

	storefrontSession := router.NewDomainGroup("storefront-session", "/storefront")
	storefrontSession.Use(middleware.SessionAuth(sessionService, log))
	storefrontSession.GET("/cart", cartHandler.Get)
	storefrontSession.POST("/cart/items", cartHandler.AddItem)
	storefrontSession.PATCH("/cart/items/:productId", cartHandler.UpdateItem)
	storefrontSession.DELETE("/cart/items/:productId", cartHandler.RemoveItem)
	storefrontSession.POST("/cart/reset", cartHandler.Reset)
	storefrontSession.POST("/cart/checkout", cartHandler.ToggleCheckout)
	storefrontSession.GET("/checkout", checkoutHandler.GetState)
	storefrontSession.PUT("/checkout/details", checkoutHandler.UpdateDetails)
	storefrontSession.POST("/checkout/submit", checkoutHandler.Submit)
	storefrontSession.GET("/overlay", overlayHandler.Get)
	storefrontSession.POST("/overlay/open", overlayHandler.Open)
	storefrontSession.POST("/overlay/close", overlayHandler.Close)
	storefrontSession.POST("/overlay/next", overlayHandler.Next)
	storefrontSession.POST("/overlay/prev", overlayHandler.Prev)
	storefrontSession.POST("/overlay/select", overlayHandler.Select)
	storefrontSession.POST("/overlay/resume", overlayHandler.Resume)

	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.AdminProxyAuth(log))
	adminRoutes.GET("/products", adminProductHandler.List)
	adminRoutes.POST("/products", adminProductHandler.Create)
	adminRoutes.PATCH("/products/:id", adminProductHandler.Update)
	adminRoutes.DELETE("/products/:id", adminProductHandler.Delete)
	adminRoutes.GET("/orders", adminOrderHandler.List)
	adminRoutes.PATCH("/orders/:id/status", adminOrderHandler.UpdateStatus)
	adminRoutes.GET("/orders/feed", orderFeedHandler.Feed)

	r.Register(storefrontPublic).
		Register(storefrontSession).
		Register(adminRoutes)
	r.Setup()

	// A real listener is needed for the WebSocket feed tests
	httpServer := httptest.NewServer(engine)
	t.Cleanup(httpServer.Close)

	return &GatewayServer{
		Engine:   engine,
		Commerce: commerce,
		Sessions: sessionService,
		Store:    sessionStore,
		FeedHub:  feedHub,
		HTTP:     httpServer,
	}
}

// Request makes an HTTP request to the gateway. A non-empty token is sent
// as a bearer Authorization header.
func (gs *GatewayServer) Request(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	gs.Engine.ServeHTTP(w, req)
	return w
}

// MintSession establishes a storefront session and returns its token
func (gs *GatewayServer) MintSession(t *testing.T) string {
	t.Helper()

	w := gs.Request(http.MethodPost, "/api/v1/storefront/session", nil, "")
	require.Equal(t, http.StatusCreated, w.Code, "session mint failed: %s", w.Body.String())

	resp := parseResponse(t, w)
	data := resp.Data.(map[string]interface{})
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// WebSocketURL returns the ws:// URL for a gateway path
func (gs *GatewayServer) WebSocketURL(path string) string {
	return "ws" + strings.TrimPrefix(gs.HTTP.URL, "http") + path
}

// APIResponse represents the standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Meta *struct {
		Total int `json:"total"`
	} `json:"meta,omitempty"`
}

// parseResponse unmarshals a recorded response into the standard envelope
func parseResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "invalid response body: %s", w.Body.String())
	return resp
}
