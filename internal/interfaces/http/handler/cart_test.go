package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartapp "github.com/kiylo/backend/internal/application/cart"
	"github.com/kiylo/backend/internal/domain/cart"
	"github.com/kiylo/backend/internal/domain/catalog"
	"github.com/kiylo/backend/internal/domain/shared"
	"github.com/kiylo/backend/internal/infrastructure/auth"
	"github.com/kiylo/backend/internal/infrastructure/config"
	"github.com/kiylo/backend/internal/interfaces/http/middleware"
	"github.com/kiylo/backend/internal/interfaces/http/router"
)

type fakeCartRepo struct {
	carts    map[string]*cart.Cart
	variants *fakeVariantRepo
}

func newFakeCartRepo(variants *fakeVariantRepo) *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string]*cart.Cart), variants: variants}
}

func ownerKey(owner cart.Owner) string {
	if owner.UserID != nil {
		return "user:" + owner.UserID.String()
	}
	return "guest:" + owner.GuestID
}

func (r *fakeCartRepo) FindByOwner(_ context.Context, owner cart.Owner) (*cart.Cart, error) {
	c, ok := r.carts[ownerKey(owner)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *fakeCartRepo) FindPricedItems(_ context.Context, cartID uuid.UUID) ([]cart.PricedItem, error) {
	for _, c := range r.carts {
		if c.ID != cartID {
			continue
		}
		items := make([]cart.PricedItem, 0, len(c.Items))
		for _, item := range c.Items {
			v := r.variants.byID[item.VariantID]
			price := v.EffectivePrice(decimal.NewFromInt(20))
			items = append(items, cart.PricedItem{
				ItemID:    item.ID,
				VariantID: item.VariantID,
				ProductID: v.ProductID,
				SKU:       v.SKU,
				Quantity:  item.Quantity,
				UnitPrice: price,
				LineTotal: price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			})
		}
		return items, nil
	}
	return nil, nil
}

func (r *fakeCartRepo) Save(_ context.Context, c *cart.Cart) error {
	var owner cart.Owner
	if c.UserID != nil {
		owner = cart.UserOwner(*c.UserID)
	} else {
		owner = cart.GuestOwner(*c.GuestID)
	}
	r.carts[ownerKey(owner)] = c
	return nil
}

func (r *fakeCartRepo) DeleteItem(_ context.Context, cartID, variantID uuid.UUID) error {
	return nil
}

func (r *fakeCartRepo) ClearItems(_ context.Context, cartID uuid.UUID) error {
	for _, c := range r.carts {
		if c.ID == cartID {
			c.Items = nil
		}
	}
	return nil
}

type fakeVariantRepo struct {
	byID map[uuid.UUID]*catalog.Variant
}

func (r *fakeVariantRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Variant, error) {
	v, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return v, nil
}

func (r *fakeVariantRepo) FindByIDsForUpdate(context.Context, []uuid.UUID) ([]catalog.Variant, error) {
	return nil, nil
}

func (r *fakeVariantRepo) ReplaceForProduct(context.Context, uuid.UUID, []catalog.Variant) error {
	return nil
}

func (r *fakeVariantRepo) AdjustStock(context.Context, uuid.UUID, int) (bool, error) {
	return false, nil
}

func (r *fakeVariantRepo) Save(context.Context, *catalog.Variant) error { return nil }

func (r *fakeVariantRepo) FindBelowThreshold(context.Context, shared.Filter) ([]catalog.Variant, error) {
	return nil, nil
}

var _ cart.Repository = (*fakeCartRepo)(nil)
var _ catalog.VariantRepository = (*fakeVariantRepo)(nil)

func newCartTestServer(t *testing.T) (*gin.Engine, *auth.JWTService, *fakeVariantRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "cart-test-secret-that-is-long-enough!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "kiylo-test",
	})

	variants := &fakeVariantRepo{byID: make(map[uuid.UUID]*catalog.Variant)}
	carts := newFakeCartRepo(variants)
	h := NewCartHandler(cartapp.NewCartService(carts, variants))

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.JWTAuth(middleware.JWTConfig{
		JWTService:           jwtService,
		OptionalPathPrefixes: []string{"/api/v1/cart"},
	}))

	group := router.NewDomainGroup("/cart")
	h.RegisterRoutes(group)
	router.NewRouter(engine).Register(group).Setup()

	return engine, jwtService, variants
}

func seedVariant(variants *fakeVariantRepo, active bool) *catalog.Variant {
	v := &catalog.Variant{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     uuid.New(),
		SKU:           "TEST-SKU",
		StockQuantity: 10,
		IsActive:      active,
	}
	variants.byID[v.ID] = v
	return v
}

func TestCartHandler(t *testing.T) {
	t.Run("guest without a cart sees an empty one", func(t *testing.T) {
		engine, _, _ := newCartTestServer(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set(middleware.GuestIDHeader, "guest-1")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"items":[]`)
	})

	t.Run("request with no identity is rejected", func(t *testing.T) {
		engine, _, _ := newCartTestServer(t)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("guest adds an item", func(t *testing.T) {
		engine, _, variants := newCartTestServer(t)
		v := seedVariant(variants, true)

		body, _ := json.Marshal(gin.H{"variant_id": v.ID, "quantity": 2})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.GuestIDHeader, "guest-2")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"quantity":2`)
		assert.Contains(t, w.Body.String(), v.SKU)
	})

	t.Run("inactive variant cannot be added", func(t *testing.T) {
		engine, _, variants := newCartTestServer(t)
		v := seedVariant(variants, false)

		body, _ := json.Marshal(gin.H{"variant_id": v.ID, "quantity": 1})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.GuestIDHeader, "guest-3")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_INVALID_STATE")
	})

	t.Run("authenticated user's token outranks the guest header", func(t *testing.T) {
		engine, jwtService, variants := newCartTestServer(t)
		v := seedVariant(variants, true)
		userID := uuid.New()

		pair, err := jwtService.GenerateTokenPair(userID, "shopper@example.com", []string{"user"})
		require.NoError(t, err)

		body, _ := json.Marshal(gin.H{"variant_id": v.ID, "quantity": 1})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		req.Header.Set(middleware.GuestIDHeader, "guest-4")
		engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		// The guest header alone must not see the user's cart
		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set(middleware.GuestIDHeader, "guest-4")
		engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"items":[]`)
	})

	t.Run("unknown variant yields 404", func(t *testing.T) {
		engine, _, _ := newCartTestServer(t)

		body, _ := json.Marshal(gin.H{"variant_id": uuid.New(), "quantity": 1})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.GuestIDHeader, "guest-5")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
	})
}
