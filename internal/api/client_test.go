package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	customErrors "github.com/abisalde/storefront-client/internal/errors"
	"github.com/abisalde/storefront-client/internal/identity"
	"github.com/abisalde/storefront-client/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCredentials struct {
	user     *identity.User
	token    string
	tokenErr error
}

func (f *fakeCredentials) CurrentUser() *identity.User { return f.user }

func (f *fakeCredentials) IDToken(context.Context) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	if f.user == nil {
		return "", customErrors.ErrNotSignedIn
	}
	return f.token, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, r chi.Router, creds Credentials) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL + "/api/", Credentials: creds})
}

func TestClient_IdentityHeaders(t *testing.T) {
	tests := []struct {
		name      string
		creds     *fakeCredentials
		wantAuth  string
		wantUID   string
		wantError bool
	}{
		{
			name:     "signed in",
			creds:    &fakeCredentials{user: &identity.User{UID: "uid-1"}, token: "tok"},
			wantAuth: "Bearer tok",
			wantUID:  "uid-1",
		},
		{
			name:  "anonymous",
			creds: &fakeCredentials{},
		},
		{
			name:      "token failure",
			creds:     &fakeCredentials{user: &identity.User{UID: "uid-1"}, tokenErr: errors.New("boom")},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got http.Header
			r := chi.NewRouter()
			r.Get("/api/users/profile", func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Clone()
				writeJSON(w, http.StatusOK, model.Account{FirebaseUID: "uid-1"})
			})

			client := newTestClient(t, r, tt.creds)
			_, err := client.Profile(context.Background())
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantAuth, got.Get("Authorization"))
			assert.Equal(t, tt.wantUID, got.Get(HeaderFirebaseUID))
			_, hasAuth := got["Authorization"]
			assert.Equal(t, tt.wantAuth != "", hasAuth)
			assert.NotEmpty(t, got.Get(HeaderRequestID))
			assert.Equal(t, "application/json", got.Get("Accept"))
		})
	}
}

func TestClient_UnauthorizedPublishesEvent(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	})
	client := newTestClient(t, r, &fakeCredentials{})

	var events []UnauthorizedEvent
	unsubscribe := client.OnUnauthorized(func(ev UnauthorizedEvent) { events = append(events, ev) })

	_, err := client.GetCart(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrNotFound)
	require.Len(t, events, 1)
	assert.Equal(t, "/cart", events[0].Path)
	assert.NotEmpty(t, events[0].RequestID)

	unsubscribe()
	_, _ = client.GetCart(context.Background())
	assert.Len(t, events, 1)
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        any
		wantMessage string
		wantCode    string
		wantType    customErrors.ErrorType
	}{
		{
			name:        "message field",
			status:      http.StatusBadRequest,
			body:        map[string]string{"message": "Insufficient stock", "error": "Bad Request"},
			wantMessage: "Insufficient stock",
			wantType:    customErrors.ErrorTypeBadRequest,
		},
		{
			name:        "error field with code",
			status:      http.StatusBadRequest,
			body:        map[string]string{"error": "invalid quantity", "code": "INVALID_INPUT"},
			wantMessage: "invalid quantity",
			wantCode:    "INVALID_INPUT",
			wantType:    customErrors.ErrorTypeBadRequest,
		},
		{
			name:        "no body",
			status:      http.StatusInternalServerError,
			wantMessage: "",
			wantType:    customErrors.ErrorTypeInternalServerError,
		},
		{
			name:        "not found",
			status:      http.StatusNotFound,
			body:        map[string]string{"message": "Order not found"},
			wantMessage: "Order not found",
			wantType:    customErrors.ErrorTypeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Get("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			})
			client := newTestClient(t, r, nil)

			_, err := client.GetOrder(context.Background(), 7)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.wantMessage, UserMessage(err, ""))
			assert.NotEmpty(t, err.Error())
			assert.Equal(t, tt.wantCode, apiErr.Code)

			kind, ok := customErrors.TypeOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantType, kind)
			assert.Equal(t, tt.status == http.StatusNotFound, errors.Is(err, ErrNotFound))
		})
	}
}

func TestClient_CartEndpoints(t *testing.T) {
	cart := model.Cart{
		ID: 1,
		Items: []model.CartItem{
			{ID: 10, ProductID: 5, Quantity: 2, UnitPrice: 10, TotalPrice: 20, IsAvailable: true},
		},
		TotalAmount: 20,
		TotalItems:  2,
	}

	var (
		addBody      model.AddToCartRequest
		updateQty    string
		removedItem  string
		clearedCalls int
	)

	r := chi.NewRouter()
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, cart) })
		r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
			clearedCalls++
			w.WriteHeader(http.StatusOK)
		})
		r.Post("/add", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&addBody))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			writeJSON(w, http.StatusOK, cart)
		})
		r.Put("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "10", chi.URLParam(r, "id"))
			updateQty = r.URL.Query().Get("quantity")
			writeJSON(w, http.StatusOK, cart)
		})
		r.Delete("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
			removedItem = chi.URLParam(r, "id")
			writeJSON(w, http.StatusOK, model.EmptyCart())
		})
	})
	client := newTestClient(t, r, nil)
	ctx := context.Background()

	got, err := client.GetCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, cart.Items, got.Items)

	_, err = client.AddToCart(ctx, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, model.AddToCartRequest{ProductID: 5, Quantity: 2}, addBody)

	_, err = client.UpdateCartItem(ctx, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, "3", updateQty)

	emptied, err := client.RemoveCartItem(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "10", removedItem)
	assert.True(t, emptied.IsEmpty())

	require.NoError(t, client.ClearCart(ctx))
	assert.Equal(t, 1, clearedCalls)
}

func TestClient_OrderAndProductEndpoints(t *testing.T) {
	var (
		createBody model.CreateOrderRequest
		pageQuery  string
		limits     []string
		cancelled  string
	)

	r := chi.NewRouter()
	r.Post("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&createBody))
		writeJSON(w, http.StatusCreated, model.Order{ID: 42, OrderNumber: "ORD-42", Status: model.OrderStatusPending})
	})
	r.Get("/api/orders/user", func(w http.ResponseWriter, r *http.Request) {
		pageQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, model.Page[model.Order]{Content: []model.Order{{ID: 1}}, Last: true})
	})
	r.Post("/api/orders/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		cancelled = chi.URLParam(r, "id")
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/api/products/featured", func(w http.ResponseWriter, r *http.Request) {
		limits = append(limits, r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, []model.Product{{ID: 1, IsFeatured: true}})
	})
	r.Get("/api/products/latest", func(w http.ResponseWriter, r *http.Request) {
		limits = append(limits, r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, []model.Product{})
	})
	client := newTestClient(t, r, nil)
	ctx := context.Background()

	order, err := client.CreateOrder(ctx, model.CreateOrderRequest{
		PaymentMethod:  model.PaymentMethodPayPal,
		ShippingStreet: "1 Main St",
		Notes:          "leave at door",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)
	assert.Equal(t, model.PaymentMethodPayPal, createBody.PaymentMethod)
	assert.Equal(t, "1 Main St", createBody.ShippingStreet)

	page, err := client.UserOrders(ctx, 2, 10)
	require.NoError(t, err)
	assert.True(t, page.Last)
	assert.Equal(t, "page=2&size=10", pageQuery)

	require.NoError(t, client.CancelOrder(ctx, 42))
	assert.Equal(t, "42", cancelled)

	featured, err := client.FeaturedProducts(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, featured, 1)
	latest, err := client.LatestProducts(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, latest)
	assert.Equal(t, []string{"4", "8"}, limits)
}

func TestClient_NetworkError(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://127.0.0.1:1/api"})

	_, err := client.GetCart(context.Background())
	require.Error(t, err)
	kind, ok := customErrors.TypeOf(err)
	require.True(t, ok)
	assert.Equal(t, customErrors.ErrorTypeNetwork, kind)
}
