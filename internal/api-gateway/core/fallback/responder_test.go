package fallback

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
)

func newResponder(t *testing.T) *Responder {
	t.Helper()
	ds, err := DefaultDataset()
	require.NoError(t, err)
	return NewResponder(ds)
}

func respond(t *testing.T, f *Responder, service discovery.ServiceName, method, path string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	f.Respond(rec, httptest.NewRequest(method, path, nil), service)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestCollectionReturnsWholeDataset(t *testing.T) {
	f := newResponder(t)
	tests := []struct {
		service discovery.ServiceName
		path    string
		count   int
	}{
		{discovery.User, "/api/users", 2},
		{discovery.Product, "/api/products/", 2},
		{discovery.Order, "/api/orders", 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.service), func(t *testing.T) {
			code, body := respond(t, f, tt.service, http.MethodGet, tt.path)
			assert.Equal(t, http.StatusOK, code)
			items, ok := body[tt.service.Collection()].([]any)
			require.True(t, ok)
			assert.Len(t, items, tt.count)
			assert.EqualValues(t, tt.count, body["total"])
		})
	}
}

func TestItemLookup(t *testing.T) {
	f := newResponder(t)

	code, body := respond(t, f, discovery.Product, http.MethodGet, "/api/products/1")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Laptop", body["name"])
	assert.Equal(t, 1299.99, body["price"])
	assert.EqualValues(t, 50, body["stock"])

	code, body = respond(t, f, discovery.Order, http.MethodGet, "/api/orders/1")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "delivered", body["status"])
	assert.Equal(t, 1299.99, body["total_amount"])

	code, body = respond(t, f, discovery.User, http.MethodGet, "/api/users/99")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", body["message"])
}

func TestEverythingElseIsUnavailable(t *testing.T) {
	f := newResponder(t)
	tests := []struct {
		name, method, path string
	}{
		{"write", http.MethodPost, "/api/orders"},
		{"item write", http.MethodDelete, "/api/orders/1"},
		{"nested path", http.MethodGet, "/api/orders/1/items"},
		{"other prefix", http.MethodGet, "/api/ordersx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := respond(t, f, discovery.Order, tt.method, tt.path)
			assert.Equal(t, http.StatusServiceUnavailable, code)
			assert.Equal(t, "Service order-service unavailable", body["error"])
			assert.NotEmpty(t, body["message"])
			assert.NotEmpty(t, body["note"])
		})
	}
}

func TestResponderDoesNotMutateDataset(t *testing.T) {
	f := newResponder(t)
	before := len(f.data.All(discovery.User))
	respond(t, f, discovery.User, http.MethodPost, "/api/users")
	respond(t, f, discovery.User, http.MethodGet, "/api/users/1")
	assert.Len(t, f.data.All(discovery.User), before)
}

func TestClassifyPath(t *testing.T) {
	tests := []struct {
		path  string
		shape Shape
		id    string
	}{
		{"/api/users", ShapeCollection, ""},
		{"/api/users/", ShapeCollection, ""},
		{"/api/users/abc-1", ShapeItem, "abc-1"},
		{"/api/users/a/b", ShapeOther, ""},
		{"/api/usersabc", ShapeOther, ""},
		{"/health", ShapeOther, ""},
	}
	for _, tt := range tests {
		shape, id := ClassifyPath(discovery.User, tt.path)
		assert.Equal(t, tt.shape, shape, tt.path)
		assert.Equal(t, tt.id, id, tt.path)
	}
}

func TestParseDatasetRejectsGarbage(t *testing.T) {
	_, err := ParseDataset([]byte("users: [unterminated"))
	assert.Error(t, err)
}
