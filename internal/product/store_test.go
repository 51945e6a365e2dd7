package product

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"storefront-client/internal/httpapi"
	"storefront-client/internal/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listBody = `{"message":"ok","data":[
	{"id":"p-1","name":"Air Runner","brand":"Nike","price":4500,"inStock":true,"sizes":["40","41"],"colors":["black"]},
	{"id":"p-2","name":"Court Classic","brand":"Adidas","price":3200,"inStock":true,"colors":["white"]}
]}`

func newTestStore(t *testing.T, handler http.Handler) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStore(httpapi.New(srv.URL))
}

func TestFetchAllReplacesList(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/product", r.URL.Path)
		_, _ = w.Write([]byte(listBody))
	}))

	require.NoError(t, store.FetchAll(context.Background()))

	products := store.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "Air Runner", products[0].Name)
	assert.Equal(t, status.Success, store.Status())
}

func TestFetchByIDShortCircuitsToFetchedList(t *testing.T) {
	var detailCalls atomic.Int32
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/product" {
			_, _ = w.Write([]byte(listBody))
			return
		}
		detailCalls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	}))
	require.NoError(t, store.FetchAll(context.Background()))

	require.NoError(t, store.FetchByID(context.Background(), "p-2"))

	current, ok := store.Current()
	assert.True(t, ok)
	assert.Equal(t, "Court Classic", current.Name)
	assert.Zero(t, detailCalls.Load(), "known product must not hit the network")
}

func TestFetchByIDFallsBackToNetwork(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/product/p-9", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"ok","data":{"id":"p-9","name":"Trail Max","brand":"Salomon","price":8000}}`))
	}))

	require.NoError(t, store.FetchByID(context.Background(), "p-9"))

	current, ok := store.Current()
	assert.True(t, ok)
	assert.Equal(t, "Trail Max", current.Name)
}

func TestFetchByIDNotFound(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"product not found"}`))
	}))

	err := store.FetchByID(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, httpapi.IsNotFound(err))
	assert.Equal(t, status.Error, store.Status())
}

func TestSearchMatchesNameAndBrand(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listBody))
	}))
	require.NoError(t, store.FetchAll(context.Background()))

	assert.Len(t, store.Search("runner"), 1)
	assert.Len(t, store.Search("adidas"), 1)
	assert.Empty(t, store.Search("puma"))
	assert.Empty(t, store.Search("  "))
}

func TestHasVariants(t *testing.T) {
	assert.True(t, Product{Sizes: []string{"40"}}.HasVariants())
	assert.True(t, Product{RAMOptions: []string{"16GB"}}.HasVariants())
	assert.False(t, Product{}.HasVariants())
}
