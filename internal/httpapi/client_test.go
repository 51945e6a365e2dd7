package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct{ token string }

func (s staticTokens) Token() string { return s.token }

type widget struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

func TestGetDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/widget", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"ok","data":{"id":"w-1","name":"thing"}}`))
	}))
	defer srv.Close()

	var out widget
	res, err := New(srv.URL).Get(context.Background(), "/widget", &out)

	require.NoError(t, err)
	assert.Equal(t, "ok", res.Message)
	assert.Equal(t, "w-1", out.ID)
	assert.Equal(t, "thing", out.Name)
}

func TestAuthedClientAttachesRawToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	_, err := NewAuthed(srv.URL, staticTokens{token: "tok-abc"}).Get(context.Background(), "/cart", nil)

	require.NoError(t, err)
	assert.Equal(t, "tok-abc", gotAuth)
}

func TestAnonymousClientSendsNoAuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Get(context.Background(), "/product", nil)

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"not found", http.StatusNotFound, IsNotFound},
		{"bad request", http.StatusBadRequest, IsValidation},
		{"unprocessable", http.StatusUnprocessableEntity, IsValidation},
		{"internal error", http.StatusInternalServerError, IsServer},
		{"forbidden", http.StatusForbidden, IsServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			}))
			defer srv.Close()

			_, err := New(srv.URL).Get(context.Background(), "/x", nil)

			require.Error(t, err)
			assert.True(t, tt.check(err))
		})
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := New(srv.URL).Get(context.Background(), "/cart", nil)

	require.Error(t, err)
	assert.True(t, IsNetwork(err))
}

func TestMalformedPayloadIsValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Get(context.Background(), "/cart", nil)

	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestDecodedPayloadFailingSchemaIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// name is required by the widget schema
		_, _ = w.Write([]byte(`{"message":"ok","data":{"id":"w-1"}}`))
	}))
	defer srv.Close()

	var out widget
	_, err := New(srv.URL).Get(context.Background(), "/widget", &out)

	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestSliceElementsValidated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok","data":[{"id":"w-1","name":"a"},{"id":"w-2"}]}`))
	}))
	defer srv.Close()

	var out []widget
	_, err := New(srv.URL).Get(context.Background(), "/widget", &out)

	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestPostSendsBodyAndHeaders(t *testing.T) {
	var gotBody map[string]any
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"created","url":"https://pay.example/redirect"}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL).Post(context.Background(), "/order",
		map[string]string{"k": "v"}, nil, WithHeader("Idempotency-Key", "key-1"))

	require.NoError(t, err)
	assert.Equal(t, "key-1", gotKey)
	assert.Equal(t, "v", gotBody["k"])
	assert.Equal(t, "https://pay.example/redirect", res.URL)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
}
