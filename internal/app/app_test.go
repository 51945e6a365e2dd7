package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"storefront-client/internal/config"
	"storefront-client/internal/credentials"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	return &config.Config{
		APIBaseURL:      apiURL,
		CredentialsPath: filepath.Join(t.TempDir(), "credentials.json"),
		AppEnv:          "development",
	}
}

func TestNewBuildsAllStores(t *testing.T) {
	a := New(testConfig(t, "http://localhost:2000/api"))

	assert.NotNil(t, a.Session)
	assert.NotNil(t, a.Products)
	assert.NotNil(t, a.Cart)
	assert.NotNil(t, a.Orders)
	assert.Nil(t, a.Live, "no live channel without LIVE_URL")
}

func TestStartWithoutStoredSessionIsAnonymous(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	t.Cleanup(srv.Close)

	a := New(testConfig(t, srv.URL))
	require.NoError(t, a.Start(context.Background()))

	_, ok := a.Session.CurrentUser()
	assert.False(t, ok)
	assert.Zero(t, calls, "anonymous startup makes no requests")
}

func TestStartRehydratesSessionAndPrimesCart(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = fmt.Fprint(w, `{"message":"ok","data":[]}`)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(t, srv.URL)
	seed := credentials.NewStore(cfg.CredentialsPath)
	require.NoError(t, seed.Save(credentials.Credentials{
		Token: "tok-1",
		User:  credentials.Identity{ID: "u-1", Username: "ram", Email: "ram@example.com"},
	}))

	a := New(cfg)
	require.NoError(t, a.Start(context.Background()))

	user, ok := a.Session.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "tok-1", gotAuth, "cart priming carries the stored credential")
}

func TestTeardownIsSafeWithoutLiveChannel(t *testing.T) {
	a := New(testConfig(t, "http://localhost:2000/api"))

	assert.NotPanics(t, a.Teardown)
	assert.NotPanics(t, a.Teardown)
}
