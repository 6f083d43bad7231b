package blobstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJSONBin(t *testing.T, h http.HandlerFunc) *JSONBinStore {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := JSONBinConfig{BaseURL: srv.URL, BinID: "bin-1", MasterKey: "secret", Timeout: time.Second}
	return NewJSONBinStore(cfg, srv.Client())
}

func TestJSONBinStore_Get(t *testing.T) {
	t.Parallel()

	store := newTestJSONBin(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/bin-1/latest", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Master-Key"))
		assert.Equal(t, "false", r.Header.Get("X-Bin-Meta"))
		_, _ = w.Write([]byte(`{"migraine_entries":[]}`))
	})

	b, err := store.Get(context.Background())

	require.NoError(t, err)
	assert.JSONEq(t, `{"migraine_entries":[]}`, string(b))
}

func TestJSONBinStore_Put(t *testing.T) {
	t.Parallel()

	var body string
	store := newTestJSONBin(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/bin-1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	})

	err := store.Put(context.Background(), []byte(`{"app_users":[]}`))

	require.NoError(t, err)
	assert.Equal(t, `{"app_users":[]}`, body)
}

func TestJSONBinStore_HTTPError(t *testing.T) {
	t.Parallel()

	store := newTestJSONBin(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := store.Get(context.Background())
	assert.ErrorContains(t, err, "jsonbin http 401")

	err = store.Put(context.Background(), []byte(`{}`))
	assert.ErrorContains(t, err, "jsonbin http 401")
}

func TestLoadJSONBinConfig(t *testing.T) {
	t.Setenv("JSONBIN_BASE_URL", "")
	t.Setenv("JSONBIN_BIN_ID", "abc")
	t.Setenv("JSONBIN_MASTER_KEY", "key")

	cfg := LoadJSONBinConfig()

	assert.Equal(t, DefaultJSONBinBaseURL, cfg.BaseURL)
	assert.Equal(t, "abc", cfg.BinID)
	assert.Equal(t, "key", cfg.MasterKey)
}
