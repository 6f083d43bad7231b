package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultJSONBinBaseURL is the public JSONBin v3 endpoint for bins.
const DefaultJSONBinBaseURL = "https://api.jsonbin.io/v3/b"

// JSONBinConfig holds configuration for the JSONBin client.
type JSONBinConfig struct {
	BaseURL   string        // e.g. "https://api.jsonbin.io/v3/b"
	BinID     string        // bin holding the document
	MasterKey string        // X-Master-Key credential
	Timeout   time.Duration // HTTP request timeout
}

// LoadJSONBinConfig loads JSONBin configuration from environment variables.
func LoadJSONBinConfig() JSONBinConfig {
	base := os.Getenv("JSONBIN_BASE_URL")
	if base == "" {
		base = DefaultJSONBinBaseURL
	}
	return JSONBinConfig{
		BaseURL:   strings.TrimRight(base, "/"),
		BinID:     os.Getenv("JSONBIN_BIN_ID"),
		MasterKey: os.Getenv("JSONBIN_MASTER_KEY"),
		Timeout:   10 * time.Second,
	}
}

// JSONBinStore keeps the document in a JSONBin bin.
type JSONBinStore struct {
	cfg    JSONBinConfig
	client *http.Client
}

var _ Store = (*JSONBinStore)(nil)

// NewJSONBinStore creates a new instance of JSONBinStore with the given HTTP client.
func NewJSONBinStore(cfg JSONBinConfig, client *http.Client) *JSONBinStore {
	return &JSONBinStore{cfg: cfg, client: client}
}

// Get downloads the latest version of the bin without JSONBin metadata.
func (s *JSONBinStore) Get(ctx context.Context) ([]byte, error) {
	u := fmt.Sprintf("%s/%s/latest", s.cfg.BaseURL, s.cfg.BinID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Master-Key", s.cfg.MasterKey)
	req.Header.Set("X-Bin-Meta", "false")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer closeBody(res)

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("jsonbin http %d", res.StatusCode)
	}
	return io.ReadAll(res.Body)
}

// Put replaces the bin content with data.
func (s *JSONBinStore) Put(ctx context.Context, data []byte) error {
	u := fmt.Sprintf("%s/%s", s.cfg.BaseURL, s.cfg.BinID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Master-Key", s.cfg.MasterKey)

	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer closeBody(res)

	if res.StatusCode >= 400 {
		return fmt.Errorf("jsonbin http %d", res.StatusCode)
	}
	return nil
}

func closeBody(res *http.Response) {
	if err := res.Body.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err)
	}
}
