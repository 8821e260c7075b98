// Package remote is the HTTP client for the companion service that fronts
// the scan hardware, the product catalog and, when configured, folder and
// item persistence. It satisfies the same store contracts as the embedded
// database so the core never knows which backend it talks to.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"smart-cart-backend/internal/model"
	"smart-cart-backend/internal/store"
)

const (
	productCacheTTL     = 5 * time.Minute
	productCacheCleanup = 10 * time.Minute
)

// Client talks to the companion service. Product lookups are cached
// because the same barcode tends to be scanned repeatedly in one session.
type Client struct {
	base     string
	client   *http.Client
	products *cache.Cache
	log      zerolog.Logger
}

// NewClient creates a client for the service at baseURL. timeout bounds
// every request; zero means 30 seconds.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:     baseURL,
		client:   &http.Client{Timeout: timeout},
		products: cache.New(productCacheTTL, productCacheCleanup),
		log:      log.With().Str("component", "remote").Logger(),
	}
}

// ListFolders fetches all folders.
func (c *Client) ListFolders(ctx context.Context) ([]model.Folder, error) {
	var folders []model.Folder
	if err := c.doJSON(ctx, http.MethodGet, "/api/folders", nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// GetFolder fetches a single folder by id.
func (c *Client) GetFolder(ctx context.Context, id string) (*model.Folder, error) {
	var folder model.Folder
	err := c.doJSON(ctx, http.MethodGet, "/api/folders/"+url.PathEscape(id), nil, &folder)
	if isNotFound(err) {
		return nil, store.ErrFolderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// CreateFolder creates a folder with the given name.
func (c *Client) CreateFolder(ctx context.Context, name string) (*model.Folder, error) {
	var folder model.Folder
	body := map[string]string{"name": name}
	if err := c.doJSON(ctx, http.MethodPost, "/api/folders", body, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// DeleteFolder deletes a folder. Its items survive.
func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	err := c.doJSON(ctx, http.MethodDelete, "/api/folders/"+url.PathEscape(id), nil, nil)
	if isNotFound(err) {
		return store.ErrFolderNotFound
	}
	return err
}

// ListItems fetches one folder's scanned items, most recent first.
func (c *Client) ListItems(ctx context.Context, folderID string) ([]model.ScannedItem, error) {
	var items []model.ScannedItem
	path := "/api/folders/" + url.PathEscape(folderID) + "/items"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem persists one scanned item in its folder.
func (c *Client) CreateItem(ctx context.Context, item model.ScannedItem) (*model.ScannedItem, error) {
	var created model.ScannedItem
	path := "/api/folders/" + url.PathEscape(item.FolderID) + "/items"
	err := c.doJSON(ctx, http.MethodPost, path, item, &created)
	if isNotFound(err) {
		return nil, store.ErrFolderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteItem removes one item by id.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	err := c.doJSON(ctx, http.MethodDelete, "/api/items/"+url.PathEscape(id), nil, nil)
	if isNotFound(err) {
		return nil
	}
	return err
}

// ClearItems removes every item. Used on sign-out.
func (c *Client) ClearItems(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/items", nil, nil)
}

// statusError carries a non-2xx response status so callers can map specific
// codes to domain errors.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.code == http.StatusNotFound
}

// doJSON performs one request against the service, encoding body (when
// non-nil) and decoding the response into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request payload: %w", err)
		}
		reader = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{code: resp.StatusCode, body: string(bytes.TrimSpace(raw))}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
