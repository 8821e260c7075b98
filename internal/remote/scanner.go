package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// AcquireBarcode asks the scan hardware for one barcode. The endpoint
// blocks until the device reads a code or its own window elapses; an empty
// barcode in the response means nothing was scanned.
func (c *Client) AcquireBarcode(ctx context.Context) (string, error) {
	var payload struct {
		Barcode string `json:"barcode"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/sendscannedbarcode", nil, &payload); err != nil {
		return "", err
	}
	return payload.Barcode, nil
}

// ScannerHealth probes the hardware endpoint. A non-2xx response or a
// transport error means the scanner is unreachable.
func (c *Client) ScannerHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/scanner/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("scanner unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scanner health returned status %d", resp.StatusCode)
	}
	return nil
}
