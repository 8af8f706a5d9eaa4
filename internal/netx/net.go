// Package netx holds small HTTP helpers that sit outside the API client.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

const maxErrorBody = 512

// DownloadURL GETs url (typically a presigned object URL) and returns the
// open response body. Any status other than 200 is an error carrying the
// start of the response body.
func DownloadURL(ctx context.Context, hc *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/octet-stream, */*")

	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}
	return resp.Body, nil
}
