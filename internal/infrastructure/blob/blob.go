// Package blob moves asset bytes to and from object storage over plain HTTP:
// PUT against a pre-signed write credential, GET against a public URL.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"expiry-scanner-api/internal/domain/apperr"
	"expiry-scanner-api/internal/domain/upload"
)

const (
	// MaxAssetSize bounds uploads and downloads alike (10MB).
	MaxAssetSize = int64(10 << 20)

	defaultContentType = "image/jpeg"
	maxErrBody         = 512
)

type Client struct {
	http *http.Client
	now  func() time.Time
}

func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{http: httpClient, now: time.Now}
}

// Transfer uploads body to the credential's URL. Any non-2xx answer is an
// ErrAssetTransfer and the object must not be considered stored.
func (c *Client) Transfer(ctx context.Context, cred upload.WriteCredential, body []byte, contentType string) error {
	if cred.URL == "" {
		return apperr.New(apperr.ErrAssetTransfer, "empty write target")
	}
	if cred.Expired(c.now()) {
		return apperr.New(apperr.ErrAssetTransfer, "write credential expired")
	}
	if int64(len(body)) > MaxAssetSize {
		return apperr.New(apperr.ErrAssetTransfer, "asset exceeds 10MB")
	}

	method := cred.Method
	if method == "" {
		method = http.MethodPut
	}

	req, err := http.NewRequestWithContext(ctx, method, cred.URL, bytes.NewReader(body))
	if err != nil {
		return apperr.Wrap(apperr.ErrAssetTransfer, "build request", err)
	}
	for k, v := range cred.Headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.ContentLength = int64(len(body))

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.ErrAssetTransfer, "upload request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return apperr.New(apperr.ErrAssetTransfer,
			fmt.Sprintf("upload failed: %s; body: %s", resp.Status, strings.TrimSpace(string(b))))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// Fetch downloads the asset at url and reports its content type, falling back
// to image/jpeg when storage does not declare one.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.ErrFetch, "invalid image url", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.ErrFetch, "failed to fetch image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", apperr.New(apperr.ErrFetch, fmt.Sprintf("failed to fetch image: %d", resp.StatusCode))
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxAssetSize+1))
	if err != nil {
		return nil, "", apperr.Wrap(apperr.ErrFetch, "failed to read image", err)
	}
	if int64(len(b)) > MaxAssetSize {
		return nil, "", apperr.New(apperr.ErrFetch, "image exceeds 10MB")
	}

	ct := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.TrimSpace(ct)
	if ct == "" || ct == "application/octet-stream" {
		ct = defaultContentType
	}

	return b, ct, nil
}
