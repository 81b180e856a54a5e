// Package remote implements the best-effort cloud side of the pipeline:
// a key-addressed object store for evidence images, a Postgres-backed
// incident record store, and a publisher composing the two under a
// strict time budget with zero retries.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// ObjectStore uploads evidence images to an S3-compatible, key-addressed
// HTTP endpoint. Connect and response-header waits are bounded
// separately so a dead network fails within the connect budget instead
// of hanging the caller.
type ObjectStore struct {
	baseURL string
	client  *http.Client
}

func NewObjectStore(baseURL string, connectTimeout, readTimeout time.Duration) *ObjectStore {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
	}
	return &ObjectStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Transport: transport},
	}
}

// Put uploads body under key and returns the object's public URL.
// Overwriting an existing key is harmless: the key is derived from the
// incident's capture timestamp, so a replayed publish writes identical
// bytes.
func (o *ObjectStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	url := o.baseURL + "/" + strings.TrimLeft(key, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build object request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("object upload: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("object upload: unexpected status %s", resp.Status)
	}
	return url, nil
}
