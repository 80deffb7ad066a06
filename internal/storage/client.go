// Package storage wraps the path-keyed object store holding profile images.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// UploadOptions mirror the store's upload knobs.
type UploadOptions struct {
	ContentType  string
	CacheControl string
	Upsert       bool
}

// Error carries the store's message and HTTP status.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Client talks to a Supabase-storage-compatible object API for one bucket.
type Client struct {
	httpClient *http.Client
	storageURL string
	serviceKey string
	bucket     string
}

// NewClient builds a storage client bound to a single bucket.
func NewClient(httpClient *http.Client, storageURL, serviceKey, bucket string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		storageURL: strings.TrimRight(storageURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
	}
}

// Upload writes the object at path, optionally overwriting.
func (c *Client) Upload(ctx context.Context, path string, data []byte, opts UploadOptions) error {
	urlStr := fmt.Sprintf("%s/object/%s/%s", c.storageURL, c.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, urlStr, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	c.authorize(req)

	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	if opts.CacheControl != "" {
		req.Header.Set("Cache-Control", opts.CacheControl)
	}
	if opts.Upsert {
		req.Header.Set("x-upsert", "true")
	}

	return c.send(req)
}

// Copy duplicates an object within the bucket.
func (c *Client) Copy(ctx context.Context, fromPath, toPath string) error {
	payload := map[string]any{
		"bucketId":       c.bucket,
		"sourceKey":      fromPath,
		"destinationKey": toPath,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal copy request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.storageURL+"/object/copy", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create copy request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	return c.send(req)
}

// Remove deletes the given objects. Missing objects are the store's problem,
// not ours.
func (c *Client) Remove(ctx context.Context, paths []string) error {
	payload := map[string]any{"prefixes": paths}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal remove request: %w", err)
	}

	urlStr := fmt.Sprintf("%s/object/%s", c.storageURL, c.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, urlStr, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create remove request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	return c.send(req)
}

// PublicURL resolves the public URL for an object path.
func (c *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", c.storageURL, c.bucket, path)
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
}

func (c *Client) send(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return parseError(body, resp.StatusCode)
	}
	return nil
}

func parseError(body []byte, statusCode int) *Error {
	var payload struct {
		Message    string `json:"message"`
		ErrorField string `json:"error"`
	}
	message := fmt.Sprintf("storage returned status %d", statusCode)
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			message = payload.Message
		case payload.ErrorField != "":
			message = payload.ErrorField
		}
	}
	return &Error{StatusCode: statusCode, Message: message}
}
