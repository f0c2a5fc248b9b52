// Package imagestore is a client for the external image-hosting
// service: raw encoded image data in, a durable URL and a deletion
// handle out. Hosted asset URLs have the form {base}/assets/{publicID}.
package imagestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Asset is a stored image: its public URL and the handle needed to
// delete it later.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Config holds the image service connection details.
type Config struct {
	BaseURL string
	APIKey  string
	Folder  string // upload folder, e.g. "rentique"
}

// Client talks to the image-hosting service over HTTP.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a new image store client.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  Config{BaseURL: strings.TrimRight(cfg.BaseURL, "/"), APIKey: cfg.APIKey, Folder: cfg.Folder},
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload stores raw encoded image data and returns the hosted asset.
func (c *Client) Upload(ctx context.Context, data []byte, filename string) (Asset, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("folder", c.cfg.Folder); err != nil {
		return Asset{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return Asset{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return Asset{}, fmt.Errorf("failed to write upload body: %w", err)
	}
	if err := w.Close(); err != nil {
		return Asset{}, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/upload", &buf)
	if err != nil {
		return Asset{}, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Asset{}, fmt.Errorf("image upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Asset{}, fmt.Errorf("image upload failed with status %d: %s", resp.StatusCode, body)
	}

	var asset Asset
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return Asset{}, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return asset, nil
}

// Delete removes a stored asset by its deletion handle.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.cfg.BaseURL+"/assets/"+publicID, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("image delete failed: %w", err)
	}
	defer resp.Body.Close()

	// A 404 means the asset is already gone, which is the desired state.
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("image delete failed with status %d", resp.StatusCode)
	}
	return nil
}

// PublicID extracts the deletion handle from a hosted asset URL. The
// second return is false when the URL is not hosted by this store.
func (c *Client) PublicID(url string) (string, bool) {
	prefix := c.cfg.BaseURL + "/assets/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	id := strings.TrimPrefix(url, prefix)
	if id == "" {
		return "", false
	}
	return id, true
}
