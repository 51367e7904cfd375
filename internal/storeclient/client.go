// Package storeclient talks to the remote car-model record store over its
// HTTP/JSON and multipart contract.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"carmodel-inventory/internal/attachment"
	"carmodel-inventory/internal/model"
)

const (
	basePath = "/api/car-models"

	// FieldKept carries the JSON array of existing references to keep.
	FieldKept = "existingImages"
	// FieldImages carries each uploaded binary.
	FieldImages = "images"
)

// TokenProvider returns a bearer token for store requests.
type TokenProvider func(ctx context.Context) (string, error)

// StoreError is a non-success answer from the store. Message holds the
// store-supplied text when the body carried one.
type StoreError struct {
	Status  int
	Message string
}

func (e *StoreError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("store returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("store returned %d", e.Status)
}

// StoreMessage extracts the store-supplied message from err, if any.
func StoreMessage(err error) (string, bool) {
	var se *StoreError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message, true
	}
	return "", false
}

// FormField is one scalar text part of a submission.
type FormField struct {
	Name  string
	Value string
}

// Submission is the multipart body of a create or update call.
// A nil Kept omits the existingImages part entirely; an empty non-nil Kept
// sends "[]" and clears the record's existing images.
type Submission struct {
	Fields []FormField
	Kept   []string
	Files  []attachment.Blob
}

// Client is the record store client.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	tokenProvider TokenProvider
	logger        *slog.Logger
}

// New creates a store client. tokenProvider may be nil.
func New(baseURL string, timeout time.Duration, tokenProvider TokenProvider, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: timeout},
		tokenProvider: tokenProvider,
		logger:        logger.With(slog.String("component", "store_client")),
	}
}

// AssetURL resolves an attachment reference against the store base URL.
func (c *Client) AssetURL(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return c.baseURL + "/" + strings.TrimLeft(ref, "/")
}

// List returns the full record collection in store order.
func (c *Client) List(ctx context.Context) ([]model.Record, error) {
	var out []model.Record
	if err := c.getJSON(ctx, basePath, &out); err != nil {
		return nil, fmt.Errorf("list car models: %w", err)
	}
	return out, nil
}

// Get returns one record.
func (c *Client) Get(ctx context.Context, id string) (*model.Record, error) {
	var out model.Record
	if err := c.getJSON(ctx, basePath+"/"+url.PathEscape(id), &out); err != nil {
		return nil, fmt.Errorf("get car model %s: %w", id, err)
	}
	return &out, nil
}

// Create submits a new record; uploaded files become its initial images.
func (c *Client) Create(ctx context.Context, sub Submission) (*model.Record, error) {
	out, err := c.submit(ctx, http.MethodPost, basePath, sub)
	if err != nil {
		return nil, fmt.Errorf("create car model: %w", err)
	}
	return out, nil
}

// Update replaces the record's images with sub.Kept and appends sub.Files.
func (c *Client) Update(ctx context.Context, id string, sub Submission) (*model.Record, error) {
	out, err := c.submit(ctx, http.MethodPut, basePath+"/edit/"+url.PathEscape(id), sub)
	if err != nil {
		return nil, fmt.Errorf("update car model %s: %w", id, err)
	}
	return out, nil
}

// Delete removes a record. A record that is already gone is not an error.
func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, basePath+"/"+url.PathEscape(id), nil, "")
	if err != nil {
		return fmt.Errorf("delete car model %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.logger.Debug("delete of absent record", slog.String("id", id))
		return nil
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("delete car model %s: %w", id, decodeError(resp))
	}
	return nil
}

// CountReport returns record counts per brand.
func (c *Client) CountReport(ctx context.Context) ([]model.BrandCount, error) {
	var out []model.BrandCount
	if err := c.report(ctx, "count", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StatusReport returns record counts per active flag.
func (c *Client) StatusReport(ctx context.Context) ([]model.StatusCount, error) {
	var out []model.StatusCount
	if err := c.report(ctx, "status", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PriceReport returns average price per brand.
func (c *Client) PriceReport(ctx context.Context) ([]model.PriceAverage, error) {
	var out []model.PriceAverage
	if err := c.report(ctx, "price", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ImageReport returns per-record image usage.
func (c *Client) ImageReport(ctx context.Context) ([]model.ImageUsage, error) {
	var out []model.ImageUsage
	if err := c.report(ctx, "images", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) report(ctx context.Context, name string, out interface{}) error {
	if err := c.getJSON(ctx, basePath+"/report/"+name, out); err != nil {
		return fmt.Errorf("%s report: %w", name, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) submit(ctx context.Context, method, path string, sub Submission) (*model.Record, error) {
	body, contentType, err := EncodeSubmission(sub)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, decodeError(resp)
	}

	var out model.Record
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body *bytes.Buffer, contentType string) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		rdr = body
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if c.tokenProvider != nil {
		token, err := c.tokenProvider(ctx)
		if err != nil {
			return nil, fmt.Errorf("service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("store request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.logger.Debug("store request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

// decodeError turns a non-success response into a *StoreError, picking the
// message from an {"error": ...} or {"message": ...} JSON body.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	se := &StoreError{Status: resp.StatusCode}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		se.Message = payload.Error
		if se.Message == "" {
			se.Message = payload.Message
		}
	}
	return se
}
