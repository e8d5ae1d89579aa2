// Package client talks to a device over its HTTP endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/picotools/picoide/internal/model"
)

// ErrNotFound matches a 404 answer, e.g. loading a missing file
var ErrNotFound = errors.New("not found")

// StatusError is returned for any non-2xx answer
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		body = http.StatusText(e.Code)
	}
	return fmt.Sprintf("%s returned %d: %s", e.Op, e.Code, body)
}

// Unwrap lets errors.Is(err, ErrNotFound) match 404s
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Client issues request/response calls against one device
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. A nil client keeps the default.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero means none. The timeout is
// applied to a copy, so a client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a client for the device at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.client
		hc.Timeout = c.timeout
		c.client = &hc
	}
	return c
}

// BaseURL returns the device URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Op: path, Code: resp.StatusCode, Body: string(text)}
	}
	return resp, nil
}

func (c *Client) text(ctx context.Context, path string, payload interface{}) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s response: %w", path, err)
	}
	return string(data), nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

type fileRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content,omitempty"`
}

// SaveFile writes content to filename and returns the device's message
func (c *Client) SaveFile(ctx context.Context, filename, content string) (string, error) {
	return c.text(ctx, "/save_file", map[string]string{"filename": filename, "content": content})
}

// LoadFile returns the content of filename
func (c *Client) LoadFile(ctx context.Context, filename string) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/load_file", fileRequest{Filename: filename})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to parse /load_file response: %w", err)
	}
	return result.Content, nil
}

// GetConsole fetches the whole console buffer
func (c *Client) GetConsole(ctx context.Context) ([]model.ConsoleEntry, error) {
	var entries []model.ConsoleEntry
	if err := c.getJSON(ctx, "/get_console", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SendCommand sends one command line. The response body is ignored.
func (c *Client) SendCommand(ctx context.Context, command string) error {
	resp, err := c.do(ctx, http.MethodPost, "/send_command", map[string]string{"command": command})
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// ListFiles lists the files on the device
func (c *Client) ListFiles(ctx context.Context) ([]model.FileMetadata, error) {
	var files []model.FileMetadata
	if err := c.getJSON(ctx, "/list_files", &files); err != nil {
		return nil, err
	}
	return files, nil
}

// CreateFile creates a new file from the device template
func (c *Client) CreateFile(ctx context.Context, filename string) error {
	_, err := c.text(ctx, "/create_file", fileRequest{Filename: filename})
	return err
}

// DeleteFile removes filename from the device
func (c *Client) DeleteFile(ctx context.Context, filename string) error {
	_, err := c.text(ctx, "/delete_file", fileRequest{Filename: filename})
	return err
}

// CommandHistory returns the device's recent commands, newest first
func (c *Client) CommandHistory(ctx context.Context) ([]model.CommandRecord, error) {
	var records []model.CommandRecord
	if err := c.getJSON(ctx, "/command_history", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Health returns the device health document
func (c *Client) Health(ctx context.Context) (map[string]interface{}, error) {
	var health map[string]interface{}
	if err := c.getJSON(ctx, "/health", &health); err != nil {
		return nil, err
	}
	return health, nil
}
