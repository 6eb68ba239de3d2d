package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"golang.org/x/net/proxy"
	"io"
	"net"
	"net/http"
	"net/url"
	"selfchat/internal/app/domain/message"
	"selfchat/pkg/logger"
	"strings"
	"time"
)

// ServerConfig is what the server publishes at /api/config.
type ServerConfig struct {
	TTLSeconds          int `json:"ttlSeconds"`
	PollIntervalSeconds int `json:"pollIntervalSeconds"`
}

func (c ServerConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func (c ServerConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// APIError is a non-2xx answer. 400 and 404 unwrap to the matching message errors.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return message.ErrValidation
	case http.StatusNotFound:
		return message.ErrNotFound
	}
	return nil
}

type Client struct {
	log     logger.Logger
	http    *http.Client
	baseURL string
}

func New(log logger.Logger, baseURL string, httpClient *http.Client) *Client {
	return &Client{
		log:     log,
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// NewHTTPClient builds the transport, dialing through a SOCKS5 proxy when proxyAddr is set.
func NewHTTPClient(proxyAddr string, timeout time.Duration) (*http.Client, error) {
	client := &http.Client{
		Timeout:   timeout,
		Transport: http.DefaultTransport,
	}
	if proxyAddr == "" {
		return client, nil
	}

	dialer, err := proxy.SOCKS5("tcp", proxyAddr, nil, proxy.Direct)
	if err != nil {
		return nil, err
	}

	client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		},
	}
	return client, nil
}

func (c *Client) Config(ctx context.Context) (*ServerConfig, error) {
	var cfg ServerConfig
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) List(ctx context.Context) ([]message.Message, error) {
	var msgs []message.Message
	if err := c.do(ctx, http.MethodGet, "/api/messages", nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Client) Send(ctx context.Context, sender message.Sender, textPrimary, textSecondary string) (*message.Message, error) {
	in := map[string]string{
		"sender":        string(sender),
		"textPrimary":   textPrimary,
		"textSecondary": textSecondary,
	}

	var msg message.Message
	if err := c.do(ctx, http.MethodPost, "/api/messages", in, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) Edit(ctx context.Context, id, textPrimary, textSecondary string) (*message.Message, error) {
	in := map[string]string{
		"textPrimary":   textPrimary,
		"textSecondary": textSecondary,
	}

	var msg message.Message
	if err := c.do(ctx, http.MethodPut, "/api/messages/"+url.PathEscape(id), in, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/messages/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(slurp, &payload) != nil || payload.Error == "" {
			payload.Error = strings.TrimSpace(string(slurp))
		}
		return &APIError{Status: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
