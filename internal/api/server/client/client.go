package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrUpstream marks a failed or unusable response from the model server.
var ErrUpstream = errors.New("upstream request failed")

// Client represents a client for the API
type Client struct {
	http      *http.Client
	modelsUrl *url.URL
	chatUrl   *url.URL
}

// ClientConfig holds the configuration for the client
type ClientConfig struct {
	BaseURL    string
	ModelsPath string
	ChatPath   string
	HTTPClient *http.Client
}

// NewClient creates a new API client with configurable base URL and endpoints.
// A base URL without a scheme is treated as http.
func NewClient(config ClientConfig) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	baseURL, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", config.BaseURL, err)
	}
	if baseURL.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		http:      httpClient,
		modelsUrl: baseURL.ResolveReference(&url.URL{Path: config.ModelsPath}),
		chatUrl:   baseURL.ResolveReference(&url.URL{Path: config.ChatPath}),
	}, nil
}

func (c *Client) GetModelsURL() string {
	return c.modelsUrl.String()
}

func (c *Client) GetChatURL() string {
	return c.chatUrl.String()
}
