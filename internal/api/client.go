package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bz888/saturday/internal/logger"
	"github.com/bz888/saturday/internal/transcript"
)

// ErrTransport is returned when the relay cannot be reached or answers with
// anything other than a streaming success.
var ErrTransport = errors.New("relay transport failed")

const (
	chatPath   = "/api/chat"
	modelsPath = "/api/models"
)

// Client talks to the saturday relay.
type Client struct {
	base        *url.URL
	http        *http.Client
	localLogger *logger.Logger
}

func NewClient(relayURL string) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(relayURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse relay url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("relay url %q needs a scheme and host", relayURL)
	}
	return &Client{
		base:        base,
		http:        &http.Client{},
		localLogger: logger.NewLogger("api client"),
	}, nil
}

func (c *Client) endpoint(path string) string {
	return c.base.JoinPath(path).String()
}

// Stream posts env to the relay and returns the raw NDJSON body.
func (c *Client) Stream(ctx context.Context, env transcript.Envelope) (io.ReadCloser, error) {
	requestData, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(chatPath), bytes.NewReader(requestData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")

	c.localLogger.Info("Sending ", len(env.Messages), " messages")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrTransport, resp.Status)
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, fmt.Errorf("%w: empty body", ErrTransport)
	}
	return resp.Body, nil
}

// ListModels returns the models installed on the relay's model server.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(modelsPath), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.localLogger.Error("Failed to perform models request: ", err)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.localLogger.Error("Failed to get models: ", resp.Status)
		return nil, fmt.Errorf("%w: %s", ErrTransport, resp.Status)
	}

	var models []string
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		return nil, fmt.Errorf("decode models: %w", err)
	}
	return models, nil
}
