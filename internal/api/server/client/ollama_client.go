package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OllamaClient represents a client for the Ollama API
type OllamaClient struct {
	Client
}

type OllamaClientInterface interface {
	GetModels(ctx context.Context) ([]OllamaModel, error)
	ChatStream(ctx context.Context, req *OllamaChatRequest) (io.ReadCloser, error)
}

// NewOllamaClient creates a client for the Ollama server at host,
// e.g. "http://127.0.0.1:11434" or "gpu-box:11434".
func NewOllamaClient(host string) (*OllamaClient, error) {
	c, err := NewClient(ClientConfig{
		BaseURL:    host,
		ModelsPath: "/api/tags",
		ChatPath:   "/api/chat",
	})
	if err != nil {
		return nil, err
	}
	return &OllamaClient{Client: *c}, nil
}

type OllamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []OllamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  json.RawMessage `json:"options,omitempty"`
}

type OllamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ModelsResponse struct {
	Models []OllamaModel `json:"models"`
}

type OllamaModel struct {
	Name       string       `json:"name"`
	ModifiedAt time.Time    `json:"modified_at"`
	Size       int64        `json:"size"`
	Digest     string       `json:"digest"`
	Details    ModelDetails `json:"details"`
}

type Families []string

// ModelDetails Details represents the details of a model.
type ModelDetails struct {
	Format            string   `json:"format"`
	Family            string   `json:"family"`
	Families          Families `json:"families"`
	ParameterSize     string   `json:"parameter_size"`
	QuantizationLevel string   `json:"quantization_level"`
}

func (c *OllamaClient) GetModels(ctx context.Context) ([]OllamaModel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.GetModelsURL(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch models: %s", ErrUpstream, resp.Status)
	}

	var response ModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode models: %w", err)
	}
	return response.Models, nil
}

// ChatStream starts a streaming chat and returns the raw NDJSON body. The
// caller owns the body. Any non-200 status is reported as ErrUpstream and the
// body is closed.
func (c *OllamaClient) ChatStream(ctx context.Context, data *OllamaChatRequest) (io.ReadCloser, error) {
	bts, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.GetChatURL(), bytes.NewReader(bts))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/x-ndjson")

	response, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if response.StatusCode != http.StatusOK {
		response.Body.Close()
		return nil, fmt.Errorf("%w: chat: %s", ErrUpstream, response.Status)
	}
	if response.Body == nil || response.Body == http.NoBody {
		return nil, fmt.Errorf("%w: chat: empty body", ErrUpstream)
	}
	return response.Body, nil
}

// UnmarshalJSON handles the custom unmarshalling for Families.
func (f *Families) UnmarshalJSON(data []byte) error {
	// If the JSON data is "null", return an empty Families slice.
	if string(data) == "null" {
		*f = Families{}
		return nil
	}

	// Otherwise, unmarshal the data as a regular slice of strings.
	var families []string
	if err := json.Unmarshal(data, &families); err != nil {
		return err
	}
	*f = Families(families)
	return nil
}
