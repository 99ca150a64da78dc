// internal/genai/client.go
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"trip-planner/internal/common/metrics"
)

var (
	ErrGenerationTimeout = errors.New("GENERATION_TIMEOUT")
	ErrGenerationFailed  = errors.New("GENERATION_FAILED")
)

// Generator is the text-generation collaborator contract.
type Generator interface {
	Generate(ctx context.Context, prompt, language string) (string, error)
}

// Config holds settings for the HTTP generation client.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
}

// HTTPClient posts prompts to a generation endpoint. Request timeouts
// are handled through the context only so a retry is not charged the
// wall-clock of the failed attempt twice.
type HTTPClient struct {
	config *Config
	client *http.Client
}

func NewHTTPClient(config *Config) *HTTPClient {
	return &HTTPClient{
		config: config,
		client: &http.Client{},
	}
}

// Generate runs one synthesis call, retrying transient failures with
// exponential backoff up to MaxRetries. An empty completion after the
// final attempt is a hard failure: no itinerary is better than a
// fabricated empty one.
func (c *HTTPClient) Generate(ctx context.Context, prompt, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	requestBody := map[string]interface{}{
		"model":       c.config.Model,
		"prompt":      prompt,
		"language":    language,
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
	}
	body, _ := json.Marshal(requestBody)

	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.GenerationRetries.Inc()
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrGenerationTimeout
			}
		}

		text, err := c.generateOnce(ctx, body)
		if err == nil {
			return text, nil
		}
		if errors.Is(err, ErrGenerationTimeout) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("%w: %v", ErrGenerationFailed, lastErr)
}

func (c *HTTPClient) generateOnce(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrGenerationTimeout
		}
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("decode error: %w", err)
	}

	if strings.TrimSpace(apiResponse.Text) == "" {
		return "", errors.New("empty completion")
	}

	return apiResponse.Text, nil
}
