package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OpenRouterService handles OpenRouter API interactions
type OpenRouterService struct {
	apiKey string
	client *http.Client
	model  string
}

type openRouterRequest struct {
	Model       string              `json:"model"`
	Messages    []openRouterMessage `json:"messages"`
	Stream      bool                `json:"stream"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
	TopP        float64             `json:"top_p,omitempty"`
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterResponse struct {
	Choices []openRouterChoice `json:"choices"`
	Error   *openRouterError   `json:"error,omitempty"`
}

type openRouterChoice struct {
	Message openRouterMessage `json:"message"`
}

type openRouterError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// NewOpenRouterService creates a new OpenRouter service
func NewOpenRouterService(apiKey string) *OpenRouterService {
	return &OpenRouterService{
		apiKey: apiKey,
		client: &http.Client{Timeout: 300 * time.Second},
		model:  "deepseek/deepseek-chat-v3-0324:free",
	}
}

// GenerateContentWithSystem implements the Service interface.
func (o *OpenRouterService) GenerateContentWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return o.retryWithBackoffSystem(ctx, systemPrompt, userPrompt, maxAPIRetries)
}

func (o *OpenRouterService) callAPIWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	requestBody := openRouterRequest{
		Model: o.model,
		Messages: []openRouterMessage{
			{
				Role:    "system",
				Content: systemPrompt,
			},
			{
				Role:    "user",
				Content: userPrompt,
			},
		},
		Stream:      false,
		MaxTokens:   8000,
		Temperature: 0.7,
		TopP:        0.9,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://openrouter.ai/api/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("X-Title", "Video Template Builder")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var openRouterResp openRouterResponse
	if err := json.Unmarshal(body, &openRouterResp); err != nil {
		return "", fmt.Errorf("unmarshalling response: %w", err)
	}

	if openRouterResp.Error != nil {
		return "", fmt.Errorf("OpenRouter API error: %s", openRouterResp.Error.Message)
	}

	if len(openRouterResp.Choices) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return openRouterResp.Choices[0].Message.Content, nil
}

func (o *OpenRouterService) retryWithBackoffSystem(ctx context.Context, systemPrompt, userPrompt string, maxRetries int) (string, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		result, err := o.callAPIWithSystem(ctx, systemPrompt, userPrompt)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		lastErr = err

		backoffDuration := time.Duration(1<<attempt) * time.Second
		if isTimeoutError(err) {
			backoffDuration = time.Duration(10*(attempt+1)) * time.Second
			fmt.Printf("OpenRouter timeout (attempt %d/%d), retrying in %v: %v\n",
				attempt+1, maxRetries, backoffDuration, err)
		} else {
			fmt.Printf("OpenRouter API call failed (attempt %d/%d), retrying in %v: %v\n",
				attempt+1, maxRetries, backoffDuration, err)
		}

		if attempt < maxRetries-1 {
			select {
			case <-time.After(backoffDuration):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("API call failed after %d attempts, last error: %w", maxRetries, lastErr)
}
