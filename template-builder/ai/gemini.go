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

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"
	geminiTimeout = 120 * time.Second
	maxAPIRetries = 3
)

// GeminiService handles all Gemini API interactions
type GeminiService struct {
	apiKey string
	client *http.Client
}

// Gemini API types
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// NewGeminiService creates a new Gemini service
func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		apiKey: apiKey,
		client: &http.Client{Timeout: geminiTimeout},
	}
}

// GenerateContentWithSystem implements the Service interface. Gemini has no
// separate system role, so the prompts are combined.
func (g *GeminiService) GenerateContentWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	combinedPrompt := systemPrompt + "\n\n" + userPrompt
	return g.retryWithExponentialBackoff(ctx, combinedPrompt, maxAPIRetries)
}

func (g *GeminiService) callAPI(ctx context.Context, prompt string) (string, error) {
	requestBody := geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{Text: prompt},
				},
			},
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("marshalling JSON: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", geminiBaseURL, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
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

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("unmarshalling response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// retryWithExponentialBackoff implements retry logic for API calls
func (g *GeminiService) retryWithExponentialBackoff(ctx context.Context, prompt string, maxRetries int) (string, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		result, err := g.callAPI(ctx, prompt)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		lastErr = err

		// Exponential backoff: 1s, 2s, 4s...
		backoffDuration := time.Duration(1<<attempt) * time.Second
		fmt.Printf("Gemini API call failed (attempt %d/%d), retrying in %v: %v\n",
			attempt+1, maxRetries, backoffDuration, err)

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
