package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"wanderplan/config"
)

// ─── Types ────────────────────────────────────────────────────────────────────

// TripQuery is the structured form of a user's free-text travel request. The
// extraction itself is delegated entirely to the LLM; this wrapper only defines
// the interface boundary.
type TripQuery struct {
	Origin             string   `json:"origin"`
	Destination        string   `json:"destination"`
	DestinationAirport string   `json:"destination_airport"`
	DepartureDate      string   `json:"departure_date"`
	ReturnDate         string   `json:"return_date"`
	Travelers          int      `json:"travelers"`
	Budget             float64  `json:"budget,omitempty"`
	HotelPreferences   string   `json:"hotel_preferences,omitempty"`
	Activities         []string `json:"activities,omitempty"`
}

// ─── Client ───────────────────────────────────────────────────────────────────

type LLMClient struct {
	client *openai.Client
	model  string
}

var llmClient *LLMClient

func InitLLM(cfg *config.Config) {
	if cfg.LLMAPIKey == "" {
		log.Println("OPENAI_API_KEY not set — free-text trip parsing disabled")
		return
	}

	clientCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		clientCfg.BaseURL = cfg.LLMBaseURL
	}

	llmClient = &LLMClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.LLMModel,
	}
	log.Printf("LLM initialized with model %s", cfg.LLMModel)
}

func GetLLMClient() *LLMClient {
	return llmClient
}

const extractSystemPrompt = `You are a travel-planning assistant. Extract structured trip parameters from the user's message.
Respond with a single JSON object with these fields:
  origin (IATA airport code), destination (city name), destination_airport (IATA airport code), departure_date (YYYY-MM-DD),
  return_date (YYYY-MM-DD), travelers (int), budget (number, 0 if unspecified),
  hotel_preferences (free text, empty if none), activities (array of activity names).
If the message references social-media videos, infer destination and activities from their context. Respond with JSON only.`

// ExtractTripParams asks the LLM to turn free text (plus any referenced video
// URLs) into a TripQuery. Video URLs are forwarded verbatim; no media analysis
// happens here.
func (c *LLMClient) ExtractTripParams(ctx context.Context, freeText string, videoURLs []string) (*TripQuery, error) {
	if c == nil {
		return nil, fmt.Errorf("LLM not configured")
	}

	userMsg := freeText
	if len(videoURLs) > 0 {
		userMsg += "\n\nReferenced videos:\n" + strings.Join(videoURLs, "\n")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMsg},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("trip extraction failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from LLM")
	}

	var query TripQuery
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &query); err != nil {
		return nil, fmt.Errorf("failed to parse extracted trip parameters: %w", err)
	}

	if query.Travelers <= 0 {
		query.Travelers = 1
	}
	return &query, nil
}
