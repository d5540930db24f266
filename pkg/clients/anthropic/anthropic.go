package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
	model          = "claude-3-haiku-20240307"
	maxTokens      = 2048
)

// ErrEmptyResponse is returned when the model produced no content.
var ErrEmptyResponse = errors.New("empty response from ai")

// Client defines the LLM operations used by the recommendation service.
type Client interface {
	EnhanceRecommendation(ctx context.Context, req EnhanceRequest) (json.RawMessage, error)
}

// EnhanceRequest describes the field a fertilizer plan is requested for.
type EnhanceRequest struct {
	CropType          string  `json:"crop_type"`
	SoilType          string  `json:"soil_type,omitempty"`
	FieldSize         float64 `json:"field_size"`
	FieldSizeUnit     string  `json:"field_size_unit"`
	Nitrogen          float64 `json:"nitrogen"`
	Phosphorus        float64 `json:"phosphorus"`
	Potassium         float64 `json:"potassium"`
	PH                float64 `json:"ph"`
	SoilMoisture      float64 `json:"soil_moisture"`
	Temperature       float64 `json:"temperature"`
	Humidity          float64 `json:"humidity"`
	PrimaryFertilizer string  `json:"ml_primary_fertilizer,omitempty"`
}

type anthropicClient struct {
	httpClient *resty.Client
}

// NewClient creates a configured Anthropic client. An empty baseURL targets
// the public API.
func NewClient(apiKey, baseURL string) Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(30 * time.Second)

	return &anthropicClient{httpClient: client}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

const systemPrompt = `You are an agronomist advising smallholder farmers in India.
Given soil test values and crop details, produce a fertilizer plan.

Your output must be ONLY a JSON object with this structure:
{
  "ml_predictions": {"Primary_Fertilizer": string, "Secondary_Fertilizer": string, "pH_Amendment": string,
                     "pH_Status": string, "N_Status": string, "P_Status": string, "K_Status": string},
  "primary_fertilizer": {"name": string, "npk": string, "rate_per_hectare": string, "total_cost": string,
                         "application_method": string, "reason": string},
  "secondary_fertilizer": {same shape as primary_fertilizer, or null},
  "soil_condition": {"ph_status": string, "n_status": string, "p_status": string, "k_status": string,
                     "nutrient_deficiencies": [string], "recommendations": [string]},
  "organic_alternatives": [{"name": string, "amount_kg": number, "reason": string, "timing": string, "cost": number}],
  "application_timing": {"primary_fertilizer": string, "secondary_fertilizer": string, "organic_options": string},
  "cost_estimate": {"primary_fertilizer": string, "secondary_fertilizer": string, "organic_options": string, "total_estimate": string}
}

RULES:
- Costs in Indian rupees, rates per hectare.
- Statuses are one of "Low", "Optimal", "High".
- Output valid JSON only. No markdown, no commentary.`

// EnhanceRecommendation asks the model for a structured fertilizer plan and
// returns the raw JSON object.
func (c *anthropicClient) EnhanceRecommendation(ctx context.Context, req EnhanceRequest) (json.RawMessage, error) {
	fieldJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal field data: %w", err)
	}

	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages: []Message{
			{Role: "user", Content: "Field data (JSON):\n" + string(fieldJSON)},
			// Prefill the assistant response to force JSON
			{Role: "assistant", Content: "{"},
		},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post("/v1/messages")
	if err != nil {
		return nil, fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("anthropic api error: status=%d body=%s", resp.StatusCode(), resp.String())
	}
	if len(respBody.Content) == 0 {
		return nil, ErrEmptyResponse
	}

	// Reconstruct the full JSON since we prefilled the opening brace
	text := cleanJSON("{" + respBody.Content[0].Text)
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("ai response is not valid json: %s", text)
	}
	return json.RawMessage(text), nil
}

// cleanJSON strips markdown code fences the model sometimes wraps output in.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "{```") {
		text = strings.TrimPrefix(text, "{")
	}
	switch {
	case strings.HasPrefix(text, "```json"):
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	case strings.HasPrefix(text, "```"):
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}
