package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/brandsignal/brandsignal/internal/classify"
	"github.com/brandsignal/brandsignal/internal/config"
	"github.com/brandsignal/brandsignal/internal/database"
	"github.com/go-resty/resty/v2"
)

// sentimentInstruction is the fixed system prompt for the external
// classifier. The output vocabulary is exactly the three sentiment labels;
// anything else is treated as a failure.
const sentimentInstruction = "You are a sentiment analyzer. Analyze the sentiment of the given text and respond with only one word: POSITIVE, NEUTRAL, or NEGATIVE."

// SentimentService classifies text sentiment. When an OpenAI API key is
// configured it asks the chat-completions endpoint first; any failure falls
// back silently to the keyword classifier, so AnalyzeSentiment is total from
// the caller's point of view.
type SentimentService struct {
	client *resty.Client
	apiKey string
	model  string
}

// NewSentimentService creates a new SentimentService
func NewSentimentService(cfg *config.Config) *SentimentService {
	client := resty.New().
		SetBaseURL(cfg.OpenAIBaseURL).
		SetTimeout(cfg.OpenAITimeout)

	return &SentimentService{
		client: client,
		apiKey: cfg.OpenAIAPIKey,
		model:  cfg.OpenAIModel,
	}
}

// OpenAI API request/response structures
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// AnalyzeSentiment classifies the sentiment of text. It never returns an
// error: external-service failures degrade to the keyword method.
func (s *SentimentService) AnalyzeSentiment(ctx context.Context, text string) database.Sentiment {
	if s.apiKey == "" {
		return classify.ClassifySentiment(text)
	}

	sentiment, err := s.analyzeWithOpenAI(ctx, text)
	if err != nil {
		log.Printf("Sentiment API failed, falling back to keyword analysis: %v", err)
		return classify.ClassifySentiment(text)
	}
	return sentiment
}

// analyzeWithOpenAI performs the single-shot classification call.
func (s *SentimentService) analyzeWithOpenAI(ctx context.Context, text string) (database.Sentiment, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: sentimentInstruction},
			{Role: "user", Content: text},
		},
		MaxTokens:   10,
		Temperature: 0,
	}

	var result chatResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		SetResult(&result).
		Post("/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("sentiment request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("sentiment API returned status %s", resp.Status())
	}
	if result.Error != nil {
		return "", fmt.Errorf("sentiment API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("sentiment API returned no choices")
	}

	label := strings.TrimSpace(result.Choices[0].Message.Content)
	sentiment, ok := database.ParseSentiment(label)
	if !ok {
		return "", fmt.Errorf("unexpected sentiment label %q", label)
	}
	return sentiment, nil
}
