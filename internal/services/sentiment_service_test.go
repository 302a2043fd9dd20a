package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brandsignal/brandsignal/internal/config"
	"github.com/brandsignal/brandsignal/internal/database"
)

func sentimentServiceFor(ts *httptest.Server, apiKey string) *SentimentService {
	return NewSentimentService(&config.Config{
		OpenAIAPIKey:  apiKey,
		OpenAIBaseURL: ts.URL,
		OpenAIModel:   "gpt-3.5-turbo",
		OpenAITimeout: 2 * time.Second,
	})
}

func sentimentResponder(label string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": label}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func TestAnalyzeSentiment_NoKeyUsesKeywords(t *testing.T) {
	svc := NewSentimentService(&config.Config{OpenAIBaseURL: "http://localhost:1"})

	got := svc.AnalyzeSentiment(context.Background(), "this is terrible and broken")
	if got != database.SentimentNegative {
		t.Errorf("expected keyword NEGATIVE, got %s", got)
	}
}

func TestAnalyzeSentiment_UsesAPIResult(t *testing.T) {
	ts := httptest.NewServer(sentimentResponder("POSITIVE"))
	defer ts.Close()

	svc := sentimentServiceFor(ts, "test-key")
	// "terrible" would classify NEGATIVE by keywords; the API answer wins.
	got := svc.AnalyzeSentiment(context.Background(), "terrible")
	if got != database.SentimentPositive {
		t.Errorf("expected the API result POSITIVE, got %s", got)
	}
}

func TestAnalyzeSentiment_TrimsWhitespace(t *testing.T) {
	ts := httptest.NewServer(sentimentResponder("  negative \n"))
	defer ts.Close()

	svc := sentimentServiceFor(ts, "test-key")
	got := svc.AnalyzeSentiment(context.Background(), "whatever")
	if got != database.SentimentNegative {
		t.Errorf("expected NEGATIVE from a padded label, got %s", got)
	}
}

func TestAnalyzeSentiment_UnexpectedLabelFallsBack(t *testing.T) {
	ts := httptest.NewServer(sentimentResponder("MOSTLY HARMLESS"))
	defer ts.Close()

	svc := sentimentServiceFor(ts, "test-key")
	got := svc.AnalyzeSentiment(context.Background(), "amazing, I love it")
	if got != database.SentimentPositive {
		t.Errorf("expected keyword fallback POSITIVE, got %s", got)
	}
}

func TestAnalyzeSentiment_ServerErrorFallsBack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	svc := sentimentServiceFor(ts, "test-key")
	got := svc.AnalyzeSentiment(context.Background(), "this is terrible")
	if got != database.SentimentNegative {
		t.Errorf("expected keyword fallback NEGATIVE, got %s", got)
	}
}

func TestAnalyzeSentiment_SendsAuthAndModel(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		sentimentResponder("NEUTRAL")(w, r)
	}))
	defer ts.Close()

	svc := sentimentServiceFor(ts, "test-key")
	svc.AnalyzeSentiment(context.Background(), "some text")

	if gotAuth != "Bearer test-key" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotBody.Model != "gpt-3.5-turbo" {
		t.Errorf("expected configured model, got %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[1].Content != "some text" {
		t.Errorf("expected system+user messages, got %+v", gotBody.Messages)
	}
	if gotBody.MaxTokens != 10 || gotBody.Temperature != 0 {
		t.Errorf("unexpected sampling parameters: %+v", gotBody)
	}
}
