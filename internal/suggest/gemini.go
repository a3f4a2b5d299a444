// Package suggest asks a text-generation model for starter tasks when a
// project is created. The call is strictly best-effort: a missing API key
// or any failure degrades to zero suggestions and never blocks creation.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"
)

type TaskSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

type Service struct {
	APIKey  string
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewService(apiKey string) *Service {
	return &Service{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		Model:   defaultModel,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type planPayload struct {
	Tasks []TaskSuggestion `json:"tasks"`
}

// ProjectPlan returns suggested initial tasks for a new project, or nil.
func (s *Service) ProjectPlan(ctx context.Context, name, description string) []TaskSuggestion {
	if s == nil || s.APIKey == "" {
		return nil
	}

	prompt := fmt.Sprintf(
		"Act as a senior project manager. Given the project name %q and description %q, "+
			"generate a list of 5-8 initial high-level tasks to get the project started. "+
			"Respond with JSON of the form {\"tasks\": [...]} where each task has "+
			"'title' (string), 'description' (string), 'priority' (HIGH, MEDIUM or LOW) "+
			"and 'status' (TODO).",
		name, description,
	)

	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		log.Printf("⚠️  Task suggestion request build failed: %v", err)
		return nil
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.BaseURL, s.Model, s.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("⚠️  Task suggestion request build failed: %v", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		log.Printf("⚠️  Task suggestion call failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("⚠️  Task suggestion call returned status %d", resp.StatusCode)
		return nil
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		log.Printf("⚠️  Task suggestion response decode failed: %v", err)
		return nil
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil
	}

	var plan planPayload
	if err := json.Unmarshal([]byte(gr.Candidates[0].Content.Parts[0].Text), &plan); err != nil {
		log.Printf("⚠️  Task suggestion payload parse failed: %v", err)
		return nil
	}
	return plan.Tasks
}
