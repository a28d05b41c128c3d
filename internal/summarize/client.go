package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/medbrief/telemed-api/internal/config"
	"github.com/medbrief/telemed-api/internal/models"
)

// Result is what the model extracts from a consultation transcript.
type Result struct {
	Summary   string     `json:"summary"`
	Medicines []Medicine `json:"medicines"`
}

type Medicine struct {
	Name              string `json:"name"`
	Dosage            string `json:"dosage"`
	Purpose           string `json:"purpose"`
	UsageInstructions string `json:"usage_instructions"`
}

func (m Medicine) ToPrescription() models.Prescription {
	return models.Prescription{
		Name:              m.Name,
		Dosage:            m.Dosage,
		Purpose:           m.Purpose,
		UsageInstructions: m.UsageInstructions,
	}
}

const prompt = `You are a medical scribe. Summarize the following doctor-patient
consultation transcript and extract any prescribed medicines. Respond with JSON
only, shaped as:
{"summary": "...", "medicines": [{"name": "...", "dosage": "...", "purpose": "...", "usage_instructions": "..."}]}

Transcript:
`

// Client calls a Gemini-style generateContent endpoint and parses the
// JSON payload out of the model's reply.
type Client struct {
	baseURL string
	apiKey  string
	model   string

	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.SummarizeBaseURL,
		apiKey:     cfg.SummarizeAPIKey,
		model:      cfg.SummarizeModel,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) Summarize(ctx context.Context, transcript string) (*Result, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt + transcript}}}},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		"%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, c.model, c.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("summarize transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("summarize transcript: unexpected status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("decode summarize response: %w", err)
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("summarize response has no candidates")
	}

	return parseConsultationPayload([]byte(gr.Candidates[0].Content.Parts[0].Text))
}

// parseConsultationPayload tolerates markdown code fences around the
// model's JSON reply.
func parseConsultationPayload(raw []byte) (*Result, error) {
	text := strings.TrimSpace(string(raw))
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var res Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return nil, fmt.Errorf("parse consultation payload: %w", err)
	}

	if res.Summary == "" {
		return nil, fmt.Errorf("consultation payload missing summary")
	}

	return &res, nil
}
