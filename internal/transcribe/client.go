package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/medbrief/telemed-api/internal/config"
)

// Client talks to an AssemblyAI-style transcription API: submit an
// audio URL, then poll the transcript resource until it reports
// completed or failed.
type Client struct {
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	maxPolls     int

	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(cfg *config.Config, log *zap.Logger) *Client {
	return &Client{
		baseURL:      cfg.TranscribeBaseURL,
		apiKey:       cfg.TranscribeAPIKey,
		pollInterval: time.Duration(cfg.TranscribePollSeconds) * time.Second,
		maxPolls:     cfg.TranscribeMaxPolls,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		log:          log,
	}
}

type submitRequest struct {
	AudioURL string `json:"audio_url"`
}

type transcriptResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Transcribe submits audioURL and blocks until the transcript is ready,
// polling every pollInterval. It honors ctx cancellation and gives up
// after maxPolls attempts.
func (c *Client) Transcribe(ctx context.Context, audioURL string) (string, error) {
	id, err := c.submit(ctx, audioURL)
	if err != nil {
		return "", err
	}

	c.log.Debug("transcription submitted", zap.String("transcript_id", id))

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for polls := 0; polls < c.maxPolls; polls++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		tr, err := c.fetch(ctx, id)
		if err != nil {
			return "", err
		}

		switch tr.Status {
		case "completed":
			return tr.Text, nil
		case "error", "failed":
			return "", fmt.Errorf("transcription failed: %s", tr.Error)
		default:
			// queued or processing, keep polling
		}
	}

	return "", fmt.Errorf("transcription not ready after %d polls", c.maxPolls)
}

func (c *Client) submit(ctx context.Context, audioURL string) (string, error) {
	body, err := json.Marshal(submitRequest{AudioURL: audioURL})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v2/transcript",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit transcription: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("submit transcription: unexpected status %d", resp.StatusCode)
	}

	var tr transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}
	if tr.ID == "" {
		return "", fmt.Errorf("transcription response missing id")
	}

	return tr.ID, nil
}

func (c *Client) fetch(ctx context.Context, id string) (*transcriptResponse, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/v2/transcript/"+id,
		nil,
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll transcription: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("poll transcription: unexpected status %d", resp.StatusCode)
	}

	var tr transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode transcription response: %w", err)
	}

	return &tr, nil
}
