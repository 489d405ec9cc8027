package baseline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the external base-analysis service that classifies a
// segment's discourse events and computes the M/T/L scalars.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type analyzeRequest struct {
	SessionID  string      `json:"session_id"`
	SegmentID  int         `json:"segment_id"`
	StartSec   float64     `json:"start_sec"`
	EndSec     float64     `json:"end_sec"`
	Utterances []Utterance `json:"utterances"`
}

// AnalyzeSegment submits the segment to the classifier and returns its
// metrics. Failures are returned unchanged to the caller; this client
// does not retry.
func (c *Client) AnalyzeSegment(ctx context.Context, sessionID string, segmentID int, startSec, endSec float64, utterances []Utterance) (*Metrics, error) {
	body, err := json.Marshal(analyzeRequest{
		SessionID:  sessionID,
		SegmentID:  segmentID,
		StartSec:   startSec,
		EndSec:     endSec,
		Utterances: utterances,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/api/v1/analyze/segment"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build baseline request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("baseline request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read baseline response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("baseline returned %d: %s", resp.StatusCode, string(respBody))
	}

	var m Metrics
	if err := json.Unmarshal(respBody, &m); err != nil {
		return nil, fmt.Errorf("parse baseline response: %w", err)
	}

	return &m, nil
}
