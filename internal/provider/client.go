// Package provider wraps the upstream video generation API behind one
// canonical shape. The upstream's JSON field names have drifted across
// revisions, so all shape normalization lives here and nowhere else.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNoTaskID means the create call answered without any recognizable task
// identifier. Fatal to the request, never retried.
var ErrNoTaskID = errors.New("no task id in provider response")

// Task states after normalization.
type State string

const (
	StatePending   State = "pending"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// TaskStatus is the canonical result of a status poll. VideoURL is set only
// when State is StateCompleted.
type TaskStatus struct {
	State    State
	VideoURL string
}

// Client talks to the upstream video generation API
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a provider client with a bounded per-call timeout
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// CreateTask submits a prompt and returns the upstream task identifier
func (c *Client) CreateTask(ctx context.Context, prompt string) (string, error) {
	u := c.baseURL + "?action=create&prompt=" + url.QueryEscape(prompt)
	body, err := c.get(ctx, u)
	if err != nil {
		return "", err
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	// Accepted spellings have varied between upstream revisions
	taskID := firstString(raw, "taskId", "task_id", "id")
	if taskID == "" {
		logrus.WithField("response", string(body)).Error("Provider create response has no task id")
		return "", ErrNoTaskID
	}
	return taskID, nil
}

// TaskStatus polls the upstream task state and normalizes it
func (c *Client) TaskStatus(ctx context.Context, taskID string) (TaskStatus, error) {
	u := c.baseURL + "?action=status&taskId=" + url.QueryEscape(taskID)
	body, err := c.get(ctx, u)
	if err != nil {
		return TaskStatus{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return TaskStatus{}, fmt.Errorf("decode status response: %w", err)
	}
	switch firstString(raw, "status", "state") {
	case "completed":
		return TaskStatus{State: StateCompleted, VideoURL: extractVideoURL(raw)}, nil
	case "failed":
		return TaskStatus{State: StateFailed}, nil
	default:
		return TaskStatus{State: StatePending}, nil
	}
}

// get performs a GET and returns the body, treating non-2xx as an error
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// extractVideoURL finds the playable URL under the spellings the upstream has
// used: videoUrl, url, video_url, or nested result.url
func extractVideoURL(raw map[string]any) string {
	if u := firstString(raw, "videoUrl", "url", "video_url"); u != "" {
		return u
	}
	if result, ok := raw["result"].(map[string]any); ok {
		return firstString(result, "url")
	}
	return ""
}

// firstString returns the first non-empty string value among the given keys
func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
