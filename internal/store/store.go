package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/norwich-event-hub/scraper/internal/event"
	"github.com/norwich-event-hub/scraper/internal/logger"
)

const (
	requestTimeout = 10 * time.Second
	submitRetries  = 3
)

// Client talks to the external event store over its HTTP contract.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	retryInitial time.Duration
}

// NewClient creates a store client for the given endpoint URL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("store URL is required")
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}, nil
}

// Submission is one event write, with the promoter and moderation fields
// the store tracks on top of the scraped record.
type Submission struct {
	event.Event
	PromoterName  string `json:"promoterName,omitempty"`
	PromoterEmail string `json:"promoterEmail,omitempty"`
	Status        string `json:"status,omitempty"`
	Featured      bool   `json:"featured,omitempty"`
}

// storeResponse is the store's uniform reply envelope.
type storeResponse struct {
	Success bool          `json:"success"`
	EventID string        `json:"eventId"`
	Message string        `json:"message"`
	Events  []event.Event `json:"events"`
}

// Submit writes one event to the store and returns the assigned event ID.
// Transient failures are retried with exponential backoff.
func (c *Client) Submit(ctx context.Context, sub Submission) (string, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("marshaling submission: %w", err)
	}

	var eventID string
	op := func() error {
		resp, err := c.post(ctx, payload)
		if err != nil {
			return err
		}
		if !resp.Success {
			// the store rejected the submission; retrying won't change that
			return backoff.Permanent(fmt.Errorf("store rejected submission: %s", resp.Message))
		}
		eventID = resp.EventID
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	if c.retryInitial > 0 {
		bo.InitialInterval = c.retryInitial
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, submitRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", fmt.Errorf("submitting %q: %w", sub.Name, err)
	}
	return eventID, nil
}

// SubmitScraped writes a batch of scraped events as pending submissions.
// It continues past individual failures and returns how many were accepted.
func (c *Client) SubmitScraped(ctx context.Context, events []event.Event) (int, error) {
	submitted := 0
	var lastErr error
	for _, evt := range events {
		_, err := c.Submit(ctx, Submission{Event: evt, Status: "pending"})
		if err != nil {
			lastErr = err
			logger.Error("event submission failed", logger.Fields{"event": evt.Name}, err)
			continue
		}
		submitted++
	}
	if submitted == 0 && lastErr != nil {
		return 0, lastErr
	}
	return submitted, nil
}

// ApprovedEvents returns the events the store has marked approved — the set
// the public site displays.
func (c *Client) ApprovedEvents(ctx context.Context) ([]event.Event, error) {
	return c.get(ctx, c.baseURL)
}

// AllEvents returns every stored event regardless of status.
func (c *Client) AllEvents(ctx context.Context) ([]event.Event, error) {
	return c.get(ctx, c.baseURL+"?action=getAllEvents")
}

// UpdateStatus moves one stored event to a new approval status.
func (c *Client) UpdateStatus(ctx context.Context, eventID, status string) error {
	payload, err := json.Marshal(map[string]string{
		"action":  "updateStatus",
		"eventId": eventID,
		"status":  status,
	})
	if err != nil {
		return fmt.Errorf("marshaling status update: %w", err)
	}

	resp, err := c.post(ctx, payload)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("store rejected status update: %s", resp.Message)
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload []byte) (*storeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) get(ctx context.Context, url string) ([]event.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("store error: %s", resp.Message)
	}
	return resp.Events, nil
}

func (c *Client) do(req *http.Request) (*storeResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("store error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed storeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return &parsed, nil
}
