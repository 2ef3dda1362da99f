// Package ofac downloads the published SDN list from the U.S. Treasury.
package ofac

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSourceURL is the published location of the SDN list in CSV form
const DefaultSourceURL = "https://www.treasury.gov/ofac/downloads/sdn.csv"

// maxBodyBytes bounds the download. The published file is a few MB.
const maxBodyBytes = 64 << 20

// ErrBodyTooLarge is returned when the download exceeds the size limit
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// ErrUnexpectedStatus is matched by every *StatusError
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// StatusError reports a non-2xx response from the source
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s: %d", e.URL, ErrUnexpectedStatus, e.StatusCode)
}

// Is lets errors.Is(err, ErrUnexpectedStatus) match
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// Client fetches the raw SDN document
type Client struct {
	baseURL   string
	client    *http.Client
	userAgent string
	maxBytes  int64
	log       zerolog.Logger
}

// NewClient creates a client for sourceURL; an empty URL uses DefaultSourceURL
func NewClient(sourceURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if sourceURL == "" {
		sourceURL = DefaultSourceURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   sourceURL,
		client:    &http.Client{Timeout: timeout},
		userAgent: "sdnwatch/1.0",
		maxBytes:  maxBodyBytes,
		log:       log.With().Str("client", "ofac").Logger(),
	}
}

// Fetch downloads the SDN document as text
func (c *Client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	start := time.Now()
	c.log.Debug().Str("url", c.baseURL).Msg("Fetching SDN list")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, URL: c.baseURL}
	}

	// One byte past the limit tells a full body from a truncated one
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return "", fmt.Errorf("GET %s: %w (%d bytes)", c.baseURL, ErrBodyTooLarge, c.maxBytes)
	}

	c.log.Info().
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("SDN list downloaded")

	return string(body), nil
}
