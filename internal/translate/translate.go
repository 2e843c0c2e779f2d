// Package translate turns terse gesture phrases into natural sentences by
// calling a remote language service. The service is optional: callers keep
// the raw phrase whenever this package returns an error.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Client talks to the language service. The zero value is not usable; use New.
type Client struct {
	baseURL string
	c       *http.Client
}

// New creates a client for the service at baseURL. The timeout bounds one
// whole request including the response body.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        16,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		c: &http.Client{
			Transport: tr,
			Timeout:   timeout,
		},
	}
}

type improveReq struct {
	Text string `json:"text"`
}

type improveResp struct {
	Text string `json:"text"`
}

// Translate sends a phrase to the service's /improve endpoint and returns
// the improved sentence. Empty and single-word phrases come back unchanged
// without a network call; there is nothing to improve about "hello".
func (t *Client) Translate(ctx context.Context, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || len(strings.Fields(trimmed)) == 1 {
		return text, nil
	}

	payload, err := json.Marshal(improveReq{Text: trimmed})
	if err != nil {
		return "", fmt.Errorf("translate marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/improve", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		const maxErr = 4096
		lb := io.LimitReader(resp.Body, maxErr)
		b, _ := io.ReadAll(lb)
		return "", fmt.Errorf("translate %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var out improveResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("translate decode: %w", err)
	}

	// Language models love to quote their answers.
	return strings.Trim(strings.TrimSpace(out.Text), `"'`), nil
}
