package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// requestTimeout bounds a single relay attempt.
	requestTimeout = 15 * time.Second
	userAgent      = "jobscout/1.0 (+https://github.com/avisri/jobscout)"
)

// Endpoint describes one relay intermediary able to carry a cross-origin
// request on our behalf. Build produces the relay URL for a target; Unwrap
// extracts the proxied payload from the relay's own response envelope.
type Endpoint struct {
	Name   string
	Build  func(target string) string
	Unwrap func(body []byte) ([]byte, error)
}

// DefaultChain returns the relay endpoints in priority order. The first
// endpoint wraps the payload in a JSON envelope; the others pass it through.
func DefaultChain() []Endpoint {
	return []Endpoint{
		{
			Name: "allorigins",
			Build: func(target string) string {
				return "https://api.allorigins.win/get?url=" + url.QueryEscape(target)
			},
			Unwrap: unwrapContents,
		},
		{
			Name: "corsproxy",
			Build: func(target string) string {
				return "https://corsproxy.io/?" + target
			},
			Unwrap: passthrough,
		},
		{
			Name: "codetabs",
			Build: func(target string) string {
				return "https://api.codetabs.com/v1/proxy?quest=" + target
			},
			Unwrap: passthrough,
		},
	}
}

// FromTemplates builds endpoints from configured URL prefixes. The target URL
// is query-escaped and appended; envelopes are detected automatically.
func FromTemplates(templates []string) []Endpoint {
	endpoints := make([]Endpoint, 0, len(templates))
	for _, tmpl := range templates {
		prefix := strings.TrimSpace(tmpl)
		if prefix == "" {
			continue
		}
		endpoints = append(endpoints, Endpoint{
			Name: endpointName(prefix),
			Build: func(target string) string {
				return prefix + url.QueryEscape(target)
			},
			Unwrap: autoUnwrap,
		})
	}
	return endpoints
}

// Client attempts each relay endpoint in order and returns the first
// shape-valid payload.
type Client struct {
	endpoints []Endpoint
	logger    *zap.Logger

	HTTPClient *http.Client
}

func New(endpoints []Endpoint, logger *zap.Logger) *Client {
	if len(endpoints) == 0 {
		endpoints = DefaultChain()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		endpoints: endpoints,
		logger:    logger,
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Fetch requests the target URL through the relay chain. A payload is accepted
// when it decodes to an object carrying a results array, or to a top-level
// array. When every relay fails, a single aggregated error is returned.
func (c *Client) Fetch(ctx context.Context, target string) (json.RawMessage, error) {
	failures := make([]string, 0, len(c.endpoints))

	for _, endpoint := range c.endpoints {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		payload, err := c.attempt(ctx, endpoint, target)
		if err != nil {
			c.logger.Debug("relay attempt failed",
				zap.String("relay", endpoint.Name),
				zap.Error(err),
			)
			failures = append(failures, fmt.Sprintf("%s: %v", endpoint.Name, err))
			continue
		}

		c.logger.Debug("relay attempt succeeded", zap.String("relay", endpoint.Name))
		return payload, nil
	}

	return nil, fmt.Errorf("all %d relays failed: %s", len(c.endpoints), strings.Join(failures, "; "))
}

func (c *Client) attempt(ctx context.Context, endpoint Endpoint, target string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.Build(target), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	unwrap := endpoint.Unwrap
	if unwrap == nil {
		unwrap = passthrough
	}
	payload, err := unwrap(body)
	if err != nil {
		return nil, err
	}

	if !shapeValid(payload) {
		return nil, fmt.Errorf("payload has no results array")
	}

	return payload, nil
}

// shapeValid accepts an object with a results array or a top-level array.
func shapeValid(payload []byte) bool {
	var asList []any
	if err := json.Unmarshal(payload, &asList); err == nil {
		return true
	}

	var asObject struct {
		Results []any `json:"results"`
	}
	if err := json.Unmarshal(payload, &asObject); err != nil {
		return false
	}
	return asObject.Results != nil
}

// unwrapContents handles the allorigins envelope, where the proxied body is a
// JSON-encoded string under the contents key.
func unwrapContents(body []byte) ([]byte, error) {
	var envelope struct {
		Contents string `json:"contents"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode relay envelope: %w", err)
	}
	if strings.TrimSpace(envelope.Contents) == "" {
		return nil, fmt.Errorf("relay envelope is empty")
	}
	return []byte(envelope.Contents), nil
}

func passthrough(body []byte) ([]byte, error) {
	return body, nil
}

// autoUnwrap probes for a contents envelope and falls back to the raw body.
func autoUnwrap(body []byte) ([]byte, error) {
	if inner, err := unwrapContents(body); err == nil {
		return inner, nil
	}
	return body, nil
}

func endpointName(prefix string) string {
	parsed, err := url.Parse(prefix)
	if err != nil || parsed.Host == "" {
		return prefix
	}
	return parsed.Host
}
